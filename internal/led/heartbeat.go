package led

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/logging"
)

// DefaultHeartbeatInterval is how often the full config is re-sent while
// connected
const DefaultHeartbeatInterval = 100 * time.Millisecond

// HeartbeatStats counts heartbeat outcomes
type HeartbeatStats struct {
	Sent    uint64 // Config datagrams sent successfully
	Failed  uint64 // Sends that returned an error
	Skipped uint64 // Ticks dropped because a send was still in flight
}

// Heartbeat keeps a controller in sync by sending its config on a fixed
// interval. UDP gives no delivery guarantee, so the latest state is simply
// repeated. Ticks are skipped while the controller is disconnected or while
// the previous send has not returned.
type Heartbeat struct {
	controller *Controller
	interval   time.Duration

	inFlight atomic.Bool
	sent     atomic.Uint64
	failed   atomic.Uint64
	skipped  atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHeartbeat creates a heartbeat for controller. A non-positive interval
// uses DefaultHeartbeatInterval.
func NewHeartbeat(controller *Controller, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Heartbeat{
		controller: controller,
		interval:   interval,
	}
}

// Interval returns the send interval
func (h *Heartbeat) Interval() time.Duration {
	return h.interval
}

// Start begins sending in the background. Calling Start on a running
// heartbeat is a no-op.
func (h *Heartbeat) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel

	h.wg.Add(1)
	go h.run(ctx)
}

// Stop ends the loop and waits for any in-flight send to return
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	cancel := h.cancel
	h.cancel = nil
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	h.wg.Wait()
}

// Running reports whether the heartbeat loop is active
func (h *Heartbeat) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancel != nil
}

// Stats returns a snapshot of the counters
func (h *Heartbeat) Stats() HeartbeatStats {
	return HeartbeatStats{
		Sent:    h.sent.Load(),
		Failed:  h.failed.Load(),
		Skipped: h.skipped.Load(),
	}
}

func (h *Heartbeat) run(ctx context.Context) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick(ctx)
		}
	}
}

func (h *Heartbeat) tick(ctx context.Context) {
	if !h.controller.Connected() {
		return
	}
	if !h.inFlight.CompareAndSwap(false, true) {
		h.skipped.Add(1)
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.inFlight.Store(false)

		if err := h.controller.Apply(ctx); err != nil {
			h.failed.Add(1)
			logging.Debug("Heartbeat send failed",
				zap.String("ip", h.controller.IP()),
				zap.Error(err),
			)
			return
		}
		h.sent.Add(1)
	}()
}
