package led

import (
	"context"
	"strings"
	"testing"
	"time"
)

func connectedController(t *testing.T, transport *fakeTransport) *Controller {
	t.Helper()
	transport.reply = `{}`
	ctrl := NewController("10.0.0.2", transport)
	if _, err := ctrl.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return ctrl
}

func TestNewHeartbeat_DefaultInterval(t *testing.T) {
	hb := NewHeartbeat(NewController("10.0.0.2", &fakeTransport{}), 0)
	if hb.Interval() != DefaultHeartbeatInterval {
		t.Errorf("Interval() = %v, want %v", hb.Interval(), DefaultHeartbeatInterval)
	}
	if DefaultHeartbeatInterval != 100*time.Millisecond {
		t.Errorf("DefaultHeartbeatInterval = %v, want 100ms", DefaultHeartbeatInterval)
	}
}

func TestHeartbeat_SendsWhileConnected(t *testing.T) {
	transport := &fakeTransport{}
	ctrl := connectedController(t, transport)

	hb := NewHeartbeat(ctrl, 10*time.Millisecond)
	hb.Start(context.Background())
	time.Sleep(150 * time.Millisecond)
	hb.Stop()

	stats := hb.Stats()
	if stats.Sent < 3 {
		t.Errorf("Sent = %d, want at least 3 in 150ms at 10ms interval", stats.Sent)
	}

	// First payload is the get_config from Connect
	for _, p := range transport.payloads()[1:] {
		if !strings.HasPrefix(p, `{"cmd":"config",`) {
			t.Fatalf("heartbeat sent %s, want config command", p)
		}
	}
}

func TestHeartbeat_IdleWhenDisconnected(t *testing.T) {
	transport := &fakeTransport{}
	ctrl := NewController("10.0.0.2", transport)

	hb := NewHeartbeat(ctrl, 5*time.Millisecond)
	hb.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	hb.Stop()

	if n := len(transport.payloads()); n != 0 {
		t.Errorf("sent %d payloads while disconnected, want 0", n)
	}
}

func TestHeartbeat_SkipsWhileInFlight(t *testing.T) {
	transport := &fakeTransport{}
	ctrl := connectedController(t, transport)
	transport.mu.Lock()
	transport.delay = 60 * time.Millisecond
	transport.mu.Unlock()

	hb := NewHeartbeat(ctrl, 5*time.Millisecond)
	hb.Start(context.Background())
	time.Sleep(150 * time.Millisecond)
	hb.Stop()

	stats := hb.Stats()
	if stats.Skipped == 0 {
		t.Error("Skipped = 0, want ticks skipped while a slow send is in flight")
	}
	if stats.Sent > 3 {
		t.Errorf("Sent = %d, want at most 3 with a 60ms send", stats.Sent)
	}
}

func TestHeartbeat_CountsFailures(t *testing.T) {
	transport := &fakeTransport{}
	ctrl := connectedController(t, transport)
	transport.mu.Lock()
	transport.sendErr = errFakeSend
	transport.mu.Unlock()

	hb := NewHeartbeat(ctrl, 5*time.Millisecond)
	hb.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	hb.Stop()

	stats := hb.Stats()
	if stats.Failed == 0 {
		t.Error("Failed = 0, want failures counted")
	}
	if stats.Sent != 0 {
		t.Errorf("Sent = %d, want 0", stats.Sent)
	}
}

func TestHeartbeat_StartStop(t *testing.T) {
	hb := NewHeartbeat(NewController("10.0.0.2", &fakeTransport{}), 5*time.Millisecond)

	if hb.Running() {
		t.Error("Running() = true before Start")
	}

	ctx := context.Background()
	hb.Start(ctx)
	hb.Start(ctx)
	if !hb.Running() {
		t.Error("Running() = false after Start")
	}

	hb.Stop()
	hb.Stop()
	if hb.Running() {
		t.Error("Running() = true after Stop")
	}

	hb.Start(ctx)
	if !hb.Running() {
		t.Error("heartbeat should restart after Stop")
	}
	hb.Stop()
}

func TestHeartbeat_StopsOnContextCancel(t *testing.T) {
	transport := &fakeTransport{}
	ctrl := connectedController(t, transport)

	ctx, cancel := context.WithCancel(context.Background())
	hb := NewHeartbeat(ctrl, 5*time.Millisecond)
	hb.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	before := len(transport.payloads())
	time.Sleep(30 * time.Millisecond)
	if after := len(transport.payloads()); after != before {
		t.Errorf("payloads grew from %d to %d after cancel", before, after)
	}
	hb.Stop()
}
