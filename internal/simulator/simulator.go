package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/discovery"
	"github.com/muurk/ledlink/internal/led"
	"github.com/muurk/ledlink/internal/logging"
	"github.com/muurk/ledlink/internal/udp"
)

const maxDatagramSize = 65535

// Config holds the simulator configuration
type Config struct {
	Host     string // Listen host; empty listens on all interfaces
	Port     int    // Listen port; 0 picks a free port
	IP       string // Address reported in discover replies; empty uses the local address facing the requester
	MAC      string // MAC reported in discover replies; empty generates a random one
	Announce bool   // Advertise over mDNS while running
	Instance string // mDNS instance name; empty derives one from the MAC
}

// Simulator answers controller commands over UDP the way a real LED strip
// controller does. It is safe for concurrent use.
type Simulator struct {
	config *Config
	mac    string

	conn         net.PacketConn
	announcement *discovery.Announcement
	wg           sync.WaitGroup
	closed       atomic.Bool

	mu     sync.Mutex
	state  led.Config
	saved  *led.Config
	lit    bool
	pixels map[int][3]int

	requests atomic.Uint64
}

// New creates a simulator starting from led.DefaultConfig
func New(config *Config) (*Simulator, error) {
	if config == nil {
		config = &Config{Port: udp.Port}
	}

	mac := config.MAC
	if mac == "" {
		mac = RandomMAC()
	} else {
		hw, err := net.ParseMAC(mac)
		if err != nil {
			return nil, fmt.Errorf("invalid MAC address %q: %w", mac, err)
		}
		mac = hw.String()
	}

	if config.IP != "" && net.ParseIP(config.IP) == nil {
		return nil, fmt.Errorf("invalid IP address %q", config.IP)
	}

	return &Simulator{
		config: config,
		mac:    mac,
		state:  led.DefaultConfig(),
		pixels: make(map[int][3]int),
	}, nil
}

// RandomMAC returns a locally administered unicast MAC address
func RandomMAC() string {
	id := uuid.New()
	hw := net.HardwareAddr{(id[0] | 0x02) &^ 0x01, id[1], id[2], id[3], id[4], id[5]}
	return hw.String()
}

// MAC returns the address reported in discover replies
func (s *Simulator) MAC() string {
	return s.mac
}

// Listen binds the UDP socket. Start calls it; tests call it directly to
// learn the bound port before serving.
func (s *Simulator) Listen() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	conn, err := net.ListenPacket("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.conn = conn

	logging.Info("Simulator listening",
		zap.String("addr", conn.LocalAddr().String()),
		zap.String("mac", s.mac),
	)
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Simulator) Addr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Port returns the bound UDP port, or 0 before Listen
func (s *Simulator) Port() int {
	if addr, ok := s.Addr().(*net.UDPAddr); ok {
		return addr.Port
	}
	return 0
}

// Start listens, optionally announces over mDNS, and serves until ctx is
// cancelled.
func (s *Simulator) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	if s.config.Announce {
		instance := s.config.Instance
		if instance == "" {
			instance = "ledlink-" + s.mac
		}
		a, err := discovery.Announce(instance, s.config.IP, s.mac, s.Port())
		if err != nil {
			logging.Warn("mDNS announcement failed, continuing without it", zap.Error(err))
		} else {
			s.announcement = a
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping simulator...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Serve reads and answers datagrams until the socket is closed
func (s *Simulator) Serve(ctx context.Context) error {
	if s.conn == nil {
		return errors.New("simulator is not listening")
	}

	s.wg.Add(1)
	defer s.wg.Done()

	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.Close()
	})
	defer stop()

	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		if err != nil {
			if s.closed.Load() || ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			logging.Error("Failed to read datagram", zap.Error(err))
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		s.handle(data, addr)
	}
}

// handle processes one datagram and writes a reply when the command has one
func (s *Simulator) handle(data []byte, addr net.Addr) {
	s.requests.Add(1)
	logging.LogPacket("recv", addr.String(), data)

	req, err := led.ParseRequest(data)
	if err != nil {
		logging.Debug("Ignoring malformed datagram",
			zap.String("remote_addr", addr.String()),
			zap.Error(err),
		)
		return
	}

	var reply []byte
	switch req.Cmd {
	case led.CmdDiscover:
		reply, err = json.Marshal(udp.DeviceRecord{IP: s.reportedIP(addr), MAC: s.mac})

	case led.CmdGetConfig:
		cfg := s.State()
		cfg.WiFi = nil
		reply, err = json.Marshal(cfg)

	case led.CmdConfig:
		s.mu.Lock()
		err = s.state.Merge(string(data))
		s.mu.Unlock()

	case led.CmdPixel:
		var idx, r, g, b int
		idx, r, g, b, err = led.ParsePixel(data)
		if err == nil {
			s.mu.Lock()
			s.pixels[idx] = [3]int{r, g, b}
			s.mu.Unlock()
		}

	case led.CmdSave:
		s.mu.Lock()
		saved := s.state
		s.saved = &saved
		s.mu.Unlock()

	case led.CmdAllOn, led.CmdAllOff:
		s.mu.Lock()
		s.lit = req.Cmd == led.CmdAllOn
		s.mu.Unlock()

	default:
		logging.Debug("Ignoring unknown command", zap.String("cmd", req.Cmd))
		return
	}

	if err != nil {
		logging.Warn("Failed to handle command",
			zap.String("cmd", req.Cmd),
			zap.String("remote_addr", addr.String()),
			zap.Error(err),
		)
		return
	}
	if reply == nil {
		return
	}

	if _, err := s.conn.WriteTo(reply, addr); err != nil {
		logging.Warn("Failed to send reply",
			zap.String("remote_addr", addr.String()),
			zap.Error(err),
		)
		return
	}
	logging.LogPacket("send", addr.String(), reply)
}

// reportedIP returns the configured IP, or the local address that routes to
// the requester.
func (s *Simulator) reportedIP(remote net.Addr) string {
	if s.config.IP != "" {
		return s.config.IP
	}
	conn, err := net.Dial("udp4", remote.String())
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if local, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return local.IP.String()
	}
	return "127.0.0.1"
}

// State returns a copy of the current LED config
func (s *Simulator) State() led.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Saved returns the config captured by the last save command
func (s *Simulator) Saved() (led.Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return led.Config{}, false
	}
	return *s.saved, true
}

// Lit reports whether the last all_on/all_off was all_on
func (s *Simulator) Lit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lit
}

// Pixel returns the colour set for idx by pixel commands
func (s *Simulator) Pixel(idx int) ([3]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rgb, ok := s.pixels[idx]
	return rgb, ok
}

// Requests returns the number of datagrams received
func (s *Simulator) Requests() uint64 {
	return s.requests.Load()
}

// Shutdown closes the socket, withdraws any mDNS announcement and waits for
// Serve to return.
func (s *Simulator) Shutdown(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	logging.Info("Shutting down simulator...")

	s.announcement.Shutdown()

	if s.conn != nil {
		if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logging.Error("Error closing socket", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("Simulator stopped")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
		return ctx.Err()
	}

	logging.Sync()
	return nil
}
