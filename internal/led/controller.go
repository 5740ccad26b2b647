package led

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/logging"
)

// Transport sends payloads to a controller. *udp.Client implements it.
type Transport interface {
	SendContext(ctx context.Context, ip, data string) error
	SendAndReceiveContext(ctx context.Context, ip, data string) (string, error)
}

// Controller holds the local view of one LED controller and issues commands
// to it over a Transport. It is safe for concurrent use.
type Controller struct {
	transport Transport

	mu        sync.RWMutex
	ip        string
	config    Config
	connected bool
}

// NewController creates a controller for ip starting from DefaultConfig
func NewController(ip string, transport Transport) *Controller {
	return &Controller{
		transport: transport,
		ip:        ip,
		config:    DefaultConfig(),
	}
}

// IP returns the controller address
func (c *Controller) IP() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ip
}

// SetIP points the controller at a new address and drops the connection
func (c *Controller) SetIP(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ip != c.ip {
		c.ip = ip
		c.connected = false
	}
}

// Connected reports whether the last Connect succeeded
func (c *Controller) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Disconnect marks the controller as not connected
func (c *Controller) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
}

// Config returns a copy of the current local config
func (c *Controller) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Update applies fn to the local config and returns the result. Nothing is
// sent; use Apply or a Heartbeat for that.
func (c *Controller) Update(fn func(*Config)) Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.config)
	return c.config
}

// Connect reads the device config with get_config and merges it over the
// local config. On failure the controller is left disconnected.
func (c *Controller) Connect(ctx context.Context) (Config, error) {
	ip := c.IP()

	reply, err := c.transport.SendAndReceiveContext(ctx, ip, CommandPayload(CmdGetConfig))
	if err != nil {
		c.Disconnect()
		return Config{}, fmt.Errorf("failed to read config from %s: %w", ip, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	merged := c.config
	if err := merged.Merge(reply); err != nil {
		c.connected = false
		return Config{}, err
	}
	c.config = merged
	c.connected = true

	logging.Info("Connected to controller",
		zap.String("ip", ip),
		zap.Int("total_leds", merged.TotalLEDs),
		zap.String("effect", merged.Effect.String()),
	)
	return merged, nil
}

// Apply sends the full local config as a "config" command
func (c *Controller) Apply(ctx context.Context) error {
	payload, err := ConfigPayload(c.Config())
	if err != nil {
		return err
	}
	return c.send(ctx, payload)
}

// Command sends an argument-less command such as save, all_on or all_off
func (c *Controller) Command(ctx context.Context, cmd string) error {
	if !IsSimpleCommand(cmd) {
		return NewValidationError("cmd", fmt.Sprintf("unsupported command %q", cmd))
	}
	return c.send(ctx, CommandPayload(cmd))
}

// SetPixel sets one pixel to an explicit colour
func (c *Controller) SetPixel(ctx context.Context, idx, r, g, b int) error {
	payload, err := PixelPayload(idx, r, g, b)
	if err != nil {
		return err
	}
	return c.send(ctx, payload)
}

// SetPixelToSolid sets one pixel to the current solid colour
func (c *Controller) SetPixelToSolid(ctx context.Context, idx int) error {
	cfg := c.Config()
	return c.SetPixel(ctx, idx, cfg.SolidR, cfg.SolidG, cfg.SolidB)
}

// ClearPixel turns one pixel off
func (c *Controller) ClearPixel(ctx context.Context, idx int) error {
	return c.SetPixel(ctx, idx, 0, 0, 0)
}

// SaveWiFi sends the WiFi list and then asks the device to persist it
func (c *Controller) SaveWiFi(ctx context.Context, networks []WiFiNetwork) error {
	if errs := ValidateWiFi(networks); len(errs) > 0 {
		return errors.Join(errs...)
	}

	payload, err := WiFiPayload(networks)
	if err != nil {
		return err
	}
	if err := c.send(ctx, payload); err != nil {
		return err
	}
	if err := c.send(ctx, CommandPayload(CmdSave)); err != nil {
		return err
	}

	c.Update(func(cfg *Config) { cfg.WiFi = networks })
	return nil
}

func (c *Controller) send(ctx context.Context, payload string) error {
	ip := c.IP()
	if err := c.transport.SendContext(ctx, ip, payload); err != nil {
		return fmt.Errorf("failed to send to %s: %w", ip, err)
	}
	return nil
}
