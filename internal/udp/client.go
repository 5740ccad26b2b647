package udp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/logging"
)

const (
	// Port is the UDP port every controller listens on
	Port = 8888

	// BroadcastAddr is the limited broadcast address used for discovery
	BroadcastAddr = "255.255.255.255"

	// ReplyTimeout bounds the wait for a single reply in SendAndReceive
	ReplyTimeout = 2 * time.Second

	// ScanWindow is how long a discovery scan collects replies
	ScanWindow = 2 * time.Second

	// PollInterval is the per-receive timeout inside the scan loop
	PollInterval = 100 * time.Millisecond

	// maxDatagramSize is large enough for any UDP payload over IPv4
	maxDatagramSize = 65535
)

// Client performs the three UDP operations. The zero value is not usable;
// construct with NewClient. A Client holds no sockets between calls and is
// safe for concurrent use.
type Client struct {
	// Port is the destination port for every operation
	Port int

	// BroadcastAddr is the destination host of the discovery broadcast
	BroadcastAddr string

	// ReplyTimeout bounds SendAndReceive
	ReplyTimeout time.Duration

	// ScanWindow is the total duration of a scan
	ScanWindow time.Duration

	// PollInterval is the per-receive timeout inside the scan loop
	PollInterval time.Duration
}

// NewClient creates a client with the fixed protocol settings
func NewClient() *Client {
	return &Client{
		Port:          Port,
		BroadcastAddr: BroadcastAddr,
		ReplyTimeout:  ReplyTimeout,
		ScanWindow:    ScanWindow,
		PollInterval:  PollInterval,
	}
}

// Send transmits data to ip without waiting for a response
func (c *Client) Send(ip, data string) error {
	return c.SendContext(context.Background(), ip, data)
}

// SendContext is Send with a caller context. The context only bounds socket
// setup and the write; no response is read.
func (c *Client) SendContext(ctx context.Context, ip, data string) error {
	conn, err := c.listen(ctx, false)
	if err != nil {
		return err
	}
	defer conn.Close()

	target, err := c.resolve(ip)
	if err != nil {
		return err
	}

	return c.write(ctx, conn, target, []byte(data))
}

// SendAndReceive transmits data to ip and waits up to ReplyTimeout for a
// single reply, which is returned as best-effort UTF-8 text.
func (c *Client) SendAndReceive(ip, data string) (string, error) {
	return c.SendAndReceiveContext(context.Background(), ip, data)
}

// SendAndReceiveContext is SendAndReceive with a caller context. The reply
// wait ends at whichever comes first: ReplyTimeout or the context.
func (c *Client) SendAndReceiveContext(ctx context.Context, ip, data string) (string, error) {
	conn, err := c.listen(ctx, false)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	target, err := c.resolve(ip)
	if err != nil {
		return "", err
	}

	if err := c.write(ctx, conn, target, []byte(data)); err != nil {
		return "", err
	}

	deadline := time.Now().Add(c.ReplyTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return "", newError(ErrSocketSetup, target.String(), "failed to set receive timeout", err)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, maxDatagramSize)
	n, from, err := conn.ReadFrom(buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", newError(ErrTimeout, target.String(), "request cancelled", ctxErr)
		}
		if isNetTimeout(err) {
			return "", newError(ErrTimeout, target.String(),
				fmt.Sprintf("no reply from %s within %s", target, c.ReplyTimeout), err)
		}
		return "", newError(ErrReceive, target.String(), "failed to receive reply", err)
	}

	logging.LogPacket("received", from.String(), buf[:n])
	return DecodeText(buf[:n]), nil
}

// Scan broadcasts a discovery request and collects distinct device records
// for ScanWindow. Finding no devices is not an error.
func (c *Client) Scan() ([]DeviceRecord, error) {
	return c.ScanContext(context.Background())
}

// ScanContext is Scan with a caller context. Cancelling the context ends the
// scan early; the records collected so far are returned with the context
// error.
//
// A receive timeout only re-checks the window. Any other receive error ends
// the scan and is returned along with the records collected so far.
func (c *Client) ScanContext(ctx context.Context) ([]DeviceRecord, error) {
	start := time.Now()

	conn, err := c.listen(ctx, true)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	target, err := c.resolve(c.BroadcastAddr)
	if err != nil {
		return nil, err
	}

	if err := c.write(ctx, conn, target, []byte(DiscoverPayload)); err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	found := newDedupe()
	buf := make([]byte, maxDatagramSize)

	for time.Since(start) < c.ScanWindow {
		if err := ctx.Err(); err != nil {
			return found.records, err
		}

		if err := conn.SetReadDeadline(time.Now().Add(c.PollInterval)); err != nil {
			return found.records, newError(ErrReceive, target.String(), "failed to set receive timeout", err)
		}

		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return found.records, ctxErr
			}
			if isNetTimeout(err) {
				continue
			}
			logging.Warn("Scan aborted by receive error",
				zap.Int("devices", len(found.records)),
				zap.Error(err),
			)
			return found.records, newError(ErrReceive, target.String(), "scan aborted by receive error", err)
		}

		logging.LogPacket("received", from.String(), buf[:n])

		record, err := ParseRecord(buf[:n])
		if err != nil {
			logging.Debug("Dropping discovery reply",
				zap.String("from", from.String()),
				zap.Error(err),
			)
			continue
		}

		if !found.add(record) {
			logging.Debug("Ignoring duplicate discovery reply",
				zap.String("from", from.String()),
				zap.String("ip", record.IP),
				zap.String("mac", record.MAC),
			)
		}
	}

	logging.Debug("Scan finished",
		zap.Int("devices", len(found.records)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return found.records, nil
}

// listen opens an ephemeral IPv4 socket on an unused local port
func (c *Client) listen(ctx context.Context, broadcast bool) (net.PacketConn, error) {
	lc := net.ListenConfig{}
	if broadcast {
		lc.Control = enableBroadcast
	}

	conn, err := lc.ListenPacket(ctx, "udp4", "0.0.0.0:0")
	if err != nil {
		return nil, newError(ErrSocketSetup, "", "failed to open UDP socket", err)
	}

	logging.Debug("UDP socket bound",
		zap.String("local_addr", conn.LocalAddr().String()),
		zap.Bool("broadcast", broadcast),
	)
	return conn, nil
}

// resolve turns ip into a destination on the client's port
func (c *Client) resolve(ip string) (*net.UDPAddr, error) {
	hostport := net.JoinHostPort(ip, strconv.Itoa(c.Port))
	addr, err := net.ResolveUDPAddr("udp4", hostport)
	if err != nil {
		return nil, newError(ErrAddress, ip, fmt.Sprintf("cannot resolve %s", hostport), err)
	}
	return addr, nil
}

func (c *Client) write(ctx context.Context, conn net.PacketConn, target *net.UDPAddr, data []byte) error {
	if d, ok := ctx.Deadline(); ok {
		if err := conn.SetWriteDeadline(d); err != nil {
			return newError(ErrSocketSetup, target.String(), "failed to set send timeout", err)
		}
	}

	if _, err := conn.WriteTo(data, target); err != nil {
		return newError(ErrSend, target.String(), fmt.Sprintf("failed to send to %s", target), err)
	}

	logging.LogPacket("sent", target.String(), data)
	return nil
}

var defaultClient = NewClient()

// Send transmits data to ip:8888 using the default client
func Send(ip, data string) error {
	return defaultClient.Send(ip, data)
}

// SendAndReceive sends data to ip:8888 and returns the first reply
func SendAndReceive(ip, data string) (string, error) {
	return defaultClient.SendAndReceive(ip, data)
}

// Scan runs a two-second discovery scan with the default client
func Scan() ([]DeviceRecord, error) {
	return defaultClient.Scan()
}
