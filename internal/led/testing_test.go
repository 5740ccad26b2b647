package led

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeTransport records payloads and answers get_config with reply
type fakeTransport struct {
	mu       sync.Mutex
	sent     []string
	reply    string
	replyErr error
	sendErr  error
	delay    time.Duration
}

func (f *fakeTransport) SendContext(ctx context.Context, ip, data string) error {
	f.mu.Lock()
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeTransport) SendAndReceiveContext(ctx context.Context, ip, data string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.reply, nil
}

func (f *fakeTransport) payloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

var errFakeSend = errors.New("network is down")
