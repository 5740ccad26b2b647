package udp

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrSocketSetup, "Socket Setup Failed"},
		{ErrAddress, "Invalid Address"},
		{ErrSend, "Send Failed"},
		{ErrReceive, "Receive Failed"},
		{ErrTimeout, "Timeout"},
		{ErrDecode, "Decode Failed"},
		{ErrorKind(99), "ErrorKind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("ErrorKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	cause := errors.New("boom")

	withCause := newError(ErrSend, "192.0.2.5:8888", "failed to send", cause)
	if got := withCause.Error(); got != "Send Failed: failed to send (caused by: boom)" {
		t.Errorf("Error() = %q", got)
	}

	withoutCause := newError(ErrDecode, "", "bad reply", nil)
	if got := withoutCause.Error(); got != "Decode Failed: bad reply" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	err := newError(ErrTimeout, "", "no reply", os.ErrDeadlineExceeded)
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Error("errors.Is should see the underlying deadline error")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("request failed: %w", newError(ErrTimeout, "", "no reply", nil))

	kind, ok := KindOf(wrapped)
	if !ok {
		t.Fatal("KindOf() should find a wrapped *Error")
	}
	if kind != ErrTimeout {
		t.Errorf("KindOf() = %v, want ErrTimeout", kind)
	}
	if !IsTimeout(wrapped) {
		t.Error("IsTimeout() should be true for a wrapped timeout")
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf() should report false for a plain error")
	}
	if IsTimeout(nil) {
		t.Error("IsTimeout(nil) should be false")
	}
}

func TestIsNetTimeout(t *testing.T) {
	if !isNetTimeout(os.ErrDeadlineExceeded) {
		t.Error("os.ErrDeadlineExceeded should be a timeout")
	}
	if isNetTimeout(errors.New("connection refused")) {
		t.Error("plain error should not be a timeout")
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", newError(ErrTimeout, "", "x", nil), "Device not responding (timeout)"},
		{"address", newError(ErrAddress, "bad", "x", nil), `Invalid device address "bad"`},
		{"send", newError(ErrSend, "", "x", nil), "Failed to send to device"},
		{"unreachable", newError(ErrSend, "", "x", syscall.ENETUNREACH), "Device unreachable - check network connection"},
		{"setup", newError(ErrSocketSetup, "", "x", nil), "Could not open a local UDP socket"},
		{"receive", newError(ErrReceive, "", "x", nil), "Failed to read device reply"},
		{"decode", newError(ErrDecode, "", "x", nil), "Device reply was not understood"},
		{"plain", errors.New("plain failure"), "plain failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortMessage(tt.err); got != tt.want {
				t.Errorf("ShortMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHint(t *testing.T) {
	timeoutHint := Hint(newError(ErrTimeout, "", "x", nil))
	if !strings.Contains(timeoutHint, "8888") {
		t.Errorf("timeout hint should mention the port, got %q", timeoutHint)
	}

	if got := Hint(errors.New("plain")); !strings.Contains(got, "unexpected") {
		t.Errorf("Hint() for plain error = %q", got)
	}

	for _, kind := range []ErrorKind{ErrSocketSetup, ErrAddress, ErrSend, ErrReceive, ErrDecode} {
		if Hint(newError(kind, "", "x", nil)) == "" {
			t.Errorf("Hint() for %v should not be empty", kind)
		}
	}
}
