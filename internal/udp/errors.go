package udp

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// ErrorKind represents the category of a failed UDP operation
type ErrorKind int

const (
	// ErrSocketSetup indicates the local socket could not be opened or configured
	ErrSocketSetup ErrorKind = iota
	// ErrAddress indicates the destination could not be parsed or resolved
	ErrAddress
	// ErrSend indicates the datagram could not be transmitted
	ErrSend
	// ErrReceive indicates a receive failure other than a timeout
	ErrReceive
	// ErrTimeout indicates no reply arrived before the deadline
	ErrTimeout
	// ErrDecode indicates a received datagram did not match the expected schema
	ErrDecode
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrSocketSetup:
		return "Socket Setup Failed"
	case ErrAddress:
		return "Invalid Address"
	case ErrSend:
		return "Send Failed"
	case ErrReceive:
		return "Receive Failed"
	case ErrTimeout:
		return "Timeout"
	case ErrDecode:
		return "Decode Failed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by every operation in this package.
type Error struct {
	Kind    ErrorKind // Category of error
	Message string    // Human-readable error message
	Addr    string    // Remote address involved, if any
	Err     error     // Underlying error, if any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, addr, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Addr:    addr,
		Err:     err,
	}
}

// KindOf returns the kind of err, and false when err is not an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var udpErr *Error
	if errors.As(err, &udpErr) {
		return udpErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsTimeout reports whether err is a reply timeout
func IsTimeout(err error) bool {
	return IsKind(err, ErrTimeout)
}

// isNetTimeout reports whether a raw socket error is a deadline expiry
func isNetTimeout(err error) bool {
	return os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded)
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var udpErr *Error
	if !errors.As(err, &udpErr) {
		return err.Error()
	}

	switch udpErr.Kind {
	case ErrSocketSetup:
		return "Could not open a local UDP socket"
	case ErrAddress:
		return fmt.Sprintf("Invalid device address %q", udpErr.Addr)
	case ErrSend:
		if errors.Is(udpErr.Err, syscall.ENETUNREACH) || errors.Is(udpErr.Err, syscall.EHOSTUNREACH) {
			return "Device unreachable - check network connection"
		}
		return "Failed to send to device"
	case ErrReceive:
		return "Failed to read device reply"
	case ErrTimeout:
		return "Device not responding (timeout)"
	case ErrDecode:
		return "Device reply was not understood"
	default:
		return udpErr.Message
	}
}

// Hint returns troubleshooting advice for an error
func Hint(err error) string {
	var udpErr *Error
	if !errors.As(err, &udpErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch udpErr.Kind {
	case ErrTimeout:
		return strings.Join([]string{
			"The device did not reply in time.",
			"Troubleshooting:",
			"  • Check that the controller is powered on",
			"  • Verify the device IP (run 'ledlink scan')",
			fmt.Sprintf("  • Make sure UDP port %d is not blocked by a firewall", Port),
		}, "\n")

	case ErrAddress:
		return strings.Join([]string{
			"The device address could not be used.",
			"Troubleshooting:",
			"  • Use a dotted IPv4 address such as 192.168.1.117",
			"  • Run 'ledlink scan' to list reachable devices",
		}, "\n")

	case ErrSend:
		return strings.Join([]string{
			"The datagram could not be sent.",
			"Troubleshooting:",
			"  • Check that this computer is connected to the network",
			"  • Verify you are on the same network segment as the device",
		}, "\n")

	case ErrSocketSetup:
		return strings.Join([]string{
			"A local UDP socket could not be opened.",
			"Troubleshooting:",
			"  • Another program may be exhausting local ports",
			"  • Broadcast may be disallowed by local policy",
		}, "\n")

	case ErrDecode:
		return "The device replied with data in an unexpected format. Check the firmware version."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
