package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Command names accepted on the websocket. Each has a snake_case alias
// matching the names used by the desktop shell.
const (
	CmdSend           = "send"
	CmdSendAndReceive = "sendAndReceive"
	CmdScan           = "scan"
)

var commandAliases = map[string]string{
	CmdSend:                CmdSend,
	"send_udp":             CmdSend,
	CmdSendAndReceive:      CmdSendAndReceive,
	"send_and_receive_udp": CmdSendAndReceive,
	CmdScan:                CmdScan,
	"scan_devices":         CmdScan,
}

// KindInvalidRequest marks errors caused by the request itself rather than
// the network
const KindInvalidRequest = "Invalid Request"

// SentResult is the result of a successful send
const SentResult = "Sent"

// Request is one invocation sent by a websocket client
type Request struct {
	ID   string          `json:"id"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Response answers one Request. Result may be present alongside Error when
// a scan fails after finding some devices.
type Response struct {
	ID     string `json:"id"`
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// SendArgs are the arguments of send and sendAndReceive
type SendArgs struct {
	IP   string `json:"ip"`
	Data string `json:"data"`
}

// RequestError reports a malformed or unsupported invocation
type RequestError struct {
	Message string
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return e.Message
}

// IsRequestError checks if an error is a request error
func IsRequestError(err error) bool {
	var r *RequestError
	return errors.As(err, &r)
}

// canonicalCommand resolves aliases. ok is false for unknown commands.
func canonicalCommand(cmd string) (string, bool) {
	c, ok := commandAliases[cmd]
	return c, ok
}

// decodeSendArgs parses and checks send arguments
func decodeSendArgs(raw json.RawMessage) (SendArgs, error) {
	var args SendArgs
	if len(raw) == 0 {
		return args, &RequestError{Message: "missing args: ip and data are required"}
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, &RequestError{Message: fmt.Sprintf("invalid args: %v", err)}
	}
	if args.IP == "" {
		return args, &RequestError{Message: "missing args.ip"}
	}
	return args, nil
}
