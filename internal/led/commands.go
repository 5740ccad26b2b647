package led

import (
	"encoding/json"
	"fmt"
)

// Command names understood by the controller firmware
const (
	CmdDiscover  = "discover"
	CmdConfig    = "config"
	CmdGetConfig = "get_config"
	CmdSave      = "save"
	CmdAllOn     = "all_on"
	CmdAllOff    = "all_off"
	CmdPixel     = "pixel"
)

// simpleCommands are commands with no arguments that may be sent directly
var simpleCommands = map[string]bool{
	CmdSave:   true,
	CmdAllOn:  true,
	CmdAllOff: true,
}

// IsSimpleCommand reports whether cmd takes no arguments
func IsSimpleCommand(cmd string) bool {
	return simpleCommands[cmd]
}

type bareCommand struct {
	Cmd string `json:"cmd"`
}

type configCommand struct {
	Cmd string `json:"cmd"`
	Config
}

type wifiCommand struct {
	Cmd  string        `json:"cmd"`
	WiFi []WiFiNetwork `json:"wifi"`
}

type pixelCommand struct {
	Cmd string `json:"cmd"`
	Idx int    `json:"idx"`
	R   int    `json:"r"`
	G   int    `json:"g"`
	B   int    `json:"b"`
}

// CommandPayload encodes an argument-less command such as {"cmd":"save"}
func CommandPayload(cmd string) string {
	data, _ := json.Marshal(bareCommand{Cmd: cmd})
	return string(data)
}

// ConfigPayload encodes cfg as a "config" command with the fields inlined
func ConfigPayload(cfg Config) (string, error) {
	data, err := json.Marshal(configCommand{Cmd: CmdConfig, Config: cfg})
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(data), nil
}

// WiFiPayload encodes a "config" command carrying only the WiFi list
func WiFiPayload(networks []WiFiNetwork) (string, error) {
	if networks == nil {
		networks = []WiFiNetwork{}
	}
	data, err := json.Marshal(wifiCommand{Cmd: CmdConfig, WiFi: networks})
	if err != nil {
		return "", fmt.Errorf("failed to encode wifi list: %w", err)
	}
	return string(data), nil
}

// PixelPayload encodes a single-pixel colour command
func PixelPayload(idx, r, g, b int) (string, error) {
	if idx < 0 {
		return "", NewValidationError("idx", fmt.Sprintf("must be >= 0, got %d", idx))
	}
	for _, c := range []struct {
		name  string
		value int
	}{{"r", r}, {"g", g}, {"b", b}} {
		if c.value < 0 || c.value > 255 {
			return "", NewValidationError(c.name, fmt.Sprintf("must be 0-255, got %d", c.value))
		}
	}

	data, err := json.Marshal(pixelCommand{Cmd: CmdPixel, Idx: idx, R: r, G: g, B: b})
	if err != nil {
		return "", fmt.Errorf("failed to encode pixel command: %w", err)
	}
	return string(data), nil
}

// Request is the envelope every payload shares. The simulator uses it to
// route incoming datagrams.
type Request struct {
	Cmd string `json:"cmd"`
}

// ParseRequest extracts the command name from a payload
func ParseRequest(payload []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return Request{}, NewParseError("payload is not a JSON command", err)
	}
	if req.Cmd == "" {
		return Request{}, NewParseError("payload has no cmd field", nil)
	}
	return req, nil
}

// ParsePixel decodes a "pixel" command payload
func ParsePixel(payload []byte) (idx, r, g, b int, err error) {
	var cmd pixelCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return 0, 0, 0, 0, NewParseError("invalid pixel command", err)
	}
	return cmd.Idx, cmd.R, cmd.G, cmd.B, nil
}
