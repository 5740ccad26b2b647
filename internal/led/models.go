package led

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Effect selects the animation running on the strip
type Effect int

const (
	EffectRainbow Effect = iota
	EffectComet
	EffectStatic
	EffectBlink
	EffectMarquee
)

// effectNames is indexed by Effect
var effectNames = []string{"rainbow", "comet", "static", "blink", "marquee"}

// String returns the effect name, or its number if unknown
func (e Effect) String() string {
	if e >= 0 && int(e) < len(effectNames) {
		return effectNames[e]
	}
	return fmt.Sprintf("effect(%d)", int(e))
}

// ParseEffect accepts an effect name or its numeric value
func ParseEffect(s string) (Effect, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range effectNames {
		if s == name {
			return Effect(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(effectNames) {
		return Effect(n), nil
	}
	return 0, NewValidationError("effect", fmt.Sprintf("unknown effect %q (valid: %s)", s, strings.Join(effectNames, ", ")))
}

// EffectNames returns all known effect names in numeric order
func EffectNames() []string {
	names := make([]string, len(effectNames))
	copy(names, effectNames)
	return names
}

// Direction of flowing effects
const (
	DirForward = 1
	DirReverse = -1
)

// WiFiNetwork is one station entry the controller tries when joining WiFi.
// The password is sent to the device but never written to the config file.
type WiFiNetwork struct {
	SSID string `json:"ssid" yaml:"ssid"`
	Pass string `json:"pass" yaml:"-"`
}

// Config is the full controller state as exchanged by the "config" and
// "get_config" commands.
type Config struct {
	TotalLEDs     int           `json:"total_leds" yaml:"total_leds"`
	ActiveLen     int           `json:"active_len" yaml:"active_len"`
	Effect        Effect        `json:"effect" yaml:"effect"`
	Bright        int           `json:"bright" yaml:"bright"`
	BreathEnabled bool          `json:"breath_en" yaml:"breath_en"`
	BreathFreq    int           `json:"breath_freq" yaml:"breath_freq"`
	Dir           int           `json:"dir" yaml:"dir"`
	FlowSpeed     int           `json:"flow_speed" yaml:"flow_speed"`
	SolidR        int           `json:"solid_r" yaml:"solid_r"`
	SolidG        int           `json:"solid_g" yaml:"solid_g"`
	SolidB        int           `json:"solid_b" yaml:"solid_b"`
	CometLen      int           `json:"comet_len" yaml:"comet_len"`
	CometRainbow  bool          `json:"comet_rainbow" yaml:"comet_rainbow"`
	WiFi          []WiFiNetwork `json:"wifi,omitempty" yaml:"-"`
}

// DefaultConfig returns the state assumed before the device has been read
func DefaultConfig() Config {
	return Config{
		TotalLEDs:     60,
		ActiveLen:     60,
		Effect:        EffectRainbow,
		Bright:        128,
		BreathEnabled: true,
		BreathFreq:    15,
		Dir:           DirForward,
		FlowSpeed:     30,
		SolidR:        255,
		SolidG:        80,
		SolidB:        80,
		CometLen:      5,
		CometRainbow:  false,
	}
}

// Merge overlays the fields present in a JSON reply onto c. Fields absent
// from the reply keep their current values.
func (c *Config) Merge(reply string) error {
	merged := *c
	if err := json.Unmarshal([]byte(reply), &merged); err != nil {
		return NewParseError("device config reply is not valid JSON", err)
	}
	*c = merged
	return nil
}

// Validate reports every out-of-range field. An empty result means valid.
func (c Config) Validate() []error {
	var errs []error

	check := func(field string, value, min, max int) {
		if value < min || value > max {
			errs = append(errs, NewValidationError(field, fmt.Sprintf("must be %d-%d, got %d", min, max, value)))
		}
	}

	if c.TotalLEDs < 1 {
		errs = append(errs, NewValidationError("total_leds", fmt.Sprintf("must be at least 1, got %d", c.TotalLEDs)))
	}
	check("active_len", c.ActiveLen, 1, max(c.TotalLEDs, 1))
	check("effect", int(c.Effect), 0, len(effectNames)-1)
	check("bright", c.Bright, 0, 255)
	check("breath_freq", c.BreathFreq, 5, 60)
	if c.Dir != DirForward && c.Dir != DirReverse {
		errs = append(errs, NewValidationError("dir", fmt.Sprintf("must be 1 or -1, got %d", c.Dir)))
	}
	check("flow_speed", c.FlowSpeed, 0, 100)
	check("solid_r", c.SolidR, 0, 255)
	check("solid_g", c.SolidG, 0, 255)
	check("solid_b", c.SolidB, 0, 255)
	check("comet_len", c.CometLen, 1, 30)

	errs = append(errs, ValidateWiFi(c.WiFi)...)

	return errs
}

// ValidateWiFi checks station entries. SSIDs must be 1-32 bytes.
func ValidateWiFi(networks []WiFiNetwork) []error {
	var errs []error
	for i, n := range networks {
		field := fmt.Sprintf("wifi[%d].ssid", i)
		if n.SSID == "" {
			errs = append(errs, NewValidationError(field, "cannot be empty"))
		}
		if len(n.SSID) > 32 {
			errs = append(errs, NewValidationError(field, fmt.Sprintf("too long (max 32 chars): %d chars", len(n.SSID))))
		}
	}
	return errs
}

// Color returns the solid colour as an #rrggbb string
func (c Config) Color() string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(c.SolidR), clampByte(c.SolidG), clampByte(c.SolidB))
}

// SetColor parses #rrggbb (or rrggbb) into the solid colour fields
func (c *Config) SetColor(hex string) error {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return NewValidationError("color", fmt.Sprintf("expected #rrggbb, got %q", hex))
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return NewValidationError("color", fmt.Sprintf("expected #rrggbb, got %q", hex))
	}
	c.SolidR = int(v >> 16 & 0xff)
	c.SolidG = int(v >> 8 & 0xff)
	c.SolidB = int(v & 0xff)
	return nil
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
