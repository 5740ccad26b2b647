package led

import (
	"encoding/json"
	"testing"
)

func TestEffectString(t *testing.T) {
	tests := []struct {
		effect Effect
		want   string
	}{
		{EffectRainbow, "rainbow"},
		{EffectComet, "comet"},
		{EffectStatic, "static"},
		{EffectBlink, "blink"},
		{EffectMarquee, "marquee"},
		{Effect(9), "effect(9)"},
		{Effect(-1), "effect(-1)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.effect.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseEffect(t *testing.T) {
	tests := []struct {
		input   string
		want    Effect
		wantErr bool
	}{
		{"rainbow", EffectRainbow, false},
		{"Comet", EffectComet, false},
		{"  static ", EffectStatic, false},
		{"3", EffectBlink, false},
		{"4", EffectMarquee, false},
		{"5", 0, true},
		{"-1", 0, true},
		{"sparkle", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEffect(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEffect(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !IsValidationError(err) {
					t.Errorf("error should be a validation error, got %T", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseEffect(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEffectNames_ReturnsCopy(t *testing.T) {
	names := EffectNames()
	if len(names) != 5 {
		t.Fatalf("len(EffectNames()) = %d, want 5", len(names))
	}
	names[0] = "changed"
	if EffectRainbow.String() != "rainbow" {
		t.Error("modifying EffectNames() result should not affect Effect.String()")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TotalLEDs != 60 || cfg.ActiveLen != 60 {
		t.Errorf("LED counts = %d/%d, want 60/60", cfg.TotalLEDs, cfg.ActiveLen)
	}
	if cfg.Bright != 128 {
		t.Errorf("Bright = %d, want 128", cfg.Bright)
	}
	if !cfg.BreathEnabled || cfg.BreathFreq != 15 {
		t.Errorf("Breath = %v/%d, want true/15", cfg.BreathEnabled, cfg.BreathFreq)
	}
	if cfg.Color() != "#ff5050" {
		t.Errorf("Color() = %s, want #ff5050", cfg.Color())
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("DefaultConfig().Validate() = %v, want no errors", errs)
	}
}

func TestConfigMerge(t *testing.T) {
	t.Run("partial reply keeps other fields", func(t *testing.T) {
		cfg := DefaultConfig()
		if err := cfg.Merge(`{"bright":200,"effect":1}`); err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		if cfg.Bright != 200 {
			t.Errorf("Bright = %d, want 200", cfg.Bright)
		}
		if cfg.Effect != EffectComet {
			t.Errorf("Effect = %v, want comet", cfg.Effect)
		}
		if cfg.TotalLEDs != 60 {
			t.Errorf("TotalLEDs = %d, want unchanged 60", cfg.TotalLEDs)
		}
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		cfg := DefaultConfig()
		if err := cfg.Merge(`{"firmware":"1.2.0","dir":-1}`); err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		if cfg.Dir != DirReverse {
			t.Errorf("Dir = %d, want -1", cfg.Dir)
		}
	})

	t.Run("invalid JSON leaves config untouched", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.Merge(`{"bright":200`)
		if err == nil {
			t.Fatal("Merge() should fail on truncated JSON")
		}
		if !IsParseError(err) {
			t.Errorf("error should be a parse error, got %T", err)
		}
		if cfg.Bright != 128 {
			t.Errorf("Bright = %d, want unchanged 128", cfg.Bright)
		}
	})

	t.Run("type mismatch leaves config untouched", func(t *testing.T) {
		cfg := DefaultConfig()
		if err := cfg.Merge(`{"bright":"high","effect":2}`); err == nil {
			t.Fatal("Merge() should fail on a string brightness")
		}
		if cfg.Effect != EffectRainbow {
			t.Errorf("Effect = %v, want unchanged rainbow", cfg.Effect)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantCount int
	}{
		{"default", func(c *Config) {}, 0},
		{"zero leds", func(c *Config) { c.TotalLEDs = 0; c.ActiveLen = 1 }, 1},
		{"active longer than strip", func(c *Config) { c.ActiveLen = 61 }, 1},
		{"active zero", func(c *Config) { c.ActiveLen = 0 }, 1},
		{"unknown effect", func(c *Config) { c.Effect = Effect(7) }, 1},
		{"brightness high", func(c *Config) { c.Bright = 256 }, 1},
		{"breath too slow", func(c *Config) { c.BreathFreq = 4 }, 1},
		{"breath too fast", func(c *Config) { c.BreathFreq = 61 }, 1},
		{"bad direction", func(c *Config) { c.Dir = 0 }, 1},
		{"flow speed", func(c *Config) { c.FlowSpeed = 101 }, 1},
		{"colour channels", func(c *Config) { c.SolidR = -1; c.SolidG = 300; c.SolidB = 256 }, 3},
		{"comet length", func(c *Config) { c.CometLen = 31 }, 1},
		{"empty ssid", func(c *Config) { c.WiFi = []WiFiNetwork{{SSID: "", Pass: "x"}} }, 1},
		{"long ssid", func(c *Config) { c.WiFi = []WiFiNetwork{{SSID: "abcdefghijklmnopqrstuvwxyz0123456"}} }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			errs := cfg.Validate()
			if len(errs) != tt.wantCount {
				t.Errorf("Validate() returned %d errors %v, want %d", len(errs), errs, tt.wantCount)
			}
			for _, err := range errs {
				if !IsValidationError(err) {
					t.Errorf("error %v should be a validation error", err)
				}
			}
		})
	}
}

func TestConfigSetColor(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"#00ff80", "#00ff80", false},
		{"ABCDEF", "#abcdef", false},
		{" #102030 ", "#102030", false},
		{"#fff", "", true},
		{"#gggggg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.SetColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if cfg.Color() != "#ff5050" {
					t.Errorf("failed SetColor should not change colour, got %s", cfg.Color())
				}
				return
			}
			if got := cfg.Color(); got != tt.want {
				t.Errorf("Color() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConfigColor_Clamps(t *testing.T) {
	cfg := Config{SolidR: -5, SolidG: 999, SolidB: 16}
	if got := cfg.Color(); got != "#00ff10" {
		t.Errorf("Color() = %s, want #00ff10", got)
	}
}

func TestConfigJSON_WiFiOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := fields["wifi"]; ok {
		t.Error("empty wifi list should be omitted")
	}
	if len(fields) != 13 {
		t.Errorf("config has %d fields, want 13", len(fields))
	}
}
