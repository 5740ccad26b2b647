package led

import (
	"strings"
	"testing"
)

func TestCommandPayload(t *testing.T) {
	tests := []struct {
		cmd  string
		want string
	}{
		{CmdGetConfig, `{"cmd":"get_config"}`},
		{CmdSave, `{"cmd":"save"}`},
		{CmdAllOn, `{"cmd":"all_on"}`},
		{CmdAllOff, `{"cmd":"all_off"}`},
		{CmdDiscover, `{"cmd":"discover"}`},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			if got := CommandPayload(tt.cmd); got != tt.want {
				t.Errorf("CommandPayload(%q) = %s, want %s", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestIsSimpleCommand(t *testing.T) {
	for _, cmd := range []string{CmdSave, CmdAllOn, CmdAllOff} {
		if !IsSimpleCommand(cmd) {
			t.Errorf("IsSimpleCommand(%q) = false, want true", cmd)
		}
	}
	for _, cmd := range []string{CmdConfig, CmdGetConfig, CmdPixel, CmdDiscover, "reboot"} {
		if IsSimpleCommand(cmd) {
			t.Errorf("IsSimpleCommand(%q) = true, want false", cmd)
		}
	}
}

func TestConfigPayload(t *testing.T) {
	got, err := ConfigPayload(DefaultConfig())
	if err != nil {
		t.Fatalf("ConfigPayload() error = %v", err)
	}

	want := `{"cmd":"config","total_leds":60,"active_len":60,"effect":0,"bright":128,` +
		`"breath_en":true,"breath_freq":15,"dir":1,"flow_speed":30,` +
		`"solid_r":255,"solid_g":80,"solid_b":80,"comet_len":5,"comet_rainbow":false}`
	if got != want {
		t.Errorf("ConfigPayload() =\n%s\nwant\n%s", got, want)
	}
}

func TestWiFiPayload(t *testing.T) {
	tests := []struct {
		name     string
		networks []WiFiNetwork
		want     string
	}{
		{
			name:     "two networks",
			networks: []WiFiNetwork{{SSID: "home", Pass: "secret"}, {SSID: "shop", Pass: ""}},
			want:     `{"cmd":"config","wifi":[{"ssid":"home","pass":"secret"},{"ssid":"shop","pass":""}]}`,
		},
		{
			name:     "nil clears list",
			networks: nil,
			want:     `{"cmd":"config","wifi":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WiFiPayload(tt.networks)
			if err != nil {
				t.Fatalf("WiFiPayload() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("WiFiPayload() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPixelPayload(t *testing.T) {
	tests := []struct {
		name         string
		idx, r, g, b int
		want         string
		wantField    string
	}{
		{"valid", 3, 255, 0, 10, `{"cmd":"pixel","idx":3,"r":255,"g":0,"b":10}`, ""},
		{"negative index", -1, 0, 0, 0, "", "idx"},
		{"red too high", 0, 256, 0, 0, "", "r"},
		{"green negative", 0, 0, -1, 0, "", "g"},
		{"blue too high", 0, 0, 0, 300, "", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PixelPayload(tt.idx, tt.r, tt.g, tt.b)
			if tt.wantField != "" {
				if err == nil {
					t.Fatalf("PixelPayload() should fail for %s", tt.wantField)
				}
				if !strings.Contains(err.Error(), "invalid "+tt.wantField) {
					t.Errorf("error = %v, want mention of field %s", err, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("PixelPayload() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PixelPayload() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{"discover", `{"cmd":"discover"}`, CmdDiscover, false},
		{"config with fields", `{"cmd":"config","bright":10}`, CmdConfig, false},
		{"missing cmd", `{"bright":10}`, "", true},
		{"not json", `hello`, "", true},
		{"empty", ``, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !IsParseError(err) {
					t.Errorf("error should be a parse error, got %T", err)
				}
				return
			}
			if req.Cmd != tt.want {
				t.Errorf("Cmd = %q, want %q", req.Cmd, tt.want)
			}
		})
	}
}

func TestParsePixel_RoundTrip(t *testing.T) {
	payload, err := PixelPayload(12, 1, 2, 3)
	if err != nil {
		t.Fatalf("PixelPayload() error = %v", err)
	}
	idx, r, g, b, err := ParsePixel([]byte(payload))
	if err != nil {
		t.Fatalf("ParsePixel() error = %v", err)
	}
	if idx != 12 || r != 1 || g != 2 || b != 3 {
		t.Errorf("ParsePixel() = %d,%d,%d,%d, want 12,1,2,3", idx, r, g, b)
	}

	if _, _, _, _, err := ParsePixel([]byte(`{"idx":"x"}`)); err == nil {
		t.Error("ParsePixel() should fail on a string index")
	}
}
