package led

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestController_Connect(t *testing.T) {
	transport := &fakeTransport{reply: `{"total_leds":144,"active_len":100,"effect":2,"bright":50}`}
	ctrl := NewController("192.168.1.117", transport)

	cfg, err := ctrl.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if !ctrl.Connected() {
		t.Error("Connected() = false after successful Connect")
	}
	if cfg.TotalLEDs != 144 || cfg.ActiveLen != 100 {
		t.Errorf("LED counts = %d/%d, want 144/100", cfg.TotalLEDs, cfg.ActiveLen)
	}
	if cfg.Effect != EffectStatic {
		t.Errorf("Effect = %v, want static", cfg.Effect)
	}
	if cfg.FlowSpeed != 30 {
		t.Errorf("FlowSpeed = %d, want default 30 for missing field", cfg.FlowSpeed)
	}

	sent := transport.payloads()
	if len(sent) != 1 || sent[0] != `{"cmd":"get_config"}` {
		t.Errorf("sent = %v, want single get_config", sent)
	}
}

func TestController_ConnectFailure(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		transport := &fakeTransport{replyErr: errFakeSend}
		ctrl := NewController("192.168.1.117", transport)

		_, err := ctrl.Connect(context.Background())
		if !errors.Is(err, errFakeSend) {
			t.Fatalf("Connect() error = %v, want wrapped transport error", err)
		}
		if ctrl.Connected() {
			t.Error("Connected() should be false after failed Connect")
		}
	})

	t.Run("garbage reply", func(t *testing.T) {
		transport := &fakeTransport{reply: "not json"}
		ctrl := NewController("192.168.1.117", transport)

		_, err := ctrl.Connect(context.Background())
		if !IsParseError(err) {
			t.Fatalf("Connect() error = %v, want parse error", err)
		}
		if ctrl.Connected() {
			t.Error("Connected() should be false after unparseable reply")
		}
		if !reflect.DeepEqual(ctrl.Config(), DefaultConfig()) {
			t.Error("failed Connect should keep the default config")
		}
	})
}

func TestController_SetIPDropsConnection(t *testing.T) {
	ctrl := NewController("192.168.1.117", &fakeTransport{reply: `{}`})
	if _, err := ctrl.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	ctrl.SetIP("192.168.1.117")
	if !ctrl.Connected() {
		t.Error("setting the same IP should keep the connection")
	}

	ctrl.SetIP("192.168.1.50")
	if ctrl.Connected() {
		t.Error("changing IP should drop the connection")
	}
	if ctrl.IP() != "192.168.1.50" {
		t.Errorf("IP() = %s, want 192.168.1.50", ctrl.IP())
	}
}

func TestController_UpdateAndApply(t *testing.T) {
	transport := &fakeTransport{}
	ctrl := NewController("10.0.0.2", transport)

	got := ctrl.Update(func(c *Config) {
		c.Bright = 10
		c.Effect = EffectMarquee
	})
	if got.Bright != 10 || got.Effect != EffectMarquee {
		t.Errorf("Update() returned %+v", got)
	}
	if len(transport.payloads()) != 0 {
		t.Error("Update() should not send anything")
	}

	if err := ctrl.Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	sent := transport.payloads()
	if len(sent) != 1 {
		t.Fatalf("sent %d payloads, want 1", len(sent))
	}
	if !strings.HasPrefix(sent[0], `{"cmd":"config",`) {
		t.Errorf("payload = %s, want config command", sent[0])
	}
	if !strings.Contains(sent[0], `"bright":10`) || !strings.Contains(sent[0], `"effect":4`) {
		t.Errorf("payload = %s, missing updated fields", sent[0])
	}
}

func TestController_Command(t *testing.T) {
	transport := &fakeTransport{}
	ctrl := NewController("10.0.0.2", transport)

	if err := ctrl.Command(context.Background(), CmdAllOff); err != nil {
		t.Fatalf("Command(all_off) error = %v", err)
	}
	if err := ctrl.Command(context.Background(), CmdGetConfig); !IsValidationError(err) {
		t.Errorf("Command(get_config) error = %v, want validation error", err)
	}

	sent := transport.payloads()
	if len(sent) != 1 || sent[0] != `{"cmd":"all_off"}` {
		t.Errorf("sent = %v, want single all_off", sent)
	}
}

func TestController_Pixels(t *testing.T) {
	transport := &fakeTransport{}
	ctrl := NewController("10.0.0.2", transport)
	ctx := context.Background()

	if err := ctrl.SetPixelToSolid(ctx, 4); err != nil {
		t.Fatalf("SetPixelToSolid() error = %v", err)
	}
	if err := ctrl.ClearPixel(ctx, 5); err != nil {
		t.Fatalf("ClearPixel() error = %v", err)
	}
	if err := ctrl.SetPixel(ctx, 1, 0, 0, 999); err == nil {
		t.Error("SetPixel() should reject out-of-range colour")
	}

	want := []string{
		`{"cmd":"pixel","idx":4,"r":255,"g":80,"b":80}`,
		`{"cmd":"pixel","idx":5,"r":0,"g":0,"b":0}`,
	}
	sent := transport.payloads()
	if len(sent) != len(want) {
		t.Fatalf("sent %v, want %v", sent, want)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("sent[%d] = %s, want %s", i, sent[i], want[i])
		}
	}
}

func TestController_SaveWiFi(t *testing.T) {
	t.Run("sends list then save", func(t *testing.T) {
		transport := &fakeTransport{}
		ctrl := NewController("10.0.0.2", transport)
		networks := []WiFiNetwork{{SSID: "home", Pass: "pw"}}

		if err := ctrl.SaveWiFi(context.Background(), networks); err != nil {
			t.Fatalf("SaveWiFi() error = %v", err)
		}

		sent := transport.payloads()
		if len(sent) != 2 {
			t.Fatalf("sent %d payloads, want 2", len(sent))
		}
		if sent[0] != `{"cmd":"config","wifi":[{"ssid":"home","pass":"pw"}]}` {
			t.Errorf("sent[0] = %s", sent[0])
		}
		if sent[1] != `{"cmd":"save"}` {
			t.Errorf("sent[1] = %s, want save", sent[1])
		}
		if got := ctrl.Config().WiFi; len(got) != 1 || got[0].SSID != "home" {
			t.Errorf("local WiFi = %v, want home", got)
		}
	})

	t.Run("invalid ssid sends nothing", func(t *testing.T) {
		transport := &fakeTransport{}
		ctrl := NewController("10.0.0.2", transport)

		err := ctrl.SaveWiFi(context.Background(), []WiFiNetwork{{SSID: ""}})
		if !IsValidationError(err) {
			t.Fatalf("SaveWiFi() error = %v, want validation error", err)
		}
		if len(transport.payloads()) != 0 {
			t.Error("nothing should be sent when validation fails")
		}
	})

	t.Run("send failure keeps local list", func(t *testing.T) {
		transport := &fakeTransport{sendErr: errFakeSend}
		ctrl := NewController("10.0.0.2", transport)

		err := ctrl.SaveWiFi(context.Background(), []WiFiNetwork{{SSID: "home"}})
		if !errors.Is(err, errFakeSend) {
			t.Fatalf("SaveWiFi() error = %v, want transport error", err)
		}
		if len(ctrl.Config().WiFi) != 0 {
			t.Error("local WiFi list should not change when sending fails")
		}
	})
}
