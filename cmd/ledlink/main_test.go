package main

import (
	"testing"
	"time"

	"github.com/muurk/ledlink/internal/config"
	"github.com/muurk/ledlink/internal/led"
	"github.com/muurk/ledlink/internal/udp"
)

func TestParseNetworks(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []led.WiFiNetwork
		wantErr bool
	}{
		{
			name: "single",
			args: []string{"home:secret"},
			want: []led.WiFiNetwork{{SSID: "home", Pass: "secret"}},
		},
		{
			name: "open network and colon in password",
			args: []string{"cafe:", "lab:a:b"},
			want: []led.WiFiNetwork{{SSID: "cafe"}, {SSID: "lab", Pass: "a:b"}},
		},
		{name: "missing separator", args: []string{"home"}, wantErr: true},
		{name: "empty ssid", args: []string{":secret"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNetworks(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseNetworks(%v) expected error", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseNetworks(%v) error: %v", tt.args, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d networks, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("network %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"forward", led.DirForward, false},
		{"REV", led.DirReverse, false},
		{"-1", led.DirReverse, false},
		{"sideways", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDirection(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPrettyJSON(t *testing.T) {
	if got := prettyJSON(`{"a":1}`); got != "{\n  \"a\": 1\n}" {
		t.Errorf("prettyJSON indented = %q", got)
	}
	if got := prettyJSON("not json"); got != "not json" {
		t.Errorf("prettyJSON passthrough = %q", got)
	}
}

func TestDeviceRowsUseRegistry(t *testing.T) {
	registry = config.NewRegistry()
	t.Cleanup(func() { registry = nil })

	registry.RecordScan([]udp.DeviceRecord{{IP: "10.0.0.2", MAC: "AA:BB:CC:DD:EE:FF"}})
	registry.SetNickname("aa:bb:cc:dd:ee:ff", "shelf")

	rows := deviceRows([]udp.DeviceRecord{
		{IP: "10.0.0.2", MAC: "AA:BB:CC:DD:EE:FF"},
		{IP: "10.0.0.3", MAC: "11:22:33:44:55:66"},
	})
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Nickname != "shelf" || rows[0].LastSeen.IsZero() {
		t.Errorf("known row = %+v, want nickname and last seen", rows[0])
	}
	if rows[1].Nickname != "" || !rows[1].LastSeen.IsZero() {
		t.Errorf("unknown row = %+v, want no registry data", rows[1])
	}
}

func TestRegistryRowsOrder(t *testing.T) {
	registry = config.NewRegistry()
	t.Cleanup(func() { registry = nil })

	now := time.Now()
	older := registry.EnsureDevice("11:11:11:11:11:11")
	older.LastIP, older.LastSeen = "10.0.0.1", now.Add(-time.Hour)
	newer := registry.EnsureDevice("22:22:22:22:22:22")
	newer.LastIP, newer.LastSeen = "10.0.0.2", now

	rows := registryRows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].IP != "10.0.0.2" || rows[1].IP != "10.0.0.1" {
		t.Errorf("rows not ordered by last seen: %+v", rows)
	}
}

func TestConfigDetails(t *testing.T) {
	cfg := led.DefaultConfig()
	cfg.Dir = led.DirReverse

	details := configDetails("10.0.0.9", cfg)
	if details[0].Value != "10.0.0.9" {
		t.Errorf("first detail = %+v, want device", details[0])
	}

	found := false
	for _, d := range details {
		if d.Key == "Direction" {
			found = true
			if d.Value != "reverse" {
				t.Errorf("Direction = %q, want reverse", d.Value)
			}
		}
	}
	if !found {
		t.Error("missing Direction detail")
	}
}
