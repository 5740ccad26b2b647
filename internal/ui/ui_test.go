package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muurk/ledlink/internal/udp"
)

func TestTroubleshooting(t *testing.T) {
	tips := Troubleshooting(&udp.Error{Kind: udp.ErrTimeout, Message: "no reply"})
	if len(tips) == 0 {
		t.Fatal("Troubleshooting() returned no tips for a timeout")
	}
	for _, tip := range tips {
		if strings.HasPrefix(tip, "•") || strings.HasPrefix(tip, " ") {
			t.Errorf("tip %q still carries its bullet", tip)
		}
	}

	if tips := Troubleshooting(errors.New("plain")); len(tips) != 0 {
		t.Errorf("Troubleshooting(plain error) = %v, want none", tips)
	}
}

func TestNewFailureResult(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantTips  bool
		wantError string
	}{
		{
			name:      "udp timeout",
			err:       &udp.Error{Kind: udp.ErrTimeout, Message: "no reply"},
			wantTips:  true,
			wantError: "Device not responding (timeout)",
		},
		{
			name:      "other error",
			err:       errors.New("boom"),
			wantTips:  false,
			wantError: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFailureResult("Request failed", tt.err)
			if got := len(r.Troubleshooting) > 0; got != tt.wantTips {
				t.Errorf("has troubleshooting = %v, want %v", got, tt.wantTips)
			}

			out := r.SetWidth(80).Render()
			if !strings.Contains(out, "FAILED") {
				t.Errorf("Render() missing FAILED label:\n%s", out)
			}
			if !strings.Contains(out, tt.wantError) {
				t.Errorf("Render() missing %q:\n%s", tt.wantError, out)
			}
		})
	}
}

func TestResultDetailsKeepOrder(t *testing.T) {
	r := NewSuccessResult("Sent").
		AddDetail("Device", "192.168.1.117").
		AddDetail("Bytes", "17").
		SetWidth(80)

	out := r.Render()
	first := strings.Index(out, "Device:")
	second := strings.Index(out, "Bytes:")
	if first < 0 || second < 0 || first > second {
		t.Errorf("details out of order:\n%s", out)
	}
	if !strings.Contains(out, "SUCCESS") {
		t.Errorf("Render() missing SUCCESS label:\n%s", out)
	}
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("Network scan", "ledlink scan", []Detail{{Key: "Port", Value: "8888"}}, 80)
	for _, want := range []string{"NETWORK SCAN", "ledlink scan", "Port:", "8888"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderHeader() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDeviceTable(t *testing.T) {
	seen := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	out := RenderDeviceTable([]DeviceRow{
		{IP: "192.168.1.20", MAC: "aa:bb:cc:dd:ee:01", Nickname: "desk", LastSeen: seen},
		{IP: "192.168.1.21", MAC: "aa:bb:cc:dd:ee:02"},
	})

	for _, want := range []string{"IP", "MAC", "NICKNAME", "192.168.1.20", "aa:bb:cc:dd:ee:02", "desk"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDeviceTable() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "192.168.1.20") > strings.Index(out, "192.168.1.21") {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func TestPrintDeviceTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDeviceTable(nil)
	if !strings.Contains(buf.String(), "No devices found.") {
		t.Errorf("PrintDeviceTable(nil) = %q", buf.String())
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(strings.NewReader(tt.input), &out, "Test", []string{"something happens"})
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "something happens") {
			t.Errorf("Confirm(%q) did not print warnings", tt.input)
		}
	}
}

func TestWiFiOverwriteConfirmation(t *testing.T) {
	var out bytes.Buffer
	ok := WiFiOverwriteConfirmation(strings.NewReader("y\n"), &out, "10.0.0.5", []string{"home", "shop"})
	if !ok {
		t.Fatal("WiFiOverwriteConfirmation() = false, want true")
	}
	for _, ssid := range []string{"home", "shop"} {
		if !strings.Contains(out.String(), ssid) {
			t.Errorf("output missing SSID %q:\n%s", ssid, out.String())
		}
	}
}

func TestClampWidth(t *testing.T) {
	tests := []struct{ in, want int }{
		{10, MinTerminalWidth},
		{80, 80},
		{500, MaxContentWidth},
	}
	for _, tt := range tests {
		if got := clampWidth(tt.in); got != tt.want {
			t.Errorf("clampWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
