package discovery

import (
	"testing"

	"github.com/muurk/ledlink/internal/udp"
)

func TestDevice_String(t *testing.T) {
	device := &Device{
		Instance: "ledlink-eeff",
		IP:       "192.168.1.117",
		MAC:      "aa:bb:cc:dd:ee:ff",
		Port:     8888,
	}

	expected := "LED controller ledlink-eeff (aa:bb:cc:dd:ee:ff) at 192.168.1.117:8888"
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_GetMetadata(t *testing.T) {
	device := &Device{Metadata: map[string]string{"fw": "1.2"}}
	if got := device.GetMetadata("fw"); got != "1.2" {
		t.Errorf("GetMetadata(fw) = %q, want 1.2", got)
	}
	if got := device.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %q, want empty", got)
	}
	if got := (&Device{}).GetMetadata("fw"); got != "" {
		t.Errorf("GetMetadata on nil map = %q, want empty", got)
	}
}

func TestRecords(t *testing.T) {
	devices := []*Device{
		{IP: "10.0.0.1", MAC: "aa"},
		{IP: "10.0.0.2", MAC: "bb"},
		{IP: "10.0.0.1", MAC: "cc"},
	}

	got := Records(devices)
	want := []udp.DeviceRecord{{IP: "10.0.0.1", MAC: "aa"}, {IP: "10.0.0.2", MAC: "bb"}}
	if len(got) != len(want) {
		t.Fatalf("Records() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Records()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if empty := Records(nil); empty == nil || len(empty) != 0 {
		t.Errorf("Records(nil) = %v, want empty non-nil slice", empty)
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		broadcast []udp.DeviceRecord
		mdns      []udp.DeviceRecord
		want      []udp.DeviceRecord
	}{
		{
			name:      "disjoint",
			broadcast: []udp.DeviceRecord{{IP: "10.0.0.1", MAC: "aa"}},
			mdns:      []udp.DeviceRecord{{IP: "10.0.0.2", MAC: "bb"}},
			want:      []udp.DeviceRecord{{IP: "10.0.0.1", MAC: "aa"}, {IP: "10.0.0.2", MAC: "bb"}},
		},
		{
			name:      "broadcast wins on same IP",
			broadcast: []udp.DeviceRecord{{IP: "10.0.0.1", MAC: "aa"}},
			mdns:      []udp.DeviceRecord{{IP: "10.0.0.1", MAC: "zz"}},
			want:      []udp.DeviceRecord{{IP: "10.0.0.1", MAC: "aa"}},
		},
		{
			name:      "only mdns",
			broadcast: nil,
			mdns:      []udp.DeviceRecord{{IP: "10.0.0.3", MAC: "cc"}},
			want:      []udp.DeviceRecord{{IP: "10.0.0.3", MAC: "cc"}},
		},
		{
			name: "both empty",
			want: []udp.DeviceRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.broadcast, tt.mdns)
			if got == nil {
				t.Fatal("Merge() returned nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Merge() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Merge()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
