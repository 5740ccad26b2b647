package udp

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DiscoverPayload is the datagram broadcast at the start of a scan.
const DiscoverPayload = `{"cmd":"discover"}`

// DeviceRecord is the (IP, MAC) pair reported by a controller in reply to a
// discovery broadcast.
type DeviceRecord struct {
	IP  string `json:"ip" yaml:"ip"`
	MAC string `json:"mac" yaml:"mac"`
}

// String returns a human-readable representation of the record
func (r DeviceRecord) String() string {
	return fmt.Sprintf("%s (%s)", r.IP, r.MAC)
}

// DecodeText decodes a datagram as UTF-8, replacing invalid sequences with
// U+FFFD instead of failing.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return string([]rune(string(data)))
	}
	return string(decoded)
}

// ParseRecord decodes a discovery reply. The reply must be a JSON object with
// string fields "ip" and "mac"; other fields are ignored.
func ParseRecord(data []byte) (DeviceRecord, error) {
	text := DecodeText(data)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return DeviceRecord{}, newError(ErrDecode, "", "discovery reply is not a JSON object", err)
	}
	if fields == nil {
		return DeviceRecord{}, newError(ErrDecode, "", "discovery reply is null", nil)
	}

	ip, err := stringField(fields, "ip")
	if err != nil {
		return DeviceRecord{}, err
	}
	mac, err := stringField(fields, "mac")
	if err != nil {
		return DeviceRecord{}, err
	}

	return DeviceRecord{IP: ip, MAC: mac}, nil
}

// stringField extracts a required string member; keys are matched exactly.
func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", newError(ErrDecode, "", fmt.Sprintf("discovery reply has no %q field", name), nil)
	}

	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", newError(ErrDecode, "", fmt.Sprintf("discovery reply field %q is not a string", name), err)
	}
	if value == nil {
		return "", newError(ErrDecode, "", fmt.Sprintf("discovery reply field %q is null", name), nil)
	}
	return *value, nil
}

// dedupe keeps the first record per IP, preserving order.
type dedupe struct {
	seen    map[string]struct{}
	records []DeviceRecord
}

func newDedupe() *dedupe {
	return &dedupe{
		seen:    make(map[string]struct{}),
		records: make([]DeviceRecord, 0),
	}
}

// add appends r unless its IP was already seen. It reports whether r was kept.
func (d *dedupe) add(r DeviceRecord) bool {
	if _, ok := d.seen[r.IP]; ok {
		return false
	}
	d.seen[r.IP] = struct{}{}
	d.records = append(d.records, r)
	return true
}

// Dedupe returns records with later duplicates of an IP removed, keeping
// first-seen order.
func Dedupe(records []DeviceRecord) []DeviceRecord {
	d := newDedupe()
	for _, r := range records {
		d.add(r)
	}
	return d.records
}
