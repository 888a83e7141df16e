package export

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// record is a loosely typed JSON object. Export schemas drift between
// versions, so fields are decoded one at a time and a field of the wrong
// shape reads as absent instead of failing the whole conversation.
type record map[string]json.RawMessage

func decodeRecord(raw json.RawMessage) (record, bool) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil || r == nil {
		return nil, false
	}
	return r, true
}

func (r record) has(key string) bool {
	_, ok := r[key]
	return ok
}

// str returns the field as a string. Numbers are accepted in their JSON
// text form; null, absent, and composite values read as "".
func (r record) str(key string) string {
	raw, ok := r[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// float returns a numeric field. Numeric strings are accepted.
func (r record) float(key string) (float64, bool) {
	raw, ok := r[key]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// epoch returns a numeric field read as Unix seconds.
func (r record) epoch(key string) (time.Time, bool) {
	secs, ok := r.float(key)
	if !ok {
		return time.Time{}, false
	}
	return epochTime(secs)
}

func (r record) object(key string) (record, bool) {
	raw, ok := r[key]
	if !ok {
		return nil, false
	}
	return decodeRecord(raw)
}

func (r record) array(key string) ([]json.RawMessage, bool) {
	raw, ok := r[key]
	if !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// truthy reports whether the field is present and not null, false, zero,
// or an empty string, array, or object.
func (r record) truthy(key string) bool {
	raw, ok := r[key]
	if !ok {
		return false
	}
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`, "[]", "{}":
		return false
	}
	return true
}

func rawString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Representable epoch range: years 1 through 9999.
var (
	minEpoch = float64(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Unix())
	maxEpoch = float64(time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC).Unix())
)

// epochTime converts Unix seconds with an optional fractional part to UTC.
// NaN, infinities and values outside years 1..9999 are rejected.
func epochTime(secs float64) (time.Time, bool) {
	if math.IsNaN(secs) || secs < minEpoch || secs > maxEpoch {
		return time.Time{}, false
	}
	whole := int64(secs)
	nanos := int64((secs - float64(whole)) * 1e9)
	return time.Unix(whole, nanos).UTC(), true
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseISO parses an ISO-8601 timestamp and normalizes it to UTC.
// Values without an offset are taken as UTC.
func parseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
