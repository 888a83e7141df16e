package analyze

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Weekdays is the fixed weekday bucket order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Bucket is one histogram bin.
type Bucket struct {
	Key   string
	Count int
}

// Histogram is an ordered set of buckets. It marshals to a JSON object whose
// keys appear in bucket order.
type Histogram []Bucket

// Get returns the count for key, or 0.
func (h Histogram) Get(key string) int {
	for _, b := range h {
		if b.Key == key {
			return b.Count
		}
	}
	return 0
}

// Total sums all buckets.
func (h Histogram) Total() int {
	n := 0
	for _, b := range h {
		n += b.Count
	}
	return n
}

// Max returns the largest bucket count.
func (h Histogram) Max() int {
	m := 0
	for _, b := range h {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

func (h Histogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(b.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// sortedHistogram emits the counter's keys in ascending order.
func sortedHistogram(c *counter) Histogram {
	keys := append([]string(nil), c.order...)
	sort.Strings(keys)
	h := make(Histogram, 0, len(keys))
	for _, k := range keys {
		h = append(h, Bucket{Key: k, Count: c.get(k)})
	}
	return h
}

// fixedHistogram emits exactly the given keys, zero-filled.
func fixedHistogram(c *counter, keys []string) Histogram {
	h := make(Histogram, 0, len(keys))
	for _, k := range keys {
		h = append(h, Bucket{Key: k, Count: c.get(k)})
	}
	return h
}

func hourKeys() []string {
	keys := make([]string, 24)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}
