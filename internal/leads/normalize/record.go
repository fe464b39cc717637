// Package normalize maps the raw, inconsistently shaped records served by the
// upstream CRM into canonical domain entities.
//
// The upstream exposes the same field under different keys depending on which
// of its endpoints produced the record. All field access therefore goes
// through the priority-ordered accessors below: each accessor tries the given
// keys in order and falls back to a safe zero value instead of failing.
// Call sites must not build their own fallback chains.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one decoded raw JSON object as received from the upstream source.
type Record map[string]any

// Str returns the first present, non-empty string among keys.
func Str(r Record, keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// Int64 returns the first value among keys representable as an integer.
// Numeric strings are coerced. Returns ok=false when no key matches.
func Int64(r Record, keys ...string) (int64, bool) {
	for _, key := range keys {
		v, present := r[key]
		if !present || v == nil {
			continue
		}
		switch typed := v.(type) {
		case float64:
			if typed == math.Trunc(typed) {
				return int64(typed), true
			}
		case json.Number:
			if n, err := typed.Int64(); err == nil {
				return n, true
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64); err == nil {
				return n, true
			}
		case int:
			return int64(typed), true
		case int64:
			return typed, true
		}
	}
	return 0, false
}

// Float returns the first value among keys representable as a number.
// Numeric-looking strings are coerced; anything else yields 0.
func Float(r Record, keys ...string) float64 {
	for _, key := range keys {
		v, present := r[key]
		if !present || v == nil {
			continue
		}
		switch typed := v.(type) {
		case float64:
			return typed
		case json.Number:
			if f, err := typed.Float64(); err == nil {
				return f
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64); err == nil {
				return f
			}
		case int:
			return float64(typed)
		case int64:
			return float64(typed)
		}
	}
	return 0
}

// Bool returns the first present boolean among keys. The upstream also
// serializes flags as "true"/"1" on some endpoints.
func Bool(r Record, keys ...string) bool {
	for _, key := range keys {
		v, present := r[key]
		if !present || v == nil {
			continue
		}
		switch typed := v.(type) {
		case bool:
			return typed
		case string:
			return strings.EqualFold(typed, "true") || typed == "1"
		case float64:
			return typed != 0
		}
	}
	return false
}

// Sub returns the first nested object among keys.
func Sub(r Record, keys ...string) (Record, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok {
			if m, ok := v.(map[string]any); ok {
				return Record(m), true
			}
		}
	}
	return nil, false
}

// List returns the first array of objects among keys.
func List(r Record, keys ...string) []Record {
	for _, key := range keys {
		v, ok := r[key]
		if !ok {
			continue
		}
		items, ok := v.([]any)
		if !ok {
			continue
		}
		out := make([]Record, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Record(m))
			}
		}
		return out
	}
	return nil
}

// Millis returns the first value among keys representable as an epoch
// millisecond timestamp. Accepts epoch millis, epoch seconds, and RFC 3339
// strings; returns 0 when nothing parses.
func Millis(r Record, keys ...string) int64 {
	for _, key := range keys {
		v, present := r[key]
		if !present || v == nil {
			continue
		}
		switch typed := v.(type) {
		case float64:
			return normalizeEpoch(int64(typed))
		case json.Number:
			if n, err := typed.Int64(); err == nil {
				return normalizeEpoch(n)
			}
		case string:
			if t, err := time.Parse(time.RFC3339, typed); err == nil {
				return t.UnixMilli()
			}
			if t, err := time.Parse("2006-01-02 15:04:05", typed); err == nil {
				return t.UTC().UnixMilli()
			}
			if n, err := strconv.ParseInt(typed, 10, 64); err == nil {
				return normalizeEpoch(n)
			}
		}
	}
	return 0
}

// Time parses the first value among keys as a wall-clock time.
func Time(r Record, keys ...string) time.Time {
	if ms := Millis(r, keys...); ms != 0 {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// normalizeEpoch widens epoch-second values to millis. The cutoff is far
// enough out (year 2603 in millis) that ambiguity is not a practical concern.
func normalizeEpoch(n int64) int64 {
	if n != 0 && n < 2e10 {
		return n * 1000
	}
	return n
}
