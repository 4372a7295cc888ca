package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseEpochMillis parses an integer epoch-millisecond token into a UTC time.
func ParseEpochMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch milliseconds %q: %w", s, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// ParseTimeFlexible accepts RFC3339 (with or without fractional seconds) or
// epoch milliseconds.
func ParseTimeFlexible(timeStr string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, timeStr)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t.UTC(), nil
	}
	if t, err := ParseEpochMillis(timeStr); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
}
