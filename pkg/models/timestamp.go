package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LegacyTimeLayout is the "dd-mm-yyyy, hh:mm am" format written by older exports.
const LegacyTimeLayout = "02-01-2006, 03:04 pm"

// Timestamp is a time.Time that serializes as RFC3339 but also accepts the
// legacy export format on input.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(ts.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: expected string: %w", err)
	}

	t, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}

// ParseTimestamp parses RFC3339 (with or without fractional seconds) or the
// legacy layout. An empty string yields the zero time.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}

	// legacy layout expects lowercase am/pm
	if t, err := time.ParseInLocation(LegacyTimeLayout, strings.ToLower(raw), time.Local); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("timestamp: unrecognized format %q", raw)
}
