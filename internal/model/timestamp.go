package model

import (
	"encoding/json"
	"strings"
	"time"
)

// naiveLayout matches ISO-8601 text without a zone designator, which is
// read as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is an instant that may also carry the original stored text when
// that text could not be parsed. A Timestamp with Raw set is still a valid
// value; it just cannot be compared chronologically.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// NewTimestamp wraps t, normalized to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// Now returns the current instant as a Timestamp.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// ParseTimestamp parses ISO-8601 text. Unparseable text is kept in Raw.
func ParseTimestamp(s string) Timestamp {
	if t, ok := parseISO(s); ok {
		return NewTimestamp(t)
	}
	return Timestamp{Raw: s}
}

func parseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(naiveLayout, s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// IsRaw reports whether the value holds unparsed text.
func (t Timestamp) IsRaw() bool { return t.Raw != "" }

// IsZero reports whether neither an instant nor raw text is set.
func (t Timestamp) IsZero() bool { return t.Raw == "" && t.Time.IsZero() }

// String returns the canonical ISO-8601 form, or the raw text.
func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	return t.Time.UTC().Format(time.RFC3339Nano)
}

// Equal compares instants, or raw text when either side is raw.
func (t Timestamp) Equal(o Timestamp) bool {
	if t.IsRaw() || o.IsRaw() {
		return t.Raw == o.Raw
	}
	return t.Time.Equal(o.Time)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTimestamp(s)
	return nil
}
