package types

import (
	"fmt"
	"strings"
	"time"
)

// wire format required by OCPI: UTC with millisecond precision
const TimeLayout = "2006-01-02T15:04:05.000Z"

// DateTime wraps a time.Time struct, allowing for improved dateTime JSON compatibility.
type DateTime struct {
	time.Time
}

// NewDateTime Creates a new DateTime struct, embedding a time.Time struct.
func NewDateTime(time time.Time) *DateTime {
	return &DateTime{Time: time}
}

func Now() *DateTime {
	return &DateTime{Time: time.Now().UTC()}
}

// ParseDateTime accepts any RFC 3339 timestamp; the result is normalized to UTC.
func ParseDateTime(value string) (*DateTime, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date time %q", value)
	}
	return &DateTime{Time: t.UTC()}, nil
}

func (dt *DateTime) String() string {
	return dt.Time.UTC().Format(TimeLayout)
}

func (dt *DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + dt.String() + `"`), nil
}

func (dt *DateTime) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	parsed, err := ParseDateTime(value)
	if err != nil {
		return err
	}
	dt.Time = parsed.Time
	return nil
}

// Equal compares to the millisecond, ignoring the wall-clock location.
func (dt *DateTime) Equal(other *DateTime) bool {
	if dt == nil || other == nil {
		return dt == other
	}
	return dt.Time.Truncate(time.Millisecond).Equal(other.Time.Truncate(time.Millisecond))
}
