package internal

import (
	"fmt"
	"time"
)

const DateFormat = "2006-01-02"

// Date accepts either a plain day or an RFC 3339 timestamp and always
// holds the value in UTC.
type Date struct {
	time.Time
}

func ParseDate(v string) (Date, error) {
	for _, layout := range []string{DateFormat, time.RFC3339Nano} {
		if t, err := time.Parse(layout, v); err == nil {
			return Date{t.UTC()}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q, expected %s or RFC 3339", v, DateFormat)
}

func (d *Date) Set(v string) error {
	parsed, err := ParseDate(v)
	if err == nil {
		*d = parsed
	}
	return err
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	if d.Equal(d.Truncate(24 * time.Hour)) {
		return d.Format(DateFormat)
	}
	return d.Format(time.RFC3339)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date %s", b)
	}
	if len(b) == 2 {
		*d = Date{}
		return nil
	}
	return d.Set(string(b[1 : len(b)-1]))
}
