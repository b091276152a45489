package entity

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// CustomTime accepts the "2006-01-02T15:04" layout the admin forms send, as
// well as RFC 3339.
type CustomTime struct {
	time.Time
}

const customTimeLayout = "2006-01-02T15:04"

func NewCustomTime(t time.Time) CustomTime {
	return CustomTime{Time: t}
}

func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		ct.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(customTimeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid time %q: expected %s", s, customTimeLayout)
		}
	}
	ct.Time = t
	return nil
}

func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ct.Format(customTimeLayout) + `"`), nil
}

func (ct CustomTime) Value() (driver.Value, error) {
	if ct.IsZero() {
		return nil, nil
	}
	return ct.Time, nil
}

// Scan reads TIMESTAMP columns; lib/pq hands them over as time.Time, other
// drivers may send text.
func (ct *CustomTime) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		ct.Time = time.Time{}
		return nil
	case time.Time:
		ct.Time = v
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into CustomTime", src)
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", customTimeLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			ct.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time", raw)
}
