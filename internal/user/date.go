package user

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/wichananm65/userdemo/internal/validation"
)

// DateLayout is the wire format of dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without clock or zone. The zero Date means unset.
type Date struct {
	time.Time
}

// NewDate builds a Date from its calendar parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// After reports whether d is a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Between reports whether from <= d <= to.
func (d Date) Between(from, to Date) bool {
	return !d.Time.Before(from.Time) && !d.Time.After(to.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(strings.Trim(s, `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Date{Time: validation.DateOnly(v)}
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}
