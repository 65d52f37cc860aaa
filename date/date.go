// Package date provides the timestamp type used to order lots and transactions.
package date

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the format used to represent a day in ISO-8601 format.
const DateFormat = "2006-01-02"

// DatetimeFormat is the write format of a Date with a time of day.
const DatetimeFormat = "2006-01-02 15:04:05"

// CompactFormat is the layout of the timestamps found in the older spreadsheet exports.
const CompactFormat = "20060102IST1504"

// Layouts lists the formats accepted by Parse, in order.
var Layouts = []string{DatetimeFormat, DateFormat, time.RFC3339, CompactFormat, "2006-1-2"}

// Date is an instant with second granularity, always in UTC.
//
// Two Dates for the same instant are equal with ==.
type Date struct {
	t time.Time
}

// New returns the Date for the given day at midnight.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewTime returns the Date for the given day and time of day.
func NewTime(year int, month time.Month, day, hour, min, sec int) Date {
	return Date{time.Date(year, month, day, hour, min, sec, 0, time.UTC)}
}

// FromTime converts t, dropping sub-second precision and location.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{t.UTC().Truncate(time.Second)}
}

// Time returns the underlying time.Time.
func (d Date) Time() time.Time { return d.t }

// IsZero reports whether d is the zero value, i.e. a missing date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.t.Before(x.t) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.t.After(x.t) }

// Compare returns -1, 0 or +1, like time.Time.Compare.
func (d Date) Compare(x Date) int { return d.t.Compare(x.t) }

// Day returns the date truncated to midnight.
func (d Date) Day() Date {
	y, m, dd := d.t.Date()
	return New(y, m, dd)
}

// Format returns a textual representation of the date, see [time.Time.Format].
func (d Date) Format(layout string) string { return d.t.Format(layout) }

// String formats the date as a day when it is at midnight, and with its time of day otherwise.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	if d.t.Hour() == 0 && d.t.Minute() == 0 && d.t.Second() == 0 {
		return d.t.Format(DateFormat)
	}
	return d.t.Format(DatetimeFormat)
}

// ErrInvalid is returned when a string cannot be parsed as a Date.
var ErrInvalid = errors.New("invalid date")

// Parse parses a Date trying each layout in turn. When no layout is given Layouts is used.
func Parse(str string, layouts ...string) (Date, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Date{}, fmt.Errorf("%w: empty string", ErrInvalid)
	}
	if len(layouts) == 0 {
		layouts = Layouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, str); err == nil {
			return FromTime(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w %q: want one of %q", ErrInvalid, str, layouts)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	v, err := Parse(str)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
