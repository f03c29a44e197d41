package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2/unstable"
)

// DateLayout is the fixed textual form of an encoded Date.
const DateLayout = "2006/01/02"

// Date is a calendar date with no time of day and no zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, rejecting year/month/day triples that are not
// calendar dates (day 30 of February, month 13).
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, NewFormatError("", fmt.Sprintf("%04d-%02d-%02d is not a calendar date", year, int(month), day), nil)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// MustDate is NewDate that panics on error
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// UnmarshalTOML accepts only native TOML date-shaped values: local dates,
// local date-times and offset date-times. The time part, if any, is dropped.
func (d *Date) UnmarshalTOML(node *unstable.Node) error {
	switch node.Kind {
	case unstable.LocalDate, unstable.LocalDateTime, unstable.DateTime:
	default:
		return NewFormatError("", fmt.Sprintf("expected a date, got %s %q", node.Kind, node.Data), nil)
	}

	raw := string(node.Data)
	if len(raw) < 10 || raw[4] != '-' || raw[7] != '-' {
		return NewFormatError("", fmt.Sprintf("%q is not a date", raw), nil)
	}
	year, errY := strconv.Atoi(raw[0:4])
	month, errM := strconv.Atoi(raw[5:7])
	day, errD := strconv.Atoi(raw[8:10])
	if errY != nil || errM != nil || errD != nil {
		return NewFormatError("", fmt.Sprintf("%q is not a date", raw), nil)
	}

	parsed, err := NewDate(year, time.Month(month), day)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String renders the date as YYYY/MM/DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler using the YYYY/MM/DD form.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
