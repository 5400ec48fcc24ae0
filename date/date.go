// Package date provides a day-granularity Date, used to label valuation
// horizons and to read expiry dates from broker exports.
package date

import (
	"fmt"
	"time"
)

const (
	readDateFormat = "2006-1-2"   // lenient ISO read format, allows 2025-7-1
	DateFormat     = "2006-01-02" // ISO-8601 write format
	LabelFormat    = "02-Jan-06"  // horizon labels, e.g. "19-Oct-26"
)

// Date is a calendar day.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns the canonical time of that day, midnight UTC.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date, New(2025, 1, 32) is February 1st.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in the local time zone.
func Today() Date { return New(time.Now().Date()) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Add returns the date i days later, or earlier when i is negative.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// DaysUntil returns the number of days from d to x, negative if x is before d.
func (d Date) DaysUntil(x Date) int {
	return int(x.time().Sub(d.time()) / (24 * time.Hour))
}

func (d Date) String() string { return d.time().Format(DateFormat) }

// Format formats the date with a time layout.
func (d Date) Format(layout string) string { return d.time().Format(layout) }

// Parse parses an ISO date. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	return ParseLayout(readDateFormat, str)
}

// ParseLayout parses a Date using a specific time layout, e.g. "1/2/06" for
// broker exports.
func ParseLayout(layout, str string) (Date, error) {
	on, err := time.Parse(layout, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, layout, err)
	}
	return New(on.Date()), nil
}
