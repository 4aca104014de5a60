// Copyright 2026 Peter Edge
//
// All rights reserved.

// Originally derived from https://github.com/googleapis/google-cloud-go/blob/v0.116.0/civil/civil.go
// See https://github.com/googleapis/google-cloud-go/blob/v0.116.0/LICENSE.

// Package xtime provides extensions to the standard time package.
package xtime

import (
	"fmt"
	"strconv"
	"time"
)

const (
	compactDateLength = 8
	minCompactYear    = 1900
	maxCompactYear    = 2100
)

// Date is a calendar date with no time zone.
//
// Dates in brokerage statements are local calendar dates. A Date never converts through a
// time.Location unless In is called explicitly.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// TimeToDate returns the Date in which t occurs, in t's location.
func TimeToDate(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a string in RFC3339 full-date format (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return TimeToDate(t), nil
}

// ParseCompact parses an eight-digit YYYYMMDD string.
//
// The year must be within [1900, 2100] and the month and day must form a real calendar
// date. ParseCompact never fails loudly: any string that does not satisfy these rules
// returns false.
func ParseCompact(s string) (Date, bool) {
	if len(s) != compactDateLength {
		return Date{}, false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return Date{}, false
		}
	}
	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[4:6])
	day, _ := strconv.Atoi(s[6:8])
	if year < minCompactYear || year > maxCompactYear {
		return Date{}, false
	}
	date := Date{Year: year, Month: time.Month(month), Day: day}
	if !date.IsValid() {
		return Date{}, false
	}
	return date, true
}

// String returns the date in RFC3339 full-date format.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsValid reports whether the date is valid.
func (d Date) IsValid() bool {
	return d == TimeToDate(d.In(time.UTC))
}

// In returns the time corresponding to midnight on the date in the given location.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date that is n days in the future. n can be negative.
func (d Date) AddDays(n int) Date {
	return TimeToDate(d.In(time.UTC).AddDate(0, 0, n))
}

// DaysSince returns the signed number of days between the date and s, not including the end day.
func (d Date) DaysSince(s Date) int {
	deltaUnix := d.In(time.UTC).Unix() - s.In(time.UTC).Unix()
	return int(deltaUnix / 86400)
}

// Before reports whether d occurs before d2.
func (d Date) Before(d2 Date) bool {
	return d.Compare(d2) < 0
}

// After reports whether d occurs after d2.
func (d Date) After(d2 Date) bool {
	return d.Compare(d2) > 0
}

// EqualOrBefore reports whether d is equal to or before d2.
func (d Date) EqualOrBefore(d2 Date) bool {
	return d.Compare(d2) <= 0
}

// EqualOrAfter reports whether d is equal to or after d2.
func (d Date) EqualOrAfter(d2 Date) bool {
	return d.Compare(d2) >= 0
}

// Compare returns -1, 0, or +1 depending on whether d is before, equal to, or after d2.
func (d Date) Compare(d2 Date) int {
	switch {
	case d.Year != d2.Year:
		return compareInts(d.Year, d2.Year)
	case d.Month != d2.Month:
		return compareInts(int(d.Month), int(d2.Month))
	default:
		return compareInts(d.Day, d2.Day)
	}
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(data []byte) error {
	var err error
	*d, err = ParseDate(string(data))
	return err
}

// *** PRIVATE ***

func compareInts(a int, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
