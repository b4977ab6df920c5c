// Package dateint encodes calendar dates as dense YYYYMMDD integers.
//
// Price rows are keyed by these integers so that numeric comparison,
// sorting, and grouping follow chronological order without reparsing
// date strings: 2025-12-15 encodes to 20251215.
package dateint

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when a date or key fails calendar validation.
var ErrInvalidDate = errors.New("dateint: invalid date")

// Layout is the string form produced by Key.String and accepted by Parse.
const Layout = "2006-01-02"

// Key is a calendar date encoded as YYYYMMDD. Keys compare and sort in
// chronological order.
type Key int

// Encode converts a calendar date to its integer key. Years must have four
// digits so that every key has exactly eight.
func Encode(year int, month time.Month, day int) (Key, error) {
	if year < 1000 || year > 9999 {
		return 0, fmt.Errorf("%w: year %d outside [1000, 9999]", ErrInvalidDate, year)
	}
	if month < time.January || month > time.December {
		return 0, fmt.Errorf("%w: month %d outside [1, 12]", ErrInvalidDate, int(month))
	}
	if day < 1 || day > daysIn(year, month) {
		return 0, fmt.Errorf("%w: day %d outside %04d-%02d", ErrInvalidDate, day, year, int(month))
	}
	return Key(year*10000 + int(month)*100 + day), nil
}

// Date decodes the key back to its calendar components.
func (k Key) Date() (year int, month time.Month, day int, err error) {
	if k < 10000101 || k > 99991231 {
		return 0, 0, 0, fmt.Errorf("%w: key %d is not an eight-digit date", ErrInvalidDate, int(k))
	}
	year = int(k) / 10000
	month = time.Month(int(k) / 100 % 100)
	day = int(k) % 100
	if month < time.January || month > time.December || day < 1 || day > daysIn(year, month) {
		return 0, 0, 0, fmt.Errorf("%w: key %d does not decode to a calendar date", ErrInvalidDate, int(k))
	}
	return year, month, day, nil
}

// Valid reports whether the key decodes to a calendar date.
func (k Key) Valid() bool {
	_, _, _, err := k.Date()
	return err == nil
}

// String formats the key as YYYY-MM-DD. Keys that do not decode render as
// their raw integer so logging never fails.
func (k Key) String() string {
	year, month, day, err := k.Date()
	if err != nil {
		return fmt.Sprintf("dateint(%d)", int(k))
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// Time returns the key's date at midnight UTC.
func (k Key) Time() (time.Time, error) {
	year, month, day, err := k.Date()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// Parse converts a YYYY-MM-DD string to a key.
func Parse(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not in %s form", ErrInvalidDate, s, Layout)
	}
	return Encode(t.Date())
}

// FromTime converts the calendar date of t, interpreted in UTC, to a key.
func FromTime(t time.Time) (Key, error) {
	return Encode(t.UTC().Date())
}

// daysIn returns the number of days in the month. Day 0 of the following
// month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
