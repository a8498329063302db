// Package calendar answers whether a calendar date is a US equity-market
// trading day. Holidays are computed from NYSE rules rather than hardcoded,
// but only a verified year range is served; anything outside it is an
// explicit error rather than a guess.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Supported year range. The rules below were checked against published NYSE
// holiday schedules for these years.
const (
	MinYear = 2022
	MaxYear = 2030
)

// ErrUnsupportedDate is returned for dates outside [MinYear, MaxYear].
var ErrUnsupportedDate = errors.New("date outside supported market calendar range")

// IsMarketHoliday reports whether d falls on an observed NYSE holiday.
func IsMarketHoliday(d time.Time) (bool, error) {
	year := d.Year()
	if year < MinYear || year > MaxYear {
		return false, fmt.Errorf("%w: %d (supported %d-%d)", ErrUnsupportedDate, year, MinYear, MaxYear)
	}
	_, month, day := d.Date()
	for _, h := range holidaysForYear(year) {
		if h.Month() == month && h.Day() == day {
			return true, nil
		}
	}
	return false, nil
}

// IsMarketDay reports whether d is a weekday that is not a market holiday.
func IsMarketDay(d time.Time) (bool, error) {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false, nil
	}
	holiday, err := IsMarketHoliday(d)
	if err != nil {
		return false, err
	}
	return !holiday, nil
}

// holidaysForYear computes the observed NYSE closures for one year.
func holidaysForYear(year int) []time.Time {
	var hs []time.Time

	// New Year's Day. NYSE does not shift a Saturday Jan 1 to the prior
	// Friday (that Friday belongs to the old year); Sunday shifts to Monday.
	ny := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	switch ny.Weekday() {
	case time.Saturday:
		// not observed
	case time.Sunday:
		hs = append(hs, ny.AddDate(0, 0, 1))
	default:
		hs = append(hs, ny)
	}

	hs = append(hs,
		nthWeekday(year, time.January, time.Monday, 3),    // MLK Day
		nthWeekday(year, time.February, time.Monday, 3),   // Washington's Birthday
		easterSunday(year).AddDate(0, 0, -2),              // Good Friday
		lastWeekday(year, time.May, time.Monday),          // Memorial Day
		observed(year, time.June, 19),                     // Juneteenth
		observed(year, time.July, 4),                      // Independence Day
		nthWeekday(year, time.September, time.Monday, 1),  // Labor Day
		nthWeekday(year, time.November, time.Thursday, 4), // Thanksgiving
		observed(year, time.December, 25),                 // Christmas
	)
	return hs
}

// observed shifts a fixed-date holiday per NYSE rules: Saturday is observed
// the preceding Friday, Sunday the following Monday.
func observed(year int, month time.Month, day int) time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// nthWeekday returns the nth given weekday of a month (n is 1-based).
func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(wd) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the last given weekday of a month.
func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(d.Weekday()) - int(wd) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// easterSunday computes Easter for the Gregorian calendar (anonymous
// computus), the anchor for Good Friday.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
