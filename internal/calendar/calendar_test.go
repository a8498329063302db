package calendar

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestIsMarketHoliday_KnownClosures(t *testing.T) {
	closures := []time.Time{
		// 2024
		date(2024, time.January, 1), date(2024, time.January, 15),
		date(2024, time.February, 19), date(2024, time.March, 29),
		date(2024, time.May, 27), date(2024, time.June, 19),
		date(2024, time.July, 4), date(2024, time.September, 2),
		date(2024, time.November, 28), date(2024, time.December, 25),
		// 2025
		date(2025, time.January, 1), date(2025, time.January, 20),
		date(2025, time.February, 17), date(2025, time.April, 18),
		date(2025, time.May, 26), date(2025, time.June, 19),
		date(2025, time.July, 4), date(2025, time.September, 1),
		date(2025, time.November, 27), date(2025, time.December, 25),
		// 2026: July 4 is a Saturday, observed Friday July 3.
		date(2026, time.January, 1), date(2026, time.January, 19),
		date(2026, time.February, 16), date(2026, time.April, 3),
		date(2026, time.May, 25), date(2026, time.June, 19),
		date(2026, time.July, 3), date(2026, time.September, 7),
		date(2026, time.November, 26), date(2026, time.December, 25),
		// 2027: July 4 Sunday -> Monday 5th, Christmas Saturday -> Friday 24th,
		// Juneteenth Saturday -> Friday 18th.
		date(2027, time.January, 1), date(2027, time.January, 18),
		date(2027, time.February, 15), date(2027, time.March, 26),
		date(2027, time.May, 31), date(2027, time.June, 18),
		date(2027, time.July, 5), date(2027, time.September, 6),
		date(2027, time.November, 25), date(2027, time.December, 24),
	}
	for _, d := range closures {
		got, err := IsMarketHoliday(d)
		if err != nil {
			t.Fatalf("IsMarketHoliday(%s): %v", d.Format("2006-01-02"), err)
		}
		if !got {
			t.Errorf("IsMarketHoliday(%s) = false, want true", d.Format("2006-01-02"))
		}
	}
}

func TestIsMarketHoliday_RegularDays(t *testing.T) {
	regular := []time.Time{
		date(2025, time.March, 10),
		date(2025, time.July, 3),      // day before Independence Day, open
		date(2025, time.November, 28), // day after Thanksgiving, open
		date(2026, time.July, 6),
		date(2024, time.December, 24),
	}
	for _, d := range regular {
		got, err := IsMarketHoliday(d)
		if err != nil {
			t.Fatalf("IsMarketHoliday(%s): %v", d.Format("2006-01-02"), err)
		}
		if got {
			t.Errorf("IsMarketHoliday(%s) = true, want false", d.Format("2006-01-02"))
		}
	}
}

func TestIsMarketDay(t *testing.T) {
	tests := []struct {
		d    time.Time
		want bool
	}{
		{date(2025, time.March, 10), true},  // Monday
		{date(2025, time.March, 8), false},  // Saturday
		{date(2025, time.March, 9), false},  // Sunday
		{date(2025, time.July, 4), false},   // holiday
		{date(2025, time.April, 18), false}, // Good Friday
		{date(2025, time.April, 21), true},  // Easter Monday, markets open
	}
	for _, tt := range tests {
		got, err := IsMarketDay(tt.d)
		if err != nil {
			t.Fatalf("IsMarketDay(%s): %v", tt.d.Format("2006-01-02"), err)
		}
		if got != tt.want {
			t.Errorf("IsMarketDay(%s) = %v, want %v", tt.d.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestUnsupportedRange(t *testing.T) {
	for _, d := range []time.Time{date(2021, time.June, 1), date(2031, time.January, 2)} {
		if _, err := IsMarketHoliday(d); !errors.Is(err, ErrUnsupportedDate) {
			t.Errorf("IsMarketHoliday(%d): err = %v, want ErrUnsupportedDate", d.Year(), err)
		}
		if _, err := IsMarketDay(d); err == nil {
			t.Errorf("IsMarketDay(%d): expected error for out-of-range weekday", d.Year())
		}
	}
	// Out-of-range weekends short-circuit before touching the holiday rules.
	if got, err := IsMarketDay(date(2031, time.January, 4)); err != nil || got {
		t.Errorf("IsMarketDay(2031 Saturday) = %v, %v; want false, nil", got, err)
	}
}

func TestEasterSunday(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2024, time.March, 31},
		{2025, time.April, 20},
		{2026, time.April, 5},
		{2027, time.March, 28},
		{2030, time.April, 21},
	}
	for _, tt := range tests {
		got := easterSunday(tt.year)
		if got.Month() != tt.month || got.Day() != tt.day {
			t.Errorf("easterSunday(%d) = %s, want %d-%02d-%02d",
				tt.year, got.Format("2006-01-02"), tt.year, tt.month, tt.day)
		}
	}
}
