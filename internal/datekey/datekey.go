package datekey

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateKey identifies a single calendar day. The external string form is
// "YYYY-M-D" without zero padding, matching the shape used by the persisted
// store. All comparisons and arithmetic go through the integer triple or
// time.Time; the string form exists only at the persistence/display boundary.
type DateKey struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31
}

// Of returns the DateKey for the day containing t.
func Of(t time.Time) DateKey {
	return DateKey{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// New builds a DateKey from a year, month and day. The triple is normalized
// through time.Date, so out-of-range components roll over the way Go's date
// arithmetic does.
func New(year, month, day int) DateKey {
	return Of(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local))
}

// Parse parses the unpadded "YYYY-M-D" form.
func Parse(s string) (DateKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return DateKey{}, fmt.Errorf("invalid date key %q", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return DateKey{}, fmt.Errorf("invalid date key %q: %w", s, err)
		}
		nums[i] = n
	}

	d := DateKey{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > daysIn(d.Year, d.Month) {
		return DateKey{}, fmt.Errorf("invalid date key %q: out of range", s)
	}
	return d, nil
}

// String renders the canonical unpadded storage form.
func (d DateKey) String() string {
	return fmt.Sprintf("%d-%d-%d", d.Year, d.Month, d.Day)
}

// Time returns midnight of the day in loc (time.Local when loc is nil).
func (d DateKey) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// At combines the date with a wall-clock "HH:MM" time. A malformed time
// yields midnight.
func (d DateKey) At(hhmm string, loc *time.Location) time.Time {
	t := d.Time(loc)
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return t
	}
	return t.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
}

// AddDays steps the key forward (or back, for negative n) by whole days.
func (d DateKey) AddDays(n int) DateKey {
	return Of(d.Time(nil).AddDate(0, 0, n))
}

func (d DateKey) Equal(o DateKey) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

func (d DateKey) Before(o DateKey) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Weekday returns the day of week for the key.
func (d DateKey) Weekday() time.Weekday {
	return d.Time(nil).Weekday()
}

func daysIn(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysIn reports the number of days in the given month.
func DaysIn(year, month int) int {
	return daysIn(year, month)
}
