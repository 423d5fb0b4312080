package grid

import (
	"time"

	"agenda/internal/datekey"
)

// Mode selects which calendar cells are visible.
type Mode int

const (
	ModeMonth Mode = iota
	ModeWeek
	ModeDay
)

// Week-start conventions. The month grid uses a Monday-first header while the
// week view anchors its seven days on Sunday. The pair is intentionally
// distinct and pinned here so the behavior is explicit rather than
// accidental.
const (
	MonthWeekStart = time.Monday
	WeekViewAnchor = time.Sunday
)

// Cell is one slot in the rendered grid. Blank cells are the leading filler
// before day 1 of a month; they carry no day number and are never selectable.
type Cell struct {
	Day   int
	Blank bool
}

// Cells computes the ordered slots to display for the given view.
//
// Month mode emits leading blanks (the Monday-first weekday offset of the
// 1st, with Sunday normalized to position 6) followed by one cell per day.
// Week mode emits exactly the 7 days of the week containing today, starting
// from Sunday. Day mode emits a single cell for today. Week and day mode
// ignore year/month: they always anchor on the real current date.
func Cells(year, month int, mode Mode, today datekey.DateKey) []Cell {
	switch mode {
	case ModeWeek:
		return weekCells(today)
	case ModeDay:
		return []Cell{{Day: today.Day}}
	default:
		return monthCells(year, month)
	}
}

func monthCells(year, month int) []Cell {
	first := datekey.DateKey{Year: year, Month: month, Day: 1}
	offset := mondayFirstOffset(first.Weekday())

	cells := make([]Cell, 0, offset+datekey.DaysIn(year, month))
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for day := 1; day <= datekey.DaysIn(year, month); day++ {
		cells = append(cells, Cell{Day: day})
	}
	return cells
}

func weekCells(today datekey.DateKey) []Cell {
	// Walk back to the anchoring Sunday, then take 7 consecutive days.
	start := today.AddDays(-int(today.Weekday() - WeekViewAnchor))
	cells := make([]Cell, 0, 7)
	for i := 0; i < 7; i++ {
		cells = append(cells, Cell{Day: start.AddDays(i).Day})
	}
	return cells
}

// WeekDates returns the DateKeys backing the week view's seven cells.
func WeekDates(today datekey.DateKey) []datekey.DateKey {
	start := today.AddDays(-int(today.Weekday() - WeekViewAnchor))
	dates := make([]datekey.DateKey, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, start.AddDays(i))
	}
	return dates
}

// mondayFirstOffset maps a weekday to its column under a Monday-first header,
// so Monday is 0 and Sunday is 6.
func mondayFirstOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// PrevMonth steps month navigation backward, wrapping the year at January.
// Navigation applies to month mode only; week and day views always track the
// real current date.
func PrevMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// NextMonth steps month navigation forward, wrapping the year at December.
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}
