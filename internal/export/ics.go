package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"agenda/internal/appointment"
	"agenda/internal/recur"
)

// WriteICS serializes the store as an iCalendar stream. A recurring series,
// stored as forward-projected duplicate records sharing one id, is collapsed
// back into a single VEVENT carrying an RRULE; non-recurring appointments
// become one VEVENT each.
func WriteICS(w io.Writer, store *appointment.Store) error {
	cal := ics.NewCalendar()
	cal.SetProductId("-//agenda//calendar//EN")
	cal.SetVersion("2.0")

	seenSeries := make(map[int64]bool)

	for _, dated := range store.All() {
		a := dated.Appt

		recurring := a.Recurrence != "" && a.Recurrence != appointment.RuleNone
		if recurring {
			// All() is date-ordered, so the first record of a series is its
			// base instance; the projections are elided.
			if seenSeries[a.ID] {
				continue
			}
			seenSeries[a.ID] = true
		}

		ev := cal.AddEvent(fmt.Sprintf("%d-%s@agenda", a.ID, dated.Key))
		ev.SetDtStampTime(time.Now())
		ev.SetStartAt(dated.Key.At(a.Time, time.Local))
		ev.SetSummary(a.Description)

		if recurring {
			ev.AddRrule(rruleFor(a.Recurrence))
		}
	}

	return cal.SerializeTo(w)
}

func rruleFor(rule appointment.Rule) string {
	var freq string
	switch rule {
	case appointment.RuleDaily:
		freq = "DAILY"
	case appointment.RuleWeekly:
		freq = "WEEKLY"
	default:
		freq = "MONTHLY"
	}
	return fmt.Sprintf("FREQ=%s;COUNT=%d", freq, recur.ForwardInstances+1)
}
