package recur

import (
	"time"

	"github.com/teambition/rrule-go"

	"agenda/internal/appointment"
	"agenda/internal/datekey"
)

// ForwardInstances is how many projected instances a recurring appointment
// receives beyond its base date.
const ForwardInstances = 12

// Instance is one projected occurrence of a recurring appointment, ready to
// be inserted into the store.
type Instance struct {
	Key  datekey.DateKey
	Appt appointment.Appointment
}

// Expand projects a recurring appointment forward from its base date. The
// base instance itself is not re-emitted; the caller inserts it separately.
// Every projected instance shares the base's id, time, description and rule,
// but starts with an independent zero view counter.
//
// Rules outside {daily, weekly, monthly} expand to nothing. Monthly
// recurrence pins the base's day-of-month per RFC 5545, so a series started
// on Jan 31 lands on Mar 31, May 31, … and skips months lacking a 31st.
//
// Expansion runs on creation only; editing an existing appointment never
// regenerates its projected instances.
func Expand(base datekey.DateKey, appt appointment.Appointment) []Instance {
	var freq rrule.Frequency
	switch appointment.NormalizeRule(string(appt.Recurrence)) {
	case appointment.RuleDaily:
		freq = rrule.DAILY
	case appointment.RuleWeekly:
		freq = rrule.WEEKLY
	case appointment.RuleMonthly:
		freq = rrule.MONTHLY
	default:
		return nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    freq,
		Count:   ForwardInstances + 1, // base occurrence plus the projections
		Dtstart: base.At(appt.Time, time.UTC),
	})
	if err != nil {
		return nil
	}

	occurrences := rule.All()
	if len(occurrences) <= 1 {
		return nil
	}

	projected := appt
	projected.Views = 0

	instances := make([]Instance, 0, len(occurrences)-1)
	for _, occ := range occurrences[1:] {
		instances = append(instances, Instance{
			Key:  datekey.Of(occ),
			Appt: projected,
		})
	}
	return instances
}
