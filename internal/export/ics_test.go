package export

import (
	"strings"
	"testing"

	"agenda/internal/appointment"
	"agenda/internal/datekey"
	"agenda/internal/recur"
)

func TestWriteICSPlainAppointments(t *testing.T) {
	store := appointment.NewStore(appointment.NewMemoryBlobStore())
	store.Upsert(datekey.DateKey{Year: 2024, Month: 6, Day: 20}, appointment.Appointment{
		ID: 1, Time: "10:00", Description: "standup",
	})
	store.Upsert(datekey.DateKey{Year: 2024, Month: 6, Day: 21}, appointment.Appointment{
		ID: 2, Time: "12:30", Description: "lunch",
	})

	var buf strings.Builder
	if err := WriteICS(&buf, store); err != nil {
		t.Fatalf("WriteICS failed: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("%d VEVENTs, want 2", got)
	}
	for _, want := range []string{"SUMMARY:standup", "SUMMARY:lunch", "BEGIN:VCALENDAR", "END:VCALENDAR"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "RRULE") {
		t.Error("non-recurring appointments should not carry an RRULE")
	}
}

func TestWriteICSCollapsesSeries(t *testing.T) {
	store := appointment.NewStore(appointment.NewMemoryBlobStore())

	base := datekey.DateKey{Year: 2024, Month: 1, Day: 1}
	a := appointment.Appointment{ID: 7, Time: "09:00", Description: "yoga", Recurrence: appointment.RuleWeekly}
	store.Upsert(base, a)
	for _, inst := range recur.Expand(base, a) {
		store.Upsert(inst.Key, inst.Appt)
	}
	if store.Len() != 13 {
		t.Fatalf("fixture store has %d appointments, want 13", store.Len())
	}

	var buf strings.Builder
	if err := WriteICS(&buf, store); err != nil {
		t.Fatalf("WriteICS failed: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 1 {
		t.Errorf("series serialized as %d VEVENTs, want a single one with RRULE", got)
	}
	if !strings.Contains(out, "RRULE:FREQ=WEEKLY;COUNT=13") {
		t.Errorf("output missing the series RRULE:\n%s", out)
	}
}
