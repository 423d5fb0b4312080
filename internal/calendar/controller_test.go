package calendar

import (
	"testing"

	"agenda/internal/appointment"
	"agenda/internal/datekey"
	"agenda/internal/grid"
)

type fakeScheduler struct {
	scheduled []int64
	cancelled []int64
}

func (f *fakeScheduler) Schedule(id int64, key datekey.DateKey, hhmm, description string) bool {
	f.scheduled = append(f.scheduled, id)
	return true
}

func (f *fakeScheduler) Cancel(id int64) {
	f.cancelled = append(f.cancelled, id)
}

func newTestController() (*Controller, *appointment.Store, *fakeScheduler) {
	store := appointment.NewStore(appointment.NewMemoryBlobStore())
	sched := &fakeScheduler{}
	c := NewController(store, sched)
	c.today = func() datekey.DateKey { return datekey.DateKey{Year: 2024, Month: 6, Day: 15} }
	c.Year, c.Month = 2024, 6
	return c, store, sched
}

func selectDay(c *Controller, day int) {
	c.SelectDay(&day)
}

func TestAddRequiresSelectionAndValidForm(t *testing.T) {
	c, store, _ := newTestController()

	c.SetForm("10:00", "standup", "none")
	if c.AddAppointment() {
		t.Error("add without a selected date should decline")
	}

	selectDay(c, 20)
	c.SetForm("", "standup", "none")
	if c.AddAppointment() {
		t.Error("add with empty time should decline")
	}
	c.SetForm("10:00", "  ", "none")
	if c.AddAppointment() {
		t.Error("add with blank description should decline")
	}

	if store.Len() != 0 {
		t.Errorf("declined submits mutated the store: %d appointments", store.Len())
	}
	// The form stays staged for correction.
	if c.PendingForm().Time != "10:00" {
		t.Errorf("declined submit cleared the form: %+v", c.PendingForm())
	}
}

func TestAddNonRecurring(t *testing.T) {
	c, store, sched := newTestController()

	selectDay(c, 20)
	c.SetForm("10:00", "standup", "none")
	if !c.AddAppointment() {
		t.Fatal("valid submit declined")
	}

	key := datekey.DateKey{Year: 2024, Month: 6, Day: 20}
	bucket := store.ListFor(key, "")
	if len(bucket) != 1 {
		t.Fatalf("bucket has %d appointments, want 1", len(bucket))
	}
	if store.Len() != 1 {
		t.Errorf("store has %d appointments, want 1 (no expansion for rule none)", store.Len())
	}
	if len(sched.scheduled) != 1 || sched.scheduled[0] != bucket[0].ID {
		t.Errorf("scheduled = %v, want the new appointment's id", sched.scheduled)
	}
	if got := c.PendingForm(); got != (Form{}) {
		t.Errorf("form not reset after submit: %+v", got)
	}
}

func TestAddWeeklyExpandsTwelveInstances(t *testing.T) {
	c, store, _ := newTestController()
	c.Year, c.Month = 2024, 1

	selectDay(c, 1)
	c.SetForm("09:00", "yoga", "weekly")
	if !c.AddAppointment() {
		t.Fatal("valid submit declined")
	}

	if store.Len() != 13 {
		t.Fatalf("store has %d appointments, want base + 12 instances", store.Len())
	}

	base := store.ListFor(datekey.DateKey{Year: 2024, Month: 1, Day: 1}, "")
	if len(base) != 1 {
		t.Fatalf("base bucket has %d appointments", len(base))
	}
	for i := 1; i <= 12; i++ {
		key := datekey.DateKey{Year: 2024, Month: 1, Day: 1}.AddDays(7 * i)
		bucket := store.ListFor(key, "")
		if len(bucket) != 1 {
			t.Fatalf("instance bucket %v has %d appointments, want 1", key, len(bucket))
		}
		if bucket[0].ID != base[0].ID {
			t.Errorf("instance %v id = %d, want the base id %d", key, bucket[0].ID, base[0].ID)
		}
		if bucket[0].Views != 0 {
			t.Errorf("instance %v views = %d, want 0", key, bucket[0].Views)
		}
	}
}

func TestEditPreservesViewsAndDoesNotReExpand(t *testing.T) {
	c, store, _ := newTestController()
	c.Year, c.Month = 2024, 1

	selectDay(c, 1)
	c.SetForm("09:00", "yoga", "weekly")
	c.AddAppointment()

	key := datekey.DateKey{Year: 2024, Month: 1, Day: 1}
	id := store.ListFor(key, "")[0].ID

	for i := 0; i < 3; i++ {
		c.IncrementViews(key, id)
	}

	c.EditAppointment(key, id)
	if c.Editing() == nil {
		t.Fatal("EditAppointment did not enter the editing state")
	}
	if got := c.PendingForm(); got.Time != "09:00" || got.Description != "yoga" {
		t.Errorf("edit did not load the target's fields: %+v", got)
	}

	c.SetForm("10:30", "hot yoga", "weekly")
	if !c.AddAppointment() {
		t.Fatal("edit submit declined")
	}

	if c.Editing() != nil {
		t.Error("submit did not return to browsing")
	}
	got, _ := store.Find(key, id)
	if got.Views != 3 {
		t.Errorf("views = %d after edit, want the preserved 3", got.Views)
	}
	if got.Time != "10:30" || got.Description != "hot yoga" {
		t.Errorf("edited fields not applied: %+v", got)
	}
	// Editing never regenerates projected instances.
	if store.Len() != 13 {
		t.Errorf("store has %d appointments after edit, want the original 13", store.Len())
	}
}

func TestEditUnknownReferenceIsNoOp(t *testing.T) {
	c, _, _ := newTestController()
	c.EditAppointment(datekey.DateKey{Year: 2024, Month: 6, Day: 20}, 42)
	if c.Editing() != nil {
		t.Error("editing an unknown reference should stay in browsing")
	}
}

func TestDeleteLeavesStaleEditTarget(t *testing.T) {
	c, store, _ := newTestController()

	selectDay(c, 20)
	c.SetForm("10:00", "standup", "none")
	c.AddAppointment()

	key := datekey.DateKey{Year: 2024, Month: 6, Day: 20}
	id := store.ListFor(key, "")[0].ID

	c.EditAppointment(key, id)
	c.DeleteAppointment(key, id)

	// Deleting the edit's target does not clear the pending edit.
	if c.Editing() == nil {
		t.Fatal("delete cleared the pending edit target")
	}
	// Submitting the stale edit recreates the appointment under its old id.
	c.SetForm("11:00", "standup moved", "none")
	c.AddAppointment()
	if got, ok := store.Find(key, id); !ok || got.Time != "11:00" {
		t.Errorf("stale edit submit should recreate id %d, got %+v ok=%v", id, got, ok)
	}
}

func TestReminderPolicyOnDelete(t *testing.T) {
	c, store, sched := newTestController()

	selectDay(c, 20)
	c.SetForm("10:00", "standup", "none")
	c.AddAppointment()
	key := datekey.DateKey{Year: 2024, Month: 6, Day: 20}
	id := store.ListFor(key, "")[0].ID

	// Legacy policy: the timer stays armed.
	c.DeleteAppointment(key, id)
	if len(sched.cancelled) != 0 {
		t.Errorf("default policy cancelled reminders: %v", sched.cancelled)
	}

	// Cancellation policy: delete disarms.
	selectDay(c, 21)
	c.SetForm("10:00", "standup", "none")
	c.AddAppointment()
	key2 := datekey.DateKey{Year: 2024, Month: 6, Day: 21}
	id2 := store.ListFor(key2, "")[0].ID

	c.CancelStaleReminders = true
	c.DeleteAppointment(key2, id2)
	if len(sched.cancelled) != 1 || sched.cancelled[0] != id2 {
		t.Errorf("cancellation policy: cancelled = %v, want [%d]", sched.cancelled, id2)
	}
}

func TestMoveChangesTimeInPlace(t *testing.T) {
	c, store, sched := newTestController()

	selectDay(c, 20)
	c.SetForm("10:00", "standup", "none")
	c.AddAppointment()
	key := datekey.DateKey{Year: 2024, Month: 6, Day: 20}
	id := store.ListFor(key, "")[0].ID
	c.IncrementViews(key, id)

	c.MoveAppointment(key, id, "15:45")

	got, ok := store.Find(key, id)
	if !ok {
		t.Fatal("appointment vanished from its date after move")
	}
	if got.Time != "15:45" || got.Views != 1 {
		t.Errorf("after move, appointment = %+v", got)
	}
	if store.Len() != 1 {
		t.Errorf("move duplicated the appointment: store has %d", store.Len())
	}

	// Under the cancellation policy a move replaces the reminder.
	c.CancelStaleReminders = true
	schedBefore := len(sched.scheduled)
	c.MoveAppointment(key, id, "16:00")
	if len(sched.cancelled) != 1 || sched.cancelled[0] != id {
		t.Errorf("move under policy cancelled = %v, want [%d]", sched.cancelled, id)
	}
	if len(sched.scheduled) != schedBefore+1 {
		t.Error("move under policy should re-arm the reminder for the new time")
	}

	// Unknown references decline silently.
	c.MoveAppointment(key, 999, "09:00")
}

func TestSelectDayNilClearsSelectionOnly(t *testing.T) {
	c, store, _ := newTestController()

	selectDay(c, 20)
	c.SetForm("10:00", "standup", "none")
	c.AddAppointment()
	key := datekey.DateKey{Year: 2024, Month: 6, Day: 20}
	id := store.ListFor(key, "")[0].ID
	c.EditAppointment(key, id)

	c.SelectDay(nil)
	if c.Selected() != nil {
		t.Error("SelectDay(nil) did not clear the selection")
	}
	if c.Editing() == nil {
		t.Error("clearing the selection must not touch the edit state")
	}
}

func TestSearchFiltersAppointments(t *testing.T) {
	c, _, _ := newTestController()

	selectDay(c, 20)
	c.SetForm("12:00", "Lunch with Ana", "none")
	c.AddAppointment()
	selectDay(c, 20)
	c.SetForm("15:00", "Dentist", "none")
	c.AddAppointment()

	key := datekey.DateKey{Year: 2024, Month: 6, Day: 20}

	c.SetSearch("lunch")
	got := c.AppointmentsFor(key)
	if len(got) != 1 || got[0].Description != "Lunch with Ana" {
		t.Errorf("filtered list = %+v", got)
	}

	c.SetSearch("")
	if got := c.AppointmentsFor(key); len(got) != 2 {
		t.Errorf("clearing the search returned %d appointments, want 2", len(got))
	}
}

func TestMutationsPersistNavigationDoesNot(t *testing.T) {
	blobs := appointment.NewMemoryBlobStore()
	store := appointment.NewStore(blobs)
	c := NewController(store, nil)
	c.today = func() datekey.DateKey { return datekey.DateKey{Year: 2024, Month: 6, Day: 15} }
	c.Year, c.Month = 2024, 6

	if _, ok := blobs.Get(appointment.BlobKey); ok {
		t.Fatal("nothing should be persisted before the first mutation")
	}

	c.NextMonth()
	c.PrevMonth()
	c.SetMode(grid.ModeWeek)
	c.SetMode(grid.ModeMonth)
	if _, ok := blobs.Get(appointment.BlobKey); ok {
		t.Error("navigation persisted data")
	}

	selectDay(c, 20)
	c.SetForm("10:00", "standup", "none")
	c.AddAppointment()
	if _, ok := blobs.Get(appointment.BlobKey); !ok {
		t.Error("mutation did not persist")
	}

	// A fresh store sees the mutation.
	reloaded := appointment.NewStore(blobs)
	reloaded.Load()
	if reloaded.Len() != 1 {
		t.Errorf("reloaded store has %d appointments, want 1", reloaded.Len())
	}
}

func TestMonthNavigationWrapsAndRestores(t *testing.T) {
	c, _, _ := newTestController()
	c.Year, c.Month = 2024, 12

	c.NextMonth()
	if c.Year != 2025 || c.Month != 1 {
		t.Errorf("after next from Dec 2024: %d-%d", c.Year, c.Month)
	}
	c.PrevMonth()
	if c.Year != 2024 || c.Month != 12 {
		t.Errorf("prev did not restore: %d-%d", c.Year, c.Month)
	}
}

func TestWeekAndDayViewsIgnoreMonthNavigation(t *testing.T) {
	c, _, _ := newTestController()

	c.SetMode(grid.ModeWeek)
	before := c.Cells()
	c.NextMonth()
	c.NextMonth()
	after := c.Cells()

	if len(before) != 7 || len(after) != 7 {
		t.Fatalf("week view sizes: %d then %d, want 7", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("week view changed under month navigation at cell %d", i)
		}
	}

	c.SetMode(grid.ModeDay)
	cells := c.Cells()
	if len(cells) != 1 || cells[0].Day != 15 {
		t.Errorf("day view = %+v, want today's single cell", cells)
	}
}
