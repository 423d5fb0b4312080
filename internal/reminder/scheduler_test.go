package reminder

import (
	"testing"
	"time"

	"agenda/internal/datekey"
)

type fakeNotifier struct {
	permission Permission
	fired      []string
}

func (f *fakeNotifier) RequestPermission() Permission { return f.permission }

func (f *fakeNotifier) Fire(title, body string) error {
	f.fired = append(f.fired, body)
	return nil
}

type armedTimer struct {
	delay    time.Duration
	callback func()
}

// testScheduler wires a scheduler to a fixed clock and a capturing timer
// factory so tests can fire timers deterministically.
func testScheduler(notifier Notifier, now time.Time) (*Scheduler, *[]armedTimer) {
	armed := &[]armedTimer{}
	s := NewScheduler(notifier)
	s.loc = time.UTC
	s.now = func() time.Time { return now }
	s.afterFunc = func(d time.Duration, f func()) *time.Timer {
		*armed = append(*armed, armedTimer{delay: d, callback: f})
		t := time.NewTimer(time.Hour)
		t.Stop()
		return t
	}
	return s, armed
}

func TestScheduleFiresOnceAtLeadBeforeAppointment(t *testing.T) {
	notifier := &fakeNotifier{permission: PermissionGranted}
	key := datekey.DateKey{Year: 2024, Month: 6, Day: 15}

	// now = fireAt - 1h: the appointment is at 14:00, so fireAt is 13:50.
	now := time.Date(2024, 6, 15, 12, 50, 0, 0, time.UTC)
	s, armed := testScheduler(notifier, now)

	if !s.Schedule(7, key, "14:00", "dentist") {
		t.Fatal("Schedule should have armed a reminder")
	}
	if len(*armed) != 1 {
		t.Fatalf("%d timers armed, want 1", len(*armed))
	}
	if got := (*armed)[0].delay; got != time.Hour {
		t.Errorf("timer delay = %v, want 1h", got)
	}

	(*armed)[0].callback()
	if len(notifier.fired) != 1 || notifier.fired[0] != "dentist" {
		t.Errorf("fired = %v, want exactly one notification carrying the description", notifier.fired)
	}
	if got := s.Pending(); len(got) != 0 {
		t.Errorf("pending after firing = %v, want empty", got)
	}
}

func TestScheduleInsideLeadWindowIsSkipped(t *testing.T) {
	notifier := &fakeNotifier{permission: PermissionGranted}
	key := datekey.DateKey{Year: 2024, Month: 6, Day: 15}

	// now = fireAt + 1s: one second inside the 10-minute window.
	now := time.Date(2024, 6, 15, 13, 50, 1, 0, time.UTC)
	s, armed := testScheduler(notifier, now)

	if s.Schedule(7, key, "14:00", "dentist") {
		t.Error("Schedule inside the lead window should report false")
	}
	if len(*armed) != 0 {
		t.Errorf("%d timers armed, want none", len(*armed))
	}
	if len(notifier.fired) != 0 {
		t.Errorf("notifier invoked %d times, want never", len(notifier.fired))
	}
}

func TestSchedulePastAppointmentIsSkipped(t *testing.T) {
	notifier := &fakeNotifier{permission: PermissionGranted}
	now := time.Date(2024, 6, 16, 9, 0, 0, 0, time.UTC)
	s, _ := testScheduler(notifier, now)

	if s.Schedule(7, datekey.DateKey{Year: 2024, Month: 6, Day: 15}, "14:00", "yesterday") {
		t.Error("past appointments should not schedule reminders")
	}
}

func TestRescheduleReplacesTimer(t *testing.T) {
	notifier := &fakeNotifier{permission: PermissionGranted}
	key := datekey.DateKey{Year: 2024, Month: 6, Day: 15}
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	s, armed := testScheduler(notifier, now)

	s.Schedule(7, key, "14:00", "first")
	s.Schedule(7, key, "15:00", "second")

	if got := s.Pending(); len(got) != 1 || got[0] != 7 {
		t.Errorf("pending = %v, want the single id 7", got)
	}
	// Both factory calls happened, but only the second remains armed; firing
	// it delivers the replacement description.
	if len(*armed) != 2 {
		t.Fatalf("timer factory called %d times, want 2", len(*armed))
	}
	(*armed)[1].callback()
	if len(notifier.fired) != 1 || notifier.fired[0] != "second" {
		t.Errorf("fired = %v, want only the rescheduled reminder", notifier.fired)
	}
}

func TestReplacedTimerCallbackIsInert(t *testing.T) {
	notifier := &fakeNotifier{permission: PermissionGranted}
	key := datekey.DateKey{Year: 2024, Month: 6, Day: 15}
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	s, armed := testScheduler(notifier, now)

	s.Schedule(7, key, "14:00", "first")
	s.Schedule(7, key, "15:00", "second")

	// Stop cannot retract a callback already in flight: the first timer's
	// callback may run after the reschedule. It must neither notify nor
	// unregister the replacement.
	(*armed)[0].callback()
	if len(notifier.fired) != 0 {
		t.Errorf("stale callback fired %v, want nothing", notifier.fired)
	}
	if got := s.Pending(); len(got) != 1 || got[0] != 7 {
		t.Errorf("pending after stale callback = %v, want the replacement still armed", got)
	}

	(*armed)[1].callback()
	if len(notifier.fired) != 1 || notifier.fired[0] != "second" {
		t.Errorf("fired = %v, want exactly the rescheduled reminder", notifier.fired)
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	notifier := &fakeNotifier{permission: PermissionGranted}
	key := datekey.DateKey{Year: 2024, Month: 6, Day: 15}
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	s, _ := testScheduler(notifier, now)

	s.Schedule(7, key, "14:00", "dentist")
	s.Cancel(7)

	if got := s.Pending(); len(got) != 0 {
		t.Errorf("pending after cancel = %v, want empty", got)
	}

	// Unknown ids are no-ops.
	s.Cancel(99)
}

func TestFireWithoutPermissionIsNoOp(t *testing.T) {
	for _, perm := range []Permission{PermissionDenied, PermissionUnsupported} {
		notifier := &fakeNotifier{permission: perm}
		key := datekey.DateKey{Year: 2024, Month: 6, Day: 15}
		now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
		s, armed := testScheduler(notifier, now)

		// Scheduling still happens; only delivery is suppressed, and the
		// decision is made at fire time.
		if !s.Schedule(7, key, "14:00", "dentist") {
			t.Errorf("%v: scheduling should still occur", perm)
		}
		(*armed)[0].callback()
		if len(notifier.fired) != 0 {
			t.Errorf("%v: notifier invoked %d times, want never", perm, len(notifier.fired))
		}
	}
}

func TestCloseDisarmsEverything(t *testing.T) {
	notifier := &fakeNotifier{permission: PermissionGranted}
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	s, _ := testScheduler(notifier, now)

	s.Schedule(1, datekey.DateKey{Year: 2024, Month: 6, Day: 15}, "14:00", "a")
	s.Schedule(2, datekey.DateKey{Year: 2024, Month: 6, Day: 16}, "09:00", "b")
	s.Close()

	if got := s.Pending(); len(got) != 0 {
		t.Errorf("pending after close = %v, want empty", got)
	}
}

func TestDesktopNotifierDisabled(t *testing.T) {
	n := &DesktopNotifier{Disabled: true}
	if got := n.RequestPermission(); got != PermissionDenied {
		t.Errorf("disabled notifier permission = %v, want denied", got)
	}
}

func TestDesktopNotifierUnknownCommand(t *testing.T) {
	n := &DesktopNotifier{Command: "definitely-not-a-real-notifier-binary"}
	if got := n.RequestPermission(); got != PermissionUnsupported {
		t.Errorf("missing command permission = %v, want unsupported", got)
	}
}
