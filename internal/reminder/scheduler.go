package reminder

import (
	"sort"
	"sync"
	"time"

	"agenda/internal/datekey"
)

// DefaultLead is how far ahead of an appointment its reminder fires.
const DefaultLead = 10 * time.Minute

// Scheduler arms one-shot reminder timers, at most one per appointment id.
// Permission is probed once at construction; whether a notification actually
// fires is decided again at fire time, so a scheduler with denied or
// unsupported permission still arms timers that then no-op.
type Scheduler struct {
	notifier   Notifier
	permission Permission
	lead       time.Duration
	loc        *time.Location

	// Injection points for tests.
	now       func() time.Time
	afterFunc func(d time.Duration, f func()) *time.Timer

	mu     sync.Mutex
	timers map[int64]*time.Timer
}

// NewScheduler builds a scheduler over the given notifier, requesting
// notification permission once up front.
func NewScheduler(notifier Notifier) *Scheduler {
	return &Scheduler{
		notifier:   notifier,
		permission: notifier.RequestPermission(),
		lead:       DefaultLead,
		loc:        time.Local,
		now:        time.Now,
		afterFunc:  time.AfterFunc,
		timers:     make(map[int64]*time.Timer),
	}
}

// SetLead overrides the reminder lead time.
func (s *Scheduler) SetLead(lead time.Duration) {
	if lead > 0 {
		s.lead = lead
	}
}

// Permission reports the startup probe's outcome.
func (s *Scheduler) Permission() Permission {
	return s.permission
}

// Schedule arms a reminder for the appointment: fireAt = date+time − lead.
// When fireAt is not in the future the reminder is silently skipped and
// Schedule reports false. Re-scheduling an id replaces its armed timer, so an
// appointment never holds two live reminders.
func (s *Scheduler) Schedule(id int64, key datekey.DateKey, hhmm, description string) bool {
	fireAt := key.At(hhmm, s.loc).Add(-s.lead)
	now := s.now()
	if !fireAt.After(now) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.timers[id]; ok {
		prev.Stop()
	}
	var t *time.Timer
	t = s.afterFunc(fireAt.Sub(now), func() {
		s.fire(id, t, description)
	})
	s.timers[id] = t
	return true
}

// fire only acts if t is still the registered timer for id. Stop on an
// already-expired timer cannot retract its callback, so a replaced timer's
// callback may still run; the identity check keeps it from delivering a stale
// notification or unregistering its replacement.
func (s *Scheduler) fire(id int64, t *time.Timer, description string) {
	s.mu.Lock()
	if s.timers[id] != t {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	// Permission is checked at fire time: a denied or unsupported
	// environment degrades to a no-op without disturbing anything else.
	if s.permission != PermissionGranted {
		return
	}
	_ = s.notifier.Fire("Appointment reminder", description)
}

// Cancel disarms the appointment's reminder if one is pending. Unknown ids
// are no-ops. Callers choose whether deletion/move cancels or leaves the
// timer armed; the scheduler only provides the hook.
func (s *Scheduler) Cancel(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the ids with armed reminders, sorted for stable assertions.
func (s *Scheduler) Pending() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close disarms every pending reminder.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
