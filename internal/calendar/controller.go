package calendar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"agenda/internal/appointment"
	"agenda/internal/datekey"
	"agenda/internal/grid"
	"agenda/internal/recur"
)

// ReminderScheduler is the slice of the reminder scheduler the controller
// drives. A nil scheduler disables reminders entirely.
type ReminderScheduler interface {
	Schedule(id int64, key datekey.DateKey, hhmm, description string) bool
	Cancel(id int64)
}

// EditTarget identifies the appointment a pending edit applies to. Its
// presence is the Editing state; nil is Browsing.
type EditTarget struct {
	Key datekey.DateKey
	ID  int64
}

// Form is the pending appointment form. Time and Description are required
// for a submit to take effect.
type Form struct {
	Time        string
	Description string
	Recurrence  appointment.Rule
}

// Controller orchestrates the store, recurrence expander and reminder
// scheduler in response to external events, and exposes the read model the
// presentation layer renders. All operations are synchronous; every mutation
// that changes persisted data saves before returning, navigation does not.
type Controller struct {
	store     *appointment.Store
	reminders ReminderScheduler

	// CancelStaleReminders switches delete/move from the legacy
	// leave-the-timer-armed behavior to explicit cancellation.
	CancelStaleReminders bool

	Year  int
	Month int
	Mode  grid.Mode

	selected   *datekey.DateKey
	editTarget *EditTarget
	searchTerm string
	form       Form

	today func() datekey.DateKey
}

// NewController builds a controller anchored on today's month. reminders may
// be nil.
func NewController(store *appointment.Store, reminders ReminderScheduler) *Controller {
	c := &Controller{
		store:     store,
		reminders: reminders,
		today:     func() datekey.DateKey { return datekey.Of(time.Now()) },
	}
	now := c.today()
	c.Year, c.Month = now.Year, now.Month
	return c
}

// Cells returns the grid slots for the current view.
func (c *Controller) Cells() []grid.Cell {
	return grid.Cells(c.Year, c.Month, c.Mode, c.today())
}

// Today exposes the controller's notion of the current date.
func (c *Controller) Today() datekey.DateKey {
	return c.today()
}

// SelectDay selects a day of the displayed month, or clears the selection
// when day is nil. Selection never touches a pending edit.
func (c *Controller) SelectDay(day *int) {
	if day == nil {
		c.selected = nil
		return
	}
	key := datekey.DateKey{Year: c.Year, Month: c.Month, Day: *day}
	c.selected = &key
}

// SelectDate selects an explicit date, used by the week and day views whose
// cells may fall outside the displayed month.
func (c *Controller) SelectDate(key datekey.DateKey) {
	c.selected = &key
}

// Selected returns the currently selected date, or nil.
func (c *Controller) Selected() *datekey.DateKey {
	return c.selected
}

// SetForm stages the pending appointment form. Unknown recurrence strings
// normalize to none.
func (c *Controller) SetForm(hhmm, description, rule string) {
	c.form = Form{
		Time:        hhmm,
		Description: description,
		Recurrence:  appointment.NormalizeRule(rule),
	}
}

// PendingForm returns the staged form.
func (c *Controller) PendingForm() Form {
	return c.form
}

// Editing returns the pending edit target, nil while browsing.
func (c *Controller) Editing() *EditTarget {
	return c.editTarget
}

// AddAppointment submits the pending form. Without a selected date or with a
// missing required field it declines silently: no mutation, the form stays
// staged for correction.
//
// In the Editing state the submit replaces the target appointment in place
// with the original id and its accumulated view count, then returns to
// Browsing. Otherwise a new appointment is created at the selected date; a
// recurring one is additionally projected twelve instances forward, and a
// reminder is armed for the base instance. Projection happens here only —
// later edits never regenerate instances.
func (c *Controller) AddAppointment() bool {
	if c.selected == nil {
		return false
	}
	if strings.TrimSpace(c.form.Time) == "" || strings.TrimSpace(c.form.Description) == "" {
		return false
	}

	if target := c.editTarget; target != nil {
		views := 0
		if existing, ok := c.store.Find(target.Key, target.ID); ok {
			views = existing.Views
		}
		c.store.Upsert(target.Key, appointment.Appointment{
			ID:          target.ID,
			Time:        c.form.Time,
			Description: c.form.Description,
			Views:       views,
			Recurrence:  c.form.Recurrence,
		})
		c.editTarget = nil
	} else {
		a := appointment.Appointment{
			ID:          appointment.NewID(),
			Time:        c.form.Time,
			Description: c.form.Description,
			Recurrence:  c.form.Recurrence,
		}
		c.store.Upsert(*c.selected, a)
		for _, inst := range recur.Expand(*c.selected, a) {
			c.store.Upsert(inst.Key, inst.Appt)
		}
		if c.reminders != nil {
			c.reminders.Schedule(a.ID, *c.selected, a.Time, a.Description)
		}
	}

	c.form = Form{}
	c.save()
	return true
}

// EditAppointment loads the target's fields into the form and enters the
// Editing state. An unknown reference is a no-op.
func (c *Controller) EditAppointment(key datekey.DateKey, id int64) {
	a, ok := c.store.Find(key, id)
	if !ok {
		return
	}
	c.form = Form{Time: a.Time, Description: a.Description, Recurrence: a.Recurrence}
	c.editTarget = &EditTarget{Key: key, ID: id}
}

// CancelEdit returns to Browsing, discarding the staged form.
func (c *Controller) CancelEdit() {
	c.editTarget = nil
	c.form = Form{}
}

// DeleteAppointment removes the appointment from its date. It deliberately
// does not clear a pending edit aimed at the deleted item; submitting such an
// edit recreates the appointment under its old id. Unknown references are
// no-ops that still skip the save.
func (c *Controller) DeleteAppointment(key datekey.DateKey, id int64) {
	if _, ok := c.store.Find(key, id); !ok {
		return
	}
	c.store.Remove(key, id)
	if c.CancelStaleReminders && c.reminders != nil {
		c.reminders.Cancel(id)
	}
	c.save()
}

// MoveAppointment applies a drag-drop event: the appointment's time changes
// in place at the same date. Moving across dates is not part of this
// contract. Under the cancellation policy the stale reminder is replaced by
// one for the new time.
func (c *Controller) MoveAppointment(key datekey.DateKey, id int64, newTime string) {
	if !c.store.SetTime(key, id, newTime) {
		return
	}
	if c.CancelStaleReminders && c.reminders != nil {
		c.reminders.Cancel(id)
		if a, ok := c.store.Find(key, id); ok {
			c.reminders.Schedule(id, key, newTime, a.Description)
		}
	}
	c.save()
}

// IncrementViews bumps an appointment's view counter and persists it.
func (c *Controller) IncrementViews(key datekey.DateKey, id int64) {
	if _, ok := c.store.Find(key, id); !ok {
		return
	}
	c.store.IncrementViews(key, id)
	c.save()
}

// AppointmentsFor returns the date's appointments with the active search
// filter applied.
func (c *Controller) AppointmentsFor(key datekey.DateKey) []appointment.Appointment {
	return c.store.ListFor(key, c.searchTerm)
}

// SetSearch sets the case-insensitive description filter; empty clears it.
func (c *Controller) SetSearch(term string) {
	c.searchTerm = term
}

// Search returns the active filter term.
func (c *Controller) Search() string {
	return c.searchTerm
}

// PrevMonth navigates the month view backward, wrapping the year. Week and
// day views ignore month navigation; they always anchor on the real current
// date.
func (c *Controller) PrevMonth() {
	c.Year, c.Month = grid.PrevMonth(c.Year, c.Month)
}

// NextMonth navigates the month view forward, wrapping the year.
func (c *Controller) NextMonth() {
	c.Year, c.Month = grid.NextMonth(c.Year, c.Month)
}

// SetMode switches the view mode. State (selection, edit, search) survives
// mode switches.
func (c *Controller) SetMode(mode grid.Mode) {
	c.Mode = mode
}

// Reload replaces in-memory state from the persisted blob, e.g. after an
// external change to the store.
func (c *Controller) Reload() {
	c.store.Load()
}

func (c *Controller) save() {
	if err := c.store.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
	}
}
