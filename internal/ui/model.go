package ui

import (
	"fmt"
	"time"

	"agenda/internal/appointment"
	"agenda/internal/calendar"
	"agenda/internal/config"
	"agenda/internal/datekey"
	"agenda/internal/grid"
	"agenda/internal/parser"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputEntry
	inputSearch
	inputMove
	inputConfirmDelete
)

type Model struct {
	// Core components
	config *config.Config
	ctrl   *calendar.Controller

	// Selection state
	selDay  int // selected day of the displayed month (month mode)
	weekIdx int // selected column in the week view (0 = Sunday)

	// Input state
	input       inputMode
	inputBuffer string
	cursorPos   int
	moveKey     datekey.DateKey
	moveID      int64
	apptIndex   int // selected appointment within the day's list

	// UI state
	width        int
	height       int
	helpVisible  bool
	message      string
	messageTimer *time.Timer

	// Styles
	styles Styles
}

type Styles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Today    lipgloss.Style
	Weekend  lipgloss.Style
	Header   lipgloss.Style
	Event    lipgloss.Style
	Help     lipgloss.Style
	Message  lipgloss.Style
	Border   lipgloss.Style
}

func NewModel(cfg *config.Config, ctrl *calendar.Controller) *Model {
	m := &Model{
		config:  cfg,
		ctrl:    ctrl,
		selDay:  ctrl.Today().Day,
		weekIdx: int(ctrl.Today().Weekday()),
		styles:  DefaultStyles(),
	}

	switch cfg.StartupView {
	case "week":
		ctrl.SetMode(grid.ModeWeek)
	case "day":
		ctrl.SetMode(grid.ModeDay)
	default:
		ctrl.SetMode(grid.ModeMonth)
	}

	m.syncSelection()
	return m
}

func DefaultStyles() Styles {
	return Styles{
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("220")).
			Bold(true),
		Today: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true),
		Weekend: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true).
			Underline(true),
		Event: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Message: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")),
	}
}

// StoreChangedMsg signals that the persisted blob changed outside this
// process; the model reloads the store in response.
type StoreChangedMsg struct{}

type tickMsg struct{}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.tickCmd(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tickMsg:
		if m.config.AutoRefresh {
			m.ctrl.Reload()
			return m, m.tickCmd()
		}
		return m, nil

	case StoreChangedMsg:
		m.ctrl.Reload()
		m.showMessage("Appointments reloaded")
		return m, nil
	}

	return m, nil
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.helpVisible {
		return m.viewHelp()
	}

	switch m.input {
	case inputEntry:
		return m.viewEditor()
	case inputSearch, inputMove, inputConfirmDelete:
		// Prompt renders inside the status bar below the calendar.
	}

	var body string
	switch m.ctrl.Mode {
	case grid.ModeWeek:
		body = m.viewWeek()
	case grid.ModeDay:
		body = m.viewDay()
	default:
		body = m.viewMonth()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.helpVisible {
		m.helpVisible = false
		return m, nil
	}

	switch m.input {
	case inputEntry, inputSearch, inputMove:
		return m.handleInputKeys(msg)
	case inputConfirmDelete:
		return m.handleConfirmKeys(msg)
	}

	// Global keys
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.helpVisible = true
		return m, nil

	case "r":
		m.ctrl.Reload()
		m.showMessage("Refreshed")
		return m, nil

	case "1":
		m.ctrl.SetMode(grid.ModeMonth)
		m.syncSelection()
	case "2":
		m.ctrl.SetMode(grid.ModeWeek)
		m.weekIdx = int(m.ctrl.Today().Weekday())
		m.syncSelection()
	case "3":
		m.ctrl.SetMode(grid.ModeDay)
		m.syncSelection()

	case "t":
		today := m.ctrl.Today()
		m.ctrl.Year, m.ctrl.Month = today.Year, today.Month
		m.selDay = today.Day
		m.weekIdx = int(today.Weekday())
		m.syncSelection()

	case "h", "left":
		m.moveSelection(-1)
	case "l", "right":
		m.moveSelection(1)
	case "j", "down":
		m.moveSelection(7)
	case "k", "up":
		m.moveSelection(-7)

	case "J":
		m.cycleAppointment(1)
	case "K":
		m.cycleAppointment(-1)

	case "<":
		if m.ctrl.Mode == grid.ModeMonth {
			m.ctrl.PrevMonth()
			m.clampSelDay()
			m.syncSelection()
		}
	case ">":
		if m.ctrl.Mode == grid.ModeMonth {
			m.ctrl.NextMonth()
			m.clampSelDay()
			m.syncSelection()
		}

	case "n":
		if m.ctrl.Selected() == nil {
			m.showMessage("Select a date first")
			return m, nil
		}
		m.input = inputEntry
		m.inputBuffer = ""
		m.cursorPos = 0

	case "e":
		if key, a, ok := m.selectedAppointment(); ok {
			m.ctrl.EditAppointment(key, a.ID)
			m.input = inputEntry
			m.inputBuffer = editBuffer(a)
			m.cursorPos = len(m.inputBuffer)
		}

	case "d":
		if key, a, ok := m.selectedAppointment(); ok {
			if m.config.ConfirmDelete {
				m.input = inputConfirmDelete
				m.moveKey = key
				m.moveID = a.ID
			} else {
				m.ctrl.DeleteAppointment(key, a.ID)
				m.apptIndex = 0
				m.showMessage("Deleted")
			}
		}

	case "m":
		if key, a, ok := m.selectedAppointment(); ok {
			m.input = inputMove
			m.moveKey = key
			m.moveID = a.ID
			m.inputBuffer = a.Time
			m.cursorPos = len(m.inputBuffer)
		}

	case "/":
		m.input = inputSearch
		m.inputBuffer = m.ctrl.Search()
		m.cursorPos = len(m.inputBuffer)

	case "enter":
		if key, a, ok := m.selectedAppointment(); ok {
			m.ctrl.IncrementViews(key, a.ID)
		}
	}

	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		if m.input == inputEntry {
			m.ctrl.CancelEdit()
		}
		m.input = inputNone
		m.inputBuffer = ""
		return m, nil

	case tea.KeyEnter:
		return m.submitInput()

	case tea.KeyBackspace:
		if m.cursorPos > 0 {
			m.inputBuffer = m.inputBuffer[:m.cursorPos-1] + m.inputBuffer[m.cursorPos:]
			m.cursorPos--
		}

	case tea.KeyLeft:
		if m.cursorPos > 0 {
			m.cursorPos--
		}

	case tea.KeyRight:
		if m.cursorPos < len(m.inputBuffer) {
			m.cursorPos++
		}

	case tea.KeyRunes, tea.KeySpace:
		runes := msg.Runes
		if msg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		for _, r := range runes {
			m.inputBuffer = m.inputBuffer[:m.cursorPos] + string(r) + m.inputBuffer[m.cursorPos:]
			m.cursorPos++
		}
	}

	return m, nil
}

func (m *Model) submitInput() (tea.Model, tea.Cmd) {
	defer func() {
		m.input = inputNone
		m.inputBuffer = ""
		m.cursorPos = 0
	}()

	switch m.input {
	case inputEntry:
		entry, err := parser.ParseEntry(m.inputBuffer)
		if err != nil {
			m.ctrl.CancelEdit()
			m.showMessage(fmt.Sprintf("Parse error: %v", err))
			return m, nil
		}
		m.ctrl.SetForm(entry.Time, entry.Description, entry.Recurrence)
		if m.ctrl.AddAppointment() {
			m.showMessage("Appointment saved")
		} else {
			m.showMessage("Nothing saved: select a date and fill in time and description")
		}

	case inputSearch:
		m.ctrl.SetSearch(m.inputBuffer)
		m.apptIndex = 0

	case inputMove:
		m.ctrl.MoveAppointment(m.moveKey, m.moveID, m.inputBuffer)
		m.showMessage("Rescheduled")
	}

	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.ctrl.DeleteAppointment(m.moveKey, m.moveID)
		m.apptIndex = 0
		m.showMessage("Deleted")
	}
	m.input = inputNone
	return m, nil
}

// moveSelection shifts the selected date by delta days within the current
// view. The month view clamps to the displayed month; the week view wraps
// within its 7 days; the day view is fixed on today.
func (m *Model) moveSelection(delta int) {
	switch m.ctrl.Mode {
	case grid.ModeMonth:
		day := m.selDay + delta
		if day < 1 || day > datekey.DaysIn(m.ctrl.Year, m.ctrl.Month) {
			return
		}
		m.selDay = day
	case grid.ModeWeek:
		if delta == 7 || delta == -7 {
			return
		}
		idx := m.weekIdx + delta
		if idx < 0 || idx > 6 {
			return
		}
		m.weekIdx = idx
	case grid.ModeDay:
		return
	}
	m.apptIndex = 0
	m.syncSelection()
}

func (m *Model) cycleAppointment(delta int) {
	key, ok := m.selectedDate()
	if !ok {
		return
	}
	appts := m.ctrl.AppointmentsFor(key)
	if len(appts) == 0 {
		return
	}
	m.apptIndex = (m.apptIndex + delta + len(appts)) % len(appts)
}

// syncSelection pushes the view-local selection into the controller.
func (m *Model) syncSelection() {
	switch m.ctrl.Mode {
	case grid.ModeWeek:
		m.ctrl.SelectDate(grid.WeekDates(m.ctrl.Today())[m.weekIdx])
	case grid.ModeDay:
		m.ctrl.SelectDate(m.ctrl.Today())
	default:
		day := m.selDay
		m.ctrl.SelectDay(&day)
	}
}

func (m *Model) clampSelDay() {
	if max := datekey.DaysIn(m.ctrl.Year, m.ctrl.Month); m.selDay > max {
		m.selDay = max
	}
}

func (m *Model) selectedDate() (datekey.DateKey, bool) {
	if sel := m.ctrl.Selected(); sel != nil {
		return *sel, true
	}
	return datekey.DateKey{}, false
}

func (m *Model) selectedAppointment() (datekey.DateKey, appointment.Appointment, bool) {
	key, ok := m.selectedDate()
	if !ok {
		return datekey.DateKey{}, appointment.Appointment{}, false
	}
	appts := m.ctrl.AppointmentsFor(key)
	if len(appts) == 0 {
		return key, appointment.Appointment{}, false
	}
	if m.apptIndex >= len(appts) {
		m.apptIndex = len(appts) - 1
	}
	return key, appts[m.apptIndex], true
}

func editBuffer(a appointment.Appointment) string {
	buf := fmt.Sprintf("%s %s", a.Time, a.Description)
	if a.Recurrence != "" && a.Recurrence != appointment.RuleNone {
		buf += " @" + string(a.Recurrence)
	}
	return buf
}

func (m *Model) showMessage(msg string) {
	m.message = msg
	if m.messageTimer != nil {
		m.messageTimer.Stop()
	}
	m.messageTimer = time.AfterFunc(3*time.Second, func() {
		m.message = ""
	})
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.config.RefreshRate, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
