package ui

import (
	"fmt"
	"strings"
	"time"

	"agenda/internal/appointment"
	"agenda/internal/datekey"
	"agenda/internal/grid"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var dayHeaders = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

var weekHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (m *Model) viewMonth() string {
	var lines []string

	monthYear := time.Date(m.ctrl.Year, time.Month(m.ctrl.Month), 1, 0, 0, 0, 0, time.Local).Format("January 2006")
	lines = append(lines, m.styles.Header.Render(monthYear))
	lines = append(lines, strings.Join(dayHeaders, "  "))

	today := m.ctrl.Today()
	cells := m.ctrl.Cells()

	row := make([]string, 0, 7)
	flush := func() {
		for len(row) < 7 {
			row = append(row, "  ")
		}
		lines = append(lines, strings.Join(row, "  "))
		row = row[:0]
	}

	for _, cell := range cells {
		if cell.Blank {
			row = append(row, "  ")
			continue
		}

		key := datekey.DateKey{Year: m.ctrl.Year, Month: m.ctrl.Month, Day: cell.Day}
		dayStr := fmt.Sprintf("%2d", cell.Day)

		switch {
		case cell.Day == m.selDay:
			dayStr = m.styles.Selected.Render(dayStr)
		case key.Equal(today):
			dayStr = m.styles.Today.Render(dayStr)
		case len(m.ctrl.AppointmentsFor(key)) > 0:
			dayStr = m.styles.Event.Render(dayStr)
		case key.Weekday() == time.Saturday || key.Weekday() == time.Sunday:
			dayStr = m.styles.Weekend.Render(dayStr)
		default:
			dayStr = m.styles.Normal.Render(dayStr)
		}

		row = append(row, dayStr)
		if len(row) == 7 {
			flush()
		}
	}
	if len(row) > 0 {
		flush()
	}

	calendarBox := m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.JoinHorizontal(lipgloss.Top, calendarBox, " ", m.renderDayPanel())
}

func (m *Model) viewWeek() string {
	var lines []string

	today := m.ctrl.Today()
	dates := grid.WeekDates(today)

	lines = append(lines, m.styles.Header.Render(fmt.Sprintf("Week of %s", dates[0].Time(nil).Format(m.config.DateFormat))))

	var cols []string
	for i, d := range dates {
		label := fmt.Sprintf("%s %2d", weekHeaders[i], d.Day)
		count := len(m.ctrl.AppointmentsFor(d))
		if count > 0 {
			label += fmt.Sprintf(" (%d)", count)
		}

		switch {
		case i == m.weekIdx:
			label = m.styles.Selected.Render(label)
		case d.Equal(today):
			label = m.styles.Today.Render(label)
		default:
			label = m.styles.Normal.Render(label)
		}
		cols = append(cols, label)
	}
	lines = append(lines, strings.Join(cols, "  "))

	weekBox := m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.JoinVertical(lipgloss.Left, weekBox, m.renderDayPanel())
}

func (m *Model) viewDay() string {
	today := m.ctrl.Today()
	header := m.styles.Header.Render(today.Time(nil).Format("Monday, "+m.config.DateFormat))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderDayPanel())
}

// renderDayPanel lists the selected date's appointments with the active
// search filter applied.
func (m *Model) renderDayPanel() string {
	var lines []string

	key, ok := m.selectedDate()
	if !ok {
		lines = append(lines, m.styles.Help.Render("(no date selected)"))
		return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	title := key.Time(nil).Format(m.config.DateFormat)
	if term := m.ctrl.Search(); term != "" {
		title += fmt.Sprintf(" [filter: %s]", term)
	}
	lines = append(lines, m.styles.Header.Render(title))

	appts := m.ctrl.AppointmentsFor(key)
	if len(appts) == 0 {
		lines = append(lines, "")
		lines = append(lines, m.styles.Help.Render("(no appointments)"))
	} else {
		maxWidth := m.width / 3
		if maxWidth < 30 {
			maxWidth = 30
		}

		for i, a := range appts {
			line := fmt.Sprintf("%s  %s", a.Time, a.Description)
			if a.Recurrence != "" && a.Recurrence != appointment.RuleNone {
				line += fmt.Sprintf(" @%s", a.Recurrence)
			}
			if a.Views > 0 {
				line += fmt.Sprintf(" (seen %d)", a.Views)
			}

			wrapped := wordwrap.String(line, maxWidth)
			for j, w := range strings.Split(wrapped, "\n") {
				if i == m.apptIndex && j == 0 {
					lines = append(lines, m.styles.Selected.Render(w))
				} else {
					lines = append(lines, m.styles.Event.Render(w))
				}
			}
		}
	}

	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) viewEditor() string {
	var sections []string

	header := "New Appointment"
	if m.ctrl.Editing() != nil {
		header = "Edit Appointment"
	}
	sections = append(sections, m.styles.Header.Render(header))
	sections = append(sections, "")

	prompt := m.styles.Normal.Render("Enter appointment (e.g., '14:30 Dentist @weekly'):")
	sections = append(sections, prompt)

	// Show input with cursor
	input := m.inputBuffer
	if m.cursorPos < len(input) {
		input = input[:m.cursorPos] + "█" + input[m.cursorPos:]
	} else {
		input = input + "█"
	}

	sections = append(sections, m.styles.Selected.Render(input))
	sections = append(sections, "")
	sections = append(sections, m.styles.Help.Render("Enter to save, Esc to cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("Agenda Help"),
		"",
		m.styles.Normal.Render("Navigation:"),
		m.styles.Help.Render("  h/←     - Previous day"),
		m.styles.Help.Render("  l/→     - Next day"),
		m.styles.Help.Render("  j/↓     - Next week"),
		m.styles.Help.Render("  k/↑     - Previous week"),
		m.styles.Help.Render("  </>     - Previous/next month"),
		m.styles.Help.Render("  t       - Go to today"),
		m.styles.Help.Render("  1/2/3   - Month/week/day view"),
		"",
		m.styles.Normal.Render("Appointments:"),
		m.styles.Help.Render("  n       - New appointment"),
		m.styles.Help.Render("  e       - Edit selected appointment"),
		m.styles.Help.Render("  d       - Delete selected appointment"),
		m.styles.Help.Render("  m       - Reschedule (change time)"),
		m.styles.Help.Render("  J/K     - Cycle through the day's appointments"),
		m.styles.Help.Render("  enter   - Mark appointment as viewed"),
		m.styles.Help.Render("  /       - Search descriptions"),
		"",
		m.styles.Normal.Render("Other:"),
		m.styles.Help.Render("  r       - Reload from disk"),
		m.styles.Help.Render("  ?       - Toggle help"),
		m.styles.Help.Render("  q       - Quit"),
		"",
		m.styles.Help.Render("Press any key to return..."),
	}

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) renderStatusBar() string {
	switch m.input {
	case inputSearch:
		return m.styles.Message.Render("Search: " + m.inputBuffer + "█")
	case inputMove:
		return m.styles.Message.Render("New time: " + m.inputBuffer + "█")
	case inputConfirmDelete:
		return m.styles.Message.Render("Delete appointment? (y/n)")
	}

	left := " "
	if key, ok := m.selectedDate(); ok {
		left = fmt.Sprintf(" %s | Appointments: %d",
			key.Time(nil).Format(m.config.DateFormat),
			len(m.ctrl.AppointmentsFor(key)))
	}

	right := "? for help | q to quit"
	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	middle := strings.Repeat(" ", width)

	return m.styles.Help.Render(left + middle + right)
}
