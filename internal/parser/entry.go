package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Entry is a parsed appointment form submission: a wall-clock time, a
// description and an optional recurrence token.
type Entry struct {
	Time        string // normalized "HH:MM"
	Description string
	Recurrence  string // daily, weekly, monthly or empty
}

var timeRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)

// ParseEntry parses editor input of the form "TIME description [@rule]".
// The time accepts 24-hour ("14:30"), bare-hour ("9") and 12-hour ("2:30pm",
// "9am") spellings and normalizes to "HH:MM". A trailing or embedded @daily,
// @weekly or @monthly token sets the recurrence; any other @word stays part
// of the description.
func ParseEntry(input string) (*Entry, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	matches := timeRe.FindStringSubmatch(strings.ToLower(input))
	if matches == nil {
		return nil, fmt.Errorf("entry must start with a time, e.g. \"14:30 Dentist\"")
	}

	hour, _ := strconv.Atoi(matches[1])
	minute := 0
	if matches[2] != "" {
		minute, _ = strconv.Atoi(matches[2])
	}

	switch matches[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 {
		return nil, fmt.Errorf("invalid time %q", matches[0])
	}

	rest := strings.TrimSpace(input[len(matches[0]):])

	entry := &Entry{Time: fmt.Sprintf("%02d:%02d", hour, minute)}

	var descWords []string
	for _, word := range strings.Fields(rest) {
		switch strings.ToLower(word) {
		case "@daily":
			entry.Recurrence = "daily"
		case "@weekly":
			entry.Recurrence = "weekly"
		case "@monthly":
			entry.Recurrence = "monthly"
		default:
			descWords = append(descWords, word)
		}
	}
	entry.Description = strings.Join(descWords, " ")

	if entry.Description == "" {
		return nil, fmt.Errorf("entry needs a description")
	}

	return entry, nil
}
