package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Storage settings
	DataDir string

	// Display settings
	TimeFormat string
	DateFormat string

	// Behavior settings
	AutoRefresh          bool
	RefreshRate          time.Duration
	ConfirmDelete        bool
	ReminderLead         time.Duration
	CancelStaleReminders bool
	Notifications        bool
	NotifyCommand        string
	StartupView          string
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir: filepath.Join(home, ".local", "share", "agenda"),

		TimeFormat: "15:04",
		DateFormat: "Jan 2, 2006",

		AutoRefresh:          true,
		RefreshRate:          30 * time.Second,
		ConfirmDelete:        true,
		ReminderLead:         10 * time.Minute,
		CancelStaleReminders: false,
		Notifications:        true,
		NotifyCommand:        "",
		StartupView:          "month",
	}
}

func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	// Try multiple config file locations
	configPaths := []string{
		os.Getenv("AGENDA_CONFIG"),
		filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "agenda", "agendarc"),
		filepath.Join(os.Getenv("HOME"), ".config", "agenda", "agendarc"),
		filepath.Join(os.Getenv("HOME"), ".agendarc"),
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			if err := config.loadFromFile(path); err != nil {
				return nil, fmt.Errorf("error loading config from %s: %w", path, err)
			}
			break
		}
	}

	return config, nil
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := c.parseLine(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return scanner.Err()
}

var setRe = regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)

func (c *Config) parseLine(line string) error {
	// Handle set commands: set variable value
	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.setVariable(matches[1], matches[2])
	}

	return fmt.Errorf("unknown config line: %s", line)
}

func (c *Config) setVariable(name, value string) error {
	// Remove quotes if present
	value = strings.Trim(value, `"'`)

	switch name {
	case "data_dir":
		// Expand ~ to home directory
		if strings.HasPrefix(value, "~/") {
			home, _ := os.UserHomeDir()
			value = filepath.Join(home, value[2:])
		}
		c.DataDir = value

	case "time_format":
		c.TimeFormat = value

	case "date_format":
		c.DateFormat = value

	case "startup_view":
		switch value {
		case "month", "week", "day":
			c.StartupView = value
		default:
			return fmt.Errorf("invalid startup_view: %s", value)
		}

	case "auto_refresh":
		c.AutoRefresh = isTrue(value)

	case "refresh_rate":
		rate, err := parseDurationOrSeconds(value)
		if err != nil {
			return fmt.Errorf("invalid refresh_rate: %s", value)
		}
		c.RefreshRate = rate

	case "confirm_delete":
		c.ConfirmDelete = isTrue(value)

	case "reminder_lead":
		lead, err := parseDurationOrSeconds(value)
		if err != nil {
			return fmt.Errorf("invalid reminder_lead: %s", value)
		}
		c.ReminderLead = lead

	case "cancel_stale_reminders":
		c.CancelStaleReminders = isTrue(value)

	case "notifications":
		c.Notifications = isTrue(value)

	case "notify_command":
		c.NotifyCommand = value

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

func isTrue(value string) bool {
	return strings.ToLower(value) == "true" || value == "1"
}

func parseDurationOrSeconds(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err == nil {
		return d, nil
	}
	// Try parsing as seconds
	if seconds, err2 := strconv.Atoi(value); err2 == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return 0, err
}
