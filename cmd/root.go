package cmd

import (
	"fmt"
	"os"

	"agenda/internal/appointment"
	"agenda/internal/calendar"
	"agenda/internal/config"
	"agenda/internal/reminder"
	"agenda/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "agenda",
	Short: "A terminal calendar for personal appointments",
	Long: `Agenda is a terminal calendar application with month, week and day
views, recurring appointments, reminders and plain-JSON storage.`,
	RunE: runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Directory holding the appointment store")
}

func initConfig() {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
}

// openStore builds the on-disk store and loads whatever is already there.
// A missing or unreadable blob starts an empty calendar rather than failing.
func openStore() *appointment.Store {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create %s: %v\n", cfg.DataDir, err)
	}
	store := appointment.NewStore(appointment.NewDiskBlobStore(cfg.DataDir))
	store.Load()
	return store
}

func runTUI(cmd *cobra.Command, args []string) error {
	store := openStore()

	notifier := &reminder.DesktopNotifier{
		Command:  cfg.NotifyCommand,
		Disabled: !cfg.Notifications,
	}
	sched := reminder.NewScheduler(notifier)
	sched.SetLead(cfg.ReminderLead)
	defer sched.Close()

	ctrl := calendar.NewController(store, sched)
	ctrl.CancelStaleReminders = cfg.CancelStaleReminders

	// Arm reminders for appointments that are still in the future. Past
	// ones are skipped by the scheduler itself.
	for _, d := range store.All() {
		sched.Schedule(d.Appt.ID, d.Key, d.Appt.Time, d.Appt.Description)
	}

	model := ui.NewModel(cfg, ctrl)
	p := tea.NewProgram(model, tea.WithAltScreen())

	watcher, err := appointment.NewBlobWatcher(cfg.DataDir, func() {
		p.Send(ui.StoreChangedMsg{})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: store watcher unavailable: %v\n", err)
	} else {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
