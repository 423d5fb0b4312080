package cmd

import (
	"fmt"
	"time"

	"agenda/internal/datekey"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	listDate   string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's appointments and exit",
	Long:  `List all appointments for a day (today by default) in a simple text format and exit.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Date to list (YYYY-M-D, defaults to today)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Only show appointments whose description contains this text")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}

	key := datekey.Of(time.Now())
	if listDate != "" {
		parsed, err := datekey.Parse(listDate)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", listDate, err)
		}
		key = parsed
	}

	store := openStore()
	appts := store.ListFor(key, listSearch)

	title := color.New(color.Bold, color.Underline)
	title.Printf("Appointments for %s\n", key.Time(nil).Format(cfg.DateFormat))

	if len(appts) == 0 {
		color.New(color.Faint).Println("No appointments.")
		return nil
	}

	hour := color.New(color.FgHiYellow)
	tag := color.New(color.Faint, color.Italic)
	for _, a := range appts {
		fmt.Printf("  %s  %s", hour.Sprint(a.Time), a.Description)
		if a.Recurrence != "" && a.Recurrence != "none" {
			fmt.Printf(" %s", tag.Sprintf("@%s", a.Recurrence))
		}
		fmt.Println()
	}

	return nil
}
