package cmd

import (
	"fmt"
	"os"

	"agenda/internal/export"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all appointments as iCalendar",
	Long:  `Export every stored appointment as an iCalendar (.ics) file, suitable for importing into other calendar applications.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}

	store := openStore()

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer f.Close()
		out = f
	}

	if err := export.WriteICS(out, store); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}
