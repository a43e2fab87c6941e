package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal interface",
	Long: `Tui opens an interactive terminal interface for asking questions
and browsing the ingested documents.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}

		ports := tui.NewPorts(queryService, ingestionService)
		ports.Settings = settingsService

		return tui.Run(cmd.Context(), ports)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
