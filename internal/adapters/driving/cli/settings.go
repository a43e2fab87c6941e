package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage pipeline settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}
		if settingsService == nil {
			return errors.New("settings service not configured")
		}

		s, err := settingsService.Get()
		if err != nil {
			return err
		}

		cmd.Println("Chunking:")
		cmd.Printf("  chunk size:    %d\n", s.ChunkSize)
		cmd.Printf("  overlap:       %d\n", s.ChunkOverlap)
		cmd.Println("Retrieval:")
		cmd.Printf("  top k:         %d\n", s.TopK)
		cmd.Println("Ingestion:")
		cmd.Printf("  min length:    %d\n", s.MinDocumentLength)
		cmd.Printf("  scan interval: %s\n", s.ScanInterval)
		cmd.Println("Embedding:")
		cmd.Printf("  provider:      %s\n", s.Embedding.Provider)
		if s.Embedding.Model != "" {
			cmd.Printf("  model:         %s\n", s.Embedding.Model)
		}
		if s.Embedding.BaseURL != "" {
			cmd.Printf("  base url:      %s\n", s.Embedding.BaseURL)
		}
		cmd.Println("LLM:")
		if s.LLM.Enabled() {
			cmd.Printf("  provider:      %s\n", s.LLM.Provider)
			if s.LLM.Model != "" {
				cmd.Printf("  model:         %s\n", s.LLM.Model)
			}
		} else {
			cmd.Println("  disabled (template answers)")
		}
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	rootCmd.AddCommand(settingsCmd)
}
