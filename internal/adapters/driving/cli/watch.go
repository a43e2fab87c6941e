package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/services"
	"github.com/custodia-labs/docqa-cli/internal/normalisers"
)

var (
	watchInterval time.Duration
	watchRoles    []string
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Watch a directory and ingest documents as they appear",
	Long: `Watch monitors a directory for .txt and .md files. New and
modified files are ingested automatically; unchanged files are skipped
on rescan. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}
		if ingestionService == nil {
			return errors.New("ingestion service not configured")
		}

		dir := args[0]
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}

		interval := watchInterval
		if interval <= 0 {
			interval = appSettings.ScanInterval
		}

		scanner := services.NewScanner(
			dir, ingestionService, normalisers.NewDefaultRegistry(), interval, parseRoles(watchRoles))

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		cmd.Printf("Watching %s (rescan every %s). Press Ctrl+C to stop.\n", dir, interval)
		if err := scanner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0,
		"rescan interval (default from settings)")
	watchCmd.Flags().StringSliceVar(&watchRoles, "roles", nil,
		"roles permitted to retrieve watched documents (default: all)")
	rootCmd.AddCommand(watchCmd)
}
