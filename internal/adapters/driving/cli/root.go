// Package cli provides the command line interface for Docqa.
// It wires the driven adapters to the core services and exposes them
// as cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/storage/sqlite"
	vecmemory "github.com/custodia-labs/docqa-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/core/services"
	"github.com/custodia-labs/docqa-cli/internal/logger"
	"github.com/custodia-labs/docqa-cli/internal/postprocessors"
)

// version is set at build time via ldflags.
var version = "dev"

// verbose enables debug logging.
var verbose bool

// Package-level services, wired on first use. Tests inject mocks here.
var (
	queryService     driving.QueryService
	ingestionService driving.IngestionService
	settingsService  driving.SettingsService
	appSettings      domain.Settings

	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Question answering over your company documents",
	Long: `Docqa ingests company documents, indexes them for semantic retrieval,
and answers natural-language questions grounded in their content.

Answers are role-gated: each document carries the roles permitted to
see it, and queries only retrieve from documents the asking role may
read.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ensureServices wires the full pipeline on first use. Commands that
// only print static information never pay the wiring cost.
func ensureServices(ctx context.Context) error {
	if queryService != nil || ingestionService != nil {
		return nil
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	if err := configStore.Load(); err != nil {
		logger.Debug("No existing config, using defaults: %v", err)
	}

	settingsService = services.NewSettingsService(configStore)
	appSettings, err = settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	aiResult, err := ai.Initialize(appSettings)
	if err != nil {
		return err
	}
	for _, warning := range aiResult.Warnings {
		logger.Warn("%s", warning)
	}
	embedder := aiResult.EmbeddingService
	closers = append(closers, embedder)
	llm := aiResult.LLMService
	if llm != nil {
		closers = append(closers, llm)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	closers = append(closers, store)

	index := vecmemory.NewIndex()
	closers = append(closers, index)

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	chunkerProc, err := registry.Build("chunker", map[string]any{
		"chunk_size": appSettings.ChunkSize,
		"overlap":    appSettings.ChunkOverlap,
		"min_length": appSettings.MinDocumentLength,
	})
	if err != nil {
		return fmt.Errorf("building chunker: %w", err)
	}

	retriever := services.NewRetriever(embedder, index, store)
	synthesizer := services.NewSynthesizer(llm, services.WithPromptStore(promptStore))
	pipeline := services.NewPipeline(
		retriever,
		synthesizer,
		postprocessors.NewPipeline(chunkerProc),
		embedder,
		index,
		store,
		appSettings,
	)

	// Previously ingested documents become queryable without
	// re-embedding.
	if err := pipeline.Warmup(ctx); err != nil {
		logger.Warn("Index warm-up failed: %v", err)
	}

	queryService = pipeline
	ingestionService = pipeline
	return nil
}

// closeServices releases adapter resources.
func closeServices() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Debug("Close failed: %v", err)
		}
	}
	closers = nil
}
