package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/normalisers"
)

var (
	ingestName  string
	ingestRoles []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a document file into the index",
	Long: `Ingest reads a plain-text file, splits it into chunks, embeds
them and adds them to the vector index. Re-ingesting the same source
replaces its previous chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}
		if ingestionService == nil {
			return errors.New("ingestion service not configured")
		}

		path := args[0]
		data, err := os.ReadFile(path) //nolint:gosec // user-supplied path is the point
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		text, err := normalisers.NewDefaultRegistry().Normalise(
			cmd.Context(), domain.RawFile{Path: path, Content: data})
		if err != nil {
			return fmt.Errorf("extracting text from %s: %w", path, err)
		}

		name := ingestName
		if name == "" {
			name = filepath.Base(path)
		}

		result, err := ingestionService.Ingest(cmd.Context(), driving.IngestRequest{
			Text:         text,
			SourceName:   name,
			AllowedRoles: parseRoles(ingestRoles),
		})
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", name, err)
		}

		cmd.Printf("Ingested %s: %d chunks (document %s)\n",
			name, result.ChunkCount, result.DocumentID)
		return nil
	},
}

// parseRoles maps flag values onto domain roles. Empty input means
// the ingestion default (all roles).
func parseRoles(values []string) []domain.Role {
	var roles []domain.Role
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		roles = append(roles, domain.ParseRole(strings.ToUpper(v)))
	}
	return roles
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestName, "name", "n", "",
		"source name to record (defaults to the file name)")
	ingestCmd.Flags().StringSliceVar(&ingestRoles, "roles", nil,
		"roles permitted to retrieve this document (default: all)")
	rootCmd.AddCommand(ingestCmd)
}
