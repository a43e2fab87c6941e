package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage ingested documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}
		if ingestionService == nil {
			return errors.New("ingestion service not configured")
		}

		docs, err := ingestionService.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}
		if len(docs) == 0 {
			cmd.Println("No documents ingested.")
			return nil
		}

		for _, doc := range docs {
			cmd.Printf("%s  %s  (%d chunks, roles: %s, updated %s)\n",
				doc.ID, doc.SourceName, doc.ChunkCount,
				formatRoles(doc.AllowedRoles),
				doc.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete a document and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}
		if ingestionService == nil {
			return errors.New("ingestion service not configured")
		}

		id := args[0]
		if err := ingestionService.Remove(cmd.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("document %s not found", id)
			}
			return fmt.Errorf("deleting %s: %w", id, err)
		}
		cmd.Printf("Deleted document %s\n", id)
		return nil
	},
}

func formatRoles(roles []domain.Role) string {
	if len(roles) == 0 {
		return "all"
	}
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += ","
		}
		out += string(r)
	}
	return out
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}
