package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

var (
	askRole string
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question over the ingested documents",
	Long: `Ask embeds the question, retrieves the most relevant chunks the
given role is permitted to read, and synthesises an answer grounded in
them. Sources are listed with their relevance percentage.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}
		if queryService == nil {
			return errors.New("query service not configured")
		}

		question := strings.Join(args, " ")
		role := domain.ParseRole(strings.ToUpper(askRole))

		resp, err := queryService.Ask(cmd.Context(), question, role)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidQuery) {
				return errors.New("question must not be empty")
			}
			return err
		}

		if askJSON {
			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding response: %w", err)
			}
			cmd.Println(string(out))
			return nil
		}

		cmd.Println(resp.Answer)
		if len(resp.Sources) > 0 {
			cmd.Println()
			cmd.Println("Sources:")
			for _, src := range resp.Sources {
				cmd.Printf("  - %s (%d%%)\n", src.Title, src.Relevance)
				cmd.Printf("    %s\n", src.Snippet)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askRole, "role", "r", "employee",
		"role to query as (employee or admin)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	rootCmd.AddCommand(askCmd)
}
