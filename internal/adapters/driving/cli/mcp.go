package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question-answering tools over MCP",
	Long: `Serve exposes the ask and ingest_document tools, plus the
document resources, to MCP clients. By default the server speaks over
stdio; pass --port to serve HTTP instead.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}

		server, err := mcp.NewServer(&mcp.Ports{
			Query:     queryService,
			Ingestion: ingestionService,
		})
		if err != nil {
			return err
		}

		if mcpPort > 0 {
			return server.RunHTTP(cmd.Context(), fmt.Sprintf(":%d", mcpPort))
		}
		return server.Run(cmd.Context())
	},
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0,
		"serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
