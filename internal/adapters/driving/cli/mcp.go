package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/labelkit/internal/adapters/driving/mcp"
	"github.com/custodia-labs/labelkit/internal/core/domain"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose documents and relations to AI assistants over the Model Context
Protocol. Tools: list_documents, get_document, approve_document,
list_relations and create_relation.

The server speaks JSON-RPC over stdio unless --port is given.

Tools that omit a project use --project or project.default.

Examples:
  labelkit mcp serve
  labelkit mcp serve --port 8080 --project 3`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().Int("port", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	a, err := currentApp()
	if err != nil {
		return err
	}
	// A default project is optional; tools may name one per call.
	pid, err := projectID(a)
	if err != nil && !errors.Is(err, domain.ErrNotConfigured) {
		return err
	}
	ws, err := a.Workspace()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Workspace: ws, DefaultProject: pid})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
