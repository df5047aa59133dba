package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the parse, score and preview tools over MCP stdio",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "tableparse",
		Version: "1.0.0",
	}, nil)
	newParser().RegisterMCP(srv)

	return srv.Run(cmd.Context(), &mcp.StdioTransport{})
}
