package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/reviewrider/cmd/reviewrider/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server over the saved session",
	Long: `Start a read-only MCP (Model Context Protocol) server that lets an
assistant read your saved session and past analyses.

Configure in your MCP client's config file:
  {
    "mcpServers": {
      "reviewrider": {
        "command": "reviewrider",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol, so logs go to the file
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	version := rootCmd.Version
	if version == "" {
		version = "dev"
	}
	if err := mcp.StartServer(a.store, version, a.logger); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
