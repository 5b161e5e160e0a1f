package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/storebridge/mcp"
)

// mcpCmd serves the bridge over MCP stdio
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the bridge over MCP stdio",
	Long: `Runs the reference host and exposes the bridge to MCP clients over
stdin/stdout: every selector as a resource, every allowed command as a tool.

Configuration for an MCP client:

  {
      "mcpServers": {
          "storebridge": {
              "command": "storebridge",
              "args": ["mcp"]
          }
      }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := startRuntime(ctx, cfg, 0)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	return mcp.ServeStdio(rt.bridge,
		mcp.WithName(cfg.MCPName),
		mcp.WithVersion(cfg.MCPVersion),
		mcp.WithLogger(logger.Named("mcp")),
	)
}
