// Command storebridge inspects and serves a storebridge over a reference host.
//
// Configuration is via environment variables (or a .env file):
//
//	STOREBRIDGE_LOG_LEVEL        - debug, info, warn, error (default: info)
//	STOREBRIDGE_LOG_FORMAT       - json or console (default: console)
//	STOREBRIDGE_SNAPSHOT_TIMEOUT - bound on snapshot reads (default: unbounded)
//	STOREBRIDGE_STATE_DB         - SQLite file holding slice state across runs
//	STOREBRIDGE_SEARCH_DB        - SQLite document index (default: :memory:)
//	STOREBRIDGE_JWT_SECRET       - HS256 secret for session tokens
//	STOREBRIDGE_DEMO_TOKEN       - token the host signs in with at start
//	STOREBRIDGE_AGUI_ADDR        - AG-UI listen address (default: :8000)
//	STOREBRIDGE_MCP_NAME         - MCP server name (default: storebridge)
//	STOREBRIDGE_MCP_VERSION      - MCP server version
//
// Usage:
//
//	storebridge catalog --format yaml
//	storebridge demo
//	storebridge mcp
//	storebridge serve
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge/internal/config"
	"github.com/spetersoncode/storebridge/internal/logging"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storebridge",
	Short: "Observe and command a host store through its allow-list",
	Long: `storebridge lets a client read a host application's state through typed
projections and change it only through the gateway's closed set of commands.

This binary runs a reference host (search, user and filter slices) and
exposes it through the bridge.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetLogger(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
