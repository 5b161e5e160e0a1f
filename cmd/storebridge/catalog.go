package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/storebridge/gateway"
)

var (
	catalogFormat  string
	catalogAllowed bool
	catalogSlice   string
)

// catalogCmd prints the gateway manifest
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the classification of every declared mutation",
	Long: `Prints each mutation the host handles with its category, whether the
gateway allows it, and the reason.

Example:
  storebridge catalog --format json --allowed`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogFormat, "format", "f", "yaml", "Output format: yaml or json")
	catalogCmd.Flags().BoolVar(&catalogAllowed, "allowed", false, "Only list allowed commands")
	catalogCmd.Flags().StringVar(&catalogSlice, "slice", "", "Only list mutations of one slice")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	m := gateway.GetManifest()
	if catalogAllowed {
		m = m.Allowed()
	}
	if catalogSlice != "" {
		m = m.Slice(catalogSlice)
	}

	var (
		data []byte
		err  error
	)
	switch catalogFormat {
	case "yaml":
		data, err = m.YAML()
	case "json":
		data, err = m.JSON()
	default:
		return fmt.Errorf("unknown format: %s (must be yaml or json)", catalogFormat)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
