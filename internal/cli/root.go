// Package cli wires the cobra command surface of dfmload.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dfmload",
	Short: "Load manufacturability-analysis documents into a warehouse",
	Long: `dfmload flattens nested manufacturability-analysis JSON documents into a
fixed relational schema and bulk-loads them into PostgreSQL.

Each run is a small, one-shot, all-or-nothing batch: every document shares one
transaction, so a failing insert rolls back the entire run. Documents that
fail to parse or lack a model id are skipped individually and the run
continues.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Warehouse connection failed
  12 - No document could be parsed
  13 - No document passed validation
  14 - Statement execution failed, run rolled back`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
