package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tlind-29/dfmload/internal/logging"
	"github.com/tlind-29/dfmload/internal/services"
	"github.com/tlind-29/dfmload/internal/source"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

var validateCmd = &cobra.Command{
	Use:   "validate <data_dir>",
	Short: "Flatten documents without loading and print row counts",
	Long: `Validate parses and flattens every document the way a load run would, but
never connects to the warehouse. It prints the per-table row counts a real run
would stage, and reports which documents would be skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

type validateFlagValues struct {
	files []string
}

var validateFlags validateFlagValues

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringArrayVar(&validateFlags.files, "file", nil,
		"Document filename within the data directory (repeatable)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	_, runCfg, err := resolveRunConfig(cmd, args[0], validateFlags.files, 0)
	if err != nil {
		return err
	}

	docSource := source.NewFileSource(runCfg.DataDir, runCfg.Files, logger)
	validator := services.NewValidator(docSource, logger)

	result, err := validator.Validate(context.Background())
	if err != nil {
		return err
	}

	logger.Info("Validated %d documents (%d skipped)", result.Documents, len(result.Skipped))
	for _, table := range dfmload.TableLoadOrder {
		logger.Info("  %-22s %d rows", table, result.Counts[table])
	}

	if result.Documents == 0 && len(result.Skipped) > 0 {
		return fmt.Errorf("no document could be validated (%d skipped): %w",
			len(result.Skipped), result.Skipped[0].Reason)
	}
	return nil
}
