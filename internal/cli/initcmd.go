package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tlind-29/dfmload/internal/config"
	"github.com/tlind-29/dfmload/internal/logging"
	"github.com/tlind-29/dfmload/internal/schema"
	"github.com/tlind-29/dfmload/internal/store"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

var initCmd = &cobra.Command{
	Use:   "init [data_dir]",
	Short: "Create the target tables in the warehouse",
	Long: `Init applies the embedded DDL, creating the nine flattened tables plus
raw_documents if they do not already exist. When a data directory is given,
its dfmload.yaml contributes connection defaults.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

type initFlagValues struct {
	conn     connectionFlags
	envFiles []string
	printDDL bool
}

var initFlags initFlagValues

func init() {
	rootCmd.AddCommand(initCmd)
	addConnectionFlags(initCmd, &initFlags.conn)
	initCmd.Flags().StringArrayVar(&initFlags.envFiles, "env-file", nil,
		"Env file loaded before connection resolution (repeatable)")
	initCmd.Flags().BoolVar(&initFlags.printDDL, "print-ddl", false,
		"Print the DDL instead of applying it")
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	if initFlags.printDDL {
		fmt.Fprintln(cmd.OutOrStdout(), schema.DDL())
		return nil
	}

	for _, envFile := range initFlags.envFiles {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %q: %v: %w", envFile, err, dfmload.ErrInvalidConfig)
		}
	}

	var project *config.ProjectConfig
	if len(args) == 1 {
		var err error
		project, err = config.Load(args[0])
		if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
			return fmt.Errorf("%v: %w", err, dfmload.ErrInvalidConfig)
		}
	}

	connConfig, err := resolveConnection(initFlags.conn, project)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := store.NewStandardConnector(connConfig).Connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %v: %w", err, dfmload.ErrConnectionFailed)
	}
	defer conn.Release()

	if err := schema.Apply(ctx, conn); err != nil {
		return fmt.Errorf("%v: %w", err, dfmload.ErrPersistence)
	}
	logger.Info("✓ Warehouse schema is in place")
	return nil
}
