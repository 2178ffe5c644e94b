package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tlind-29/dfmload/internal/config"
	"github.com/tlind-29/dfmload/internal/logging"
	"github.com/tlind-29/dfmload/internal/services"
	"github.com/tlind-29/dfmload/internal/source"
	"github.com/tlind-29/dfmload/internal/store"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

var loadCmd = &cobra.Command{
	Use:   "load <data_dir>",
	Short: "Flatten and load analysis documents into the warehouse",
	Long: `Load flattens every analysis document in the data directory into the nine
relational tables plus the raw-document blob table, then bulk-inserts all rows
inside a single transaction.

The load command:
1. Lists *.json documents in the data directory (or the files pinned in
   dfmload.yaml / --file flags)
2. Parses and flattens each document; unparseable documents and documents
   without a sourceDetails.modelId are skipped with a logged reason
3. Inserts all rows parent-to-child through one connection and one transaction
4. Commits on success, or rolls the whole batch back on the first failure
5. Prints attempted vs inserted row counts per table

Password Authentication:
  For security, the password is NOT accepted as a CLI flag. Use one of:
    1. $PGPASSWORD environment variable
    2. .pgpass file (PostgreSQL standard: chmod 600 ~/.pgpass)

Examples:
  # Load every document in ./sample-data into database dfm
  dfmload load ./sample-data -d dfm

  # Load two specific documents
  dfmload load ./sample-data -d dfm \
    --file analysis_output_lom.json \
    --file analysis_output_thread.json

  # Load with connection settings from an env file
  dfmload load ./sample-data --env-file prod.env`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

type loadFlagValues struct {
	conn     connectionFlags
	files    []string
	envFiles []string
	timeout  time.Duration
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)
	addConnectionFlags(loadCmd, &loadFlags.conn)

	loadCmd.Flags().StringArrayVar(&loadFlags.files, "file", nil,
		"Document filename within the data directory (repeatable).\n"+
			"Default: every *.json file in the data directory")
	loadCmd.Flags().StringArrayVar(&loadFlags.envFiles, "env-file", nil,
		"Env file loaded before connection resolution (repeatable).\n"+
			"Later files never override variables already set")
	loadCmd.Flags().DurationVar(&loadFlags.timeout, "timeout", 0,
		"Global timeout for the entire run (e.g. 5m). 0 means no limit")
}

func addConnectionFlags(cmd *cobra.Command, flags *connectionFlags) {
	cmd.Flags().StringVar(&flags.host, "host", "",
		"PostgreSQL server host\nPrecedence: --host > dfmload.yaml > $PGHOST > localhost")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0,
		"PostgreSQL server port\nPrecedence: --port > dfmload.yaml > $PGPORT > 5432")
	cmd.Flags().StringVarP(&flags.username, "username", "U", "",
		"PostgreSQL user (default: dfmload.yaml, $PGUSER, or current OS user)")
	cmd.Flags().StringVarP(&flags.database, "database", "d", "",
		"Target database name (required unless set in dfmload.yaml or $PGDATABASE)")
	cmd.Flags().StringVar(&flags.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full")
}

func runLoad(cmd *cobra.Command, args []string) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	for _, envFile := range loadFlags.envFiles {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %q: %v: %w", envFile, err, dfmload.ErrInvalidConfig)
		}
	}

	dataDir := args[0]
	project, runCfg, err := resolveRunConfig(cmd, dataDir, loadFlags.files, loadFlags.timeout)
	if err != nil {
		return err
	}

	connConfig, err := resolveConnection(loadFlags.conn, project)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(runCfg.Timeout)
	defer cancel()

	docSource := source.NewFileSource(runCfg.DataDir, runCfg.Files, logger)
	runner := services.NewRunService(store.NewOpener(logger), docSource, logger)

	result, err := runner.Run(ctx, *runCfg, connConfig)
	if err != nil {
		return err
	}
	if result.Loaded == 0 && len(result.Skipped) > 0 {
		return fmt.Errorf("no document could be loaded (%d skipped): %w",
			len(result.Skipped), result.Skipped[0].Reason)
	}
	return nil
}

// resolveRunConfig layers the optional dfmload.yaml under the CLI flags.
func resolveRunConfig(cmd *cobra.Command, dataDir string, files []string, timeout time.Duration) (*config.ProjectConfig, *dfmload.RunConfig, error) {
	project, err := config.Load(dataDir)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, nil, fmt.Errorf("%v: %w", err, dfmload.ErrInvalidConfig)
	}
	if project == nil {
		project = &config.ProjectConfig{}
	}

	if len(files) == 0 {
		files = project.Files
	}
	if timeout == 0 {
		timeout, err = project.ParseTimeout()
		if err != nil {
			return nil, nil, fmt.Errorf("%v: %w", err, dfmload.ErrInvalidConfig)
		}
	}

	runCfg := &dfmload.RunConfig{
		DataDir: dataDir,
		Files:   files,
		Timeout: timeout,
		Verbose: getVerboseFlag(cmd),
	}
	if err := runCfg.Validate(); err != nil {
		return nil, nil, err
	}
	return project, runCfg, nil
}

// signalContext returns a context cancelled by SIGINT/SIGTERM and, when
// timeout is positive, by the deadline.
func signalContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
