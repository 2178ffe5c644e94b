package cli

import (
	"fmt"
	"os"
	"os/user"
	"strconv"

	"github.com/tlind-29/dfmload/internal/config"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

// connectionFlags holds the granular connection flags shared by commands
// that talk to the warehouse.
type connectionFlags struct {
	host     string
	port     int
	username string
	database string
	sslMode  string
}

// resolveConnection merges connection parameters with the PostgreSQL standard
// precedence: flag > dfmload.yaml > PG* environment variable > default.
// The password is never a flag; it comes from $PGPASSWORD or a .pgpass file
// read by the driver.
func resolveConnection(flags connectionFlags, project *config.ProjectConfig) (*dfmload.ConnectionConfig, error) {
	var fromFile config.ConnectionConfig
	if project != nil {
		fromFile = project.Connection
	}

	cfg := &dfmload.ConnectionConfig{
		Host:     firstNonEmpty(flags.host, fromFile.Host, os.Getenv("PGHOST"), "localhost"),
		Username: firstNonEmpty(flags.username, fromFile.Username, os.Getenv("PGUSER"), currentOSUser()),
		Database: firstNonEmpty(flags.database, fromFile.Database, os.Getenv("PGDATABASE")),
		SSLMode:  firstNonEmpty(flags.sslMode, fromFile.SSLMode, os.Getenv("PGSSLMODE")),
		Password: os.Getenv("PGPASSWORD"),
		AppName:  firstNonEmpty(fromFile.AppName, "dfmload"),
	}

	port := flags.port
	if port == 0 {
		port = fromFile.Port
	}
	if port == 0 {
		if env := os.Getenv("PGPORT"); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return nil, fmt.Errorf("invalid PGPORT %q: %w", env, dfmload.ErrInvalidConfig)
			}
			port = p
		}
	}
	if port == 0 {
		port = 5432
	}
	cfg.Port = port

	if cfg.Database == "" {
		return nil, fmt.Errorf("database is required (use --database, dfmload.yaml, or $PGDATABASE): %w", dfmload.ErrInvalidConfig)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func currentOSUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
