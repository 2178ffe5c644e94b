package dfmload

import (
	"errors"
	"fmt"
	"time"
)

// RunConfig contains all parameters needed for one load run.
type RunConfig struct {
	// DataDir is the directory containing the input JSON documents.
	DataDir string

	// Files optionally restricts the run to these filenames within DataDir.
	// Empty means every *.json file in DataDir.
	Files []string

	// Timeout is the global timeout for the entire run. Zero means no limit.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("DataDir is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	for _, f := range c.Files {
		if f == "" {
			errs = append(errs, fmt.Errorf("file list contains an empty name: %w", ErrInvalidConfig))
			break
		}
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents resolved warehouse connection parameters.
// Connection state is always passed in explicitly; no component reads
// connection details from global state.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string
}

// Validate checks if the ConnectionConfig has all required fields.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	if c.Host == "" {
		errs = append(errs, fmt.Errorf("Host is required: %w", ErrInvalidConfig))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("Port %d is out of range: %w", c.Port, ErrInvalidConfig))
	}

	if c.Database == "" {
		errs = append(errs, fmt.Errorf("Database is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
