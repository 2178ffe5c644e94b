package dfmload

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := runner.Run(ctx, config, connConfig)
//	if errors.Is(err, dfmload.ErrPersistence) {
//	    // Run was rolled back; nothing was committed
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the warehouse connection could not be
	// established.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrParse indicates a document could not be parsed as the expected
	// tree shape. The run harness skips the document and continues.
	ErrParse = errors.New("document parse failed")

	// ErrValidation indicates a document is missing its mandatory
	// analysis identifier. The run harness skips the document and continues.
	ErrValidation = errors.New("document validation failed")

	// ErrPersistence indicates a statement could not be built or executed.
	// The whole run is rolled back; no partial table is left populated.
	ErrPersistence = errors.New("persistence failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrValidation):
		return ExitValidationError
	case errors.Is(err, ErrPersistence):
		return ExitLoadFailed
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
