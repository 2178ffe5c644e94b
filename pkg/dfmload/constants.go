package dfmload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Run completed and committed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to the warehouse
	ExitParseError      = 12 // No document could be parsed
	ExitValidationError = 13 // No document passed validation
	ExitLoadFailed      = 14 // Statement execution failed, run rolled back
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first
	// connection retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between connection
	// retry attempts.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of connection
	// retry attempts. Statement execution is never retried; a failed insert
	// aborts the run.
	DefaultRetryMaxAttempts = 3

	// MaxErrorPreviewLength is the maximum number of characters shown when
	// previewing a failed statement in error messages.
	MaxErrorPreviewLength = 200

	// DocumentExtension is the file extension the filesystem source scans for.
	DocumentExtension = ".json"
)
