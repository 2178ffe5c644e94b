package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/tlind-29/dfmload/internal/cli"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(dfmload.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(dfmload.ExitCodeForError(err))
	}
}
