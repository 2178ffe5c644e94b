package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(verbose bool) (*ConsoleLogger, *bytes.Buffer) {
	logger := NewConsoleLogger(verbose)
	buf := &bytes.Buffer{}
	logger.out = buf
	return logger, buf
}

func TestConsoleLogger_Info(t *testing.T) {
	logger, buf := newTestLogger(false)
	logger.Info("Loaded %d documents", 3)
	assert.Equal(t, "Loaded 3 documents\n", buf.String())
}

func TestConsoleLogger_Error(t *testing.T) {
	logger, buf := newTestLogger(false)
	logger.Error("Skipping %s", "bad.json")
	assert.Equal(t, "[ERROR] Skipping bad.json\n", buf.String())
}

func TestConsoleLogger_VerboseEnabled(t *testing.T) {
	logger, buf := newTestLogger(true)
	logger.Verbose("Inserting %d rows", 7)
	assert.Equal(t, "[VERBOSE] Inserting 7 rows\n", buf.String())
}

func TestConsoleLogger_VerboseDisabled(t *testing.T) {
	logger, buf := newTestLogger(false)
	logger.Verbose("should not appear")
	assert.Empty(t, buf.String())
}

func TestConsoleLogger_NoArgsLeavesPercentsAlone(t *testing.T) {
	logger, buf := newTestLogger(false)
	logger.Info("100% done")
	assert.Equal(t, "100% done\n", buf.String())
}

func TestConsoleLogger_DefaultsToStderr(t *testing.T) {
	logger := NewConsoleLogger(false)
	assert.NotNil(t, logger.out)
}
