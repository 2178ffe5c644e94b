package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient_PgCodes(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()

	tests := []struct {
		name string
		code string
		want bool
	}{
		{"connection exception", "08006", true},
		{"insufficient resources", "53300", true},
		{"operator intervention", "57P01", true},
		{"serialization failure", "40001", true},
		{"deadlock detected", "40P01", true},
		{"lock not available", "55P03", true},
		{"unique violation", "23505", false},
		{"foreign key violation", "23503", false},
		{"undefined table", "42P01", false},
		{"syntax error", "42601", false},
		{"invalid jsonb text", "22P02", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pgconn.PgError{Code: tt.code}
			assert.Equal(t, tt.want, classifier.IsTransient(err))
		})
	}
}

func TestIsTransient_WrappedPgError(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	err := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: "08006"})
	assert.True(t, classifier.IsTransient(err))
}

func TestIsTransient_ContextErrorsNever(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	assert.False(t, classifier.IsTransient(context.Canceled))
	assert.False(t, classifier.IsTransient(context.DeadlineExceeded))
	assert.False(t, classifier.IsTransient(fmt.Errorf("connect: %w", context.Canceled)))
}

func TestIsTransient_NetworkErrors(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	assert.True(t, classifier.IsTransient(syscall.ECONNREFUSED))
	assert.True(t, classifier.IsTransient(syscall.ECONNRESET))
	assert.True(t, classifier.IsTransient(fmt.Errorf("dial: %w", syscall.ETIMEDOUT)))
}

func TestIsTransient_MessageHeuristics(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	assert.True(t, classifier.IsTransient(errors.New("failed to connect to host")))
	assert.True(t, classifier.IsTransient(errors.New("write: broken pipe")))
	assert.False(t, classifier.IsTransient(errors.New("permission denied for table analysis")))
}

func TestIsTransient_Nil(t *testing.T) {
	assert.False(t, NewPostgreSQLErrorClassifier().IsTransient(nil))
}
