package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tlind-29/dfmload/internal/normalize"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

// ValidateResult summarizes a normalize-only dry run.
type ValidateResult struct {
	Documents int
	Skipped   []SkippedDocument
	Counts    map[string]int64
}

// Validator flattens documents without touching the warehouse. Used by the
// validate command to preview per-table row counts.
type Validator struct {
	source dfmload.DocumentSource
	logger dfmload.Logger
}

// NewValidator creates a Validator. Panics on nil dependencies.
func NewValidator(source dfmload.DocumentSource, logger dfmload.Logger) *Validator {
	if source == nil {
		panic("source cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Validator{source: source, logger: logger}
}

// Validate parses and flattens every listed document, accumulating the row
// counts a real run would stage. Parse and validation failures are recorded
// and skipped, same granularity as a load run.
func (v *Validator) Validate(ctx context.Context) (*ValidateResult, error) {
	handles, err := v.source.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	result := &ValidateResult{Counts: make(map[string]int64, len(dfmload.TableLoadOrder))}
	for _, table := range dfmload.TableLoadOrder {
		result.Counts[table] = 0
	}

	for _, handle := range handles {
		rs, err := v.flatten(ctx, handle)
		if err != nil {
			if errors.Is(err, dfmload.ErrParse) || errors.Is(err, dfmload.ErrValidation) {
				v.logger.Error("Skipping %s: %v", handle.Name, err)
				result.Skipped = append(result.Skipped, SkippedDocument{Name: handle.Name, Reason: err})
				continue
			}
			return nil, err
		}
		for table, n := range rs.Counts() {
			result.Counts[table] += n
		}
		// A real run stages one raw blob per loaded document.
		result.Counts[dfmload.TableRawDocuments]++
		result.Documents++
	}
	return result, nil
}

func (v *Validator) flatten(ctx context.Context, handle dfmload.DocumentHandle) (*dfmload.RowSet, error) {
	parsed, err := v.source.ReadDocument(ctx, handle)
	if err != nil {
		return nil, err
	}

	rs, err := normalize.Flatten(parsed.Doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", handle.Name, err)
	}
	return rs, nil
}
