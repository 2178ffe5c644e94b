// Package services orchestrates the pipeline: document source in, normalizer
// and loader per document, one warehouse transaction around the whole batch.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tlind-29/dfmload/internal/load"
	"github.com/tlind-29/dfmload/internal/normalize"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

// SkippedDocument records one document the run rejected and continued past.
type SkippedDocument struct {
	Name   string
	Reason error
}

// RunResult summarizes one load run.
type RunResult struct {
	RunID     uuid.UUID
	Loaded    int
	Skipped   []SkippedDocument
	Report    *load.Report
	Committed bool
}

// RunService executes load runs.
//
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance;
// the pipeline is strictly single-threaded by design.
type RunService struct {
	opener dfmload.SessionOpener
	source dfmload.DocumentSource
	logger dfmload.Logger

	// Seams for tests; default to time.Now and uuid.New.
	now      func() time.Time
	newRunID func() uuid.UUID
}

// NewRunService creates a RunService with all dependencies injected.
// Panics on nil dependencies: wiring errors should fail loudly at startup,
// not as nil dereferences mid-run.
func NewRunService(opener dfmload.SessionOpener, source dfmload.DocumentSource, logger dfmload.Logger) *RunService {
	if opener == nil {
		panic("opener cannot be nil")
	}
	if source == nil {
		panic("source cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &RunService{
		opener:   opener,
		source:   source,
		logger:   logger,
		now:      time.Now,
		newRunID: uuid.New,
	}
}

// Run loads every listed document inside a single transaction. Documents
// that fail to parse or validate are skipped with a logged reason and the
// run continues; any persistence failure rolls the whole run back, including
// documents already staged.
func (s *RunService) Run(ctx context.Context, cfg dfmload.RunConfig, connConfig *dfmload.ConnectionConfig) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	handles, err := s.source.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	result := &RunResult{
		RunID:  s.newRunID(),
		Report: load.NewReport(),
	}
	if len(handles) == 0 {
		s.logger.Info("No documents found, nothing to load")
		return result, nil
	}
	s.logger.Verbose("Run %s: %d documents", result.RunID, len(handles))

	session, cleanup, err := s.opener.Open(ctx, connConfig)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	loader := load.NewLoader(s.logger)
	for _, handle := range handles {
		rs, err := s.stageDocument(ctx, handle, result.RunID)
		if err != nil {
			if errors.Is(err, dfmload.ErrParse) || errors.Is(err, dfmload.ErrValidation) {
				s.logger.Error("Skipping %s: %v", handle.Name, err)
				result.Skipped = append(result.Skipped, SkippedDocument{Name: handle.Name, Reason: err})
				continue
			}
			s.rollback(ctx, session, err)
			return result, err
		}

		report, err := loader.Load(ctx, session, rs)
		result.Report.Merge(report)
		if err != nil {
			s.rollback(ctx, session, err)
			return result, err
		}
		result.Loaded++
		s.logger.Verbose("Staged %s (analysis_id=%s)", handle.Name, rs.Analyses[0].AnalysisID)
	}

	if err := session.Commit(ctx); err != nil {
		commitErr := fmt.Errorf("commit failed: %v: %w", err, dfmload.ErrPersistence)
		s.rollback(ctx, session, commitErr)
		return result, commitErr
	}
	result.Committed = true

	s.logger.Info("✓ Committed %d rows from %d documents (%d skipped)",
		result.Report.TotalInserted(), result.Loaded, len(result.Skipped))
	s.logSummary(result.Report)
	return result, nil
}

// stageDocument reads, parses, and flattens one document, appending the raw
// blob row for provenance.
func (s *RunService) stageDocument(ctx context.Context, handle dfmload.DocumentHandle, runID uuid.UUID) (*dfmload.RowSet, error) {
	parsed, err := s.source.ReadDocument(ctx, handle)
	if err != nil {
		return nil, err
	}

	rs, err := normalize.Flatten(parsed.Doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", handle.Name, err)
	}

	rs.RawDocuments = append(rs.RawDocuments, dfmload.RawDocumentRow{
		AnalysisID:   rs.Analyses[0].AnalysisID,
		Filename:     handle.Name,
		DocumentJSON: string(parsed.Raw),
		RunID:        runID,
		LoadedAt:     s.now(),
	})
	return rs, nil
}

func (s *RunService) rollback(ctx context.Context, session dfmload.StoreSession, cause error) {
	s.logger.Error("Rolling back run: %v", cause)
	if err := session.Rollback(ctx); err != nil {
		s.logger.Error("Rollback failed: %v", err)
	}
}

func (s *RunService) logSummary(report *load.Report) {
	for _, table := range dfmload.TableLoadOrder {
		attempted := report.Attempted[table]
		if attempted == 0 {
			continue
		}
		s.logger.Info("  %-22s attempted=%d inserted=%d", table, attempted, report.Inserted[table])
	}
}
