// Package load moves flattened row sets into the warehouse through an open
// store session. Scalar tables go through single multi-row statements; tables
// carrying a semi-structured payload are inserted row by row because the
// payload is embedded as a jsonb literal rather than a bound parameter.
// The loader never commits; that is the run harness's call.
package load

import (
	"context"
	"fmt"

	"github.com/tlind-29/dfmload/internal/sqltext"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

// Loader persists row sets. A single Loader instance serves a whole run;
// it is not safe for concurrent use, and nothing in the pipeline requires
// that.
type Loader struct {
	logger dfmload.Logger
}

// NewLoader creates a new Loader. Panics if logger is nil: dependency wiring
// errors should fail at construction, not as nil dereferences mid-run.
func NewLoader(logger dfmload.Logger) *Loader {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Loader{logger: logger}
}

// Load inserts every row of rs into the warehouse in parent-to-child table
// order. On any statement failure it returns an ErrPersistence-wrapped error
// immediately; rows are neither retried nor skipped. The partial report is
// returned alongside the error so the harness can describe what was rolled
// back.
func (l *Loader) Load(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet) (*Report, error) {
	report := NewReport()

	steps := []func(context.Context, dfmload.StoreSession, *dfmload.RowSet, *Report) error{
		l.loadAnalyses,
		l.loadApplications,
		l.loadToolsets,
		l.loadMaterials,
		l.loadBlockFits,
		l.loadThreadedFeatures,
		l.loadThreadOptions,
		l.loadAdvisoryInfos,
		l.loadAvailabilityFailures,
		l.loadRawDocuments,
	}
	for _, step := range steps {
		if err := step(ctx, session, rs, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (l *Loader) loadAnalyses(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	columns := []string{"analysis_id", "model_id", "surface_area", "x_extent", "y_extent", "z_extent", "volume"}
	rows := make([][]interface{}, 0, len(rs.Analyses))
	for _, r := range rs.Analyses {
		rows = append(rows, []interface{}{r.AnalysisID, r.ModelID, r.SurfaceArea, r.XExtent, r.YExtent, r.ZExtent, r.Volume})
	}
	return l.batch(ctx, session, report, dfmload.TableAnalysis, columns, rows)
}

func (l *Loader) loadApplications(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	columns := []string{"analysis_id", "ordinal", "application_name", "application_version"}
	rows := make([][]interface{}, 0, len(rs.Applications))
	for _, r := range rs.Applications {
		rows = append(rows, []interface{}{r.AnalysisID, r.Ordinal, r.Name, r.Version})
	}
	return l.batch(ctx, session, report, dfmload.TableApplications, columns, rows)
}

func (l *Loader) loadMaterials(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	columns := []string{"analysis_id", "toolset_id", "material_id", "available"}
	rows := make([][]interface{}, 0, len(rs.Materials))
	for _, r := range rs.Materials {
		rows = append(rows, []interface{}{r.AnalysisID, r.ToolsetID, r.MaterialID, r.Available})
	}
	return l.batch(ctx, session, report, dfmload.TableMaterials, columns, rows)
}

func (l *Loader) loadBlockFits(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	columns := []string{"analysis_id", "toolset_id", "material_id", "block_id", "max_parts", "is_safe"}
	rows := make([][]interface{}, 0, len(rs.BlockFits))
	for _, r := range rs.BlockFits {
		rows = append(rows, []interface{}{r.AnalysisID, r.ToolsetID, r.MaterialID, r.BlockID, r.MaxParts, r.IsSafe})
	}
	return l.batch(ctx, session, report, dfmload.TableBlockFits, columns, rows)
}

func (l *Loader) loadThreadedFeatures(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	columns := []string{
		"analysis_id", "toolset_id", "feature_id", "feature_type",
		"hole_diameter", "hole_point_x", "hole_point_y", "hole_point_z",
		"depth", "is_through", "axis_x", "axis_y", "axis_z", "top_x", "top_y", "top_z",
	}
	rows := make([][]interface{}, 0, len(rs.ThreadedFeatures))
	for _, r := range rs.ThreadedFeatures {
		rows = append(rows, []interface{}{
			r.AnalysisID, r.ToolsetID, r.FeatureID, r.FeatureType,
			r.HoleDiameter, r.HolePointX, r.HolePointY, r.HolePointZ,
			r.Depth, r.IsThrough, r.AxisX, r.AxisY, r.AxisZ, r.TopX, r.TopY, r.TopZ,
		})
	}
	return l.batch(ctx, session, report, dfmload.TableThreadedFeatures, columns, rows)
}

func (l *Loader) loadThreadOptions(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	columns := []string{
		"analysis_id", "toolset_id", "feature_id", "thread_id",
		"major_diameter", "minor_diameter", "thread_depth",
		"taper_angle_radians", "top_display_offset", "top_offset",
	}
	rows := make([][]interface{}, 0, len(rs.ThreadOptions))
	for _, r := range rs.ThreadOptions {
		rows = append(rows, []interface{}{
			r.AnalysisID, r.ToolsetID, r.FeatureID, r.ThreadID,
			r.MajorDiameter, r.MinorDiameter, r.ThreadDepth,
			r.TaperAngleRadians, r.TopDisplayOffset, r.TopOffset,
		})
	}
	return l.batch(ctx, session, report, dfmload.TableThreadOptions, columns, rows)
}

func (l *Loader) loadToolsets(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	for _, r := range rs.Toolsets {
		viewerFiles, err := sqltext.JSONLiteral(orEmptyList(r.ViewerFilesJSON))
		if err != nil {
			return buildError(dfmload.TableToolsets, err)
		}
		sql := fmt.Sprintf(
			"INSERT INTO toolsets (analysis_id, toolset_id, is_5_axis, is_minimal_milling, "+
				"machining_minutes_part, machining_minutes_bushing, leftover_material_volume, "+
				"viewer_files, scene) VALUES ($1, $2, $3, $4, $5, $6, $7, %s, $8)",
			viewerFiles)
		inserted, err := session.ExecuteOne(ctx, sql,
			r.AnalysisID, r.ToolsetID, r.Is5Axis, r.IsMinimalMilling,
			r.MachiningMinutesPart, r.MachiningMinutesBushing, r.LeftoverMaterialVolume,
			r.Scene)
		report.add(dfmload.TableToolsets, 1, inserted)
		if err != nil {
			return insertError(dfmload.TableToolsets, err)
		}
	}
	return nil
}

func (l *Loader) loadAdvisoryInfos(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	for _, r := range rs.AdvisoryInfos {
		viewerFiles, err := sqltext.JSONLiteral(orEmptyList(r.ViewerFilesJSON))
		if err != nil {
			return buildError(dfmload.TableAdvisoryInfos, err)
		}
		properties, err := sqltext.JSONLiteral(orNull(r.PropertiesJSON))
		if err != nil {
			return buildError(dfmload.TableAdvisoryInfos, err)
		}
		sql := fmt.Sprintf(
			"INSERT INTO advisory_infos (analysis_id, ordinal, toolset_value, scene, type, "+
				"application, viewer_files, properties) VALUES ($1, $2, $3, $4, $5, $6, %s, %s)",
			viewerFiles, properties)
		inserted, err := session.ExecuteOne(ctx, sql,
			r.AnalysisID, r.Ordinal, r.ToolsetValue, r.Scene, r.Type, r.Application)
		report.add(dfmload.TableAdvisoryInfos, 1, inserted)
		if err != nil {
			return insertError(dfmload.TableAdvisoryInfos, err)
		}
	}
	return nil
}

func (l *Loader) loadAvailabilityFailures(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	for _, r := range rs.AvailabilityFailures {
		details, err := sqltext.JSONLiteral(orEmptyList(r.FailureDetailsJSON))
		if err != nil {
			return buildError(dfmload.TableAvailabilityFailures, err)
		}
		sql := fmt.Sprintf(
			"INSERT INTO availability_failures (analysis_id, failure_details) VALUES ($1, %s)",
			details)
		inserted, err := session.ExecuteOne(ctx, sql, r.AnalysisID)
		report.add(dfmload.TableAvailabilityFailures, 1, inserted)
		if err != nil {
			return insertError(dfmload.TableAvailabilityFailures, err)
		}
	}
	return nil
}

func (l *Loader) loadRawDocuments(ctx context.Context, session dfmload.StoreSession, rs *dfmload.RowSet, report *Report) error {
	for _, r := range rs.RawDocuments {
		document, err := sqltext.JSONLiteral(r.DocumentJSON)
		if err != nil {
			return buildError(dfmload.TableRawDocuments, err)
		}
		sql := fmt.Sprintf(
			"INSERT INTO raw_documents (analysis_id, filename, document, run_id, loaded_at) "+
				"VALUES ($1, $2, %s, $3, $4)",
			document)
		inserted, err := session.ExecuteOne(ctx, sql, r.AnalysisID, r.Filename, r.RunID, r.LoadedAt)
		report.add(dfmload.TableRawDocuments, 1, inserted)
		if err != nil {
			return insertError(dfmload.TableRawDocuments, err)
		}
	}
	return nil
}

func (l *Loader) batch(ctx context.Context, session dfmload.StoreSession, report *Report, table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	l.logger.Verbose("Inserting %d rows into %s", len(rows), table)
	inserted, err := session.ExecuteBatch(ctx, table, columns, rows)
	report.add(table, int64(len(rows)), inserted)
	if err != nil {
		return insertError(table, err)
	}
	return nil
}

// orEmptyList canonicalizes a staged-absent list payload to the empty-list
// literal the jsonb parser understands.
func orEmptyList(payload string) string {
	if payload == "" {
		return "[]"
	}
	return payload
}

// orNull canonicalizes an absent payload to the explicit JSON null literal.
func orNull(payload *string) string {
	if payload == nil || *payload == "" {
		return "null"
	}
	return *payload
}

func buildError(table string, err error) error {
	return fmt.Errorf("%s: building statement: %v: %w", table, err, dfmload.ErrPersistence)
}

func insertError(table string, err error) error {
	return fmt.Errorf("%s: insert failed: %v: %w", table, err, dfmload.ErrPersistence)
}
