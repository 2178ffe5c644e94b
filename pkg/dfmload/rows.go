package dfmload

import (
	"time"

	"github.com/google/uuid"
)

// Target table names. TableLoadOrder lists them parent-to-child so that
// referential constraints in the warehouse, if enforced, are never violated
// mid-run.
const (
	TableAnalysis             = "analysis"
	TableApplications         = "applications"
	TableToolsets             = "toolsets"
	TableMaterials            = "materials"
	TableBlockFits            = "block_fits"
	TableThreadedFeatures     = "threaded_features"
	TableThreadOptions        = "thread_options"
	TableAdvisoryInfos        = "advisory_infos"
	TableAvailabilityFailures = "availability_failures"
	TableRawDocuments         = "raw_documents"
)

// TableLoadOrder is the fixed insert order for one run.
var TableLoadOrder = []string{
	TableAnalysis,
	TableApplications,
	TableToolsets,
	TableMaterials,
	TableBlockFits,
	TableThreadedFeatures,
	TableThreadOptions,
	TableAdvisoryInfos,
	TableAvailabilityFailures,
	TableRawDocuments,
}

// AnalysisRow is the single per-document row of top-level part metrics.
type AnalysisRow struct {
	AnalysisID  string
	ModelID     string
	SurfaceArea *float64
	XExtent     *float64
	YExtent     *float64
	ZExtent     *float64
	Volume      *float64
}

// ApplicationRow records one pipeline application, keyed by arrival order.
type ApplicationRow struct {
	AnalysisID string
	Ordinal    int
	Name       *string
	Version    *string
}

// ToolsetRow records one candidate machining setup. ViewerFilesJSON is the
// staged serialized form of the semi-structured viewer-file list; it is "[]"
// when the document lacks threaded-feature display info.
type ToolsetRow struct {
	AnalysisID              string
	ToolsetID               *string
	Is5Axis                 *bool
	IsMinimalMilling        *bool
	MachiningMinutesPart    *float64
	MachiningMinutesBushing *float64
	LeftoverMaterialVolume  *float64
	ViewerFilesJSON         string
	Scene                   *string
}

// MaterialRow records one material evaluated for a toolset.
type MaterialRow struct {
	AnalysisID string
	ToolsetID  *string
	MaterialID *string
	Available  *bool
}

// BlockFitRow records one block-fit assessment for a material.
type BlockFitRow struct {
	AnalysisID string
	ToolsetID  *string
	MaterialID *string
	BlockID    *string
	MaxParts   *int64
	IsSafe     *bool
}

// ThreadedFeatureRow records one thread-cutting feature of a toolset.
type ThreadedFeatureRow struct {
	AnalysisID   string
	ToolsetID    *string
	FeatureID    *string
	FeatureType  *string
	HoleDiameter *float64
	HolePointX   *float64
	HolePointY   *float64
	HolePointZ   *float64
	Depth        *float64
	IsThrough    *bool
	AxisX        *float64
	AxisY        *float64
	AxisZ        *float64
	TopX         *float64
	TopY         *float64
	TopZ         *float64
}

// ThreadOptionRow records one candidate thread specification for a feature.
type ThreadOptionRow struct {
	AnalysisID        string
	ToolsetID         *string
	FeatureID         *string
	ThreadID          *string
	MajorDiameter     *float64
	MinorDiameter     *float64
	ThreadDepth       *float64
	TaperAngleRadians *float64
	TopDisplayOffset  *float64
	TopOffset         *float64
}

// AdvisoryInfoRow records one advisory diagnostic, keyed by arrival order.
// PropertiesJSON is nil when the source has no properties; the loader stores
// that as a jsonb null, never an absent statement fragment.
type AdvisoryInfoRow struct {
	AnalysisID      string
	Ordinal         int
	ToolsetValue    *string
	Scene           *string
	Type            *string
	Application     *string
	ViewerFilesJSON string
	PropertiesJSON  *string
}

// AvailabilityFailureRow carries the whole availabilityCheckFailureDetails
// list for a document. At most one row exists per document, and only when the
// source list is non-empty.
type AvailabilityFailureRow struct {
	AnalysisID         string
	FailureDetailsJSON string
}

// RawDocumentRow preserves the entire source document as a denormalized
// jsonb blob alongside run provenance.
type RawDocumentRow struct {
	AnalysisID   string
	Filename     string
	DocumentJSON string
	RunID        uuid.UUID
	LoadedAt     time.Time
}

// RowSet holds the ordered row sequences flattened from documents, one slice
// per target table. The normalizer is the sole writer of key fields; every
// child row's parent-key fields equal the corresponding ancestor's key.
type RowSet struct {
	Analyses             []AnalysisRow
	Applications         []ApplicationRow
	Toolsets             []ToolsetRow
	Materials            []MaterialRow
	BlockFits            []BlockFitRow
	ThreadedFeatures     []ThreadedFeatureRow
	ThreadOptions        []ThreadOptionRow
	AdvisoryInfos        []AdvisoryInfoRow
	AvailabilityFailures []AvailabilityFailureRow
	RawDocuments         []RawDocumentRow
}

// Counts returns the number of staged rows per table.
func (rs *RowSet) Counts() map[string]int64 {
	return map[string]int64{
		TableAnalysis:             int64(len(rs.Analyses)),
		TableApplications:         int64(len(rs.Applications)),
		TableToolsets:             int64(len(rs.Toolsets)),
		TableMaterials:            int64(len(rs.Materials)),
		TableBlockFits:            int64(len(rs.BlockFits)),
		TableThreadedFeatures:     int64(len(rs.ThreadedFeatures)),
		TableThreadOptions:        int64(len(rs.ThreadOptions)),
		TableAdvisoryInfos:        int64(len(rs.AdvisoryInfos)),
		TableAvailabilityFailures: int64(len(rs.AvailabilityFailures)),
		TableRawDocuments:         int64(len(rs.RawDocuments)),
	}
}
