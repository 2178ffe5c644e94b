package dfmload

import "encoding/json"

// Document is the typed form of one manufacturability-analysis document as
// produced by the upstream CAM analysis pipeline. Every field below the
// mandatory sourceDetails.modelId is optional: absence decodes to nil and
// flattening turns nil into SQL nulls or empty row sequences, never an error.
//
// Fields holding arbitrary nested data (viewer files, advisory properties,
// availability failure details) are kept as json.RawMessage so they survive
// the round trip into jsonb columns byte-for-byte.
type Document struct {
	SourceDetails                   *SourceDetails    `json:"sourceDetails"`
	PartMetrics                     *PartMetrics      `json:"partMetrics"`
	Applications                    []Application     `json:"applications"`
	Toolsets                        []Toolset         `json:"toolsets"`
	AdvisoryInfos                   []AdvisoryInfo    `json:"advisoryInfos"`
	AvailabilityCheckFailureDetails []json.RawMessage `json:"availabilityCheckFailureDetails"`
}

// SourceDetails identifies the analyzed model. ModelID is the only mandatory
// field in the whole document; it becomes analysis_id in every table.
type SourceDetails struct {
	ModelID *string `json:"modelId"`
}

// PartMetrics holds the top-level geometric metrics of the part.
type PartMetrics struct {
	SurfaceArea *float64 `json:"surfaceArea"`
	XExtent     *float64 `json:"xExtent"`
	YExtent     *float64 `json:"yExtent"`
	ZExtent     *float64 `json:"zExtent"`
	Volume      *float64 `json:"volume"`
}

// Application names a tool in the analysis pipeline that produced the
// document. Applications have no natural key beyond name and version.
type Application struct {
	Name    *string `json:"name"`
	Version *string `json:"version"`
}

// Toolset is a candidate machining setup evaluated against the part.
type Toolset struct {
	ToolsetID               *string           `json:"toolsetId"`
	Is5Axis                 *bool             `json:"is5Axis"`
	IsMinimalMilling        *bool             `json:"isMinimalMilling"`
	MachiningMinutesPart    *float64          `json:"machiningMinutesPart"`
	MachiningMinutesBushing *float64          `json:"machiningMinutesBushing"`
	LeftoverMaterialVolume  *float64          `json:"leftoverMaterialVolume"`
	Materials               []Material        `json:"materials"`
	ThreadedFeatures        *ThreadedFeatures `json:"threadedFeatures"`
}

// Material is one raw material evaluated for a toolset.
type Material struct {
	MaterialID         *string    `json:"materialId"`
	Available          *bool      `json:"available"`
	EstimatedBlockFits []BlockFit `json:"estimatedBlockFits"`
}

// BlockFit assesses whether a raw material block size can accommodate the
// part for a given toolset/material combination.
type BlockFit struct {
	BlockID  *string `json:"blockId"`
	MaxParts *int64  `json:"maxParts"`
	IsSafe   *bool   `json:"isSafe"`
}

// ThreadedFeatures is the optional per-toolset block describing thread-cutting
// features. DisplayInfo and Features are independently optional.
type ThreadedFeatures struct {
	DisplayInfo *SceneDisplayInfo `json:"displayInfo"`
	Features    []ThreadedFeature `json:"features"`
}

// SceneDisplayInfo carries the viewer scene for the whole threaded-feature set.
type SceneDisplayInfo struct {
	Scene       *string           `json:"scene"`
	ViewerFiles []json.RawMessage `json:"viewerFiles"`
}

// ThreadedFeature is a hole or boss requiring thread-cutting. Its geometry is
// split across two independently optional sub-objects; a missing sub-object
// yields nulls for all its fields, not a skipped row.
type ThreadedFeature struct {
	FeatureID            *string               `json:"featureId"`
	FeatureType          *string               `json:"featureType"`
	IdentifiableLocation *IdentifiableLocation `json:"identifiableLocation"`
	DisplayInfo          *FeatureDisplayInfo   `json:"displayInfo"`
	ThreadOptions        []ThreadOption        `json:"threadOptions"`
}

// IdentifiableLocation positions the feature's hole on the part.
type IdentifiableLocation struct {
	HoleDiameter *float64 `json:"holeDiameter"`
	HolePointX   *float64 `json:"holePointX"`
	HolePointY   *float64 `json:"holePointY"`
	HolePointZ   *float64 `json:"holePointZ"`
}

// FeatureDisplayInfo holds the displayed geometry of a threaded feature.
type FeatureDisplayInfo struct {
	Depth   *float64 `json:"depth"`
	Through *bool    `json:"through"`
	AxisX   *float64 `json:"axisX"`
	AxisY   *float64 `json:"axisY"`
	AxisZ   *float64 `json:"axisZ"`
	TopX    *float64 `json:"topX"`
	TopY    *float64 `json:"topY"`
	TopZ    *float64 `json:"topZ"`
}

// ThreadOption is one candidate thread specification for a feature.
type ThreadOption struct {
	ThreadID    *string            `json:"threadId"`
	DisplayInfo *ThreadDisplayInfo `json:"displayInfo"`
}

// ThreadDisplayInfo holds the displayed geometry of a thread option.
type ThreadDisplayInfo struct {
	MajorDiameter     *float64 `json:"majorDiameter"`
	MinorDiameter     *float64 `json:"minorDiameter"`
	ThreadDepth       *float64 `json:"threadDepth"`
	TaperAngleRadians *float64 `json:"taperAngleRadians"`
	TopDisplayOffset  *float64 `json:"topDisplayOffset"`
	TopOffset         *float64 `json:"topOffset"`
}

// AdvisoryInfo is a diagnostic record attached to the analysis, optionally
// scoped to a toolset through its discriminators.
//
// Properties distinguishes "key absent" (nil) from "key present with JSON
// null" (RawMessage holding the null token); both are stored as a jsonb null.
type AdvisoryInfo struct {
	Discriminators []Discriminator   `json:"discriminators"`
	Scene          *string           `json:"scene"`
	Type           *string           `json:"type"`
	Metadata       *AdvisoryMetadata `json:"metadata"`
	ViewerFiles    []json.RawMessage `json:"viewerFiles"`
	Properties     json.RawMessage   `json:"properties"`
}

// Discriminator is a name/value tag classifying an advisory record.
type Discriminator struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

// AdvisoryMetadata names the application that produced an advisory.
type AdvisoryMetadata struct {
	Application *string `json:"application"`
}
