// Package normalize flattens one parsed analysis document into the ordered
// row sequences of the relational schema. Flattening is deterministic, has no
// side effects, and is the sole writer of key fields: every child row carries
// the exact key values of its ancestors.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/tlind-29/dfmload/pkg/dfmload"
)

// toolsetDiscriminator is the discriminator name that scopes an advisory
// record to a toolset.
const toolsetDiscriminator = "TOOLSET"

// Flatten converts one document into its row set. The only rejection is a
// missing sourceDetails.modelId, which fails with an ErrValidation-wrapped
// error; every other absent field degrades to null or an empty sequence.
func Flatten(doc *dfmload.Document) (*dfmload.RowSet, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil: %w", dfmload.ErrValidation)
	}

	analysisID, err := analysisID(doc)
	if err != nil {
		return nil, err
	}

	rs := &dfmload.RowSet{}
	rs.Analyses = append(rs.Analyses, analysisRow(analysisID, doc.PartMetrics))
	rs.Applications = applicationRows(analysisID, doc.Applications)

	for _, ts := range doc.Toolsets {
		flattenToolset(rs, analysisID, ts)
	}

	rs.AdvisoryInfos = advisoryRows(analysisID, doc.AdvisoryInfos)

	if len(doc.AvailabilityCheckFailureDetails) > 0 {
		rs.AvailabilityFailures = append(rs.AvailabilityFailures, dfmload.AvailabilityFailureRow{
			AnalysisID:         analysisID,
			FailureDetailsJSON: marshalList(doc.AvailabilityCheckFailureDetails),
		})
	}

	return rs, nil
}

func analysisID(doc *dfmload.Document) (string, error) {
	if doc.SourceDetails == nil || doc.SourceDetails.ModelID == nil || *doc.SourceDetails.ModelID == "" {
		return "", fmt.Errorf("document has no sourceDetails.modelId: %w", dfmload.ErrValidation)
	}
	return *doc.SourceDetails.ModelID, nil
}

func analysisRow(analysisID string, pm *dfmload.PartMetrics) dfmload.AnalysisRow {
	row := dfmload.AnalysisRow{
		AnalysisID: analysisID,
		ModelID:    analysisID,
	}
	if pm != nil {
		row.SurfaceArea = number(pm.SurfaceArea)
		row.XExtent = number(pm.XExtent)
		row.YExtent = number(pm.YExtent)
		row.ZExtent = number(pm.ZExtent)
		row.Volume = number(pm.Volume)
	}
	return row
}

func applicationRows(analysisID string, apps []dfmload.Application) []dfmload.ApplicationRow {
	rows := make([]dfmload.ApplicationRow, 0, len(apps))
	for i, app := range apps {
		rows = append(rows, dfmload.ApplicationRow{
			AnalysisID: analysisID,
			Ordinal:    i,
			Name:       app.Name,
			Version:    app.Version,
		})
	}
	return rows
}

func flattenToolset(rs *dfmload.RowSet, analysisID string, ts dfmload.Toolset) {
	viewerFiles := "[]"
	var scene *string
	if ts.ThreadedFeatures != nil && ts.ThreadedFeatures.DisplayInfo != nil {
		viewerFiles = marshalList(ts.ThreadedFeatures.DisplayInfo.ViewerFiles)
		scene = ts.ThreadedFeatures.DisplayInfo.Scene
	}

	// The toolset row is emitted unconditionally, even when the document
	// lacks threaded-feature display info.
	rs.Toolsets = append(rs.Toolsets, dfmload.ToolsetRow{
		AnalysisID:              analysisID,
		ToolsetID:               ts.ToolsetID,
		Is5Axis:                 ts.Is5Axis,
		IsMinimalMilling:        ts.IsMinimalMilling,
		MachiningMinutesPart:    number(ts.MachiningMinutesPart),
		MachiningMinutesBushing: number(ts.MachiningMinutesBushing),
		LeftoverMaterialVolume:  number(ts.LeftoverMaterialVolume),
		ViewerFilesJSON:         viewerFiles,
		Scene:                   scene,
	})

	for _, mat := range ts.Materials {
		rs.Materials = append(rs.Materials, dfmload.MaterialRow{
			AnalysisID: analysisID,
			ToolsetID:  ts.ToolsetID,
			MaterialID: mat.MaterialID,
			Available:  mat.Available,
		})
		for _, bf := range mat.EstimatedBlockFits {
			rs.BlockFits = append(rs.BlockFits, dfmload.BlockFitRow{
				AnalysisID: analysisID,
				ToolsetID:  ts.ToolsetID,
				MaterialID: mat.MaterialID,
				BlockID:    bf.BlockID,
				MaxParts:   bf.MaxParts,
				IsSafe:     bf.IsSafe,
			})
		}
	}

	if ts.ThreadedFeatures == nil {
		return
	}
	for _, feat := range ts.ThreadedFeatures.Features {
		flattenFeature(rs, analysisID, ts.ToolsetID, feat)
	}
}

func flattenFeature(rs *dfmload.RowSet, analysisID string, toolsetID *string, feat dfmload.ThreadedFeature) {
	row := dfmload.ThreadedFeatureRow{
		AnalysisID:  analysisID,
		ToolsetID:   toolsetID,
		FeatureID:   feat.FeatureID,
		FeatureType: feat.FeatureType,
	}
	if loc := feat.IdentifiableLocation; loc != nil {
		row.HoleDiameter = number(loc.HoleDiameter)
		row.HolePointX = number(loc.HolePointX)
		row.HolePointY = number(loc.HolePointY)
		row.HolePointZ = number(loc.HolePointZ)
	}
	if di := feat.DisplayInfo; di != nil {
		row.Depth = number(di.Depth)
		row.IsThrough = di.Through
		row.AxisX = number(di.AxisX)
		row.AxisY = number(di.AxisY)
		row.AxisZ = number(di.AxisZ)
		row.TopX = number(di.TopX)
		row.TopY = number(di.TopY)
		row.TopZ = number(di.TopZ)
	}
	rs.ThreadedFeatures = append(rs.ThreadedFeatures, row)

	for _, opt := range feat.ThreadOptions {
		optRow := dfmload.ThreadOptionRow{
			AnalysisID: analysisID,
			ToolsetID:  toolsetID,
			FeatureID:  feat.FeatureID,
			ThreadID:   opt.ThreadID,
		}
		if di := opt.DisplayInfo; di != nil {
			optRow.MajorDiameter = number(di.MajorDiameter)
			optRow.MinorDiameter = number(di.MinorDiameter)
			optRow.ThreadDepth = number(di.ThreadDepth)
			optRow.TaperAngleRadians = number(di.TaperAngleRadians)
			optRow.TopDisplayOffset = number(di.TopDisplayOffset)
			optRow.TopOffset = number(di.TopOffset)
		}
		rs.ThreadOptions = append(rs.ThreadOptions, optRow)
	}
}

func advisoryRows(analysisID string, advisories []dfmload.AdvisoryInfo) []dfmload.AdvisoryInfoRow {
	rows := make([]dfmload.AdvisoryInfoRow, 0, len(advisories))
	for i, adv := range advisories {
		row := dfmload.AdvisoryInfoRow{
			AnalysisID:      analysisID,
			Ordinal:         i,
			ToolsetValue:    toolsetValue(adv.Discriminators),
			Scene:           adv.Scene,
			Type:            adv.Type,
			ViewerFilesJSON: marshalList(adv.ViewerFiles),
		}
		if adv.Metadata != nil {
			row.Application = adv.Metadata.Application
		}
		if adv.Properties != nil {
			props := string(adv.Properties)
			row.PropertiesJSON = &props
		}
		rows = append(rows, row)
	}
	return rows
}

// toolsetValue scans the discriminators for the first entry named "TOOLSET"
// and returns its value. No match yields nil; later matches are ignored.
func toolsetValue(discriminators []dfmload.Discriminator) *string {
	for _, d := range discriminators {
		if d.Name != nil && *d.Name == toolsetDiscriminator {
			return d.Value
		}
	}
	return nil
}

// number canonicalizes a numeric extraction: NaN and infinities become nil at
// the point of extraction, so no not-a-number value can ever reach the store.
func number(p *float64) *float64 {
	if p == nil {
		return nil
	}
	if math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	return p
}

// marshalList serializes a raw-message list for staging into a jsonb column.
// A nil or empty list serializes to the empty-list literal. The elements
// originate from a successful parse, so re-marshalling cannot fail; a corrupt
// element degrades to the empty list rather than panicking.
func marshalList(items []json.RawMessage) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}
