package load

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

type nopLogger struct{}

func (nopLogger) Verbose(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})    {}
func (nopLogger) Error(string, ...interface{})   {}

type batchCall struct {
	table   string
	columns []string
	rows    [][]interface{}
}

type oneCall struct {
	sql  string
	args []interface{}
}

// recordingSession captures every statement the loader submits. failOn, when
// set, makes the statement touching that table fail.
type recordingSession struct {
	batches []batchCall
	ones    []oneCall
	order   []string
	failOn  string
}

func (s *recordingSession) ExecuteBatch(_ context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	s.batches = append(s.batches, batchCall{table: table, columns: columns, rows: rows})
	s.order = append(s.order, table)
	if s.failOn == table {
		return 0, fmt.Errorf("boom")
	}
	return int64(len(rows)), nil
}

func (s *recordingSession) ExecuteOne(_ context.Context, sql string, args ...interface{}) (int64, error) {
	s.ones = append(s.ones, oneCall{sql: sql, args: args})
	table := tableOf(sql)
	s.order = append(s.order, table)
	if s.failOn == table {
		return 0, fmt.Errorf("boom")
	}
	return 1, nil
}

func (s *recordingSession) Commit(context.Context) error   { return nil }
func (s *recordingSession) Rollback(context.Context) error { return nil }

func tableOf(sql string) string {
	var table string
	fmt.Sscanf(sql, "INSERT INTO %s", &table)
	return table
}

func strPtr(s string) *string { return &s }

func sampleRowSet() *dfmload.RowSet {
	props := `{"minThickness": 0.4}`
	return &dfmload.RowSet{
		Analyses: []dfmload.AnalysisRow{{AnalysisID: "M1", ModelID: "M1"}},
		Applications: []dfmload.ApplicationRow{
			{AnalysisID: "M1", Ordinal: 0, Name: strPtr("mesher")},
			{AnalysisID: "M1", Ordinal: 1, Name: strPtr("analyzer")},
		},
		Toolsets: []dfmload.ToolsetRow{
			{AnalysisID: "M1", ToolsetID: strPtr("T1"), ViewerFilesJSON: `["a.glb"]`, Scene: strPtr("sc")},
		},
		Materials: []dfmload.MaterialRow{
			{AnalysisID: "M1", ToolsetID: strPtr("T1"), MaterialID: strPtr("MAT1")},
		},
		BlockFits: []dfmload.BlockFitRow{
			{AnalysisID: "M1", ToolsetID: strPtr("T1"), MaterialID: strPtr("MAT1"), BlockID: strPtr("B1")},
		},
		ThreadedFeatures: []dfmload.ThreadedFeatureRow{
			{AnalysisID: "M1", ToolsetID: strPtr("T1"), FeatureID: strPtr("F1")},
		},
		ThreadOptions: []dfmload.ThreadOptionRow{
			{AnalysisID: "M1", ToolsetID: strPtr("T1"), FeatureID: strPtr("F1"), ThreadID: strPtr("TH1")},
		},
		AdvisoryInfos: []dfmload.AdvisoryInfoRow{
			{AnalysisID: "M1", Ordinal: 0, ViewerFilesJSON: "[]", PropertiesJSON: &props},
		},
		AvailabilityFailures: []dfmload.AvailabilityFailureRow{
			{AnalysisID: "M1", FailureDetailsJSON: `[{"reason": "x"}]`},
		},
		RawDocuments: []dfmload.RawDocumentRow{
			{AnalysisID: "M1", Filename: "m1.json", DocumentJSON: `{"sourceDetails": {"modelId": "M1"}}`, RunID: uuid.New(), LoadedAt: time.Now()},
		},
	}
}

func TestLoader_TableOrder(t *testing.T) {
	session := &recordingSession{}
	report, err := NewLoader(nopLogger{}).Load(context.Background(), session, sampleRowSet())
	require.NoError(t, err)

	assert.Equal(t, dfmload.TableLoadOrder, session.order)
	for _, table := range dfmload.TableLoadOrder {
		assert.Equal(t, int64(1), report.Inserted[table], table)
	}
	assert.Equal(t, int64(2), report.Attempted[dfmload.TableApplications])
	assert.Equal(t, int64(2), report.Inserted[dfmload.TableApplications])
}

func TestLoader_ScalarTablesUseBatches(t *testing.T) {
	session := &recordingSession{}
	_, err := NewLoader(nopLogger{}).Load(context.Background(), session, sampleRowSet())
	require.NoError(t, err)

	batched := make([]string, 0, len(session.batches))
	for _, call := range session.batches {
		batched = append(batched, call.table)
	}
	assert.Equal(t, []string{
		dfmload.TableAnalysis,
		dfmload.TableApplications,
		dfmload.TableMaterials,
		dfmload.TableBlockFits,
		dfmload.TableThreadedFeatures,
		dfmload.TableThreadOptions,
	}, batched)

	// applications staged two rows, both inside one batch call
	assert.Len(t, session.batches[1].rows, 2)
	assert.Equal(t, []string{"analysis_id", "ordinal", "application_name", "application_version"}, session.batches[1].columns)
}

func TestLoader_PayloadTablesEmbedLiterals(t *testing.T) {
	session := &recordingSession{}
	_, err := NewLoader(nopLogger{}).Load(context.Background(), session, sampleRowSet())
	require.NoError(t, err)
	require.Len(t, session.ones, 4)

	toolsets := session.ones[0]
	assert.Contains(t, toolsets.sql, `'["a.glb"]'::jsonb`)
	// the payload never appears among the bound arguments
	for _, arg := range toolsets.args {
		if s, ok := arg.(*string); ok && s != nil {
			assert.NotEqual(t, `["a.glb"]`, *s)
		}
	}
	assert.Len(t, toolsets.args, 8)

	advisories := session.ones[1]
	assert.Contains(t, advisories.sql, `'[]'::jsonb`)
	assert.Contains(t, advisories.sql, `'{"minThickness": 0.4}'::jsonb`)

	failures := session.ones[2]
	assert.Contains(t, failures.sql, `'[{"reason": "x"}]'::jsonb`)
	assert.Equal(t, []interface{}{"M1"}, failures.args)

	raw := session.ones[3]
	assert.Contains(t, raw.sql, `'{"sourceDetails": {"modelId": "M1"}}'::jsonb`)
	assert.Len(t, raw.args, 4)
}

func TestLoader_PayloadCanonicalization(t *testing.T) {
	rs := &dfmload.RowSet{
		Toolsets: []dfmload.ToolsetRow{
			{AnalysisID: "M1", ViewerFilesJSON: ""},
		},
		AdvisoryInfos: []dfmload.AdvisoryInfoRow{
			{AnalysisID: "M1", Ordinal: 0, ViewerFilesJSON: "", PropertiesJSON: nil},
		},
	}

	session := &recordingSession{}
	_, err := NewLoader(nopLogger{}).Load(context.Background(), session, rs)
	require.NoError(t, err)
	require.Len(t, session.ones, 2)

	assert.Contains(t, session.ones[0].sql, `'[]'::jsonb`)
	assert.Contains(t, session.ones[1].sql, `'null'::jsonb`)
}

func TestLoader_EmptyTablesSubmitNothing(t *testing.T) {
	session := &recordingSession{}
	report, err := NewLoader(nopLogger{}).Load(context.Background(), session, &dfmload.RowSet{})
	require.NoError(t, err)

	assert.Empty(t, session.batches)
	assert.Empty(t, session.ones)
	assert.Equal(t, int64(0), report.TotalInserted())
}

func TestLoader_StopsOnFirstFailure(t *testing.T) {
	session := &recordingSession{failOn: dfmload.TableMaterials}
	report, err := NewLoader(nopLogger{}).Load(context.Background(), session, sampleRowSet())

	require.Error(t, err)
	assert.ErrorIs(t, err, dfmload.ErrPersistence)
	assert.Contains(t, err.Error(), "materials")

	// everything before materials made it, nothing after was attempted
	assert.Equal(t, []string{
		dfmload.TableAnalysis,
		dfmload.TableApplications,
		dfmload.TableToolsets,
		dfmload.TableMaterials,
	}, session.order)

	require.NotNil(t, report)
	assert.Equal(t, int64(1), report.Inserted[dfmload.TableAnalysis])
	assert.Equal(t, int64(1), report.Attempted[dfmload.TableMaterials])
	assert.Equal(t, int64(0), report.Inserted[dfmload.TableMaterials])
	assert.Equal(t, int64(0), report.Attempted[dfmload.TableBlockFits])
}

func TestLoader_RejectsCorruptPayloadBeforeSubmission(t *testing.T) {
	rs := &dfmload.RowSet{
		AvailabilityFailures: []dfmload.AvailabilityFailureRow{
			{AnalysisID: "M1", FailureDetailsJSON: `[truncated`},
		},
	}

	session := &recordingSession{}
	_, err := NewLoader(nopLogger{}).Load(context.Background(), session, rs)

	require.Error(t, err)
	assert.ErrorIs(t, err, dfmload.ErrPersistence)
	assert.Empty(t, session.ones, "corrupt payload must never reach the session")
}

func TestNewLoader_NilLogger(t *testing.T) {
	assert.Panics(t, func() { NewLoader(nil) })
}

func TestReport_MergeAndTotals(t *testing.T) {
	a := NewReport()
	a.add(dfmload.TableAnalysis, 2, 2)
	b := NewReport()
	b.add(dfmload.TableAnalysis, 1, 1)
	b.add(dfmload.TableToolsets, 3, 3)

	a.Merge(b)
	assert.Equal(t, int64(3), a.Attempted[dfmload.TableAnalysis])
	assert.Equal(t, int64(3), a.Inserted[dfmload.TableAnalysis])
	assert.Equal(t, int64(3), a.Inserted[dfmload.TableToolsets])
	assert.Equal(t, int64(6), a.TotalInserted())

	a.Merge(nil)
	assert.Equal(t, int64(6), a.TotalInserted())
}
