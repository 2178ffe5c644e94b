package dfmload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := RunConfig{DataDir: "/data", Files: []string{"a.json"}, Timeout: time.Minute}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing data dir", func(t *testing.T) {
		cfg := RunConfig{}
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "DataDir")
	})

	t.Run("negative timeout", func(t *testing.T) {
		cfg := RunConfig{DataDir: "/data", Timeout: -time.Second}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("empty file name", func(t *testing.T) {
		cfg := RunConfig{DataDir: "/data", Files: []string{"a.json", ""}}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty name")
	})

	t.Run("multiple failures joined", func(t *testing.T) {
		cfg := RunConfig{Timeout: -time.Second}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DataDir")
		assert.Contains(t, err.Error(), "timeout")
	})
}

func TestConnectionConfig_Validate(t *testing.T) {
	valid := ConnectionConfig{Host: "localhost", Port: 5432, Database: "dfm"}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := valid
		cfg.Host = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("missing database", func(t *testing.T) {
		cfg := valid
		cfg.Database = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("port out of range", func(t *testing.T) {
		for _, port := range []int{0, -1, 70000} {
			cfg := valid
			cfg.Port = port
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, "port %d", port)
		}
	})
}

func TestRowSet_Counts(t *testing.T) {
	rs := &RowSet{
		Analyses:     []AnalysisRow{{AnalysisID: "M1"}},
		Applications: []ApplicationRow{{}, {}},
	}
	counts := rs.Counts()

	assert.Equal(t, int64(1), counts[TableAnalysis])
	assert.Equal(t, int64(2), counts[TableApplications])
	assert.Equal(t, int64(0), counts[TableToolsets])
	assert.Len(t, counts, len(TableLoadOrder))
}
