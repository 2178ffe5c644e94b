package sqltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLiteral(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"empty object", `{}`, `'{}'::jsonb`},
		{"empty list", `[]`, `'[]'::jsonb`},
		{"null token", `null`, `'null'::jsonb`},
		{"plain object", `{"a": 1}`, `'{"a": 1}'::jsonb`},
		{
			"single quote doubled",
			`{"name": "O'Brien"}`,
			`'{"name": "O''Brien"}'::jsonb`,
		},
		{
			"several quotes",
			`["it's", "they're"]`,
			`'["it''s", "they''re"]'::jsonb`,
		},
		{
			"backslash passes through untouched",
			`{"path": "C:\\parts"}`,
			`'{"path": "C:\\parts"}'::jsonb`,
		},
		{
			"escaped quote inside a string",
			`{"note": "said \"ok\""}`,
			`'{"note": "said \"ok\""}'::jsonb`,
		},
		{
			"unicode survives",
			`{"material": "ostrze ø6.5", "note": "良品"}`,
			`'{"material": "ostrze ø6.5", "note": "良品"}'::jsonb`,
		},
		{
			"control characters as JSON escapes",
			`{"note": "line1\nline2\ttabbed"}`,
			`'{"note": "line1\nline2\ttabbed"}'::jsonb`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSONLiteral(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONLiteral_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty string", ""},
		{"embedded NUL", "{\"a\": \"b\x00c\"}"},
		{"truncated object", `{"a": 1`},
		{"bare word", `not-json`},
		{"trailing garbage", `{} extra`},
		{"lone quote", `'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JSONLiteral(tt.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestJSONLiteral_NeverLeavesBareQuote(t *testing.T) {
	payloads := []string{
		`{"a": "'"}`,
		`["'", "''", "'''"]`,
		`{"q": "end with '"}`,
	}
	for _, payload := range payloads {
		got, err := JSONLiteral(payload)
		require.NoError(t, err)

		// strip the wrapping quotes and the cast, then every remaining
		// quote must come in pairs
		inner := strings.TrimSuffix(strings.TrimPrefix(got, "'"), "'::jsonb")
		trimmed := strings.ReplaceAll(inner, "''", "")
		assert.NotContains(t, trimmed, "'", "payload %q produced %q", payload, got)
	}
}

func TestMultiRowInsert(t *testing.T) {
	t.Run("single row", func(t *testing.T) {
		got, err := MultiRowInsert("analysis", []string{"analysis_id", "model_id"}, 1)
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO analysis (analysis_id, model_id) VALUES ($1, $2)", got)
	})

	t.Run("numbering continues across rows", func(t *testing.T) {
		got, err := MultiRowInsert("materials", []string{"a", "b", "c"}, 3)
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO materials (a, b, c) VALUES ($1, $2, $3), ($4, $5, $6), ($7, $8, $9)", got)
	})

	t.Run("is one statement", func(t *testing.T) {
		got, err := MultiRowInsert("t", []string{"x"}, 50)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(got, "INSERT INTO"))
		assert.Contains(t, got, "$50")
		assert.NotContains(t, got, "$51")
	})
}

func TestMultiRowInsert_Rejections(t *testing.T) {
	_, err := MultiRowInsert("", []string{"a"}, 1)
	assert.Error(t, err)

	_, err = MultiRowInsert("t", nil, 1)
	assert.Error(t, err)

	_, err = MultiRowInsert("t", []string{"a"}, 0)
	assert.Error(t, err)

	_, err = MultiRowInsert("t", []string{"a"}, -2)
	assert.Error(t, err)
}
