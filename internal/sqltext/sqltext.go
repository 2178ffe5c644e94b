// Package sqltext builds the SQL statement text the loader executes. The
// JSON literal escaping lives here, isolated from everything else, so that
// no unescaped document-controlled text can reach statement text through any
// other path.
package sqltext

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPayload indicates a staged semi-structured payload cannot be
// embedded safely. Detected at statement-build time, before submission.
var ErrInvalidPayload = errors.New("invalid semi-structured payload")

// JSONLiteral returns the given serialized JSON as a quoted jsonb literal
// suitable for direct embedding into statement text. The input must be a
// complete, valid JSON value; single quotes are doubled so the literal cannot
// terminate early or open an injection point.
func JSONLiteral(payload string) (string, error) {
	if payload == "" {
		return "", fmt.Errorf("empty payload: %w", ErrInvalidPayload)
	}
	if strings.ContainsRune(payload, 0) {
		return "", fmt.Errorf("payload contains a NUL byte: %w", ErrInvalidPayload)
	}
	if !json.Valid([]byte(payload)) {
		return "", fmt.Errorf("payload is not valid JSON: %w", ErrInvalidPayload)
	}
	return "'" + strings.ReplaceAll(payload, "'", "''") + "'::jsonb", nil
}

// MultiRowInsert builds a single INSERT statement with one VALUES tuple per
// row, using numbered placeholders. One statement means one round trip for
// the whole table regardless of row count.
func MultiRowInsert(table string, columns []string, rowCount int) (string, error) {
	if table == "" || len(columns) == 0 {
		return "", fmt.Errorf("table and columns are required")
	}
	if rowCount <= 0 {
		return "", fmt.Errorf("rowCount must be positive, got %d", rowCount)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	arg := 1
	for r := 0; r < rowCount; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range columns {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", arg)
			arg++
		}
		b.WriteByte(')')
	}
	return b.String(), nil
}
