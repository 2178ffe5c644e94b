package load

import "github.com/tlind-29/dfmload/pkg/dfmload"

// Report tracks attempted versus inserted row counts per table across one or
// more Load calls.
type Report struct {
	Attempted map[string]int64
	Inserted  map[string]int64
}

// NewReport creates an empty report covering every target table.
func NewReport() *Report {
	r := &Report{
		Attempted: make(map[string]int64, len(dfmload.TableLoadOrder)),
		Inserted:  make(map[string]int64, len(dfmload.TableLoadOrder)),
	}
	for _, table := range dfmload.TableLoadOrder {
		r.Attempted[table] = 0
		r.Inserted[table] = 0
	}
	return r
}

func (r *Report) add(table string, attempted, inserted int64) {
	r.Attempted[table] += attempted
	r.Inserted[table] += inserted
}

// Merge folds another report into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	for table, n := range other.Attempted {
		r.Attempted[table] += n
	}
	for table, n := range other.Inserted {
		r.Inserted[table] += n
	}
}

// TotalInserted returns the number of rows inserted across all tables.
func (r *Report) TotalInserted() int64 {
	var total int64
	for _, n := range r.Inserted {
		total += n
	}
	return total
}
