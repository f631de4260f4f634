package core

import "sort"

// Row is a single record of a tabular dataset, keyed by column name.
type Row = map[string]any

// Dataset is the tabular payload handed between pipeline stages. It is a
// plain row-oriented container; the orchestrator never interprets cell
// values, it only moves datasets between the cache and agent invocations.
type Dataset struct {
	Rows []Row
}

// NewDataset wraps the given rows. The slice is used as-is, not copied.
func NewDataset(rows []Row) *Dataset { return &Dataset{Rows: rows} }

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Empty reports whether the dataset is nil or has no rows.
func (d *Dataset) Empty() bool { return d.Len() == 0 }

// Columns returns the column names observed on the first row, sorted for
// deterministic output. Sparse rows are the caller's problem.
func (d *Dataset) Columns() []string {
	if d.Empty() {
		return nil
	}
	cols := make([]string, 0, len(d.Rows[0]))
	for k := range d.Rows[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Shape returns [rows, columns], mirroring the conventional tabular shape.
func (d *Dataset) Shape() []int {
	return []int{d.Len(), len(d.Columns())}
}

// AsDataset coerces the loosely typed shapes agents and callers hand over
// (inline task parameters, cached values) into a *Dataset. The second return
// is false when v is not a recognized tabular shape.
func AsDataset(v any) (*Dataset, bool) {
	switch t := v.(type) {
	case *Dataset:
		return t, t != nil
	case Dataset:
		return &t, true
	case []Row:
		return NewDataset(t), true
	case []any:
		rows := make([]Row, 0, len(t))
		for _, e := range t {
			r, ok := e.(map[string]any)
			if !ok {
				return nil, false
			}
			rows = append(rows, r)
		}
		return NewDataset(rows), true
	default:
		return nil, false
	}
}
