package dataset

import (
	"encoding/json"
	"sort"
)

// Row is one observation keyed by column name
type Row map[string]Value

// Get returns the cell for col; absent columns are not applicable
func (r Row) Get(col string) Value {
	return r[col]
}

// Text returns the string form of col, or "" when missing
func (r Row) Text(col string) string {
	return r[col].Text()
}

// Float returns the numeric form of col
func (r Row) Float(col string) (float64, bool) {
	return r[col].Float()
}

// Has reports whether col is present with any value other than not applicable
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && !v.IsNotApplicable()
}

// Copy returns an independent shallow copy; Values are immutable
func (r Row) Copy() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// With returns a copy of r with col set to v
func (r Row) With(col string, v Value) Row {
	out := r.Copy()
	out[col] = v
	return out
}

// Columns returns the sorted column names present in the row
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// MarshalJSON omits not-applicable cells and writes suppressed cells as null
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]Value, len(r))
	for k, v := range r {
		if v.IsNotApplicable() {
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a JSON object; null becomes suppressed
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Row(raw)
	return nil
}

// RowFromMap builds a Row from plain Go values, as fixtures and decoders produce them
func RowFromMap(m map[string]interface{}) Row {
	row := make(Row, len(m))
	for k, v := range m {
		row[k] = FromInterface(v)
	}
	return row
}

// CopyRows deep-copies a row slice
func CopyRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Copy()
	}
	return out
}
