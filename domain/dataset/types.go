package dataset

import (
	"time"
)

// Metadata describes a dataset known to the metadata registry
type Metadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SourceID    string    `json:"source_id"`
	Geographies []string  `json:"geographies"`
	Demographic string    `json:"demographic,omitempty"`
	UpdateTime  time.Time `json:"update_time"`
	TimeSeries  bool      `json:"time_series,omitempty"`
}

// Dataset is a loaded, read-only table of rows
type Dataset struct {
	ID       string
	Metadata *Metadata
	LoadedAt time.Time

	rows []Row
}

// NewDataset wraps rows loaded for id. The rows are owned by the dataset
// afterwards and only handed out as copies.
func NewDataset(id string, rows []Row, meta *Metadata) *Dataset {
	return &Dataset{
		ID:       id,
		Metadata: meta,
		LoadedAt: time.Now(),
		rows:     rows,
	}
}

// Rows returns an independent copy of the dataset rows
func (d *Dataset) Rows() []Row {
	return CopyRows(d.rows)
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Columns returns the union of column names across rows, in first-seen order
func (d *Dataset) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range d.rows {
		for _, c := range r.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}
