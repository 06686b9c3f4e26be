package sources

import (
	"strconv"
	"strings"

	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
)

// identifier columns stay text even when they look numeric: "01" is a FIPS
// code, not the number one
func isIdentifierColumn(col string) bool {
	return strings.HasSuffix(col, "fips") || col == demographic.TimePeriodCol
}

// cellFromText converts a raw text cell. Empty cells are suppressed.
func cellFromText(col, raw string) dataset.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return dataset.Suppressed()
	}
	if isIdentifierColumn(col) {
		return dataset.Str(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return dataset.Num(f)
	}
	return dataset.Str(s)
}

// rowsFromTable turns a header row plus data rows into dataset rows. Short
// rows are padded with suppressed cells.
func rowsFromTable(table [][]string) []dataset.Row {
	if len(table) == 0 {
		return []dataset.Row{}
	}
	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		headers[i] = strings.TrimSpace(h)
	}
	rows := make([]dataset.Row, 0, len(table)-1)
	for _, record := range table[1:] {
		row := make(dataset.Row, len(headers))
		for j, h := range headers {
			if h == "" {
				continue
			}
			if j < len(record) {
				row[h] = cellFromText(h, record[j])
			} else {
				row[h] = dataset.Suppressed()
			}
		}
		rows = append(rows, row)
	}
	return rows
}
