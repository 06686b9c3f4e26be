package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
	"hetracker/ports"
)

// Supported dataset file extensions, in lookup order
var fileExtensions = []string{".json", ".csv", ".xlsx"}

// FileSource reads datasets from a directory. A dataset is stored as
// <id>.json (an array of records), <id>.csv or <id>.xlsx (header row first).
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Fetch reads the file for id
func (s *FileSource) Fetch(ctx context.Context, id string) ([]dataset.Row, error) {
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidDatasetID, id)
	}
	for _, ext := range fileExtensions {
		path := filepath.Join(s.dir, id+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		rows, err := readFile(path, ext)
		if err != nil {
			return nil, err
		}
		log.Printf("[FileSource] %s read in %.2fms (%d rows)", filepath.Base(path), float64(time.Since(start).Nanoseconds())/1e6, len(rows))
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrDatasetNotFound, id)
}

// List returns the dataset IDs found in the directory
func (s *FileSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	seen := make(map[string]bool)
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, supported := range fileExtensions {
			if ext == supported {
				id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func readFile(path, ext string) ([]dataset.Row, error) {
	switch ext {
	case ".json":
		return readJSON(path)
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readExcel(path)
	}
	return nil, fmt.Errorf("unsupported file type: %s", ext)
}

// readJSON keeps the distinction between a null cell (suppressed) and an
// absent key (not applicable)
func readJSON(path string) ([]dataset.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON in %s", filepath.Base(path))
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%s must hold an array of records", filepath.Base(path))
	}

	var rows []dataset.Row
	var decodeErr error
	doc.ForEach(func(_, record gjson.Result) bool {
		if !record.IsObject() {
			decodeErr = fmt.Errorf("%s: record %d is not an object", filepath.Base(path), len(rows))
			return false
		}
		row := make(dataset.Row)
		record.ForEach(func(key, value gjson.Result) bool {
			row[key.String()] = cellFromJSON(key.String(), value)
			return true
		})
		rows = append(rows, row)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if rows == nil {
		rows = []dataset.Row{}
	}
	return rows, nil
}

func cellFromJSON(col string, v gjson.Result) dataset.Value {
	switch v.Type {
	case gjson.Null:
		return dataset.Suppressed()
	case gjson.Number:
		if isIdentifierColumn(col) {
			return dataset.Str(v.Raw)
		}
		return dataset.Num(v.Num)
	case gjson.String:
		if isIdentifierColumn(col) {
			return dataset.Str(v.Str)
		}
		return cellFromText(col, v.Str)
	case gjson.True:
		return dataset.Num(1)
	case gjson.False:
		return dataset.Num(0)
	}
	return dataset.Str(v.Raw)
}

func readCSV(path string) ([]dataset.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rowsFromTable(table), nil
}

// readExcel reads the first sheet of a workbook
func readExcel(path string) ([]dataset.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%s has no sheets", filepath.Base(path))
	}
	table, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rowsFromTable(table), nil
}

var _ ports.DatasetSource = (*FileSource)(nil)
