// Package testkit wires an in-memory dataset source behind the real dataset
// cache and builds raw and expected rows for provider tests.
package testkit

import (
	"hetracker/adapters/fetcher"
	"hetracker/adapters/sources"
	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/internal/metadata"
)

// Kit holds the fake data behind a real fetcher
type Kit struct {
	Source   *sources.MemorySource
	Registry *metadata.Registry
	Fetcher  *fetcher.Cache
}

// NewKit returns an empty kit using the built-in dataset registry
func NewKit() *Kit {
	src := sources.NewMemorySource()
	reg := metadata.NewBuiltinRegistry()
	return &Kit{
		Source:   src,
		Registry: reg,
		Fetcher:  fetcher.NewCache(src, reg),
	}
}

// Load stores rows under id and drops anything the fetcher cached
func (k *Kit) Load(id string, rows ...dataset.Row) {
	k.Source.SetDataset(id, rows)
	k.Fetcher.ResetCacheDebug()
}

// Reset empties the source and the cache
func (k *Kit) Reset() {
	k.Source.Reset()
	k.Fetcher.ResetCacheDebug()
}

// FipsSpec is a geography used in fixtures
type FipsSpec struct {
	Code string
	Name string
}

var (
	USA = FipsSpec{Code: "00", Name: "United States"}
	NC  = FipsSpec{Code: "37", Name: "North Carolina"}
	AL  = FipsSpec{Code: "01", Name: "Alabama"}
	DC  = FipsSpec{Code: "11", Name: "District of Columbia"}
	VI  = FipsSpec{Code: "78", Name: "U.S. Virgin Islands"}

	DurhamCounty = FipsSpec{Code: "37063", Name: "Durham County"}
	DCCounty     = FipsSpec{Code: "11001", Name: "District of Columbia"}
)

// Cells builds a row from column/value pairs. Numbers become numeric cells,
// strings text cells and nil a suppressed cell.
func Cells(pairs ...interface{}) dataset.Row {
	r := make(dataset.Row, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		col := pairs[i].(string)
		r[col] = dataset.FromInterface(pairs[i+1])
	}
	return r
}

// StateRow is a raw state-level row as the datasets store it
func StateRow(f FipsSpec, groupCol, group string, cells dataset.Row) dataset.Row {
	r := cells.Copy()
	r[demographic.StateFipsCol] = dataset.Str(f.Code)
	r[demographic.StateNameCol] = dataset.Str(f.Name)
	r[groupCol] = dataset.Str(group)
	return r
}

// CountyRow is a raw county-level row
func CountyRow(f FipsSpec, groupCol, group string, cells dataset.Row) dataset.Row {
	r := cells.Copy()
	r[demographic.CountyFipsCol] = dataset.Str(f.Code)
	r[demographic.CountyNameCol] = dataset.Str(f.Name)
	r[demographic.StateFipsCol] = dataset.Str(f.Code[:2])
	r[groupCol] = dataset.Str(group)
	return r
}

// FinalRow is a row as providers return it
func FinalRow(f FipsSpec, groupCol, group string, cells dataset.Row) dataset.Row {
	r := cells.Copy()
	r[demographic.FipsCol] = dataset.Str(f.Code)
	r[demographic.FipsNameCol] = dataset.Str(f.Name)
	r[groupCol] = dataset.Str(group)
	return r
}

// AcsRow is a raw ACS population row
func AcsRow(f FipsSpec, groupCol, group string, population float64) dataset.Row {
	return StateRow(f, groupCol, group, Cells(demographic.PopulationCol, population))
}
