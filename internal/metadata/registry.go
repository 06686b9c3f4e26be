// Package metadata is the registry of dataset IDs the providers read.
// Providers resolve dataset IDs on their own; the registry lets the fetcher
// and the API check those IDs and describe them.
package metadata

import (
	"sort"
	"sync"
	"time"

	"hetracker/domain/dataset"
)

// Registry maps dataset IDs to their metadata
type Registry struct {
	mu       sync.RWMutex
	datasets map[string]*dataset.Metadata
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{datasets: make(map[string]*dataset.Metadata)}
}

// NewBuiltinRegistry returns a registry holding every dataset the built-in
// providers can request
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, m := range builtinDatasets() {
		r.Register(m)
	}
	return r
}

// Register adds or replaces m
func (r *Registry) Register(m *dataset.Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.datasets[m.ID] = m
}

// Get returns the metadata for id
func (r *Registry) Get(id string) (*dataset.Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.datasets[id]
	return m, ok
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// List returns all metadata sorted by ID
func (r *Registry) List() []*dataset.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*dataset.Metadata, 0, len(r.datasets))
	for _, m := range r.datasets {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Dataset sources
const (
	SourceACS       = "acs_population"
	SourceACS2010   = "acs_2010_population"
	SourceMerged    = "merged_population_data"
	SourceCDC       = "cdc_restricted_data"
	SourceBRFSS     = "brfss"
	SourceCDCVax    = "cdc_vaccination_national"
	SourceKFFVax    = "kff_vaccination"
)

// TimeSeriesSuffix marks the longitudinal variant of a dataset
const TimeSeriesSuffix = "-time_series"

var updated = time.Date(2021, time.September, 1, 0, 0, 0, 0, time.UTC)

func meta(id, name, source, demographic string, geographies ...string) *dataset.Metadata {
	return &dataset.Metadata{
		ID:          id,
		Name:        name,
		SourceID:    source,
		Geographies: geographies,
		Demographic: demographic,
		UpdateTime:  updated,
	}
}

func builtinDatasets() []*dataset.Metadata {
	var out []*dataset.Metadata

	for _, geo := range []string{"state", "county"} {
		out = append(out,
			meta(SourceACS+"-by_race_"+geo+"_std", "ACS population by race and ethnicity", SourceACS, "race_and_ethnicity", geo),
			meta(SourceACS+"-by_age_"+geo, "ACS population by age", SourceACS, "age", geo),
			meta(SourceACS+"-by_sex_"+geo, "ACS population by sex", SourceACS, "sex", geo),
		)
	}

	for _, dim := range []string{"race_and_ethnicity", "age", "sex"} {
		out = append(out, meta(SourceACS2010+"-by_"+dim+"_territory", "ACS 2010 territory population by "+dim, SourceACS2010, dim, "state"))
	}

	for _, dim := range []string{"race", "age", "sex"} {
		out = append(out, meta(SourceMerged+"-by_"+dim+"_state", "Merged population by "+dim, SourceMerged, columnFor(dim), "state"))

		for _, geo := range []string{"state", "county"} {
			id := SourceCDC + "-by_" + dim + "_" + geo
			name := "COVID-19 case surveillance by " + dim
			out = append(out, meta(id, name, SourceCDC, columnFor(dim), geo))

			series := meta(id+TimeSeriesSuffix, name+" over time", SourceCDC, columnFor(dim), geo)
			series.TimeSeries = true
			out = append(out, series)
		}
	}
	out = append(out, meta(SourceCDC+"-by_race_age_state", "COVID-19 case surveillance by race and age", SourceCDC, "race_and_ethnicity", "state"))

	out = append(out, meta(SourceBRFSS, "Behavioral Risk Factor Surveillance System", SourceBRFSS, "race_and_ethnicity", "state", "national"))

	for _, dim := range []string{"race_and_ethnicity", "age", "sex"} {
		out = append(out, meta(SourceCDCVax+"-"+dim, "CDC national vaccinations by "+dim, SourceCDCVax, dim, "national"))
	}
	out = append(out, meta(SourceKFFVax+"-race_and_ethnicity", "KFF state vaccinations by race and ethnicity", SourceKFFVax, "race_and_ethnicity", "state"))

	return out
}

func columnFor(dim string) string {
	if dim == "race" {
		return "race_and_ethnicity"
	}
	return dim
}
