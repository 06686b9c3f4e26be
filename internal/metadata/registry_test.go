package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
)

func TestBuiltinRegistryIDsAreWellFormed(t *testing.T) {
	r := NewBuiltinRegistry()
	for _, m := range r.List() {
		_, err := core.ParseDatasetID(m.ID)
		assert.NoError(t, err, m.ID)
	}
}

func TestBuiltinRegistryKnowsProviderDatasets(t *testing.T) {
	r := NewBuiltinRegistry()
	for _, id := range []string{
		"acs_population-by_race_state_std",
		"acs_population-by_sex_county",
		"acs_2010_population-by_age_territory",
		"merged_population_data-by_race_state",
		"cdc_restricted_data-by_race_county",
		"cdc_restricted_data-by_age_state-time_series",
		"cdc_restricted_data-by_race_age_state",
		"brfss",
		"cdc_vaccination_national-sex",
		"kff_vaccination-race_and_ethnicity",
	} {
		assert.True(t, r.Has(id), id)
	}

	m, ok := r.Get("cdc_restricted_data-by_sex_state-time_series")
	if assert.True(t, ok) {
		assert.True(t, m.TimeSeries)
		assert.Equal(t, "sex", m.Demographic)
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&dataset.Metadata{ID: "x-y", Name: "first"})
	r.Register(&dataset.Metadata{ID: "x-y", Name: "second"})
	assert.Len(t, r.List(), 1)
	m, _ := r.Get("x-y")
	assert.Equal(t, "second", m.Name)
}
