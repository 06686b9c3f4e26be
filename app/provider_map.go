package app

import (
	"sort"

	"hetracker/adapters/providers"
	"hetracker/domain/core"
	"hetracker/domain/metric"
	"hetracker/internal"
	"hetracker/internal/config"
	"hetracker/ports"
)

// ProviderMap resolves metric IDs to the provider that owns them
type ProviderMap struct {
	providers []ports.VariableProvider
	byMetric  map[metric.ID]ports.VariableProvider
}

// NewProviderMap registers providers in order. A metric claimed by more than
// one provider stays with the first one.
func NewProviderMap(list ...ports.VariableProvider) *ProviderMap {
	m := &ProviderMap{byMetric: make(map[metric.ID]ports.VariableProvider)}
	for _, p := range list {
		m.providers = append(m.providers, p)
		for _, id := range p.ProvidesMetrics() {
			if owner, ok := m.byMetric[id]; ok {
				internal.DefaultLogger.Warn("[ProviderMap] metric %s already provided by %s, ignoring %s", id, owner.ProviderID(), p.ProviderID())
				continue
			}
			m.byMetric[id] = p
		}
	}
	return m
}

// NewDefaultProviderMap builds every provider over fetcher. The merged
// population provider is only reachable through the covid provider.
func NewDefaultProviderMap(fetcher ports.DatasetFetcher, cfg *config.Config) *ProviderMap {
	var excluded []string
	if cfg != nil {
		excluded = cfg.Pipeline.NationalExcludedStates
	}
	acs := providers.NewAcsPopulationProvider(fetcher)
	acs2010 := providers.NewAcs2010PopulationProvider(fetcher)
	merged := providers.NewMergedPopulationProvider(fetcher, excluded)

	return NewProviderMap(
		acs,
		acs2010,
		providers.NewCdcCovidProvider(fetcher, acs, merged, acs2010),
		providers.NewBrfssProvider(fetcher, acs),
		providers.NewVaccineProvider(fetcher, acs),
	)
}

// Provider returns the owner of id
func (m *ProviderMap) Provider(id metric.ID) (ports.VariableProvider, error) {
	p, ok := m.byMetric[id]
	if !ok {
		return nil, core.NewNoProviderError(string(id))
	}
	return p, nil
}

// GetUniqueProviders returns the owners of ids without repeats, in the
// order each owner is first needed
func (m *ProviderMap) GetUniqueProviders(ids []metric.ID) ([]ports.VariableProvider, error) {
	seen := make(map[string]bool)
	var out []ports.VariableProvider
	for _, id := range ids {
		p, err := m.Provider(id)
		if err != nil {
			return nil, err
		}
		if seen[p.ProviderID()] {
			continue
		}
		seen[p.ProviderID()] = true
		out = append(out, p)
	}
	return out, nil
}

// Providers returns the registered providers in registration order
func (m *ProviderMap) Providers() []ports.VariableProvider {
	return append([]ports.VariableProvider(nil), m.providers...)
}

// MetricIDs returns every routable metric, sorted
func (m *ProviderMap) MetricIDs() []metric.ID {
	ids := make([]metric.ID, 0, len(m.byMetric))
	for id := range m.byMetric {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
