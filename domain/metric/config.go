package metric

import (
	"sort"
	"strings"
)

// ID names a metric column
type ID string

func (id ID) String() string { return string(id) }

// Type is the unit a metric is expressed in
type Type string

const (
	TypeCount            Type = "count"
	TypePer100k          Type = "per100k"
	TypePctShare         Type = "pct_share"
	TypePctShareOfKnown  Type = "pct_share_of_known"
	TypeAgeAdjustedRatio Type = "age_adjusted_ratio"
	TypePopulation       Type = "population"
	TypePopulationPct    Type = "population_pct"
)

// IsPct reports whether values of t are percentages
func (t Type) IsPct() bool {
	return t == TypePctShare || t == TypePctShareOfKnown || t == TypePopulationPct
}

// Config is the static descriptor of a metric
type Config struct {
	ID          ID     `json:"metric_id"`
	DisplayName string `json:"display_name"`
	Type        Type   `json:"type"`

	// PopulationComparisonMetric is the population share a pct_share metric
	// is compared against to compute undue share
	PopulationComparisonMetric *Config `json:"population_comparison_metric,omitempty"`
}

// VariableConfig groups the metrics that describe one variable
type VariableConfig struct {
	VariableID  string           `json:"variable_id"`
	DisplayName string           `json:"display_name"`
	Metrics     map[Type]*Config `json:"metrics"`
}

// Metric returns the config for the given unit type, if the variable has one
func (v *VariableConfig) Metric(t Type) (*Config, bool) {
	c, ok := v.Metrics[t]
	return c, ok
}

var catalogue = map[ID]*Config{}

var variables = map[string]*VariableConfig{}

func register(c *Config) *Config {
	catalogue[c.ID] = c
	return c
}

// Lookup returns the static config for id
func Lookup(id ID) (*Config, bool) {
	c, ok := catalogue[id]
	return c, ok
}

// All returns every configured metric sorted by ID
func All() []*Config {
	out := make([]*Config, 0, len(catalogue))
	for _, c := range catalogue {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Variable returns the variable config for variableID
func Variable(variableID string) (*VariableConfig, bool) {
	v, ok := variables[variableID]
	return v, ok
}

// Variables returns every configured variable sorted by ID
func Variables() []*VariableConfig {
	out := make([]*VariableConfig, 0, len(variables))
	for _, v := range variables {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariableID < out[j].VariableID })
	return out
}

// AgeAdjustedRatioMetrics returns the age-adjusted ratio metric of a
// variable, or nothing when the variable is not age adjusted
func AgeAdjustedRatioMetrics(v *VariableConfig) []*Config {
	if c, ok := v.Metrics[TypeAgeAdjustedRatio]; ok {
		return []*Config{c}
	}
	return nil
}

// ParseIDs splits a comma-separated list into metric IDs
func ParseIDs(s string) []ID {
	var ids []ID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, ID(part))
		}
	}
	return ids
}
