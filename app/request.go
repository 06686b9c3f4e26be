package app

import (
	"fmt"
	"strings"

	"hetracker/domain/demographic"
	"hetracker/domain/fips"
	"hetracker/domain/metric"
	"hetracker/domain/query"
	"hetracker/internal/errors"
)

// FilterRequest is the wire form of a demographic group filter
type FilterRequest struct {
	// Mode is "exclude", "only" or empty for no filter
	Mode   string   `json:"mode"`
	Values []string `json:"values"`
}

// QueryRequest is the wire form of a metric query shared by the HTTP API
// and the CLI
type QueryRequest struct {
	MetricIDs   []string      `json:"metric_ids"`
	Geography   string        `json:"geography"`
	Fips        string        `json:"fips"`
	Demographic string        `json:"demographic"`
	Filter      FilterRequest `json:"filter"`
	TimeView    string        `json:"time_view"`
}

// Filter converts the request into a group filter
func (f FilterRequest) Filter() (query.Filter, error) {
	switch strings.ToLower(f.Mode) {
	case "":
		return query.IncludeAll(), nil
	case "exclude":
		if len(f.Values) == 0 {
			return query.ExcludeAll(), nil
		}
		return query.Exclude(f.Values...), nil
	case "only":
		return query.OnlyInclude(f.Values...), nil
	}
	return query.Filter{}, errors.InvalidInput(fmt.Sprintf("unknown filter mode %q", f.Mode))
}

// Breakdowns resolves the geography, fips and demographic fields. A fips
// with a finer geography selects its children: a state fips with "county"
// returns the state's counties.
func (r QueryRequest) Breakdowns() (query.Breakdowns, error) {
	var b query.Breakdowns
	geo, hasGeo := query.ParseGeography(r.Geography)
	if r.Geography != "" && !hasGeo {
		return b, errors.InvalidInput(fmt.Sprintf("unknown geography %q", r.Geography))
	}

	switch {
	case r.Fips == "":
		switch geo {
		case query.State:
			b = query.ByState()
		case query.County:
			b = query.ByCounty()
		default:
			b = query.NationalBreakdowns()
		}
	default:
		f, err := fips.New(r.Fips)
		if err != nil {
			return b, errors.InvalidInput(err.Error())
		}
		b = query.ForFips(f)
		if hasGeo && geo != b.Geography {
			b = query.ForParentFips(f)
			if b.Geography != geo {
				return b, errors.InvalidInput(fmt.Sprintf("fips %s has no %s children", f.Code, geo))
			}
		}
	}

	if r.Demographic == "" {
		return b, nil
	}
	dim, ok := demographic.ParseDimension(r.Demographic)
	if !ok {
		return b, errors.InvalidInput(fmt.Sprintf("unknown demographic %q", r.Demographic))
	}
	filter, err := r.Filter.Filter()
	if err != nil {
		return b, err
	}
	return b.AddBreakdown(dim, filter), nil
}

// Query builds the metric query
func (r QueryRequest) Query() (*query.MetricQuery, error) {
	if len(r.MetricIDs) == 0 {
		return nil, errors.InvalidInput("metric_ids is required")
	}
	b, err := r.Breakdowns()
	if err != nil {
		return nil, err
	}
	tv := query.CrossSectional
	switch strings.ToLower(r.TimeView) {
	case "", string(query.CrossSectional):
	case string(query.Longitudinal):
		tv = query.Longitudinal
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown time_view %q", r.TimeView))
	}

	ids := make([]metric.ID, 0, len(r.MetricIDs))
	for _, id := range r.MetricIDs {
		ids = append(ids, metric.ID(strings.TrimSpace(id)))
	}
	return query.NewMetricQuery(ids, b, tv), nil
}

// TrendsRequest builds a trends request for the first requested metric
func (r QueryRequest) TrendsRequest() (TrendsRequest, error) {
	if len(r.MetricIDs) != 1 {
		return TrendsRequest{}, errors.InvalidInput("trends take exactly one metric")
	}
	b, err := r.Breakdowns()
	if err != nil {
		return TrendsRequest{}, err
	}
	return TrendsRequest{MetricID: metric.ID(r.MetricIDs[0]), Breakdowns: b}, nil
}
