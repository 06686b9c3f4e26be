package calculations

import (
	"gonum.org/v1/gonum/floats"

	"hetracker/domain/dataset"
)

// AgeStratum is the count and population of one group within one age bucket
type AgeStratum struct {
	Group      string
	AgeBucket  string
	Count      dataset.Value
	Population dataset.Value
}

// AgeAdjustedRatios compares each group's rate with the reference group's
// after direct standardization. The reference group's age distribution is
// the standard population:
//
//	expected(g) = sum over ages of rate(g, age) * population(ref, age)
//	ratio(g)    = expected(g) / expected(ref)
//
// Ratios are rounded to one decimal. A group missing any stratum the
// reference has, or with any unusable count or population, is suppressed.
func AgeAdjustedRatios(strata []AgeStratum, referenceGroup string) map[string]dataset.Value {
	var refAges []string
	refPop := make(map[string]float64)
	byGroup := make(map[string]map[string]AgeStratum)
	var groups []string

	for _, s := range strata {
		if _, ok := byGroup[s.Group]; !ok {
			byGroup[s.Group] = make(map[string]AgeStratum)
			groups = append(groups, s.Group)
		}
		byGroup[s.Group][s.AgeBucket] = s
		if s.Group == referenceGroup {
			refAges = append(refAges, s.AgeBucket)
			if p, ok := s.Population.Float(); ok {
				refPop[s.AgeBucket] = p
			}
		}
	}

	out := make(map[string]dataset.Value, len(groups))
	if len(refAges) == 0 {
		for _, g := range groups {
			out[g] = dataset.Suppressed()
		}
		return out
	}

	standard := make([]float64, len(refAges))
	for i, age := range refAges {
		p, ok := refPop[age]
		if !ok {
			for _, g := range groups {
				out[g] = dataset.Suppressed()
			}
			return out
		}
		standard[i] = p
	}

	expected := func(group string) (float64, bool) {
		rates := make([]float64, len(refAges))
		for i, age := range refAges {
			s, ok := byGroup[group][age]
			if !ok {
				return 0, false
			}
			r, ok := ratio(s.Count, s.Population)
			if !ok {
				return 0, false
			}
			rates[i] = r
		}
		return floats.Dot(rates, standard), true
	}

	refExpected, refOK := expected(referenceGroup)
	for _, g := range groups {
		e, ok := expected(g)
		if !ok || !refOK || refExpected == 0 {
			out[g] = dataset.Suppressed()
			continue
		}
		out[g] = dataset.Num(round(e/refExpected, 1))
	}
	return out
}
