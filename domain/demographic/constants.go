package demographic

import "strings"

// Column names used by every provider
const (
	FipsCol       = "fips"
	FipsNameCol   = "fips_name"
	StateFipsCol  = "state_fips"
	StateNameCol  = "state_name"
	CountyFipsCol = "county_fips"
	CountyNameCol = "county_name"
	TimePeriodCol = "time_period"
	PopulationCol = "population"
)

// Dimension is a demographic breakdown column
type Dimension string

const (
	Race Dimension = "race_and_ethnicity"
	Age  Dimension = "age"
	Sex  Dimension = "sex"
)

// Dimensions lists every demographic dimension in canonical order
var Dimensions = []Dimension{Race, Age, Sex}

func (d Dimension) String() string { return string(d) }

// DisplayName is the human label for a dimension
func (d Dimension) DisplayName() string {
	switch d {
	case Race:
		return "Race and Ethnicity"
	case Age:
		return "Age"
	case Sex:
		return "Sex"
	}
	return string(d)
}

// ParseDimension maps user input onto a dimension
func ParseDimension(s string) (Dimension, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "race", "race_and_ethnicity":
		return Race, true
	case "age":
		return Age, true
	case "sex":
		return Sex, true
	}
	return "", false
}

// Group labels
const (
	All   = "All"
	Total = "Total"

	Unknown          = "Unknown"
	UnknownRace      = "Unknown race"
	UnknownEthnicity = "Unknown ethnicity"

	NonHispanic = "Non-Hispanic"

	WhiteNH    = "White (Non-Hispanic)"
	BlackNH    = "Black or African American (Non-Hispanic)"
	AsianNH    = "Asian (Non-Hispanic)"
	AIANNH     = "American Indian and Alaska Native (Non-Hispanic)"
	NHPINH     = "Native Hawaiian and Pacific Islander (Non-Hispanic)"
	MultiNH    = "Two or more races & Unrepresented race (Non-Hispanic)"
	Hispanic   = "Hispanic or Latino"
	nhSuffix   = "(Non-Hispanic)"
	nhShortTag = "NH"
)

// ReferenceRace is the group other races are compared to when age-adjusting
const ReferenceRace = WhiteNH

// UnknownGroups are labels for rows whose demographic is not known
var UnknownGroups = []string{Unknown, UnknownRace, UnknownEthnicity}

// IsUnknown reports whether group is one of the unknown labels
func IsUnknown(group string) bool {
	for _, u := range UnknownGroups {
		if group == u {
			return true
		}
	}
	return false
}

// IsAll reports whether group is the aggregate label
func IsAll(group string) bool {
	return group == All
}

// ShortenNH abbreviates the "(Non-Hispanic)" suffix for trend legends
func ShortenNH(group string) string {
	return strings.Replace(group, nhSuffix, nhShortTag, 1)
}
