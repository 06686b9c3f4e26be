package fips

import (
	"fmt"
	"strings"
)

const (
	USACode        = "00"
	USADisplayName = "United States"

	// DCCountyCode is the single county-level FIPS for the District of Columbia
	DCCountyCode = "11001"
)

// Territories whose population comes from the 2010 decennial census tables
var TerritoryCodes = []string{"60", "66", "69", "78"}

// Fips is a nation, state or county geography code
type Fips struct {
	Code string
}

// New validates and wraps a FIPS code
func New(code string) (Fips, error) {
	code = strings.TrimSpace(code)
	switch len(code) {
	case 2, 5:
	default:
		return Fips{}, fmt.Errorf("invalid fips code %q: must be 2 or 5 digits", code)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return Fips{}, fmt.Errorf("invalid fips code %q: must be numeric", code)
		}
	}
	return Fips{Code: code}, nil
}

// MustNew is New for constants known to be valid
func MustNew(code string) Fips {
	f, err := New(code)
	if err != nil {
		panic(err)
	}
	return f
}

// USA returns the national FIPS
func USA() Fips { return Fips{Code: USACode} }

func (f Fips) IsUSA() bool    { return f.Code == USACode }
func (f Fips) IsState() bool  { return len(f.Code) == 2 && !f.IsUSA() }
func (f Fips) IsCounty() bool { return len(f.Code) == 5 }

// IsTerritory reports whether f is, or lies within, a territory served by
// the 2010 population tables
func (f Fips) IsTerritory() bool {
	state := f.StateCode()
	for _, t := range TerritoryCodes {
		if state == t {
			return true
		}
	}
	return false
}

// StateCode returns the two-digit state prefix
func (f Fips) StateCode() string {
	if len(f.Code) < 2 {
		return f.Code
	}
	return f.Code[:2]
}

// ParentFips returns the containing geography
func (f Fips) ParentFips() Fips {
	if f.IsCounty() {
		return Fips{Code: f.StateCode()}
	}
	return USA()
}

// IsParentOf reports whether code lies directly within f
func (f Fips) IsParentOf(code string) bool {
	if f.IsUSA() {
		return len(code) == 2 && code != USACode
	}
	if f.IsState() {
		return len(code) == 5 && strings.HasPrefix(code, f.Code)
	}
	return false
}

// DisplayName returns the state name for states, "United States" for the
// nation and the code itself for counties, whose names travel with the data
func (f Fips) DisplayName() string {
	if f.IsUSA() {
		return USADisplayName
	}
	if name, ok := StateNames[f.Code]; ok {
		return name
	}
	return f.Code
}

// FullDisplayName qualifies county names with their state
func (f Fips) FullDisplayName() string {
	if f.IsCounty() {
		return fmt.Sprintf("%s, %s", f.DisplayName(), f.ParentFips().DisplayName())
	}
	return f.DisplayName()
}

func (f Fips) String() string { return f.Code }
