package fips

import (
	"testing"
)

func TestNewValidatesCodes(t *testing.T) {
	tests := []struct {
		code     string
		hasError bool
	}{
		{"00", false},
		{"37", false},
		{"37183", false},
		{"3", true},
		{"371", true},
		{"AB", true},
	}
	for _, tt := range tests {
		_, err := New(tt.code)
		if tt.hasError && err == nil {
			t.Errorf("Expected error for %q", tt.code)
		}
		if !tt.hasError && err != nil {
			t.Errorf("Unexpected error for %q: %v", tt.code, err)
		}
	}
}

func TestGeographyLevels(t *testing.T) {
	if !USA().IsUSA() || USA().IsState() {
		t.Error("Expected 00 to be national only")
	}
	nc := MustNew("37")
	if !nc.IsState() || nc.IsCounty() {
		t.Error("Expected 37 to be a state")
	}
	wake := MustNew("37183")
	if !wake.IsCounty() {
		t.Error("Expected 37183 to be a county")
	}
	if wake.ParentFips() != nc {
		t.Errorf("Expected parent of 37183 to be 37, got %s", wake.ParentFips())
	}
	if nc.ParentFips() != USA() {
		t.Errorf("Expected parent of 37 to be 00")
	}
}

func TestIsParentOf(t *testing.T) {
	nc := MustNew("37")
	if !nc.IsParentOf("37183") {
		t.Error("Expected NC to contain Wake County")
	}
	if nc.IsParentOf("01001") {
		t.Error("Expected NC not to contain an Alabama county")
	}
	if !USA().IsParentOf("37") || USA().IsParentOf("00") {
		t.Error("Expected USA to contain states only")
	}
}

func TestTerritories(t *testing.T) {
	if !MustNew("66").IsTerritory() || !MustNew("78010").IsTerritory() {
		t.Error("Expected Guam and a Virgin Islands county to be territories")
	}
	if MustNew("37").IsTerritory() {
		t.Error("Expected NC not to be a territory")
	}
}

func TestDisplayNames(t *testing.T) {
	if got := MustNew("37").DisplayName(); got != "North Carolina" {
		t.Errorf("Expected North Carolina, got %s", got)
	}
	if got := USA().DisplayName(); got != USADisplayName {
		t.Errorf("Expected %s, got %s", USADisplayName, got)
	}
}
