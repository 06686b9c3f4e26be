package demographic

import "testing"

func TestIsUnknown(t *testing.T) {
	for _, g := range []string{Unknown, UnknownRace, UnknownEthnicity} {
		if !IsUnknown(g) {
			t.Errorf("Expected %q to be unknown", g)
		}
	}
	if IsUnknown(All) || IsUnknown(AsianNH) {
		t.Error("Expected known groups not to be unknown")
	}
}

func TestShortenNH(t *testing.T) {
	if got := ShortenNH(WhiteNH); got != "White NH" {
		t.Errorf("Expected 'White NH', got %q", got)
	}
	if got := ShortenNH(Hispanic); got != Hispanic {
		t.Errorf("Expected unchanged label, got %q", got)
	}
}

func TestParseDimension(t *testing.T) {
	if d, ok := ParseDimension("race"); !ok || d != Race {
		t.Errorf("Expected race, got %q", d)
	}
	if _, ok := ParseDimension("income"); ok {
		t.Error("Expected income to be rejected")
	}
}
