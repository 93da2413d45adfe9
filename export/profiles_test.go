package export_test

import (
	"testing"

	"github.com/c360studio/semonto/export"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
)

func TestGetProfileConfig(t *testing.T) {
	tests := []struct {
		profile        export.Profile
		wantClosure    bool
		wantCombined   bool
		wantSettings   bool
		wantProvenance bool
	}{
		{export.ProfileMinimal, false, false, false, false},
		{export.ProfileResolved, true, true, false, false},
		{export.ProfileFull, true, true, true, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.profile), func(t *testing.T) {
			config := export.GetProfileConfig(tc.profile)
			if config.IncludeClosure != tc.wantClosure {
				t.Errorf("IncludeClosure = %v, want %v", config.IncludeClosure, tc.wantClosure)
			}
			if config.IncludeCombined != tc.wantCombined {
				t.Errorf("IncludeCombined = %v, want %v", config.IncludeCombined, tc.wantCombined)
			}
			if config.IncludeSettings != tc.wantSettings {
				t.Errorf("IncludeSettings = %v, want %v", config.IncludeSettings, tc.wantSettings)
			}
			if config.IncludeProvenance != tc.wantProvenance {
				t.Errorf("IncludeProvenance = %v, want %v", config.IncludeProvenance, tc.wantProvenance)
			}
		})
	}
}

func TestGetProfileConfigUnknown(t *testing.T) {
	// Unknown profile should default to minimal
	config := export.GetProfileConfig("unknown")
	if config.Name != export.ProfileMinimal {
		t.Errorf("Unknown profile should default to minimal, got %s", config.Name)
	}
}

func TestParseProfile(t *testing.T) {
	p, err := export.ParseProfile("full")
	if err != nil || p != export.ProfileFull {
		t.Errorf("ParseProfile(full) = %q, %v", p, err)
	}
	if _, err := export.ParseProfile("cco"); err == nil {
		t.Error("ParseProfile should reject unknown profiles")
	}
}

func TestListProfiles(t *testing.T) {
	got := export.ListProfiles()
	want := []export.Profile{export.ProfileFull, export.ProfileMinimal, export.ProfileResolved}
	if len(got) != len(want) {
		t.Fatalf("ListProfiles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListProfiles()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTypeIRI(t *testing.T) {
	tests := map[ontology.Kind]string{
		ontology.KindClass:          owl.Class,
		ontology.KindObjectProperty: owl.ObjectProperty,
		ontology.KindDataProperty:   owl.DatatypeProperty,
		ontology.KindDatatype:       owl.RDFSDatatype,
		ontology.KindIndividual:     owl.NamedIndividual,
	}
	for kind, want := range tests {
		if got := export.TypeIRI(kind); got != want {
			t.Errorf("TypeIRI(%s) = %s, want %s", kind, got, want)
		}
	}
}
