package export

import (
	"fmt"
	"slices"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
)

// Profile determines how much of the resolved vocabulary is exported.
type Profile string

const (
	// ProfileMinimal includes declarations, labels, comments and direct edges.
	ProfileMinimal Profile = "minimal"

	// ProfileResolved adds the ancestor closure and combined relations.
	ProfileResolved Profile = "resolved"

	// ProfileFull adds user settings and source provenance.
	ProfileFull Profile = "full"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// IncludeClosure emits the computed ancestor closure of each class.
	IncludeClosure bool

	// IncludeCombined emits combined relations with their rules.
	IncludeCombined bool

	// IncludeSettings emits device/agent flags, field types and relation flags.
	IncludeSettings bool

	// IncludeProvenance emits the source document of each entity.
	IncludeProvenance bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileMinimal: {
		Name:        ProfileMinimal,
		Description: "Declarations, labels and direct hierarchy edges",
	},
	ProfileResolved: {
		Name:            ProfileResolved,
		Description:     "Minimal profile plus ancestor closure and combined relations",
		IncludeClosure:  true,
		IncludeCombined: true,
	},
	ProfileFull: {
		Name:              ProfileFull,
		Description:       "Resolved profile plus user settings and source provenance",
		IncludeClosure:    true,
		IncludeCombined:   true,
		IncludeSettings:   true,
		IncludeProvenance: true,
	},
}

// GetProfileConfig returns the configuration for a profile. Unknown profiles
// fall back to ProfileMinimal.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileMinimal]
}

// ParseProfile validates a profile name.
func ParseProfile(s string) (Profile, error) {
	if _, ok := Profiles[Profile(s)]; ok {
		return Profile(s), nil
	}
	return "", fmt.Errorf("unknown export profile: %q (valid: %v)", s, ListProfiles())
}

// ListProfiles returns the profile names in sorted order.
func ListProfiles() []Profile {
	out := make([]Profile, 0, len(Profiles))
	for p := range Profiles {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// kindTypes maps entity kinds to the OWL type they are declared with.
var kindTypes = map[ontology.Kind]string{
	ontology.KindClass:          owl.Class,
	ontology.KindObjectProperty: owl.ObjectProperty,
	ontology.KindDataProperty:   owl.DatatypeProperty,
	ontology.KindDatatype:       owl.RDFSDatatype,
	ontology.KindIndividual:     owl.NamedIndividual,
}

// TypeIRI returns the declaration type of an entity kind.
func TypeIRI(kind ontology.Kind) string {
	return kindTypes[kind]
}
