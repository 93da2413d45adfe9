package ontology

import (
	"fmt"
	"slices"

	"github.com/c360studio/semonto/vocabulary/owl"
)

// Kind identifies the category of an entity.
type Kind uint8

const (
	// KindClass is an ontology class.
	KindClass Kind = iota + 1
	// KindObjectProperty relates individuals of two classes.
	KindObjectProperty
	// KindDataProperty relates individuals to literal values.
	KindDataProperty
	// KindDatatype constrains literal values.
	KindDatatype
	// KindIndividual is a named, immutable value.
	KindIndividual
)

var kindNames = map[Kind]string{
	KindClass:          "class",
	KindObjectProperty: "object_property",
	KindDataProperty:   "data_property",
	KindDatatype:       "datatype",
	KindIndividual:     "individual",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	if len(text) == 0 || string(text) == "unknown" {
		*k = 0
		return nil
	}
	return fmt.Errorf("unknown entity kind: %s", text)
}

// Entity is implemented by the five entity variants: *Class, *ObjectProperty,
// *DataProperty, *Datatype and *Individual. The set is closed.
type Entity interface {
	EntityIRI() string
	EntityKind() Kind
	GetLabel() string
	base() *Base
}

// Base holds the fields every entity carries.
type Base struct {
	IRI string `json:"iri"`
	// Label is the label extracted from the source documents.
	Label string `json:"label,omitempty"`
	// UserLabel overrides Label when set.
	UserLabel string `json:"user_label,omitempty"`
	Comment   string `json:"comment,omitempty"`
	// SourceIDs lists every source that declared the entity, in declaration order.
	SourceIDs  []string `json:"source_ids,omitempty"`
	Predefined bool     `json:"predefined,omitempty"`
}

func (b *Base) base() *Base { return b }

// EntityIRI returns the identifier.
func (b *Base) EntityIRI() string { return b.IRI }

// GetLabel returns the user override if set, else the extracted label, else a
// label derived from the IRI.
func (b *Base) GetLabel() string {
	if b.UserLabel != "" {
		return b.UserLabel
	}
	if b.Label != "" {
		return b.Label
	}
	return owl.LocalName(b.IRI)
}

// OriginalLabel returns the label ignoring any user override.
func (b *Base) OriginalLabel() string {
	if b.Label != "" {
		return b.Label
	}
	return owl.LocalName(b.IRI)
}

// SetUserLabel overrides the label. An empty label removes the override.
func (b *Base) SetUserLabel(label string) {
	b.UserLabel = label
}

// AddSource records that sourceID declared the entity.
func (b *Base) AddSource(sourceID string) bool {
	if sourceID == "" || slices.Contains(b.SourceIDs, sourceID) {
		return false
	}
	b.SourceIDs = append(b.SourceIDs, sourceID)
	return true
}

// HasSource reports whether sourceID declared the entity.
func (b *Base) HasSource(sourceID string) bool {
	return slices.Contains(b.SourceIDs, sourceID)
}

// merge fills empty annotation fields from another declaration of the same entity.
func (b *Base) merge(other *Base) {
	if b.Label == "" {
		b.Label = other.Label
	}
	if b.Comment == "" {
		b.Comment = other.Comment
	}
	for _, id := range other.SourceIDs {
		b.AddSource(id)
	}
	b.Predefined = b.Predefined || other.Predefined
}

// appendUnique appends value to list if it is not already present.
func appendUnique(list []string, value string) ([]string, bool) {
	if slices.Contains(list, value) {
		return list, false
	}
	return append(list, value), true
}

// dedupe removes repeated values keeping the first occurrence.
func dedupe(list []string) []string {
	if len(list) < 2 {
		return list
	}
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, v := range list {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
