package ontology

import (
	"fmt"
	"strconv"
)

// RestrictionType is the quantifier of a restriction.
type RestrictionType string

const (
	RestrictionSome    RestrictionType = "some"
	RestrictionOnly    RestrictionType = "only"
	RestrictionValue   RestrictionType = "value"
	RestrictionMin     RestrictionType = "min"
	RestrictionMax     RestrictionType = "max"
	RestrictionExactly RestrictionType = "exactly"
)

// NoCardinality marks a restriction without a cardinality clause.
const NoCardinality = -1

// ParseRestrictionType parses a restriction type name.
func ParseRestrictionType(s string) (RestrictionType, error) {
	switch t := RestrictionType(s); t {
	case RestrictionSome, RestrictionOnly, RestrictionValue,
		RestrictionMin, RestrictionMax, RestrictionExactly:
		return t, nil
	}
	return "", fmt.Errorf("unknown restriction type: %q", s)
}

// HasCardinality reports whether the type carries a cardinality.
func (t RestrictionType) HasCardinality() bool {
	return t == RestrictionMin || t == RestrictionMax || t == RestrictionExactly
}

// IsSatisfied reports whether fulfilling out of total values meet the
// restriction.
func (t RestrictionType) IsSatisfied(fulfilling, total, cardinality int) bool {
	switch t {
	case RestrictionSome, RestrictionValue:
		return fulfilling >= 1
	case RestrictionOnly:
		return fulfilling == total
	case RestrictionMin:
		return fulfilling >= cardinality
	case RestrictionMax:
		return fulfilling <= cardinality
	case RestrictionExactly:
		return fulfilling == cardinality
	default:
		return false
	}
}

// Relation is one restriction a class places on a property.
type Relation struct {
	ID          string           `json:"id"`
	Type        RestrictionType  `json:"type"`
	Cardinality int              `json:"cardinality"`
	Property    string           `json:"property"`
	Target      *TargetStatement `json:"target,omitempty"`
	// ClassIRI is the class that declared the restriction.
	ClassIRI string `json:"class_iri"`
	SourceID string `json:"source_id"`
}

// Targets returns every IRI the restriction target references.
func (r *Relation) Targets() []string {
	return r.Target.Targets()
}

// IsFulfilledByIRIs counts how many of values satisfy the target and checks
// the quantifier against the count.
func (r *Relation) IsFulfilledByIRIs(values []string, ancestorsOf func(string) []string) bool {
	fulfilling := 0
	for _, v := range values {
		if r.Target.IsFulfilledByIRIs([]string{v}, ancestorsOf) {
			fulfilling++
		}
	}
	return r.Type.IsSatisfied(fulfilling, len(values), r.Cardinality)
}

// IsFulfilledByData is the literal-valued counterpart of IsFulfilledByIRIs.
func (r *Relation) IsFulfilledByData(values []string, lookup func(string) (*Datatype, bool)) bool {
	fulfilling := 0
	for _, v := range values {
		if r.Target.IsFulfilledByData(v, lookup) {
			fulfilling++
		}
	}
	return r.Type.IsSatisfied(fulfilling, len(values), r.Cardinality)
}

// Rule renders the restriction as a rule fragment such as
// "min 2 (Sensor or Actuator)".
func (r *Relation) Rule(labelOf func(string) string) string {
	out := string(r.Type)
	if r.Type.HasCardinality() && r.Cardinality != NoCardinality {
		out += " " + strconv.Itoa(r.Cardinality)
	}
	if target := r.Target.render(labelOf, true); target != "" {
		out += " " + target
	}
	return out
}

// Clone returns a deep copy.
func (r *Relation) Clone() *Relation {
	out := *r
	out.Target = r.Target.Clone()
	return &out
}
