package ontology

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

// DatatypeType is the value family a datatype constrains.
type DatatypeType string

const (
	DatatypeString DatatypeType = "string"
	DatatypeNumber DatatypeType = "number"
	DatatypeDate   DatatypeType = "date"
	DatatypeEnum   DatatypeType = "enum"
)

// Datatype constrains the literal values a data property accepts.
type Datatype struct {
	Base

	Type DatatypeType `json:"type"`

	// String constraints. An empty AllowedChars list allows every character.
	AllowedChars   []string `json:"allowed_chars,omitempty"`
	ForbiddenChars []string `json:"forbidden_chars,omitempty"`
	AllowNonASCII  bool     `json:"allow_non_ascii"`

	// Number constraints. Nil bounds are open; set bounds are inclusive.
	NumberRangeMin       *float64 `json:"number_range_min,omitempty"`
	NumberRangeMax       *float64 `json:"number_range_max,omitempty"`
	NumberDecimalAllowed bool     `json:"number_decimal_allowed"`

	EnumValues []string `json:"enum_values,omitempty"`
}

// NewDatatype creates an unconstrained string datatype.
func NewDatatype(iri string) *Datatype {
	return &Datatype{
		Base:          Base{IRI: iri},
		Type:          DatatypeString,
		AllowNonASCII: true,
	}
}

// EntityKind returns KindDatatype.
func (d *Datatype) EntityKind() Kind { return KindDatatype }

// HasRange reports whether either numeric bound is set.
func (d *Datatype) HasRange() bool {
	return d.NumberRangeMin != nil || d.NumberRangeMax != nil
}

// SetRange sets both numeric bounds.
func (d *Datatype) SetRange(lower, upper float64) {
	d.NumberRangeMin = &lower
	d.NumberRangeMax = &upper
}

// IsValidValue reports whether value is a valid literal of this datatype.
func (d *Datatype) IsValidValue(value string) bool {
	switch d.Type {
	case DatatypeString:
		return d.isValidString(value)
	case DatatypeNumber:
		return d.isValidNumber(value)
	case DatatypeDate:
		_, err := dateparse.ParseAny(strings.TrimSpace(value))
		return err == nil
	case DatatypeEnum:
		return slices.Contains(d.EnumValues, value)
	default:
		return false
	}
}

func (d *Datatype) isValidString(value string) bool {
	for _, r := range value {
		c := string(r)
		if len(d.AllowedChars) > 0 && !slices.Contains(d.AllowedChars, c) {
			return false
		}
		if slices.Contains(d.ForbiddenChars, c) {
			return false
		}
		if !d.AllowNonASCII && r > 127 {
			return false
		}
	}
	return true
}

func (d *Datatype) isValidNumber(value string) bool {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) {
		return false
	}
	if !d.NumberDecimalAllowed && n != math.Trunc(n) {
		return false
	}
	if d.NumberRangeMin != nil && n < *d.NumberRangeMin {
		return false
	}
	if d.NumberRangeMax != nil && n > *d.NumberRangeMax {
		return false
	}
	return true
}

// Constraints returns the datatype definition as a plain map, the shape the
// generated datatype catalog carries.
func (d *Datatype) Constraints() map[string]any {
	out := map[string]any{"type": string(d.Type)}
	switch d.Type {
	case DatatypeString:
		if len(d.AllowedChars) > 0 {
			out["allowed_chars"] = slices.Clone(d.AllowedChars)
		}
		if len(d.ForbiddenChars) > 0 {
			out["forbidden_chars"] = slices.Clone(d.ForbiddenChars)
		}
		out["allow_non_ascii"] = d.AllowNonASCII
	case DatatypeNumber:
		if d.NumberRangeMin != nil {
			out["number_range_min"] = *d.NumberRangeMin
		}
		if d.NumberRangeMax != nil {
			out["number_range_max"] = *d.NumberRangeMax
		}
		out["number_decimal_allowed"] = d.NumberDecimalAllowed
	case DatatypeEnum:
		out["enum_values"] = slices.Clone(d.EnumValues)
	}
	return out
}

// copyConstraints copies the value constraints of src, leaving identity and
// annotations untouched.
func (d *Datatype) copyConstraints(src *Datatype) {
	d.Type = src.Type
	d.AllowedChars = slices.Clone(src.AllowedChars)
	d.ForbiddenChars = slices.Clone(src.ForbiddenChars)
	d.AllowNonASCII = src.AllowNonASCII
	d.NumberDecimalAllowed = src.NumberDecimalAllowed
	d.NumberRangeMin = clonePtr(src.NumberRangeMin)
	d.NumberRangeMax = clonePtr(src.NumberRangeMax)
	d.EnumValues = slices.Clone(src.EnumValues)
}

// InheritConstraints makes d accept exactly what base accepts.
func (d *Datatype) InheritConstraints(base *Datatype) {
	d.copyConstraints(base)
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
