package ontology

import (
	"strings"

	"github.com/google/uuid"
)

// combinedNamespace seeds the name-based UUIDs of combined relations.
var combinedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://semonto.dev/combined-relation"))

// CombinedRelationID returns the identifier of the combined relation for
// property on class. The same pair always yields the same identifier.
func CombinedRelationID(classIRI, property string) string {
	return uuid.NewSHA1(combinedNamespace, []byte(classIRI+"\x00"+property)).String()
}

// CombinedRelation is the union, for one class, of every own or inherited
// restriction on one property. It becomes one generated field.
type CombinedRelation struct {
	ID          string   `json:"id"`
	ClassIRI    string   `json:"class_iri"`
	Property    string   `json:"property"`
	RelationIDs []string `json:"relation_ids"`

	// IsKeyInformation marks the field for display as a table column.
	IsKeyInformation bool `json:"is_key_information,omitempty"`
	// Inspect marks the field as required to be satisfied.
	Inspect bool `json:"inspect,omitempty"`
}

func newCombinedRelation(classIRI, property string) CombinedRelation {
	return CombinedRelation{
		ID:       CombinedRelationID(classIRI, property),
		ClassIRI: classIRI,
		Property: property,
	}
}

// Relations resolves the member restrictions, skipping ids that no longer exist.
func (c *CombinedRelation) Relations(v *Vocabulary) []*Relation {
	out := make([]*Relation, 0, len(c.RelationIDs))
	for _, id := range c.RelationIDs {
		if r, ok := v.Relations[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Rule joins the rule fragments of the member restrictions.
func (c *CombinedRelation) Rule(v *Vocabulary) string {
	relations := c.Relations(v)
	parts := make([]string, 0, len(relations))
	for _, r := range relations {
		parts = append(parts, r.Rule(v.LabelOf))
	}
	return strings.Join(parts, ", ")
}

// CombinedObjectRelation is a combined relation over an object property.
type CombinedObjectRelation struct {
	CombinedRelation
}

// NewCombinedObjectRelation creates the combined object relation of class
// and property.
func NewCombinedObjectRelation(classIRI, property string) *CombinedObjectRelation {
	return &CombinedObjectRelation{CombinedRelation: newCombinedRelation(classIRI, property)}
}

// IsFulfilled reports whether the instance IRIs satisfy every member restriction.
func (c *CombinedObjectRelation) IsFulfilled(v *Vocabulary, values []string) bool {
	for _, r := range c.Relations(v) {
		if !r.IsFulfilledByIRIs(values, v.AncestorsOf) {
			return false
		}
	}
	return true
}

// CombinedDataRelation is a combined relation over a data property.
type CombinedDataRelation struct {
	CombinedRelation
}

// NewCombinedDataRelation creates the combined data relation of class and
// property.
func NewCombinedDataRelation(classIRI, property string) *CombinedDataRelation {
	return &CombinedDataRelation{CombinedRelation: newCombinedRelation(classIRI, property)}
}

// FieldType returns the field classification of the underlying property.
func (c *CombinedDataRelation) FieldType(v *Vocabulary) DataFieldType {
	if p, ok := v.DataProperties[c.Property]; ok {
		return p.FieldType
	}
	return FieldSimple
}

// IsFulfilled reports whether the literal values satisfy every member restriction.
func (c *CombinedDataRelation) IsFulfilled(v *Vocabulary, values []string) bool {
	for _, r := range c.Relations(v) {
		if !r.IsFulfilledByData(values, v.DatatypeOf) {
			return false
		}
	}
	return true
}
