package ontology

import "slices"

// Class is an ontology class. Ancestors, Descendants and the combined
// relation lists are derived by the post-processing pipeline and recomputed
// wholesale on every run.
type Class struct {
	Base

	Parents     []string `json:"parents,omitempty"`
	Ancestors   []string `json:"ancestors,omitempty"`
	Descendants []string `json:"descendants,omitempty"`

	// RelationIDs are the restrictions declared directly on this class.
	RelationIDs []string `json:"relation_ids,omitempty"`

	CombinedObjectRelationIDs []string `json:"combined_object_relation_ids,omitempty"`
	CombinedDataRelationIDs   []string `json:"combined_data_relation_ids,omitempty"`

	IsDevice bool `json:"is_device,omitempty"`
	IsAgent  bool `json:"is_agent,omitempty"`
}

// NewClass creates a class with the given IRI.
func NewClass(iri string) *Class {
	return &Class{Base: Base{IRI: iri}}
}

// EntityKind returns KindClass.
func (c *Class) EntityKind() Kind { return KindClass }

// AddParent adds a parent edge unless it already exists.
func (c *Class) AddParent(iri string) bool {
	var added bool
	c.Parents, added = appendUnique(c.Parents, iri)
	return added
}

// RemoveParent drops a parent edge.
func (c *Class) RemoveParent(iri string) {
	c.Parents = slices.DeleteFunc(c.Parents, func(p string) bool { return p == iri })
}

// HasAncestor reports whether iri is in the ancestor closure.
func (c *Class) HasAncestor(iri string) bool {
	return slices.Contains(c.Ancestors, iri)
}

// CombinedRelationIDs returns the object relation ids followed by the data
// relation ids.
func (c *Class) CombinedRelationIDs() []string {
	out := make([]string, 0, len(c.CombinedObjectRelationIDs)+len(c.CombinedDataRelationIDs))
	out = append(out, c.CombinedObjectRelationIDs...)
	return append(out, c.CombinedDataRelationIDs...)
}

// IsIoTClass reports whether the class owns, directly or through inheritance,
// a combined data relation whose property is classified as a command or a
// device attribute. Combined relations already include inherited
// restrictions, so only the class's own combined list is inspected.
func (c *Class) IsIoTClass(v *Vocabulary) bool {
	for _, id := range c.CombinedDataRelationIDs {
		cr, ok := v.CombinedDataRelations[id]
		if !ok {
			continue
		}
		if cr.FieldType(v).IsDeviceField() {
			return true
		}
	}
	return false
}
