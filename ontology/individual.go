package ontology

// Individual is an immutable named value. It may appear as a restriction
// target but is never instantiated as a device or agent.
type Individual struct {
	Base

	ParentClasses []string `json:"parent_classes,omitempty"`
}

// NewIndividual creates an individual with the given IRI.
func NewIndividual(iri string) *Individual {
	return &Individual{Base: Base{IRI: iri}}
}

// EntityKind returns KindIndividual.
func (i *Individual) EntityKind() Kind { return KindIndividual }

// AddParentClass records a class the individual belongs to.
func (i *Individual) AddParentClass(iri string) bool {
	var added bool
	i.ParentClasses, added = appendUnique(i.ParentClasses, iri)
	return added
}
