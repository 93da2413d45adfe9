package ontology

import (
	"fmt"
	"maps"
	"slices"

	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/google/uuid"
)

// Vocabulary is the aggregate root of a parsed ontology. It owns every
// entity; entities reference each other by IRI only.
type Vocabulary struct {
	Name string `json:"name,omitempty"`

	Classes          map[string]*Class          `json:"classes"`
	ObjectProperties map[string]*ObjectProperty `json:"object_properties"`
	DataProperties   map[string]*DataProperty   `json:"data_properties"`
	Datatypes        map[string]*Datatype       `json:"datatypes"`
	Individuals      map[string]*Individual     `json:"individuals"`

	Relations               map[string]*Relation               `json:"relations"`
	CombinedObjectRelations map[string]*CombinedObjectRelation `json:"combined_object_relations"`
	CombinedDataRelations   map[string]*CombinedDataRelation   `json:"combined_data_relations"`

	Sources     map[string]*Source `json:"sources"`
	sourceOrder []string

	valid bool
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary(name string) *Vocabulary {
	return &Vocabulary{
		Name:                    name,
		Classes:                 make(map[string]*Class),
		ObjectProperties:        make(map[string]*ObjectProperty),
		DataProperties:          make(map[string]*DataProperty),
		Datatypes:               make(map[string]*Datatype),
		Individuals:             make(map[string]*Individual),
		Relations:               make(map[string]*Relation),
		CombinedObjectRelations: make(map[string]*CombinedObjectRelation),
		CombinedDataRelations:   make(map[string]*CombinedDataRelation),
		Sources:                 make(map[string]*Source),
		valid:                   true,
	}
}

// AddSource registers a source. Sources keep their registration order.
func (v *Vocabulary) AddSource(s *Source) {
	if _, ok := v.Sources[s.ID]; !ok {
		v.sourceOrder = append(v.sourceOrder, s.ID)
	}
	v.Sources[s.ID] = s
}

// Source returns the source with the given id.
func (v *Vocabulary) Source(id string) (*Source, bool) {
	s, ok := v.Sources[id]
	return s, ok
}

// SourceList returns the sources in registration order.
func (v *Vocabulary) SourceList() []*Source {
	out := make([]*Source, 0, len(v.sourceOrder))
	for _, id := range v.sourceOrder {
		if s, ok := v.Sources[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// KindOf returns the kind of the entity with the given IRI.
func (v *Vocabulary) KindOf(iri string) (Kind, bool) {
	e, ok := v.Entity(iri)
	if !ok {
		return 0, false
	}
	return e.EntityKind(), true
}

// Entity looks iri up in every typed table.
func (v *Vocabulary) Entity(iri string) (Entity, bool) {
	if c, ok := v.Classes[iri]; ok {
		return c, true
	}
	if p, ok := v.ObjectProperties[iri]; ok {
		return p, true
	}
	if p, ok := v.DataProperties[iri]; ok {
		return p, true
	}
	if d, ok := v.Datatypes[iri]; ok {
		return d, true
	}
	if i, ok := v.Individuals[iri]; ok {
		return i, true
	}
	return nil, false
}

// Has reports whether any entity has the given IRI.
func (v *Vocabulary) Has(iri string) bool {
	_, ok := v.Entity(iri)
	return ok
}

// Class returns the class with the given IRI.
func (v *Vocabulary) Class(iri string) (*Class, bool) {
	c, ok := v.Classes[iri]
	return c, ok
}

// DatatypeOf returns the datatype with the given IRI.
func (v *Vocabulary) DatatypeOf(iri string) (*Datatype, bool) {
	d, ok := v.Datatypes[iri]
	return d, ok
}

// KindConflictError is returned when an IRI is declared as two different kinds.
type KindConflictError struct {
	IRI      string
	Existing Kind
	Declared Kind
}

func (e *KindConflictError) Error() string {
	return fmt.Sprintf("%s already declared as %s, cannot redeclare as %s", e.IRI, e.Existing, e.Declared)
}

// Declare adds e to the vocabulary. If an entity of the same kind and IRI
// exists, the declarations are merged and the existing entity is returned.
func (v *Vocabulary) Declare(e Entity) (Entity, error) {
	iri := e.EntityIRI()
	if existing, ok := v.Entity(iri); ok {
		if existing.EntityKind() != e.EntityKind() {
			return existing, &KindConflictError{IRI: iri, Existing: existing.EntityKind(), Declared: e.EntityKind()}
		}
		existing.base().merge(e.base())
		return existing, nil
	}
	switch t := e.(type) {
	case *Class:
		v.Classes[iri] = t
	case *ObjectProperty:
		v.ObjectProperties[iri] = t
	case *DataProperty:
		v.DataProperties[iri] = t
	case *Datatype:
		v.Datatypes[iri] = t
	case *Individual:
		v.Individuals[iri] = t
	}
	return e, nil
}

// Remove deletes the entity with the given IRI from its table.
func (v *Vocabulary) Remove(iri string) {
	delete(v.Classes, iri)
	delete(v.ObjectProperties, iri)
	delete(v.DataProperties, iri)
	delete(v.Datatypes, iri)
	delete(v.Individuals, iri)
}

// AddRelation stores r and attaches it to its class. An empty id is
// replaced by a random one.
func (v *Vocabulary) AddRelation(r *Relation) error {
	c, ok := v.Classes[r.ClassIRI]
	if !ok {
		return fmt.Errorf("relation on unknown class %s", r.ClassIRI)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	v.Relations[r.ID] = r
	c.RelationIDs, _ = appendUnique(c.RelationIDs, r.ID)
	return nil
}

// RemoveRelation deletes a relation and detaches it from its class.
func (v *Vocabulary) RemoveRelation(id string) {
	r, ok := v.Relations[id]
	if !ok {
		return
	}
	delete(v.Relations, id)
	if c, ok := v.Classes[r.ClassIRI]; ok {
		c.RelationIDs = slices.DeleteFunc(c.RelationIDs, func(x string) bool { return x == id })
	}
}

// RelationsOfClass returns the restrictions declared directly on a class.
func (v *Vocabulary) RelationsOfClass(iri string) []*Relation {
	c, ok := v.Classes[iri]
	if !ok {
		return nil
	}
	out := make([]*Relation, 0, len(c.RelationIDs))
	for _, id := range c.RelationIDs {
		if r, ok := v.Relations[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// ResetCombined drops every combined relation.
func (v *Vocabulary) ResetCombined() {
	clear(v.CombinedObjectRelations)
	clear(v.CombinedDataRelations)
	for _, c := range v.Classes {
		c.CombinedObjectRelationIDs = nil
		c.CombinedDataRelationIDs = nil
	}
}

// CombinedRelation returns the shared part of a combined relation of either kind.
func (v *Vocabulary) CombinedRelation(id string) (*CombinedRelation, bool) {
	if c, ok := v.CombinedObjectRelations[id]; ok {
		return &c.CombinedRelation, true
	}
	if c, ok := v.CombinedDataRelations[id]; ok {
		return &c.CombinedRelation, true
	}
	return nil, false
}

// LabelOf returns the label of the entity with the given IRI, or a label
// derived from the IRI if it is unknown.
func (v *Vocabulary) LabelOf(iri string) string {
	if e, ok := v.Entity(iri); ok {
		return e.GetLabel()
	}
	return owl.LocalName(iri)
}

// AncestorsOf returns the IRIs an instance of iri also counts as: the
// ancestors of a class, or the parent classes of an individual and their
// ancestors.
func (v *Vocabulary) AncestorsOf(iri string) []string {
	if c, ok := v.Classes[iri]; ok {
		return c.Ancestors
	}
	ind, ok := v.Individuals[iri]
	if !ok {
		return nil
	}
	var out []string
	for _, p := range ind.ParentClasses {
		out, _ = appendUnique(out, p)
		if c, ok := v.Classes[p]; ok {
			for _, a := range c.Ancestors {
				out, _ = appendUnique(out, a)
			}
		}
	}
	return out
}

func sortedValues[M ~map[string]V, V any](m M) []V {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// ClassList returns the classes sorted by IRI.
func (v *Vocabulary) ClassList() []*Class { return sortedValues(v.Classes) }

// ObjectPropertyList returns the object properties sorted by IRI.
func (v *Vocabulary) ObjectPropertyList() []*ObjectProperty { return sortedValues(v.ObjectProperties) }

// DataPropertyList returns the data properties sorted by IRI.
func (v *Vocabulary) DataPropertyList() []*DataProperty { return sortedValues(v.DataProperties) }

// DatatypeList returns the datatypes sorted by IRI.
func (v *Vocabulary) DatatypeList() []*Datatype { return sortedValues(v.Datatypes) }

// IndividualList returns the individuals sorted by IRI.
func (v *Vocabulary) IndividualList() []*Individual { return sortedValues(v.Individuals) }

// Entities returns every entity, grouped by kind and sorted by IRI.
func (v *Vocabulary) Entities() []Entity {
	var out []Entity
	for _, c := range v.ClassList() {
		out = append(out, c)
	}
	for _, p := range v.ObjectPropertyList() {
		out = append(out, p)
	}
	for _, p := range v.DataPropertyList() {
		out = append(out, p)
	}
	for _, d := range v.DatatypeList() {
		out = append(out, d)
	}
	for _, i := range v.IndividualList() {
		out = append(out, i)
	}
	return out
}

// EntitiesOfSource returns every entity the source declared.
func (v *Vocabulary) EntitiesOfSource(sourceID string) []Entity {
	var out []Entity
	for _, e := range v.Entities() {
		if e.base().HasSource(sourceID) {
			out = append(out, e)
		}
	}
	return out
}

// LabelNamespace groups entity kinds whose labels must be unique together.
type LabelNamespace string

const (
	NamespaceClasses    LabelNamespace = "classes"
	NamespaceProperties LabelNamespace = "properties"
	NamespaceDatatypes  LabelNamespace = "datatypes"
)

// LabelNamespaceOf returns the namespace an entity kind's label lives in.
func LabelNamespaceOf(k Kind) LabelNamespace {
	switch k {
	case KindClass, KindIndividual:
		return NamespaceClasses
	case KindObjectProperty, KindDataProperty:
		return NamespaceProperties
	default:
		return NamespaceDatatypes
	}
}

// LabelConflicts returns, per namespace, every label shared by more than
// one entity together with the IRIs sharing it.
func (v *Vocabulary) LabelConflicts() map[LabelNamespace]map[string][]string {
	byLabel := make(map[LabelNamespace]map[string][]string)
	for _, e := range v.Entities() {
		ns := LabelNamespaceOf(e.EntityKind())
		if byLabel[ns] == nil {
			byLabel[ns] = make(map[string][]string)
		}
		label := e.GetLabel()
		byLabel[ns][label] = append(byLabel[ns][label], e.EntityIRI())
	}
	out := make(map[LabelNamespace]map[string][]string)
	for ns, labels := range byLabel {
		for label, iris := range labels {
			if len(iris) < 2 {
				continue
			}
			if out[ns] == nil {
				out[ns] = make(map[string][]string)
			}
			out[ns][label] = iris
		}
	}
	return out
}

// DuplicateLabels returns the sorted labels involved in any conflict.
func (v *Vocabulary) DuplicateLabels() []string {
	var out []string
	for _, labels := range v.LabelConflicts() {
		for label := range labels {
			out, _ = appendUnique(out, label)
		}
	}
	slices.Sort(out)
	return out
}

// MarkValid marks the vocabulary as ready for code generation.
func (v *Vocabulary) MarkValid() { v.valid = true }

// MarkInvalid blocks code generation.
func (v *Vocabulary) MarkInvalid() { v.valid = false }

// IsValid reports the validity mark.
func (v *Vocabulary) IsValid() bool { return v.valid }

// Stats summarises the vocabulary contents.
type Stats struct {
	Classes                 int `json:"classes"`
	ObjectProperties        int `json:"object_properties"`
	DataProperties          int `json:"data_properties"`
	Datatypes               int `json:"datatypes"`
	Individuals             int `json:"individuals"`
	Relations               int `json:"relations"`
	CombinedObjectRelations int `json:"combined_object_relations"`
	CombinedDataRelations   int `json:"combined_data_relations"`
	Sources                 int `json:"sources"`
	UnfulfilledDependencies int `json:"unfulfilled_dependencies"`
}

// Stats counts the vocabulary contents.
func (v *Vocabulary) Stats() Stats {
	s := Stats{
		Classes:                 len(v.Classes),
		ObjectProperties:        len(v.ObjectProperties),
		DataProperties:          len(v.DataProperties),
		Datatypes:               len(v.Datatypes),
		Individuals:             len(v.Individuals),
		Relations:               len(v.Relations),
		CombinedObjectRelations: len(v.CombinedObjectRelations),
		CombinedDataRelations:   len(v.CombinedDataRelations),
		Sources:                 len(v.Sources),
	}
	for _, src := range v.Sources {
		s.UnfulfilledDependencies += len(src.UnfulfilledDependencies())
	}
	return s
}
