package postprocess

import (
	"slices"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
)

func isClass(k ontology.Kind) bool { return k == ontology.KindClass }

func isProperty(k ontology.Kind) bool {
	return k == ontology.KindObjectProperty || k == ontology.KindDataProperty
}

func isTarget(k ontology.Kind) bool {
	return k == ontology.KindClass || k == ontology.KindDatatype || k == ontology.KindIndividual
}

// reference is one edge from an owner to an IRI it depends on.
type reference struct {
	typ       ontology.DependencyType
	owner     string
	ownerKind ontology.Kind
	sources   []string
	target    string
	accepts   func(ontology.Kind) bool
}

// resolveDependencies checks every parent, property and target reference.
// References to entities of another source are recorded on the owner's
// sources; unresolved references are removed from the model.
func resolveDependencies(s *State) error {
	v := s.Vocab

	for _, c := range v.ClassList() {
		for _, parent := range slices.Clone(c.Parents) {
			ref := reference{
				typ:       ontology.DependencyParentClass,
				owner:     c.IRI,
				ownerKind: ontology.KindClass,
				sources:   c.SourceIDs,
				target:    parent,
				accepts:   isClass,
			}
			if !s.resolve(ref) {
				c.RemoveParent(parent)
			}
		}
		if len(c.Parents) == 0 && c.IRI != owl.Thing {
			c.AddParent(owl.Thing)
		}
	}

	for _, ind := range v.IndividualList() {
		for _, parent := range slices.Clone(ind.ParentClasses) {
			ref := reference{
				typ:       ontology.DependencyIndividualParent,
				owner:     ind.IRI,
				ownerKind: ontology.KindIndividual,
				sources:   ind.SourceIDs,
				target:    parent,
				accepts:   isClass,
			}
			if !s.resolve(ref) {
				ind.ParentClasses = slices.DeleteFunc(ind.ParentClasses, func(p string) bool { return p == parent })
			}
		}
	}

	ids := make([]string, 0, len(v.Relations))
	for id := range v.Relations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		r := v.Relations[id]
		if _, ok := v.Classes[r.ClassIRI]; !ok {
			v.RemoveRelation(id)
			continue
		}
		sources := []string{r.SourceID}
		ok := s.resolve(reference{
			typ:       ontology.DependencyProperty,
			owner:     r.ClassIRI,
			ownerKind: ontology.KindClass,
			sources:   sources,
			target:    r.Property,
			accepts:   isProperty,
		})
		for _, target := range r.Targets() {
			ok = s.resolve(reference{
				typ:       ontology.DependencyTarget,
				owner:     r.ClassIRI,
				ownerKind: ontology.KindClass,
				sources:   sources,
				target:    target,
				accepts:   isTarget,
			}) && ok
		}
		if !ok {
			v.RemoveRelation(id)
		}
	}
	return nil
}

// resolve reports whether ref points at an entity of an accepted kind. Built-in
// entities and entities sharing a source with the owner produce no statement.
func (s *State) resolve(ref reference) bool {
	e, exists := s.Vocab.Entity(ref.target)
	fulfilled := exists && ref.accepts(e.EntityKind())

	local := false
	if exists {
		if b := baseOf(e); b.Predefined {
			local = true
		} else {
			for _, id := range ref.sources {
				if b.HasSource(id) {
					local = true
					break
				}
			}
		}
	}

	for _, id := range ref.sources {
		src, ok := s.Vocab.Source(id)
		if !ok || src.Predefined {
			continue
		}
		if !local {
			src.AddDependency(ontology.DependencyStatement{
				Type:       ref.typ,
				Owner:      ref.owner,
				Dependency: ref.target,
				Fulfilled:  fulfilled,
			})
		}
		if !fulfilled {
			if exists {
				s.logOnce(id, ontology.LogWarning, ref.owner, ref.ownerKind,
					"%s reference to %s removed: it is a %s", ref.typ, ref.target, e.EntityKind())
			} else {
				s.logOnce(id, ontology.LogWarning, ref.owner, ref.ownerKind,
					"unresolved %s reference to %s removed", ref.typ, ref.target)
			}
		}
	}
	return fulfilled
}
