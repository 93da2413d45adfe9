package postprocess

import (
	"cmp"
	"slices"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
)

func seedPredefined(s *State) error {
	v := s.Vocab
	if _, ok := v.Source(ontology.PredefinedSourceID); !ok {
		v.AddSource(ontology.NewPredefinedSource())
	}
	for _, d := range ontology.PredefinedDatatypes() {
		if _, err := v.Declare(d); err != nil {
			s.logOnce(ontology.PredefinedSourceID, ontology.LogWarning, d.IRI, ontology.KindDatatype,
				"built-in datatype shadowed: %v", err)
		}
	}
	return nil
}

func attachRootClass(s *State) error {
	v := s.Vocab
	if _, err := v.Declare(ontology.NewRootClass()); err != nil {
		return err
	}
	for _, c := range v.Classes {
		if c.IRI != owl.Thing && len(c.Parents) == 0 {
			c.AddParent(owl.Thing)
		}
	}
	return nil
}

func dedupeParents(s *State) error {
	for _, c := range s.Vocab.Classes {
		c.Parents = dedupe(c.Parents, c.IRI)
	}
	for _, ind := range s.Vocab.Individuals {
		ind.ParentClasses = dedupe(ind.ParentClasses, "")
	}
	return nil
}

// dedupe drops repeated values and self.
func dedupe(list []string, self string) []string {
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, v := range list {
		if v == self || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func transferSettings(s *State) error {
	if s.Previous == nil {
		return nil
	}
	n := s.Previous.Apply(s.Vocab)
	s.Logger.Debug("Transferred settings", "entries", s.Previous.Len(), "applied", n)
	return nil
}

func sanitizeLabels(s *State) error {
	for _, e := range s.Vocab.Entities() {
		b := baseOf(e)
		if b.Label != "" {
			b.Label = ontology.SanitizeLabel(b.Label)
		}
		if b.UserLabel != "" {
			b.UserLabel = ontology.SanitizeLabel(b.UserLabel)
		}
		if b.Label == "" && b.UserLabel == "" {
			// The IRI-derived label must obey the same rules.
			if derived := ontology.SanitizeLabel(b.GetLabel()); derived != b.GetLabel() {
				b.Label = derived
			}
		}
	}
	return nil
}

// baseOf returns the shared fields of an entity.
func baseOf(e ontology.Entity) *ontology.Base {
	switch t := e.(type) {
	case *ontology.Class:
		return &t.Base
	case *ontology.ObjectProperty:
		return &t.Base
	case *ontology.DataProperty:
		return &t.Base
	case *ontology.Datatype:
		return &t.Base
	case *ontology.Individual:
		return &t.Base
	}
	panic("unknown entity type")
}

func sortCombinedRelations(s *State) error {
	v := s.Vocab
	byProperty := func(ids []string) {
		slices.SortStableFunc(ids, func(a, b string) int {
			ca, _ := v.CombinedRelation(a)
			cb, _ := v.CombinedRelation(b)
			return cmp.Or(
				cmp.Compare(v.LabelOf(ca.Property), v.LabelOf(cb.Property)),
				cmp.Compare(ca.Property, cb.Property),
			)
		})
	}
	for _, c := range v.Classes {
		byProperty(c.CombinedObjectRelationIDs)
		byProperty(c.CombinedDataRelationIDs)
	}
	return nil
}

func mirrorInverses(s *State) error {
	v := s.Vocab
	for _, p := range v.ObjectPropertyList() {
		for _, inv := range p.Inverses {
			if q, ok := v.ObjectProperties[inv]; ok && q.IRI != p.IRI {
				q.AddInverse(p.IRI)
			}
		}
	}
	return nil
}
