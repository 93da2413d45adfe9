package postprocess

import (
	"slices"

	"github.com/c360studio/semonto/ontology"
)

// computeAncestors replaces every class's ancestor list with the transitive
// closure of its parent edges, in breadth-first order. A class reachable from
// itself is logged and excluded from its own closure.
func computeAncestors(s *State) error {
	v := s.Vocab
	for _, c := range v.ClassList() {
		visited := map[string]bool{c.IRI: true}
		queue := slices.Clone(c.Parents)
		var ancestors []string
		cyclic := false
		for len(queue) > 0 {
			iri := queue[0]
			queue = queue[1:]
			if iri == c.IRI {
				cyclic = true
				continue
			}
			if visited[iri] {
				continue
			}
			visited[iri] = true
			ancestors = append(ancestors, iri)
			if parent, ok := v.Classes[iri]; ok {
				queue = append(queue, parent.Parents...)
			}
		}
		c.Ancestors = ancestors

		if cyclic {
			for _, id := range c.SourceIDs {
				s.logOnce(id, ontology.LogWarning, c.IRI, ontology.KindClass,
					"class is its own ancestor, hierarchy cycle")
			}
		}
	}
	return nil
}

func computeDescendants(s *State) error {
	v := s.Vocab
	for _, c := range v.Classes {
		c.Descendants = nil
	}
	for _, c := range v.ClassList() {
		for _, a := range c.Ancestors {
			if ancestor, ok := v.Classes[a]; ok {
				ancestor.Descendants = append(ancestor.Descendants, c.IRI)
			}
		}
	}
	return nil
}
