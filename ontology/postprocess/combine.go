package postprocess

import (
	"github.com/c360studio/semonto/ontology"
)

type relationFlags struct {
	keyInformation bool
	inspect        bool
}

// combineRelations rebuilds, for every class, one combined relation per
// property over its own and inherited restrictions. Flags set on a previous
// combination survive since identifiers depend only on class and property.
func combineRelations(s *State) error {
	v := s.Vocab

	flags := make(map[string]relationFlags)
	for id, c := range v.CombinedObjectRelations {
		flags[id] = relationFlags{c.IsKeyInformation, c.Inspect}
	}
	for id, c := range v.CombinedDataRelations {
		flags[id] = relationFlags{c.IsKeyInformation, c.Inspect}
	}
	v.ResetCombined()

	for _, c := range v.ClassList() {
		var properties []string
		byProperty := make(map[string][]string)
		for _, owner := range append([]string{c.IRI}, c.Ancestors...) {
			for _, r := range v.RelationsOfClass(owner) {
				if _, seen := byProperty[r.Property]; !seen {
					properties = append(properties, r.Property)
				}
				byProperty[r.Property] = append(byProperty[r.Property], r.ID)
			}
		}

		for _, property := range properties {
			kind, _ := v.KindOf(property)
			switch kind {
			case ontology.KindObjectProperty:
				cr := ontology.NewCombinedObjectRelation(c.IRI, property)
				fill(&cr.CombinedRelation, byProperty[property], flags)
				v.CombinedObjectRelations[cr.ID] = cr
				c.CombinedObjectRelationIDs = append(c.CombinedObjectRelationIDs, cr.ID)
			case ontology.KindDataProperty:
				cr := ontology.NewCombinedDataRelation(c.IRI, property)
				fill(&cr.CombinedRelation, byProperty[property], flags)
				v.CombinedDataRelations[cr.ID] = cr
				c.CombinedDataRelationIDs = append(c.CombinedDataRelationIDs, cr.ID)
			default:
				s.Logger.Debug("Skipping restrictions on non-property", "class", c.IRI, "property", property)
			}
		}
	}
	return nil
}

func fill(cr *ontology.CombinedRelation, relationIDs []string, flags map[string]relationFlags) {
	cr.RelationIDs = relationIDs
	if f, ok := flags[cr.ID]; ok {
		cr.IsKeyInformation = f.keyInformation
		cr.Inspect = f.inspect
	}
}
