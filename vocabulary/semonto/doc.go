// Package semonto registers the predicates used when exporting a resolved
// vocabulary as RDF.
//
// Predicates use the semstreams dotted notation (domain.category.property)
// and are registered in init() with their export IRIs. Where a standard term
// exists the predicate maps to it:
//
//	semonto.entity.label      → rdfs:label
//	semonto.entity.source     → prov:wasDerivedFrom
//	semonto.class.parent      → rdfs:subClassOf
//	semonto.property.inverse  → owl:inverseOf
//
// Derived data without a standard term, such as the ancestor closure or the
// combined relations of a class, lives in the semonto namespace:
//
//	semonto.PredicateIRI(semonto.ClassAncestor) // "https://semonto.dev/ontology/ancestor"
package semonto
