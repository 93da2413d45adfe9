// Package ontology holds the in-memory model of a merged ontology: the five
// entity kinds, restrictions and their target expressions, combined
// restrictions, source provenance records and the Vocabulary that owns them.
//
// # Entities
//
// Class, ObjectProperty, DataProperty, Datatype and Individual all embed Base
// and satisfy the closed Entity interface. A Vocabulary keeps one typed map
// per kind; Vocabulary.KindOf and Vocabulary.Entity resolve an IRI by probing
// those maps, so there is no separate identifier index to keep in sync.
// Entities refer to each other by IRI only.
//
// # Restrictions
//
// A Relation restricts one property of one class. Its TargetStatement is an
// and/or tree over class, datatype and individual IRIs (or literal values for
// value restrictions). Normalize turns a tree into disjunctive normal form:
//
//	stmt := ontology.And(
//	    ontology.Or(ontology.Leaf(room), ontology.Leaf(garden)),
//	    ontology.Leaf(sensor),
//	)
//	stmt.Normalize() // [[room sensor] [garden sensor]]
//
// All restrictions of a class on the same property, own or inherited, are
// grouped into one combined relation whose id is derived from the class and
// property IRIs. The id is the same in every rebuild, which is what lets
// Settings follow a combined relation across rebuilds.
//
// # Settings
//
// User choices (label overrides, device and agent classes, key information,
// inspect flags and data field types) are captured with ExtractSettings and
// written back onto a rebuilt vocabulary with Settings.Apply.
package ontology
