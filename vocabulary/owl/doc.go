// Package owl provides the IRI constants semonto recognises when reading ontology
// documents.
//
// The constants cover the subset of RDF, RDFS, OWL 2 and XML Schema that the
// document parser understands:
//   - Declarations: owl:Class, owl:ObjectProperty, owl:DatatypeProperty,
//     rdfs:Datatype, owl:NamedIndividual
//   - Hierarchy and annotations: rdfs:subClassOf, rdfs:label, rdfs:comment,
//     owl:inverseOf, rdfs:isDefinedBy
//   - Restrictions: owl:someValuesFrom, owl:allValuesFrom, owl:hasValue and the
//     plain and qualified cardinality clauses
//   - Lists: rdf:first, rdf:rest, rdf:nil
//
// # Reserved Namespaces
//
// ReservedNamespaces lists the five description-language namespaces. The
// individual discovery heuristic ignores rdf:type assertions whose object lives
// in one of them:
//
//	owl.IsReserved("http://www.w3.org/2002/07/owl#Class") // true
//	owl.IsReserved("http://example.org/home#Room")       // false
//
// # Labels
//
// LocalName derives a fallback label from an IRI when a document provides no
// rdfs:label:
//
//	owl.LocalName("http://example.org/home#Room") // "Room"
//	owl.LocalName("http://example.org/home/Room") // "Room"
package owl
