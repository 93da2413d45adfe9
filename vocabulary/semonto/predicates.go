package semonto

import (
	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/c360studio/semstreams/vocabulary"
)

// Namespace is the base IRI of the terms semonto mints for exports.
const Namespace = owl.Namespace

// ProvNamespace is the PROV-O namespace used for source provenance.
const ProvNamespace = "http://www.w3.org/ns/prov#"

// Entity predicates apply to every exported entity.
const (
	// EntityLabel is the effective label, user override included.
	EntityLabel = "semonto.entity.label"

	// EntityComment is the documentation comment.
	EntityComment = "semonto.entity.comment"

	// EntitySource names the document that declared the entity.
	EntitySource = "semonto.entity.source"
)

// Class predicates describe the resolved hierarchy and user flags.
const (
	// ClassParent is a direct parent edge.
	ClassParent = "semonto.class.parent"

	// ClassAncestor is an edge of the computed ancestor closure.
	ClassAncestor = "semonto.class.ancestor"

	// ClassDevice marks classes instantiated as devices.
	ClassDevice = "semonto.class.device"

	// ClassAgent marks classes instantiated as agents.
	ClassAgent = "semonto.class.agent"

	// ClassCombinedRelation links a class to one of its combined relations.
	ClassCombinedRelation = "semonto.class.combined_relation"
)

// Combined relation predicates.
const (
	RelationProperty       = "semonto.relation.property"
	RelationRule           = "semonto.relation.rule"
	RelationKeyInformation = "semonto.relation.key_information"
	RelationInspect        = "semonto.relation.inspect"
)

// Property predicates.
const (
	// PropertyInverse links an object property to its inverse.
	PropertyInverse = "semonto.property.inverse"

	// PropertyFieldType is the generation classification of a data property.
	// Values: simple, command, device_attribute
	PropertyFieldType = "semonto.property.field_type"
)

// IndividualClass links an individual to a class it belongs to.
const IndividualClass = "semonto.individual.class"

func init() {
	vocabulary.Register(EntityLabel,
		vocabulary.WithDescription("Effective entity label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(owl.RDFSLabel))

	vocabulary.Register(EntityComment,
		vocabulary.WithDescription("Entity documentation"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(owl.RDFSComment))

	vocabulary.Register(EntitySource,
		vocabulary.WithDescription("Document the entity was declared in"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(ProvNamespace+"wasDerivedFrom"))

	vocabulary.Register(ClassParent,
		vocabulary.WithDescription("Direct parent class"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(owl.RDFSSubClassOf))

	vocabulary.Register(ClassAncestor,
		vocabulary.WithDescription("Transitive ancestor class"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"ancestor"))

	vocabulary.Register(ClassDevice,
		vocabulary.WithDescription("Instances are devices"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(Namespace+"device"))

	vocabulary.Register(ClassAgent,
		vocabulary.WithDescription("Instances are agents"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(Namespace+"agent"))

	vocabulary.Register(ClassCombinedRelation,
		vocabulary.WithDescription("Combined relation of the class"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"combinedRelation"))

	vocabulary.Register(RelationProperty,
		vocabulary.WithDescription("Property the combined relation restricts"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"onProperty"))

	vocabulary.Register(RelationRule,
		vocabulary.WithDescription("Rendered restriction rule"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"rule"))

	vocabulary.Register(RelationKeyInformation,
		vocabulary.WithDescription("Shown as a table column"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(Namespace+"keyInformation"))

	vocabulary.Register(RelationInspect,
		vocabulary.WithDescription("Must be satisfied by instances"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(Namespace+"inspect"))

	vocabulary.Register(PropertyInverse,
		vocabulary.WithDescription("Inverse object property"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(owl.InverseOf))

	vocabulary.Register(PropertyFieldType,
		vocabulary.WithDescription("Generated field classification"),
		vocabulary.WithDataType("string"),
		vocabulary.WithRange("simple, command, device_attribute"),
		vocabulary.WithIRI(Namespace+"fieldType"))

	vocabulary.Register(IndividualClass,
		vocabulary.WithDescription("Class of the individual"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(owl.RDFType))
}

// PredicateIRI returns the IRI a predicate is exported as. Unregistered
// predicates fall back to the semonto namespace.
func PredicateIRI(predicate string) string {
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return Namespace + predicate
}
