package owl

import "strings"

// Namespace IRIs of the description languages an ontology document is written in.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	OWL  = "http://www.w3.org/2002/07/owl#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
	XML  = "http://www.w3.org/XML/1998/namespace"
)

// Namespace is the base IRI for terms minted by semonto itself (export annotations,
// the predefined source).
const Namespace = "https://semonto.dev/ontology/"

// RDF and RDFS terms.
const (
	RDFType  = RDF + "type"
	RDFFirst = RDF + "first"
	RDFRest  = RDF + "rest"
	RDFNil   = RDF + "nil"

	RDFSClass       = RDFS + "Class"
	RDFSSubClassOf  = RDFS + "subClassOf"
	RDFSLabel       = RDFS + "label"
	RDFSComment     = RDFS + "comment"
	RDFSDatatype    = RDFS + "Datatype"
	RDFSIsDefinedBy = RDFS + "isDefinedBy"
	RDFSLiteral     = RDFS + "Literal"
)

// OWL declaration terms.
const (
	Class            = OWL + "Class"
	Thing            = OWL + "Thing"
	ObjectProperty   = OWL + "ObjectProperty"
	DatatypeProperty = OWL + "DatatypeProperty"
	NamedIndividual  = OWL + "NamedIndividual"
	Ontology         = OWL + "Ontology"
	Restriction      = OWL + "Restriction"
	InverseOf        = OWL + "inverseOf"
	EquivalentClass  = OWL + "equivalentClass"
)

// OWL class-expression combinators.
const (
	IntersectionOf = OWL + "intersectionOf"
	UnionOf        = OWL + "unionOf"
	OneOf          = OWL + "oneOf"
	ComplementOf   = OWL + "complementOf"
)

// OWL restriction clauses.
const (
	OnProperty     = OWL + "onProperty"
	SomeValuesFrom = OWL + "someValuesFrom"
	AllValuesFrom  = OWL + "allValuesFrom"
	HasValue       = OWL + "hasValue"

	MinCardinality = OWL + "minCardinality"
	MaxCardinality = OWL + "maxCardinality"
	Cardinality    = OWL + "cardinality"

	MinQualifiedCardinality = OWL + "minQualifiedCardinality"
	MaxQualifiedCardinality = OWL + "maxQualifiedCardinality"
	QualifiedCardinality    = OWL + "qualifiedCardinality"

	OnClass     = OWL + "onClass"
	OnDataRange = OWL + "onDataRange"

	OnDatatype       = OWL + "onDatatype"
	WithRestrictions = OWL + "withRestrictions"
)

// XSD datatypes and constraining facets.
const (
	XSDString             = XSD + "string"
	XSDNormalizedString   = XSD + "normalizedString"
	XSDToken              = XSD + "token"
	XSDLanguage           = XSD + "language"
	XSDName               = XSD + "Name"
	XSDNCName             = XSD + "NCName"
	XSDNMTOKEN            = XSD + "NMTOKEN"
	XSDAnyURI             = XSD + "anyURI"
	XSDHexBinary          = XSD + "hexBinary"
	XSDBase64Binary       = XSD + "base64Binary"
	XSDBoolean            = XSD + "boolean"
	XSDDecimal            = XSD + "decimal"
	XSDFloat              = XSD + "float"
	XSDDouble             = XSD + "double"
	XSDInteger            = XSD + "integer"
	XSDNonNegativeInteger = XSD + "nonNegativeInteger"
	XSDNonPositiveInteger = XSD + "nonPositiveInteger"
	XSDPositiveInteger    = XSD + "positiveInteger"
	XSDNegativeInteger    = XSD + "negativeInteger"
	XSDLong               = XSD + "long"
	XSDInt                = XSD + "int"
	XSDShort              = XSD + "short"
	XSDByte               = XSD + "byte"
	XSDUnsignedLong       = XSD + "unsignedLong"
	XSDUnsignedInt        = XSD + "unsignedInt"
	XSDUnsignedShort      = XSD + "unsignedShort"
	XSDUnsignedByte       = XSD + "unsignedByte"
	XSDDateTime           = XSD + "dateTime"
	XSDDateTimeStamp      = XSD + "dateTimeStamp"
	XSDDate               = XSD + "date"
	XSDTime               = XSD + "time"

	XSDMinInclusive   = XSD + "minInclusive"
	XSDMaxInclusive   = XSD + "maxInclusive"
	XSDMinExclusive   = XSD + "minExclusive"
	XSDMaxExclusive   = XSD + "maxExclusive"
	XSDFractionDigits = XSD + "fractionDigits"
	XSDPattern        = XSD + "pattern"
	XSDLength         = XSD + "length"
	XSDMinLength      = XSD + "minLength"
	XSDMaxLength      = XSD + "maxLength"

	OWLRational     = OWL + "rational"
	OWLReal         = OWL + "real"
	RDFPlainLiteral = RDF + "PlainLiteral"
	RDFXMLLiteral   = RDF + "XMLLiteral"
)

// ReservedNamespaces are the description-language namespaces whose terms are
// never treated as user classes. An rdf:type object in one of these namespaces
// does not make its subject an individual.
var ReservedNamespaces = []string{RDF, RDFS, OWL, XSD, XML}

// IsReserved reports whether iri belongs to one of the reserved namespaces.
func IsReserved(iri string) bool {
	for _, ns := range ReservedNamespaces {
		if strings.HasPrefix(iri, ns) {
			return true
		}
	}
	return false
}

// LocalName returns the fragment after '#', or the last path segment when the
// IRI has no fragment.
func LocalName(iri string) string {
	if i := strings.LastIndex(iri, "#"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	trimmed := strings.TrimRight(iri, "/")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Prefixes maps conventional prefixes to namespace IRIs for serialisers.
func Prefixes() map[string]string {
	return map[string]string{
		"rdf":     RDF,
		"rdfs":    RDFS,
		"owl":     OWL,
		"xsd":     XSD,
		"semonto": Namespace,
	}
}
