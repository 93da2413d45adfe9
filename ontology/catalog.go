package ontology

import (
	"math"

	"github.com/c360studio/semonto/vocabulary/owl"
)

// PredefinedSourceID is the id of the source that owns the built-in
// datatypes and the root class.
const PredefinedSourceID = "predefined"

// PredefinedSourceName is the display name of the predefined source.
const PredefinedSourceName = "Predefined"

type datatypeSpec struct {
	iri   string
	build func(d *Datatype)
}

func stringType(forbidden ...string) func(*Datatype) {
	return func(d *Datatype) {
		d.Type = DatatypeString
		d.AllowNonASCII = true
		d.ForbiddenChars = forbidden
	}
}

func asciiType(allowed string) func(*Datatype) {
	return func(d *Datatype) {
		d.Type = DatatypeString
		d.AllowNonASCII = false
		for _, r := range allowed {
			d.AllowedChars = append(d.AllowedChars, string(r))
		}
	}
}

func decimalType() func(*Datatype) {
	return func(d *Datatype) {
		d.Type = DatatypeNumber
		d.NumberDecimalAllowed = true
	}
}

func integerType(lower, upper float64) func(*Datatype) {
	return func(d *Datatype) {
		d.Type = DatatypeNumber
		d.NumberDecimalAllowed = false
		if !math.IsInf(lower, -1) {
			d.NumberRangeMin = &lower
		}
		if !math.IsInf(upper, 1) {
			d.NumberRangeMax = &upper
		}
	}
}

func dateType() func(*Datatype) {
	return func(d *Datatype) { d.Type = DatatypeDate }
}

func enumType(values ...string) func(*Datatype) {
	return func(d *Datatype) {
		d.Type = DatatypeEnum
		d.EnumValues = values
	}
}

const (
	hexDigits    = "0123456789abcdefABCDEF"
	base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="
)

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

var predefinedDatatypes = []datatypeSpec{
	{owl.XSDString, stringType()},
	{owl.XSDNormalizedString, stringType("\n", "\r", "\t")},
	{owl.XSDToken, stringType("\n", "\r", "\t")},
	{owl.XSDLanguage, stringType(" ", "\n", "\r", "\t")},
	{owl.XSDName, stringType(" ", "\n", "\r", "\t")},
	{owl.XSDNCName, stringType(" ", ":", "\n", "\r", "\t")},
	{owl.XSDNMTOKEN, stringType(" ", "\n", "\r", "\t")},
	{owl.XSDAnyURI, stringType(" ", "\n", "\r", "\t")},
	{owl.XSDHexBinary, asciiType(hexDigits)},
	{owl.XSDBase64Binary, asciiType(base64Digits)},
	{owl.RDFPlainLiteral, stringType()},
	{owl.RDFXMLLiteral, stringType()},
	{owl.RDFSLiteral, stringType()},

	{owl.XSDBoolean, enumType("true", "false")},

	{owl.XSDDecimal, decimalType()},
	{owl.XSDFloat, decimalType()},
	{owl.XSDDouble, decimalType()},
	{owl.OWLReal, decimalType()},
	{owl.OWLRational, decimalType()},

	{owl.XSDInteger, integerType(negInf, posInf)},
	{owl.XSDNonNegativeInteger, integerType(0, posInf)},
	{owl.XSDNonPositiveInteger, integerType(negInf, 0)},
	{owl.XSDPositiveInteger, integerType(1, posInf)},
	{owl.XSDNegativeInteger, integerType(negInf, -1)},
	{owl.XSDLong, integerType(math.MinInt64, math.MaxInt64)},
	{owl.XSDInt, integerType(math.MinInt32, math.MaxInt32)},
	{owl.XSDShort, integerType(math.MinInt16, math.MaxInt16)},
	{owl.XSDByte, integerType(math.MinInt8, math.MaxInt8)},
	{owl.XSDUnsignedLong, integerType(0, math.MaxUint64)},
	{owl.XSDUnsignedInt, integerType(0, math.MaxUint32)},
	{owl.XSDUnsignedShort, integerType(0, math.MaxUint16)},
	{owl.XSDUnsignedByte, integerType(0, math.MaxUint8)},

	{owl.XSDDateTime, dateType()},
	{owl.XSDDateTimeStamp, dateType()},
	{owl.XSDDate, dateType()},
	{owl.XSDTime, dateType()},
}

// PredefinedDatatypes returns fresh instances of the built-in datatype
// catalog, owned by the predefined source.
func PredefinedDatatypes() []*Datatype {
	out := make([]*Datatype, 0, len(predefinedDatatypes))
	for _, spec := range predefinedDatatypes {
		out = append(out, newPredefinedDatatype(spec))
	}
	return out
}

// PredefinedDatatype returns a fresh instance of one catalog datatype.
func PredefinedDatatype(iri string) (*Datatype, bool) {
	for _, spec := range predefinedDatatypes {
		if spec.iri == iri {
			return newPredefinedDatatype(spec), true
		}
	}
	return nil, false
}

// IsPredefinedDatatype reports whether iri names a catalog datatype.
func IsPredefinedDatatype(iri string) bool {
	for _, spec := range predefinedDatatypes {
		if spec.iri == iri {
			return true
		}
	}
	return false
}

func newPredefinedDatatype(spec datatypeSpec) *Datatype {
	d := NewDatatype(spec.iri)
	d.Label = owl.LocalName(spec.iri)
	d.Predefined = true
	d.AddSource(PredefinedSourceID)
	spec.build(d)
	return d
}

// NewRootClass returns the universal root class owned by the predefined source.
func NewRootClass() *Class {
	c := NewClass(owl.Thing)
	c.Label = "Thing"
	c.Predefined = true
	c.AddSource(PredefinedSourceID)
	return c
}
