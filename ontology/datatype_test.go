package ontology

import (
	"testing"

	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatatypeIsValidValue(t *testing.T) {
	get := func(iri string) *Datatype {
		t.Helper()
		d, ok := PredefinedDatatype(iri)
		require.True(t, ok, iri)
		return d
	}

	tests := []struct {
		name  string
		dt    *Datatype
		value string
		want  bool
	}{
		{"string accepts anything", get(owl.XSDString), "Grüße!", true},
		{"ncname rejects colon", get(owl.XSDNCName), "a:b", false},
		{"hex binary", get(owl.XSDHexBinary), "0fA9", true},
		{"hex binary rejects g", get(owl.XSDHexBinary), "0g", false},
		{"integer", get(owl.XSDInteger), "-17", true},
		{"integer rejects decimal", get(owl.XSDInteger), "1.5", false},
		{"integer rejects text", get(owl.XSDInteger), "ten", false},
		{"decimal", get(owl.XSDDecimal), "1.5", true},
		{"positive rejects zero", get(owl.XSDPositiveInteger), "0", false},
		{"unsigned byte upper bound", get(owl.XSDUnsignedByte), "255", true},
		{"unsigned byte overflow", get(owl.XSDUnsignedByte), "256", false},
		{"boolean", get(owl.XSDBoolean), "true", true},
		{"boolean rejects yes", get(owl.XSDBoolean), "yes", false},
		{"date", get(owl.XSDDate), "2024-03-01", true},
		{"datetime", get(owl.XSDDateTime), "2024-03-01T10:00:00Z", true},
		{"date rejects garbage", get(owl.XSDDate), "not a date", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.dt.IsValidValue(tc.value))
		})
	}
}

func TestCustomNumberRange(t *testing.T) {
	d := NewDatatype("urn:Percent")
	d.Type = DatatypeNumber
	d.NumberDecimalAllowed = true
	d.SetRange(0, 100)

	assert.True(t, d.IsValidValue("0"))
	assert.True(t, d.IsValidValue("99.5"))
	assert.False(t, d.IsValidValue("100.1"))
	assert.False(t, d.IsValidValue("-1"))
	assert.Equal(t, map[string]any{
		"type":                   "number",
		"number_range_min":       0.0,
		"number_range_max":       100.0,
		"number_decimal_allowed": true,
	}, d.Constraints())
}

func TestPredefinedCatalog(t *testing.T) {
	all := PredefinedDatatypes()
	assert.GreaterOrEqual(t, len(all), 30)

	seen := make(map[string]bool)
	for _, d := range all {
		assert.False(t, seen[d.IRI], "duplicate %s", d.IRI)
		seen[d.IRI] = true
		assert.True(t, d.Predefined)
		assert.Equal(t, []string{PredefinedSourceID}, d.SourceIDs)
	}

	// Instances are independent.
	a, _ := PredefinedDatatype(owl.XSDString)
	b, _ := PredefinedDatatype(owl.XSDString)
	a.SetUserLabel("Text")
	assert.Empty(t, b.UserLabel)
}
