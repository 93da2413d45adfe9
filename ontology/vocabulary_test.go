package ontology

import (
	"errors"
	"testing"

	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareMerges(t *testing.T) {
	v := NewVocabulary("test")

	first := NewClass("urn:Room")
	first.AddSource("s1")
	_, err := v.Declare(first)
	require.NoError(t, err)

	second := NewClass("urn:Room")
	second.Label = "Room"
	second.Comment = "a room"
	second.AddSource("s2")
	got, err := v.Declare(second)
	require.NoError(t, err)

	assert.Same(t, first, got)
	assert.Equal(t, "Room", first.Label)
	assert.Equal(t, []string{"s1", "s2"}, first.SourceIDs)
	assert.Len(t, v.Classes, 1)
}

func TestDeclareKindConflict(t *testing.T) {
	v := NewVocabulary("test")
	_, err := v.Declare(NewClass("urn:x"))
	require.NoError(t, err)

	_, err = v.Declare(NewDataProperty("urn:x"))
	var conflict *KindConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, KindClass, conflict.Existing)
	assert.Equal(t, KindDataProperty, conflict.Declared)
}

func TestKindOf(t *testing.T) {
	v := NewVocabulary("test")
	v.Declare(NewClass("urn:c"))
	v.Declare(NewObjectProperty("urn:op"))
	v.Declare(NewDataProperty("urn:dp"))
	v.Declare(NewDatatype("urn:dt"))
	v.Declare(NewIndividual("urn:i"))

	for iri, want := range map[string]Kind{
		"urn:c":  KindClass,
		"urn:op": KindObjectProperty,
		"urn:dp": KindDataProperty,
		"urn:dt": KindDatatype,
		"urn:i":  KindIndividual,
	} {
		got, ok := v.KindOf(iri)
		assert.True(t, ok, iri)
		assert.Equal(t, want, got, iri)
	}

	v.Remove("urn:op")
	_, ok := v.KindOf("urn:op")
	assert.False(t, ok)
}

func TestRelations(t *testing.T) {
	v := NewVocabulary("test")
	v.Declare(NewClass("urn:Room"))

	r := &Relation{Type: RestrictionSome, Cardinality: NoCardinality, Property: "urn:has", Target: Leaf("urn:Sensor"), ClassIRI: "urn:Room"}
	require.NoError(t, v.AddRelation(r))
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, []*Relation{r}, v.RelationsOfClass("urn:Room"))

	v.RemoveRelation(r.ID)
	assert.Empty(t, v.RelationsOfClass("urn:Room"))
	assert.Empty(t, v.Relations)

	err := v.AddRelation(&Relation{ClassIRI: "urn:Missing"})
	assert.Error(t, err)
}

func TestLabelConflicts(t *testing.T) {
	v := NewVocabulary("test")
	room := NewClass("urn:a#Room")
	v.Declare(room)
	v.Declare(NewIndividual("urn:b#Room"))
	v.Declare(NewDataProperty("urn:a#Room2"))
	prop := NewObjectProperty("urn:b#other")
	prop.Label = "Room2"
	v.Declare(prop)
	v.Declare(NewDatatype("urn:c#Room"))

	conflicts := v.LabelConflicts()
	assert.ElementsMatch(t, []string{"urn:a#Room", "urn:b#Room"}, conflicts[NamespaceClasses]["Room"])
	assert.ElementsMatch(t, []string{"urn:a#Room2", "urn:b#other"}, conflicts[NamespaceProperties]["Room2"])
	assert.NotContains(t, conflicts, NamespaceDatatypes)
	assert.Equal(t, []string{"Room", "Room2"}, v.DuplicateLabels())

	room.SetUserLabel("Chamber")
	assert.NotContains(t, v.LabelConflicts(), NamespaceClasses)
}

func TestAncestorsOfIndividual(t *testing.T) {
	v := NewVocabulary("test")
	kitchen := NewClass("urn:Kitchen")
	kitchen.Ancestors = []string{"urn:Room", owl.Thing}
	v.Declare(kitchen)
	ind := NewIndividual("urn:myKitchen")
	ind.AddParentClass("urn:Kitchen")
	v.Declare(ind)

	assert.Equal(t, []string{"urn:Kitchen", "urn:Room", owl.Thing}, v.AncestorsOf("urn:myKitchen"))
	assert.Nil(t, v.AncestorsOf("urn:unknown"))
}

func TestGetLabel(t *testing.T) {
	c := NewClass("http://example.org/onto#SmartPlug")
	assert.Equal(t, "SmartPlug", c.GetLabel())

	c.Label = "Smart Plug"
	assert.Equal(t, "Smart Plug", c.GetLabel())

	c.SetUserLabel("Plug")
	assert.Equal(t, "Plug", c.GetLabel())
	assert.Equal(t, "Smart Plug", c.OriginalLabel())
}

func TestValidityMark(t *testing.T) {
	v := NewVocabulary("test")
	assert.True(t, v.IsValid())
	v.MarkInvalid()
	assert.False(t, v.IsValid())
	v.MarkValid()
	assert.True(t, v.IsValid())
}

func TestIsIoTClass(t *testing.T) {
	v := NewVocabulary("test")
	c := NewClass("urn:Lamp")
	v.Declare(c)
	p := NewDataProperty("urn:brightness")
	v.Declare(p)

	cr := NewCombinedDataRelation(c.IRI, p.IRI)
	v.CombinedDataRelations[cr.ID] = cr
	c.CombinedDataRelationIDs = append(c.CombinedDataRelationIDs, cr.ID)

	assert.False(t, c.IsIoTClass(v))
	p.FieldType = FieldCommand
	assert.True(t, c.IsIoTClass(v))
	p.FieldType = FieldDeviceAttribute
	assert.True(t, c.IsIoTClass(v))
}
