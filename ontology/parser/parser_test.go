package parser

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/c360studio/semonto/ontology"
	sourceparser "github.com/c360studio/semonto/source/parser"
	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = "http://example.org/home#"

// doc builds N-Triples fixtures.
type doc struct{ b strings.Builder }

func (d *doc) add(s, p, o string) *doc {
	fmt.Fprintf(&d.b, "%s %s %s .\n", s, p, o)
	return d
}

func (d *doc) String() string { return d.b.String() }

func u(iri string) string { return "<" + iri + ">" }
func ex(local string) string { return u(ns + local) }
func lit(v string) string { return strconv.Quote(v) }
func blank(id string) string { return "_:" + id }
func typed(v, dt string) string { return strconv.Quote(v) + "^^" + u(dt) }

// list appends an RDF collection and returns its head.
func (d *doc) list(prefix string, members ...string) string {
	if len(members) == 0 {
		return u(owl.RDFNil)
	}
	for i, m := range members {
		cell := blank(fmt.Sprintf("%s%d", prefix, i))
		d.add(cell, u(owl.RDFFirst), m)
		next := u(owl.RDFNil)
		if i < len(members)-1 {
			next = blank(fmt.Sprintf("%s%d", prefix, i+1))
		}
		d.add(cell, u(owl.RDFRest), next)
	}
	return blank(prefix + "0")
}

func (d *doc) class(local string) *doc {
	return d.add(ex(local), u(owl.RDFType), u(owl.Class))
}

func (d *doc) objectProperty(local string) *doc {
	return d.add(ex(local), u(owl.RDFType), u(owl.ObjectProperty))
}

func (d *doc) dataProperty(local string) *doc {
	return d.add(ex(local), u(owl.RDFType), u(owl.DatatypeProperty))
}

func (d *doc) subClassOf(child, parent string) *doc {
	return d.add(ex(child), u(owl.RDFSSubClassOf), parent)
}

// restriction adds an anonymous restriction node as a superclass of class.
func (d *doc) restriction(class, id, property string, clauses ...[2]string) *doc {
	node := blank(id)
	d.add(node, u(owl.RDFType), u(owl.Restriction))
	if property != "" {
		d.add(node, u(owl.OnProperty), ex(property))
	}
	for _, c := range clauses {
		d.add(node, u(c[0]), c[1])
	}
	return d.subClassOf(class, node)
}

func parse(t *testing.T, v *ontology.Vocabulary, name, content string) *ontology.Source {
	t.Helper()
	g, err := sourceparser.DefaultRegistry.Decode(name+".nt", "", []byte(content))
	require.NoError(t, err)
	src := ontology.NewSource(name, content, "ntriples")
	require.NoError(t, New().Parse(src, g, v))
	return src
}

func hasLog(src *ontology.Source, level ontology.LogLevel, substr string) bool {
	for _, e := range src.Log {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestParseDeclarations(t *testing.T) {
	d := &doc{}
	d.class("Room").
		add(ex("Room"), u(owl.RDFSLabel), lit("Room")).
		add(ex("Room"), u(owl.RDFSComment), `"Ein Raum"@de`).
		add(ex("Room"), u(owl.RDFSComment), `"A room"@en`).
		class("Kitchen").
		subClassOf("Kitchen", ex("Room")).
		objectProperty("hasSensor").
		objectProperty("isSensorOf").
		add(ex("isSensorOf"), u(owl.InverseOf), ex("hasSensor")).
		dataProperty("temperature").
		add(u(owl.Thing), u(owl.RDFType), u(owl.Class))

	v := ontology.NewVocabulary("test")
	src := parse(t, v, "home", d.String())

	require.Contains(t, v.Classes, ns+"Room")
	room := v.Classes[ns+"Room"]
	assert.Equal(t, "Room", room.Label)
	assert.Equal(t, "A room", room.Comment)
	assert.Equal(t, []string{src.ID}, room.SourceIDs)
	assert.Equal(t, []string{ns + "Room"}, v.Classes[ns+"Kitchen"].Parents)

	assert.Contains(t, v.ObjectProperties, ns+"hasSensor")
	assert.Equal(t, []string{ns + "hasSensor"}, v.ObjectProperties[ns+"isSensorOf"].Inverses)
	assert.Equal(t, ontology.FieldSimple, v.DataProperties[ns+"temperature"].FieldType)

	assert.NotContains(t, v.Classes, owl.Thing, "built-in terms are not redeclared")
	assert.Empty(t, src.Log)
}

func TestParseDefinedElsewhere(t *testing.T) {
	d := &doc{}
	d.add(u("http://example.org/home"), u(owl.RDFType), u(owl.Ontology)).
		class("Room").
		add(ex("Room"), u(owl.RDFSIsDefinedBy), u("http://example.org/home")).
		class("Device").
		add(ex("Device"), u(owl.RDFSIsDefinedBy), u("http://example.org/devices"))

	v := ontology.NewVocabulary("test")
	src := parse(t, v, "home", d.String())

	assert.Contains(t, v.Classes, ns+"Room")
	assert.NotContains(t, v.Classes, ns+"Device")
	assert.True(t, hasLog(src, ontology.LogInfo, "defined elsewhere"))
}

func TestParseRestrictions(t *testing.T) {
	d := &doc{}
	d.class("Room").class("Sensor").class("Actuator").
		objectProperty("hasDevice").
		dataProperty("area")

	d.restriction("Room", "r1", "hasDevice", [2]string{owl.SomeValuesFrom, ex("Sensor")})
	d.restriction("Room", "r2", "hasDevice", [2]string{owl.AllValuesFrom,
		blank("u1")})
	d.add(blank("u1"), u(owl.UnionOf), d.list("l", ex("Sensor"), ex("Actuator")))
	d.restriction("Room", "r3", "area", [2]string{owl.MaxQualifiedCardinality, typed("1", owl.XSDNonNegativeInteger)},
		[2]string{owl.OnDataRange, u(owl.XSDDecimal)})
	d.restriction("Room", "r4", "hasDevice", [2]string{owl.MinCardinality, typed("2", owl.XSDNonNegativeInteger)})
	d.restriction("Room", "r5", "area", [2]string{owl.Cardinality, typed("1", owl.XSDNonNegativeInteger)})
	d.restriction("Room", "r6", "area", [2]string{owl.HasValue, lit("12")})

	v := ontology.NewVocabulary("test")
	src := parse(t, v, "home", d.String())
	assert.Empty(t, src.Log)

	rels := v.RelationsOfClass(ns + "Room")
	require.Len(t, rels, 6)

	byType := make(map[ontology.RestrictionType][]*ontology.Relation)
	for _, r := range rels {
		assert.Equal(t, src.ID, r.SourceID)
		byType[r.Type] = append(byType[r.Type], r)
	}

	some := byType[ontology.RestrictionSome][0]
	assert.Equal(t, ns+"hasDevice", some.Property)
	assert.Equal(t, [][]string{{ns + "Sensor"}}, some.Target.Normalize())

	only := byType[ontology.RestrictionOnly][0]
	assert.Equal(t, [][]string{{ns + "Sensor"}, {ns + "Actuator"}}, only.Target.Normalize())

	atMost := byType[ontology.RestrictionMax][0]
	assert.Equal(t, 1, atMost.Cardinality)
	assert.Equal(t, owl.XSDDecimal, atMost.Target.TargetIRI)

	atLeast := byType[ontology.RestrictionMin][0]
	assert.Equal(t, 2, atLeast.Cardinality)
	assert.Equal(t, owl.XSDString, atLeast.Target.TargetIRI, "unqualified cardinality targets xsd:string")

	exactly := byType[ontology.RestrictionExactly][0]
	assert.Equal(t, owl.XSDString, exactly.Target.TargetIRI)

	value := byType[ontology.RestrictionValue][0]
	assert.True(t, value.Target.IsData)
	assert.Equal(t, "12", value.Target.TargetData)
}

func TestUnqualifiedCardinalityIgnoresSourceOrder(t *testing.T) {
	properties := (&doc{}).objectProperty("hasPart").String()
	d := &doc{}
	d.class("Room").restriction("Room", "r", "hasPart",
		[2]string{owl.MinCardinality, typed("1", owl.XSDNonNegativeInteger)})
	classes := d.String()

	for _, order := range [][2]string{{"properties", "classes"}, {"classes", "properties"}} {
		t.Run(order[0]+" first", func(t *testing.T) {
			docs := map[string]string{"properties": properties, "classes": classes}
			v := ontology.NewVocabulary("test")
			for _, name := range order {
				parse(t, v, name, docs[name])
			}
			rels := v.RelationsOfClass(ns + "Room")
			require.Len(t, rels, 1)
			assert.Equal(t, owl.XSDString, rels[0].Target.TargetIRI)
		})
	}
}

func TestParseLiteralTargetNode(t *testing.T) {
	d := &doc{}
	d.class("Room").dataProperty("area")
	d.add(blank("dt"), u(owl.RDFType), u(owl.RDFSDatatype)).
		add(blank("dt"), u(owl.OnDatatype), u(owl.XSDInteger))
	d.restriction("Room", "r", "area", [2]string{owl.SomeValuesFrom, blank("dt")})

	v := ontology.NewVocabulary("test")
	src := parse(t, v, "home", d.String())

	rels := v.RelationsOfClass(ns + "Room")
	require.Len(t, rels, 1)
	target := rels[0].Target
	assert.Equal(t, ontology.StatementLeaf, target.Type)
	assert.True(t, target.IsData)
	assert.NotEmpty(t, target.TargetData)
	assert.True(t, hasLog(src, ontology.LogInfo, "kept as a literal value"))
	assert.Zero(t, src.CountLog(ontology.LogWarning))
}

func TestParseIntersectionSuperclass(t *testing.T) {
	d := &doc{}
	d.class("Room").class("Kitchen").class("Sensor").objectProperty("hasDevice")
	d.add(blank("r"), u(owl.RDFType), u(owl.Restriction)).
		add(blank("r"), u(owl.OnProperty), ex("hasDevice")).
		add(blank("r"), u(owl.SomeValuesFrom), ex("Sensor"))
	d.add(blank("i"), u(owl.IntersectionOf), d.list("l", ex("Room"), blank("r")))
	d.add(ex("Kitchen"), u(owl.EquivalentClass), blank("i"))

	v := ontology.NewVocabulary("test")
	parse(t, v, "home", d.String())

	kitchen := v.Classes[ns+"Kitchen"]
	assert.Equal(t, []string{ns + "Room"}, kitchen.Parents)
	require.Len(t, v.RelationsOfClass(ns+"Kitchen"), 1)
}

func TestParseRejectedConstructs(t *testing.T) {
	d := &doc{}
	d.class("Room").class("A").class("B").objectProperty("p")

	// Union of restrictions as a superclass.
	d.add(blank("u"), u(owl.UnionOf), d.list("l", ex("A"), ex("B")))
	d.subClassOf("Room", blank("u"))
	// Enumeration as a superclass.
	d.add(blank("e"), u(owl.OneOf), d.list("m", ex("A")))
	d.subClassOf("Room", blank("e"))
	// Restriction without property.
	d.restriction("Room", "np", "", [2]string{owl.SomeValuesFrom, ex("A")})
	// Restriction without a clause.
	d.restriction("Room", "nc", "p")
	// Malformed list.
	d.add(blank("bad"), u(owl.IntersectionOf), blank("cell"))
	d.add(blank("cell"), u(owl.RDFFirst), ex("A"))
	d.subClassOf("Room", blank("bad"))

	v := ontology.NewVocabulary("test")
	src := parse(t, v, "home", d.String())

	assert.Empty(t, v.RelationsOfClass(ns+"Room"))
	assert.True(t, hasLog(src, ontology.LogCritical, "union"))
	assert.True(t, hasLog(src, ontology.LogCritical, "enumeration"))
	assert.True(t, hasLog(src, ontology.LogCritical, "without a named owl:onProperty"))
	assert.True(t, hasLog(src, ontology.LogCritical, "unrecognized restriction clause"))
	assert.True(t, hasLog(src, ontology.LogCritical, "malformed rdf list"))
	assert.Equal(t, 5, src.CountLog(ontology.LogCritical))
	for _, e := range src.Log {
		assert.Equal(t, ns+"Room", e.EntityIRI)
	}
}

func TestParseDatatypes(t *testing.T) {
	d := &doc{}
	dt := func(local string) *doc { return d.add(ex(local), u(owl.RDFType), u(owl.RDFSDatatype)) }

	dt("Percent")
	d.add(blank("pr"), u(owl.OnDatatype), u(owl.XSDInteger))
	d.add(blank("f1"), u(owl.XSDMinInclusive), typed("0", owl.XSDInteger))
	d.add(blank("f2"), u(owl.XSDMaxExclusive), typed("101", owl.XSDInteger))
	d.add(blank("pr"), u(owl.WithRestrictions), d.list("fl", blank("f1"), blank("f2")))
	d.add(ex("Percent"), u(owl.EquivalentClass), blank("pr"))

	dt("Mode")
	d.add(blank("en"), u(owl.OneOf), d.list("ml", lit("eco"), lit("boost")))
	d.add(ex("Mode"), u(owl.EquivalentClass), blank("en"))

	dt("Stamp")
	d.add(ex("Stamp"), u(owl.EquivalentClass), u(owl.XSDDateTime))

	dt("Code")
	d.add(blank("cr"), u(owl.OnDatatype), u(owl.XSDString))
	d.add(blank("cf"), u(owl.XSDPattern), lit("[A-Z]+"))
	d.add(blank("cr"), u(owl.WithRestrictions), d.list("cl", blank("cf")))
	d.add(ex("Code"), u(owl.EquivalentClass), blank("cr"))

	v := ontology.NewVocabulary("test")
	src := parse(t, v, "types", d.String())

	percent := v.Datatypes[ns+"Percent"]
	require.NotNil(t, percent)
	assert.Equal(t, ontology.DatatypeNumber, percent.Type)
	assert.True(t, percent.IsValidValue("100"))
	assert.False(t, percent.IsValidValue("101"))
	assert.False(t, percent.IsValidValue("-1"))

	mode := v.Datatypes[ns+"Mode"]
	assert.Equal(t, ontology.DatatypeEnum, mode.Type)
	assert.Equal(t, []string{"eco", "boost"}, mode.EnumValues)

	assert.Equal(t, ontology.DatatypeDate, v.Datatypes[ns+"Stamp"].Type)

	assert.Equal(t, ontology.DatatypeString, v.Datatypes[ns+"Code"].Type)
	assert.True(t, hasLog(src, ontology.LogWarning, "unsupported facet pattern"))
}

func TestParseIndividuals(t *testing.T) {
	d := &doc{}
	d.class("Room").class("Mode").
		add(ex("livingRoom"), u(owl.RDFType), u(owl.NamedIndividual)).
		add(ex("livingRoom"), u(owl.RDFType), ex("Room")).
		add(ex("eco"), u(owl.RDFType), ex("Mode")).
		add(ex("elsewhere"), u(owl.RDFType), u("http://example.org/other#Thing")).
		add(blank("anon"), u(owl.RDFType), ex("Room"))

	v := ontology.NewVocabulary("test")
	parse(t, v, "home", d.String())

	require.Contains(t, v.Individuals, ns+"livingRoom")
	assert.Equal(t, []string{ns + "Room"}, v.Individuals[ns+"livingRoom"].ParentClasses)

	require.Contains(t, v.Individuals, ns+"eco", "untagged individuals are found heuristically")
	assert.Equal(t, []string{ns + "Mode"}, v.Individuals[ns+"eco"].ParentClasses)

	assert.Contains(t, v.Individuals, ns+"elsewhere")
	assert.Len(t, v.Individuals, 3)
	assert.NotContains(t, v.Classes, ns+"livingRoom")
}

func TestParseMergesAcrossSources(t *testing.T) {
	first := &doc{}
	first.class("Room")
	second := &doc{}
	second.class("Room").add(ex("Room"), u(owl.RDFSLabel), lit("Room")).
		add(ex("Room"), u(owl.RDFType), u(owl.DatatypeProperty))

	v := ontology.NewVocabulary("test")
	a := parse(t, v, "a", first.String())
	b := parse(t, v, "b", second.String())

	room := v.Classes[ns+"Room"]
	assert.Equal(t, []string{a.ID, b.ID}, room.SourceIDs)
	assert.Equal(t, "Room", room.Label)
	assert.NotContains(t, v.DataProperties, ns+"Room")
	assert.True(t, hasLog(b, ontology.LogWarning, "conflicting declaration"))
	assert.Equal(t, []*ontology.Source{a, b}, v.SourceList())
}

func TestParseRequiresInputs(t *testing.T) {
	assert.Error(t, New().Parse(nil, nil, ontology.NewVocabulary("x")))
}
