package codegen

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/ontology/postprocess"
	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = "http://example.org/home#"

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type builder struct {
	v   *ontology.Vocabulary
	src *ontology.Source
}

func newBuilder() *builder {
	v := ontology.NewVocabulary("home")
	src := ontology.NewSource("home.ttl", "", "turtle")
	v.AddSource(src)
	return &builder{v: v, src: src}
}

func (b *builder) class(local string, parents ...string) *ontology.Class {
	c := ontology.NewClass(ns + local)
	c.AddSource(b.src.ID)
	for _, p := range parents {
		c.AddParent(ns + p)
	}
	b.v.Declare(c)
	return c
}

func (b *builder) property(e ontology.Entity) {
	b.v.Declare(e)
}

func (b *builder) relation(class string, typ ontology.RestrictionType, property string, target *ontology.TargetStatement) {
	err := b.v.AddRelation(&ontology.Relation{
		Type:        typ,
		Cardinality: ontology.NoCardinality,
		Property:    ns + property,
		Target:      target,
		ClassIRI:    ns + class,
		SourceID:    b.src.ID,
	})
	if err != nil {
		panic(err)
	}
}

func (b *builder) resolve(t *testing.T, settings *ontology.Settings) *ontology.Vocabulary {
	t.Helper()
	require.NoError(t, postprocess.New(postprocess.WithLogger(quiet)).Run(b.v, settings))
	return b.v
}

func homeVocabulary(t *testing.T) *ontology.Vocabulary {
	b := newBuilder()
	device := b.class("Device")
	device.Comment = "<p>A <b>device</b> in the home.</p>"
	b.class("Sensor", "Device")
	room := b.class("Room")
	room.Comment = "A room.\nRooms contain devices."
	b.property(ontology.NewObjectProperty(ns + "locatedIn"))
	b.property(ontology.NewDataProperty(ns + "state"))
	b.property(ontology.NewDataProperty(ns + "name"))

	kitchen := ontology.NewIndividual(ns + "Kitchen")
	kitchen.AddParentClass(ns + "Room")
	b.v.Declare(kitchen)

	b.relation("Device", ontology.RestrictionSome, "name", ontology.Leaf(owl.XSDString))
	b.relation("Sensor", ontology.RestrictionSome, "locatedIn", ontology.Leaf(ns+"Room"))
	b.relation("Sensor", ontology.RestrictionValue, "state", ontology.DataLeaf("on"))

	settings := ontology.NewSettings()
	settings.SetFieldType(ns+"state", ontology.FieldCommand)
	return b.resolve(t, settings)
}

func generate(t *testing.T, v *ontology.Vocabulary) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New(WithLogger(quiet), WithPackage("home")).Generate(v, &buf))
	return buf.String()
}

// structFields parses src and returns the field names of each struct type;
// embedded fields are reported by type name.
func structFields(t *testing.T, src string) map[string][]string {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "home.go", src, parser.ParseComments)
	require.NoError(t, err)
	out := make(map[string][]string)
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st, ok := spec.Type.(*ast.StructType)
		if !ok {
			return true
		}
		fields := []string{}
		for _, f := range st.Fields.List {
			if len(f.Names) == 0 {
				fields = append(fields, f.Type.(*ast.Ident).Name)
			}
			for _, name := range f.Names {
				fields = append(fields, name.Name)
			}
		}
		out[spec.Name.Name] = fields
		return false
	})
	return out
}

func TestGenerate(t *testing.T) {
	src := generate(t, homeVocabulary(t))
	fields := structFields(t, src)

	assert.True(t, strings.HasPrefix(src, "// Code generated by semonto. DO NOT EDIT."))
	assert.Contains(t, src, "package home")

	assert.Equal(t, []string{"Name"}, fields["Device"])
	assert.Equal(t, []string{"DeviceClass", "LocatedIn", "Name", "State"}, fields["Sensor"])
	assert.Empty(t, fields["Room"])
	assert.Empty(t, fields["Kitchen"])

	assert.Regexp(t, `State\s+CommandField\s+`+"`"+`rule:"value \\"on\\""`+"`", src)
	assert.Regexp(t, `LocatedIn\s+RelationField\s+`+"`"+`rule:"some Room"`+"`", src)
	assert.Contains(t, src, `Values: []string{"on"}`)
	assert.Contains(t, src, `func (*Sensor) ParentClasses() []string {`)
	assert.Contains(t, src, `return []string{"`+ns+`Device"}`)
	// Catalogs are keyed by label.
	assert.Regexp(t, `"Sensor":\s+func\(\) Class \{ return NewSensor\(\) \},`, src)
	assert.Regexp(t, `"Thing":\s+func\(\) Class \{ return NewThing\(\) \},`, src)
	assert.Regexp(t, `"Kitchen":\s+Kitchen\{\},`, src)
	assert.Regexp(t, `"string":\s+\{`, src)
	assert.Regexp(t, `"number_decimal_allowed":\s+false,`, src)
	assert.NotContains(t, src[strings.Index(src, "var ClassCatalog"):], `"`+ns)

	// HTML comments become Markdown; plain ones are kept line by line.
	assert.Contains(t, src, "// A **device** in the home.")
	assert.Contains(t, src, "// A room.\n// Rooms contain devices.\n")

	// Parents come before children, ties broken by label.
	thing := strings.Index(src, "type Thing struct")
	deviceAt := strings.Index(src, "type Device struct")
	roomAt := strings.Index(src, "type Room struct")
	sensorAt := strings.Index(src, "type Sensor struct")
	assert.Less(t, thing, deviceAt)
	assert.Less(t, deviceAt, roomAt)
	assert.Less(t, deviceAt, sensorAt)
	assert.Less(t, roomAt, sensorAt)
}

func TestGenerateIsDeterministic(t *testing.T) {
	assert.Equal(t, generate(t, homeVocabulary(t)), generate(t, homeVocabulary(t)))
}

func TestGenerateRefusesInvalidVocabulary(t *testing.T) {
	t.Run("marked invalid", func(t *testing.T) {
		v := homeVocabulary(t)
		v.MarkInvalid()
		err := New(WithLogger(quiet)).Generate(v, io.Discard)
		require.ErrorIs(t, err, ErrInvalidVocabulary)
	})

	t.Run("label conflict", func(t *testing.T) {
		v := homeVocabulary(t)
		v.Classes[ns+"Room"].SetUserLabel("Device")
		err := New(WithLogger(quiet)).Generate(v, io.Discard)
		require.ErrorIs(t, err, ErrInvalidVocabulary)
		assert.Contains(t, err.Error(), "Device")
	})
}

func TestGenerateRejectsCycle(t *testing.T) {
	b := newBuilder()
	b.class("A", "B")
	b.class("B", "A")
	v := b.resolve(t, nil)

	err := New(WithLogger(quiet)).Generate(v, io.Discard)
	require.ErrorIs(t, err, ErrCyclicHierarchy)
	assert.Contains(t, err.Error(), ns+"A")
}

func TestIdentifierCollisions(t *testing.T) {
	b := newBuilder()
	b.class("a-b")
	b.class("a_b")
	b.class("NewAB")
	b.property(ontology.NewDataProperty(ns + "parent_classes"))
	b.relation("a-b", ontology.RestrictionSome, "parent_classes", ontology.Leaf(owl.XSDString))
	src := generate(t, b.resolve(t, nil))
	fields := structFields(t, src)

	assert.Contains(t, fields, "AB")
	assert.Contains(t, fields, "AB2")
	assert.Contains(t, fields, "NewAB")
	assert.Equal(t, []string{"ParentClasses2"}, fields["AB"])
	assert.Contains(t, src, "func NewAB2() *AB {")
}

func TestExportedIdent(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"temperature", "Temperature"},
		{"has_part", "HasPart"},
		{"living-room", "LivingRoom"},
		{"3d_model", "X3dModel"},
		{"___", "X"},
		{"CO2", "CO2"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, exportedIdent(tt.label))
		})
	}
}

func TestStructTag(t *testing.T) {
	assert.Equal(t, "`rule:\"some Room\"`", structTag("some Room"))
	assert.Equal(t, `"rule:\"value \\\"a`+"`"+`b\\\"\""`, structTag("value \"a`b\""))
}

func TestContainsHTML(t *testing.T) {
	assert.True(t, containsHTML("<p>text</p>"))
	assert.True(t, containsHTML("line<br/>break"))
	assert.False(t, containsHTML("a < b and c > d"))
	assert.False(t, containsHTML("plain"))
}

func TestGoLiteral(t *testing.T) {
	assert.Equal(t, "nil", goLiteral(nil))
	assert.Equal(t, `"number"`, goLiteral("number"))
	assert.Equal(t, "true", goLiteral(true))
	assert.Equal(t, "float64(0.5)", goLiteral(0.5))
	assert.Equal(t, `[]string{"true", "false"}`, goLiteral([]string{"true", "false"}))
}

func TestGenerateHeader(t *testing.T) {
	var buf bytes.Buffer
	g := New(WithLogger(quiet), WithHeader("Home automation model.\nRegenerate with semonto generate.\n"))
	require.NoError(t, g.Generate(homeVocabulary(t), &buf))
	assert.True(t, strings.HasPrefix(buf.String(),
		"// Code generated by semonto. DO NOT EDIT.\n// Vocabulary: home\n// Home automation model.\n// Regenerate with semonto generate.\n"))
}

// constructor returns the body of the generated constructor fn.
func constructor(t *testing.T, src, fn string) string {
	t.Helper()
	start := strings.Index(src, "func "+fn+"() ")
	require.GreaterOrEqual(t, start, 0, "constructor %s not generated", fn)
	end := strings.Index(src[start:], "\n}\n")
	require.Greater(t, end, 0)
	return src[start : start+end]
}

func TestValueDefaultsAreNotInherited(t *testing.T) {
	b := newBuilder()
	b.class("Device")
	b.class("Sensor", "Device")
	b.property(ontology.NewDataProperty(ns + "state"))
	b.relation("Device", ontology.RestrictionValue, "state", ontology.DataLeaf("on"))
	src := generate(t, b.resolve(t, nil))

	assert.Contains(t, constructor(t, src, "NewDevice"), `Values: []string{"on"}`)
	sensor := constructor(t, src, "NewSensor")
	assert.Contains(t, sensor, `Rule: "value \"on\""`)
	assert.NotContains(t, sensor, "Values:")
}

func TestDeviceClassOnEveryIoTClass(t *testing.T) {
	b := newBuilder()
	b.class("Device")
	b.class("Sensor", "Device")
	b.class("Room")
	b.property(ontology.NewDataProperty(ns + "state"))
	b.relation("Device", ontology.RestrictionSome, "state", ontology.Leaf(owl.XSDString))
	settings := ontology.NewSettings()
	settings.SetFieldType(ns+"state", ontology.FieldDeviceAttribute)
	fields := structFields(t, generate(t, b.resolve(t, settings)))

	// Structs do not embed their parents, so inherited IoT classes carry the
	// marker too.
	assert.Equal(t, []string{"DeviceClass", "State"}, fields["Device"])
	assert.Equal(t, []string{"DeviceClass", "State"}, fields["Sensor"])
	assert.Empty(t, fields["Room"])
}
