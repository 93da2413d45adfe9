// Package export serialises a resolved vocabulary as RDF.
//
// The exporter walks the vocabulary after post-processing and emits one
// statement group per entity: its declaration type, label, comment and
// hierarchy edges. Richer profiles add the computed ancestor closure, the
// combined relations (as blank nodes carrying the rendered rule) and the
// user settings. Predicates are mapped to standard IRIs through the semonto
// predicate registry.
package export

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
	"github.com/c360studio/semonto/vocabulary/semonto"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/jsonld"
	"github.com/cayleygraph/quad/nquads"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// ErrUnsupportedFormat is returned for a format outside FormatRegistry.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// RDFExporter exports resolved vocabularies with a configurable profile.
type RDFExporter struct {
	profile  ProfileConfig
	prefixes map[string]string
}

// NewRDFExporter creates a new RDF exporter with the specified profile.
func NewRDFExporter(profile Profile) *RDFExporter {
	return &RDFExporter{
		profile:  GetProfileConfig(profile),
		prefixes: defaultPrefixes(),
	}
}

// defaultPrefixes returns the standard namespace prefixes for RDF export.
func defaultPrefixes() map[string]string {
	prefixes := owl.Prefixes()
	prefixes["prov"] = semonto.ProvNamespace
	return prefixes
}

// Profile returns the active profile.
func (e *RDFExporter) Profile() Profile {
	return e.profile.Name
}

// SetPrefix registers an additional namespace prefix, typically the
// namespace of the exported ontology.
func (e *RDFExporter) SetPrefix(prefix, iri string) {
	e.prefixes[prefix] = iri
}

// Export serializes the vocabulary to w in the given format.
func (e *RDFExporter) Export(v *ontology.Vocabulary, format Format, w io.Writer) error {
	triples := e.Triples(v)
	switch format {
	case FormatTurtle:
		tw := NewTurtleWriter()
		for prefix, iri := range e.prefixes {
			tw.SetPrefix(prefix, iri)
		}
		if v.Name != "" {
			tw.WriteComment("Vocabulary: " + v.Name)
		}
		tw.WritePrefixes()
		for _, t := range triples {
			tw.WriteTriple(t)
		}
		_, err := io.WriteString(w, tw.String())
		return err
	case FormatNTriples:
		return writeQuads(nquads.NewWriter(w), triples)
	case FormatJSONLD:
		jw := jsonld.NewWriter(w)
		context := make(map[string]any, len(e.prefixes))
		for prefix, iri := range e.prefixes {
			context[prefix] = iri
		}
		jw.SetLdContext(context)
		return writeQuads(jw, triples)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

type quadWriter interface {
	WriteQuad(quad.Quad) error
	Close() error
}

func writeQuads(w quadWriter, triples []graph.Triple) error {
	for _, t := range triples {
		q := quad.Quad{
			Subject:   toQuadValue(t.Subject),
			Predicate: quad.IRI(t.Predicate),
			Object:    toQuadValue(t.Object),
		}
		if err := w.WriteQuad(q); err != nil {
			w.Close()
			return fmt.Errorf("write %s: %w", t, err)
		}
	}
	return w.Close()
}

func toQuadValue(t graph.Term) quad.Value {
	switch {
	case t.IsIRI():
		return quad.IRI(t.Value)
	case t.IsBlank():
		return quad.BNode(t.Value)
	case t.Lang != "":
		return quad.LangString{Value: quad.String(t.Value), Lang: t.Lang}
	case t.Datatype != "":
		return quad.TypedString{Value: quad.String(t.Value), Type: quad.IRI(t.Datatype)}
	default:
		return quad.String(t.Value)
	}
}

// Triples returns the statements the profile exports for v, grouped by
// subject. Predefined entities are omitted; references to them remain.
func (e *RDFExporter) Triples(v *ontology.Vocabulary) []graph.Triple {
	b := &tripleBuilder{}
	for _, c := range v.ClassList() {
		if c.Predefined {
			continue
		}
		e.entity(b, v, c, &c.Base)
		for _, p := range c.Parents {
			b.iri(c.IRI, semonto.ClassParent, p)
		}
		if e.profile.IncludeClosure {
			for _, a := range c.Ancestors {
				b.iri(c.IRI, semonto.ClassAncestor, a)
			}
		}
		if e.profile.IncludeSettings {
			b.flag(graph.IRI(c.IRI), semonto.ClassDevice, c.IsDevice)
			b.flag(graph.IRI(c.IRI), semonto.ClassAgent, c.IsAgent)
		}
		if e.profile.IncludeCombined {
			e.combined(b, v, c)
		}
	}
	for _, p := range v.ObjectPropertyList() {
		if p.Predefined {
			continue
		}
		e.entity(b, v, p, &p.Base)
		for _, inv := range p.Inverses {
			b.iri(p.IRI, semonto.PropertyInverse, inv)
		}
	}
	for _, p := range v.DataPropertyList() {
		if p.Predefined {
			continue
		}
		e.entity(b, v, p, &p.Base)
		if e.profile.IncludeSettings {
			b.add(graph.IRI(p.IRI), semonto.PropertyFieldType, graph.Literal(string(p.FieldType), ""))
		}
	}
	for _, d := range v.DatatypeList() {
		if d.Predefined {
			continue
		}
		e.entity(b, v, d, &d.Base)
	}
	for _, ind := range v.IndividualList() {
		if ind.Predefined {
			continue
		}
		e.entity(b, v, ind, &ind.Base)
		for _, c := range ind.ParentClasses {
			b.iri(ind.IRI, semonto.IndividualClass, c)
		}
	}
	return b.triples
}

func (e *RDFExporter) entity(b *tripleBuilder, v *ontology.Vocabulary, ent ontology.Entity, base *ontology.Base) {
	subject := graph.IRI(base.IRI)
	b.triples = append(b.triples, graph.Triple{
		Subject:   subject,
		Predicate: owl.RDFType,
		Object:    graph.IRI(TypeIRI(ent.EntityKind())),
	})
	b.add(subject, semonto.EntityLabel, graph.Literal(ent.GetLabel(), ""))
	if base.Comment != "" {
		b.add(subject, semonto.EntityComment, graph.Literal(base.Comment, ""))
	}
	if e.profile.IncludeProvenance {
		for _, id := range base.SourceIDs {
			if src, ok := v.Source(id); ok {
				b.add(subject, semonto.EntitySource, graph.Literal(src.Name, ""))
			}
		}
	}
}

// combined links c to a blank node per combined relation. The node triples
// follow the class block so subjects stay grouped.
func (e *RDFExporter) combined(b *tripleBuilder, v *ontology.Vocabulary, c *ontology.Class) {
	ids := c.CombinedRelationIDs()
	nodes := make([]*ontology.CombinedRelation, 0, len(ids))
	for _, id := range ids {
		cr, ok := v.CombinedRelation(id)
		if !ok {
			continue
		}
		b.add(graph.IRI(c.IRI), semonto.ClassCombinedRelation, blankOf(cr.ID))
		nodes = append(nodes, cr)
	}
	for _, cr := range nodes {
		node := blankOf(cr.ID)
		b.add(node, semonto.RelationProperty, graph.IRI(cr.Property))
		b.add(node, semonto.RelationRule, graph.Literal(cr.Rule(v), ""))
		if e.profile.IncludeSettings {
			b.flag(node, semonto.RelationKeyInformation, cr.IsKeyInformation)
			b.flag(node, semonto.RelationInspect, cr.Inspect)
		}
	}
}

// blankOf derives a stable blank node label from a combined relation id.
func blankOf(id string) graph.Term {
	return graph.Blank("cr" + strings.ReplaceAll(id, "-", ""))
}

type tripleBuilder struct {
	triples []graph.Triple
}

func (b *tripleBuilder) add(subject graph.Term, predicate string, object graph.Term) {
	b.triples = append(b.triples, graph.Triple{
		Subject:   subject,
		Predicate: semonto.PredicateIRI(predicate),
		Object:    object,
	})
}

func (b *tripleBuilder) iri(subject, predicate, object string) {
	b.add(graph.IRI(subject), predicate, graph.IRI(object))
}

// flag emits a true boolean; false flags are left out.
func (b *tripleBuilder) flag(subject graph.Term, predicate string, on bool) {
	if on {
		b.add(subject, predicate, graph.Literal("true", owl.XSDBoolean))
	}
}

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	for format, info := range FormatRegistry {
		if s == string(format) || "."+s == info.Extension || slices.Contains(info.Aliases, s) {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}
