// Package parser turns the triples of one ontology document into entities
// and restriction trees inside a shared vocabulary.
//
// Parsing never aborts on a malformed statement. Every construct that is
// rejected or adjusted is recorded as a log entry on the source, and the
// offending fragment is dropped. The only hard failure is a document that
// cannot be decoded as a graph, which happens before Parse is reached.
package parser

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/metric"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
)

// Parser parses decoded documents into a vocabulary.
type Parser struct {
	logger  *slog.Logger
	metrics *metric.Metrics
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger parse log entries are mirrored to.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics counts parse log entries.
func WithMetrics(m *metric.Metrics) Option {
	return func(p *Parser) { p.metrics = m }
}

// New creates a parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// parseContext carries the state of parsing one source.
type parseContext struct {
	p      *Parser
	source *ontology.Source
	graph  *graph.Graph
	vocab  *ontology.Vocabulary

	// IRIs this document declared, by kind, in document order.
	classes   []string
	datatypes []string
	declared  map[string]ontology.Kind
	skipped   map[string]bool
}

// Parse registers src with v and adds everything g declares.
func (p *Parser) Parse(src *ontology.Source, g *graph.Graph, v *ontology.Vocabulary) error {
	if src == nil || g == nil || v == nil {
		return errors.New("parse: source, graph and vocabulary are required")
	}
	v.AddSource(src)

	ctx := &parseContext{
		p:        p,
		source:   src,
		graph:    g,
		vocab:    v,
		declared: make(map[string]ontology.Kind),
		skipped:  make(map[string]bool),
	}
	ctx.discoverEntities()
	ctx.parseInverses()
	ctx.parseDatatypes()
	ctx.parseClasses()
	ctx.parseIndividuals()

	p.logger.Debug("Parsed ontology source",
		"source", src.Name,
		"triples", g.Len(),
		"entities", len(ctx.declared),
		"log_entries", len(src.Log))
	return nil
}

func (c *parseContext) log(level ontology.LogLevel, iri string, kind ontology.Kind, format string, args ...any) {
	entry := c.source.AddLogf(level, iri, kind, format, args...)
	c.p.metrics.RecordLogEntry(string(level))

	attrs := []any{"source", c.source.Name, "entity", iri, "message", entry.Message}
	if level == ontology.LogInfo {
		c.p.logger.Debug("Ontology parse note", attrs...)
		return
	}
	c.p.logger.Warn("Ontology parse problem", append(attrs, "level", string(level))...)
}

// definedElsewhere reports whether s carries rdfs:isDefinedBy pointing at
// something other than an ontology header of this document.
func (c *parseContext) definedElsewhere(s graph.Term) bool {
	for _, o := range c.graph.Objects(s, owl.RDFSIsDefinedBy) {
		if o.IsIRI() && c.graph.Has(o, owl.RDFType, graph.IRI(owl.Ontology)) {
			continue
		}
		return true
	}
	return false
}

// annotation returns the value of a literal annotation, preferring untagged
// and English literals.
func (c *parseContext) annotation(s graph.Term, predicate string) string {
	var fallback string
	for _, o := range c.graph.Objects(s, predicate) {
		if !o.IsLiteral() {
			continue
		}
		if o.Lang == "" || strings.HasPrefix(strings.ToLower(o.Lang), "en") {
			return o.Value
		}
		if fallback == "" {
			fallback = o.Value
		}
	}
	return fallback
}

func (c *parseContext) annotate(s graph.Term, b *ontology.Base) {
	b.Label = c.annotation(s, owl.RDFSLabel)
	b.Comment = c.annotation(s, owl.RDFSComment)
	b.AddSource(c.source.ID)
}

type declaration struct {
	typeIRI string
	kind    ontology.Kind
	build   func(iri string) (ontology.Entity, *ontology.Base)
}

var declarations = []declaration{
	{owl.Class, ontology.KindClass, func(iri string) (ontology.Entity, *ontology.Base) {
		e := ontology.NewClass(iri)
		return e, &e.Base
	}},
	{owl.RDFSClass, ontology.KindClass, func(iri string) (ontology.Entity, *ontology.Base) {
		e := ontology.NewClass(iri)
		return e, &e.Base
	}},
	{owl.ObjectProperty, ontology.KindObjectProperty, func(iri string) (ontology.Entity, *ontology.Base) {
		e := ontology.NewObjectProperty(iri)
		return e, &e.Base
	}},
	{owl.DatatypeProperty, ontology.KindDataProperty, func(iri string) (ontology.Entity, *ontology.Base) {
		e := ontology.NewDataProperty(iri)
		return e, &e.Base
	}},
	{owl.RDFSDatatype, ontology.KindDatatype, func(iri string) (ontology.Entity, *ontology.Base) {
		e := ontology.NewDatatype(iri)
		return e, &e.Base
	}},
}

func (c *parseContext) discoverEntities() {
	for _, decl := range declarations {
		for _, s := range c.graph.InstancesOf(decl.typeIRI) {
			if !s.IsIRI() || owl.IsReserved(s.Value) {
				// Anonymous class expressions and built-in terms.
				continue
			}
			c.declare(s, decl.kind, decl.build)
		}
	}
}

func (c *parseContext) declare(s graph.Term, kind ontology.Kind, build func(string) (ontology.Entity, *ontology.Base)) ontology.Entity {
	iri := s.Value
	if existing, ok := c.declared[iri]; ok && existing == kind {
		e, _ := c.vocab.Entity(iri)
		return e
	}
	if c.definedElsewhere(s) {
		if !c.skipped[iri] {
			c.skipped[iri] = true
			c.log(ontology.LogInfo, iri, kind, "marked as defined elsewhere, skipped")
		}
		return nil
	}

	entity, base := build(iri)
	c.annotate(s, base)
	got, err := c.vocab.Declare(entity)
	if err != nil {
		c.log(ontology.LogWarning, iri, kind, "conflicting declaration dropped: %v", err)
		return nil
	}
	if _, ok := c.declared[iri]; !ok {
		c.declared[iri] = kind
		switch kind {
		case ontology.KindClass:
			c.classes = append(c.classes, iri)
		case ontology.KindDatatype:
			c.datatypes = append(c.datatypes, iri)
		}
	}
	return got
}

func (c *parseContext) parseInverses() {
	for _, t := range c.graph.Triples() {
		if t.Predicate != owl.InverseOf {
			continue
		}
		if !t.Subject.IsIRI() || !t.Object.IsIRI() {
			c.log(ontology.LogWarning, t.Subject.Value, ontology.KindObjectProperty,
				"owl:inverseOf between anonymous properties is not supported")
			continue
		}
		if p, ok := c.vocab.ObjectProperties[t.Subject.Value]; ok && c.declared[p.IRI] == ontology.KindObjectProperty {
			p.AddInverse(t.Object.Value)
			continue
		}
		if q, ok := c.vocab.ObjectProperties[t.Object.Value]; ok && c.declared[q.IRI] == ontology.KindObjectProperty {
			q.AddInverse(t.Subject.Value)
			continue
		}
		c.log(ontology.LogInfo, t.Subject.Value, ontology.KindObjectProperty,
			"owl:inverseOf between properties not declared in this source ignored")
	}
}
