package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
)

func (c *parseContext) parseDatatypes() {
	for _, iri := range c.datatypes {
		d, ok := c.vocab.Datatypes[iri]
		if !ok {
			continue
		}
		s := graph.IRI(iri)
		if c.graph.HasPredicate(s, owl.OneOf) {
			c.enumeration(d, s)
		}
		for _, def := range c.graph.Objects(s, owl.EquivalentClass) {
			c.defineDatatype(d, def)
		}
	}
}

// resolveDatatype finds a base datatype in the catalog or the vocabulary.
func (c *parseContext) resolveDatatype(iri string) (*ontology.Datatype, bool) {
	if d, ok := c.vocab.Datatypes[iri]; ok {
		return d, true
	}
	return ontology.PredefinedDatatype(iri)
}

func (c *parseContext) defineDatatype(d *ontology.Datatype, def graph.Term) {
	g := c.graph
	switch {
	case def.IsIRI():
		base, ok := c.resolveDatatype(def.Value)
		if !ok {
			c.log(ontology.LogWarning, d.IRI, ontology.KindDatatype,
				"unknown base datatype %s, treated as string", def.Value)
			return
		}
		d.InheritConstraints(base)
	case def.IsLiteral():
		c.log(ontology.LogWarning, d.IRI, ontology.KindDatatype,
			"literal %q is not a datatype definition", def.Value)
	case g.HasPredicate(def, owl.OneOf):
		c.enumeration(d, def)
	case g.HasPredicate(def, owl.OnDatatype):
		c.facetRestriction(d, def)
	default:
		c.log(ontology.LogWarning, d.IRI, ontology.KindDatatype,
			"unsupported datatype definition ignored")
	}
}

func (c *parseContext) enumeration(d *ontology.Datatype, node graph.Term) {
	head, _ := c.graph.Object(node, owl.OneOf)
	members, err := c.graph.List(head)
	if err != nil {
		c.log(ontology.LogCritical, d.IRI, ontology.KindDatatype, "enumeration dropped: %v", err)
		return
	}
	values := make([]string, 0, len(members))
	for _, m := range members {
		if !m.IsLiteral() {
			c.log(ontology.LogWarning, d.IRI, ontology.KindDatatype,
				"non-literal enumeration member %s ignored", m.Value)
			continue
		}
		values = append(values, m.Value)
	}
	d.Type = ontology.DatatypeEnum
	d.EnumValues = values
}

// facetRestriction handles owl:onDatatype with owl:withRestrictions.
func (c *parseContext) facetRestriction(d *ontology.Datatype, node graph.Term) {
	g := c.graph
	baseTerm, _ := g.Object(node, owl.OnDatatype)
	if base, ok := c.resolveDatatype(baseTerm.Value); ok && baseTerm.IsIRI() {
		d.InheritConstraints(base)
	} else {
		c.log(ontology.LogWarning, d.IRI, ontology.KindDatatype,
			"unknown base datatype %s, treated as string", baseTerm.Value)
	}

	head, ok := g.Object(node, owl.WithRestrictions)
	if !ok {
		return
	}
	facets, err := g.List(head)
	if err != nil {
		c.log(ontology.LogCritical, d.IRI, ontology.KindDatatype, "facets dropped: %v", err)
		return
	}
	for _, f := range facets {
		for _, p := range g.Predicates(f) {
			value, _ := g.Object(f, p)
			c.facet(d, p, value)
		}
	}
}

func (c *parseContext) facet(d *ontology.Datatype, predicate string, value graph.Term) {
	switch predicate {
	case owl.XSDMinInclusive, owl.XSDMaxInclusive, owl.XSDMinExclusive, owl.XSDMaxExclusive:
	default:
		c.log(ontology.LogWarning, d.IRI, ontology.KindDatatype,
			"unsupported facet %s ignored", owl.LocalName(predicate))
		return
	}
	if d.Type != ontology.DatatypeNumber {
		c.log(ontology.LogWarning, d.IRI, ontology.KindDatatype,
			"range facet on non-numeric datatype ignored")
		return
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value.Value), 64)
	if err != nil {
		c.log(ontology.LogWarning, d.IRI, ontology.KindDatatype,
			"invalid facet value %q ignored", value.Value)
		return
	}

	// Exclusive bounds become the nearest admissible inclusive bound.
	switch predicate {
	case owl.XSDMinExclusive:
		if d.NumberDecimalAllowed {
			n = math.Nextafter(n, math.Inf(1))
		} else {
			n = math.Floor(n) + 1
		}
	case owl.XSDMaxExclusive:
		if d.NumberDecimalAllowed {
			n = math.Nextafter(n, math.Inf(-1))
		} else {
			n = math.Ceil(n) - 1
		}
	}

	switch predicate {
	case owl.XSDMinInclusive, owl.XSDMinExclusive:
		d.NumberRangeMin = &n
	default:
		d.NumberRangeMax = &n
	}
}
