package parser

import (
	"strconv"
	"strings"

	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
)

func (c *parseContext) parseClasses() {
	for _, iri := range c.classes {
		class, ok := c.vocab.Classes[iri]
		if !ok {
			continue
		}
		s := graph.IRI(iri)
		for _, term := range c.graph.Objects(s, owl.RDFSSubClassOf) {
			c.classTerm(class, term, true)
		}
		for _, term := range c.graph.Objects(s, owl.EquivalentClass) {
			c.classTerm(class, term, false)
		}
	}
}

// classTerm handles one superclass or equivalent-class term of class. Named
// superclasses become parent edges; anonymous terms are conjunctions or
// restrictions.
func (c *parseContext) classTerm(class *ontology.Class, term graph.Term, superclass bool) {
	switch {
	case term.IsIRI():
		if term.Value == class.IRI {
			return
		}
		if superclass {
			class.AddParent(term.Value)
			return
		}
		c.log(ontology.LogInfo, class.IRI, ontology.KindClass,
			"named equivalent class %s ignored", term.Value)
		return
	case term.IsLiteral():
		c.log(ontology.LogWarning, class.IRI, ontology.KindClass,
			"literal %q is not a class expression", term.Value)
		return
	}

	g := c.graph
	switch {
	case g.HasPredicate(term, owl.IntersectionOf):
		head, _ := g.Object(term, owl.IntersectionOf)
		members, err := g.List(head)
		if err != nil {
			c.log(ontology.LogCritical, class.IRI, ontology.KindClass,
				"intersection dropped: %v", err)
			return
		}
		for _, m := range members {
			c.classTerm(class, m, true)
		}
	case g.HasPredicate(term, owl.UnionOf):
		c.log(ontology.LogCritical, class.IRI, ontology.KindClass,
			"union of class expressions is not supported, term dropped")
	case g.HasPredicate(term, owl.OneOf):
		c.log(ontology.LogCritical, class.IRI, ontology.KindClass,
			"enumeration of individuals is not supported as a class expression, term dropped")
	case g.HasPredicate(term, owl.ComplementOf):
		c.log(ontology.LogCritical, class.IRI, ontology.KindClass,
			"complement of a class expression is not supported, term dropped")
	case g.HasPredicate(term, owl.OnProperty) || g.Has(term, owl.RDFType, graph.IRI(owl.Restriction)):
		c.restriction(class, term)
	default:
		c.log(ontology.LogWarning, class.IRI, ontology.KindClass,
			"unrecognized anonymous class expression dropped")
	}
}

type cardinalityClause struct {
	predicate string
	typ       ontology.RestrictionType
}

var cardinalityClauses = []cardinalityClause{
	{owl.MinCardinality, ontology.RestrictionMin},
	{owl.MinQualifiedCardinality, ontology.RestrictionMin},
	{owl.MaxCardinality, ontology.RestrictionMax},
	{owl.MaxQualifiedCardinality, ontology.RestrictionMax},
	{owl.Cardinality, ontology.RestrictionExactly},
	{owl.QualifiedCardinality, ontology.RestrictionExactly},
}

// restriction builds a Relation from an owl:Restriction node.
func (c *parseContext) restriction(class *ontology.Class, node graph.Term) {
	g := c.graph
	prop, ok := g.Object(node, owl.OnProperty)
	if !ok || !prop.IsIRI() {
		c.log(ontology.LogCritical, class.IRI, ontology.KindClass,
			"restriction without a named owl:onProperty dropped")
		return
	}

	rel := &ontology.Relation{
		Property:    prop.Value,
		Cardinality: ontology.NoCardinality,
		ClassIRI:    class.IRI,
		SourceID:    c.source.ID,
	}

	if o, ok := g.Object(node, owl.SomeValuesFrom); ok {
		rel.Type = ontology.RestrictionSome
		rel.Target = c.target(class, o)
	} else if o, ok := g.Object(node, owl.AllValuesFrom); ok {
		rel.Type = ontology.RestrictionOnly
		rel.Target = c.target(class, o)
	} else if o, ok := g.Object(node, owl.HasValue); ok {
		rel.Type = ontology.RestrictionValue
		switch {
		case o.IsIRI():
			rel.Target = ontology.Leaf(o.Value)
		case o.IsLiteral():
			rel.Target = ontology.DataLeaf(o.Value)
		default:
			c.log(ontology.LogCritical, class.IRI, ontology.KindClass,
				"owl:hasValue on %s must be a named individual or a literal", prop.Value)
		}
	} else if !c.cardinality(class, node, rel) {
		return
	}

	if rel.Target == nil {
		return
	}
	if err := c.vocab.AddRelation(rel); err != nil {
		c.log(ontology.LogCritical, class.IRI, ontology.KindClass, "restriction dropped: %v", err)
	}
}

// cardinality fills rel from a cardinality clause. It reports false when the
// node holds no recognised clause or the clause is malformed.
func (c *parseContext) cardinality(class *ontology.Class, node graph.Term, rel *ontology.Relation) bool {
	g := c.graph
	for _, clause := range cardinalityClauses {
		lit, ok := g.Object(node, clause.predicate)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(lit.Value))
		if err != nil || n < 0 || !lit.IsLiteral() {
			c.log(ontology.LogCritical, class.IRI, ontology.KindClass,
				"invalid cardinality %q on %s", lit.Value, rel.Property)
			return false
		}
		rel.Type = clause.typ
		rel.Cardinality = n

		if q, ok := g.Object(node, owl.OnClass); ok {
			rel.Target = c.target(class, q)
		} else if q, ok := g.Object(node, owl.OnDataRange); ok {
			rel.Target = c.target(class, q)
		} else {
			rel.Target = ontology.Leaf(owl.XSDString)
		}
		return true
	}
	c.log(ontology.LogCritical, class.IRI, ontology.KindClass,
		"unrecognized restriction clause on %s dropped", rel.Property)
	return false
}

// target parses a permitted-value expression into a TargetStatement. Nodes
// that are neither references nor list combinators become literal leaves.
// It returns nil after logging when a combinator list is malformed or empty.
func (c *parseContext) target(class *ontology.Class, node graph.Term) *ontology.TargetStatement {
	switch {
	case node.IsIRI():
		return ontology.Leaf(node.Value)
	case node.IsLiteral():
		return ontology.DataLeaf(node.Value)
	}

	g := c.graph
	var (
		combinator string
		build      func(...*ontology.TargetStatement) *ontology.TargetStatement
	)
	switch {
	case g.HasPredicate(node, owl.IntersectionOf):
		combinator, build = owl.IntersectionOf, ontology.And
	case g.HasPredicate(node, owl.UnionOf):
		combinator, build = owl.UnionOf, ontology.Or
	case g.HasPredicate(node, owl.OneOf):
		combinator, build = owl.OneOf, ontology.Or
	default:
		c.log(ontology.LogInfo, class.IRI, ontology.KindClass,
			"restriction target %s kept as a literal value", node)
		return ontology.DataLeaf(node.Value)
	}

	head, _ := g.Object(node, combinator)
	members, err := g.List(head)
	if err != nil {
		c.log(ontology.LogCritical, class.IRI, ontology.KindClass,
			"restriction target dropped: %v", err)
		return nil
	}
	children := make([]*ontology.TargetStatement, 0, len(members))
	for _, m := range members {
		child := c.target(class, m)
		if child == nil {
			return nil
		}
		children = append(children, child)
	}
	if len(children) == 0 {
		c.log(ontology.LogWarning, class.IRI, ontology.KindClass,
			"empty %s in restriction target, restriction dropped", owl.LocalName(combinator))
		return nil
	}
	return build(children...)
}
