package parser

import (
	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/vocabulary/owl"
)

func newIndividual(iri string) (ontology.Entity, *ontology.Base) {
	e := ontology.NewIndividual(iri)
	return e, &e.Base
}

// parseIndividuals declares individuals tagged owl:NamedIndividual, then
// any remaining subject typed with a non-reserved class.
func (c *parseContext) parseIndividuals() {
	for _, s := range c.graph.InstancesOf(owl.NamedIndividual) {
		if !s.IsIRI() {
			continue
		}
		if kind, ok := c.declared[s.Value]; ok && kind != ontology.KindIndividual {
			c.log(ontology.LogInfo, s.Value, kind,
				"also tagged as named individual, kept as %s", kind)
			continue
		}
		ind := c.individual(s)
		if ind == nil {
			continue
		}
		for _, o := range c.graph.Objects(s, owl.RDFType) {
			if o.IsIRI() && !owl.IsReserved(o.Value) {
				ind.AddParentClass(o.Value)
			}
		}
	}

	for _, t := range c.graph.TypeAssertions() {
		if !t.Subject.IsIRI() || !t.Object.IsIRI() || owl.IsReserved(t.Object.Value) {
			continue
		}
		if kind, ok := c.vocab.KindOf(t.Subject.Value); ok && kind != ontology.KindIndividual {
			continue
		}
		if kind, ok := c.vocab.KindOf(t.Object.Value); ok && kind != ontology.KindClass {
			c.log(ontology.LogWarning, t.Subject.Value, ontology.KindIndividual,
				"typed with %s, which is a %s, not a class", t.Object.Value, kind)
			continue
		}
		ind := c.individual(t.Subject)
		if ind == nil {
			continue
		}
		ind.AddParentClass(t.Object.Value)
	}
}

func (c *parseContext) individual(s graph.Term) *ontology.Individual {
	e := c.declare(s, ontology.KindIndividual, newIndividual)
	ind, _ := e.(*ontology.Individual)
	return ind
}
