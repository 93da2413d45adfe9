package graph

import (
	"errors"

	"github.com/c360studio/semonto/vocabulary/owl"
)

// ErrMalformedList is returned when an RDF collection is not terminated by
// rdf:nil, loops back on itself, or has a cell without rdf:first.
var ErrMalformedList = errors.New("malformed rdf list")

// Graph is an indexed set of triples. Insertion order is preserved so every
// lookup is deterministic for a given input document.
type Graph struct {
	triples []Triple
	seen    map[Triple]struct{}

	// subject -> predicate -> objects
	spo map[Term]map[string][]Term
	// predicate -> object -> subjects
	pos map[string]map[Term][]Term
	// subjects in first-seen order
	subjects []Term
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		seen: make(map[Triple]struct{}),
		spo:  make(map[Term]map[string][]Term),
		pos:  make(map[string]map[Term][]Term),
	}
}

// Add inserts a triple. Duplicate triples are ignored; the return value
// reports whether the triple was new.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.seen[t]; ok {
		return false
	}
	g.seen[t] = struct{}{}
	g.triples = append(g.triples, t)

	byPred, ok := g.spo[t.Subject]
	if !ok {
		byPred = make(map[string][]Term)
		g.spo[t.Subject] = byPred
		g.subjects = append(g.subjects, t.Subject)
	}
	byPred[t.Predicate] = append(byPred[t.Predicate], t.Object)

	byObj, ok := g.pos[t.Predicate]
	if !ok {
		byObj = make(map[Term][]Term)
		g.pos[t.Predicate] = byObj
	}
	byObj[t.Object] = append(byObj[t.Object], t.Subject)
	return true
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns all triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Subjects returns every subject in first-seen order.
func (g *Graph) Subjects() []Term {
	out := make([]Term, len(g.subjects))
	copy(out, g.subjects)
	return out
}

// Objects returns the objects of all triples matching (s, p, ?).
func (g *Graph) Objects(s Term, p string) []Term {
	return g.spo[s][p]
}

// Object returns the first object matching (s, p, ?).
func (g *Graph) Object(s Term, p string) (Term, bool) {
	objs := g.spo[s][p]
	if len(objs) == 0 {
		return Term{}, false
	}
	return objs[0], true
}

// SubjectsWith returns the subjects of all triples matching (?, p, o).
func (g *Graph) SubjectsWith(p string, o Term) []Term {
	return g.pos[p][o]
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(s Term, p string, o Term) bool {
	_, ok := g.seen[Triple{Subject: s, Predicate: p, Object: o}]
	return ok
}

// HasPredicate reports whether s has at least one value for p.
func (g *Graph) HasPredicate(s Term, p string) bool {
	return len(g.spo[s][p]) > 0
}

// Predicates returns the predicates used with subject s, in first-seen order.
func (g *Graph) Predicates(s Term) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range g.triples {
		if t.Subject == s && !seen[t.Predicate] {
			seen[t.Predicate] = true
			out = append(out, t.Predicate)
		}
	}
	return out
}

// InstancesOf returns the subjects typed with typeIRI via rdf:type.
func (g *Graph) InstancesOf(typeIRI string) []Term {
	return g.SubjectsWith(owl.RDFType, IRI(typeIRI))
}

// TypeAssertions returns every rdf:type triple in insertion order.
func (g *Graph) TypeAssertions() []Triple {
	var out []Triple
	for _, t := range g.triples {
		if t.Predicate == owl.RDFType {
			out = append(out, t)
		}
	}
	return out
}

// List walks the RDF collection starting at head (rdf:first / rdf:rest cells
// terminated by rdf:nil) and returns its members in order.
func (g *Graph) List(head Term) ([]Term, error) {
	var members []Term
	visited := make(map[Term]bool)
	cell := head
	for !(cell.IsIRI() && cell.Value == owl.RDFNil) {
		if visited[cell] {
			return members, ErrMalformedList
		}
		visited[cell] = true

		first, ok := g.Object(cell, owl.RDFFirst)
		if !ok {
			return members, ErrMalformedList
		}
		members = append(members, first)

		rest, ok := g.Object(cell, owl.RDFRest)
		if !ok {
			return members, ErrMalformedList
		}
		cell = rest
	}
	return members, nil
}
