package ontology

import (
	"slices"
	"strings"
)

// StatementType is the node type of a TargetStatement.
type StatementType string

const (
	StatementLeaf StatementType = "leaf"
	StatementAnd  StatementType = "and"
	StatementOr   StatementType = "or"
)

// TargetStatement is a boolean expression over restriction targets. A leaf
// references a class, datatype or individual by IRI, or carries a literal
// value; and/or nodes combine their children in order.
type TargetStatement struct {
	Type StatementType `json:"type"`

	TargetIRI  string `json:"target_iri,omitempty"`
	TargetData string `json:"target_data,omitempty"`
	// IsData marks a leaf holding a literal value rather than a reference.
	IsData bool `json:"is_data,omitempty"`

	Children []*TargetStatement `json:"children,omitempty"`
}

// Leaf returns a leaf referencing iri.
func Leaf(iri string) *TargetStatement {
	return &TargetStatement{Type: StatementLeaf, TargetIRI: iri}
}

// DataLeaf returns a leaf carrying a literal value.
func DataLeaf(value string) *TargetStatement {
	return &TargetStatement{Type: StatementLeaf, TargetData: value, IsData: true}
}

// And returns a conjunction of children.
func And(children ...*TargetStatement) *TargetStatement {
	return &TargetStatement{Type: StatementAnd, Children: children}
}

// Or returns a disjunction of children.
func Or(children ...*TargetStatement) *TargetStatement {
	return &TargetStatement{Type: StatementOr, Children: children}
}

// Normalize returns the statement in disjunctive normal form: a list of
// groups, any one of which suffices, where each group lists IRIs that are
// jointly required. A data leaf contributes an empty group.
//
// An and node distributes over its children: with child group counts
// g1..gn the result holds g1*...*gn groups, one per combination of one group
// from each child.
func (s *TargetStatement) Normalize() [][]string {
	if s == nil {
		return nil
	}
	switch s.Type {
	case StatementLeaf:
		if s.IsData {
			return [][]string{{}}
		}
		return [][]string{{s.TargetIRI}}
	case StatementOr:
		var out [][]string
		for _, c := range s.Children {
			out = append(out, c.Normalize()...)
		}
		return out
	case StatementAnd:
		out := [][]string{{}}
		for _, c := range s.Children {
			out = product(out, c.Normalize())
		}
		return out
	default:
		return nil
	}
}

// product combines every left group with every right group.
func product(left, right [][]string) [][]string {
	out := make([][]string, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			group := make([]string, 0, len(l)+len(r))
			group = append(group, l...)
			for _, iri := range r {
				if !slices.Contains(group, iri) {
					group = append(group, iri)
				}
			}
			out = append(out, group)
		}
	}
	return out
}

// Targets returns every IRI the statement references, in tree order.
func (s *TargetStatement) Targets() []string {
	var out []string
	s.walk(func(n *TargetStatement) {
		if n.Type == StatementLeaf && !n.IsData && n.TargetIRI != "" {
			out, _ = appendUnique(out, n.TargetIRI)
		}
	})
	return out
}

func (s *TargetStatement) walk(fn func(*TargetStatement)) {
	if s == nil {
		return
	}
	fn(s)
	for _, c := range s.Children {
		c.walk(fn)
	}
}

// IsFulfilledByIRIs reports whether the given instance IRIs satisfy the
// statement. ancestorsOf returns the ancestor closure of a value; a group is
// satisfied when each of its members is one of the values or one of their
// ancestors.
func (s *TargetStatement) IsFulfilledByIRIs(values []string, ancestorsOf func(string) []string) bool {
	available := make(map[string]bool)
	for _, v := range values {
		available[v] = true
		if ancestorsOf == nil {
			continue
		}
		for _, a := range ancestorsOf(v) {
			available[a] = true
		}
	}
	for _, group := range s.Normalize() {
		satisfied := true
		for _, iri := range group {
			if !available[iri] {
				satisfied = false
				break
			}
		}
		if satisfied {
			return true
		}
	}
	return false
}

// IsFulfilledByData reports whether a literal value satisfies the statement.
// Literal leaves match by equality, datatype leaves by the datatype's value
// check.
func (s *TargetStatement) IsFulfilledByData(value string, lookup func(iri string) (*Datatype, bool)) bool {
	if s == nil {
		return false
	}
	switch s.Type {
	case StatementLeaf:
		if s.IsData {
			return s.TargetData == value
		}
		if lookup == nil {
			return false
		}
		dt, ok := lookup(s.TargetIRI)
		return ok && dt.IsValidValue(value)
	case StatementAnd:
		for _, c := range s.Children {
			if !c.IsFulfilledByData(value, lookup) {
				return false
			}
		}
		return len(s.Children) > 0
	case StatementOr:
		for _, c := range s.Children {
			if c.IsFulfilledByData(value, lookup) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Render returns the statement as readable rule text, for example
// "(Room or Kitchen) and Sensor".
func (s *TargetStatement) Render(labelOf func(string) string) string {
	return s.render(labelOf, false)
}

func (s *TargetStatement) render(labelOf func(string) string, nested bool) string {
	if s == nil {
		return ""
	}
	if s.Type == StatementLeaf {
		if s.IsData {
			return `"` + s.TargetData + `"`
		}
		if labelOf != nil {
			return labelOf(s.TargetIRI)
		}
		return s.TargetIRI
	}
	if len(s.Children) == 1 {
		return s.Children[0].render(labelOf, nested)
	}
	parts := make([]string, 0, len(s.Children))
	for _, c := range s.Children {
		parts = append(parts, c.render(labelOf, true))
	}
	out := strings.Join(parts, " "+string(s.Type)+" ")
	if nested {
		return "(" + out + ")"
	}
	return out
}

// Clone returns a deep copy.
func (s *TargetStatement) Clone() *TargetStatement {
	if s == nil {
		return nil
	}
	out := *s
	out.Children = make([]*TargetStatement, len(s.Children))
	for i, c := range s.Children {
		out.Children[i] = c.Clone()
	}
	if len(out.Children) == 0 {
		out.Children = nil
	}
	return &out
}
