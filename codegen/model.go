package codegen

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/c360studio/semonto/ontology"
)

// Names the generated file declares for itself.
var runtimeNames = []string{
	"Class", "Individual", "DataField", "CommandField", "DeviceAttributeField",
	"RelationField", "DeviceClass", "ClassCatalog", "IndividualCatalog", "DatatypeCatalog",
}

// Names a class struct already uses for methods or embedded fields.
var memberNames = []string{"ClassIRI", "ParentClasses", "DeviceClass", "DeviceSettings"}

type fileModel struct {
	Package     string
	Vocabulary  string
	Header      []string
	Classes     []classModel
	Individuals []individualModel
	Datatypes   []datatypeModel
}

type classModel struct {
	TypeName    string
	Constructor string
	IRI         string
	Label       string
	Comment     []string
	Parents     []string
	Device      bool
	Fields      []fieldModel
}

type fieldModel struct {
	Name     string
	Label    string
	Type     string
	Rule     string
	Tag      string
	Defaults []string
}

type individualModel struct {
	TypeName string
	IRI      string
	Label    string
	Comment  []string
	Parents  []string
}

type datatypeModel struct {
	IRI     string
	Label   string
	Entries []entryModel
}

type entryModel struct {
	Key   string
	Value string
}

// identifiers hands out unique Go identifiers.
type identifiers map[string]bool

func newIdentifiers(reserved ...string) identifiers {
	ids := make(identifiers, len(reserved))
	for _, r := range reserved {
		ids[r] = true
	}
	return ids
}

func (ids identifiers) claim(name string) string {
	if !ids[name] {
		ids[name] = true
		return name
	}
	for i := 2; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !ids[candidate] {
			ids[candidate] = true
			return candidate
		}
	}
}

// exportedIdent converts a sanitized label into an exported Go identifier.
func exportedIdent(label string) string {
	var b strings.Builder
	upper := true
	for _, r := range label {
		switch {
		case r == '_' || r == '-' || r == ' ':
			upper = true
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		}
	}
	id := b.String()
	if id == "" {
		return "X"
	}
	if first := []rune(id)[0]; !unicode.IsLetter(first) {
		id = "X" + id
	}
	return id
}

// classOrder returns the classes parents first. Among classes whose parents
// are all placed, the lowest label goes next.
func classOrder(v *ontology.Vocabulary) ([]*ontology.Class, error) {
	remaining := v.ClassList()
	placed := make(map[string]bool, len(remaining))
	ordered := make([]*ontology.Class, 0, len(remaining))

	ready := func(c *ontology.Class) bool {
		for _, p := range c.Parents {
			if _, known := v.Classes[p]; known && !placed[p] {
				return false
			}
		}
		return true
	}

	for len(remaining) > 0 {
		next := -1
		for i, c := range remaining {
			if !ready(c) {
				continue
			}
			if next < 0 || cmp.Or(
				cmp.Compare(c.GetLabel(), remaining[next].GetLabel()),
				cmp.Compare(c.IRI, remaining[next].IRI),
			) < 0 {
				next = i
			}
		}
		if next < 0 {
			stuck := make([]string, len(remaining))
			for i, c := range remaining {
				stuck[i] = c.IRI
			}
			return nil, fmt.Errorf("%w: %s", ErrCyclicHierarchy, strings.Join(stuck, ", "))
		}
		c := remaining[next]
		placed[c.IRI] = true
		ordered = append(ordered, c)
		remaining = slices.Delete(remaining, next, next+1)
	}
	return ordered, nil
}

func (g *Generator) buildFile(v *ontology.Vocabulary) (*fileModel, error) {
	classes, err := classOrder(v)
	if err != nil {
		return nil, err
	}
	individuals := v.IndividualList()
	slices.SortStableFunc(individuals, func(a, b *ontology.Individual) int {
		return cmp.Compare(a.GetLabel(), b.GetLabel())
	})

	file := &fileModel{Package: g.pkg, Vocabulary: v.Name, Header: g.header}
	top := newIdentifiers(runtimeNames...)

	for _, c := range classes {
		file.Classes = append(file.Classes, classModel{
			TypeName: top.claim(exportedIdent(c.GetLabel())),
			IRI:      c.IRI,
			Label:    c.GetLabel(),
			Comment:  g.comments.lines(c.Comment),
			Parents:  c.Parents,
			Device:   c.IsIoTClass(v),
			Fields:   buildFields(v, c),
		})
	}
	for _, ind := range individuals {
		file.Individuals = append(file.Individuals, individualModel{
			TypeName: top.claim(exportedIdent(ind.GetLabel())),
			IRI:      ind.IRI,
			Label:    ind.GetLabel(),
			Comment:  g.comments.lines(ind.Comment),
			Parents:  ind.ParentClasses,
		})
	}
	for i := range file.Classes {
		file.Classes[i].Constructor = top.claim("New" + file.Classes[i].TypeName)
	}
	for _, d := range v.DatatypeList() {
		file.Datatypes = append(file.Datatypes, buildDatatype(d))
	}
	return file, nil
}

func buildFields(v *ontology.Vocabulary, c *ontology.Class) []fieldModel {
	names := newIdentifiers(memberNames...)
	var fields []fieldModel

	add := func(cr *ontology.CombinedRelation, typ string) {
		label := v.LabelOf(cr.Property)
		rule := cr.Rule(v)
		fields = append(fields, fieldModel{
			Name:     names.claim(exportedIdent(label)),
			Label:    label,
			Type:     typ,
			Rule:     rule,
			Tag:      structTag(rule),
			Defaults: valueDefaults(c, cr.Relations(v)),
		})
	}

	for _, id := range c.CombinedObjectRelationIDs {
		if cr, ok := v.CombinedObjectRelations[id]; ok {
			add(&cr.CombinedRelation, "RelationField")
		}
	}
	for _, id := range c.CombinedDataRelationIDs {
		cr, ok := v.CombinedDataRelations[id]
		if !ok {
			continue
		}
		switch cr.FieldType(v) {
		case ontology.FieldCommand:
			add(&cr.CombinedRelation, "CommandField")
		case ontology.FieldDeviceAttribute:
			add(&cr.CombinedRelation, "DeviceAttributeField")
		default:
			add(&cr.CombinedRelation, "DataField")
		}
	}
	return fields
}

// valueDefaults collects the targets of value restrictions declared on c
// itself. Inherited value restrictions stay in the rule only.
func valueDefaults(c *ontology.Class, relations []*ontology.Relation) []string {
	var out []string
	var collect func(t *ontology.TargetStatement)
	collect = func(t *ontology.TargetStatement) {
		if t == nil {
			return
		}
		if t.Type == ontology.StatementLeaf {
			value := t.TargetIRI
			if t.IsData {
				value = t.TargetData
			}
			if !slices.Contains(out, value) {
				out = append(out, value)
			}
			return
		}
		for _, child := range t.Children {
			collect(child)
		}
	}
	for _, r := range relations {
		if r.Type == ontology.RestrictionValue && r.ClassIRI == c.IRI {
			collect(r.Target)
		}
	}
	return out
}

// structTag renders the rule tag, falling back to an interpreted string
// literal when the rule contains a backquote.
func structTag(rule string) string {
	tag := "rule:" + strconv.Quote(rule)
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}

func buildDatatype(d *ontology.Datatype) datatypeModel {
	constraints := d.Constraints()
	keys := make([]string, 0, len(constraints))
	for k := range constraints {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	m := datatypeModel{IRI: d.IRI, Label: d.GetLabel()}
	for _, k := range keys {
		m.Entries = append(m.Entries, entryModel{Key: k, Value: goLiteral(constraints[k])})
	}
	return m
}

// goLiteral renders a constraint value as a Go expression of its own type.
func goLiteral(value any) string {
	switch t := value.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return "nil"
		}
		return "float64(" + strconv.FormatFloat(t, 'g', -1, 64) + ")"
	case []string:
		quoted := make([]string, len(t))
		for i, s := range t {
			quoted[i] = strconv.Quote(s)
		}
		return "[]string{" + strings.Join(quoted, ", ") + "}"
	default:
		return strconv.Quote(fmt.Sprint(t))
	}
}
