package codegen

import "text/template"

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by semonto. DO NOT EDIT.
{{- if .Vocabulary}}
// Vocabulary: {{.Vocabulary}}
{{- end}}
{{- range .Header}}
// {{.}}
{{- end}}

package {{.Package}}

// Class is implemented by every generated class.
type Class interface {
	ClassIRI() string
	ParentClasses() []string
}

// Individual is implemented by every generated individual.
type Individual interface {
	IndividualIRI() string
	ParentClasses() []string
}

// DataField holds the literal values of a data property.
type DataField struct {
	Name   string
	Rule   string
	Values []string
}

// CommandField holds the values of a command a device accepts.
type CommandField struct {
	Name   string
	Rule   string
	Values []string
}

// DeviceAttributeField holds the values a device reports.
type DeviceAttributeField struct {
	Name   string
	Rule   string
	Values []string
}

// RelationField holds the IRIs of related instances or individuals.
type RelationField struct {
	Name   string
	Rule   string
	Values []string
}

// DeviceClass is embedded by classes whose instances are devices.
type DeviceClass struct {
	DeviceSettings map[string]string
}
{{range .Classes}}
// {{.TypeName}} is generated from class {{.IRI}}.
{{- if .Comment}}
//
{{- range .Comment}}
// {{.}}
{{- end}}
{{- end}}
type {{.TypeName}} struct {
{{- if .Device}}
	DeviceClass
{{- end}}
{{- range .Fields}}
	{{.Name}} {{.Type}} {{.Tag}}
{{- end}}
}

// ClassIRI returns the IRI of the class.
func (*{{.TypeName}}) ClassIRI() string { return {{printf "%q" .IRI}} }

// ParentClasses returns the IRIs of the direct parent classes.
func (*{{.TypeName}}) ParentClasses() []string {
	return []string{ {{- range $i, $p := .Parents}}{{if $i}}, {{end}}{{printf "%q" $p}}{{end -}} }
}

// {{.Constructor}} creates a {{.TypeName}} with its fields initialised.
func {{.Constructor}}() *{{.TypeName}} {
	return &{{.TypeName}}{
{{- range .Fields}}
		{{.Name}}: {{.Type}}{
			Name: {{printf "%q" .Label}},
			Rule: {{printf "%q" .Rule}},
{{- if .Defaults}}
			Values: []string{ {{- range $i, $d := .Defaults}}{{if $i}}, {{end}}{{printf "%q" $d}}{{end -}} },
{{- end}}
		},
{{- end}}
	}
}
{{end}}
{{- range .Individuals}}
// {{.TypeName}} is generated from individual {{.IRI}}.
{{- if .Comment}}
//
{{- range .Comment}}
// {{.}}
{{- end}}
{{- end}}
type {{.TypeName}} struct{}

// IndividualIRI returns the IRI of the individual.
func ({{.TypeName}}) IndividualIRI() string { return {{printf "%q" .IRI}} }

// ParentClasses returns the IRIs of the classes the individual belongs to.
func ({{.TypeName}}) ParentClasses() []string {
	return []string{ {{- range $i, $p := .Parents}}{{if $i}}, {{end}}{{printf "%q" $p}}{{end -}} }
}
{{end}}
// ClassCatalog maps class labels to constructors.
var ClassCatalog = map[string]func() Class{
{{- range .Classes}}
	{{printf "%q" .Label}}: func() Class { return {{.Constructor}}() },
{{- end}}
}

// IndividualCatalog maps individual labels to their values.
var IndividualCatalog = map[string]Individual{
{{- range .Individuals}}
	{{printf "%q" .Label}}: {{.TypeName}}{},
{{- end}}
}

// DatatypeCatalog maps datatype labels to their value constraints.
var DatatypeCatalog = map[string]map[string]any{
{{- range .Datatypes}}
	{{printf "%q" .Label}}: {
{{- range .Entries}}
		{{printf "%q" .Key}}: {{.Value}},
{{- end}}
	},
{{- end}}
}
`))
