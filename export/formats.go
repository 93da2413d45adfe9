package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/vocabulary/owl"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Aliases are alternative names accepted by ParseFormat.
	Aliases []string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Aliases:     []string{"ttl"},
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Aliases:     []string{"nt", "n-triples"},
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Aliases:     []string{"json-ld"},
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// localNamePattern matches local names that can be written as prefixed names.
var localNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// TurtleWriter writes RDF in Turtle format. Consecutive triples with the
// same subject share one statement block.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
	subject  graph.Term
	open     bool
}

// NewTurtleWriter creates a new Turtle writer with default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{
		prefixes: defaultPrefixes(),
	}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// WriteComment writes a comment line.
func (w *TurtleWriter) WriteComment(text string) {
	w.closeBlock()
	for _, line := range strings.Split(text, "\n") {
		w.sb.WriteString("# " + line + "\n")
	}
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	w.closeBlock()
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.prefixes[prefix]))
	}
	w.sb.WriteString("\n")
}

// WriteTriple writes a triple, continuing the open block when the subject
// repeats.
func (w *TurtleWriter) WriteTriple(t graph.Triple) {
	if w.open && t.Subject == w.subject {
		w.sb.WriteString(" ;\n")
	} else {
		w.closeBlock()
		w.sb.WriteString(w.term(t.Subject) + "\n")
		w.subject = t.Subject
		w.open = true
	}
	predicate := "a"
	if t.Predicate != owl.RDFType {
		predicate = w.iri(t.Predicate)
	}
	w.sb.WriteString(fmt.Sprintf("    %s %s", predicate, w.term(t.Object)))
}

func (w *TurtleWriter) closeBlock() {
	if w.open {
		w.sb.WriteString(" .\n\n")
		w.open = false
	}
}

// iri writes a prefixed name when a registered namespace covers the IRI.
// The longest matching namespace wins.
func (w *TurtleWriter) iri(iri string) string {
	best, bestNS := "", ""
	for prefix, ns := range w.prefixes {
		if len(ns) <= len(bestNS) || !strings.HasPrefix(iri, ns) {
			continue
		}
		if local := iri[len(ns):]; local == "" || localNamePattern.MatchString(local) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return "<" + iri + ">"
	}
	return best + ":" + iri[len(bestNS):]
}

func (w *TurtleWriter) term(t graph.Term) string {
	switch {
	case t.IsIRI():
		return w.iri(t.Value)
	case t.IsBlank():
		return "_:" + t.Value
	case t.Lang != "":
		return `"` + escapeString(t.Value) + `"@` + t.Lang
	case t.Datatype != "":
		return `"` + escapeString(t.Value) + `"^^` + w.iri(t.Datatype)
	default:
		return `"` + escapeString(t.Value) + `"`
	}
}

// String returns the accumulated Turtle output, terminating any open block.
func (w *TurtleWriter) String() string {
	w.closeBlock()
	return w.sb.String()
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
