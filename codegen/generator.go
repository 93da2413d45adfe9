// Package codegen renders a resolved vocabulary as a single Go source file.
//
// The generated file is self-contained: it declares the small runtime surface
// its types rely on (Class, Individual and the field types), one struct per
// class and individual, and catalogs indexing classes, individuals and
// datatypes by label. Labels are unique per namespace in a valid vocabulary.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"log/slog"
	"strings"

	"github.com/c360studio/semonto/metric"
	"github.com/c360studio/semonto/ontology"
)

var (
	// ErrInvalidVocabulary is returned for vocabularies marked invalid or
	// holding label conflicts.
	ErrInvalidVocabulary = errors.New("vocabulary is not valid for code generation")
	// ErrCyclicHierarchy is returned when the class hierarchy cannot be
	// ordered parents first.
	ErrCyclicHierarchy = errors.New("class hierarchy contains a cycle")
)

// DefaultPackage is the package clause of generated files.
const DefaultPackage = "model"

// Generator writes Go code for vocabularies.
type Generator struct {
	pkg      string
	header   []string
	logger   *slog.Logger
	metrics  *metric.Metrics
	comments *commentConverter
}

// Option configures a Generator.
type Option func(*Generator)

// WithPackage sets the package name of generated files.
func WithPackage(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.pkg = name
		}
	}
}

// WithHeader adds comment lines below the generated-code marker.
func WithHeader(text string) Option {
	return func(g *Generator) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		for _, line := range strings.Split(text, "\n") {
			g.header = append(g.header, strings.TrimRight(line, " \t\r"))
		}
	}
}

// WithLogger sets the generator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics records the number of generated classes.
func WithMetrics(m *metric.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		pkg:      DefaultPackage,
		logger:   slog.Default(),
		comments: newCommentConverter(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Validate reports why v cannot be generated, or nil.
func Validate(v *ontology.Vocabulary) error {
	if !v.IsValid() {
		return fmt.Errorf("%w: marked invalid", ErrInvalidVocabulary)
	}
	if dups := v.DuplicateLabels(); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate labels %s", ErrInvalidVocabulary, strings.Join(dups, ", "))
	}
	return nil
}

// Generate writes the Go source for v to w.
func (g *Generator) Generate(v *ontology.Vocabulary, w io.Writer) error {
	if err := Validate(v); err != nil {
		return err
	}
	file, err := g.buildFile(v)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, file); err != nil {
		return fmt.Errorf("render vocabulary %s: %w", v.Name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format generated code: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return fmt.Errorf("write generated code: %w", err)
	}

	g.metrics.RecordGenerated(len(file.Classes))
	g.logger.Info("Generated vocabulary code",
		"vocabulary", v.Name,
		"package", g.pkg,
		"classes", len(file.Classes),
		"individuals", len(file.Individuals),
		"bytes", len(src))
	return nil
}
