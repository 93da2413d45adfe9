// Package manager sequences the operations on named vocabularies: creating
// them, adding and removing source documents, changing user settings,
// validating and generating code.
//
// A vocabulary is never updated in place. Every change rebuilds it from the
// retained sources into a new instance and carries the user settings of the
// previous build over before the new instance replaces the old one.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/c360studio/semonto/codegen"
	"github.com/c360studio/semonto/export"
	"github.com/c360studio/semonto/metric"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/ontology/parser"
	"github.com/c360studio/semonto/ontology/postprocess"
	sourceparser "github.com/c360studio/semonto/source/parser"
	"github.com/c360studio/semonto/storage"
)

var (
	// ErrVocabularyNotFound is returned for unknown vocabulary names.
	ErrVocabularyNotFound = errors.New("vocabulary not found")
	// ErrVocabularyExists is returned when creating a vocabulary twice.
	ErrVocabularyExists = errors.New("vocabulary already exists")
	// ErrSourceNotFound is returned for unknown source ids.
	ErrSourceNotFound = errors.New("source not found")
	// ErrEntityNotFound is returned when a setting targets an unknown IRI or
	// combined relation.
	ErrEntityNotFound = errors.New("entity not found")
)

// Manager holds named vocabularies and rebuilds them on change. All
// operations are serialised.
type Manager struct {
	mu           sync.Mutex
	vocabularies map[string]*entry

	registry    *sourceparser.Registry
	parser      *parser.Parser
	pipeline    *postprocess.Pipeline
	genOpts     []codegen.Option
	store       storage.Store
	metrics     *metric.Metrics
	logger      *slog.Logger
	concurrency int
}

// entry is one vocabulary: its retained sources in insertion order and the
// last successful build.
type entry struct {
	sources []*ontology.Source
	vocab   *ontology.Vocabulary
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger handed to the parser, pipeline and generator.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStore persists sources and settings after every change.
func WithStore(store storage.Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithMetrics records builds, pipeline passes and parse log entries.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithRegistry sets the decoder registry.
func WithRegistry(r *sourceparser.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithConcurrency bounds the number of sources decoded at once.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithGeneratorOptions sets the options of generators created by Generate.
func WithGeneratorOptions(opts ...codegen.Option) Option {
	return func(m *Manager) { m.genOpts = append(m.genOpts, opts...) }
}

// New creates a manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		vocabularies: make(map[string]*entry),
		registry:     sourceparser.DefaultRegistry,
		logger:       slog.Default(),
		concurrency:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.parser = parser.New(parser.WithLogger(m.logger), parser.WithMetrics(m.metrics))
	m.pipeline = postprocess.New(postprocess.WithLogger(m.logger), postprocess.WithMetrics(m.metrics))
	return m
}

// CreateVocabulary registers an empty vocabulary. It holds only the
// predefined entities until sources are added.
func (m *Manager) CreateVocabulary(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.vocabularies[name]; ok {
		return fmt.Errorf("%w: %s", ErrVocabularyExists, name)
	}
	v, err := m.build(context.Background(), name, nil, nil)
	if err != nil {
		return err
	}
	m.vocabularies[name] = &entry{vocab: v}
	m.logger.Info("Created vocabulary", "vocabulary", name)
	return nil
}

// Restore registers a vocabulary from the store: its sources are rebuilt
// with the stored settings. Without a store it behaves like
// CreateVocabulary.
func (m *Manager) Restore(ctx context.Context, name string) (*ontology.Vocabulary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.vocabularies[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrVocabularyExists, name)
	}

	var (
		sources  []*ontology.Source
		settings *ontology.Settings
	)
	if m.store != nil {
		var err error
		if sources, err = m.store.ListSources(ctx, name); err != nil {
			return nil, fmt.Errorf("restore %s: %w", name, err)
		}
		if settings, err = m.store.GetSettings(ctx, name); err != nil {
			return nil, fmt.Errorf("restore %s: %w", name, err)
		}
	}

	v, err := m.build(ctx, name, sources, settings)
	if err != nil {
		return nil, err
	}
	m.vocabularies[name] = &entry{sources: sources, vocab: v}
	m.logger.Info("Restored vocabulary",
		"vocabulary", name,
		"sources", len(sources),
		"settings", settings.Len())
	return v, nil
}

// Vocabulary returns the last build of a vocabulary. The result must be
// treated as read-only.
func (m *Manager) Vocabulary(name string) (*ontology.Vocabulary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.vocab, nil
}

// Vocabularies returns the registered vocabulary names in sorted order.
func (m *Manager) Vocabularies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.vocabularies))
	for name := range m.vocabularies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (m *Manager) lookup(name string) (*entry, error) {
	e, ok := m.vocabularies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVocabularyNotFound, name)
	}
	return e, nil
}

// Generate writes the Go code of a vocabulary to w. Vocabularies that are
// marked invalid or hold label conflicts are refused.
func (m *Manager) Generate(name string, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(name)
	if err != nil {
		return err
	}
	opts := append([]codegen.Option{codegen.WithLogger(m.logger), codegen.WithMetrics(m.metrics)}, m.genOpts...)
	return codegen.New(opts...).Generate(e.vocab, w)
}

// Export writes a vocabulary as RDF.
func (m *Manager) Export(name string, format export.Format, profile export.Profile, w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(name)
	if err != nil {
		return err
	}
	return export.NewRDFExporter(profile).Export(e.vocab, format, w)
}
