// Package postprocess resolves a freshly parsed vocabulary: it seeds the
// predefined catalog, computes inheritance closures, combines inherited
// restrictions, checks cross-source dependencies and carries user settings
// over from a previous build.
//
// Every pass clears the state it owns before recomputing it, so running the
// pipeline twice over the same vocabulary gives the same result.
package postprocess

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semonto/metric"
	"github.com/c360studio/semonto/ontology"
)

// State is what a pass operates on.
type State struct {
	Vocab *ontology.Vocabulary
	// Previous holds the settings of the build being replaced, if any.
	Previous *ontology.Settings
	Logger   *slog.Logger
}

// Pass is one named pipeline step.
type Pass struct {
	Name string
	Run  func(*State) error
}

// DefaultPasses returns the standard pass order.
func DefaultPasses() []Pass {
	return []Pass{
		{Name: "predefined", Run: seedPredefined},
		{Name: "root_class", Run: attachRootClass},
		{Name: "dedupe_parents", Run: dedupeParents},
		{Name: "dependencies", Run: resolveDependencies},
		{Name: "ancestors", Run: computeAncestors},
		{Name: "descendants", Run: computeDescendants},
		{Name: "combine_relations", Run: combineRelations},
		{Name: "settings", Run: transferSettings},
		{Name: "labels", Run: sanitizeLabels},
		{Name: "sort_relations", Run: sortCombinedRelations},
		{Name: "inverses", Run: mirrorInverses},
	}
}

// Pipeline runs passes in order.
type Pipeline struct {
	passes  []Pass
	logger  *slog.Logger
	metrics *metric.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records pass durations.
func WithMetrics(m *metric.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithPasses replaces the default passes.
func WithPasses(passes ...Pass) Option {
	return func(p *Pipeline) { p.passes = passes }
}

// New creates a pipeline running DefaultPasses.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		passes: DefaultPasses(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Passes returns the pass names in order.
func (p *Pipeline) Passes() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name
	}
	return names
}

// Run executes every pass over v. previous may be nil.
func (p *Pipeline) Run(v *ontology.Vocabulary, previous *ontology.Settings) error {
	state := &State{Vocab: v, Previous: previous, Logger: p.logger}
	start := time.Now()
	for _, pass := range p.passes {
		passStart := time.Now()
		if err := pass.Run(state); err != nil {
			return fmt.Errorf("post-process pass %s: %w", pass.Name, err)
		}
		elapsed := time.Since(passStart)
		p.metrics.RecordPass(pass.Name, elapsed)
		p.logger.Debug("Post-process pass complete", "pass", pass.Name, "duration", elapsed)
	}
	p.logger.Debug("Post-processing complete",
		"vocabulary", v.Name,
		"classes", len(v.Classes),
		"duration", time.Since(start))
	return nil
}

// logOnce records an entry on a source unless an identical one exists.
func (s *State) logOnce(sourceID string, level ontology.LogLevel, iri string, kind ontology.Kind, format string, args ...any) {
	src, ok := s.Vocab.Source(sourceID)
	if !ok {
		return
	}
	msg := fmt.Sprintf(format, args...)
	for _, e := range src.Log {
		if e.Level == level && e.EntityIRI == iri && e.Message == msg {
			return
		}
	}
	src.AddLogf(level, iri, kind, "%s", msg)
	s.Logger.Warn("Ontology resolution problem", "source", src.Name, "entity", iri, "message", msg)
}
