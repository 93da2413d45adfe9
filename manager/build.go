package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/semonto/graph"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/storage"
	"golang.org/x/sync/errgroup"
)

// build parses sources into a new vocabulary and resolves it. Decoding runs
// concurrently; parsing is serial in source order so combined relation ids
// and label resolution do not depend on scheduling.
func (m *Manager) build(ctx context.Context, name string, sources []*ontology.Source, previous *ontology.Settings) (*ontology.Vocabulary, error) {
	start := time.Now()

	v, err := m.assemble(ctx, name, sources, previous)
	if err != nil {
		m.metrics.RecordBuild("error", len(sources))
		m.logger.Warn("Vocabulary build failed",
			"vocabulary", name,
			"sources", len(sources),
			"error", err)
		return nil, err
	}

	m.metrics.RecordBuild("ok", len(sources))
	stats := v.Stats()
	m.logger.Info("Built vocabulary",
		"vocabulary", name,
		"sources", len(sources),
		"classes", stats.Classes,
		"combined_relations", stats.CombinedObjectRelations+stats.CombinedDataRelations,
		"unfulfilled_dependencies", stats.UnfulfilledDependencies,
		"duration", time.Since(start))
	return v, nil
}

func (m *Manager) assemble(ctx context.Context, name string, sources []*ontology.Source, previous *ontology.Settings) (*ontology.Vocabulary, error) {
	graphs, err := m.decode(ctx, sources)
	if err != nil {
		return nil, err
	}

	v := ontology.NewVocabulary(name)
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.parser.Parse(src.Fresh(), graphs[i], v); err != nil {
			return nil, fmt.Errorf("parse source %s: %w", src.Name, err)
		}
	}
	if err := m.pipeline.Run(v, previous); err != nil {
		return nil, fmt.Errorf("resolve vocabulary %s: %w", name, err)
	}
	return v, nil
}

func (m *Manager) decode(ctx context.Context, sources []*ontology.Source) ([]*graph.Graph, error) {
	graphs := make([]*graph.Graph, len(sources))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.concurrency)
	for i, src := range sources {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			g, err := m.registry.Decode(src.Name, src.Format, []byte(src.Content))
			if err != nil {
				return fmt.Errorf("decode source %s: %w", src.Name, err)
			}
			graphs[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}

// commit rebuilds e from sources, persists the change and swaps the new
// build in. Nothing changes when the build or the store fails.
func (m *Manager) commit(ctx context.Context, name string, e *entry, sources []*ontology.Source, settings *ontology.Settings, put []*ontology.Source, del []string) (*ontology.Vocabulary, error) {
	v, err := m.build(ctx, name, sources, settings)
	if err != nil {
		return nil, err
	}
	if err := m.persist(ctx, name, v, put, del); err != nil {
		return nil, err
	}
	e.sources = sources
	e.vocab = v
	return v, nil
}

func (m *Manager) persist(ctx context.Context, name string, v *ontology.Vocabulary, put []*ontology.Source, del []string) error {
	if m.store == nil {
		return nil
	}
	for _, src := range put {
		if err := m.store.PutSource(ctx, name, src); err != nil {
			return fmt.Errorf("store source %s: %w", src.Name, err)
		}
	}
	for _, id := range del {
		if err := m.store.DeleteSource(ctx, name, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete stored source %s: %w", id, err)
		}
	}
	if err := m.store.PutSettings(ctx, name, ontology.ExtractSettings(v)); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}
	return nil
}
