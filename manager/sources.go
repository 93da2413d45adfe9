package manager

import (
	"context"
	"fmt"
	"slices"

	"github.com/c360studio/semonto/ontology"
)

// SourceInput is the content of one document handed to Sync.
type SourceInput struct {
	Name    string
	Content string
	// Format overrides detection by the name's extension.
	Format string
}

// AddSource adds a document to a vocabulary and rebuilds it. A document with
// the name of a retained source replaces it in place and keeps its id. The
// returned source carries the parse log and dependency statements. A
// document that cannot be decoded leaves the vocabulary unchanged.
func (m *Manager) AddSource(ctx context.Context, vocabulary, name, content, format string) (*ontology.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(vocabulary)
	if err != nil {
		return nil, err
	}

	sources := slices.Clone(e.sources)
	src := ontology.NewSource(name, content, format)
	if i := indexByName(sources, name); i >= 0 {
		replaced := *sources[i].Fresh()
		replaced.Content = content
		replaced.Format = format
		src = &replaced
		sources[i] = src
	} else {
		sources = append(sources, src)
	}

	v, err := m.commit(ctx, vocabulary, e, sources, ontology.ExtractSettings(e.vocab), []*ontology.Source{src}, nil)
	if err != nil {
		return nil, err
	}
	built, _ := v.Source(src.ID)
	return built, nil
}

// DeleteSource removes a source from a vocabulary and rebuilds it.
func (m *Manager) DeleteSource(ctx context.Context, vocabulary, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(vocabulary)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(e.sources, func(s *ontology.Source) bool { return s.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, id)
	}

	sources := slices.Delete(slices.Clone(e.sources), i, i+1)
	_, err = m.commit(ctx, vocabulary, e, sources, ontology.ExtractSettings(e.vocab), nil, []string{id})
	return err
}

// Sync makes the retained sources of a vocabulary match inputs by name:
// new names are added, changed content replaces the source in place and
// names missing from inputs are removed. The vocabulary is rebuilt once,
// and not at all when nothing changed.
func (m *Manager) Sync(ctx context.Context, vocabulary string, inputs []SourceInput) (*ontology.Vocabulary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(vocabulary)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]SourceInput, len(inputs))
	for _, in := range inputs {
		wanted[in.Name] = in
	}

	var (
		sources []*ontology.Source
		put     []*ontology.Source
		del     []string
	)
	for _, src := range e.sources {
		in, ok := wanted[src.Name]
		if !ok {
			del = append(del, src.ID)
			continue
		}
		delete(wanted, src.Name)
		if in.Content == src.Content && in.Format == src.Format {
			sources = append(sources, src)
			continue
		}
		replaced := *src.Fresh()
		replaced.Content = in.Content
		replaced.Format = in.Format
		sources = append(sources, &replaced)
		put = append(put, &replaced)
	}
	for _, in := range inputs {
		if _, ok := wanted[in.Name]; !ok {
			continue
		}
		delete(wanted, in.Name)
		src := ontology.NewSource(in.Name, in.Content, in.Format)
		sources = append(sources, src)
		put = append(put, src)
	}

	if len(put) == 0 && len(del) == 0 {
		m.logger.Debug("Sources unchanged", "vocabulary", vocabulary)
		return e.vocab, nil
	}
	m.logger.Info("Syncing sources",
		"vocabulary", vocabulary,
		"changed", len(put),
		"removed", len(del))
	return m.commit(ctx, vocabulary, e, sources, ontology.ExtractSettings(e.vocab), put, del)
}

// Rebuild reparses every retained source of a vocabulary.
func (m *Manager) Rebuild(ctx context.Context, vocabulary string) (*ontology.Vocabulary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(vocabulary)
	if err != nil {
		return nil, err
	}
	return m.commit(ctx, vocabulary, e, e.sources, ontology.ExtractSettings(e.vocab), nil, nil)
}

// Sources returns the sources of the last build in insertion order,
// including their parse logs.
func (m *Manager) Sources(vocabulary string) ([]*ontology.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(vocabulary)
	if err != nil {
		return nil, err
	}
	out := make([]*ontology.Source, 0, len(e.sources))
	for _, src := range e.sources {
		if built, ok := e.vocab.Source(src.ID); ok {
			out = append(out, built)
		}
	}
	return out, nil
}

// FindSource returns the built source with the given name.
func (m *Manager) FindSource(vocabulary, name string) (*ontology.Source, error) {
	sources, err := m.Sources(vocabulary)
	if err != nil {
		return nil, err
	}
	if i := indexByName(sources, name); i >= 0 {
		return sources[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
}

func indexByName(sources []*ontology.Source, name string) int {
	return slices.IndexFunc(sources, func(s *ontology.Source) bool { return s.Name == name })
}
