package manager

import (
	"context"
	"fmt"

	"github.com/c360studio/semonto/ontology"
)

// SetLabel overrides the label of an entity. An empty label restores the
// extracted one.
func (m *Manager) SetLabel(ctx context.Context, vocabulary, iri, label string) error {
	return m.updateSettings(ctx, vocabulary, func(v *ontology.Vocabulary, s *ontology.Settings) error {
		if _, ok := v.Entity(iri); !ok {
			return fmt.Errorf("%w: %s", ErrEntityNotFound, iri)
		}
		s.SetLabel(iri, label)
		return nil
	})
}

// SetFieldType classifies a data property. Classes using it are
// reclassified by the rebuild.
func (m *Manager) SetFieldType(ctx context.Context, vocabulary, iri string, ft ontology.DataFieldType) error {
	return m.updateSettings(ctx, vocabulary, func(v *ontology.Vocabulary, s *ontology.Settings) error {
		if _, ok := v.DataProperties[iri]; !ok {
			return fmt.Errorf("%w: data property %s", ErrEntityNotFound, iri)
		}
		s.SetFieldType(iri, ft)
		return nil
	})
}

// SetDevice marks or unmarks a class as a device class.
func (m *Manager) SetDevice(ctx context.Context, vocabulary, iri string, on bool) error {
	return m.updateSettings(ctx, vocabulary, func(v *ontology.Vocabulary, s *ontology.Settings) error {
		if _, ok := v.Classes[iri]; !ok {
			return fmt.Errorf("%w: class %s", ErrEntityNotFound, iri)
		}
		s.SetDevice(iri, on)
		return nil
	})
}

// SetAgent marks or unmarks a class as an agent class.
func (m *Manager) SetAgent(ctx context.Context, vocabulary, iri string, on bool) error {
	return m.updateSettings(ctx, vocabulary, func(v *ontology.Vocabulary, s *ontology.Settings) error {
		if _, ok := v.Classes[iri]; !ok {
			return fmt.Errorf("%w: class %s", ErrEntityNotFound, iri)
		}
		s.SetAgent(iri, on)
		return nil
	})
}

// SetKeyInformation marks or unmarks a combined relation as key information.
func (m *Manager) SetKeyInformation(ctx context.Context, vocabulary, id string, on bool) error {
	return m.updateSettings(ctx, vocabulary, func(v *ontology.Vocabulary, s *ontology.Settings) error {
		if _, ok := v.CombinedRelation(id); !ok {
			return fmt.Errorf("%w: combined relation %s", ErrEntityNotFound, id)
		}
		s.SetKeyInformation(id, on)
		return nil
	})
}

// SetInspect marks or unmarks a combined relation for inspection.
func (m *Manager) SetInspect(ctx context.Context, vocabulary, id string, on bool) error {
	return m.updateSettings(ctx, vocabulary, func(v *ontology.Vocabulary, s *ontology.Settings) error {
		if _, ok := v.CombinedRelation(id); !ok {
			return fmt.Errorf("%w: combined relation %s", ErrEntityNotFound, id)
		}
		s.SetInspect(id, on)
		return nil
	})
}

// updateSettings edits the settings of the current build and rebuilds with
// them.
func (m *Manager) updateSettings(ctx context.Context, vocabulary string, edit func(*ontology.Vocabulary, *ontology.Settings) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(vocabulary)
	if err != nil {
		return err
	}
	settings := ontology.ExtractSettings(e.vocab)
	if err := edit(e.vocab, settings); err != nil {
		return err
	}
	_, err = m.commit(ctx, vocabulary, e, e.sources, settings, nil, nil)
	return err
}
