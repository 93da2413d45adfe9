package manager

import (
	"github.com/c360studio/semonto/ontology"
)

// Report summarises the state of a vocabulary build.
type Report struct {
	Vocabulary string
	Stats      ontology.Stats
	Sources    []SourceReport
	// Conflicts lists, per label namespace, each label shared by several
	// entities with the IRIs sharing it.
	Conflicts map[ontology.LabelNamespace]map[string][]string
	Valid     bool
}

// SourceReport is the parse outcome of one source.
type SourceReport struct {
	ID           string
	Name         string
	Log          []ontology.LogEntry
	Dependencies []ontology.DependencyStatement
}

// HasConflicts reports whether any label is shared.
func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// CountLog returns the number of log entries at level over all sources.
func (r *Report) CountLog(level ontology.LogLevel) int {
	n := 0
	for _, s := range r.Sources {
		for _, e := range s.Log {
			if e.Level == level {
				n++
			}
		}
	}
	return n
}

// Unfulfilled returns the dependency statements that did not resolve.
func (r *Report) Unfulfilled() []ontology.DependencyStatement {
	var out []ontology.DependencyStatement
	for _, s := range r.Sources {
		for _, d := range s.Dependencies {
			if !d.Fulfilled {
				out = append(out, d)
			}
		}
	}
	return out
}

// Validate checks a vocabulary for label conflicts and marks it valid or
// invalid for code generation accordingly.
func (m *Manager) Validate(vocabulary string) (*Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.lookup(vocabulary)
	if err != nil {
		return nil, err
	}
	v := e.vocab

	r := &Report{
		Vocabulary: vocabulary,
		Stats:      v.Stats(),
		Conflicts:  v.LabelConflicts(),
	}
	for _, src := range e.sources {
		built, ok := v.Source(src.ID)
		if !ok {
			continue
		}
		r.Sources = append(r.Sources, SourceReport{
			ID:           built.ID,
			Name:         built.Name,
			Log:          built.Log,
			Dependencies: built.Dependencies,
		})
	}

	r.Valid = !r.HasConflicts()
	if r.Valid {
		v.MarkValid()
	} else {
		v.MarkInvalid()
	}
	m.logger.Debug("Validated vocabulary",
		"vocabulary", vocabulary,
		"valid", r.Valid,
		"conflicting_labels", len(v.DuplicateLabels()),
		"unfulfilled_dependencies", r.Stats.UnfulfilledDependencies)
	return r, nil
}
