package ontology

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LogLevel is the severity of a parse or resolution log entry.
type LogLevel string

const (
	LogInfo     LogLevel = "info"
	LogWarning  LogLevel = "warning"
	LogCritical LogLevel = "critical"
)

// LogEntry records one construct that was rejected or adjusted.
type LogEntry struct {
	Level      LogLevel `json:"level"`
	EntityIRI  string   `json:"entity_iri,omitempty"`
	EntityKind Kind     `json:"entity_kind,omitempty"`
	Message    string   `json:"message"`
}

func (e LogEntry) String() string {
	if e.EntityIRI == "" {
		return fmt.Sprintf("[%s] %s", e.Level, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Level, e.EntityIRI, e.Message)
}

// DependencyType names what kind of reference a dependency statement tracks.
type DependencyType string

const (
	DependencyParentClass      DependencyType = "parent_class"
	DependencyProperty         DependencyType = "property"
	DependencyTarget           DependencyType = "target"
	DependencyIndividualParent DependencyType = "individual_parent"
)

// DependencyStatement records a reference from an entity of one source to an
// IRI defined elsewhere.
type DependencyStatement struct {
	Type       DependencyType `json:"type"`
	Owner      string         `json:"owner"`
	Dependency string         `json:"dependency"`
	Fulfilled  bool           `json:"fulfilled"`
}

// Source is the provenance record of one ingested document.
type Source struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	Format     string    `json:"format,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Predefined bool      `json:"predefined,omitempty"`

	Log          []LogEntry            `json:"log,omitempty"`
	Dependencies []DependencyStatement `json:"dependencies,omitempty"`
}

// NewSource creates a source with a random id.
func NewSource(name, content, format string) *Source {
	return &Source{
		ID:        uuid.New().String(),
		Name:      name,
		Content:   content,
		Format:    format,
		Timestamp: time.Now().UTC(),
	}
}

// NewPredefinedSource creates the source that owns the built-in entities.
func NewPredefinedSource() *Source {
	return &Source{
		ID:         PredefinedSourceID,
		Name:       PredefinedSourceName,
		Timestamp:  time.Now().UTC(),
		Predefined: true,
	}
}

// AddLog appends a log entry and returns it.
func (s *Source) AddLog(level LogLevel, entity Entity, message string) LogEntry {
	entry := LogEntry{Level: level, Message: message}
	if entity != nil {
		entry.EntityIRI = entity.EntityIRI()
		entry.EntityKind = entity.EntityKind()
	}
	s.Log = append(s.Log, entry)
	return entry
}

// AddLogf appends a log entry about an IRI whose kind may be unknown.
func (s *Source) AddLogf(level LogLevel, iri string, kind Kind, format string, args ...any) LogEntry {
	entry := LogEntry{Level: level, EntityIRI: iri, EntityKind: kind, Message: fmt.Sprintf(format, args...)}
	s.Log = append(s.Log, entry)
	return entry
}

// AddDependency records a dependency unless an identical one exists.
func (s *Source) AddDependency(d DependencyStatement) {
	for i, existing := range s.Dependencies {
		if existing.Type == d.Type && existing.Owner == d.Owner && existing.Dependency == d.Dependency {
			s.Dependencies[i].Fulfilled = d.Fulfilled
			return
		}
	}
	s.Dependencies = append(s.Dependencies, d)
}

// Fresh returns a copy of the source without parse results, ready to be
// parsed again.
func (s *Source) Fresh() *Source {
	return &Source{
		ID:         s.ID,
		Name:       s.Name,
		Content:    s.Content,
		Format:     s.Format,
		Timestamp:  s.Timestamp,
		Predefined: s.Predefined,
	}
}

// CountLog returns the number of log entries at level.
func (s *Source) CountLog(level LogLevel) int {
	n := 0
	for _, e := range s.Log {
		if e.Level == level {
			n++
		}
	}
	return n
}

// UnfulfilledDependencies returns the dependencies that did not resolve.
func (s *Source) UnfulfilledDependencies() []DependencyStatement {
	var out []DependencyStatement
	for _, d := range s.Dependencies {
		if !d.Fulfilled {
			out = append(out, d)
		}
	}
	return out
}
