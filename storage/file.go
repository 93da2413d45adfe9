package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/semonto/ontology"
	"gopkg.in/yaml.v3"
)

// FileStore keeps one YAML file per source and one settings file per
// vocabulary:
//
//	<dir>/<vocabulary>/sources/<id>.yaml
//	<dir>/<vocabulary>/settings.yaml
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) sourcesDir(vocabulary string) string {
	return filepath.Join(s.dir, keySegment(vocabulary), "sources")
}

func (s *FileStore) sourcePath(vocabulary, id string) string {
	return filepath.Join(s.sourcesDir(vocabulary), keySegment(id)+".yaml")
}

func (s *FileStore) settingsPath(vocabulary string) string {
	return filepath.Join(s.dir, keySegment(vocabulary), "settings.yaml")
}

// PutSource stores a source without its parse results.
func (s *FileStore) PutSource(_ context.Context, vocabulary string, src *ontology.Source) error {
	return writeYAML(s.sourcePath(vocabulary, src.ID), src.Fresh())
}

// GetSource retrieves a source by ID.
func (s *FileStore) GetSource(_ context.Context, vocabulary, id string) (*ontology.Source, error) {
	var src ontology.Source
	if err := readYAML(s.sourcePath(vocabulary, id), &src); err != nil {
		return nil, err
	}
	return &src, nil
}

// DeleteSource removes a source.
func (s *FileStore) DeleteSource(_ context.Context, vocabulary, id string) error {
	err := os.Remove(s.sourcePath(vocabulary, id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

// ListSources returns all sources of a vocabulary.
func (s *FileStore) ListSources(ctx context.Context, vocabulary string) ([]*ontology.Source, error) {
	entries, err := os.ReadDir(s.sourcesDir(vocabulary))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	sources := make([]*ontology.Source, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var src ontology.Source
		if err := readYAML(filepath.Join(s.sourcesDir(vocabulary), entry.Name()), &src); err != nil {
			return nil, err
		}
		sources = append(sources, &src)
	}
	sortSources(sources)
	return sources, nil
}

// PutSettings stores the settings of a vocabulary.
func (s *FileStore) PutSettings(_ context.Context, vocabulary string, settings *ontology.Settings) error {
	return writeYAML(s.settingsPath(vocabulary), settings)
}

// GetSettings retrieves the settings of a vocabulary.
func (s *FileStore) GetSettings(_ context.Context, vocabulary string) (*ontology.Settings, error) {
	settings := ontology.NewSettings()
	err := readYAML(s.settingsPath(vocabulary), settings)
	if errors.Is(err, ErrNotFound) {
		return settings, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// writeYAML writes v to a temporary file and renames it into place.
func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
