// Package config provides configuration loading and management for semonto.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete semonto configuration
type Config struct {
	// Vocabulary names the vocabulary the sources are merged into
	Vocabulary string         `yaml:"vocabulary"`
	Sources    SourcesConfig  `yaml:"sources"`
	Generate   GenerateConfig `yaml:"generate"`
	Export     ExportConfig   `yaml:"export"`
	Storage    StorageConfig  `yaml:"storage"`
	Watch      WatchConfig    `yaml:"watch"`
	Metrics    MetricsConfig  `yaml:"metrics"`
}

// SourcesConfig selects the ontology documents to load
type SourcesConfig struct {
	// Root is the directory patterns are relative to (default: config directory or cwd)
	Root string `yaml:"root"`
	// Patterns are doublestar globs, e.g. "ontologies/**/*.nt"
	Patterns []string `yaml:"patterns"`
	// Format overrides the serialisation (empty = by file extension)
	Format string `yaml:"format"`
}

// GenerateConfig configures code generation
type GenerateConfig struct {
	// Output is the generated Go file (empty = stdout)
	Output string `yaml:"output"`
	// Package is the package clause of the generated file
	Package string `yaml:"package"`
	// Header is a comment placed at the top of the generated file
	Header string `yaml:"header"`
}

// ExportConfig configures RDF export
type ExportConfig struct {
	// Format is one of turtle, ntriples, jsonld
	Format string `yaml:"format"`
	// Profile is one of minimal, resolved, full
	Profile string `yaml:"profile"`
	// Output is the export file (empty = stdout)
	Output string `yaml:"output"`
}

// StorageConfig configures persistence of sources and settings
type StorageConfig struct {
	// Backend is "file" or "nats"
	Backend string `yaml:"backend"`
	// Path is the file store directory
	Path string `yaml:"path"`
	// NATSURL is the NATS server URL for the nats backend
	NATSURL string `yaml:"nats_url"`
	// BucketPrefix prefixes the KV bucket names
	BucketPrefix string `yaml:"bucket_prefix"`
}

// WatchConfig configures the source watcher
type WatchConfig struct {
	// Debounce is the quiet period before a change triggers a rebuild
	Debounce time.Duration `yaml:"debounce"`
	// Extensions are the file extensions that trigger rebuilds
	Extensions []string `yaml:"extensions"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address (empty = disabled)
	Addr string `yaml:"addr"`
}

// Valid option values.
var (
	storageBackends = []string{"file", "nats"}
	exportFormats   = []string{"turtle", "ntriples", "jsonld"}
	exportProfiles  = []string{"minimal", "resolved", "full"}
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Vocabulary: "default",
		Sources: SourcesConfig{
			Patterns: []string{"**/*.nt", "**/*.nq", "**/*.jsonld"},
		},
		Generate: GenerateConfig{
			Package: "model",
		},
		Export: ExportConfig{
			Format:  "turtle",
			Profile: "resolved",
		},
		Storage: StorageConfig{
			Backend:      "file",
			Path:         ".semonto",
			BucketPrefix: "SEMONTO",
		},
		Watch: WatchConfig{
			Debounce:   500 * time.Millisecond,
			Extensions: []string{".nt", ".ntriples", ".nq", ".nquads", ".jsonld", ".json"},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Vocabulary == "" {
		return fmt.Errorf("vocabulary is required")
	}
	if len(c.Sources.Patterns) == 0 {
		return fmt.Errorf("sources.patterns must not be empty")
	}
	if c.Generate.Package == "" {
		return fmt.Errorf("generate.package is required")
	}
	if err := oneOf("export.format", c.Export.Format, exportFormats); err != nil {
		return err
	}
	if err := oneOf("export.profile", c.Export.Profile, exportProfiles); err != nil {
		return err
	}
	if err := oneOf("storage.backend", c.Storage.Backend, storageBackends); err != nil {
		return err
	}
	if c.Storage.Backend == "file" && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for the file backend")
	}
	if c.Storage.Backend == "nats" && c.Storage.NATSURL == "" {
		return fmt.Errorf("storage.nats_url is required for the nats backend")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

func oneOf(field, value string, valid []string) error {
	for _, v := range valid {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", field, valid, value)
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	layer, err := readLayer(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Merge(layer)
	return config, nil
}

// readLayer reads a YAML file without defaults so that only the keys it sets
// take part in a merge.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return layer, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Vocabulary != "" {
		c.Vocabulary = other.Vocabulary
	}

	// Sources
	if other.Sources.Root != "" {
		c.Sources.Root = other.Sources.Root
	}
	if len(other.Sources.Patterns) > 0 {
		c.Sources.Patterns = other.Sources.Patterns
	}
	if other.Sources.Format != "" {
		c.Sources.Format = other.Sources.Format
	}

	// Generate
	if other.Generate.Output != "" {
		c.Generate.Output = other.Generate.Output
	}
	if other.Generate.Package != "" {
		c.Generate.Package = other.Generate.Package
	}
	if other.Generate.Header != "" {
		c.Generate.Header = other.Generate.Header
	}

	// Export
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}
	if other.Export.Profile != "" {
		c.Export.Profile = other.Export.Profile
	}
	if other.Export.Output != "" {
		c.Export.Output = other.Export.Output
	}

	// Storage
	if other.Storage.Backend != "" {
		c.Storage.Backend = other.Storage.Backend
	}
	if other.Storage.Path != "" {
		c.Storage.Path = other.Storage.Path
	}
	if other.Storage.NATSURL != "" {
		c.Storage.NATSURL = other.Storage.NATSURL
	}
	if other.Storage.BucketPrefix != "" {
		c.Storage.BucketPrefix = other.Storage.BucketPrefix
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if len(other.Watch.Extensions) > 0 {
		c.Watch.Extensions = other.Watch.Extensions
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}
