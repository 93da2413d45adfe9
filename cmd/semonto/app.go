package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/semonto/codegen"
	"github.com/c360studio/semonto/config"
	"github.com/c360studio/semonto/manager"
	"github.com/c360studio/semonto/metric"
	"github.com/c360studio/semonto/ontology"
	"github.com/c360studio/semonto/source"
	"github.com/c360studio/semonto/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App wires configuration, storage, metrics and the vocabulary manager
// for one command invocation.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	store      storage.Store
	closeStore func()

	registry *prometheus.Registry
	metrics  *metric.Metrics
	manager  *manager.Manager
}

// newApp loads the configuration, opens the store and restores the
// configured vocabulary from it.
func newApp(ctx context.Context, opts *globalOptions, overrides ...func(*config.Config)) (*App, error) {
	logger := newLogger(opts.logLevel)
	slog.SetDefault(logger)

	cfg, err := config.NewLoader(logger).Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	for _, override := range overrides {
		override(cfg)
	}

	store, closeStore, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics, err := metric.NewMetrics(registry)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	m := manager.New(
		manager.WithLogger(logger),
		manager.WithStore(store),
		manager.WithMetrics(metrics),
		manager.WithGeneratorOptions(
			codegen.WithPackage(cfg.Generate.Package),
			codegen.WithHeader(cfg.Generate.Header),
		),
	)
	if _, err := m.Restore(ctx, cfg.Vocabulary); err != nil {
		closeStore()
		return nil, err
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		closeStore: closeStore,
		registry:   registry,
		metrics:    metrics,
		manager:    m,
	}, nil
}

// Close releases the store.
func (a *App) Close() {
	a.closeStore()
}

// loadSources reads every document the source patterns match and syncs the
// vocabulary with them.
func (a *App) loadSources(ctx context.Context) (*ontology.Vocabulary, []source.Document, error) {
	docs, err := source.Load(a.cfg.Sources.Root, a.cfg.Sources.Patterns, a.cfg.Sources.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("load sources: %w", err)
	}
	if len(docs) == 0 {
		a.logger.Warn("No ontology documents matched",
			"root", a.cfg.Sources.Root,
			"patterns", a.cfg.Sources.Patterns)
	}

	inputs := make([]manager.SourceInput, len(docs))
	for i, doc := range docs {
		inputs[i] = manager.SourceInput{Name: doc.Name, Content: string(doc.Content), Format: doc.Format}
	}
	v, err := a.manager.Sync(ctx, a.cfg.Vocabulary, inputs)
	if err != nil {
		return nil, nil, err
	}
	return v, docs, nil
}

// generate validates the vocabulary and writes its Go code to the
// configured output, or to stdout.
func (a *App) generate(stdout io.Writer, output string) error {
	report, err := a.manager.Validate(a.cfg.Vocabulary)
	if err != nil {
		return err
	}
	if !report.Valid {
		return fmt.Errorf("vocabulary %s has conflicting labels: %s",
			a.cfg.Vocabulary, strings.Join(conflictLabels(report), ", "))
	}

	if output == "" {
		return a.manager.Generate(a.cfg.Vocabulary, stdout)
	}
	return writeFileAtomic(output, func(w io.Writer) error {
		return a.manager.Generate(a.cfg.Vocabulary, w)
	})
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func openStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Store, func(), error) {
	switch cfg.Backend {
	case storage.BackendNATS:
		logger.Info("Connecting to NATS", "url", cfg.NATSURL)
		kv, err := storage.Connect(ctx, cfg.NATSURL, cfg.BucketPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("open NATS store: %w", err)
		}
		return kv, kv.Close, nil
	default:
		fs, err := storage.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		logger.Debug("Using file store", "path", fs.Dir())
		return fs, func() {}, nil
	}
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
