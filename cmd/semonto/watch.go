package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/c360studio/semonto/config"
	"github.com/c360studio/semonto/metric"
	"github.com/c360studio/semonto/source"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func watchCmd(opts *globalOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild and regenerate whenever a source changes",
		Long: `Watch loads the sources, generates the configured output and then
watches the source root. Every batch of changes reloads the sources,
rebuilds the vocabulary and regenerates the output. A failed rebuild is
logged and the previous output is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApp(ctx, opts, func(cfg *config.Config) {
				if metricsAddr != "" {
					cfg.Metrics.Addr = metricsAddr
				}
			})
			if err != nil {
				return err
			}
			defer app.Close()

			return runWatch(ctx, app, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}

// runWatch builds once and then rebuilds on every batch of watch events
// until ctx is done.
func runWatch(ctx context.Context, app *App, stdout io.Writer) error {
	docs, err := app.rebuild(ctx, stdout)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(app.cfg.Sources.Root)
	if err != nil {
		return err
	}
	watcher, err := source.NewWatcher(source.WatchConfig{
		Debounce:   app.cfg.Watch.Debounce,
		Extensions: app.cfg.Watch.Extensions,
	}, root, app.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	for _, doc := range docs {
		watcher.SetHash(doc.Name, doc.Hash)
	}

	g, gctx := errgroup.WithContext(ctx)

	if addr := app.cfg.Metrics.Addr; addr != "" {
		server := metric.NewServer(addr, "/metrics", app.registry)
		g.Go(func() error { return server.Start(gctx) })
		app.logger.Info("Serving metrics", "addr", addr)
	}

	if err := watcher.Start(gctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case batch, ok := <-watcher.Batches():
				if !ok {
					return nil
				}
				app.logger.Info("Sources changed", "files", batch.Paths())
				if _, err := app.rebuild(gctx, stdout); err != nil {
					app.logger.Error("Rebuild failed, keeping previous output", "error", err)
				}
			}
		}
	})

	app.logger.Info("Watching sources", "root", root)
	return g.Wait()
}

// rebuild reloads the sources and regenerates the configured output.
// Without an output the vocabulary is only validated.
func (a *App) rebuild(ctx context.Context, stdout io.Writer) ([]source.Document, error) {
	_, docs, err := a.loadSources(ctx)
	if err != nil {
		return nil, err
	}
	if a.cfg.Generate.Output == "" {
		report, err := a.manager.Validate(a.cfg.Vocabulary)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Vocabulary rebuilt", "valid", report.Valid, "sources", len(report.Sources))
		return docs, nil
	}
	if err := a.generate(stdout, a.cfg.Generate.Output); err != nil {
		return nil, err
	}
	a.logger.Info("Regenerated", "output", a.cfg.Generate.Output)
	return docs, nil
}
