package source

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c360studio/semonto/source/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	config := WatchConfig{
		Debounce:    50 * time.Millisecond,
		Extensions:  []string{".nt", "jsonld"},
		ExcludeDirs: []string{"ignored"},
	}
	w, err := NewWatcher(config, root, quiet)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)
	return w
}

func nextBatch(t *testing.T, w *Watcher) Batch {
	t.Helper()
	select {
	case batch, ok := <-w.Batches():
		require.True(t, ok, "batches channel closed")
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for a batch")
		return nil
	}
}

func expectNoBatch(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case batch := <-w.Batches():
		t.Fatalf("unexpected batch: %+v", batch)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher(WatchConfig{Extensions: []string{"NT", ".jsonld"}}, t.TempDir(), nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.extensions[".nt"])
	assert.True(t, w.extensions[".jsonld"])
	assert.False(t, w.extensions[".nq"])
	assert.True(t, w.excludes[".git"], "default excludes apply")
	assert.Equal(t, defaultDebounce, w.debounce)
}

func TestDefaultWatchConfig(t *testing.T) {
	config := DefaultWatchConfig()
	assert.Equal(t, 500*time.Millisecond, config.Debounce)
	assert.Equal(t, parser.SupportedExtensions(), config.Extensions)
	assert.Contains(t, config.ExcludeDirs, ".git")
}

func TestWatcherLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	w := startWatcher(t, root)

	path := filepath.Join(root, "core.nt")
	require.NoError(t, os.WriteFile(path, []byte("<a> <b> <c> .\n"), 0o644))
	assert.Equal(t, Batch{{Path: "core.nt", AbsPath: path, Op: ChangeCreated}}, nextBatch(t, w))

	require.NoError(t, os.WriteFile(path, []byte("<a> <b> <d> .\n"), 0o644))
	assert.Equal(t, Batch{{Path: "core.nt", AbsPath: path, Op: ChangeModified}}, nextBatch(t, w))

	hash, ok := w.Hash("core.nt")
	require.True(t, ok)
	assert.Equal(t, parser.ContentHash([]byte("<a> <b> <d> .\n")), hash)

	require.NoError(t, os.Remove(path))
	assert.Equal(t, Batch{{Path: "core.nt", AbsPath: path, Op: ChangeDeleted}}, nextBatch(t, w))
	_, ok = w.Hash("core.nt")
	assert.False(t, ok)

	require.NoError(t, w.Stop())
	_, open := <-w.Batches()
	assert.False(t, open, "batches channel is closed after Stop")
}

func TestWatcherBatchesOneQuietPeriod(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	for _, name := range []string{"rooms.nt", "devices.nt", "areas.jsonld"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(name), 0o644))
	}
	batch := nextBatch(t, w)
	assert.Equal(t, []string{"areas.jsonld", "devices.nt", "rooms.nt"}, batch.Paths())
	expectNoBatch(t, w)
}

func TestWatcherSkipsUnchangedContent(t *testing.T) {
	root := t.TempDir()
	content := []byte("<a> <b> <c> .\n")
	path := filepath.Join(root, "core.nt")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	w := startWatcher(t, root)
	w.SetHash("core.nt", parser.ContentHash(content))

	require.NoError(t, os.WriteFile(path, content, 0o644))
	expectNoBatch(t, w)
}

func TestWatcherFiltersFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "ignored"), 0o755))
	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ignored", "x.nt"), []byte("x"), 0o644))
	expectNoBatch(t, w)
}

func TestWatcherNewDirectory(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	dir := filepath.Join(root, "ext")
	require.NoError(t, os.Mkdir(dir, 0o755))
	// Let the watcher register the new directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rooms.jsonld"), []byte("{}"), 0o644))
	batch := nextBatch(t, w)
	assert.Equal(t, []string{"ext/rooms.jsonld"}, batch.Paths())
	assert.Equal(t, ChangeCreated, batch[0].Op)
}

func TestWatcherDeleteOfUnknownFileIsIgnored(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "core.nt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	w := startWatcher(t, root)

	require.NoError(t, os.Remove(path))
	expectNoBatch(t, w)
}

func TestBatchMerge(t *testing.T) {
	change := func(path string, op ChangeOp) Change {
		return Change{Path: path, AbsPath: "/src/" + path, Op: op}
	}

	tests := []struct {
		name  string
		ready Batch
		next  Batch
		want  Batch
	}{
		{
			name:  "disjoint paths are sorted",
			ready: Batch{change("b.nt", ChangeModified)},
			next:  Batch{change("a.nt", ChangeCreated)},
			want:  Batch{change("a.nt", ChangeCreated), change("b.nt", ChangeModified)},
		},
		{
			name:  "created then modified stays created",
			ready: Batch{change("a.nt", ChangeCreated)},
			next:  Batch{change("a.nt", ChangeModified)},
			want:  Batch{change("a.nt", ChangeCreated)},
		},
		{
			name:  "created then deleted disappears",
			ready: Batch{change("a.nt", ChangeCreated)},
			next:  Batch{change("a.nt", ChangeDeleted)},
			want:  Batch{},
		},
		{
			name:  "deleted then recreated is modified",
			ready: Batch{change("a.nt", ChangeDeleted)},
			next:  Batch{change("a.nt", ChangeCreated)},
			want:  Batch{change("a.nt", ChangeModified)},
		},
		{
			name:  "modified then deleted is deleted",
			ready: Batch{change("a.nt", ChangeModified)},
			next:  Batch{change("a.nt", ChangeDeleted)},
			want:  Batch{change("a.nt", ChangeDeleted)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ready.merge(tt.next)
			assert.ElementsMatch(t, tt.want, got)
			assert.Len(t, got, len(tt.want))
		})
	}
}
