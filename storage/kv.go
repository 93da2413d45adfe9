package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/c360studio/semonto/ontology"
	errs "github.com/c360studio/semstreams/pkg/errs"
	"github.com/c360studio/semstreams/pkg/retry"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucketPrefix prefixes the KV bucket names.
const DefaultBucketPrefix = "SEMONTO"

// Bucket name suffixes.
const (
	bucketSources  = "_SOURCES"
	bucketSettings = "_SETTINGS"
)

// KVStore provides source and settings storage backed by NATS KV. Source
// keys are "<vocabulary>.<source id>", settings keys the vocabulary name.
type KVStore struct {
	sources  jetstream.KeyValue
	settings jetstream.KeyValue
	conn     *nats.Conn
}

var _ Store = (*KVStore)(nil)

// NewKVStore creates a new KVStore with the given JetStream context.
// It creates the necessary KV buckets if they don't exist.
func NewKVStore(ctx context.Context, js jetstream.JetStream, prefix string) (*KVStore, error) {
	if prefix == "" {
		prefix = DefaultBucketPrefix
	}
	sources, err := getOrCreateBucket(ctx, js, prefix+bucketSources)
	if err != nil {
		return nil, fmt.Errorf("create sources bucket: %w", err)
	}

	settings, err := getOrCreateBucket(ctx, js, prefix+bucketSettings)
	if err != nil {
		return nil, fmt.Errorf("create settings bucket: %w", err)
	}

	return &KVStore{sources: sources, settings: settings}, nil
}

// Connect dials the NATS server at url, retrying while it comes up, and
// opens the store. Close releases the connection.
func Connect(ctx context.Context, url, prefix string) (*KVStore, error) {
	var conn *nats.Conn
	err := retry.Do(ctx, retry.Quick(), func() error {
		c, err := nats.Connect(url)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, errs.WrapTransient(err, "storage", "Connect", "connect to NATS at "+url)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	store, err := NewKVStore(ctx, js, prefix)
	if err != nil {
		conn.Close()
		return nil, errs.WrapTransient(err, "storage", "Connect", "open buckets")
	}
	store.conn = conn
	return store, nil
}

// Close closes the connection opened by Connect.
func (s *KVStore) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Semonto %s storage", strings.ToLower(name)),
		History:     5, // Keep last 5 revisions
	})
}

func sourceKey(vocabulary, id string) string {
	return keySegment(vocabulary) + "." + keySegment(id)
}

// PutSource stores a source without its parse results.
func (s *KVStore) PutSource(ctx context.Context, vocabulary string, src *ontology.Source) error {
	data, err := json.Marshal(src.Fresh())
	if err != nil {
		return fmt.Errorf("marshal source: %w", err)
	}

	if _, err := s.sources.Put(ctx, sourceKey(vocabulary, src.ID), data); err != nil {
		return fmt.Errorf("store source: %w", err)
	}
	return nil
}

// GetSource retrieves a source by ID.
func (s *KVStore) GetSource(ctx context.Context, vocabulary, id string) (*ontology.Source, error) {
	entry, err := s.sources.Get(ctx, sourceKey(vocabulary, id))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get source: %w", err)
	}

	var src ontology.Source
	if err := json.Unmarshal(entry.Value(), &src); err != nil {
		return nil, fmt.Errorf("unmarshal source: %w", err)
	}
	return &src, nil
}

// DeleteSource removes a source.
func (s *KVStore) DeleteSource(ctx context.Context, vocabulary, id string) error {
	if _, err := s.GetSource(ctx, vocabulary, id); err != nil {
		return err
	}
	if err := s.sources.Delete(ctx, sourceKey(vocabulary, id)); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

// ListSources returns all sources of a vocabulary.
func (s *KVStore) ListSources(ctx context.Context, vocabulary string) ([]*ontology.Source, error) {
	keys, err := s.sources.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list source keys: %w", err)
	}

	prefix := keySegment(vocabulary) + "."
	sources := make([]*ontology.Source, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entry, err := s.sources.Get(ctx, key)
		if err != nil {
			continue // Skip entries deleted since listing
		}
		var src ontology.Source
		if err := json.Unmarshal(entry.Value(), &src); err != nil {
			return nil, fmt.Errorf("unmarshal source %s: %w", key, err)
		}
		sources = append(sources, &src)
	}
	sortSources(sources)
	return sources, nil
}

// PutSettings stores the settings of a vocabulary.
func (s *KVStore) PutSettings(ctx context.Context, vocabulary string, settings *ontology.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if _, err := s.settings.Put(ctx, keySegment(vocabulary), data); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}
	return nil
}

// GetSettings retrieves the settings of a vocabulary.
func (s *KVStore) GetSettings(ctx context.Context, vocabulary string) (*ontology.Settings, error) {
	entry, err := s.settings.Get(ctx, keySegment(vocabulary))
	if err != nil {
		if isNotFound(err) {
			return ontology.NewSettings(), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings := ontology.NewSettings()
	if err := json.Unmarshal(entry.Value(), settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted)
}
