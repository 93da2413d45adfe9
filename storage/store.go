// Package storage persists the sources and settings of vocabularies so a
// build can be reproduced after a restart.
//
// Two backends implement Store: FileStore keeps YAML files under a
// directory, KVStore keeps JSON values in NATS JetStream key-value buckets.
package storage

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/c360studio/semonto/ontology"
)

// Store persists sources and settings per vocabulary name.
type Store interface {
	PutSource(ctx context.Context, vocabulary string, src *ontology.Source) error
	GetSource(ctx context.Context, vocabulary, id string) (*ontology.Source, error)
	DeleteSource(ctx context.Context, vocabulary, id string) error
	// ListSources returns the sources of a vocabulary ordered by timestamp.
	ListSources(ctx context.Context, vocabulary string) ([]*ontology.Source, error)

	PutSettings(ctx context.Context, vocabulary string, s *ontology.Settings) error
	// GetSettings returns empty settings when none were stored.
	GetSettings(ctx context.Context, vocabulary string) (*ontology.Settings, error)
}

// Backend names accepted by the storage configuration.
const (
	BackendFile = "file"
	BackendNATS = "nats"
)

// keySegment maps a name onto the characters allowed in KV keys and file
// names. Anything else becomes '_'.
func keySegment(name string) string {
	if name == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}


func sortSources(sources []*ontology.Source) {
	slices.SortFunc(sources, func(a, b *ontology.Source) int {
		return cmp.Or(a.Timestamp.Compare(b.Timestamp), cmp.Compare(a.ID, b.ID))
	})
}
