package source

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/semonto/source/parser"
)

// Document is an ontology document read from disk.
type Document struct {
	// Path is the absolute file path.
	Path string
	// Name is the path relative to the root, with forward slashes.
	Name string
	// Format is the serialisation override; empty selects by extension.
	Format  string
	Content []byte
	Hash    string
}

// ReadDocument reads one document. Its name is made relative to root when
// the path lies below it.
func ReadDocument(root, path, format string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	name := path
	if rel, err := filepath.Rel(root, path); err == nil && filepath.IsLocal(rel) {
		name = rel
	}
	return Document{
		Path:    path,
		Name:    filepath.ToSlash(name),
		Format:  format,
		Content: content,
		Hash:    parser.ContentHash(content),
	}, nil
}

// Load resolves the patterns below root and reads every matched document,
// in path order.
func Load(root string, patterns []string, format string) ([]Document, error) {
	paths, err := ResolveFiles(root, patterns)
	if err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		doc, err := ReadDocument(absRoot, path, format)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
