package source

import (
	"path/filepath"
	"testing"

	"github.com/c360studio/semonto/source/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b.nt":     "<http://example.org/b> <http://example.org/p> <http://example.org/o> .\n",
		"sub/a.nt": "<http://example.org/a> <http://example.org/p> <http://example.org/o> .\n",
	})

	docs, err := Load(root, []string{"**/*.nt"}, "")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "b.nt", docs[0].Name)
	assert.Equal(t, "sub/a.nt", docs[1].Name)
	assert.Equal(t, filepath.Join(root, "sub", "a.nt"), docs[1].Path)
	assert.Equal(t, parser.ContentHash(docs[0].Content), docs[0].Hash)
	assert.Empty(t, docs[0].Format)
}

func TestLoadFormatOverride(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"data.txt": "{}"})

	docs, err := Load(root, []string{"*.txt"}, "jsonld")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "jsonld", docs[0].Format)
}

func TestReadDocumentOutsideRoot(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	writeTree(t, other, map[string]string{"x.nt": ""})

	path := filepath.Join(other, "x.nt")
	doc, err := ReadDocument(root, path, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(path), doc.Name)

	_, err = ReadDocument(root, filepath.Join(root, "missing.nt"), "")
	assert.Error(t, err)
}
