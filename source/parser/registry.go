package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/c360studio/semonto/graph"
)

// Decoder turns a serialised RDF document into a triple graph.
type Decoder interface {
	// Decode parses content into a graph. Any error means the document could
	// not be read as a graph at all.
	Decode(content []byte) (*graph.Graph, error)

	// CanDecode returns true if this decoder handles the given MIME type.
	CanDecode(mimeType string) bool

	// MimeType returns the primary MIME type for this decoder.
	MimeType() string
}

// Registry manages triple decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder // keyed by primary MIME type
}

// DefaultRegistry is the global decoder registry with default decoders.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new decoder registry with default decoders.
func NewRegistry() *Registry {
	r := &Registry{
		decoders: make(map[string]Decoder),
	}

	r.Register(NewNTriplesDecoder())
	r.Register(NewNQuadsDecoder())
	r.Register(NewJSONLDDecoder())

	return r
}

// Register adds a decoder to the registry.
func (r *Registry) Register(d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[d.MimeType()] = d
}

// GetByMimeType returns a decoder for the given MIME type.
func (r *Registry) GetByMimeType(mimeType string) Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.decoders[mimeType]; ok {
		return d
	}

	for _, d := range r.decoders {
		if d.CanDecode(mimeType) {
			return d
		}
	}

	return nil
}

// GetByExtension returns a decoder for a file based on its extension.
func (r *Registry) GetByExtension(filename string) Decoder {
	return r.GetByMimeType(MimeTypeFromExtension(filepath.Ext(filename)))
}

// GetByFormat returns a decoder for a short format name ("ntriples",
// "nquads", "jsonld") or a MIME type.
func (r *Registry) GetByFormat(format string) Decoder {
	if mimeType := MimeTypeFromFormat(format); mimeType != "" {
		return r.GetByMimeType(mimeType)
	}
	return r.GetByMimeType(format)
}

// Decode decodes a document choosing the decoder by format when given, and by
// the filename extension otherwise.
func (r *Registry) Decode(filename, format string, content []byte) (*graph.Graph, error) {
	var d Decoder
	if format != "" {
		d = r.GetByFormat(format)
	} else {
		d = r.GetByExtension(filename)
	}
	if d == nil {
		if format != "" {
			return nil, fmt.Errorf("no decoder for format: %s", format)
		}
		ext := strings.ToLower(filepath.Ext(filename))
		if convertible[ext] {
			return nil, fmt.Errorf("no decoder for file type: %s (convert to N-Triples or JSON-LD, e.g. riot --output=nt %s)",
				ext, filepath.Base(filename))
		}
		return nil, fmt.Errorf("no decoder for file type: %s", ext)
	}
	return d.Decode(content)
}

// convertible lists RDF serialisations without a decoder. Sources in these
// formats are converted to N-Triples before loading.
var convertible = map[string]bool{
	".ttl": true, ".turtle": true, ".n3": true, ".trig": true,
	".owl": true, ".rdf": true, ".xml": true,
}

// ListMimeTypes returns all registered MIME types.
func (r *Registry) ListMimeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.decoders))
	for t := range r.decoders {
		types = append(types, t)
	}
	return types
}

// MimeTypeFromExtension returns the MIME type for a file extension.
func MimeTypeFromExtension(ext string) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".nt", ".ntriples":
		return MimeNTriples
	case ".nq", ".nquads":
		return MimeNQuads
	case ".jsonld", ".json":
		return MimeJSONLD
	default:
		return "application/octet-stream"
	}
}

// MimeTypeFromFormat returns the MIME type for a short format name, or "" if
// the name is unknown.
func MimeTypeFromFormat(format string) string {
	switch strings.ToLower(format) {
	case "ntriples", "nt", "n-triples":
		return MimeNTriples
	case "nquads", "nq", "n-quads":
		return MimeNQuads
	case "jsonld", "json-ld":
		return MimeJSONLD
	default:
		return ""
	}
}

// ExtensionFromMimeType returns a typical file extension for a MIME type.
func ExtensionFromMimeType(mimeType string) string {
	switch mimeType {
	case MimeNTriples:
		return ".nt"
	case MimeNQuads:
		return ".nq"
	case MimeJSONLD, "application/json":
		return ".jsonld"
	default:
		return ""
	}
}

// SupportedExtensions lists the file extensions the default decoders accept.
func SupportedExtensions() []string {
	return []string{".nt", ".ntriples", ".nq", ".nquads", ".jsonld", ".json"}
}
