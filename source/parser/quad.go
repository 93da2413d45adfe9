// Package parser decodes serialised RDF documents into triple graphs.
//
// Decoders are looked up by MIME type, file extension or short format name
// through a Registry. Decoding is all-or-nothing: a document that cannot be
// read as a graph yields an error wrapping ErrUnparseable, classified as
// invalid input.
package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/c360studio/semonto/graph"
	errs "github.com/c360studio/semstreams/pkg/errs"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/jsonld"
	"github.com/cayleygraph/quad/nquads"
)

// MIME types of the supported serialisations.
const (
	MimeNTriples = "application/n-triples"
	MimeNQuads   = "application/n-quads"
	MimeJSONLD   = "application/ld+json"
)

// ErrUnparseable marks a document that could not be decoded into a graph.
var ErrUnparseable = errors.New("document is not a parseable graph")

// quadReader is the subset of the cayley readers the decoders rely on.
type quadReader interface {
	ReadQuad() (quad.Quad, error)
}

// NTriplesDecoder decodes N-Triples documents.
type NTriplesDecoder struct{}

// NewNTriplesDecoder creates an N-Triples decoder.
func NewNTriplesDecoder() *NTriplesDecoder { return &NTriplesDecoder{} }

// MimeType returns the N-Triples MIME type.
func (d *NTriplesDecoder) MimeType() string { return MimeNTriples }

// CanDecode reports whether mimeType names N-Triples.
func (d *NTriplesDecoder) CanDecode(mimeType string) bool {
	return mimeType == MimeNTriples || mimeType == "text/plain"
}

// Decode parses N-Triples content.
func (d *NTriplesDecoder) Decode(content []byte) (*graph.Graph, error) {
	return decodeQuads(nquads.NewReader(bytes.NewReader(content), false), d.MimeType())
}

// NQuadsDecoder decodes N-Quads documents. Graph labels are ignored; all
// statements land in one graph.
type NQuadsDecoder struct{}

// NewNQuadsDecoder creates an N-Quads decoder.
func NewNQuadsDecoder() *NQuadsDecoder { return &NQuadsDecoder{} }

// MimeType returns the N-Quads MIME type.
func (d *NQuadsDecoder) MimeType() string { return MimeNQuads }

// CanDecode reports whether mimeType names N-Quads.
func (d *NQuadsDecoder) CanDecode(mimeType string) bool {
	return mimeType == MimeNQuads
}

// Decode parses N-Quads content.
func (d *NQuadsDecoder) Decode(content []byte) (*graph.Graph, error) {
	return decodeQuads(nquads.NewReader(bytes.NewReader(content), false), d.MimeType())
}

// JSONLDDecoder decodes JSON-LD documents.
type JSONLDDecoder struct{}

// NewJSONLDDecoder creates a JSON-LD decoder.
func NewJSONLDDecoder() *JSONLDDecoder { return &JSONLDDecoder{} }

// MimeType returns the JSON-LD MIME type.
func (d *JSONLDDecoder) MimeType() string { return MimeJSONLD }

// CanDecode reports whether mimeType names JSON-LD.
func (d *JSONLDDecoder) CanDecode(mimeType string) bool {
	return mimeType == MimeJSONLD || mimeType == "application/json"
}

// Decode parses JSON-LD content.
func (d *JSONLDDecoder) Decode(content []byte) (*graph.Graph, error) {
	return decodeQuads(jsonld.NewReader(bytes.NewReader(content)), d.MimeType())
}

func decodeQuads(r quadReader, mimeType string) (*graph.Graph, error) {
	g := graph.New()
	for line := 1; ; line++ {
		q, err := r.ReadQuad()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, unparseable(fmt.Errorf("statement %d: %v", line, err), mimeType)
		}

		t, err := convertQuad(q)
		if err != nil {
			return nil, unparseable(fmt.Errorf("statement %d: %v", line, err), mimeType)
		}
		g.Add(t)
	}
	return g, nil
}

func unparseable(err error, mimeType string) error {
	return errs.WrapInvalid(fmt.Errorf("%w: %v", ErrUnparseable, err), "parser", "Decode", "decode "+mimeType)
}

func convertQuad(q quad.Quad) (graph.Triple, error) {
	subject, err := convertValue(q.Subject)
	if err != nil {
		return graph.Triple{}, fmt.Errorf("subject: %w", err)
	}
	if subject.IsLiteral() {
		return graph.Triple{}, fmt.Errorf("subject %s is a literal", subject)
	}

	predicate, err := convertValue(q.Predicate)
	if err != nil {
		return graph.Triple{}, fmt.Errorf("predicate: %w", err)
	}
	if !predicate.IsIRI() {
		return graph.Triple{}, fmt.Errorf("predicate %s is not an IRI", predicate)
	}

	object, err := convertValue(q.Object)
	if err != nil {
		return graph.Triple{}, fmt.Errorf("object: %w", err)
	}

	return graph.Triple{Subject: subject, Predicate: predicate.Value, Object: object}, nil
}

func convertValue(v quad.Value) (graph.Term, error) {
	switch v := v.(type) {
	case nil:
		return graph.Term{}, errors.New("missing term")
	case quad.IRI:
		return graph.IRI(string(v)), nil
	case quad.BNode:
		return graph.Blank(string(v)), nil
	case quad.String:
		return graph.Literal(string(v), ""), nil
	case quad.TypedString:
		return graph.Literal(string(v.Value), string(v.Type)), nil
	case quad.LangString:
		return graph.LangLiteral(string(v.Value), v.Lang), nil
	case quad.TypedStringer:
		// Literals of well-known types arrive converted to native values.
		ts := v.TypedString()
		return graph.Literal(string(ts.Value), string(ts.Type)), nil
	default:
		return graph.Literal(fmt.Sprint(v.Native()), ""), nil
	}
}

// ContentHash returns the hex SHA-256 of a document, used to skip rebuilds
// when a watched file is rewritten with identical content.
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
