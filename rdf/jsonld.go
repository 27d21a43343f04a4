package rdf

import (
	"encoding/json"
	"fmt"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

const (
	nquadsMediaType = "application/n-quads"
	defaultGraph    = "@default"
)

// DatasetWriter collects triples into a json-gold dataset. Literal values are
// stored as given, so no escaping round trip can alter them.
type DatasetWriter struct {
	dataset *ld.RDFDataset
}

// NewDatasetWriter returns a sink holding an empty dataset.
func NewDatasetWriter() *DatasetWriter {
	return &DatasetWriter{dataset: ld.NewRDFDataset()}
}

// AddTriple adds one triple to the default graph. Subject, predicate and resource
// objects must be "<iri>" or "_:id" tokens.
func (d *DatasetWriter) AddTriple(subject, predicate, object string, isLiteral bool) error {
	s, err := datasetTerm(subject)
	if err != nil {
		return err
	}
	p, err := datasetTerm(predicate)
	if err != nil {
		return err
	}
	var o ld.Node
	if isLiteral {
		o = ld.NewLiteral(object, ld.XSDString, "")
	} else if o, err = datasetTerm(object); err != nil {
		return err
	}
	d.dataset.Graphs[defaultGraph] = append(d.dataset.Graphs[defaultGraph], ld.NewQuad(s, p, o, ""))
	return nil
}

// Dataset returns the collected dataset.
func (d *DatasetWriter) Dataset() *ld.RDFDataset { return d.dataset }

// Len returns the number of triples collected.
func (d *DatasetWriter) Len() int { return len(d.dataset.Graphs[defaultGraph]) }

func datasetTerm(token string) (ld.Node, error) {
	switch {
	case strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">") && len(token) >= 2:
		return ld.NewIRI(token[1 : len(token)-1]), nil
	case strings.HasPrefix(token, "_:") && len(token) > 2:
		return ld.NewBlankNode(token), nil
	default:
		return nil, fmt.Errorf("rdf: invalid term %q", token)
	}
}

// ConvertDataset converts input like Convert but collects the rebased triples
// into a json-gold dataset instead of serializing them.
func ConvertDataset(format InputFormat, input []byte, baseURI string, label Optional[string], opts ...Option) (*ld.RDFDataset, error) {
	sink := NewDatasetWriter()
	if err := convertInto(sink, format, input, baseURI, label, opts); err != nil {
		return nil, err
	}
	return sink.Dataset(), nil
}

// ParseNTriples parses strict N-Triples text, as produced by ConvertNTriples,
// into a dataset.
func ParseNTriples(text string) (*ld.RDFDataset, error) {
	serializer := &ld.NQuadRDFSerializer{}
	dataset, err := serializer.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("rdf: invalid triple stream: %w", err)
	}
	return dataset, nil
}

// ValidateNTriples parses strict N-Triples text and reports the first statement
// that does not parse. Output of ConvertNTriples always qualifies when its IRIs
// are well formed; the quote-only escaping of Convert does not for literals that
// span lines.
func ValidateNTriples(text string) error {
	_, err := ParseNTriples(text)
	return err
}

// ToJSONLD serializes a dataset as an expanded JSON-LD document.
func ToJSONLD(dataset *ld.RDFDataset) ([]byte, error) {
	api := ld.NewJsonLdApi()
	doc, err := api.FromRDF(dataset, ld.NewJsonLdOptions(""))
	if err != nil {
		return nil, fmt.Errorf("jsonld: %w", err)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("jsonld: %w", err)
	}
	return append(out, '\n'), nil
}

// Canonicalize returns the URDNA2015 canonical N-Quads form of a dataset:
// sorted, deduplicated, with blank nodes relabeled deterministically.
func Canonicalize(dataset *ld.RDFDataset) (string, error) {
	api := ld.NewJsonLdApi()
	opts := ld.NewJsonLdOptions("")
	opts.Format = nquadsMediaType
	opts.Algorithm = ld.AlgorithmURDNA2015
	normalized, err := api.Normalize(dataset, opts)
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	value, ok := normalized.(string)
	if !ok {
		return "", fmt.Errorf("canonicalize: unexpected result %T", normalized)
	}
	return value, nil
}

// Render converts input and serializes the rebased triples as output.
// OutputNTriples is the Convert stream; the other forms are built from the
// triples themselves, so literal values reach them unchanged.
func Render(output OutputFormat, format InputFormat, input []byte, baseURI string, label Optional[string], opts ...Option) ([]byte, error) {
	switch output {
	case OutputNTriples, "":
		ttl, err := Convert(format, input, baseURI, label, opts...)
		if err != nil {
			return nil, err
		}
		return []byte(ttl), nil
	case OutputJSONLD, OutputCanonical:
	default:
		return nil, fmt.Errorf("%w: output %q", ErrUnsupportedFormat, output)
	}

	dataset, err := ConvertDataset(format, input, baseURI, label, opts...)
	if err != nil {
		return nil, err
	}
	if output == OutputJSONLD {
		return ToJSONLD(dataset)
	}
	canonical, err := Canonicalize(dataset)
	if err != nil {
		return nil, err
	}
	return []byte(canonical), nil
}
