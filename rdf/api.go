package rdf

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

// ConvertXMLToTTL converts an XML document into a serialized triple stream whose
// default-namespace IRIs are rebased onto baseURI, with label inserted when present.
//
// Input that is not valid UTF-8 fails with ErrInvalidEncoding before any conversion
// is attempted. Converter failures are returned as *ConversionError. No partial
// output is ever returned.
func ConvertXMLToTTL(input []byte, baseURI string, label Optional[string], opts ...Option) (string, error) {
	return convertAndRewrite(InputXML, input, baseURI, label, opts)
}

// ConvertJSONToTTL is the JSON counterpart of ConvertXMLToTTL.
func ConvertJSONToTTL(input []byte, baseURI string, label Optional[string], opts ...Option) (string, error) {
	return convertAndRewrite(InputJSON, input, baseURI, label, opts)
}

// Convert dispatches on format. InputAuto sniffs the first significant byte.
func Convert(format InputFormat, input []byte, baseURI string, label Optional[string], opts ...Option) (string, error) {
	if !utf8.Valid(input) {
		return "", ErrInvalidEncoding
	}
	format, err := resolveInputFormat(format, input)
	if err != nil {
		return "", err
	}
	return convertAndRewrite(format, input, baseURI, label, opts)
}

// StreamConvert converts input directly into w, rewriting each triple as it is
// produced instead of buffering the whole result. With a FileWriter this keeps
// memory flat for large documents; triples emitted before a failure stay in w.
func StreamConvert(w LineWriter, format InputFormat, input []byte, baseURI string, label Optional[string], opts ...Option) error {
	return convertInto(w, format, input, baseURI, label, opts)
}

// ConvertNTriples is Convert with literals escaped by EscapeNTriples, so the
// result is strict N-Triples that ValidateNTriples and other RDF tools accept
// even when literals span lines or contain backslashes.
func ConvertNTriples(format InputFormat, input []byte, baseURI string, label Optional[string], opts ...Option) (string, error) {
	sink := NewNTriplesWriter()
	if err := convertInto(sink, format, input, baseURI, label, opts); err != nil {
		return "", err
	}
	return sink.String(), nil
}

// convertInto runs the boundary checks and converts input into w through a
// rewriting sink.
func convertInto(w TripleWriter, format InputFormat, input []byte, baseURI string, label Optional[string], opts []Option) error {
	if err := validateRequest(input, baseURI, label, opts); err != nil {
		return err
	}
	format, err := resolveInputFormat(format, input)
	if err != nil {
		return err
	}
	if err := checkInputSize(input, opts); err != nil {
		return wrapConversionError(format, err)
	}

	docBase := documentBase(baseURI)
	rewriter := NewNamespaceRewriter(baseURI, label)
	var sink TripleWriter = &tripleRewriter{next: w, rewriter: rewriter}
	if lw, ok := w.(LineWriter); ok {
		sink = NewRewritingWriter(lw, rewriter)
	}
	switch format {
	case InputXML:
		err = xmlToTriples([]io.Reader{bytes.NewReader(input)}, sink, docBase, opts...)
	default:
		err = jsonToTriples(bytes.NewReader(input), sink, Some(docBase), opts...)
	}
	return wrapConversionError(format, err)
}

func convertAndRewrite(format InputFormat, input []byte, baseURI string, label Optional[string], opts []Option) (string, error) {
	if err := validateRequest(input, baseURI, label, opts); err != nil {
		return "", err
	}

	var (
		ttl     string
		err     error
		docBase = documentBase(baseURI)
	)
	switch format {
	case InputXML:
		ttl, err = FromXML(input, docBase, opts...)
	case InputJSON:
		ttl, err = FromJSON(input, Some(docBase), opts...)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}
	return RewriteNamespaces(ttl, baseURI, label), nil
}

// documentBase is the subject of the document triple. It is trimmed the same way
// as the rewrite base so trailing '#' never changes the output.
func documentBase(baseURI string) string {
	return strings.TrimRight(baseURI, "#")
}

func validateRequest(input []byte, baseURI string, label Optional[string], opts []Option) error {
	if !utf8.Valid(input) {
		return ErrInvalidEncoding
	}
	if err := ValidateNamespace(baseURI, label); err != nil {
		return err
	}
	if buildOptions(opts).StrictBaseIRI {
		return ValidateBaseIRI(baseURI)
	}
	return nil
}
