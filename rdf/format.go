package rdf

import (
	"fmt"
	"path/filepath"
	"strings"
)

// InputFormat identifies the structured document format being converted.
type InputFormat string

const (
	InputAuto InputFormat = "auto"
	InputXML  InputFormat = "xml"
	InputJSON InputFormat = "json"
)

// OutputFormat identifies how converted triples are serialized.
type OutputFormat string

const (
	OutputNTriples  OutputFormat = "ntriples"
	OutputJSONLD    OutputFormat = "jsonld"
	OutputCanonical OutputFormat = "canonical"
)

// ParseInputFormat normalizes an input format string.
func ParseInputFormat(value string) (InputFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return InputAuto, true
	case "xml":
		return InputXML, true
	case "json", "jsonc":
		return InputJSON, true
	default:
		return "", false
	}
}

// ParseOutputFormat normalizes an output format string.
func ParseOutputFormat(value string) (OutputFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "ntriples", "nt", "ttl":
		return OutputNTriples, true
	case "jsonld", "json-ld":
		return OutputJSONLD, true
	case "canonical", "nquads", "urdna2015":
		return OutputCanonical, true
	default:
		return "", false
	}
}

// ContentType returns the media type used when serving the output format.
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputJSONLD:
		return "application/ld+json"
	case OutputCanonical:
		return "application/n-quads"
	default:
		return "application/n-triples"
	}
}

// compressionExts are stripped before inferring a format from a file name.
var compressionExts = []string{".gz", ".zst", ".lz4"}

// InputFormatFromPath infers the input format from a filename extension.
func InputFormatFromPath(path string) (InputFormat, error) {
	name := strings.ToLower(path)
	for _, ext := range compressionExts {
		name = strings.TrimSuffix(name, ext)
	}
	switch filepath.Ext(name) {
	case ".xml":
		return InputXML, nil
	case ".json", ".jsonc":
		return InputJSON, nil
	default:
		return "", fmt.Errorf("%w: cannot infer format for path %s", ErrUnsupportedFormat, path)
	}
}

// InputFormatFromContentType infers the input format from a content type.
func InputFormatFromContentType(contentType string) (InputFormat, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch {
	case mediaType == "application/xml", mediaType == "text/xml", strings.HasSuffix(mediaType, "+xml"):
		return InputXML, nil
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return InputJSON, nil
	default:
		return "", fmt.Errorf("%w: content type %s", ErrUnsupportedFormat, contentType)
	}
}
