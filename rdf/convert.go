package rdf

import (
	"bytes"
	"fmt"
	"io"
)

// Converter entry points used by FromXML and FromJSON.
var (
	xmlToTriples  = ConvertXML
	jsonToTriples = ConvertJSON
)

// FromXML converts one XML document into a serialized triple stream held in memory.
// Converter failures are returned as *ConversionError.
func FromXML(input []byte, baseURI string, opts ...Option) (string, error) {
	if err := checkInputSize(input, opts); err != nil {
		return "", wrapConversionError(InputXML, err)
	}
	readers := []io.Reader{bytes.NewReader(input)}
	sink := NewMemoryWriter()
	if err := xmlToTriples(readers, sink, baseURI, opts...); err != nil {
		return "", wrapConversionError(InputXML, err)
	}
	return sink.String(), nil
}

// FromJSON converts one JSON document into a serialized triple stream held in memory.
// An absent baseURI means no document triple is emitted.
func FromJSON(input []byte, baseURI Optional[string], opts ...Option) (string, error) {
	if err := checkInputSize(input, opts); err != nil {
		return "", wrapConversionError(InputJSON, err)
	}
	sink := NewMemoryWriter()
	if err := jsonToTriples(bytes.NewReader(input), sink, baseURI, opts...); err != nil {
		return "", wrapConversionError(InputJSON, err)
	}
	return sink.String(), nil
}

func checkInputSize(input []byte, opts []Option) error {
	options := buildOptions(opts)
	if options.MaxInputBytes > 0 && int64(len(input)) > options.MaxInputBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrInputTooLarge, len(input), options.MaxInputBytes)
	}
	return nil
}
