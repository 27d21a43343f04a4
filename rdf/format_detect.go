package rdf

import "bytes"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectInputFormat inspects the first significant byte of a document.
// It returns InputXML for '<', InputJSON for '{' or '[', and false otherwise.
func DetectInputFormat(sample []byte) (InputFormat, bool) {
	sample = bytes.TrimPrefix(sample, utf8BOM)
	sample = bytes.TrimLeft(sample, " \t\r\n")
	if len(sample) == 0 {
		return "", false
	}
	switch sample[0] {
	case '<':
		return InputXML, true
	case '{', '[':
		return InputJSON, true
	case '/':
		// JSONC documents may open with a comment.
		if bytes.HasPrefix(sample, []byte("//")) || bytes.HasPrefix(sample, []byte("/*")) {
			return InputJSON, true
		}
	}
	return "", false
}

// resolveInputFormat turns InputAuto into a concrete format.
func resolveInputFormat(format InputFormat, input []byte) (InputFormat, error) {
	switch format {
	case InputXML, InputJSON:
		return format, nil
	case InputAuto, "":
		if detected, ok := DetectInputFormat(input); ok {
			return detected, nil
		}
		return "", ErrUnsupportedFormat
	default:
		return "", ErrUnsupportedFormat
	}
}
