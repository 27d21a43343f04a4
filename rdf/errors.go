package rdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeInvalidEncoding indicates the input was not valid UTF-8.
	ErrCodeInvalidEncoding ErrorCode = "INVALID_ENCODING"
	// ErrCodeConversionFailed indicates the structured-to-triples converter failed.
	ErrCodeConversionFailed ErrorCode = "CONVERSION_FAILED"
	// ErrCodeIOError indicates an I/O error in a file-backed sink.
	ErrCodeIOError ErrorCode = "IO_ERROR"
	// ErrCodeInvalidNamespace indicates an unusable base URI or namespace label.
	ErrCodeInvalidNamespace ErrorCode = "INVALID_NAMESPACE"
	// ErrCodeUnsupportedFormat indicates an unsupported input or output format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeDepthExceeded indicates that nesting depth exceeded the configured limit.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"
	// ErrCodeTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrCodeTripleLimitExceeded ErrorCode = "TRIPLE_LIMIT_EXCEEDED"
	// ErrCodeInputTooLarge indicates that the input exceeded the configured size.
	ErrCodeInputTooLarge ErrorCode = "INPUT_TOO_LARGE"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

var (
	// ErrInvalidEncoding indicates the input bytes are not valid UTF-8.
	ErrInvalidEncoding = errors.New("rdf: invalid UTF-8 input")
	// ErrIO indicates a sink could not write to its destination.
	ErrIO = errors.New("rdf: I/O error")
	// ErrInvalidNamespace indicates a base URI or label that would corrupt rewriting.
	ErrInvalidNamespace = errors.New("rdf: invalid namespace")
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("rdf: unsupported format")
	// ErrDepthExceeded indicates that nesting depth exceeded the configured limit.
	ErrDepthExceeded = errors.New("rdf: nesting depth exceeded configured limit")
	// ErrTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrTripleLimitExceeded = errors.New("rdf: maximum number of triples exceeded")
	// ErrInputTooLarge indicates that the input exceeded the configured size.
	ErrInputTooLarge = errors.New("rdf: input exceeds configured size")
)

// Code returns the error code for an error, or ErrCodeConversionFailed if unknown.
// Returns empty string for nil errors.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidEncoding):
		return ErrCodeInvalidEncoding
	case errors.Is(err, ErrInvalidNamespace):
		return ErrCodeInvalidNamespace
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrDepthExceeded):
		return ErrCodeDepthExceeded
	case errors.Is(err, ErrTripleLimitExceeded):
		return ErrCodeTripleLimitExceeded
	case errors.Is(err, ErrInputTooLarge):
		return ErrCodeInputTooLarge
	case errors.Is(err, ErrIO):
		return ErrCodeIOError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}

	return ErrCodeConversionFailed
}

// ConversionError reports a converter failure. The original message is kept verbatim.
type ConversionError struct {
	Format InputFormat // Input format being converted
	Err    error       // Underlying converter error
}

func (e *ConversionError) Error() string {
	return "conversion failed: " + e.Err.Error()
}

func (e *ConversionError) Unwrap() error { return e.Err }

func wrapConversionError(format InputFormat, err error) error {
	if err == nil {
		return nil
	}
	var convErr *ConversionError
	if errors.As(err, &convErr) || errors.Is(err, ErrIO) {
		return err
	}
	return &ConversionError{Format: format, Err: err}
}

// SyntaxError provides structured context for malformed input documents.
type SyntaxError struct {
	Format  InputFormat // Input format
	Excerpt string      // Offending input line, if known
	Line    int         // 1-based line number (0 if unknown)
	Column  int         // 1-based column number (0 if unknown)
	Offset  int64       // Byte offset in input (-1 if unknown)
	Err     error       // Underlying error
}

func (e *SyntaxError) Error() string {
	var msg strings.Builder
	msg.WriteString(string(e.Format))

	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	} else if e.Offset >= 0 {
		fmt.Fprintf(&msg, " (offset %d)", e.Offset)
	}

	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())

	if excerpt := e.formatExcerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}

	return msg.String()
}

// formatExcerpt formats a readable excerpt of the line around the error position.
func (e *SyntaxError) formatExcerpt() string {
	if e.Excerpt == "" {
		return ""
	}

	const maxExcerptLen = 80
	const contextLen = 40

	if e.Column > 0 {
		start := e.Column - 1
		if start > len(e.Excerpt) {
			start = len(e.Excerpt)
		}

		excerptStart := start - contextLen
		if excerptStart < 0 {
			excerptStart = 0
		}
		excerptEnd := start + contextLen
		if excerptEnd > len(e.Excerpt) {
			excerptEnd = len(e.Excerpt)
		}

		excerpt := e.Excerpt[excerptStart:excerptEnd]
		if excerptStart > 0 {
			excerpt = "..." + excerpt
		}
		if excerptEnd < len(e.Excerpt) {
			excerpt = excerpt + "..."
		}
		if excerpt == "" {
			return ""
		}

		caretPos := start - excerptStart
		if excerptStart > 0 {
			caretPos += 3 // "..."
		}
		if caretPos >= len(excerpt) {
			caretPos = len(excerpt) - 1
		}

		var result strings.Builder
		result.WriteString(excerpt)
		result.WriteString("\n  ")
		result.WriteString(strings.Repeat(" ", caretPos))
		result.WriteByte('^')
		return result.String()
	}

	if len(e.Excerpt) > maxExcerptLen {
		return e.Excerpt[:maxExcerptLen] + "..."
	}
	return e.Excerpt
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// newSyntaxError locates offset inside input and attaches line, column and the
// offending line. A negative offset leaves the position unknown.
func newSyntaxError(format InputFormat, input []byte, offset int64, err error) error {
	if err == nil {
		return nil
	}
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return err
	}
	se := &SyntaxError{Format: format, Offset: offset, Err: err}
	if offset < 0 || input == nil {
		return se
	}
	if offset > int64(len(input)) {
		offset = int64(len(input))
	}
	line, col, lineStart := 1, 1, 0
	for i := 0; i < int(offset); i++ {
		if input[i] == '\n' {
			line++
			col = 1
			lineStart = i + 1
			continue
		}
		col++
	}
	lineEnd := lineStart
	for lineEnd < len(input) && input[lineEnd] != '\n' {
		lineEnd++
	}
	se.Line = line
	se.Column = col
	se.Excerpt = strings.TrimRight(string(input[lineStart:lineEnd]), "\r")
	return se
}
