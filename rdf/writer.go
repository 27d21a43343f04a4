package rdf

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// TripleWriter accepts triples one at a time and appends them to a destination.
//
// Literal objects are quoted with embedded '"' escaped as '\"'. Resource objects
// are written verbatim and must already be valid tokens.
type TripleWriter interface {
	AddTriple(subject, predicate, object string, isLiteral bool) error
}

// LineWriter is a TripleWriter that also accepts pre-rendered triple lines
// (without the trailing newline).
type LineWriter interface {
	TripleWriter
	WriteLine(line string) error
}

// MemoryWriter buffers rendered triples in memory. It never touches the filesystem.
type MemoryWriter struct {
	buf    strings.Builder
	count  int
	escape func(string) string
}

// NewMemoryWriter returns an empty in-memory sink.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{escape: EscapeLiteral}
}

// NewNTriplesWriter returns an empty in-memory sink that escapes literals with
// EscapeNTriples, so every triple stays on one line and parses as N-Triples.
func NewNTriplesWriter() *MemoryWriter {
	return &MemoryWriter{escape: EscapeNTriples}
}

// AddTriple appends one rendered triple line. It never fails.
func (m *MemoryWriter) AddTriple(subject, predicate, object string, isLiteral bool) error {
	escape := m.escape
	if escape == nil {
		escape = EscapeLiteral
	}
	return m.WriteLine(renderTripleWith(subject, predicate, object, isLiteral, escape))
}

// WriteLine appends a rendered line followed by a newline.
func (m *MemoryWriter) WriteLine(line string) error {
	m.buf.WriteString(line)
	m.buf.WriteByte('\n')
	m.count++
	return nil
}

// Len returns the number of lines written.
func (m *MemoryWriter) Len() int { return m.count }

// String returns the serialized triple stream.
func (m *MemoryWriter) String() string { return m.buf.String() }

// FileWriter appends triples to a file, flushing after every triple so each one
// is visible to readers as soon as AddTriple returns.
//
// FileWriter does no locking; concurrent writers to the same path must serialize
// externally.
type FileWriter struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	err    error
}

// OpenFileWriter opens path for appending, creating it if absent.
func OpenFileWriter(path string) (*FileWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	return &FileWriter{path: path, file: file, writer: bufio.NewWriter(file)}, nil
}

// Path returns the file the writer appends to.
func (f *FileWriter) Path() string { return f.path }

// AddTriple renders the triple, appends it and flushes.
func (f *FileWriter) AddTriple(subject, predicate, object string, isLiteral bool) error {
	return f.WriteLine(renderTriple(subject, predicate, object, isLiteral))
}

// WriteLine appends a rendered line followed by a newline and flushes.
func (f *FileWriter) WriteLine(line string) error {
	if f.err != nil {
		return f.err
	}
	if _, err := f.writer.WriteString(line); err != nil {
		return f.fail(err)
	}
	if err := f.writer.WriteByte('\n'); err != nil {
		return f.fail(err)
	}
	if err := f.writer.Flush(); err != nil {
		return f.fail(err)
	}
	return nil
}

// Close flushes buffered data and closes the file.
func (f *FileWriter) Close() error {
	if f.file == nil {
		return f.err
	}
	flushErr := f.writer.Flush()
	closeErr := f.file.Close()
	f.file = nil
	if f.err != nil {
		return f.err
	}
	if flushErr != nil {
		return f.fail(flushErr)
	}
	if closeErr != nil {
		return f.fail(closeErr)
	}
	return nil
}

func (f *FileWriter) fail(err error) error {
	f.err = fmt.Errorf("%w: write %s: %w", ErrIO, f.path, err)
	return f.err
}

// RewritingWriter rewrites the namespaces of every triple before handing it to
// the next writer. Triples are rewritten term by term and rendered by the next
// writer; pre-rendered lines are rewritten as text. The result is the same as
// rewriting the whole stream at once for any stream in which every line carries
// the default namespace, which holds for converter output.
type RewritingWriter struct {
	next     LineWriter
	rewriter *NamespaceRewriter
}

// NewRewritingWriter wraps next so it receives rebased lines.
func NewRewritingWriter(next LineWriter, rewriter *NamespaceRewriter) *RewritingWriter {
	return &RewritingWriter{next: next, rewriter: rewriter}
}

// AddTriple rewrites and forwards one triple.
func (r *RewritingWriter) AddTriple(subject, predicate, object string, isLiteral bool) error {
	subject, predicate, object = r.rewriter.RewriteTriple(subject, predicate, object)
	return r.next.AddTriple(subject, predicate, object, isLiteral)
}

// WriteLine rewrites and forwards one rendered line.
func (r *RewritingWriter) WriteLine(line string) error {
	return r.next.WriteLine(r.rewriter.Rewrite(line))
}

// tripleRewriter is the term-level half of RewritingWriter for sinks that only
// accept triples.
type tripleRewriter struct {
	next     TripleWriter
	rewriter *NamespaceRewriter
}

func (r *tripleRewriter) AddTriple(subject, predicate, object string, isLiteral bool) error {
	subject, predicate, object = r.rewriter.RewriteTriple(subject, predicate, object)
	return r.next.AddTriple(subject, predicate, object, isLiteral)
}

// limitWriter fails once more than max triples have been added.
type limitWriter struct {
	next  TripleWriter
	max   int64
	count int64
}

func newLimitWriter(next TripleWriter, max int64) TripleWriter {
	if max <= 0 {
		return next
	}
	return &limitWriter{next: next, max: max}
}

func (l *limitWriter) AddTriple(subject, predicate, object string, isLiteral bool) error {
	l.count++
	if l.count > l.max {
		return fmt.Errorf("%w (%d)", ErrTripleLimitExceeded, l.max)
	}
	return l.next.AddTriple(subject, predicate, object, isLiteral)
}
