// Package fileio reads converter input and writes converter output, handling
// compressed files transparently based on their extension.
package fileio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/geoknoesis/rdf-convert/rdf"
)

// StdioPath selects stdin for input and stdout for output.
const StdioPath = "-"

// Compression identifies a stream compression format.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

var extensions = map[string]Compression{
	".gz":  CompressionGzip,
	".zst": CompressionZstd,
	".lz4": CompressionLZ4,
}

// CompressionFromPath returns the compression implied by the file extension.
func CompressionFromPath(path string) Compression {
	lower := strings.ToLower(path)
	for ext, c := range extensions {
		if strings.HasSuffix(lower, ext) {
			return c
		}
	}
	return CompressionNone
}

// StripCompressionExt removes a trailing compression extension, if any.
func StripCompressionExt(path string) string {
	lower := strings.ToLower(path)
	for ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

// NewReader wraps r in a decompressor for c. Closing the result does not close r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone, "":
		return io.NopCloser(r), nil
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", c)
	}
}

// NewWriter wraps w in a compressor for c. Close flushes the compressed stream
// but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone, "":
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", c)
	}
}

// ReadInput reads a whole document from path, or from stdin for StdioPath,
// decompressing by extension. A positive maxBytes bounds the decompressed size
// and fails with rdf.ErrInputTooLarge when exceeded.
func ReadInput(path string, maxBytes int64) ([]byte, error) {
	if path == StdioPath || path == "" {
		return ReadStream(os.Stdin, "stdin", CompressionNone, maxBytes)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadStream(f, path, CompressionFromPath(path), maxBytes)
}

// ReadStream reads all of r through a decompressor for c. name only labels errors.
func ReadStream(r io.Reader, name string, c Compression, maxBytes int64) ([]byte, error) {
	dec, err := NewReader(r, c)
	if err != nil {
		return nil, fmt.Errorf("error creating %s reader for %s: %w", c, name, err)
	}
	defer dec.Close()

	var src io.Reader = dec
	if maxBytes > 0 {
		src = io.LimitReader(dec, maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", rdf.ErrInputTooLarge, name, maxBytes)
	}
	return data, nil
}

// Create opens path for writing, truncating it, and compresses by extension.
// StdioPath writes to stdout. Closing the result flushes and closes the file.
func Create(path string) (io.WriteCloser, error) {
	if path == StdioPath || path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", rdf.ErrIO, path, err)
	}
	c := CompressionFromPath(path)
	w, err := NewWriter(f, c)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileWriteCloser{w: w, f: f}, nil
}

// WriteOutput writes data to path as Create does.
func WriteOutput(path string, data []byte) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("%w: write %s: %w", rdf.ErrIO, path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", rdf.ErrIO, path, err)
	}
	return nil
}

type fileWriteCloser struct {
	w io.WriteCloser
	f *os.File
}

func (c *fileWriteCloser) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c *fileWriteCloser) Close() error {
	err := c.w.Close()
	if cerr := c.f.Close(); err == nil {
		err = cerr
	}
	return err
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
