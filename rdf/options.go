package rdf

import "context"

const (
	// DefaultMaxDepth bounds element/object nesting in converted documents.
	DefaultMaxDepth = 512
	// DefaultMaxTriples is zero: no limit on emitted triples.
	DefaultMaxTriples = 0
	// DefaultMaxInputBytes is zero: no limit on input size.
	DefaultMaxInputBytes = 0
)

// Option configures conversion behavior.
type Option func(*Options)

// Options configures converter limits and behavior.
// Zero or negative limits disable the corresponding check.
type Options struct {
	// Context for cancellation and timeouts. Nil means no cancellation.
	Context context.Context

	// Limits for untrusted input
	MaxDepth      int
	MaxTriples    int64
	MaxInputBytes int64

	// AllowJSONComments accepts comments and trailing commas in JSON input.
	AllowJSONComments bool
	// StrictBaseIRI validates the caller's base URI before converting.
	StrictBaseIRI bool
}

// OptContext sets the context for cancellation and timeouts.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptMaxDepth sets the maximum nesting depth limit.
func OptMaxDepth(maxDepth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = maxDepth
	}
}

// OptMaxTriples sets the maximum number of triples a conversion may emit.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptMaxInputBytes sets the maximum accepted input size.
func OptMaxInputBytes(maxBytes int64) Option {
	return func(opts *Options) {
		opts.MaxInputBytes = maxBytes
	}
}

// OptSafeLimits applies limits suitable for untrusted input.
func OptSafeLimits() Option {
	return func(opts *Options) {
		safe := safeOptions()
		opts.MaxDepth = safe.MaxDepth
		opts.MaxTriples = safe.MaxTriples
		opts.MaxInputBytes = safe.MaxInputBytes
	}
}

// OptAllowJSONComments accepts JSONC input (comments, trailing commas).
func OptAllowJSONComments() Option {
	return func(opts *Options) {
		opts.AllowJSONComments = true
	}
}

// OptStrictBaseIRI rejects base URIs that fail ValidateBaseIRI.
func OptStrictBaseIRI() Option {
	return func(opts *Options) {
		opts.StrictBaseIRI = true
	}
}

func defaultOptions() Options {
	return Options{
		MaxDepth:      DefaultMaxDepth,
		MaxTriples:    DefaultMaxTriples,
		MaxInputBytes: DefaultMaxInputBytes,
	}
}

func safeOptions() Options {
	return Options{
		MaxDepth:      128,
		MaxTriples:    10_000_000,
		MaxInputBytes: 64 << 20,
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// checkContext returns the context error, if any, without blocking.
func (o *Options) checkContext() error {
	if o.Context == nil {
		return nil
	}
	return o.Context.Err()
}
