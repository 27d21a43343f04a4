package rdf

import (
	"fmt"
	"net/url"
)

// ValidateBaseIRI checks that iri is an absolute IRI usable as a rewrite base:
// a scheme starting with a letter, no control characters, and none of the
// characters that cannot appear unescaped between angle brackets.
//
// This is a basic check built on url.Parse, not a full RFC 3987 validator.
func ValidateBaseIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("%w: empty base IRI", ErrInvalidNamespace)
	}
	for i, r := range iri {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: control character at position %d in base IRI %q", ErrInvalidNamespace, i, iri)
		}
		switch r {
		case ' ', '<', '>', '"', '{', '}', '|', '\\', '^', '`':
			return fmt.Errorf("%w: character %q at position %d in base IRI %q", ErrInvalidNamespace, r, i, iri)
		}
	}

	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("%w: invalid base IRI syntax: %w", ErrInvalidNamespace, err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("%w: base IRI %q is relative", ErrInvalidNamespace, iri)
	}
	first := parsed.Scheme[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return fmt.Errorf("%w: scheme must start with a letter: %s", ErrInvalidNamespace, iri)
	}
	return nil
}
