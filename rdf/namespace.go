package rdf

import (
	"fmt"
	"strings"
)

// NamespaceRewriter rebases DefaultNamespace onto a caller-supplied base URI,
// optionally inserting a label in front of local names.
//
// With a label L and trimmed base B the substitutions run in this order, each on
// the output of the previous one:
//
//	https://decisym.ai#/                 -> B#L.
//	https://decisym.ai/xml2rdf/model#    -> B/xml2rdf/model#L.
//	https://decisym.ai                   -> B
//	#/                                   -> #
//
// Without a label only the third substitution runs. The order matters: the later
// patterns are broader and would otherwise swallow text the earlier ones need.
//
// Rewriting is plain text substitution. A base or label that itself contains
// DefaultNamespace would be rewritten again; ValidateNamespace rejects those, and
// bases that are a prefix of DefaultNamespace. On arbitrary text a base can still
// combine with the characters after a replaced occurrence to spell
// DefaultNamespace again; converter output never has such characters there.
type NamespaceRewriter struct {
	base  string
	label Optional[string]
}

// NewNamespaceRewriter trims every trailing '#' from baseURI and returns a rewriter.
func NewNamespaceRewriter(baseURI string, label Optional[string]) *NamespaceRewriter {
	return &NamespaceRewriter{
		base:  strings.TrimRight(baseURI, "#"),
		label: label,
	}
}

// Base returns the trimmed base URI.
func (r *NamespaceRewriter) Base() string { return r.base }

// Rewrite applies the substitutions to text. Text without any occurrence of
// DefaultNamespace is returned unchanged, so rewriting is idempotent.
func (r *NamespaceRewriter) Rewrite(text string) string {
	if !strings.Contains(text, DefaultNamespace) {
		return text
	}
	return r.substitute(text)
}

// RewriteTriple rewrites the terms of one triple as if they were rendered on a
// single line: when any term carries DefaultNamespace every term is rewritten,
// otherwise all are returned unchanged. No pattern can span two terms, so the
// result equals rewriting the rendered line.
func (r *NamespaceRewriter) RewriteTriple(subject, predicate, object string) (string, string, string) {
	if !strings.Contains(subject, DefaultNamespace) &&
		!strings.Contains(predicate, DefaultNamespace) &&
		!strings.Contains(object, DefaultNamespace) {
		return subject, predicate, object
	}
	return r.substitute(subject), r.substitute(predicate), r.substitute(object)
}

func (r *NamespaceRewriter) substitute(text string) string {
	label, ok := r.label.Get()
	if !ok {
		return strings.ReplaceAll(text, DefaultNamespace, r.base)
	}

	text = strings.ReplaceAll(text, DefaultNamespace+"#/", r.base+"#"+label+".")
	text = strings.ReplaceAll(text, XMLModelNamespace, r.base+"/xml2rdf/model#"+label+".")
	text = strings.ReplaceAll(text, DefaultNamespace, r.base)
	return strings.ReplaceAll(text, "#/", "#")
}

// RewriteNamespaces rewrites a serialized triple stream in one call.
func RewriteNamespaces(text, baseURI string, label Optional[string]) string {
	return NewNamespaceRewriter(baseURI, label).Rewrite(text)
}

// ValidateNamespace rejects base URIs and labels that would make the rewrite
// ambiguous: anything containing DefaultNamespace, bases that are a proper prefix
// of it, and labels that are empty or contain whitespace or IRI delimiters.
func ValidateNamespace(baseURI string, label Optional[string]) error {
	if strings.Contains(baseURI, DefaultNamespace) {
		return fmt.Errorf("%w: base URI %q contains the default namespace", ErrInvalidNamespace, baseURI)
	}
	if trimmed := strings.TrimRight(baseURI, "#"); trimmed != "" && strings.HasPrefix(DefaultNamespace, trimmed) {
		return fmt.Errorf("%w: base URI %q is a prefix of the default namespace", ErrInvalidNamespace, baseURI)
	}
	value, ok := label.Get()
	if !ok {
		return nil
	}
	if value == "" {
		return fmt.Errorf("%w: empty namespace label", ErrInvalidNamespace)
	}
	if strings.Contains(value, DefaultNamespace) {
		return fmt.Errorf("%w: label %q contains the default namespace", ErrInvalidNamespace, value)
	}
	if i := strings.IndexAny(value, " \t\r\n<>\"#/"); i >= 0 {
		return fmt.Errorf("%w: label %q contains %q", ErrInvalidNamespace, value, value[i])
	}
	return nil
}
