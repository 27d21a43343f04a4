package rdf

import "strings"

const (
	// DefaultNamespace prefixes every IRI minted by the XML and JSON converters.
	DefaultNamespace = "https://decisym.ai"

	// XMLModelNamespace is the vocabulary used for XML element and attribute names.
	XMLModelNamespace = DefaultNamespace + "/xml2rdf/model#"
	// JSONModelNamespace is the vocabulary used for JSON member names.
	JSONModelNamespace = DefaultNamespace + "/json2rdf/model#"

	rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

// Triple is a single statement as handed to a TripleWriter.
//
// Subject and Predicate are serialized tokens ("<iri>" or "_:id"). Object is a
// serialized token when Literal is false and the raw lexical form otherwise.
type Triple struct {
	// Subject is the subject token.
	Subject string
	// Predicate is the predicate token.
	Predicate string
	// Object is the object token or literal text.
	Object string
	// Literal reports whether Object is a plain literal.
	Literal bool
}

// String renders the triple as one line, without the trailing newline.
func (t Triple) String() string {
	return renderTriple(t.Subject, t.Predicate, t.Object, t.Literal)
}

// IRIToken wraps an IRI in angle brackets.
func IRIToken(iri string) string {
	return "<" + iri + ">"
}

// BlankNodeToken prefixes a blank node identifier with "_:".
func BlankNodeToken(id string) string {
	return "_:" + id
}

// EscapeLiteral prefixes every double quote with a backslash. Nothing else is escaped.
func EscapeLiteral(value string) string {
	return strings.ReplaceAll(value, `"`, `\"`)
}

// ntriplesEscaper applies the N-Triples ECHAR escapes needed to keep a literal on
// one line and unambiguous.
var ntriplesEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// EscapeNTriples escapes a literal value as strict N-Triples requires: backslash,
// double quote, line feed and carriage return.
func EscapeNTriples(value string) string {
	return ntriplesEscaper.Replace(value)
}

func renderObject(object string, isLiteral bool, escape func(string) string) string {
	if isLiteral {
		return `"` + escape(object) + `"`
	}
	return object
}

func renderTriple(subject, predicate, object string, isLiteral bool) string {
	return renderTripleWith(subject, predicate, object, isLiteral, EscapeLiteral)
}

func renderTripleWith(subject, predicate, object string, isLiteral bool, escape func(string) string) string {
	var b strings.Builder
	obj := renderObject(object, isLiteral, escape)
	b.Grow(len(subject) + len(predicate) + len(obj) + 4)
	b.WriteString(subject)
	b.WriteByte(' ')
	b.WriteString(predicate)
	b.WriteByte(' ')
	b.WriteString(obj)
	b.WriteString(" .")
	return b.String()
}
