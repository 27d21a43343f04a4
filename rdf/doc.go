// Package rdf converts XML and JSON documents into RDF triples and rebases the
// IRIs of the result onto a caller-supplied namespace.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// The pipeline has four parts:
//   - Sinks: TripleWriter, with MemoryWriter (buffered, no filesystem) and
//     FileWriter (append-only, flushed per triple).
//   - Converters: ConvertXML and ConvertJSON map a document onto a generic
//     model whose IRIs all start with DefaultNamespace.
//   - Rewriting: NamespaceRewriter replaces DefaultNamespace with the caller's
//     base URI and optionally inserts a namespace label.
//   - Boundary: ConvertXMLToTTL and ConvertJSONToTTL take raw bytes and return the
//     rewritten stream, or a typed error.
//
// Example:
//
//	out, err := rdf.ConvertXMLToTTL(data, "https://example.org#", rdf.Some("ecospold02"))
//	if err != nil {
//	    switch rdf.Code(err) {
//	    case rdf.ErrCodeInvalidEncoding:
//	        // input was not UTF-8
//	    default:
//	        // conversion failed
//	    }
//	}
//
// Every line of the output has the form
//
//	<subject> <predicate> <object> .
//
// where a literal object is quoted and its embedded '"' characters are escaped
// as '\"'. No other escaping is applied.
//
// Calls share no state. A conversion can be bounded with OptContext and the
// limit options; without them it runs to completion.
package rdf
