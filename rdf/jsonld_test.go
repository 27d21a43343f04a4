package rdf

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const (
	multiLineXML   = "<note><body>line1\nline2</body></note>"
	backslashJSON  = `{"path":"C:\\temp\\new","quote":"a \"b\" \\ c"}`
	backslashValue = `C:\temp\new`
)

func mustDataset(t *testing.T, format InputFormat, input string) *DatasetWriter {
	t.Helper()
	w := NewDatasetWriter()
	if err := convertInto(w, format, []byte(input), "https://example.org#", Some("shop"), nil); err != nil {
		t.Fatalf("convert: %v", err)
	}
	return w
}

// literalValues collects the @value entries of every node property in a
// JSON-LD document.
func literalValues(t *testing.T, doc []byte) []string {
	t.Helper()
	var nodes []map[string]any
	if err := json.Unmarshal(doc, &nodes); err != nil {
		t.Fatalf("output is not a JSON-LD node array: %v\n%s", err, doc)
	}
	var values []string
	for _, n := range nodes {
		for key, prop := range n {
			if strings.HasPrefix(key, "@") {
				continue
			}
			items, _ := prop.([]any)
			for _, item := range items {
				if m, ok := item.(map[string]any); ok {
					if v, ok := m["@value"].(string); ok {
						values = append(values, v)
					}
				}
			}
		}
	}
	return values
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func TestValidateNTriples(t *testing.T) {
	if err := ValidateNTriples(catalogTTL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateNTriples(""); err != nil {
		t.Fatalf("empty stream rejected: %v", err)
	}
	if err := ValidateNTriples("<s> <p> .\n"); err == nil {
		t.Fatal("expected error for incomplete statement")
	}
}

func TestValidateNTriplesStrictStream(t *testing.T) {
	tests := []struct {
		name   string
		format InputFormat
		input  string
	}{
		{"multi-line xml text", InputXML, multiLineXML},
		{"backslashes in json", InputJSON, backslashJSON},
		{"carriage return", InputJSON, "{\"a\":\"x\\r\\ny\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := NewNTriplesWriter()
			if err := convertInto(sink, tt.format, []byte(tt.input), "https://example.org/", None[string](), nil); err != nil {
				t.Fatalf("convert: %v", err)
			}
			strict := sink.String()
			if err := ValidateNTriples(strict); err != nil {
				t.Fatalf("strict stream rejected: %v\n%s", err, strict)
			}
			if lines := strings.Count(strict, "\n"); lines != sink.Len() {
				t.Errorf("%d lines for %d triples:\n%s", lines, sink.Len(), strict)
			}
		})
	}

	// The quote-only stream keeps raw line breaks and is not strict N-Triples.
	plain, err := Convert(InputXML, []byte(multiLineXML), "https://example.org/", None[string]())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if err := ValidateNTriples(plain); err == nil {
		t.Fatal("expected raw line break in literal to be rejected")
	}
}

func TestConvertNTriplesEscaping(t *testing.T) {
	got, err := ConvertNTriples(InputJSON, []byte(backslashJSON), "https://example.org", None[string]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"C:\\temp\\new"`, `"a \"b\" \\ c"`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in:\n%s", want, got)
		}
	}
	if strings.Contains(got, DefaultNamespace) {
		t.Fatalf("default namespace leaked:\n%s", got)
	}
}

func TestToJSONLD(t *testing.T) {
	out, err := ToJSONLD(mustDataset(t, InputXML, catalogXML).Dataset())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(string(out), "\n") {
		t.Error("expected trailing newline")
	}

	var nodes []map[string]any
	if err := json.Unmarshal(out, &nodes); err != nil {
		t.Fatalf("output is not a JSON-LD node array: %v\n%s", err, out)
	}
	var item map[string]any
	for _, n := range nodes {
		if n["@id"] == "https://example.org#shop.item1" {
			item = n
		}
	}
	if item == nil {
		t.Fatalf("item node missing:\n%s", out)
	}
	types, _ := item["@type"].([]any)
	if len(types) != 1 || types[0] != "https://example.org/xml2rdf/model#shop.item" {
		t.Errorf("unexpected @type %v", item["@type"])
	}
	values, _ := item["https://example.org/xml2rdf/model#shop.hasValue"].([]any)
	if len(values) != 1 {
		t.Fatalf("unexpected hasValue %v", item)
	}
	if v, _ := values[0].(map[string]any); v["@value"] != "Widget" {
		t.Errorf("unexpected value %v", values[0])
	}
}

func TestToJSONLDKeepsLiteralsIntact(t *testing.T) {
	out, err := ToJSONLD(mustDataset(t, InputXML, multiLineXML).Dataset())
	if err != nil {
		t.Fatalf("multi-line: %v", err)
	}
	if values := literalValues(t, out); !contains(values, "line1\nline2") {
		t.Fatalf("multi-line literal altered: %q", values)
	}

	out, err = ToJSONLD(mustDataset(t, InputJSON, backslashJSON).Dataset())
	if err != nil {
		t.Fatalf("backslash: %v", err)
	}
	values := literalValues(t, out)
	if !contains(values, backslashValue) || !contains(values, `a "b" \ c`) {
		t.Fatalf("backslash literal altered: %q", values)
	}
}

func TestDatasetWriterRejectsBadTerms(t *testing.T) {
	w := NewDatasetWriter()
	if err := w.AddTriple("plain", "<http://example.org/p>", "v", true); err == nil {
		t.Fatal("expected error for bare subject")
	}
	if err := w.AddTriple("<http://example.org/s>", "<http://example.org/p>", "_:", false); err == nil {
		t.Fatal("expected error for empty blank node")
	}
	if err := w.AddTriple("_:b", "<http://example.org/p>", "<http://example.org/o>", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", w.Len())
	}
}

func TestParseNTriplesInvalidInput(t *testing.T) {
	if _, err := ParseNTriples("garbage"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCanonicalize(t *testing.T) {
	input := "<http://example.org/b> <http://example.org/p> \"2\" .\n" +
		"<http://example.org/a> <http://example.org/p> \"say \\\"hi\\\"\" .\n"
	dataset, err := ParseNTriples(input)
	if err != nil {
		t.Fatalf("ParseNTriples: %v", err)
	}
	got, err := Canonicalize(dataset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<http://example.org/a> <http://example.org/p> \"say \\\"hi\\\"\" .\n" +
		"<http://example.org/b> <http://example.org/p> \"2\" .\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	again, _ := ParseNTriples(want)
	if stable, _ := Canonicalize(again); stable != got {
		t.Fatalf("canonical form is not stable: %q", stable)
	}
}

func TestCanonicalizeRelabelsBlankNodes(t *testing.T) {
	dataset, err := ParseNTriples("_:anything <http://example.org/p> \"v\" .\n")
	if err != nil {
		t.Fatalf("ParseNTriples: %v", err)
	}
	got, err := Canonicalize(dataset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "_:c14n0 <http://example.org/p> \"v\" .\n" {
		t.Fatalf("unexpected canonical form %q", got)
	}
}

func TestRender(t *testing.T) {
	input := []byte(catalogXML)
	out, err := Render(OutputNTriples, InputXML, input, "https://example.org#", Some("shop"))
	if err != nil || string(out) != catalogTTL {
		t.Fatalf("ntriples: %v\n%s", err, out)
	}
	out, err = Render(OutputJSONLD, InputXML, input, "https://example.org#", Some("shop"))
	if err != nil || !json.Valid(out) {
		t.Fatalf("jsonld: %v", err)
	}
	out, err = Render(OutputCanonical, InputXML, input, "https://example.org#", Some("shop"))
	if err != nil || strings.Count(string(out), "\n") != 6 {
		t.Fatalf("canonical: %v\n%s", err, out)
	}
	if _, err := Render(OutputFormat("rdfxml"), InputXML, input, "https://example.org", None[string]()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := Render(OutputJSONLD, InputXML, []byte("<a><b></a>"), "https://example.org", None[string]()); Code(err) != ErrCodeConversionFailed {
		t.Fatalf("expected CONVERSION_FAILED, got %v", err)
	}
}

func TestRenderCanonicalEscapesLiterals(t *testing.T) {
	out, err := Render(OutputCanonical, InputXML, []byte(multiLineXML), "https://example.org/", None[string]())
	if err != nil {
		t.Fatalf("multi-line: %v", err)
	}
	if !strings.Contains(string(out), `"line1\nline2"`) {
		t.Fatalf("expected escaped line break:\n%s", out)
	}
	if err := ValidateNTriples(string(out)); err != nil {
		t.Fatalf("canonical output does not parse: %v", err)
	}

	out, err = Render(OutputCanonical, InputJSON, []byte(backslashJSON), "https://example.org/", None[string]())
	if err != nil {
		t.Fatalf("backslash: %v", err)
	}
	if !strings.Contains(string(out), `"C:\\temp\\new"`) {
		t.Fatalf("expected escaped backslashes:\n%s", out)
	}
}
