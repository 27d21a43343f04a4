package rdf

import (
	"errors"
	"fmt"
)

func ExampleConvertXMLToTTL() {
	input := []byte(`<catalog><item id="a1">Widget</item></catalog>`)
	out, err := ConvertXMLToTTL(input, "https://example.org#", Some("shop"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(out)

	// Output:
	// <https://example.org> <https://example.org/xml2rdf/model#shop.hasRoot> <https://example.org#shop.catalog1> .
	// <https://example.org#shop.catalog1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <https://example.org/xml2rdf/model#shop.catalog> .
	// <https://example.org#shop.catalog1> <https://example.org/xml2rdf/model#shop.hasChild> <https://example.org#shop.item1> .
	// <https://example.org#shop.item1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <https://example.org/xml2rdf/model#shop.item> .
	// <https://example.org#shop.item1> <https://example.org/xml2rdf/model#shop.id> "a1" .
	// <https://example.org#shop.item1> <https://example.org/xml2rdf/model#shop.hasValue> "Widget" .
}

func ExampleConvertJSONToTTL() {
	out, err := ConvertJSONToTTL([]byte(`{"name":"test","value":42}`), "https://example.org", None[string]())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(out)

	// Output:
	// <https://example.org> <https://example.org/json2rdf/model#hasRoot> <https://example.org#/object1> .
	// <https://example.org#/object1> <https://example.org/json2rdf/model#name> "test" .
	// <https://example.org#/object1> <https://example.org/json2rdf/model#value> "42" .
}

func ExampleRewriteNamespaces() {
	stream := "<https://decisym.ai#/item1> <https://decisym.ai/xml2rdf/model#hasValue> \"test\" .\n"
	fmt.Print(RewriteNamespaces(stream, "https://example.org#", Some("ecospold02")))

	// Output:
	// <https://example.org#ecospold02.item1> <https://example.org/xml2rdf/model#ecospold02.hasValue> "test" .
}

func ExampleMemoryWriter() {
	w := NewMemoryWriter()
	_ = w.AddTriple("<http://example.org/s>", "<http://example.org/p>", `He said "Hi"`, true)
	fmt.Print(w.String())

	// Output:
	// <http://example.org/s> <http://example.org/p> "He said \"Hi\"" .
}

func ExampleCode() {
	_, err := ConvertXMLToTTL([]byte{0xff}, "https://example.org", None[string]())
	fmt.Println(Code(err), errors.Is(err, ErrInvalidEncoding))

	// Output:
	// INVALID_ENCODING true
}
