package rdf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

var (
	jsonHasRoot  = IRIToken(JSONModelNamespace + "hasRoot")
	jsonHasValue = IRIToken(JSONModelNamespace + "hasValue")
	jsonItem     = IRIToken(JSONModelNamespace + "item")
)

// ConvertJSON converts one JSON document into triples written to w.
//
// Objects become nodes under DefaultNamespace; each member becomes a predicate in
// JSONModelNamespace. Array members repeat the member predicate once per element,
// arrays nested in arrays get their own node linked through "item". Scalars
// become literals in document order and nulls are skipped. When baseURI is present
// and non-empty the root node is attached to it with hasRoot.
func ConvertJSON(r io.Reader, w TripleWriter, baseURI Optional[string], opts ...Option) error {
	options := buildOptions(opts)
	if options.MaxInputBytes > 0 {
		r = newMaxBytesReader(r, options.MaxInputBytes)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if options.AllowJSONComments {
		data = jsonc.ToJSON(data)
	}

	conv := &jsonConverter{
		w:      newLimitWriter(w, options.MaxTriples),
		minter: newNodeMinter(),
		base:   baseURI.OrElse(""),
		opts:   options,
		data:   data,
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return conv.convert(dec)
}

type jsonConverter struct {
	w      TripleWriter
	minter *nodeMinter
	base   string
	opts   Options
	data   []byte
}

func (c *jsonConverter) convert(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return c.syntaxError(dec, errors.New("empty document"))
	}
	if err != nil {
		return c.syntaxError(dec, err)
	}

	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			node := c.minter.next("object")
			if err := c.attachRoot(node); err != nil {
				return err
			}
			if err := c.object(dec, node, 1); err != nil {
				return err
			}
		} else {
			node := c.minter.next("array")
			if err := c.attachRoot(node); err != nil {
				return err
			}
			if err := c.array(dec, node, 1); err != nil {
				return err
			}
		}
	default:
		node := c.minter.next("value")
		if err := c.attachRoot(node); err != nil {
			return err
		}
		if lexical, ok := jsonLiteral(v); ok {
			if err := c.w.AddTriple(node, jsonHasValue, lexical, true); err != nil {
				return err
			}
		}
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return c.syntaxError(dec, err)
	}
	return nil
}

func (c *jsonConverter) attachRoot(node string) error {
	if c.base == "" {
		return nil
	}
	return c.w.AddTriple(IRIToken(c.base), jsonHasRoot, node, false)
}

// object consumes members up to and including the closing brace.
func (c *jsonConverter) object(dec *json.Decoder, node string, depth int) error {
	for dec.More() {
		if err := c.opts.checkContext(); err != nil {
			return err
		}
		tok, err := dec.Token()
		if err != nil {
			return c.syntaxError(dec, err)
		}
		key, ok := tok.(string)
		if !ok {
			return c.syntaxError(dec, fmt.Errorf("expected object key, got %v", tok))
		}
		if err := c.value(dec, node, vocabTerm(JSONModelNamespace, key), depth, true); err != nil {
			return err
		}
	}
	return c.closing(dec)
}

// array consumes elements of an array node up to and including the closing bracket.
func (c *jsonConverter) array(dec *json.Decoder, node string, depth int) error {
	for dec.More() {
		if err := c.opts.checkContext(); err != nil {
			return err
		}
		if err := c.value(dec, node, jsonItem, depth, false); err != nil {
			return err
		}
	}
	return c.closing(dec)
}

// value reads one value and links it to subject through predicate. With flatten
// set, an array value repeats predicate for each element instead of getting a node.
func (c *jsonConverter) value(dec *json.Decoder, subject, predicate string, depth int, flatten bool) error {
	tok, err := dec.Token()
	if err != nil {
		return c.syntaxError(dec, err)
	}
	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		lexical, ok := jsonLiteral(tok)
		if !ok {
			return nil
		}
		return c.w.AddTriple(subject, predicate, lexical, true)
	}

	if c.opts.MaxDepth > 0 && depth >= c.opts.MaxDepth {
		return c.syntaxError(dec, fmt.Errorf("%w (%d)", ErrDepthExceeded, c.opts.MaxDepth))
	}
	switch {
	case delim == '{':
		child := c.minter.next("object")
		if err := c.w.AddTriple(subject, predicate, child, false); err != nil {
			return err
		}
		return c.object(dec, child, depth+1)
	case flatten:
		for dec.More() {
			if err := c.opts.checkContext(); err != nil {
				return err
			}
			if err := c.value(dec, subject, predicate, depth+1, false); err != nil {
				return err
			}
		}
		return c.closing(dec)
	default:
		child := c.minter.next("array")
		if err := c.w.AddTriple(subject, predicate, child, false); err != nil {
			return err
		}
		return c.array(dec, child, depth+1)
	}
}

func (c *jsonConverter) closing(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		return c.syntaxError(dec, err)
	}
	return nil
}

func (c *jsonConverter) syntaxError(dec *json.Decoder, err error) error {
	// json.SyntaxError offsets only count bytes seen by the value scanner, so the
	// decoder position is used instead. It points at the start of the bad value.
	offset := dec.InputOffset()
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		err = errors.New("unexpected end of JSON input")
	}
	return newSyntaxError(InputJSON, c.data, offset, err)
}

func jsonLiteral(tok json.Token) (string, bool) {
	switch v := tok.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}
