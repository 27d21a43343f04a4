package rdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	xmlHasRoot      = IRIToken(XMLModelNamespace + "hasRoot")
	xmlHasChild     = IRIToken(XMLModelNamespace + "hasChild")
	xmlHasValue     = IRIToken(XMLModelNamespace + "hasValue")
	xmlHasNamespace = IRIToken(XMLModelNamespace + "hasNamespace")
	rdfType         = IRIToken(rdfTypeIRI)
)

// ConvertXML converts each XML document in readers into triples written to w.
//
// Every element becomes a node under DefaultNamespace typed with its local name in
// XMLModelNamespace. Attributes and text content become literals; element
// nesting becomes hasChild links. Text runs separated by child elements are
// trimmed and joined with a single space, so <a>x<b/>y</a> has the value "x y". When baseURI is non-empty each document root is
// attached to it with hasRoot. Node identifiers are unique across all readers of
// one call.
func ConvertXML(readers []io.Reader, w TripleWriter, baseURI string, opts ...Option) error {
	options := buildOptions(opts)
	conv := &xmlConverter{
		w:      newLimitWriter(w, options.MaxTriples),
		minter: newNodeMinter(),
		base:   baseURI,
		opts:   options,
	}
	for _, r := range readers {
		if options.MaxInputBytes > 0 {
			r = newMaxBytesReader(r, options.MaxInputBytes)
		}
		if err := conv.convertDocument(r); err != nil {
			return err
		}
	}
	return nil
}

type xmlConverter struct {
	w      TripleWriter
	minter *nodeMinter
	base   string
	opts   Options
}

type xmlFrame struct {
	node  string
	run   strings.Builder
	parts []string
}

// endRun closes the text run collected since the last child element.
func (f *xmlFrame) endRun() {
	if text := strings.TrimSpace(f.run.String()); text != "" {
		f.parts = append(f.parts, text)
	}
	f.run.Reset()
}

// value joins the trimmed text runs of the element with single spaces.
func (f *xmlFrame) value() string {
	f.endRun()
	return strings.Join(f.parts, " ")
}

func (c *xmlConverter) convertDocument(r io.Reader) error {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity
	// Input has already been validated as UTF-8; a declared legacy charset is
	// taken at face value rather than re-decoded.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var stack []*xmlFrame
	sawRoot := false
	for {
		if err := c.opts.checkContext(); err != nil {
			return err
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if errors.Is(err, ErrInputTooLarge) {
			return err
		}
		if err != nil {
			return xmlSyntaxError(dec, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if sawRoot {
					return xmlSyntaxError(dec, errors.New("multiple root elements"))
				}
				sawRoot = true
			}
			if c.opts.MaxDepth > 0 && len(stack) >= c.opts.MaxDepth {
				return xmlSyntaxError(dec, fmt.Errorf("%w (%d)", ErrDepthExceeded, c.opts.MaxDepth))
			}
			frame := &xmlFrame{node: c.minter.next(t.Name.Local)}
			if err := c.startElement(stack, frame.node, t); err != nil {
				return err
			}
			if len(stack) > 0 {
				stack[len(stack)-1].endRun()
			}
			stack = append(stack, frame)

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].run.Write(t)
			}

		case xml.EndElement:
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if value := frame.value(); value != "" {
				if err := c.w.AddTriple(frame.node, xmlHasValue, value, true); err != nil {
					return err
				}
			}
		}
	}

	if !sawRoot {
		return xmlSyntaxError(dec, errors.New("no root element"))
	}
	return nil
}

func (c *xmlConverter) startElement(stack []*xmlFrame, node string, el xml.StartElement) error {
	if len(stack) > 0 {
		if err := c.w.AddTriple(stack[len(stack)-1].node, xmlHasChild, node, false); err != nil {
			return err
		}
	} else if c.base != "" {
		if err := c.w.AddTriple(IRIToken(c.base), xmlHasRoot, node, false); err != nil {
			return err
		}
	}
	if err := c.w.AddTriple(node, rdfType, vocabTerm(XMLModelNamespace, el.Name.Local), false); err != nil {
		return err
	}
	// Undeclared prefixes are left in Name.Space verbatim; only IRIs are linked.
	if strings.Contains(el.Name.Space, ":") {
		if err := c.w.AddTriple(node, xmlHasNamespace, IRIToken(el.Name.Space), false); err != nil {
			return err
		}
	}
	for _, attr := range el.Attr {
		if isNamespaceDecl(attr) {
			continue
		}
		if err := c.w.AddTriple(node, vocabTerm(XMLModelNamespace, attr.Name.Local), attr.Value, true); err != nil {
			return err
		}
	}
	return nil
}

func isNamespaceDecl(attr xml.Attr) bool {
	return attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns")
}

func xmlSyntaxError(dec *xml.Decoder, err error) error {
	var xmlErr *xml.SyntaxError
	if errors.As(err, &xmlErr) {
		err = errors.New(xmlErr.Msg)
	}
	line, column := dec.InputPos()
	return &SyntaxError{
		Format: InputXML,
		Line:   line,
		Column: column,
		Offset: dec.InputOffset(),
		Err:    err,
	}
}

// maxBytesReader fails with ErrInputTooLarge once more than n bytes are read.
type maxBytesReader struct {
	r io.Reader
	n int64
}

func newMaxBytesReader(r io.Reader, n int64) io.Reader {
	return &maxBytesReader{r: r, n: n}
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.n <= 0 {
		var next [1]byte
		n, err := m.r.Read(next[:])
		if n > 0 {
			return 0, ErrInputTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > m.n {
		p = p[:m.n]
	}
	n, err := m.r.Read(p)
	m.n -= int64(n)
	return n, err
}
