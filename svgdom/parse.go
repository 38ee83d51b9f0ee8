package svgdom

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	errNoRoot      = errors.New("svgdom: no root element")
	errUnclosed    = errors.New("svgdom: unexpected end of file")
	errManyRoots   = errors.New("svgdom: more than one root element")
	errTextOutside = errors.New("svgdom: character data outside the root element")
)

// scope maps the prefixes in use to their namespace URI.
type scope map[string]string

var rootScope = scope{"xml": XMLNamespace, "xmlns": XMLNSNamespace}

func (s scope) resolve(prefix string, isAttr bool) string {
	if prefix == "" && isAttr {
		// unprefixed attributes are in no namespace
		return ""
	}
	if uri, ok := s[prefix]; ok {
		return uri
	}
	// an undeclared prefix is used as is, as encoding/xml does
	return prefix
}

// push returns the scope extended by the declarations found in attrs.
// The receiver is not modified.
func (s scope) push(attrs []xml.Attr) scope {
	var out scope
	for _, a := range attrs {
		var prefix string
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			prefix = ""
		case a.Name.Space == "xmlns":
			prefix = a.Name.Local
		default:
			continue
		}
		if out == nil {
			out = make(scope, len(s)+1)
			for k, v := range s {
				out[k] = v
			}
		}
		out[prefix] = a.Value
	}
	if out == nil {
		return s
	}
	return out
}

// parseCursor is used while building the tree
type parseCursor struct {
	doc    *Document
	stack  []*Node
	scopes []scope
}

func (c *parseCursor) current() *Node {
	if len(c.stack) == 0 {
		return &c.doc.Node
	}
	return c.stack[len(c.stack)-1]
}

func (c *parseCursor) startElement(se xml.StartElement) error {
	if len(c.stack) == 0 && c.doc.Root() != nil {
		return errManyRoots
	}
	sc := c.scopes[len(c.scopes)-1].push(se.Attr)
	el := &Node{
		Type: ElementNode,
		Name: Name{Prefix: se.Name.Space, Local: se.Name.Local, Space: sc.resolve(se.Name.Space, false)},
	}
	if len(se.Attr) != 0 {
		el.Attrs = make([]Attr, len(se.Attr))
	}
	for i, a := range se.Attr {
		name := Name{Prefix: a.Name.Space, Local: a.Name.Local}
		if a.Name.Space == "" && a.Name.Local == "xmlns" {
			name.Space = XMLNSNamespace
		} else {
			name.Space = sc.resolve(a.Name.Space, true)
		}
		el.Attrs[i] = Attr{Name: name, Value: a.Value}
	}
	c.current().AppendChild(el)
	c.stack = append(c.stack, el)
	c.scopes = append(c.scopes, sc)
	return nil
}

func (c *parseCursor) endElement(ee xml.EndElement) error {
	if len(c.stack) == 0 {
		return fmt.Errorf("svgdom: unexpected end element </%s>", ee.Name.Local)
	}
	open := c.current()
	if open.Name.Prefix != ee.Name.Space || open.Name.Local != ee.Name.Local {
		return fmt.Errorf("svgdom: element <%s> closed by </%s>", open.Name.Qualified(),
			Name{Prefix: ee.Name.Space, Local: ee.Name.Local}.Qualified())
	}
	c.stack = c.stack[:len(c.stack)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]
	return nil
}

// internal general entities, as declared in a DOCTYPE subset
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%"'<>]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// declareEntities adds to the decoder the entities declared in directive.
// The first declaration of an entity is binding.
func declareEntities(decoder *xml.Decoder, directive []byte) {
	decls := entityDecl.FindAllSubmatch(directive, -1)
	if len(decls) == 0 {
		return
	}
	entities := maps.Clone(decoder.Entity)
	if entities == nil {
		entities = make(map[string]string, len(decls))
	}
	declared := make(map[string]bool, len(decls))
	for _, m := range decls {
		name := string(m[1])
		if declared[name] {
			continue
		}
		declared[name] = true
		value := m[2]
		if value == nil {
			value = m[3]
		}
		entities[name] = string(value)
	}
	decoder.Entity = entities
}

func isSpace(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// Parse reads a complete XML document from the given io.Reader.
// Encodings other than UTF-8 are supported when declared
// in the XML declaration, or signaled by a byte order mark.
// Entities declared in the DOCTYPE internal subset are expanded.
func Parse(stream io.Reader) (*Document, error) {
	cursor := &parseCursor{doc: NewDocument(nil), scopes: []scope{rootScope}}
	decoder := xml.NewDecoder(transform.NewReader(stream, unicode.BOMOverride(transform.Nop)))
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Entity = xml.HTMLEntity
	for {
		t, err := decoder.RawToken()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		// Inspect the type of the XML token
		switch tok := t.(type) {
		case xml.StartElement:
			err = cursor.startElement(tok)
		case xml.EndElement:
			err = cursor.endElement(tok)
		case xml.CharData:
			if len(cursor.stack) == 0 && !isSpace(tok) {
				err = errTextOutside
				break
			}
			cursor.current().AppendChild(NewText(string(tok)))
		case xml.Comment:
			cursor.current().AppendChild(&Node{Type: CommentNode, Data: string(tok)})
		case xml.ProcInst:
			cursor.current().AppendChild(&Node{Type: ProcInstNode, Target: tok.Target, Data: string(tok.Inst)})
		case xml.Directive:
			declareEntities(decoder, tok)
			cursor.current().AppendChild(&Node{Type: DirectiveNode, Data: string(tok)})
		}
		if err != nil {
			return nil, err
		}
	}
	if len(cursor.stack) != 0 {
		return nil, errUnclosed
	}
	if cursor.doc.Root() == nil {
		return nil, errNoRoot
	}
	return cursor.doc, nil
}

// ParseFile reads the named file. The file is always closed
// before returning.
func ParseFile(filename string) (*Document, error) {
	fin, errf := os.Open(filename)
	if errf != nil {
		return nil, errf
	}
	defer fin.Close()
	return Parse(bufio.NewReader(fin))
}
