package svgdom

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;")

	// the output is always UTF-8
	encodingDecl = regexp.MustCompile(`encoding\s*=\s*("[^"]*"|'[^']*')`)
)

type writer struct {
	*bufio.Writer
}

func (w *writer) writeNode(n *Node) {
	switch n.Type {
	case DocumentNode:
		w.writeChildren(n)
	case ElementNode:
		w.WriteByte('<')
		w.WriteString(n.Name.Qualified())
		for _, a := range n.Attrs {
			w.WriteByte(' ')
			w.WriteString(a.Name.Qualified())
			w.WriteString(`="`)
			attrEscaper.WriteString(w, a.Value)
			w.WriteByte('"')
		}
		if len(n.children) == 0 {
			w.WriteString("/>")
			return
		}
		w.WriteByte('>')
		w.writeChildren(n)
		w.WriteString("</")
		w.WriteString(n.Name.Qualified())
		w.WriteByte('>')
	case TextNode:
		textEscaper.WriteString(w, n.Data)
	case CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")
	case ProcInstNode:
		inst := n.Data
		if n.Target == "xml" {
			inst = encodingDecl.ReplaceAllString(inst, `encoding="UTF-8"`)
		}
		w.WriteString("<?")
		w.WriteString(n.Target)
		if inst != "" {
			w.WriteByte(' ')
			w.WriteString(inst)
		}
		w.WriteString("?>")
	case DirectiveNode:
		w.WriteString("<!")
		w.WriteString(n.Data)
		w.WriteByte('>')
	}
}

func (w *writer) writeChildren(n *Node) {
	for _, c := range n.children {
		w.writeNode(c)
	}
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// WriteTo serializes the node and its descendants as UTF-8 markup.
func (n *Node) WriteTo(out io.Writer) (int64, error) {
	cw := &countWriter{w: out}
	w := writer{Writer: bufio.NewWriter(cw)}
	w.writeNode(n)
	err := w.Flush()
	return cw.n, err
}

// String returns the serialized markup of n.
func (n *Node) String() string {
	var sb strings.Builder
	n.WriteTo(&sb) // a strings.Builder never fails
	return sb.String()
}
