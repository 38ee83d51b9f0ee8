package svgtemplate

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/benoitkugler/svgtemplate/svgdom"
)

// isEditableSpan matches the tspan elements whose parent
// text element carries the editable marker.
func isEditableSpan(n *svgdom.Node) bool {
	if !n.Is(SVGNamespace, "tspan") {
		return false
	}
	parent := n.Parent()
	if parent == nil || !parent.Is(SVGNamespace, "text") {
		return false
	}
	_, ok := parent.Attr(FreeCADNamespace, EditableAttr)
	return ok
}

func fieldName(span *svgdom.Node) string {
	name, _ := span.Parent().Attr(FreeCADNamespace, EditableAttr)
	return name
}

// EditableFields returns the current value of every editable field of doc.
// The value is the first text child of the field tspan, kept verbatim.
// When a name is used more than once, the last occurrence wins.
func EditableFields(doc *svgdom.Document) Fields {
	out := Fields{}
	for _, span := range doc.Select(isEditableSpan) {
		var value string
		if first := span.FirstChild(); first != nil && first.Type == svgdom.TextNode {
			value = first.Data
		}
		out[fieldName(span)] = value
	}
	return out
}

// Substitute replaces, in place, the text of the editable fields
// found in values. Fields not in values are left untouched.
func Substitute(doc *svgdom.Document, values Fields) {
	spans := doc.Select(isEditableSpan)
	for _, span := range spans {
		value, ok := values[fieldName(span)]
		if !ok {
			continue
		}
		// Keep all spaces in the text node
		span.SetAttr(xmlSpace, "preserve")
		span.RemoveChildren()
		span.AppendChild(svgdom.NewText(value))
	}
}

// readDocument reads and parses the whole template, distinguishing
// read and parse failures.
func readDocument(stream io.Reader) (*svgdom.Document, error) {
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	doc, err := svgdom.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return doc, nil
}

// ReadEditableFields reads a template from the given io.Reader and returns its
// editable fields. errMode determines if a failure is ignored, logged,
// or returned. The returned Fields is never nil.
func ReadEditableFields(stream io.Reader, errMode ErrorMode) (Fields, error) {
	doc, err := readDocument(stream)
	if err != nil {
		return Fields{}, errMode.handle(err, "svgtemplate: can't load editable fields")
	}
	return EditableFields(doc), nil
}

// LoadEditableFields returns the editable fields of the given template.
// Failures are logged and result in an empty mapping.
func LoadEditableFields(template []byte) Fields {
	out, _ := ReadEditableFields(bytes.NewReader(template), WarnErrorMode)
	return out
}

// LoadEditableFieldsFile is the same as ReadEditableFields, reading
// the named file.
func LoadEditableFieldsFile(filename string, errMode ErrorMode) (Fields, error) {
	fin, err := os.Open(filename)
	if err != nil {
		return Fields{}, errMode.handle(fmt.Errorf("%w: %w", ErrRead, err),
			"svgtemplate: can't open template", "path", filename)
	}
	defer fin.Close()
	doc, err := readDocument(fin)
	if err != nil {
		return Fields{}, errMode.handle(err, "svgtemplate: can't load editable fields", "path", filename)
	}
	return EditableFields(doc), nil
}
