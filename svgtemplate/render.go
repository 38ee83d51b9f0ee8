package svgtemplate

import (
	"fmt"
	"io"
	"os"

	"github.com/benoitkugler/svgtemplate/svgdom"
)

// Result is the output of a render pass.
type Result struct {
	SVG string // rendered markup, empty on failure
	PageSize
}

// RenderDocument substitutes the field values, normalizes the fonts
// and reads the page size of doc, which is modified in place.
func RenderDocument(doc *svgdom.Document, values Fields) Result {
	Substitute(doc, values)
	NormalizeFonts(doc)
	size := PageSizeOf(doc)
	return Result{SVG: doc.String(), PageSize: size}
}

// Render reads a template from the given io.Reader and renders it
// with the given field values. errMode determines if a failure
// is ignored, logged, or returned; in the first two cases
// an empty Result and a nil error are returned.
func Render(stream io.Reader, values Fields, errMode ErrorMode) (Result, error) {
	doc, err := readDocument(stream)
	if err != nil {
		return Result{}, errMode.handle(err, "svgtemplate: can't render template")
	}
	return RenderDocument(doc, values), nil
}

// RenderFile is the same as Render, reading the named file.
func RenderFile(filename string, values Fields, errMode ErrorMode) (Result, error) {
	fin, err := os.Open(filename)
	if err != nil {
		return Result{}, errMode.handle(fmt.Errorf("%w: %w", ErrRead, err),
			"svgtemplate: can't open template", "path", filename)
	}
	defer fin.Close()
	doc, err := readDocument(fin)
	if err != nil {
		return Result{}, errMode.handle(err, "svgtemplate: can't render template", "path", filename)
	}
	return RenderDocument(doc, values), nil
}
