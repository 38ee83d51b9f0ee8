// Package svgtemplate processes SVG drawing templates: it extracts
// the editable text fields of a template, substitutes their values,
// normalizes the CSS font declarations of text elements into
// presentation attributes, and reads the page dimensions.
//
// Recoverable failures (unreadable or malformed templates) are handled
// according to an ErrorMode: by default they are logged with slog
// and an empty result is returned, so that a broken template never
// blocks the document using it.
package svgtemplate

import (
	"errors"
	"log/slog"
	"maps"

	"github.com/benoitkugler/svgtemplate/svgdom"
)

// Namespaces and names used by drawing templates.
const (
	SVGNamespace     = "http://www.w3.org/2000/svg"
	FreeCADNamespace = "http://www.freecad.org/wiki/index.php?title=Svg_Namespace"

	// EditableAttr is the local name of the marker attribute,
	// in FreeCADNamespace, whose value is the field name.
	EditableAttr = "editable"
)

var xmlSpace = svgdom.Name{Prefix: "xml", Local: "space", Space: svgdom.XMLNamespace}

var (
	// ErrRead is returned when the template content can't be read.
	ErrRead = errors.New("svgtemplate: can't read template")
	// ErrParse is returned when the template is not well-formed XML.
	ErrParse = errors.New("svgtemplate: can't parse template")
)

// ErrorMode determines how recoverable failures are reported.
type ErrorMode uint8

const (
	// WarnErrorMode logs the failure and returns an empty result.
	WarnErrorMode ErrorMode = iota
	// IgnoreErrorMode silently returns an empty result.
	IgnoreErrorMode
	// StrictErrorMode returns the failure to the caller.
	StrictErrorMode
)

func (mode ErrorMode) String() string {
	switch mode {
	case WarnErrorMode:
		return "warn"
	case IgnoreErrorMode:
		return "ignore"
	case StrictErrorMode:
		return "strict"
	}
	return "<invalid ErrorMode>"
}

// handle returns err in StrictErrorMode, and nil otherwise,
// logging it in WarnErrorMode.
func (mode ErrorMode) handle(err error, msg string, args ...any) error {
	switch mode {
	case StrictErrorMode:
		return err
	case WarnErrorMode:
		slog.Warn(msg, append(args, "err", err)...)
	}
	return nil
}

// Fields maps editable field names to their text.
type Fields map[string]string

// Clone returns a copy of f, never nil.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	maps.Copy(out, f)
	return out
}
