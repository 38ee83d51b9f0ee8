// Package drawtemplate implements the drawing template object
// of a document page: it embeds the selected SVG template,
// stores the values of its editable texts and exposes the page
// dimensions found when rendering it.
//
// A Template holds no lock: callers must serialize the access
// to a given Template.
package drawtemplate

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/benoitkugler/svgtemplate/svgtemplate"
)

// ErrInvalidTemplate is returned when switching to a template file
// which can't be read. The switch is then aborted.
var ErrInvalidTemplate = errors.New("drawtemplate: could not read the new template file")

// redirectDir is where templates saved with an obsolete absolute
// path are looked for, relative to the resource directory.
var redirectDir = filepath.Join("Mod", "Drawing", "Templates")

// Template is an SVG drawing template.
type Template struct {
	// ResourceDir is the application resource directory,
	// used to redirect missing template files.
	ResourceDir string

	path  string // template file name
	page  []byte // embedded template content
	texts svgtemplate.Fields

	width, height float64
	orientation   svgtemplate.Orientation
}

// New returns an empty template.
func New(resourceDir string) *Template {
	return &Template{ResourceDir: resourceDir, texts: svgtemplate.Fields{}}
}

// Path returns the template file name.
func (t *Template) Path() string { return t.path }

// PageResult returns a copy of the embedded template content.
func (t *Template) PageResult() []byte { return bytes.Clone(t.page) }

// Width returns the page width, in millimeters, found by the last Render.
func (t *Template) Width() float64 { return t.width }

// Height returns the page height, in millimeters, found by the last Render.
func (t *Template) Height() float64 { return t.height }

// Orientation returns the page orientation found by the last Render.
func (t *Template) Orientation() svgtemplate.Orientation { return t.orientation }

// EditableTexts returns a copy of the editable text values.
func (t *Template) EditableTexts() svgtemplate.Fields { return t.texts.Clone() }

// SetEditableTexts replaces the editable text values by a copy of texts.
func (t *Template) SetEditableTexts(texts svgtemplate.Fields) { t.texts = texts.Clone() }

// SetEditableText sets the value of one editable text.
func (t *Template) SetEditableText(name, value string) {
	if t.texts == nil {
		t.texts = svgtemplate.Fields{}
	}
	t.texts[name] = value
}

// SetTemplate switches to the given template file: its content is
// embedded and the editable texts are replaced by the ones of the
// new template, since the fields of the old one may not exist anymore.
// An empty filename does nothing. If the file can't be read,
// ErrInvalidTemplate is returned and the template is unchanged.
func (t *Template) SetTemplate(filename string) error {
	if filename == "" {
		return nil
	}
	page, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	t.path = filename
	t.page = page
	t.texts = t.EditableTextsFromTemplate()
	return nil
}

// Restore installs a saved state, without extracting the
// editable texts from the template.
func (t *Template) Restore(filename string, page []byte, texts svgtemplate.Fields) {
	t.path = filename
	t.page = bytes.Clone(page)
	t.texts = texts.Clone()
}

// resolve returns the readable template file, trying the
// resource directory when the template path is not readable.
func (t *Template) resolve() (string, bool) {
	if isReadable(t.path) {
		return t.path, true
	}
	if t.ResourceDir == "" {
		return "", false
	}
	redirect := filepath.Join(t.ResourceDir, redirectDir, filepath.Base(t.path))
	if isReadable(redirect) {
		return redirect, true
	}
	return "", false
}

func isReadable(filename string) bool {
	f, err := os.Open(filename)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// EditableTextsFromTemplate reads the editable texts of the template file,
// and not of the embedded content. Failures are logged and
// result in an empty mapping.
func (t *Template) EditableTextsFromTemplate() svgtemplate.Fields {
	if t.path == "" {
		return svgtemplate.Fields{}
	}
	filename, ok := t.resolve()
	if !ok {
		slog.Info("drawtemplate: not able to open template", "path", t.path)
		return svgtemplate.Fields{}
	}
	fields, _ := svgtemplate.LoadEditableFieldsFile(filename, svgtemplate.WarnErrorMode)
	return fields
}

// Render processes the embedded template with the current editable texts,
// and returns the resulting SVG. The page dimensions are updated accordingly.
// It returns an empty string, and keeps the previous dimensions,
// when there is no template or it can't be processed.
func (t *Template) Render() string {
	if len(t.page) == 0 {
		return ""
	}
	res, err := svgtemplate.Render(bytes.NewReader(t.page), t.texts, svgtemplate.StrictErrorMode)
	if err != nil {
		slog.Error("drawtemplate: can't process embedded template", "path", t.path, "err", err)
		return ""
	}
	t.width, t.height, t.orientation = res.Width, res.Height, res.Orientation
	return res.SVG
}
