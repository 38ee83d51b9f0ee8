package drawtemplate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/benoitkugler/svgtemplate/svgtemplate"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	landscape = "../svgtemplate/testdata/A4_Landscape.svg"
	portrait  = "../svgtemplate/testdata/A4_Portrait.svg"
	broken    = "../svgtemplate/testdata/broken.svg"
)

func TestSetTemplate(t *testing.T) {
	tp := New("")
	require.NoError(t, tp.SetTemplate(landscape))

	data, err := os.ReadFile(landscape)
	require.NoError(t, err)
	assert.Equal(t, landscape, tp.Path())
	assert.Equal(t, data, tp.PageResult())

	expected := svgtemplate.Fields{"Author": "Author Name", "Title": "Drawing title", "Scale": "1:1"}
	if diff := cmp.Diff(expected, tp.EditableTexts()); diff != "" {
		t.Errorf("unexpected texts (-want +got):\n%s", diff)
	}

	// switching template drops the old fields
	tp.SetEditableText("Title", "Bracket")
	require.NoError(t, tp.SetTemplate(portrait))
	expected = svgtemplate.Fields{"Company": "Acme Corp", "Empty": "", "Sheet": "/1"}
	if diff := cmp.Diff(expected, tp.EditableTexts()); diff != "" {
		t.Errorf("unexpected texts (-want +got):\n%s", diff)
	}
}

func TestSetTemplateInvalid(t *testing.T) {
	tp := New("")
	require.NoError(t, tp.SetTemplate(landscape))
	tp.SetEditableText("Title", "Bracket")

	err := tp.SetTemplate(filepath.Join(t.TempDir(), "missing.svg"))
	assert.True(t, errors.Is(err, ErrInvalidTemplate))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// nothing changed
	assert.Equal(t, landscape, tp.Path())
	assert.Equal(t, "Bracket", tp.EditableTexts()["Title"])

	// empty path is ignored
	assert.NoError(t, tp.SetTemplate(""))
	assert.Equal(t, landscape, tp.Path())
}

func TestEditableTextsCopies(t *testing.T) {
	tp := New("")
	require.NoError(t, tp.SetTemplate(landscape))

	texts := tp.EditableTexts()
	texts["Title"] = "changed"
	assert.Equal(t, "Drawing title", tp.EditableTexts()["Title"])

	in := svgtemplate.Fields{"Title": "T"}
	tp.SetEditableTexts(in)
	in["Title"] = "changed"
	assert.Equal(t, svgtemplate.Fields{"Title": "T"}, tp.EditableTexts())

	var empty Template
	empty.SetEditableText("a", "b")
	assert.Equal(t, svgtemplate.Fields{"a": "b"}, empty.EditableTexts())
}

func TestRender(t *testing.T) {
	tp := New("")
	assert.Equal(t, "", tp.Render())
	assert.Equal(t, 0., tp.Width())

	require.NoError(t, tp.SetTemplate(landscape))
	tp.SetEditableText("Title", "Bracket")
	out := tp.Render()
	assert.Contains(t, out, `xml:space="preserve" font-family="Arial"`)
	assert.Contains(t, out, "Bracket\n    </text>")
	assert.Equal(t, 297., tp.Width())
	assert.Equal(t, 210., tp.Height())
	assert.Equal(t, svgtemplate.Landscape, tp.Orientation())

	// the embedded content is not modified by rendering
	data, err := os.ReadFile(landscape)
	require.NoError(t, err)
	assert.Equal(t, data, tp.PageResult())

	require.NoError(t, tp.SetTemplate(portrait))
	assert.NotEmpty(t, tp.Render())
	assert.Equal(t, 210., tp.Width())
	assert.Equal(t, 297., tp.Height())
	assert.Equal(t, svgtemplate.Portrait, tp.Orientation())
}

func TestRenderInvalidPage(t *testing.T) {
	tp := New("")
	require.NoError(t, tp.SetTemplate(landscape))
	require.NotEmpty(t, tp.Render())

	require.NoError(t, tp.SetTemplate(broken))
	assert.Empty(t, tp.EditableTexts())
	assert.Equal(t, "", tp.Render())
	// previous dimensions are kept
	assert.Equal(t, 297., tp.Width())
	assert.Equal(t, 210., tp.Height())
}

func TestRestoreRedirect(t *testing.T) {
	data, err := os.ReadFile(landscape)
	require.NoError(t, err)

	resources := t.TempDir()
	dir := filepath.Join(resources, "Mod", "Drawing", "Templates")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A4_Landscape.svg"), data, 0o644))

	saved := svgtemplate.Fields{"Title": "Saved title"}
	obsolete := filepath.Join(t.TempDir(), "old", "install", "A4_Landscape.svg")

	tp := New(resources)
	tp.Restore(obsolete, data, saved)
	saved["Title"] = "changed"

	// restoring keeps the saved texts
	assert.Equal(t, svgtemplate.Fields{"Title": "Saved title"}, tp.EditableTexts())
	assert.Equal(t, obsolete, tp.Path())
	assert.Contains(t, tp.Render(), "Saved title\n    </text>")

	// the fields of the template are found in the resource directory
	expected := svgtemplate.Fields{"Author": "Author Name", "Title": "Drawing title", "Scale": "1:1"}
	if diff := cmp.Diff(expected, tp.EditableTextsFromTemplate()); diff != "" {
		t.Errorf("unexpected texts (-want +got):\n%s", diff)
	}

	// without redirection, nothing is found
	tp = New("")
	tp.Restore(obsolete, data, saved)
	assert.Equal(t, svgtemplate.Fields{}, tp.EditableTextsFromTemplate())
	assert.Equal(t, svgtemplate.Fields{}, New("").EditableTextsFromTemplate())
}
