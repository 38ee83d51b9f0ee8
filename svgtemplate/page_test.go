package svgtemplate

import (
	"strings"
	"testing"

	"github.com/benoitkugler/svgtemplate/svgdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	for _, test := range []struct {
		in string
		mm float64
	}{
		{"210mm", 210},
		{"297", 297},
		{" 420.5 mm ", 420.5},
		{"8.5in", 215.9},
		{"21cm", 210},
		{"1m", 1000},
		{"72pt", 25.4},
		{"96px", 25.4},
		{"1PC", 25.4 / 6},
		{"1e1MM", 10},
		{"-5mm", -5},
	} {
		l, err := ParseLength(test.in)
		require.NoError(t, err, test.in)
		assert.InDelta(t, test.mm, l.Millimeters(), 1e-9, test.in)
	}

	for _, in := range []string{"", "  ", "mm", "50%", "10 furlongs", "10mm 20mm", "abc", "1,5mm"} {
		_, err := ParseLength(in)
		assert.Error(t, err, in)
	}
}

func TestOrientationOf(t *testing.T) {
	assert.Equal(t, Portrait, OrientationOf(210, 297))
	assert.Equal(t, Landscape, OrientationOf(297, 210))
	assert.Equal(t, Landscape, OrientationOf(100, 100))
	assert.Equal(t, Landscape, OrientationOf(100, 0))
	assert.Equal(t, Landscape, OrientationOf(0, 0))
	assert.Equal(t, Portrait, OrientationOf(0, 10))
	assert.Equal(t, "landscape", Landscape.String())
	assert.Equal(t, "portrait", Portrait.String())
}

func pageSize(t *testing.T, root string) PageSize {
	t.Helper()
	doc, err := svgdom.Parse(strings.NewReader(root))
	require.NoError(t, err)
	return PageSizeOf(doc)
}

func TestPageSizeOf(t *testing.T) {
	ps := pageSize(t, `<svg width="210mm" height="297mm"/>`)
	assert.Equal(t, PageSize{Width: 210, Height: 297, Orientation: Portrait}, ps)
	assert.Less(t, ps.Width, ps.Height)

	ps = pageSize(t, `<svg width="297mm" height="210mm"/>`)
	assert.Equal(t, PageSize{Width: 297, Height: 210, Orientation: Landscape}, ps)

	// missing and invalid dimensions are zero
	ps = pageSize(t, `<svg/>`)
	assert.Equal(t, 0., ps.Width)
	assert.Equal(t, 0., ps.Height)
	assert.Equal(t, Landscape, ps.Orientation)

	ps = pageSize(t, `<svg width="100%" height="420mm"/>`)
	assert.Equal(t, PageSize{Width: 0, Height: 420, Orientation: Portrait}, ps)

	ps = pageSize(t, `<svg width="11in" height="8.5in"/>`)
	assert.InDelta(t, 279.4, ps.Width, 1e-9)
	assert.InDelta(t, 215.9, ps.Height, 1e-9)
	assert.Equal(t, Landscape, ps.Orientation)

	// namespaced attributes are not the page dimensions
	ps = pageSize(t, `<svg xmlns:a="urn:a" a:width="10" height="20"/>`)
	assert.Equal(t, PageSize{Width: 0, Height: 20, Orientation: Portrait}, ps)
}
