package svgtemplate

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/benoitkugler/svgtemplate/svgdom"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	parsestrconv "github.com/tdewolff/parse/v2/strconv"
)

var (
	errEmptyLength = errors.New("empty length")
	errLength      = errors.New("invalid length")
)

// millimeters per supported unit. A number without unit is
// in millimeters.
var unitsToMm = map[string]float64{
	"":   1,
	"mm": 1,
	"cm": 10,
	"dm": 100,
	"m":  1000,
	"q":  0.25,
	"um": 0.001,
	"µm": 0.001,
	"in": 25.4,
	"ft": 304.8,
	"pt": 25.4 / 72,
	"pc": 25.4 / 6,
	"px": 25.4 / 96,
}

// Length is a length quantity.
type Length struct {
	Value float64
	Unit  string // lower case, empty for millimeters
}

// Millimeters returns the magnitude of l in millimeters.
func (l Length) Millimeters() float64 { return l.Value * unitsToMm[l.Unit] }

func (l Length) String() string {
	return fmt.Sprintf("%g%s", l.Value, l.Unit)
}

// nextToken skips whitespaces.
func nextToken(l *css.Lexer) (css.TokenType, []byte) {
	for {
		tt, data := l.Next()
		if tt != css.WhitespaceToken {
			return tt, data
		}
	}
}

// ParseLength parses a number with an optional unit, such as
// "210mm", "8.5 in" or "100".
func ParseLength(s string) (Length, error) {
	if strings.TrimSpace(s) == "" {
		return Length{}, errEmptyLength
	}
	l := css.NewLexer(parse.NewInputString(s))
	var out Length
	tt, data := nextToken(l)
	switch tt {
	case css.NumberToken:
		v, n := parsestrconv.ParseFloat(data)
		if n != len(data) {
			return Length{}, fmt.Errorf("%w: %q", errLength, s)
		}
		out.Value = v
		// a unit may follow, separated by spaces
		tt, data = nextToken(l)
		if tt == css.IdentToken {
			out.Unit = strings.ToLower(string(data))
			tt, data = nextToken(l)
		}
	case css.DimensionToken:
		v, n := parsestrconv.ParseFloat(data)
		if n == 0 {
			return Length{}, fmt.Errorf("%w: %q", errLength, s)
		}
		out.Value, out.Unit = v, strings.ToLower(string(data[n:]))
		tt, data = nextToken(l)
	default:
		return Length{}, fmt.Errorf("%w: %q", errLength, s)
	}
	if tt != css.ErrorToken || l.Err() != io.EOF {
		return Length{}, fmt.Errorf("%w: %q: unexpected %q", errLength, s, data)
	}
	if _, ok := unitsToMm[out.Unit]; !ok {
		return Length{}, fmt.Errorf("%w: %q: unsupported unit %q", errLength, s, out.Unit)
	}
	return out, nil
}

// Orientation is the page orientation.
type Orientation uint8

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	}
	return "<invalid Orientation>"
}

// OrientationOf returns Landscape when width / height >= 1.
// A zero height is Landscape.
func OrientationOf(width, height float64) Orientation {
	if height == 0 || width/height >= 1 {
		return Landscape
	}
	return Portrait
}

// PageSize are the page dimensions, in millimeters.
type PageSize struct {
	Width, Height float64
	Orientation   Orientation
}

func rootLength(root *svgdom.Node, name string) float64 {
	attr, ok := root.Attr("", name)
	if !ok {
		return 0
	}
	length, err := ParseLength(attr)
	if err != nil {
		slog.Debug("svgtemplate: ignoring page dimension", "attr", name, "err", err)
		return 0
	}
	return length.Millimeters()
}

// PageSizeOf reads the width and height attributes of the document
// element. A missing or invalid attribute yields 0.
func PageSizeOf(doc *svgdom.Document) PageSize {
	root := doc.Root()
	if root == nil {
		return PageSize{Orientation: OrientationOf(0, 0)}
	}
	w, h := rootLength(root, "width"), rootLength(root, "height")
	return PageSize{Width: w, Height: h, Orientation: OrientationOf(w, h)}
}
