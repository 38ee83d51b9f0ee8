package svgtemplate

import (
	"regexp"
	"strings"

	"github.com/benoitkugler/svgtemplate/svgdom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Each property is captured up to the first following ';'.
// A declaration without terminating ';' is not seen.
var (
	fontFamilyRx  = regexp.MustCompile(`font-family:(.*?);`)
	fontStretchRx = regexp.MustCompile(`font-stretch:(.*?);`)
	fontWeightRx  = regexp.MustCompile(`font-weight:(.*?);`)
	fontSpecRx    = regexp.MustCompile(`-inkscape-font-specification:(.*?);`)
	fontSizeRx    = regexp.MustCompile(`font-size:(.*?);`)
	fontStyleRx   = regexp.MustCompile(`font-style:(.*?);`)
)

// Value is an optional CSS property value.
// Set is false when the property is not declared.
type Value struct {
	Text string
	Set  bool
}

// IsEmpty returns true for undeclared and blank values.
func (v Value) IsEmpty() bool { return v.Text == "" }

func (v Value) String() string {
	if !v.Set {
		return "<unset>"
	}
	return v.Text
}

func (v Value) apply(f func(string) string) Value {
	if v.Set {
		v.Text = f(v.Text)
	}
	return v
}

func extract(rx *regexp.Regexp, style string) Value {
	m := rx.FindStringSubmatch(style)
	if m == nil {
		return Value{}
	}
	return Value{Text: m[1], Set: true}
}

func fontFamily(style string) Value {
	return extract(fontFamilyRx, style).apply(func(s string) string {
		return strings.ReplaceAll(s, "'", "")
	})
}

func fontWeight(style string) Value {
	return extract(fontWeightRx, style).apply(func(s string) string {
		return strings.ReplaceAll(s, "-", "")
	})
}

func fontStretch(style string) Value {
	return extract(fontStretchRx, style).apply(func(s string) string {
		return strings.ReplaceAll(s, "-", " ")
	})
}

func fontSize(style string) Value { return extract(fontSizeRx, style) }

func fontStyle(style string) Value {
	return extract(fontStyleRx, style).apply(func(s string) string {
		return strings.NewReplacer("'", "", `"`, "").Replace(s)
	})
}

// fontSpec returns the font specification hint, without
// the family name, hyphens and quotes.
func fontSpec(style, family string) Value {
	return extract(fontSpecRx, style).apply(func(s string) string {
		s = replaceFold(s, family, "")
		s = strings.ReplaceAll(s, "-", "")
		return strings.ReplaceAll(s, "'", "")
	})
}

// replaceFold replaces the case insensitive occurrences of old.
func replaceFold(s, old, repl string) string {
	if old == "" {
		return s
	}
	rx := regexp.MustCompile("(?i)" + regexp.QuoteMeta(old))
	return rx.ReplaceAllLiteralString(s, repl)
}

// replace is strings.ReplaceAll, doing nothing for an empty old.
func replace(s, old, repl string) string {
	if old == "" {
		return s
	}
	return strings.ReplaceAll(s, old, repl)
}

func removeSpaces(s string) string { return strings.ReplaceAll(s, " ", "") }

// FontStyle holds the font declarations of a CSS style string.
type FontStyle struct {
	Family  Value // quotes removed
	Spec    Value // vendor hint, see fontSpec
	Weight  Value // hyphens removed
	Stretch Value // hyphens replaced by spaces
	Size    Value
	Style   Value // quotes removed
}

// ParseFontStyle extracts the font declarations of an inline
// CSS style attribute.
func ParseFontStyle(style string) FontStyle {
	family := fontFamily(style)
	return FontStyle{
		Family:  family,
		Spec:    fontSpec(style, family.Text),
		Weight:  fontWeight(style),
		Stretch: fontStretch(style),
		Size:    fontSize(style),
		Style:   fontStyle(style),
	}
}

// complete fills the empty properties (except Spec) from other.
func (fs *FontStyle) complete(other FontStyle) {
	for _, p := range [...]struct{ dst, src *Value }{
		{&fs.Family, &other.Family},
		{&fs.Weight, &other.Weight},
		{&fs.Stretch, &other.Stretch},
		{&fs.Size, &other.Size},
		{&fs.Style, &other.Style},
	} {
		if p.dst.IsEmpty() && p.src.Set {
			*p.dst = *p.src
		}
	}
}

// FontAttributes are SVG presentation attributes.
// An empty field means the attribute is not written.
type FontAttributes struct {
	Family, Weight, Style, Size string
}

// isNumber returns true for a non zero, base 10, unsigned integer.
func isNumber(s string) bool {
	if s == "" {
		return false
	}
	nonZero := false
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		if r != '0' {
			nonZero = true
		}
	}
	return nonZero
}

// Attributes computes the presentation attributes equivalent to fs.
// It returns false when the declarations are not sufficient:
// family or specification hint empty, or font-stretch declared blank.
func (fs FontStyle) Attributes() (FontAttributes, bool) {
	if fs.Family.IsEmpty() || fs.Spec.IsEmpty() || (fs.Stretch.Set && fs.Stretch.IsEmpty()) {
		return FontAttributes{}, false
	}
	family, weight, stretch, style := fs.Family.Text, fs.Weight.Text, fs.Stretch.Text, fs.Style.Text

	// a numeric weight has no name: use the one from the specification hint
	weightForFamily := weight
	if isNumber(weight) {
		weightForFamily = removeSpaces(replaceFold(fs.Spec.Text, family, ""))
		weightForFamily = removeSpaces(replaceFold(weightForFamily, stretch, ""))
	}

	if cases.Fold().String(stretch) == "normal" {
		stretch = ""
	}

	weightForFamily = cases.Lower(language.Und).String(weightForFamily)
	weightForFamily = removeSpaces(replace(weightForFamily, style, ""))
	weightForFamily = removeSpaces(replace(weightForFamily, removeSpaces(stretch), ""))
	weightForFamily = replaceFold(weightForFamily, "Heavy", "Black")
	weightForFamily = replaceFold(weightForFamily, "Ultra", "Extra")

	// bold without stretch is already expressed by font-weight
	if cases.Fold().String(weightForFamily) == "normal" || (stretch == "" && weight == "bold") {
		weightForFamily = ""
	}

	exported := family
	if stretch != "" {
		exported += " " + stretch
	}
	if weightForFamily != "" {
		exported += " " + weightForFamily
	}

	return FontAttributes{Family: exported, Weight: weight, Style: style, Size: fs.Size.Text}, true
}

// setAttrs writes the non empty attributes on el.
func (fa FontAttributes) setAttrs(el *svgdom.Node) {
	for _, attr := range [...]struct{ name, value string }{
		{"font-family", fa.Family},
		{"font-weight", fa.Weight},
		{"font-style", fa.Style},
		{"font-size", fa.Size},
	} {
		if attr.value != "" {
			el.SetAttr(svgdom.Name{Local: attr.name}, attr.value)
		}
	}
}

func isStyledText(n *svgdom.Node) bool {
	return n.Is(SVGNamespace, "text") && len(n.Attrs) != 0
}

// hoistSpan moves the text of a leading tspan directly under text,
// and discards the tspan, returning its font declarations.
// This fixes the horizontal shift of the text in some viewers.
// The tspan must start with a non empty text node; whitespace
// between text and the tspan is not considered.
func hoistSpan(text *svgdom.Node) (FontStyle, bool) {
	span := text.FirstSignificantChild()
	if span == nil || !span.Is(SVGNamespace, "tspan") {
		return FontStyle{}, false
	}
	display := span.FirstChild()
	if display == nil || display.Type != svgdom.TextNode || display.Data == "" {
		return FontStyle{}, false
	}

	var inner FontStyle
	if style, _ := span.Attr("", "style"); style != "" {
		inner = ParseFontStyle(style)
	}
	// keep substituted values verbatim
	if space, ok := span.Attr(svgdom.XMLNamespace, "space"); ok {
		text.SetAttr(xmlSpace, space)
	}
	text.ReplaceChild(display, span)
	return inner, true
}

// normalizeText processes one styled text element.
func normalizeText(text *svgdom.Node) {
	style, _ := text.Attr("", "style")
	if style == "" {
		return
	}
	fs := ParseFontStyle(style)
	if inner, ok := hoistSpan(text); ok {
		fs.complete(inner)
	}
	if attrs, ok := fs.Attributes(); ok {
		attrs.setAttrs(text)
	}
}

// NormalizeFonts walks the text elements of doc and adds the
// font-family, font-weight, font-style and font-size attributes
// derived from their style attribute, which is left unchanged.
func NormalizeFonts(doc *svgdom.Document) {
	for _, text := range doc.Select(isStyledText) {
		normalizeText(text)
	}
}
