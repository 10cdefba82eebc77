package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/cloud/palette"
	"github.com/matzehuels/surveycloud/pkg/fonts"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	embedFont bool
	title     string
}

// WithEmbeddedFont inlines the TTF as a base64 @font-face so the SVG renders
// identically without the font installed.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	font := fonts.MustGet(fontName(res.Font))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		res.Width, res.Height, res.Width, res.Height)
	if r.title != "" {
		buf.WriteString("  <title>")
		xml.EscapeText(&buf, []byte(r.title))
		buf.WriteString("</title>\n")
	}
	if r.embedFont {
		fmt.Fprintf(&buf, "  <style>@font-face { font-family: '%s'; font-weight: %s; src: url(data:font/ttf;base64,%s) format('truetype'); }</style>\n",
			fonts.FontFamily, font.Weight, font.TTFBase64())
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", svgFill(res.Background, palette.DefaultBackground))
	fmt.Fprintf(&buf, `  <g font-family="%s" font-weight="%s">`+"\n", fonts.FallbackFontFamily, font.Weight)
	for _, w := range res.Words {
		renderWord(&buf, w)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderWord(buf *bytes.Buffer, w layout.PlacedWord) {
	if w.Rotated() {
		fmt.Fprintf(buf, `    <text transform="translate(%d %d) rotate(-90)" font-size="%d" fill="%s">`,
			w.X+w.Ascent, w.Y+w.H, w.FontSize, svgFill(w.Color, "black"))
	} else {
		fmt.Fprintf(buf, `    <text x="%d" y="%d" font-size="%d" fill="%s">`,
			w.X, w.Y+w.Ascent, w.FontSize, svgFill(w.Color, "black"))
	}
	xml.EscapeText(buf, []byte(w.Word))
	buf.WriteString("</text>\n")
}

// svgFill returns c as a #rrggbb attribute value, or fallback when c is not a
// colour.
func svgFill(c, fallback string) string {
	parsed, err := palette.ParseColor(c)
	if err != nil {
		parsed, _ = palette.ParseColor(fallback)
	}
	return parsed.Hex()
}

func fontName(name string) string {
	if _, err := fonts.Get(name); err != nil {
		return fonts.Default
	}
	return name
}
