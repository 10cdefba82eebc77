package sink

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/text"
)

func sampleResult() layout.Result {
	return layout.Result{
		Width:      200,
		Height:     100,
		Background: "#000000",
		Colormap:   "viridis",
		Font:       "regular",
		Seed:       42,
		Words: []layout.PlacedWord{
			{Word: "data", Weight: 10, FontSize: 40, X: 10, Y: 10, W: 90, H: 46, Ascent: 37, Color: "#fde725"},
			{Word: "r&d", Weight: 3, FontSize: 20, X: 150, Y: 20, W: 23, H: 60, Ascent: 19, Orientation: layout.Vertical, Color: "#440154"},
		},
	}
}

func TestRenderImageWithBoxes(t *testing.T) {
	res := sampleResult()
	img, err := RenderImage(res, WithTypesetter(layout.BoxTypesetter{}))
	if err != nil {
		t.Fatalf("RenderImage() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("bounds = %v, want 200x100", b)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{A: 0xff}) {
		t.Errorf("background pixel = %v, want black", got)
	}
	if got := img.RGBAAt(12, 12); got != (color.RGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff}) {
		t.Errorf("word pixel = %v, want #fde725", got)
	}
}

func TestRenderImageScale(t *testing.T) {
	img, err := RenderImage(sampleResult(), WithScale(2), WithTypesetter(layout.BoxTypesetter{}))
	if err != nil {
		t.Fatalf("RenderImage() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("bounds = %v, want 400x200", b)
	}

	_, err = RenderImage(sampleResult(), WithScale(0))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("WithScale(0) error = %v, want INVALID_CONFIG", err)
	}
}

func TestRenderPNGFromLayout(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.Width, cfg.Height = 300, 150
	cfg.MaxFontSize = 40
	vocab := text.Vocabulary{{Word: "survey", Weight: 5}, {Word: "data", Weight: 3}}
	res, err := layout.Layout(vocab, cfg)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	data, err := RenderPNG(res)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 150 {
		t.Errorf("bounds = %v, want 300x150", b)
	}

	inked := 0
	for y := range 150 {
		for x := range 300 {
			if r, g, b, _ := img.At(x, y).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("PNG contains only background")
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleResult(), WithTitle("Survey <2026>")))

	for _, want := range []string{
		`viewBox="0 0 200 100"`,
		`<title>Survey &lt;2026&gt;</title>`,
		`fill="#000000"`,
		`<text x="10" y="47" font-size="40" fill="#fde725">data</text>`,
		`transform="translate(169 80) rotate(-90)"`,
		`r&amp;d`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, "@font-face") {
		t.Error("font embedded without WithEmbeddedFont")
	}
	if !strings.Contains(string(RenderSVG(sampleResult(), WithEmbeddedFont())), "@font-face") {
		t.Error("WithEmbeddedFont() did not embed the font")
	}
}

func TestRenderSVGSanitizesColors(t *testing.T) {
	res := sampleResult()
	res.Background = `white" onload="alert(1)`
	res.Words[0].Color = `red" onload="alert(2)`
	res.Words[1].Color = "red"

	svg := string(RenderSVG(res))
	if strings.Contains(svg, "onload") {
		t.Fatalf("attribute injection survived:\n%s", svg)
	}
	for _, want := range []string{`<rect width="100%" height="100%" fill="#ffffff"/>`, `fill="#000000">data`, `fill="#ff0000">r&amp;d`} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q:\n%s", want, svg)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(sampleResult(), WithPDFTitle("Survey"))
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %q", data[:min(len(data), 8)])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	res := sampleResult()
	data, err := RenderJSON(res)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	got, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if len(got.Words) != 2 || got.Words[1].Orientation != layout.Vertical || got.Seed != 42 {
		t.Errorf("ReadJSON() = %+v", got)
	}

	if _, err := ReadJSON(strings.NewReader(`{"words": []}`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadJSON(no size) error = %v, want INVALID_FORMAT", err)
	}

	tests := []struct {
		name string
		json string
	}{
		{"bad word colour", `{"width": 10, "height": 10, "words": [{"word": "x", "color": "red\" onload=\"alert(2)"}]}`},
		{"bad background", `{"width": 10, "height": 10, "background": "not-a-colour", "words": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.json)); !errors.Is(err, errors.ErrCodeInvalidColor) {
				t.Errorf("ReadJSON() error = %v, want INVALID_COLOR", err)
			}
		})
	}
}
