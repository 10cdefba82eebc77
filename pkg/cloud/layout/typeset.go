package layout

import (
	"image"
	"math"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/fonts"
)

// Glyph is a rasterized word.
type Glyph struct {
	W, H   int // box size in pixels, already rotated
	Ascent int // baseline offset from the top of the unrotated box
	// Ink holds coverage with bounds (0,0)-(W,H). Nil means the whole box is ink.
	Ink *image.Alpha
}

// Inked reports whether pixel (x, y) of the box carries ink.
func (g *Glyph) Inked(x, y int) bool {
	if g.Ink == nil {
		return true
	}
	return g.Ink.Pix[y*g.Ink.Stride+x] > 0
}

// rotate turns the glyph 90° counter-clockwise so it reads bottom to top.
func (g *Glyph) rotate() *Glyph {
	out := &Glyph{W: g.H, H: g.W, Ascent: g.Ascent}
	if g.Ink == nil {
		return out
	}
	out.Ink = image.NewAlpha(image.Rect(0, 0, out.W, out.H))
	for v := range g.H {
		for u := range g.W {
			out.Ink.Pix[(g.W-1-u)*out.Ink.Stride+v] = g.Ink.Pix[v*g.Ink.Stride+u]
		}
	}
	return out
}

// Typesetter measures and rasterizes words.
// Implementations must be safe for concurrent use.
type Typesetter interface {
	Glyph(word string, size int, rotated bool) (*Glyph, error)
}

// FontTypesetter renders words with an embedded TrueType font at 72 DPI,
// so a size in points equals a size in pixels.
type FontTypesetter struct {
	font *fonts.Font
}

// NewFontTypesetter returns a typesetter for the named embedded font.
func NewFontTypesetter(name string) (*FontTypesetter, error) {
	f, err := fonts.Get(name)
	if err != nil {
		return nil, err
	}
	return &FontTypesetter{font: f}, nil
}

// Glyph draws word into an alpha mask. A new face is created per call since
// faces cache glyphs and are not safe for concurrent use.
func (t *FontTypesetter) Glyph(word string, size int, rotated bool) (*Glyph, error) {
	if word == "" || size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot typeset %q at size %d", word, size)
	}
	parsed, err := t.font.Parsed()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse font %s", t.font.Name)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create face")
	}
	defer face.Close()

	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	w, h := font.MeasureString(face, word).Ceil(), ascent+descent
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "word %q has no visible extent", word)
	}

	ink := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{Dst: ink, Src: image.Opaque, Face: face, Dot: fixed.P(0, ascent)}
	d.DrawString(word)

	g := &Glyph{W: w, H: h, Ascent: ascent, Ink: ink}
	if rotated {
		g = g.rotate()
	}
	return g, nil
}

// BoxTypesetter approximates every rune as a fixed-ratio cell and inks the
// whole box. It is fast and font-independent, used for previews and tests.
type BoxTypesetter struct {
	CharWidth  float64 // rune advance as a fraction of size; 0 means 0.6
	LineHeight float64 // box height as a fraction of size; 0 means 1.0
}

func (t BoxTypesetter) Glyph(word string, size int, rotated bool) (*Glyph, error) {
	if word == "" || size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot typeset %q at size %d", word, size)
	}
	cw, lh := t.CharWidth, t.LineHeight
	if cw <= 0 {
		cw = 0.6
	}
	if lh <= 0 {
		lh = 1.0
	}
	w := int(math.Ceil(float64(utf8.RuneCountInString(word)) * float64(size) * cw))
	h := int(math.Ceil(float64(size) * lh))
	g := &Glyph{W: w, H: h, Ascent: int(math.Round(float64(h) * 0.8))}
	if rotated {
		g = g.rotate()
	}
	return g, nil
}
