package sink

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/cloud/palette"
	"github.com/matzehuels/surveycloud/pkg/errors"
)

// PNGOption configures raster rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale int
	ts    layout.Typesetter
}

// WithScale multiplies the canvas and every glyph by s (default 1).
func WithScale(s int) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithTypesetter overrides the typesetter used to draw glyphs. It must match
// the one the layout was computed with.
func WithTypesetter(ts layout.Typesetter) PNGOption {
	return func(r *pngRenderer) { r.ts = ts }
}

// RenderImage draws the result onto an opaque RGBA image.
func RenderImage(res layout.Result, opts ...PNGOption) (*image.RGBA, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scale must be at least 1, got %d", r.scale)
	}
	if r.ts == nil {
		ts, err := layout.NewFontTypesetter(res.Font)
		if err != nil {
			return nil, err
		}
		r.ts = ts
	}

	bg, err := palette.ParseColor(res.Background)
	if err != nil {
		return nil, err
	}
	s := r.scale
	img := image.NewRGBA(image.Rect(0, 0, res.Width*s, res.Height*s))
	draw.Draw(img, img.Bounds(), image.NewUniform(palette.RGBA(bg)), image.Point{}, draw.Src)

	for _, w := range res.Words {
		g, err := r.ts.Glyph(w.Word, w.FontSize*s, w.Rotated())
		if err != nil {
			return nil, err
		}
		fill, err := palette.ParseColor(w.Color)
		if err != nil {
			return nil, err
		}
		src := image.NewUniform(palette.RGBA(fill))
		rect := image.Rect(w.X*s, w.Y*s, w.X*s+g.W, w.Y*s+g.H)
		if g.Ink == nil {
			draw.Draw(img, rect, src, image.Point{}, draw.Over)
			continue
		}
		draw.DrawMask(img, rect, src, image.Point{}, g.Ink, image.Point{}, draw.Over)
	}
	return img, nil
}

// RenderPNG encodes the result as PNG.
func RenderPNG(res layout.Result, opts ...PNGOption) ([]byte, error) {
	img, err := RenderImage(res, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "encode png")
	}
	return buf.Bytes(), nil
}
