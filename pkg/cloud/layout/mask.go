package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/color"
	"io"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

// ShapeMask limits placement to part of the canvas. Pure white and fully
// transparent pixels are off limits; everything else is usable.
type ShapeMask struct {
	img         *image.NRGBA
	fingerprint string
}

// NewShapeMask wraps img.
func NewShapeMask(img image.Image) *ShapeMask {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	h := sha256.New()
	h.Write([]byte{byte(b.Dx() >> 8), byte(b.Dx()), byte(b.Dy() >> 8), byte(b.Dy())})
	h.Write(nrgba.Pix)
	return &ShapeMask{img: nrgba, fingerprint: hex.EncodeToString(h.Sum(nil))}
}

// ReadShapeMask decodes a PNG or JPEG mask.
func ReadShapeMask(r io.Reader) (*ShapeMask, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode mask image")
	}
	return NewShapeMask(img), nil
}

// Fingerprint identifies the mask contents for cache keys.
func (m *ShapeMask) Fingerprint() string {
	if m == nil {
		return ""
	}
	return m.fingerprint
}

// Bounds returns the size of the source image.
func (m *ShapeMask) Bounds() image.Rectangle { return m.img.Bounds() }

// blocked scales the mask to w x h and reports which pixels are off limits.
func (m *ShapeMask) blocked(w, h int) []bool {
	scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), m.img, m.img.Bounds(), draw.Src, nil)

	out := make([]bool, w*h)
	for y := range h {
		for x := range w {
			out[y*w+x] = excluded(scaled.NRGBAAt(x, y))
		}
	}
	return out
}

func excluded(c color.NRGBA) bool {
	return c.A == 0 || (c.R == 0xff && c.G == 0xff && c.B == 0xff)
}
