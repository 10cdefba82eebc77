package sink

import (
	"bytes"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/fonts"
)

// Canvas pixels are CSS pixels: 96 per inch.
const (
	mmPerPx = 25.4 / 96
	ptPerPx = 72.0 / 96
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	title string
}

// WithPDFTitle sets the document title.
func WithPDFTitle(t string) PDFOption {
	return func(r *pdfRenderer) { r.title = t }
}

// RenderPDF draws the result on a single page sized to the canvas.
func RenderPDF(res layout.Result, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	font := fonts.MustGet(fontName(res.Font))
	family := canvas.NewFontFamily(fonts.FontFamily)
	if err := family.LoadFont(font.TTF(), 0, canvas.FontRegular); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font %s", font.Name)
	}

	w, h := mm(res.Width), mm(res.Height)
	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo(r.title, "", "", "", "surveycloud")

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetFillColor(canvas.Hex(res.Background))
	ctx.DrawPath(0, 0, canvas.Rectangle(w, h))

	for _, word := range res.Words {
		face := family.Face(float64(word.FontSize)*ptPerPx, canvas.Hex(word.Color), canvas.FontRegular, canvas.FontNormal)
		line := canvas.NewTextLine(face, word.Word, canvas.Left)

		// The context is y-up; layout coordinates are y-down from the top.
		if word.Rotated() {
			ctx.Push()
			ctx.ComposeView(canvas.Identity.Translate(mm(word.X+word.Ascent), h-mm(word.Y+word.H)).Rotate(90))
			ctx.DrawText(0, 0, line)
			ctx.Pop()
			continue
		}
		ctx.DrawText(mm(word.X), h-mm(word.Y+word.Ascent), line)
	}

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "finish pdf")
	}
	return buf.Bytes(), nil
}

func mm(px int) float64 { return float64(px) * mmPerPx }
