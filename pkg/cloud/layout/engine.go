package layout

import (
	"image"
	"math/rand/v2"

	"github.com/matzehuels/surveycloud/pkg/cloud/palette"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/text"
)

// Engine lays out vocabularies with a fixed typesetter.
type Engine struct {
	ts Typesetter
}

// New returns an engine that measures words with ts.
func New(ts Typesetter) *Engine {
	return &Engine{ts: ts}
}

// Layout places vocab using the embedded font named by cfg.Font.
func Layout(vocab text.Vocabulary, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	ts, err := NewFontTypesetter(cfg.Font)
	if err != nil {
		return Result{}, err
	}
	return New(ts).Layout(vocab, cfg)
}

// Layout places vocab on the canvas described by cfg. Words that do not fit
// are returned in Result.Dropped; an empty vocabulary is an EMPTY_INPUT
// error.
func (e *Engine) Layout(vocab text.Vocabulary, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if len(vocab) == 0 {
		return Result{}, errors.New(errors.ErrCodeEmptyInput, "vocabulary is empty")
	}
	cmap, _ := palette.Lookup(cfg.Colormap)
	bg, _ := palette.ParseColor(cfg.Background)

	words := vocab.Sorted()
	if cfg.MaxWords > 0 && len(words) > cfg.MaxWords {
		words = words[:cfg.MaxWords]
	}

	occ := newOccupancy(cfg.Width, cfg.Height)
	if cfg.Mask != nil {
		occ.preset(cfg.Mask.blocked(cfg.Width, cfg.Height))
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5eed5eed))
	res := Result{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: bg.Hex(),
		Colormap:   cmap.Name,
		Font:       cfg.Font,
		Seed:       cfg.Seed,
	}
	maxWeight := words[0].Weight

	for rank, entry := range words {
		size := FontSize(entry.Weight, maxWeight, cfg)
		cx, cy := startPoint(rank, cfg, rng)

		pw, placed, err := e.place(occ, entry.Word, size, false, cx, cy, cfg, rng)
		if err != nil {
			return Result{}, err
		}
		if !placed && !cfg.NoRotate {
			pw, placed, err = e.place(occ, entry.Word, size, true, cx, cy, cfg, rng)
			if err != nil {
				return Result{}, err
			}
		}
		if !placed {
			res.Dropped = append(res.Dropped, entry)
			continue
		}
		pw.Weight = entry.Weight
		pw.Color = cmap.Hex(rng.Float64())
		res.Words = append(res.Words, pw)
	}
	return res, nil
}

// startPoint is the canvas centre for the heaviest word and a point within a
// quarter canvas of it for the rest.
func startPoint(rank int, cfg Config, rng *rand.Rand) (int, int) {
	cx, cy := cfg.Width/2, cfg.Height/2
	if rank == 0 {
		return cx, cy
	}
	jx := int((rng.Float64() - 0.5) * float64(cfg.Width) / 2)
	jy := int((rng.Float64() - 0.5) * float64(cfg.Height) / 2)
	return cx + jx, cy + jy
}

func (e *Engine) place(occ *occupancy, word string, size int, rotated bool, cx, cy int, cfg Config, rng *rand.Rand) (PlacedWord, bool, error) {
	dir := 1.0
	if rng.Float64() < 0.5 {
		dir = -1
	}
	g, err := e.ts.Glyph(word, size, rotated)
	if err != nil {
		return PlacedWord{}, false, err
	}
	if g.W > cfg.Width || g.H > cfg.Height {
		return PlacedWord{}, false, nil
	}

	sp := newSpiral(cfg.Width, cfg.Height, cx, cy, dir)
	for range cfg.spiralSteps() {
		dx, dy, ok := sp.next()
		if !ok {
			break
		}
		x, y := cx+dx-g.W/2, cy+dy-g.H/2
		if !occ.fits(image.Rect(x, y, x+g.W, y+g.H), cfg.Margin) {
			continue
		}
		occ.stamp(x, y, g)
		orientation := Horizontal
		if rotated {
			orientation = Vertical
		}
		return PlacedWord{
			Word:        word,
			FontSize:    size,
			X:           x,
			Y:           y,
			W:           g.W,
			H:           g.H,
			Ascent:      g.Ascent,
			Orientation: orientation,
		}, true, nil
	}
	return PlacedWord{}, false, nil
}
