package layout

import (
	"image"

	"github.com/matzehuels/surveycloud/pkg/text"
)

// Orientation of a placed word in degrees. Rotated words read bottom to top.
const (
	Horizontal = 0
	Vertical   = 90
)

// PlacedWord is a word with its final size, position and colour.
// X and Y are the top-left corner of the box; W and H are the box size
// after rotation. Ascent is the baseline offset within the unrotated box.
type PlacedWord struct {
	Word        string  `json:"word"`
	Weight      float64 `json:"weight"`
	FontSize    int     `json:"font_size"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	W           int     `json:"w"`
	H           int     `json:"h"`
	Ascent      int     `json:"ascent"`
	Orientation int     `json:"orientation"`
	Color       string  `json:"color"`
}

// Rect returns the word's box on the canvas.
func (p PlacedWord) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.W, p.Y+p.H)
}

// Rotated reports whether the word is drawn vertically.
func (p PlacedWord) Rotated() bool { return p.Orientation == Vertical }

// Result is the output of one layout run.
type Result struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Background string          `json:"background"`
	Colormap   string          `json:"colormap"`
	Font       string          `json:"font"`
	Seed       uint64          `json:"seed"`
	Words      []PlacedWord    `json:"words"`
	Dropped    text.Vocabulary `json:"dropped,omitempty"`
}

// Coverage returns the fraction of the canvas covered by word boxes.
func (r Result) Coverage() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	var area int
	for _, w := range r.Words {
		area += w.W * w.H
	}
	return float64(area) / float64(r.Width*r.Height)
}
