package layout

import "image"

// occupancy tracks inked canvas pixels. sum is the integral image of cells
// with one leading row and column of zeros, so any rectangle sum is four
// lookups.
type occupancy struct {
	w, h  int
	cells []bool
	sum   []int32
}

func newOccupancy(w, h int) *occupancy {
	return &occupancy{
		w:     w,
		h:     h,
		cells: make([]bool, w*h),
		sum:   make([]int32, (w+1)*(h+1)),
	}
}

// preset marks every pixel for which blocked returns true.
func (o *occupancy) preset(blocked []bool) {
	copy(o.cells, blocked)
	o.rebuild(0)
}

// area returns the number of inked pixels inside r, clipped to the canvas.
func (o *occupancy) area(r image.Rectangle) int {
	r = r.Intersect(image.Rect(0, 0, o.w, o.h))
	if r.Empty() {
		return 0
	}
	stride := o.w + 1
	s := o.sum[r.Max.Y*stride+r.Max.X] - o.sum[r.Min.Y*stride+r.Max.X] -
		o.sum[r.Max.Y*stride+r.Min.X] + o.sum[r.Min.Y*stride+r.Min.X]
	return int(s)
}

// fits reports whether a box at r lies inside the canvas and r grown by
// margin covers no ink.
func (o *occupancy) fits(r image.Rectangle, margin int) bool {
	if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > o.w || r.Max.Y > o.h {
		return false
	}
	return o.area(r.Inset(-margin)) == 0
}

// stamp marks the ink of g placed with its top-left corner at (x, y).
func (o *occupancy) stamp(x, y int, g *Glyph) {
	for gy := range g.H {
		row := (y + gy) * o.w
		for gx := range g.W {
			if g.Inked(gx, gy) {
				o.cells[row+x+gx] = true
			}
		}
	}
	o.rebuild(y)
}

// rebuild recomputes the integral image from canvas row y downward.
func (o *occupancy) rebuild(y int) {
	stride := o.w + 1
	for r := y; r < o.h; r++ {
		var run int32
		above := o.sum[r*stride:]
		cur := o.sum[(r+1)*stride:]
		for c := range o.w {
			if o.cells[r*o.w+c] {
				run++
			}
			cur[c+1] = above[c+1] + run
		}
	}
}
