package layout

import "math"

// spiral yields offsets along an Archimedean spiral whose x axis is stretched
// by the canvas aspect ratio. dir is +1 or -1.
type spiral struct {
	aspect float64
	dir    float64
	t      float64
	maxA   float64
}

// newSpiral starts a spiral at (cx, cy) on a w×h canvas.
func newSpiral(w, h, cx, cy int, dir float64) *spiral {
	aspect := float64(w) / float64(h)
	var maxA float64
	for _, corner := range [][2]int{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		dx := float64(corner[0]-cx) / aspect
		dy := float64(corner[1] - cy)
		maxA = max(maxA, math.Hypot(dx, dy))
	}
	return &spiral{aspect: aspect, dir: dir, t: -dir, maxA: maxA}
}

// next returns the next offset, or ok=false once the spiral's radius has
// passed every canvas corner, after which no offset lands on the canvas.
func (s *spiral) next() (dx, dy int, ok bool) {
	s.t += s.dir
	a := s.t * 0.1
	if math.Abs(a) > s.maxA {
		return 0, 0, false
	}
	return int(s.aspect * a * math.Cos(a)), int(a * math.Sin(a)), true
}
