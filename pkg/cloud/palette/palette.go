// Package palette resolves word colours and canvas backgrounds.
//
// A [Colormap] maps t in [0,1] to a colour by interpolating between anchor
// stops sampled from the matplotlib colormaps of the same name. The layout
// engine samples one t per placed word from its seeded RNG.
package palette

import (
	"image/color"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

const (
	DefaultColormap   = "viridis"
	DefaultBackground = "white"
)

type stop struct {
	pos float64
	hex string
}

// Colormap is a named gradient.
type Colormap struct {
	Name  string
	stops []stop
	cols  []colorful.Color
}

var registry = map[string]Colormap{}

func register(name string, stops ...stop) {
	cm := Colormap{Name: name, stops: stops}
	for _, s := range stops {
		c, err := colorful.Hex(s.hex)
		if err != nil {
			panic("palette: bad stop " + s.hex + " in " + name)
		}
		cm.cols = append(cm.cols, c)
	}
	registry[name] = cm
}

// even spreads hex anchors uniformly over [0,1].
func even(hexes ...string) []stop {
	out := make([]stop, len(hexes))
	for i, h := range hexes {
		out[i] = stop{pos: float64(i) / float64(len(hexes)-1), hex: h}
	}
	return out
}

func init() {
	register("viridis", even("#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725")...)
	register("plasma", even("#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921")...)
	register("inferno", even("#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4")...)
	register("magma", even("#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf")...)
	register("cividis", even("#00224e", "#123570", "#3b496c", "#575d6d", "#707173", "#8a8779", "#a69d75", "#c4b56c", "#e4cf5b", "#fee838")...)
	register("cool", even("#00ffff", "#ff00ff")...)
	register("hot", stop{0, "#0b0000"}, stop{0.365, "#ff0000"}, stop{0.746, "#ffff00"}, stop{1, "#ffffff"})
	register("rainbow", even("#8000ff", "#2c7ef7", "#2adddd", "#80ffb4", "#d4dd80", "#ff7e41", "#ff0000")...)
	register("gray", even("#000000", "#ffffff")...)
}

// Lookup returns the colormap with the given name (case-insensitive).
func Lookup(name string) (Colormap, error) {
	if name == "" {
		name = DefaultColormap
	}
	cm, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Colormap{}, errors.New(errors.ErrCodeInvalidColormap,
			"unknown colormap %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return cm, nil
}

// Names returns the registered colormap names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// At returns the colour at position t, clamped to [0,1].
func (c Colormap) At(t float64) colorful.Color {
	t = max(0, min(t, 1))
	if len(c.cols) == 0 {
		return colorful.Color{}
	}
	for i := 1; i < len(c.stops); i++ {
		lo, hi := c.stops[i-1].pos, c.stops[i].pos
		if t <= hi {
			if hi == lo {
				return c.cols[i]
			}
			return c.cols[i-1].BlendRgb(c.cols[i], (t-lo)/(hi-lo)).Clamped()
		}
	}
	return c.cols[len(c.cols)-1]
}

// Hex returns At(t) as "#rrggbb".
func (c Colormap) Hex(t float64) string {
	return c.At(t).Hex()
}

// Backgrounds lists the named backgrounds offered by the survey form.
func Backgrounds() []string {
	return []string{"white", "black", "blue", "red", "green", "yellow", "purple"}
}

// ParseColor accepts a CSS colour name ("white", "purple") or a hex string
// with or without the leading '#', in 3 or 6 digit form.
func ParseColor(s string) (colorful.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		name = DefaultBackground
	}
	if rgba, ok := colornames.Map[name]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, nil
	}
	hex := name
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) == 4 || len(hex) == 7 {
		if c, err := colorful.Hex(hex); err == nil {
			return c, nil
		}
	}
	return colorful.Color{}, errors.New(errors.ErrCodeInvalidColor, "invalid colour %q", s)
}

// RGBA converts c to an opaque color.RGBA.
func RGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Luminance returns the relative luminance of c in [0,1].
func Luminance(c colorful.Color) float64 {
	r, g, b := c.Clamped().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
