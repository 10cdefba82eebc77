// Package fonts provides the embedded typefaces used to measure, rasterize
// and embed words.
//
// The Go fonts ship with golang.org/x/image, so every sink renders with
// the same outlines the layout engine measured.
package fonts

import (
	"encoding/base64"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

// Default is the font used when none is configured.
const Default = "regular"

// FontFamily is the CSS font-family name written into SVG output.
const FontFamily = "Go"

// FallbackFontFamily is used by SVG viewers that ignore the embedded font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// Font is an embedded TrueType font.
type Font struct {
	Name   string
	Weight string // CSS font-weight
	ttf    []byte
	parsed func() (*opentype.Font, error)
	b64    func() string
}

func newFont(name, weight string, ttf []byte) *Font {
	return &Font{
		Name:   name,
		Weight: weight,
		ttf:    ttf,
		parsed: sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(ttf) }),
		b64:    sync.OnceValue(func() string { return base64.StdEncoding.EncodeToString(ttf) }),
	}
}

var registry = map[string]*Font{
	"regular": newFont("regular", "normal", goregular.TTF),
	"bold":    newFont("bold", "bold", gobold.TTF),
}

// Get returns the font with the given name; "" selects Default.
func Get(name string) (*Font, error) {
	if name == "" {
		name = Default
	}
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown font %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// MustGet is Get for names known to exist.
func MustGet(name string) *Font {
	f, err := Get(name)
	if err != nil {
		panic(err)
	}
	return f
}

// Names lists the embedded fonts.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// TTF returns the raw font data.
func (f *Font) TTF() []byte { return f.ttf }

// Parsed returns the parsed font. The result is shared and safe for
// concurrent use; faces created from it are not.
func (f *Font) Parsed() (*opentype.Font, error) { return f.parsed() }

// TTFBase64 returns the font data as a base64 string, computed once.
func (f *Font) TTFBase64() string { return f.b64() }
