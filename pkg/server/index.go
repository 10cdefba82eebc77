package server

import (
	_ "embed"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/surveycloud/pkg/cloud/palette"
	"github.com/matzehuels/surveycloud/pkg/survey"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"ago":       func(t time.Time) string { return humanize.Time(t) },
	"bytes":     func(n int64) string { return humanize.Bytes(uint64(max(n, 0))) },
	"comma":     func(n int) string { return humanize.Comma(int64(n)) },
	"colormaps": palette.Names,
}).Parse(indexHTML))

type indexPage struct {
	Title    string
	Stats    survey.Stats
	Recent   []survey.Response
	Saved    bool
	Colormap string
}
