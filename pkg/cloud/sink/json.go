package sink

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/cloud/palette"
	"github.com/matzehuels/surveycloud/pkg/errors"
)

// RenderJSON serializes the placed words and canvas settings.
func RenderJSON(res layout.Result) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	return append(data, '\n'), nil
}

// ReadJSON decodes a layout written by RenderJSON. The background and every
// word colour must parse with palette.ParseColor.
func ReadJSON(r io.Reader) (layout.Result, error) {
	var res layout.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return layout.Result{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if res.Width <= 0 || res.Height <= 0 {
		return layout.Result{}, errors.New(errors.ErrCodeInvalidFormat, "layout has no canvas size")
	}
	if _, err := palette.ParseColor(res.Background); err != nil {
		return layout.Result{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "layout background")
	}
	for _, w := range res.Words {
		if _, err := palette.ParseColor(w.Color); err != nil {
			return layout.Result{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "word %q", w.Word)
		}
	}
	return res, nil
}
