package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/observability"
	"github.com/matzehuels/surveycloud/pkg/text"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout places vocab on the canvas described by opts. Words that
// do not fit are listed in the result's Dropped field; that is not an error.
func GenerateLayout(ctx context.Context, vocab text.Vocabulary, opts Options) (layout.Result, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(vocab))
	start := time.Now()

	var res layout.Result
	var err error
	if opts.Typesetter != nil {
		res, err = layout.New(opts.Typesetter).Layout(vocab, opts.LayoutConfig())
	} else {
		res, err = layout.Layout(vocab, opts.LayoutConfig())
	}

	hooks.OnLayoutComplete(ctx, len(res.Words), len(res.Dropped), time.Since(start), err)
	if err != nil {
		return layout.Result{}, err
	}
	if len(res.Dropped) > 0 && opts.Logger != nil {
		opts.Logger.Debug("words did not fit", "dropped", res.Dropped.Words())
	}
	return res, nil
}
