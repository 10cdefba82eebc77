// Package text turns free-form survey text into a weighted vocabulary.
//
// [Count] is the entry point: it normalizes the input (NFKC plus Unicode
// case folding), splits it into word tokens, drops stopwords, numbers and
// short tokens, folds possessives and plurals onto their base form, and
// counts what remains. The result is a [Vocabulary] ordered by descending
// weight with first-seen order breaking ties, capped to Options.MaxWords.
//
//	vocab, err := text.Count(corpus, text.DefaultOptions())
//	if errors.Is(err, errors.ErrCodeEmptyInput) {
//	    // every token was filtered out
//	}
//
// Stopword sets are immutable values. [English] returns the built-in list;
// [StopwordSet.With] derives an extended copy:
//
//	opts := text.DefaultOptions()
//	opts.Stopwords = text.English().With("survey", "answer")
//
// Pre-computed weights (for example a JSON export) bypass the tokenizer
// through [ReadWeights] and [FromMap].
package text
