package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each survey its
// own namespace in a shared cache.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "survey:retro-2026:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) VocabularyKey(textHash string, opts VocabularyKeyOpts) string {
	return k.prefix + k.inner.VocabularyKey(textHash, opts)
}

func (k *ScopedKeyer) LayoutKey(vocabHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(vocabHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
