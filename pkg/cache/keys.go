package cache

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	VocabularyKey(textHash string, opts VocabularyKeyOpts) string
	LayoutKey(vocabHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// VocabularyKeyOpts are the tokenizer settings that change a vocabulary.
type VocabularyKeyOpts struct {
	MinLength     int    `json:"min_length"`
	MaxWords      int    `json:"max_words"`
	FoldPlurals   bool   `json:"fold_plurals"`
	StopwordsHash string `json:"stopwords"`
}

// LayoutKeyOpts are the layout settings that change placement.
type LayoutKeyOpts struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	MinFontSize     int     `json:"min_font_size"`
	MaxFontSize     int     `json:"max_font_size"`
	RelativeScaling float64 `json:"relative_scaling"`
	MaxWords        int     `json:"max_words"`
	Margin          int     `json:"margin"`
	MaxSpiralSteps  int     `json:"max_spiral_steps"`
	NoRotate        bool    `json:"no_rotate"`
	Seed            uint64  `json:"seed"`
	Colormap        string  `json:"colormap"`
	Background      string  `json:"background"`
	Font            string  `json:"font"`
	Mask            string  `json:"mask"`
}

// ArtifactKeyOpts are the render settings that change output bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Scale     int    `json:"scale"`
	EmbedFont bool   `json:"embed_font"`
	Title     string `json:"title"`
}

// DefaultKeyer hashes the stage inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) VocabularyKey(textHash string, opts VocabularyKeyOpts) string {
	return hashKey("vocab", textHash, opts)
}

func (DefaultKeyer) LayoutKey(vocabHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", vocabHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
