package domain

// Token is a normalized word together with its span in the raw input.
// Start and End are byte offsets so matched segments can be highlighted
// against the original text.
type Token struct {
	Text  string
	Start int
	End   int
}

// SourceMeta is the canonical bibliographic record registered with a corpus
// document. Both citation renderings derive from this one record.
type SourceMeta struct {
	Author string `yaml:"author" json:"author"`
	Title  string `yaml:"title" json:"title"`
	Venue  string `yaml:"venue" json:"venue,omitempty"`
	Year   int    `yaml:"year" json:"year"`
}

// IsZero reports whether no metadata was registered.
func (m SourceMeta) IsZero() bool {
	return m.Author == "" && m.Title == "" && m.Venue == "" && m.Year == 0
}

// Document is an indexed reference document. Immutable once added to the
// fingerprint index.
type Document struct {
	ID       string
	RawText  string
	Tokens   []Token
	Shingles []uint64
	Meta     SourceMeta
}

// Citation carries two renderings of the same bibliographic fact.
type Citation struct {
	MLA string `json:"mla"`
	APA string `json:"apa"`
}

// MatchedSegment is a span of the query text that overlaps a corpus
// document. Citation is set only when LocalScore clears the citation
// threshold and the source carries metadata.
type MatchedSegment struct {
	Text       string    `json:"text"`
	SourceID   string    `json:"source_id"`
	Start      int       `json:"start"`
	End        int       `json:"end"`
	LocalScore float64   `json:"local_score"`
	Citation   *Citation `json:"citation,omitempty"`
}

// SimilarityResult is the outcome of a detection pass. Request-scoped,
// never persisted.
type SimilarityResult struct {
	OverallScore float64          `json:"overall_score"`
	Segments     []MatchedSegment `json:"segments"`
}

// ReductionBounds is an estimated similarity reduction range in percent.
type ReductionBounds struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// ParaphraseResult is a rewrite plus up to three alternatives.
type ParaphraseResult struct {
	Primary      string          `json:"primary"`
	Alternatives []string        `json:"alternatives"`
	Reduction    ReductionBounds `json:"estimated_reduction_pct"`
}

// RemovalResult is a paraphrase whose reduction was verified by re-scoring
// the rewrite against the same corpus.
type RemovalResult struct {
	ParaphraseResult
	BaselineScore float64 `json:"baseline_score"`
	RewriteScore  float64 `json:"rewrite_score"`
}

// MeaningStrength controls how strictly a rewrite must track the input
// length.
type MeaningStrength string

const (
	MeaningLoose  MeaningStrength = "loose"
	MeaningStrict MeaningStrength = "strict"
)

// ParaphraseOptions configures a single paraphrase call.
type ParaphraseOptions struct {
	MaxAlternatives int
	Strength        MeaningStrength
	TimeoutMs       int
}

// Stats summarizes the indexed corpus.
type Stats struct {
	TotalDocs     int     `json:"total_docs"`
	TotalShingles int     `json:"total_shingles"`
	AvgDocTokens  float64 `json:"avg_doc_tokens"`
}
