package port

import "textguard/internal/domain"

// StoredDoc is a corpus document as persisted: raw text plus metadata.
// Seq records insertion order so the index can be rebuilt with stable
// tie-breaking.
type StoredDoc struct {
	ID      string
	Seq     uint64
	RawText string
	Meta    domain.SourceMeta
}

// CorpusStore persists reference documents across runs. Tokens and
// shingles are recomputed at load time so analyzer settings can change
// without a stored-format migration.
type CorpusStore interface {
	PutDoc(id, rawText string, meta domain.SourceMeta) error

	GetDoc(id string) (StoredDoc, error)

	DeleteDoc(id string) error

	// ListDocs returns all documents ordered by insertion sequence.
	ListDocs() ([]StoredDoc, error)

	GetStats() (domain.Stats, error)

	UpdateStats(stats domain.Stats) error

	Close() error
}
