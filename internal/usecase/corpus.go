package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"textguard/internal/adapter/analyzer"
	"textguard/internal/domain"
)

// AddDocument registers a reference document with the fingerprint index
// and, when a store is configured, persists it. The authorization check
// runs before anything is touched.
func (p *Pipeline) AddDocument(adminToken, id, text string, meta domain.SourceMeta) (string, error) {
	if err := p.authorizer.Authorize(adminToken); err != nil {
		return "", err
	}

	tokens, err := p.docNormalizer.Normalize(text)
	if err != nil {
		return "", fmt.Errorf("normalize document: %w", err)
	}
	if id == "" {
		id = generateDocID(text)
	}

	doc := domain.Document{
		ID:       id,
		RawText:  text,
		Tokens:   tokens,
		Shingles: analyzer.Shingles(tokens, p.shingleK, p.stride),
		Meta:     meta,
	}
	p.index.Add(doc)

	if p.store != nil {
		if err := p.store.PutDoc(id, text, meta); err != nil {
			return id, fmt.Errorf("persist document: %w", err)
		}
		if err := p.store.UpdateStats(p.index.Snapshot().Stats()); err != nil {
			return id, fmt.Errorf("persist stats: %w", err)
		}
	}

	return id, nil
}

// LoadFromStore rebuilds the index from the persisted corpus. Returns the
// number of documents loaded.
func (p *Pipeline) LoadFromStore() (int, error) {
	if p.store == nil {
		return 0, nil
	}
	docs, err := p.store.ListDocs()
	if err != nil {
		return 0, fmt.Errorf("list corpus: %w", err)
	}

	loaded := 0
	for _, d := range docs {
		tokens, err := p.docNormalizer.Normalize(d.RawText)
		if err != nil {
			p.log.Warn().Err(err).Str("doc_id", d.ID).Msg("skipping unparseable corpus document")
			continue
		}
		p.index.Add(domain.Document{
			ID:       d.ID,
			RawText:  d.RawText,
			Tokens:   tokens,
			Shingles: analyzer.Shingles(tokens, p.shingleK, p.stride),
			Meta:     d.Meta,
		})
		loaded++
	}
	return loaded, nil
}

func generateDocID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}
