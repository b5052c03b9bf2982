package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"textguard/internal/domain"
	"textguard/internal/port"
)

var (
	bucketDocs  = []byte("docs")
	bucketStats = []byte("stats")
	keyStats    = []byte("corpus_stats")
)

// BoltStore persists corpus documents and stats in a bbolt database.
// The fingerprint index is rebuilt from this store at startup; tokens and
// shingles are not persisted so analyzer settings can change freely.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketDocs, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type docRecord struct {
	Seq     uint64            `json:"seq"`
	RawText string            `json:"raw_text"`
	Meta    domain.SourceMeta `json:"meta"`
}

// PutDoc stores a document. New IDs get the next insertion sequence;
// overwriting an existing ID keeps its original sequence.
func (s *BoltStore) PutDoc(id, rawText string, meta domain.SourceMeta) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocs)

		rec := docRecord{RawText: rawText, Meta: meta}
		if existing := b.Get([]byte(id)); existing != nil {
			var old docRecord
			if err := json.Unmarshal(existing, &old); err == nil {
				rec.Seq = old.Seq
			}
		}
		if rec.Seq == 0 {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			rec.Seq = seq
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
}

// GetDoc fetches a document by ID.
func (s *BoltStore) GetDoc(id string) (port.StoredDoc, error) {
	var doc port.StoredDoc
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("document not found: %s", id)
		}
		var rec docRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		doc = port.StoredDoc{ID: id, Seq: rec.Seq, RawText: rec.RawText, Meta: rec.Meta}
		return nil
	})
	return doc, err
}

// DeleteDoc removes a document by ID.
func (s *BoltStore) DeleteDoc(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).Delete([]byte(id))
	})
}

// ListDocs returns all documents ordered by insertion sequence, so index
// rebuilds preserve the original tie-breaking order.
func (s *BoltStore) ListDocs() ([]port.StoredDoc, error) {
	var docs []port.StoredDoc
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var rec docRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			docs = append(docs, port.StoredDoc{ID: string(k), Seq: rec.Seq, RawText: rec.RawText, Meta: rec.Meta})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })
	return docs, nil
}

// GetStats reads the persisted corpus stats.
func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStats).Get(keyStats)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

// UpdateStats persists the corpus stats.
func (s *BoltStore) UpdateStats(stats domain.Stats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keyStats, data)
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
