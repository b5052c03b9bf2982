package index

import (
	"sort"
	"sync"
	"sync/atomic"

	"textguard/internal/domain"
)

// Index is an inverted shingle index over the reference corpus. Mutation
// builds a fresh snapshot and swaps it in atomically, so in-flight readers
// keep working against an immutable view and never observe a partial
// update. Readers never block each other or the writer.
type Index struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[Snapshot]
}

// Snapshot is an immutable view of the index. All read paths (candidate
// lookup, document access, IDF statistics) go through one snapshot so a
// single request sees one consistent corpus state.
type Snapshot struct {
	docs     []domain.Document
	byID     map[string]int   // doc ID -> ordinal (insertion order)
	postings map[uint64][]int // shingle -> doc ordinals, ascending
	docFreq  map[uint64]int
	shingles int
	tokens   int
}

// New creates an empty index.
func New() *Index {
	idx := &Index{}
	idx.snap.Store(&Snapshot{
		byID:     make(map[string]int),
		postings: make(map[uint64][]int),
		docFreq:  make(map[uint64]int),
	})
	return idx
}

// Snapshot returns the current immutable view.
func (x *Index) Snapshot() *Snapshot {
	return x.snap.Load()
}

// Add indexes a document incrementally. Documents are immutable once
// indexed: re-adding an existing ID is a no-op.
func (x *Index) Add(doc domain.Document) {
	x.mu.Lock()
	defer x.mu.Unlock()

	old := x.snap.Load()
	if _, exists := old.byID[doc.ID]; exists {
		return
	}

	next := old.clone()
	ord := len(next.docs)
	next.docs = append(next.docs, doc)
	next.byID[doc.ID] = ord
	next.tokens += len(doc.Tokens)
	next.shingles += len(doc.Shingles)

	seen := make(map[uint64]struct{}, len(doc.Shingles))
	for _, sh := range doc.Shingles {
		if _, dup := seen[sh]; dup {
			continue
		}
		seen[sh] = struct{}{}
		// Copy the posting list before extending it: the old snapshot may
		// still be read concurrently and must not share backing arrays.
		list := next.postings[sh]
		next.postings[sh] = append(append(make([]int, 0, len(list)+1), list...), ord)
		next.docFreq[sh]++
	}

	x.snap.Store(next)
}

func (s *Snapshot) clone() *Snapshot {
	next := &Snapshot{
		docs:     append(make([]domain.Document, 0, len(s.docs)+1), s.docs...),
		byID:     make(map[string]int, len(s.byID)+1),
		postings: make(map[uint64][]int, len(s.postings)),
		docFreq:  make(map[uint64]int, len(s.docFreq)),
		shingles: s.shingles,
		tokens:   s.tokens,
	}
	for k, v := range s.byID {
		next.byID[k] = v
	}
	for k, v := range s.postings {
		next.postings[k] = v
	}
	for k, v := range s.docFreq {
		next.docFreq[k] = v
	}
	return next
}

// Candidates returns up to limit document IDs ranked by distinct shingle
// overlap with the query, ties broken by earliest-added document.
func (s *Snapshot) Candidates(queryShingles []uint64, limit int) []string {
	if limit <= 0 || len(queryShingles) == 0 || len(s.docs) == 0 {
		return nil
	}

	overlap := make(map[int]int)
	seen := make(map[uint64]struct{}, len(queryShingles))
	for _, sh := range queryShingles {
		if _, dup := seen[sh]; dup {
			continue
		}
		seen[sh] = struct{}{}
		for _, ord := range s.postings[sh] {
			overlap[ord]++
		}
	}

	ords := make([]int, 0, len(overlap))
	for ord := range overlap {
		ords = append(ords, ord)
	}
	sort.Slice(ords, func(i, j int) bool {
		if overlap[ords[i]] != overlap[ords[j]] {
			return overlap[ords[i]] > overlap[ords[j]]
		}
		return ords[i] < ords[j]
	})

	if len(ords) > limit {
		ords = ords[:limit]
	}
	ids := make([]string, len(ords))
	for i, ord := range ords {
		ids[i] = s.docs[ord].ID
	}
	return ids
}

// Doc returns an indexed document by ID.
func (s *Snapshot) Doc(id string) (domain.Document, bool) {
	ord, ok := s.byID[id]
	if !ok {
		return domain.Document{}, false
	}
	return s.docs[ord], true
}

// TotalDocs returns the number of indexed documents.
func (s *Snapshot) TotalDocs() int {
	return len(s.docs)
}

// DocFreq returns the number of documents containing the shingle.
func (s *Snapshot) DocFreq(sh uint64) int {
	return s.docFreq[sh]
}

// Stats summarizes the snapshot.
func (s *Snapshot) Stats() domain.Stats {
	avg := 0.0
	if len(s.docs) > 0 {
		avg = float64(s.tokens) / float64(len(s.docs))
	}
	return domain.Stats{
		TotalDocs:     len(s.docs),
		TotalShingles: s.shingles,
		AvgDocTokens:  avg,
	}
}
