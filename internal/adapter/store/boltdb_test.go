package store

import (
	"path/filepath"
	"testing"

	"textguard/internal/domain"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBoltStore_PutGetDoc(t *testing.T) {
	st := openTestStore(t)

	meta := domain.SourceMeta{Author: "Jordan Smith", Title: "A Title", Year: 2020}
	if err := st.PutDoc("doc1", "reference text body", meta); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	doc, err := st.GetDoc("doc1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc.RawText != "reference text body" {
		t.Errorf("unexpected raw text: %q", doc.RawText)
	}
	if doc.Meta != meta {
		t.Errorf("unexpected meta: %+v", doc.Meta)
	}
	if doc.Seq == 0 {
		t.Error("expected a non-zero insertion sequence")
	}
}

func TestBoltStore_ListDocsOrdered(t *testing.T) {
	st := openTestStore(t)

	// Insert with IDs whose lexicographic order differs from insertion
	// order, then confirm listing follows insertion.
	for _, id := range []string{"zebra", "apple", "mango"} {
		if err := st.PutDoc(id, "text for "+id, domain.SourceMeta{}); err != nil {
			t.Fatalf("put %s failed: %v", id, err)
		}
	}

	docs, err := st.ListDocs()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(docs))
	}
	want := []string{"zebra", "apple", "mango"}
	for i, doc := range docs {
		if doc.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], doc.ID)
		}
	}
}

func TestBoltStore_OverwriteKeepsSequence(t *testing.T) {
	st := openTestStore(t)

	st.PutDoc("a", "first", domain.SourceMeta{})
	st.PutDoc("b", "second", domain.SourceMeta{})

	before, _ := st.GetDoc("a")
	if err := st.PutDoc("a", "first, revised", domain.SourceMeta{Author: "Someone"}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	after, _ := st.GetDoc("a")

	if after.Seq != before.Seq {
		t.Errorf("overwrite changed the sequence: %d -> %d", before.Seq, after.Seq)
	}
	if after.RawText != "first, revised" {
		t.Errorf("overwrite did not take: %q", after.RawText)
	}
}

func TestBoltStore_DeleteDoc(t *testing.T) {
	st := openTestStore(t)

	st.PutDoc("gone", "text", domain.SourceMeta{})
	if err := st.DeleteDoc("gone"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.GetDoc("gone"); err == nil {
		t.Error("expected an error for a deleted document")
	}
}

func TestBoltStore_Stats(t *testing.T) {
	st := openTestStore(t)

	empty, err := st.GetStats()
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if empty.TotalDocs != 0 {
		t.Errorf("expected zero stats, got %+v", empty)
	}

	want := domain.Stats{TotalDocs: 4, TotalShingles: 120, AvgDocTokens: 33.5}
	if err := st.UpdateStats(want); err != nil {
		t.Fatalf("update stats failed: %v", err)
	}
	got, err := st.GetStats()
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if got != want {
		t.Errorf("stats round trip failed: %+v vs %+v", got, want)
	}
}
