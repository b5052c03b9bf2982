package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Analyzer.MaxLength != 10000 {
		t.Errorf("expected MaxLength=10000, got %d", cfg.Analyzer.MaxLength)
	}
	if cfg.Index.ShingleK != 5 {
		t.Errorf("expected ShingleK=5, got %d", cfg.Index.ShingleK)
	}
	if cfg.Scorer.SegmentThreshold != 0.3 {
		t.Errorf("expected SegmentThreshold=0.3, got %f", cfg.Scorer.SegmentThreshold)
	}
	if cfg.Scorer.CitationThreshold != 0.5 {
		t.Errorf("expected CitationThreshold=0.5, got %f", cfg.Scorer.CitationThreshold)
	}
	if cfg.Paraphrase.MaxAlternatives != 3 {
		t.Errorf("expected MaxAlternatives=3, got %d", cfg.Paraphrase.MaxAlternatives)
	}
	if cfg.Paraphrase.OracleEnabled {
		t.Error("oracle must be disabled by default")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "textguard.yaml")

	content := `
analyzer:
  max_length: 5000
  strip_emoji: false
index:
  shingle_k: 3
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Analyzer.MaxLength != 5000 {
		t.Errorf("expected MaxLength=5000, got %d", cfg.Analyzer.MaxLength)
	}
	if cfg.Analyzer.StripEmoji != false {
		t.Errorf("expected StripEmoji=false, got %v", cfg.Analyzer.StripEmoji)
	}
	if cfg.Index.ShingleK != 3 {
		t.Errorf("expected ShingleK=3, got %d", cfg.Index.ShingleK)
	}
	// Untouched sections keep their defaults.
	if cfg.Scorer.MinOverlap != 0.05 {
		t.Errorf("expected MinOverlap=0.05, got %f", cfg.Scorer.MinOverlap)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "textguard.yaml")

	content := `
server:
  addr: ":9090"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr=:9090, got %s", cfg.Server.Addr)
	}
}

func TestCorpusDBPath(t *testing.T) {
	path := CorpusDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".textguard", "corpus.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "textguard.yaml")

	cfg := DefaultConfig()
	cfg.Index.ShingleK = 7
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Index.ShingleK != 7 {
		t.Errorf("expected ShingleK=7 after round trip, got %d", loaded.Index.ShingleK)
	}
}
