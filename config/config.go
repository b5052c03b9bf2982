package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the TextGuard tool.
type Config struct {
	Analyzer   AnalyzerConfig   `yaml:"analyzer"`
	Index      IndexConfig      `yaml:"index"`
	Scorer     ScorerConfig     `yaml:"scorer"`
	Paraphrase ParaphraseConfig `yaml:"paraphrase"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AnalyzerConfig holds tokenizer and normalizer configuration.
type AnalyzerConfig struct {
	MaxLength        int    `yaml:"max_length"`
	ForbiddenSymbols string `yaml:"forbidden_symbols"`
	StripEmoji       bool   `yaml:"strip_emoji"`
}

// IndexConfig holds fingerprint index configuration.
type IndexConfig struct {
	ShingleK       int `yaml:"shingle_k"`
	Stride         int `yaml:"stride"`
	CandidateLimit int `yaml:"candidate_limit"`
}

// ScorerConfig holds similarity scoring configuration.
type ScorerConfig struct {
	MinOverlap        float64 `yaml:"min_overlap"`
	SegmentThreshold  float64 `yaml:"segment_threshold"`
	CitationThreshold float64 `yaml:"citation_threshold"`
	WindowTokens      int     `yaml:"window_tokens"`
}

// ParaphraseConfig holds paraphrasing configuration.
type ParaphraseConfig struct {
	OracleEnabled   bool    `yaml:"oracle_enabled"`
	OracleURL       string  `yaml:"oracle_url"`
	Model           string  `yaml:"model"`
	APIKeyEnv       string  `yaml:"api_key_env"` // Environment variable for API key
	TimeoutMs       int     `yaml:"timeout_ms"`
	MaxAlternatives int     `yaml:"max_alternatives"`
	Strength        string  `yaml:"strength"` // "loose" or "strict"
	RateLimitRPS    float64 `yaml:"rate_limit_rps"`
}

// CorpusConfig holds corpus ingestion configuration.
type CorpusConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	AdminTokenEnv string `yaml:"admin_token_env"` // Environment variable for the admin token
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			MaxLength:        10000,
			ForbiddenSymbols: `_-':;/\|"`,
			StripEmoji:       true,
		},
		Index: IndexConfig{
			ShingleK:       5,
			Stride:         1,
			CandidateLimit: 10,
		},
		Scorer: ScorerConfig{
			MinOverlap:        0.05,
			SegmentThreshold:  0.3,
			CitationThreshold: 0.5,
			WindowTokens:      16,
		},
		Paraphrase: ParaphraseConfig{
			OracleEnabled:   false, // Disabled by default (requires API key)
			OracleURL:       "https://ai.gateway.lovable.dev/v1",
			Model:           "google/gemini-2.5-flash",
			APIKeyEnv:       "TEXTGUARD_ORACLE_KEY",
			TimeoutMs:       15000,
			MaxAlternatives: 3,
			Strength:        "strict",
			RateLimitRPS:    1,
		},
		Corpus: CorpusConfig{
			Includes: []string{"**/*.txt", "**/*.md", "**/*.html", "**/*.htm", "**/*.pdf"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/.textguard/**"},
		},
		Server: ServerConfig{
			Addr:          ":8080",
			AdminTokenEnv: "TEXTGUARD_ADMIN_TOKEN",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for textguard.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try textguard.yaml in the directory
	path := filepath.Join(dir, "textguard.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .textguard/config.yaml
	path = filepath.Join(dir, ".textguard", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CorpusDBPath returns the path to the corpus database.
func CorpusDBPath(dir string) string {
	return filepath.Join(dir, ".textguard", "corpus.db")
}

// EnsureDataDir ensures the .textguard directory exists.
func EnsureDataDir(dir string) error {
	dataDir := filepath.Join(dir, ".textguard")
	return os.MkdirAll(dataDir, 0755)
}
