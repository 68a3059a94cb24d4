package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Embedder implementations selectable via configuration.
const (
	EmbedderOllama = "ollama"
	EmbedderGemini = "gemini"
)

type Config struct {
	// Collection layout
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// HTTP server
	Port   string `yaml:"port"`
	APIKey string `yaml:"api_key"`

	// Embedding model (stage 1)
	Embedder     string `yaml:"embedder"`
	OllamaURL    string `yaml:"ollama_url"`
	OllamaModel  string `yaml:"ollama_model"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	// Pair scoring model (stage 2); empty URL disables re-ranking.
	RerankerURL   string `yaml:"reranker_url"`
	RerankerModel string `yaml:"reranker_model"`

	// Segmentation
	HeaderSizeRatio float64 `yaml:"header_size_ratio"`
	MinChunkLength  int     `yaml:"min_chunk_length"`

	// Ranking
	TopKCandidates int `yaml:"top_k_candidates"`
	TopSections    int `yaml:"top_sections"`
	TopSubSections int `yaml:"top_sub_sections"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// Load builds the configuration from environment variables with defaults.
func Load() Config {
	return Config{
		InputDir:  envOr("INPUT_DIR", "input"),
		OutputDir: envOr("OUTPUT_DIR", "output"),

		Port:   envOr("PORT", "8091"),
		APIKey: os.Getenv("SECTIONRANK_API_KEY"),

		Embedder:     envOr("EMBEDDER", EmbedderOllama),
		OllamaURL:    envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:  envOr("OLLAMA_MODEL", "nomic-embed-text"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "text-embedding-004"),

		RerankerURL:   os.Getenv("RERANKER_URL"),
		RerankerModel: envOr("RERANKER_MODEL", "ms-marco-minilm"),

		HeaderSizeRatio: envFloat("HEADER_SIZE_RATIO", 1.15),
		MinChunkLength:  envInt("MIN_CHUNK_LENGTH", 5),

		TopKCandidates: envInt("TOP_K_CANDIDATES", 75),
		TopSections:    envInt("TOP_SECTIONS", 10),
		TopSubSections: envInt("TOP_SUB_SECTIONS", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
	}
}

// LoadFile loads environment configuration and overlays values from a YAML
// file; keys absent from the file keep their environment values.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Embedder {
	case EmbedderOllama:
	case EmbedderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini embedder")
		}
	default:
		return fmt.Errorf("unknown embedder %q", c.Embedder)
	}
	if c.HeaderSizeRatio <= 0 {
		return fmt.Errorf("header size ratio must be positive")
	}
	if c.TopKCandidates <= 0 {
		return fmt.Errorf("top-k candidate cap must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
