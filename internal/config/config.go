// Package config loads application configuration from a TOML file with
// environment variable overrides for secrets and deployment endpoints.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Environment variables that override file values. Secrets never belong in
// the config file.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvQdrantURL    = "QDRANT_URL"
	EnvQdrantAPIKey = "QDRANT_API_KEY"
)

// Duration decodes from a TOML string such as "5s" or "2m". go-toml does
// not decode strings into time.Duration directly.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the complete application configuration. It is constructed once
// at startup and passed to constructors; nothing reads it ambiently.
type Config struct {
	Server ServerConfig `toml:"server"`
	OpenAI OpenAIConfig `toml:"openai"`
	Qdrant QdrantConfig `toml:"qdrant"`
	Ingest IngestConfig `toml:"ingest"`
	Queue  QueueConfig  `toml:"queue"`
	Watch  WatchConfig  `toml:"watch"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default: :8000).
	Addr string `toml:"addr"`
}

// OpenAIConfig configures the embedding and chat model adapters.
type OpenAIConfig struct {
	// APIKey authenticates against the OpenAI API. Usually supplied via
	// the OPENAI_API_KEY environment variable.
	APIKey string `toml:"api_key"`

	// EmbeddingModel is the embedding model (default: text-embedding-3-small).
	EmbeddingModel string `toml:"embedding_model"`

	// ChatModel is the chat model for answer synthesis (default: gpt-4o-mini).
	ChatModel string `toml:"chat_model"`
}

// QdrantConfig configures the vector index backend.
type QdrantConfig struct {
	// URL is the Qdrant base URL (default: http://localhost:6333).
	URL string `toml:"url"`

	// APIKey authenticates requests. Optional for local deployments.
	APIKey string `toml:"api_key"`

	// Collection is the collection name (default: documents).
	Collection string `toml:"collection"`
}

// IngestConfig configures document processing.
type IngestConfig struct {
	// UploadDir is where uploaded files are staged (default: uploads).
	UploadDir string `toml:"upload_dir"`

	// ChunkSize is the maximum chunk length in characters (default: 1000).
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks (default: 200).
	ChunkOverlap int `toml:"chunk_overlap"`
}

// QueueConfig configures the durable job queue and its worker.
type QueueConfig struct {
	// Enabled turns on asynchronous ingestion. When false, uploads are
	// processed inline before the response returns.
	Enabled bool `toml:"enabled"`

	// DataDir holds the queue database (default: ~/.docqa/data).
	DataDir string `toml:"data_dir"`

	// PollInterval is how often the worker checks for jobs, as a duration
	// string such as "2s" (default: 2s).
	PollInterval Duration `toml:"poll_interval"`
}

// WatchConfig configures the optional drop-folder watcher.
type WatchConfig struct {
	// Dir is the directory to watch for new PDFs. Empty disables watching.
	Dir string `toml:"dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8000"},
		OpenAI: OpenAIConfig{
			EmbeddingModel: "text-embedding-3-small",
			ChatModel:      "gpt-4o-mini",
		},
		Qdrant: QdrantConfig{
			URL:        "http://localhost:6333",
			Collection: "documents",
		},
		Ingest: IngestConfig{
			UploadDir:    "uploads",
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Queue: QueueConfig{
			Enabled:      true,
			PollInterval: Duration(2 * time.Second),
		},
	}
}

// Load reads the TOML file at path over the defaults and applies
// environment overrides. A missing file is not an error; environment
// variables and defaults carry a file-less deployment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides.
		case err != nil:
			return cfg, fmt.Errorf("%w: reading %s: %v", domain.ErrConfiguration, path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfiguration, path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvOpenAIAPIKey); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv(EnvQdrantURL); v != "" {
		cfg.Qdrant.URL = v
	}
	if v := os.Getenv(EnvQdrantAPIKey); v != "" {
		cfg.Qdrant.APIKey = v
	}
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures deep in the pipeline.
func (c Config) Validate() error {
	if c.Ingest.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk_size must be at least 1, got %d", domain.ErrConfiguration, c.Ingest.ChunkSize)
	}
	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap %d must be in [0, %d)",
			domain.ErrConfiguration, c.Ingest.ChunkOverlap, c.Ingest.ChunkSize)
	}
	if c.Qdrant.Collection == "" {
		return fmt.Errorf("%w: qdrant collection must not be empty", domain.ErrConfiguration)
	}
	return nil
}
