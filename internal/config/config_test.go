package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.ChatModel)
	assert.Equal(t, "http://localhost:6333", cfg.Qdrant.URL)
	assert.Equal(t, "documents", cfg.Qdrant.Collection)
	assert.Equal(t, "uploads", cfg.Ingest.UploadDir)
	assert.Equal(t, 1000, cfg.Ingest.ChunkSize)
	assert.Equal(t, 200, cfg.Ingest.ChunkOverlap)
	assert.True(t, cfg.Queue.Enabled)
	assert.Equal(t, Duration(2*time.Second), cfg.Queue.PollInterval)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"

[openai]
chat_model = "gpt-4o"

[ingest]
chunk_size = 500
chunk_overlap = 50

[queue]
enabled = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.ChatModel)
	assert.Equal(t, 500, cfg.Ingest.ChunkSize)
	assert.Equal(t, 50, cfg.Ingest.ChunkOverlap)
	assert.False(t, cfg.Queue.Enabled)

	// Untouched sections keep their defaults.
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, "documents", cfg.Qdrant.Collection)
}

func TestLoad_PollIntervalFromString(t *testing.T) {
	path := writeConfig(t, `
[queue]
poll_interval = "5s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Duration(5*time.Second), cfg.Queue.PollInterval)
}

func TestLoad_PollIntervalRejectsGarbage(t *testing.T) {
	path := writeConfig(t, `
[queue]
poll_interval = "soon"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[openai]
api_key = "from-file"

[qdrant]
url = "http://file-host:6333"
`)

	t.Setenv(EnvOpenAIAPIKey, "from-env")
	t.Setenv(EnvQdrantURL, "http://env-host:6333")
	t.Setenv(EnvQdrantAPIKey, "qdrant-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OpenAI.APIKey)
	assert.Equal(t, "http://env-host:6333", cfg.Qdrant.URL)
	assert.Equal(t, "qdrant-secret", cfg.Qdrant.APIKey)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "not [valid toml")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "zero chunk size",
			mutate: func(c *Config) { c.Ingest.ChunkSize = 0 },
		},
		{
			name:   "overlap equals size",
			mutate: func(c *Config) { c.Ingest.ChunkOverlap = c.Ingest.ChunkSize },
		},
		{
			name:   "negative overlap",
			mutate: func(c *Config) { c.Ingest.ChunkOverlap = -1 },
		},
		{
			name:   "empty collection",
			mutate: func(c *Config) { c.Qdrant.Collection = "" },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
