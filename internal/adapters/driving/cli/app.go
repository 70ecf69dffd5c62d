package cli

import (
	"context"
	"fmt"

	openaiembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/extractor/pdftotext"
	openaillm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/queue/sqlite"
	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorstore/qdrant"
	"github.com/custodia-labs/docqa/internal/chunker"
	"github.com/custodia-labs/docqa/internal/config"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Application services and backends. Populated by ensureServices; tests
// inject mocks directly.
var (
	appCfg        config.Config
	answerService driving.AnswerService
	ingestService driving.IngestionService
	jobQueue      driven.JobQueue
	vectorIndex   driven.VectorIndex

	appClosers []func() error
)

// serviceOptions selects which optional backends ensureServices builds.
type serviceOptions struct {
	// withQueue opens the durable job queue when the config enables it.
	withQueue bool

	// memoryIndex keeps chunks in process instead of Qdrant. Nothing
	// survives a restart; useful for trying the service out.
	memoryIndex bool
}

// ensureServices builds the adapters and core services from configuration.
// Idempotent: services injected by tests or a previous call are kept.
func ensureServices(ctx context.Context, opts serviceOptions) error {
	if answerService != nil && ingestService != nil {
		return nil
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}
	appCfg = cfg

	if err := pdftotext.CheckAvailable(); err != nil {
		return fmt.Errorf("%w\n\n%s", err, pdftotext.InstallInstructions())
	}
	extractor := pdftotext.New()

	embedder, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey: cfg.OpenAI.APIKey,
		Model:  cfg.OpenAI.EmbeddingModel,
	})
	if err != nil {
		return err
	}
	appClosers = append(appClosers, embedder.Close)

	llm, err := openaillm.NewLLMService(openaillm.Config{
		APIKey: cfg.OpenAI.APIKey,
		Model:  cfg.OpenAI.ChatModel,
	})
	if err != nil {
		return err
	}
	appClosers = append(appClosers, llm.Close)

	if opts.memoryIndex {
		vectorIndex, err = memory.NewIndex(embedder.Dimensions())
	} else {
		vectorIndex, err = qdrant.NewIndex(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Dimensions: embedder.Dimensions(),
		})
	}
	if err != nil {
		return err
	}
	appClosers = append(appClosers, vectorIndex.Close)

	if err := vectorIndex.EnsureReady(ctx); err != nil {
		return err
	}

	ch, err := chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	if err != nil {
		return err
	}

	synth := services.NewSynthesiser(llm)
	answerService = services.NewAnswerPipeline(embedder, vectorIndex, synth)
	ingestService = services.NewIngestionPipeline(extractor, ch, embedder, vectorIndex)

	if opts.withQueue && cfg.Queue.Enabled {
		queue, err := sqlite.NewQueue(cfg.Queue.DataDir)
		if err != nil {
			return err
		}
		jobQueue = queue
		appClosers = append(appClosers, queue.Close)
	}

	return nil
}

// closeServices releases backends in reverse construction order.
func closeServices() {
	for i := len(appClosers) - 1; i >= 0; i-- {
		if err := appClosers[i](); err != nil {
			logger.Warn("close: %v", err)
		}
	}
	appClosers = nil
}
