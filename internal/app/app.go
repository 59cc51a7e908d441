// -----------------------------------------------------------------------
// Application wiring - builds services and handlers from configuration
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/iuris/internal/common"
	"github.com/ternarybob/iuris/internal/handlers"
	"github.com/ternarybob/iuris/internal/services/answer"
	"github.com/ternarybob/iuris/internal/services/documents"
	"github.com/ternarybob/iuris/internal/services/embeddings"
	"github.com/ternarybob/iuris/internal/services/ingest"
	"github.com/ternarybob/iuris/internal/services/llm"
	"github.com/ternarybob/iuris/internal/services/pdf"
	"github.com/ternarybob/iuris/internal/services/qa"
	"github.com/ternarybob/iuris/internal/services/status"
	"golang.org/x/time/rate"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Core services
	StatusService    *status.Service
	EmbeddingService *embeddings.Service
	QAService        *qa.Service
	Orchestrator     *ingest.Orchestrator

	providerFactory *llm.ProviderFactory

	// HTTP handlers
	AskHandler       *handlers.AskHandler
	StatusHandler    *handlers.StatusHandler
	DocumentsHandler *handlers.DocumentsHandler
	APIHandler       *handlers.APIHandler
	PageHandler      *handlers.PageHandler
}

// New wires the application from configuration. It fails fast when the
// Gemini credential is missing, since neither embeddings nor the default
// generation candidate can work without it.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	if _, err := common.ResolveAPIKey("gemini_api_key", config.Gemini.APIKey); err != nil {
		return nil, fmt.Errorf("cannot start without Gemini credentials: %w", err)
	}

	providerFactory := llm.NewProviderFactory(config, logger)
	embedder := llm.NewGeminiEmbedder(providerFactory, config.Embedding, logger)

	limiter := rate.NewLimiter(rate.Every(config.Embedding.BatchIntervalDuration()), 1)
	embeddingService := embeddings.NewService(embedder, config.Embedding.BatchSize, limiter, logger)

	statusService := status.NewService()

	fetcher := documents.NewFetcher(config.Ingest.DownloadTimeoutDuration(), logger)
	extractor := pdf.NewExtractor(logger)
	chunker := documents.NewChunker(config.Ingest)

	orchestrator := ingest.NewOrchestrator(
		config.Documents,
		fetcher,
		extractor,
		chunker,
		embeddingService,
		statusService,
		logger,
	)

	generator := answer.NewGenerator(providerFactory, config.LLM, logger)
	qaService := qa.NewService(embeddingService, generator, statusService, config.Retrieval, logger)

	app := &App{
		Config:           config,
		Logger:           logger,
		StatusService:    statusService,
		EmbeddingService: embeddingService,
		QAService:        qaService,
		Orchestrator:     orchestrator,
		providerFactory:  providerFactory,
		AskHandler:       handlers.NewAskHandler(qaService, logger),
		StatusHandler:    handlers.NewStatusHandler(statusService, logger),
		DocumentsHandler: handlers.NewDocumentsHandler(statusService, logger),
		APIHandler:       handlers.NewAPIHandler(statusService, logger),
		PageHandler:      handlers.NewPageHandler(logger),
	}

	return app, nil
}

// StartIngestion runs the ingestion pipeline in the background. The HTTP
// server comes up immediately; queries get a not-ready response until the
// pipeline reaches a queryable state.
func (a *App) StartIngestion(ctx context.Context) {
	go func() {
		store, err := a.Orchestrator.Run(ctx)
		if err != nil {
			a.Logger.Error().Err(err).Msg("Ingestion pipeline failed")
			return
		}
		a.QAService.SetStore(store)
		a.Logger.Info().
			Int("chunks", store.Len()).
			Msg("Corpus ready for questions")
	}()
}

// Close releases provider clients.
func (a *App) Close() error {
	return a.providerFactory.Close()
}
