package bootstrap

import (
	"context"
	"fmt"

	"github.com/nyayalens/nyayalens/internal/config"
	"github.com/nyayalens/nyayalens/internal/core/knowledge"
	"github.com/nyayalens/nyayalens/internal/core/ports"
	"github.com/nyayalens/nyayalens/internal/core/usecase"
	"github.com/nyayalens/nyayalens/internal/infrastructure/extractor/doctext"
	"github.com/nyayalens/nyayalens/internal/infrastructure/llm/gemini"
	"github.com/nyayalens/nyayalens/internal/infrastructure/queue/nats"
	"github.com/nyayalens/nyayalens/internal/infrastructure/repository/postgres"
	"github.com/nyayalens/nyayalens/internal/infrastructure/resilience"
	"github.com/nyayalens/nyayalens/internal/infrastructure/storage/localfs"
	"github.com/nyayalens/nyayalens/internal/observability/metrics"
)

const serviceName = "nyayalens-api"

type App struct {
	Config   config.Config
	Pipeline *metrics.Pipeline

	Analyzer  ports.DocumentAnalyzer
	Chat      ports.ChatService
	Artifacts ports.ArtifactReader

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewArtifactRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	publisher, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init event publisher: %w", err)
	}

	pipeline := metrics.NewPipeline(serviceName)
	executor := resilience.NewExecutor(resilience.DefaultConfig())

	model, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, executor, pipeline)
	if err != nil {
		publisher.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	corpus := knowledge.Load(cfg.PenalCodePath, cfg.ConstitutionPath)
	extractor := doctext.NewExtractor(model)

	analyzeUC := usecase.NewAnalyzeDocumentUseCase(extractor, model, storage, repo, publisher, corpus, pipeline)
	chatUC := usecase.NewChatUseCase(model, pipeline)

	return &App{
		Config:   cfg,
		Pipeline: pipeline,

		Analyzer:  analyzeUC,
		Chat:      chatUC,
		Artifacts: repo,

		closeFn: func() {
			publisher.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
