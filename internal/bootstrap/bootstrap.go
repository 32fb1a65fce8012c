// Package bootstrap assembles the ingestion pipeline from configuration
// for the server and CLI entry points.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/fadilmartias/resume-ingestor/internal/config"
	"github.com/fadilmartias/resume-ingestor/internal/repository"
	"github.com/fadilmartias/resume-ingestor/internal/service"
	"github.com/fadilmartias/resume-ingestor/internal/usecase"
	"github.com/fadilmartias/resume-ingestor/internal/util"
	"go.uber.org/zap"
)

type Pipeline struct {
	Ingestion *usecase.IngestionUsecase
	close     func()
}

func (p *Pipeline) Close() {
	p.close()
}

// NewPipeline connects the store, picks the model backend and returns the
// ready ingestion usecase. concurrency overrides INGEST_CONCURRENCY when > 0.
func NewPipeline(ctx context.Context, log *zap.Logger, concurrency int) (*Pipeline, error) {
	appConfig := config.LoadAppConfig()
	ingestConfig := config.LoadIngestConfig()

	db, err := repository.ConnectDB(config.LoadDBConfig(), appConfig)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}

	generator, err := service.NewTextGenerator(ctx, ingestConfig.ModelProvider,
		config.LoadGeminiConfig(), config.LoadOpenRouterConfig(), log.Named("model"))
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	opts := usecase.OptionsFromConfig(ingestConfig)
	if concurrency > 0 {
		opts.Concurrency = concurrency
	}

	uc, err := usecase.NewIngestionUsecase(
		util.NewDocumentExtractor(log.Named("extract"), ingestConfig.PDFOCRFallback),
		service.NewProfileExtractor(generator, log.Named("extractor")),
		service.NewPromptAssetLoader(ingestConfig.TemplatePath, ingestConfig.QueryPath),
		repository.NewProfileRepository(db, ingestConfig.IdentityPath, log.Named("repository")),
		opts,
		log.Named("ingest"),
	)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Info("pipeline ready",
		zap.String("provider", ingestConfig.ModelProvider),
		zap.Int("concurrency", opts.Concurrency),
		zap.String("staging_dir", opts.StagingDir),
	)
	return &Pipeline{
		Ingestion: uc,
		close: func() {
			uc.Release()
			sqlDB.Close()
		},
	}, nil
}
