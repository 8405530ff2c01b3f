package container

import (
	"fmt"
	"net/http"

	"go-medscan/internal/analyzer"
	"go-medscan/internal/classifier"
	"go-medscan/internal/config"
	"go-medscan/internal/logger"
	"go-medscan/internal/observer"
	"go-medscan/internal/repository"
	"go-medscan/internal/service"
	"go-medscan/internal/storage"
	"go-medscan/internal/transport"
	"go-medscan/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config       *config.Config
	model        *classifier.Model
	scanAnalyzer analyzer.ScanAnalyzer
	scanRepo     repository.ScanRepository
	scanService  service.ScanAnalysisService
	handler      http.Handler
}

// NewContainer builds the dependency graph: the classifier model is trained
// exactly once here and handed read-only to the pipeline, so every request
// handler shares the same immutable model.
func NewContainer(cfg *config.Config) (*Container, error) {
	trainingCfg := classifier.DefaultTrainingConfig()
	trainingCfg.Seed = cfg.TrainingSeed
	trainingCfg.Samples = cfg.TrainingSamples
	trainingCfg.Trees = cfg.ForestTrees

	model, err := classifier.Train(trainingCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}
	logger.WithField("holdout_accuracy", model.HoldoutAccuracy()).Info("Classifier model trained")

	scanAnalyzer, err := analyzer.NewScanAnalyzer(model)
	if err != nil {
		return nil, err
	}

	httpFetcher := storage.NewHTTPImageFetcher()
	var blobFetcher storage.ImageFetcher
	if cfg.AzureEnabled() {
		blobStorage, err := storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to configure blob storage: %w", err)
		}
		blobFetcher = storage.NewBlobImageFetcher(blobStorage)
	}

	scanRepo := repository.NewScanRepository(httpFetcher, blobFetcher)
	scanService := service.NewScanAnalysisService(
		scanRepo,
		scanAnalyzer,
		validation.NewScanValidator(),
		observer.NewEventPublisher(),
		observer.NewLoggingObserver(logger.Logger),
		cfg.MaxAnalysisDimension,
		cfg.BatchConcurrency,
	)
	handler := transport.NewHandler(scanService, cfg)

	return &Container{
		config:       cfg,
		model:        model,
		scanAnalyzer: scanAnalyzer,
		scanRepo:     scanRepo,
		scanService:  scanService,
		handler:      handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Model returns the trained classifier model
func (c *Container) Model() *classifier.Model {
	return c.model
}
