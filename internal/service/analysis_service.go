package service

import (
	"context"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"

	"go-medscan/internal/analyzer"
	apperrors "go-medscan/internal/errors"
	"go-medscan/internal/observer"
	"go-medscan/internal/repository"
	"go-medscan/pkg/models"
	"go-medscan/pkg/validation"
)

// ScanAnalysisService is the host-application surface around the analysis
// core: it fetches scans, validates them, and feeds them to the pipeline.
type ScanAnalysisService interface {
	// AnalyzeScan fetches the scan at the URL and runs the pipeline.
	AnalyzeScan(ctx context.Context, scanURL string) (*models.AnalysisResult, error)

	// AnalyzeScanBatch analyzes several scans with bounded concurrency.
	// Results are returned in input order; per-scan failures are encoded in
	// the result envelope, not as an error.
	AnalyzeScanBatch(ctx context.Context, scanURLs []string) ([]models.AnalysisResult, error)

	// Metrics returns the aggregated analysis counters.
	Metrics() map[string]interface{}
}

type scanAnalysisService struct {
	scanRepo  repository.ScanRepository
	analyzer  analyzer.ScanAnalyzer
	validator *validation.ScanValidator
	publisher observer.Subject
	metrics   *observer.MetricsObserver

	maxDimension     int
	batchConcurrency int
}

// NewScanAnalysisService wires the service. The metrics observer is created
// and subscribed here alongside a logging observer.
func NewScanAnalysisService(
	scanRepo repository.ScanRepository,
	scanAnalyzer analyzer.ScanAnalyzer,
	validator *validation.ScanValidator,
	publisher *observer.EventPublisher,
	logObserver observer.Observer,
	maxDimension int,
	batchConcurrency int,
) ScanAnalysisService {
	metrics := observer.NewMetricsObserver()
	publisher.Subscribe(logObserver)
	publisher.Subscribe(metrics)

	return &scanAnalysisService{
		scanRepo:         scanRepo,
		analyzer:         scanAnalyzer,
		validator:        validator,
		publisher:        publisher,
		metrics:          metrics,
		maxDimension:     maxDimension,
		batchConcurrency: batchConcurrency,
	}
}

func (s *scanAnalysisService) AnalyzeScan(ctx context.Context, scanURL string) (*models.AnalysisResult, error) {
	if err := s.scanRepo.ValidateScanURL(scanURL); err != nil {
		return nil, apperrors.NewValidationError("invalid scan URL", err)
	}

	s.publisher.Notify(ctx, observer.ScanEvent{
		EventType: observer.AnalysisStarted,
		Timestamp: time.Now(),
		ScanURL:   scanURL,
	})

	img, err := s.scanRepo.FetchScan(ctx, scanURL)
	if err != nil {
		s.publisher.Notify(ctx, observer.ScanEvent{
			EventType:    observer.ScanFetchFailed,
			Timestamp:    time.Now(),
			ScanURL:      scanURL,
			ErrorMessage: err.Error(),
		})
		return nil, apperrors.NewNetworkError("failed to fetch scan", err)
	}
	s.publisher.Notify(ctx, observer.ScanEvent{
		EventType: observer.ScanFetched,
		Timestamp: time.Now(),
		ScanURL:   scanURL,
		Success:   true,
	})

	report := s.validator.Validate(img)
	if !report.IsValid {
		s.publisher.Notify(ctx, observer.ScanEvent{
			EventType:    observer.AnalysisFailed,
			Timestamp:    time.Now(),
			ScanURL:      scanURL,
			ErrorMessage: "scan unsuitable for analysis",
		})
		return nil, apperrors.NewValidationError("scan unsuitable for analysis: "+report.Errors[0], nil)
	}

	result := s.analyzer.Analyze(s.downscale(img))
	result.ID = uuid.NewString()
	result.ImageURL = scanURL
	result.Warnings = append(result.Warnings, report.Warnings...)

	event := observer.ScanEvent{
		EventType:      observer.AnalysisCompleted,
		Timestamp:      time.Now(),
		ScanURL:        scanURL,
		Prediction:     result.Prediction,
		RiskLevel:      result.RiskLevel,
		ProcessingTime: time.Duration(result.ProcessingTimeSec * float64(time.Second)),
		Success:        true,
	}
	if result.Prediction == models.PredictionFailed {
		event.EventType = observer.AnalysisFailed
		event.Success = false
		event.ErrorMessage = result.Details.Error
	}
	s.publisher.Notify(ctx, event)

	return &result, nil
}

func (s *scanAnalysisService) AnalyzeScanBatch(ctx context.Context, scanURLs []string) ([]models.AnalysisResult, error) {
	if len(scanURLs) == 0 {
		return nil, apperrors.NewValidationError("no scan URLs supplied", nil)
	}

	results := make([]models.AnalysisResult, len(scanURLs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, scanURL := range scanURLs {
		i, scanURL := i, scanURL
		g.Go(func() error {
			result, err := s.AnalyzeScan(ctx, scanURL)
			if err != nil {
				// A failed scan does not abort the batch; the failure is
				// recorded in its slot.
				results[i] = models.AnalysisResult{
					ID:         uuid.NewString(),
					ImageURL:   scanURL,
					Timestamp:  time.Now(),
					Prediction: models.PredictionFailed,
					RiskLevel:  models.RiskUnknown,
					Details:    models.Details{Error: err.Error()},
				}
				return nil
			}
			results[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewInternalError("batch analysis failed", err)
	}
	return results, nil
}

func (s *scanAnalysisService) Metrics() map[string]interface{} {
	return s.metrics.Metrics()
}

// downscale caps the longest image edge at the configured dimension so very
// large scans do not dominate analysis latency. Aspect ratio is preserved.
func (s *scanAnalysisService) downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= s.maxDimension && height <= s.maxDimension {
		return img
	}
	if width >= height {
		return resize.Resize(uint(s.maxDimension), 0, img, resize.Bilinear)
	}
	return resize.Resize(0, uint(s.maxDimension), img, resize.Bilinear)
}
