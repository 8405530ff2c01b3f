// Package analyzer orchestrates the scan pipeline: preprocess, extract
// features, score, synthesize the result. Its public boundary never panics;
// failure is encoded in the returned result's prediction field.
package analyzer

import (
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"go-medscan/internal/classifier"
	"go-medscan/internal/features"
	"go-medscan/internal/imaging"
	"go-medscan/internal/logger"
	"go-medscan/pkg/models"
)

// ScanAnalyzer runs the classification pipeline on a decoded image.
type ScanAnalyzer interface {
	Analyze(img image.Image) models.AnalysisResult
}

type pipeline struct {
	model *classifier.Model
}

// NewScanAnalyzer builds the pipeline around an already-trained model. The
// model is shared read-only; one analyzer serves concurrent callers.
func NewScanAnalyzer(model *classifier.Model) (ScanAnalyzer, error) {
	if model == nil {
		return nil, fmt.Errorf("nil classifier model")
	}
	if model.Features() != features.VectorLength {
		return nil, fmt.Errorf("model expects %d features, extractor produces %d",
			model.Features(), features.VectorLength)
	}
	return &pipeline{model: model}, nil
}

// Analyze runs the full pipeline. Preprocessing and extraction failures
// degrade (original image, zero vector); classification failures and empty
// input produce the "Analysis Failed" envelope.
func (p *pipeline) Analyze(img image.Image) (result models.AnalysisResult) {
	start := time.Now()

	// The public contract guarantees a structurally valid result even if a
	// stage panics on pathological input.
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Scan analysis panicked")
			result = failureResult(fmt.Errorf("analysis panic: %v", r), start)
		}
	}()

	if img == nil {
		return failureResult(fmt.Errorf("no image supplied"), start)
	}
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return failureResult(fmt.Errorf("empty image: %dx%d", bounds.Dx(), bounds.Dy()), start)
	}

	var warnings []string

	working := img
	if pre, err := imaging.Preprocess(img); err != nil {
		logger.WithError(err).Warn("Preprocessing failed, continuing with original image")
		warnings = append(warnings, "preprocessing failed; analysis ran on the unmodified image")
	} else {
		working = pre
	}

	extraction, err := features.ExtractDetailed(working)
	if err != nil {
		logger.WithError(err).Warn("Feature extraction degraded to zero vector")
		warnings = append(warnings, "feature extraction failed; scored a zero feature vector")
	}

	class, confidence, err := p.model.Predict(extraction.Vector)
	if err != nil {
		logger.WithError(err).Error("Classification failed")
		return failureResult(err, start)
	}

	result = models.AnalysisResult{
		Timestamp:         start,
		Prediction:        predictionLabel(class),
		Confidence:        confidence,
		RiskLevel:         RiskLevel(class, confidence),
		Details:           buildDetails(extraction, class, confidence),
		ProcessingTimeSec: time.Since(start).Seconds(),
		Warnings:          warnings,
	}

	logger.WithFields(logrus.Fields{
		"prediction":          result.Prediction,
		"confidence":          result.Confidence,
		"risk_level":          result.RiskLevel,
		"processing_time_sec": result.ProcessingTimeSec,
	}).Debug("Scan analysis completed")

	return result
}

// failureResult is the well-formed envelope for whole-pipeline failures.
func failureResult(err error, start time.Time) models.AnalysisResult {
	return models.AnalysisResult{
		Timestamp:         start,
		Prediction:        models.PredictionFailed,
		Confidence:        0,
		RiskLevel:         models.RiskUnknown,
		Details:           models.Details{Error: err.Error()},
		ProcessingTimeSec: time.Since(start).Seconds(),
	}
}
