package analyzer

import (
	"fmt"
	"strings"

	"go-medscan/internal/classifier"
	"go-medscan/internal/features"
	"go-medscan/pkg/models"
)

// Contours smaller than this (in pixels of enclosed area) are noise, not
// potential nodules.
const minNoduleArea = 50.0

// Intensity spread below which a scan is tagged poor quality.
const minGoodQualityStdDev = 30.0

// Confidence above which the notes call the finding high-confidence.
const highConfidenceThreshold = 0.8

// RiskLevel maps predicted class and confidence to the risk tier shown to
// clinicians. Evaluated by class first, then strict > comparisons at 0.7 and
// 0.9.
func RiskLevel(class int, confidence float64) string {
	if class == classifier.ClassNormal {
		switch {
		case confidence > 0.9:
			return models.RiskVeryLow
		case confidence > 0.7:
			return models.RiskLow
		default:
			return models.RiskUncertainNormal
		}
	}
	switch {
	case confidence > 0.9:
		return models.RiskHigh
	case confidence > 0.7:
		return models.RiskModerate
	default:
		return models.RiskUncertainCancer
	}
}

func predictionLabel(class int) string {
	if class == classifier.ClassAbnormal {
		return models.PredictionCancer
	}
	return models.PredictionNormal
}

// buildDetails derives the detail record from the extraction artifacts, so
// the echoed texture and edge fields are exactly feature positions 0 and 10
// of the same run and the nodule count comes from the same edge mask.
func buildDetails(extraction *features.Extraction, class int, confidence float64) models.Details {
	quality := "Poor"
	if extraction.StdIntensity > minGoodQualityStdDev {
		quality = "Good"
	}

	nodules := countNodules(extraction.Contours)

	return models.Details{
		ImageQuality:         quality,
		MeanIntensity:        extraction.MeanIntensity,
		IntensityVariation:   extraction.StdIntensity,
		PotentialNoduleCount: nodules,
		TextureComplexity:    extraction.Vector[0],
		EdgeDensity:          extraction.Vector[10],
		AnalysisNotes:        analysisNotes(class, confidence, nodules),
	}
}

func countNodules(contours []features.Contour) int {
	count := 0
	for _, c := range contours {
		if c.Area() > minNoduleArea {
			count++
		}
	}
	return count
}

// analysisNotes assembles the human-readable summary from fixed sentence
// templates selected by class, confidence and nodule count.
func analysisNotes(class int, confidence float64, noduleCount int) string {
	var notes []string

	if class == classifier.ClassAbnormal {
		notes = append(notes, "Suspicious patterns detected in lung tissue.")
		if confidence > highConfidenceThreshold {
			notes = append(notes, "High confidence in abnormal findings.")
		}
		if noduleCount > 3 {
			notes = append(notes, fmt.Sprintf("Multiple potential nodules identified (%d).", noduleCount))
		}
		notes = append(notes, "Recommend immediate consultation with oncologist.")
	} else {
		notes = append(notes, "No obvious signs of malignancy detected.")
		if confidence > highConfidenceThreshold {
			notes = append(notes, "High confidence in normal classification.")
		}
		if noduleCount > 0 {
			notes = append(notes, fmt.Sprintf("Some tissue variations noted (%d regions) - likely benign.", noduleCount))
		}
		notes = append(notes, "Continue regular screening as recommended.")
	}

	return strings.Join(notes, " ")
}
