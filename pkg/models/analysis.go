package models

import "time"

// Prediction labels rendered to callers. Downstream layers are expected to
// treat PredictionFailed distinctly from either real outcome.
const (
	PredictionNormal = "Normal"
	PredictionCancer = "Cancer Detected"
	PredictionFailed = "Analysis Failed"
)

// Risk tiers derived from predicted class and confidence.
const (
	RiskVeryLow         = "Very Low Risk"
	RiskLow             = "Low Risk"
	RiskUncertainNormal = "Uncertain - Recommend Further Testing"
	RiskHigh            = "High Risk - Immediate Consultation Required"
	RiskModerate        = "Moderate Risk - Further Testing Recommended"
	RiskUncertainCancer = "Uncertain - Additional Imaging Required"
	RiskUnknown         = "Unknown"
)

// AnalysisResult is the complete outcome of a scan analysis. It is produced
// once per call and handed to the caller; the pipeline keeps no copy.
type AnalysisResult struct {
	ID                string    `json:"id,omitempty"`
	ImageURL          string    `json:"image_url,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	Prediction        string    `json:"prediction"`
	Confidence        float64   `json:"confidence"`
	RiskLevel         string    `json:"risk_level"`
	Details           Details   `json:"detailed_results"`
	ProcessingTimeSec float64   `json:"processing_time_sec"`

	// Degradations that occurred while producing the result (preprocessing
	// skipped, features zeroed). The result is still valid.
	Warnings []string `json:"warnings,omitempty"`
}

// Details carries the per-scan analysis record persisted and displayed by the
// host application.
type Details struct {
	ImageQuality         string  `json:"image_quality,omitempty"`
	MeanIntensity        float64 `json:"mean_intensity"`
	IntensityVariation   float64 `json:"intensity_variation"`
	PotentialNoduleCount int     `json:"potential_nodules_count"`
	TextureComplexity    float64 `json:"texture_complexity"`
	EdgeDensity          float64 `json:"edge_density"`
	AnalysisNotes        string  `json:"analysis_notes,omitempty"`
	Error                string  `json:"error,omitempty"`
}

// ValidationReport is the outcome of pre-analysis suitability checks.
type ValidationReport struct {
	IsValid  bool     `json:"is_valid"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}
