package validation

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/stat"

	"go-medscan/pkg/models"
)

// ScanThresholds defines configurable thresholds for scan suitability checks
type ScanThresholds struct {
	// Resolution limits
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int

	// Intensity heuristics on the grayscale image
	MinContrast   float64
	MinBrightness float64
	MaxBrightness float64
}

// DefaultScanThresholds returns the default suitability thresholds
func DefaultScanThresholds() ScanThresholds {
	return ScanThresholds{
		MinWidth:      100,
		MinHeight:     100,
		MaxWidth:      4000,
		MaxHeight:     4000,
		MinContrast:   20.0,
		MinBrightness: 30.0,
		MaxBrightness: 225.0,
	}
}

// ScanValidator checks whether an uploaded image is suitable for analysis.
// Failures here are advisory for the host application; the analysis core
// itself accepts any image.
type ScanValidator struct {
	thresholds ScanThresholds
}

// NewScanValidator creates a scan validator with default thresholds
func NewScanValidator() *ScanValidator {
	return &ScanValidator{thresholds: DefaultScanThresholds()}
}

// NewScanValidatorWithThresholds creates a scan validator with custom thresholds
func NewScanValidatorWithThresholds(thresholds ScanThresholds) *ScanValidator {
	return &ScanValidator{thresholds: thresholds}
}

// Validate runs all suitability checks and collects errors and warnings.
func (sv *ScanValidator) Validate(img image.Image) models.ValidationReport {
	report := models.ValidationReport{IsValid: true}
	if img == nil {
		report.IsValid = false
		report.Errors = append(report.Errors, "no image supplied")
		return report
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width < sv.thresholds.MinWidth || height < sv.thresholds.MinHeight {
		report.IsValid = false
		report.Errors = append(report.Errors, fmt.Sprintf(
			"image resolution too low (minimum %dx%d pixels)",
			sv.thresholds.MinWidth, sv.thresholds.MinHeight))
		return report
	}
	if width > sv.thresholds.MaxWidth || height > sv.thresholds.MaxHeight {
		report.Warnings = append(report.Warnings,
			"very high resolution image - processing may be slow")
	}

	mean, std := sv.intensityStats(img)
	if std < sv.thresholds.MinContrast {
		report.Warnings = append(report.Warnings,
			"low contrast image - results may be less reliable")
	}
	if mean < sv.thresholds.MinBrightness {
		report.Warnings = append(report.Warnings,
			"very dark image - may affect analysis accuracy")
	} else if mean > sv.thresholds.MaxBrightness {
		report.Warnings = append(report.Warnings,
			"very bright image - may affect analysis accuracy")
	}

	return report
}

// intensityStats computes mean and population standard deviation of the
// grayscale intensities.
func (sv *ScanValidator) intensityStats(img image.Image) (float64, float64) {
	bounds := img.Bounds()
	values := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Luma weights on 16-bit channel values, scaled back to 0-255.
			luma := (299*float64(r) + 587*float64(g) + 114*float64(b)) / 1000 / 257
			values = append(values, luma)
		}
	}
	if len(values) == 0 {
		return 0, 0
	}
	return stat.Mean(values, nil), stat.PopStdDev(values, nil)
}
