package features

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/stat"

	apperrors "go-medscan/internal/errors"
	"go-medscan/internal/imaging"
)

// VectorLength is the fixed length of every feature vector. The layout is
// part of the classifier's input contract:
//
//	0-9   uniform LBP histogram
//	10    edge density
//	11-14 mean, std, skewness, excess kurtosis
//	15-17 largest-contour area, perimeter, circularity (normalized)
//	18+   percentile intensities, until the vector is full
const VectorLength = 20

// Hysteresis thresholds for edge detection, on the normalized gradient scale.
const (
	cannyLowThreshold  = 0.1
	cannyHighThreshold = 0.2
)

// Extraction carries the feature vector together with the intermediate
// artifacts the result synthesizer reuses, so the detail record is derived
// from the same grayscale and edge mask that produced the features.
type Extraction struct {
	Vector   []float64
	Gray     *image.Gray
	EdgeMask *image.Gray
	Contours []Contour

	MeanIntensity float64
	StdIntensity  float64
}

// Extract derives the feature vector from a grayscale or color image. It
// never panics and never returns fewer or more than VectorLength values; on
// any internal failure the zero vector is returned.
func Extract(img image.Image) []float64 {
	extraction, err := ExtractDetailed(img)
	if err != nil {
		return make([]float64, VectorLength)
	}
	return extraction.Vector
}

// ExtractDetailed is Extract with the intermediate artifacts exposed. The
// error reports why extraction degraded; when it is non-nil the returned
// extraction still carries a valid zero vector.
func ExtractDetailed(img image.Image) (*Extraction, error) {
	zero := &Extraction{Vector: make([]float64, VectorLength)}
	if img == nil {
		return zero, apperrors.NewExtractionError("nil image", nil)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 1 || height < 1 {
		return zero, apperrors.NewExtractionError("image has no pixels", nil)
	}

	gray := imaging.MinMaxStretch(imaging.ToGray(img))
	smoothed := imaging.GaussianBlur(gray, imaging.Kernel5x5)

	// Texture: 10-bin uniform LBP histogram.
	texture := lbpHistogram(smoothed)

	// Edges: density of the Canny mask.
	edges := cannyEdges(smoothed, cannyLowThreshold, cannyHighThreshold)
	edgeDensity := maskDensity(edges)

	// Intensity statistics on the normalized grayscale.
	intensities := grayValues(gray)
	mean := stat.Mean(intensities, nil)
	std := stat.PopStdDev(intensities, nil)
	skewness, kurtosis := standardizedMoments(intensities, mean, std)

	// Shape of the largest external contour.
	contours := findExternalContours(edges)
	area, perimeter, circularity := 0.0, 0.0, 0.0
	if largest := largestContour(contours); largest != nil {
		area = largest.Area()
		perimeter = largest.Perimeter()
		circularity = largest.Circularity()
	}
	pixels := float64(width * height)
	halfBorder := 2 * float64(width+height)

	// Percentile intensities.
	sort.Float64s(intensities)
	percentiles := make([]float64, 0, 4)
	for _, p := range []float64{0.25, 0.50, 0.75, 0.90} {
		percentiles = append(percentiles, stat.Quantile(p, stat.LinInterp, intensities, nil))
	}

	vector := make([]float64, 0, VectorLength+2)
	vector = append(vector, texture...)
	vector = append(vector, edgeDensity, mean, std, skewness, kurtosis)
	vector = append(vector, area/pixels, perimeter/halfBorder, circularity)
	vector = append(vector, percentiles...)
	vector = fitLength(vector, VectorLength)

	return &Extraction{
		Vector:        vector,
		Gray:          gray,
		EdgeMask:      edges,
		Contours:      contours,
		MeanIntensity: mean,
		StdIntensity:  std,
	}, nil
}

// largestContour picks the contour with maximum enclosed area; the first one
// found wins ties.
func largestContour(contours []Contour) *Contour {
	var best *Contour
	bestArea := -1.0
	for i := range contours {
		if a := contours[i].Area(); a > bestArea {
			best = &contours[i]
			bestArea = a
		}
	}
	return best
}

// fitLength zero-pads or truncates the vector to exactly n elements.
func fitLength(vector []float64, n int) []float64 {
	if len(vector) >= n {
		return vector[:n]
	}
	padded := make([]float64, n)
	copy(padded, vector)
	return padded
}

// standardizedMoments returns the third standardized moment (skewness) and
// fourth minus 3 (excess kurtosis); both are 0 when std is 0.
func standardizedMoments(values []float64, mean, std float64) (float64, float64) {
	if std == 0 || len(values) == 0 {
		return 0, 0
	}
	var m3, m4 float64
	for _, v := range values {
		z := (v - mean) / std
		z2 := z * z
		m3 += z2 * z
		m4 += z2 * z2
	}
	n := float64(len(values))
	return m3 / n, m4/n - 3
}

// maskDensity returns the fraction of nonzero pixels in the mask.
func maskDensity(mask *image.Gray) float64 {
	bounds := mask.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}
	count := 0
	for y := 0; y < bounds.Dy(); y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+bounds.Dx()]
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return float64(count) / float64(total)
}

// grayValues flattens the grayscale intensities into a float slice.
func grayValues(gray *image.Gray) []float64 {
	bounds := gray.Bounds()
	values := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			values = append(values, float64(gray.GrayAt(x, y).Y))
		}
	}
	return values
}
