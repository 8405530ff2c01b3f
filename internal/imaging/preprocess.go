package imaging

import (
	"image"
	"image/draw"

	apperrors "go-medscan/internal/errors"
)

// Preprocess normalizes a decoded scan into the canonical grayscale form the
// feature extractor expects: luma grayscale, histogram equalization, 3x3
// Gaussian smoothing, then a linear min-max stretch back to the full 0-255
// range. Spatial dimensions are preserved.
//
// On failure the caller is expected to continue with the original image; this
// stage degrades, it never aborts the pipeline.
func Preprocess(img image.Image) (*image.Gray, error) {
	if img == nil {
		return nil, apperrors.NewPreprocessingError("nil image", nil)
	}
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, apperrors.NewPreprocessingError("image has no pixels", nil)
	}

	gray := ToGray(img)
	equalized := EqualizeHist(gray)
	smoothed := GaussianBlur(equalized, Kernel3x3)
	return MinMaxStretch(smoothed), nil
}

// ToGray converts any image to 8-bit grayscale using the standard luma
// transform. Channel images are interpreted as RGB.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// EqualizeHist applies full-range histogram equalization using the cumulative
// intensity distribution.
func EqualizeHist(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	total := bounds.Dx() * bounds.Dy()
	out := image.NewGray(bounds)
	if total == 0 {
		return out
	}

	var hist [256]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	// Map through the CDF, anchored at the first occupied bin so the darkest
	// present intensity maps to 0.
	var cdf [256]int
	running := 0
	for i := 0; i < 256; i++ {
		running += hist[i]
		cdf[i] = running
	}
	cdfMin := 0
	for i := 0; i < 256; i++ {
		if hist[i] > 0 {
			cdfMin = cdf[i]
			break
		}
	}

	var lut [256]uint8
	denom := total - cdfMin
	for i := 0; i < 256; i++ {
		if denom <= 0 {
			lut[i] = uint8(i)
			continue
		}
		v := (cdf[i] - cdfMin) * 255 / denom
		if v < 0 {
			v = 0
		}
		lut[i] = uint8(v)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetGray(x, y, toGrayColor(lut[gray.GrayAt(x, y).Y]))
		}
	}
	return out
}

// MinMaxStretch linearly rescales intensities to fill [0,255]. A constant
// image is returned unchanged.
func MinMaxStretch(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)

	minV, maxV := uint8(255), uint8(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := gray.GrayAt(x, y).Y
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	if maxV <= minV {
		draw.Draw(out, bounds, gray, bounds.Min, draw.Src)
		return out
	}

	scale := 255.0 / float64(maxV-minV)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := float64(gray.GrayAt(x, y).Y-minV) * scale
			out.SetGray(x, y, toGrayColor(uint8(v+0.5)))
		}
	}
	return out
}
