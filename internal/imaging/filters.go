package imaging

import (
	"image"
	"image/color"
)

// Kernel is a separable-equivalent integer convolution kernel with its
// normalization divisor.
type Kernel struct {
	Weights [][]int
	Divisor int
}

// Kernel3x3 is the binomial 3x3 Gaussian used by the preprocessor.
var Kernel3x3 = Kernel{
	Weights: [][]int{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	},
	Divisor: 16,
}

// Kernel5x5 is the binomial 5x5 Gaussian used by the feature extractor.
var Kernel5x5 = Kernel{
	Weights: [][]int{
		{1, 4, 6, 4, 1},
		{4, 16, 24, 16, 4},
		{6, 24, 36, 24, 6},
		{4, 16, 24, 16, 4},
		{1, 4, 6, 4, 1},
	},
	Divisor: 256,
}

// GaussianBlur convolves the image with the given kernel. Borders are handled
// by clamping sample coordinates to the image rectangle, so output dimensions
// match the input. Images smaller than the kernel are returned unchanged.
func GaussianBlur(gray *image.Gray, kernel Kernel) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	size := len(kernel.Weights)
	radius := size / 2

	out := image.NewGray(bounds)
	if width < size || height < size {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				out.SetGray(x, y, gray.GrayAt(x, y))
			}
		}
		return out
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum := 0
			for ky := 0; ky < size; ky++ {
				for kx := 0; kx < size; kx++ {
					sx := clamp(x+kx-radius, bounds.Min.X, bounds.Max.X-1)
					sy := clamp(y+ky-radius, bounds.Min.Y, bounds.Max.Y-1)
					sum += kernel.Weights[ky][kx] * int(gray.GrayAt(sx, sy).Y)
				}
			}
			out.SetGray(x, y, toGrayColor(uint8((sum+kernel.Divisor/2)/kernel.Divisor)))
		}
	}
	return out
}

func toGrayColor(v uint8) color.Gray {
	return color.Gray{Y: v}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
