package features

import (
	"image"
	"math/bits"
)

// lbpBins is the number of histogram bins for the uniform 8-neighbor pattern:
// codes 0..8 for uniform patterns (the set-bit count) and 9 for everything
// with more than two circular transitions.
const lbpBins = 10

// neighbor offsets at radius 1, in circular order.
var lbpOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// lbpHistogram computes the normalized histogram of rotation-invariant uniform
// local binary pattern codes over the interior pixels of the image. The
// histogram sums to count/(count+epsilon); an image with no interior pixels
// yields all zeros.
func lbpHistogram(gray *image.Gray) []float64 {
	hist := make([]float64, lbpBins)
	bounds := gray.Bounds()

	total := 0.0
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			code := lbpCode(gray, x, y)
			if code < lbpBins {
				hist[code]++
			}
			total++
		}
	}

	denom := total + 1e-6
	for i := range hist {
		hist[i] /= denom
	}
	return hist
}

// lbpCode returns the uniform LBP code for one pixel: the number of neighbors
// at or above the center when the circular pattern has at most two 0/1
// transitions, and 9 otherwise.
func lbpCode(gray *image.Gray, x, y int) int {
	center := gray.GrayAt(x, y).Y

	var pattern uint8
	for i, off := range lbpOffsets {
		if gray.GrayAt(x+off[0], y+off[1]).Y >= center {
			pattern |= 1 << uint(i)
		}
	}

	if circularTransitions(pattern) > 2 {
		return lbpBins - 1
	}
	return bits.OnesCount8(pattern)
}

// circularTransitions counts 0/1 changes around the 8-bit pattern, including
// the wraparound between bit 7 and bit 0.
func circularTransitions(pattern uint8) int {
	rotated := pattern>>1 | pattern<<7
	return bits.OnesCount8(pattern ^ rotated)
}
