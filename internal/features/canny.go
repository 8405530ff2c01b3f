package features

import (
	"image"
	"math"

	"go-medscan/internal/imaging"
)

// cannyEdges runs Canny-style edge detection and returns a binary mask (255 =
// edge) of the same dimensions as the input. Gradient magnitudes are
// normalized by their maximum, so low and high are hysteresis thresholds on a
// [0,1] scale. Images too small to convolve yield an empty mask.
func cannyEdges(gray *image.Gray, low, high float64) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	mask := image.NewGray(bounds)
	if width < 3 || height < 3 {
		return mask
	}

	// Smooth with a sigma ~1 Gaussian before differentiating.
	smoothed := imaging.GaussianBlur(gray, imaging.Kernel5x5)

	gx := make([]float64, width*height)
	gy := make([]float64, width*height)
	mag := make([]float64, width*height)

	maxMag := 0.0
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			sx, sy := sobelAt(smoothed, bounds.Min.X+x, bounds.Min.Y+y)
			i := y*width + x
			gx[i] = sx
			gy[i] = sy
			mag[i] = math.Hypot(sx, sy)
			if mag[i] > maxMag {
				maxMag = mag[i]
			}
		}
	}
	if maxMag == 0 {
		return mask
	}
	for i := range mag {
		mag[i] /= maxMag
	}

	// Non-maximum suppression along the quantized gradient direction.
	thinned := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			if mag[i] == 0 {
				continue
			}
			dx, dy := directionOffsets(gx[i], gy[i])
			if mag[i] >= mag[(y+dy)*width+(x+dx)] && mag[i] >= mag[(y-dy)*width+(x-dx)] {
				thinned[i] = mag[i]
			}
		}
	}

	// Hysteresis: seed from strong pixels, grow through weak ones.
	const (
		unvisited = 0
		weak      = 1
		strong    = 2
	)
	state := make([]uint8, width*height)
	queue := make([]int, 0, width*height/8)
	for i, m := range thinned {
		switch {
		case m >= high:
			state[i] = strong
			queue = append(queue, i)
		case m >= low:
			state[i] = weak
		}
	}
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				ni := ny*width + nx
				if state[ni] == weak {
					state[ni] = strong
					queue = append(queue, ni)
				}
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if state[y*width+x] == strong {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}

// sobelAt computes the horizontal and vertical Sobel responses at one pixel.
func sobelAt(gray *image.Gray, x, y int) (float64, float64) {
	tl := float64(gray.GrayAt(x-1, y-1).Y)
	tc := float64(gray.GrayAt(x, y-1).Y)
	tr := float64(gray.GrayAt(x+1, y-1).Y)
	ml := float64(gray.GrayAt(x-1, y).Y)
	mr := float64(gray.GrayAt(x+1, y).Y)
	bl := float64(gray.GrayAt(x-1, y+1).Y)
	bc := float64(gray.GrayAt(x, y+1).Y)
	br := float64(gray.GrayAt(x+1, y+1).Y)

	sx := (tr + 2*mr + br) - (tl + 2*ml + bl)
	sy := (bl + 2*bc + br) - (tl + 2*tc + tr)
	return sx, sy
}

// directionOffsets quantizes the gradient direction into one of four
// neighbor-pair axes for non-maximum suppression.
func directionOffsets(gx, gy float64) (int, int) {
	angle := math.Atan2(gy, gx) * 180 / math.Pi
	if angle < 0 {
		angle += 180
	}
	switch {
	case angle < 22.5 || angle >= 157.5:
		return 1, 0
	case angle < 67.5:
		return 1, 1
	case angle < 112.5:
		return 0, 1
	default:
		return -1, 1
	}
}
