package features

import (
	"image"
	"math"
)

// Contour is the outer boundary of one connected region of the edge mask,
// traced clockwise.
type Contour struct {
	Points []image.Point
}

// Area returns the enclosed polygon area (shoelace formula).
func (c Contour) Area() float64 {
	n := len(c.Points)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		p := c.Points[i]
		q := c.Points[(i+1)%n]
		sum += float64(p.X*q.Y - q.X*p.Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the closed arc length of the boundary.
func (c Contour) Perimeter() float64 {
	n := len(c.Points)
	if n < 2 {
		return 0
	}
	length := 0.0
	for i := 0; i < n; i++ {
		p := c.Points[i]
		q := c.Points[(i+1)%n]
		length += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return length
}

// Circularity returns 4*pi*area / (perimeter^2 + epsilon); 1.0 is a perfect
// circle.
func (c Contour) Circularity() float64 {
	p := c.Perimeter()
	return 4 * math.Pi * c.Area() / (p*p + 1e-6)
}

// moore neighborhood in clockwise order starting east.
var mooreOffsets = [8]image.Point{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

// findExternalContours labels the 8-connected components of the binary mask
// (nonzero = foreground) and traces the outer boundary of each. Components
// are discovered in row-major order, which fixes the tie-break when two
// contours enclose equal areas.
func findExternalContours(mask *image.Gray) []Contour {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	at := func(x, y int) bool {
		if x < 0 || y < 0 || x >= width || y >= height {
			return false
		}
		return mask.Pix[y*mask.Stride+x] != 0
	}

	visited := make([]bool, width*height)
	var contours []Contour

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !at(x, y) || visited[y*width+x] {
				continue
			}
			contour := traceBoundary(at, image.Point{X: x, Y: y}, width, height)
			contours = append(contours, contour)
			markComponent(at, visited, x, y, width, height)
		}
	}
	return contours
}

// traceBoundary walks the outer boundary clockwise using Moore-neighbor
// tracing from the topmost-leftmost pixel of a component.
func traceBoundary(at func(int, int) bool, start image.Point, width, height int) Contour {
	points := []image.Point{start}

	// The start pixel is topmost-leftmost, so the boundary continues somewhere
	// clockwise from west.
	current := start
	dir := 4 // index of west in mooreOffsets

	// A component of n pixels has a boundary no longer than 4n; the cap
	// guards against pathological masks.
	limit := 4 * width * height
	for step := 0; step < limit; step++ {
		found := false
		// Start scanning one step clockwise from the direction we came from.
		for i := 1; i <= 8; i++ {
			d := (dir + i) % 8
			next := current.Add(mooreOffsets[d])
			if at(next.X, next.Y) {
				current = next
				// Re-enter the scan from the offset pointing back toward the
				// previous pixel.
				dir = (d + 4) % 8
				found = true
				break
			}
		}
		if !found {
			// Isolated pixel.
			break
		}
		if current == start {
			break
		}
		points = append(points, current)
	}
	return Contour{Points: points}
}

// markComponent flood-fills one 8-connected component into the visited set.
func markComponent(at func(int, int) bool, visited []bool, x, y, width, height int) {
	stack := []image.Point{{X: x, Y: y}}
	visited[y*width+x] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, off := range mooreOffsets {
			nx, ny := p.X+off.X, p.Y+off.Y
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if at(nx, ny) && !visited[ny*width+nx] {
				visited[ny*width+nx] = true
				stack = append(stack, image.Point{X: nx, Y: ny})
			}
		}
	}
}
