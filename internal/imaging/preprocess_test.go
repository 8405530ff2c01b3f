package imaging

import (
	"image"
	"image/color"
	"testing"
)

func createUniformGray(width, height int, value uint8) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray.SetGray(x, y, color.Gray{Y: value})
		}
	}
	return gray
}

func createUniformRGBA(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreprocess_PreservesDimensions(t *testing.T) {
	img := createUniformRGBA(120, 80, color.RGBA{100, 150, 200, 255})

	out, err := Preprocess(img)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Bounds().Dx() != 120 || out.Bounds().Dy() != 80 {
		t.Errorf("Expected 120x80 output, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestPreprocess_EmptyImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 0, 0))

	if _, err := Preprocess(img); err == nil {
		t.Error("Expected error for empty image")
	}
}

func TestPreprocess_NilImage(t *testing.T) {
	if _, err := Preprocess(nil); err == nil {
		t.Error("Expected error for nil image")
	}
}

func TestToGray_RGBConversion(t *testing.T) {
	// Pure green should convert to the luma weight of the green channel.
	img := createUniformRGBA(10, 10, color.RGBA{0, 255, 0, 255})

	gray := ToGray(img)

	v := gray.GrayAt(5, 5).Y
	if v < 140 || v > 160 {
		t.Errorf("Expected green luma around 150, got %d", v)
	}
}

func TestEqualizeHist_ConstantImage(t *testing.T) {
	gray := createUniformGray(50, 50, 128)

	out := EqualizeHist(gray)

	if out.GrayAt(25, 25).Y != 128 {
		t.Errorf("Expected constant image unchanged, got %d", out.GrayAt(25, 25).Y)
	}
}

func TestEqualizeHist_SpreadsContrast(t *testing.T) {
	// Two intensity levels close together should spread toward the extremes.
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x < 5 {
				gray.SetGray(x, y, color.Gray{Y: 100})
			} else {
				gray.SetGray(x, y, color.Gray{Y: 110})
			}
		}
	}

	out := EqualizeHist(gray)

	lo, hi := out.GrayAt(0, 0).Y, out.GrayAt(9, 0).Y
	if lo != 0 {
		t.Errorf("Expected darkest level mapped to 0, got %d", lo)
	}
	if hi != 255 {
		t.Errorf("Expected brightest level mapped to 255, got %d", hi)
	}
}

func TestMinMaxStretch_FillsRange(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x < 5 {
				gray.SetGray(x, y, color.Gray{Y: 100})
			} else {
				gray.SetGray(x, y, color.Gray{Y: 150})
			}
		}
	}

	out := MinMaxStretch(gray)

	if out.GrayAt(0, 0).Y != 0 {
		t.Errorf("Expected minimum stretched to 0, got %d", out.GrayAt(0, 0).Y)
	}
	if out.GrayAt(9, 0).Y != 255 {
		t.Errorf("Expected maximum stretched to 255, got %d", out.GrayAt(9, 0).Y)
	}
}

func TestMinMaxStretch_ConstantImage(t *testing.T) {
	gray := createUniformGray(10, 10, 77)

	out := MinMaxStretch(gray)

	if out.GrayAt(5, 5).Y != 77 {
		t.Errorf("Expected constant image unchanged, got %d", out.GrayAt(5, 5).Y)
	}
}

func TestGaussianBlur_SmoothsEdges(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				gray.SetGray(x, y, color.Gray{Y: 0})
			} else {
				gray.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	out := GaussianBlur(gray, Kernel3x3)

	// Pixels at the boundary should be pulled toward the middle.
	v := out.GrayAt(10, 10).Y
	if v == 0 || v == 255 {
		t.Errorf("Expected boundary pixel smoothed, got %d", v)
	}
	// Pixels far from the boundary should be untouched.
	if out.GrayAt(2, 10).Y != 0 {
		t.Errorf("Expected interior pixel unchanged, got %d", out.GrayAt(2, 10).Y)
	}
}

func TestGaussianBlur_TinyImage(t *testing.T) {
	gray := createUniformGray(2, 2, 50)

	out := GaussianBlur(gray, Kernel5x5)

	if out.GrayAt(1, 1).Y != 50 {
		t.Errorf("Expected tiny image returned unchanged, got %d", out.GrayAt(1, 1).Y)
	}
}
