package loaders

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writeTestImage(t *testing.T, filename string, encode func(io.Writer, image.Image) error) {
	t.Helper()

	// Create a simple 2x2 test image
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}) // Top-left: white
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})     // Top-right: red
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})     // Bottom-left: green
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})     // Bottom-right: blue

	f, err := os.Create(filename)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
}

// TestLoadImage creates test images and verifies loading
func TestLoadImage(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		encode func(io.Writer, image.Image) error
	}{
		{"png", "test.png", png.Encode},
		{"bmp", "test.bmp", bmp.Encode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(t.TempDir(), tt.file)
			writeTestImage(t, testFile, tt.encode)

			img, err := LoadImage(testFile)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}

			b := img.Bounds()
			if b.Dx() != 2 || b.Dy() != 2 {
				t.Fatalf("Expected 2x2 image, got %dx%d", b.Dx(), b.Dy())
			}

			expected := []struct {
				x, y    int
				r, g, b uint32
			}{
				{0, 0, 0xffff, 0xffff, 0xffff},
				{1, 0, 0xffff, 0, 0},
				{0, 1, 0, 0xffff, 0},
				{1, 1, 0, 0, 0xffff},
			}
			for _, want := range expected {
				r, g, bl, _ := img.At(b.Min.X+want.x, b.Min.Y+want.y).RGBA()
				if r != want.r || g != want.g || bl != want.b {
					t.Errorf("Pixel (%d, %d): expected (%d, %d, %d), got (%d, %d, %d)",
						want.x, want.y, want.r, want.g, want.b, r, g, bl)
				}
			}
		})
	}
}

// TestLoadImageNotFound verifies error handling for missing files
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}
