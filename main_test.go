package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneName   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"mirror scene", "mirror", false},
		{"mesh scene", "mesh", false},
		{"empty scene", "empty", false},

		// Scene files by name and by path
		{"scene file by name", "csg-spheres", false},
		{"scene file with extension", "carved-cube.json", false},
		{"scene file by path", filepath.Join("scenes", "csg-spheres.json"), false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"missing scene file", filepath.Join("scenes", "nonexistent.json"), true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneName, "scenes", core.NopLogger{})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene %q, got nil", tt.sceneName)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene %q: %v", tt.sceneName, err)
			}
			if s.Width <= 0 || s.Height <= 0 {
				t.Errorf("Scene %q has invalid size %dx%d", tt.sceneName, s.Width, s.Height)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name                   string
		width, height, depth   int
		expectError            bool
		expectW, expectH, expD int
	}{
		{"no overrides", 0, 0, 0, false, 512, 512, 4},
		{"size only", 64, 32, 0, false, 64, 32, 4},
		{"depth only", 0, 0, 2, false, 512, 512, 2},
		{"negative width", -1, 0, 0, true, 0, 0, 0},
		{"negative depth", 0, 0, -3, true, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewDefaultScene()
			err := applyOverrides(s, tt.width, tt.height, tt.depth)

			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if s.Width != tt.expectW || s.Height != tt.expectH || s.MaxDepth != tt.expD {
				t.Errorf("Expected %dx%d depth %d, got %dx%d depth %d",
					tt.expectW, tt.expectH, tt.expD, s.Width, s.Height, s.MaxDepth)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		name      string
		output    string
		sceneName string
		expected  string
	}{
		{"explicit output", "out.png", "default", "out.png"},
		{"built-in scene", "", "default", filepath.Join("output", "default", "render_20240305_140709.png")},
		{"scene file path", "", filepath.Join("scenes", "carved-cube.json"), filepath.Join("output", "carved-cube", "render_20240305_140709.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.sceneName, now); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestListScenes(t *testing.T) {
	var buf bytes.Buffer
	if err := listScenes(&buf, "scenes"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Built-in Scenes:", "default", "mirror", "Scene Files:", "CSG Spheres", "Carved Cube"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected listing to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRun_WritesPNG(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "render.png")

	got, err := run(options{
		SceneName: "default",
		ScenesDir: "scenes",
		Output:    filename,
		Width:     24,
		Height:    16,
		Depth:     1,
		Workers:   2,
		TileSize:  8,
	}, core.NopLogger{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != filename {
		t.Errorf("Expected %s, got %s", filename, got)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 16 {
		t.Errorf("Expected 24x16, got %dx%d", b.Dx(), b.Dy())
	}
}
