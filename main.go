package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/renderer"
	"github.com/df07/go-csg-raytracer/pkg/scene"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

// options holds the parsed command line
type options struct {
	SceneName string
	ScenesDir string
	Output    string
	Width     int
	Height    int
	Depth     int
	Workers   int
	TileSize  int
}

func main() {
	// Parse command line flags
	sceneName := flag.String("scene", "default", "Built-in scene name, scene file name, or path to a .json scene")
	scenesDir := flag.String("scenes", "scenes", "Directory searched for .json scene files")
	output := flag.String("out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	width := flag.Int("width", 0, "Override the scene's image width")
	height := flag.Int("height", 0, "Override the scene's image height")
	depth := flag.Int("depth", 0, "Override the scene's reflection depth")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = one per CPU)")
	tileSize := flag.Int("tile", renderer.DefaultRenderConfig().TileSize, "Tile size in pixels")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("CSG Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		if err := listScenes(os.Stdout, *scenesDir); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
		}
		return
	}

	if *list {
		if err := listScenes(os.Stdout, *scenesDir); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := options{
		SceneName: *sceneName,
		ScenesDir: *scenesDir,
		Output:    *output,
		Width:     *width,
		Height:    *height,
		Depth:     *depth,
		Workers:   *workers,
		TileSize:  *tileSize,
	}

	fmt.Println("Starting CSG Raytracer...")
	filename, err := run(opts, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// run loads, renders and saves one scene and returns the written file name
func run(opts options, logger core.Logger) (string, error) {
	s, err := createScene(opts.SceneName, opts.ScenesDir, logger)
	if err != nil {
		return "", err
	}
	if err := applyOverrides(s, opts.Width, opts.Height, opts.Depth); err != nil {
		return "", err
	}

	config := renderer.RenderConfig{TileSize: opts.TileSize, NumWorkers: opts.Workers}
	img, stats, err := renderer.NewRenderer(s, config, logger).Render(context.Background())
	if err != nil {
		return "", err
	}
	logger.Printf("Rays: %d primary, %d shadow, %d reflection\n",
		stats.PrimaryRays, stats.ShadowRays, stats.ReflectionRays)

	filename := outputPath(opts.Output, opts.SceneName, time.Now())
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}
	if err := gg.SavePNG(filename, img); err != nil {
		return "", errors.Wrap(err, "saving PNG")
	}
	return filename, nil
}

// createScene resolves a scene name to an initialised scene
func createScene(sceneName, scenesDir string, logger core.Logger) (*scene.Scene, error) {
	if sceneName == "" {
		return nil, errors.New("no scene given")
	}
	return scene.Load(sceneName, scenesDir, logger)
}

// applyOverrides replaces the scene's size and depth with any positive value given
func applyOverrides(s *scene.Scene, width, height, depth int) error {
	if width < 0 || height < 0 || depth < 0 {
		return errors.Errorf("overrides must not be negative: width %d, height %d, depth %d", width, height, depth)
	}
	if width > 0 {
		s.Width = width
	}
	if height > 0 {
		s.Height = height
	}
	if depth > 0 {
		s.MaxDepth = depth
	}
	return nil
}

// outputPath returns the explicit output path, or a timestamped file under
// output/<scene>/
func outputPath(output, sceneName string, now time.Time) string {
	if output != "" {
		return output
	}
	name := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", timestamp))
}

// listScenes prints every built-in and discovered scene
func listScenes(w io.Writer, scenesDir string) error {
	response, err := scene.ListAllScenes(scenesDir, nil)
	if err != nil {
		return err
	}

	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Fprintf(w, "  %-16s %s - %s\n", info.ID, info.Name, info.Description)
			} else {
				fmt.Fprintf(w, "  %-16s %s\n", info.ID, info.Name)
			}
		}
	}
	return nil
}
