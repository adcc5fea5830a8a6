package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/scene"
	"github.com/pkg/errors"
)

// RenderConfig controls how a frame is split across workers
type RenderConfig struct {
	TileSize   int // Edge length of the square tiles in pixels
	NumWorkers int // 0 uses one worker per logical CPU
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:   32,
		NumWorkers: 0,
	}
}

// Renderer draws an initialised scene into an RGBA image
type Renderer struct {
	scene  *scene.Scene
	config RenderConfig
	logger core.Logger
}

// NewRenderer creates a renderer. The scene must already be initialised.
func NewRenderer(s *scene.Scene, config RenderConfig, logger core.Logger) *Renderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultRenderConfig().TileSize
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{scene: s, config: config, logger: logger}
}

// Render traces every pixel of the scene. Cancelling ctx stops the render
// between tiles and returns the context's error.
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	if r.scene == nil {
		return nil, RenderStats{}, errors.New("renderer has no scene")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, r.scene.Width, r.scene.Height))
	tiles := NewTileGrid(r.scene.Width, r.scene.Height, r.config.TileSize)

	pool := NewWorkerPool(r.scene, r.config.NumWorkers, len(tiles))
	r.logger.Printf("Rendering %dx%d in %d tiles using %d workers...\n",
		r.scene.Width, r.scene.Height, len(tiles), pool.GetNumWorkers())

	pool.Start()
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Ctx: ctx, Tile: tile, TaskID: i, Image: img})
	}

	var stats RenderStats
	var renderErr error
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			renderErr = errors.New("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil && renderErr == nil {
			renderErr = result.Error
		}
		stats.Add(result.Stats)
	}
	pool.Stop()

	stats.Duration = time.Since(start)
	if renderErr != nil {
		return nil, stats, errors.Wrap(renderErr, "render aborted")
	}

	r.logger.Printf("Render complete in %v: %d rays, %.1f%% of pixels hit\n",
		stats.Duration, stats.TotalRays(), 100*stats.HitRatio())
	return img, stats, nil
}
