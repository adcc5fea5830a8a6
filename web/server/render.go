package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/renderer"
	"github.com/labstack/echo/v4"
)

// RenderResult is the final SSE event of a render
type RenderResult struct {
	Scene     string `json:"scene"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	HitPixels      int     `json:"hitPixels"`
	HitRatio       float64 `json:"hitRatio"`
	PrimaryRays    int     `json:"primaryRays"`
	ShadowRays     int     `json:"shadowRays"`
	ReflectionRays int     `json:"reflectionRays"`
	Luminance      float64 `json:"averageLuminance"`
}

type renderOutcome struct {
	img   *image.RGBA
	stats renderer.RenderStats
	err   error
}

// handleRender renders a scene and streams console output via SSE, finishing
// with a "complete" event carrying the image or an "error" event
func (s *Server) handleRender(c echo.Context) error {
	w := c.Response()
	s.setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	req, err := s.parseRenderRequest(c.QueryParams())
	if err != nil {
		return s.sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
	}

	consoleChan, logger := s.setupConsoleLogging()
	done := make(chan renderOutcome, 1)
	startTime := time.Now()

	go func() {
		img, stats, err := s.render(ctx, req, logger)
		done <- renderOutcome{img: img, stats: stats, err: err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			if err := s.sendConsole(w, msg); err != nil {
				return nil
			}

		case outcome := <-done:
			// Flush whatever the render logged before it finished
			for len(consoleChan) > 0 {
				if err := s.sendConsole(w, <-consoleChan); err != nil {
					return nil
				}
			}
			if outcome.err != nil {
				return s.sendSSEEvent(w, "error", outcome.err.Error())
			}

			result, err := s.renderResult(req.Scene, outcome.img, outcome.stats, time.Since(startTime))
			if err != nil {
				return s.sendSSEEvent(w, "error", err.Error())
			}
			data, err := json.Marshal(result)
			if err != nil {
				return s.sendSSEEvent(w, "error", err.Error())
			}
			return s.sendSSEEvent(w, "complete", string(data))

		case <-ctx.Done():
			// Client disconnected, the render stops on the same context
			return nil
		}
	}
}

// handleImage renders a scene and returns it as a PNG
func (s *Server) handleImage(c echo.Context) error {
	req, err := s.parseRenderRequest(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	img, stats, err := s.render(c.Request().Context(), req, webLog{})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set("X-Render-Duration-Ms", fmt.Sprint(stats.Duration.Milliseconds()))
	c.Response().Header().Set("X-Render-Rays", fmt.Sprint(stats.TotalRays()))
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// render loads the requested scene, applies overrides and renders it
func (s *Server) render(ctx context.Context, req *RenderRequest, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	sc, err := s.loadScene(req.Scene, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, sceneError(err)
	}
	applyRequest(sc, req)

	config := renderer.RenderConfig{TileSize: req.TileSize, NumWorkers: req.Workers}
	return renderer.NewRenderer(sc, config, logger).Render(ctx)
}

func (s *Server) renderResult(sceneName string, img *image.RGBA, stats renderer.RenderStats, elapsed time.Duration) (RenderResult, error) {
	imageData, err := s.imageToBase64PNG(img)
	if err != nil {
		return RenderResult{}, err
	}

	return RenderResult{
		Scene:     sceneName,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		ImageData: imageData,
		Stats: Stats{
			TotalPixels:    stats.TotalPixels,
			HitPixels:      stats.HitPixels,
			HitRatio:       stats.HitRatio(),
			PrimaryRays:    stats.PrimaryRays,
			ShadowRays:     stats.ShadowRays,
			ReflectionRays: stats.ReflectionRays,
			Luminance:      renderer.CalculateAverageLuminance(img),
		},
		ElapsedMs: elapsed.Milliseconds(),
	}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

func (s *Server) sendConsole(w http.ResponseWriter, msg ConsoleMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "console", string(data))
}

// sendSSEEvent writes one SSE event and flushes it to the client
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
