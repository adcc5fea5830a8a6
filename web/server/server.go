package server

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"strconv"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/scene"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Request limits
const (
	maxImageSize = 2048
	maxDepth     = 16
	maxWorkers   = 64
	staticDir    = "static"
)

// errUnknownScene marks scene names that are neither built-in nor discovered
var errUnknownScene = errors.New("unknown scene")

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	echo      *echo.Echo
}

// NewServer creates a new web server serving scenes from scenesDir
func NewServer(port int, scenesDir string) *Server {
	s := &Server{port: port, scenesDir: scenesDir}
	s.echo = s.routes()
	return s
}

// RenderRequest represents a render request from the client. Zero sizes
// keep the scene's own values.
type RenderRequest struct {
	Scene    string `json:"scene"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Depth    int    `json:"depth"`
	TileSize int    `json:"tileSize"`
	Workers  int    `json:"workers"`
}

// HealthResponse reports server status and host capacity
type HealthResponse struct {
	Status            string  `json:"status"`
	CPUModel          string  `json:"cpuModel,omitempty"`
	LogicalCPUs       int     `json:"logicalCpus"`
	MemoryTotal       uint64  `json:"memoryTotal,omitempty"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent,omitempty"`
}

// SceneConfig describes a scene's default render settings
type SceneConfig struct {
	Scene      string `json:"scene"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Depth      int    `json:"depth"`
	Objects    int    `json:"objects"`
	Lights     int    `json:"lights"`
	Primitives int    `json:"primitives"`
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${method} ${uri} ${status} ${latency_human}\n",
	}))

	// API endpoints
	api := e.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/scenes", s.handleScenes)
	api.GET("/scene-config", s.handleSceneConfig)
	api.GET("/render", s.handleRender)
	api.GET("/image", s.handleImage)
	api.GET("/inspect", s.handleInspect)

	// Serve static files
	if stat, err := os.Stat(staticDir); err == nil && stat.IsDir() {
		e.Static("/", staticDir)
	}
	return e
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return s.echo.Start(addr)
}

// handleHealth reports liveness along with the host's CPU and memory
func (s *Server) handleHealth(c echo.Context) error {
	response := HealthResponse{Status: "ok", LogicalCPUs: runtime.NumCPU()}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		response.CPUModel = infos[0].ModelName
	}
	if count, err := cpu.Counts(true); err == nil && count > 0 {
		response.LogicalCPUs = count
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		response.MemoryTotal = vm.Total
		response.MemoryUsedPercent = vm.UsedPercent
	}

	return c.JSON(http.StatusOK, response)
}

// handleScenes lists built-in and discovered scenes
func (s *Server) handleScenes(c echo.Context) error {
	response, err := scene.ListAllScenes(s.scenesDir, webLog{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(c echo.Context) error {
	name := c.QueryParam("scene")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "scene parameter is required")
	}

	sc, err := s.loadScene(name, webLog{})
	if err != nil {
		return sceneError(err)
	}

	return c.JSON(http.StatusOK, SceneConfig{
		Scene:      name,
		Width:      sc.Width,
		Height:     sc.Height,
		Depth:      sc.MaxDepth,
		Objects:    len(sc.Objects),
		Lights:     len(sc.Lights),
		Primitives: sc.GetPrimitiveCount(),
	})
}

// parseRenderRequest parses and validates the render query parameters
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 0, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", 0, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(values, "tileSize", 32, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", 0, 0, maxWorkers); err != nil {
		return nil, err
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// loadScene loads a scene by ID. Only built-in scenes and files discovered in
// the scenes directory are served, never arbitrary paths.
func (s *Server) loadScene(name string, logger core.Logger) (*scene.Scene, error) {
	response, err := scene.ListAllScenes(s.scenesDir, logger)
	if err != nil {
		return nil, err
	}

	all := lo.FlatMap(response.Groups, func(g scene.SceneGroup, _ int) []scene.SceneInfo {
		return g.Scenes
	})
	info, ok := lo.Find(all, func(i scene.SceneInfo) bool { return i.ID == name })
	if !ok {
		return nil, errors.Wrap(errUnknownScene, name)
	}

	target := info.ID
	if info.Type == scene.SceneTypeJSON {
		target = info.FilePath
	}
	return scene.Load(target, s.scenesDir, logger)
}

// applyRequest overrides the scene's size and depth with the requested values
func applyRequest(sc *scene.Scene, req *RenderRequest) {
	if req.Width > 0 {
		sc.Width = req.Width
	}
	if req.Height > 0 {
		sc.Height = req.Height
	}
	if req.Depth > 0 {
		sc.MaxDepth = req.Depth
	}
}

// sceneError maps scene loading failures to HTTP errors
func sceneError(err error) error {
	if errors.Is(err, errUnknownScene) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
}

// webLog routes scene discovery warnings to the server log
type webLog struct{}

func (webLog) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}
