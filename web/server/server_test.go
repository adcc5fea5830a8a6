package server

import (
	"bufio"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-csg-raytracer/pkg/scene"
)

const sphereSceneJSON = `{
  "name": "Test Sphere",
  "description": "One sphere straight ahead",
  "width": 9,
  "height": 9,
  "depth": 1,
  "start": [0, 0, 0],
  "view_rotation": [0, 0, 0],
  "objects": [
    {"shape": {"type": "sphere"}, "position": [0, 0, 4], "color": [1, 0, 0], "specular": 10}
  ],
  "lights": [
    {"type": "point", "position": [0, 0, 0], "intensity": 0.8},
    {"type": "ambient", "intensity": 0.2}
  ]
}`

const lensSceneJSON = `{
  "width": 9,
  "height": 9,
  "start": [0, 0, 0],
  "view_rotation": [0, 0, 0],
  "objects": [
    {
      "shape": {
        "type": "intersection",
        "shape1": {"shape": {"type": "sphere"}},
        "shape2": {"shape": {"type": "cube"}}
      },
      "position": [0, 0, 4]
    }
  ],
  "lights": [{"type": "ambient", "intensity": 1}]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"test-sphere.json": sphereSceneJSON,
		"lens.json":        lensSceneJSON,
		"broken.json":      `{"objects": [`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return NewServer(0, dir)
}

func get(t *testing.T, s *Server, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("Expected status ok, got %s", response.Status)
	}
	if response.LogicalCPUs < 1 {
		t.Errorf("Expected at least one CPU, got %d", response.LogicalCPUs)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response scene.ScenesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and file groups, got %d groups", len(response.Groups))
	}

	files := response.Groups[1].Scenes
	if len(files) != 2 {
		t.Fatalf("Expected 2 valid scene files, got %d", len(files))
	}
	// Sorted by name: "Lens" before "Test Sphere"
	if files[0].ID != "lens" || files[1].Name != "Test Sphere" {
		t.Errorf("Unexpected scene files %+v", files)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name         string
		scene        string
		expectedCode int
		expectedW    int
		objects      int
	}{
		{"built-in scene", "default", http.StatusOK, 512, 3},
		{"scene file", "test-sphere", http.StatusOK, 9, 1},
		{"unknown scene", "nonexistent", http.StatusNotFound, 0, 0},
		{"path outside scenes directory", "../test-sphere", http.StatusNotFound, 0, 0},
		{"missing scene", "", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/scene-config", url.Values{"scene": {tt.scene}})
			if rec.Code != tt.expectedCode {
				t.Fatalf("Expected %d, got %d: %s", tt.expectedCode, rec.Code, rec.Body.String())
			}
			if tt.expectedCode != http.StatusOK {
				return
			}

			var config SceneConfig
			if err := json.Unmarshal(rec.Body.Bytes(), &config); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if config.Width != tt.expectedW || config.Objects != tt.objects {
				t.Errorf("Expected width %d with %d objects, got %+v", tt.expectedW, tt.objects, config)
			}
		})
	}
}

func TestHandleImage(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name         string
		query        url.Values
		expectedCode int
	}{
		{"valid request", url.Values{"scene": {"default"}, "width": {"16"}, "height": {"12"}}, http.StatusOK},
		{"width too small", url.Values{"width": {"0"}}, http.StatusBadRequest},
		{"width not a number", url.Values{"width": {"abc"}}, http.StatusBadRequest},
		{"depth too large", url.Values{"depth": {"100"}}, http.StatusBadRequest},
		{"unknown scene", url.Values{"scene": {"nonexistent"}}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/image", tt.query)
			if rec.Code != tt.expectedCode {
				t.Fatalf("Expected %d, got %d: %s", tt.expectedCode, rec.Code, rec.Body.String())
			}
			if tt.expectedCode != http.StatusOK {
				return
			}

			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Expected image/png, got %s", ct)
			}
			img, err := png.Decode(rec.Body)
			if err != nil {
				t.Fatalf("Invalid PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
				t.Errorf("Expected 16x12, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

// readSSEEvents splits an SSE body into (event, data) pairs
func readSSEEvents(t *testing.T, body string) [][2]string {
	t.Helper()
	var events [][2]string
	var event string
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			events = append(events, [2]string{event, strings.TrimPrefix(line, "data: ")})
		}
	}
	return events
}

func TestHandleRender_Stream(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render", url.Values{"scene": {"test-sphere"}, "workers": {"2"}})
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", ct)
	}

	events := readSSEEvents(t, rec.Body.String())
	if len(events) < 2 {
		t.Fatalf("Expected console events and a completion, got %v", events)
	}

	last := events[len(events)-1]
	if last[0] != "complete" {
		t.Fatalf("Expected the last event to be complete, got %s: %s", last[0], last[1])
	}
	for _, e := range events[:len(events)-1] {
		if e[0] != "console" {
			t.Errorf("Expected console event before completion, got %s", e[0])
		}
	}

	var result RenderResult
	if err := json.Unmarshal([]byte(last[1]), &result); err != nil {
		t.Fatalf("Invalid completion JSON: %v", err)
	}
	if result.Width != 9 || result.Height != 9 {
		t.Errorf("Expected 9x9, got %dx%d", result.Width, result.Height)
	}
	if result.ImageData == "" {
		t.Error("Expected image data")
	}
	if result.Stats.TotalPixels != 81 || result.Stats.HitPixels == 0 {
		t.Errorf("Unexpected stats %+v", result.Stats)
	}
}

func TestHandleRender_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query url.Values
	}{
		{"invalid width", url.Values{"width": {"-5"}}},
		{"unknown scene", url.Values{"scene": {"nonexistent"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := readSSEEvents(t, get(t, s, "/api/render", tt.query).Body.String())
			if len(events) == 0 || events[len(events)-1][0] != "error" {
				t.Errorf("Expected a final error event, got %v", events)
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name         string
		query        url.Values
		expectedCode int
		hit          bool
		geometryType string
		distance     float32
	}{
		{"sphere at centre", url.Values{"scene": {"test-sphere"}}, http.StatusOK, true, "sphere", 3.5},
		{"sphere corner misses", url.Values{"scene": {"test-sphere"}, "x": {"0"}, "y": {"0"}}, http.StatusOK, false, "", 0},
		{"csg intersection", url.Values{"scene": {"lens"}, "x": {"4"}, "y": {"4"}}, http.StatusOK, true, "intersection", 3.5},
		{"empty scene", url.Values{"scene": {"empty"}}, http.StatusOK, false, "", 0},
		{"pixel outside image", url.Values{"scene": {"test-sphere"}, "x": {"9"}}, http.StatusBadRequest, false, "", 0},
		{"unknown scene", url.Values{"scene": {"nonexistent"}}, http.StatusNotFound, false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/inspect", tt.query)
			if rec.Code != tt.expectedCode {
				t.Fatalf("Expected %d, got %d: %s", tt.expectedCode, rec.Code, rec.Body.String())
			}
			if tt.expectedCode != http.StatusOK {
				return
			}

			var response InspectResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if response.Hit != tt.hit {
				t.Fatalf("Expected hit=%v, got %v", tt.hit, response.Hit)
			}
			if !tt.hit {
				return
			}
			if response.GeometryType != tt.geometryType {
				t.Errorf("Expected %s, got %s", tt.geometryType, response.GeometryType)
			}
			if d := response.Distance - tt.distance; d > 1e-3 || d < -1e-3 {
				t.Errorf("Expected distance %f, got %f", tt.distance, response.Distance)
			}
			if response.ObjectIndex != 0 {
				t.Errorf("Expected object 0, got %d", response.ObjectIndex)
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expected    int
		expectError bool
	}{
		{"absent uses default", "", 7, false},
		{"in range", "5", 5, false},
		{"lower bound", "1", 1, false},
		{"upper bound", "10", 10, false},
		{"below range", "0", 0, true},
		{"above range", "11", 0, true},
		{"not a number", "ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.value != "" {
				values.Set("n", tt.value)
			}

			got, err := parseIntParam(values, "n", 7, 1, 10)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %q", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}
