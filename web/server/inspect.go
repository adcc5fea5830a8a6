package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	"github.com/df07/go-csg-raytracer/pkg/material"
	"github.com/df07/go-csg-raytracer/pkg/renderer"
	"github.com/labstack/echo/v4"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ObjectIndex  int                    `json:"objectIndex"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float32             `json:"point"`
	Normal       [3]float32             `json:"normal"`
	Distance     float32                `json:"distance"`
	ExitDistance float32                `json:"exitDistance"`
	Material     map[string]interface{} `json:"material,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// handleInspect reports the object seen through pixel (x, y) of a scene
func (s *Server) handleInspect(c echo.Context) error {
	values := c.QueryParams()
	req, err := s.parseRenderRequest(values)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sc, err := s.loadScene(req.Scene, webLog{})
	if err != nil {
		return sceneError(err)
	}
	applyRequest(sc, req)

	x, err := parseIntParam(values, "x", sc.Width/2, 0, sc.Width-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	y, err := parseIntParam(values, "y", sc.Height/2, 0, sc.Height-1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rt := renderer.NewRaytracer(sc)
	ray, hit, object, ok := rt.HitPixel(x, y)
	if !ok {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false, ObjectIndex: -1})
	}

	index := -1
	for i, o := range sc.Objects {
		if o == object {
			index = i
			break
		}
	}

	geometryType, properties := s.extractGeometryInfo(object.Shape)
	properties["position"] = toArray(object.Position)
	properties["size"] = toArray(object.Size)
	properties["rotation"] = toArray(object.RotationAngles)

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		ObjectIndex:  index,
		GeometryType: geometryType,
		Point:        toArray(ray.At(hit.Distance)),
		Normal:       toArray(hit.Normal),
		Distance:     hit.Distance,
		ExitDistance: hit.MaxDistance,
		Material:     s.extractMaterialInfo(object.Material),
		Properties:   properties,
	})
}

// extractMaterialInfo describes a material for the inspector
func (s *Server) extractMaterialInfo(mat material.Material) map[string]interface{} {
	c := mat.Color.Clamp(0, 1)
	return map[string]interface{}{
		"color":      fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255)),
		"albedo":     toArray(mat.Color),
		"specular":   mat.Specular,
		"reflection": mat.Reflection,
		"reflective": mat.IsReflective(),
	}
}

// extractGeometryInfo extracts detailed geometry information, descending
// into CSG operands
func (s *Server) extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["radius"] = 0.5
		return "sphere", properties

	case *geometry.Cube:
		properties["min"] = toArray(geom.Min)
		properties["max"] = toArray(geom.Max)
		return "cube", properties

	case *geometry.Plane:
		properties["point"] = toArray(geom.Point)
		properties["edge1"] = toArray(geom.Edge1)
		properties["edge2"] = toArray(geom.Edge2)
		properties["normal"] = toArray(geom.Normal())
		return "plane", properties

	case *geometry.Mesh:
		properties["triangleCount"] = geom.TriangleCount()
		properties["model"] = geom.ModelPath
		if geom.TexturePath != "" {
			properties["texture"] = geom.TexturePath
		}
		return "mesh", properties

	case *geometry.Intersection:
		properties["shape1"] = s.operandInfo(geom.A)
		properties["shape2"] = s.operandInfo(geom.B)
		return "intersection", properties

	case *geometry.Difference:
		properties["shape1"] = s.operandInfo(geom.A)
		properties["shape2"] = s.operandInfo(geom.B)
		return "difference", properties

	case geometry.NoneShape:
		return "none", properties

	default:
		return "unknown", properties
	}
}

func (s *Server) operandInfo(o *geometry.Object) map[string]interface{} {
	geometryType, properties := s.extractGeometryInfo(o.Shape)
	return map[string]interface{}{
		"type":       geometryType,
		"position":   toArray(o.Position),
		"size":       toArray(o.Size),
		"rotation":   toArray(o.RotationAngles),
		"properties": properties,
	}
}

func toArray(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
