package loaders

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// objCorner identifies a face corner by its position and texture coordinate indices
type objCorner struct {
	position int
	texCoord int // -1 when the corner has none
}

// LoadOBJ loads a Wavefront OBJ file
func LoadOBJ(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open OBJ file")
	}
	defer file.Close()

	return ParseOBJ(file)
}

// ParseOBJ reads positions, texture coordinates and faces from OBJ text.
// Polygons are fanned into triangles. Corners that share a position but
// not a texture coordinate become separate vertices.
func ParseOBJ(r io.Reader) (*MeshData, error) {
	var positions []core.Vec3
	var texCoords []core.Vec2
	mesh := &MeshData{}
	corners := make(map[objCorner]int)

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			values, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNumber)
			}
			positions = append(positions, core.NewVec3(values[0], values[1], values[2]))
		case "vt":
			values, err := parseFloats(parts[1:], 1)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNumber)
			}
			values = append(values, 0)
			texCoords = append(texCoords, core.NewVec2(values[0], values[1]))
		case "f":
			if len(parts) < 4 {
				return nil, errors.Errorf("line %d: face needs at least 3 corners", lineNumber)
			}
			polygon := make([]int, 0, len(parts)-1)
			for _, token := range parts[1:] {
				corner, err := parseOBJCorner(token, len(positions), len(texCoords))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNumber)
				}
				index, ok := corners[corner]
				if !ok {
					index = len(mesh.Vertices)
					corners[corner] = index
					mesh.Vertices = append(mesh.Vertices, positions[corner.position])
					var uv core.Vec2
					if corner.texCoord >= 0 {
						uv = texCoords[corner.texCoord]
					}
					mesh.TexCoords = append(mesh.TexCoords, uv)
				}
				polygon = append(polygon, index)
			}
			mesh.fan(polygon)
		}
		// Normals, groups, materials and smoothing are not used
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read OBJ data")
	}

	if len(texCoords) == 0 {
		mesh.TexCoords = nil
	}
	return mesh, nil
}

// parseOBJCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based indices
func parseOBJCorner(token string, positionCount, texCoordCount int) (objCorner, error) {
	fields := strings.Split(token, "/")

	position, err := resolveOBJIndex(fields[0], positionCount)
	if err != nil {
		return objCorner{}, errors.Wrapf(err, "vertex index in %q", token)
	}

	corner := objCorner{position: position, texCoord: -1}
	if len(fields) > 1 && fields[1] != "" {
		corner.texCoord, err = resolveOBJIndex(fields[1], texCoordCount)
		if err != nil {
			return objCorner{}, errors.Wrapf(err, "texture index in %q", token)
		}
	}
	return corner, nil
}

// resolveOBJIndex converts a one-based or negative (relative) index
func resolveOBJIndex(field string, count int) (int, error) {
	index, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	switch {
	case index > 0:
		index--
	case index < 0:
		index += count
	default:
		return 0, errors.New("index 0 is not valid")
	}
	if index < 0 || index >= count {
		return 0, errors.Errorf("index %s out of range for %d entries", field, count)
	}
	return index, nil
}

// parseFloats parses every field, requiring at least minCount of them
func parseFloats(fields []string, minCount int) ([]float32, error) {
	if len(fields) < minCount {
		return nil, errors.Errorf("expected %d values, got %d", minCount, len(fields))
	}
	values := make([]float32, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number %q", field)
		}
		values[i] = float32(value)
	}
	return values, nil
}
