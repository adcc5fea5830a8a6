package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/pkg/errors"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is an element declaration with its properties, in file order
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
}

// LoadPLY loads a PLY file
func LoadPLY(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PLY file")
	}
	defer file.Close()

	return ParsePLY(file)
}

// ParsePLY reads vertex positions, optional texture coordinates and faces.
// Polygonal faces are fanned into triangles.
func ParsePLY(r io.Reader) (*MeshData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse PLY header")
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &plyASCIIReader{scanner: scanner}
	case "binary_little_endian":
		values = &plyBinaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, errors.Errorf("unsupported PLY format: %s", header.Format)
	}

	mesh := &MeshData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readPLYVertices(values, element, mesh)
		case "face":
			err = readPLYFaces(values, element, mesh)
		default:
			err = skipPLYElement(values, element)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read PLY %s data", element.Name)
		}
	}

	return mesh, nil
}

// parsePLYHeader consumes the header through end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, errors.Wrap(err, "header is not terminated by end_header")
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		if first {
			if parts[0] != "ply" {
				return nil, errors.New("missing ply magic number")
			}
			first = false
			continue
		}

		switch parts[0] {
		case "end_header":
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, errors.Errorf("invalid format line: %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "element":
			if len(parts) < 3 {
				return nil, errors.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, errors.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, errors.New("property declared before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			element := &header.Elements[len(header.Elements)-1]
			element.Properties = append(element.Properties, prop)
		}
		// comment and obj_info lines are ignored
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, errors.New("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, errors.New("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

func readPLYVertices(values plyValueReader, element PLYElement, mesh *MeshData) error {
	position := [3]int{-1, -1, -1}
	texCoord := [2]int{-1, -1}
	for i, prop := range element.Properties {
		switch prop.Name {
		case "x":
			position[0] = i
		case "y":
			position[1] = i
		case "z":
			position[2] = i
		case "u", "s", "texture_u":
			texCoord[0] = i
		case "v", "t", "texture_v":
			texCoord[1] = i
		}
	}
	if position[0] < 0 || position[1] < 0 || position[2] < 0 {
		return errors.New("vertex element lacks x, y or z")
	}
	hasTexCoords := texCoord[0] >= 0 && texCoord[1] >= 0

	row := make([]float64, len(element.Properties))
	for i := 0; i < element.Count; i++ {
		for j, prop := range element.Properties {
			if prop.IsList {
				if err := skipPLYList(values, prop); err != nil {
					return err
				}
				continue
			}
			value, err := values.read(prop.Type)
			if err != nil {
				return errors.Wrapf(err, "vertex %d", i)
			}
			row[j] = value
		}

		mesh.Vertices = append(mesh.Vertices, core.NewVec3(
			float32(row[position[0]]), float32(row[position[1]]), float32(row[position[2]])))
		if hasTexCoords {
			mesh.TexCoords = append(mesh.TexCoords, core.NewVec2(
				float32(row[texCoord[0]]), float32(row[texCoord[1]])))
		}
	}
	return nil
}

func readPLYFaces(values plyValueReader, element PLYElement, mesh *MeshData) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			isIndices := prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index")
			if !isIndices {
				if err := skipPLYProperty(values, prop); err != nil {
					return err
				}
				continue
			}

			count, err := values.read(prop.ListType)
			if err != nil {
				return errors.Wrapf(err, "face %d vertex count", i)
			}
			if count < 3 {
				return errors.Errorf("face %d has %d vertices", i, int(count))
			}
			polygon := make([]int, int(count))
			for k := range polygon {
				index, err := values.read(prop.Type)
				if err != nil {
					return errors.Wrapf(err, "face %d indices", i)
				}
				polygon[k] = int(index)
			}
			mesh.fan(polygon)
		}
	}
	return nil
}

func skipPLYElement(values plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if err := skipPLYProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipPLYList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipPLYList(values plyValueReader, prop PLYProperty) error {
	count, err := values.read(prop.ListType)
	if err != nil {
		return err
	}
	for k := 0; k < int(count); k++ {
		if _, err := values.read(prop.Type); err != nil {
			return err
		}
	}
	return nil
}

// plyValueReader reads one scalar of the given PLY type
type plyValueReader interface {
	read(dataType string) (float64, error)
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
}

func (r *plyASCIIReader) read(dataType string) (float64, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(r.scanner.Text(), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s value", dataType)
	}
	return value, nil
}

type plyBinaryReader struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (r *plyBinaryReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, errors.Errorf("unsupported PLY type: %s", dataType)
	}
	data := r.buf[:size]
	if _, err := io.ReadFull(r.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(r.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(r.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(r.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(r.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(r.order.Uint32(data))), nil
	default:
		return math.Float64frombits(r.order.Uint64(data)), nil
	}
}

// getTypeSize returns the size in bytes of a PLY data type, 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}
