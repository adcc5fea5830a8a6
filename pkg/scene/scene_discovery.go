package scene

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/loaders"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	SceneTypeBuiltin = "builtin"
	SceneTypeJSON    = "json"

	builtinGroup = "Built-in Scenes"
	jsonGroup    = "Scene Files"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Load
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtinScene struct {
	info  SceneInfo
	build func() (*Scene, error)
}

var builtinScenes = []builtinScene{
	{
		info:  builtinInfo("default", "Default Scene", "Sphere intersection and difference over a green plane"),
		build: func() (*Scene, error) { return NewDefaultScene(), nil },
	},
	{
		info:  builtinInfo("mirror", "Mirror Corridor", "Half-mirrored walls reflecting two spheres"),
		build: func() (*Scene, error) { return NewMirrorScene(), nil },
	},
	{
		info:  builtinInfo("mesh", "Textured Mesh", "Checker-textured sphere mesh next to a carved cube"),
		build: NewMeshScene,
	},
	{
		info:  builtinInfo("empty", "Empty Scene", "Nothing but ambient light"),
		build: func() (*Scene, error) { return NewEmptyScene(), nil },
	},
}

func builtinInfo(id, name, description string) SceneInfo {
	return SceneInfo{
		ID:          id,
		Name:        name,
		Description: description,
		Group:       builtinGroup,
		Type:        SceneTypeBuiltin,
	}
}

// BuiltinSceneNames returns the names Load accepts without a scene file
func BuiltinSceneNames() []string {
	return lo.Map(builtinScenes, func(b builtinScene, _ int) string {
		return b.info.ID
	})
}

// ListJSONScenes scans dir for *.json scene files. A missing directory
// yields an empty list; files that fail to parse are logged and skipped.
func ListJSONScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if dir == "" {
		return []SceneInfo{}, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan scenes directory")
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			logger.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata reads the name and description of a scene file,
// falling back to a title-cased file name
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    jsonGroup,
		Type:     SceneTypeJSON,
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, errors.Wrap(err, "failed to open scene file")
	}
	defer file.Close()

	desc, err := loaders.ParseScene(file)
	if err != nil {
		return info, err
	}
	if desc.Name != "" {
		info.Name = desc.Name
	}
	info.Description = desc.Description
	return info, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes(dir string, logger core.Logger) (ScenesResponse, error) {
	var response ScenesResponse

	builtins := lo.Map(builtinScenes, func(b builtinScene, _ int) SceneInfo {
		return b.info
	})
	response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: builtins})

	fileScenes, err := ListJSONScenes(dir, logger)
	if err != nil {
		return response, errors.Wrap(err, "failed to list scene files")
	}
	if len(fileScenes) > 0 {
		response.Groups = append(response.Groups, SceneGroup{Name: jsonGroup, Scenes: fileScenes})
	}

	return response, nil
}

// Load resolves name to a built-in scene, a path to a .json file, or a
// .json file in dir, and returns it initialised
func Load(name, dir string, logger core.Logger) (*Scene, error) {
	if builtin, ok := lo.Find(builtinScenes, func(b builtinScene) bool { return b.info.ID == name }); ok {
		s, err := builtin.build()
		if err != nil {
			return nil, errors.Wrapf(err, "building scene %s", name)
		}
		if err := s.Init(); err != nil {
			return nil, errors.Wrapf(err, "initialising scene %s", name)
		}
		return s, nil
	}

	path, err := resolveSceneFile(name, dir)
	if err != nil {
		return nil, err
	}
	desc, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, err
	}
	return Build(desc, logger)
}

func resolveSceneFile(name, dir string) (string, error) {
	candidates := []string{name}
	if dir != "" && !filepath.IsAbs(name) {
		candidates = append(candidates, filepath.Join(dir, name))
		if filepath.Ext(name) == "" {
			candidates = append(candidates, filepath.Join(dir, name+".json"))
		}
	}

	for _, candidate := range candidates {
		if stat, err := os.Stat(candidate); err == nil && !stat.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.Errorf("unknown scene %q: not a built-in (%s) or a scene file",
		name, strings.Join(BuiltinSceneNames(), ", "))
}

// titleCase converts a filename-style string to title case
// e.g., "csg-spheres" -> "Csg Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
