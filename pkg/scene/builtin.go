package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-analytic-raytracer/pkg/geometry"
	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
	"github.com/df07/go-analytic-raytracer/pkg/renderer"
)

// builtin describes a scene that ships with the renderer
type builtin struct {
	description string
	build       func(renderer.CameraConfig) *Scene
}

var builtins = map[string]builtin{
	"sphere": {
		description: "Sphere of radius 3 at the origin",
		build:       NewSphereScene,
	},
	"triangle": {
		description: "Upright triangle facing the camera",
		build:       NewTriangleScene,
	},
	"parallelogram": {
		description: "Slanted parallelogram facing the camera",
		build:       NewParallelogramScene,
	},
	"mixed": {
		description: "Every shape kind, including a ground plane",
		build:       NewMixedScene,
	},
}

// Names returns the registered built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns the one-line description of a built-in scene
func Description(name string) string {
	return builtins[name].description
}

// New builds a validated built-in scene. An optional camera configuration
// replaces the scene's default camera.
func New(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}

	cameraConfig := renderer.DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = cameraOverrides[0]
	}

	s := b.build(cameraConfig)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSphereScene creates a single sphere of radius 3 at the origin
func NewSphereScene(cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         "sphere",
		CameraConfig: cameraConfig,
		Width:        100,
		Shapes: []geometry.Shape{
			&geometry.Sphere{Center: mathpkg.NewVec3(0, 0, 0), Radius: 3},
		},
	}
}

// NewTriangleScene creates an upright triangle in the z=0 plane
func NewTriangleScene(cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         "triangle",
		CameraConfig: cameraConfig,
		Width:        100,
		Shapes: []geometry.Shape{
			&geometry.Triangle{
				A: mathpkg.NewVec3(0, 2, 0),
				B: mathpkg.NewVec3(-2, -2, 0),
				C: mathpkg.NewVec3(2, -2, 0),
			},
		},
	}
}

// NewParallelogramScene creates a slanted parallelogram in the z=0 plane
func NewParallelogramScene(cameraConfig renderer.CameraConfig) *Scene {
	origin := mathpkg.NewVec3(-1, 3, 0)
	return &Scene{
		Name:         "parallelogram",
		CameraConfig: cameraConfig,
		Width:        100,
		Shapes: []geometry.Shape{
			&geometry.Parallelogram{
				Origin: origin,
				A:      mathpkg.NewVec3(-2, 1, 0).Subtract(origin),
				B:      mathpkg.NewVec3(2, -1, 0).Subtract(origin),
			},
		},
	}
}

// NewMixedScene places one of each shape kind, with a tilted triangle and a
// ground plane so that depth and occlusion are visible
func NewMixedScene(cameraConfig renderer.CameraConfig) *Scene {
	s := &Scene{
		Name:         "mixed",
		CameraConfig: cameraConfig,
		Width:        200,
	}

	s.Add(
		&geometry.Plane{Point: mathpkg.NewVec3(0, -3, 0), Normal: mathpkg.NewVec3(0, 1, 0)},
		&geometry.Sphere{Center: mathpkg.NewVec3(-1.5, 0, 2), Radius: 1.5},
		&geometry.Triangle{
			A: mathpkg.NewVec3(1, 2.5, 1),
			B: mathpkg.NewVec3(0.5, -1, -1),
			C: mathpkg.NewVec3(3, -1, 0),
		},
		&geometry.Parallelogram{
			Origin: mathpkg.NewVec3(-3.5, 1.5, -1),
			A:      mathpkg.NewVec3(1.5, 0, 0),
			B:      mathpkg.NewVec3(0.5*math.Cos(math.Pi/3), 1, -0.5),
		},
	)
	return s
}
