package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-analytic-raytracer/pkg/geometry"
	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
	"github.com/df07/go-analytic-raytracer/pkg/renderer"
	"github.com/df07/go-analytic-raytracer/pkg/scene"
)

// ErrInvalidScene is returned for scene documents that cannot be built
var ErrInvalidScene = errors.New("invalid scene document")

// SceneDocument is the JSON form of a scene
type SceneDocument struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Group       string          `json:"group,omitempty"`
	Width       int             `json:"width,omitempty"`
	Camera      CameraDocument  `json:"camera"`
	Shapes      []ShapeDocument `json:"shapes"`
}

// CameraDocument mirrors renderer.CameraConfig. Omitted fields keep their
// default values.
type CameraDocument struct {
	Position    [3]float64 `json:"position"`
	AspectRatio float64    `json:"aspectRatio"`
	VFov        float64    `json:"vfov"` // Radians
	NearClip    float64    `json:"near"`
	FarClip     float64    `json:"far"`
}

// ShapeDocument is a tagged union over the supported shapes. Only the
// fields belonging to Type are read.
type ShapeDocument struct {
	Type string `json:"type"` // sphere, plane, triangle or parallelogram

	Center *[3]float64 `json:"center,omitempty"` // sphere
	Radius float64     `json:"radius,omitempty"` // sphere

	Point  *[3]float64 `json:"point,omitempty"`  // plane
	Normal *[3]float64 `json:"normal,omitempty"` // plane

	A *[3]float64 `json:"a,omitempty"` // triangle vertex, parallelogram edge
	B *[3]float64 `json:"b,omitempty"` // triangle vertex, parallelogram edge
	C *[3]float64 `json:"c,omitempty"` // triangle vertex

	Origin *[3]float64 `json:"origin,omitempty"` // parallelogram
}

// LoadScene reads and validates a scene from a JSON file
func LoadScene(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	return DecodeScene(f)
}

// DecodeScene reads and validates a scene document
func DecodeScene(r io.Reader) (*scene.Scene, error) {
	doc := SceneDocument{Camera: cameraDocument(renderer.DefaultCameraConfig())}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return doc.Build()
}

// Build converts the document into a validated scene
func (doc SceneDocument) Build() (*scene.Scene, error) {
	s := &scene.Scene{
		Name:         doc.Name,
		Width:        doc.Width,
		CameraConfig: doc.Camera.config(),
	}

	for i, shapeDoc := range doc.Shapes {
		shape, err := shapeDoc.build()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		s.Add(shape)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (d ShapeDocument) build() (geometry.Shape, error) {
	switch d.Type {
	case "sphere":
		center, err := required("center", d.Center)
		if err != nil {
			return nil, err
		}
		return shapeOrError(geometry.NewSphere(center, d.Radius))

	case "plane":
		point, err := required("point", d.Point)
		if err != nil {
			return nil, err
		}
		normal, err := required("normal", d.Normal)
		if err != nil {
			return nil, err
		}
		return shapeOrError(geometry.NewPlane(point, normal))

	case "triangle":
		vertices, err := requiredAll(map[string]*[3]float64{"a": d.A, "b": d.B, "c": d.C})
		if err != nil {
			return nil, err
		}
		return shapeOrError(geometry.NewTriangle(vertices["a"], vertices["b"], vertices["c"]))

	case "parallelogram":
		fields, err := requiredAll(map[string]*[3]float64{"origin": d.Origin, "a": d.A, "b": d.B})
		if err != nil {
			return nil, err
		}
		return shapeOrError(geometry.NewParallelogram(fields["origin"], fields["a"], fields["b"]))

	default:
		return nil, fmt.Errorf("%w: unknown shape type %q", ErrInvalidScene, d.Type)
	}
}

// shapeOrError keeps a failed constructor from producing a non-nil interface
func shapeOrError[T geometry.Shape](shape T, err error) (geometry.Shape, error) {
	if err != nil {
		return nil, err
	}
	return shape, nil
}

func required(name string, v *[3]float64) (mathpkg.Vec3, error) {
	if v == nil {
		return mathpkg.Vec3{}, fmt.Errorf("%w: missing %q", ErrInvalidScene, name)
	}
	return toVec3(*v), nil
}

func requiredAll(fields map[string]*[3]float64) (map[string]mathpkg.Vec3, error) {
	out := make(map[string]mathpkg.Vec3, len(fields))
	for _, name := range []string{"origin", "a", "b", "c"} {
		v, ok := fields[name]
		if !ok {
			continue
		}
		vec, err := required(name, v)
		if err != nil {
			return nil, err
		}
		out[name] = vec
	}
	return out, nil
}

// SaveScene writes a scene as an indented JSON document
func SaveScene(path string, s *scene.Scene) error {
	doc, err := NewSceneDocument(s)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// NewSceneDocument converts a scene into its JSON form
func NewSceneDocument(s *scene.Scene) (SceneDocument, error) {
	doc := SceneDocument{
		Name:   s.Name,
		Width:  s.Width,
		Camera: cameraDocument(s.CameraConfig),
		Shapes: make([]ShapeDocument, 0, len(s.Shapes)),
	}

	for i, shape := range s.Shapes {
		switch sh := shape.(type) {
		case *geometry.Sphere:
			doc.Shapes = append(doc.Shapes, ShapeDocument{Type: "sphere", Center: fromVec3(sh.Center), Radius: sh.Radius})
		case *geometry.Plane:
			doc.Shapes = append(doc.Shapes, ShapeDocument{Type: "plane", Point: fromVec3(sh.Point), Normal: fromVec3(sh.Normal)})
		case *geometry.Triangle:
			doc.Shapes = append(doc.Shapes, ShapeDocument{Type: "triangle", A: fromVec3(sh.A), B: fromVec3(sh.B), C: fromVec3(sh.C)})
		case *geometry.Parallelogram:
			doc.Shapes = append(doc.Shapes, ShapeDocument{Type: "parallelogram", Origin: fromVec3(sh.Origin), A: fromVec3(sh.A), B: fromVec3(sh.B)})
		default:
			return SceneDocument{}, fmt.Errorf("shape %d: %w: %T", i, geometry.ErrUnsupportedShape, shape)
		}
	}
	return doc, nil
}

func cameraDocument(c renderer.CameraConfig) CameraDocument {
	return CameraDocument{
		Position:    *fromVec3(c.Position),
		AspectRatio: c.AspectRatio,
		VFov:        c.VFov,
		NearClip:    c.NearClip,
		FarClip:     c.FarClip,
	}
}

func (c CameraDocument) config() renderer.CameraConfig {
	return renderer.CameraConfig{
		Position:    toVec3(c.Position),
		AspectRatio: c.AspectRatio,
		VFov:        c.VFov,
		NearClip:    c.NearClip,
		FarClip:     c.FarClip,
	}
}

func toVec3(v [3]float64) mathpkg.Vec3 {
	return mathpkg.NewVec3(v[0], v[1], v[2])
}

func fromVec3(v mathpkg.Vec3) *[3]float64 {
	return &[3]float64{v.X, v.Y, v.Z}
}
