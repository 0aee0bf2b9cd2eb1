package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-analytic-raytracer/pkg/geometry"
	"github.com/df07/go-analytic-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Shapes       []geometry.Shape // Objects in the scene
	CameraConfig renderer.CameraConfig
	Width        int // Suggested output width when none is requested
}

// GetShapes returns the shapes in the scene
func (s *Scene) GetShapes() []geometry.Shape {
	return s.Shapes
}

// Camera builds the scene camera from its configuration
func (s *Scene) Camera() (*renderer.Camera, error) {
	return renderer.NewCamera(s.CameraConfig)
}

// Validate checks every shape and the camera configuration
func (s *Scene) Validate() error {
	for i, shape := range s.Shapes {
		if shape == nil {
			return fmt.Errorf("scene %q: shape %d is nil", s.Name, i)
		}
		if err := shape.Validate(); err != nil {
			return fmt.Errorf("scene %q: shape %d (%s): %w", s.Name, i, geometry.Kind(shape), err)
		}
	}
	if _, err := s.Camera(); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	return nil
}

// Bounds returns the union of all bounded shapes. The second result is
// false when the scene has no bounded shape.
func (s *Scene) Bounds() (geometry.AABB, bool) {
	var bounds geometry.AABB
	found := false
	for _, shape := range s.Shapes {
		box, ok := shape.BoundingBox()
		if !ok {
			continue
		}
		if !found {
			bounds, found = box, true
			continue
		}
		bounds = bounds.Union(box)
	}
	return bounds, found
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}
