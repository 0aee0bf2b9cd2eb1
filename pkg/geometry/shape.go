package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-analytic-raytracer/pkg/math"
)

// ErrColinear is returned when the edges of a triangle or parallelogram do
// not span a plane.
var ErrColinear = fmt.Errorf("%w: colinear points", math.ErrDegenerateGeometry)

// ErrUnsupportedShape is returned by Intersect for a Shape it does not know.
var ErrUnsupportedShape = errors.New("unsupported shape")

// Shape is one of the analytic primitives a scene is built from: *Sphere,
// *Plane, *Triangle or *Parallelogram. The set is closed; Intersect
// dispatches over it with a type switch.
type Shape interface {
	// BoundingBox returns the shape's axis-aligned bounds. The boolean is
	// false for unbounded shapes.
	BoundingBox() (AABB, bool)

	// Validate reports malformed geometry (wrapping math.ErrDegenerateGeometry).
	Validate() error

	shape()
}

func (*Sphere) shape()        {}
func (*Plane) shape()         {}
func (*Triangle) shape()      {}
func (*Parallelogram) shape() {}

// Kind returns a short lowercase name for the shape's variant
func Kind(s Shape) string {
	switch s.(type) {
	case *Sphere:
		return "sphere"
	case *Plane:
		return "plane"
	case *Triangle:
		return "triangle"
	case *Parallelogram:
		return "parallelogram"
	default:
		return fmt.Sprintf("%T", s)
	}
}

// Supported reports whether Intersect can handle the shape
func Supported(s Shape) bool {
	switch s.(type) {
	case *Sphere, *Plane, *Triangle, *Parallelogram:
		return true
	default:
		return false
	}
}
