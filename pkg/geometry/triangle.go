package geometry

import (
	"fmt"

	"github.com/df07/go-analytic-raytracer/pkg/math"
)

// Triangle represents a single triangle defined by three ordered vertices
type Triangle struct {
	A, B, C math.Vec3
}

// NewTriangle creates a new triangle, failing with ErrColinear when the
// vertices do not span a plane
func NewTriangle(a, b, c math.Vec3) (*Triangle, error) {
	t := &Triangle{A: a, B: b, C: c}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the vertices are finite and not colinear
func (t *Triangle) Validate() error {
	if !t.A.IsFinite() {
		return fmt.Errorf("triangle vertex %v: %w", t.A, math.ErrDegenerateGeometry)
	}
	if _, err := spanPlane(t.B.Subtract(t.A), t.C.Subtract(t.A)); err != nil {
		return fmt.Errorf("triangle %v %v %v: %w", t.A, t.B, t.C, err)
	}
	return nil
}

// Plane returns the plane containing the triangle: point A, normal (B-A)x(C-A)
func (t *Triangle) Plane() *Plane {
	return &Plane{Point: t.A, Normal: t.Normal()}
}

// Normal returns the unnormalized face normal (B-A)x(C-A)
func (t *Triangle) Normal() math.Vec3 {
	return t.B.Subtract(t.A).Cross(t.C.Subtract(t.A))
}

// Coordinates maps a point in the triangle's plane to (u, v) such that
// p = A + u*(B-A) + v*(C-A)
func (t *Triangle) Coordinates(p math.Vec3) (u, v float64, err error) {
	return planarCoordinates(p, t.A, t.B.Subtract(t.A), t.C.Subtract(t.A))
}

// Contains reports whether a point in the triangle's plane lies inside it
// (edges inclusive). Degenerate triangles contain nothing.
func (t *Triangle) Contains(p math.Vec3) bool {
	u, v, err := t.Coordinates(p)
	if err != nil {
		return false
	}
	w := 1 - u - v
	return u >= 0 && u <= 1 && v >= 0 && v <= 1 && w >= 0 && w <= 1
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() (AABB, bool) {
	return NewAABBFromPoints(t.A, t.B, t.C), true
}
