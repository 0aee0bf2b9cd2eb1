package geometry

import (
	"fmt"

	"github.com/df07/go-analytic-raytracer/pkg/math"
)

// Parallelogram is spanned by two edge vectors from an origin corner. Its
// corners are Origin, Origin+A, Origin+B and Origin+A+B.
type Parallelogram struct {
	Origin math.Vec3
	A, B   math.Vec3
}

// NewParallelogram creates a parallelogram from a corner and two edge vectors
func NewParallelogram(origin, a, b math.Vec3) (*Parallelogram, error) {
	p := &Parallelogram{Origin: origin, A: a, B: b}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewParallelogramFromCorners creates a parallelogram from a corner and the
// two corners adjacent to it
func NewParallelogramFromCorners(origin, p1, p2 math.Vec3) (*Parallelogram, error) {
	return NewParallelogram(origin, p1.Subtract(origin), p2.Subtract(origin))
}

// Validate checks that the corner is finite and the edges are not colinear
func (p *Parallelogram) Validate() error {
	if !p.Origin.IsFinite() {
		return fmt.Errorf("parallelogram origin %v: %w", p.Origin, math.ErrDegenerateGeometry)
	}
	if _, err := spanPlane(p.A, p.B); err != nil {
		return fmt.Errorf("parallelogram edges %v %v: %w", p.A, p.B, err)
	}
	return nil
}

// Plane returns the plane containing the parallelogram: point Origin, normal AxB
func (p *Parallelogram) Plane() *Plane {
	return &Plane{Point: p.Origin, Normal: p.A.Cross(p.B)}
}

// Corners returns the four corners in winding order
func (p *Parallelogram) Corners() [4]math.Vec3 {
	return [4]math.Vec3{
		p.Origin,
		p.Origin.Add(p.A),
		p.Origin.Add(p.A).Add(p.B),
		p.Origin.Add(p.B),
	}
}

// Coordinates maps a point in the parallelogram's plane to (u, v) such that
// q = Origin + u*A + v*B
func (p *Parallelogram) Coordinates(q math.Vec3) (u, v float64, err error) {
	return planarCoordinates(q, p.Origin, p.A, p.B)
}

// Contains reports whether a point in the parallelogram's plane lies inside
// it (edges inclusive)
func (p *Parallelogram) Contains(q math.Vec3) bool {
	u, v, err := p.Coordinates(q)
	if err != nil {
		return false
	}
	return u >= 0 && u <= 1 && v >= 0 && v <= 1
}

// BoundingBox returns the axis-aligned bounding box for this parallelogram
func (p *Parallelogram) BoundingBox() (AABB, bool) {
	c := p.Corners()
	return NewAABBFromPoints(c[:]...), true
}
