package geometry

import (
	"fmt"

	"github.com/df07/go-analytic-raytracer/pkg/math"
)

// Plane represents an infinite plane defined by a point and normal.
// The normal need not be unit length.
type Plane struct {
	Point  math.Vec3 // A point on the plane
	Normal math.Vec3 // Normal vector
}

// NewPlane creates a new plane
func NewPlane(point, normal math.Vec3) (*Plane, error) {
	p := &Plane{Point: point, Normal: normal}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the plane has a finite point and a usable normal
func (p *Plane) Validate() error {
	if !p.Point.IsFinite() {
		return fmt.Errorf("plane point %v: %w", p.Point, math.ErrDegenerateGeometry)
	}
	if p.Normal.IsZero() || !p.Normal.IsFinite() {
		return fmt.Errorf("plane normal %v: %w", p.Normal, math.ErrDegenerateGeometry)
	}
	return nil
}

// BoundingBox reports that a plane is unbounded
func (p *Plane) BoundingBox() (AABB, bool) {
	return AABB{}, false
}
