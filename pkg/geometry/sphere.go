package geometry

import (
	"fmt"
	"math"

	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center mathpkg.Vec3
	Radius float64
}

// NewSphere creates a new sphere, rejecting non-positive or non-finite radii
func NewSphere(center mathpkg.Vec3, radius float64) (*Sphere, error) {
	s := &Sphere{Center: center, Radius: radius}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the sphere has a finite center and a positive radius
func (s *Sphere) Validate() error {
	if !s.Center.IsFinite() {
		return fmt.Errorf("sphere center %v: %w", s.Center, mathpkg.ErrDegenerateGeometry)
	}
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("sphere radius %g: %w", s.Radius, mathpkg.ErrDegenerateGeometry)
	}
	return nil
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() (AABB, bool) {
	radius := mathpkg.NewVec3(s.Radius, s.Radius, s.Radius)
	return NewAABB(s.Center.Subtract(radius), s.Center.Add(radius)), true
}
