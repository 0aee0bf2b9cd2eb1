package geometry

import (
	"errors"
	"fmt"
	"math"

	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
)

// ErrNoIntersection reports that a ray misses a shape. It is an expected
// outcome, not a fault.
var ErrNoIntersection = errors.New("no intersection")

// Intersect returns the parametric distance t of the nearest intersection of
// the ray's line with the shape. t is not clamped to be positive; callers
// decide which side of the origin counts.
func Intersect(ray mathpkg.Ray, shape Shape) (float64, error) {
	switch s := shape.(type) {
	case *Sphere:
		return IntersectSphere(ray, s)
	case *Plane:
		return IntersectPlane(ray, s)
	case *Triangle:
		return IntersectTriangle(ray, s)
	case *Parallelogram:
		return IntersectParallelogram(ray, s)
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedShape, shape)
	}
}

// IntersectPlane solves t = (point - origin)·normal / (direction·normal).
// Rays parallel to the plane miss it.
func IntersectPlane(ray mathpkg.Ray, plane *Plane) (float64, error) {
	denominator := ray.Direction.Dot(plane.Normal)
	if denominator == 0 {
		return 0, ErrNoIntersection
	}

	t := plane.Point.Subtract(ray.Origin).Dot(plane.Normal) / denominator
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, ErrNoIntersection
	}
	return t, nil
}

// IntersectSphere solves the quadratic |origin + t*direction - center|² = r²
// and returns the smaller root
func IntersectSphere(ray mathpkg.Ray, sphere *Sphere) (float64, error) {
	oc := ray.Origin.Subtract(sphere.Center)

	// Quadratic coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return 0, ErrNoIntersection
	}
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - sphere.Radius*sphere.Radius

	discriminant := b*b - 4*a*c

	// Misses sphere
	if discriminant < 0 || math.IsNaN(discriminant) {
		return 0, ErrNoIntersection
	}

	// Tangent to sphere surface
	if discriminant == 0 {
		return -b / (2 * a), nil
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b + sqrtD) / (2 * a)
	t2 := (-b - sqrtD) / (2 * a)
	return math.Min(t1, t2), nil
}

// IntersectTriangle intersects the triangle's plane and keeps the hit only
// if it falls inside the triangle
func IntersectTriangle(ray mathpkg.Ray, triangle *Triangle) (float64, error) {
	return intersectPlanar(ray, triangle.Plane(), triangle.Contains)
}

// IntersectParallelogram intersects the parallelogram's plane and keeps the
// hit only if it falls inside the parallelogram
func IntersectParallelogram(ray mathpkg.Ray, parallelogram *Parallelogram) (float64, error) {
	return intersectPlanar(ray, parallelogram.Plane(), parallelogram.Contains)
}

func intersectPlanar(ray mathpkg.Ray, plane *Plane, contains func(mathpkg.Vec3) bool) (float64, error) {
	t, err := IntersectPlane(ray, plane)
	if err != nil {
		return 0, err
	}
	if !contains(ray.At(t)) {
		return 0, ErrNoIntersection
	}
	return t, nil
}
