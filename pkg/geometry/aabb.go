package geometry

import (
	"math"

	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mathpkg.Vec3 // Minimum corner
	Max mathpkg.Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max mathpkg.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...mathpkg.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	lo := points[0]
	hi := points[0]

	for _, p := range points[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		lo.Z = math.Min(lo.Z, p.Z)

		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
		hi.Z = math.Max(hi.Z, p.Z)
	}

	return AABB{Min: lo, Max: hi}
}

// Hit tests if a ray passes through this AABB within [tMin, tMax] using the slab method.
// Flat boxes (zero extent on an axis) are hit when the ray crosses their plane.
func (box AABB) Hit(ray mathpkg.Ray, tMin, tMax float64) bool {
	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	direction := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if direction[axis] == 0 {
			// Parallel to this slab: inside or never
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction[axis]
		t1 := (lo[axis] - origin[axis]) * invDirection
		t2 := (hi[axis] - origin[axis]) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (box AABB) Union(other AABB) AABB {
	return NewAABBFromPoints(box.Min, box.Max, other.Min, other.Max)
}

// Center returns the center point of the AABB
func (box AABB) Center() mathpkg.Vec3 {
	return box.Min.Add(box.Max).Multiply(0.5)
}

// Size returns the extent of the AABB along each axis
func (box AABB) Size() mathpkg.Vec3 {
	return box.Max.Subtract(box.Min)
}

// Contains reports whether p lies inside the box (boundary inclusive)
func (box AABB) Contains(p mathpkg.Vec3) bool {
	return p.X >= box.Min.X && p.X <= box.Max.X &&
		p.Y >= box.Min.Y && p.Y <= box.Max.Y &&
		p.Z >= box.Min.Z && p.Z <= box.Max.Z
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) along which the box is widest
func (box AABB) LongestAxis() int {
	size := box.Size()
	if size.X >= size.Y && size.X >= size.Z {
		return 0
	}
	if size.Y >= size.Z {
		return 1
	}
	return 2
}
