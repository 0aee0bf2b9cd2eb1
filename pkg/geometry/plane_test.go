package geometry

import (
	"errors"
	"math"
	"testing"

	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
)

func TestPlane_Intersect(t *testing.T) {
	tests := []struct {
		name      string
		normal    mathpkg.Vec3
		ray       mathpkg.Ray
		expectedT float64
	}{
		{
			name:      "straight down",
			normal:    mathpkg.NewVec3(0, 1, 0),
			ray:       mathpkg.NewRay(mathpkg.NewVec3(0, 1, 0), mathpkg.NewVec3(0, -1, 0)),
			expectedT: 1,
		},
		{
			name:      "unnormalized normal gives same t",
			normal:    mathpkg.NewVec3(0, 7, 0),
			ray:       mathpkg.NewRay(mathpkg.NewVec3(0, 1, 0), mathpkg.NewVec3(0, -1, 0)),
			expectedT: 1,
		},
		{
			name:      "oblique",
			normal:    mathpkg.NewVec3(0, 1, 0),
			ray:       mathpkg.NewRay(mathpkg.NewVec3(0, 2, 0), mathpkg.NewVec3(1, -1, 0)),
			expectedT: 2,
		},
		{
			name:      "behind origin is reported",
			normal:    mathpkg.NewVec3(0, 1, 0),
			ray:       mathpkg.NewRay(mathpkg.NewVec3(0, 1, 0), mathpkg.NewVec3(0, 1, 0)),
			expectedT: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane, err := NewPlane(mathpkg.NewVec3(0, 0, 0), tt.normal)
			if err != nil {
				t.Fatalf("NewPlane: %v", err)
			}
			got, err := IntersectPlane(tt.ray, plane)
			if err != nil {
				t.Fatalf("Expected hit, got %v", err)
			}
			if math.Abs(got-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, got)
			}
		})
	}
}

func TestPlane_Intersect_ParallelRay(t *testing.T) {
	plane, err := NewPlane(mathpkg.NewVec3(0, 0, 0), mathpkg.NewVec3(0, 1, 0))
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}

	tests := []struct {
		name   string
		origin mathpkg.Vec3
	}{
		{"above plane", mathpkg.NewVec3(0, 1, 0)},
		{"inside plane", mathpkg.NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := mathpkg.NewRay(tt.origin, mathpkg.NewVec3(1, 0, 0))
			got, err := IntersectPlane(ray, plane)
			if !errors.Is(err, ErrNoIntersection) {
				t.Errorf("Expected ErrNoIntersection, got t=%f err=%v", got, err)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("Parallel ray leaked non-finite t=%f", got)
			}
		})
	}
}

func TestNewPlane_Validation(t *testing.T) {
	if _, err := NewPlane(mathpkg.NewVec3(0, 0, 0), mathpkg.NewVec3(0, 0, 0)); !errors.Is(err, mathpkg.ErrDegenerateGeometry) {
		t.Errorf("Expected ErrDegenerateGeometry for zero normal, got %v", err)
	}
	if _, err := NewPlane(mathpkg.NewVec3(math.NaN(), 0, 0), mathpkg.NewVec3(0, 1, 0)); !errors.Is(err, mathpkg.ErrDegenerateGeometry) {
		t.Errorf("Expected ErrDegenerateGeometry for NaN point, got %v", err)
	}

	plane, err := NewPlane(mathpkg.NewVec3(0, 0, 0), mathpkg.NewVec3(0, 1, 0))
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	if _, ok := plane.BoundingBox(); ok {
		t.Error("Expected plane to be unbounded")
	}
}
