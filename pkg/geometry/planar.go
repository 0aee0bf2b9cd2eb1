package geometry

import (
	"math"

	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
)

// planarCoordinates solves p - origin = u*e1 + v*e2 for a point p lying in
// the plane spanned by e1 and e2. The 3D system is projected onto the two
// axes the plane normal is least aligned with; for planes facing z this is
// the xy closed form det = e1.x*e2.y - e1.y*e2.x. The determinant of the
// projection equals the dropped component of e1 x e2, so it is zero only
// when the edges are colinear.
func planarCoordinates(p, origin, e1, e2 mathpkg.Vec3) (u, v float64, err error) {
	n := components(e1.Cross(e2))

	// Drop the dominant axis, preferring z on ties
	k := 2
	for axis := 0; axis < 2; axis++ {
		if math.Abs(n[axis]) > math.Abs(n[k]) {
			k = axis
		}
	}
	i, j := (k+1)%3, (k+2)%3

	a := components(e1)
	b := components(e2)
	d := components(p.Subtract(origin))

	det := a[i]*b[j] - a[j]*b[i]
	if det == 0 || math.IsNaN(det) {
		return 0, 0, ErrColinear
	}

	u = (d[i]*b[j] - d[j]*b[i]) / det
	v = (a[i]*d[j] - a[j]*d[i]) / det
	return u, v, nil
}

func components(v mathpkg.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// spanPlane validates two edge vectors and returns their normal
func spanPlane(e1, e2 mathpkg.Vec3) (mathpkg.Vec3, error) {
	if !e1.IsFinite() || !e2.IsFinite() {
		return mathpkg.Vec3{}, mathpkg.ErrDegenerateGeometry
	}
	normal := e1.Cross(e2)
	if normal.IsZero() {
		return mathpkg.Vec3{}, ErrColinear
	}
	return normal, nil
}
