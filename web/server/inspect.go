package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-analytic-raytracer/pkg/core"
	"github.com/df07/go-analytic-raytracer/pkg/geometry"
	"github.com/df07/go-analytic-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Mode         renderer.CompositeMode `json:"mode"`
	Covered      bool                   `json:"covered"` // Pixel verdict under Mode, as rendered
	Hit          bool                   `json:"hit"`     // A shape lies in front of the camera
	GeometryType string                 `json:"geometryType,omitempty"`
	ShapeIndex   int                    `json:"shapeIndex"`
	Point        [3]float64             `json:"point"`
	Distance     float64                `json:"distance"`
	Ray          RayInfo                `json:"ray"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
	Tests        []ShapeTest            `json:"tests"`
}

// RayInfo describes the inspection ray
type RayInfo struct {
	Origin    [3]float64 `json:"origin"`
	Direction [3]float64 `json:"direction"`
}

// ShapeTest is the outcome of testing the ray against one shape
type ShapeTest struct {
	GeometryType string  `json:"geometryType"`
	Hit          bool    `json:"hit"`
	T            float64 `json:"t,omitempty"`
	Behind       bool    `json:"behind,omitempty"` // Line hit at or behind the eye
}

// inspectPixel casts the ray through output pixel (x, y) and reports every
// shape test, the nearest hit in front of the camera and the renderer's own
// verdict for the pixel
func inspectPixel(raytracer *renderer.Raytracer, shapes []geometry.Shape, x, y int) InspectResponse {
	ray := raytracer.RayForPixel(y, x)
	color, _, _ := raytracer.Sample(ray)
	response := InspectResponse{
		Mode:       raytracer.Mode(),
		Covered:    color == renderer.OpaqueWhite,
		ShapeIndex: -1,
		Ray: RayInfo{
			Origin:    [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z},
			Direction: [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z},
		},
		Tests: make([]ShapeTest, 0, len(shapes)),
	}

	closest := math.Inf(1)
	for i, shape := range shapes {
		test := ShapeTest{GeometryType: geometry.Kind(shape)}
		t, err := geometry.Intersect(ray, shape)
		if err == nil {
			test.Hit = true
			test.T = t
			test.Behind = t <= renderer.HitEpsilon
			if !test.Behind && t < closest {
				closest = t
				response.ShapeIndex = i
			}
		} else if !errors.Is(err, geometry.ErrNoIntersection) {
			test.GeometryType += ": " + err.Error()
		}
		response.Tests = append(response.Tests, test)
	}

	if response.ShapeIndex < 0 {
		return response
	}

	point := ray.At(closest)
	response.Hit = true
	response.Distance = closest
	response.Point = [3]float64{point.X, point.Y, point.Z}
	response.GeometryType, response.Properties = extractGeometryInfo(shapes[response.ShapeIndex])
	return response
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius

	case *geometry.Plane:
		properties["point"] = [3]float64{geom.Point.X, geom.Point.Y, geom.Point.Z}
		properties["normal"] = [3]float64{geom.Normal.X, geom.Normal.Y, geom.Normal.Z}

	case *geometry.Triangle:
		properties["a"] = [3]float64{geom.A.X, geom.A.Y, geom.A.Z}
		properties["b"] = [3]float64{geom.B.X, geom.B.Y, geom.B.Z}
		properties["c"] = [3]float64{geom.C.X, geom.C.Y, geom.C.Z}

	case *geometry.Parallelogram:
		properties["origin"] = [3]float64{geom.Origin.X, geom.Origin.Y, geom.Origin.Z}
		properties["a"] = [3]float64{geom.A.X, geom.A.Y, geom.A.Z}
		properties["b"] = [3]float64{geom.B.X, geom.B.Y, geom.B.Z}
	}

	if box, ok := shape.BoundingBox(); ok {
		properties["boundingBox"] = map[string]interface{}{
			"min": [3]float64{box.Min.X, box.Min.Y, box.Min.Z},
			"max": [3]float64{box.Max.X, box.Max.Y, box.Max.Z},
		}
	}
	return geometry.Kind(shape), properties
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	// One ray per pixel, so pixel coordinates address the sample grid
	req.Antialias = false
	raytracer, sceneObj, err := s.newRaytracer(req, core.NopLogger{}, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	if pixelX < 0 || pixelX >= raytracer.Width() || pixelY < 0 || pixelY >= raytracer.Height() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(raytracer, sceneObj.GetShapes(), pixelX, pixelY))
}
