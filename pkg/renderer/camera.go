package renderer

import (
	"fmt"
	"math"

	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
)

// viewDirection is the fixed axis every camera looks along. Cameras sit on
// the -z side of the scene and look toward +z; there is no rotation.
var viewDirection = mathpkg.NewVec3(0, 0, 1)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Position    mathpkg.Vec3 // Eye position
	AspectRatio float64      // Image plane width / height
	VFov        float64      // Full vertical field of view in radians
	NearClip    float64      // Distance from the eye to the image plane
	FarClip     float64      // Far end of the visible depth range
}

// DefaultCameraConfig returns the camera used by the built-in scenes: ten
// units in front of the origin, square image, 45° vertical field of view
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:    mathpkg.NewVec3(0, 0, -10),
		AspectRatio: 1.0,
		VFov:        math.Pi / 4,
		NearClip:    1.0,
		FarClip:     100.0,
	}
}

// Camera maps the near clip rectangle into world space. Derived image plane
// dimensions are computed once in NewCamera; a Camera is never mutated.
type Camera struct {
	config           CameraConfig
	imagePlaneHeight float64
	imagePlaneWidth  float64
	imagePlaneCenter mathpkg.Vec3
}

// NewCamera validates the configuration and derives the image plane geometry
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := validateCameraConfig(config); err != nil {
		return nil, err
	}

	height := 2 * config.NearClip * math.Tan(config.VFov/2)
	return &Camera{
		config:           config,
		imagePlaneHeight: height,
		imagePlaneWidth:  height * config.AspectRatio,
		imagePlaneCenter: config.Position.Add(viewDirection.Multiply(config.NearClip)),
	}, nil
}

// CameraAtDistance places the camera on the z axis, distance units in front
// of the origin
func CameraAtDistance(distance, aspectRatio, vfov, nearClip, farClip float64) (*Camera, error) {
	return NewCamera(CameraConfig{
		Position:    mathpkg.NewVec3(0, 0, -distance),
		AspectRatio: aspectRatio,
		VFov:        vfov,
		NearClip:    nearClip,
		FarClip:     farClip,
	})
}

func validateCameraConfig(config CameraConfig) error {
	switch {
	case !config.Position.IsFinite():
		return fmt.Errorf("camera position %v: %w", config.Position, mathpkg.ErrDegenerateGeometry)
	case !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0):
		return fmt.Errorf("camera aspect ratio %g must be positive: %w", config.AspectRatio, mathpkg.ErrDegenerateGeometry)
	case !(config.VFov > 0 && config.VFov < math.Pi):
		return fmt.Errorf("camera vertical fov %g must be in (0, π): %w", config.VFov, mathpkg.ErrDegenerateGeometry)
	case !(config.NearClip > 0) || math.IsInf(config.NearClip, 0):
		return fmt.Errorf("camera near clip %g must be positive: %w", config.NearClip, mathpkg.ErrDegenerateGeometry)
	case !(config.FarClip > config.NearClip):
		return fmt.Errorf("camera far clip %g must exceed near clip %g: %w", config.FarClip, config.NearClip, mathpkg.ErrDegenerateGeometry)
	}
	return nil
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig { return c.config }

// Position returns the eye position
func (c *Camera) Position() mathpkg.Vec3 { return c.config.Position }

// AspectRatio returns the image plane width / height ratio
func (c *Camera) AspectRatio() float64 { return c.config.AspectRatio }

// NearClip returns the distance to the image plane
func (c *Camera) NearClip() float64 { return c.config.NearClip }

// FarClip returns the far end of the depth range
func (c *Camera) FarClip() float64 { return c.config.FarClip }

// ImagePlaneHeight returns 2·near·tan(vfov/2)
func (c *Camera) ImagePlaneHeight() float64 { return c.imagePlaneHeight }

// ImagePlaneWidth returns ImagePlaneHeight·aspect
func (c *Camera) ImagePlaneWidth() float64 { return c.imagePlaneWidth }

// ImagePlaneCenter returns the point where the view axis pierces the image plane
func (c *Camera) ImagePlaneCenter() mathpkg.Vec3 { return c.imagePlaneCenter }

// ViewDirection returns the unit axis the camera looks along
func (c *Camera) ViewDirection() mathpkg.Vec3 { return viewDirection }
