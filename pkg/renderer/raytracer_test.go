package renderer

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-analytic-raytracer/pkg/geometry"
	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
)

// shapeList is a minimal Scene for tests
type shapeList []geometry.Shape

func (s shapeList) GetShapes() []geometry.Shape { return s }

func referenceCamera(t *testing.T) *Camera {
	t.Helper()
	camera, err := CameraAtDistance(10, 1, math.Pi/4, 1, 100)
	if err != nil {
		t.Fatalf("CameraAtDistance: %v", err)
	}
	return camera
}

func sphereAt(t *testing.T, center mathpkg.Vec3, radius float64) *geometry.Sphere {
	t.Helper()
	s, err := geometry.NewSphere(center, radius)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	return s
}

// renderConfig returns a small deterministic configuration without antialiasing
func renderConfig(width int) RenderConfig {
	config := DefaultRenderConfig()
	config.Width = width
	config.Antialias = false
	config.TileSize = 8
	return config
}

func render(t *testing.T, scene Scene, camera *Camera, config RenderConfig) *Frame {
	t.Helper()
	rt, err := NewRaytracer(scene, camera, config, nil)
	if err != nil {
		t.Fatalf("NewRaytracer: %v", err)
	}
	frame, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return frame
}

func opaqueCount(f *Frame) int {
	count := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y).A > 0 {
				count++
			}
		}
	}
	return count
}

func TestRender_SphereIsCenteredDisc(t *testing.T) {
	camera := referenceCamera(t)
	scene := shapeList{sphereAt(t, mathpkg.NewVec3(0, 0, 0), 3)}
	frame := render(t, scene, camera, renderConfig(21))

	if frame.Width != 21 || frame.Height != 21 {
		t.Fatalf("Expected 21x21 frame, got %dx%d", frame.Width, frame.Height)
	}

	if frame.At(10, 10) != OpaqueWhite {
		t.Errorf("Expected opaque center, got %+v", frame.At(10, 10))
	}
	for _, corner := range [][2]int{{0, 0}, {20, 0}, {0, 20}, {20, 20}} {
		if c := frame.At(corner[0], corner[1]); c != Transparent {
			t.Errorf("Expected transparent corner %v, got %+v", corner, c)
		}
	}

	// Mirror symmetric about both axes, which also centers the disc
	var sumX, sumY, count float64
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			c := frame.At(x, y)
			if c != frame.At(20-x, y) || c != frame.At(x, 20-y) {
				t.Fatalf("Pixel (%d,%d) breaks symmetry", x, y)
			}
			if c.A > 0 {
				sumX += float64(x)
				sumY += float64(y)
				count++
			}
		}
	}
	if sumX/count != 10 || sumY/count != 10 {
		t.Errorf("Expected disc centroid (10, 10), got (%f, %f)", sumX/count, sumY/count)
	}

	// Binary output: every pixel is either a hit or a miss
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			if c := frame.At(x, y); c != OpaqueWhite && c != Transparent {
				t.Fatalf("Pixel (%d,%d) is neither hit nor miss: %+v", x, y, c)
			}
		}
	}
}

func TestRender_CoverageGrowsWithRadius(t *testing.T) {
	camera := referenceCamera(t)
	previous := -1

	for _, radius := range []float64{0.5, 1, 2, 3, 4} {
		scene := shapeList{sphereAt(t, mathpkg.NewVec3(0, 0, 0), radius)}
		count := opaqueCount(render(t, scene, camera, renderConfig(21)))

		if count <= previous {
			t.Errorf("Radius %f: opaque count %d did not grow from %d", radius, count, previous)
		}
		previous = count
	}
}

func TestRender_EmptySceneIsTransparent(t *testing.T) {
	frame := render(t, shapeList{}, referenceCamera(t), renderConfig(9))
	if n := opaqueCount(frame); n != 0 {
		t.Errorf("Expected no opaque pixels, got %d", n)
	}
	if !math.IsInf(frame.DepthAt(4, 4), 1) {
		t.Errorf("Expected infinite depth for a miss, got %f", frame.DepthAt(4, 4))
	}
}

func TestRender_NearestDepth(t *testing.T) {
	camera := referenceCamera(t)
	near := sphereAt(t, mathpkg.NewVec3(0, 0, 0), 1)
	far := sphereAt(t, mathpkg.NewVec3(0, 0, 10), 4)

	// Order must not matter for nearest compositing
	for _, scene := range []shapeList{{near, far}, {far, near}} {
		frame := render(t, scene, camera, renderConfig(21))
		if d := frame.DepthAt(10, 10); math.Abs(d-9) > 1e-9 {
			t.Errorf("Expected center depth 9, got %f", d)
		}
	}
}

func TestRender_CompositeModes(t *testing.T) {
	camera := referenceCamera(t)
	behind := sphereAt(t, mathpkg.NewVec3(0, 0, -20), 3)
	inFront := sphereAt(t, mathpkg.NewVec3(0, 0, 0), 3)
	offscreen := sphereAt(t, mathpkg.NewVec3(100, 0, 0), 1)

	tests := []struct {
		name       string
		scene      shapeList
		mode       CompositeMode
		wantCenter Color
	}{
		{"nearest ignores shapes behind the camera", shapeList{behind}, CompositeNearest, Transparent},
		{"any-hit counts shapes behind the camera", shapeList{behind}, CompositeAnyHit, OpaqueWhite},
		{"nearest sees any visible shape", shapeList{inFront, offscreen}, CompositeNearest, OpaqueWhite},
		{"any-hit sees any visible shape", shapeList{inFront, offscreen}, CompositeAnyHit, OpaqueWhite},
		{"last object decides alone", shapeList{inFront, offscreen}, CompositeLastObject, Transparent},
		{"last object hit", shapeList{offscreen, inFront}, CompositeLastObject, OpaqueWhite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := renderConfig(11)
			config.Mode = tt.mode
			frame := render(t, tt.scene, camera, config)

			if got := frame.At(5, 5); got != tt.wantCenter {
				t.Errorf("Expected center %+v, got %+v", tt.wantCenter, got)
			}
		})
	}
}

func TestRender_Antialiasing(t *testing.T) {
	camera := referenceCamera(t)
	scene := shapeList{sphereAt(t, mathpkg.NewVec3(0, 0, 0), 3)}

	config := renderConfig(16)
	config.Antialias = true
	config.Supersample = 0 // Default factor

	rt, err := NewRaytracer(scene, camera, config, nil)
	if err != nil {
		t.Fatalf("NewRaytracer: %v", err)
	}
	if rt.SampleWidth() != 64 || rt.SampleHeight() != 64 {
		t.Fatalf("Expected 64x64 sample buffer, got %dx%d", rt.SampleWidth(), rt.SampleHeight())
	}

	frame, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if frame.Width != 16 || frame.Height != 16 {
		t.Fatalf("Expected 16x16 output, got %dx%d", frame.Width, frame.Height)
	}
	if stats.TotalSamples != 64*64 || stats.TotalPixels != 16*16 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	partial := 0
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			c := frame.At(x, y)
			if c.A < 0 || c.A > 1 {
				t.Fatalf("Alpha out of range at (%d,%d): %f", x, y, c.A)
			}
			if c.A > 0 && c.A < 1 {
				partial++
			}
		}
	}
	if partial == 0 {
		t.Error("Expected smoothed edge pixels with partial coverage")
	}
	if c := frame.At(8, 8); c != OpaqueWhite {
		t.Errorf("Expected fully covered center, got %+v", c)
	}
	if c := frame.At(0, 0); c != Transparent {
		t.Errorf("Expected empty corner, got %+v", c)
	}
}

func TestNewRaytracer_Dimensions(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		aspect         float64
		expectedWidth  int
		expectedHeight int
	}{
		{"width given", 100, 0, 2, 100, 50},
		{"height given", 0, 50, 1.5, 75, 50},
		{"rounded", 10, 0, 3, 10, 3},
		{"never zero", 1, 0, 4, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cameraConfig := DefaultCameraConfig()
			cameraConfig.AspectRatio = tt.aspect
			camera, err := NewCamera(cameraConfig)
			if err != nil {
				t.Fatalf("NewCamera: %v", err)
			}

			config := renderConfig(tt.width)
			config.Height = tt.height
			rt, err := NewRaytracer(shapeList{}, camera, config, nil)
			if err != nil {
				t.Fatalf("NewRaytracer: %v", err)
			}
			if rt.Width() != tt.expectedWidth || rt.Height() != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, rt.Width(), rt.Height())
			}
		})
	}
}

func TestNewRaytracer_ConfigurationErrors(t *testing.T) {
	camera := referenceCamera(t)

	tests := []struct {
		name          string
		width, height int
		aspect        float64
		antialias     bool
	}{
		{"both", 10, 10, 1, false},
		{"neither", 0, 0, 1, false},
		{"negative", -5, 0, 1, false},
		{"derived height overflows int", 10, 0, 1e-300, false},
		{"derived height too large", 10, 0, 1e-17, false},
		{"derived width too large", 0, 10, 1e17, false},
		{"sample buffer too large", 1 << 20, 0, 1, true},
		{"huge width", math.MaxInt, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := camera
			if tt.aspect != 1 {
				var err error
				camera, err = CameraAtDistance(10, tt.aspect, math.Pi/4, 1, 100)
				if err != nil {
					t.Fatalf("CameraAtDistance: %v", err)
				}
			}
			config := renderConfig(tt.width)
			config.Height = tt.height
			config.Antialias = tt.antialias
			_, err := NewRaytracer(shapeList{}, camera, config, nil)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("Expected ErrConfiguration, got %v", err)
			}
		})
	}

	if _, err := NewRaytracer(shapeList{}, nil, renderConfig(10), nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for missing camera, got %v", err)
	}
}

func TestNewRaytracer_DerivedDimensionClampsToOnePixel(t *testing.T) {
	camera, err := CameraAtDistance(10, 4, math.Pi/4, 1, 100)
	if err != nil {
		t.Fatalf("CameraAtDistance: %v", err)
	}

	rt, err := NewRaytracer(shapeList{}, camera, renderConfig(1), nil)
	if err != nil {
		t.Fatalf("NewRaytracer: %v", err)
	}
	if rt.Width() != 1 || rt.Height() != 1 {
		t.Errorf("Expected 1x1, got %dx%d", rt.Width(), rt.Height())
	}
}

func TestNewRaytracer_RejectsDegenerateShapes(t *testing.T) {
	camera := referenceCamera(t)
	colinear := &geometry.Triangle{
		A: mathpkg.NewVec3(0, 0, 0),
		B: mathpkg.NewVec3(1, 1, 1),
		C: mathpkg.NewVec3(2, 2, 2),
	}
	badSphere := &geometry.Sphere{Radius: -1}

	_, err := NewRaytracer(shapeList{colinear}, camera, renderConfig(10), nil)
	if !errors.Is(err, geometry.ErrColinear) || !errors.Is(err, mathpkg.ErrDegenerateGeometry) {
		t.Errorf("Expected colinear degenerate geometry error, got %v", err)
	}

	_, err = NewRaytracer(shapeList{badSphere}, camera, renderConfig(10), nil)
	if !errors.Is(err, mathpkg.ErrDegenerateGeometry) {
		t.Errorf("Expected degenerate geometry error, got %v", err)
	}

	_, err = NewRaytracer(shapeList{nil}, camera, renderConfig(10), nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected configuration error for nil shape, got %v", err)
	}
}

func TestRayForPixel(t *testing.T) {
	camera := referenceCamera(t)
	rt, err := NewRaytracer(shapeList{}, camera, renderConfig(11), nil)
	if err != nil {
		t.Fatalf("NewRaytracer: %v", err)
	}

	center := rt.RayForPixel(5, 5)
	if center.Origin != camera.Position() {
		t.Errorf("Expected ray origin at camera, got %v", center.Origin)
	}
	if center.Direction.Subtract(mathpkg.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Expected center ray along +z, got %v", center.Direction)
	}

	topLeft := rt.RayForPixel(0, 0)
	if math.Abs(topLeft.Direction.Length()-1) > 1e-12 {
		t.Errorf("Expected unit direction, got length %f", topLeft.Direction.Length())
	}
	if topLeft.Direction.Y <= 0 {
		t.Errorf("Expected top row to look up, got %v", topLeft.Direction)
	}
	if topLeft.Direction.X <= 0 {
		t.Errorf("Expected left column to look toward +x, got %v", topLeft.Direction)
	}

	// The top-left sample lands on the image plane half a pixel inside its corner
	point := topLeft.At(camera.NearClip() / topLeft.Direction.Z)
	expectedY := camera.ImagePlaneHeight()/2 - camera.ImagePlaneHeight()/22
	if math.Abs(point.Y-expectedY) > 1e-12 {
		t.Errorf("Expected top sample at y=%f, got %f", expectedY, point.Y)
	}
}

func TestRender_ProgressIsMonotonic(t *testing.T) {
	var calls [][2]int
	config := renderConfig(20)
	config.TileSize = 5
	config.NumWorkers = 4
	config.Progress = func(completed, total int) {
		calls = append(calls, [2]int{completed, total})
	}

	scene := shapeList{sphereAt(t, mathpkg.NewVec3(0, 0, 0), 3)}
	render(t, scene, referenceCamera(t), config)

	if len(calls) != 16 {
		t.Fatalf("Expected 16 progress calls, got %d", len(calls))
	}
	for i, call := range calls {
		if call[0] != i+1 || call[1] != 16 {
			t.Errorf("Call %d: expected (%d, 16), got %v", i, i+1, call)
		}
	}
}

func TestRender_WorkerCountDoesNotChangeOutput(t *testing.T) {
	camera := referenceCamera(t)
	tri, err := geometry.NewTriangle(
		mathpkg.NewVec3(0, 2, 0),
		mathpkg.NewVec3(-2, -2, 0),
		mathpkg.NewVec3(2, -2, 0),
	)
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}
	scene := shapeList{tri, sphereAt(t, mathpkg.NewVec3(2, 2, 1), 1)}

	config := renderConfig(24)
	config.Antialias = true
	config.NumWorkers = 1
	single := render(t, scene, camera, config)

	config.NumWorkers = 8
	config.TileSize = 7
	parallel := render(t, scene, camera, config)

	for i := range single.Pix {
		if single.Pix[i] != parallel.Pix[i] {
			t.Fatalf("Outputs differ at channel index %d", i)
		}
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rt, err := NewRaytracer(shapeList{}, referenceCamera(t), renderConfig(16), nil)
	if err != nil {
		t.Fatalf("NewRaytracer: %v", err)
	}

	frame, _, err := rt.Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if frame != nil {
		t.Error("Expected no frame from a cancelled render")
	}
}

func TestCompositeMode_Next(t *testing.T) {
	tests := []struct {
		mode, want CompositeMode
	}{
		{CompositeNearest, CompositeAnyHit},
		{CompositeAnyHit, CompositeLastObject},
		{CompositeLastObject, CompositeNearest},
		{CompositeMode(42), CompositeNearest},
	}
	for _, tt := range tests {
		if got := tt.mode.Next(); got != tt.want {
			t.Errorf("%v.Next() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestParseCompositeMode(t *testing.T) {
	for _, mode := range CompositeModes() {
		parsed, err := ParseCompositeMode(mode.String())
		if err != nil || parsed != mode {
			t.Errorf("ParseCompositeMode(%q) = %v, %v", mode.String(), parsed, err)
		}
	}
	if _, err := ParseCompositeMode("closest"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for unknown mode, got %v", err)
	}
}

func TestCompositeMode_Text(t *testing.T) {
	for _, mode := range CompositeModes() {
		text, err := mode.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", mode, err)
		}
		var decoded CompositeMode
		if err := decoded.UnmarshalText(text); err != nil || decoded != mode {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, decoded, err)
		}
	}
	if _, err := CompositeMode(42).MarshalText(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration, got %v", err)
	}
}
