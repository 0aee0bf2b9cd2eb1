package renderer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/df07/go-analytic-raytracer/pkg/core"
	"github.com/df07/go-analytic-raytracer/pkg/geometry"
	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
)

// ErrConfiguration is returned for invalid render settings
var ErrConfiguration = errors.New("invalid render configuration")

// DefaultSupersample is the per-axis sample factor used when antialiasing
const DefaultSupersample = 4

// HitEpsilon is the smallest distance accepted as "in front of" the camera
const HitEpsilon = 1e-9

// maxSamples bounds the supersampled buffer so its size fits an int and a
// single allocation
const maxSamples = 1 << 28

// ProgressFunc receives the number of completed tiles out of the total.
// Calls come from a single goroutine with strictly increasing counts.
type ProgressFunc func(completed, total int)

// RenderConfig contains rendering configuration. Exactly one of Width and
// Height must be set; the other is derived from the camera aspect ratio.
type RenderConfig struct {
	Width       int           // Requested output width (0 = derive)
	Height      int           // Requested output height (0 = derive)
	Antialias   bool          // Supersample and box-downsample
	Supersample int           // Per-axis factor when antialiasing (0 = DefaultSupersample)
	TileSize    int           // Tile edge in samples
	NumWorkers  int           // Parallel workers (0 = CPU count)
	Mode        CompositeMode // How per-shape results become a pixel
	Progress    ProgressFunc  // Optional progress observer
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Antialias:   true,
		Supersample: DefaultSupersample,
		TileSize:    32,
		NumWorkers:  0, // Auto-detect CPU count
		Mode:        CompositeNearest,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetShapes() []geometry.Shape
}

// Raytracer casts one ray per sample from a pinhole camera and classifies
// each as hit or miss
type Raytracer struct {
	shapes []geometry.Shape
	bvh    *geometry.BVH // Nearest-hit acceleration
	camera *Camera
	config RenderConfig
	logger core.Logger

	width, height             int // Output dimensions
	factor                    int // Supersampling factor (1 without antialiasing)
	sampleWidth, sampleHeight int // Sample buffer dimensions
	pixelWidth, pixelHeight   float64
}

// NewRaytracer validates the scene and configuration and sizes the sample buffer
func NewRaytracer(scene Scene, camera *Camera, config RenderConfig, logger core.Logger) (*Raytracer, error) {
	if camera == nil {
		return nil, fmt.Errorf("%w: camera is required", ErrConfiguration)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	width, height, err := resolveDimensions(config.Width, config.Height, camera.AspectRatio())
	if err != nil {
		return nil, err
	}

	factor := 1
	if config.Antialias {
		factor = config.Supersample
		if factor == 0 {
			factor = DefaultSupersample
		}
		if factor < 1 {
			return nil, fmt.Errorf("%w: supersample factor %d", ErrConfiguration, factor)
		}
	}

	if width > maxSamples/factor || height > maxSamples/factor ||
		width*factor > maxSamples/(height*factor) {
		return nil, fmt.Errorf("%w: %dx%d at %dx supersampling exceeds %d samples",
			ErrConfiguration, width, height, factor, maxSamples)
	}

	shapes, err := validateShapes(scene)
	if err != nil {
		return nil, err
	}

	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultRenderConfig().TileSize
	}

	sampleWidth, sampleHeight := width*factor, height*factor
	return &Raytracer{
		shapes:       shapes,
		bvh:          geometry.NewBVH(shapes),
		camera:       camera,
		config:       config,
		logger:       logger,
		width:        width,
		height:       height,
		factor:       factor,
		sampleWidth:  sampleWidth,
		sampleHeight: sampleHeight,
		pixelWidth:   camera.ImagePlaneWidth() / float64(sampleWidth),
		pixelHeight:  camera.ImagePlaneHeight() / float64(sampleHeight),
	}, nil
}

// resolveDimensions derives the missing output dimension from the aspect ratio
func resolveDimensions(width, height int, aspect float64) (int, int, error) {
	switch {
	case width < 0 || height < 0:
		return 0, 0, fmt.Errorf("%w: negative dimensions %dx%d", ErrConfiguration, width, height)
	case width > 0 && height > 0:
		return 0, 0, fmt.Errorf("%w: can only specify height or width, not both", ErrConfiguration)
	case width > 0:
		derived, err := derivedDimension(float64(width) / aspect)
		return width, derived, err
	case height > 0:
		derived, err := derivedDimension(float64(height) * aspect)
		return derived, height, err
	default:
		return 0, 0, fmt.Errorf("%w: one of width or height is required", ErrConfiguration)
	}
}

// derivedDimension rounds a computed dimension, clamping to at least one pixel
func derivedDimension(v float64) (int, error) {
	r := math.Round(v)
	if math.IsNaN(r) || r > maxSamples {
		return 0, fmt.Errorf("%w: derived dimension %g out of range", ErrConfiguration, v)
	}
	return max(1, int(r)), nil
}

// validateShapes copies the scene's shapes, rejecting malformed geometry up front
func validateShapes(scene Scene) ([]geometry.Shape, error) {
	if scene == nil {
		return nil, nil
	}
	src := scene.GetShapes()
	shapes := make([]geometry.Shape, len(src))
	for i, shape := range src {
		if shape == nil {
			return nil, fmt.Errorf("%w: shape %d is nil", ErrConfiguration, i)
		}
		if !geometry.Supported(shape) {
			return nil, fmt.Errorf("shape %d: %w: %T", i, geometry.ErrUnsupportedShape, shape)
		}
		if err := shape.Validate(); err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", i, geometry.Kind(shape), err)
		}
		shapes[i] = shape
	}
	return shapes, nil
}

// Width returns the output width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the output height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// SampleWidth returns the width of the supersampled buffer
func (rt *Raytracer) SampleWidth() int { return rt.sampleWidth }

// SampleHeight returns the height of the supersampled buffer
func (rt *Raytracer) SampleHeight() int { return rt.sampleHeight }

// Mode returns the compositing mode samples are classified with
func (rt *Raytracer) Mode() CompositeMode { return rt.config.Mode }

// Camera returns the camera rays are cast from
func (rt *Raytracer) Camera() *Camera { return rt.camera }

// RayForPixel builds the ray through sample buffer row i, column j. Row 0 is
// the top of the image and column 0 its left edge.
func (rt *Raytracer) RayForPixel(i, j int) mathpkg.Ray {
	x := rt.pixelWidth * (float64(rt.sampleWidth-1)/2 - float64(j))
	y := rt.pixelHeight * (float64(rt.sampleHeight-1)/2 - float64(i))
	point := rt.camera.ImagePlaneCenter().Add(mathpkg.NewVec3(x, y, 0))

	// The image plane sits NearClip > 0 along the view axis, so the
	// direction is never zero
	direction := point.Subtract(rt.camera.Position()).MustNormalize()
	return mathpkg.NewRay(rt.camera.Position(), direction)
}

// Sample classifies a single ray. It returns the pixel color, the hit
// distance (+Inf on a miss) and the number of intersection tests run.
func (rt *Raytracer) Sample(ray mathpkg.Ray) (Color, float64, int) {
	switch rt.config.Mode {
	case CompositeAnyHit:
		return rt.sampleAnyHit(ray)
	case CompositeLastObject:
		return rt.sampleLastObject(ray)
	default:
		return rt.sampleNearest(ray)
	}
}

// sampleNearest keeps the minimum positive t across every shape
func (rt *Raytracer) sampleNearest(ray mathpkg.Ray) (Color, float64, int) {
	hit := rt.bvh.Closest(ray, HitEpsilon)
	if hit.Index < 0 {
		return Transparent, hit.T, hit.Tests
	}
	return OpaqueWhite, hit.T, hit.Tests
}

// sampleAnyHit treats any successful line intersection as a hit
func (rt *Raytracer) sampleAnyHit(ray mathpkg.Ray) (Color, float64, int) {
	hit := false
	depth := math.Inf(1)

	for _, shape := range rt.shapes {
		t, err := geometry.Intersect(ray, shape)
		if err != nil {
			continue
		}
		hit = true
		if t > HitEpsilon {
			depth = math.Min(depth, t)
		}
	}

	if !hit {
		return Transparent, depth, len(rt.shapes)
	}
	return OpaqueWhite, depth, len(rt.shapes)
}

// sampleLastObject paints each shape over the pixel in scene order, so only
// the last shape decides
func (rt *Raytracer) sampleLastObject(ray mathpkg.Ray) (Color, float64, int) {
	if len(rt.shapes) == 0 {
		return Transparent, math.Inf(1), 0
	}

	t, err := geometry.Intersect(ray, rt.shapes[len(rt.shapes)-1])
	if err != nil {
		return Transparent, math.Inf(1), 1
	}
	if t <= HitEpsilon {
		return OpaqueWhite, math.Inf(1), 1
	}
	return OpaqueWhite, t, 1
}

// renderTile renders the samples inside one tile into the shared frame.
// Cancellation is checked between rows.
func (rt *Raytracer) renderTile(ctx context.Context, task TileTask) (RenderStats, error) {
	var stats RenderStats
	bounds := task.Tile.Bounds

	for i := bounds.Min.Y; i < bounds.Max.Y; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for j := bounds.Min.X; j < bounds.Max.X; j++ {
			color, depth, tests := rt.Sample(rt.RayForPixel(i, j))
			task.Frame.Set(j, i, color)
			task.Frame.SetDepth(j, i, depth)

			stats.TotalSamples++
			stats.IntersectionTests += tests
			if color.A > 0 {
				stats.HitSamples++
			}
		}
	}

	return stats, nil
}

// Render casts every sample in parallel and returns the output frame,
// box-downsampled when antialiasing
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	startTime := time.Now()

	buffer := NewFrame(rt.sampleWidth, rt.sampleHeight)
	tiles := NewTileGrid(rt.sampleWidth, rt.sampleHeight, rt.config.TileSize)
	workerPool := NewWorkerPool(ctx, rt, rt.config.NumWorkers, len(tiles))

	rt.logger.Printf("Rendering %dx%d (%dx%d samples, %d shapes, %d tiles, %d workers, mode %s)...\n",
		rt.width, rt.height, rt.sampleWidth, rt.sampleHeight, len(rt.shapes),
		len(tiles), workerPool.GetNumWorkers(), rt.config.Mode)

	workerPool.Start()
	for taskID, tile := range tiles {
		workerPool.SubmitTask(TileTask{Tile: tile, TaskID: taskID, Frame: buffer})
	}

	stats := RenderStats{TotalPixels: rt.width * rt.height}
	var renderErr error

	for completed := 1; completed <= len(tiles); completed++ {
		result, ok := workerPool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			renderErr = result.Error
			break
		}

		stats.merge(result.Stats)
		if rt.config.Progress != nil {
			rt.config.Progress(completed, len(tiles))
		}
	}

	// The pool reports the first worker failure, which is the root cause
	// when other workers merely observed the cancellation
	if err := workerPool.Stop(); err != nil {
		renderErr = err
	}
	if renderErr != nil {
		core.Warnf(rt.logger, "Render aborted: %v\n", renderErr)
		return nil, RenderStats{}, renderErr
	}

	frame, err := buffer.Downsample(rt.factor)
	if err != nil {
		return nil, RenderStats{}, err
	}

	stats.Elapsed = time.Since(startTime)
	rt.logger.Printf("Render completed in %v (%d rays, %.1f%% hit, %d intersection tests)\n",
		stats.Elapsed, stats.TotalSamples, 100*stats.HitRatio(), stats.IntersectionTests)

	return frame, stats, nil
}
