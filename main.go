package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-analytic-raytracer/pkg/core"
	"github.com/df07/go-analytic-raytracer/pkg/loaders"
	"github.com/df07/go-analytic-raytracer/pkg/output"
	"github.com/df07/go-analytic-raytracer/pkg/renderer"
	"github.com/df07/go-analytic-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneName string
	sceneFile string
	width     int
	height    int
	noAA      bool
	mode      string
	workers   int
	tileSize  int
	format    string
	upscale   int
	depth     bool
	out       string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.StringVar(&opts.sceneName, "scene", "sphere", "Built-in scene: "+strings.Join(scene.Names(), ", "))
	fs.StringVar(&opts.sceneFile, "scene-file", "", "Path to a JSON scene document (overrides -scene)")
	fs.IntVar(&opts.width, "width", 0, "Output width in pixels (height derived from the aspect ratio)")
	fs.IntVar(&opts.height, "height", 0, "Output height in pixels (width derived from the aspect ratio)")
	fs.BoolVar(&opts.noAA, "no-aa", false, "Disable 4x supersample antialiasing")
	fs.StringVar(&opts.mode, "mode", renderer.CompositeNearest.String(), "Composite mode: nearest, any or last")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.IntVar(&opts.tileSize, "tile-size", renderer.DefaultRenderConfig().TileSize, "Tile edge in samples")
	fs.StringVar(&opts.format, "format", string(output.FormatPNG), "Output format: png, bmp or tiff")
	fs.IntVar(&opts.upscale, "upscale", 1, "Integer nearest-neighbour upscale factor for the saved image")
	fs.BoolVar(&opts.depth, "depth", false, "Also save a grayscale depth image")
	fs.StringVar(&opts.out, "out", "", "Output file stem (default output/<scene>/render_<timestamp>)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.upscale < 1 {
		return options{}, fmt.Errorf("upscale factor must be at least 1, got %d", opts.upscale)
	}
	return opts, nil
}

// createScene loads the scene file when given, otherwise a built-in scene
func createScene(opts options) (*scene.Scene, error) {
	if opts.sceneFile != "" {
		return loaders.LoadScene(opts.sceneFile)
	}
	return scene.New(opts.sceneName)
}

// renderConfig translates the command line into a render configuration.
// Without an explicit size the scene's suggested width is used.
func renderConfig(opts options, s *scene.Scene) (renderer.RenderConfig, error) {
	mode, err := renderer.ParseCompositeMode(opts.mode)
	if err != nil {
		return renderer.RenderConfig{}, err
	}

	config := renderer.DefaultRenderConfig()
	config.Width = opts.width
	config.Height = opts.height
	config.Antialias = !opts.noAA
	config.NumWorkers = opts.workers
	config.TileSize = opts.tileSize
	config.Mode = mode

	if config.Width == 0 && config.Height == 0 {
		config.Width = s.Width
		if config.Width <= 0 {
			config.Width = 100
		}
	}
	return config, nil
}

// outputStem returns the file stem for the render
func outputStem(opts options, sceneName string, now time.Time) string {
	if opts.out != "" {
		return opts.out
	}
	name := sceneName
	if name == "" {
		name = "scene"
	}
	return filepath.Join("output", name, "render_"+now.Format("20060102_150405"))
}

func run(ctx context.Context, opts options, logger core.Logger) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	selectedScene, err := createScene(opts)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	logger.Printf("Using %s scene (%d shapes)...\n", selectedScene.Name, len(selectedScene.Shapes))

	camera, err := selectedScene.Camera()
	if err != nil {
		return err
	}

	config, err := renderConfig(opts, selectedScene)
	if err != nil {
		return err
	}
	config.Progress = func(completed, total int) {
		if completed == total || completed%max(1, total/10) == 0 {
			logger.Printf("Progress: %d/%d tiles (%.0f%%)\n", completed, total, 100*float64(completed)/float64(total))
		}
	}

	raytracer, err := renderer.NewRaytracer(selectedScene, camera, config, logger)
	if err != nil {
		return err
	}

	frame, stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}
	logger.Printf("Coverage: %.1f%% of %d pixels\n", 100*frame.Coverage(), stats.TotalPixels)

	stem := outputStem(opts, selectedScene.Name, time.Now())
	filename, err := output.Save(stem, output.Upscale(frame.ToNRGBA(), opts.upscale), format)
	if err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", filename)

	if opts.depth {
		depthImage := frame.DepthImage(camera.NearClip(), camera.FarClip())
		filename, err := output.Save(stem+"_depth", output.Upscale(depthImage, opts.upscale), format)
		if err != nil {
			return err
		}
		logger.Printf("Depth image saved as %s\n", filename)
	}

	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	fmt.Println("Starting Analytic Raytracer...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, core.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
