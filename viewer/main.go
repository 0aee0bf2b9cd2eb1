package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-analytic-raytracer/pkg/core"
	"github.com/df07/go-analytic-raytracer/pkg/loaders"
	"github.com/df07/go-analytic-raytracer/pkg/renderer"
	"github.com/df07/go-analytic-raytracer/pkg/scene"
	"github.com/df07/go-analytic-raytracer/viewer/session"
)

// Viewer shows the latest render of a scene. A toggles antialiasing and M
// cycles composite modes; each change starts a new render.
type Viewer struct {
	session *session.Session
	config  renderer.RenderConfig
	scale   int
	latest  *ebiten.Image
}

func newViewer(s *scene.Scene, config renderer.RenderConfig, scale int) (*Viewer, error) {
	camera, err := s.Camera()
	if err != nil {
		return nil, err
	}
	v := &Viewer{
		session: session.New(s.Name, s, camera, core.NewDefaultLogger()),
		config:  config,
		scale:   scale,
	}
	v.session.Start(config)
	return v, nil
}

func (v *Viewer) Update() error {
	changed := false
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.config.Antialias = !v.config.Antialias
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		v.config.Mode = v.config.Mode.Next()
		changed = true
	}
	if changed {
		v.session.Start(v.config)
	}

	if img := v.session.TakeFrame(); img != nil {
		v.latest = ebiten.NewImageFromImage(img)
	}
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.latest != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(v.scale), float64(v.scale))
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(v.latest, op)
	}

	ebitenutil.DebugPrint(screen, v.session.Status()+"\n[A] antialias  [M] mode")
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func main() {
	sceneName := flag.String("scene", "mixed", "Built-in scene name")
	sceneFile := flag.String("scene-file", "", "Path to a JSON scene document (overrides -scene)")
	width := flag.Int("width", 200, "Render width in pixels")
	scale := flag.Int("scale", 3, "Window pixels per rendered pixel")
	flag.Parse()

	var s *scene.Scene
	var err error
	if *sceneFile != "" {
		s, err = loaders.LoadScene(*sceneFile)
	} else {
		s, err = scene.New(*sceneName)
	}
	if err != nil {
		log.Fatalf("Failed to create scene: %v", err)
	}

	config := renderer.DefaultRenderConfig()
	config.Width = *width

	viewer, err := newViewer(s, config, max(1, *scale))
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}

	height := max(1, int(float64(*width)/s.CameraConfig.AspectRatio+0.5))
	ebiten.SetWindowSize(*width*viewer.scale, height*viewer.scale)
	ebiten.SetWindowTitle("Analytic Raytracer - " + s.Name)
	err = ebiten.RunGame(viewer)
	viewer.session.Close()
	if err != nil {
		log.Fatal(err)
	}
}
