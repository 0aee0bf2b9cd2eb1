// Package session runs the viewer's background renders. Each Start
// supersedes the render in flight; only the latest one may publish a frame
// or a status line.
package session

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/df07/go-analytic-raytracer/pkg/core"
	"github.com/df07/go-analytic-raytracer/pkg/renderer"
)

// Session owns the render in flight for one scene and camera
type Session struct {
	name   string
	scene  renderer.Scene
	camera *renderer.Camera
	logger core.Logger

	mu      sync.Mutex
	pending image.Image // Finished render not yet taken
	status  string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an idle session
func New(name string, scene renderer.Scene, camera *renderer.Camera, logger core.Logger) *Session {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Session{name: name, scene: scene, camera: camera, logger: logger}
}

// Start cancels any render in flight and renders with config in the background
func (s *Session) Start(config renderer.RenderConfig) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.status = fmt.Sprintf("Rendering (aa=%v, mode=%s)...", config.Antialias, config.Mode)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.render(ctx, config)
	}()
}

func (s *Session) render(ctx context.Context, config renderer.RenderConfig) {
	raytracer, err := renderer.NewRaytracer(s.scene, s.camera, config, s.logger)
	if err != nil {
		s.publish(ctx, nil, fmt.Sprintf("Error: %v", err))
		return
	}
	frame, stats, err := raytracer.Render(ctx)
	if err != nil {
		s.publish(ctx, nil, fmt.Sprintf("Error: %v", err))
		return
	}

	s.publish(ctx, frame.ToNRGBA(), fmt.Sprintf("%s %dx%d aa=%v mode=%s %.1f%% covered in %v",
		s.name, frame.Width, frame.Height, config.Antialias, config.Mode,
		100*frame.Coverage(), stats.Elapsed))
}

// publish records a render's outcome unless ctx has been superseded
func (s *Session) publish(ctx context.Context, img image.Image, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	if img != nil {
		s.pending = img
	}
	s.status = status
}

// Status returns the latest status line
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// TakeFrame returns the newest finished frame once, or nil
func (s *Session) TakeFrame() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := s.pending
	s.pending = nil
	return img
}

// Wait blocks until every started render has returned
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels the render in flight and waits for it
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.Wait()
}
