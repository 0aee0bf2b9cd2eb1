package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/df07/go-analytic-raytracer/pkg/core"
	"github.com/df07/go-analytic-raytracer/pkg/loaders"
	"github.com/df07/go-analytic-raytracer/pkg/output"
	"github.com/df07/go-analytic-raytracer/pkg/renderer"
	"github.com/df07/go-analytic-raytracer/pkg/scene"
)

// Image size limits accepted from clients
const (
	MinImageSize = 1
	MaxImageSize = 2000
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string      // Directory holding JSON scene documents
	logger    core.Logger // Server-side copy of render logs
	renderSeq atomic.Int64
}

// NewServer creates a new web server
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir, logger: core.NewDefaultLogger()}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene     string                 `json:"scene"`     // Built-in name or "file:<name>"
	Width     int                    `json:"width"`     // Image width (0 = derive from height)
	Height    int                    `json:"height"`    // Image height (0 = derive from width)
	Antialias bool                   `json:"antialias"` // 4x supersampling
	Mode      renderer.CompositeMode `json:"mode"`
	Workers   int                    `json:"workers"` // 0 = auto-detect
	Format    output.Format          `json:"format"`  // /api/image only
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleImage renders synchronously and returns the encoded image
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	raytracer, _, err := s.newRaytracer(req, core.NopLogger{}, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	frame, stats, err := raytracer.Render(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Rendering failed: " + err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/"+string(req.Format))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	if err := output.Encode(w, frame.ToNRGBA(), req.Format); err != nil {
		log.Printf("Error encoding image: %v", err)
	}
}

// parseRenderRequest parses and validates request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "sphere"}

	if name := query.Get("scene"); name != "" {
		req.Scene = name
	}

	// Width defaults only when the client gives no height
	defaultWidth := 200
	if query.Get("height") != "" {
		defaultWidth = 0
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", defaultWidth, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	if req.Antialias, err = parseBoolParam(query, "antialias", true); err != nil {
		return nil, err
	}

	modeName := query.Get("mode")
	if modeName == "" {
		modeName = renderer.CompositeNearest.String()
	}
	if req.Mode, err = renderer.ParseCompositeMode(modeName); err != nil {
		return nil, err
	}

	formatName := query.Get("format")
	if formatName == "" {
		formatName = string(output.FormatPNG)
	}
	if req.Format, err = output.ParseFormat(formatName); err != nil {
		return nil, err
	}

	return req, nil
}

// newRaytracer creates the scene, camera and raytracer for a request
func (s *Server) newRaytracer(req *RenderRequest, logger core.Logger, progress renderer.ProgressFunc) (*renderer.Raytracer, *scene.Scene, error) {
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, nil, err
	}

	camera, err := sceneObj.Camera()
	if err != nil {
		return nil, nil, err
	}

	config := renderer.DefaultRenderConfig()
	config.Width = req.Width
	config.Height = req.Height
	config.Antialias = req.Antialias
	config.Mode = req.Mode
	config.NumWorkers = req.Workers
	config.Progress = progress

	raytracer, err := renderer.NewRaytracer(sceneObj, camera, config, logger)
	if err != nil {
		return nil, nil, err
	}
	return raytracer, sceneObj, nil
}

// createScene resolves a built-in scene name or a "file:<name>" reference
// into the scenes directory
func (s *Server) createScene(name string) (*scene.Scene, error) {
	if fileName, ok := strings.CutPrefix(name, "file:"); ok {
		if fileName == "" || fileName != filepath.Base(fileName) {
			return nil, fmt.Errorf("invalid scene file name: %q", fileName)
		}
		return loaders.LoadScene(filepath.Join(s.scenesDir, fileName+".json"))
	}
	return scene.New(name)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
