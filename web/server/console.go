package server

import (
	"fmt"
	"time"

	"github.com/df07/go-analytic-raytracer/pkg/core"
)

// ConsoleLevel classifies a console line for the browser
type ConsoleLevel string

const (
	LevelInfo    ConsoleLevel = "info"
	LevelWarning ConsoleLevel = "warning"
)

// ConsoleMessage is one raytracer log line forwarded to the browser console
type ConsoleMessage struct {
	RenderID  string       `json:"renderId"`
	Scene     string       `json:"scene"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Level     ConsoleLevel `json:"level"`
}

// WebLogger forwards a single render's log lines to its event stream and
// mirrors them, tagged with the render ID, to the server log
type WebLogger struct {
	renderID    string
	scene       string
	consoleChan chan<- ConsoleMessage
	mirror      core.Logger
}

// NewWebLogger creates a logger for one render. A nil mirror disables the
// server-side copy; a nil channel disables forwarding.
func NewWebLogger(renderID, sceneName string, consoleChan chan<- ConsoleMessage, mirror core.Logger) *WebLogger {
	if mirror == nil {
		mirror = core.NopLogger{}
	}
	return &WebLogger{
		renderID:    renderID,
		scene:       sceneName,
		consoleChan: consoleChan,
		mirror:      mirror,
	}
}

// Printf forwards an info line
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	wl.send(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf forwards a warning line, such as an aborted render
func (wl *WebLogger) Warnf(format string, args ...interface{}) {
	wl.send(LevelWarning, fmt.Sprintf(format, args...))
}

func (wl *WebLogger) send(level ConsoleLevel, message string) {
	wl.mirror.Printf("[%s %s] %s: %s", wl.renderID, wl.scene, level, message)

	if wl.consoleChan == nil {
		return
	}
	// Never block the render on a slow client
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Scene:     wl.scene,
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
	}
}
