// Package renderer owns global OpenGL state: initialization, pipeline
// switches, clearing and frame readback.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tessterrain/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int // drawable size in pixels
	Height     int
	Background mgl32.Vec3
	Wireframe  bool
	PointSize  float32
}

// Renderer handles frame-level OpenGL state.
type Renderer struct {
	config    Config
	wireframe bool
}

// New initializes OpenGL and sets the fixed pipeline state.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	glsl := gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))
	var maxPatch int32
	gl.GetIntegerv(gl.MAX_PATCH_VERTICES, &maxPatch)
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
		zap.String("glsl", glsl),
		zap.Int32("max_patch_vertices", maxPatch),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)

	// The point program leaves gl_PointSize alone, so this sizes the lights
	if cfg.PointSize > 0 {
		gl.PointSize(cfg.PointSize)
	}

	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 0)
	r.SetWireframe(cfg.Wireframe)
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close releases renderer state.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetWireframe switches between line and fill polygon mode.
func (r *Renderer) SetWireframe(on bool) {
	r.wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// ToggleWireframe flips the polygon mode and returns the new setting.
func (r *Renderer) ToggleWireframe() bool {
	r.SetWireframe(!r.wireframe)
	return r.wireframe
}

// ReadPixels reads the back buffer into an image with GL's bottom-left
// origin: row 0 of the result is the bottom row of the frame.
func (r *Renderer) ReadPixels() *image.RGBA {
	w, h := r.config.Width, r.config.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	return img
}
