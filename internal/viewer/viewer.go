// Package viewer runs the interactive terrain viewer: it owns every
// subsystem and drives them once per frame.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tessterrain/internal/config"
	"github.com/Faultbox/tessterrain/internal/engine/camera"
	"github.com/Faultbox/tessterrain/internal/engine/debug"
	"github.com/Faultbox/tessterrain/internal/engine/input"
	"github.com/Faultbox/tessterrain/internal/engine/lighting"
	"github.com/Faultbox/tessterrain/internal/engine/renderer"
	"github.com/Faultbox/tessterrain/internal/engine/shader"
	"github.com/Faultbox/tessterrain/internal/engine/terrain"
	"github.com/Faultbox/tessterrain/internal/engine/window"
	"github.com/Faultbox/tessterrain/internal/logger"
)

// RendererState is the whole viewer. Nothing outside it holds mutable
// rendering state.
type RendererState struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.Controller
	clock    *camera.Clock
	state    camera.State

	surface Surface
	units   terrain.TextureUnits
	model   mgl32.Mat4

	lights     []lighting.PointLight
	showLights bool
	points     *lighting.Renderer
	boxes      *debug.BoxRenderer
	showBounds bool

	recorder *debug.FrameRecorder
	watcher  *shader.Watcher
}

// New creates every subsystem. On error whatever was already created is
// released.
func New(cfg *config.Config) (*RendererState, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	s := &RendererState{
		cfg:        cfg,
		units:      textureUnits(cfg.Textures),
		model:      modelMatrix(cfg.Scene.ModelScale),
		showLights: cfg.Light.Show,
		showBounds: cfg.Scene.ShowBounds,
		recorder:   debug.NewFrameRecorder(cfg.Capture.Dir, cfg.Capture.Prefix),
		lights: []lighting.PointLight{
			lighting.NewPointLight(cfg.Light.Position, cfg.Light.Color),
		},
	}

	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	logger.Info("viewer initialized successfully")
	return s, nil
}

func (s *RendererState) init() error {
	cfg := s.cfg

	// Create window (this also creates OpenGL context)
	var err error
	s.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := s.window.DrawableSize()
	s.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		Background: cfg.Scene.Background,
		Wireframe:  cfg.Scene.Wireframe,
		PointSize:  cfg.Light.Size,
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	s.input = input.New()
	s.clock = camera.NewClock()
	s.camera = camera.NewController(cameraSettings(cfg.Camera), cfg.Camera.Eye,
		cfg.Camera.HorizontalAngle, cfg.Camera.VerticalAngle, s.window.Aspect())
	s.state = s.camera.State()

	if s.surface, err = s.loadSurface(); err != nil {
		return fmt.Errorf("failed to create terrain: %w", err)
	}
	for slot, tex := range textureSlots(cfg.Textures) {
		// A missing image leaves the slot unbound, like a missing mesh
		if err := s.surface.SetTexture(slot, tex.Unit, tex.Path); err != nil {
			logger.Error("cannot load texture", zap.Stringer("slot", slot), zap.Error(err))
		}
	}

	pp := pointPaths(cfg.Shaders)
	if pp.Vertex != "" && pp.Fragment != "" {
		if s.points, err = lighting.NewRenderer(pp); err != nil {
			return fmt.Errorf("failed to create point renderer: %w", err)
		}
		s.boxes = debug.NewBoxRenderer(s.points.Program(), shader.GLLookup)
	}

	if cfg.Shaders.Watch {
		s.watcher, err = shader.Watch(terrainPaths(cfg.Shaders).Files()...)
		if err != nil {
			// Hot reload is a convenience; R still reloads by hand
			logger.Warn("shader watching disabled", zap.Error(err))
		}
	}
	return nil
}

func (s *RendererState) loadSurface() (Surface, error) {
	paths := terrainPaths(s.cfg.Shaders)
	if s.cfg.Scene.UnitQuad {
		q, err := terrain.NewQuad(paths)
		if err != nil {
			return nil, err
		}
		return q, nil
	}

	arity, err := s.cfg.Arity()
	if err != nil {
		return nil, err
	}
	m, err := terrain.LoadMesh(s.cfg.Scene.Mesh, arity, paths)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Run drives the frame loop until the window closes or Escape is pressed.
func (s *RendererState) Run() error {
	s.running = true

	// Pointer displacement is measured from the center every frame
	s.window.WarpToCenter()
	s.clock.Tick()

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting render loop")

	for s.running {
		if s.input.Update() {
			s.running = false
			break
		}

		if _, _, ok := s.input.Resized(); ok {
			dw, dh := s.window.DrawableSize()
			s.renderer.Resize(dw, dh)
			s.camera.SetAspect(s.window.Aspect())
		}

		for _, key := range s.input.Pressed() {
			s.apply(CommandFor(key))
		}
		if !s.running {
			break
		}

		if s.watcher != nil && s.watcher.Changed() {
			s.reloadShaders()
		}

		cx, cy := s.window.Center()
		dx, dy := s.input.PointerOffset(cx, cy)
		s.window.WarpToCenter()

		s.state = s.camera.Update(camera.Input{
			DX:      dx,
			DY:      dy,
			Keys:    s.input.Movement(),
			Elapsed: s.clock.Tick(),
		})

		s.renderer.Begin()
		s.render()

		// Read back before the swap; the back buffer is undefined after it
		if s.recorder.Recording() {
			s.captureFrame()
		}

		s.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			s.window.SetTitle(fpsTitle(s.cfg.Window.Title, frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (s *RendererState) render() {
	light := s.lights[0]
	s.surface.Draw(terrain.FrameUniforms{
		Model:         s.model,
		View:          s.state.View,
		Projection:    s.state.Projection,
		Eye:           s.state.Eye,
		LightColor:    light.Color,
		LightPosition: light.Position,
		Textures:      s.units,
	})

	if s.points != nil && s.showLights {
		if err := s.points.Draw(s.lights, mgl32.Ident4(), s.state.View, s.state.Projection); err != nil {
			logger.Warn("cannot draw point lights", zap.Error(err))
		}
	}

	if s.boxes != nil && s.showBounds {
		if b, ok := s.surface.Bounds(); ok {
			if err := s.boxes.Draw(debug.Pad(b, boundsPadding), s.model, s.state.View, s.state.Projection); err != nil {
				logger.Warn("cannot draw bounding box", zap.Error(err))
			}
		}
	}
}

func (s *RendererState) apply(cmd Command) {
	switch cmd {
	case CmdQuit:
		s.running = false
	case CmdToggleWireframe:
		logger.Info("polygon mode", zap.Bool("wireframe", s.renderer.ToggleWireframe()))
	case CmdInfo:
		logger.Info(s.state.Report())
	case CmdToggleCapture:
		if s.recorder.Toggle() {
			logger.Info("frame capture started", zap.String("first", s.recorder.NextPath()))
		} else {
			logger.Info("frame capture stopped")
		}
	case CmdToggleBounds:
		s.showBounds = !s.showBounds
	case CmdReloadShaders:
		s.reloadShaders()
	}
}

func (s *RendererState) reloadShaders() {
	if err := s.surface.ReloadShader(terrainPaths(s.cfg.Shaders)); err != nil {
		logger.Error("shader reload failed, keeping previous program", zap.Error(err))
	}
}

func (s *RendererState) captureFrame() {
	path, err := s.recorder.Save(s.renderer.ReadPixels())
	if err != nil {
		logger.Error("frame capture failed, stopping", zap.Error(err))
		s.recorder.Toggle()
		return
	}
	logger.Info("frame saved", zap.String("path", path))
}

// Close releases everything in reverse creation order. Safe on a partly
// initialized state.
func (s *RendererState) Close() {
	logger.Info("closing viewer")

	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			logger.Warn("closing shader watcher", zap.Error(err))
		}
		s.watcher = nil
	}
	if s.points != nil {
		s.points.Destroy()
		s.points = nil
	}
	s.boxes = nil
	if s.surface != nil {
		s.surface.Destroy()
		s.surface = nil
	}
	if s.renderer != nil {
		s.renderer.Close()
		s.renderer = nil
	}
	if s.window != nil {
		s.window.Close()
		s.window = nil
	}
}
