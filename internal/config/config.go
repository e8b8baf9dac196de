// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/tessterrain/pkg/formats"
)

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig  `yaml:"window"`
	Camera   CameraConfig  `yaml:"camera"`
	Scene    SceneConfig   `yaml:"scene"`
	Shaders  ShaderConfig  `yaml:"shaders"`
	Textures TextureConfig `yaml:"textures"`
	Light    LightConfig   `yaml:"light"`
	Capture  CaptureConfig `yaml:"capture"`
	Logging  LoggingConfig `yaml:"logging"`

	// Source is the file the config was read from, empty for defaults only.
	Source string `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Samples    int    `yaml:"samples"` // MSAA samples, 0 disables
}

// CameraConfig holds the initial free-fly camera state and its tuning.
// Angles are spherical coordinates in radians.
type CameraConfig struct {
	Eye              [3]float32 `yaml:"eye"`
	HorizontalAngle  float32    `yaml:"horizontal_angle"`
	VerticalAngle    float32    `yaml:"vertical_angle"`
	FOV              float32    `yaml:"fov"` // degrees
	Near             float32    `yaml:"near"`
	Far              float32    `yaml:"far"`
	Speed            float32    `yaml:"speed"` // units per second
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
}

// SceneConfig selects what gets drawn.
type SceneConfig struct {
	Mesh       string     `yaml:"mesh"`
	FaceType   string     `yaml:"face_type"` // "triangle" or "quad"
	UnitQuad   bool       `yaml:"unit_quad"` // draw the built-in quad instead of Mesh
	ModelScale float32    `yaml:"model_scale"`
	Background [3]float32 `yaml:"background"`
	Wireframe  bool       `yaml:"wireframe"`
	ShowBounds bool       `yaml:"show_bounds"`
}

// ShaderConfig holds GLSL source paths.
type ShaderConfig struct {
	Vertex        string `yaml:"vertex"`
	TessControl   string `yaml:"tess_control"`
	TessEval      string `yaml:"tess_eval"`
	Fragment      string `yaml:"fragment"`
	PointVertex   string `yaml:"point_vertex"`
	PointFragment string `yaml:"point_fragment"`
	Watch         bool   `yaml:"watch"` // rebuild programs when sources change
}

// TextureSlot binds an image file to a texture unit.
type TextureSlot struct {
	Path string `yaml:"path"`
	Unit int32  `yaml:"unit"`
}

// TextureConfig holds the base-color, normal and height maps.
// An empty path leaves the slot unbound.
type TextureConfig struct {
	Base   TextureSlot `yaml:"base"`
	Normal TextureSlot `yaml:"normal"`
	Height TextureSlot `yaml:"height"`
}

// LightConfig holds the single point light.
type LightConfig struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
	Show     bool       `yaml:"show"`
	Size     float32    `yaml:"size"` // point sprite size in pixels
}

// CaptureConfig holds frame capture output settings.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock scene: one tessellated quad patch
// displaced by a height map.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:   "Tessellated terrain",
			Width:   800,
			Height:  600,
			VSync:   true,
			Samples: 4,
		},
		Camera: CameraConfig{
			Eye:              [3]float32{-0.558788, 2.681102, 1.797832},
			HorizontalAngle:  2.12426,
			VerticalAngle:    -2.07063,
			FOV:              45,
			Near:             0.01,
			Far:              1000,
			Speed:            5,
			MouseSensitivity: 0.005,
		},
		Scene: SceneConfig{
			Mesh:       "./mesh/quad.obj",
			FaceType:   "quad",
			ModelScale: 10,
			Background: [3]float32{0, 0, 0.4},
			Wireframe:  true,
		},
		Shaders: ShaderConfig{
			Vertex:        "./shader/vsPhong.glsl",
			TessControl:   "./shader/tcsQuad.glsl",
			TessEval:      "./shader/tesQuad.glsl",
			Fragment:      "./shader/fsPhong.glsl",
			PointVertex:   "./shader/vsPoint.glsl",
			PointFragment: "./shader/fsPoint.glsl",
		},
		Textures: TextureConfig{
			Base:   TextureSlot{Unit: 3},
			Normal: TextureSlot{Unit: 4},
			Height: TextureSlot{Path: "./res/height.png", Unit: 15},
		},
		Light: LightConfig{
			Position: [3]float32{0, 4, 0},
			Color:    [3]float32{1, 1, 1},
			Show:     true,
			Size:     20,
		},
		Capture: CaptureConfig{
			Dir:    "./result",
			Prefix: "output",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Arity returns the parsed scene face type.
func (c *Config) Arity() (formats.Arity, error) {
	return formats.ParseArity(c.Scene.FaceType)
}

// Validate reports every setting that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Samples < 0 {
		errs = append(errs, fmt.Errorf("window samples %d must not be negative", c.Window.Samples))
	}
	if _, err := c.Arity(); err != nil {
		errs = append(errs, fmt.Errorf("scene face_type: %w", err))
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera near %g / far %g: need 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %g must be in (0, 180)", c.Camera.FOV))
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		errs = append(errs, errors.New("shaders: vertex and fragment are required"))
	}
	if (c.Shaders.TessControl == "") != (c.Shaders.TessEval == "") {
		errs = append(errs, errors.New("shaders: tess_control and tess_eval must be set together"))
	}
	return errors.Join(errs...)
}
