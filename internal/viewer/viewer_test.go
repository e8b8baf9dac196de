package viewer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/tessterrain/internal/config"
	"github.com/Faultbox/tessterrain/internal/engine/debug"
	"github.com/Faultbox/tessterrain/internal/engine/terrain"
)

func TestCommandFor(t *testing.T) {
	tests := []struct {
		key  sdl.Keycode
		want Command
	}{
		{sdl.K_ESCAPE, CmdQuit},
		{sdl.K_f, CmdToggleWireframe},
		{sdl.K_i, CmdInfo},
		{sdl.K_y, CmdToggleCapture},
		{sdl.K_b, CmdToggleBounds},
		{sdl.K_r, CmdReloadShaders},
		{sdl.K_w, CmdNone},
		{sdl.K_SPACE, CmdNone},
	}
	for _, tt := range tests {
		if got := CommandFor(tt.key); got != tt.want {
			t.Errorf("CommandFor(%d) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestCommandString(t *testing.T) {
	if CmdToggleCapture.String() != "toggle-capture" {
		t.Errorf("unexpected name %q", CmdToggleCapture.String())
	}
	if Command(99).String() != "none" {
		t.Errorf("unknown command should be none, got %q", Command(99).String())
	}
}

func TestTextureUnits(t *testing.T) {
	cfg := config.Default()

	// Only the height map has an image by default
	u := textureUnits(cfg.Textures)
	if u != terrain.HeightOnly(15) {
		t.Errorf("expected height-only units, got %+v", u)
	}

	cfg.Textures.Base.Path = "./res/base.png"
	u = textureUnits(cfg.Textures)
	if u.Base != 3 || u.Normal != terrain.NoUnit || u.Height != 15 {
		t.Errorf("unexpected units %+v", u)
	}

	slots := textureSlots(cfg.Textures)
	if len(slots) != 2 {
		t.Fatalf("expected 2 configured slots, got %d", len(slots))
	}
	if slots[terrain.SlotHeight].Unit != 15 || slots[terrain.SlotBase].Path != "./res/base.png" {
		t.Errorf("unexpected slots %+v", slots)
	}
}

func TestShaderPaths(t *testing.T) {
	cfg := config.Default()

	tp := terrainPaths(cfg.Shaders)
	if !tp.Tessellated() {
		t.Error("default terrain program should be tessellated")
	}
	if tp.Vertex != cfg.Shaders.Vertex || tp.TessEval != cfg.Shaders.TessEval {
		t.Errorf("unexpected terrain paths %+v", tp)
	}

	pp := pointPaths(cfg.Shaders)
	if pp.Tessellated() || pp.Vertex != cfg.Shaders.PointVertex || pp.Fragment != cfg.Shaders.PointFragment {
		t.Errorf("unexpected point paths %+v", pp)
	}
}

func TestCameraSettings(t *testing.T) {
	cfg := config.Default()
	s := cameraSettings(cfg.Camera)
	if s.FOV != 45 || s.Speed != 5 || s.MouseSensitivity != 0.005 || s.Near != 0.01 || s.Far != 1000 {
		t.Errorf("unexpected settings %+v", s)
	}
}

func TestModelMatrix(t *testing.T) {
	m := modelMatrix(10)
	p := m.Mul4x1(mgl32.Vec4{1, 0.5, -1, 1})
	if p != (mgl32.Vec4{10, 5, -10, 1}) {
		t.Errorf("expected uniform scale by 10, got %v", p)
	}

	if modelMatrix(0) != mgl32.Ident4() {
		t.Error("zero scale should fall back to identity")
	}
}

func TestFPSTitle(t *testing.T) {
	if got := fpsTitle("Tessellated terrain", 60); got != "Tessellated terrain - 60 fps" {
		t.Errorf("unexpected title %q", got)
	}
}

func TestBoundsPaddingClearsFlatQuad(t *testing.T) {
	b := debug.Pad(terrain.Bounds{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{1, 0, 1}}, boundsPadding)
	if b.Min.Y() >= 0 || b.Max.Y() <= 0 {
		t.Errorf("padded box should straddle y=0, got %v", b)
	}
}
