package lighting

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewPointLightClampsColor(t *testing.T) {
	l := NewPointLight(mgl32.Vec3{0, 4, 0}, mgl32.Vec3{1.5, -0.2, 0.5})
	if l.Color != (mgl32.Vec3{1, 0, 0.5}) {
		t.Errorf("expected clamped color, got %v", l.Color)
	}
	if l.Position != (mgl32.Vec3{0, 4, 0}) {
		t.Errorf("position should be kept, got %v", l.Position)
	}
}

func TestPointAttribs(t *testing.T) {
	lights := []PointLight{
		{Position: mgl32.Vec3{0, 4, 0}, Color: mgl32.Vec3{1, 1, 1}},
		{Position: mgl32.Vec3{1, 2, 3}, Color: mgl32.Vec3{0.5, 0, 0}},
	}

	pos, col := pointAttribs(lights)
	if !slices.Equal(pos, []float32{0, 4, 0, 1, 2, 3}) {
		t.Errorf("unexpected positions %v", pos)
	}
	if !slices.Equal(col, []float32{1, 1, 1, 0.5, 0, 0}) {
		t.Errorf("unexpected colors %v", col)
	}
}

func TestPointAttribsCapped(t *testing.T) {
	lights := make([]PointLight, MaxPointLights+5)
	pos, col := pointAttribs(lights)
	if len(pos) != MaxPointLights*3 || len(col) != MaxPointLights*3 {
		t.Errorf("expected %d floats, got %d/%d", MaxPointLights*3, len(pos), len(col))
	}
}

func TestDrawWithoutProgramIsNoop(t *testing.T) {
	var r Renderer
	if err := r.Draw([]PointLight{{}}, mgl32.Ident4(), mgl32.Ident4(), mgl32.Ident4()); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
	r.Destroy()
}
