// Package terrain uploads tessellation-ready meshes and draws them with the
// Phong terrain program.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tessterrain/internal/engine/shader"
)

// Attribute locations shared with the terrain vertex shader.
const (
	LocPosition uint32 = 0
	LocUV       uint32 = 1
	LocNormal   uint32 = 2
)

// NoUnit leaves a texture slot out of a draw.
const NoUnit int32 = -1

// TextureUnits selects the texture unit sampled by each slot uniform.
type TextureUnits struct {
	Base   int32
	Normal int32
	Height int32
}

// HeightOnly samples only the height map, on unit.
func HeightOnly(unit int32) TextureUnits {
	return TextureUnits{Base: NoUnit, Normal: NoUnit, Height: unit}
}

// FrameUniforms is everything a terrain draw uploads each frame.
type FrameUniforms struct {
	Model         mgl32.Mat4
	View          mgl32.Mat4
	Projection    mgl32.Mat4
	Eye           mgl32.Vec3
	LightColor    mgl32.Vec3
	LightPosition mgl32.Vec3
	Textures      TextureUnits
}

// Slot names one of the textures a surface owns.
type Slot int

const (
	SlotBase Slot = iota
	SlotNormal
	SlotHeight

	slotCount
)

func (s Slot) String() string {
	switch s {
	case SlotBase:
		return "base"
	case SlotNormal:
		return "normal"
	case SlotHeight:
		return "height"
	}
	return "unknown"
}

// Bounds is an axis-aligned bounding box in model space.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Size returns the extent along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the middle of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// upload writes the per-frame uniforms. Unresolved uniforms and slots set to
// NoUnit are skipped.
func (u FrameUniforms) upload(locs *shader.Locations) {
	locs.Mat4(shader.Model, u.Model)
	locs.Mat4(shader.View, u.View)
	locs.Mat4(shader.Projection, u.Projection)
	locs.Vec3(shader.EyePoint, u.Eye)
	locs.Vec3(shader.LightColor, u.LightColor)
	locs.Vec3(shader.LightPosition, u.LightPosition)

	if u.Textures.Base != NoUnit {
		locs.Int(shader.TexBase, u.Textures.Base)
	}
	if u.Textures.Normal != NoUnit {
		locs.Int(shader.TexNormal, u.Textures.Normal)
	}
	if u.Textures.Height != NoUnit {
		locs.Int(shader.TexHeight, u.Textures.Height)
	}
}
