package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tessterrain/internal/logger"
)

// Uniform identifies one entry of the fixed uniform table.
type Uniform int

const (
	Model Uniform = iota
	View
	Projection
	EyePoint
	LightColor
	LightPosition
	TexBase
	TexNormal
	TexHeight
	NumQuads
	QuadIdx

	uniformCount
)

var uniformNames = [uniformCount]string{
	Model:         "M",
	View:          "V",
	Projection:    "P",
	EyePoint:      "eyePoint",
	LightColor:    "lightColor",
	LightPosition: "lightPosition",
	TexBase:       "texBase",
	TexNormal:     "texNormal",
	TexHeight:     "texHeight",
	NumQuads:      "numQuads",
	QuadIdx:       "quadIdx",
}

// String returns the GLSL name of the uniform.
func (u Uniform) String() string {
	if u < 0 || u >= uniformCount {
		return "unknown"
	}
	return uniformNames[u]
}

// Unresolved marks a uniform with no location in the program.
const Unresolved int32 = -1

// Lookup resolves a uniform name in a program to a location.
type Lookup func(program uint32, name string) int32

// GLLookup queries the current GL context.
func GLLookup(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// Locations maps every Uniform to its location in one program.
type Locations [uniformCount]int32

// Resolve looks up the given uniforms in program. Uniforms not asked for,
// and names the program does not expose, stay Unresolved; the latter are
// logged as warnings.
func Resolve(program uint32, lookup Lookup, uniforms ...Uniform) Locations {
	var locs Locations
	for i := range locs {
		locs[i] = Unresolved
	}
	for _, u := range uniforms {
		if u < 0 || u >= uniformCount {
			continue
		}
		loc := lookup(program, u.String())
		if loc < 0 {
			logger.Warn("uniform not found",
				zap.String("name", u.String()),
				zap.Uint32("program", program))
			loc = Unresolved
		}
		locs[u] = loc
	}
	return locs
}

// Location returns the uniform's location or Unresolved.
func (l *Locations) Location(u Uniform) int32 {
	if u < 0 || u >= uniformCount {
		return Unresolved
	}
	return l[u]
}

// Mat4 uploads a matrix. No-op on an unresolved uniform.
func (l *Locations) Mat4(u Uniform, m mgl32.Mat4) {
	if loc := l.Location(u); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// Vec3 uploads a vector. No-op on an unresolved uniform.
func (l *Locations) Vec3(u Uniform, v mgl32.Vec3) {
	if loc := l.Location(u); loc >= 0 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// Int uploads an integer, typically a texture unit. No-op on an
// unresolved uniform.
func (l *Locations) Int(u Uniform, v int32) {
	if loc := l.Location(u); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}
