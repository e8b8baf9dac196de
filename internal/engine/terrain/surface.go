package terrain

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tessterrain/internal/engine/gpu"
	"github.com/Faultbox/tessterrain/internal/engine/shader"
	"github.com/Faultbox/tessterrain/internal/engine/texture"
	"github.com/Faultbox/tessterrain/internal/logger"
	"github.com/Faultbox/tessterrain/pkg/formats"
)

// ErrNeedsTessellation is returned for quad faces without tessellation
// stages; quads only render as patches.
var ErrNeedsTessellation = errors.New("quad faces need tessellation stages")

// drawMode picks the primitive for a face arity and pipeline.
func drawMode(arity formats.Arity, tessellated bool) (uint32, error) {
	if tessellated {
		return gl.PATCHES, nil
	}
	if arity == formats.Triangle {
		return gl.TRIANGLES, nil
	}
	return 0, ErrNeedsTessellation
}

type boundTexture struct {
	id   uint32
	unit int32
}

// surface is the GPU side shared by Mesh and Quad: one program, its
// uniform table, a vertex array and up to one texture per slot.
type surface struct {
	name     string
	arity    formats.Arity
	mode     uint32
	program  uint32
	locs     shader.Locations
	uniforms []shader.Uniform
	va       *gpu.VertexArray
	textures [slotCount]boundTexture
	warned   bool
}

func (s *surface) init(paths shader.Paths, packed *Packed, uniforms ...shader.Uniform) error {
	mode, err := drawMode(s.arity, paths.Tessellated())
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	s.mode = mode
	s.uniforms = uniforms

	program, err := shader.Build(paths)
	if err != nil {
		return fmt.Errorf("%s shader: %w", s.name, err)
	}
	s.program = program
	s.locs = shader.Resolve(program, shader.GLLookup, uniforms...)

	if packed.VertexCount() == 0 {
		return nil
	}
	va, err := gpu.NewVertexArray(gl.STATIC_DRAW, packed.Attribs()...)
	if err != nil {
		s.Destroy()
		return fmt.Errorf("%s buffers: %w", s.name, err)
	}
	s.va = va
	return nil
}

// Renderable reports whether Draw will issue a draw call.
func (s *surface) Renderable() bool {
	return s.program != 0 && s.va != nil && s.va.Count() > 0
}

// VertexCount returns the number of vertices uploaded.
func (s *surface) VertexCount() int32 {
	if s.va == nil {
		return 0
	}
	return s.va.Count()
}

// Program returns the current program, 0 if none.
func (s *surface) Program() uint32 {
	return s.program
}

func (s *surface) draw(u FrameUniforms, extra func(*shader.Locations)) {
	if !s.Renderable() {
		if !s.warned {
			logger.Warn("surface is not renderable, skipping draw",
				zap.String("surface", s.name),
				zap.Uint32("program", s.program),
				zap.Int32("vertices", s.VertexCount()))
			s.warned = true
		}
		return
	}

	gl.UseProgram(s.program)
	u.upload(&s.locs)
	if extra != nil {
		extra(&s.locs)
	}

	for _, t := range s.textures {
		if t.id != 0 {
			texture.Bind(t.id, t.unit)
		}
	}

	if s.mode == gl.PATCHES {
		gl.PatchParameteri(gl.PATCH_VERTICES, int32(s.arity))
	}
	s.va.Draw(s.mode)
}

// SetTexture loads path into slot on unit, replacing any previous texture
// in that slot.
func (s *surface) SetTexture(slot Slot, unit int32, path string) error {
	if slot < 0 || slot >= slotCount {
		return fmt.Errorf("%s: texture slot %d out of range", s.name, int(slot))
	}
	tex, err := texture.Load(path, unit)
	if err != nil {
		return fmt.Errorf("%s %s texture: %w", s.name, slot, err)
	}
	texture.Delete(s.textures[slot].id)
	s.textures[slot] = boundTexture{id: tex, unit: unit}

	logger.Debug("texture bound",
		zap.String("surface", s.name),
		zap.String("slot", slot.String()),
		zap.Int32("unit", unit),
		zap.String("path", path))
	return nil
}

// ReloadShader rebuilds the program from paths. On failure the previous
// program stays in use.
func (s *surface) ReloadShader(paths shader.Paths) error {
	mode, err := drawMode(s.arity, paths.Tessellated())
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	program, err := shader.Build(paths)
	if err != nil {
		return fmt.Errorf("%s shader: %w", s.name, err)
	}

	shader.Delete(s.program)
	s.program = program
	s.mode = mode
	s.locs = shader.Resolve(program, shader.GLLookup, s.uniforms...)
	s.warned = false
	logger.Info("shader reloaded", zap.String("surface", s.name), zap.Uint32("program", program))
	return nil
}

// Destroy releases every GPU object. Safe to call twice.
func (s *surface) Destroy() {
	if s.va != nil {
		s.va.Delete()
		s.va = nil
	}
	for i := range s.textures {
		texture.Delete(s.textures[i].id)
		s.textures[i] = boundTexture{}
	}
	shader.Delete(s.program)
	s.program = 0
}
