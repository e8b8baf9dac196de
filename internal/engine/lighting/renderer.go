package lighting

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tessterrain/internal/engine/gpu"
	"github.com/Faultbox/tessterrain/internal/engine/shader"
)

// Attribute locations shared with the point shader.
const (
	LocPosition uint32 = 0
	LocColor    uint32 = 1
)

// Renderer draws point lights with the point program.
type Renderer struct {
	program uint32
	locs    shader.Locations
}

// NewRenderer builds the point program from vertex and fragment sources.
func NewRenderer(paths shader.Paths) (*Renderer, error) {
	program, err := shader.Build(paths)
	if err != nil {
		return nil, fmt.Errorf("point shader: %w", err)
	}
	return &Renderer{
		program: program,
		locs:    shader.Resolve(program, shader.GLLookup, shader.Model, shader.View, shader.Projection),
	}, nil
}

// Draw renders each light as one point. The buffers live only for the call.
func (r *Renderer) Draw(lights []PointLight, model, view, projection mgl32.Mat4) error {
	if r.program == 0 || len(lights) == 0 {
		return nil
	}
	positions, colors := pointAttribs(lights)

	gl.UseProgram(r.program)
	r.locs.Mat4(shader.Model, model)
	r.locs.Mat4(shader.View, view)
	r.locs.Mat4(shader.Projection, projection)

	return gpu.DrawTransient(gl.POINTS,
		gpu.Attrib{Location: LocPosition, Size: 3, Data: positions},
		gpu.Attrib{Location: LocColor, Size: 3, Data: colors},
	)
}

// Program returns the point program; debug overlays reuse it for lines.
func (r *Renderer) Program() uint32 {
	return r.program
}

// Destroy releases the program.
func (r *Renderer) Destroy() {
	shader.Delete(r.program)
	r.program = 0
}
