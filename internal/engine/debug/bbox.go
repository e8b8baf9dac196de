package debug

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tessterrain/internal/engine/gpu"
	"github.com/Faultbox/tessterrain/internal/engine/shader"
	"github.com/Faultbox/tessterrain/internal/engine/terrain"
)

// BoxVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BoxVertexCount = 24

// BoxVertices creates line vertices for a wireframe box, [x, y, z] per vertex.
func BoxVertices(b terrain.Bounds) []float32 {
	minX, minY, minZ := b.Min[0], b.Min[1], b.Min[2]
	maxX, maxY, maxZ := b.Max[0], b.Max[1], b.Max[2]
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// Pad grows b by padding on every side.
func Pad(b terrain.Bounds, padding float32) terrain.Bounds {
	p := mgl32.Vec3{padding, padding, padding}
	return terrain.Bounds{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}

// BoxRenderer draws bounding boxes as lines with a position+color program
// such as the point-light program.
type BoxRenderer struct {
	program uint32
	locs    shader.Locations
	Color   mgl32.Vec3
}

// NewBoxRenderer uses program, which the caller keeps owning.
func NewBoxRenderer(program uint32, lookup shader.Lookup) *BoxRenderer {
	return &BoxRenderer{
		program: program,
		locs:    shader.Resolve(program, lookup, shader.Model, shader.View, shader.Projection),
		Color:   mgl32.Vec3{1, 1, 0},
	}
}

// Draw renders the box of b transformed by model.
func (br *BoxRenderer) Draw(b terrain.Bounds, model, view, projection mgl32.Mat4) error {
	if br.program == 0 {
		return nil
	}

	positions := BoxVertices(b)
	colors := make([]float32, 0, BoxVertexCount*3)
	for range BoxVertexCount {
		colors = append(colors, br.Color[0], br.Color[1], br.Color[2])
	}

	gl.UseProgram(br.program)
	br.locs.Mat4(shader.Model, model)
	br.locs.Mat4(shader.View, view)
	br.locs.Mat4(shader.Projection, projection)

	return gpu.DrawTransient(gl.LINES,
		gpu.Attrib{Location: 0, Size: 3, Data: positions},
		gpu.Attrib{Location: 1, Size: 3, Data: colors},
	)
}
