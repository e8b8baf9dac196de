package terrain

import (
	"github.com/Faultbox/tessterrain/internal/engine/shader"
	"github.com/Faultbox/tessterrain/pkg/formats"
)

var quadUniforms = []shader.Uniform{
	shader.Model, shader.View, shader.Projection,
	shader.EyePoint, shader.LightColor, shader.LightPosition,
	shader.TexBase, shader.TexNormal, shader.TexHeight,
	shader.NumQuads, shader.QuadIdx,
}

// QuadGrid places the quad as one tile of a Count × Count grid.
type QuadGrid struct {
	Count int32
	Index int32
}

// UnitQuadData is the built-in mesh: one upward-facing quad spanning
// [-1,1] on X and Z.
func UnitQuadData() *formats.MeshData {
	return &formats.MeshData{
		Vertices: []formats.Vertex{{-1, 0, -1}, {1, 0, -1}, {1, 0, 1}, {-1, 0, 1}},
		UVs:      []formats.UV{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Normals:  []formats.Normal{{0, 1, 0}},
		// Counter-clockwise seen from +Y
		Faces: []formats.Face{{Corners: []formats.Corner{
			{V: 0, VT: 0, VN: 0},
			{V: 3, VT: 3, VN: 0},
			{V: 2, VT: 2, VN: 0},
			{V: 1, VT: 1, VN: 0},
		}}},
		Arity: formats.Quad,
	}
}

// Quad draws the unit quad as a single tessellated patch.
type Quad struct {
	surface
	Grid QuadGrid
}

// NewQuad uploads the unit quad with a program built from paths.
func NewQuad(paths shader.Paths) (*Quad, error) {
	packed, err := Pack(UnitQuadData())
	if err != nil {
		return nil, err
	}

	q := &Quad{
		surface: surface{name: "quad", arity: formats.Quad},
		Grid:    QuadGrid{Count: 1},
	}
	if err := q.init(paths, packed, quadUniforms...); err != nil {
		return nil, err
	}
	return q, nil
}

// Draw uploads the frame and grid uniforms and draws the patch.
func (q *Quad) Draw(u FrameUniforms) {
	q.draw(u, func(locs *shader.Locations) {
		locs.Int(shader.NumQuads, q.Grid.Count)
		locs.Int(shader.QuadIdx, q.Grid.Index)
	})
}

// Bounds returns the quad's fixed extent.
func (q *Quad) Bounds() (Bounds, bool) {
	return Bounds{Min: [3]float32{-1, 0, -1}, Max: [3]float32{1, 0, 1}}, true
}
