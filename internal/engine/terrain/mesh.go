package terrain

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/tessterrain/internal/engine/shader"
	"github.com/Faultbox/tessterrain/internal/logger"
	"github.com/Faultbox/tessterrain/pkg/formats"
)

var meshUniforms = []shader.Uniform{
	shader.Model, shader.View, shader.Projection,
	shader.EyePoint, shader.LightColor, shader.LightPosition,
	shader.TexBase, shader.TexNormal, shader.TexHeight,
}

// Mesh is a loaded mesh drawn as one patch per face.
type Mesh struct {
	surface
	bounds Bounds
	hasBox bool
}

// LoadMesh reads an OBJ file and uploads it. A file that cannot be opened
// or parsed is logged and yields a mesh that draws nothing; only shader
// and GPU failures are returned.
func LoadMesh(path string, arity formats.Arity, paths shader.Paths) (*Mesh, error) {
	data, err := formats.LoadOBJ(path, arity)
	if err != nil {
		logger.Error("cannot load mesh, continuing with an empty one",
			zap.String("path", path),
			zap.Stringer("faces", arity),
			zap.Error(err))
	}
	if errors.Is(err, formats.ErrUnsupportedArity) {
		return nil, err
	}
	return NewMesh(data, paths)
}

// NewMesh packs data and uploads it with a program built from paths.
func NewMesh(data *formats.MeshData, paths shader.Paths) (*Mesh, error) {
	packed, err := Pack(data)
	if err != nil {
		return nil, err
	}

	m := &Mesh{surface: surface{name: "mesh", arity: data.Arity}}
	if lo, hi, ok := data.Bounds(); ok {
		m.bounds = Bounds{Min: mgl32.Vec3(lo), Max: mgl32.Vec3(hi)}
		m.hasBox = true
	}

	if err := m.init(paths, packed, meshUniforms...); err != nil {
		return nil, err
	}

	logger.Info("mesh uploaded",
		zap.Int("faces", len(data.Faces)),
		zap.Stringer("arity", data.Arity),
		zap.Int("vertices", packed.VertexCount()))
	return m, nil
}

// Draw uploads the frame uniforms and issues one draw of every face.
// A mesh without faces or without a program is skipped; the first skip is
// logged.
func (m *Mesh) Draw(u FrameUniforms) {
	m.draw(u, nil)
}

// Bounds returns the model-space bounding box; false for an empty mesh.
func (m *Mesh) Bounds() (Bounds, bool) {
	return m.bounds, m.hasBox
}
