package terrain

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tessterrain/internal/engine/shader"
	"github.com/Faultbox/tessterrain/pkg/formats"
)

const twoTriangles = `
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
vn 0 0 1
f 1/1/1 2/2/1 3/3/2
f 1/1/1 3/3/2 4/4/1
`

func TestPackCounts(t *testing.T) {
	d, err := formats.ParseOBJ(strings.NewReader(twoTriangles), formats.Triangle)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	p, err := Pack(d)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	if p.VertexCount() != 6 {
		t.Errorf("expected F*A = 6 vertices, got %d", p.VertexCount())
	}
	if len(p.Positions) != 18 || len(p.UVs) != 12 || len(p.Normals) != 18 {
		t.Errorf("unexpected lengths %d/%d/%d", len(p.Positions), len(p.UVs), len(p.Normals))
	}
	if p.Arity != formats.Triangle {
		t.Errorf("expected triangle arity, got %v", p.Arity)
	}
}

func TestPackOrderAndDuplication(t *testing.T) {
	d, err := formats.ParseOBJ(strings.NewReader(twoTriangles), formats.Triangle)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	p, err := Pack(d)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	// Face 2 corner 2 is vertex 3, already used by face 1 corner 3
	if got := p.Positions[4*3 : 4*3+3]; !slices.Equal(got, []float32{1, 0, 1}) {
		t.Errorf("expected duplicated vertex {1 0 1}, got %v", got)
	}
	if got := p.UVs[5*2 : 5*2+2]; !slices.Equal(got, []float32{0, 1}) {
		t.Errorf("expected last uv {0 1}, got %v", got)
	}
	if got := p.Normals[2*3 : 2*3+3]; !slices.Equal(got, []float32{0, 0, 1}) {
		t.Errorf("expected third normal {0 0 1}, got %v", got)
	}

	// Every packed corner matches the record it was indexed from
	for fi, f := range d.Faces {
		for ci, c := range f.Corners {
			k := fi*3 + ci
			v := d.Vertices[c.V]
			if !slices.Equal(p.Positions[k*3:k*3+3], v[:]) {
				t.Errorf("face %d corner %d: position mismatch", fi, ci)
			}
		}
	}
}

func TestPackUnitQuad(t *testing.T) {
	p, err := Pack(UnitQuadData())
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if p.VertexCount() != 4 {
		t.Fatalf("expected one 4-corner patch, got %d vertices", p.VertexCount())
	}
	for i := range 4 {
		if got := p.Normals[i*3 : i*3+3]; !slices.Equal(got, []float32{0, 1, 0}) {
			t.Errorf("corner %d: expected shared normal {0 1 0}, got %v", i, got)
		}
	}
	if got := p.UVs[2*2 : 2*2+2]; !slices.Equal(got, []float32{1, 1}) {
		t.Errorf("expected third uv {1 1}, got %v", got)
	}
}

func TestPackEmpty(t *testing.T) {
	p, err := Pack(&formats.MeshData{Arity: formats.Quad})
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if p.VertexCount() != 0 {
		t.Errorf("expected no vertices, got %d", p.VertexCount())
	}
}

func TestPackErrors(t *testing.T) {
	quad := UnitQuadData()

	outOfRange := UnitQuadData()
	outOfRange.Faces[0].Corners[1].VN = 3

	short := UnitQuadData()
	short.Faces[0].Corners = short.Faces[0].Corners[:3]

	badArity := UnitQuadData()
	badArity.Arity = 7

	tests := []struct {
		name string
		data *formats.MeshData
		want error
	}{
		{"index out of range", outOfRange, formats.ErrIndexOutOfRange},
		{"wrong corner count", short, formats.ErrMalformed},
		{"bad arity", badArity, formats.ErrUnsupportedArity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Pack(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Pack(quad); err != nil {
		t.Errorf("unmodified quad should pack: %v", err)
	}
}

func TestPackAttribs(t *testing.T) {
	p, err := Pack(UnitQuadData())
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	attribs := p.Attribs()
	want := []struct {
		loc  uint32
		size int32
	}{{LocPosition, 3}, {LocUV, 2}, {LocNormal, 3}}
	if len(attribs) != len(want) {
		t.Fatalf("expected %d attribs, got %d", len(want), len(attribs))
	}
	for i, w := range want {
		if attribs[i].Location != w.loc || attribs[i].Size != w.size {
			t.Errorf("attrib %d: expected location %d size %d, got %d/%d",
				i, w.loc, w.size, attribs[i].Location, attribs[i].Size)
		}
	}
}

func TestDrawMode(t *testing.T) {
	tests := []struct {
		arity       formats.Arity
		tessellated bool
		want        uint32
		wantErr     bool
	}{
		{formats.Quad, true, gl.PATCHES, false},
		{formats.Triangle, true, gl.PATCHES, false},
		{formats.Triangle, false, gl.TRIANGLES, false},
		{formats.Quad, false, 0, true},
	}
	for _, tt := range tests {
		got, err := drawMode(tt.arity, tt.tessellated)
		if tt.wantErr {
			if !errors.Is(err, ErrNeedsTessellation) {
				t.Errorf("%v tessellated=%v: expected ErrNeedsTessellation, got %v", tt.arity, tt.tessellated, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%v tessellated=%v: got %d, %v", tt.arity, tt.tessellated, got, err)
		}
	}
}

func TestNewMeshShaderUnreadable(t *testing.T) {
	dir := t.TempDir()
	paths := shader.Paths{
		Vertex:      filepath.Join(dir, "vs.glsl"),
		TessControl: filepath.Join(dir, "tcs.glsl"),
		TessEval:    filepath.Join(dir, "tes.glsl"),
		Fragment:    filepath.Join(dir, "fs.glsl"),
	}

	if _, err := NewMesh(UnitQuadData(), paths); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected unreadable shader error, got %v", err)
	}
	if _, err := NewQuad(paths); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected unreadable shader error, got %v", err)
	}
}

func TestLoadMeshMissingFileStillNeedsShader(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadMesh(filepath.Join(dir, "missing.obj"), formats.Quad, shader.Paths{
		Vertex:   filepath.Join(dir, "vs.glsl"),
		Fragment: filepath.Join(dir, "fs.glsl"),
	})
	// Without tessellation stages quads cannot be drawn at all
	if !errors.Is(err, ErrNeedsTessellation) {
		t.Errorf("expected ErrNeedsTessellation, got %v", err)
	}
}

func TestDrawSkipsNonRenderable(t *testing.T) {
	m := &Mesh{surface: surface{name: "mesh", arity: formats.Quad}}
	if m.Renderable() {
		t.Fatal("zero mesh should not be renderable")
	}

	m.Draw(FrameUniforms{Textures: HeightOnly(15)})
	if !m.warned {
		t.Error("expected the skipped draw to be reported")
	}
	m.Draw(FrameUniforms{})
	m.Destroy()
}

func TestHeightOnly(t *testing.T) {
	u := HeightOnly(15)
	if u.Height != 15 || u.Base != NoUnit || u.Normal != NoUnit {
		t.Errorf("unexpected units %+v", u)
	}
}

func TestBounds(t *testing.T) {
	b := Bounds{Min: mgl32.Vec3{-1, 0, -2}, Max: mgl32.Vec3{1, 4, 2}}
	if b.Size() != (mgl32.Vec3{2, 4, 4}) {
		t.Errorf("unexpected size %v", b.Size())
	}
	if b.Center() != (mgl32.Vec3{0, 2, 0}) {
		t.Errorf("unexpected center %v", b.Center())
	}

	q := &Quad{}
	qb, ok := q.Bounds()
	if !ok || qb.Size() != (mgl32.Vec3{2, 0, 2}) {
		t.Errorf("unexpected quad bounds %v", qb)
	}
}
