package terrain

import (
	"fmt"

	"github.com/Faultbox/tessterrain/internal/engine/gpu"
	"github.com/Faultbox/tessterrain/pkg/formats"
)

// Packed holds de-indexed vertex attributes, one entry per face corner, in
// face order then corner order. Shared vertices are duplicated so each
// face is a contiguous patch.
type Packed struct {
	Positions []float32 // 3 per corner
	UVs       []float32 // 2 per corner
	Normals   []float32 // 3 per corner
	Arity     formats.Arity
}

// VertexCount returns faces × arity.
func (p *Packed) VertexCount() int {
	return len(p.Positions) / 3
}

// Attribs returns the packed arrays bound to their shader locations.
func (p *Packed) Attribs() []gpu.Attrib {
	return []gpu.Attrib{
		{Location: LocPosition, Size: 3, Data: p.Positions},
		{Location: LocUV, Size: 2, Data: p.UVs},
		{Location: LocNormal, Size: 3, Data: p.Normals},
	}
}

// Pack flattens indexed mesh data into per-corner arrays. Data that did not
// come through the loader is checked here too: a face with the wrong corner
// count or an index past its attribute list is an error.
func Pack(d *formats.MeshData) (*Packed, error) {
	if !d.Arity.Valid() {
		return nil, fmt.Errorf("pack: arity %d: %w", int(d.Arity), formats.ErrUnsupportedArity)
	}

	a := int(d.Arity)
	n := len(d.Faces) * a
	p := &Packed{
		Positions: make([]float32, 0, n*3),
		UVs:       make([]float32, 0, n*2),
		Normals:   make([]float32, 0, n*3),
		Arity:     d.Arity,
	}

	for fi, f := range d.Faces {
		if len(f.Corners) != a {
			return nil, fmt.Errorf("pack: face %d has %d corners, expected %d: %w",
				fi, len(f.Corners), a, formats.ErrMalformed)
		}
		for ci, c := range f.Corners {
			if int(c.V) >= len(d.Vertices) || int(c.VT) >= len(d.UVs) || int(c.VN) >= len(d.Normals) {
				return nil, fmt.Errorf("pack: face %d corner %d (%d/%d/%d): %w",
					fi, ci, c.V, c.VT, c.VN, formats.ErrIndexOutOfRange)
			}
			v, uv, nm := d.Vertices[c.V], d.UVs[c.VT], d.Normals[c.VN]
			p.Positions = append(p.Positions, v[0], v[1], v[2])
			p.UVs = append(p.UVs, uv[0], uv[1])
			p.Normals = append(p.Normals, nm[0], nm[1], nm[2])
		}
	}

	return p, nil
}
