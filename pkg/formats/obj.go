package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrOpen             = errors.New("cannot open mesh file")
	ErrMalformed        = errors.New("malformed mesh record")
	ErrIndexOutOfRange  = errors.New("face index out of range")
	ErrUnsupportedArity = errors.New("unsupported face arity")
)

// Record tags.
const (
	TagVertex = "v"
	TagUV     = "vt"
	TagNormal = "vn"
	TagFace   = "f"
)

// Arity is the number of corners per face, which is also the patch size
// submitted to the tessellation stages.
type Arity int

// Supported face arities.
const (
	Triangle Arity = 3
	Quad     Arity = 4
)

// String returns "triangle" or "quad".
func (a Arity) String() string {
	switch a {
	case Triangle:
		return "triangle"
	case Quad:
		return "quad"
	default:
		return fmt.Sprintf("Arity(%d)", int(a))
	}
}

// Valid reports whether a is a supported arity.
func (a Arity) Valid() bool {
	return a == Triangle || a == Quad
}

// ParseArity converts "triangle"/"tri"/"3" or "quad"/"4" to an Arity.
func ParseArity(s string) (Arity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "triangle", "tri", "3":
		return Triangle, nil
	case "quad", "4":
		return Quad, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedArity, s)
}

// Vertex is a 3D position.
type Vertex [3]float32

// UV is a 2D texture coordinate.
type UV [2]float32

// Normal is a 3D direction.
type Normal [3]float32

// Corner holds the 0-based vertex, uv and normal indices of one face corner.
type Corner struct {
	V  uint32
	VT uint32
	VN uint32
}

// Face is a polygon with exactly arity corners.
type Face struct {
	Corners []Corner
}

// MeshData is the parsed content of a mesh description file.
type MeshData struct {
	Vertices []Vertex
	UVs      []UV
	Normals  []Normal
	Faces    []Face
	Arity    Arity
}

// Empty reports whether the mesh has nothing to draw.
func (m *MeshData) Empty() bool {
	return m == nil || len(m.Faces) == 0
}

// CornerCount returns faces * arity.
func (m *MeshData) CornerCount() int {
	if m == nil {
		return 0
	}
	return len(m.Faces) * int(m.Arity)
}

// Validate checks that every face has arity corners and that every corner
// index resolves into its attribute list.
func (m *MeshData) Validate() error {
	if !m.Arity.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedArity, int(m.Arity))
	}
	for fi, f := range m.Faces {
		if len(f.Corners) != int(m.Arity) {
			return fmt.Errorf("%w: face %d has %d corners, want %d", ErrMalformed, fi, len(f.Corners), m.Arity)
		}
		for ci, c := range f.Corners {
			if int(c.V) >= len(m.Vertices) {
				return fmt.Errorf("%w: face %d corner %d vertex %d (have %d)", ErrIndexOutOfRange, fi, ci, c.V+1, len(m.Vertices))
			}
			if int(c.VT) >= len(m.UVs) {
				return fmt.Errorf("%w: face %d corner %d uv %d (have %d)", ErrIndexOutOfRange, fi, ci, c.VT+1, len(m.UVs))
			}
			if int(c.VN) >= len(m.Normals) {
				return fmt.Errorf("%w: face %d corner %d normal %d (have %d)", ErrIndexOutOfRange, fi, ci, c.VN+1, len(m.Normals))
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all vertices.
// ok is false when the mesh has no vertices.
func (m *MeshData) Bounds() (lo, hi Vertex, ok bool) {
	if m == nil || len(m.Vertices) == 0 {
		return lo, hi, false
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], v[i])
			hi[i] = max(hi[i], v[i])
		}
	}
	return lo, hi, true
}

// LoadOBJ reads a mesh file from disk. When the file cannot be opened the
// returned MeshData is empty (never nil) and the error wraps ErrOpen.
func LoadOBJ(path string, arity Arity) (*MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return &MeshData{Arity: arity}, fmt.Errorf("%w %s: %v", ErrOpen, path, err)
	}
	defer f.Close()

	data, err := ParseOBJ(f, arity)
	if err != nil {
		return &MeshData{Arity: arity}, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// ParseOBJ parses v/vt/vn/f records. Faces must carry exactly arity corner
// groups of the form v/vt/vn with 1-based indices. Unrecognized tokens are
// skipped. A malformed number rejects the whole input.
func ParseOBJ(r io.Reader, arity Arity) (*MeshData, error) {
	if !arity.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedArity, int(arity))
	}

	m := &MeshData{Arity: arity}
	tz := newTokenizer(r)

	for {
		tok, ok := tz.next()
		if !ok {
			break
		}

		switch tok {
		case TagVertex:
			var v Vertex
			if err := tz.floats(v[:]); err != nil {
				return nil, err
			}
			m.Vertices = append(m.Vertices, v)
		case TagUV:
			var uv UV
			if err := tz.floats(uv[:]); err != nil {
				return nil, err
			}
			m.UVs = append(m.UVs, uv)
		case TagNormal:
			var n Normal
			if err := tz.floats(n[:]); err != nil {
				return nil, err
			}
			m.Normals = append(m.Normals, n)
		case TagFace:
			f := Face{Corners: make([]Corner, arity)}
			for i := range f.Corners {
				c, err := tz.corner()
				if err != nil {
					return nil, err
				}
				f.Corners[i] = c
			}
			m.Faces = append(m.Faces, f)
		}
	}
	if err := tz.err(); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseVertices reads only the vertex records of a mesh file, skipping every
// other token. Used by the height-map converter, which never needs faces.
func ParseVertices(r io.Reader) ([]Vertex, error) {
	var vertices []Vertex
	tz := newTokenizer(r)
	for {
		tok, ok := tz.next()
		if !ok {
			break
		}
		if tok != TagVertex {
			continue
		}
		var v Vertex
		if err := tz.floats(v[:]); err != nil {
			return nil, err
		}
		vertices = append(vertices, v)
	}
	return vertices, tz.err()
}

// tokenizer yields whitespace-delimited tokens across lines and tracks the
// current line for error messages. '#' discards the rest of its line.
type tokenizer struct {
	sc     *bufio.Scanner
	fields []string
	line   int
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next() (string, bool) {
	for len(t.fields) == 0 {
		if !t.sc.Scan() {
			return "", false
		}
		t.line++
		text := t.sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		t.fields = strings.Fields(text)
	}
	tok := t.fields[0]
	t.fields = t.fields[1:]
	return tok, true
}

func (t *tokenizer) err() error {
	if err := t.sc.Err(); err != nil {
		return fmt.Errorf("reading mesh: %w", err)
	}
	return nil
}

func (t *tokenizer) malformed(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, t.line, fmt.Sprintf(format, args...))
}

func (t *tokenizer) floats(dst []float32) error {
	for i := range dst {
		tok, ok := t.next()
		if !ok {
			return t.malformed("unexpected end of input, want %d numbers", len(dst))
		}
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return t.malformed("bad number %q", tok)
		}
		dst[i] = float32(f)
	}
	return nil
}

// corner parses one "v/vt/vn" group and converts it to 0-based indices.
func (t *tokenizer) corner() (Corner, error) {
	tok, ok := t.next()
	if !ok {
		return Corner{}, t.malformed("unexpected end of input in face")
	}
	parts := strings.Split(tok, "/")
	if len(parts) != 3 {
		return Corner{}, t.malformed("face corner %q is not v/vt/vn", tok)
	}

	var idx [3]uint32
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil || n == 0 {
			return Corner{}, t.malformed("bad face index %q in %q", p, tok)
		}
		idx[i] = uint32(n - 1)
	}
	return Corner{V: idx[0], VT: idx[1], VN: idx[2]}, nil
}
