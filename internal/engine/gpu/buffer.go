// Package gpu wraps vertex arrays and their buffers.
//
// Every call here requires a current GL context on the render thread.
// Buffers are bound explicitly before each use; no helper relies on a
// binding left behind by another.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var (
	// ErrNoVertices is returned when the attributes hold no vertex.
	ErrNoVertices = errors.New("no vertices")
	// ErrAttribMismatch is returned when attributes disagree on vertex count.
	ErrAttribMismatch = errors.New("attribute vertex counts differ")
)

// Attrib is one float vertex attribute stored in its own buffer.
type Attrib struct {
	Location uint32    // shader attribute location
	Size     int32     // components per vertex, 1..4
	Data     []float32 // tightly packed, Size floats per vertex
}

// VertexCount returns the number of vertices the attributes describe.
func VertexCount(attribs ...Attrib) (int32, error) {
	if len(attribs) == 0 {
		return 0, ErrNoVertices
	}

	count := -1
	for _, a := range attribs {
		if a.Size < 1 || a.Size > 4 {
			return 0, fmt.Errorf("attribute %d: size %d out of range 1..4", a.Location, a.Size)
		}
		if len(a.Data)%int(a.Size) != 0 {
			return 0, fmt.Errorf("attribute %d: %d floats is not a multiple of %d: %w",
				a.Location, len(a.Data), a.Size, ErrAttribMismatch)
		}
		n := len(a.Data) / int(a.Size)
		if count >= 0 && n != count {
			return 0, fmt.Errorf("attribute %d has %d vertices, expected %d: %w",
				a.Location, n, count, ErrAttribMismatch)
		}
		count = n
	}
	if count == 0 {
		return 0, ErrNoVertices
	}
	return int32(count), nil
}

// VertexArray is a vertex array object with one buffer per attribute.
type VertexArray struct {
	vao   uint32
	vbos  []uint32
	count int32
}

// NewVertexArray uploads the attributes into fresh buffers. Usage is a
// buffer usage hint such as gl.STATIC_DRAW.
func NewVertexArray(usage uint32, attribs ...Attrib) (*VertexArray, error) {
	count, err := VertexCount(attribs...)
	if err != nil {
		return nil, err
	}

	va := &VertexArray{count: count, vbos: make([]uint32, len(attribs))}
	gl.GenVertexArrays(1, &va.vao)
	gl.BindVertexArray(va.vao)

	gl.GenBuffers(int32(len(va.vbos)), &va.vbos[0])
	for i, a := range attribs {
		gl.BindBuffer(gl.ARRAY_BUFFER, va.vbos[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(a.Data)*4, gl.Ptr(a.Data), usage)
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, 0, 0)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return va, nil
}

// Count returns the number of vertices uploaded.
func (va *VertexArray) Count() int32 {
	return va.count
}

// Draw issues one non-indexed draw of every vertex.
func (va *VertexArray) Draw(mode uint32) {
	if va.vao == 0 {
		return
	}
	gl.BindVertexArray(va.vao)
	gl.DrawArrays(mode, 0, va.count)
	gl.BindVertexArray(0)
}

// Delete releases the buffers and the vertex array. Safe to call twice.
func (va *VertexArray) Delete() {
	if len(va.vbos) > 0 {
		gl.DeleteBuffers(int32(len(va.vbos)), &va.vbos[0])
		va.vbos = nil
	}
	if va.vao != 0 {
		gl.DeleteVertexArrays(1, &va.vao)
		va.vao = 0
	}
	va.count = 0
}

// DrawTransient uploads the attributes, draws them once and releases every
// object it created before returning.
func DrawTransient(mode uint32, attribs ...Attrib) error {
	va, err := NewVertexArray(gl.STREAM_DRAW, attribs...)
	if err != nil {
		return err
	}
	defer va.Delete()

	va.Draw(mode)
	return nil
}
