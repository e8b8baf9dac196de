// Package heightmap converts a terrain mesh into a grayscale height-map image.
//
// The xz-plane of the mesh is the image plane and the y-axis is the height.
// Coordinates are expected in [-1, 1] and the terrain must have the same
// number of vertices along x and z.
package heightmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/Faultbox/tessterrain/pkg/formats"
)

// ErrEmptyCanvas is returned when there are no vertices to rasterize.
var ErrEmptyCanvas = errors.New("no vertices to rasterize")

// Scale maps a normalized height in [0, 1] to a pixel value.
const Scale = 255.0

// Side returns the canvas side length for n vertices: the integer square root.
func Side(n int) int {
	if n <= 0 {
		return 0
	}
	s := int(math.Sqrt(float64(n)))
	// Correct for float rounding on large n.
	for s*s > n {
		s--
	}
	for (s+1)*(s+1) <= n {
		s++
	}
	return s
}

// Cell returns the pixel column and row a vertex lands on for a canvas of the
// given side, along with its gray value.
func Cell(v formats.Vertex, side int) (col, row int, gray uint8) {
	// [-1, 1] to [0, 1]
	x := (v[0] + 1) * 0.5
	y := (v[1] + 1) * 0.5
	z := (v[2] + 1) * 0.5

	col = clampInt(int(min(x*float32(side), float32(side-1))), 0, side-1)
	row = clampInt(int(min(z*float32(side), float32(side-1))), 0, side-1)

	value := math.Round(float64(y) * Scale)
	gray = uint8(math.Max(0, math.Min(255, value)))
	return col, row, gray
}

// Progress is notified once per rasterized vertex.
type Progress interface {
	Add(n int) error
}

// Convert rasterizes the vertices into an opaque grayscale canvas. When
// several vertices land on the same pixel, the last one wins.
func Convert(vertices []formats.Vertex, progress Progress) (*image.RGBA, error) {
	side := Side(len(vertices))
	if side == 0 {
		return nil, ErrEmptyCanvas
	}

	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	for i := range canvas.Pix {
		if i%4 == 3 {
			canvas.Pix[i] = 0xff
		}
	}

	for _, v := range vertices {
		col, row, gray := Cell(v, side)
		canvas.SetRGBA(col, row, color.RGBA{R: gray, G: gray, B: gray, A: 0xff})
		if progress != nil {
			_ = progress.Add(1)
		}
	}

	return canvas, nil
}

// Encode writes the canvas as PNG. Since the canvas is opaque, the encoder
// emits a 3-channel truecolor image.
func Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// ReadVertices reads the vertex records of a mesh file.
func ReadVertices(meshPath string) ([]formats.Vertex, error) {
	in, err := os.Open(meshPath)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", formats.ErrOpen, meshPath, err)
	}
	defer in.Close()

	vertices, err := formats.ParseVertices(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", meshPath, err)
	}
	return vertices, nil
}

// WriteFile encodes img as PNG to outPath.
func WriteFile(outPath string, img image.Image) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := Encode(out, img); err != nil {
		out.Close()
		os.Remove(outPath)
		return fmt.Errorf("encoding %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("closing %s: %w", outPath, err)
	}
	return nil
}

// Summary describes a finished conversion.
type Summary struct {
	Vertices int
	Side     int
}

// ProgressFunc creates the progress reporter once the vertex count is known.
type ProgressFunc func(total int) Progress

// ConvertFile reads the vertex records of meshPath and writes the height map
// to outPath. newProgress may be nil.
func ConvertFile(meshPath, outPath string, newProgress ProgressFunc) (Summary, error) {
	vertices, err := ReadVertices(meshPath)
	if err != nil {
		return Summary{}, err
	}

	var progress Progress
	if newProgress != nil {
		progress = newProgress(len(vertices))
	}

	canvas, err := Convert(vertices, progress)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", meshPath, err)
	}
	if err := WriteFile(outPath, canvas); err != nil {
		return Summary{}, err
	}
	return Summary{Vertices: len(vertices), Side: canvas.Rect.Dx()}, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
