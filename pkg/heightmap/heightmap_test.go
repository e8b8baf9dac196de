package heightmap

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/tessterrain/pkg/formats"
)

func TestSide(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{15, 3},
		{16, 4},
		{1024 * 1024, 1024},
		{1025*1025 - 1, 1024},
	}
	for _, tt := range tests {
		if got := Side(tt.n); got != tt.want {
			t.Errorf("Side(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestCell_Corner(t *testing.T) {
	heights := []float32{-1, -0.5, 0, 0.25, 1}
	for _, h := range heights {
		col, row, gray := Cell(formats.Vertex{-1, h, -1}, 4)
		if col != 0 || row != 0 {
			t.Errorf("h=%v: expected cell (0,0), got (%d,%d)", h, col, row)
		}
		want := float64((h+1)*0.5) * 255
		if diff := float64(gray) - want; diff > 0.5 || diff < -0.5 {
			t.Errorf("h=%v: expected gray ~%.2f, got %d", h, want, gray)
		}
	}
}

func TestCell_FarEdgeClamps(t *testing.T) {
	col, row, _ := Cell(formats.Vertex{1, 0, 1}, 8)
	if col != 7 || row != 7 {
		t.Errorf("expected (7,7), got (%d,%d)", col, row)
	}

	col, row, gray := Cell(formats.Vertex{-3, 5, -3}, 8)
	if col != 0 || row != 0 {
		t.Errorf("expected out-of-range input to clamp to (0,0), got (%d,%d)", col, row)
	}
	if gray != 255 {
		t.Errorf("expected gray to saturate at 255, got %d", gray)
	}
}

type countingProgress struct{ n int }

func (c *countingProgress) Add(n int) error {
	c.n += n
	return nil
}

func TestConvert(t *testing.T) {
	// 2x2 grid with distinct heights
	vertices := []formats.Vertex{
		{-1, -1, -1},
		{0.5, 1, -1},
		{-1, 0, 0.5},
		{0.5, 0.5, 0.5},
	}
	progress := &countingProgress{}

	img, err := Convert(vertices, progress)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if img.Rect.Dx() != 2 || img.Rect.Dy() != 2 {
		t.Fatalf("expected 2x2 canvas, got %v", img.Rect)
	}
	if progress.n != 4 {
		t.Errorf("expected 4 progress ticks, got %d", progress.n)
	}

	tests := []struct {
		x, y int
		gray uint8
	}{
		{0, 0, 0},
		{1, 0, 255},
		{0, 1, 128},
		{1, 1, 191},
	}
	for _, tt := range tests {
		c := img.RGBAAt(tt.x, tt.y)
		if c.R != tt.gray || c.G != tt.gray || c.B != tt.gray || c.A != 255 {
			t.Errorf("pixel (%d,%d): expected gray %d, got %+v", tt.x, tt.y, tt.gray, c)
		}
	}
}

func TestConvert_LastWriteWins(t *testing.T) {
	vertices := []formats.Vertex{
		{-1, -1, -1},
		{-1, 1, -1},
		{-1, 0, -1},
		{-1, 0.5, -1},
	}
	img, err := Convert(vertices, nil)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if got := img.RGBAAt(0, 0).R; got != 191 {
		t.Errorf("expected last vertex to win with 191, got %d", got)
	}
	// Untouched pixels stay black but opaque
	if c := img.RGBAAt(1, 1); c.R != 0 || c.A != 255 {
		t.Errorf("expected opaque black, got %+v", c)
	}
}

func TestConvert_Empty(t *testing.T) {
	if _, err := Convert(nil, nil); !errors.Is(err, ErrEmptyCanvas) {
		t.Errorf("expected ErrEmptyCanvas, got %v", err)
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	meshPath := filepath.Join(dir, "terrain.obj")
	outPath := filepath.Join(dir, "height.png")

	src := "v -1 -1 -1\nv 0.5 1 -1\nv -1 0 0.5\nv 0.5 0.5 0.5\nvt 0 0\nvn 0 1 0\nf 1/1/1 2/1/1 4/1/1 3/1/1\n"
	if err := os.WriteFile(meshPath, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write mesh: %v", err)
	}

	var total int
	progress := &countingProgress{}
	sum, err := ConvertFile(meshPath, outPath, func(n int) Progress {
		total = n
		return progress
	})
	if err != nil {
		t.Fatalf("ConvertFile failed: %v", err)
	}
	if sum.Side != 2 || sum.Vertices != 4 {
		t.Errorf("expected 4 vertices on a side of 2, got %+v", sum)
	}
	if total != 4 || progress.n != 4 {
		t.Errorf("expected progress sized and advanced to 4, got total %d, added %d", total, progress.n)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	r, _, _, _ := img.At(1, 0).RGBA()
	if r>>8 != 255 {
		t.Errorf("expected pixel (1,0) to be 255, got %d", r>>8)
	}
}

func TestConvertFile_Missing(t *testing.T) {
	dir := t.TempDir()
	_, err := ConvertFile(filepath.Join(dir, "none.obj"), filepath.Join(dir, "out.png"), nil)
	if !errors.Is(err, formats.ErrOpen) {
		t.Errorf("expected ErrOpen, got %v", err)
	}
}

func TestWriteFile_EncodeErrorRemovesFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "empty.png")

	// PNG cannot encode a zero-sized image
	if err := WriteFile(outPath, image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatal("expected encode error")
	}
	if _, err := os.Stat(outPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected partial file to be removed, stat returned %v", err)
	}
}
