// Package debug provides frame capture and debug overlays.
package debug

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/tessterrain/internal/engine/texture"
)

// FrameRecorder writes numbered frames while recording is on.
type FrameRecorder struct {
	outputDir string
	prefix    string
	frame     int
	recording bool
	encode    func(io.Writer, image.Image) error
}

// NewFrameRecorder creates a recorder writing <outputDir>/<prefix>NNNN.bmp.
func NewFrameRecorder(outputDir, prefix string) *FrameRecorder {
	return &FrameRecorder{
		outputDir: outputDir,
		prefix:    prefix,
		encode:    bmp.Encode,
	}
}

// Toggle starts or stops recording and restarts numbering at zero.
// Returns whether recording is now on.
func (fr *FrameRecorder) Toggle() bool {
	fr.recording = !fr.recording
	fr.frame = 0
	return fr.recording
}

// Recording reports whether frames are being saved.
func (fr *FrameRecorder) Recording() bool {
	return fr.recording
}

// Frame returns the number the next saved frame will get.
func (fr *FrameRecorder) Frame() int {
	return fr.frame
}

// NextPath returns the path the next frame will be written to.
func (fr *FrameRecorder) NextPath() string {
	name := fmt.Sprintf("%s%04d.bmp", fr.prefix, fr.frame)
	if fr.outputDir == "" {
		return name
	}
	return filepath.Join(fr.outputDir, name)
}

// Save writes a frame read back from GL. pixels has a bottom-left origin
// and is flipped and made opaque in place before encoding. The counter
// advances only on success.
func (fr *FrameRecorder) Save(pixels *image.RGBA) (string, error) {
	if pixels.Bounds().Empty() {
		return "", fmt.Errorf("capture frame %d: %w", fr.frame, texture.ErrEmptyImage)
	}

	if fr.outputDir != "" {
		if err := os.MkdirAll(fr.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	texture.FlipRows(pixels)
	for i := 3; i < len(pixels.Pix); i += 4 {
		pixels.Pix[i] = 0xff
	}

	filename := fr.NextPath()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if err := fr.encode(file, pixels); err != nil {
		file.Close()
		os.Remove(filename)
		return "", fmt.Errorf("encoding BMP %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(filename)
		return "", fmt.Errorf("closing %s: %w", filename, err)
	}

	fr.frame++
	return filename, nil
}
