// Package texture decodes image files and uploads them to texture units.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"

	// Registered decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("empty image")

// Decode reads an image file in any registered format.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, format, fmt.Errorf("decode %s: %w", path, ErrEmptyImage)
	}
	return img, format, nil
}

// ImageToRGBA converts any image to tightly packed RGBA with its origin at
// (0,0). With flipY the rows are reversed so the first row in memory is the
// bottom of the picture, which is what GL texture coordinates expect.
func ImageToRGBA(img image.Image, flipY bool) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	if flipY {
		FlipRows(rgba)
	}
	return rgba
}

// FlipRows reverses the row order of img in place.
func FlipRows(img *image.RGBA) {
	h := img.Bounds().Dy()
	rowLen := img.Bounds().Dx() * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bot := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}
