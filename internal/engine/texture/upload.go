package texture

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Load decodes path and uploads it to a new texture bound on unit.
func Load(path string, unit int32) (uint32, error) {
	img, _, err := Decode(path)
	if err != nil {
		return 0, err
	}
	tex, err := Upload(ImageToRGBA(img, true), unit)
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", path, err)
	}
	return tex, nil
}

// Upload creates a texture on unit from img. The texture stays bound to
// that unit when Upload returns.
func Upload(img *image.RGBA, unit int32) (uint32, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0, ErrEmptyImage
	}

	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return tex, nil
}

// Bind binds tex to unit.
func Bind(tex uint32, unit int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

// Delete releases tex. Texture 0 is ignored.
func Delete(tex uint32) {
	if tex != 0 {
		gl.DeleteTextures(1, &tex)
	}
}
