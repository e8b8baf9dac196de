package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tessterrain/internal/config"
	"github.com/Faultbox/tessterrain/internal/engine/camera"
	"github.com/Faultbox/tessterrain/internal/engine/shader"
	"github.com/Faultbox/tessterrain/internal/engine/terrain"
)

// Surface is the drawn terrain: a loaded mesh or the unit quad.
type Surface interface {
	Draw(u terrain.FrameUniforms)
	Bounds() (terrain.Bounds, bool)
	SetTexture(slot terrain.Slot, unit int32, path string) error
	ReloadShader(paths shader.Paths) error
	Destroy()
}

func terrainPaths(c config.ShaderConfig) shader.Paths {
	return shader.Paths{
		Vertex:      c.Vertex,
		TessControl: c.TessControl,
		TessEval:    c.TessEval,
		Fragment:    c.Fragment,
	}
}

func pointPaths(c config.ShaderConfig) shader.Paths {
	return shader.Paths{Vertex: c.PointVertex, Fragment: c.PointFragment}
}

func cameraSettings(c config.CameraConfig) camera.Settings {
	return camera.Settings{
		FOV:              c.FOV,
		Near:             c.Near,
		Far:              c.Far,
		Speed:            c.Speed,
		MouseSensitivity: c.MouseSensitivity,
	}
}

// textureUnits samples only the slots that have an image configured.
func textureUnits(c config.TextureConfig) terrain.TextureUnits {
	unit := func(s config.TextureSlot) int32 {
		if s.Path == "" {
			return terrain.NoUnit
		}
		return s.Unit
	}
	return terrain.TextureUnits{
		Base:   unit(c.Base),
		Normal: unit(c.Normal),
		Height: unit(c.Height),
	}
}

func textureSlots(c config.TextureConfig) map[terrain.Slot]config.TextureSlot {
	slots := make(map[terrain.Slot]config.TextureSlot)
	for slot, s := range map[terrain.Slot]config.TextureSlot{
		terrain.SlotBase:   c.Base,
		terrain.SlotNormal: c.Normal,
		terrain.SlotHeight: c.Height,
	} {
		if s.Path != "" {
			slots[slot] = s
		}
	}
	return slots
}

func modelMatrix(scale float32) mgl32.Mat4 {
	if scale == 0 {
		scale = 1
	}
	return mgl32.Scale3D(scale, scale, scale)
}

// boundsPadding keeps the box edges off flat terrain such as the unit quad.
const boundsPadding = 0.01

func fpsTitle(title string, fps int) string {
	return fmt.Sprintf("%s - %d fps", title, fps)
}
