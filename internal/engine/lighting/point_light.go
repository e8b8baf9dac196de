// Package lighting provides the scene's point lights and draws them as
// point sprites.
package lighting

import "github.com/go-gl/mathgl/mgl32"

// MaxPointLights bounds how many lights a single draw uploads.
const MaxPointLights = 32

// PointLight is a light source at a world position.
type PointLight struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3 // RGB, 0-1 range
}

// NewPointLight returns a light with its color clamped to 0-1.
func NewPointLight(position, color mgl32.Vec3) PointLight {
	for i := range color {
		color[i] = mgl32.Clamp(color[i], 0, 1)
	}
	return PointLight{Position: position, Color: color}
}

// pointAttribs flattens lights into position and color arrays, three
// floats each per light.
func pointAttribs(lights []PointLight) (positions, colors []float32) {
	n := min(len(lights), MaxPointLights)
	positions = make([]float32, 0, n*3)
	colors = make([]float32, 0, n*3)
	for _, l := range lights[:n] {
		positions = append(positions, l.Position[0], l.Position[1], l.Position[2])
		colors = append(colors, l.Color[0], l.Color[1], l.Color[2])
	}
	return positions, colors
}
