// Package camera provides the free-fly camera driven by pointer and keys.
package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Settings tunes the projection and how input moves the camera.
type Settings struct {
	FOV              float32 // vertical field of view, degrees
	Near             float32
	Far              float32
	Speed            float32 // units per second
	MouseSensitivity float32 // radians per pixel
}

// Movement holds the movement keys held this frame.
type Movement struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
}

// Input is one frame of user input.
type Input struct {
	// DX, DY is the pointer displacement from the window center. The caller
	// re-centers the pointer after sampling.
	DX, DY  float32
	Keys    Movement
	Elapsed float32 // seconds since the previous frame
}

// State is the camera after an update.
type State struct {
	Eye        mgl32.Vec3
	Horizontal float32 // radians, unbounded
	Vertical   float32 // radians, unbounded
	Direction  mgl32.Vec3
	Right      mgl32.Vec3
	Up         mgl32.Vec3
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Report formats the eye and the angles wrapped to one turn.
func (s State) Report() string {
	return fmt.Sprintf("eye (%f, %f, %f) horizontal %f vertical %f",
		s.Eye[0], s.Eye[1], s.Eye[2],
		wrapAngle(s.Horizontal), wrapAngle(s.Vertical))
}

func wrapAngle(a float32) float32 {
	return float32(math.Mod(float64(a), 2*math.Pi))
}

// Controller turns input into camera state. It holds the only mutable
// camera values: eye and the two spherical angles.
type Controller struct {
	settings   Settings
	aspect     float32
	eye        mgl32.Vec3
	horizontal float32
	vertical   float32
}

// NewController places the camera at eye looking along the given angles.
func NewController(s Settings, eye mgl32.Vec3, horizontal, vertical, aspect float32) *Controller {
	return &Controller{
		settings:   s,
		aspect:     aspect,
		eye:        eye,
		horizontal: horizontal,
		vertical:   vertical,
	}
}

// SetAspect changes the projection aspect ratio, e.g. after a resize.
func (c *Controller) SetAspect(aspect float32) {
	if aspect > 0 {
		c.aspect = aspect
	}
}

// Update applies one frame of input and returns the new state.
func (c *Controller) Update(in Input) State {
	c.horizontal += c.settings.MouseSensitivity * in.DX
	c.vertical += c.settings.MouseSensitivity * -in.DY

	dir, right, up := basis(c.horizontal, c.vertical)

	step := in.Elapsed * c.settings.Speed
	if in.Keys.Forward {
		c.eye = c.eye.Add(dir.Mul(step))
	}
	if in.Keys.Back {
		c.eye = c.eye.Sub(dir.Mul(step))
	}
	if in.Keys.Right {
		c.eye = c.eye.Add(right.Mul(step))
	}
	if in.Keys.Left {
		c.eye = c.eye.Sub(right.Mul(step))
	}

	return State{
		Eye:        c.eye,
		Horizontal: c.horizontal,
		Vertical:   c.vertical,
		Direction:  dir,
		Right:      right,
		Up:         up,
		View:       mgl32.LookAtV(c.eye, c.eye.Add(dir), up),
		Projection: c.projection(),
	}
}

// State returns the current state without applying input.
func (c *Controller) State() State {
	return c.Update(Input{})
}

func (c *Controller) projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.settings.FOV), c.aspect, c.settings.Near, c.settings.Far)
}

// basis converts spherical angles to the view direction and the right and
// up vectors.
func basis(horizontal, vertical float32) (dir, right, up mgl32.Vec3) {
	h, v := float64(horizontal), float64(vertical)
	dir = mgl32.Vec3{
		float32(math.Sin(v) * math.Cos(h)),
		float32(math.Cos(v)),
		float32(math.Sin(v) * math.Sin(h)),
	}
	right = mgl32.Vec3{
		float32(math.Cos(h - math.Pi/2)),
		0,
		float32(math.Sin(h - math.Pi/2)),
	}
	up = right.Cross(dir)
	return dir, right, up
}
