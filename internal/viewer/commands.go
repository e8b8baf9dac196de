package viewer

import "github.com/veandco/go-sdl2/sdl"

// Command is a keyboard action.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdToggleWireframe
	CmdInfo
	CmdToggleCapture
	CmdToggleBounds
	CmdReloadShaders
)

func (c Command) String() string {
	switch c {
	case CmdQuit:
		return "quit"
	case CmdToggleWireframe:
		return "toggle-wireframe"
	case CmdInfo:
		return "info"
	case CmdToggleCapture:
		return "toggle-capture"
	case CmdToggleBounds:
		return "toggle-bounds"
	case CmdReloadShaders:
		return "reload-shaders"
	}
	return "none"
}

// CommandFor maps a pressed key to its command.
func CommandFor(key sdl.Keycode) Command {
	switch key {
	case sdl.K_ESCAPE:
		return CmdQuit
	case sdl.K_f:
		return CmdToggleWireframe
	case sdl.K_i:
		return CmdInfo
	case sdl.K_y:
		return CmdToggleCapture
	case sdl.K_b:
		return CmdToggleBounds
	case sdl.K_r:
		return CmdReloadShaders
	}
	return CmdNone
}
