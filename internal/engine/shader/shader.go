// Package shader builds GLSL programs from source files and tracks their
// uniform locations.
package shader

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tessterrain/internal/logger"
)

var (
	// ErrMissingStage is returned when a required stage has no source path.
	ErrMissingStage = errors.New("missing shader stage")
	// ErrCompile is returned when a stage fails to compile.
	ErrCompile = errors.New("shader compile failed")
	// ErrLink is returned when the program fails to link.
	ErrLink = errors.New("program link failed")
)

// Stage names used in diagnostics.
const (
	StageVertex      = "vertex"
	StageTessControl = "tess-control"
	StageTessEval    = "tess-eval"
	StageFragment    = "fragment"
)

// Paths holds the source file of each pipeline stage. Vertex and Fragment
// are required; the tessellation stages are attached only when both are set.
type Paths struct {
	Vertex      string
	TessControl string
	TessEval    string
	Fragment    string
}

// Tessellated reports whether both tessellation stages are configured.
func (p Paths) Tessellated() bool {
	return p.TessControl != "" && p.TessEval != ""
}

// Files returns the configured source paths in pipeline order.
func (p Paths) Files() []string {
	var files []string
	for _, s := range p.stages() {
		files = append(files, s.path)
	}
	return files
}

type stage struct {
	name string
	kind uint32
	path string
	src  string
	id   uint32
}

func (p Paths) stages() []stage {
	stages := []stage{{name: StageVertex, kind: gl.VERTEX_SHADER, path: p.Vertex}}
	if p.Tessellated() {
		stages = append(stages,
			stage{name: StageTessControl, kind: gl.TESS_CONTROL_SHADER, path: p.TessControl},
			stage{name: StageTessEval, kind: gl.TESS_EVALUATION_SHADER, path: p.TessEval},
		)
	}
	return append(stages, stage{name: StageFragment, kind: gl.FRAGMENT_SHADER, path: p.Fragment})
}

// readSources loads every stage source before any GL object exists.
func (p Paths) readSources() ([]stage, error) {
	if p.Vertex == "" || p.Fragment == "" {
		return nil, fmt.Errorf("vertex and fragment sources are required: %w", ErrMissingStage)
	}
	if (p.TessControl == "") != (p.TessEval == "") {
		logger.Warn("only one tessellation stage configured, skipping tessellation",
			zap.String("tess_control", p.TessControl),
			zap.String("tess_eval", p.TessEval))
	}

	stages := p.stages()
	for i := range stages {
		data, err := os.ReadFile(stages[i].path)
		if err != nil {
			logger.Error("cannot read shader source",
				zap.String("stage", stages[i].name),
				zap.String("path", stages[i].path),
				zap.Error(err))
			return nil, fmt.Errorf("%s shader %s: %w", stages[i].name, stages[i].path, err)
		}
		stages[i].src = string(data)
	}
	return stages, nil
}

// Build compiles every configured stage and links them into a program.
// On any failure the diagnostic is logged with its stage and Build returns
// program 0 with the error. Shader objects never outlive the call.
func Build(p Paths) (uint32, error) {
	stages, err := p.readSources()
	if err != nil {
		return 0, err
	}

	defer func() {
		for _, s := range stages {
			if s.id != 0 {
				gl.DeleteShader(s.id)
			}
		}
	}()

	for i := range stages {
		sh, err := compileShader(stages[i].src, stages[i].kind, stages[i].name)
		if err != nil {
			logger.Error("shader compile failed",
				zap.String("stage", stages[i].name),
				zap.String("path", stages[i].path),
				zap.Error(err))
			return 0, err
		}
		stages[i].id = sh
	}

	program := gl.CreateProgram()
	for _, s := range stages {
		gl.AttachShader(program, s.id)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		logger.Error("program link failed", zap.String("log", log))
		return 0, fmt.Errorf("%w: %s", ErrLink, log)
	}

	for _, s := range stages {
		gl.DetachShader(program, s.id)
	}

	logger.Debug("shader program built",
		zap.Uint32("program", program),
		zap.Bool("tessellated", p.Tessellated()))
	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s %w: %s", name, ErrCompile, log)
	}

	return shader, nil
}

func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	read(&buf[0])
	// Drop the trailing NUL
	if buf[n-1] == 0 {
		buf = buf[:n-1]
	}
	return string(buf)
}

// Delete releases a program. Program 0 is ignored.
func Delete(program uint32) {
	if program != 0 {
		gl.DeleteProgram(program)
	}
}
