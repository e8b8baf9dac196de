package shader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBuildUnreadableSource(t *testing.T) {
	dir := t.TempDir()
	vs := filepath.Join(dir, "vs.glsl")
	if err := os.WriteFile(vs, []byte("#version 410 core\nvoid main() {}\n"), 0644); err != nil {
		t.Fatalf("failed to write shader: %v", err)
	}

	program, err := Build(Paths{
		Vertex:   vs,
		Fragment: filepath.Join(dir, "missing.glsl"),
	})
	if program != 0 {
		t.Errorf("expected program 0, got %d", program)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestBuildMissingStage(t *testing.T) {
	tests := []struct {
		name  string
		paths Paths
	}{
		{"no vertex", Paths{Fragment: "fs.glsl"}},
		{"no fragment", Paths{Vertex: "vs.glsl"}},
		{"nothing", Paths{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := Build(tt.paths)
			if program != 0 {
				t.Errorf("expected program 0, got %d", program)
			}
			if !errors.Is(err, ErrMissingStage) {
				t.Errorf("expected ErrMissingStage, got %v", err)
			}
		})
	}
}

func TestPathsFiles(t *testing.T) {
	full := Paths{Vertex: "vs", TessControl: "tcs", TessEval: "tes", Fragment: "fs"}
	if !full.Tessellated() {
		t.Error("expected tessellated paths")
	}
	if got := full.Files(); !slices.Equal(got, []string{"vs", "tcs", "tes", "fs"}) {
		t.Errorf("unexpected pipeline order %v", got)
	}

	half := Paths{Vertex: "vs", TessControl: "tcs", Fragment: "fs"}
	if half.Tessellated() {
		t.Error("one tessellation stage should not count as tessellated")
	}
	if got := half.Files(); !slices.Equal(got, []string{"vs", "fs"}) {
		t.Errorf("expected tessellation stages skipped, got %v", got)
	}
}

func TestUniformNames(t *testing.T) {
	tests := []struct {
		u    Uniform
		want string
	}{
		{Model, "M"},
		{View, "V"},
		{Projection, "P"},
		{EyePoint, "eyePoint"},
		{LightColor, "lightColor"},
		{LightPosition, "lightPosition"},
		{TexBase, "texBase"},
		{TexNormal, "texNormal"},
		{TexHeight, "texHeight"},
		{NumQuads, "numQuads"},
		{QuadIdx, "quadIdx"},
		{Uniform(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.u.String(); got != tt.want {
			t.Errorf("Uniform(%d).String() = %q, want %q", int(tt.u), got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	exposed := map[string]int32{"M": 0, "V": 1, "P": 2, "eyePoint": 5}
	var asked []string
	lookup := func(program uint32, name string) int32 {
		if program != 7 {
			t.Errorf("lookup called with program %d", program)
		}
		asked = append(asked, name)
		if loc, ok := exposed[name]; ok {
			return loc
		}
		return -1
	}

	locs := Resolve(7, lookup, Model, View, Projection, EyePoint, TexHeight)

	if len(asked) != 5 {
		t.Errorf("expected 5 lookups, got %d", len(asked))
	}
	if locs.Location(Model) != 0 || locs.Location(EyePoint) != 5 {
		t.Errorf("unexpected locations %v", locs)
	}
	if locs.Location(TexHeight) != Unresolved {
		t.Error("texHeight is not exposed and should be unresolved")
	}
	if locs.Location(LightColor) != Unresolved {
		t.Error("lightColor was not asked for and should be unresolved")
	}
	if locs.Location(Uniform(-3)) != Unresolved {
		t.Error("out-of-range uniform should be unresolved")
	}
}

func TestSettersSkipUnresolved(t *testing.T) {
	// No GL context exists here; reaching the driver would panic.
	locs := Resolve(0, func(uint32, string) int32 { return -1 }, Model, EyePoint, TexBase)

	locs.Mat4(Model, mgl32.Ident4())
	locs.Vec3(EyePoint, mgl32.Vec3{1, 2, 3})
	locs.Int(TexBase, 3)
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "fs.glsl")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(src, []byte("// v1\n"), 0644); err != nil {
		t.Fatalf("failed to write shader: %v", err)
	}

	w, err := Watch(src)
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer w.Close()

	if w.Changed() {
		t.Error("expected no change before any write")
	}

	if err := os.WriteFile(other, []byte("unrelated"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if w.Changed() {
		t.Error("unwatched file in the same directory should not count")
	}

	if err := os.WriteFile(src, []byte("// v2\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite shader: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w.Changed() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("expected a change after rewriting the watched file")
}
