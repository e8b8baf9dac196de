// mesh2height rasterizes the vertices of a terrain mesh into a grayscale
// height map.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/Faultbox/tessterrain/pkg/heightmap"
)

func main() {
	fs := flag.NewFlagSet("mesh2height", flag.ExitOnError)
	in := fs.String("in", "terrain.obj", "Input mesh file")
	out := fs.String("out", "height.png", "Output PNG file")
	quiet := fs.Bool("quiet", false, "Do not show progress")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `mesh2height - terrain mesh to height map converter

Usage:
  mesh2height [-in terrain.obj] [-out height.png] [-quiet]

Every "v x y z" record becomes one pixel of a square canvas whose side is
the square root of the vertex count. x and z pick the pixel, y its gray
level; coordinates are expected in [-1, 1].`)
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	if err := convert(*in, *out, *quiet); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func convert(inPath, outPath string, quiet bool) error {
	var newProgress heightmap.ProgressFunc
	if !quiet {
		newProgress = func(total int) heightmap.Progress {
			return progressbar.Default(int64(total), "rasterizing")
		}
	}

	sum, err := heightmap.ConvertFile(inPath, outPath, newProgress)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d vertices -> %dx%d %s\n", inPath, sum.Vertices, sum.Side, sum.Side, outPath)
	return nil
}
