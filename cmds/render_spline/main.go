package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/model3d/render3d"
	"github.com/unixpickle/nd-bspline/bspline"
)

func main() {
	var shape string
	var numCoeffs int
	var order int
	var meshGridSize int
	var gridSize int
	var imageSize int
	var fps float64
	var frames int
	flag.StringVar(&shape, "shape", "torus", "implicit shape to sample (sphere, torus)")
	flag.IntVar(&numCoeffs, "coeffs", 24, "number of spline coefficients per axis")
	flag.IntVar(&order, "order", 3, "spline order along every axis")
	flag.IntVar(&meshGridSize, "mesh-grid-size", 64, "marching cubes grid size")
	flag.IntVar(&gridSize, "grid-size", 3, "grid size (used for rows and columns)")
	flag.IntVar(&imageSize, "image-size", 300, "size of each image in the grid")
	flag.Float64Var(&fps, "fps", 10.0, "FPS for GIF outputs")
	flag.IntVar(&frames, "frames", 20, "total number of frames for GIF outputs")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: render_spline [flags] <output.png>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(1)
	}
	outputPath := args[0]

	var field func(c model3d.Coord3D) float64
	var min, max model3d.Coord3D
	switch shape {
	case "sphere":
		field = func(c model3d.Coord3D) float64 {
			return 1 - c.Norm()
		}
		min, max = model3d.XYZ(-1.2, -1.2, -1.2), model3d.XYZ(1.2, 1.2, 1.2)
	case "torus":
		field = func(c model3d.Coord3D) float64 {
			return 0.4 - math.Hypot(math.Hypot(c.X, c.Y)-1, c.Z)
		}
		min, max = model3d.XYZ(-1.5, -1.5, -0.5), model3d.XYZ(1.5, 1.5, 0.5)
	default:
		essentials.Die("unknown shape:", shape)
	}

	log.Println("Sampling spline...")
	spline, err := bspline.SampleField(field, min, max, numCoeffs, order, bspline.ClampedBoundary())
	essentials.Must(err)

	log.Println("Creating renderable object...")
	solid, err := bspline.NewSolid(spline, min, max, 0)
	essentials.Must(err)
	maxSize := max.Sub(min).MaxCoord()
	mesh := model3d.MarchingCubesSearch(solid, maxSize/float64(meshGridSize), 8)
	object := render3d.Objectify(model3d.MeshToCollider(mesh), nil)

	log.Println("Rendering...")
	ext := filepath.Ext(outputPath)
	if strings.ToLower(ext) == ".gif" {
		essentials.Must(
			render3d.SaveRotatingGIF(
				outputPath,
				object,
				model3d.Z(1),
				model3d.YZ(-1, 0.1).Normalize(),
				imageSize,
				frames,
				fps,
				nil,
			),
		)
	} else {
		essentials.Must(
			render3d.SaveRandomGrid(outputPath, object, gridSize, gridSize, imageSize, nil),
		)
	}
}
