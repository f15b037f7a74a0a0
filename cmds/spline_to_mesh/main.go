package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/nd-bspline/bspline"
)

func main() {
	var shape string
	var numCoeffs int
	var order int
	var level float64
	var gridSize int
	var verbose bool
	flag.StringVar(&shape, "shape", "torus", "implicit shape to sample (sphere, torus, gyroid)")
	flag.IntVar(&numCoeffs, "coeffs", 24, "number of spline coefficients per axis")
	flag.IntVar(&order, "order", 3, "spline order along every axis")
	flag.Float64Var(&level, "level", 0, "level set of the spline to mesh")
	flag.IntVar(&gridSize, "grid-size", 64, "marching cubes grid size")
	flag.BoolVar(&verbose, "verbose", false, "log workspace growth")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: spline_to_mesh [flags] <output.stl>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	outputPath := args[0]

	field, min, max := shapeField(shape)

	log.Println("Sampling spline...")
	spline, err := bspline.SampleField(field, min, max, numCoeffs, order, bspline.ClampedBoundary())
	essentials.Must(err)
	spline.Verbose = verbose

	log.Println("Creating mesh...")
	solid, err := bspline.NewSolid(spline, min, max, level)
	essentials.Must(err)
	maxSize := max.Sub(min).MaxCoord()
	mesh := model3d.MarchingCubesSearch(solid, maxSize/float64(gridSize), 8)
	log.Printf(" - mesh has %d triangles", mesh.NumTriangles())
	essentials.Must(mesh.SaveGroupedSTL(outputPath))
}

// shapeField returns a signed field which is positive inside the named
// shape, along with a bounding box slightly larger than the shape.
func shapeField(name string) (func(c model3d.Coord3D) float64, model3d.Coord3D, model3d.Coord3D) {
	switch name {
	case "sphere":
		return func(c model3d.Coord3D) float64 {
			return 1 - c.Norm()
		}, model3d.XYZ(-1.2, -1.2, -1.2), model3d.XYZ(1.2, 1.2, 1.2)
	case "torus":
		return func(c model3d.Coord3D) float64 {
			ring := math.Hypot(c.X, c.Y) - 1
			return 0.4 - math.Hypot(ring, c.Z)
		}, model3d.XYZ(-1.5, -1.5, -0.5), model3d.XYZ(1.5, 1.5, 0.5)
	case "gyroid":
		return func(c model3d.Coord3D) float64 {
			return math.Sin(c.X)*math.Cos(c.Y) + math.Sin(c.Y)*math.Cos(c.Z) +
				math.Sin(c.Z)*math.Cos(c.X)
		}, model3d.XYZ(-math.Pi, -math.Pi, -math.Pi), model3d.XYZ(math.Pi, math.Pi, math.Pi)
	default:
		essentials.Die("unknown shape:", name)
		return nil, model3d.Coord3D{}, model3d.Coord3D{}
	}
}
