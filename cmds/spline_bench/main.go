package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/nd-bspline/bspline"
	"gonum.org/v1/gonum/floats"
)

func main() {
	var numDims int
	var numOutputs int
	var numCoeffs int
	var order int
	var derivative int
	var numPoints int
	var concurrency int
	var chunkSize int
	var trials int
	var seed int64
	flag.IntVar(&numDims, "dims", 3, "number of input axes")
	flag.IntVar(&numOutputs, "outputs", 1, "number of output values per point")
	flag.IntVar(&numCoeffs, "coeffs", 32, "number of coefficients per axis")
	flag.IntVar(&order, "order", 3, "spline order along every axis")
	flag.IntVar(&derivative, "derivative", 0, "derivative order along every axis")
	flag.IntVar(&numPoints, "points", 100000, "number of points per batch")
	flag.IntVar(&concurrency, "concurrency", 0, "number of Goroutines (0 for GOMAXPROCS)")
	flag.IntVar(&chunkSize, "chunk-size", bspline.DefaultParallelChunkSize,
		"points per chunk when evaluating in parallel")
	flag.IntVar(&trials, "trials", 10, "number of timed batches per mode")
	flag.Int64Var(&seed, "seed", 0, "random seed")
	flag.Parse()

	if len(flag.Args()) != 0 {
		essentials.Die("unexpected arguments:", flag.Args())
	}
	if trials < 1 {
		essentials.Die("need at least one trial")
	}
	rng := rand.New(rand.NewSource(seed))

	log.Println("Creating spline...")
	knots := make([][]float64, numDims)
	shape := []int{numOutputs}
	for i := range knots {
		t, err := bspline.OpenUniformKnots(0.0, 1.0, numCoeffs, order)
		essentials.Must(err)
		knots[i] = t
		shape = append(shape, numCoeffs)
	}
	coeffs := bspline.NewArray[float64](shape...)
	for i := range coeffs.Data {
		coeffs.Data[i] = rng.NormFloat64()
	}
	spline, err := bspline.NewEvaluator(knots, coeffs, []int{order}, nil)
	essentials.Must(err)

	x := bspline.NewArray[float64](numDims, numPoints)
	for i := range x.Data {
		x.Data[i] = rng.Float64()
	}

	log.Println("Benchmarking serial evaluation...")
	serial := benchmark(trials, numPoints, func() {
		_, err := spline.Evaluate(x, derivative)
		essentials.Must(err)
	})
	log.Println("Benchmarking parallel evaluation...")
	parallel := benchmark(trials, numPoints, func() {
		_, err := bspline.ParallelEvaluate(spline, x, concurrency, chunkSize, derivative)
		essentials.Must(err)
	})

	fmt.Printf("Spline: %d axes, %d outputs, %d coefficients of order %d per axis\n",
		numDims, numOutputs, numCoeffs, order)
	printStats("serial", serial)
	printStats("parallel", parallel)
}

// benchmark returns the throughput, in points per second, of every trial.
func benchmark(trials, numPoints int, f func()) []float64 {
	// Warm up the workspace so growth is not timed.
	f()
	res := make([]float64, trials)
	for i := range res {
		start := time.Now()
		f()
		res[i] = float64(numPoints) / time.Since(start).Seconds()
	}
	return res
}

func printStats(name string, throughputs []float64) {
	mean := floats.Sum(throughputs) / float64(len(throughputs))
	fmt.Printf("%-8s mean %.3g pts/s (min %.3g, max %.3g)\n", name, mean,
		floats.Min(throughputs), floats.Max(throughputs))
}
