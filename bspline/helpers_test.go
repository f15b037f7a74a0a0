package bspline

import (
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"
)

// randomKnots creates a clamped knot vector over [lo, hi] with n
// coefficients of order k whose interior knots are random and occasionally
// repeated up to k+1 times.
func randomKnots(r *rand.Rand, lo, hi float64, n, k int) []float64 {
	interior := make([]float64, 0, n-k-1)
	for len(interior) < n-k-1 {
		x := lo + (hi-lo)*(0.05+0.9*r.Float64())
		reps := 1
		if r.Intn(4) == 0 {
			reps = 1 + r.Intn(k+1)
		}
		for i := 0; i < reps && len(interior) < n-k-1; i++ {
			interior = append(interior, x)
		}
	}
	slices.Sort(interior)
	t := make([]float64, 0, n+k+1)
	for i := 0; i <= k; i++ {
		t = append(t, lo)
	}
	t = append(t, interior...)
	for i := 0; i <= k; i++ {
		t = append(t, hi)
	}
	return t
}

// referenceBasis evaluates the i-th order p basis function with the textbook
// Cox-de Boor recursion, treating 0/0 as 0.
func referenceBasis(t []float64, i, p int, x float64) float64 {
	if p == 0 {
		if t[i] <= x && x < t[i+1] {
			return 1
		}
		return 0
	}
	var res float64
	if d := t[i+p] - t[i]; d != 0 {
		res += (x - t[i]) / d * referenceBasis(t, i, p-1, x)
	}
	if d := t[i+p+1] - t[i+1]; d != 0 {
		res += (t[i+p+1] - x) / d * referenceBasis(t, i+1, p-1, x)
	}
	return res
}

// linearEvaluator creates a bivariate evaluator over [0, 1]^2 whose
// coefficients reproduce a*x + b*y exactly.
func linearEvaluator(t *testing.T, a, b float64, n, k int, bounds ...Boundary) *Evaluator[float64] {
	knots := make([][]float64, 2)
	sites := make([][]float64, 2)
	for i := range knots {
		var err error
		knots[i], err = OpenUniformKnots(0.0, 1.0, n, k)
		if err != nil {
			t.Fatal(err)
		}
		sites[i] = GrevilleAbscissae(knots[i], k)
	}
	coeffs := NewArray[float64](1, n, n)
	for i, x := range sites[0] {
		for j, y := range sites[1] {
			coeffs.Set(a*x+b*y, 0, i, j)
		}
	}
	e, err := NewEvaluator(knots, coeffs, []int{k}, bounds)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// randomEvaluator creates an evaluator with random knots and coefficients.
func randomEvaluator(t testing.TB, r *rand.Rand, mdim int, orders []int,
	bounds ...Boundary) *Evaluator[float64] {
	knots := make([][]float64, len(orders))
	shape := []int{mdim}
	for i, k := range orders {
		n := k + 2 + r.Intn(6)
		knots[i] = randomKnots(r, -1, 2, n, k)
		shape = append(shape, n)
	}
	coeffs := NewArray[float64](shape...)
	for i := range coeffs.Data {
		coeffs.Data[i] = r.NormFloat64()
	}
	e, err := NewEvaluator(knots, coeffs, orders, bounds)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// randomPoints creates an (ndim, s) coordinate array uniformly covering
// [lo, hi] on every axis.
func randomPoints(r *rand.Rand, ndim, s int, lo, hi float64) *Array[float64] {
	x := NewArray[float64](ndim, s)
	for i := range x.Data {
		x.Data[i] = lo + (hi-lo)*r.Float64()
	}
	return x
}
