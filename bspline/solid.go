package bspline

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
)

// NewSolid creates a solid containing the points of [min, max] where a
// scalar trivariate spline is at least level.
//
// The solid may be queried from many Goroutines at once; each Goroutine
// borrows its own clone of e.
func NewSolid(e *Evaluator[float64], min, max model3d.Coord3D,
	level float64) (model3d.Solid, error) {
	if e.NumDims() != 3 || e.OutputDims() != 1 {
		return nil, errors.Wrapf(ErrDimension, "new solid: need 3 inputs and 1 output, got %d and %d",
			e.NumDims(), e.OutputDims())
	}
	pool := &sync.Pool{
		New: func() interface{} {
			return e.Clone()
		},
	}
	return model3d.CheckedFuncSolid(min, max, func(c model3d.Coord3D) bool {
		local := pool.Get().(*Evaluator[float64])
		defer pool.Put(local)
		arr := c.Array()
		res, err := local.EvalPoint(arr[:])
		if err != nil {
			panic(err)
		}
		return res[0] >= level
	}), nil
}

// SampleField creates a scalar trivariate spline over the box [min, max] by
// sampling f at the Greville abscissae of clamped uniform knot vectors, with
// n coefficients of order k along every axis.
//
// The result reproduces linear functions exactly and otherwise smooths f
// rather than interpolating it.
func SampleField(f func(c model3d.Coord3D) float64, min, max model3d.Coord3D, n, k int,
	bound Boundary) (*Evaluator[float64], error) {
	minArr, maxArr := min.Array(), max.Array()
	knots := make([][]float64, 3)
	sites := make([][]float64, 3)
	for axis := range knots {
		t, err := OpenUniformKnots(minArr[axis], maxArr[axis], n, k)
		if err != nil {
			return nil, errors.Wrap(err, "sample field")
		}
		knots[axis] = t
		sites[axis] = GrevilleAbscissae(t, k)
	}

	coeffs := NewArray[float64](1, n, n, n)
	essentials.ConcurrentMap(0, n, func(i int) {
		for j := 0; j < n; j++ {
			for l := 0; l < n; l++ {
				c := model3d.XYZ(sites[0][i], sites[1][j], sites[2][l])
				coeffs.Set(f(c), 0, i, j, l)
			}
		}
	})

	e, err := NewEvaluator(knots, coeffs, []int{k}, []Boundary{bound})
	if err != nil {
		return nil, errors.Wrap(err, "sample field")
	}
	return e, nil
}
