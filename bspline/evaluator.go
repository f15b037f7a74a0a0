package bspline

import (
	"log"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// An Evaluator evaluates a tensor-product B-spline, or its mixed partial
// derivatives, at batches of points.
//
// An Evaluator keeps scratch buffers between calls, so it is not safe for
// concurrent use. Use Clone to get an Evaluator for another Goroutine.
type Evaluator[F constraints.Float] struct {
	// Verbose, if true, logs whenever the scratch buffers grow.
	Verbose bool

	knots  [][]F
	coeffs *Array[F]
	orders []int
	bounds []Boundary

	coeffStrides []int

	// offsetMesh[i][pos] is the offset along axis i of the mesh position
	// pos in the (k_1+1) x ... x (k_ndim+1) grid of local basis offsets.
	offsetMesh [][]int

	workspace *Workspace[F]
}

// NewEvaluator creates an evaluator for the spline with per-axis knot vectors
// and a coefficient tensor of shape (mdim, n_1, ..., n_ndim).
//
// The orders may contain one value for every axis, or a single value used for
// all axes. The bounds may likewise have one entry per axis or a single
// entry; if bounds is empty, every axis is extrapolated.
//
// The knots and coefficients are referenced, not copied, and must not be
// modified for the lifetime of the evaluator.
func NewEvaluator[F constraints.Float](knots [][]F, coeffs *Array[F], orders []int,
	bounds []Boundary) (*Evaluator[F], error) {
	ndim := len(knots)
	if ndim == 0 {
		return nil, errors.Wrap(ErrDimension, "new evaluator: no axes")
	}
	if coeffs == nil || coeffs.NumDims() != ndim+1 {
		return nil, errors.Wrapf(ErrDimension, "new evaluator: coefficients must have %d dimensions",
			ndim+1)
	}
	if len(coeffs.Data) != coeffs.Size() {
		return nil, errors.Wrapf(ErrDimension, "new evaluator: %d coefficients for shape %v",
			len(coeffs.Data), coeffs.Shape)
	}

	axisOrders, err := broadcastInts(orders, ndim, "orders")
	if err != nil {
		return nil, errors.Wrap(err, "new evaluator")
	}
	if len(bounds) == 0 {
		bounds = []Boundary{ExtrapolatedBoundary()}
	}
	axisBounds, err := broadcastBounds(bounds, ndim)
	if err != nil {
		return nil, errors.Wrap(err, "new evaluator")
	}

	for i, t := range knots {
		k := axisOrders[i]
		if err := ValidateKnots(t, k); err != nil {
			return nil, errors.Wrapf(err, "new evaluator: axis %d", i)
		}
		if n := NumCoeffs(t, k); n != coeffs.Shape[i+1] {
			return nil, errors.Wrapf(ErrDimension,
				"new evaluator: axis %d has %d knots (n=%d) but %d coefficients",
				i, len(t), n, coeffs.Shape[i+1])
		}
		if err := axisBounds[i].Validate(); err != nil {
			return nil, errors.Wrapf(err, "new evaluator: axis %d", i)
		}
	}

	return &Evaluator[F]{
		knots:        knots,
		coeffs:       coeffs,
		orders:       axisOrders,
		bounds:       axisBounds,
		coeffStrides: coeffs.Strides(),
		offsetMesh:   newOffsetMesh(axisOrders),
		workspace:    newWorkspace[F](axisOrders, coeffs.Shape[0]),
	}, nil
}

// Clone creates an evaluator that shares the read-only spline data with e
// but has its own scratch buffers.
func (e *Evaluator[F]) Clone() *Evaluator[F] {
	res := *e
	res.workspace = newWorkspace[F](e.orders, e.coeffs.Shape[0])
	return &res
}

// NumDims returns the number of input axes.
func (e *Evaluator[F]) NumDims() int {
	return len(e.knots)
}

// OutputDims returns the number of output values per point.
func (e *Evaluator[F]) OutputDims() int {
	return e.coeffs.Shape[0]
}

func (e *Evaluator[F]) Orders() []int {
	return slices.Clone(e.orders)
}

func (e *Evaluator[F]) Boundaries() []Boundary {
	return slices.Clone(e.bounds)
}

// Knots returns the knot vector of an axis. It must not be modified.
func (e *Evaluator[F]) Knots(axis int) []F {
	return e.knots[axis]
}

// Domain returns the base interval of an axis.
func (e *Evaluator[F]) Domain(axis int) (lo, hi F) {
	return Domain(e.knots[axis], e.orders[axis])
}

// Workspace returns the scratch buffers owned by e.
func (e *Evaluator[F]) Workspace() *Workspace[F] {
	return e.workspace
}

// Evaluate evaluates the spline at the points in x, which has shape
// (ndim, ...). The result has shape (mdim, ...), with the same trailing
// shape as x. A 1-D x of length ndim is treated as a single point and gives
// a result of shape (mdim,).
//
// The derivative orders nus may be omitted (no derivatives), be a single
// order for every axis, or have one order per axis. Derivative orders beyond
// an axis's spline order give zeros.
//
// Out-of-domain coordinates follow each axis's Boundary. Points that cannot
// be located, such as NaN coordinates, give NaN outputs.
func (e *Evaluator[F]) Evaluate(x *Array[F], nus ...int) (*Array[F], error) {
	axisNus, err := e.checkInputs(x, nus)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate")
	}

	outShape := append([]int{e.OutputDims()}, x.Shape[1:]...)
	out := NewArray[F](outShape...)
	s := shapeSize(x.Shape[1:])
	if s == 0 {
		return out, nil
	}

	if e.workspace.Reserve(s) && e.Verbose {
		log.Printf("bspline: grew workspace to %d points", s)
	}
	for i := range e.knots {
		if err := e.evalAxis(i, x.Data[i*s:(i+1)*s], axisNus[i]); err != nil {
			return nil, errors.Wrap(err, "evaluate")
		}
	}
	copy(out.Data, e.contract(s))
	return out, nil
}

// checkInputs validates a coordinate array and broadcasts the derivative
// orders to one per axis.
func (e *Evaluator[F]) checkInputs(x *Array[F], nus []int) ([]int, error) {
	ndim := e.NumDims()
	if x == nil || x.NumDims() == 0 || x.Shape[0] != ndim {
		var shape []int
		if x != nil {
			shape = x.Shape
		}
		return nil, errors.Wrapf(ErrDimension, "coordinates of shape %v for %d axes",
			shape, ndim)
	}
	if len(x.Data) != x.Size() {
		return nil, errors.Wrapf(ErrDimension, "%d values for shape %v", len(x.Data), x.Shape)
	}
	axisNus, err := broadcastInts(nus, ndim, "derivative orders")
	if err != nil {
		return nil, err
	}
	for i, nu := range axisNus {
		if nu < 0 {
			return nil, errors.Wrapf(ErrDerivative, "axis %d has derivative %d", i, nu)
		}
	}
	return axisNus, nil
}

// EvalPoint evaluates the spline at a single point, returning mdim values.
func (e *Evaluator[F]) EvalPoint(point []F, nus ...int) ([]F, error) {
	x, err := ArrayFromSlice(point, len(point))
	if err != nil {
		return nil, err
	}
	res, err := e.Evaluate(x, nus...)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// evalAxis applies the boundary policy, locates spans, and evaluates the
// bases of one axis, storing the results and absolute coefficient indices in
// the workspace.
func (e *Evaluator[F]) evalAxis(axis int, x []F, nu int) error {
	s := len(x)
	t, k := e.knots[axis], e.orders[axis]
	ws := e.workspace

	coords := ws.Coords(axis, s)
	copy(coords, x)
	extrapolate := applyBoundary(e.bounds[axis], t, k, coords)

	ell, err := FindIntervals(t, k, coords, extrapolate, ws.Intervals(axis, s))
	if err != nil {
		return errors.Wrapf(err, "axis %d", axis)
	}
	evalBases(t, k, coords, ell, nu, ws.Basis(axis, s))

	sel := ws.Selection(axis, s)
	for o := 0; o <= k; o++ {
		row := sel[o*s : (o+1)*s]
		for p, l := range ell {
			if l < 0 {
				// The bases are NaN here, so any valid index will do.
				l = k
			}
			row[p] = o + l - k
		}
	}
	return nil
}

// contract gathers the coefficient sub-tensor of every point and contracts
// it with the per-axis bases, axis 0 first. The returned slice holds mdim
// rows of s values and aliases the workspace.
func (e *Evaluator[F]) contract(s int) []F {
	ws := e.workspace
	mdim := e.OutputDims()
	meshSize := ws.meshSize
	flatIndex, cur, next := ws.tensors(s)

	// Gathered layout: [m][pos][p], with the batch innermost.
	for pos := 0; pos < meshSize; pos++ {
		fillInts(flatIndex, 0)
		for i, mesh := range e.offsetMesh {
			stride := e.coeffStrides[i+1]
			sel := ws.Selection(i, s)[mesh[pos]*s:]
			for p := range flatIndex {
				flatIndex[p] += stride * sel[p]
			}
		}
		for m := 0; m < mdim; m++ {
			src := e.coeffs.Data[m*e.coeffStrides[0]:]
			dst := cur[(m*meshSize+pos)*s : (m*meshSize+pos+1)*s]
			for p, idx := range flatIndex {
				dst[p] = src[idx]
			}
		}
	}

	rest := meshSize
	for i, k := range e.orders {
		width := k + 1
		rest /= width
		basis := ws.Basis(i, s)
		for m := 0; m < mdim; m++ {
			for r := 0; r < rest; r++ {
				dst := next[(m*rest+r)*s : (m*rest+r+1)*s]
				fill(dst, 0)
				for o := 0; o < width; o++ {
					u := basis[o*s : (o+1)*s]
					src := cur[((m*width+o)*rest+r)*s:]
					for p, weight := range u {
						dst[p] += weight * src[p]
					}
				}
			}
		}
		cur, next = next, cur
	}
	return cur[:mdim*s]
}

func newOffsetMesh(orders []int) [][]int {
	meshShape := make([]int, len(orders))
	for i, k := range orders {
		meshShape[i] = k + 1
	}
	strides := shapeStrides(meshShape)
	size := shapeSize(meshShape)

	res := make([][]int, len(orders))
	for i := range res {
		res[i] = make([]int, size)
		for pos := range res[i] {
			res[i][pos] = (pos / strides[i]) % meshShape[i]
		}
	}
	return res
}

func broadcastInts(values []int, n int, name string) ([]int, error) {
	switch len(values) {
	case 0:
		return make([]int, n), nil
	case 1:
		res := make([]int, n)
		fillInts(res, values[0])
		return res, nil
	case n:
		return slices.Clone(values), nil
	default:
		return nil, errors.Wrapf(ErrDimension, "%d %s for %d axes", len(values), name, n)
	}
}

func broadcastBounds(bounds []Boundary, n int) ([]Boundary, error) {
	switch len(bounds) {
	case 1:
		res := make([]Boundary, n)
		for i := range res {
			res[i] = bounds[0]
		}
		return res, nil
	case n:
		return slices.Clone(bounds), nil
	default:
		return nil, errors.Wrapf(ErrDimension, "%d boundaries for %d axes", len(bounds), n)
	}
}

func fillInts(s []int, v int) {
	for i := range s {
		s[i] = v
	}
}
