package bspline

import "golang.org/x/exp/constraints"

// A Workspace owns the scratch buffers used by an Evaluator.
//
// Buffers are sized for the largest batch seen so far. They are reallocated
// only when a batch exceeds the current capacity, and they never shrink.
// The contents of a Workspace are meaningless between calls.
type Workspace[F constraints.Float] struct {
	orders   []int
	mdim     int
	meshSize int
	capacity int

	intervals [][]int
	basis     [][]F
	coords    [][]F
	selection [][]int
	flatIndex []int

	// Ping-pong buffers for the gathered sub-tensor and the partially
	// contracted results.
	gathered []F
	accum    []F
}

func newWorkspace[F constraints.Float](orders []int, mdim int) *Workspace[F] {
	meshSize := 1
	for _, k := range orders {
		meshSize *= k + 1
	}
	return &Workspace[F]{
		orders:    orders,
		mdim:      mdim,
		meshSize:  meshSize,
		intervals: make([][]int, len(orders)),
		basis:     make([][]F, len(orders)),
		coords:    make([][]F, len(orders)),
		selection: make([][]int, len(orders)),
	}
}

// Capacity returns the largest batch size the buffers can currently hold.
func (w *Workspace[F]) Capacity() int {
	return w.capacity
}

// Reserve makes sure the buffers can hold a batch of s points, growing them
// if necessary. It returns true if the buffers were reallocated.
func (w *Workspace[F]) Reserve(s int) bool {
	if s <= w.capacity {
		return false
	}
	w.capacity = s
	for i, k := range w.orders {
		w.intervals[i] = make([]int, s)
		w.basis[i] = make([]F, BasisWorkSize(k, s))
		w.coords[i] = make([]F, s)
		w.selection[i] = make([]int, (k+1)*s)
	}
	w.flatIndex = make([]int, s)
	w.gathered = make([]F, w.mdim*w.meshSize*s)
	w.accum = make([]F, w.mdim*w.meshSize*s)
	return true
}

// Intervals returns the span buffer of an axis for a batch of s points.
func (w *Workspace[F]) Intervals(axis, s int) []int {
	return w.intervals[axis][:s]
}

// Basis returns the basis scratch buffer of an axis for s points.
func (w *Workspace[F]) Basis(axis, s int) []F {
	return w.basis[axis][:BasisWorkSize(w.orders[axis], s)]
}

// Coords returns the transformed coordinate buffer of an axis for s points.
func (w *Workspace[F]) Coords(axis, s int) []F {
	return w.coords[axis][:s]
}

// Selection returns the (k+1) x s absolute coefficient indices of an axis.
func (w *Workspace[F]) Selection(axis, s int) []int {
	return w.selection[axis][:(w.orders[axis]+1)*s]
}

func (w *Workspace[F]) tensors(s int) (flatIndex []int, gathered, accum []F) {
	size := w.mdim * w.meshSize * s
	return w.flatIndex[:s], w.gathered[:size], w.accum[:size]
}
