package bspline

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"golang.org/x/exp/constraints"
)

const DefaultParallelChunkSize = 1024

// ParallelEvaluate is like e.Evaluate, but splits the batch into chunks of
// at most chunkSize points and evaluates them on clones of e, one clone per
// Goroutine.
//
// If concurrency is 0, GOMAXPROCS is used. If chunkSize is 0,
// DefaultParallelChunkSize is used.
//
// e itself is not used for evaluation, so it may be used by the caller's
// Goroutine while ParallelEvaluate runs.
func ParallelEvaluate[F constraints.Float](e *Evaluator[F], x *Array[F], concurrency,
	chunkSize int, nus ...int) (*Array[F], error) {
	axisNus, err := e.checkInputs(x, nus)
	if err != nil {
		return nil, errors.Wrap(err, "parallel evaluate")
	}
	if chunkSize <= 0 {
		chunkSize = DefaultParallelChunkSize
	}

	ndim, mdim := e.NumDims(), e.OutputDims()
	out := NewArray[F](append([]int{mdim}, x.Shape[1:]...)...)
	s := shapeSize(x.Shape[1:])
	if s == 0 {
		return out, nil
	}
	numChunks := (s + chunkSize - 1) / chunkSize

	var errLock sync.Mutex
	var firstErr error
	essentials.StatefulConcurrentMap(concurrency, numChunks, func() func(c int) {
		local := e.Clone()
		local.Verbose = false
		chunk := NewArray[F](ndim, chunkSize)
		return func(c int) {
			start := c * chunkSize
			end := essentials.MinInt(s, start+chunkSize)
			size := end - start

			coords := &Array[F]{Shape: []int{ndim, size}, Data: chunk.Data[:ndim*size]}
			for i := 0; i < ndim; i++ {
				copy(coords.Data[i*size:(i+1)*size], x.Data[i*s+start:i*s+end])
			}
			res, err := local.Evaluate(coords, axisNus...)
			if err != nil {
				errLock.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errLock.Unlock()
				return
			}
			for m := 0; m < mdim; m++ {
				copy(out.Data[m*s+start:m*s+end], res.Data[m*size:(m+1)*size])
			}
		}
	})
	if firstErr != nil {
		return nil, errors.Wrap(firstErr, "parallel evaluate")
	}
	return out, nil
}
