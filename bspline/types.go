package bspline

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// An Array is a dense, row-major n-dimensional array.
//
// Coordinates passed to an Evaluator are Arrays with the axis index as the
// leading dimension, and coefficient tensors are Arrays with the output
// dimension leading.
type Array[F constraints.Float] struct {
	Shape []int
	Data  []F
}

// NewArray creates a zero-filled array with the given shape.
func NewArray[F constraints.Float](shape ...int) *Array[F] {
	return &Array[F]{
		Shape: append([]int{}, shape...),
		Data:  make([]F, shapeSize(shape)),
	}
}

// ArrayFromSlice wraps data in an Array without copying it.
func ArrayFromSlice[F constraints.Float](data []F, shape ...int) (*Array[F], error) {
	if size := shapeSize(shape); size != len(data) {
		return nil, errors.Wrapf(ErrDimension, "shape %v needs %d values but got %d",
			shape, size, len(data))
	}
	return &Array[F]{Shape: append([]int{}, shape...), Data: data}, nil
}

// ArrayFromRows stacks equal-length rows into a 2-D array of shape
// (len(rows), len(rows[0])).
//
// This is the usual way to build a coordinate array: one row per axis.
func ArrayFromRows[F constraints.Float](rows ...[]F) (*Array[F], error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrDimension, "no rows")
	}
	cols := len(rows[0])
	res := NewArray[F](len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Wrapf(ErrDimension, "row %d has length %d, expected %d",
				i, len(row), cols)
		}
		copy(res.Data[i*cols:], row)
	}
	return res, nil
}

// NumDims returns the number of dimensions of a.
func (a *Array[F]) NumDims() int {
	return len(a.Shape)
}

// Size returns the total number of elements.
func (a *Array[F]) Size() int {
	return shapeSize(a.Shape)
}

// Strides returns the row-major element strides of each dimension.
func (a *Array[F]) Strides() []int {
	return shapeStrides(a.Shape)
}

// At returns the element at the given multi-index.
func (a *Array[F]) At(idx ...int) F {
	return a.Data[a.offset(idx)]
}

// Set stores v at the given multi-index.
func (a *Array[F]) Set(v F, idx ...int) {
	a.Data[a.offset(idx)] = v
}

// Row returns a view of the contiguous elements with leading index i.
func (a *Array[F]) Row(i int) []F {
	size := shapeSize(a.Shape[1:])
	return a.Data[i*size : (i+1)*size]
}

// Reshape returns a view of the same data with a new shape.
func (a *Array[F]) Reshape(shape ...int) (*Array[F], error) {
	return ArrayFromSlice(a.Data, shape...)
}

func (a *Array[F]) offset(idx []int) int {
	if len(idx) != len(a.Shape) {
		panic(fmt.Sprintf("index %v has wrong rank for shape %v", idx, a.Shape))
	}
	var offset int
	for i, x := range idx {
		if x < 0 || x >= a.Shape[i] {
			panic(fmt.Sprintf("index %v out of bounds for shape %v", idx, a.Shape))
		}
		offset = offset*a.Shape[i] + x
	}
	return offset
}

func shapeSize(shape []int) int {
	size := 1
	for _, x := range shape {
		size *= x
	}
	return size
}

func shapeStrides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}
