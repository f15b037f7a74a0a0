package bspline

import "github.com/pkg/errors"

var (
	// ErrDimension is returned when an input's dimensionality or length does
	// not match what the evaluator or routine expects.
	ErrDimension = errors.New("bspline: dimension mismatch")

	// ErrOrder is returned for a negative spline order.
	ErrOrder = errors.New("bspline: invalid order")

	// ErrKnots is returned for a knot vector that is too short for its order
	// or is not non-decreasing.
	ErrKnots = errors.New("bspline: invalid knot vector")

	// ErrDerivative is returned for a negative derivative order.
	ErrDerivative = errors.New("bspline: invalid derivative order")

	// ErrBoundary is returned for a boundary that is periodic on one side only.
	ErrBoundary = errors.New("bspline: invalid boundary")
)
