package bspline

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// FindIntervals finds, for every x[i], the span ell[i] such that
//
//	t[ell[i]] <= x[i] < t[ell[i]+1]
//
// where t is a knot vector of order k with n = len(t)-k-1 coefficients.
// Zero-width spans are never returned.
//
// Values outside of [t[k], t[n]) get ell = -1, unless extrapolate is true, in
// which case values below the domain get span k and values at or above t[n]
// get span n-1. NaN values always get -1.
//
// If an output slice at least as long as x is supplied, the result is
// written to it. Otherwise a new slice is allocated.
func FindIntervals[F constraints.Float](t []F, k int, x []F, extrapolate bool,
	out ...[]int) ([]int, error) {
	if k < 0 {
		return nil, errors.Wrapf(ErrOrder, "find intervals: order %d", k)
	}
	if len(t) < 2*k+2 {
		return nil, errors.Wrapf(ErrKnots, "find intervals: %d knots for order %d", len(t), k)
	}

	var ell []int
	if len(out) > 0 && len(out[0]) >= len(x) {
		ell = out[0][:len(x)]
	} else {
		ell = make([]int, len(x))
	}

	n := NumCoeffs(t, k)
	lo, hi := t[k], t[n]
	for i, v := range x {
		switch {
		case v != v:
			ell[i] = -1
		case v < lo:
			if extrapolate {
				ell[i] = k
			} else {
				ell[i] = -1
			}
		case v >= hi:
			if extrapolate {
				ell[i] = n - 1
			} else {
				ell[i] = -1
			}
		default:
			ell[i] = k - 1 + upperBound(t[k:n+1], v)
		}
	}
	return ell, nil
}

// upperBound returns the index of the first element of the sorted slice s
// which is strictly greater than x.
func upperBound[F constraints.Float](s []F, x F) int {
	idx, _ := slices.BinarySearchFunc(s, x, func(elem, target F) int {
		if elem <= target {
			return -1
		}
		return 1
	})
	return idx
}
