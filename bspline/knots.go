package bspline

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// ValidateKnots checks that t is a non-decreasing knot vector long enough to
// hold at least one span for an order k spline.
func ValidateKnots[F constraints.Float](t []F, k int) error {
	if k < 0 {
		return errors.Wrapf(ErrOrder, "order %d", k)
	}
	if len(t) < 2*k+2 {
		return errors.Wrapf(ErrKnots, "%d knots is too few for order %d", len(t), k)
	}
	if !slices.IsSorted(t) {
		return errors.Wrap(ErrKnots, "knots are not non-decreasing")
	}
	return nil
}

// NumCoeffs returns the number of coefficients n implied by a knot vector of
// order k, i.e. len(t) - k - 1.
func NumCoeffs[F constraints.Float](t []F, k int) int {
	return len(t) - k - 1
}

// Domain returns the base interval [t[k], t[n]] of a knot vector.
func Domain[F constraints.Float](t []F, k int) (lo, hi F) {
	return t[k], t[len(t)-k-1]
}

// OpenUniformKnots creates a clamped knot vector over [lo, hi] for n
// coefficients of order k. The boundary knots are repeated k+1 times and the
// interior knots are evenly spaced.
func OpenUniformKnots[F constraints.Float](lo, hi F, n, k int) ([]F, error) {
	if k < 0 {
		return nil, errors.Wrapf(ErrOrder, "order %d", k)
	}
	if n < k+1 {
		return nil, errors.Wrapf(ErrKnots, "%d coefficients is too few for order %d", n, k)
	}
	t := make([]F, n+k+1)
	spans := n - k
	for i := range t {
		switch {
		case i <= k:
			t[i] = lo
		case i >= n:
			t[i] = hi
		default:
			t[i] = lo + (hi-lo)*F(i-k)/F(spans)
		}
	}
	return t, nil
}

// GrevilleAbscissae returns the n knot averages
//
//	g[j] = (t[j+1] + ... + t[j+k]) / k
//
// for an order k knot vector. For k == 0 the span midpoints are used.
//
// Coefficients equal to a linear function sampled at these points reproduce
// that function exactly.
func GrevilleAbscissae[F constraints.Float](t []F, k int) []F {
	n := NumCoeffs(t, k)
	res := make([]F, n)
	for j := range res {
		if k == 0 {
			res[j] = (t[j] + t[j+1]) / 2
			continue
		}
		var sum F
		for _, x := range t[j+1 : j+k+1] {
			sum += x
		}
		res[j] = sum / F(k)
	}
	return res
}
