package bspline

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// BasisWorkSize returns the number of scratch values EvalBases needs for s
// points of order k.
func BasisWorkSize(k, s int) int {
	return (2*k + 3) * s
}

// EvalBases evaluates the k+1 non-zero basis functions (or their nu-th
// derivatives) of an order k knot vector t at each x[i], where ell[i] is the
// span returned by FindIntervals.
//
// The result has k+1 rows of length len(x). Row j holds the basis function
// with index ell-k+j. Points with ell[i] == -1 get NaN in every row, and
// nu > k gives all zeros.
//
// If a work slice of at least BasisWorkSize(k, len(x)) values is supplied,
// the rows are views into it. Otherwise a new buffer is allocated.
func EvalBases[F constraints.Float](t []F, k int, x []F, ell []int, nu int,
	work ...[]F) ([][]F, error) {
	if err := checkBasisArgs(t, k, x, ell, nu); err != nil {
		return nil, err
	}

	s := len(x)
	var buf []F
	if len(work) > 0 && len(work[0]) >= BasisWorkSize(k, s) {
		buf = work[0]
	} else {
		buf = make([]F, BasisWorkSize(k, s))
	}
	evalBases(t, k, x, ell, nu, buf)

	rows := make([][]F, k+1)
	for j := range rows {
		rows[j] = buf[j*s : (j+1)*s]
	}
	return rows, nil
}

func checkBasisArgs[F constraints.Float](t []F, k int, x []F, ell []int, nu int) error {
	if k < 0 {
		return errors.Wrapf(ErrOrder, "eval bases: order %d", k)
	}
	if nu < 0 {
		return errors.Wrapf(ErrDerivative, "eval bases: derivative %d", nu)
	}
	if len(t) < 2*k+2 {
		return errors.Wrapf(ErrKnots, "eval bases: %d knots for order %d", len(t), k)
	}
	if len(ell) != len(x) {
		return errors.Wrapf(ErrDimension, "eval bases: %d spans for %d points", len(ell), len(x))
	}
	n := NumCoeffs(t, k)
	for _, l := range ell {
		if l != -1 && (l < k || l >= n) {
			return errors.Wrapf(ErrDimension, "eval bases: span %d outside [%d, %d)", l, k, n)
		}
	}
	return nil
}

// evalBases runs the de Boor-Cox recursion for every point at once.
//
// buf holds 2k+3 rows of len(x) values: rows [0, k] are the current degree,
// rows [k+1, 2k] the previous degree, and the last two rows the knot pairs
// bounding each support.
func evalBases[F constraints.Float](t []F, k int, x []F, ell []int, nu int, buf []F) {
	s := len(x)
	row := func(r int) []F {
		return buf[r*s : (r+1)*s]
	}

	if nu > k {
		for j := 0; j <= k; j++ {
			fill(row(j), 0)
		}
		markMissing(ell, buf[:(k+1)*s], s)
		return
	}

	fill(row(0), 1)
	if k == 0 {
		markMissing(ell, buf[:s], s)
		return
	}
	fill(row(k+1), 1)

	xb, xa := row(2*k+1), row(2*k+2)
	for j := 1; j <= k; j++ {
		difference := j > k-nu
		fill(row(0), 0)
		for n := 1; n <= j; n++ {
			prev, left, cur := row(k+n), row(n-1), row(n)
			for i, l := range ell {
				if l < 0 {
					continue
				}
				xb[i] = t[l+n]
				xa[i] = t[l+n-j]
			}
			for i, l := range ell {
				if l < 0 {
					continue
				}
				width := xb[i] - xa[i]
				if width == 0 {
					cur[i] = 0
					continue
				}
				if difference {
					tau := F(j) * prev[i] / width
					left[i] -= tau
					cur[i] = tau
				} else {
					tau := prev[i] / width
					left[i] += tau * (xb[i] - x[i])
					cur[i] = tau * (x[i] - xa[i])
				}
			}
		}
		copy(buf[(k+1)*s:(2*k+1)*s], buf[:k*s])
	}

	markMissing(ell, buf[:(k+1)*s], s)
}

func markMissing[F constraints.Float](ell []int, rows []F, s int) {
	nan := F(math.NaN())
	for i, l := range ell {
		if l < 0 {
			for r := i; r < len(rows); r += s {
				rows[r] = nan
			}
		}
	}
}

func fill[F constraints.Float](s []F, v F) {
	for i := range s {
		s[i] = v
	}
}
