package bspline

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// A BoundaryKind determines what happens to coordinates past one end of an
// axis's domain.
type BoundaryKind int

const (
	// Clamped replaces out-of-domain coordinates with the boundary value.
	Clamped BoundaryKind = iota

	// Extrapolated evaluates the polynomial piece of the nearest span.
	Extrapolated

	// Periodic wraps coordinates into the domain. It must be used on both
	// ends of an axis.
	Periodic
)

func (b BoundaryKind) String() string {
	switch b {
	case Clamped:
		return "clamped"
	case Extrapolated:
		return "extrapolated"
	case Periodic:
		return "periodic"
	default:
		return fmt.Sprintf("BoundaryKind(%d)", int(b))
	}
}

// A Boundary is the boundary policy of one axis.
type Boundary struct {
	Lower BoundaryKind
	Upper BoundaryKind
}

func ClampedBoundary() Boundary {
	return Boundary{Lower: Clamped, Upper: Clamped}
}

func ExtrapolatedBoundary() Boundary {
	return Boundary{Lower: Extrapolated, Upper: Extrapolated}
}

func PeriodicBoundary() Boundary {
	return Boundary{Lower: Periodic, Upper: Periodic}
}

// IsPeriodic returns true if the axis wraps around.
func (b Boundary) IsPeriodic() bool {
	return b.Lower == Periodic
}

// Validate checks that the boundary kinds are known and that a periodic
// boundary is periodic on both ends.
func (b Boundary) Validate() error {
	for _, kind := range []BoundaryKind{b.Lower, b.Upper} {
		if kind < Clamped || kind > Periodic {
			return errors.Wrapf(ErrBoundary, "unknown kind %v", kind)
		}
	}
	if (b.Lower == Periodic) != (b.Upper == Periodic) {
		return errors.Wrapf(ErrBoundary, "lower %v but upper %v", b.Lower, b.Upper)
	}
	return nil
}

// applyBoundary maps the coordinates x for an order k knot vector t in place
// and returns whether span lookup should extrapolate.
func applyBoundary[F constraints.Float](b Boundary, t []F, k int, x []F) bool {
	lo, hi := Domain(t, k)
	if b.IsPeriodic() {
		period := float64(hi - lo)
		for i, v := range x {
			r := math.Mod(float64(v-lo), period)
			if r < 0 {
				r += period
			}
			wrapped := lo + F(r)
			if wrapped >= hi {
				wrapped = lo
			}
			x[i] = wrapped
		}
		return false
	}
	if b.Lower != Extrapolated {
		for i, v := range x {
			if v < lo {
				x[i] = lo
			}
		}
	}
	if b.Upper != Extrapolated {
		for i, v := range x {
			if v > hi {
				x[i] = hi
			}
		}
	}
	return true
}
