package place

import "errors"

var (
	// ErrNegativeSeparation is returned by [Place] and [PlaceWithLimits]
	// when the separation is negative. The separation is a minimum gap,
	// so zero is valid but negative values indicate a caller bug.
	ErrNegativeSeparation = errors.New("separation must not be negative")

	// ErrInvalidLimits is returned by [PlaceWithLimits] when the lower
	// limit exceeds the upper limit.
	ErrInvalidLimits = errors.New("lower limit must not exceed upper limit")
)

// Place computes output positions for a sequence of labels so that
// consecutive positions are at least separation apart while the largest
// absolute distance between any label and its preferred position is as
// small as possible. The minimization is exact, not heuristic.
//
// The result has the same length and index correspondence as preferred and
// satisfies out[i] - out[i-1] >= separation for every i > 0. The input
// slice is never modified. An empty input yields an empty result; a single
// label is returned at its preferred position.
func Place(preferred []int, separation int) ([]int, error) {
	if separation < 0 {
		return nil, ErrNegativeSeparation
	}
	out := make([]int, len(preferred))
	solve(out, preferred, separation)
	return out, nil
}

// MinSpan returns the axis span needed to fit n labels at the given
// separation: (n-1)*separation. A limit interval narrower than this cannot
// contain all n labels at once; see [PlaceWithLimits] for how that case
// degrades.
func MinSpan(n, separation int) int {
	if n < 2 {
		return 0
	}
	return (n - 1) * separation
}

// MaxOffset returns the largest absolute difference between corresponding
// entries of preferred and positions. This is the quantity [Place]
// minimizes; callers use it to report how far a placement had to move.
// Both slices must have the same length.
func MaxOffset(preferred, positions []int) int {
	worst := 0
	for i, p := range preferred {
		off := positions[i] - p
		if off < 0 {
			off = -off
		}
		if off > worst {
			worst = off
		}
	}
	return worst
}

// solve writes the minimax placement into out. It works in a shifted
// coordinate space: subtracting i*separation from position i turns
// "non-decreasing with gaps of at least separation" into plain
// "non-decreasing", reducing the problem to the closest monotone fit under
// the maximum-error norm. That fit has a closed form: at each index, the
// midpoint between the running maximum from the left and the running
// minimum from the right.
func solve(out, preferred []int, separation int) {
	n := len(preferred)
	if n == 0 {
		return
	}

	// Backward pass: suffix minima of the shifted anchors.
	suffixMin := make([]int, n)
	lo := preferred[n-1] - (n-1)*separation
	for i := n - 1; i >= 0; i-- {
		if z := preferred[i] - i*separation; z < lo {
			lo = z
		}
		suffixMin[i] = lo
	}

	// Forward pass: prefix maximum, midpoint, and mapping back out of the
	// shifted space.
	hi := preferred[0]
	for i := 0; i < n; i++ {
		if z := preferred[i] - i*separation; z > hi {
			hi = z
		}
		out[i] = midpoint(hi, suffixMin[i]) + i*separation
	}
}

// midpoint returns (a+b)/2 rounded toward negative infinity. Go's integer
// division truncates toward zero, which would tie-break odd sums in a
// direction that depends on sign; the placement must round the same way
// everywhere or the fitted sequence loses monotonicity.
func midpoint(a, b int) int {
	sum := a + b
	half := sum / 2
	if sum%2 != 0 && sum < 0 {
		half--
	}
	return half
}
