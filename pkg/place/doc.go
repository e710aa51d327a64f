// Package place computes positions for labels attached to points along an
// axis so that no two labels sit closer than a required minimum separation,
// while the largest distance any label moves away from its own anchor is as
// small as possible.
//
// # Overview
//
// Labels on charts, timelines and map callouts want to sit exactly at the
// feature they annotate, but crowded features would make them overlap. The
// usual greedy fix, pushing colliding labels apart one pair at a time,
// satisfies the separation constraint yet can move an unlucky label much
// further than necessary. This package solves the problem exactly: among
// all placements that keep consecutive labels at least the separation
// apart, [Place] returns one that minimizes the maximum absolute offset
// from the preferred positions. No placement under the same constraint has
// a strictly smaller worst offset.
//
// Inputs are signed integer coordinates in whatever unit the caller uses
// (pixels, tenths of millimeters). Order is significant: the input order is
// the order the labels must keep on the axis, so callers supply anchors
// already sorted the way they should appear. Entries are never reordered.
//
// # Basic Usage
//
// Pass the preferred positions and the minimum gap:
//
//	positions, err := place.Place([]int{-10, -1, 1, 10}, 10)
//	// positions == [-15, -5, 5, 15]
//
// [PlaceWithLimits] additionally confines the result to an interval, which
// is what chart edges need:
//
//	positions, err := place.PlaceWithLimits([]int{-10, -1, 1, 10}, 10, 0, 100)
//	// positions == [0, 10, 20, 30]
//
// # Algorithm
//
// The solver is a closed-form minimax (Chebyshev) isotonic regression in
// two linear passes. Subtracting i*separation from position i turns the
// constraint "non-decreasing with gaps of at least separation" into plain
// "non-decreasing". In that shifted space the best monotone fit under the
// maximum-error norm has a direct solution: at each index, the midpoint
// between the largest shifted anchor seen so far from the left and the
// smallest shifted anchor still ahead on the right. One backward pass
// collects the suffix minima, one forward pass tracks the prefix maximum
// and emits the midpoints, and adding i*separation back yields the result.
//
// # Rounding
//
// Midpoints of odd sums round toward negative infinity (floor), never
// toward zero. The tie-break is externally observable, so it is fixed and
// tested rather than inherited from integer division:
//
//	positions, _ := place.Place([]int{0, 1}, 10)
//	// positions == [-5, 5], not [-4, 6]
//
// # Limits
//
// [PlaceWithLimits] corrects the unconstrained optimum in an isolated pass
// that translates rigid runs of labels (see [Group]) instead of re-fitting
// individual ones. Runs pushed into each other by the limits merge and
// re-center until everything fits. Whenever the interval is wide enough,
// meaning [MinSpan] does not exceed it, every position lands inside; a
// narrower interval degrades gracefully with separation kept and the upper
// limit favored.
//
// # Concurrency
//
// All functions are pure: they read their arguments, allocate their result
// and touch no shared state. Any number of calls may run concurrently.
package place
