package place

// PlaceWithLimits computes the same minimax placement as [Place] with
// every position additionally confined to [minPos, maxPos] where possible.
//
// When the unconstrained optimum already lies inside the limits it is
// returned unchanged. Otherwise the correction moves rigid runs of labels
// (consecutive positions at exactly the minimum separation) as whole
// units: a run is shifted back into the interval, runs pushed into each
// other merge, and a merged run is re-centered over its anchors before
// being shifted again. Individual labels are never re-fitted, so the
// separation constraint survives any combination of limits.
//
// Every position lands inside the interval whenever that is possible at
// all, which is the case when MinSpan(len(preferred), separation) is at
// most maxPos - minPos. A narrower interval cannot hold all labels; the
// result then keeps order and separation and aligns the oversized run to
// end at maxPos.
//
// A single label is placed at its preferred position clamped into the
// interval.
func PlaceWithLimits(preferred []int, separation, minPos, maxPos int) ([]int, error) {
	if separation < 0 {
		return nil, ErrNegativeSeparation
	}
	if minPos > maxPos {
		return nil, ErrInvalidLimits
	}
	out := make([]int, len(preferred))
	solve(out, preferred, separation)
	applyLimits(out, preferred, separation, minPos, maxPos)
	return out, nil
}

// run is a maximal stretch of consecutive labels moved as one rigid unit
// during limit correction. Labels first through last sit at exactly
// separation steps from start. minOff and maxOff track the extreme signed
// offsets from the preferred positions, so a merged run can be re-centered
// without revisiting its members.
type run struct {
	first, last    int
	start, end     int
	minOff, maxOff int
}

// shift moves the whole run by delta.
func (r run) shift(delta int) run {
	r.start += delta
	r.end += delta
	r.minOff += delta
	r.maxOff += delta
	return r
}

// clamp shifts the run into [lo, hi]. The lower limit is applied first, so
// when the run spans more than the interval the upper limit wins.
func (r run) clamp(lo, hi int) run {
	if r.start < lo {
		r = r.shift(lo - r.start)
	}
	if r.end > hi {
		r = r.shift(hi - r.end)
	}
	return r
}

// merge joins a run with the run that follows it on the axis: the earlier
// run is shifted so the two abut at exactly the separation, and the union
// is re-centered so its extreme offsets balance around zero. Re-centering
// uses the same floor tie-break as the regression core.
func merge(earlier, later run, separation int) run {
	earlier = earlier.shift(later.start - earlier.end - separation)
	joined := run{
		first:  earlier.first,
		last:   later.last,
		start:  earlier.start,
		end:    later.end,
		minOff: min(earlier.minOff, later.minOff),
		maxOff: max(earlier.maxOff, later.maxOff),
	}
	return joined.shift(-midpoint(joined.minOff, joined.maxOff))
}

// applyLimits corrects an unconstrained solution in place so it honors
// [lo, hi]. It replays the solution left to right as singleton runs,
// clamping each one and merging whenever clamping pushed two runs inside
// the separation distance. A merge can cascade further down the stack and
// can itself require another clamp; both loops terminate because every
// iteration consumes one stacked run.
//
// The pass is deliberately separate from solve: it only ever translates
// rigid runs. If no clamp fires, no merge fires either, and the
// unconstrained optimum comes back untouched.
func applyLimits(out, preferred []int, separation, lo, hi int) {
	runs := make([]run, 0, len(out))
	for i, pos := range out {
		cur := run{
			first:  i,
			last:   i,
			start:  pos,
			end:    pos,
			minOff: pos - preferred[i],
			maxOff: pos - preferred[i],
		}
		cur = cur.clamp(lo, hi)
		for len(runs) > 0 && runs[len(runs)-1].end+separation > cur.start {
			prev := runs[len(runs)-1]
			runs = runs[:len(runs)-1]
			cur = merge(prev, cur, separation).clamp(lo, hi)
		}
		runs = append(runs, cur)
	}

	for _, r := range runs {
		pos := r.start
		for i := r.first; i <= r.last; i++ {
			out[i] = pos
			pos += separation
		}
	}
}
