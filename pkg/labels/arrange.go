package labels

import (
	"cmp"
	"slices"

	"github.com/matzehuels/labelspread/pkg/place"
)

// Placement is one label's arranged outcome: where it wanted to sit,
// where it ended up, and the signed difference between the two.
type Placement struct {
	ID       string `json:"id"`
	Anchor   int    `json:"anchor"`
	Position int    `json:"position"`
	Offset   int    `json:"offset"`
}

// Result is an arranged set. Placements are in axis order (ascending
// anchor, authoring order for ties) and satisfy the separation constraint;
// MaxOffset is the largest absolute offset any label needed, the quantity
// the solver minimizes.
type Result struct {
	Name       string      `json:"name,omitempty"`
	Separation int         `json:"separation"`
	Limits     *Limits     `json:"limits,omitempty"`
	MaxOffset  int         `json:"max_offset"`
	Placements []Placement `json:"placements"`
}

// Positions returns the placed positions in axis order. The slice is
// freshly allocated and feeds directly into
// [github.com/matzehuels/labelspread/pkg/place.Groups].
func (r *Result) Positions() []int {
	out := make([]int, len(r.Placements))
	for i, p := range r.Placements {
		out[i] = p.Position
	}
	return out
}

// Arrange validates a set and solves it. Labels are ordered by anchor
// before placement (stable, so ties keep authoring order) and the result
// carries one placement per label in that order. Sets with limits go
// through [place.PlaceWithLimits], others through [place.Place]; the set
// itself is never modified.
func Arrange(s *Set) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	order := make([]int, len(s.Labels))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(s.Labels[a].Anchor, s.Labels[b].Anchor)
	})

	anchors := make([]int, len(order))
	for i, j := range order {
		anchors[i] = s.Labels[j].Anchor
	}

	var (
		positions []int
		err       error
	)
	if s.Limits != nil {
		positions, err = place.PlaceWithLimits(anchors, s.Separation, s.Limits.Min, s.Limits.Max)
	} else {
		positions, err = place.Place(anchors, s.Separation)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Name:       s.Name,
		Separation: s.Separation,
		MaxOffset:  place.MaxOffset(anchors, positions),
		Placements: make([]Placement, len(order)),
	}
	if s.Limits != nil {
		lim := *s.Limits
		res.Limits = &lim
	}
	for i, j := range order {
		res.Placements[i] = Placement{
			ID:       s.Labels[j].ID,
			Anchor:   s.Labels[j].Anchor,
			Position: positions[i],
			Offset:   positions[i] - s.Labels[j].Anchor,
		}
	}
	return res, nil
}
