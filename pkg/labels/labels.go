package labels

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matzehuels/labelspread/pkg/place"
)

var (
	// ErrEmptyLabelID is returned by [Set.Validate] when a label has no ID.
	// IDs name placements in results, so every label must carry one.
	ErrEmptyLabelID = errors.New("label ID must not be empty")

	// ErrDuplicateLabelID is returned by [Set.Validate] when two labels
	// share an ID. Placements are keyed by ID and must be unambiguous.
	ErrDuplicateLabelID = errors.New("duplicate label ID")
)

// Label is a single named label anchored to an axis coordinate. The anchor
// is the preferred position: where the label would sit if nothing crowded
// it.
type Label struct {
	ID     string `json:"id" toml:"id"`
	Anchor int    `json:"anchor" toml:"anchor"`
}

// Limits confines every placed position to [Min, Max], typically the
// drawable extent of a chart. See
// [github.com/matzehuels/labelspread/pkg/place.PlaceWithLimits] for how a
// window too narrow for all labels degrades.
type Limits struct {
	Min int `json:"min" toml:"min"`
	Max int `json:"max" toml:"max"`
}

// Set is one placement problem: the labels, the minimum gap between them,
// and optional limits. Labels may appear in any order; [Arrange] orders
// them by anchor (ties keep authoring order). A nil Limits means
// unbounded placement.
type Set struct {
	Name       string  `json:"name,omitempty" toml:"name"`
	Separation int     `json:"separation" toml:"separation"`
	Limits     *Limits `json:"limits,omitempty" toml:"limits"`
	Labels     []Label `json:"labels" toml:"labels"`
}

// Validate checks the set invariants: non-empty unique label IDs, a
// non-negative separation, and ordered limits. Separation and limit
// violations are reported with the placement engine's own sentinels
// (place.ErrNegativeSeparation, place.ErrInvalidLimits) so callers handle
// both entry points uniformly. An empty label list is valid and arranges
// to an empty result.
func (s *Set) Validate() error {
	if s.Separation < 0 {
		return place.ErrNegativeSeparation
	}
	if s.Limits != nil && s.Limits.Min > s.Limits.Max {
		return place.ErrInvalidLimits
	}
	seen := make(map[string]struct{}, len(s.Labels))
	for _, l := range s.Labels {
		if l.ID == "" {
			return ErrEmptyLabelID
		}
		if _, ok := seen[l.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateLabelID, l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}

// FromAnchors builds a set from bare anchor coordinates, naming the labels
// by ordinal ("1", "2", ...) in input order. The CLI's --at flag and the
// one-shot placement endpoint use it when callers have positions but no
// names.
func FromAnchors(anchors []int, separation int, limits *Limits) *Set {
	set := &Set{
		Separation: separation,
		Limits:     limits,
		Labels:     make([]Label, len(anchors)),
	}
	for i, a := range anchors {
		set.Labels[i] = Label{ID: strconv.Itoa(i + 1), Anchor: a}
	}
	return set
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	out := &Set{
		Name:       s.Name,
		Separation: s.Separation,
		Labels:     make([]Label, len(s.Labels)),
	}
	copy(out.Labels, s.Labels)
	if s.Limits != nil {
		lim := *s.Limits
		out.Limits = &lim
	}
	return out
}
