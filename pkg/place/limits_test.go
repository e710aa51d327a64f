package place

import (
	"errors"
	"slices"
	"testing"
)

func TestPlaceWithLimits(t *testing.T) {
	tests := []struct {
		name           string
		preferred      []int
		separation     int
		minPos, maxPos int
		want           []int
	}{
		{
			name:       "within limits unchanged",
			preferred:  []int{-10, -1, 1, 10},
			separation: 10,
			minPos:     -100,
			maxPos:     100,
			want:       []int{-15, -5, 5, 15},
		},
		{
			name:       "single label below",
			preferred:  []int{-20},
			separation: 10,
			minPos:     -10,
			maxPos:     10,
			want:       []int{-10},
		},
		{
			name:       "single label above",
			preferred:  []int{20},
			separation: 10,
			minPos:     -10,
			maxPos:     10,
			want:       []int{10},
		},
		{
			name:       "single label inside",
			preferred:  []int{5},
			separation: 10,
			minPos:     0,
			maxPos:     10,
			want:       []int{5},
		},
		{
			name:       "independent runs clamp separately",
			preferred:  []int{-20, 20},
			separation: 10,
			minPos:     -10,
			maxPos:     10,
			want:       []int{-10, 10},
		},
		{
			name:       "cluster lifted to lower limit",
			preferred:  []int{-10, -1, 1, 10},
			separation: 10,
			minPos:     0,
			maxPos:     100,
			want:       []int{0, 10, 20, 30},
		},
		{
			name:       "cluster pressed to upper limit",
			preferred:  []int{-10, -1, 1, 10},
			separation: 10,
			minPos:     -100,
			maxPos:     0,
			want:       []int{-30, -20, -10, 0},
		},
		{
			name:       "narrow window aligns to upper limit",
			preferred:  []int{-10, -1, 1, 10},
			separation: 10,
			minPos:     -10,
			maxPos:     10,
			want:       []int{-20, -10, 0, 10},
		},
		{
			name:       "zero width window",
			preferred:  []int{0, 0, 0},
			separation: 10,
			minPos:     0,
			maxPos:     0,
			want:       []int{-20, -10, 0},
		},
		{
			name:       "window ending at zero",
			preferred:  []int{0, 0, 0},
			separation: 10,
			minPos:     -20,
			maxPos:     0,
			want:       []int{-20, -10, 0},
		},
		{
			name:       "window starting at zero",
			preferred:  []int{0, 0, 0},
			separation: 10,
			minPos:     0,
			maxPos:     20,
			want:       []int{0, 10, 20},
		},
		{
			name:       "lifted run keeps clear of neighbor",
			preferred:  []int{0, 0, 30},
			separation: 10,
			minPos:     0,
			maxPos:     100,
			want:       []int{0, 10, 30},
		},
		{
			name:       "lifted run merges with neighbor",
			preferred:  []int{0, 0, 12},
			separation: 10,
			minPos:     0,
			maxPos:     100,
			want:       []int{0, 10, 20},
		},
		{
			name:       "far anchor dragged through the window",
			preferred:  []int{-100, 0},
			separation: 10,
			minPos:     0,
			maxPos:     100,
			want:       []int{0, 10},
		},
		{
			name:       "infeasible span keeps separation",
			preferred:  []int{0, 100},
			separation: 10,
			minPos:     0,
			maxPos:     50,
			want:       []int{0, 50},
		},
		{
			name:       "empty input",
			preferred:  []int{},
			separation: 10,
			minPos:     0,
			maxPos:     10,
			want:       []int{},
		},
		{
			name:       "point interval",
			preferred:  []int{42},
			separation: 3,
			minPos:     7,
			maxPos:     7,
			want:       []int{7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlaceWithLimits(tt.preferred, tt.separation, tt.minPos, tt.maxPos)
			if err != nil {
				t.Fatalf("PlaceWithLimits error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("PlaceWithLimits(%v, %d, %d, %d) = %v, want %v",
					tt.preferred, tt.separation, tt.minPos, tt.maxPos, got, tt.want)
			}
		})
	}
}

func TestPlaceWithLimitsErrors(t *testing.T) {
	if _, err := PlaceWithLimits([]int{1}, -1, 0, 10); !errors.Is(err, ErrNegativeSeparation) {
		t.Errorf("negative separation: err = %v, want ErrNegativeSeparation", err)
	}
	if _, err := PlaceWithLimits([]int{1}, 1, 10, 0); !errors.Is(err, ErrInvalidLimits) {
		t.Errorf("inverted limits: err = %v, want ErrInvalidLimits", err)
	}
}

// TestPlaceWithLimitsHolds sweeps small inputs and checks that order and
// separation always hold and that the limits hold whenever the window is
// wide enough for all labels.
func TestPlaceWithLimitsHolds(t *testing.T) {
	anchors := []int{-9, -4, 0, 3, 8}
	windows := []struct{ lo, hi int }{
		{-6, 6},
		{0, 4},
		{-20, 20},
		{2, 2},
	}
	for _, sep := range []int{0, 2, 5} {
		for _, w := range windows {
			for _, a := range anchors {
				for _, b := range anchors {
					for _, c := range anchors {
						preferred := []int{a, b, c}
						got, err := PlaceWithLimits(preferred, sep, w.lo, w.hi)
						if err != nil {
							t.Fatalf("PlaceWithLimits(%v, %d, %d, %d) error: %v", preferred, sep, w.lo, w.hi, err)
						}
						for i := 1; i < len(got); i++ {
							if got[i]-got[i-1] < sep {
								t.Fatalf("PlaceWithLimits(%v, %d, %d, %d) = %v violates separation",
									preferred, sep, w.lo, w.hi, got)
							}
						}
						if MinSpan(len(preferred), sep) <= w.hi-w.lo {
							if got[0] < w.lo || got[len(got)-1] > w.hi {
								t.Fatalf("PlaceWithLimits(%v, %d, %d, %d) = %v escapes limits",
									preferred, sep, w.lo, w.hi, got)
							}
						}
					}
				}
			}
		}
	}
}

// TestPlaceWithLimitsMatchesPlace checks that generous limits leave the
// unconstrained optimum untouched.
func TestPlaceWithLimitsMatchesPlace(t *testing.T) {
	anchors := []int{-9, -4, 0, 3, 8}
	for _, sep := range []int{0, 2, 5} {
		for _, a := range anchors {
			for _, b := range anchors {
				for _, c := range anchors {
					preferred := []int{a, b, c}
					unbounded, err := Place(preferred, sep)
					if err != nil {
						t.Fatalf("Place error: %v", err)
					}
					bounded, err := PlaceWithLimits(preferred, sep, -1000, 1000)
					if err != nil {
						t.Fatalf("PlaceWithLimits error: %v", err)
					}
					if !slices.Equal(unbounded, bounded) {
						t.Fatalf("PlaceWithLimits(%v, %d) with wide window = %v, Place = %v",
							preferred, sep, bounded, unbounded)
					}
				}
			}
		}
	}
}

func TestGroups(t *testing.T) {
	tests := []struct {
		name       string
		positions  []int
		separation int
		want       []Group
	}{
		{
			name:       "empty",
			positions:  []int{},
			separation: 10,
			want:       nil,
		},
		{
			name:       "all separate",
			positions:  []int{0, 20, 40},
			separation: 10,
			want: []Group{
				{First: 0, Last: 0, Start: 0, End: 0},
				{First: 1, Last: 1, Start: 20, End: 20},
				{First: 2, Last: 2, Start: 40, End: 40},
			},
		},
		{
			name:       "one packed run",
			positions:  []int{-15, -5, 5, 15},
			separation: 10,
			want: []Group{
				{First: 0, Last: 3, Start: -15, End: 15},
			},
		},
		{
			name:       "packed run then singleton",
			positions:  []int{-3, 7, 40},
			separation: 10,
			want: []Group{
				{First: 0, Last: 1, Start: -3, End: 7},
				{First: 2, Last: 2, Start: 40, End: 40},
			},
		},
		{
			name:       "zero separation groups equal positions",
			positions:  []int{1, 1, 5},
			separation: 0,
			want: []Group{
				{First: 0, Last: 1, Start: 1, End: 1},
				{First: 2, Last: 2, Start: 5, End: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Groups(tt.positions, tt.separation)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Groups(%v, %d) = %v, want %v", tt.positions, tt.separation, got, tt.want)
			}
		})
	}
}

func TestGroupSizeSpan(t *testing.T) {
	g := Group{First: 2, Last: 5, Start: -10, End: 20}
	if g.Size() != 4 {
		t.Errorf("Size() = %d, want 4", g.Size())
	}
	if g.Span() != 30 {
		t.Errorf("Span() = %d, want 30", g.Span())
	}
}
