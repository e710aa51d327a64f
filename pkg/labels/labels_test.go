package labels

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/labelspread/pkg/place"
)

func TestSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     Set
		wantErr error
	}{
		{
			name: "valid",
			set: Set{
				Separation: 10,
				Labels:     []Label{{ID: "a", Anchor: 1}, {ID: "b", Anchor: 2}},
			},
		},
		{
			name: "empty labels allowed",
			set:  Set{Separation: 5},
		},
		{
			name:    "negative separation",
			set:     Set{Separation: -1, Labels: []Label{{ID: "a"}}},
			wantErr: place.ErrNegativeSeparation,
		},
		{
			name: "inverted limits",
			set: Set{
				Separation: 1,
				Limits:     &Limits{Min: 10, Max: 0},
				Labels:     []Label{{ID: "a"}},
			},
			wantErr: place.ErrInvalidLimits,
		},
		{
			name:    "empty label ID",
			set:     Set{Separation: 1, Labels: []Label{{ID: "", Anchor: 3}}},
			wantErr: ErrEmptyLabelID,
		},
		{
			name: "duplicate label ID",
			set: Set{
				Separation: 1,
				Labels:     []Label{{ID: "a", Anchor: 1}, {ID: "a", Anchor: 2}},
			},
			wantErr: ErrDuplicateLabelID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestArrange(t *testing.T) {
	set := &Set{
		Name:       "crowded",
		Separation: 10,
		Labels: []Label{
			{ID: "c", Anchor: 1},
			{ID: "a", Anchor: -10},
			{ID: "d", Anchor: 10},
			{ID: "b", Anchor: -1},
		},
	}

	res, err := Arrange(set)
	if err != nil {
		t.Fatalf("Arrange error: %v", err)
	}

	wantIDs := []string{"a", "b", "c", "d"}
	wantPos := []int{-15, -5, 5, 15}
	for i, p := range res.Placements {
		if p.ID != wantIDs[i] {
			t.Errorf("placement %d ID = %q, want %q", i, p.ID, wantIDs[i])
		}
		if p.Position != wantPos[i] {
			t.Errorf("placement %d position = %d, want %d", i, p.Position, wantPos[i])
		}
		if p.Offset != p.Position-p.Anchor {
			t.Errorf("placement %d offset = %d, want %d", i, p.Offset, p.Position-p.Anchor)
		}
	}
	if res.MaxOffset != 5 {
		t.Errorf("MaxOffset = %d, want 5", res.MaxOffset)
	}
	if res.Name != "crowded" {
		t.Errorf("Name = %q, want %q", res.Name, "crowded")
	}
}

func TestArrangeWithLimits(t *testing.T) {
	set := &Set{
		Separation: 10,
		Limits:     &Limits{Min: 0, Max: 100},
		Labels: []Label{
			{ID: "a", Anchor: -10},
			{ID: "b", Anchor: -1},
			{ID: "c", Anchor: 1},
			{ID: "d", Anchor: 10},
		},
	}

	res, err := Arrange(set)
	if err != nil {
		t.Fatalf("Arrange error: %v", err)
	}
	wantPos := []int{0, 10, 20, 30}
	for i, p := range res.Placements {
		if p.Position != wantPos[i] {
			t.Errorf("placement %d position = %d, want %d", i, p.Position, wantPos[i])
		}
	}
	if res.Limits == nil || res.Limits.Min != 0 || res.Limits.Max != 100 {
		t.Errorf("Limits = %+v, want {0 100}", res.Limits)
	}
}

func TestArrangeStableTies(t *testing.T) {
	set := &Set{
		Separation: 3,
		Labels:     []Label{{ID: "x", Anchor: 5}, {ID: "y", Anchor: 5}},
	}
	res, err := Arrange(set)
	if err != nil {
		t.Fatalf("Arrange error: %v", err)
	}
	if res.Placements[0].ID != "x" || res.Placements[1].ID != "y" {
		t.Errorf("tie order = %q, %q; want x, y", res.Placements[0].ID, res.Placements[1].ID)
	}
	if res.Placements[0].Position != 3 || res.Placements[1].Position != 6 {
		t.Errorf("positions = %d, %d; want 3, 6",
			res.Placements[0].Position, res.Placements[1].Position)
	}
}

func TestArrangeEmptySet(t *testing.T) {
	res, err := Arrange(&Set{Separation: 4})
	if err != nil {
		t.Fatalf("Arrange error: %v", err)
	}
	if len(res.Placements) != 0 {
		t.Errorf("Placements = %v, want empty", res.Placements)
	}
	if res.MaxOffset != 0 {
		t.Errorf("MaxOffset = %d, want 0", res.MaxOffset)
	}
}

func TestArrangeInvalidSet(t *testing.T) {
	_, err := Arrange(&Set{Separation: -2, Labels: []Label{{ID: "a"}}})
	if !errors.Is(err, place.ErrNegativeSeparation) {
		t.Errorf("Arrange error = %v, want ErrNegativeSeparation", err)
	}
}

func TestArrangeDoesNotModifySet(t *testing.T) {
	set := &Set{
		Separation: 10,
		Labels:     []Label{{ID: "b", Anchor: 9}, {ID: "a", Anchor: 0}},
	}
	if _, err := Arrange(set); err != nil {
		t.Fatalf("Arrange error: %v", err)
	}
	if set.Labels[0].ID != "b" || set.Labels[1].ID != "a" {
		t.Errorf("set labels reordered: %+v", set.Labels)
	}
}

const tomlSet = `
name = "peaks"
separation = 12

[limits]
min = 0
max = 400

[[labels]]
id = "everest"
anchor = 120

[[labels]]
id = "k2"
anchor = 118
`

func TestReadSetTOML(t *testing.T) {
	s, err := ReadSet(strings.NewReader(tomlSet), FormatTOML)
	if err != nil {
		t.Fatalf("ReadSet error: %v", err)
	}
	if s.Name != "peaks" {
		t.Errorf("Name = %q, want peaks", s.Name)
	}
	if s.Separation != 12 {
		t.Errorf("Separation = %d, want 12", s.Separation)
	}
	if s.Limits == nil || s.Limits.Min != 0 || s.Limits.Max != 400 {
		t.Errorf("Limits = %+v, want {0 400}", s.Limits)
	}
	if len(s.Labels) != 2 || s.Labels[0].ID != "everest" || s.Labels[1].Anchor != 118 {
		t.Errorf("Labels = %+v", s.Labels)
	}
}

func TestReadSetJSON(t *testing.T) {
	in := `{"separation": 5, "labels": [{"id": "a", "anchor": 1}]}`
	s, err := ReadSet(strings.NewReader(in), FormatJSON)
	if err != nil {
		t.Fatalf("ReadSet error: %v", err)
	}
	if s.Separation != 5 || len(s.Labels) != 1 || s.Labels[0].ID != "a" {
		t.Errorf("Set = %+v", s)
	}
	if s.Limits != nil {
		t.Errorf("Limits = %+v, want nil", s.Limits)
	}
}

func TestReadSetUnsupportedFormat(t *testing.T) {
	_, err := ReadSet(strings.NewReader(""), "yaml")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadSetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "peaks.toml")
	if err := os.WriteFile(path, []byte(tomlSet), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, err := ReadSetFile(path)
	if err != nil {
		t.Fatalf("ReadSetFile error: %v", err)
	}
	if s.Name != "peaks" || len(s.Labels) != 2 {
		t.Errorf("Set = %+v", s)
	}

	if _, err := ReadSetFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("ReadSetFile on missing file should error")
	}

	bad := filepath.Join(dir, "set.yaml")
	if err := os.WriteFile(bad, []byte("x"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := ReadSetFile(bad); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestMarshalResult(t *testing.T) {
	res, err := Arrange(&Set{
		Separation: 10,
		Labels:     []Label{{ID: "a", Anchor: 0}, {ID: "b", Anchor: 1}},
	})
	if err != nil {
		t.Fatalf("Arrange error: %v", err)
	}
	data, err := MarshalResult(res)
	if err != nil {
		t.Fatalf("MarshalResult error: %v", err)
	}
	for _, want := range []string{`"max_offset": 5`, `"id": "a"`, `"position": -5`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("marshaled result missing %q:\n%s", want, data)
		}
	}

	back, err := UnmarshalResult(data)
	if err != nil {
		t.Fatalf("UnmarshalResult error: %v", err)
	}
	if back.MaxOffset != res.MaxOffset || len(back.Placements) != len(res.Placements) {
		t.Errorf("UnmarshalResult = %+v, want %+v", back, res)
	}
}

func TestUnmarshalResultInvalid(t *testing.T) {
	if _, err := UnmarshalResult([]byte("{not json")); err == nil {
		t.Error("UnmarshalResult should reject malformed JSON")
	}
}

func TestSetClone(t *testing.T) {
	s := &Set{
		Name:       "orig",
		Separation: 3,
		Limits:     &Limits{Min: 1, Max: 9},
		Labels:     []Label{{ID: "a", Anchor: 1}},
	}
	c := s.Clone()
	c.Labels[0].ID = "changed"
	c.Limits.Max = 99
	if s.Labels[0].ID != "a" || s.Limits.Max != 9 {
		t.Errorf("Clone shares memory with original: %+v", s)
	}
}

func TestResultPositions(t *testing.T) {
	res := &Result{Placements: []Placement{{Position: -5}, {Position: 5}}}
	got := res.Positions()
	if len(got) != 2 || got[0] != -5 || got[1] != 5 {
		t.Errorf("Positions() = %v, want [-5 5]", got)
	}
}

func TestFromAnchors(t *testing.T) {
	set := FromAnchors([]int{7, 3, 3}, 2, &Limits{Min: 0, Max: 10})

	if err := set.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if set.Separation != 2 {
		t.Errorf("Separation = %d, want 2", set.Separation)
	}
	if set.Limits == nil || set.Limits.Max != 10 {
		t.Errorf("Limits = %+v, want Min 0 Max 10", set.Limits)
	}

	want := []Label{{ID: "1", Anchor: 7}, {ID: "2", Anchor: 3}, {ID: "3", Anchor: 3}}
	if len(set.Labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(set.Labels), len(want))
	}
	for i, l := range set.Labels {
		if l != want[i] {
			t.Errorf("Labels[%d] = %+v, want %+v", i, l, want[i])
		}
	}
}
