package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/labelspread/pkg/place"
)

func TestGroupsDOT(t *testing.T) {
	res := testResult()
	groups := place.Groups(res.Positions(), res.Separation)
	if len(groups) != 2 {
		t.Fatalf("Groups() = %d groups, want 2", len(groups))
	}

	dot := GroupsDOT(res, groups)

	if !strings.Contains(dot, "digraph groups") {
		t.Error("GroupsDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "base camp @ -3") {
		t.Error("GroupsDOT() output missing member position")
	}
	if !strings.Contains(dot, `span -3..7`) {
		t.Error("GroupsDOT() output missing group span")
	}
	if !strings.Contains(dot, "g0 -> g1") {
		t.Error("GroupsDOT() output missing edge between groups")
	}
	if !strings.Contains(dot, "gap 33") {
		t.Error("GroupsDOT() output missing gap annotation")
	}
}

func TestGroupsDOT_SingleGroup(t *testing.T) {
	res := testResult()
	groups := []place.Group{{First: 0, Last: 2, Start: -3, End: 40}}

	dot := GroupsDOT(res, groups)

	if strings.Contains(dot, "->") {
		t.Error("GroupsDOT() single group should have no edges")
	}
	if !strings.Contains(dot, "summit @ 40") {
		t.Error("GroupsDOT() output missing last member")
	}
}

func TestGroupsSVG(t *testing.T) {
	dot := `digraph G { a -> b; }`
	svg, err := GroupsSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("GroupsSVG() error: %v", err)
	}

	if !strings.Contains(string(svg), "<svg") {
		t.Error("GroupsSVG() output missing <svg> tag")
	}
}

func TestGroupsSVG_InvalidDOT(t *testing.T) {
	dot := `not valid DOT {{{`
	_, err := GroupsSVG(context.Background(), dot)
	if err == nil {
		t.Error("GroupsSVG() should return error for invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}
