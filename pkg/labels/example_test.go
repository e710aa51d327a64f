package labels_test

import (
	"fmt"

	"github.com/matzehuels/labelspread/pkg/labels"
)

func ExampleArrange() {
	set := &labels.Set{
		Separation: 10,
		Labels: []labels.Label{
			{ID: "base camp", Anchor: 0},
			{ID: "camp one", Anchor: 4},
		},
	}

	res, _ := labels.Arrange(set)
	for _, p := range res.Placements {
		fmt.Printf("%s: %d (moved %+d)\n", p.ID, p.Position, p.Offset)
	}
	fmt.Println("worst offset:", res.MaxOffset)
	// Output:
	// base camp: -3 (moved -3)
	// camp one: 7 (moved +3)
	// worst offset: 3
}
