package place_test

import (
	"fmt"

	"github.com/matzehuels/labelspread/pkg/place"
)

func ExamplePlace() {
	// Four labels crowd around the origin; keep them 10 units apart.
	positions, _ := place.Place([]int{-10, -1, 1, 10}, 10)
	fmt.Println(positions)
	// Output:
	// [-15 -5 5 15]
}

func ExamplePlace_alreadySeparated() {
	// Labels that never conflict come back unchanged.
	positions, _ := place.Place([]int{0, 100}, 10)
	fmt.Println(positions)
	// Output:
	// [0 100]
}

func ExamplePlaceWithLimits() {
	// The same crowd, but nothing may leave [0, 100].
	positions, _ := place.PlaceWithLimits([]int{-10, -1, 1, 10}, 10, 0, 100)
	fmt.Println(positions)
	// Output:
	// [0 10 20 30]
}

func ExampleGroups() {
	positions, _ := place.Place([]int{0, 4, 40}, 10)
	for _, g := range place.Groups(positions, 10) {
		fmt.Printf("labels %d-%d at %d..%d\n", g.First, g.Last, g.Start, g.End)
	}
	// Output:
	// labels 0-1 at -3..7
	// labels 2-2 at 40..40
}

func ExampleMaxOffset() {
	preferred := []int{0, 1}
	positions, _ := place.Place(preferred, 10)
	fmt.Println(place.MaxOffset(preferred, positions))
	// Output:
	// 5
}
