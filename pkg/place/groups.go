package place

// Group describes a maximal run of consecutive labels whose placed
// positions sit at exactly the minimum separation. Labels inside a group
// are pressed against their neighbors and cannot move independently; the
// group as a whole is what limit correction translates.
//
// First and Last index into the placed sequence (inclusive). Start and End
// are the positions of those two labels.
type Group struct {
	First, Last int
	Start, End  int
}

// Size returns the number of labels in the group.
func (g Group) Size() int { return g.Last - g.First + 1 }

// Span returns the axis distance the group covers.
func (g Group) Span() int { return g.End - g.Start }

// Groups splits a placed sequence into maximal runs of labels that touch
// at the minimum separation. Labels with slack on both sides form
// singleton groups. The input is typically the output of [Place] or
// [PlaceWithLimits]; gaps below the separation, which a valid placement
// never contains, are treated like exact ones.
func Groups(positions []int, separation int) []Group {
	if len(positions) == 0 {
		return nil
	}
	groups := []Group{{Start: positions[0], End: positions[0]}}
	for i := 1; i < len(positions); i++ {
		last := &groups[len(groups)-1]
		if positions[i]-positions[i-1] <= separation {
			last.Last = i
			last.End = positions[i]
			continue
		}
		groups = append(groups, Group{First: i, Last: i, Start: positions[i], End: positions[i]})
	}
	return groups
}
