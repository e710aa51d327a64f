// Package labels provides the label set model around the placement engine:
// named labels anchored to axis coordinates, the files they are read from,
// and the arranged results handed to renderers and API clients.
//
// A [Set] is a placement problem as users author it, in TOML or JSON:
//
//	name = "release timeline"
//	separation = 12
//
//	[limits]
//	min = 0
//	max = 400
//
//	[[labels]]
//	id = "v1.0"
//	anchor = 35
//
//	[[labels]]
//	id = "v1.1"
//	anchor = 41
//
// [Arrange] validates a set, orders the labels along the axis and runs the
// solver from [github.com/matzehuels/labelspread/pkg/place], returning a
// [Result] with one [Placement] per label. Results serialize to JSON for
// files and HTTP responses.
package labels
