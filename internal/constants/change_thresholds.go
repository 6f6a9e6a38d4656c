package constants

// Change thresholds bucket a pair by its relative patch size, the tree edit
// distance divided by the size of the buggy tree. Bounds are inclusive.
const (
	// DefaultMinorChangeThreshold is the largest relative patch size still
	// considered a minor change, roughly one edit per ten nodes.
	DefaultMinorChangeThreshold = 0.1

	// DefaultModerateChangeThreshold is the largest relative patch size
	// considered a moderate change. Anything above it rewrote at least half
	// of the buggy tree.
	DefaultModerateChangeThreshold = 0.5
)

// ChangeLevelDescriptions provides human-readable descriptions for change levels
var ChangeLevelDescriptions = map[string]string{
	"None":     "Buggy and patch trees are identical",
	"Minor":    "A few nodes were renamed, inserted or deleted",
	"Moderate": "A noticeable part of the buggy tree was edited",
	"Major":    "Most of the buggy tree was rewritten",
}
