package intent

import (
	"strings"

	"samarth/internal/domain/dataset"
)

// MatchFunc inspects the lower-cased question and the current snapshot.
// It returns the extracted entities and whether the rule applies.
type MatchFunc func(text string, snap *dataset.Snapshot) (Entities, bool)

// Rule pairs an intent with the predicate that selects it.
type Rule struct {
	Intent Intent
	Match  MatchFunc
}

// DefaultRules is the production rule table, highest priority first.
func DefaultRules() []Rule {
	return []Rule{
		CompareRule("Punjab", "Haryana"),
		AverageRule(),
		TopCropsRule(),
	}
}

// CompareRule matches "compare" questions that name both regions of a fixed pair.
// Entities always list the pair in the given order, regardless of where the
// names appear in the text.
func CompareRule(first, second string) Rule {
	return Rule{
		Intent: RainfallCompare,
		Match: func(text string, snap *dataset.Snapshot) (Entities, bool) {
			if !strings.Contains(text, "compare") ||
				!strings.Contains(text, strings.ToLower(first)) ||
				!strings.Contains(text, strings.ToLower(second)) {
				return Entities{}, false
			}
			return Entities{Regions: []string{canonical(snap, first), canonical(snap, second)}}, true
		},
	}
}

// AverageRule matches questions about the overall average rainfall. It never
// takes a region qualifier; the answer covers every region.
func AverageRule() Rule {
	return Rule{
		Intent: RainfallAverage,
		Match: func(text string, _ *dataset.Snapshot) (Entities, bool) {
			if strings.Contains(text, "average") && strings.Contains(text, "rainfall") {
				return Entities{}, true
			}
			return Entities{}, false
		},
	}
}

// TopCropsRule matches ranking questions ("top", "most produced") that name
// exactly one region with crop records. A question naming several such
// regions is ambiguous and is not matched.
func TopCropsRule() Rule {
	return Rule{
		Intent: TopCrops,
		Match: func(text string, snap *dataset.Snapshot) (Entities, bool) {
			if snap == nil {
				return Entities{}, false
			}
			if !strings.Contains(text, "top") && !strings.Contains(text, "most produced") {
				return Entities{}, false
			}
			regions := mentionedRegions(text, snap, snap.HasCrops)
			if len(regions) != 1 {
				return Entities{}, false
			}
			return Entities{Regions: regions}, true
		},
	}
}

// mentionedRegions returns, in snapshot order, the regions whose names occur
// in text and satisfy keep.
func mentionedRegions(text string, snap *dataset.Snapshot, keep func(string) bool) []string {
	if snap == nil {
		return nil
	}
	var found []string
	for _, name := range snap.RegionNames() {
		if strings.Contains(text, strings.ToLower(name)) && keep(name) {
			found = append(found, name)
		}
	}
	return found
}

func canonical(snap *dataset.Snapshot, name string) string {
	if snap == nil {
		return name
	}
	if resolved, ok := snap.Lookup(name); ok {
		return resolved
	}
	return name
}
