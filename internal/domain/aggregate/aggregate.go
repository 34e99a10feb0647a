// Package aggregate computes the numbers behind every answer: rainfall means
// and crop rankings. All functions are pure.
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"samarth/internal/domain/dataset"
)

// EmptySeriesError reports an average requested over zero data points.
type EmptySeriesError struct {
	Scope string
}

func (e *EmptySeriesError) Error() string {
	if e.Scope == "" {
		return "cannot average an empty series"
	}
	return fmt.Sprintf("cannot average an empty series: %s", e.Scope)
}

// Average returns the arithmetic mean of series.
func Average(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, &EmptySeriesError{}
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series)), nil
}

// AverageAll returns the mean over the concatenation of every region's rainfall series.
func AverageAll(snap *dataset.Snapshot) (float64, error) {
	if snap == nil || snap.Len() == 0 {
		return 0, &EmptySeriesError{Scope: "dataset has no regions"}
	}

	var all []float64
	for _, r := range snap.Regions() {
		all = append(all, r.Rainfall...)
	}
	if len(all) == 0 {
		return 0, &EmptySeriesError{Scope: "no region has rainfall readings"}
	}
	return Average(all)
}

// TopN ranks crops by production, highest first, and keeps at most n entries.
// The sort is stable: crops with equal production keep their table order.
// An empty table (or n <= 0) yields an empty, non-nil slice.
func TopN(table []dataset.CropYield, n int) []dataset.CropYield {
	if n <= 0 || len(table) == 0 {
		return []dataset.CropYield{}
	}

	ranked := append([]dataset.CropYield(nil), table...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Tonnes > ranked[j].Tonnes
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
