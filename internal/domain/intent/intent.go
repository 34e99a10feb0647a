// Package intent maps a free-text question onto one of a small, closed set of
// intents using keyword tests. It is deliberately not a language parser: a
// question is matched against an ordered rule table and the first rule that
// accepts it wins.
package intent

// Intent is the classified purpose of a question.
type Intent string

const (
	RainfallCompare Intent = "rainfall_compare"
	RainfallAverage Intent = "rainfall_average"
	TopCrops        Intent = "top_crops"
	Fallback        Intent = "fallback"
)

// All lists every intent, fallback last.
func All() []Intent {
	return []Intent{RainfallCompare, RainfallAverage, TopCrops, Fallback}
}

// Entities are values extracted from the question text. Only region names
// are recognized.
type Entities struct {
	Regions []string `json:"regions,omitempty"`
}

// Classification is the outcome of classifying one question.
type Classification struct {
	Intent   Intent   `json:"intent"`
	Entities Entities `json:"entities"`
}
