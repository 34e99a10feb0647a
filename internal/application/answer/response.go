// Package answer turns a classified question into the uniform response record
// returned to every caller: a text summary, chart-ready series and provenance.
package answer

import "samarth/internal/domain/intent"

// Response is the payload returned for every question. Labels and Values are
// parallel series for charting; Suggestions is only set for fallback answers.
type Response struct {
	Type        intent.Intent `json:"type"`
	Text        string        `json:"text"`
	Labels      []string      `json:"labels"`
	Values      []float64     `json:"values"`
	Citation    string        `json:"citation,omitempty"`
	Region      string        `json:"region,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

const (
	// RainfallCitation identifies the rainfall data provenance.
	RainfallCitation = "IMD (sample) - demo dataset"
	// AgricultureCitation identifies the crop production data provenance.
	AgricultureCitation = "Min. of Agriculture (sample) - demo dataset"

	// TopCropsLimit is how many crops a ranking answer lists.
	TopCropsLimit = 3

	fallbackText = "I didn't understand that fully. Try one of these examples shown in the left panel."
	noDataText   = "No data available to answer this question."
)

// Suggestions returns the example questions offered when a question is not understood.
func Suggestions() []string {
	return []string{
		"Compare rainfall in Punjab and Haryana",
		"Top 3 crops in Punjab",
		"Average rainfall in India",
		"Most produced crop in India",
	}
}

// FallbackResponse is the guidance answer for questions no rule understood.
func FallbackResponse() Response {
	return Response{
		Type:        intent.Fallback,
		Text:        fallbackText,
		Labels:      []string{},
		Values:      []float64{},
		Suggestions: Suggestions(),
	}
}

// NoDataResponse is the answer for a recognized question whose computation
// had no data points to work with.
func NoDataResponse(kind intent.Intent) Response {
	resp := Response{
		Type:   kind,
		Text:   noDataText,
		Labels: []string{},
		Values: []float64{},
	}
	switch kind {
	case intent.RainfallCompare, intent.RainfallAverage:
		resp.Citation = RainfallCitation
	case intent.TopCrops:
		resp.Citation = AgricultureCitation
	}
	return resp
}

// UnknownRegionResponse is the fallback-shaped answer for a question that
// referenced a region missing from the current dataset.
func UnknownRegionResponse(region string) Response {
	resp := FallbackResponse()
	resp.Text = "I don't have data for " + region + " right now. Try one of these examples shown in the left panel."
	return resp
}
