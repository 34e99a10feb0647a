package answer

import (
	"fmt"
	"strconv"
	"strings"

	"samarth/internal/domain/aggregate"
	"samarth/internal/domain/dataset"
	"samarth/internal/domain/intent"
)

// Synthesizer computes the answer for a classification against a snapshot.
// It is stateless; identical inputs always produce identical responses.
type Synthesizer struct{}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize builds the response for c. It returns *aggregate.EmptySeriesError
// when an average has no readings and *dataset.UnknownRegionError when an
// entity names a region the snapshot does not hold.
func (s *Synthesizer) Synthesize(c intent.Classification, snap *dataset.Snapshot) (Response, error) {
	switch c.Intent {
	case intent.RainfallCompare:
		return s.compare(c.Entities.Regions, snap)
	case intent.RainfallAverage:
		return s.average(snap)
	case intent.TopCrops:
		return s.topCrops(c.Entities.Regions, snap)
	default:
		return FallbackResponse(), nil
	}
}

func (s *Synthesizer) compare(regions []string, snap *dataset.Snapshot) (Response, error) {
	if len(regions) != 2 {
		return Response{}, fmt.Errorf("rainfall comparison needs two regions, got %d", len(regions))
	}
	if snap == nil {
		return Response{}, &dataset.UnknownRegionError{Region: regions[0]}
	}

	values := make([]float64, len(regions))
	for i, region := range regions {
		series, err := snap.Rainfall(region)
		if err != nil {
			return Response{}, err
		}
		avg, err := aggregate.Average(series)
		if err != nil {
			return Response{}, &aggregate.EmptySeriesError{Scope: "rainfall for " + region}
		}
		values[i] = aggregate.Round2(avg)
	}

	text := fmt.Sprintf("Average rainfall — %s: %.2f mm, %s: %.2f mm (sample IMD data).",
		regions[0], values[0], regions[1], values[1])

	return Response{
		Type:     intent.RainfallCompare,
		Text:     text,
		Labels:   append([]string(nil), regions...),
		Values:   values,
		Citation: RainfallCitation,
	}, nil
}

func (s *Synthesizer) average(snap *dataset.Snapshot) (Response, error) {
	avg, err := aggregate.AverageAll(snap)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Type:     intent.RainfallAverage,
		Text:     fmt.Sprintf("India's demo average rainfall across states: %.2f mm.", aggregate.Round2(avg)),
		Labels:   []string{},
		Values:   []float64{},
		Citation: RainfallCitation,
	}, nil
}

func (s *Synthesizer) topCrops(regions []string, snap *dataset.Snapshot) (Response, error) {
	if len(regions) != 1 {
		return Response{}, fmt.Errorf("crop ranking needs one region, got %d", len(regions))
	}
	region := regions[0]
	if snap == nil {
		return Response{}, &dataset.UnknownRegionError{Region: region}
	}

	table, err := snap.Crops(region)
	if err != nil {
		return Response{}, err
	}

	ranked := aggregate.TopN(table, TopCropsLimit)
	resp := Response{
		Type:     intent.TopCrops,
		Labels:   make([]string, 0, len(ranked)),
		Values:   make([]float64, 0, len(ranked)),
		Citation: AgricultureCitation,
		Region:   region,
	}
	if len(ranked) == 0 {
		resp.Text = "No crop production data is available for " + region + "."
		return resp, nil
	}

	parts := make([]string, 0, len(ranked))
	for _, c := range ranked {
		resp.Labels = append(resp.Labels, c.Crop)
		resp.Values = append(resp.Values, c.Tonnes)
		parts = append(parts, fmt.Sprintf("%s (%s t)", c.Crop, formatTonnes(c.Tonnes)))
	}
	resp.Text = "Top crops in " + region + ": " + strings.Join(parts, ", ")
	return resp, nil
}

// formatTonnes prints whole quantities without a decimal point.
func formatTonnes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
