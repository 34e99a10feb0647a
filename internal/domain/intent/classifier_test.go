package intent_test

import (
	"strings"
	"testing"

	"samarth/internal/domain/dataset"
	"samarth/internal/domain/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoSnapshot(t *testing.T) *dataset.Snapshot {
	t.Helper()
	snap, err := dataset.NewSnapshot([]dataset.Region{
		{Name: "Punjab", Rainfall: []float64{810, 760, 790}, Crops: []dataset.CropYield{{Crop: "Wheat", Tonnes: 16000}, {Crop: "Rice", Tonnes: 14000}}},
		{Name: "Haryana", Rainfall: []float64{620, 580, 600}, Crops: []dataset.CropYield{{Crop: "Wheat", Tonnes: 12000}, {Crop: "Rice", Tonnes: 8000}}},
		{Name: "Maharashtra", Rainfall: []float64{890, 910, 870}, Crops: []dataset.CropYield{{Crop: "Sugarcane", Tonnes: 22000}, {Crop: "Cotton", Tonnes: 11000}}},
		{Name: "Kerala", Rainfall: []float64{3000}},
	})
	require.NoError(t, err)
	return snap
}

func TestClassifier_Classify(t *testing.T) {
	snap := demoSnapshot(t)
	classifier := intent.NewClassifier()

	tests := []struct {
		name     string
		question string
		want     intent.Classification
	}{
		{
			name:     "compare uses fixed region order",
			question: "Compare rainfall in Haryana and Punjab",
			want: intent.Classification{
				Intent:   intent.RainfallCompare,
				Entities: intent.Entities{Regions: []string{"Punjab", "Haryana"}},
			},
		},
		{
			name:     "compare is case-insensitive",
			question: "COMPARE PUNJAB HARYANA",
			want: intent.Classification{
				Intent:   intent.RainfallCompare,
				Entities: intent.Entities{Regions: []string{"Punjab", "Haryana"}},
			},
		},
		{
			name:     "compare wins over average",
			question: "Compare the average rainfall of Punjab and Haryana",
			want: intent.Classification{
				Intent:   intent.RainfallCompare,
				Entities: intent.Entities{Regions: []string{"Punjab", "Haryana"}},
			},
		},
		{
			name:     "compare needs both regions",
			question: "Compare rainfall in Punjab and Maharashtra",
			want:     intent.Classification{Intent: intent.Fallback},
		},
		{
			name:     "average rainfall",
			question: "Average rainfall in India",
			want:     intent.Classification{Intent: intent.RainfallAverage},
		},
		{
			name:     "average ignores region qualifiers",
			question: "What is the average rainfall in Punjab?",
			want:     intent.Classification{Intent: intent.RainfallAverage},
		},
		{
			name:     "average wins over top",
			question: "top average rainfall in Punjab",
			want:     intent.Classification{Intent: intent.RainfallAverage},
		},
		{
			name:     "top crops",
			question: "Top 3 crops in Punjab",
			want: intent.Classification{
				Intent:   intent.TopCrops,
				Entities: intent.Entities{Regions: []string{"Punjab"}},
			},
		},
		{
			name:     "most produced",
			question: "What is the most produced crop in maharashtra",
			want: intent.Classification{
				Intent:   intent.TopCrops,
				Entities: intent.Entities{Regions: []string{"Maharashtra"}},
			},
		},
		{
			name:     "top crops without region",
			question: "Most produced crop in India",
			want:     intent.Classification{Intent: intent.Fallback},
		},
		{
			name:     "top crops for region without crop data",
			question: "Top crops in Kerala",
			want:     intent.Classification{Intent: intent.Fallback},
		},
		{
			name:     "top crops naming two regions is ambiguous",
			question: "Top crops in Punjab and Haryana",
			want:     intent.Classification{Intent: intent.Fallback},
		},
		{
			name:     "region without crops does not make question ambiguous",
			question: "Top crops in Punjab, not Kerala",
			want: intent.Classification{
				Intent:   intent.TopCrops,
				Entities: intent.Entities{Regions: []string{"Punjab"}},
			},
		},
		{
			name:     "unrelated question",
			question: "What is the capital of France?",
			want:     intent.Classification{Intent: intent.Fallback},
		},
		{
			name:     "empty question",
			question: "",
			want:     intent.Classification{Intent: intent.Fallback},
		},
		{
			name:     "very long question",
			question: strings.Repeat("lorem ipsum ", 10000),
			want:     intent.Classification{Intent: intent.Fallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.question, snap))
		})
	}
}

func TestClassifier_CompareWithoutRegionsInSnapshot(t *testing.T) {
	snap, err := dataset.NewSnapshot([]dataset.Region{{Name: "Kerala", Rainfall: []float64{1}}})
	require.NoError(t, err)

	got := intent.NewClassifier().Classify("compare punjab and haryana", snap)
	assert.Equal(t, intent.RainfallCompare, got.Intent)
	assert.Equal(t, []string{"Punjab", "Haryana"}, got.Entities.Regions)
}

func TestClassifier_NilSnapshot(t *testing.T) {
	classifier := intent.NewClassifier()

	assert.Equal(t, intent.Fallback, classifier.Classify("top crops in punjab", nil).Intent)
	assert.Equal(t, intent.RainfallAverage, classifier.Classify("average rainfall", nil).Intent)
}

func TestClassifier_CustomRules(t *testing.T) {
	snap := demoSnapshot(t)

	classifier := intent.NewClassifier(
		intent.TopCropsRule(),
		intent.CompareRule("Maharashtra", "Kerala"),
	)

	got := classifier.Classify("compare kerala with maharashtra", snap)
	assert.Equal(t, intent.Classification{
		Intent:   intent.RainfallCompare,
		Entities: intent.Entities{Regions: []string{"Maharashtra", "Kerala"}},
	}, got)

	// Average is not in this table.
	assert.Equal(t, intent.Fallback, classifier.Classify("average rainfall", snap).Intent)
}

func TestClassifier_Deterministic(t *testing.T) {
	snap := demoSnapshot(t)
	classifier := intent.NewClassifier()

	first := classifier.Classify("Top crops in Maharashtra", snap)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, classifier.Classify("Top crops in Maharashtra", snap))
	}
}

func TestAll(t *testing.T) {
	assert.Equal(t, []intent.Intent{
		intent.RainfallCompare, intent.RainfallAverage, intent.TopCrops, intent.Fallback,
	}, intent.All())
}
