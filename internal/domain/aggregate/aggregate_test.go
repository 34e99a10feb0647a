package aggregate_test

import (
	"errors"
	"math"
	"testing"

	"samarth/internal/domain/aggregate"
	"samarth/internal/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	avg, err := aggregate.Average([]float64{810, 760, 790})
	require.NoError(t, err)
	assert.InDelta(t, 786.6666, avg, 0.001)

	avg, err = aggregate.Average([]float64{5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)
}

func TestAverage_EmptySeries(t *testing.T) {
	for _, series := range [][]float64{nil, {}} {
		avg, err := aggregate.Average(series)

		var empty *aggregate.EmptySeriesError
		require.True(t, errors.As(err, &empty))
		assert.False(t, math.IsNaN(avg))
		assert.Zero(t, avg)
	}
}

func TestAverageAll(t *testing.T) {
	t.Run("mean over concatenated series", func(t *testing.T) {
		snap, err := dataset.NewSnapshot([]dataset.Region{
			{Name: "A", Rainfall: []float64{1, 1, 1}},
			{Name: "B", Rainfall: []float64{3, 3, 3}},
		})
		require.NoError(t, err)

		avg, err := aggregate.AverageAll(snap)
		require.NoError(t, err)
		assert.Equal(t, 2.0, avg)
	})

	t.Run("weights by reading count, not by region", func(t *testing.T) {
		snap, err := dataset.NewSnapshot([]dataset.Region{
			{Name: "A", Rainfall: []float64{0}},
			{Name: "B", Rainfall: []float64{4, 4, 4}},
			{Name: "C", Crops: []dataset.CropYield{{Crop: "Rice", Tonnes: 1}}},
		})
		require.NoError(t, err)

		avg, err := aggregate.AverageAll(snap)
		require.NoError(t, err)
		assert.Equal(t, 3.0, avg)
	})

	t.Run("no regions", func(t *testing.T) {
		snap, err := dataset.NewSnapshot(nil)
		require.NoError(t, err)

		_, err = aggregate.AverageAll(snap)
		var empty *aggregate.EmptySeriesError
		assert.True(t, errors.As(err, &empty))
	})

	t.Run("all series empty", func(t *testing.T) {
		snap, err := dataset.NewSnapshot([]dataset.Region{{Name: "A"}, {Name: "B"}})
		require.NoError(t, err)

		_, err = aggregate.AverageAll(snap)
		var empty *aggregate.EmptySeriesError
		assert.True(t, errors.As(err, &empty))
	})

	t.Run("nil snapshot", func(t *testing.T) {
		_, err := aggregate.AverageAll(nil)
		var empty *aggregate.EmptySeriesError
		assert.True(t, errors.As(err, &empty))
	})
}

func TestTopN(t *testing.T) {
	tests := []struct {
		name  string
		table []dataset.CropYield
		n     int
		want  []dataset.CropYield
	}{
		{
			name:  "fewer entries than n, no padding",
			table: []dataset.CropYield{{Crop: "Wheat", Tonnes: 16000}, {Crop: "Rice", Tonnes: 14000}},
			n:     3,
			want:  []dataset.CropYield{{Crop: "Wheat", Tonnes: 16000}, {Crop: "Rice", Tonnes: 14000}},
		},
		{
			name: "sorted descending and truncated",
			table: []dataset.CropYield{
				{Crop: "Cotton", Tonnes: 11000},
				{Crop: "Sugarcane", Tonnes: 22000},
				{Crop: "Maize", Tonnes: 500},
				{Crop: "Bajra", Tonnes: 9000},
			},
			n: 3,
			want: []dataset.CropYield{
				{Crop: "Sugarcane", Tonnes: 22000},
				{Crop: "Cotton", Tonnes: 11000},
				{Crop: "Bajra", Tonnes: 9000},
			},
		},
		{
			name: "ties keep table order",
			table: []dataset.CropYield{
				{Crop: "Barley", Tonnes: 100},
				{Crop: "Wheat", Tonnes: 500},
				{Crop: "Gram", Tonnes: 100},
				{Crop: "Mustard", Tonnes: 100},
			},
			n: 3,
			want: []dataset.CropYield{
				{Crop: "Wheat", Tonnes: 500},
				{Crop: "Barley", Tonnes: 100},
				{Crop: "Gram", Tonnes: 100},
			},
		},
		{
			name:  "empty table",
			table: nil,
			n:     3,
			want:  []dataset.CropYield{},
		},
		{
			name:  "non-positive n",
			table: []dataset.CropYield{{Crop: "Wheat", Tonnes: 1}},
			n:     0,
			want:  []dataset.CropYield{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := aggregate.TopN(tt.table, tt.n)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopN_DoesNotReorderInput(t *testing.T) {
	table := []dataset.CropYield{{Crop: "Rice", Tonnes: 1}, {Crop: "Wheat", Tonnes: 2}}
	aggregate.TopN(table, 2)
	assert.Equal(t, "Rice", table[0].Crop)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 786.67, aggregate.Round2(786.6666666))
	assert.Equal(t, 600.0, aggregate.Round2(600))
	assert.Equal(t, 758.89, aggregate.Round2(6830.0/9))
}
