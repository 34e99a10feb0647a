// Package memory serves the built-in demonstration dataset.
package memory

import (
	"context"
	"time"

	"samarth/internal/domain/dataset"
)

// SourceName identifies the built-in dataset in snapshot metadata.
const SourceName = "memory:sample"

// SampleRegions returns the demonstration records: three Indian states with
// three rainfall readings (mm) and two crop production rows (tonnes) each.
func SampleRegions() []dataset.Region {
	return []dataset.Region{
		{
			Name:     "Punjab",
			Rainfall: []float64{810, 760, 790},
			Crops: []dataset.CropYield{
				{Crop: "Wheat", Tonnes: 16000},
				{Crop: "Rice", Tonnes: 14000},
			},
		},
		{
			Name:     "Haryana",
			Rainfall: []float64{620, 580, 600},
			Crops: []dataset.CropYield{
				{Crop: "Wheat", Tonnes: 12000},
				{Crop: "Rice", Tonnes: 8000},
			},
		},
		{
			Name:     "Maharashtra",
			Rainfall: []float64{890, 910, 870},
			Crops: []dataset.CropYield{
				{Crop: "Sugarcane", Tonnes: 22000},
				{Crop: "Cotton", Tonnes: 11000},
			},
		},
	}
}

// Sample builds a snapshot of the demonstration dataset.
func Sample() (*dataset.Snapshot, error) {
	return dataset.NewSnapshot(SampleRegions(), dataset.WithSource(SourceName))
}

// MustSample is Sample for tests and wiring where the fixed data cannot fail.
func MustSample() *dataset.Snapshot {
	snap, err := Sample()
	if err != nil {
		panic(err)
	}
	return snap
}

// Source loads a fixed set of regions held in memory.
type Source struct {
	regions []dataset.Region
	name    string
	now     func() time.Time
}

// NewSource returns a source serving regions. With no regions it serves the
// demonstration dataset.
func NewSource(regions ...dataset.Region) *Source {
	name := "memory"
	if len(regions) == 0 {
		regions = SampleRegions()
		name = SourceName
	}
	return &Source{regions: regions, name: name, now: time.Now}
}

// Load implements ports.DatasetSource.
func (s *Source) Load(ctx context.Context) (*dataset.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dataset.NewSnapshot(s.regions,
		dataset.WithSource(s.name),
		dataset.WithLoadedAt(s.now()),
	)
}

// Describe implements ports.DatasetSource.
func (s *Source) Describe() string { return s.name }
