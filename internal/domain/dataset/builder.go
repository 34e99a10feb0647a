package dataset

// Builder accumulates row-shaped records (as delivered by databases and key-value
// stores) into regions. Regions appear in the order they are first seen and
// records keep their insertion order within a region.
type Builder struct {
	regions []Region
	index   map[string]int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

func (b *Builder) region(name string) *Region {
	key := normalize(name)
	if i, ok := b.index[key]; ok {
		return &b.regions[i]
	}
	b.index[key] = len(b.regions)
	b.regions = append(b.regions, Region{Name: name})
	return &b.regions[len(b.regions)-1]
}

// AddRegion registers a region even if it ends up with no records.
func (b *Builder) AddRegion(name string) *Builder {
	b.region(name)
	return b
}

// AddRainfall appends one reading to a region's series.
func (b *Builder) AddRainfall(region string, mm float64) *Builder {
	r := b.region(region)
	r.Rainfall = append(r.Rainfall, mm)
	return b
}

// AddCrop appends one crop record to a region's table.
func (b *Builder) AddCrop(region, crop string, tonnes float64) *Builder {
	r := b.region(region)
	r.Crops = append(r.Crops, CropYield{Crop: crop, Tonnes: tonnes})
	return b
}

// Build validates the accumulated records and returns a snapshot.
func (b *Builder) Build(opts ...Option) (*Snapshot, error) {
	return NewSnapshot(b.regions, opts...)
}
