// Package dataset holds the immutable reference data the question engine reads:
// rainfall readings and crop production figures keyed by region.
//
// A Snapshot is built once, validated, and never mutated afterwards. Callers that
// need fresher data build a new Snapshot and publish it as a whole; nothing in
// this package supports in-place updates.
package dataset

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CropYield is the production quantity, in tonnes, of one crop within a region.
type CropYield struct {
	Crop   string  `json:"crop" yaml:"crop"`
	Tonnes float64 `json:"tonnes" yaml:"tonnes"`
}

// Region groups every record known for one geographic unit.
// Rainfall is in millimeters. Crops keep their source order, which is the
// tie-break order when ranking.
type Region struct {
	Name     string      `json:"name" yaml:"name"`
	Rainfall []float64   `json:"rainfall,omitempty" yaml:"rainfall,omitempty"`
	Crops    []CropYield `json:"crops,omitempty" yaml:"crops,omitempty"`
}

// RegionSummary describes a region without exposing its readings.
type RegionSummary struct {
	Name             string `json:"name"`
	RainfallReadings int    `json:"rainfall_readings"`
	Crops            int    `json:"crops"`
}

// Snapshot is an immutable, validated view of the dataset.
type Snapshot struct {
	version  string
	source   string
	loadedAt time.Time
	regions  []Region
	index    map[string]int
}

// Option customizes snapshot metadata.
type Option func(*Snapshot)

// WithVersion overrides the generated snapshot version.
func WithVersion(version string) Option {
	return func(s *Snapshot) { s.version = version }
}

// WithSource records where the snapshot was loaded from.
func WithSource(source string) Option {
	return func(s *Snapshot) { s.source = source }
}

// WithLoadedAt overrides the load timestamp, mostly for tests.
func WithLoadedAt(t time.Time) Option {
	return func(s *Snapshot) { s.loadedAt = t }
}

// NewSnapshot validates regions and returns a snapshot that owns deep copies of them.
// Region order is preserved and is the iteration order seen by every reader.
func NewSnapshot(regions []Region, opts ...Option) (*Snapshot, error) {
	s := &Snapshot{
		version:  uuid.NewString(),
		source:   "unknown",
		loadedAt: time.Now().UTC(),
		regions:  make([]Region, 0, len(regions)),
		index:    make(map[string]int, len(regions)),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, r := range regions {
		if err := validateRegion(r); err != nil {
			return nil, err
		}
		key := normalize(r.Name)
		if _, dup := s.index[key]; dup {
			return nil, &InvalidDataError{Region: r.Name, Reason: "duplicate region name"}
		}
		s.index[key] = len(s.regions)
		s.regions = append(s.regions, cloneRegion(r))
	}

	return s, nil
}

func validateRegion(r Region) error {
	if strings.TrimSpace(r.Name) == "" {
		return &InvalidDataError{Reason: "region name is empty"}
	}
	for _, mm := range r.Rainfall {
		if math.IsNaN(mm) || math.IsInf(mm, 0) || mm < 0 {
			return &InvalidDataError{Region: r.Name, Reason: "rainfall readings must be finite and non-negative"}
		}
	}
	seen := make(map[string]struct{}, len(r.Crops))
	for _, c := range r.Crops {
		if strings.TrimSpace(c.Crop) == "" {
			return &InvalidDataError{Region: r.Name, Reason: "crop name is empty"}
		}
		key := normalize(c.Crop)
		if _, dup := seen[key]; dup {
			return &InvalidDataError{Region: r.Name, Reason: "duplicate crop " + c.Crop}
		}
		seen[key] = struct{}{}
		if math.IsNaN(c.Tonnes) || math.IsInf(c.Tonnes, 0) || c.Tonnes < 0 {
			return &InvalidDataError{Region: r.Name, Reason: "production of " + c.Crop + " must be finite and non-negative"}
		}
	}
	return nil
}

func cloneRegion(r Region) Region {
	out := Region{Name: r.Name}
	if len(r.Rainfall) > 0 {
		out.Rainfall = append([]float64(nil), r.Rainfall...)
	}
	if len(r.Crops) > 0 {
		out.Crops = append([]CropYield(nil), r.Crops...)
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Version identifies this snapshot. A reload always produces a new version.
func (s *Snapshot) Version() string { return s.version }

// Source describes where the data came from.
func (s *Snapshot) Source() string { return s.source }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of regions.
func (s *Snapshot) Len() int { return len(s.regions) }

// RegionNames returns region names in snapshot order.
func (s *Snapshot) RegionNames() []string {
	names := make([]string, len(s.regions))
	for i, r := range s.regions {
		names[i] = r.Name
	}
	return names
}

// Regions returns deep copies of every region in snapshot order.
func (s *Snapshot) Regions() []Region {
	out := make([]Region, len(s.regions))
	for i, r := range s.regions {
		out[i] = cloneRegion(r)
	}
	return out
}

// Lookup resolves a region name case-insensitively to its canonical spelling.
func (s *Snapshot) Lookup(name string) (string, bool) {
	i, ok := s.index[normalize(name)]
	if !ok {
		return "", false
	}
	return s.regions[i].Name, true
}

// Rainfall returns a copy of a region's readings. A known region without
// readings yields an empty series and no error.
func (s *Snapshot) Rainfall(region string) ([]float64, error) {
	i, ok := s.index[normalize(region)]
	if !ok {
		return nil, &UnknownRegionError{Region: region}
	}
	return append([]float64{}, s.regions[i].Rainfall...), nil
}

// Crops returns a copy of a region's crop table in source order.
func (s *Snapshot) Crops(region string) ([]CropYield, error) {
	i, ok := s.index[normalize(region)]
	if !ok {
		return nil, &UnknownRegionError{Region: region}
	}
	return append([]CropYield{}, s.regions[i].Crops...), nil
}

// HasCrops reports whether the region exists and has at least one crop record.
func (s *Snapshot) HasCrops(region string) bool {
	i, ok := s.index[normalize(region)]
	return ok && len(s.regions[i].Crops) > 0
}

// Summary lists every region with record counts, in snapshot order.
func (s *Snapshot) Summary() []RegionSummary {
	out := make([]RegionSummary, len(s.regions))
	for i, r := range s.regions {
		out[i] = RegionSummary{
			Name:             r.Name,
			RainfallReadings: len(r.Rainfall),
			Crops:            len(r.Crops),
		}
	}
	return out
}
