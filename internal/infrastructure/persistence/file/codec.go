// Package file reads datasets from YAML or JSON documents.
package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"samarth/internal/domain/dataset"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk layout. JSON documents use the same field names;
// they parse as YAML, so one decoder serves both.
//
//	regions:
//	  - name: Punjab
//	    rainfall: [810, 760, 790]
//	    crops:
//	      - name: Wheat
//	        tonnes: 16000
type Document struct {
	Regions []RegionDoc `yaml:"regions" json:"regions"`
}

// RegionDoc is one region entry.
type RegionDoc struct {
	Name     string    `yaml:"name" json:"name"`
	Rainfall []float64 `yaml:"rainfall,omitempty" json:"rainfall,omitempty"`
	Crops    []CropDoc `yaml:"crops,omitempty" json:"crops,omitempty"`
}

// CropDoc is one crop production row.
type CropDoc struct {
	Name   string  `yaml:"name" json:"name"`
	Tonnes float64 `yaml:"tonnes" json:"tonnes"`
}

// Decode parses a document and validates it into a snapshot.
func Decode(r io.Reader, opts ...dataset.Option) (*dataset.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset document: %w", err)
	}
	return DecodeBytes(data, opts...)
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte, opts ...dataset.Option) (*dataset.Snapshot, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset document is empty")
		}
		return nil, fmt.Errorf("parse dataset document: %w", err)
	}
	return dataset.NewSnapshot(doc.toRegions(), opts...)
}

func (d Document) toRegions() []dataset.Region {
	regions := make([]dataset.Region, 0, len(d.Regions))
	for _, rd := range d.Regions {
		region := dataset.Region{Name: rd.Name, Rainfall: rd.Rainfall}
		for _, c := range rd.Crops {
			region.Crops = append(region.Crops, dataset.CropYield{Crop: c.Name, Tonnes: c.Tonnes})
		}
		regions = append(regions, region)
	}
	return regions
}

// FromSnapshot converts a snapshot back into its document form.
func FromSnapshot(snap *dataset.Snapshot) Document {
	var doc Document
	for _, r := range snap.Regions() {
		rd := RegionDoc{Name: r.Name, Rainfall: r.Rainfall}
		for _, c := range r.Crops {
			rd.Crops = append(rd.Crops, CropDoc{Name: c.Crop, Tonnes: c.Tonnes})
		}
		doc.Regions = append(doc.Regions, rd)
	}
	return doc
}

// Encode writes snap as a YAML document.
func Encode(w io.Writer, snap *dataset.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromSnapshot(snap)); err != nil {
		return fmt.Errorf("encode dataset document: %w", err)
	}
	return enc.Close()
}
