package ept

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ecopia-map/mesh_tiler/internal/data"
	"github.com/ecopia-map/mesh_tiler/internal/io"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/pkg/errors"
)

const (
	MetadataFile    = "ept.json"
	HierarchyFolder = "ept-hierarchy"
	DataType        = "binary"
	HierarchyType   = "json"
	Span            = 128
	Version         = "1.0.0"

	srsAuthority      = "EPSG"
	srsHorizontal     = "4978"
	dimensionFloat    = "floating"
	dimensionUnsigned = "unsigned"
)

// Metadata is the content of ept.json
type Metadata struct {
	Bounds           [6]float64  `json:"bounds"`
	BoundsConforming [6]float64  `json:"bounds_conforming"`
	Points           uint64      `json:"points"`
	Schema           []Dimension `json:"schema"`
	Srs              Srs         `json:"srs"`
	DataType         string      `json:"dataType"`
	HierarchyType    string      `json:"hierarchyType"`
	Span             uint32      `json:"span"`
	Version          string      `json:"version"`
}

type Dimension struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size uint32 `json:"size"`
}

type Srs struct {
	Authority  string `json:"authority"`
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
	Wkt        string `json:"wkt"`
}

// BuildSchema lists the record dimensions in storage order
func BuildSchema(layout io.RecordLayout) []Dimension {
	schema := []Dimension{
		{Name: "X", Type: dimensionFloat, Size: 4},
		{Name: "Y", Type: dimensionFloat, Size: 4},
		{Name: "Z", Type: dimensionFloat, Size: 4},
	}
	if layout.HasColors {
		schema = append(schema,
			Dimension{Name: "Red", Type: dimensionUnsigned, Size: 1},
			Dimension{Name: "Green", Type: dimensionUnsigned, Size: 1},
			Dimension{Name: "Blue", Type: dimensionUnsigned, Size: 1},
		)
	}
	if layout.HasNormals {
		schema = append(schema,
			Dimension{Name: "NormalX", Type: dimensionFloat, Size: 4},
			Dimension{Name: "NormalY", Type: dimensionFloat, Size: 4},
			Dimension{Name: "NormalZ", Type: dimensionFloat, Size: 4},
		)
	}
	return schema
}

// NewMetadata describes points stored with the given layout
func NewMetadata(points []data.Point, layout io.RecordLayout) *Metadata {
	bounds := ComputeBounds(points)
	return &Metadata{
		Bounds:           bounds,
		BoundsConforming: bounds,
		Points:           uint64(len(points)),
		Schema:           BuildSchema(layout),
		Srs: Srs{
			Authority:  srsAuthority,
			Horizontal: srsHorizontal,
		},
		DataType:      DataType,
		HierarchyType: HierarchyType,
		Span:          Span,
		Version:       Version,
	}
}

// RecordSize is the byte size of one point record as declared by the schema
func (m *Metadata) RecordSize() int {
	size := 0
	for _, dimension := range m.Schema {
		size += int(dimension.Size)
	}
	return size
}

// Layout recovers the record layout from the schema. Only schemas produced by BuildSchema are accepted.
func (m *Metadata) Layout() (io.RecordLayout, error) {
	var layout io.RecordLayout
	for _, dimension := range m.Schema {
		switch dimension.Name {
		case "Red":
			layout.HasColors = true
		case "NormalX":
			layout.HasNormals = true
		}
	}
	expected := BuildSchema(layout)
	if len(expected) != len(m.Schema) {
		return layout, errors.Errorf("unexpected schema with %d dimensions", len(m.Schema))
	}
	for i := range expected {
		if expected[i] != m.Schema[i] {
			return layout, errors.Errorf("unexpected dimension %d: %+v", i, m.Schema[i])
		}
	}
	return layout, nil
}

// ReadMetadata loads ept.json from an EPT folder
func ReadMetadata(dir string) (*Metadata, error) {
	path := filepath.Join(dir, MetadataFile)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, tiler.Fail(tiler.ErrFileRead, err, "read %s", path)
	}
	var metadata Metadata
	if err := json.Unmarshal(content, &metadata); err != nil {
		return nil, tiler.Fail(tiler.ErrSerialization, err, "decode %s", path)
	}
	return &metadata, nil
}

// writes v as 2-space indented JSON
func writeJSON(path string, v interface{}) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return tiler.Fail(tiler.ErrSerialization, err, "encode %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return tiler.Fail(tiler.ErrWrite, err, "write %s", path)
	}
	return nil
}
