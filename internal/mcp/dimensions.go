package mcp

import (
	"math"
	"sort"

	"github.com/Abaw1984/azload-sub000/internal/model"
)

// RoofType is the roof profile derived from node geometry
type RoofType string

const (
	RoofFlat      RoofType = "FLAT"
	RoofGable     RoofType = "GABLE"
	RoofMonoslope RoofType = "MONOSLOPE"
)

// Dimensions are derived from node coordinates, never taken from the parser.
// Lengths are in model units, RoofSlope in degrees.
type Dimensions struct {
	BuildingLength float64   `json:"buildingLength"`
	BuildingWidth  float64   `json:"buildingWidth"`
	TotalHeight    float64   `json:"totalHeight"`
	EaveHeight     float64   `json:"eaveHeight"`
	MeanRoofHeight float64   `json:"meanRoofHeight"`
	RoofSlope      float64   `json:"roofSlope"`
	RoofType       RoofType  `json:"roofType"`
	FrameCount     int       `json:"frameCount"`
	BaySpacings    []float64 `json:"baySpacings"`
}

// AspectRatio returns the plan ratio long side over short side, or 0 when
// either plan dimension is zero
func (d Dimensions) AspectRatio() float64 {
	if d.BuildingLength <= 0 || d.BuildingWidth <= 0 {
		return 0
	}
	return math.Max(d.BuildingLength, d.BuildingWidth) / math.Min(d.BuildingLength, d.BuildingWidth)
}

// TypicalBaySpacing is the largest bay, or 0 for a single frame line
func (d Dimensions) TypicalBaySpacing() float64 {
	var s float64
	for _, b := range d.BaySpacings {
		s = math.Max(s, b)
	}
	return s
}

type extent struct{ min, max float64 }

func newExtent() extent { return extent{math.Inf(1), math.Inf(-1)} }

func (e *extent) add(v float64) {
	e.min = math.Min(e.min, v)
	e.max = math.Max(e.max, v)
}

func (e extent) size() float64 {
	if e.max < e.min {
		return 0
	}
	return e.max - e.min
}

// ComputeDimensions derives building dimensions from the node bounding box.
// Heights are measured from the lowest node. Wall tops are the highest nodes
// at the two width extremes; the eave is the lower of the two. Differing wall
// tops make a monoslope, a ridge above the eave makes a gable. Frame lines
// are the distinct length-axis positions of column bases.
// The result depends only on the inputs.
func ComputeDimensions(m *model.StructuralModel, axes model.AxisConvention, tol float64) Dimensions {
	d := Dimensions{RoofType: RoofFlat, BaySpacings: []float64{}}
	if len(m.Nodes) == 0 {
		return d
	}

	span, along, height := newExtent(), newExtent(), newExtent()
	for _, n := range m.Nodes {
		span.add(axes.Span(n))
		along.add(axes.Along(n))
		height.add(axes.Height(n))
	}
	d.BuildingWidth = span.size()
	d.BuildingLength = along.size()
	d.TotalHeight = height.size()

	// wall tops at either width extreme
	lowTop, highTop := math.Inf(-1), math.Inf(-1)
	for _, n := range m.Nodes {
		z := axes.Height(n) - height.min
		s := axes.Span(n)
		if math.Abs(s-span.min) <= tol {
			lowTop = math.Max(lowTop, z)
		}
		if math.Abs(s-span.max) <= tol {
			highTop = math.Max(highTop, z)
		}
	}
	eave := math.Min(lowTop, highTop)
	if math.IsInf(eave, 0) {
		eave = d.TotalHeight
	}
	d.EaveHeight = eave

	diff := math.Abs(highTop - lowTop)
	rise := d.TotalHeight - eave
	switch {
	case d.BuildingWidth > tol && diff > tol:
		d.RoofType = RoofMonoslope
		d.RoofSlope = degrees(math.Atan(diff / d.BuildingWidth))
	case d.BuildingWidth > tol && rise > tol:
		d.RoofType = RoofGable
		d.RoofSlope = degrees(math.Atan(rise / (d.BuildingWidth / 2)))
	}
	d.MeanRoofHeight = (d.EaveHeight + d.TotalHeight) / 2

	lines := frameLines(m, axes, height.min, tol)
	d.FrameCount = len(lines)
	for i := 1; i < len(lines); i++ {
		d.BaySpacings = append(d.BaySpacings, lines[i]-lines[i-1])
	}
	return d
}

// frameLines clusters the length-axis coordinates of column bases. Without
// vertical members every node at base level counts as a base.
func frameLines(m *model.StructuralModel, axes model.AxisConvention, base, tol float64) []float64 {
	idx := model.NewIndex(m)

	var positions []float64
	for i := range m.Members {
		seg, ok := idx.Resolve(&m.Members[i])
		if !ok || seg.Orientation(axes) != model.OrientationVertical {
			continue
		}
		foot := seg.Start
		if axes.Height(seg.End) < axes.Height(foot) {
			foot = seg.End
		}
		if axes.Height(foot)-base <= tol {
			positions = append(positions, axes.Along(foot))
		}
	}
	if len(positions) == 0 {
		for _, n := range m.Nodes {
			if axes.Height(n)-base <= tol {
				positions = append(positions, axes.Along(n))
			}
		}
	}
	return cluster(positions, tol)
}

// cluster sorts values and merges those within tol of the previous cluster
// start
func cluster(values []float64, tol float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	out := []float64{sorted[0]}
	for _, v := range sorted[1:] {
		if v-out[len(out)-1] > tol {
			out = append(out, v)
		}
	}
	return out
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// dimensionsEqual compares two derivations within a relative tolerance
func dimensionsEqual(a, b Dimensions) bool {
	eq := func(x, y float64) bool {
		return math.Abs(x-y) <= 1e-9*math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	}
	if !eq(a.BuildingLength, b.BuildingLength) || !eq(a.BuildingWidth, b.BuildingWidth) ||
		!eq(a.TotalHeight, b.TotalHeight) || !eq(a.EaveHeight, b.EaveHeight) ||
		!eq(a.MeanRoofHeight, b.MeanRoofHeight) || !eq(a.RoofSlope, b.RoofSlope) {
		return false
	}
	if a.RoofType != b.RoofType || a.FrameCount != b.FrameCount || len(a.BaySpacings) != len(b.BaySpacings) {
		return false
	}
	for i := range a.BaySpacings {
		if !eq(a.BaySpacings[i], b.BaySpacings[i]) {
			return false
		}
	}
	return true
}
