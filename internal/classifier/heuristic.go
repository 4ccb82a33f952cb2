package classifier

import (
	"context"
	"math"
	"sort"

	"github.com/Abaw1984/azload-sub000/internal/model"
)

// HeuristicConfidence is reported for every heuristic building guess.
// It sits above the default low-confidence threshold so an offline guess
// does not warn, but well below what a trained model reports.
const HeuristicConfidence = 0.6

// Heuristic classifies from geometry alone. Members are tagged by their
// angle from horizontal: above 60° columns, below 30° beams or rafters,
// anything between braces.
type Heuristic struct {
	Axes model.AxisConvention
	// Tolerance for comparing heights, in model length units
	Tolerance float64
}

// NewHeuristic returns a heuristic classifier for the given axes
func NewHeuristic(axes model.AxisConvention, tol float64) *Heuristic {
	return &Heuristic{Axes: axes, Tolerance: tol}
}

type frameFeatures struct {
	segments   []model.Segment
	minHeight  float64
	maxHeight  float64
	minSpan    float64
	maxSpan    float64
	columnTops []float64
	levels     int
	hasTruss   bool
	hasCrane   bool
}

func (h *Heuristic) features(m *model.StructuralModel) frameFeatures {
	idx := model.NewIndex(m)
	f := frameFeatures{
		minHeight: math.Inf(1), maxHeight: math.Inf(-1),
		minSpan: math.Inf(1), maxSpan: math.Inf(-1),
	}
	for _, n := range m.Nodes {
		f.minHeight = math.Min(f.minHeight, h.Axes.Height(n))
		f.maxHeight = math.Max(f.maxHeight, h.Axes.Height(n))
		f.minSpan = math.Min(f.minSpan, h.Axes.Span(n))
		f.maxSpan = math.Max(f.maxSpan, h.Axes.Span(n))
	}

	var beamLevels []float64
	for i := range m.Members {
		mb := &m.Members[i]
		seg, ok := idx.Resolve(mb)
		if !ok {
			continue
		}
		f.segments = append(f.segments, seg)

		switch mb.Type {
		case model.TypeTrussChord, model.TypeTrussDiagonal:
			f.hasTruss = true
		case model.TypeCraneBeam:
			f.hasCrane = true
		}
		if mb.Tag.IsCrane() {
			f.hasCrane = true
		}

		switch seg.Orientation(h.Axes) {
		case model.OrientationVertical:
			f.columnTops = append(f.columnTops, math.Max(h.Axes.Height(seg.Start), h.Axes.Height(seg.End)))
		case model.OrientationHorizontal:
			mid := h.Axes.Height(seg.Midpoint())
			if mid > f.minHeight+h.Tolerance {
				beamLevels = append(beamLevels, mid)
			}
		}
	}
	f.levels = countLevels(beamLevels, h.Tolerance)
	return f
}

func countLevels(heights []float64, tol float64) int {
	if len(heights) == 0 {
		return 0
	}
	sort.Float64s(heights)
	levels := 1
	last := heights[0]
	for _, z := range heights[1:] {
		if z-last > tol {
			levels++
			last = z
		}
	}
	return levels
}

// ClassifyBuilding guesses a building type from frame features
func (h *Heuristic) ClassifyBuilding(ctx context.Context, m *model.StructuralModel) (BuildingClassification, error) {
	if err := ctx.Err(); err != nil {
		return Default, err
	}
	if len(m.Nodes) == 0 || len(m.Members) == 0 {
		return Default, nil
	}

	f := h.features(m)
	bt := model.BuildingSingleGableHangar
	switch {
	case f.hasCrane:
		bt = model.BuildingIndustrialWarehouse
	case f.levels >= 3:
		bt = model.BuildingSymmetricMultiStory
	case f.hasTruss:
		bt = model.BuildingTrussSingleGable
	case h.monoslope(f):
		bt = model.BuildingMonoSlopeBuilding
	}
	return BuildingClassification{BuildingType: bt, Confidence: HeuristicConfidence}, nil
}

// monoslope reports whether the columns at the two width extremes stop at
// different heights
func (h *Heuristic) monoslope(f frameFeatures) bool {
	low, high := math.Inf(-1), math.Inf(-1)
	for _, seg := range f.segments {
		if seg.Orientation(h.Axes) != model.OrientationVertical {
			continue
		}
		top := math.Max(h.Axes.Height(seg.Start), h.Axes.Height(seg.End))
		span := h.Axes.Span(seg.Start)
		switch {
		case math.Abs(span-f.minSpan) <= h.Tolerance:
			low = math.Max(low, top)
		case math.Abs(span-f.maxSpan) <= h.Tolerance:
			high = math.Max(high, top)
		}
	}
	if math.IsInf(low, -1) || math.IsInf(high, -1) {
		return false
	}
	return math.Abs(high-low) > h.Tolerance
}

// ClassifyMembers tags every resolvable member
func (h *Heuristic) ClassifyMembers(ctx context.Context, m *model.StructuralModel) (map[string]model.MemberTag, error) {
	if err := ctx.Err(); err != nil {
		return map[string]model.MemberTag{}, err
	}
	tags := make(map[string]model.MemberTag, len(m.Members))
	if len(m.Nodes) == 0 {
		return tags, nil
	}

	f := h.features(m)
	eave := f.maxHeight
	for _, top := range f.columnTops {
		eave = math.Min(eave, top)
	}

	for _, seg := range f.segments {
		tags[seg.Member.ID] = h.tagFor(seg, f, eave)
	}
	return tags, nil
}

func (h *Heuristic) tagFor(seg model.Segment, f frameFeatures, eave float64) model.MemberTag {
	switch seg.Member.Type {
	case model.TypeCraneBeam:
		return model.TagCraneBeam
	case model.TypePurlin:
		return model.TagRoofPurlin
	case model.TypeGirt:
		return model.TagWallGirt
	case model.TypeCantilever:
		return model.TagCantileverBeam
	case model.TypeCanopyBeam:
		return model.TagCanopyBeam
	case model.TypeTrussDiagonal:
		return model.TagTrussWebDiagonal
	case model.TypeTrussChord:
		if h.Axes.Height(seg.Midpoint()) >= (f.minHeight+f.maxHeight)/2 {
			return model.TagTrussTopChord
		}
		return model.TagTrussBottomChord
	}

	switch seg.Orientation(h.Axes) {
	case model.OrientationVertical:
		span := h.Axes.Span(seg.Start)
		if math.Abs(span-f.minSpan) <= h.Tolerance || math.Abs(span-f.maxSpan) <= h.Tolerance {
			return model.TagMainFrameColumn
		}
		return model.TagInteriorColumn
	case model.OrientationHorizontal:
		if h.Axes.Height(seg.Midpoint()) >= eave-h.Tolerance {
			return model.TagMainFrameRafter
		}
		if h.Axes.Height(seg.Midpoint()) <= f.minHeight+h.Tolerance {
			return model.TagGradeBeam
		}
		return model.TagFloorBeam
	default:
		return model.TagVerticalBrace
	}
}
