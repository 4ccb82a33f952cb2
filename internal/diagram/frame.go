package diagram

import (
	"math"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/loads"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// Point is a location in the elevation plane: X along the building width,
// Y up
type Point struct {
	X float64
	Y float64
}

// Line is a member projected onto the elevation
type Line struct {
	MemberID string
	From, To Point
}

// Arrow is a load drawn pointing at its point of application. Tail is
// offset from Head against the load direction, scaled to the frame.
// Magnitude is the load's resultant force.
type Arrow struct {
	Type      asce7.LoadType
	Head      Point
	Tail      Point
	Magnitude float64
	Label     string
}

// FrameDiagramData holds everything needed to draw a frame elevation with
// its loads
type FrameDiagramData struct {
	Title      string
	LengthUnit string
	ForceUnit  string

	Members []Line
	Arrows  []Arrow

	// OutOfPlane counts loads with no component in the elevation plane
	OutOfPlane int
}

// arrowFraction is the longest arrow as a share of the frame's larger extent
const arrowFraction = 0.15

// NewFrameDiagram projects m onto the width/height plane of axes and turns
// every load of the results into an arrow. Arrow lengths are proportional
// to each load's resultant.
func NewFrameDiagram(title string, m *model.StructuralModel, axes model.AxisConvention, results ...*loads.Result) FrameDiagramData {
	data := FrameDiagramData{Title: title}
	idx := model.NewIndex(m)
	project := func(n model.Node) Point { return Point{X: axes.Span(n), Y: axes.Height(n)} }

	segs := make(map[string]model.Segment, len(m.Members))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range m.Members {
		seg, ok := idx.Resolve(&m.Members[i])
		if !ok {
			continue
		}
		segs[seg.Member.ID] = seg
		from, to := project(seg.Start), project(seg.End)
		data.Members = append(data.Members, Line{MemberID: seg.Member.ID, From: from, To: to})
		for _, p := range []Point{from, to} {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	extent := math.Max(maxX-minX, maxY-minY)
	if math.IsInf(extent, 0) || extent <= 0 {
		extent = 1
	}

	type pending struct {
		head  Point
		dx    float64
		dy    float64
		force float64
		load  loads.Load
	}
	var arrows []pending
	largest := 0.0
	for _, r := range results {
		if r == nil {
			continue
		}
		if data.LengthUnit == "" {
			data.LengthUnit, data.ForceUnit = r.LengthUnit, r.ForceUnit
		}
		for _, l := range r.Loads {
			var at model.Node
			switch l.Target {
			case loads.TargetNode:
				n, ok := idx.Node(l.TargetID)
				if !ok {
					continue
				}
				at = *n
			default:
				seg, ok := segs[l.TargetID]
				if !ok {
					continue
				}
				t := 0.5
				if l.Distribution == loads.Point {
					t = l.Position
				}
				at = seg.PointAt(t)
			}

			dx := l.Direction.Component(axes.Width)
			dy := l.Direction.Component(axes.Vertical)
			if math.Hypot(dx, dy) < 1e-9 {
				data.OutOfPlane++
				continue
			}
			force := l.Resultant().Magnitude()
			largest = math.Max(largest, force)
			arrows = append(arrows, pending{head: project(at), dx: dx, dy: dy, force: force, load: l})
		}
	}

	for _, a := range arrows {
		size := arrowFraction * extent
		if largest > 0 {
			size *= a.force / largest
		}
		norm := math.Hypot(a.dx, a.dy)
		data.Arrows = append(data.Arrows, Arrow{
			Type:      a.load.Type,
			Head:      a.head,
			Tail:      Point{X: a.head.X - a.dx/norm*size, Y: a.head.Y - a.dy/norm*size},
			Magnitude: a.force,
			Label:     a.load.Zone,
		})
	}
	return data
}
