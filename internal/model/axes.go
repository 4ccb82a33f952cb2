package model

import (
	"fmt"
	"math"
	"strings"
)

// Axis is a global coordinate axis
type Axis string

const (
	AxisX Axis = "X"
	AxisY Axis = "Y"
	AxisZ Axis = "Z"
)

// ParseAxis accepts "x", "Y", ... and rejects anything else
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(strings.ToUpper(strings.TrimSpace(s))); a {
	case AxisX, AxisY, AxisZ:
		return a, nil
	}
	return "", fmt.Errorf("invalid axis %q", s)
}

// AxisConvention maps global axes onto building directions. Vertical is the
// height axis, Width the span axis; the remaining axis runs along the
// building length (bay spacing direction).
type AxisConvention struct {
	Vertical Axis `json:"vertical" yaml:"vertical"`
	Width    Axis `json:"width" yaml:"width"`
}

// DefaultAxes is Z-up with the span along X
var DefaultAxes = AxisConvention{Vertical: AxisZ, Width: AxisX}

// Validate checks that vertical and width are distinct axes
func (c AxisConvention) Validate() error {
	if _, err := ParseAxis(string(c.Vertical)); err != nil {
		return err
	}
	if _, err := ParseAxis(string(c.Width)); err != nil {
		return err
	}
	if c.Vertical == c.Width {
		return fmt.Errorf("vertical and width axes must differ (both %s)", c.Vertical)
	}
	return nil
}

// Length returns the remaining horizontal axis
func (c AxisConvention) Length() Axis {
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		if a != c.Vertical && a != c.Width {
			return a
		}
	}
	return AxisY
}

// Height is the node coordinate along the vertical axis
func (c AxisConvention) Height(n Node) float64 { return coord(n, c.Vertical) }

// Span is the node coordinate along the width axis
func (c AxisConvention) Span(n Node) float64 { return coord(n, c.Width) }

// Along is the node coordinate along the length axis
func (c AxisConvention) Along(n Node) float64 { return coord(n, c.Length()) }

func coord(n Node, a Axis) float64 {
	switch a {
	case AxisX:
		return n.X
	case AxisY:
		return n.Y
	default:
		return n.Z
	}
}

// Vec3 is a global vector
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }
func (v Vec3) Magnitude() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Component(a Axis) float64 {
	return coord(Node{X: v.X, Y: v.Y, Z: v.Z}, a)
}

// Unit returns the unit vector along a, negated when sign < 0
func Unit(a Axis, sign float64) Vec3 {
	s := 1.0
	if sign < 0 {
		s = -1.0
	}
	switch a {
	case AxisX:
		return Vec3{X: s}
	case AxisY:
		return Vec3{Y: s}
	default:
		return Vec3{Z: s}
	}
}

// Orientation is a member's attitude relative to the vertical axis
type Orientation string

const (
	OrientationVertical   Orientation = "VERTICAL"
	OrientationHorizontal Orientation = "HORIZONTAL"
	OrientationInclined   Orientation = "INCLINED"
)

// Segment is a member whose end nodes have been resolved
type Segment struct {
	Member *Member
	Start  Node
	End    Node
}

// Length is the true member length
func (s Segment) Length() float64 {
	dx, dy, dz := s.End.X-s.Start.X, s.End.Y-s.Start.Y, s.End.Z-s.Start.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// HorizontalLength is the member length projected onto the horizontal plane
func (s Segment) HorizontalLength(c AxisConvention) float64 {
	dw := c.Span(s.End) - c.Span(s.Start)
	dl := c.Along(s.End) - c.Along(s.Start)
	return math.Hypot(dw, dl)
}

// AngleFromHorizontal in degrees, 90 for a vertical member
func (s Segment) AngleFromHorizontal(c AxisConvention) float64 {
	h := s.HorizontalLength(c)
	dv := math.Abs(c.Height(s.End) - c.Height(s.Start))
	if h == 0 {
		if dv == 0 {
			return 0
		}
		return 90
	}
	return math.Atan2(dv, h) * 180 / math.Pi
}

// Orientation buckets the member by angle: above 60° vertical, below 30°
// horizontal, otherwise inclined.
func (s Segment) Orientation(c AxisConvention) Orientation {
	angle := s.AngleFromHorizontal(c)
	switch {
	case angle > 60:
		return OrientationVertical
	case angle < 30:
		return OrientationHorizontal
	default:
		return OrientationInclined
	}
}

// Midpoint of the member
func (s Segment) Midpoint() Node {
	return Node{
		X: (s.Start.X + s.End.X) / 2,
		Y: (s.Start.Y + s.End.Y) / 2,
		Z: (s.Start.Z + s.End.Z) / 2,
	}
}

// PointAt returns the point at fraction t (0..1) along the member
func (s Segment) PointAt(t float64) Node {
	return Node{
		X: s.Start.X + t*(s.End.X-s.Start.X),
		Y: s.Start.Y + t*(s.End.Y-s.Start.Y),
		Z: s.Start.Z + t*(s.End.Z-s.Start.Z),
	}
}

// DominantHorizontalAxis returns the horizontal axis the member mostly runs along
func (s Segment) DominantHorizontalAxis(c AxisConvention) Axis {
	dw := math.Abs(c.Span(s.End) - c.Span(s.Start))
	dl := math.Abs(c.Along(s.End) - c.Along(s.Start))
	if dw >= dl {
		return c.Width
	}
	return c.Length()
}

// Resolve looks up both end nodes of a member. ok is false when either
// reference dangles.
func (idx *Index) Resolve(mb *Member) (Segment, bool) {
	start, ok1 := idx.Node(mb.StartNodeID)
	end, ok2 := idx.Node(mb.EndNodeID)
	if !ok1 || !ok2 {
		return Segment{Member: mb}, false
	}
	return Segment{Member: mb, Start: *start, End: *end}, true
}

// DanglingReferences lists "member:node" pairs that do not resolve
func (idx *Index) DanglingReferences(m *StructuralModel) []string {
	var out []string
	for _, mb := range m.Members {
		if _, ok := idx.Node(mb.StartNodeID); !ok {
			out = append(out, mb.ID+":"+mb.StartNodeID)
		}
		if _, ok := idx.Node(mb.EndNodeID); !ok {
			out = append(out, mb.ID+":"+mb.EndNodeID)
		}
	}
	return out
}
