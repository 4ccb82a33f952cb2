package model

import "math"

// Section holds cross-section properties in model length units.
// The outline, when present, is a simple polygon in the section's local
// coordinate system, counter-clockwise.
type Section struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	Area    float64 `json:"area,omitempty" yaml:"area,omitempty"`
	Ix      float64 `json:"ix,omitempty" yaml:"ix,omitempty"`
	Iy      float64 `json:"iy,omitempty" yaml:"iy,omitempty"`
	Depth   float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
	Width   float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Outline []Point `json:"outline,omitempty" yaml:"outline,omitempty"`
}

// Point represents a 2D coordinate of a section outline
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// SectionProperties holds geometric properties derived from an outline
type SectionProperties struct {
	Area      float64
	CentroidX float64
	CentroidY float64

	// Bounding box
	MinX, MaxX float64
	MinY, MaxY float64
}

// EffectiveArea returns the declared area, falling back to the outline area.
// Zero means the section carries no usable area.
func (s *Section) EffectiveArea() float64 {
	if s.Area > 0 {
		return s.Area
	}
	if len(s.Outline) >= 3 {
		return s.CalculateProperties().Area
	}
	if s.Depth > 0 && s.Width > 0 {
		return s.Depth * s.Width
	}
	return 0
}

// CalculateProperties computes area, centroid and bounding box of the outline
func (s *Section) CalculateProperties() *SectionProperties {
	props := &SectionProperties{}

	if len(s.Outline) < 3 {
		return props
	}

	props.MinX, props.MaxX = s.Outline[0].X, s.Outline[0].X
	props.MinY, props.MaxY = s.Outline[0].Y, s.Outline[0].Y

	for _, v := range s.Outline {
		props.MinX = math.Min(props.MinX, v.X)
		props.MaxX = math.Max(props.MaxX, v.X)
		props.MinY = math.Min(props.MinY, v.Y)
		props.MaxY = math.Max(props.MaxY, v.Y)
	}

	props.Area, props.CentroidX, props.CentroidY = shoelace(s.Outline)
	return props
}

// shoelace returns the polygon area and centroid
func shoelace(pts []Point) (area, cx, cy float64) {
	n := len(pts)
	var signedArea, sumX, sumY float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
		signedArea += cross
		sumX += (pts[i].X + pts[j].X) * cross
		sumY += (pts[i].Y + pts[j].Y) * cross
	}

	signedArea /= 2
	area = math.Abs(signedArea)

	if area > 0 {
		cx = sumX / (6 * signedArea)
		cy = sumY / (6 * signedArea)
	}

	return area, cx, cy
}
