package loads

import (
	"math"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// frame is the resolved geometry a calculator works over. Members whose
// ends do not resolve are reported once and left out of segs.
type frame struct {
	in    Input
	idx   *model.Index
	units asce7.Units
	segs  []model.Segment

	base       float64 // lowest node along the vertical axis
	span       [2]float64
	eaveHeight float64 // above base
}

func newFrame(in Input, b *builder) *frame {
	f := &frame{
		in:    in,
		idx:   model.NewIndex(in.Model),
		units: unitsOf(in.Model),
		span:  [2]float64{math.Inf(1), math.Inf(-1)},
		base:  math.Inf(1),
	}
	for _, n := range in.Model.Nodes {
		f.base = math.Min(f.base, in.Axes.Height(n))
		s := in.Axes.Span(n)
		f.span[0], f.span[1] = math.Min(f.span[0], s), math.Max(f.span[1], s)
	}
	if math.IsInf(f.base, 0) {
		f.base = 0
	}
	f.eaveHeight = in.Dimensions.EaveHeight

	for i := range in.Model.Members {
		mb := &in.Model.Members[i]
		seg, ok := f.idx.Resolve(mb)
		if !ok {
			b.warn("member %s skipped: unresolved node reference (%s -> %s)", mb.ID, mb.StartNodeID, mb.EndNodeID)
			continue
		}
		if seg.Length() == 0 {
			b.warn("member %s skipped: zero length", mb.ID)
			continue
		}
		f.segs = append(f.segs, seg)
	}
	return f
}

func (f *frame) tol() float64 { return f.in.Tolerance }

// height of a point above the base
func (f *frame) height(n model.Node) float64 {
	return f.in.Axes.Height(n) - f.base
}

func (f *frame) tag(seg model.Segment) model.MemberTag {
	return f.in.Tags[seg.Member.ID]
}

func (f *frame) down() model.Vec3 { return model.Unit(f.in.Axes.Vertical, -1) }

// isRoof reports a non-vertical member with both ends at or above the eave
func (f *frame) isRoof(seg model.Segment) bool {
	if seg.Orientation(f.in.Axes) == model.OrientationVertical {
		return false
	}
	cat := f.tag(seg).Category()
	if cat == model.CategoryFloor || cat == model.CategoryFoundation || cat == model.CategoryCrane {
		return false
	}
	limit := f.eaveHeight - f.tol()
	return f.height(seg.Start) >= limit && f.height(seg.End) >= limit && f.eaveHeight > 0
}

// isFloor reports a horizontal member between base and eave, or any member
// tagged as floor framing
func (f *frame) isFloor(seg model.Segment) bool {
	tag := f.tag(seg)
	if tag.Category() == model.CategoryFloor {
		return true
	}
	if tag.Category() == model.CategoryFoundation || tag.IsRunway() || seg.Member.Type == model.TypeCraneBeam {
		return false
	}
	if seg.Orientation(f.in.Axes) != model.OrientationHorizontal {
		return false
	}
	h := f.height(seg.Midpoint())
	return h > f.tol() && h < f.eaveHeight-f.tol()
}

// horizontalFactor is the horizontal projection over true length, used to
// turn loads given per plan area into loads per member length
func (f *frame) horizontalFactor(seg model.Segment) float64 {
	return seg.HorizontalLength(f.in.Axes) / seg.Length()
}

// roofNormal returns the unit vector into the roof surface containing seg,
// in the plane of the member and the vertical axis
func (f *frame) roofNormal(seg model.Segment) model.Vec3 {
	up := model.Unit(f.in.Axes.Vertical, 1)
	d := model.Vec3{
		X: seg.End.X - seg.Start.X,
		Y: seg.End.Y - seg.Start.Y,
		Z: seg.End.Z - seg.Start.Z,
	}.Scale(1 / seg.Length())
	dot := up.X*d.X + up.Y*d.Y + up.Z*d.Z
	n := up.Add(d.Scale(-dot))
	mag := n.Magnitude()
	if mag == 0 {
		return f.down()
	}
	return n.Scale(-1 / mag)
}

// selfWeight returns member weight per length in kip/ft or kN/m. ok is
// false when the section has no usable area.
func (f *frame) selfWeight(seg model.Segment, b *builder) (w float64, ok bool) {
	mb := seg.Member
	sec, found := f.idx.Section(mb.SectionID)
	if !found {
		return 0, false
	}
	area := sec.EffectiveArea()
	if area <= 0 {
		return 0, false
	}

	density := asce7.SteelDensity(f.units)
	if mat, found := f.idx.Material(mb.MaterialID); found && mat.Density > 0 {
		density = mat.Density
	} else if b != nil {
		b.warn("member %s: material %q has no density, steel assumed", mb.ID, mb.MaterialID)
	}
	return density * area, true
}

// tributaryWidth falls back to the default when the parameter is unset
func (f *frame) tributaryWidth(w float64, b *builder) float64 {
	if w > 0 {
		return w
	}
	def := f.units.FromFeet(DefaultTributaryWidthFt)
	b.warn("tributary width not set, using %.3g %s", def, f.units.Length())
	return def
}

// coordOn returns the node coordinate along an arbitrary global axis
func coordOn(n model.Node, a model.Axis) float64 {
	return model.Vec3{X: n.X, Y: n.Y, Z: n.Z}.Component(a)
}

// extentOn returns the node extent along a global axis
func (f *frame) extentOn(a model.Axis) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, n := range f.in.Model.Nodes {
		v := coordOn(n, a)
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// horizontalAxis returns a, or the width axis when a is empty or vertical
func (f *frame) horizontalAxis(a model.Axis, b *builder) model.Axis {
	if a == "" {
		return f.in.Axes.Width
	}
	if a == f.in.Axes.Vertical {
		b.warn("direction %s is the vertical axis, using %s", a, f.in.Axes.Width)
		return f.in.Axes.Width
	}
	return a
}

// crossAxis returns the horizontal axis perpendicular to a
func (f *frame) crossAxis(a model.Axis) model.Axis {
	for _, c := range []model.Axis{model.AxisX, model.AxisY, model.AxisZ} {
		if c != a && c != f.in.Axes.Vertical {
			return c
		}
	}
	return f.in.Axes.Length()
}
