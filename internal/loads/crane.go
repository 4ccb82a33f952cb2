package loads

import (
	"math"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// Crane zones
const (
	ZoneCraneVertical     = "VERTICAL"
	ZoneCraneLateral      = "LATERAL"
	ZoneCraneLongitudinal = "LONGITUDINAL"
)

// DefaultWheelsPerSide is used when the crane data omits the wheel count
const DefaultWheelsPerSide = 2

// CalculateCrane places wheel loads on every runway member. The worst side
// carries the rated capacity plus half the bridge weight.
func CalculateCrane(in Input, p CraneParameters) *Result {
	return p.calculate(in)
}

func (p CraneParameters) calculate(in Input) *Result {
	b := newBuilder(asce7.Crane, p, in)
	rangeWarnings(p, b)
	f := newFrame(in, b)
	b.cite(
		"ASCE 7-16 Section 4.9.3 (vertical impact)",
		"ASCE 7-16 Section 4.9.4 (lateral force)",
		"ASCE 7-16 Section 4.9.5 (longitudinal force)",
	)

	var runways []model.Segment
	for _, seg := range f.segs {
		if f.tag(seg).IsRunway() || seg.Member.Type == model.TypeCraneBeam {
			runways = append(runways, seg)
		}
	}
	if len(runways) == 0 {
		b.warn("no crane runway members found")
		return b.result()
	}

	wheels := p.WheelsPerSide
	if wheels < 1 {
		wheels = DefaultWheelsPerSide
	}
	impact := p.Impact
	if impact <= 0 {
		impact = asce7.VerticalImpact(p.Operation)
	}

	maxWheel := (p.Capacity + p.CraneWeight/2) / float64(wheels)
	vertical := maxWheel * (1 + impact)
	lateral := asce7.LateralForceFactor * (p.Capacity + p.TrolleyWeight) / 2 / float64(wheels)
	longitudinal := asce7.LongitudinalForceFactor * maxWheel
	b.detail("maxWheelLoad", maxWheel)
	b.detail("impact", impact)
	b.detail("verticalWheelLoad", vertical)
	b.detail("lateralWheelLoad", lateral)
	b.detail("longitudinalWheelLoad", longitudinal)

	down := f.down()
	side := model.Unit(in.Axes.Width, 1)
	for _, seg := range runways {
		length := seg.Length()
		along := model.Vec3{
			X: seg.End.X - seg.Start.X,
			Y: seg.End.Y - seg.Start.Y,
			Z: seg.End.Z - seg.Start.Z,
		}.Scale(1 / length)

		clamped := false
		for i := 0; i < wheels; i++ {
			offset := (float64(i) - float64(wheels-1)/2) * p.WheelSpacing
			pos := 0.5 + offset/length
			if pos < 0 || pos > 1 {
				clamped = true
				pos = math.Max(0, math.Min(1, pos))
			}
			id := seg.Member.ID
			b.pointLoad(asce7.Crane, id, down, vertical, pos, ZoneCraneVertical)
			b.pointLoad(asce7.Crane, id, side, lateral, pos, ZoneCraneLateral)
			b.pointLoad(asce7.Crane, id, along, longitudinal, pos, ZoneCraneLongitudinal)
		}
		if clamped {
			b.warn("member %s is shorter than the wheel base, wheels placed at member ends", seg.Member.ID)
		}
	}
	return b.result()
}
