package loads

import (
	"math"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
)

// Snow zones
const (
	ZoneRoofSnow     = "ROOF"
	ZoneParapetDrift = "PARAPET_DRIFT"
)

// CalculateSnow applies the sloped roof snow load to roof members, plus a
// parapet drift surcharge next to the walls when a parapet is present
func CalculateSnow(in Input, p SnowParameters) *Result {
	return p.calculate(in)
}

func (p SnowParameters) calculate(in Input) *Result {
	b := newBuilder(asce7.Snow, p, in)
	rangeWarnings(p, b)
	f := newFrame(in, b)
	u := f.units
	b.cite(
		"ASCE 7-16 Eq. 7.3-1 (flat roof snow load)",
		"ASCE 7-16 Eq. 7.4-1 and Figure 7.4-1 (slope factor)",
	)

	is := asce7.SnowImportanceFactor(p.RiskCategory)
	ct := orDefault(p.Ct, 1.0)
	if p.WarmRoof {
		ct = 1.0
	}
	ce := orDefault(p.Ce, 1.0)
	if p.Parapet {
		ce = math.Max(ce, 1.0)
	}

	pg := u.ToPsf(p.GroundSnowLoad)
	pf := asce7.FlatRoofSnowLoad(ce, ct, is, pg)
	cs := asce7.SlopeFactor(p.RoofSlope, ct, p.Slippery)
	ps := cs * pf
	if p.RoofSlope < asce7.MinimumLoadSlopeDeg {
		if pm := asce7.MinimumSnowLoad(pg, is); ps < pm {
			ps = pm
			b.cite("ASCE 7-16 Section 7.3.4 (minimum snow load)")
		}
	}
	b.detail("pf", u.FromPsf(pf))
	b.detail("Cs", cs)
	b.detail("ps", u.FromPsf(ps))
	psOut := u.FromPsf(ps)

	var surcharge, driftWidth float64
	if p.Parapet {
		lu := u.ToFeet(in.Dimensions.BuildingWidth)
		s, w := asce7.ParapetDrift(lu, pg)
		surcharge, driftWidth = u.FromPsf(s), u.FromFeet(w)
		b.detail("parapetSurcharge", surcharge)
		b.detail("driftWidth", driftWidth)
		b.cite("ASCE 7-16 Section 7.8 (roof projections and parapets)")
	}

	trib := f.tributaryWidth(p.TributaryWidth, b)
	down := f.down()
	roofs := 0
	for _, seg := range f.segs {
		if !f.isRoof(seg) {
			continue
		}
		roofs++
		hf := f.horizontalFactor(seg)
		b.pressure(psOut)
		b.memberLoad(asce7.Snow, seg, down, psOut*trib*hf, ZoneRoofSnow)

		if driftWidth > 0 {
			s := in.Axes.Span(seg.Midpoint())
			d := math.Min(s-f.span[0], f.span[1]-s)
			if d < driftWidth {
				pd := surcharge * (1 - d/driftWidth)
				b.pressure(psOut + pd)
				b.memberLoad(asce7.Snow, seg, down, pd*trib*hf, ZoneParapetDrift)
			}
		}
	}
	if roofs == 0 {
		b.warn("no roof members found at or above the eave")
	}
	return b.result()
}
