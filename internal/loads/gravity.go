package loads

import (
	"strings"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
)

// Gravity zones
const (
	ZoneRoofLive     = "ROOF_LIVE"
	ZoneFloorLive    = "FLOOR_LIVE"
	ZoneSelfWeight   = "SELF_WEIGHT"
	ZoneSuperimposed = "SUPERIMPOSED"
)

// CalculateLive applies roof live load to roof members and occupancy live
// load to floor members, reduced by tributary area when enabled
func CalculateLive(in Input, p LiveParameters) *Result {
	return p.calculate(in)
}

func (p LiveParameters) calculate(in Input) *Result {
	b := newBuilder(asce7.Live, p, in)
	rangeWarnings(p, b)
	f := newFrame(in, b)
	u := f.units
	b.cite("ASCE 7-16 Table 4.3-1 (minimum uniform live loads)")

	occ := p.Occupancy
	if occ == "" {
		occ = asce7.OccupancyOffice
	}
	l0 := u.ToPsf(p.FloorLiveLoad)
	if l0 <= 0 {
		var ok bool
		if l0, ok = asce7.OccupancyLoad(occ); !ok {
			b.warn("unknown occupancy %q, using office", occ)
			occ = asce7.OccupancyOffice
			l0, _ = asce7.OccupancyLoad(occ)
		}
	}
	lr := u.ToPsf(p.RoofLiveLoad)
	if lr <= 0 {
		lr = asce7.RoofLiveLoadPsf
	}
	b.detail("L0", u.FromPsf(l0))
	b.detail("Lr", u.FromPsf(lr))

	reduce := p.Reduction && asce7.Reducible(occ)
	if p.Reduction && !reduce {
		b.warn("live load reduction not permitted for %s occupancy", occ)
	}
	if reduce {
		b.cite("ASCE 7-16 Eq. 4.7-1 (reduced live load)")
	}

	trib := f.tributaryWidth(p.TributaryWidth, b)
	down := f.down()
	for _, seg := range f.segs {
		hf := f.horizontalFactor(seg)
		switch {
		case f.isRoof(seg):
			w := u.FromPsf(lr)
			b.pressure(w)
			b.memberLoad(asce7.Live, seg, down, w*trib*hf, ZoneRoofLive)
		case f.isFloor(seg):
			l := l0
			if reduce {
				at := u.ToFeet(seg.HorizontalLength(in.Axes)) * u.ToFeet(trib)
				l = asce7.ReducedLiveLoad(l0, asce7.KLLInteriorBeam, at)
			}
			w := u.FromPsf(l)
			b.pressure(w)
			b.memberLoad(asce7.Live, seg, down, w*trib*hf, ZoneFloorLive)
		}
	}
	if len(b.res.Loads) == 0 {
		b.warn("no roof or floor members found")
	}
	return b.result()
}

// CalculateDead applies member self-weight and a superimposed dead load on
// roof and floor members
func CalculateDead(in Input, p DeadParameters) *Result {
	return p.calculate(in)
}

func (p DeadParameters) calculate(in Input) *Result {
	b := newBuilder(asce7.Dead, p, in)
	rangeWarnings(p, b)
	f := newFrame(in, b)
	u := f.units
	b.cite("ASCE 7-16 Section 3.1 (dead loads)")

	factor := orDefault(p.SelfWeightFactor, 1.0)
	sdl := u.AreaLoadToOutput(p.AdditionalDeadLoad)
	var trib float64
	if sdl > 0 {
		trib = f.tributaryWidth(p.TributaryWidth, b)
	}

	down := f.down()
	var missing []string
	for _, seg := range f.segs {
		if w, ok := f.selfWeight(seg, b); ok {
			b.memberLoad(asce7.Dead, seg, down, w*factor, ZoneSelfWeight)
		} else {
			missing = append(missing, seg.Member.ID)
		}

		if sdl > 0 && (f.isRoof(seg) || f.isFloor(seg)) {
			b.pressure(sdl)
			b.memberLoad(asce7.Dead, seg, down, sdl*trib*f.horizontalFactor(seg), ZoneSuperimposed)
		}
	}
	if len(missing) > 0 {
		b.warn("%d member(s) without section area, self-weight omitted: %s", len(missing), strings.Join(missing, ", "))
	}
	return b.result()
}
