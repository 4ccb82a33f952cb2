package loads

import (
	"math"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// Wind zones
const (
	ZoneWindwardWall = "WINDWARD_WALL"
	ZoneLeewardWall  = "LEEWARD_WALL"
	ZoneSideWall     = "SIDE_WALL"
	ZoneWindwardRoof = "WINDWARD_ROOF"
	ZoneLeewardRoof  = "LEEWARD_ROOF"
)

// CalculateWind applies MWFRS wind pressures to wall and roof members.
// Walls are the vertical members on the bounding box faces; roofs are the
// members at or above the eave.
func CalculateWind(in Input, p WindParameters) *Result {
	return p.calculate(in)
}

func (p WindParameters) calculate(in Input) *Result {
	b := newBuilder(asce7.Wind, p, in)
	rangeWarnings(p, b)
	f := newFrame(in, b)
	u := f.units
	b.cite(
		"ASCE 7-16 Eq. 26.10-1 (velocity pressure)",
		"ASCE 7-16 Table 26.10-1 (Kz)",
		"ASCE 7-16 Eq. 27.3-1 (MWFRS design pressure)",
		"ASCE 7-16 Figure 27.3-1 (Cp)",
		"ASCE 7-16 Table 26.13-1 (GCpi)",
	)

	exposure := p.Exposure
	if !asce7.ValidExposure(exposure) {
		b.warn("unknown exposure category %q, using C", exposure)
		exposure = asce7.ExposureC
	}
	kzt := orDefault(p.Kzt, 1.0)
	kd := orDefault(p.Kd, asce7.KdBuildings)
	ke := orDefault(p.Ke, 1.0)
	g := orDefault(p.GustFactor, asce7.GustFactorRigid)

	h := p.BuildingHeight
	if h <= 0 {
		h = in.Dimensions.MeanRoofHeight
	}
	qh := asce7.VelocityPressure(asce7.Kz(exposure, h, u), kzt, kd, ke, p.BasicWindSpeed, u)
	b.detail("qh", qh)

	gcpi := asce7.InternalPressureCoefficient(p.Enclosure)
	if p.InternalPressure == InternalNegative {
		gcpi = -gcpi
	}

	axis := f.horizontalAxis(p.Direction, b)
	sign := 1.0
	if p.Reverse {
		sign = -1.0
	}
	windDir := model.Unit(axis, sign)
	cross := f.crossAxis(axis)

	lo, hi := f.extentOn(axis)
	windward, leeward := lo, hi
	if sign < 0 {
		windward, leeward = hi, lo
	}
	cLo, cHi := f.extentOn(cross)
	depth, breadth := hi-lo, cHi-cLo
	center := (lo + hi) / 2

	// L/B undefined for a plane frame; use the most severe leeward value
	leewardCp := asce7.LeewardWallCp(0)
	if breadth > f.tol() {
		leewardCp = asce7.LeewardWallCp(depth / breadth)
	}
	windwardRoofCp, leewardRoofCp := asce7.RoofCp(in.Dimensions.RoofSlope)
	trib := f.tributaryWidth(p.TributaryWidth, b)
	tol := f.tol()

	for _, seg := range f.segs {
		mid := seg.Midpoint()
		pos := coordOn(mid, axis)

		var (
			pressure float64
			dir      model.Vec3
			zone     string
		)
		switch {
		case seg.Orientation(in.Axes) == model.OrientationVertical:
			c := coordOn(mid, cross)
			switch {
			case math.Abs(pos-windward) <= tol:
				qz := asce7.VelocityPressure(asce7.Kz(exposure, f.height(mid), u), kzt, kd, ke, p.BasicWindSpeed, u)
				pressure = asce7.DesignPressure(qz, g, asce7.WindwardWallCp, qh, gcpi)
				dir, zone = windDir, ZoneWindwardWall
			case depth > tol && math.Abs(pos-leeward) <= tol:
				pressure = asce7.DesignPressure(qh, g, leewardCp, qh, gcpi)
				dir, zone = windDir.Scale(-1), ZoneLeewardWall
			case breadth > tol && math.Abs(c-cLo) <= tol:
				pressure = asce7.DesignPressure(qh, g, asce7.SideWallCp, qh, gcpi)
				dir, zone = model.Unit(cross, 1), ZoneSideWall
			case breadth > tol && math.Abs(c-cHi) <= tol:
				pressure = asce7.DesignPressure(qh, g, asce7.SideWallCp, qh, gcpi)
				dir, zone = model.Unit(cross, -1), ZoneSideWall
			default:
				continue
			}

		case f.isRoof(seg):
			cp, z := windwardRoofCp, ZoneWindwardRoof
			if (pos-center)*sign > tol {
				cp, z = leewardRoofCp, ZoneLeewardRoof
			}
			pressure = asce7.DesignPressure(qh, g, cp, qh, gcpi)
			dir, zone = f.roofNormal(seg), z

		default:
			continue
		}

		b.pressure(pressure)
		b.memberLoad(asce7.Wind, seg, dir, pressure*trib, zone)
	}

	if len(b.res.Loads) == 0 {
		b.warn("no wall or roof members found for wind along %s", axis)
	}
	return b.result()
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
