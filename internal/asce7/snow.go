package asce7

import "math"

const (
	// FlatRoofFactor in pf = 0.7·Ce·Ct·Is·pg, Eq. 7.3-1
	FlatRoofFactor = 0.7

	// Low-slope roofs get the minimum snow load below this slope (Section 7.3.4)
	MinimumLoadSlopeDeg = 15.0

	slopeFactorZeroDeg = 70.0
)

// FlatRoofSnowLoad returns pf, Eq. 7.3-1, in the units of pg
func FlatRoofSnowLoad(ce, ct, is, pg float64) float64 {
	return FlatRoofFactor * ce * ct * is * pg
}

// SlopeThreshold returns the roof slope (degrees) beyond which Cs drops
// below 1.0, Figure 7.4-1.
func SlopeThreshold(ct float64, slippery bool) float64 {
	switch {
	case ct <= 1.0:
		if slippery {
			return 5
		}
		return 30
	case ct <= 1.1:
		if slippery {
			return 10
		}
		return 37.5
	default:
		if slippery {
			return 15
		}
		return 45
	}
}

// SlopeFactor returns Cs, Figure 7.4-1: 1.0 up to the threshold, then
// linear to zero at 70°.
func SlopeFactor(slopeDeg, ct float64, slippery bool) float64 {
	threshold := SlopeThreshold(ct, slippery)
	switch {
	case slopeDeg <= threshold:
		return 1.0
	case slopeDeg >= slopeFactorZeroDeg:
		return 0.0
	default:
		return (slopeFactorZeroDeg - slopeDeg) / (slopeFactorZeroDeg - threshold)
	}
}

// MinimumSnowLoad returns pm for low-slope roofs, Section 7.3.4, in psf
func MinimumSnowLoad(pgPsf, is float64) float64 {
	if pgPsf <= 20 {
		return is * pgPsf
	}
	return 20 * is
}

// SnowDensity returns γ = 0.13·pg + 14 ≤ 30 pcf, Eq. 7.7-1
func SnowDensity(pgPsf float64) float64 {
	return math.Min(0.13*pgPsf+14, 30)
}

// DriftHeight returns hd (ft) for a roof upwind fetch lu (ft),
// Figure 7.6-1: hd = 0.43·lu^(1/3)·(pg+10)^(1/4) − 1.5, lu ≥ 20 ft.
func DriftHeight(luFt, pgPsf float64) float64 {
	lu := math.Max(luFt, 20)
	hd := 0.43*math.Cbrt(lu)*math.Pow(pgPsf+10, 0.25) - 1.5
	return math.Max(hd, 0)
}

// ParapetDrift returns the peak surcharge (psf) and drift width (ft) at a
// parapet, Section 7.8: three-quarters of the leeward drift height.
func ParapetDrift(luFt, pgPsf float64) (surchargePsf, widthFt float64) {
	hd := 0.75 * DriftHeight(luFt, pgPsf)
	return SnowDensity(pgPsf) * hd, 4 * hd
}
