package asce7

// Unit weights of common structural materials
const (
	SteelDensityPcf    = 490.0
	ConcreteDensityPcf = 150.0
	TimberDensityPcf   = 35.0

	SteelDensityKNm3    = 77.0
	ConcreteDensityKNm3 = 23.6
	TimberDensityKNm3   = 5.5
)

// SteelDensity returns the steel unit weight in kip/ft³ or kN/m³
func SteelDensity(u Units) float64 {
	if u.Metric {
		return SteelDensityKNm3
	}
	return SteelDensityPcf / LbPerKip
}

// HeightClass per the ASCE 7 low/mid/high-rise split used for reporting
type HeightClass string

const (
	LowRise  HeightClass = "LOW_RISE"
	MidRise  HeightClass = "MID_RISE"
	HighRise HeightClass = "HIGH_RISE"
)

const (
	lowRiseLimitFt = 60.0  // Section 26.2 low-rise definition
	midRiseLimitFt = 160.0 // braced-frame height limit, Table 12.2-1
)

// ClassifyHeight buckets a building height given in model units
func ClassifyHeight(h float64, u Units) HeightClass {
	ft := u.ToFeet(h)
	switch {
	case ft <= lowRiseLimitFt:
		return LowRise
	case ft <= midRiseLimitFt:
		return MidRise
	default:
		return HighRise
	}
}

// HighRiseWarningHeight returns the 60 ft threshold in model units
func HighRiseWarningHeight(u Units) float64 {
	return u.FromFeet(lowRiseLimitFt)
}
