package asce7

import "math"

// Exposure is the surface roughness category (Section 26.7)
type Exposure string

const (
	ExposureB Exposure = "B"
	ExposureC Exposure = "C"
	ExposureD Exposure = "D"
)

// Enclosure is the enclosure classification (Section 26.12)
type Enclosure string

const (
	Enclosed          Enclosure = "ENCLOSED"
	PartiallyEnclosed Enclosure = "PARTIALLY_ENCLOSED"
	PartiallyOpen     Enclosure = "PARTIALLY_OPEN"
	Open              Enclosure = "OPEN"
)

const (
	// Velocity pressure constants, Eq. 26.10-1
	VelocityPressureImperial = 0.00256 // psf with V in mph
	VelocityPressureMetric   = 0.613   // N/m² with V in m/s

	// Gust-effect factor for rigid buildings (Section 26.11.1)
	GustFactorRigid = 0.85

	// Wind directionality factor for MWFRS of buildings (Table 26.6-1)
	KdBuildings = 0.85

	// Kz is evaluated no lower than 15 ft (4.6 m), Table 26.10-1 note
	kzMinHeightFt = 15.0
)

// terrainConstants returns α and zg (ft), Table 26.11-1
func terrainConstants(e Exposure) (alpha, zgFt float64) {
	switch e {
	case ExposureB:
		return 7.0, 1200.0
	case ExposureD:
		return 11.5, 700.0
	default:
		return 9.5, 900.0
	}
}

// ValidExposure reports whether e is B, C or D
func ValidExposure(e Exposure) bool {
	return e == ExposureB || e == ExposureC || e == ExposureD
}

// Kz returns the velocity pressure exposure coefficient at height z (model
// units), Table 26.10-1: Kz = 2.01 (z/zg)^(2/α), capped at zg.
func Kz(e Exposure, z float64, u Units) float64 {
	alpha, zg := terrainConstants(e)
	zft := math.Max(u.ToFeet(z), kzMinHeightFt)
	zft = math.Min(zft, zg)
	return 2.01 * math.Pow(zft/zg, 2/alpha)
}

// VelocityPressure returns qz in ksf (imperial, V in mph) or kPa (metric,
// V in m/s), Eq. 26.10-1.
func VelocityPressure(kz, kzt, kd, ke, v float64, u Units) float64 {
	if u.Metric {
		return VelocityPressureMetric * kz * kzt * kd * ke * v * v / NewtonsPerKN
	}
	return VelocityPressureImperial * kz * kzt * kd * ke * v * v / LbPerKip
}

// InternalPressureCoefficient returns the magnitude of GCpi, Table 26.13-1
func InternalPressureCoefficient(e Enclosure) float64 {
	switch e {
	case PartiallyEnclosed:
		return 0.55
	case Open:
		return 0.0
	default:
		// enclosed and partially open
		return 0.18
	}
}

// LeewardWallCp returns the leeward wall coefficient for plan ratio L/B,
// Figure 27.3-1, interpolated between 0-1 (-0.5), 2 (-0.3) and ≥4 (-0.2).
func LeewardWallCp(lOverB float64) float64 {
	switch {
	case lOverB <= 1:
		return -0.5
	case lOverB <= 2:
		return -0.5 + 0.2*(lOverB-1)
	case lOverB < 4:
		return -0.3 + 0.1*(lOverB-2)/2
	default:
		return -0.2
	}
}

const (
	WindwardWallCp = 0.8  // Figure 27.3-1
	SideWallCp     = -0.7 // Figure 27.3-1
)

// RoofCp returns windward and leeward roof coefficients for wind normal to
// the ridge, Figure 27.3-1, simplified to h/L ≤ 0.25 and bucketed by slope.
func RoofCp(slopeDeg float64) (windward, leeward float64) {
	switch {
	case slopeDeg < 10:
		return -0.9, -0.5
	case slopeDeg < 20:
		return -0.7, -0.5
	case slopeDeg < 30:
		return -0.3, -0.6
	case slopeDeg < 45:
		return 0.2, -0.6
	default:
		return 0.4, -0.6
	}
}

// DesignPressure returns p = q·G·Cp − qi·GCpi, Eq. 27.3-1
func DesignPressure(q, g, cp, qi, gcpi float64) float64 {
	return q*g*cp - qi*gcpi
}
