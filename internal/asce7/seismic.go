package asce7

import (
	"math"
	"sort"
)

// SiteClass per Chapter 20
type SiteClass string

const (
	SiteA SiteClass = "A"
	SiteB SiteClass = "B"
	SiteC SiteClass = "C"
	SiteD SiteClass = "D"
	SiteE SiteClass = "E"
)

// RiskCategory per Table 1.5-1
type RiskCategory string

const (
	RiskI   RiskCategory = "I"
	RiskII  RiskCategory = "II"
	RiskIII RiskCategory = "III"
	RiskIV  RiskCategory = "IV"
)

// FrameSystem is the seismic force-resisting system family
type FrameSystem string

const (
	FrameMoment     FrameSystem = "MOMENT"
	FrameBraced     FrameSystem = "BRACED"
	FrameDual       FrameSystem = "DUAL"
	FrameTruss      FrameSystem = "TRUSS"
	FrameCantilever FrameSystem = "CANTILEVER"
)

// SystemCoefficients are the design coefficients of Table 12.2-1
type SystemCoefficients struct {
	R      float64 `json:"r"`      // Response modification coefficient
	Cd     float64 `json:"cd"`     // Deflection amplification factor
	Omega0 float64 `json:"omega0"` // Overstrength factor
	SFRS   string  `json:"sfrs"`
}

// SeismicSystems maps frame systems to representative Table 12.2-1 rows
var SeismicSystems = map[FrameSystem]SystemCoefficients{
	FrameMoment:     {R: 8.0, Cd: 5.5, Omega0: 3.0, SFRS: "Special moment frame"},
	FrameBraced:     {R: 6.0, Cd: 5.0, Omega0: 2.0, SFRS: "Special concentrically braced frame"},
	FrameDual:       {R: 7.0, Cd: 5.5, Omega0: 2.5, SFRS: "Dual system"},
	FrameTruss:      {R: 3.0, Cd: 3.0, Omega0: 3.0, SFRS: "Truss system"},
	FrameCantilever: {R: 2.5, Cd: 2.5, Omega0: 2.0, SFRS: "Cantilever column system"},
}

// SystemFor returns the coefficients for fs, falling back to the
// not-specifically-detailed steel value R = 3.
func SystemFor(fs FrameSystem) SystemCoefficients {
	if c, ok := SeismicSystems[fs]; ok {
		return c
	}
	return SystemCoefficients{R: 3.0, Cd: 3.0, Omega0: 3.0, SFRS: "Steel system not specifically detailed"}
}

// ImportanceFactor returns Ie from Table 1.5-2
func ImportanceFactor(rc RiskCategory) float64 {
	switch rc {
	case RiskIII:
		return 1.25
	case RiskIV:
		return 1.5
	default:
		return 1.0
	}
}

// SnowImportanceFactor returns Is from Table 1.5-2
func SnowImportanceFactor(rc RiskCategory) float64 {
	switch rc {
	case RiskI:
		return 0.8
	case RiskIII:
		return 1.1
	case RiskIV:
		return 1.2
	default:
		return 1.0
	}
}

var (
	faBreaks = []float64{0.25, 0.5, 0.75, 1.0, 1.25, 1.5}
	fvBreaks = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}

	// Table 11.4-1
	faTable = map[SiteClass][]float64{
		SiteA: {0.8, 0.8, 0.8, 0.8, 0.8, 0.8},
		SiteB: {0.9, 0.9, 0.9, 0.9, 0.9, 0.9},
		SiteC: {1.3, 1.3, 1.2, 1.2, 1.2, 1.2},
		SiteD: {1.6, 1.4, 1.2, 1.1, 1.0, 1.0},
		SiteE: {2.4, 1.7, 1.3, 1.1, 0.9, 0.8},
	}

	// Table 11.4-2
	fvTable = map[SiteClass][]float64{
		SiteA: {0.8, 0.8, 0.8, 0.8, 0.8, 0.8},
		SiteB: {0.8, 0.8, 0.8, 0.8, 0.8, 0.8},
		SiteC: {1.5, 1.5, 1.5, 1.5, 1.5, 1.4},
		SiteD: {2.4, 2.2, 2.0, 1.9, 1.8, 1.7},
		SiteE: {4.2, 3.3, 2.8, 2.4, 2.2, 2.0},
	}
)

// ValidSiteClass reports whether sc has tabulated site coefficients
func ValidSiteClass(sc SiteClass) bool {
	_, ok := faTable[sc]
	return ok
}

// Fa returns the short-period site coefficient, Table 11.4-1 with linear
// interpolation. Unknown site classes use Site Class D.
func Fa(sc SiteClass, ss float64) float64 {
	row, ok := faTable[sc]
	if !ok {
		row = faTable[SiteD]
	}
	return interpolate(faBreaks, row, ss)
}

// Fv returns the long-period site coefficient, Table 11.4-2
func Fv(sc SiteClass, s1 float64) float64 {
	row, ok := fvTable[sc]
	if !ok {
		row = fvTable[SiteD]
	}
	return interpolate(fvBreaks, row, s1)
}

func interpolate(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	i := sort.SearchFloat64s(xs, x)
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// DesignSpectrum holds the design spectral accelerations (Section 11.4.5)
type DesignSpectrum struct {
	Fa  float64 `json:"fa"`
	Fv  float64 `json:"fv"`
	SMS float64 `json:"sms"`
	SM1 float64 `json:"sm1"`
	SDS float64 `json:"sds"`
	SD1 float64 `json:"sd1"`
}

// Spectrum computes SMS = Fa·Ss, SM1 = Fv·S1 and the ⅔ design values
func Spectrum(sc SiteClass, ss, s1 float64) DesignSpectrum {
	fa, fv := Fa(sc, ss), Fv(sc, s1)
	sms, sm1 := fa*ss, fv*s1
	return DesignSpectrum{
		Fa:  fa,
		Fv:  fv,
		SMS: sms,
		SM1: sm1,
		SDS: 2.0 / 3.0 * sms,
		SD1: 2.0 / 3.0 * sm1,
	}
}

// periodParameters returns Ct (imperial) and x, Table 12.8-2
func periodParameters(fs FrameSystem) (ct, x float64) {
	switch fs {
	case FrameMoment:
		return 0.028, 0.8
	case FrameBraced:
		return 0.03, 0.75
	default:
		return 0.02, 0.75
	}
}

// ApproximatePeriod returns Ta = Ct·hn^x (Eq. 12.8-7), hn in model units
func ApproximatePeriod(fs FrameSystem, hn float64, u Units) float64 {
	ct, x := periodParameters(fs)
	return ct * math.Pow(u.ToFeet(hn), x)
}

// ResponseCoefficient returns Cs per Eq. 12.8-2, limited by Eq. 12.8-3/4
// and floored by Eq. 12.8-5/6.
func ResponseCoefficient(sp DesignSpectrum, s1, r, ie, t, tl float64) float64 {
	ratio := r / ie
	cs := sp.SDS / ratio

	if t > 0 {
		var upper float64
		if t <= tl {
			upper = sp.SD1 / (t * ratio)
		} else {
			upper = sp.SD1 * tl / (t * t * ratio)
		}
		cs = math.Min(cs, upper)
	}

	floor := math.Max(0.044*sp.SDS*ie, 0.01)
	if s1 >= 0.6 {
		floor = math.Max(floor, 0.5*s1/ratio)
	}
	return math.Max(cs, floor)
}

// DistributionExponent returns k for Eq. 12.8-12
func DistributionExponent(t float64) float64 {
	switch {
	case t <= 0.5:
		return 1.0
	case t >= 2.5:
		return 2.0
	default:
		return 1.0 + (t-0.5)/2.0
	}
}
