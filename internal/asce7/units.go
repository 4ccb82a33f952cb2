package asce7

// Unit conversions used when a formula is only published in one system
const (
	FeetPerMeter   = 3.280839895
	PsfPerKPa      = 20.885434
	PcfPerKNm3     = 6.365880
	MphPerMps      = 2.236936
	LbPerKip       = 1000.0
	NewtonsPerKN   = 1000.0
	PoundsPerKN    = 224.8089
	KipPerKN       = PoundsPerKN / LbPerKip
	FeetPerInch    = 1.0 / 12.0
	SquareFtPerSqM = FeetPerMeter * FeetPerMeter
)

// Units captures the unit family of a calculation. Pressures come out in
// ksf or kPa, line loads in kip/ft or kN/m, forces in kip or kN.
type Units struct {
	Metric bool
}

// Length returns the unit label for length
func (u Units) Length() string {
	if u.Metric {
		return "m"
	}
	return "ft"
}

// Force returns the unit label for force
func (u Units) Force() string {
	if u.Metric {
		return "kN"
	}
	return "kip"
}

// Pressure returns the unit label for output pressures
func (u Units) Pressure() string {
	if u.Metric {
		return "kPa"
	}
	return "ksf"
}

// InputPressure returns the unit label for area loads the user supplies
func (u Units) InputPressure() string {
	if u.Metric {
		return "kPa"
	}
	return "psf"
}

// AreaLoadToOutput converts a user area load (psf or kPa) to ksf or kPa
func (u Units) AreaLoadToOutput(p float64) float64 {
	if u.Metric {
		return p
	}
	return p / LbPerKip
}

// ToFeet converts a model length to feet
func (u Units) ToFeet(l float64) float64 {
	if u.Metric {
		return l * FeetPerMeter
	}
	return l
}

// FromFeet converts feet to a model length
func (u Units) FromFeet(ft float64) float64 {
	if u.Metric {
		return ft / FeetPerMeter
	}
	return ft
}

// ToPsf converts a user area load (psf or kPa) to psf
func (u Units) ToPsf(p float64) float64 {
	if u.Metric {
		return p * PsfPerKPa
	}
	return p
}

// FromPsf converts psf to the output pressure unit (ksf or kPa)
func (u Units) FromPsf(psf float64) float64 {
	if u.Metric {
		return psf / PsfPerKPa
	}
	return psf / LbPerKip
}
