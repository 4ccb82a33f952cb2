package asce7

// LoadType identifies a primary load effect
type LoadType string

const (
	Dead    LoadType = "DEAD"    // D
	Live    LoadType = "LIVE"    // L
	Snow    LoadType = "SNOW"    // S
	Wind    LoadType = "WIND"    // W
	Seismic LoadType = "SEISMIC" // E
	Crane   LoadType = "CRANE"   // C, combined as a live load (Section 4.9)

	// RoofLive is the roof share of live load results (Lr). It has no
	// calculator of its own and only appears in combinations.
	RoofLive LoadType = "ROOF_LIVE"
)

// LoadTypes lists every calculated load type in report order
var LoadTypes = []LoadType{Dead, Live, Snow, Wind, Seismic, Crane}

// CombinationTypes lists the load effects the combination tables factor
var CombinationTypes = []LoadType{Dead, Live, RoofLive, Snow, Wind, Seismic, Crane}

// Symbol returns the code letter for the load type
func (t LoadType) Symbol() string {
	switch t {
	case Dead:
		return "D"
	case Live:
		return "L"
	case RoofLive:
		return "Lr"
	case Snow:
		return "S"
	case Wind:
		return "W"
	case Seismic:
		return "E"
	case Crane:
		return "C"
	}
	return "?"
}

// Method is the design basis of a combination
type Method string

const (
	LRFD Method = "LRFD" // Strength design, Section 2.3
	ASD  Method = "ASD"  // Allowable stress design, Section 2.4
)

// LoadCombination is one row of a code-defined factor table
type LoadCombination struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Method      Method               `json:"method"`
	Factors     map[LoadType]float64 `json:"factors"`
}

// Factor returns the factor for t, zero when the combination omits it
func (lc LoadCombination) Factor(t LoadType) float64 {
	return lc.Factors[t]
}

// ASCE 7-16 Section 2.3.1 - Basic combinations for strength design.
// "(Lr or S or R)" alternatives are expanded into an S row and an Lr row;
// rain load is not calculated. Crane loads ride with L.
var StrengthCombinations = []LoadCombination{
	{
		ID:          "LRFD-1",
		Name:        "1.4D",
		Description: "Dead load only",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.4},
	},
	{
		ID:          "LRFD-2",
		Name:        "1.2D+1.6L+1.6C+0.5S",
		Description: "Gravity, live dominant with snow",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.2, Live: 1.6, Crane: 1.6, Snow: 0.5},
	},
	{
		ID:          "LRFD-2r",
		Name:        "1.2D+1.6L+1.6C+0.5Lr",
		Description: "Gravity, live dominant with roof live",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.2, Live: 1.6, Crane: 1.6, RoofLive: 0.5},
	},
	{
		ID:          "LRFD-3a",
		Name:        "1.2D+1.6S+1.0L+1.0C",
		Description: "Gravity, snow dominant with live",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.2, Snow: 1.6, Live: 1.0, Crane: 1.0},
	},
	{
		ID:          "LRFD-3b",
		Name:        "1.2D+1.6S+0.5W",
		Description: "Gravity, snow dominant with wind",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.2, Snow: 1.6, Wind: 0.5},
	},
	{
		ID:          "LRFD-3c",
		Name:        "1.2D+1.6Lr+1.0L+1.0C",
		Description: "Gravity, roof live dominant with live",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.2, RoofLive: 1.6, Live: 1.0, Crane: 1.0},
	},
	{
		ID:          "LRFD-3d",
		Name:        "1.2D+1.6Lr+0.5W",
		Description: "Gravity, roof live dominant with wind",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.2, RoofLive: 1.6, Wind: 0.5},
	},
	{
		ID:          "LRFD-4",
		Name:        "1.2D+1.0W+1.0L+1.0C+0.5S",
		Description: "Wind dominant with snow",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.2, Wind: 1.0, Live: 1.0, Crane: 1.0, Snow: 0.5},
	},
	{
		ID:          "LRFD-4r",
		Name:        "1.2D+1.0W+1.0L+1.0C+0.5Lr",
		Description: "Wind dominant with roof live",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.2, Wind: 1.0, Live: 1.0, Crane: 1.0, RoofLive: 0.5},
	},
	{
		ID:          "LRFD-5",
		Name:        "1.2D+1.0E+1.0L+1.0C+0.2S",
		Description: "Seismic dominant",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 1.2, Seismic: 1.0, Live: 1.0, Crane: 1.0, Snow: 0.2},
	},
	{
		ID:          "LRFD-6",
		Name:        "0.9D+1.0W",
		Description: "Uplift and overturning under wind",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 0.9, Wind: 1.0},
	},
	{
		ID:          "LRFD-7",
		Name:        "0.9D+1.0E",
		Description: "Overturning under seismic",
		Method:      LRFD,
		Factors:     map[LoadType]float64{Dead: 0.9, Seismic: 1.0},
	},
}

// ASCE 7-16 Section 2.4.1 - Basic combinations for allowable stress design
var AllowableStressCombinations = []LoadCombination{
	{
		ID:      "ASD-1",
		Name:    "D",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0},
	},
	{
		ID:      "ASD-2",
		Name:    "D+L+C",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, Live: 1.0, Crane: 1.0},
	},
	{
		ID:      "ASD-3",
		Name:    "D+S",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, Snow: 1.0},
	},
	{
		ID:      "ASD-3r",
		Name:    "D+Lr",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, RoofLive: 1.0},
	},
	{
		ID:      "ASD-4",
		Name:    "D+0.75L+0.75C+0.75S",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, Live: 0.75, Crane: 0.75, Snow: 0.75},
	},
	{
		ID:      "ASD-4r",
		Name:    "D+0.75L+0.75C+0.75Lr",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, Live: 0.75, Crane: 0.75, RoofLive: 0.75},
	},
	{
		ID:      "ASD-5a",
		Name:    "D+0.6W",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, Wind: 0.6},
	},
	{
		ID:      "ASD-5b",
		Name:    "D+0.7E",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, Seismic: 0.7},
	},
	{
		ID:      "ASD-6a",
		Name:    "D+0.75L+0.75C+0.45W+0.75S",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, Live: 0.75, Crane: 0.75, Wind: 0.45, Snow: 0.75},
	},
	{
		ID:      "ASD-6r",
		Name:    "D+0.75L+0.75C+0.45W+0.75Lr",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, Live: 0.75, Crane: 0.75, Wind: 0.45, RoofLive: 0.75},
	},
	{
		ID:      "ASD-6b",
		Name:    "D+0.75L+0.75C+0.525E+0.75S",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 1.0, Live: 0.75, Crane: 0.75, Seismic: 0.525, Snow: 0.75},
	},
	{
		ID:      "ASD-7",
		Name:    "0.6D+0.6W",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 0.6, Wind: 0.6},
	},
	{
		ID:      "ASD-8",
		Name:    "0.6D+0.7E",
		Method:  ASD,
		Factors: map[LoadType]float64{Dead: 0.6, Seismic: 0.7},
	},
}

// Combinations returns the fixed table for a design method
func Combinations(m Method) []LoadCombination {
	if m == ASD {
		return AllowableStressCombinations
	}
	return StrengthCombinations
}
