package asce7

import "math"

// Occupancy is a Table 4.3-1 use category
type Occupancy string

const (
	OccupancyOffice             Occupancy = "OFFICE"
	OccupancyResidential        Occupancy = "RESIDENTIAL"
	OccupancyAssembly           Occupancy = "ASSEMBLY"
	OccupancyCorridor           Occupancy = "CORRIDOR"
	OccupancyStorageLight       Occupancy = "STORAGE_LIGHT"
	OccupancyStorageHeavy       Occupancy = "STORAGE_HEAVY"
	OccupancyManufacturingLight Occupancy = "MANUFACTURING_LIGHT"
	OccupancyManufacturingHeavy Occupancy = "MANUFACTURING_HEAVY"
	OccupancyGarage             Occupancy = "GARAGE"
	OccupancyCatwalk            Occupancy = "CATWALK"
)

// occupancyLoads are uniform live loads in psf, Table 4.3-1
var occupancyLoads = map[Occupancy]float64{
	OccupancyOffice:             50,
	OccupancyResidential:        40,
	OccupancyAssembly:           100,
	OccupancyCorridor:           100,
	OccupancyStorageLight:       125,
	OccupancyStorageHeavy:       250,
	OccupancyManufacturingLight: 125,
	OccupancyManufacturingHeavy: 250,
	OccupancyGarage:             40,
	OccupancyCatwalk:            40,
}

// Occupancies whose live load may not be reduced (Section 4.7.3/4.7.4)
var unreducible = map[Occupancy]bool{
	OccupancyAssembly:     true,
	OccupancyStorageHeavy: true,
	OccupancyGarage:       true,
}

const (
	// RoofLiveLoadPsf is the ordinary roof live load Lr, Table 4.3-1
	RoofLiveLoadPsf = 20.0

	// KLL values, Table 4.7-1
	KLLInteriorBeam   = 2.0
	KLLInteriorColumn = 4.0

	reductionAreaFt2 = 400.0
)

// OccupancyLoad returns L0 in psf and whether the occupancy is known
func OccupancyLoad(o Occupancy) (float64, bool) {
	l, ok := occupancyLoads[o]
	return l, ok
}

// Reducible reports whether Section 4.7 reduction applies to o
func Reducible(o Occupancy) bool {
	return !unreducible[o]
}

// ReducedLiveLoad returns L = L0(0.25 + 15/√(KLL·AT)), Eq. 4.7-1, with AT in
// ft². No reduction below KLL·AT = 400 ft²; never below 0.5·L0 for members
// supporting one floor.
func ReducedLiveLoad(l0, kll, atFt2 float64) float64 {
	influence := kll * atFt2
	if influence < reductionAreaFt2 {
		return l0
	}
	l := l0 * (0.25 + 15/math.Sqrt(influence))
	return math.Max(math.Min(l, l0), 0.5*l0)
}
