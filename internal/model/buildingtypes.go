package model

// BuildingType is the classifier's (or engineer's) building category
type BuildingType string

const (
	BuildingUnknown               BuildingType = "UNKNOWN"
	BuildingSingleGableHangar     BuildingType = "SINGLE_GABLE_HANGAR"
	BuildingMultiGableHangar      BuildingType = "MULTI_GABLE_HANGAR"
	BuildingTrussSingleGable      BuildingType = "TRUSS_SINGLE_GABLE"
	BuildingTrussDoubleGable      BuildingType = "TRUSS_DOUBLE_GABLE"
	BuildingMonoSlopeHangar       BuildingType = "MONO_SLOPE_HANGAR"
	BuildingMonoSlopeBuilding     BuildingType = "MONO_SLOPE_BUILDING"
	BuildingCarShedCanopy         BuildingType = "CAR_SHED_CANOPY"
	BuildingCantileverRoof        BuildingType = "CANTILEVER_ROOF"
	BuildingSignageBillboard      BuildingType = "SIGNAGE_BILLBOARD"
	BuildingStandingWall          BuildingType = "STANDING_WALL"
	BuildingElevatorShaft         BuildingType = "ELEVATOR_SHAFT"
	BuildingSymmetricMultiStory   BuildingType = "SYMMETRIC_MULTI_STORY"
	BuildingComplexMultiStory     BuildingType = "COMPLEX_MULTI_STORY"
	BuildingTemporaryStructure    BuildingType = "TEMPORARY_STRUCTURE"
	BuildingIndustrialWarehouse   BuildingType = "INDUSTRIAL_WAREHOUSE"
	BuildingAircraftMaintenance   BuildingType = "AIRCRAFT_MAINTENANCE"
	BuildingManufacturingFacility BuildingType = "MANUFACTURING_FACILITY"
	BuildingSportsFacility        BuildingType = "SPORTS_FACILITY"
)

var buildingTypes = map[BuildingType]bool{
	BuildingUnknown:               true,
	BuildingSingleGableHangar:     true,
	BuildingMultiGableHangar:      true,
	BuildingTrussSingleGable:      true,
	BuildingTrussDoubleGable:      true,
	BuildingMonoSlopeHangar:       true,
	BuildingMonoSlopeBuilding:     true,
	BuildingCarShedCanopy:         true,
	BuildingCantileverRoof:        true,
	BuildingSignageBillboard:      true,
	BuildingStandingWall:          true,
	BuildingElevatorShaft:         true,
	BuildingSymmetricMultiStory:   true,
	BuildingComplexMultiStory:     true,
	BuildingTemporaryStructure:    true,
	BuildingIndustrialWarehouse:   true,
	BuildingAircraftMaintenance:   true,
	BuildingManufacturingFacility: true,
	BuildingSportsFacility:        true,
}

// Valid reports whether b is a known building type
func (b BuildingType) Valid() bool {
	return buildingTypes[b]
}

// IsMultiStory reports whether the type describes a multi-level building
func (b BuildingType) IsMultiStory() bool {
	return b == BuildingSymmetricMultiStory || b == BuildingComplexMultiStory
}
