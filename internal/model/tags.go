package model

import "sort"

// MemberTag classifies the structural role of a member. The set is closed:
// anything outside AllMemberTags is rejected by MCP validation.
type MemberTag string

// TagCategory groups tags by how loads are distributed to them
type TagCategory string

const (
	CategoryPrimaryFrame TagCategory = "PRIMARY_FRAME"
	CategorySecondary    TagCategory = "SECONDARY"
	CategoryBracing      TagCategory = "BRACING"
	CategoryFloor        TagCategory = "FLOOR"
	CategoryTruss        TagCategory = "TRUSS"
	CategoryCrane        TagCategory = "CRANE"
	CategoryCanopy       TagCategory = "CANOPY"
	CategoryFacade       TagCategory = "FACADE"
	CategoryFoundation   TagCategory = "FOUNDATION"
	CategoryMisc         TagCategory = "MISC"
)

const (
	// Primary frame
	TagMainFrameColumn MemberTag = "MAIN_FRAME_COLUMN"
	TagMainFrameRafter MemberTag = "MAIN_FRAME_RAFTER"
	TagEndFrameColumn  MemberTag = "END_FRAME_COLUMN"
	TagEndFrameRafter  MemberTag = "END_FRAME_RAFTER"
	TagInteriorColumn  MemberTag = "INTERIOR_COLUMN"
	TagCornerColumn    MemberTag = "CORNER_COLUMN"
	TagGableColumn     MemberTag = "GABLE_COLUMN"
	TagWindColumn      MemberTag = "WIND_COLUMN"
	TagRidgeBeam       MemberTag = "RIDGE_BEAM"
	TagHaunch          MemberTag = "HAUNCH"
	TagPortalBeam      MemberTag = "PORTAL_BEAM"
	TagTieBeam         MemberTag = "TIE_BEAM"
	TagCollarTie       MemberTag = "COLLAR_TIE"
	TagStubColumn      MemberTag = "STUB_COLUMN"
	TagPostColumn      MemberTag = "POST_COLUMN"

	// Secondary framing
	TagRoofPurlin      MemberTag = "ROOF_PURLIN"
	TagEavePurlin      MemberTag = "EAVE_PURLIN"
	TagRidgePurlin     MemberTag = "RIDGE_PURLIN"
	TagWallGirt        MemberTag = "WALL_GIRT"
	TagSideWallGirt    MemberTag = "SIDE_WALL_GIRT"
	TagEndWallGirt     MemberTag = "END_WALL_GIRT"
	TagEaveStrut       MemberTag = "EAVE_STRUT"
	TagSagRod          MemberTag = "SAG_ROD"
	TagFlangeBrace     MemberTag = "FLANGE_BRACE"
	TagBaseAngle       MemberTag = "BASE_ANGLE"
	TagJambGirt        MemberTag = "JAMB_GIRT"
	TagPurlinExtension MemberTag = "PURLIN_EXTENSION"

	// Bracing
	TagRoofBracing       MemberTag = "ROOF_BRACING"
	TagWallBracing       MemberTag = "WALL_BRACING"
	TagPortalBrace       MemberTag = "PORTAL_BRACE"
	TagXBrace            MemberTag = "X_BRACE"
	TagKBrace            MemberTag = "K_BRACE"
	TagChevronBrace      MemberTag = "CHEVRON_BRACE"
	TagKneeBrace         MemberTag = "KNEE_BRACE"
	TagVerticalBrace     MemberTag = "VERTICAL_BRACE"
	TagHorizontalBrace   MemberTag = "HORIZONTAL_BRACE"
	TagTorsionBrace      MemberTag = "TORSION_BRACE"
	TagStrutBrace        MemberTag = "STRUT_BRACE"
	TagCableBrace        MemberTag = "CABLE_BRACE"
	TagRodBrace          MemberTag = "ROD_BRACE"
	TagEccentricBrace    MemberTag = "ECCENTRIC_BRACE"
	TagBucklingRestraint MemberTag = "BUCKLING_RESTRAINED_BRACE"

	// Floors
	TagFloorBeam        MemberTag = "FLOOR_BEAM"
	TagFloorGirder      MemberTag = "FLOOR_GIRDER"
	TagFloorJoist       MemberTag = "FLOOR_JOIST"
	TagSpandrelBeam     MemberTag = "SPANDREL_BEAM"
	TagTransferGirder   MemberTag = "TRANSFER_GIRDER"
	TagEdgeBeam         MemberTag = "EDGE_BEAM"
	TagMezzanineBeam    MemberTag = "MEZZANINE_BEAM"
	TagMezzanineColumn  MemberTag = "MEZZANINE_COLUMN"
	TagMezzanineJoist   MemberTag = "MEZZANINE_JOIST"
	TagStairStringer    MemberTag = "STAIR_STRINGER"
	TagLandingBeam      MemberTag = "LANDING_BEAM"
	TagCatwalkBeam      MemberTag = "CATWALK_BEAM"
	TagPlatformBeam     MemberTag = "PLATFORM_BEAM"
	TagPlatformColumn   MemberTag = "PLATFORM_COLUMN"
	TagStoryColumn      MemberTag = "STORY_COLUMN"
	TagShearWallBoundry MemberTag = "SHEAR_WALL_BOUNDARY"
	TagCollectorBeam    MemberTag = "COLLECTOR_BEAM"
	TagDragStrut        MemberTag = "DRAG_STRUT"

	// Trusses
	TagTrussTopChord    MemberTag = "TRUSS_TOP_CHORD"
	TagTrussBottomChord MemberTag = "TRUSS_BOTTOM_CHORD"
	TagTrussWebVertical MemberTag = "TRUSS_WEB_VERTICAL"
	TagTrussWebDiagonal MemberTag = "TRUSS_WEB_DIAGONAL"
	TagTrussEndPost     MemberTag = "TRUSS_END_POST"
	TagTrussKingPost    MemberTag = "TRUSS_KING_POST"
	TagTrussQueenPost   MemberTag = "TRUSS_QUEEN_POST"
	TagJoistGirder      MemberTag = "JOIST_GIRDER"
	TagOpenWebJoist     MemberTag = "OPEN_WEB_JOIST"
	TagTrussBridging    MemberTag = "TRUSS_BRIDGING"

	// Cranes
	TagCraneBeam       MemberTag = "CRANE_BEAM"
	TagCraneRunwayBeam MemberTag = "CRANE_RUNWAY_BEAM"
	TagCraneGirder     MemberTag = "CRANE_GIRDER"
	TagCraneBracket    MemberTag = "CRANE_BRACKET"
	TagCraneColumn     MemberTag = "CRANE_COLUMN"
	TagCraneStop       MemberTag = "CRANE_STOP"
	TagCraneRail       MemberTag = "CRANE_RAIL"
	TagCraneBracing    MemberTag = "CRANE_BRACING"
	TagMonorailBeam    MemberTag = "MONORAIL_BEAM"
	TagHoistBeam       MemberTag = "HOIST_BEAM"
	TagJibBoom         MemberTag = "JIB_BOOM"
	TagJibColumn       MemberTag = "JIB_COLUMN"

	// Canopies and cantilevers
	TagCantileverBeam MemberTag = "CANTILEVER_BEAM"
	TagCanopyBeam     MemberTag = "CANOPY_BEAM"
	TagCanopyColumn   MemberTag = "CANOPY_COLUMN"
	TagCanopyPurlin   MemberTag = "CANOPY_PURLIN"
	TagCanopyRafter   MemberTag = "CANOPY_RAFTER"
	TagOverhangRafter MemberTag = "OVERHANG_RAFTER"
	TagOutrigger      MemberTag = "OUTRIGGER"
	TagBackspan       MemberTag = "BACKSPAN"

	// Facade and openings
	TagFasciaBeam     MemberTag = "FASCIA_BEAM"
	TagFasciaPost     MemberTag = "FASCIA_POST"
	TagParapetPost    MemberTag = "PARAPET_POST"
	TagParapetBeam    MemberTag = "PARAPET_BEAM"
	TagLintel         MemberTag = "LINTEL"
	TagSill           MemberTag = "SILL"
	TagDoorJamb       MemberTag = "DOOR_JAMB"
	TagDoorHeader     MemberTag = "DOOR_HEADER"
	TagHangarDoorBeam MemberTag = "HANGAR_DOOR_BEAM"
	TagHangarDoorPost MemberTag = "HANGAR_DOOR_POST"
	TagWindowFraming  MemberTag = "WINDOW_FRAMING"
	TagLouverFraming  MemberTag = "LOUVER_FRAMING"
	TagCurtainWallMul MemberTag = "CURTAIN_WALL_MULLION"
	TagSignPost       MemberTag = "SIGN_POST"
	TagSignFrame      MemberTag = "SIGN_FRAME"

	// Foundations
	TagGradeBeam    MemberTag = "GRADE_BEAM"
	TagFoundTieBeam MemberTag = "FOUNDATION_TIE_BEAM"
	TagPedestal     MemberTag = "PEDESTAL"
	TagPileCap      MemberTag = "PILE_CAP_BEAM"

	// Miscellaneous
	TagElevatorShaftColumn MemberTag = "ELEVATOR_SHAFT_COLUMN"
	TagElevatorShaftBeam   MemberTag = "ELEVATOR_SHAFT_BEAM"
	TagPipeSupport         MemberTag = "PIPE_SUPPORT"
	TagEquipmentSupport    MemberTag = "EQUIPMENT_SUPPORT"
	TagHandrail            MemberTag = "HANDRAIL"
	TagLadderRail          MemberTag = "LADDER_RAIL"
	TagSolarPanelRail      MemberTag = "SOLAR_PANEL_RAIL"
	TagGenericMember       MemberTag = "GENERIC_MEMBER"
)

var tagCategories = map[MemberTag]TagCategory{
	TagMainFrameColumn: CategoryPrimaryFrame, TagMainFrameRafter: CategoryPrimaryFrame,
	TagEndFrameColumn: CategoryPrimaryFrame, TagEndFrameRafter: CategoryPrimaryFrame,
	TagInteriorColumn: CategoryPrimaryFrame, TagCornerColumn: CategoryPrimaryFrame,
	TagGableColumn: CategoryPrimaryFrame, TagWindColumn: CategoryPrimaryFrame,
	TagRidgeBeam: CategoryPrimaryFrame, TagHaunch: CategoryPrimaryFrame,
	TagPortalBeam: CategoryPrimaryFrame, TagTieBeam: CategoryPrimaryFrame,
	TagCollarTie: CategoryPrimaryFrame, TagStubColumn: CategoryPrimaryFrame,
	TagPostColumn: CategoryPrimaryFrame,

	TagRoofPurlin: CategorySecondary, TagEavePurlin: CategorySecondary,
	TagRidgePurlin: CategorySecondary, TagWallGirt: CategorySecondary,
	TagSideWallGirt: CategorySecondary, TagEndWallGirt: CategorySecondary,
	TagEaveStrut: CategorySecondary, TagSagRod: CategorySecondary,
	TagFlangeBrace: CategorySecondary, TagBaseAngle: CategorySecondary,
	TagJambGirt: CategorySecondary, TagPurlinExtension: CategorySecondary,

	TagRoofBracing: CategoryBracing, TagWallBracing: CategoryBracing,
	TagPortalBrace: CategoryBracing, TagXBrace: CategoryBracing,
	TagKBrace: CategoryBracing, TagChevronBrace: CategoryBracing,
	TagKneeBrace: CategoryBracing, TagVerticalBrace: CategoryBracing,
	TagHorizontalBrace: CategoryBracing, TagTorsionBrace: CategoryBracing,
	TagStrutBrace: CategoryBracing, TagCableBrace: CategoryBracing,
	TagRodBrace: CategoryBracing, TagEccentricBrace: CategoryBracing,
	TagBucklingRestraint: CategoryBracing,

	TagFloorBeam: CategoryFloor, TagFloorGirder: CategoryFloor,
	TagFloorJoist: CategoryFloor, TagSpandrelBeam: CategoryFloor,
	TagTransferGirder: CategoryFloor, TagEdgeBeam: CategoryFloor,
	TagMezzanineBeam: CategoryFloor, TagMezzanineColumn: CategoryFloor,
	TagMezzanineJoist: CategoryFloor, TagStairStringer: CategoryFloor,
	TagLandingBeam: CategoryFloor, TagCatwalkBeam: CategoryFloor,
	TagPlatformBeam: CategoryFloor, TagPlatformColumn: CategoryFloor,
	TagStoryColumn: CategoryFloor, TagShearWallBoundry: CategoryFloor,
	TagCollectorBeam: CategoryFloor, TagDragStrut: CategoryFloor,

	TagTrussTopChord: CategoryTruss, TagTrussBottomChord: CategoryTruss,
	TagTrussWebVertical: CategoryTruss, TagTrussWebDiagonal: CategoryTruss,
	TagTrussEndPost: CategoryTruss, TagTrussKingPost: CategoryTruss,
	TagTrussQueenPost: CategoryTruss, TagJoistGirder: CategoryTruss,
	TagOpenWebJoist: CategoryTruss, TagTrussBridging: CategoryTruss,

	TagCraneBeam: CategoryCrane, TagCraneRunwayBeam: CategoryCrane,
	TagCraneGirder: CategoryCrane, TagCraneBracket: CategoryCrane,
	TagCraneColumn: CategoryCrane, TagCraneStop: CategoryCrane,
	TagCraneRail: CategoryCrane, TagCraneBracing: CategoryCrane,
	TagMonorailBeam: CategoryCrane, TagHoistBeam: CategoryCrane,
	TagJibBoom: CategoryCrane, TagJibColumn: CategoryCrane,

	TagCantileverBeam: CategoryCanopy, TagCanopyBeam: CategoryCanopy,
	TagCanopyColumn: CategoryCanopy, TagCanopyPurlin: CategoryCanopy,
	TagCanopyRafter: CategoryCanopy, TagOverhangRafter: CategoryCanopy,
	TagOutrigger: CategoryCanopy, TagBackspan: CategoryCanopy,

	TagFasciaBeam: CategoryFacade, TagFasciaPost: CategoryFacade,
	TagParapetPost: CategoryFacade, TagParapetBeam: CategoryFacade,
	TagLintel: CategoryFacade, TagSill: CategoryFacade,
	TagDoorJamb: CategoryFacade, TagDoorHeader: CategoryFacade,
	TagHangarDoorBeam: CategoryFacade, TagHangarDoorPost: CategoryFacade,
	TagWindowFraming: CategoryFacade, TagLouverFraming: CategoryFacade,
	TagCurtainWallMul: CategoryFacade, TagSignPost: CategoryFacade,
	TagSignFrame: CategoryFacade,

	TagGradeBeam: CategoryFoundation, TagFoundTieBeam: CategoryFoundation,
	TagPedestal: CategoryFoundation, TagPileCap: CategoryFoundation,

	TagElevatorShaftColumn: CategoryMisc, TagElevatorShaftBeam: CategoryMisc,
	TagPipeSupport: CategoryMisc, TagEquipmentSupport: CategoryMisc,
	TagHandrail: CategoryMisc, TagLadderRail: CategoryMisc,
	TagSolarPanelRail: CategoryMisc, TagGenericMember: CategoryMisc,
}

// runwayTags carry crane wheel loads directly
var runwayTags = map[MemberTag]bool{
	TagCraneBeam:       true,
	TagCraneRunwayBeam: true,
	TagCraneGirder:     true,
	TagMonorailBeam:    true,
	TagHoistBeam:       true,
}

// AllMemberTags returns the closed enumeration, sorted
func AllMemberTags() []MemberTag {
	tags := make([]MemberTag, 0, len(tagCategories))
	for t := range tagCategories {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Valid reports whether the tag belongs to the enumeration
func (t MemberTag) Valid() bool {
	_, ok := tagCategories[t]
	return ok
}

// Category returns the tag's group, or "" for tags outside the enumeration
func (t MemberTag) Category() TagCategory {
	return tagCategories[t]
}

// IsCrane reports whether the tag is part of a crane system
func (t MemberTag) IsCrane() bool {
	return tagCategories[t] == CategoryCrane
}

// IsRunway reports whether the tag marks a member that carries wheel loads
func (t MemberTag) IsRunway() bool {
	return runwayTags[t]
}
