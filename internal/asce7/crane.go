package asce7

// CraneOperation selects the vertical impact allowance, Section 4.9.3
type CraneOperation string

const (
	CraneCabOperated     CraneOperation = "CAB"
	CraneRemoteOperated  CraneOperation = "REMOTE"
	CranePendantOperated CraneOperation = "PENDANT"
	CraneMonorail        CraneOperation = "MONORAIL"
)

const (
	// LateralForceFactor applies to rated capacity plus trolley, Section 4.9.4
	LateralForceFactor = 0.20
	// LongitudinalForceFactor applies to maximum wheel loads, Section 4.9.5
	LongitudinalForceFactor = 0.10
)

// VerticalImpact returns the vertical impact factor, Section 4.9.3
func VerticalImpact(op CraneOperation) float64 {
	switch op {
	case CranePendantOperated:
		return 0.10
	default:
		// monorail, cab-operated and remotely operated bridge cranes
		return 0.25
	}
}
