package mcp

import (
	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// Rigidity summarizes lateral stiffness for reporting and seismic defaults
type Rigidity string

const (
	RigidityRigid     Rigidity = "RIGID"
	RigiditySemiRigid Rigidity = "SEMI_RIGID"
	RigidityFlexible  Rigidity = "FLEXIBLE"
)

// braced buildings with a longer plan ratio are only semi-rigid
const maxRigidPlanRatio = 3.0

// classification is everything derived from dimensions, tags and type
type classification struct {
	height   asce7.HeightClass
	frame    asce7.FrameSystem
	rigidity Rigidity
}

func deriveClassification(m *model.StructuralModel, idx *model.Index, axes model.AxisConvention, bt model.BuildingType, tags map[string]model.MemberTag, d Dimensions) classification {
	u := asce7.Units{Metric: m.IsMetric()}
	c := classification{height: asce7.ClassifyHeight(d.TotalHeight, u)}

	var truss, braced, cantilever bool
	for i := range m.Members {
		mb := &m.Members[i]
		tag := tags[mb.ID]

		switch {
		case mb.Type == model.TypeTrussChord || mb.Type == model.TypeTrussDiagonal || tag.Category() == model.CategoryTruss:
			truss = true
		case mb.Type == model.TypeBrace || tag.Category() == model.CategoryBracing:
			braced = true
		case mb.Type == model.TypeCantilever || tag == model.TagCantileverBeam:
			cantilever = true
		case mb.Type == "" && tag == "":
			// untyped inclined members are braces
			if seg, ok := idx.Resolve(mb); ok && seg.Orientation(axes) == model.OrientationInclined {
				braced = true
			}
		}
	}

	switch {
	case truss:
		c.frame = asce7.FrameTruss
	case bt == model.BuildingCantileverRoof || bt == model.BuildingSignageBillboard || bt == model.BuildingStandingWall:
		c.frame = asce7.FrameCantilever
	case braced && bt.IsMultiStory():
		c.frame = asce7.FrameDual
	case braced:
		c.frame = asce7.FrameBraced
	case cantilever && bt == model.BuildingCarShedCanopy:
		c.frame = asce7.FrameCantilever
	default:
		c.frame = asce7.FrameMoment
	}

	isBraced := c.frame == asce7.FrameBraced || c.frame == asce7.FrameDual
	switch {
	case isBraced && d.AspectRatio() > 0 && d.AspectRatio() <= maxRigidPlanRatio:
		c.rigidity = RigidityRigid
	case isBraced:
		c.rigidity = RigiditySemiRigid
	default:
		c.rigidity = RigidityFlexible
	}
	return c
}
