package loads

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// SiteDefaults are the site values an MCP cannot derive. They are given in
// imperial units (mph, psf, kip) and converted for metric models.
type SiteDefaults struct {
	BasicWindSpeed     float64              `yaml:"basic_wind_speed" validate:"gt=0"`
	Exposure           asce7.Exposure       `yaml:"exposure" validate:"oneof=B C D"`
	Enclosure          asce7.Enclosure      `yaml:"enclosure" validate:"oneof=ENCLOSED PARTIALLY_ENCLOSED PARTIALLY_OPEN OPEN"`
	Ss                 float64              `yaml:"ss" validate:"gte=0"`
	S1                 float64              `yaml:"s1" validate:"gte=0"`
	SiteClass          asce7.SiteClass      `yaml:"site_class" validate:"oneof=A B C D E"`
	RiskCategory       asce7.RiskCategory   `yaml:"risk_category" validate:"oneof=I II III IV"`
	GroundSnowLoad     float64              `yaml:"ground_snow_load" validate:"gte=0"`
	AdditionalDeadLoad float64              `yaml:"additional_dead_load" validate:"gte=0"`
	CraneCapacity      float64              `yaml:"crane_capacity" validate:"gte=0"`
	CraneWeight        float64              `yaml:"crane_weight" validate:"gte=0"`
	TrolleyWeight      float64              `yaml:"trolley_weight" validate:"gte=0"`
	CraneOperation     asce7.CraneOperation `yaml:"crane_operation" validate:"oneof=CAB REMOTE PENDANT MONORAIL"`
	WheelSpacingFt     float64              `yaml:"wheel_spacing_ft" validate:"gte=0"`
	StoryToleranceFt   float64              `yaml:"story_tolerance_imperial" validate:"gt=0"`
	StoryToleranceM    float64              `yaml:"story_tolerance_metric" validate:"gt=0"`
}

// DefaultSiteDefaults returns a moderate-hazard site
func DefaultSiteDefaults() SiteDefaults {
	return SiteDefaults{
		BasicWindSpeed:     115,
		Exposure:           asce7.ExposureC,
		Enclosure:          asce7.Enclosed,
		Ss:                 1.0,
		S1:                 0.4,
		SiteClass:          asce7.SiteD,
		RiskCategory:       asce7.RiskII,
		GroundSnowLoad:     20,
		AdditionalDeadLoad: 5,
		CraneCapacity:      10,
		CraneWeight:        15,
		TrolleyWeight:      2,
		CraneOperation:     asce7.CranePendantOperated,
		WheelSpacingFt:     10,
		StoryToleranceFt:   DefaultStoryToleranceFt,
		StoryToleranceM:    DefaultStoryToleranceM,
	}
}

// ParameterSet holds at most one parameter variant per load type. Nil
// entries are not calculated.
type ParameterSet struct {
	Dead    *DeadParameters    `yaml:"dead,omitempty" json:"dead,omitempty"`
	Live    *LiveParameters    `yaml:"live,omitempty" json:"live,omitempty"`
	Snow    *SnowParameters    `yaml:"snow,omitempty" json:"snow,omitempty"`
	Wind    *WindParameters    `yaml:"wind,omitempty" json:"wind,omitempty"`
	Seismic *SeismicParameters `yaml:"seismic,omitempty" json:"seismic,omitempty"`
	Crane   *CraneParameters   `yaml:"crane,omitempty" json:"crane,omitempty"`
}

// List returns the set's parameters in report order
func (ps ParameterSet) List() []Parameters {
	var out []Parameters
	if ps.Dead != nil {
		out = append(out, *ps.Dead)
	}
	if ps.Live != nil {
		out = append(out, *ps.Live)
	}
	if ps.Snow != nil {
		out = append(out, *ps.Snow)
	}
	if ps.Wind != nil {
		out = append(out, *ps.Wind)
	}
	if ps.Seismic != nil {
		out = append(out, *ps.Seismic)
	}
	if ps.Crane != nil {
		out = append(out, *ps.Crane)
	}
	return out
}

// Only keeps the listed load types. An empty list keeps everything.
func (ps ParameterSet) Only(types ...asce7.LoadType) ParameterSet {
	if len(types) == 0 {
		return ps
	}
	keep := map[asce7.LoadType]bool{}
	for _, t := range types {
		keep[t] = true
	}
	if !keep[asce7.Dead] {
		ps.Dead = nil
	}
	if !keep[asce7.Live] {
		ps.Live = nil
	}
	if !keep[asce7.Snow] {
		ps.Snow = nil
	}
	if !keep[asce7.Wind] {
		ps.Wind = nil
	}
	if !keep[asce7.Seismic] {
		ps.Seismic = nil
	}
	if !keep[asce7.Crane] {
		ps.Crane = nil
	}
	return ps
}

// DefaultParameters seeds every load type from the MCP snapshot and the
// site defaults. Crane parameters are only included when the MCP tags
// runway members.
func DefaultParameters(snap *mcp.Snapshot, site SiteDefaults) ParameterSet {
	m := snap.Model()
	u := unitsOf(m)
	d := snap.Dimensions

	trib := d.TypicalBaySpacing()
	if trib <= 0 {
		trib = u.FromFeet(DefaultTributaryWidthFt)
	}
	pressure := func(psf float64) float64 {
		if u.Metric {
			return psf / asce7.PsfPerKPa
		}
		return psf
	}
	force := func(kip float64) float64 {
		if u.Metric {
			return kip / asce7.KipPerKN
		}
		return kip
	}
	speed := site.BasicWindSpeed
	storyTol := site.StoryToleranceFt
	if u.Metric {
		speed /= asce7.MphPerMps
		storyTol = site.StoryToleranceM
	}
	sys := asce7.SystemFor(snap.FrameSystem)

	ps := ParameterSet{
		Dead: &DeadParameters{
			SelfWeightFactor:   1.0,
			AdditionalDeadLoad: pressure(site.AdditionalDeadLoad),
			TributaryWidth:     trib,
		},
		Live: &LiveParameters{
			Occupancy:      OccupancyFor(snap.BuildingType),
			RoofLiveLoad:   pressure(asce7.RoofLiveLoadPsf),
			Reduction:      true,
			TributaryWidth: trib,
		},
		Snow: &SnowParameters{
			GroundSnowLoad: pressure(site.GroundSnowLoad),
			Ce:             1.0,
			Ct:             1.0,
			RiskCategory:   site.RiskCategory,
			RoofSlope:      d.RoofSlope,
			TributaryWidth: trib,
		},
		Wind: &WindParameters{
			BasicWindSpeed:   speed,
			Exposure:         site.Exposure,
			Enclosure:        site.Enclosure,
			InternalPressure: InternalPositive,
			Kzt:              1.0,
			Kd:               asce7.KdBuildings,
			Ke:               1.0,
			GustFactor:       asce7.GustFactorRigid,
			BuildingHeight:   d.TotalHeight,
			TributaryWidth:   trib,
			Direction:        snap.Axes.Width,
		},
		Seismic: &SeismicParameters{
			Ss:             site.Ss,
			S1:             site.S1,
			SiteClass:      site.SiteClass,
			RiskCategory:   site.RiskCategory,
			R:              sys.R,
			Ie:             asce7.ImportanceFactor(site.RiskCategory),
			TL:             DefaultLongPeriodTransition,
			FrameSystem:    snap.FrameSystem,
			BuildingHeight: d.TotalHeight,
			StoryTolerance: storyTol,
			Direction:      snap.Axes.Width,
		},
	}

	if hasRunway(snap) {
		ps.Crane = &CraneParameters{
			Capacity:      force(site.CraneCapacity),
			CraneWeight:   force(site.CraneWeight),
			TrolleyWeight: force(site.TrolleyWeight),
			WheelsPerSide: DefaultWheelsPerSide,
			WheelSpacing:  u.FromFeet(site.WheelSpacingFt),
			Operation:     site.CraneOperation,
		}
	}
	return ps
}

func hasRunway(snap *mcp.Snapshot) bool {
	for _, mb := range snap.Model().Members {
		if snap.Tag(mb.ID).IsRunway() || mb.Type == model.TypeCraneBeam {
			return true
		}
	}
	return false
}

// OccupancyFor picks the floor live load occupancy for a building type
func OccupancyFor(bt model.BuildingType) asce7.Occupancy {
	switch bt {
	case model.BuildingIndustrialWarehouse:
		return asce7.OccupancyStorageLight
	case model.BuildingManufacturingFacility, model.BuildingAircraftMaintenance:
		return asce7.OccupancyManufacturingLight
	case model.BuildingSportsFacility:
		return asce7.OccupancyAssembly
	case model.BuildingCarShedCanopy:
		return asce7.OccupancyGarage
	default:
		return asce7.OccupancyOffice
	}
}

// LoadParameterFile overlays a YAML parameter file onto ps. Keys present in
// the file replace the seeded values; a load type the seed omitted is added.
func LoadParameterFile(path string, ps ParameterSet) (ParameterSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ps, fmt.Errorf("reading parameter file: %w", err)
	}
	ps = ps.Clone()
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return ps, fmt.Errorf("parsing parameter file: %w", err)
	}
	return ps, nil
}

// Clone copies every variant so decoding into the copy leaves ps alone
func (ps ParameterSet) Clone() ParameterSet {
	return ParameterSet{
		Dead:    clonePtr(ps.Dead),
		Live:    clonePtr(ps.Live),
		Snow:    clonePtr(ps.Snow),
		Wind:    clonePtr(ps.Wind),
		Seismic: clonePtr(ps.Seismic),
		Crane:   clonePtr(ps.Crane),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
