package loads

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// Parameters is the closed set of calculator inputs, one variant per load
// type. The unexported method keeps the set closed to this package.
type Parameters interface {
	LoadType() asce7.LoadType
	calculate(in Input) *Result
}

// Default tributary width when neither the parameters nor the bay spacing
// give one
const DefaultTributaryWidthFt = 20.0

// InternalPressureSign selects which GCpi case is applied
type InternalPressureSign string

const (
	InternalPositive InternalPressureSign = "POSITIVE"
	InternalNegative InternalPressureSign = "NEGATIVE"
)

// WindParameters drive the directional MWFRS procedure. Speeds are mph for
// imperial models and m/s for metric models. Zero coefficients, height and
// classifications take the code defaults.
type WindParameters struct {
	BasicWindSpeed   float64              `json:"basicWindSpeed" yaml:"basicWindSpeed" validate:"gt=0,lte=300"`
	Exposure         asce7.Exposure       `json:"exposureCategory" yaml:"exposureCategory" validate:"oneof=B C D"`
	Enclosure        asce7.Enclosure      `json:"enclosureClassification" yaml:"enclosureClassification" validate:"omitempty,oneof=ENCLOSED PARTIALLY_ENCLOSED PARTIALLY_OPEN OPEN"`
	InternalPressure InternalPressureSign `json:"internalPressure" yaml:"internalPressure" validate:"omitempty,oneof=POSITIVE NEGATIVE"`
	Kzt              float64              `json:"kzt" yaml:"kzt" validate:"omitempty,gte=1,lte=3"`
	Kd               float64              `json:"kd" yaml:"kd" validate:"omitempty,gt=0,lte=1"`
	Ke               float64              `json:"ke" yaml:"ke" validate:"omitempty,gt=0,lte=1"`
	GustFactor       float64              `json:"gustFactor" yaml:"gustFactor" validate:"omitempty,gt=0,lte=2"`
	BuildingHeight   float64              `json:"buildingHeight" yaml:"buildingHeight" validate:"omitempty,gt=0"`
	TributaryWidth   float64              `json:"tributaryWidth" yaml:"tributaryWidth" validate:"gte=0"`
	Direction        model.Axis           `json:"direction" yaml:"direction" validate:"omitempty,oneof=X Y Z"`
	Reverse          bool                 `json:"reverse,omitempty" yaml:"reverse,omitempty"`
}

func (WindParameters) LoadType() asce7.LoadType { return asce7.Wind }

// SeismicParameters drive the equivalent lateral force procedure.
// Period 0 selects the approximate period; other zero values take the
// frame system, risk category and model defaults.
type SeismicParameters struct {
	Ss             float64            `json:"ss" yaml:"ss" validate:"gte=0,lte=3"`
	S1             float64            `json:"s1" yaml:"s1" validate:"gte=0,lte=1.5"`
	SiteClass      asce7.SiteClass    `json:"siteClass" yaml:"siteClass" validate:"oneof=A B C D E"`
	RiskCategory   asce7.RiskCategory `json:"riskCategory" yaml:"riskCategory" validate:"omitempty,oneof=I II III IV"`
	R              float64            `json:"responseModification" yaml:"responseModification" validate:"omitempty,gt=0,lte=8"`
	Ie             float64            `json:"importanceFactor" yaml:"importanceFactor" validate:"omitempty,gte=1,lte=1.5"`
	TL             float64            `json:"longPeriodTransition" yaml:"longPeriodTransition" validate:"omitempty,gt=0,lte=16"`
	Period         float64            `json:"period,omitempty" yaml:"period,omitempty" validate:"gte=0,lte=10"`
	FrameSystem    asce7.FrameSystem  `json:"frameSystem" yaml:"frameSystem"`
	BuildingHeight float64            `json:"buildingHeight" yaml:"buildingHeight" validate:"omitempty,gt=0"`
	StoryTolerance float64            `json:"storyTolerance" yaml:"storyTolerance" validate:"omitempty,gt=0"`
	Direction      model.Axis         `json:"direction" yaml:"direction" validate:"omitempty,oneof=X Y Z"`
}

func (SeismicParameters) LoadType() asce7.LoadType { return asce7.Seismic }

// SnowParameters drive the flat and sloped roof snow procedure. Ground snow
// load is psf for imperial models and kPa for metric models.
type SnowParameters struct {
	GroundSnowLoad float64            `json:"groundSnowLoad" yaml:"groundSnowLoad" validate:"gte=0,lte=300"`
	Ce             float64            `json:"exposureFactor" yaml:"exposureFactor" validate:"omitempty,gte=0.7,lte=1.3"`
	Ct             float64            `json:"thermalFactor" yaml:"thermalFactor" validate:"omitempty,gte=0.85,lte=1.3"`
	RiskCategory   asce7.RiskCategory `json:"riskCategory" yaml:"riskCategory" validate:"omitempty,oneof=I II III IV"`
	RoofSlope      float64            `json:"roofSlope" yaml:"roofSlope" validate:"gte=0,lt=90"`
	Slippery       bool               `json:"slipperyRoof,omitempty" yaml:"slipperyRoof,omitempty"`
	WarmRoof       bool               `json:"warmRoof,omitempty" yaml:"warmRoof,omitempty"`
	Parapet        bool               `json:"parapet,omitempty" yaml:"parapet,omitempty"`
	TributaryWidth float64            `json:"tributaryWidth" yaml:"tributaryWidth" validate:"gte=0"`
}

func (SnowParameters) LoadType() asce7.LoadType { return asce7.Snow }

// LiveParameters drive floor and roof live loads. Area loads are psf or kPa;
// zero FloorLiveLoad takes the occupancy table value.
type LiveParameters struct {
	Occupancy      asce7.Occupancy `json:"occupancy" yaml:"occupancy"`
	FloorLiveLoad  float64         `json:"floorLiveLoad,omitempty" yaml:"floorLiveLoad,omitempty" validate:"gte=0,lte=500"`
	RoofLiveLoad   float64         `json:"roofLiveLoad" yaml:"roofLiveLoad" validate:"gte=0,lte=100"`
	Reduction      bool            `json:"reduction" yaml:"reduction"`
	TributaryWidth float64         `json:"tributaryWidth" yaml:"tributaryWidth" validate:"gte=0"`
}

func (LiveParameters) LoadType() asce7.LoadType { return asce7.Live }

// DeadParameters drive self-weight plus superimposed dead load (psf or kPa)
type DeadParameters struct {
	SelfWeightFactor   float64 `json:"selfWeightFactor" yaml:"selfWeightFactor" validate:"gte=0,lte=2"`
	AdditionalDeadLoad float64 `json:"additionalDeadLoad" yaml:"additionalDeadLoad" validate:"gte=0,lte=500"`
	TributaryWidth     float64 `json:"tributaryWidth" yaml:"tributaryWidth" validate:"gte=0"`
}

func (DeadParameters) LoadType() asce7.LoadType { return asce7.Dead }

// CraneParameters describe one bridge crane. Forces are kip or kN, wheel
// spacing in model length units. Impact 0 takes the operation default.
type CraneParameters struct {
	Capacity      float64              `json:"capacity" yaml:"capacity" validate:"gt=0,lte=2000"`
	CraneWeight   float64              `json:"craneWeight" yaml:"craneWeight" validate:"gte=0,lte=2000"`
	TrolleyWeight float64              `json:"trolleyWeight" yaml:"trolleyWeight" validate:"gte=0,lte=500"`
	WheelsPerSide int                  `json:"wheelsPerSide" yaml:"wheelsPerSide" validate:"omitempty,gte=1,lte=8"`
	WheelSpacing  float64              `json:"wheelSpacing" yaml:"wheelSpacing" validate:"gte=0"`
	Operation     asce7.CraneOperation `json:"operation" yaml:"operation" validate:"omitempty,oneof=CAB REMOTE PENDANT MONORAIL"`
	Impact        float64              `json:"impact,omitempty" yaml:"impact,omitempty" validate:"gte=0,lte=1"`
}

func (CraneParameters) LoadType() asce7.LoadType { return asce7.Crane }

// validate is a singleton validator; field names come from json tags
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// rangeWarnings turns validator failures into result warnings. Parameters
// outside sane ranges never stop a calculation.
func rangeWarnings(p Parameters, b *builder) {
	err := validate.Struct(p)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		b.warn("parameter check failed: %v", err)
		return
	}
	for _, fe := range verrs {
		b.warn("parameter %s=%v outside expected range (%s)", fe.Field(), fe.Value(), describeRule(fe))
	}
}

func describeRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s %s", fe.Tag(), fe.Param())
}
