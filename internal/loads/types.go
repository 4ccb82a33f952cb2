package loads

import (
	"fmt"
	"math"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// TargetKind says whether a load sits on a node or along a member
type TargetKind string

const (
	TargetNode   TargetKind = "NODE"
	TargetMember TargetKind = "MEMBER"
)

// Distribution is the load shape along its target
type Distribution string

const (
	Point   Distribution = "POINT"
	Uniform Distribution = "UNIFORM"
)

// Load is one discrete load. Direction is a unit vector in global axes and
// Magnitude is never negative. Uniform loads are force per length over
// Length; point loads sit at Position, a fraction of the member length.
type Load struct {
	ID           string         `json:"id"`
	Type         asce7.LoadType `json:"type"`
	TargetID     string         `json:"targetId"`
	Target       TargetKind     `json:"target"`
	Direction    model.Vec3     `json:"direction"`
	Magnitude    float64        `json:"magnitude"`
	Distribution Distribution   `json:"distribution"`
	Length       float64        `json:"length,omitempty"`
	Position     float64        `json:"position,omitempty"`
	Zone         string         `json:"zone,omitempty"`
}

// Resultant returns the total force vector the load applies
func (l Load) Resultant() model.Vec3 {
	f := l.Magnitude
	if l.Distribution == Uniform {
		f *= l.Length
	}
	return l.Direction.Scale(f)
}

// Summary aggregates a result. Pressures are in ksf or kPa.
type Summary struct {
	TotalForce  model.Vec3 `json:"totalForce"`
	MaxPressure float64    `json:"maxPressure"`
	MinPressure float64    `json:"minPressure"`
	LoadCount   int        `json:"loadCount"`
}

// Result is the output of one calculator run. It is built fresh on every
// call and never modified afterwards.
type Result struct {
	LoadType       asce7.LoadType `json:"loadType"`
	Loads          []Load         `json:"loads"`
	Summary        Summary        `json:"summary"`
	Parameters     Parameters     `json:"parameters"`
	Warnings       []string       `json:"warnings"`
	CodeReferences []string       `json:"codeReferences"`
	MCPVersion     int            `json:"mcpVersion"`
	ForceUnit      string         `json:"forceUnit"`
	LengthUnit     string         `json:"lengthUnit"`

	// Details holds intermediate values such as qh or the base shear
	Details map[string]float64 `json:"details,omitempty"`
	Stories []Story            `json:"stories,omitempty"`
}

// Input is everything a calculator reads: the model plus the MCP's frozen
// classification. Calculators treat it as read-only.
type Input struct {
	Model        *model.StructuralModel
	Axes         model.AxisConvention
	Tags         map[string]model.MemberTag
	Dimensions   mcp.Dimensions
	Tolerance    float64
	BuildingType model.BuildingType
	FrameSystem  asce7.FrameSystem
	Version      int
}

// InputFromSnapshot reads calculator input from a locked MCP snapshot
func InputFromSnapshot(s *mcp.Snapshot) Input {
	return Input{
		Model:        s.Model(),
		Axes:         s.Axes,
		Tags:         s.MemberTags,
		Dimensions:   s.Dimensions,
		Tolerance:    s.Tolerance,
		BuildingType: s.BuildingType,
		FrameSystem:  s.FrameSystem,
		Version:      s.Version,
	}
}

// builder accumulates loads, warnings and pressure extremes for one result
type builder struct {
	res     *Result
	seq     int
	pressed bool
}

func newBuilder(lt asce7.LoadType, p Parameters, in Input) *builder {
	u := unitsOf(in.Model)
	return &builder{res: &Result{
		LoadType:       lt,
		Loads:          []Load{},
		Parameters:     p,
		Warnings:       []string{},
		CodeReferences: []string{},
		MCPVersion:     in.Version,
		ForceUnit:      u.Force(),
		LengthUnit:     u.Length(),
	}}
}

func (b *builder) warn(format string, args ...any) {
	b.res.Warnings = append(b.res.Warnings, fmt.Sprintf(format, args...))
}

func (b *builder) detail(name string, v float64) {
	if b.res.Details == nil {
		b.res.Details = map[string]float64{}
	}
	b.res.Details[name] = v
}

func (b *builder) cite(refs ...string) {
	b.res.CodeReferences = append(b.res.CodeReferences, refs...)
}

// pressure records an area load for the summary extremes
func (b *builder) pressure(p float64) {
	if !b.pressed {
		b.res.Summary.MaxPressure, b.res.Summary.MinPressure = p, p
		b.pressed = true
		return
	}
	b.res.Summary.MaxPressure = math.Max(b.res.Summary.MaxPressure, p)
	b.res.Summary.MinPressure = math.Min(b.res.Summary.MinPressure, p)
}

// add appends a load, folding a negative magnitude into the direction.
// Zero loads are dropped.
func (b *builder) add(l Load) {
	if l.Magnitude == 0 || math.IsNaN(l.Magnitude) {
		return
	}
	if l.Magnitude < 0 {
		l.Magnitude = -l.Magnitude
		l.Direction = l.Direction.Scale(-1)
	}
	b.seq++
	l.ID = fmt.Sprintf("%s-%d", l.Type.Symbol(), b.seq)
	b.res.Loads = append(b.res.Loads, l)
	b.res.Summary.TotalForce = b.res.Summary.TotalForce.Add(l.Resultant())
}

func (b *builder) memberLoad(lt asce7.LoadType, seg model.Segment, dir model.Vec3, w float64, zone string) {
	b.add(Load{
		Type:         lt,
		TargetID:     seg.Member.ID,
		Target:       TargetMember,
		Direction:    dir,
		Magnitude:    w,
		Distribution: Uniform,
		Length:       seg.Length(),
		Zone:         zone,
	})
}

func (b *builder) pointLoad(lt asce7.LoadType, memberID string, dir model.Vec3, p, position float64, zone string) {
	b.add(Load{
		Type:         lt,
		TargetID:     memberID,
		Target:       TargetMember,
		Direction:    dir,
		Magnitude:    p,
		Distribution: Point,
		Position:     position,
		Zone:         zone,
	})
}

func (b *builder) result() *Result {
	b.res.Summary.LoadCount = len(b.res.Loads)
	return b.res
}

func unitsOf(m *model.StructuralModel) asce7.Units {
	return asce7.Units{Metric: m.IsMetric()}
}
