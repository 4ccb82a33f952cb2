package model

// UnitsSystem names the unit family a model was normalized to by the parser.
type UnitsSystem string

const (
	Imperial UnitsSystem = "IMPERIAL" // ft, kip, psf inputs
	Metric   UnitsSystem = "METRIC"   // m, kN, kPa inputs
)

// Node is a point in model space
type Node struct {
	ID         string          `json:"id" yaml:"id"`
	X          float64         `json:"x" yaml:"x"`
	Y          float64         `json:"y" yaml:"y"`
	Z          float64         `json:"z" yaml:"z"`
	Restraints map[string]bool `json:"restraints,omitempty" yaml:"restraints,omitempty"`
}

// Restraint keys, one per degree of freedom. A node's Restraints map holds
// true for every restrained DOF; missing keys are free.
const (
	DX = "dx"
	DY = "dy"
	DZ = "dz"
	RX = "rx"
	RY = "ry"
	RZ = "rz"
)

// DOFs lists the restraint keys in conventional order
var DOFs = []string{DX, DY, DZ, RX, RY, RZ}

// Member connects two nodes
type Member struct {
	ID          string    `json:"id" yaml:"id"`
	StartNodeID string    `json:"startNodeId" yaml:"startNodeId"`
	EndNodeID   string    `json:"endNodeId" yaml:"endNodeId"`
	Type        string    `json:"type,omitempty" yaml:"type,omitempty"`
	SectionID   string    `json:"sectionId,omitempty" yaml:"sectionId,omitempty"`
	MaterialID  string    `json:"materialId,omitempty" yaml:"materialId,omitempty"`
	Tag         MemberTag `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Structural member types reported by the parser
const (
	TypeBeam          = "BEAM"
	TypeColumn        = "COLUMN"
	TypeBrace         = "BRACE"
	TypeRafter        = "RAFTER"
	TypePurlin        = "PURLIN"
	TypeGirt          = "GIRT"
	TypeTrussChord    = "TRUSS_CHORD"
	TypeTrussDiagonal = "TRUSS_DIAGONAL"
	TypeCantilever    = "CANTILEVER_BEAM"
	TypeCanopyBeam    = "CANOPY_BEAM"
	TypeCraneBeam     = "CRANE_BEAM"
	TypeOther         = "OTHER"
)

// Material holds the properties the load engine needs.
// Density is kip/ft³ for imperial models and kN/m³ for metric models.
type Material struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name,omitempty" yaml:"name,omitempty"`
	Density        float64 `json:"density" yaml:"density"`
	ElasticModulus float64 `json:"elasticModulus,omitempty" yaml:"elasticModulus,omitempty"`
	YieldStrength  float64 `json:"yieldStrength,omitempty" yaml:"yieldStrength,omitempty"`
}

// LoadCase is a primary load case carried over from the source file
type LoadCase struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Geometry carries parser-reported overall geometry. The MCP never trusts
// these values; it recomputes dimensions from the nodes.
type Geometry struct {
	BuildingLength float64   `json:"buildingLength,omitempty" yaml:"buildingLength,omitempty"`
	BuildingWidth  float64   `json:"buildingWidth,omitempty" yaml:"buildingWidth,omitempty"`
	TotalHeight    float64   `json:"totalHeight,omitempty" yaml:"totalHeight,omitempty"`
	EaveHeight     float64   `json:"eaveHeight,omitempty" yaml:"eaveHeight,omitempty"`
	RoofSlope      float64   `json:"roofSlope,omitempty" yaml:"roofSlope,omitempty"`
	FrameCount     int       `json:"frameCount,omitempty" yaml:"frameCount,omitempty"`
	BaySpacings    []float64 `json:"baySpacings,omitempty" yaml:"baySpacings,omitempty"`
}

// StructuralModel is the aggregate produced by the external parser. It is
// treated as immutable for the lifetime of an analysis session.
type StructuralModel struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Units       string      `json:"units,omitempty" yaml:"units,omitempty"`
	UnitsSystem UnitsSystem `json:"unitsSystem" yaml:"unitsSystem"`
	Nodes       []Node      `json:"nodes" yaml:"nodes"`
	Members     []Member    `json:"members" yaml:"members"`
	Sections    []Section   `json:"sections,omitempty" yaml:"sections,omitempty"`
	Materials   []Material  `json:"materials,omitempty" yaml:"materials,omitempty"`
	LoadCases   []LoadCase  `json:"loadCases,omitempty" yaml:"loadCases,omitempty"`
	Geometry    Geometry    `json:"geometry,omitempty" yaml:"geometry,omitempty"`
}

// IsMetric reports whether the model uses metric units
func (m *StructuralModel) IsMetric() bool {
	return m.UnitsSystem == Metric
}

// Index gives constant-time lookup by id over a model's collections
type Index struct {
	nodes     map[string]*Node
	members   map[string]*Member
	sections  map[string]*Section
	materials map[string]*Material
}

// NewIndex builds lookup tables. Duplicate ids are the parser's problem;
// the last occurrence wins.
func NewIndex(m *StructuralModel) *Index {
	idx := &Index{
		nodes:     make(map[string]*Node, len(m.Nodes)),
		members:   make(map[string]*Member, len(m.Members)),
		sections:  make(map[string]*Section, len(m.Sections)),
		materials: make(map[string]*Material, len(m.Materials)),
	}
	for i := range m.Nodes {
		idx.nodes[m.Nodes[i].ID] = &m.Nodes[i]
	}
	for i := range m.Members {
		idx.members[m.Members[i].ID] = &m.Members[i]
	}
	for i := range m.Sections {
		idx.sections[m.Sections[i].ID] = &m.Sections[i]
	}
	for i := range m.Materials {
		idx.materials[m.Materials[i].ID] = &m.Materials[i]
	}
	return idx
}

func (idx *Index) Node(id string) (*Node, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

func (idx *Index) Member(id string) (*Member, bool) {
	mb, ok := idx.members[id]
	return mb, ok
}

func (idx *Index) Section(id string) (*Section, bool) {
	s, ok := idx.sections[id]
	return s, ok
}

func (idx *Index) Material(id string) (*Material, bool) {
	mt, ok := idx.materials[id]
	return mt, ok
}
