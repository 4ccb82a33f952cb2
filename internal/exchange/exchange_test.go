package exchange

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abaw1984/azload-sub000/internal/model"
)

func frameModel() *model.StructuralModel {
	fixed := map[string]bool{}
	for _, dof := range model.DOFs {
		fixed[dof] = true
	}
	pinned := map[string]bool{model.DX: true, model.DY: true, model.DZ: true}
	return &model.StructuralModel{
		ID:          "frame-1",
		UnitsSystem: model.Imperial,
		Nodes: []model.Node{
			{ID: "1", X: 0, Y: 0, Z: 0, Restraints: fixed},
			{ID: "2", X: 0, Y: 0, Z: 20.125},
			{ID: "3", X: 30, Y: 0, Z: 20.125},
			{ID: "4", X: 30, Y: 0, Z: 0, Restraints: pinned},
			{ID: "5", X: 15.333333333333334, Y: 0.1, Z: 24.000001},
		},
		Members: []model.Member{
			{ID: "1", StartNodeID: "1", EndNodeID: "2", SectionID: "W12X26", MaterialID: "A992"},
			{ID: "2", StartNodeID: "2", EndNodeID: "5", SectionID: "W10X22", MaterialID: "A992"},
			{ID: "3", StartNodeID: "5", EndNodeID: "3", SectionID: "W10X22", MaterialID: "A992"},
			{ID: "4", StartNodeID: "3", EndNodeID: "4", SectionID: "W12X26", MaterialID: "A992"},
		},
	}
}

var frameTags = map[string]model.MemberTag{
	"1": model.TagMainFrameColumn,
	"2": model.TagMainFrameRafter,
	"3": model.TagMainFrameRafter,
	"4": model.TagMainFrameColumn,
}

func assertSameModel(t *testing.T, want, got *model.StructuralModel) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.UnitsSystem, got.UnitsSystem)

	require.Len(t, got.Nodes, len(want.Nodes))
	for i, n := range want.Nodes {
		g := got.Nodes[i]
		assert.Equal(t, n.ID, g.ID)
		assert.InDelta(t, n.X, g.X, 1e-6, "node %s x", n.ID)
		assert.InDelta(t, n.Y, g.Y, 1e-6, "node %s y", n.ID)
		assert.InDelta(t, n.Z, g.Z, 1e-6, "node %s z", n.ID)
		for _, dof := range model.DOFs {
			assert.Equal(t, n.Restraints[dof], g.Restraints[dof], "node %s %s", n.ID, dof)
		}
	}

	require.Len(t, got.Members, len(want.Members))
	for i, mb := range want.Members {
		g := got.Members[i]
		assert.Equal(t, mb.ID, g.ID)
		assert.Equal(t, mb.StartNodeID, g.StartNodeID)
		assert.Equal(t, mb.EndNodeID, g.EndNodeID)
		assert.Equal(t, mb.SectionID, g.SectionID)
		assert.Equal(t, mb.MaterialID, g.MaterialID)
		assert.Equal(t, frameTags[mb.ID], g.Tag)
	}
}

func TestSTAADRoundTrip(t *testing.T) {
	m := frameModel()
	var buf bytes.Buffer
	require.NoError(t, WriteSTAAD(&buf, m, frameTags))

	text := buf.String()
	assert.True(t, strings.HasPrefix(text, "STAAD SPACE"))
	assert.Contains(t, text, "UNIT FEET KIP")
	assert.Contains(t, text, "_MAIN_FRAME_RAFTER 2 3")
	assert.Contains(t, text, "1 FIXED")
	assert.Contains(t, text, "4 PINNED")

	got, err := ParseSTAAD(&buf)
	require.NoError(t, err)
	assertSameModel(t, m, got)
	assert.Len(t, got.Sections, 2)
	assert.Len(t, got.Materials, 1)
}

func TestSAP2000RoundTrip(t *testing.T) {
	m := frameModel()
	var buf bytes.Buffer
	require.NoError(t, WriteSAP2000(&buf, m, frameTags))

	text := buf.String()
	assert.Contains(t, text, `TABLE:  "JOINT COORDINATES"`)
	assert.Contains(t, text, "GroupName=_MAIN_FRAME_COLUMN   ObjectType=Frame   ObjectLabel=4")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), "END TABLE DATA"))

	got, err := ParseSAP2000(&buf)
	require.NoError(t, err)
	assertSameModel(t, m, got)
}

func TestSAP2000AwkwardIdentifiers(t *testing.T) {
	m := &model.StructuralModel{
		ID:          `bay "A" \ north`,
		UnitsSystem: model.Imperial,
		Nodes: []model.Node{
			{ID: "1", Z: 0},
			{ID: "2_", Z: 12},
			{ID: "3", X: 20, Z: 12},
			{ID: "top node", X: 20, Z: 24},
		},
		Members: []model.Member{
			{ID: "A", StartNodeID: "1", EndNodeID: "2_", SectionID: `W12"x26`, MaterialID: "steel_"},
			{ID: "B", StartNodeID: "2_", EndNodeID: "3", SectionID: "W12", MaterialID: `A\992`},
			{ID: "C=1", StartNodeID: "3", EndNodeID: "top node", SectionID: "W12", MaterialID: "A992"},
			{ID: "_", StartNodeID: "top node", EndNodeID: "2_"},
		},
	}
	tags := map[string]model.MemberTag{"A": model.TagMainFrameColumn, "_": model.TagWallBracing}

	var buf bytes.Buffer
	require.NoError(t, WriteSAP2000(&buf, m, tags))
	got, err := ParseSAP2000(&buf)
	require.NoError(t, err)

	assert.Equal(t, m.ID, got.ID)
	require.Len(t, got.Nodes, len(m.Nodes))
	for i, n := range m.Nodes {
		assert.Equal(t, n.ID, got.Nodes[i].ID)
	}
	require.Len(t, got.Members, len(m.Members))
	for i, mb := range m.Members {
		g := got.Members[i]
		assert.Equal(t, mb.ID, g.ID)
		assert.Equal(t, mb.StartNodeID, g.StartNodeID, mb.ID)
		assert.Equal(t, mb.EndNodeID, g.EndNodeID, mb.ID)
		assert.Equal(t, mb.SectionID, g.SectionID, mb.ID)
		assert.Equal(t, mb.MaterialID, g.MaterialID, mb.ID)
		assert.Equal(t, tags[mb.ID], g.Tag, mb.ID)
	}
}

func TestParseSAP2000Continuation(t *testing.T) {
	src := "TABLE:  \"JOINT COORDINATES\"\n" +
		"   Joint=1   CoordSys=GLOBAL _\n" +
		"   XorR=0   Y=0   Z=0\n" +
		"   Joint=2   XorR=0   Y=0   Z=10\n" +
		"TABLE:  \"CONNECTIVITY - FRAME\"\n" +
		"   Frame=A   JointI=1   JointJ=2\n" +
		"END TABLE DATA\n"
	m, err := ParseSAP2000(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Nodes, 2)
	assert.Equal(t, "1", m.Nodes[0].ID)
	assert.Equal(t, 10.0, m.Nodes[1].Z)
	require.Len(t, m.Members, 1)
}

func TestSTAADRejectsUnrepresentableIdentifiers(t *testing.T) {
	for name, mutate := range map[string]func(*model.StructuralModel){
		"joint with space":      func(m *model.StructuralModel) { m.Nodes[1].ID = "top left" },
		"member with semicolon": func(m *model.StructuralModel) { m.Members[0].ID = "1;2" },
		"reference with tab":    func(m *model.StructuralModel) { m.Members[1].EndNodeID = "5\t" },
		"section with space":    func(m *model.StructuralModel) { m.Members[2].SectionID = "W10 X22" },
		"empty member id":       func(m *model.StructuralModel) { m.Members[3].ID = "" },
	} {
		t.Run(name, func(t *testing.T) {
			m := frameModel()
			mutate(m)
			var buf bytes.Buffer
			err := WriteSTAAD(&buf, m, frameTags)
			assert.ErrorIs(t, err, ErrUnsupportedIdentifier)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestMetricUnitsSurviveRoundTrip(t *testing.T) {
	m := frameModel()
	m.UnitsSystem = model.Metric

	for name, rt := range map[string]func() (*model.StructuralModel, error){
		"staad": func() (*model.StructuralModel, error) {
			var buf bytes.Buffer
			require.NoError(t, WriteSTAAD(&buf, m, frameTags))
			return ParseSTAAD(&buf)
		},
		"sap2000": func() (*model.StructuralModel, error) {
			var buf bytes.Buffer
			require.NoError(t, WriteSAP2000(&buf, m, frameTags))
			return ParseSAP2000(&buf)
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := rt()
			require.NoError(t, err)
			assert.Equal(t, model.Metric, got.UnitsSystem)
		})
	}
}

func TestSTAADPartialSupport(t *testing.T) {
	m := frameModel()
	m.Nodes[0].Restraints = map[string]bool{model.DX: true, model.DY: true, model.DZ: true, model.RY: true}

	var buf bytes.Buffer
	require.NoError(t, WriteSTAAD(&buf, m, nil))
	assert.Contains(t, buf.String(), "1 FIXED BUT MX MZ")
	assert.NotContains(t, buf.String(), "GROUP DEFINITION")

	got, err := ParseSTAAD(&buf)
	require.NoError(t, err)
	assert.True(t, got.Nodes[0].Restraints[model.RY])
	assert.False(t, got.Nodes[0].Restraints[model.RX])
}

func TestParseSTAADRejectsBadJoint(t *testing.T) {
	src := "STAAD SPACE\nJOINT COORDINATES\n1 0 abc 0;\nFINISH\n"
	_, err := ParseSTAAD(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseSTAADMultipleJointsPerLine(t *testing.T) {
	src := "STAAD SPACE\nUNIT FEET KIP\nJOINT COORDINATES\n1 0 0 0; 2 0 0 10;\nMEMBER INCIDENCES\n1 1 2;\nFINISH\n"
	m, err := ParseSTAAD(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Nodes, 2)
	assert.Equal(t, 10.0, m.Nodes[1].Z)
	require.Len(t, m.Members, 1)
}

func TestParseRowQuoted(t *testing.T) {
	row, err := parseRow(`Item="Project Name"   Data=frame-1`)
	require.NoError(t, err)
	assert.Equal(t, "Project Name", row["Item"])
	assert.Equal(t, "frame-1", row["Data"])

	row, err = parseRow(`Data="say ""hi"" \ bye"   Next=1`)
	require.NoError(t, err)
	assert.Equal(t, `say "hi" \ bye`, row["Data"])
	assert.Equal(t, "1", row["Next"])

	_, err = parseRow(`Item="open`)
	assert.Error(t, err)

	_, err = parseRow(`Item="open""`)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("S2K")
	require.NoError(t, err)
	assert.Equal(t, FormatSAP2000, f)
	assert.Equal(t, ".s2k", f.Extension())

	f, err = ParseFormat("staad")
	require.NoError(t, err)
	assert.Equal(t, ".std", f.Extension())

	_, err = ParseFormat("ifc")
	assert.Error(t, err)
}
