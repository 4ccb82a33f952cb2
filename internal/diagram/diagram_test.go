package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/loads"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

func portalFrame() *model.StructuralModel {
	return &model.StructuralModel{
		ID:          "portal",
		UnitsSystem: model.Imperial,
		Nodes: []model.Node{
			{ID: "1", X: 0, Y: 0, Z: 0},
			{ID: "2", X: 0, Y: 0, Z: 6},
			{ID: "3", X: 30, Y: 0, Z: 6},
			{ID: "4", X: 30, Y: 0, Z: 0},
		},
		Members: []model.Member{
			{ID: "1", StartNodeID: "1", EndNodeID: "2"},
			{ID: "2", StartNodeID: "2", EndNodeID: "3"},
			{ID: "3", StartNodeID: "3", EndNodeID: "4"},
			{ID: "9", StartNodeID: "3", EndNodeID: "99"},
		},
	}
}

func sampleResults() []*loads.Result {
	dead := &loads.Result{
		LoadType:   asce7.Dead,
		ForceUnit:  "kip",
		LengthUnit: "ft",
		Loads: []loads.Load{
			{Type: asce7.Dead, TargetID: "2", Target: loads.TargetMember, Direction: model.Vec3{Z: -1}, Magnitude: 0.1, Distribution: loads.Uniform, Length: 30},
		},
	}
	wind := &loads.Result{
		LoadType: asce7.Wind,
		Loads: []loads.Load{
			{Type: asce7.Wind, TargetID: "1", Target: loads.TargetMember, Direction: model.Vec3{X: 1}, Magnitude: 0.25, Distribution: loads.Uniform, Length: 6, Zone: "windward"},
			{Type: asce7.Wind, TargetID: "2", Target: loads.TargetNode, Direction: model.Vec3{Y: 1}, Magnitude: 1, Distribution: loads.Point},
			{Type: asce7.Wind, TargetID: "404", Target: loads.TargetMember, Direction: model.Vec3{X: 1}, Magnitude: 1, Distribution: loads.Point},
		},
	}
	return []*loads.Result{dead, wind}
}

func TestNewFrameDiagram(t *testing.T) {
	data := NewFrameDiagram("portal", portalFrame(), model.DefaultAxes, sampleResults()...)

	assert.Equal(t, "ft", data.LengthUnit)
	assert.Equal(t, "kip", data.ForceUnit)
	// the dangling member is skipped
	require.Len(t, data.Members, 3)
	assert.Equal(t, Line{MemberID: "2", From: Point{0, 6}, To: Point{30, 6}}, data.Members[1])

	// the Y load has no elevation component; the unknown member is dropped
	assert.Equal(t, 1, data.OutOfPlane)
	require.Len(t, data.Arrows, 2)

	dead := data.Arrows[0]
	assert.Equal(t, asce7.Dead, dead.Type)
	assert.Equal(t, Point{15, 6}, dead.Head)
	assert.InDelta(t, 3.0, dead.Magnitude, 1e-9)
	// largest load gets the full arrow: 15% of the 30 ft extent, pointing down
	assert.InDelta(t, 15.0, dead.Tail.X, 1e-9)
	assert.InDelta(t, 6+4.5, dead.Tail.Y, 1e-9)

	wind := data.Arrows[1]
	assert.Equal(t, "windward", wind.Label)
	assert.Equal(t, Point{0, 3}, wind.Head)
	assert.InDelta(t, -4.5*1.5/3.0, wind.Tail.X, 1e-9)
	assert.InDelta(t, 3.0, wind.Tail.Y, 1e-9)
}

func TestNewFrameDiagramYUp(t *testing.T) {
	m := &model.StructuralModel{
		ID: "y-up",
		Nodes: []model.Node{
			{ID: "1", X: 0, Y: 0, Z: 0},
			{ID: "2", X: 0, Y: 5, Z: 0},
		},
		Members: []model.Member{{ID: "c", StartNodeID: "1", EndNodeID: "2"}},
	}
	axes := model.AxisConvention{Vertical: model.AxisY, Width: model.AxisX}
	data := NewFrameDiagram("y-up", m, axes)
	require.Len(t, data.Members, 1)
	assert.Equal(t, Point{0, 5}, data.Members[0].To)
	assert.Empty(t, data.Arrows)
}

func TestExportFrameDiagram(t *testing.T) {
	data := NewFrameDiagram("portal", portalFrame(), model.DefaultAxes, sampleResults()...)
	dir := t.TempDir()

	path := filepath.Join(dir, "out", "frame.svg")
	require.NoError(t, ExportFrameDiagram(data, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// unknown extensions fall back to PNG
	require.NoError(t, ExportFrameDiagram(data, filepath.Join(dir, "frame")))
	_, err = os.Stat(filepath.Join(dir, "frame.png"))
	assert.NoError(t, err)

	err = ExportFrameDiagram(FrameDiagramData{Title: "empty"}, filepath.Join(dir, "empty.png"))
	assert.ErrorContains(t, err, "no members")
}

func TestDrawStoryProfile(t *testing.T) {
	out := DrawStoryProfile([]loads.Story{
		{Height: 10, Weight: 100, Force: 4},
		{Height: 20, Weight: 80, Force: 6.4},
	}, "ft", "kip")

	assert.Contains(t, out, "SEISMIC STORY FORCES")
	assert.Contains(t, out, "Fx (kip) by story")
	// top story first in the table
	top := strings.Index(out, "20.00")
	bottom := strings.Index(out, "10.00")
	require.Positive(t, top)
	assert.Less(t, top, bottom)

	single := DrawStoryProfile([]loads.Story{{Height: 6, Weight: 10, Force: 1}}, "m", "kN")
	assert.NotContains(t, single, "by story")
	assert.Contains(t, single, "1.000")

	assert.Contains(t, DrawStoryProfile(nil, "ft", "kip"), "no stories")
}

func TestDrawCombinationBars(t *testing.T) {
	combos := []loads.CombinedLoad{
		{Combination: asce7.LoadCombination{ID: "LRFD-1", Name: "1.4D"}, Magnitude: 10},
		{Combination: asce7.LoadCombination{ID: "LRFD-2", Name: "1.2D + 1.6L"}, Magnitude: 20},
	}
	out := DrawCombinationBars(combos, "kip")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 20, strings.Count(lines[0], "█"))
	assert.Equal(t, 40, strings.Count(lines[1], "█"))
	assert.Contains(t, lines[1], "governs")
	assert.NotContains(t, lines[0], "governs")

	assert.Contains(t, DrawCombinationBars(nil, "kip"), "no combinations")
}

func TestDrawSummaryBox(t *testing.T) {
	out := DrawSummaryBox("BASE SHEAR", []string{"V = 12.5 kip", "Cs = 0.083"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), l)
	}
	assert.Contains(t, lines[1], "BASE SHEAR")
}
