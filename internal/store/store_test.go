package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/loads"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
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
			{ID: "1", StartNodeID: "1", EndNodeID: "2", Type: model.TypeColumn, SectionID: "W12", MaterialID: "A992"},
			{ID: "2", StartNodeID: "2", EndNodeID: "3", Type: model.TypeBeam, SectionID: "W12", MaterialID: "A992"},
			{ID: "3", StartNodeID: "3", EndNodeID: "4", Type: model.TypeColumn, SectionID: "W12", MaterialID: "A992"},
		},
		Sections:  []model.Section{{ID: "W12", Area: 7.65 / 144}},
		Materials: []model.Material{{ID: "A992", Density: 0.490}},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "azload.db"), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn, driver, source string
	}{
		{"postgres://u:p@localhost/azload", "postgres", "postgres://u:p@localhost/azload"},
		{"postgresql://localhost/azload", "postgres", "postgresql://localhost/azload"},
		{"sqlite://data/azload.db", "sqlite", "data/azload.db"},
		{"azload.db", "sqlite", "azload.db"},
		{":memory:", "sqlite", ":memory:"},
	}
	for _, tt := range tests {
		driver, source := ParseDSN(tt.dsn)
		assert.Equal(t, tt.driver, driver, tt.dsn)
		assert.Equal(t, tt.source, source, tt.dsn)
	}
}

func TestMCPRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := mcp.New(portalFrame(), mcp.Options{Sink: s})
	require.NoError(t, c.UpdateBuildingType(model.BuildingSingleGableHangar, true))
	require.NoError(t, c.UpdateMemberTag("1", model.TagMainFrameColumn, true))
	require.NoError(t, c.Lock())
	require.NoError(t, s.SaveMCP(ctx, c))

	rec, err := s.LoadMCPRecord(ctx, "portal")
	require.NoError(t, err)
	assert.Equal(t, c.Version(), rec.Version)
	assert.True(t, rec.Locked)
	assert.False(t, rec.SavedAt.IsZero())

	restored, err := s.RestoreMCP(ctx, portalFrame(), mcp.Options{})
	require.NoError(t, err)
	assert.Equal(t, c.State().BuildingType, restored.State().BuildingType)
	assert.Equal(t, c.State().MemberTags, restored.State().MemberTags)
	assert.True(t, restored.IsLocked())
}

func TestSaveMCPUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := mcp.New(portalFrame(), mcp.Options{})
	require.NoError(t, s.SaveMCP(ctx, c))
	require.NoError(t, c.UpdateBuildingType(model.BuildingCarShedCanopy, true))
	require.NoError(t, s.SaveMCP(ctx, c))

	rec, err := s.LoadMCPRecord(ctx, "portal")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Version)
}

func TestLoadMissingRecord(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadMCPRecord(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOverridesAreRecordedThroughSink(t *testing.T) {
	s := openTestStore(t)
	c := mcp.New(portalFrame(), mcp.Options{Sink: s})

	require.NoError(t, c.UpdateMemberTag("2", model.TagMainFrameRafter, true))
	require.NoError(t, c.Lock())
	err := c.UpdateMemberTag("3", model.TagMainFrameColumn, true)
	var locked *mcp.LockedStateError
	require.ErrorAs(t, err, &locked)

	got, err := s.Overrides(context.Background(), "portal")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Accepted)
	assert.Equal(t, mcp.OverrideMemberTag, got[0].Kind)
	assert.Equal(t, "2", got[0].Target)
	assert.False(t, got[1].Accepted)
	assert.Equal(t, c.Overrides()[1].ID, got[1].ID)
}

func TestResultsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := &loads.Result{
		LoadType:   asce7.Dead,
		MCPVersion: 3,
		Loads: []loads.Load{{
			ID: "D-1", Type: asce7.Dead, TargetID: "2", Target: loads.TargetMember,
			Direction: model.Vec3{Z: -1}, Magnitude: 0.1, Distribution: loads.Uniform, Length: 30,
		}},
		Summary:    loads.Summary{TotalForce: model.Vec3{Z: -3}, LoadCount: 1},
		Parameters: loads.DeadParameters{SelfWeightFactor: 1},
		Warnings:   []string{},
	}
	runID, err := s.SaveResults(ctx, "portal", []*loads.Result{res, nil})
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	got, err := s.Results(ctx, "portal")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, runID, got[0].RunID)
	assert.Equal(t, 3, got[0].MCPVersion)
	assert.Equal(t, asce7.Dead, got[0].Result.LoadType)
	assert.Equal(t, res.Loads, got[0].Result.Loads)
	assert.Nil(t, got[0].Result.Parameters)
	assert.WithinDuration(t, time.Now(), got[0].CreatedAt, time.Minute)
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())

	err := s.RecordOverride(mcp.Override{ID: "x", ModelID: "portal"})
	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "record_override", unavailable.Op)
}
