package mcp

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abaw1984/azload-sub000/internal/classifier"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// portalFrame is a single 30 ft wide, 6 ft tall portal frame
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
		Sections:  []model.Section{{ID: "W12", Name: "W12x26", Area: 7.65 / 144}},
		Materials: []model.Material{{ID: "A992", Density: 0.490}},
	}
}

// gableBuilding has frames at every bay line along Y
func gableBuilding(width, eave, ridge float64, bays []float64) *model.StructuralModel {
	m := &model.StructuralModel{ID: "gable", UnitsSystem: model.Imperial}
	y := 0.0
	lines := append([]float64{0}, bays...)
	for i, b := range lines {
		if i > 0 {
			y += b
		}
		p := func(s string) string { return s + "-" + string(rune('a'+i)) }
		m.Nodes = append(m.Nodes,
			model.Node{ID: p("base-l"), X: 0, Y: y, Z: 0},
			model.Node{ID: p("eave-l"), X: 0, Y: y, Z: eave},
			model.Node{ID: p("ridge"), X: width / 2, Y: y, Z: ridge},
			model.Node{ID: p("eave-r"), X: width, Y: y, Z: eave},
			model.Node{ID: p("base-r"), X: width, Y: y, Z: 0},
		)
		m.Members = append(m.Members,
			model.Member{ID: p("col-l"), StartNodeID: p("base-l"), EndNodeID: p("eave-l"), Type: model.TypeColumn},
			model.Member{ID: p("raf-l"), StartNodeID: p("eave-l"), EndNodeID: p("ridge"), Type: model.TypeRafter},
			model.Member{ID: p("raf-r"), StartNodeID: p("ridge"), EndNodeID: p("eave-r"), Type: model.TypeRafter},
			model.Member{ID: p("col-r"), StartNodeID: p("eave-r"), EndNodeID: p("base-r"), Type: model.TypeColumn},
		)
	}
	return m
}

type fakeClassifier struct {
	building    classifier.BuildingClassification
	tags        map[string]model.MemberTag
	err         error
	buildingErr error
}

func (f *fakeClassifier) ClassifyBuilding(ctx context.Context, m *model.StructuralModel) (classifier.BuildingClassification, error) {
	if f.err != nil {
		return classifier.Default, f.err
	}
	if f.buildingErr != nil {
		return classifier.Default, f.buildingErr
	}
	return f.building, nil
}

func (f *fakeClassifier) ClassifyMembers(ctx context.Context, m *model.StructuralModel) (map[string]model.MemberTag, error) {
	if f.err != nil {
		return map[string]model.MemberTag{}, f.err
	}
	return f.tags, nil
}

type recordingSink struct {
	mu      sync.Mutex
	entries []Override
}

func (s *recordingSink) RecordOverride(o Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, o)
	return nil
}

func issueCodes(issues []Issue) []string {
	codes := make([]string, 0, len(issues))
	for _, is := range issues {
		codes = append(codes, is.Code)
	}
	return codes
}

func TestNewUsesDefaultClassification(t *testing.T) {
	c := New(portalFrame(), Options{})
	st := c.State()

	assert.Equal(t, model.BuildingUnknown, st.BuildingType)
	assert.Zero(t, st.BuildingTypeConfidence)
	assert.Empty(t, st.MemberTags)
	assert.False(t, st.IsLocked)
	assert.Equal(t, 1, st.Version)

	assert.Equal(t, 30.0, st.Dimensions.BuildingWidth)
	assert.Equal(t, 0.0, st.Dimensions.BuildingLength)
	assert.Equal(t, 6.0, st.Dimensions.TotalHeight)
	assert.Equal(t, 6.0, st.Dimensions.EaveHeight)
	assert.Equal(t, RoofFlat, st.RoofType)
	assert.Equal(t, 1, st.Dimensions.FrameCount)

	assert.True(t, st.Validation.IsValid)
	assert.Contains(t, issueCodes(st.Validation.Warnings), CodeLowConfidence)
	assert.Contains(t, issueCodes(st.Validation.Warnings), CodeUnknownType)
}

func TestComputeDimensionsGable(t *testing.T) {
	m := gableBuilding(30, 6, 9, []float64{20, 25})
	d := ComputeDimensions(m, model.DefaultAxes, 0.01)

	assert.Equal(t, RoofGable, d.RoofType)
	assert.Equal(t, 30.0, d.BuildingWidth)
	assert.Equal(t, 45.0, d.BuildingLength)
	assert.Equal(t, 9.0, d.TotalHeight)
	assert.Equal(t, 6.0, d.EaveHeight)
	assert.Equal(t, 7.5, d.MeanRoofHeight)
	assert.InDelta(t, math.Atan(3.0/15.0)*180/math.Pi, d.RoofSlope, 1e-9)
	assert.Equal(t, 3, d.FrameCount)
	assert.Equal(t, []float64{20, 25}, d.BaySpacings)
	assert.Equal(t, 25.0, d.TypicalBaySpacing())
}

func TestComputeDimensionsMonoslope(t *testing.T) {
	m := &model.StructuralModel{
		ID: "mono",
		Nodes: []model.Node{
			{ID: "1", X: 0, Z: 0}, {ID: "2", X: 0, Z: 6},
			{ID: "3", X: 20, Z: 8}, {ID: "4", X: 20, Z: 0},
		},
		Members: []model.Member{
			{ID: "1", StartNodeID: "1", EndNodeID: "2"},
			{ID: "2", StartNodeID: "2", EndNodeID: "3"},
			{ID: "3", StartNodeID: "3", EndNodeID: "4"},
		},
	}
	d := ComputeDimensions(m, model.DefaultAxes, 0.01)

	assert.Equal(t, RoofMonoslope, d.RoofType)
	assert.Equal(t, 6.0, d.EaveHeight)
	assert.Equal(t, 8.0, d.TotalHeight)
	assert.InDelta(t, math.Atan(2.0/20.0)*180/math.Pi, d.RoofSlope, 1e-9)
}

func TestComputeDimensionsYUp(t *testing.T) {
	m := portalFrame()
	for i := range m.Nodes {
		m.Nodes[i].Y, m.Nodes[i].Z = m.Nodes[i].Z, m.Nodes[i].Y
	}
	d := ComputeDimensions(m, model.AxisConvention{Vertical: model.AxisY, Width: model.AxisX}, 0.01)
	assert.Equal(t, 6.0, d.TotalHeight)
	assert.Equal(t, 30.0, d.BuildingWidth)
}

func TestComputeDimensionsEmptyModel(t *testing.T) {
	d := ComputeDimensions(&model.StructuralModel{ID: "empty"}, model.DefaultAxes, 0.01)
	assert.Zero(t, d.TotalHeight)
	assert.Zero(t, d.FrameCount)
	assert.NotNil(t, d.BaySpacings)
}

func TestDimensionDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("dimensions ignore node and member order", prop.ForAll(
		func(width, eave, rise float64, bayCount int, seed int64) bool {
			bays := make([]float64, bayCount)
			for i := range bays {
				bays[i] = 15 + float64(i)
			}
			m := gableBuilding(width, eave, eave+rise, bays)
			want := ComputeDimensions(m, model.DefaultAxes, 0.01)

			r := rand.New(rand.NewSource(seed))
			r.Shuffle(len(m.Nodes), func(i, j int) { m.Nodes[i], m.Nodes[j] = m.Nodes[j], m.Nodes[i] })
			r.Shuffle(len(m.Members), func(i, j int) { m.Members[i], m.Members[j] = m.Members[j], m.Members[i] })
			got := ComputeDimensions(m, model.DefaultAxes, 0.01)

			return dimensionsEqual(want, got) && want.FrameCount == bayCount+1
		},
		gen.Float64Range(10, 200),
		gen.Float64Range(3, 40),
		gen.Float64Range(0, 10),
		gen.IntRange(0, 8),
		gen.Int64(),
	))

	properties.Property("repeated derivation is identical", prop.ForAll(
		func(width, eave float64) bool {
			m := gableBuilding(width, eave, eave, nil)
			a := ComputeDimensions(m, model.DefaultAxes, 0.01)
			b := ComputeDimensions(m, model.DefaultAxes, 0.01)
			return dimensionsEqual(a, b) && a.RoofType == RoofFlat
		},
		gen.Float64Range(1, 500),
		gen.Float64Range(1, 100),
	))

	properties.TestingRun(t)
}

func TestLockInvariant(t *testing.T) {
	c := New(portalFrame(), Options{})
	require.NoError(t, c.UpdateBuildingType(model.BuildingSingleGableHangar, true))
	require.NoError(t, c.Lock())

	before := c.State()
	overrides := len(c.Overrides())

	var locked *LockedStateError
	err := c.UpdateBuildingType(model.BuildingIndustrialWarehouse, true)
	assert.True(t, errors.As(err, &locked))

	err = c.UpdateMemberTag("2", model.TagMainFrameRafter, false)
	assert.True(t, errors.As(err, &locked))

	err = c.Reclassify(context.Background(), &fakeClassifier{building: classifier.BuildingClassification{BuildingType: model.BuildingSportsFacility, Confidence: 0.9}})
	assert.True(t, errors.As(err, &locked))

	assert.Equal(t, before, c.State())
	assert.Len(t, c.Overrides(), overrides+2)

	// locking again is a no-op
	require.NoError(t, c.Lock())
	assert.Equal(t, before, c.State())
	assert.Equal(t, before.Validation, c.Validate())
}

func TestValidationGate(t *testing.T) {
	m := portalFrame()
	m.Members = append(m.Members, model.Member{ID: "4", StartNodeID: "4", EndNodeID: "9", SectionID: "W12"})
	c := New(m, Options{})

	err := c.Lock()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, issueCodes(verr.Issues), CodeDanglingNode)
	assert.False(t, c.IsLocked())
	assert.Contains(t, err.Error(), "DANGLING_NODE")
}

func TestInvalidTagBlocksLock(t *testing.T) {
	c := New(portalFrame(), Options{})
	require.NoError(t, c.UpdateMemberTag("1", "NOT_A_TAG", true))

	v := c.Validate()
	assert.False(t, v.IsValid)
	assert.Contains(t, issueCodes(v.Errors), CodeInvalidTag)

	var verr *ValidationError
	require.True(t, errors.As(c.Lock(), &verr))

	require.NoError(t, c.UpdateMemberTag("1", model.TagMainFrameColumn, true))
	require.NoError(t, c.Lock())
	assert.True(t, c.IsLocked())
}

func TestValidationErrorsAndWarnings(t *testing.T) {
	t.Run("empty model", func(t *testing.T) {
		c := New(&model.StructuralModel{ID: "empty"}, Options{})
		assert.Contains(t, issueCodes(c.Validate().Errors), CodeEmptyModel)
	})

	t.Run("flat model has no height", func(t *testing.T) {
		m := portalFrame()
		for i := range m.Nodes {
			m.Nodes[i].Z = 0
		}
		c := New(m, Options{})
		assert.Contains(t, issueCodes(c.Validate().Errors), CodeInvalidHeight)
	})

	t.Run("unknown building type string", func(t *testing.T) {
		c := New(portalFrame(), Options{})
		require.NoError(t, c.UpdateBuildingType("IGLOO", true))
		assert.Contains(t, issueCodes(c.Validate().Errors), CodeInvalidType)
	})

	t.Run("confidence outside range", func(t *testing.T) {
		c := New(portalFrame(), Options{})
		err := c.Reclassify(context.Background(), &fakeClassifier{
			building: classifier.BuildingClassification{BuildingType: model.BuildingSingleGableHangar, Confidence: 1.5},
		})
		require.NoError(t, err)
		assert.Contains(t, issueCodes(c.Validate().Errors), CodeInvalidConfidence)
	})

	t.Run("crane members without crane load case", func(t *testing.T) {
		m := portalFrame()
		m.Members[1].Type = model.TypeCraneBeam
		c := New(m, Options{})
		assert.Contains(t, issueCodes(c.Validate().Warnings), CodeCraneNoLoadCase)

		m2 := portalFrame()
		m2.Members[1].Type = model.TypeCraneBeam
		m2.LoadCases = []model.LoadCase{{ID: "5", Type: "CRANE"}}
		assert.NotContains(t, issueCodes(New(m2, Options{}).Validate().Warnings), CodeCraneNoLoadCase)
	})

	t.Run("missing and unresolved sections", func(t *testing.T) {
		m := portalFrame()
		m.Members[0].SectionID = ""
		m.Members[1].SectionID = "W99"
		m.Members[2].MaterialID = "unobtainium"
		w := issueCodes(New(m, Options{}).Validate().Warnings)
		assert.Contains(t, w, CodeMissingSection)
		assert.Contains(t, w, CodeUnresolvedSection)
		assert.Contains(t, w, CodeUnresolvedMaterial)
	})

	t.Run("aspect ratio", func(t *testing.T) {
		m := gableBuilding(20, 6, 8, []float64{25, 25, 25, 25, 25})
		assert.Contains(t, issueCodes(New(m, Options{}).Validate().Warnings), CodeAspectRatio)
	})

	t.Run("high rise", func(t *testing.T) {
		m := portalFrame()
		m.Nodes[1].Z, m.Nodes[2].Z = 200, 200
		st := New(m, Options{}).State()
		assert.Contains(t, issueCodes(st.Validation.Warnings), CodeHighRise)
	})

	t.Run("threshold is configurable", func(t *testing.T) {
		c := New(portalFrame(), Options{LowConfidenceThreshold: 0.95})
		require.NoError(t, c.Reclassify(context.Background(), &fakeClassifier{
			building: classifier.BuildingClassification{BuildingType: model.BuildingSingleGableHangar, Confidence: 0.9},
		}))
		assert.Contains(t, issueCodes(c.Validate().Warnings), CodeLowConfidence)
	})
}

func TestAuditCompleteness(t *testing.T) {
	sink := &recordingSink{}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(portalFrame(), Options{Sink: sink, Clock: func() time.Time { return now }})

	require.NoError(t, c.UpdateBuildingType(model.BuildingSingleGableHangar, true))
	require.NoError(t, c.UpdateMemberTag("1", model.TagMainFrameColumn, false))
	assert.ErrorIs(t, c.UpdateMemberTag("missing", model.TagMainFrameColumn, true), ErrUnknownMember)
	require.NoError(t, c.UpdateMemberTag("1", model.TagCornerColumn, true))
	require.NoError(t, c.Lock())
	assert.Error(t, c.UpdateMemberTag("2", model.TagMainFrameRafter, true))

	entries := c.Overrides()
	require.Len(t, entries, 5)
	assert.Len(t, sink.entries, 5)
	assert.EqualValues(t, 5, c.OverrideTotal())

	assert.Equal(t, OverrideBuildingType, entries[0].Kind)
	assert.Equal(t, "UNKNOWN", entries[0].Before)
	assert.Equal(t, "SINGLE_GABLE_HANGAR", entries[0].After)

	assert.Equal(t, "", entries[1].Before)
	assert.Equal(t, "MAIN_FRAME_COLUMN", entries[1].After)
	assert.False(t, entries[1].Manual)

	assert.False(t, entries[2].Accepted)
	assert.Contains(t, entries[2].Reason, "unknown member")

	assert.Equal(t, "MAIN_FRAME_COLUMN", entries[3].Before)
	assert.Equal(t, "CORNER_COLUMN", entries[3].After)

	assert.False(t, entries[4].Accepted)
	assert.Contains(t, entries[4].Reason, "locked")

	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, now, e.Timestamp)
		assert.Equal(t, "portal", e.ModelID)
	}
}

func TestOverrideLogIsBounded(t *testing.T) {
	c := New(portalFrame(), Options{OverrideLogCapacity: 3})
	tags := []model.MemberTag{model.TagMainFrameColumn, model.TagCornerColumn, model.TagGableColumn, model.TagWindColumn, model.TagPostColumn}
	for _, tag := range tags {
		require.NoError(t, c.UpdateMemberTag("1", tag, true))
	}

	entries := c.Overrides()
	require.Len(t, entries, 3)
	assert.EqualValues(t, 5, c.OverrideTotal())
	assert.Equal(t, string(model.TagGableColumn), entries[0].After)
	assert.Equal(t, string(model.TagPostColumn), entries[2].After)
}

func TestLockedPreventsOverride(t *testing.T) {
	c := New(portalFrame(), Options{})
	require.NoError(t, c.UpdateMemberTag("1", model.TagMainFrameColumn, true))
	require.NoError(t, c.Lock())
	version := c.Version()

	err := c.UpdateMemberTag("1", model.TagCraneBeam, true)
	var locked *LockedStateError
	require.True(t, errors.As(err, &locked))

	assert.Equal(t, model.TagMainFrameColumn, c.State().MemberTags["1"])
	assert.Equal(t, version, c.Version())

	entries := c.Overrides()
	last := entries[len(entries)-1]
	assert.False(t, last.Accepted)
	assert.Equal(t, "MAIN_FRAME_COLUMN", last.Before)
	assert.Equal(t, "CRANE_BEAM", last.After)
}

func TestClassifierFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := InitializeFromModel(context.Background(), portalFrame(), classifier.NewHTTPClassifier(srv.URL, time.Second), Options{})
	st := c.State()
	assert.Equal(t, model.BuildingUnknown, st.BuildingType)
	assert.Zero(t, st.BuildingTypeConfidence)
	assert.Empty(t, st.MemberTags)
	assert.Contains(t, issueCodes(st.Validation.Warnings), CodeLowConfidence)
	assert.True(t, st.Validation.IsValid)
}

func TestClassifierTimeoutIsBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	start := time.Now()
	c := InitializeFromModel(context.Background(), portalFrame(),
		classifier.NewHTTPClassifier(srv.URL, time.Minute), Options{ClassifierTimeout: 50 * time.Millisecond})
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, model.BuildingUnknown, c.State().BuildingType)
}

func TestReclassifyKeepsManualOverrides(t *testing.T) {
	c := New(portalFrame(), Options{})
	require.NoError(t, c.UpdateMemberTag("1", model.TagCornerColumn, true))

	fc := &fakeClassifier{
		building: classifier.BuildingClassification{BuildingType: model.BuildingSingleGableHangar, Confidence: 0.8},
		tags: map[string]model.MemberTag{
			"1":     model.TagMainFrameColumn,
			"2":     model.TagMainFrameRafter,
			"ghost": model.TagCraneBeam,
		},
	}
	require.NoError(t, c.Reclassify(context.Background(), fc))

	st := c.State()
	assert.Equal(t, model.BuildingSingleGableHangar, st.BuildingType)
	assert.Equal(t, 0.8, st.BuildingTypeConfidence)
	assert.Equal(t, model.TagCornerColumn, st.MemberTags["1"])
	assert.Equal(t, model.TagMainFrameRafter, st.MemberTags["2"])
	assert.NotContains(t, st.MemberTags, "ghost")

	require.NoError(t, c.UpdateBuildingType(model.BuildingIndustrialWarehouse, true))
	require.NoError(t, c.Reclassify(context.Background(), fc))
	assert.Equal(t, model.BuildingIndustrialWarehouse, c.State().BuildingType)
}

func TestReclassifyOutageKeepsEarlierAnswers(t *testing.T) {
	good := &fakeClassifier{
		building: classifier.BuildingClassification{BuildingType: model.BuildingIndustrialWarehouse, Confidence: 0.9},
		tags:     map[string]model.MemberTag{"1": model.TagMainFrameColumn},
	}
	c := InitializeFromModel(context.Background(), portalFrame(), good, Options{})
	require.Equal(t, model.BuildingIndustrialWarehouse, c.State().BuildingType)

	// building call down, member call answers
	partial := &fakeClassifier{
		buildingErr: errors.New("service restarting"),
		tags:        map[string]model.MemberTag{"2": model.TagMainFrameRafter},
	}
	err := c.Reclassify(context.Background(), partial)
	var ue *classifier.UnavailableError
	require.ErrorAs(t, err, &ue)

	st := c.State()
	assert.Equal(t, model.BuildingIndustrialWarehouse, st.BuildingType)
	assert.Equal(t, 0.9, st.BuildingTypeConfidence)
	assert.Equal(t, model.TagMainFrameColumn, st.MemberTags["1"])
	assert.Equal(t, model.TagMainFrameRafter, st.MemberTags["2"])

	// both calls down: nothing changes, not even the version
	version := c.Version()
	require.Error(t, c.Reclassify(context.Background(), &fakeClassifier{err: errors.New("boom")}))
	assert.Equal(t, version, c.Version())
	assert.Equal(t, model.BuildingIndustrialWarehouse, c.State().BuildingType)
	assert.Equal(t, 0.9, c.State().BuildingTypeConfidence)
}

func TestDerivedClassification(t *testing.T) {
	c := New(portalFrame(), Options{})
	st := c.State()
	assert.Equal(t, "LOW_RISE", string(st.HeightClassification))
	assert.Equal(t, "MOMENT", string(st.FrameSystem))
	assert.Equal(t, RigidityFlexible, st.StructuralRigidity)

	m := gableBuilding(30, 6, 9, []float64{20, 20})
	m.Members = append(m.Members, model.Member{ID: "br", StartNodeID: "base-l-a", EndNodeID: "eave-l-b", Type: model.TypeBrace})
	st = New(m, Options{}).State()
	assert.Equal(t, "BRACED", string(st.FrameSystem))
	assert.Equal(t, RigidityRigid, st.StructuralRigidity)
}

func TestSessionSnapshots(t *testing.T) {
	s := NewSession(Options{})
	_, err := s.LockedSnapshot()
	assert.ErrorIs(t, err, ErrNoModel)

	c := s.Load(portalFrame())
	_, err = s.LockedSnapshot()
	assert.ErrorIs(t, err, ErrNotLocked)

	require.NoError(t, c.Lock())
	snap, err := s.LockedSnapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Same(t, c.Model(), snap.Model())
	require.NoError(t, s.Verify(snap))

	// snapshots are deep copies
	snap.MemberTags["1"] = model.TagCraneBeam
	assert.NotContains(t, c.State().MemberTags, "1")

	s.Load(portalFrame())
	assert.ErrorIs(t, s.Verify(snap), ErrStaleSnapshot)
}

func TestSessionRejectsInvalidLockedSnapshot(t *testing.T) {
	s := NewSession(Options{})
	m := portalFrame()
	m.Members = append(m.Members, model.Member{ID: "4", StartNodeID: "4", EndNodeID: "9"})
	s.Load(m)

	_, err := s.LockedSnapshot()
	assert.ErrorIs(t, err, ErrNotLocked)
}

func TestReclassifyAsync(t *testing.T) {
	s := NewSession(Options{})
	s.Load(portalFrame())

	done := s.ReclassifyAsync(context.Background(), &fakeClassifier{
		building: classifier.BuildingClassification{BuildingType: model.BuildingSingleGableHangar, Confidence: 0.7},
	})
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reclassification did not finish")
	}

	c, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, model.BuildingSingleGableHangar, c.State().BuildingType)

	fail := s.ReclassifyAsync(context.Background(), &fakeClassifier{err: errors.New("boom")})
	var ue *classifier.UnavailableError
	assert.True(t, errors.As(<-fail, &ue))
}

func TestSerializeRoundTrip(t *testing.T) {
	c := New(portalFrame(), Options{})
	require.NoError(t, c.UpdateBuildingType(model.BuildingSingleGableHangar, true))
	require.NoError(t, c.UpdateMemberTag("1", model.TagMainFrameColumn, true))
	require.NoError(t, c.Lock())

	data, err := c.Serialize()
	require.NoError(t, err)

	restored, err := Deserialize(data, portalFrame(), Options{})
	require.NoError(t, err)

	want, got := c.State(), restored.State()
	assert.Equal(t, want.BuildingType, got.BuildingType)
	assert.Equal(t, want.MemberTags, got.MemberTags)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.Dimensions, got.Dimensions)
	assert.True(t, got.IsLocked)
	assert.Len(t, restored.Overrides(), 2)
}

func TestDeserializeRejectsMismatches(t *testing.T) {
	data, err := New(portalFrame(), Options{}).Serialize()
	require.NoError(t, err)

	other := portalFrame()
	other.ID = "other"
	_, err = Deserialize(data, other, Options{})
	assert.ErrorIs(t, err, ErrModelMismatch)

	moved := portalFrame()
	moved.Nodes[1].Z, moved.Nodes[2].Z = 8, 8
	_, err = Deserialize(data, moved, Options{})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Deserialize([]byte("{"), portalFrame(), Options{})
	assert.Error(t, err)
}

func TestExportDelegates(t *testing.T) {
	c := New(portalFrame(), Options{})
	require.NoError(t, c.UpdateMemberTag("2", model.TagMainFrameRafter, true))

	staad, err := c.ExportToSTAAD()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(staad, "STAAD SPACE"))
	assert.Contains(t, staad, "_MAIN_FRAME_RAFTER")

	sap, err := c.ExportToSAP2000()
	require.NoError(t, err)
	assert.Contains(t, sap, `TABLE:  "JOINT COORDINATES"`)
}

func TestConcurrentOverridesAreSerialized(t *testing.T) {
	c := New(portalFrame(), Options{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tag := model.TagMainFrameColumn
			if i%2 == 0 {
				tag = model.TagCornerColumn
			}
			_ = c.UpdateMemberTag("1", tag, true)
			_ = c.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 51, c.Version())
	assert.Len(t, c.Overrides(), 50)
}
