package mcp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/classifier"
	"github.com/Abaw1984/azload-sub000/internal/exchange"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// State is the authoritative derived view of a model
type State struct {
	ModelID                string                     `json:"modelId"`
	BuildingType           model.BuildingType         `json:"buildingType"`
	BuildingTypeConfidence float64                    `json:"buildingTypeConfidence"`
	UnitsSystem            model.UnitsSystem          `json:"unitsSystem"`
	Dimensions             Dimensions                 `json:"dimensions"`
	MemberTags             map[string]model.MemberTag `json:"memberTags"`
	StructuralRigidity     Rigidity                   `json:"structuralRigidity"`
	HeightClassification   asce7.HeightClass          `json:"heightClassification"`
	RoofType               RoofType                   `json:"roofType"`
	FrameSystem            asce7.FrameSystem          `json:"frameSystem"`
	IsLocked               bool                       `json:"isLocked"`
	LockedAt               *time.Time                 `json:"lockedAt,omitempty"`
	Validation             Validation                 `json:"validation"`
	Version                int                        `json:"version"`
}

func (s State) clone() State {
	c := s
	c.MemberTags = maps.Clone(s.MemberTags)
	if c.MemberTags == nil {
		c.MemberTags = map[string]model.MemberTag{}
	}
	c.Dimensions.BaySpacings = append([]float64{}, s.Dimensions.BaySpacings...)
	c.Validation = s.Validation.clone()
	if s.LockedAt != nil {
		t := *s.LockedAt
		c.LockedAt = &t
	}
	return c
}

// MCP is the Master Control Point: the single authoritative record of a
// model's classification, dimensions, tags and validation. Mutations are
// serialized; once locked the state never changes.
type MCP struct {
	mu sync.RWMutex

	model *model.StructuralModel
	idx   *model.Index
	opts  Options
	tol   float64

	state      State
	generation uint64
	manualType bool
	manualTags map[string]bool

	overrides *OverrideLog
	logger    *slog.Logger
}

// New builds an MCP with the default classification (UNKNOWN, 0, tags
// carried on the parsed members) and runs a first validation pass.
func New(m *model.StructuralModel, opts Options) *MCP {
	opts = opts.withDefaults()
	c := &MCP{
		model:      m,
		idx:        model.NewIndex(m),
		opts:       opts,
		tol:        opts.tolerance(m),
		manualTags: map[string]bool{},
		overrides:  NewOverrideLog(opts.OverrideLogCapacity),
		logger:     opts.Logger.With("model_id", m.ID),
	}

	tags := map[string]model.MemberTag{}
	for _, mb := range m.Members {
		if mb.Tag != "" {
			tags[mb.ID] = mb.Tag
		}
	}

	c.state = State{
		ModelID:                m.ID,
		BuildingType:           classifier.Default.BuildingType,
		BuildingTypeConfidence: classifier.Default.Confidence,
		UnitsSystem:            m.UnitsSystem,
		Dimensions:             ComputeDimensions(m, opts.Axes, c.tol),
		MemberTags:             tags,
		Version:                1,
	}
	c.refresh()

	c.logger.Info("mcp initialized",
		"building_type", c.state.BuildingType,
		"roof_type", c.state.RoofType,
		"validation", c.state.Validation.Summary(),
	)
	return c
}

// InitializeFromModel builds an MCP and asks the classifier for a building
// type and member tags. A failing classifier leaves the default
// classification in place.
func InitializeFromModel(ctx context.Context, m *model.StructuralModel, cl classifier.Classifier, opts Options) *MCP {
	c := New(m, opts)
	if err := c.Reclassify(ctx, cl); err != nil {
		c.logger.Warn("classification unavailable, using defaults", "error", err)
	}
	return c
}

// refresh re-derives classification and re-validates. Callers hold mu.
func (c *MCP) refresh() {
	d := c.state.Dimensions
	cl := deriveClassification(c.model, c.idx, c.opts.Axes, c.state.BuildingType, c.state.MemberTags, d)
	c.state.RoofType = d.RoofType
	c.state.HeightClassification = cl.height
	c.state.FrameSystem = cl.frame
	c.state.StructuralRigidity = cl.rigidity
	c.state.Validation = validate(c.model, c.idx, &c.state, c.opts.LowConfidenceThreshold)
}

// Reclassify runs the classifier under the configured timeout and applies
// the answers it gets. Manual overrides are kept. A call that fails leaves
// the current classification in place; the failure is returned for logging
// only.
func (c *MCP) Reclassify(ctx context.Context, cl classifier.Classifier) error {
	if c.IsLocked() {
		return &LockedStateError{Operation: "reclassify"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.ClassifierTimeout)
	defer cancel()

	res, clErr := classifier.Classify(ctx, cl, c.model)
	if clErr != nil {
		var ue *classifier.UnavailableError
		op := "classify"
		if errors.As(clErr, &ue) {
			op = ue.Op
		}
		c.opts.Metrics.RecordClassifierFallback(op)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.IsLocked {
		return &LockedStateError{Operation: "reclassify"}
	}

	if !res.BuildingAnswered && !res.TagsAnswered {
		return clErr
	}

	if res.BuildingAnswered && !c.manualType {
		c.state.BuildingType = res.Building.BuildingType
		c.state.BuildingTypeConfidence = res.Building.Confidence
	}
	for id, tag := range res.Tags {
		if _, ok := c.idx.Member(id); !ok || c.manualTags[id] {
			continue
		}
		c.state.MemberTags[id] = tag
	}
	c.state.Version++
	c.refresh()

	c.logger.Info("mcp classified",
		"building_type", c.state.BuildingType,
		"confidence", c.state.BuildingTypeConfidence,
		"tags", len(res.Tags),
		"validation", c.state.Validation.Summary(),
	)
	return clErr
}

// UpdateBuildingType overrides the building type. Every call, accepted or
// not, is recorded in the override log.
func (c *MCP) UpdateBuildingType(bt model.BuildingType, manual bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Override{
		Kind:   OverrideBuildingType,
		Before: string(c.state.BuildingType),
		After:  string(bt),
		Manual: manual,
	}

	if c.state.IsLocked {
		err := &LockedStateError{Operation: "update building type"}
		c.record(entry, err)
		return err
	}

	c.state.BuildingType = bt
	if manual {
		c.manualType = true
		c.state.BuildingTypeConfidence = 1
	}
	c.state.Version++
	c.refresh()
	c.record(entry, nil)
	return nil
}

// UpdateMemberTag overrides a member's tag. Tags outside the enumeration are
// accepted here and reported by validation.
func (c *MCP) UpdateMemberTag(memberID string, tag model.MemberTag, manual bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Override{
		Kind:   OverrideMemberTag,
		Target: memberID,
		Before: string(c.state.MemberTags[memberID]),
		After:  string(tag),
		Manual: manual,
	}

	if c.state.IsLocked {
		err := &LockedStateError{Operation: "update member tag"}
		c.record(entry, err)
		return err
	}
	if _, ok := c.idx.Member(memberID); !ok {
		c.record(entry, ErrUnknownMember)
		return ErrUnknownMember
	}

	c.state.MemberTags[memberID] = tag
	if manual {
		c.manualTags[memberID] = true
	}
	c.state.Version++
	c.refresh()
	c.record(entry, nil)
	return nil
}

// record appends one audit entry and forwards it to the sink. Callers hold mu.
func (c *MCP) record(o Override, err error) {
	o.ID = newOverrideID()
	o.Timestamp = c.opts.Clock()
	o.ModelID = c.state.ModelID
	o.Version = c.state.Version
	o.Accepted = err == nil
	if err != nil {
		o.Reason = err.Error()
	}
	c.overrides.Append(o)
	c.opts.Metrics.RecordOverride(string(o.Kind), o.Accepted)

	if c.opts.Sink != nil {
		if serr := c.opts.Sink.RecordOverride(o); serr != nil {
			c.logger.Warn("override sink failed", "override_id", o.ID, "error", serr)
		}
	}
}

// Validate re-runs validation. A locked MCP returns its stored result.
func (c *MCP) Validate() Validation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsLocked {
		c.refresh()
	}
	return c.state.Validation.clone()
}

// Lock freezes the MCP after a final validation pass. Locking a locked MCP
// is a no-op.
func (c *MCP) Lock() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsLocked {
		c.opts.Metrics.RecordLock("already_locked")
		return nil
	}

	c.refresh()
	if !c.state.Validation.IsValid {
		c.opts.Metrics.RecordLock("invalid")
		c.logger.Warn("mcp lock refused", "validation", c.state.Validation.Summary())
		return &ValidationError{Issues: append([]Issue{}, c.state.Validation.Errors...)}
	}

	now := c.opts.Clock()
	c.state.IsLocked = true
	c.state.LockedAt = &now
	c.opts.Metrics.RecordLock("locked")
	c.logger.Info("mcp locked", "version", c.state.Version)
	return nil
}

// IsLocked reports whether the MCP has been locked
func (c *MCP) IsLocked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.IsLocked
}

// Version is incremented by every accepted change
func (c *MCP) Version() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Version
}

// ModelID of the model this MCP describes
func (c *MCP) ModelID() string { return c.model.ID }

// Model returns the immutable model. Callers must not modify it.
func (c *MCP) Model() *model.StructuralModel { return c.model }

// Axes is the axis convention dimensions were derived with
func (c *MCP) Axes() model.AxisConvention { return c.opts.Axes }

// Overrides returns the retained audit entries, oldest first
func (c *MCP) Overrides() []Override { return c.overrides.Entries() }

// OverrideTotal counts every override ever recorded
func (c *MCP) OverrideTotal() int64 { return c.overrides.Total() }

// State returns a deep copy of the current state
func (c *MCP) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Snapshot returns an immutable copy stamped with version and generation
func (c *MCP) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *MCP) snapshotLocked() *Snapshot {
	return &Snapshot{
		State:          c.state.clone(),
		Generation:     c.generation,
		Axes:           c.opts.Axes,
		Tolerance:      c.tol,
		MLTrainingData: TrainingData{UserOverrides: c.overrides.Entries()},
		model:          c.model,
	}
}

// lockedSnapshot checks locked and valid and copies under one read lock
func (c *MCP) lockedSnapshot() (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.state.IsLocked {
		return nil, ErrNotLocked
	}
	if !c.state.Validation.IsValid {
		return nil, ErrInvalid
	}
	return c.snapshotLocked(), nil
}

// ExportToSTAAD renders the model with the MCP's member tags as STAAD input
func (c *MCP) ExportToSTAAD() (string, error) {
	var buf bytes.Buffer
	if err := exchange.WriteSTAAD(&buf, c.model, c.State().MemberTags); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExportToSAP2000 renders the model with the MCP's member tags as a .s2k file
func (c *MCP) ExportToSAP2000() (string, error) {
	var buf bytes.Buffer
	if err := exchange.WriteSAP2000(&buf, c.model, c.State().MemberTags); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TrainingData carries user corrections for classifier retraining
type TrainingData struct {
	UserOverrides []Override `json:"userOverrides"`
}

// Snapshot is a read-only view of an MCP at one version
type Snapshot struct {
	State
	Generation     uint64               `json:"generation"`
	Axes           model.AxisConvention `json:"axes"`
	Tolerance      float64              `json:"tolerance"`
	MLTrainingData TrainingData         `json:"mlTrainingData"`

	model *model.StructuralModel
}

// Model returns the immutable model the snapshot describes
func (s *Snapshot) Model() *model.StructuralModel { return s.model }

// Tag returns the MCP tag for a member, or ""
func (s *Snapshot) Tag(memberID string) model.MemberTag { return s.MemberTags[memberID] }
