package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/Abaw1984/azload-sub000/internal/model"
)

// SchemaVersion of the persisted MCP record
const SchemaVersion = 1

type record struct {
	SchemaVersion int                  `json:"schemaVersion"`
	State         State                `json:"state"`
	Axes          model.AxisConvention `json:"axes"`
	ManualType    bool                 `json:"manualType,omitempty"`
	ManualTags    []string             `json:"manualTags,omitempty"`
	Overrides     []Override           `json:"overrides"`
	OverrideTotal int64                `json:"overrideTotal"`
}

// Serialize encodes the MCP state and retained override log as JSON
func (c *MCP) Serialize() ([]byte, error) {
	c.mu.RLock()
	rec := record{
		SchemaVersion: SchemaVersion,
		State:         c.state.clone(),
		Axes:          c.opts.Axes,
		ManualType:    c.manualType,
		ManualTags:    sortedKeys(c.manualTags),
		Overrides:     c.overrides.Entries(),
		OverrideTotal: c.overrides.Total(),
	}
	c.mu.RUnlock()

	return json.Marshal(rec)
}

// Deserialize restores an MCP against its model. The record is rejected
// when it names another model or when its stored dimensions differ from
// those recomputed from the model's nodes.
func Deserialize(data []byte, m *model.StructuralModel, opts Options) (*MCP, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode mcp record: %w", err)
	}
	if rec.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported mcp schema version %d", rec.SchemaVersion)
	}
	if rec.State.ModelID != m.ID {
		return nil, fmt.Errorf("%w: record %q, model %q", ErrModelMismatch, rec.State.ModelID, m.ID)
	}

	if rec.Axes.Vertical != "" {
		opts.Axes = rec.Axes
	}
	c := New(m, opts)

	if !dimensionsEqual(c.state.Dimensions, rec.State.Dimensions) {
		return nil, fmt.Errorf("%w for model %q", ErrDimensionMismatch, m.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.BuildingType = rec.State.BuildingType
	c.state.BuildingTypeConfidence = rec.State.BuildingTypeConfidence
	c.state.MemberTags = map[string]model.MemberTag{}
	for id, tag := range rec.State.MemberTags {
		if _, ok := c.idx.Member(id); ok {
			c.state.MemberTags[id] = tag
		}
	}
	c.state.Version = rec.State.Version
	c.manualType = rec.ManualType
	for _, id := range rec.ManualTags {
		c.manualTags[id] = true
	}
	c.overrides.restore(rec.Overrides, rec.OverrideTotal)
	c.refresh()

	if rec.State.IsLocked {
		if !c.state.Validation.IsValid {
			return nil, &ValidationError{Issues: c.state.Validation.Errors}
		}
		c.state.IsLocked = true
		c.state.LockedAt = rec.State.LockedAt
	}
	return c, nil
}
