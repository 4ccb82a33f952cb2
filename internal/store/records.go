package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Abaw1984/azload-sub000/internal/loads"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// MCPRecord is a stored MCP. Data is the output of mcp.Serialize.
type MCPRecord struct {
	ModelID string    `db:"model_id" json:"modelId"`
	Version int       `db:"version" json:"version"`
	Locked  bool      `db:"locked" json:"locked"`
	Data    string    `db:"data" json:"-"`
	SavedAt time.Time `db:"-" json:"savedAt"`
}

type mcpRow struct {
	MCPRecord
	SavedAt string `db:"saved_at"`
}

// SaveMCP upserts the serialized MCP under its model id
func (s *Store) SaveMCP(ctx context.Context, c *mcp.MCP) error {
	data, err := c.Serialize()
	if err != nil {
		return fmt.Errorf("serializing mcp: %w", err)
	}
	st := c.State()

	const query = `
		INSERT INTO mcp_records (model_id, version, locked, data, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (model_id) DO UPDATE SET
			version = excluded.version,
			locked = excluded.locked,
			data = excluded.data,
			saved_at = excluded.saved_at`

	_, err = s.db.ExecContext(ctx, s.db.Rebind(query),
		st.ModelID, st.Version, st.IsLocked, string(data), timestamp(time.Now()),
	)
	if err != nil {
		return s.fail("save_mcp", err)
	}
	s.logger.Debug("mcp saved", "model_id", st.ModelID, "version", st.Version)
	return nil
}

// LoadMCPRecord returns the stored record for a model, or ErrNotFound
func (s *Store) LoadMCPRecord(ctx context.Context, modelID string) (MCPRecord, error) {
	const query = `
		SELECT model_id, version, locked, data, saved_at
		FROM mcp_records
		WHERE model_id = ?`

	var row mcpRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(query), modelID); err != nil {
		return MCPRecord{}, s.fail("load_mcp", err)
	}
	rec := row.MCPRecord
	rec.SavedAt = parseTimestamp(row.SavedAt)
	return rec, nil
}

// RestoreMCP loads the stored record for m and deserializes it against m
func (s *Store) RestoreMCP(ctx context.Context, m *model.StructuralModel, opts mcp.Options) (*mcp.MCP, error) {
	rec, err := s.LoadMCPRecord(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return mcp.Deserialize([]byte(rec.Data), m, opts)
}

type overrideRow struct {
	ID         string `db:"id"`
	ModelID    string `db:"model_id"`
	Kind       string `db:"kind"`
	Target     string `db:"target"`
	Before     string `db:"before_value"`
	After      string `db:"after_value"`
	Manual     bool   `db:"manual"`
	Accepted   bool   `db:"accepted"`
	Reason     string `db:"reason"`
	Version    int    `db:"version"`
	RecordedAt string `db:"recorded_at"`
}

// RecordOverride appends an audit entry. It satisfies mcp.OverrideSink.
func (s *Store) RecordOverride(o mcp.Override) error {
	ctx, cancel := context.WithTimeout(context.Background(), SinkTimeout)
	defer cancel()

	const query = `
		INSERT INTO overrides (
			id, model_id, kind, target, before_value, after_value,
			manual, accepted, reason, version, recorded_at
		) VALUES (
			:id, :model_id, :kind, :target, :before_value, :after_value,
			:manual, :accepted, :reason, :version, :recorded_at
		)`

	_, err := s.db.NamedExecContext(ctx, query, overrideRow{
		ID:         o.ID,
		ModelID:    o.ModelID,
		Kind:       string(o.Kind),
		Target:     o.Target,
		Before:     o.Before,
		After:      o.After,
		Manual:     o.Manual,
		Accepted:   o.Accepted,
		Reason:     o.Reason,
		Version:    o.Version,
		RecordedAt: timestamp(o.Timestamp),
	})
	if err != nil {
		return s.fail("record_override", err)
	}
	return nil
}

// Overrides returns every stored audit entry for a model, oldest first
func (s *Store) Overrides(ctx context.Context, modelID string) ([]mcp.Override, error) {
	const query = `
		SELECT id, model_id, kind, target, before_value, after_value,
			manual, accepted, reason, version, recorded_at
		FROM overrides
		WHERE model_id = ?
		ORDER BY recorded_at, id`

	var rows []overrideRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), modelID); err != nil {
		return nil, s.fail("list_overrides", err)
	}
	out := make([]mcp.Override, 0, len(rows))
	for _, r := range rows {
		out = append(out, mcp.Override{
			ID:        r.ID,
			Timestamp: parseTimestamp(r.RecordedAt),
			ModelID:   r.ModelID,
			Kind:      mcp.OverrideKind(r.Kind),
			Target:    r.Target,
			Before:    r.Before,
			After:     r.After,
			Manual:    r.Manual,
			Accepted:  r.Accepted,
			Reason:    r.Reason,
			Version:   r.Version,
		})
	}
	return out, nil
}

// StoredResult is one persisted load result
type StoredResult struct {
	ID         string        `json:"id"`
	RunID      string        `json:"runId"`
	ModelID    string        `json:"modelId"`
	MCPVersion int           `json:"mcpVersion"`
	CreatedAt  time.Time     `json:"createdAt"`
	Result     *loads.Result `json:"result"`
}

type resultRow struct {
	ID         string `db:"id"`
	RunID      string `db:"run_id"`
	ModelID    string `db:"model_id"`
	MCPVersion int    `db:"mcp_version"`
	LoadType   string `db:"load_type"`
	Data       string `db:"data"`
	CreatedAt  string `db:"created_at"`
}

// SaveResults stores the results of one engine run in a single transaction
// and returns the run id
func (s *Store) SaveResults(ctx context.Context, modelID string, results []*loads.Result) (string, error) {
	runID := uuid.New().String()
	now := timestamp(time.Now())

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", s.fail("save_results", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO load_results (id, run_id, model_id, mcp_version, load_type, data, created_at)
		VALUES (:id, :run_id, :model_id, :mcp_version, :load_type, :data, :created_at)`

	for _, r := range results {
		if r == nil {
			continue
		}
		data, err := json.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("encoding %s result: %w", r.LoadType, err)
		}
		_, err = tx.NamedExecContext(ctx, query, resultRow{
			ID:         uuid.New().String(),
			RunID:      runID,
			ModelID:    modelID,
			MCPVersion: r.MCPVersion,
			LoadType:   string(r.LoadType),
			Data:       string(data),
			CreatedAt:  now,
		})
		if err != nil {
			return "", s.fail("save_results", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", s.fail("save_results", err)
	}
	return runID, nil
}

// Results returns the stored results for a model, newest run first.
// Results decode with their Parameters left nil.
func (s *Store) Results(ctx context.Context, modelID string) ([]StoredResult, error) {
	const query = `
		SELECT id, run_id, model_id, mcp_version, load_type, data, created_at
		FROM load_results
		WHERE model_id = ?
		ORDER BY created_at DESC, load_type`

	var rows []resultRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), modelID); err != nil {
		return nil, s.fail("list_results", err)
	}
	out := make([]StoredResult, 0, len(rows))
	for _, r := range rows {
		var res storedLoadResult
		if err := json.Unmarshal([]byte(r.Data), &res); err != nil {
			return nil, fmt.Errorf("decoding result %s: %w", r.ID, err)
		}
		out = append(out, StoredResult{
			ID:         r.ID,
			RunID:      r.RunID,
			ModelID:    r.ModelID,
			MCPVersion: r.MCPVersion,
			CreatedAt:  parseTimestamp(r.CreatedAt),
			Result:     res.result(),
		})
	}
	return out, nil
}

// storedLoadResult decodes a result without its parameter variant, which is
// an interface and cannot be rebuilt from JSON alone
type storedLoadResult struct {
	loads.Result
	Parameters json.RawMessage `json:"parameters"`
}

func (r storedLoadResult) result() *loads.Result {
	res := r.Result
	res.Parameters = nil
	return &res
}
