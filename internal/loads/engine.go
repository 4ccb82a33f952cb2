package loads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Abaw1984/azload-sub000/internal/mcp"
	"github.com/Abaw1984/azload-sub000/internal/metrics"
)

var (
	// ErrNotLocked is returned when no locked MCP is available
	ErrNotLocked = errors.New("load calculation requires a locked MCP")

	// ErrInvalidMCP is returned when the locked MCP failed validation
	ErrInvalidMCP = errors.New("load calculation requires a valid MCP")

	// ErrMissingBuildingType is returned when the MCP carries no building type
	ErrMissingBuildingType = errors.New("load calculation requires a building type")

	// ErrStaleSnapshot is returned when the MCP was replaced during a run
	ErrStaleSnapshot = mcp.ErrStaleSnapshot
)

// Engine runs calculators against a session's locked MCP
type Engine struct {
	logger  *slog.Logger
	metrics *metrics.Registry
}

// NewEngine creates an engine. Both arguments may be nil.
func NewEngine(logger *slog.Logger, reg *metrics.Registry) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger, metrics: reg}
}

// Snapshot checks the calculation preconditions and returns the locked
// snapshot every calculator of a run reads
func (e *Engine) Snapshot(s *mcp.Session) (*mcp.Snapshot, error) {
	snap, err := s.LockedSnapshot()
	switch {
	case errors.Is(err, mcp.ErrInvalid):
		return nil, fmt.Errorf("%w: %v", ErrInvalidMCP, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrNotLocked, err)
	case snap.BuildingType == "":
		return nil, ErrMissingBuildingType
	}
	return snap, nil
}

// Run calculates every parameter set concurrently against one snapshot.
// Results come back in parameter order. When the session's MCP is replaced
// before the run completes the results are discarded with ErrStaleSnapshot.
func (e *Engine) Run(ctx context.Context, s *mcp.Session, params ...Parameters) ([]*Result, error) {
	snap, err := e.Snapshot(s)
	if err != nil {
		e.metrics.RecordCalculation("ALL", "rejected", 0, 0)
		e.logger.Warn("load calculation rejected", "error", err)
		return nil, err
	}
	in := InputFromSnapshot(snap)
	logger := e.logger.With("model_id", snap.ModelID, "mcp_version", snap.Version)

	results := make([]*Result, len(params))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range params {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res := Calculate(in, p)
			results[i] = res

			status := "ok"
			if len(res.Warnings) > 0 {
				status = "warning"
			}
			e.metrics.RecordCalculation(string(res.LoadType), status, len(res.Loads), time.Since(start))
			logger.Debug("load calculation finished",
				"load_type", res.LoadType,
				"loads", len(res.Loads),
				"warnings", len(res.Warnings),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.Verify(snap); err != nil {
		e.metrics.RecordCalculation("ALL", "rejected", 0, 0)
		logger.Warn("discarding load results computed against a replaced MCP", "error", err)
		return nil, err
	}
	return results, nil
}

// Calculate dispatches to the calculator for p's load type
func Calculate(in Input, p Parameters) *Result {
	return p.calculate(in)
}
