package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Abaw1984/azload-sub000/internal/classifier"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// Session owns the current MCP. Loading a new model replaces the MCP and
// bumps the generation, which invalidates snapshots taken before.
type Session struct {
	mu         sync.RWMutex
	id         string
	current    *MCP
	generation uint64
	opts       Options
	logger     *slog.Logger
}

// NewSession creates an empty session
func NewSession(opts Options) *Session {
	opts = opts.withDefaults()
	id := uuid.New().String()
	return &Session{
		id:     id,
		opts:   opts,
		logger: opts.Logger.With("session_id", id),
	}
}

// ID identifies the session in logs and the store
func (s *Session) ID() string { return s.id }

// Options returns the MCP options this session builds with
func (s *Session) Options() Options { return s.opts }

// Load replaces the current MCP with a fresh one for m
func (s *Session) Load(m *model.StructuralModel) *MCP {
	return s.Adopt(New(m, s.opts))
}

// Adopt installs an existing MCP, such as one restored with Deserialize
func (s *Session) Adopt(c *MCP) *MCP {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	c.mu.Lock()
	c.generation = s.generation
	c.mu.Unlock()

	s.current = c
	s.opts.Metrics.RecordModelLoaded()
	s.logger.Info("model loaded", "model_id", c.ModelID(), "generation", s.generation)
	return c
}

// Current returns the current MCP
func (s *Session) Current() (*MCP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoModel
	}
	return s.current, nil
}

// Generation counts models loaded into the session
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// LockedSnapshot returns a snapshot of the current MCP if it is locked and
// valid. The check and the copy happen under the same locks, so the
// snapshot cannot describe a different MCP than the one checked.
func (s *Session) LockedSnapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoModel
	}
	return s.current.lockedSnapshot()
}

// Verify reports ErrStaleSnapshot when the MCP snap was taken from has been
// replaced
func (s *Session) Verify(snap *Snapshot) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || snap.Generation != s.generation || snap.ModelID != s.current.ModelID() {
		return fmt.Errorf("%w: generation %d, current %d", ErrStaleSnapshot, snap.Generation, s.generation)
	}
	return nil
}

// ReclassifyAsync reclassifies the current MCP in the background. The
// channel yields the classifier outcome once and is then closed.
func (s *Session) ReclassifyAsync(ctx context.Context, cl classifier.Classifier) <-chan error {
	done := make(chan error, 1)

	c, err := s.Current()
	if err != nil {
		done <- err
		close(done)
		return done
	}

	go func() {
		defer close(done)
		err := c.Reclassify(ctx, cl)
		if err != nil {
			s.logger.Warn("background classification degraded", "model_id", c.ModelID(), "error", err)
		}
		done <- err
	}()
	return done
}
