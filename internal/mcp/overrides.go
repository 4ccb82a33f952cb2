package mcp

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// OverrideKind names what an override changes
type OverrideKind string

const (
	OverrideBuildingType OverrideKind = "BUILDING_TYPE"
	OverrideMemberTag    OverrideKind = "MEMBER_TAG"
)

// Override is one audit entry. Rejected attempts are recorded too.
type Override struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	ModelID   string       `json:"modelId"`
	Kind      OverrideKind `json:"kind"`
	Target    string       `json:"target,omitempty"`
	Before    string       `json:"before"`
	After     string       `json:"after"`
	Manual    bool         `json:"manual"`
	Accepted  bool         `json:"accepted"`
	Reason    string       `json:"reason,omitempty"`
	Version   int          `json:"version"`
}

// OverrideSink receives every override for retention beyond the ring buffer
type OverrideSink interface {
	RecordOverride(o Override) error
}

// OverrideLog keeps the most recent overrides in a circular buffer and
// counts every override ever appended
type OverrideLog struct {
	mu       sync.RWMutex
	entries  []Override
	capacity int
	index    int
	count    int
	total    int64
}

// NewOverrideLog creates a log holding up to capacity entries
func NewOverrideLog(capacity int) *OverrideLog {
	if capacity <= 0 {
		capacity = DefaultOverrideLogCapacity
	}
	return &OverrideLog{
		entries:  make([]Override, capacity),
		capacity: capacity,
	}
}

// Append stores o, evicting the oldest entry when full
func (l *OverrideLog) Append(o Override) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.index] = o
	l.index = (l.index + 1) % l.capacity
	if l.count < l.capacity {
		l.count++
	}
	l.total++
}

// Entries returns retained entries, oldest first
func (l *OverrideLog) Entries() []Override {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Override, 0, l.count)
	for i := 0; i < l.count; i++ {
		idx := (l.index - l.count + i + l.capacity) % l.capacity
		out = append(out, l.entries[idx])
	}
	return out
}

// Len is the number of retained entries
func (l *OverrideLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

// Total is the number of entries ever appended, including evicted ones
func (l *OverrideLog) Total() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// restore refills the log from persisted entries
func (l *OverrideLog) restore(entries []Override, total int64) {
	for _, e := range entries {
		l.Append(e)
	}
	l.mu.Lock()
	if total > l.total {
		l.total = total
	}
	l.mu.Unlock()
}

func newOverrideID() string {
	return uuid.New().String()
}
