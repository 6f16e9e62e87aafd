// Package session tracks which browser sessions passed human verification
// and which display identity each session holds per room. It fronts the
// core: requests failing the gate are rejected before any room state is
// touched.
package session

import (
	"context"
	"sync"
	"time"
)

const (
	defaultTTL    = 24 * time.Hour
	sweepDivisor  = 8
	idleMultiples = 2
)

// Gate is the access check consulted in front of every state-mutating
// operation.
type Gate interface {
	// MarkVerified records a successful human-verification for the session.
	MarkVerified(sid string)
	// Verified reports whether the session verified within the validity
	// window.
	Verified(sid string) bool
	// SetIdentity binds the display name a session holds in a room.
	SetIdentity(sid, roomKey, name string)
	// Identity returns the display name the session holds in a room.
	Identity(sid, roomKey string) (string, bool)
}

type record struct {
	verifiedAt time.Time
	touchedAt  time.Time
	identities map[string]string // room key -> display name
}

// MemoryGate keeps session verification state in memory for the process
// lifetime, mirroring the rest of the system's storage model.
type MemoryGate struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*record
}

// NewMemoryGate builds a gate with the given verification validity window.
// Zero or negative selects the 24h default.
func NewMemoryGate(ttl time.Duration) *MemoryGate {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryGate{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*record),
	}
}

func (g *MemoryGate) MarkVerified(sid string) {
	if sid == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	rec := g.record(sid)
	rec.verifiedAt = g.now()
}

func (g *MemoryGate) Verified(sid string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.sessions[sid]
	if !ok || rec.verifiedAt.IsZero() {
		return false
	}
	if g.now().Sub(rec.verifiedAt) > g.ttl {
		return false
	}
	rec.touchedAt = g.now()
	return true
}

func (g *MemoryGate) SetIdentity(sid, roomKey, name string) {
	if sid == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	rec := g.record(sid)
	rec.identities[roomKey] = name
}

func (g *MemoryGate) Identity(sid, roomKey string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.sessions[sid]
	if !ok {
		return "", false
	}
	rec.touchedAt = g.now()
	name, ok := rec.identities[roomKey]
	return name, ok
}

// record returns the session entry, creating it if needed. Caller holds g.mu.
func (g *MemoryGate) record(sid string) *record {
	rec, ok := g.sessions[sid]
	if !ok {
		rec = &record{identities: make(map[string]string)}
		g.sessions[sid] = rec
	}
	rec.touchedAt = g.now()
	return rec
}

// Run sweeps out sessions idle for longer than twice the validity window
// until ctx is cancelled.
func (g *MemoryGate) Run(ctx context.Context) {
	ticker := time.NewTicker(g.ttl / sweepDivisor)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

func (g *MemoryGate) sweep() {
	cutoff := g.now().Add(-time.Duration(idleMultiples) * g.ttl)
	g.mu.Lock()
	defer g.mu.Unlock()
	for sid, rec := range g.sessions {
		if rec.touchedAt.Before(cutoff) {
			delete(g.sessions, sid)
		}
	}
}
