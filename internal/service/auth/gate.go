package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Narutostha/sanambar/internal/model"
)

// GateState is the resolution state of a session gate.
type GateState string

const (
	StateChecking        GateState = "checking"
	StateAuthenticated   GateState = "authenticated"
	StateUnauthenticated GateState = "unauthenticated"
)

// Gate tracks whether one session is valid. It starts in the checking
// state, resolves on an initial lookup, and re-resolves on every
// session-change notification for its session. A lookup failure still
// resolves the gate (to unauthenticated); it never stays checking.
// Close releases the notification subscription; forgetting it leaks
// the callback for the service's lifetime.
type Gate struct {
	sessionID   uuid.UUID
	unsubscribe func()

	// lookupFailed is set once during construction when the initial
	// lookup errored instead of answering.
	lookupFailed bool

	mu       sync.RWMutex
	state    GateState
	resolved chan struct{}
	once     sync.Once
}

// NewGate opens a gate for sessionID. The initial lookup runs before
// returning so callers can consult State immediately; the subscription
// keeps the gate current afterwards.
func NewGate(ctx context.Context, svc *Service, sessionID uuid.UUID) *Gate {
	g := &Gate{
		sessionID: sessionID,
		state:     StateChecking,
		resolved:  make(chan struct{}),
	}

	g.unsubscribe = svc.Subscribe(g.onSessionEvent)

	live, err := svc.CheckSession(ctx, sessionID)
	if err != nil {
		svc.logger.Warn().Err(err).
			Str("session_id", sessionID.String()).
			Msg("session lookup failed, gate resolves unauthenticated")
		g.lookupFailed = true
		live = false
	}
	g.resolve(live)

	return g
}

// LookupFailed reports whether the initial session lookup errored. A
// gate in this condition answered unauthenticated without ever seeing
// the session row, so callers must not hold on to it.
func (g *Gate) LookupFailed() bool {
	return g.lookupFailed
}

// State returns the gate's current resolution.
func (g *Gate) State() GateState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// IsAuthenticated reports whether the gate has resolved to a live
// session. While checking it reports false.
func (g *Gate) IsAuthenticated() bool {
	return g.State() == StateAuthenticated
}

// Resolved is closed once the gate has left the checking state.
func (g *Gate) Resolved() <-chan struct{} {
	return g.resolved
}

// Close deregisters the gate's subscription. Safe to call more than
// once.
func (g *Gate) Close() {
	g.once.Do(g.unsubscribe)
}

func (g *Gate) onSessionEvent(event model.SessionEvent) {
	if event.SessionID != g.sessionID {
		return
	}
	g.resolve(event.Type != model.SessionSignedOut)
}

func (g *Gate) resolve(live bool) {
	g.mu.Lock()
	wasChecking := g.state == StateChecking
	if live {
		g.state = StateAuthenticated
	} else {
		g.state = StateUnauthenticated
	}
	g.mu.Unlock()

	if wasChecking {
		close(g.resolved)
	}
}
