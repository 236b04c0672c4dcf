package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/menu"
	"github.com/ordervox/ordervox/internal/observe"
)

// SessionManager owns the live ordering sessions and the shared
// matcher they resolve against. All exported methods are safe for
// concurrent use.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	matcher  *menu.Matcher
	noisy    bool

	defaultLang lang.Code
	payments    []string
	undoDepth   int
	submit      SubmitFunc
	metrics     *observe.Metrics
	log         *slog.Logger
}

// ManagerConfig holds all dependencies for a [SessionManager].
type ManagerConfig struct {
	Matcher         *menu.Matcher
	DefaultLanguage lang.Code
	Noisy           bool
	PaymentMethods  []string
	UndoDepth       int
	Submit          SubmitFunc
	Metrics         *observe.Metrics
	Logger          *slog.Logger
}

// NewSessionManager creates a SessionManager with the given dependencies.
func NewSessionManager(cfg ManagerConfig) *SessionManager {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &SessionManager{
		sessions:    make(map[string]*Session),
		matcher:     cfg.Matcher,
		noisy:       cfg.Noisy,
		defaultLang: lang.Coerce(cfg.DefaultLanguage),
		payments:    cfg.PaymentMethods,
		undoDepth:   cfg.UndoDepth,
		submit:      cfg.Submit,
		metrics:     metrics,
		log:         log,
	}
}

// Create starts a new session under id. The language falls back to the
// configured default when code is unknown. Returns an error if the id
// is already in use.
func (sm *SessionManager) Create(ctx context.Context, id string, code lang.Code) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[id]; exists {
		return nil, fmt.Errorf("app: session %q already exists", id)
	}

	if !code.IsValid() {
		code = sm.defaultLang
	}

	s := NewSession(SessionConfig{
		ID:             id,
		Language:       code,
		Matcher:        sm.matcher,
		Noisy:          sm.noisy,
		PaymentMethods: sm.payments,
		UndoDepth:      sm.undoDepth,
		Submit:         sm.submit,
		Metrics:        sm.metrics,
		Logger:         sm.log,
	})
	sm.sessions[id] = s
	sm.metrics.ActiveSessions.Add(ctx, 1)
	sm.log.Info("session started", "session_id", id, "language", string(s.Language()))
	return s, nil
}

// Get returns the session with the given id, or nil.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.sessions[id]
}

// Close removes the session with the given id. Closing an unknown id
// is a no-op.
func (sm *SessionManager) Close(ctx context.Context, id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[id]; !exists {
		return
	}
	delete(sm.sessions, id)
	sm.metrics.ActiveSessions.Add(ctx, -1)
	sm.log.Info("session closed", "session_id", id)
}

// Len reports the number of live sessions.
func (sm *SessionManager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// CatalogSize reports how many products the current matcher covers.
// Used by the readiness probe.
func (sm *SessionManager) CatalogSize() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.matcher == nil {
		return 0
	}
	return sm.matcher.Len()
}

// SetMatcher swaps the shared matcher after a catalog reload. Existing
// sessions keep the matcher they were created with; new sessions pick
// up the replacement.
func (sm *SessionManager) SetMatcher(m *menu.Matcher) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.matcher = m
}

// SetNoisy switches the matching strictness for sessions created from
// now on.
func (sm *SessionManager) SetNoisy(on bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.noisy = on
}
