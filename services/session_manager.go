package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SessionKey identifies the single scoring session an operator can hold on a match.
type SessionKey struct {
	OperatorID int
	MatchID    int
}

type SessionManager struct {
	mu       sync.Mutex
	sessions map[SessionKey]*ScoringSession
	deps     SessionDeps
	logger   *slog.Logger
}

func NewSessionManager(deps SessionDeps) *SessionManager {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions: make(map[SessionKey]*ScoringSession),
		deps:     deps,
		logger:   logger,
	}
}

// Start returns the operator's open session on the match, activating a new one if needed.
// Only Pending matches can be scored.
func (m *SessionManager) Start(ctx context.Context, operatorID, matchID int) (*ScoringSession, error) {
	key := SessionKey{OperatorID: operatorID, MatchID: matchID}
	if s := m.lookup(key); s != nil {
		return s, nil
	}

	match, err := m.deps.Matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, mapRepositoryError(err))
	}
	if !match.CanStartScoring() {
		return nil, fmt.Errorf("%w: match %d has result %q", ErrMatchNotPending, matchID, match.Result)
	}

	session := NewScoringSession(m.deps)
	if err := session.Activate(ctx, match); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if existing, ok := m.sessions[key]; ok && !existing.IsClosed() {
		m.mu.Unlock()
		session.Close()
		return existing, nil
	}
	m.sessions[key] = session
	m.mu.Unlock()

	session.setOnClose(func() { m.remove(key, session) })
	m.logger.Info("scoring session started", slog.Int("operator_id", operatorID), slog.Int("match_id", matchID))
	return session, nil
}

func (m *SessionManager) Get(operatorID, matchID int) (*ScoringSession, error) {
	if s := m.lookup(SessionKey{OperatorID: operatorID, MatchID: matchID}); s != nil {
		return s, nil
	}
	return nil, ErrSessionNotFound
}

// End closes the operator's session on the match.
func (m *SessionManager) End(operatorID, matchID int) error {
	s, err := m.Get(operatorID, matchID)
	if err != nil {
		return err
	}
	s.Close()
	return nil
}

// SweepIdle closes sessions without activity for longer than maxIdle and returns how many it closed.
func (m *SessionManager) SweepIdle(maxIdle time.Duration) int {
	now := time.Now()
	var idle []*ScoringSession

	m.mu.Lock()
	for _, s := range m.sessions {
		if s.IdleFor(now) > maxIdle {
			idle = append(idle, s)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	return len(idle)
}

// CloseAll closes every open session. Used on shutdown.
func (m *SessionManager) CloseAll() int {
	m.mu.Lock()
	all := make([]*ScoringSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
	return len(all)
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) lookup(key SessionKey) *ScoringSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[key]
	if !ok {
		return nil
	}
	if s.IsClosed() {
		delete(m.sessions, key)
		return nil
	}
	return s
}

func (m *SessionManager) remove(key SessionKey, s *ScoringSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[key] == s {
		delete(m.sessions, key)
	}
}
