package services

import (
	"sync"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/google/uuid"
)

type ConfirmationOperation string

const (
	OpDeleteSet      ConfirmationOperation = "delete_set"
	OpDeleteAction   ConfirmationOperation = "delete_action"
	OpFinalizeResult ConfirmationOperation = "finalize_result"
)

// Confirmation is the first step of a destructive operation. Nothing is sent to the API
// until the token comes back through Confirm.
type Confirmation struct {
	Token     string                `json:"token"`
	Operation ConfirmationOperation `json:"operation"`
	Prompt    string                `json:"prompt"`
	TargetID  int                   `json:"target_id"`
	SetNumber int                   `json:"set_number,omitempty"`
	Result    models.MatchResult    `json:"result,omitempty"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// confirmationGate hands out single-use tokens.
type confirmationGate struct {
	mu      sync.Mutex
	pending map[string]Confirmation
	ttl     time.Duration
	now     func() time.Time
}

func newConfirmationGate(ttl time.Duration, now func() time.Time) *confirmationGate {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &confirmationGate{
		pending: make(map[string]Confirmation),
		ttl:     ttl,
		now:     now,
	}
}

func (g *confirmationGate) request(c Confirmation) Confirmation {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for token, p := range g.pending {
		if !now.Before(p.ExpiresAt) {
			delete(g.pending, token)
		}
	}

	c.Token = uuid.NewString()
	c.ExpiresAt = now.Add(g.ttl)
	g.pending[c.Token] = c
	return c
}

// take consumes the token. An expired token is consumed too.
func (g *confirmationGate) take(token string) (Confirmation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.pending[token]
	if !ok {
		return Confirmation{}, ErrConfirmationNotFound
	}
	delete(g.pending, token)
	if !g.now().Before(c.ExpiresAt) {
		return Confirmation{}, ErrConfirmationExpired
	}
	return c, nil
}

func (g *confirmationGate) clear() {
	g.mu.Lock()
	clear(g.pending)
	g.mu.Unlock()
}
