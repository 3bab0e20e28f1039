package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/google/uuid"
)

// Event types published to match rooms.
const (
	EventNotification = "NOTIFICATION"
	EventMatchUpdated = "MATCH_UPDATED"
	EventSetsChanged  = "SETS_CHANGED"
)

// Notifier receives the success/error messages produced by scoring sessions.
type Notifier interface {
	Push(matchID int, kind models.NotificationKind, text string) models.Notification
}

// EventPublisher fans match events out to whoever watches the match (the websocket hub).
type EventPublisher interface {
	PublishMatchEvent(matchID int, eventType string, payload any)
}

// NotificationQueue keeps notifications in FIFO order; each one expires on its own.
type NotificationQueue struct {
	mu        sync.Mutex
	items     []models.Notification
	ttl       time.Duration
	now       func() time.Time
	publisher EventPublisher
	logger    *slog.Logger
}

func NewNotificationQueue(ttl time.Duration, publisher EventPublisher, logger *slog.Logger) *NotificationQueue {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &NotificationQueue{
		ttl:       ttl,
		now:       time.Now,
		publisher: publisher,
		logger:    logger,
	}
}

func (q *NotificationQueue) Push(matchID int, kind models.NotificationKind, text string) models.Notification {
	now := q.now()
	n := models.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Text:      text,
		MatchID:   matchID,
		CreatedAt: now,
		ExpiresAt: now.Add(q.ttl),
	}

	q.mu.Lock()
	q.items = append(q.pruneLocked(now), n)
	q.mu.Unlock()

	if kind == models.NotificationError {
		q.logger.Warn("operator notified of error", slog.Int("match_id", matchID), slog.String("text", text))
	}
	if q.publisher != nil {
		q.publisher.PublishMatchEvent(matchID, EventNotification, n)
	}
	return n
}

// Active returns the notifications that have not expired yet, oldest first.
// matchID 0 returns notifications of every match.
func (q *NotificationQueue) Active(matchID int) []models.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = q.pruneLocked(q.now())
	out := make([]models.Notification, 0, len(q.items))
	for _, n := range q.items {
		if matchID == 0 || n.MatchID == matchID {
			out = append(out, n)
		}
	}
	return out
}

func (q *NotificationQueue) pruneLocked(now time.Time) []models.Notification {
	kept := q.items[:0]
	for _, n := range q.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	return kept
}
