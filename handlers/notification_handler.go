package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-admin/services"
)

type NotificationHandler struct {
	queue *services.NotificationQueue
}

func NewNotificationHandler(q *services.NotificationQueue) *NotificationHandler {
	return &NotificationHandler{queue: q}
}

// List returns the notifications still on screen, oldest first. ?match_id= narrows to one match.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	matchID, err := optionalQueryID(r, "match_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	id := 0
	if matchID != nil {
		id = *matchID
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"notifications": h.queue.Active(id)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
