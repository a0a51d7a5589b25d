package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/services/registry"
	"github.com/oyunca/wordmatch-go/internal/web/sse"
)

// EventsHandler streams room change events over SSE
type EventsHandler struct {
	registry    registry.ControllerInterface
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(registry registry.ControllerInterface, hubManager *sse.HubManager, broadcaster *sse.Broadcaster) *EventsHandler {
	return &EventsHandler{
		registry:    registry,
		hubManager:  hubManager,
		broadcaster: broadcaster,
	}
}

// Stream handles GET /api/v1/rooms/{code}/events. The player id comes from
// the query string since EventSource cannot set a body.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])
	playerID := model.PlayerID(r.URL.Query().Get("player_id"))

	room, err := h.registry.GetRoomByCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	// The relay outlives this request; it feeds every client on the hub
	if err := h.broadcaster.EnsureRelay(room.ID); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(room.ID)
	sse.ServeSSE(w, r, hub, playerID)
}
