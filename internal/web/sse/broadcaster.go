package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/storage"
)

// Broadcaster relays the store's change feed into per-room hubs. Each change
// event reaches connected clients as an SSE event named after the record kind
// with the event itself as a JSON payload; clients refetch whatever the event
// names.
type Broadcaster struct {
	storage    storage.Storage
	hubManager *HubManager
	logger     *slog.Logger

	mu     sync.Mutex
	relays map[model.RoomID]storage.UnsubscribeFunc
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(store storage.Storage, hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		storage:    store,
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
		relays:     make(map[model.RoomID]storage.UnsubscribeFunc),
	}
}

// EnsureRelay starts the room's relay if one is not already running. The
// relay subscribes to the room's change feed and forwards each event to the
// room's hub until StopRelay or Close. It deliberately does not take a
// context: the relay serves every client on the hub, not just the request
// that started it.
func (b *Broadcaster) EnsureRelay(roomID model.RoomID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, running := b.relays[roomID]; running {
		return nil
	}

	events, unsubscribe, err := b.storage.Subscribe(context.Background(), roomID)
	if err != nil {
		return err
	}
	b.relays[roomID] = unsubscribe

	hub := b.hubManager.GetOrCreateHub(roomID)
	go b.relay(roomID, hub, events)

	b.logger.Info("sse relay started", slog.String("room_id", string(roomID)))
	return nil
}

func (b *Broadcaster) relay(roomID model.RoomID, hub *Hub, events <-chan model.ChangeEvent) {
	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			b.logger.Error("sse relay marshal failed",
				slog.String("room_id", string(roomID)),
				slog.Any("error", err))
			continue
		}
		hub.BroadcastEvent(string(event.Kind), string(payload))
	}
	b.logger.Info("sse relay stopped", slog.String("room_id", string(roomID)))
}

// StopRelay tears down the room's relay and hub
func (b *Broadcaster) StopRelay(roomID model.RoomID) {
	b.mu.Lock()
	unsubscribe, ok := b.relays[roomID]
	if ok {
		delete(b.relays, roomID)
	}
	b.mu.Unlock()

	if ok {
		unsubscribe()
		b.hubManager.RemoveHub(roomID)
	}
}

// Close tears down every relay
func (b *Broadcaster) Close() {
	b.mu.Lock()
	relays := b.relays
	b.relays = make(map[model.RoomID]storage.UnsubscribeFunc)
	b.mu.Unlock()

	for roomID, unsubscribe := range relays {
		unsubscribe()
		b.hubManager.RemoveHub(roomID)
	}
}
