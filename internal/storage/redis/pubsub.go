package redis

import (
	"context"
	"encoding/json"

	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/storage"
)

// subscribeBufferSize is the capacity of the delivered event channel
const subscribeBufferSize = 64

// Subscribe attaches to the room's pub/sub change channel. Events arrive
// at-least-once; malformed payloads are dropped. The returned function closes
// the subscription and the channel.
func (s *Storage) Subscribe(ctx context.Context, roomID model.RoomID) (<-chan model.ChangeEvent, storage.UnsubscribeFunc, error) {
	pubsub := s.client.Subscribe(ctx, changeChannel(roomID))

	// Force the subscription to be established before returning so callers
	// do not miss events published immediately after Subscribe.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	events := make(chan model.ChangeEvent, subscribeBufferSize)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event model.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	unsubscribe := func() {
		_ = pubsub.Close()
	}

	return events, unsubscribe, nil
}
