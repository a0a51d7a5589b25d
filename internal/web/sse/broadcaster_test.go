package sse

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/storage/memory"
	"github.com/oyunca/wordmatch-go/internal/testutil"
)

func TestBroadcaster_RelaysChangeEvents(t *testing.T) {
	store := memory.New()
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(store, manager, testutil.NopLogger())
	defer broadcaster.Close()

	if err := broadcaster.EnsureRelay("room-1"); err != nil {
		t.Fatalf("EnsureRelay failed: %v", err)
	}

	hub := manager.GetHub("room-1")
	if hub == nil {
		t.Fatal("EnsureRelay did not create a hub")
	}

	client := NewClient(hub, "player1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	// A store write must surface as an SSE event named after the record kind
	err := store.SaveRoom(context.Background(), &model.Room{
		ID:        "room-1",
		Code:      "ABC123",
		CreatedBy: "player1",
		Status:    model.RoomStatusWaiting,
		MaxRounds: model.DefaultMaxRounds,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("SaveRoom failed: %v", err)
	}

	select {
	case msg := <-client.send:
		msgStr := string(msg)
		if !strings.Contains(msgStr, "event: room\n") {
			t.Errorf("message does not carry the record kind as event name: %s", msgStr)
		}
		if !strings.Contains(msgStr, `"room_id":"room-1"`) {
			t.Errorf("message payload does not name the room: %s", msgStr)
		}
	case <-time.After(time.Second):
		t.Error("client did not receive relayed event")
	}
}

func TestBroadcaster_EnsureRelayIdempotent(t *testing.T) {
	store := memory.New()
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(store, manager, testutil.NopLogger())
	defer broadcaster.Close()

	if err := broadcaster.EnsureRelay("room-1"); err != nil {
		t.Fatalf("EnsureRelay failed: %v", err)
	}
	hub1 := manager.GetHub("room-1")

	if err := broadcaster.EnsureRelay("room-1"); err != nil {
		t.Fatalf("second EnsureRelay failed: %v", err)
	}
	if manager.GetHub("room-1") != hub1 {
		t.Error("second EnsureRelay replaced the hub")
	}
}

func TestBroadcaster_StopRelay(t *testing.T) {
	store := memory.New()
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(store, manager, testutil.NopLogger())

	if err := broadcaster.EnsureRelay("room-1"); err != nil {
		t.Fatalf("EnsureRelay failed: %v", err)
	}

	broadcaster.StopRelay("room-1")

	if manager.GetHub("room-1") != nil {
		t.Error("hub still exists after StopRelay")
	}

	// Stopping again should not panic
	broadcaster.StopRelay("room-1")
}
