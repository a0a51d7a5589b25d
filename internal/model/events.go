package model

import "time"

// ChangeKind identifies which record type a change event refers to
type ChangeKind string

const (
	ChangeRoom        ChangeKind = "room"
	ChangeRoomPlayers ChangeKind = "room_players"
	ChangeRound       ChangeKind = "game_rounds"
	ChangeAnswer      ChangeKind = "player_answers"
)

// ChangeEvent is a room-scoped change notification emitted by the store on
// every mutation. Delivery is at-least-once with no ordering guarantee across
// record types; consumers re-fetch the affected records rather than trusting
// a payload.
type ChangeEvent struct {
	Kind     ChangeKind `json:"kind"`
	RoomID   RoomID     `json:"room_id"`
	RoundID  RoundID    `json:"round_id,omitempty"`
	PlayerID PlayerID   `json:"player_id,omitempty"`
	At       time.Time  `json:"at"`
}
