package storage

import (
	"context"
	"time"

	"github.com/oyunca/wordmatch-go/internal/model"
)

// UnsubscribeFunc tears down a change-feed subscription
type UnsubscribeFunc func()

// Storage defines the interface for the external store. Writes that touch a
// room also emit a room-scoped ChangeEvent on the change feed. Operations
// documented as conditional are atomic at the store: check and write cannot
// be interleaved with another caller's.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	// AccrueGameStats atomically applies total_score += score and
	// games_played += 1 to the player record.
	AccrueGameStats(ctx context.Context, id model.PlayerID, score int) error

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error)
	RoomCodeExists(ctx context.Context, code model.RoomCode) (bool, error)
	// FinishRoom conditionally transitions the room to finished. It reports
	// whether this caller won the transition; a room that is already
	// finished yields (false, nil).
	FinishRoom(ctx context.Context, id model.RoomID, at time.Time) (bool, error)

	// Room player operations
	// AddRoomPlayer is a conditional insert: it fails with ErrAlreadyJoined
	// for a duplicate (room, player) pair and ErrRoomFull once the room
	// holds RoomCapacity players.
	AddRoomPlayer(ctx context.Context, rp *model.RoomPlayer) error
	GetRoomPlayers(ctx context.Context, roomID model.RoomID) ([]model.RoomPlayer, error)
	// IncrementRoomPlayerScore atomically applies score += delta.
	IncrementRoomPlayerScore(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, delta int) error

	// Category operations
	SaveCategory(ctx context.Context, category *model.Category) error
	GetActiveCategories(ctx context.Context) ([]model.Category, error)

	// Round operations
	SaveRound(ctx context.Context, round *model.GameRound) error
	GetRound(ctx context.Context, id model.RoundID) (*model.GameRound, error)
	GetActiveRound(ctx context.Context, roomID model.RoomID) (*model.GameRound, error)
	GetLatestCompletedRound(ctx context.Context, roomID model.RoomID) (*model.GameRound, error)
	// CompleteRound conditionally transitions the round from active to
	// completed. Only one concurrent caller wins; the rest get (false, nil).
	CompleteRound(ctx context.Context, id model.RoundID, endedAt time.Time) (bool, error)

	// Answer operations
	// SaveAnswer is a conditional insert: a second submission for the same
	// (round, player) pair fails with ErrAnswerAlreadySubmitted.
	SaveAnswer(ctx context.Context, answer *model.PlayerAnswer) error
	GetAnswersForRound(ctx context.Context, roundID model.RoundID) ([]model.PlayerAnswer, error)
	SetAnswerPoints(ctx context.Context, roundID model.RoundID, playerID model.PlayerID, points int) error

	// Subscribe returns a channel of change events scoped to the room.
	// Delivery is at-least-once with no cross-record ordering guarantee.
	Subscribe(ctx context.Context, roomID model.RoomID) (<-chan model.ChangeEvent, UnsubscribeFunc, error)
}
