package model

import "time"

// RoundID uniquely identifies a round
type RoundID string

// RoundStatus represents the current state of a round
type RoundStatus string

const (
	RoundStatusPreparing RoundStatus = "preparing" // Created but not yet open for answers
	RoundStatusActive    RoundStatus = "active"    // Accepting answers until the deadline
	RoundStatusCompleted RoundStatus = "completed" // Both answers scored
)

// GameRound is one timed question within a room. Round numbers are 1-based
// and mirror Room.CurrentRound. At most one round is active per room.
type GameRound struct {
	ID           RoundID
	RoomID       RoomID
	RoundNumber  int
	CategoryID   CategoryID
	CategoryName string
	Status       RoundStatus
	StartedAt    time.Time
	// EndsAt is the shared answer deadline; every client derives its
	// countdown from this rather than a local clock.
	EndsAt    time.Time
	EndedAt   time.Time
	CreatedAt time.Time
}

// Remaining returns the whole seconds left until the deadline, floored at zero.
func (r *GameRound) Remaining(now time.Time) int {
	if r.Status != RoundStatusActive || !now.Before(r.EndsAt) {
		return 0
	}
	return int(r.EndsAt.Sub(now).Round(time.Second) / time.Second)
}
