package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a game participant with lifetime stats
type Player struct {
	ID          PlayerID
	Nickname    string
	TotalScore  int
	GamesPlayed int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
