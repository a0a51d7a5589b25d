package model

import "time"

// RoomID uniquely identifies a room
type RoomID string

// RoomCode is the human-shareable 6-character join token
type RoomCode string

// RoomStatus represents the current state of a room
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"  // Waiting for the second player / game start
	RoomStatusPlaying  RoomStatus = "playing"  // Rounds in progress
	RoomStatusFinished RoomStatus = "finished" // Game over, stats accrued
)

const (
	// RoomCapacity is the fixed number of players per room
	RoomCapacity = 2
	// DefaultMaxRounds is the number of rounds played per game
	DefaultMaxRounds = 5
)

// Room represents a single play session joined via its code
type Room struct {
	ID           RoomID
	Code         RoomCode
	CreatedBy    PlayerID
	Status       RoomStatus
	CurrentRound int
	MaxRounds    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoomPlayer links a player to a room with their per-room score
type RoomPlayer struct {
	RoomID   RoomID
	PlayerID PlayerID
	Nickname string
	Score    int
	JoinedAt time.Time
}
