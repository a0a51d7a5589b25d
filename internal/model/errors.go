package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrEmptyNickname  = errors.New("nickname must not be empty")
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomNotWaiting = errors.New("room is not accepting players")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyJoined  = errors.New("player has already joined this room")
	ErrNotInRoom      = errors.New("player is not in this room")
	ErrNotCreator     = errors.New("only the room creator can do this")
	ErrCodeGeneration = errors.New("could not generate a unique room code")
	ErrGameFinished   = errors.New("game is already finished")

	// Round errors
	ErrRoundNotFound          = errors.New("round not found")
	ErrNoActiveRound          = errors.New("no active round in this room")
	ErrNoCategories           = errors.New("no active categories available")
	ErrRoundIncomplete        = errors.New("round does not have both answers yet")
	ErrAnswerAlreadySubmitted = errors.New("player has already answered this round")
	ErrRoundAlreadyCompleted  = errors.New("round has already been completed")
)
