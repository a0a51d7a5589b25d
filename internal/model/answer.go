package model

import (
	"strings"
	"time"
)

// AnswerID uniquely identifies a submitted answer
type AnswerID string

// PlayerAnswer is one player's submission for a round. At most one exists per
// (round, player); PointsEarned stays 0 until the round is scored.
type PlayerAnswer struct {
	ID           AnswerID
	RoundID      RoundID
	PlayerID     PlayerID
	RoomID       RoomID
	Answer       string
	PointsEarned int
	SubmittedAt  time.Time
}

// NormalizeAnswer canonicalizes a raw submission for comparison
func NormalizeAnswer(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// RoundResult holds the outcome of scoring a round
type RoundResult struct {
	Answers    []PlayerAnswer
	SameAnswer bool
}

const (
	// PointsMatched is awarded to each player when both answers match
	PointsMatched = 2
	// PointsUnmatched is awarded to each player otherwise
	PointsUnmatched = 1
)
