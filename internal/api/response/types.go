package response

import (
	"time"

	"github.com/oyunca/wordmatch-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname"`
	TotalScore  int    `json:"total_score"`
	GamesPlayed int    `json:"games_played"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		Nickname:    p.Nickname,
		TotalScore:  p.TotalScore,
		GamesPlayed: p.GamesPlayed,
	}
}

// RoomPlayer represents a player's membership in a room
type RoomPlayer struct {
	PlayerID string    `json:"player_id"`
	Nickname string    `json:"nickname"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

// RoomPlayerFromModel converts model.RoomPlayer
func RoomPlayerFromModel(rp model.RoomPlayer) RoomPlayer {
	return RoomPlayer{
		PlayerID: string(rp.PlayerID),
		Nickname: rp.Nickname,
		Score:    rp.Score,
		JoinedAt: rp.JoinedAt,
	}
}

// RoomPlayersFromModel converts a slice of model.RoomPlayer
func RoomPlayersFromModel(players []model.RoomPlayer) []RoomPlayer {
	out := make([]RoomPlayer, len(players))
	for i, p := range players {
		out[i] = RoomPlayerFromModel(p)
	}
	return out
}

// Room represents a room in API responses
type Room struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	CreatedBy    string `json:"created_by"`
	Status       string `json:"status"`
	CurrentRound int    `json:"current_round"`
	MaxRounds    int    `json:"max_rounds"`
}

// RoomFromModel converts model.Room
func RoomFromModel(r *model.Room) Room {
	return Room{
		ID:           string(r.ID),
		Code:         string(r.Code),
		CreatedBy:    string(r.CreatedBy),
		Status:       string(r.Status),
		CurrentRound: r.CurrentRound,
		MaxRounds:    r.MaxRounds,
	}
}

// Round represents a round in API responses
type Round struct {
	ID           string    `json:"id"`
	RoomID       string    `json:"room_id"`
	RoundNumber  int       `json:"round_number"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	EndsAt       time.Time `json:"ends_at"`
	TimeLeft     int       `json:"time_left"`
}

// RoundFromModel converts model.GameRound. TimeLeft is computed against the
// given instant so clients count down from the server's deadline.
func RoundFromModel(r *model.GameRound, now time.Time) Round {
	return Round{
		ID:           string(r.ID),
		RoomID:       string(r.RoomID),
		RoundNumber:  r.RoundNumber,
		CategoryID:   string(r.CategoryID),
		CategoryName: r.CategoryName,
		Status:       string(r.Status),
		StartedAt:    r.StartedAt,
		EndsAt:       r.EndsAt,
		TimeLeft:     r.Remaining(now),
	}
}

// AdvanceResult reports what happened to a round advancement request
type AdvanceResult struct {
	Finished bool   `json:"finished"`
	Round    *Round `json:"round,omitempty"`
}

// Answer represents a submitted answer
type Answer struct {
	PlayerID     string    `json:"player_id"`
	Answer       string    `json:"answer"`
	PointsEarned int       `json:"points_earned"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// AnswerFromModel converts model.PlayerAnswer
func AnswerFromModel(a model.PlayerAnswer) Answer {
	return Answer{
		PlayerID:     string(a.PlayerID),
		Answer:       a.Answer,
		PointsEarned: a.PointsEarned,
		SubmittedAt:  a.SubmittedAt,
	}
}

// RoundResult represents a scored round
type RoundResult struct {
	Answers    []Answer `json:"answers"`
	SameAnswer bool     `json:"same_answer"`
}

// RoundResultFromModel converts model.RoundResult
func RoundResultFromModel(r *model.RoundResult) RoundResult {
	answers := make([]Answer, len(r.Answers))
	for i, a := range r.Answers {
		answers[i] = AnswerFromModel(a)
	}
	return RoundResult{
		Answers:    answers,
		SameAnswer: r.SameAnswer,
	}
}
