package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case Room:
		o.printRoom(v)
	case []RoomPlayer:
		o.printRoomPlayers(v)
	case Round:
		o.printRound(v)
	case AdvanceResult:
		o.printAdvanceResult(v)
	case Answer:
		o.printAnswer(v)
	case RoundResult:
		o.printRoundResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname"`
	TotalScore  int    `json:"total_score"`
	GamesPlayed int    `json:"games_played"`
}

// Room response type
type Room struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	CreatedBy    string `json:"created_by"`
	Status       string `json:"status"`
	CurrentRound int    `json:"current_round"`
	MaxRounds    int    `json:"max_rounds"`
}

// RoomPlayer response type
type RoomPlayer struct {
	PlayerID string    `json:"player_id"`
	Nickname string    `json:"nickname"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

// Round response type
type Round struct {
	ID           string `json:"id"`
	RoundNumber  int    `json:"round_number"`
	CategoryName string `json:"category_name"`
	Status       string `json:"status"`
	TimeLeft     int    `json:"time_left"`
}

// AdvanceResult response type
type AdvanceResult struct {
	Finished bool   `json:"finished"`
	Round    *Round `json:"round,omitempty"`
}

// Answer response type
type Answer struct {
	PlayerID     string `json:"player_id"`
	Answer       string `json:"answer"`
	PointsEarned int    `json:"points_earned"`
}

// RoundResult response type
type RoundResult struct {
	Answers    []Answer `json:"answers"`
	SameAnswer bool     `json:"same_answer"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Nickname, p.ID)
	fmt.Printf("Total Score: %d\n", p.TotalScore)
	fmt.Printf("Games Played: %d\n", p.GamesPlayed)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Round: %d of %d\n", r.CurrentRound, r.MaxRounds)
	fmt.Printf("Created By: %s\n", r.CreatedBy)
}

func (o *Output) printRoomPlayers(players []RoomPlayer) {
	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		fmt.Printf("  - %s (%s) - %d points\n", p.Nickname, p.PlayerID, p.Score)
	}
}

func (o *Output) printRound(r Round) {
	fmt.Printf("Round %d: %s\n", r.RoundNumber, r.CategoryName)
	fmt.Printf("Status: %s\n", r.Status)
	if r.Status == "active" {
		fmt.Printf("Time Left: %ds\n", r.TimeLeft)
	}
}

func (o *Output) printAdvanceResult(a AdvanceResult) {
	if a.Finished {
		fmt.Println("Game finished!")
		return
	}
	if a.Round != nil {
		o.printRound(*a.Round)
	}
}

func (o *Output) printAnswer(a Answer) {
	fmt.Printf("Submitted: %q\n", a.Answer)
}

func (o *Output) printRoundResult(r RoundResult) {
	if r.SameAnswer {
		fmt.Println("Answers matched!")
	} else {
		fmt.Println("Answers did not match")
	}
	for _, a := range r.Answers {
		fmt.Printf("  %s: %q (+%d)\n", a.PlayerID, a.Answer, a.PointsEarned)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
