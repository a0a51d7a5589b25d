package sync

import (
	"github.com/oyunca/wordmatch-go/internal/model"
)

// Phase is the client-facing view state of a game
type Phase string

const (
	// PhaseLobby is shown while waiting for players or between rounds
	PhaseLobby Phase = "lobby"
	// PhaseAnswering is shown while the player still owes an answer
	PhaseAnswering Phase = "answering"
	// PhaseWaiting is shown after answering, until the other player answers
	PhaseWaiting Phase = "waiting"
	// PhaseResults is shown once the round is scored
	PhaseResults Phase = "results"
	// PhaseFinished is shown once the game is over
	PhaseFinished Phase = "finished"
)

// DerivePhase computes the view phase from replicated state alone. It holds
// no state of its own, so a session can recompute the phase after any change
// without tracking transitions.
func DerivePhase(room *model.Room, round *model.GameRound, answers []model.PlayerAnswer, self model.PlayerID) Phase {
	if room == nil {
		return PhaseLobby
	}
	if room.Status == model.RoomStatusFinished {
		return PhaseFinished
	}
	if round == nil {
		return PhaseLobby
	}

	switch round.Status {
	case model.RoundStatusCompleted:
		return PhaseResults
	case model.RoundStatusActive:
		for _, a := range answers {
			if a.PlayerID == self {
				return PhaseWaiting
			}
		}
		return PhaseAnswering
	default:
		return PhaseLobby
	}
}
