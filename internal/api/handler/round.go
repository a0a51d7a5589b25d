package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oyunca/wordmatch-go/internal/api/request"
	"github.com/oyunca/wordmatch-go/internal/api/response"
	"github.com/oyunca/wordmatch-go/internal/dependencies/clock"
	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/services/registry"
	"github.com/oyunca/wordmatch-go/internal/services/round"
)

// RoundHandler handles round-related endpoints
type RoundHandler struct {
	registry registry.ControllerInterface
	rounds   round.ControllerInterface
	clock    clock.Clock
}

// NewRoundHandler creates a new round handler
func NewRoundHandler(registry registry.ControllerInterface, rounds round.ControllerInterface, clock clock.Clock) *RoundHandler {
	return &RoundHandler{
		registry: registry,
		rounds:   rounds,
		clock:    clock,
	}
}

func (h *RoundHandler) roomByCode(r *http.Request) (*model.Room, error) {
	code := model.RoomCode(mux.Vars(r)["code"])
	return h.registry.GetRoomByCode(r.Context(), code)
}

func (h *RoundHandler) requireMember(r *http.Request, room *model.Room, playerID model.PlayerID) error {
	players, err := h.registry.GetRoomPlayers(r.Context(), room.ID)
	if err != nil {
		return err
	}
	for _, p := range players {
		if p.PlayerID == playerID {
			return nil
		}
	}
	return model.ErrNotInRoom
}

// Advance handles POST /api/v1/rooms/{code}/rounds. Only the room creator can
// drive the game forward; the next round starts, or the game finishes when
// all rounds are played.
func (h *RoundHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req request.StartRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	room, err := h.roomByCode(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if room.CreatedBy != model.PlayerID(req.PlayerID) {
		WriteError(w, model.ErrNotCreator)
		return
	}

	started, finished, err := h.rounds.Advance(r.Context(), room.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	result := response.AdvanceResult{Finished: finished}
	if started != nil {
		converted := response.RoundFromModel(started, h.clock.Now())
		result.Round = &converted
	}
	response.JSON(w, http.StatusOK, result)
}

// Current handles GET /api/v1/rooms/{code}/rounds/current
func (h *RoundHandler) Current(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomByCode(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	active, err := h.rounds.GetActiveRound(r.Context(), room.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoundFromModel(active, h.clock.Now()))
}

// SubmitAnswer handles POST /api/v1/rooms/{code}/answers. The answer lands on
// the room's active round.
func (h *RoundHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	room, err := h.roomByCode(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	playerID := model.PlayerID(req.PlayerID)
	if err := h.requireMember(r, room, playerID); err != nil {
		WriteError(w, err)
		return
	}

	active, err := h.rounds.GetActiveRound(r.Context(), room.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	answer, err := h.rounds.SubmitAnswer(r.Context(), active.ID, room.ID, playerID, req.Answer)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AnswerFromModel(*answer))
}

// Score handles POST /api/v1/rooms/{code}/rounds/{round_id}/results. Both
// players may race to request scoring; the loser gets the stored results
// rather than an error.
func (h *RoundHandler) Score(w http.ResponseWriter, r *http.Request) {
	roundID := model.RoundID(mux.Vars(r)["round_id"])

	result, err := h.rounds.CalculateResults(r.Context(), roundID)
	if errors.Is(err, model.ErrRoundAlreadyCompleted) {
		result, err = h.rounds.Results(r.Context(), roundID)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoundResultFromModel(result))
}

// Results handles GET /api/v1/rooms/{code}/rounds/{round_id}/results
func (h *RoundHandler) Results(w http.ResponseWriter, r *http.Request) {
	roundID := model.RoundID(mux.Vars(r)["round_id"])

	result, err := h.rounds.Results(r.Context(), roundID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoundResultFromModel(result))
}

// Finish handles POST /api/v1/rooms/{code}/finish. Either player may request
// the finish; lifetime stats accrue exactly once.
func (h *RoundHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req request.FinishGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	room, err := h.roomByCode(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.requireMember(r, room, model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.rounds.FinishGame(r.Context(), room.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
