package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oyunca/wordmatch-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeEmptyNickname   = "EMPTY_NICKNAME"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeGameInProgress  = "GAME_IN_PROGRESS"
	CodeRoomFull        = "ROOM_FULL"
	CodeAlreadyJoined   = "ALREADY_JOINED"
	CodeNotInRoom       = "NOT_IN_ROOM"
	CodeNotCreator      = "NOT_CREATOR"
	CodeCodeGeneration  = "CODE_GENERATION_FAILED"
	CodeGameFinished    = "GAME_FINISHED"
	CodeRoundNotFound   = "ROUND_NOT_FOUND"
	CodeNoActiveRound   = "NO_ACTIVE_ROUND"
	CodeNoCategories    = "NO_CATEGORIES"
	CodeRoundIncomplete = "ROUND_INCOMPLETE"
	CodeAnswerSubmitted = "ANSWER_ALREADY_SUBMITTED"
	CodeRoundCompleted  = "ROUND_ALREADY_COMPLETED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrEmptyNickname):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyNickname, "Nickname must not be empty"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomNotWaiting):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game has already started"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyJoined, "Already joined this room"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Not a member of this room"}}
	case errors.Is(err, model.ErrNotCreator):
		return &httpError{http.StatusForbidden, APIError{CodeNotCreator, "Only the room creator can perform this action"}}
	case errors.Is(err, model.ErrCodeGeneration):
		return &httpError{http.StatusInternalServerError, APIError{CodeCodeGeneration, "Could not allocate a room code"}}
	case errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameFinished, "Game is already finished"}}
	case errors.Is(err, model.ErrRoundNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoundNotFound, "Round not found"}}
	case errors.Is(err, model.ErrNoActiveRound):
		return &httpError{http.StatusNotFound, APIError{CodeNoActiveRound, "No round is in progress"}}
	case errors.Is(err, model.ErrNoCategories):
		return &httpError{http.StatusInternalServerError, APIError{CodeNoCategories, "No categories available"}}
	case errors.Is(err, model.ErrRoundIncomplete):
		return &httpError{http.StatusConflict, APIError{CodeRoundIncomplete, "Round is still waiting for answers"}}
	case errors.Is(err, model.ErrAnswerAlreadySubmitted):
		return &httpError{http.StatusConflict, APIError{CodeAnswerSubmitted, "Answer already submitted for this round"}}
	case errors.Is(err, model.ErrRoundAlreadyCompleted):
		return &httpError{http.StatusConflict, APIError{CodeRoundCompleted, "Round has already been scored"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
