package request

// CreatePlayerRequest is the body for POST /players
type CreatePlayerRequest struct {
	Nickname string `json:"nickname"`
}

// CreateRoomRequest is the body for POST /rooms
type CreateRoomRequest struct {
	PlayerID string `json:"player_id"`
}

// JoinRoomRequest is the body for POST /rooms/{code}/join
type JoinRoomRequest struct {
	PlayerID string `json:"player_id"`
}

// StartRoundRequest is the body for POST /rooms/{code}/rounds
type StartRoundRequest struct {
	PlayerID string `json:"player_id"`
}

// SubmitAnswerRequest is the body for POST /rooms/{code}/answers
type SubmitAnswerRequest struct {
	PlayerID string `json:"player_id"`
	Answer   string `json:"answer"`
}

// FinishGameRequest is the body for POST /rooms/{code}/finish
type FinishGameRequest struct {
	PlayerID string `json:"player_id"`
}
