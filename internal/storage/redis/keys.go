package redis

import (
	"fmt"

	"github.com/oyunca/wordmatch-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wordmatch"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomCodeIndexKey returns the Redis key for the code -> room_id index
func roomCodeIndexKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:idx:room_code:%s", keyPrefix, code)
}

// roomPlayerKey returns the Redis key for a RoomPlayer hash
func roomPlayerKey(roomID model.RoomID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:room_player:%s:%s", keyPrefix, roomID, playerID)
}

// roomPlayersIndexKey returns the Redis key for the SET of player ids in a room
func roomPlayersIndexKey(roomID model.RoomID) string {
	return fmt.Sprintf("%s:idx:room_players:%s", keyPrefix, roomID)
}

// categoryKey returns the Redis key for a Category
func categoryKey(id model.CategoryID) string {
	return fmt.Sprintf("%s:category:%s", keyPrefix, id)
}

// categoriesIndexKey returns the Redis key for the SET of category ids
func categoriesIndexKey() string {
	return fmt.Sprintf("%s:idx:categories", keyPrefix)
}

// roundKey returns the Redis key for a GameRound
func roundKey(id model.RoundID) string {
	return fmt.Sprintf("%s:round:%s", keyPrefix, id)
}

// activeRoundIndexKey returns the Redis key holding the active round id of a room
func activeRoundIndexKey(roomID model.RoomID) string {
	return fmt.Sprintf("%s:idx:active_round:%s", keyPrefix, roomID)
}

// latestRoundIndexKey returns the Redis key holding the most recently completed round id
func latestRoundIndexKey(roomID model.RoomID) string {
	return fmt.Sprintf("%s:idx:latest_round:%s", keyPrefix, roomID)
}

// answerKey returns the Redis key for a PlayerAnswer
func answerKey(roundID model.RoundID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:answer:%s:%s", keyPrefix, roundID, playerID)
}

// answersIndexKey returns the Redis key for the SET of player ids who answered a round
func answersIndexKey(roundID model.RoundID) string {
	return fmt.Sprintf("%s:idx:answers:%s", keyPrefix, roundID)
}

// changeChannel returns the pub/sub channel carrying a room's change feed
func changeChannel(roomID model.RoomID) string {
	return fmt.Sprintf("%s:changes:%s", keyPrefix, roomID)
}
