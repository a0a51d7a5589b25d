package registry

import (
	"context"
	"log/slog"
	"strings"

	"github.com/oyunca/wordmatch-go/internal/dependencies/clock"
	"github.com/oyunca/wordmatch-go/internal/dependencies/random"
	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes
	RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// maxCodeAttempts bounds code generation retries on collision
	maxCodeAttempts = 10

	idLength   = 12
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Controller manages player identity and room membership
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new registry Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreatePlayer creates a player with zeroed counters
func (c *Controller) CreatePlayer(ctx context.Context, nickname string) (*model.Player, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, model.ErrEmptyNickname
	}

	now := c.clock.Now()
	player := &model.Player{
		ID:          model.PlayerID(c.random.String(idLength, idAlphabet)),
		Nickname:    nickname,
		TotalScore:  0,
		GamesPlayed: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	c.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.String("nickname", nickname),
	)

	return player, nil
}

// GetPlayer retrieves a player by id
func (c *Controller) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return c.storage.GetPlayer(ctx, id)
}

// CreateRoom creates a room with a unique code and joins the creator to it
func (c *Controller) CreateRoom(ctx context.Context, creatorID model.PlayerID) (*model.Room, error) {
	creator, err := c.storage.GetPlayer(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	code, err := c.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:           model.RoomID(c.random.String(idLength, idAlphabet)),
		Code:         code,
		CreatedBy:    creatorID,
		Status:       model.RoomStatusWaiting,
		CurrentRound: 0,
		MaxRounds:    model.DefaultMaxRounds,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	if err := c.storage.AddRoomPlayer(ctx, &model.RoomPlayer{
		RoomID:   room.ID,
		PlayerID: creatorID,
		Nickname: creator.Nickname,
		Score:    0,
		JoinedAt: now,
	}); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("room_code", string(code)),
		slog.String("created_by", string(creatorID)),
	)

	return room, nil
}

// generateCode draws room codes until one is unused, up to maxCodeAttempts
func (c *Controller) generateCode(ctx context.Context) (model.RoomCode, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.storage.RoomCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", model.ErrCodeGeneration
}

// JoinRoom adds a player to a waiting room looked up by code. The capacity
// and uniqueness checks happen inside the store's conditional insert, so two
// simultaneous joins cannot both slip past the capacity check.
func (c *Controller) JoinRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, error) {
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	room, err := c.storage.GetRoomByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrRoomNotWaiting
	}

	if err := c.storage.AddRoomPlayer(ctx, &model.RoomPlayer{
		RoomID:   room.ID,
		PlayerID: playerID,
		Nickname: player.Nickname,
		Score:    0,
		JoinedAt: c.clock.Now(),
	}); err != nil {
		return nil, err
	}

	c.logger.Info("player joined room",
		slog.String("room_id", string(room.ID)),
		slog.String("room_code", string(code)),
		slog.String("player_id", string(playerID)),
	)

	return room, nil
}

// GetRoom retrieves a room by id
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// GetRoomByCode retrieves a room by its join code
func (c *Controller) GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoomByCode(ctx, code)
}

// GetRoomPlayers lists the players joined to a room
func (c *Controller) GetRoomPlayers(ctx context.Context, roomID model.RoomID) ([]model.RoomPlayer, error) {
	return c.storage.GetRoomPlayers(ctx, roomID)
}

// Interface for dependency injection
type ControllerInterface interface {
	CreatePlayer(ctx context.Context, nickname string) (*model.Player, error)
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	CreateRoom(ctx context.Context, creatorID model.PlayerID) (*model.Room, error)
	JoinRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, error)
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error)
	GetRoomPlayers(ctx context.Context, roomID model.RoomID) ([]model.RoomPlayer, error)
}

var _ ControllerInterface = (*Controller)(nil)
