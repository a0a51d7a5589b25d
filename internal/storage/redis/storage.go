package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/storage"
)

// maxTxRetries bounds optimistic WATCH retries on contended keys
const maxTxRetries = 5

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// withWatch runs fn under WATCH on key, retrying on transaction conflicts
func (s *Storage) withWatch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return redis.TxFailedErr
}

// changePayload marshals a change event for publication
func changePayload(kind model.ChangeKind, roomID model.RoomID, roundID model.RoundID, playerID model.PlayerID) []byte {
	data, _ := json.Marshal(model.ChangeEvent{
		Kind:     kind,
		RoomID:   roomID,
		RoundID:  roundID,
		PlayerID: playerID,
		At:       time.Now().UTC(),
	})
	return data
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	// Player records are permanent
	return s.client.Set(ctx, playerKey(player.ID), data, 0).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) AccrueGameStats(ctx context.Context, id model.PlayerID, score int) error {
	key := playerKey(id)
	return s.withWatch(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}

		player.TotalScore += score
		player.GamesPlayed++
		player.UpdatedAt = time.Now().UTC()

		updated, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	})
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, roomKey(room.ID), data, s.cfg.RoomTTL)
	pipe.Set(ctx, roomCodeIndexKey(room.Code), string(room.ID), s.cfg.RoomTTL)
	pipe.Publish(ctx, changeChannel(room.ID), changePayload(model.ChangeRoom, room.ID, "", ""))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	roomID, err := s.client.Get(ctx, roomCodeIndexKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	return s.GetRoom(ctx, model.RoomID(roomID))
}

func (s *Storage) RoomCodeExists(ctx context.Context, code model.RoomCode) (bool, error) {
	exists, err := s.client.Exists(ctx, roomCodeIndexKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) FinishRoom(ctx context.Context, id model.RoomID, at time.Time) (bool, error) {
	key := roomKey(id)
	won := false

	err := s.withWatch(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRoomNotFound
			}
			return err
		}

		var room model.Room
		if err := json.Unmarshal(data, &room); err != nil {
			return err
		}

		if room.Status == model.RoomStatusFinished {
			won = false
			return nil
		}

		room.Status = model.RoomStatusFinished
		room.UpdatedAt = at

		updated, err := json.Marshal(&room)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.cfg.RoomTTL)
			pipe.Publish(ctx, changeChannel(id), changePayload(model.ChangeRoom, id, "", ""))
			return nil
		})
		if err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

// Room player operations

func (s *Storage) AddRoomPlayer(ctx context.Context, rp *model.RoomPlayer) error {
	idx := roomPlayersIndexKey(rp.RoomID)

	return s.withWatch(ctx, idx, func(tx *redis.Tx) error {
		member, err := tx.SIsMember(ctx, idx, string(rp.PlayerID)).Result()
		if err != nil {
			return err
		}
		if member {
			return model.ErrAlreadyJoined
		}

		count, err := tx.SCard(ctx, idx).Result()
		if err != nil {
			return err
		}
		if count >= model.RoomCapacity {
			return model.ErrRoomFull
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SAdd(ctx, idx, string(rp.PlayerID))
			pipe.Expire(ctx, idx, s.cfg.RoomTTL)
			pipe.HSet(ctx, roomPlayerKey(rp.RoomID, rp.PlayerID), map[string]any{
				"player_id": string(rp.PlayerID),
				"nickname":  rp.Nickname,
				"score":     rp.Score,
				"joined_at": rp.JoinedAt.UTC().Format(time.RFC3339Nano),
			})
			pipe.Expire(ctx, roomPlayerKey(rp.RoomID, rp.PlayerID), s.cfg.RoomTTL)
			pipe.Publish(ctx, changeChannel(rp.RoomID), changePayload(model.ChangeRoomPlayers, rp.RoomID, "", rp.PlayerID))
			return nil
		})
		return err
	})
}

func (s *Storage) GetRoomPlayers(ctx context.Context, roomID model.RoomID) ([]model.RoomPlayer, error) {
	playerIDs, err := s.client.SMembers(ctx, roomPlayersIndexKey(roomID)).Result()
	if err != nil {
		return nil, err
	}

	players := make([]model.RoomPlayer, 0, len(playerIDs))
	for _, pid := range playerIDs {
		fields, err := s.client.HGetAll(ctx, roomPlayerKey(roomID, model.PlayerID(pid))).Result()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue // Row may have expired
		}

		score, _ := strconv.Atoi(fields["score"])
		joinedAt, _ := time.Parse(time.RFC3339Nano, fields["joined_at"])
		players = append(players, model.RoomPlayer{
			RoomID:   roomID,
			PlayerID: model.PlayerID(fields["player_id"]),
			Nickname: fields["nickname"],
			Score:    score,
			JoinedAt: joinedAt,
		})
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].PlayerID < players[j].PlayerID
		}
		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})

	return players, nil
}

func (s *Storage) IncrementRoomPlayerScore(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, delta int) error {
	member, err := s.client.SIsMember(ctx, roomPlayersIndexKey(roomID), string(playerID)).Result()
	if err != nil {
		return err
	}
	if !member {
		return model.ErrNotInRoom
	}

	pipe := s.client.Pipeline()
	pipe.HIncrBy(ctx, roomPlayerKey(roomID, playerID), "score", int64(delta))
	pipe.Publish(ctx, changeChannel(roomID), changePayload(model.ChangeRoomPlayers, roomID, "", playerID))
	_, err = pipe.Exec(ctx)
	return err
}

// Category operations

func (s *Storage) SaveCategory(ctx context.Context, category *model.Category) error {
	data, err := json.Marshal(category)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, categoryKey(category.ID), data, 0)
	pipe.SAdd(ctx, categoriesIndexKey(), string(category.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetActiveCategories(ctx context.Context) ([]model.Category, error) {
	ids, err := s.client.SMembers(ctx, categoriesIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Category{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = categoryKey(model.CategoryID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var category model.Category
		if err := json.Unmarshal([]byte(val.(string)), &category); err != nil {
			continue // Skip invalid data
		}
		if category.IsActive {
			categories = append(categories, category)
		}
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// Round operations

func (s *Storage) SaveRound(ctx context.Context, round *model.GameRound) error {
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, roundKey(round.ID), data, s.cfg.RoundTTL)
	if round.Status == model.RoundStatusActive {
		pipe.Set(ctx, activeRoundIndexKey(round.RoomID), string(round.ID), s.cfg.RoundTTL)
	}
	pipe.Publish(ctx, changeChannel(round.RoomID), changePayload(model.ChangeRound, round.RoomID, round.ID, ""))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRound(ctx context.Context, id model.RoundID) (*model.GameRound, error) {
	data, err := s.client.Get(ctx, roundKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoundNotFound
		}
		return nil, err
	}

	var round model.GameRound
	if err := json.Unmarshal(data, &round); err != nil {
		return nil, err
	}
	return &round, nil
}

func (s *Storage) GetActiveRound(ctx context.Context, roomID model.RoomID) (*model.GameRound, error) {
	roundID, err := s.client.Get(ctx, activeRoundIndexKey(roomID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoActiveRound
		}
		return nil, err
	}
	return s.GetRound(ctx, model.RoundID(roundID))
}

func (s *Storage) GetLatestCompletedRound(ctx context.Context, roomID model.RoomID) (*model.GameRound, error) {
	roundID, err := s.client.Get(ctx, latestRoundIndexKey(roomID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoundNotFound
		}
		return nil, err
	}
	return s.GetRound(ctx, model.RoundID(roundID))
}

func (s *Storage) CompleteRound(ctx context.Context, id model.RoundID, endedAt time.Time) (bool, error) {
	key := roundKey(id)
	won := false

	err := s.withWatch(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRoundNotFound
			}
			return err
		}

		var round model.GameRound
		if err := json.Unmarshal(data, &round); err != nil {
			return err
		}

		if round.Status != model.RoundStatusActive {
			won = false
			return nil
		}

		round.Status = model.RoundStatusCompleted
		round.EndedAt = endedAt

		updated, err := json.Marshal(&round)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.cfg.RoundTTL)
			pipe.Del(ctx, activeRoundIndexKey(round.RoomID))
			pipe.Set(ctx, latestRoundIndexKey(round.RoomID), string(round.ID), s.cfg.RoundTTL)
			pipe.Publish(ctx, changeChannel(round.RoomID), changePayload(model.ChangeRound, round.RoomID, round.ID, ""))
			return nil
		})
		if err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

// Answer operations

func (s *Storage) SaveAnswer(ctx context.Context, answer *model.PlayerAnswer) error {
	data, err := json.Marshal(answer)
	if err != nil {
		return err
	}

	// SETNX enforces one answer per (round, player)
	created, err := s.client.SetNX(ctx, answerKey(answer.RoundID, answer.PlayerID), data, s.cfg.AnswerTTL).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrAnswerAlreadySubmitted
	}

	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, answersIndexKey(answer.RoundID), string(answer.PlayerID))
	pipe.Expire(ctx, answersIndexKey(answer.RoundID), s.cfg.AnswerTTL)
	pipe.Publish(ctx, changeChannel(answer.RoomID), changePayload(model.ChangeAnswer, answer.RoomID, answer.RoundID, answer.PlayerID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAnswersForRound(ctx context.Context, roundID model.RoundID) ([]model.PlayerAnswer, error) {
	playerIDs, err := s.client.SMembers(ctx, answersIndexKey(roundID)).Result()
	if err != nil {
		return nil, err
	}
	if len(playerIDs) == 0 {
		return []model.PlayerAnswer{}, nil
	}

	keys := make([]string, len(playerIDs))
	for i, pid := range playerIDs {
		keys[i] = answerKey(roundID, model.PlayerID(pid))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	answers := make([]model.PlayerAnswer, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Answer may have expired
		}
		var answer model.PlayerAnswer
		if err := json.Unmarshal([]byte(val.(string)), &answer); err != nil {
			continue
		}
		answers = append(answers, answer)
	}

	sort.Slice(answers, func(i, j int) bool {
		if answers[i].SubmittedAt.Equal(answers[j].SubmittedAt) {
			return answers[i].PlayerID < answers[j].PlayerID
		}
		return answers[i].SubmittedAt.Before(answers[j].SubmittedAt)
	})

	return answers, nil
}

func (s *Storage) SetAnswerPoints(ctx context.Context, roundID model.RoundID, playerID model.PlayerID, points int) error {
	key := answerKey(roundID, playerID)

	return s.withWatch(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrRoundNotFound
			}
			return err
		}

		var answer model.PlayerAnswer
		if err := json.Unmarshal(data, &answer); err != nil {
			return err
		}

		answer.PointsEarned = points

		updated, err := json.Marshal(&answer)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.cfg.AnswerTTL)
			pipe.Publish(ctx, changeChannel(answer.RoomID), changePayload(model.ChangeAnswer, answer.RoomID, roundID, playerID))
			return nil
		})
		return err
	})
}
