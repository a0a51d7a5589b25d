package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. It mirrors
// the conditional-update and change-feed semantics of the Redis backend so
// unit tests exercise the same contract.
type Storage struct {
	mu sync.RWMutex

	players     map[model.PlayerID]model.Player
	rooms       map[model.RoomID]model.Room
	codeIndex   map[model.RoomCode]model.RoomID
	roomPlayers map[model.RoomID][]model.RoomPlayer
	categories  map[model.CategoryID]model.Category
	rounds      map[model.RoundID]model.GameRound
	activeRound map[model.RoomID]model.RoundID
	latestRound map[model.RoomID]model.RoundID
	answers     map[answerKey]model.PlayerAnswer

	subscribers map[model.RoomID]map[int]chan model.ChangeEvent
	nextSubID   int
}

type answerKey struct {
	roundID  model.RoundID
	playerID model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:     make(map[model.PlayerID]model.Player),
		rooms:       make(map[model.RoomID]model.Room),
		codeIndex:   make(map[model.RoomCode]model.RoomID),
		roomPlayers: make(map[model.RoomID][]model.RoomPlayer),
		categories:  make(map[model.CategoryID]model.Category),
		rounds:      make(map[model.RoundID]model.GameRound),
		activeRound: make(map[model.RoomID]model.RoundID),
		latestRound: make(map[model.RoomID]model.RoundID),
		answers:     make(map[answerKey]model.PlayerAnswer),
		subscribers: make(map[model.RoomID]map[int]chan model.ChangeEvent),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// publish delivers a change event to the room's subscribers. Must be called
// with the write lock held.
func (s *Storage) publish(kind model.ChangeKind, roomID model.RoomID, roundID model.RoundID, playerID model.PlayerID) {
	event := model.ChangeEvent{
		Kind:     kind,
		RoomID:   roomID,
		RoundID:  roundID,
		PlayerID: playerID,
		At:       time.Now().UTC(),
	}
	for _, ch := range s.subscribers[roomID] {
		select {
		case ch <- event:
		default:
			// Slow subscriber; drop rather than block the writer
		}
	}
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = *player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return &player, nil
}

func (s *Storage) AccrueGameStats(ctx context.Context, id model.PlayerID, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}
	player.TotalScore += score
	player.GamesPlayed++
	player.UpdatedAt = time.Now().UTC()
	s.players[id] = player
	return nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = *room
	s.codeIndex[room.Code] = room.ID
	s.publish(model.ChangeRoom, room.ID, "", "")
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return &room, nil
}

func (s *Storage) GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.codeIndex[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	room := s.rooms[id]
	return &room, nil
}

func (s *Storage) RoomCodeExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.codeIndex[code]
	return ok, nil
}

func (s *Storage) FinishRoom(ctx context.Context, id model.RoomID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return false, model.ErrRoomNotFound
	}
	if room.Status == model.RoomStatusFinished {
		return false, nil
	}
	room.Status = model.RoomStatusFinished
	room.UpdatedAt = at
	s.rooms[id] = room
	s.publish(model.ChangeRoom, id, "", "")
	return true, nil
}

// Room player operations

func (s *Storage) AddRoomPlayer(ctx context.Context, rp *model.RoomPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.roomPlayers[rp.RoomID]
	for _, p := range existing {
		if p.PlayerID == rp.PlayerID {
			return model.ErrAlreadyJoined
		}
	}
	if len(existing) >= model.RoomCapacity {
		return model.ErrRoomFull
	}

	s.roomPlayers[rp.RoomID] = append(existing, *rp)
	s.publish(model.ChangeRoomPlayers, rp.RoomID, "", rp.PlayerID)
	return nil
}

func (s *Storage) GetRoomPlayers(ctx context.Context, roomID model.RoomID) ([]model.RoomPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]model.RoomPlayer, len(s.roomPlayers[roomID]))
	copy(players, s.roomPlayers[roomID])
	sort.Slice(players, func(i, j int) bool {
		if players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].PlayerID < players[j].PlayerID
		}
		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})
	return players, nil
}

func (s *Storage) IncrementRoomPlayerScore(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := s.roomPlayers[roomID]
	for i := range players {
		if players[i].PlayerID == playerID {
			players[i].Score += delta
			s.publish(model.ChangeRoomPlayers, roomID, "", playerID)
			return nil
		}
	}
	return model.ErrNotInRoom
}

// Category operations

func (s *Storage) SaveCategory(ctx context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[category.ID] = *category
	return nil
}

func (s *Storage) GetActiveCategories(ctx context.Context) ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.IsActive {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// Round operations

func (s *Storage) SaveRound(ctx context.Context, round *model.GameRound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[round.ID] = *round
	if round.Status == model.RoundStatusActive {
		s.activeRound[round.RoomID] = round.ID
	}
	s.publish(model.ChangeRound, round.RoomID, round.ID, "")
	return nil
}

func (s *Storage) GetRound(ctx context.Context, id model.RoundID) (*model.GameRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[id]
	if !ok {
		return nil, model.ErrRoundNotFound
	}
	return &round, nil
}

func (s *Storage) GetActiveRound(ctx context.Context, roomID model.RoomID) (*model.GameRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.activeRound[roomID]
	if !ok {
		return nil, model.ErrNoActiveRound
	}
	round := s.rounds[id]
	return &round, nil
}

func (s *Storage) GetLatestCompletedRound(ctx context.Context, roomID model.RoomID) (*model.GameRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.latestRound[roomID]
	if !ok {
		return nil, model.ErrRoundNotFound
	}
	round := s.rounds[id]
	return &round, nil
}

func (s *Storage) CompleteRound(ctx context.Context, id model.RoundID, endedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[id]
	if !ok {
		return false, model.ErrRoundNotFound
	}
	if round.Status != model.RoundStatusActive {
		return false, nil
	}
	round.Status = model.RoundStatusCompleted
	round.EndedAt = endedAt
	s.rounds[id] = round
	delete(s.activeRound, round.RoomID)
	s.latestRound[round.RoomID] = round.ID
	s.publish(model.ChangeRound, round.RoomID, round.ID, "")
	return true, nil
}

// Answer operations

func (s *Storage) SaveAnswer(ctx context.Context, answer *model.PlayerAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := answerKey{roundID: answer.RoundID, playerID: answer.PlayerID}
	if _, exists := s.answers[key]; exists {
		return model.ErrAnswerAlreadySubmitted
	}
	s.answers[key] = *answer
	s.publish(model.ChangeAnswer, answer.RoomID, answer.RoundID, answer.PlayerID)
	return nil
}

func (s *Storage) GetAnswersForRound(ctx context.Context, roundID model.RoundID) ([]model.PlayerAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answers := make([]model.PlayerAnswer, 0, 2)
	for key, a := range s.answers {
		if key.roundID == roundID {
			answers = append(answers, a)
		}
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
	s.mu.Lock()
	defer s.mu.Unlock()
	key := answerKey{roundID: roundID, playerID: playerID}
	answer, ok := s.answers[key]
	if !ok {
		return model.ErrRoundNotFound
	}
	answer.PointsEarned = points
	s.answers[key] = answer
	s.publish(model.ChangeAnswer, answer.RoomID, roundID, playerID)
	return nil
}

// Change feed

func (s *Storage) Subscribe(ctx context.Context, roomID model.RoomID) (<-chan model.ChangeEvent, storage.UnsubscribeFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subscribers[roomID] == nil {
		s.subscribers[roomID] = make(map[int]chan model.ChangeEvent)
	}
	id := s.nextSubID
	s.nextSubID++

	ch := make(chan model.ChangeEvent, 64)
	s.subscribers[roomID][id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers[roomID], id)
			s.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe, nil
}
