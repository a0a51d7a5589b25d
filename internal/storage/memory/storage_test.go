package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/oyunca/wordmatch-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:        "player-1",
		Nickname:  "Alice",
		CreatedAt: time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.Nickname, retrieved.Nickname)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestAccrueGameStats() {
	player := &model.Player{ID: "player-1", Nickname: "Alice", TotalScore: 3, GamesPlayed: 1}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.Require().NoError(s.storage.AccrueGameStats(s.ctx, "player-1", 7))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(10, retrieved.TotalScore)
	s.Equal(2, retrieved.GamesPlayed)
}

func (s *StorageSuite) TestAccrueGameStatsUnknownPlayer() {
	s.ErrorIs(s.storage.AccrueGameStats(s.ctx, "nonexistent", 5), model.ErrPlayerNotFound)
}

// Room tests

func (s *StorageSuite) room(id, code string) *model.Room {
	return &model.Room{
		ID:        model.RoomID(id),
		Code:      model.RoomCode(code),
		CreatedBy: "player-1",
		Status:    model.RoomStatusWaiting,
		MaxRounds: model.DefaultMaxRounds,
		CreatedAt: time.Now(),
	}
}

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := s.room("room-1", "ABC123")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)

	byCode, err := s.storage.GetRoomByCode(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(room.ID, byCode.ID)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)

	_, err = s.storage.GetRoomByCode(s.ctx, "NOPE99")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomCodeExists() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("room-1", "ABC123")))

	exists, err := s.storage.RoomCodeExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.RoomCodeExists(s.ctx, "XYZ789")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestFinishRoomTransitionsOnce() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("room-1", "ABC123")))
	at := time.Now()

	won, err := s.storage.FinishRoom(s.ctx, "room-1", at)
	s.Require().NoError(err)
	s.True(won)

	won, err = s.storage.FinishRoom(s.ctx, "room-1", at)
	s.Require().NoError(err)
	s.False(won)

	room, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusFinished, room.Status)
}

// Room player tests

func (s *StorageSuite) addPlayer(roomID, playerID, nickname string, at time.Time) error {
	return s.storage.AddRoomPlayer(s.ctx, &model.RoomPlayer{
		RoomID:   model.RoomID(roomID),
		PlayerID: model.PlayerID(playerID),
		Nickname: nickname,
		JoinedAt: at,
	})
}

func (s *StorageSuite) TestAddRoomPlayerEnforcesUniqueness() {
	now := time.Now()
	s.Require().NoError(s.addPlayer("room-1", "player-1", "Alice", now))

	err := s.addPlayer("room-1", "player-1", "Alice", now)
	s.ErrorIs(err, model.ErrAlreadyJoined)
}

func (s *StorageSuite) TestAddRoomPlayerEnforcesCapacity() {
	now := time.Now()
	s.Require().NoError(s.addPlayer("room-1", "player-1", "Alice", now))
	s.Require().NoError(s.addPlayer("room-1", "player-2", "Bob", now))

	err := s.addPlayer("room-1", "player-3", "Carol", now)
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *StorageSuite) TestGetRoomPlayersOrderedByJoin() {
	base := time.Now()
	s.Require().NoError(s.addPlayer("room-1", "player-2", "Bob", base.Add(time.Second)))
	s.Require().NoError(s.addPlayer("room-1", "player-1", "Alice", base))

	players, err := s.storage.GetRoomPlayers(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(model.PlayerID("player-1"), players[0].PlayerID)
	s.Equal(model.PlayerID("player-2"), players[1].PlayerID)
}

func (s *StorageSuite) TestIncrementRoomPlayerScore() {
	s.Require().NoError(s.addPlayer("room-1", "player-1", "Alice", time.Now()))

	s.Require().NoError(s.storage.IncrementRoomPlayerScore(s.ctx, "room-1", "player-1", 2))
	s.Require().NoError(s.storage.IncrementRoomPlayerScore(s.ctx, "room-1", "player-1", 1))

	players, err := s.storage.GetRoomPlayers(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(3, players[0].Score)
}

func (s *StorageSuite) TestIncrementScoreNotInRoom() {
	err := s.storage.IncrementRoomPlayerScore(s.ctx, "room-1", "player-1", 2)
	s.ErrorIs(err, model.ErrNotInRoom)
}

// Category tests

func (s *StorageSuite) TestGetActiveCategoriesFiltersInactive() {
	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{ID: "fruits", Name: "Fruits", IsActive: true}))
	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{ID: "old", Name: "Old", IsActive: false}))

	categories, err := s.storage.GetActiveCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(categories, 1)
	s.Equal("Fruits", categories[0].Name)
}

// Round tests

func (s *StorageSuite) activeRound(id, roomID string, number int) *model.GameRound {
	now := time.Now()
	return &model.GameRound{
		ID:          model.RoundID(id),
		RoomID:      model.RoomID(roomID),
		RoundNumber: number,
		CategoryID:  "fruits",
		Status:      model.RoundStatusActive,
		StartedAt:   now,
		EndsAt:      now.Add(10 * time.Second),
		CreatedAt:   now,
	}
}

func (s *StorageSuite) TestSaveRoundTracksActive() {
	round := s.activeRound("round-1", "room-1", 1)
	s.Require().NoError(s.storage.SaveRound(s.ctx, round))

	active, err := s.storage.GetActiveRound(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(round.ID, active.ID)
}

func (s *StorageSuite) TestGetActiveRoundNone() {
	_, err := s.storage.GetActiveRound(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrNoActiveRound)
}

func (s *StorageSuite) TestCompleteRoundTransitionsOnce() {
	round := s.activeRound("round-1", "room-1", 1)
	s.Require().NoError(s.storage.SaveRound(s.ctx, round))
	endedAt := time.Now()

	won, err := s.storage.CompleteRound(s.ctx, "round-1", endedAt)
	s.Require().NoError(err)
	s.True(won)

	won, err = s.storage.CompleteRound(s.ctx, "round-1", endedAt)
	s.Require().NoError(err)
	s.False(won)

	_, err = s.storage.GetActiveRound(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrNoActiveRound)

	latest, err := s.storage.GetLatestCompletedRound(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(round.ID, latest.ID)
	s.Equal(model.RoundStatusCompleted, latest.Status)
}

// Answer tests

func (s *StorageSuite) answer(roundID, playerID, text string, at time.Time) *model.PlayerAnswer {
	return &model.PlayerAnswer{
		ID:          model.AnswerID("answer-" + playerID),
		RoundID:     model.RoundID(roundID),
		PlayerID:    model.PlayerID(playerID),
		RoomID:      "room-1",
		Answer:      text,
		SubmittedAt: at,
	}
}

func (s *StorageSuite) TestSaveAnswerRejectsDuplicate() {
	now := time.Now()
	s.Require().NoError(s.storage.SaveAnswer(s.ctx, s.answer("round-1", "player-1", "apple", now)))

	err := s.storage.SaveAnswer(s.ctx, s.answer("round-1", "player-1", "pear", now))
	s.ErrorIs(err, model.ErrAnswerAlreadySubmitted)
}

func (s *StorageSuite) TestGetAnswersOrderedBySubmission() {
	base := time.Now()
	s.Require().NoError(s.storage.SaveAnswer(s.ctx, s.answer("round-1", "player-2", "pear", base.Add(time.Second))))
	s.Require().NoError(s.storage.SaveAnswer(s.ctx, s.answer("round-1", "player-1", "apple", base)))

	answers, err := s.storage.GetAnswersForRound(s.ctx, "round-1")
	s.Require().NoError(err)
	s.Require().Len(answers, 2)
	s.Equal(model.PlayerID("player-1"), answers[0].PlayerID)
	s.Equal(model.PlayerID("player-2"), answers[1].PlayerID)
}

func (s *StorageSuite) TestSetAnswerPoints() {
	s.Require().NoError(s.storage.SaveAnswer(s.ctx, s.answer("round-1", "player-1", "apple", time.Now())))

	s.Require().NoError(s.storage.SetAnswerPoints(s.ctx, "round-1", "player-1", 2))

	answers, err := s.storage.GetAnswersForRound(s.ctx, "round-1")
	s.Require().NoError(err)
	s.Equal(2, answers[0].PointsEarned)
}

// Change feed tests

func (s *StorageSuite) TestSubscribeDeliversRoomScopedEvents() {
	events, unsubscribe, err := s.storage.Subscribe(s.ctx, "room-1")
	s.Require().NoError(err)
	defer unsubscribe()

	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("room-1", "ABC123")))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("room-2", "XYZ789")))

	select {
	case event := <-events:
		s.Equal(model.ChangeRoom, event.Kind)
		s.Equal(model.RoomID("room-1"), event.RoomID)
	case <-time.After(time.Second):
		s.Fail("no event received")
	}

	// room-2's write must not reach room-1's feed
	select {
	case event := <-events:
		s.Equal(model.RoomID("room-1"), event.RoomID)
	default:
	}
}

func (s *StorageSuite) TestUnsubscribeClosesChannel() {
	events, unsubscribe, err := s.storage.Subscribe(s.ctx, "room-1")
	s.Require().NoError(err)

	unsubscribe()
	unsubscribe() // Safe to call twice

	_, open := <-events
	s.False(open)
}

func (s *StorageSuite) TestAnswerEventCarriesRoundAndPlayer() {
	events, unsubscribe, err := s.storage.Subscribe(s.ctx, "room-1")
	s.Require().NoError(err)
	defer unsubscribe()

	s.Require().NoError(s.storage.SaveAnswer(s.ctx, s.answer("round-1", "player-1", "apple", time.Now())))

	select {
	case event := <-events:
		s.Equal(model.ChangeAnswer, event.Kind)
		s.Equal(model.RoundID("round-1"), event.RoundID)
		s.Equal(model.PlayerID("player-1"), event.PlayerID)
	case <-time.After(time.Second):
		s.Fail("no event received")
	}
}
