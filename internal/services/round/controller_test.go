package round

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/oyunca/wordmatch-go/internal/dependencies/mocks"
	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/storage/memory"
	"github.com/oyunca/wordmatch-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context

	room  *model.Room
	alice model.PlayerID
	bob   model.PlayerID
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()

	s.alice = "player-alice"
	s.bob = "player-bob"
	now := s.clock.Now()
	for _, p := range []struct {
		id   model.PlayerID
		name string
	}{{s.alice, "Alice"}, {s.bob, "Bob"}} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
			ID: p.id, Nickname: p.name, CreatedAt: now, UpdatedAt: now,
		}))
	}

	s.room = &model.Room{
		ID:        "room-1",
		Code:      "ABC123",
		CreatedBy: s.alice,
		Status:    model.RoomStatusWaiting,
		MaxRounds: model.DefaultMaxRounds,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room))
	for _, id := range []model.PlayerID{s.alice, s.bob} {
		s.Require().NoError(s.storage.AddRoomPlayer(s.ctx, &model.RoomPlayer{
			RoomID:   s.room.ID,
			PlayerID: id,
			JoinedAt: now,
		}))
	}

	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{
		ID: "fruits", Name: "Fruits", IsActive: true, CreatedAt: now,
	}))
	s.Require().NoError(s.storage.SaveCategory(s.ctx, &model.Category{
		ID: "animals", Name: "Animals", IsActive: true, CreatedAt: now,
	}))
}

func (s *ControllerSuite) startRound(number int) *model.GameRound {
	s.random.QueueIntn(0)
	s.random.QueueString("round-" + string(rune('0'+number)))
	round, err := s.controller.StartRound(s.ctx, s.room.ID, number)
	s.Require().NoError(err)
	return round
}

func (s *ControllerSuite) submit(round *model.GameRound, player model.PlayerID, answer string) {
	s.random.QueueString("answer-" + string(player))
	_, err := s.controller.SubmitAnswer(s.ctx, round.ID, round.RoomID, player, answer)
	s.Require().NoError(err)
}

// StartRound tests

func (s *ControllerSuite) TestStartRoundSucceeds() {
	round := s.startRound(1)

	s.Equal(s.room.ID, round.RoomID)
	s.Equal(1, round.RoundNumber)
	s.Equal(model.RoundStatusActive, round.Status)
	// Categories are sorted by name, so index 0 is Animals
	s.Equal("Animals", round.CategoryName)
	s.Equal(s.clock.Now(), round.StartedAt)
	s.Equal(s.clock.Now().Add(AnswerWindow), round.EndsAt)
}

func (s *ControllerSuite) TestStartRoundMarksRoomPlaying() {
	s.startRound(1)

	room, err := s.storage.GetRoom(s.ctx, s.room.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, room.Status)
	s.Equal(1, room.CurrentRound)
}

func (s *ControllerSuite) TestStartRoundIsRetrievableAsActive() {
	round := s.startRound(1)

	active, err := s.controller.GetActiveRound(s.ctx, s.room.ID)
	s.Require().NoError(err)
	s.Equal(round.ID, active.ID)
}

func (s *ControllerSuite) TestStartRoundPicksRandomCategory() {
	s.random.QueueIntn(1)
	s.random.QueueString("round-1")

	round, err := s.controller.StartRound(s.ctx, s.room.ID, 1)
	s.Require().NoError(err)
	s.Equal("Fruits", round.CategoryName)
}

func (s *ControllerSuite) TestStartRoundWithoutCategoriesFails() {
	empty := memory.New()
	s.Require().NoError(empty.SaveRoom(s.ctx, s.room))
	controller := NewController(empty, s.clock, s.random, testutil.NopLogger())

	_, err := controller.StartRound(s.ctx, s.room.ID, 1)
	s.ErrorIs(err, model.ErrNoCategories)
}

func (s *ControllerSuite) TestStartRoundOnFinishedRoomFails() {
	_, err := s.storage.FinishRoom(s.ctx, s.room.ID, s.clock.Now())
	s.Require().NoError(err)

	_, err = s.controller.StartRound(s.ctx, s.room.ID, 1)
	s.ErrorIs(err, model.ErrGameFinished)
}

func (s *ControllerSuite) TestStartRoundBeyondMaxRoundsFails() {
	_, err := s.controller.StartRound(s.ctx, s.room.ID, model.DefaultMaxRounds+1)
	s.ErrorIs(err, model.ErrGameFinished)
}

func (s *ControllerSuite) TestStartRoundUnknownRoomFails() {
	_, err := s.controller.StartRound(s.ctx, "nope", 1)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// SubmitAnswer tests

func (s *ControllerSuite) TestSubmitAnswerNormalizes() {
	round := s.startRound(1)

	s.random.QueueString("answer-1")
	answer, err := s.controller.SubmitAnswer(s.ctx, round.ID, round.RoomID, s.alice, "  ApPLe ")
	s.Require().NoError(err)

	s.Equal("apple", answer.Answer)
	s.Equal(0, answer.PointsEarned)
	s.Equal(s.clock.Now(), answer.SubmittedAt)
}

func (s *ControllerSuite) TestSubmitAnswerEmptyIsAllowed() {
	round := s.startRound(1)

	s.random.QueueString("answer-1")
	answer, err := s.controller.SubmitAnswer(s.ctx, round.ID, round.RoomID, s.alice, "")
	s.Require().NoError(err)
	s.Equal("", answer.Answer)
}

func (s *ControllerSuite) TestSubmitAnswerTwiceFails() {
	round := s.startRound(1)
	s.submit(round, s.alice, "apple")

	s.random.QueueString("answer-2")
	_, err := s.controller.SubmitAnswer(s.ctx, round.ID, round.RoomID, s.alice, "pear")
	s.ErrorIs(err, model.ErrAnswerAlreadySubmitted)
}

func (s *ControllerSuite) TestSubmitAnswerOnCompletedRoundFails() {
	round := s.startRound(1)
	s.submit(round, s.alice, "apple")
	s.submit(round, s.bob, "apple")
	_, err := s.controller.CalculateResults(s.ctx, round.ID)
	s.Require().NoError(err)

	s.random.QueueString("answer-3")
	_, err = s.controller.SubmitAnswer(s.ctx, round.ID, round.RoomID, s.bob, "late")
	s.ErrorIs(err, model.ErrRoundAlreadyCompleted)
}

// CalculateResults tests

func (s *ControllerSuite) TestCalculateResultsRequiresBothAnswers() {
	round := s.startRound(1)
	s.submit(round, s.alice, "apple")

	_, err := s.controller.CalculateResults(s.ctx, round.ID)
	s.ErrorIs(err, model.ErrRoundIncomplete)
}

func (s *ControllerSuite) TestCalculateResultsMatched() {
	round := s.startRound(1)
	s.submit(round, s.alice, "Apple")
	s.submit(round, s.bob, "apple ")

	result, err := s.controller.CalculateResults(s.ctx, round.ID)
	s.Require().NoError(err)

	s.True(result.SameAnswer)
	s.Require().Len(result.Answers, 2)
	for _, a := range result.Answers {
		s.Equal(model.PointsMatched, a.PointsEarned)
	}

	players, err := s.storage.GetRoomPlayers(s.ctx, s.room.ID)
	s.Require().NoError(err)
	for _, p := range players {
		s.Equal(model.PointsMatched, p.Score)
	}
}

func (s *ControllerSuite) TestCalculateResultsUnmatched() {
	round := s.startRound(1)
	s.submit(round, s.alice, "apple")
	s.submit(round, s.bob, "pear")

	result, err := s.controller.CalculateResults(s.ctx, round.ID)
	s.Require().NoError(err)

	s.False(result.SameAnswer)
	for _, a := range result.Answers {
		s.Equal(model.PointsUnmatched, a.PointsEarned)
	}
}

func (s *ControllerSuite) TestCalculateResultsCompletesRound() {
	round := s.startRound(1)
	s.submit(round, s.alice, "apple")
	s.submit(round, s.bob, "pear")

	_, err := s.controller.CalculateResults(s.ctx, round.ID)
	s.Require().NoError(err)

	completed, err := s.controller.GetRound(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Equal(model.RoundStatusCompleted, completed.Status)
	s.Equal(s.clock.Now(), completed.EndedAt)

	_, err = s.controller.GetActiveRound(s.ctx, s.room.ID)
	s.ErrorIs(err, model.ErrNoActiveRound)
}

func (s *ControllerSuite) TestCalculateResultsOnlyScoresOnce() {
	round := s.startRound(1)
	s.submit(round, s.alice, "apple")
	s.submit(round, s.bob, "apple")

	_, err := s.controller.CalculateResults(s.ctx, round.ID)
	s.Require().NoError(err)

	_, err = s.controller.CalculateResults(s.ctx, round.ID)
	s.ErrorIs(err, model.ErrRoundAlreadyCompleted)

	players, err := s.storage.GetRoomPlayers(s.ctx, s.room.ID)
	s.Require().NoError(err)
	for _, p := range players {
		s.Equal(model.PointsMatched, p.Score)
	}
}

func (s *ControllerSuite) TestResultsReadsStoredOutcome() {
	round := s.startRound(1)
	s.submit(round, s.alice, "apple")
	s.submit(round, s.bob, "apple")
	_, err := s.controller.CalculateResults(s.ctx, round.ID)
	s.Require().NoError(err)

	result, err := s.controller.Results(s.ctx, round.ID)
	s.Require().NoError(err)
	s.True(result.SameAnswer)
	for _, a := range result.Answers {
		s.Equal(model.PointsMatched, a.PointsEarned)
	}
}

func (s *ControllerSuite) TestResultsBeforeCompletionFails() {
	round := s.startRound(1)

	_, err := s.controller.Results(s.ctx, round.ID)
	s.ErrorIs(err, model.ErrRoundIncomplete)
}

// FinishGame tests

func (s *ControllerSuite) playRound(number int, aliceAnswer, bobAnswer string) {
	round := s.startRound(number)
	s.submit(round, s.alice, aliceAnswer)
	s.submit(round, s.bob, bobAnswer)
	_, err := s.controller.CalculateResults(s.ctx, round.ID)
	s.Require().NoError(err)
}

func (s *ControllerSuite) TestFinishGameAccruesStats() {
	s.playRound(1, "apple", "apple")
	s.playRound(2, "cat", "dog")

	s.Require().NoError(s.controller.FinishGame(s.ctx, s.room.ID))

	room, err := s.storage.GetRoom(s.ctx, s.room.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusFinished, room.Status)

	alice, err := s.storage.GetPlayer(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(model.PointsMatched+model.PointsUnmatched, alice.TotalScore)
	s.Equal(1, alice.GamesPlayed)
}

func (s *ControllerSuite) TestFinishGameTwiceAccruesOnce() {
	s.playRound(1, "apple", "apple")

	s.Require().NoError(s.controller.FinishGame(s.ctx, s.room.ID))
	s.Require().NoError(s.controller.FinishGame(s.ctx, s.room.ID))

	alice, err := s.storage.GetPlayer(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(model.PointsMatched, alice.TotalScore)
	s.Equal(1, alice.GamesPlayed)
}

// Advance tests

func (s *ControllerSuite) TestAdvanceStartsNextRound() {
	s.playRound(1, "apple", "apple")

	s.random.QueueIntn(0)
	s.random.QueueString("round-2")
	round, finished, err := s.controller.Advance(s.ctx, s.room.ID)
	s.Require().NoError(err)
	s.False(finished)
	s.Equal(2, round.RoundNumber)
}

func (s *ControllerSuite) TestAdvanceFinishesAfterLastRound() {
	answers := []string{"a", "b", "c", "d", "e"}
	for i := 1; i <= model.DefaultMaxRounds; i++ {
		s.playRound(i, answers[i-1], answers[i-1])
	}

	round, finished, err := s.controller.Advance(s.ctx, s.room.ID)
	s.Require().NoError(err)
	s.True(finished)
	s.Nil(round)

	room, err := s.storage.GetRoom(s.ctx, s.room.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStatusFinished, room.Status)
}

func (s *ControllerSuite) TestAdvanceOnFinishedRoomReportsFinished() {
	s.playRound(1, "apple", "apple")
	s.Require().NoError(s.controller.FinishGame(s.ctx, s.room.ID))

	_, finished, err := s.controller.Advance(s.ctx, s.room.ID)
	s.Require().NoError(err)
	s.True(finished)
}

// EnsureCategories tests

func (s *ControllerSuite) TestEnsureCategoriesSeedsEmptyStore() {
	empty := memory.New()
	controller := NewController(empty, s.clock, s.random, testutil.NopLogger())

	s.Require().NoError(controller.EnsureCategories(s.ctx))

	categories, err := empty.GetActiveCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(categories, len(defaultCategories))
}

func (s *ControllerSuite) TestEnsureCategoriesLeavesExistingAlone() {
	s.Require().NoError(s.controller.EnsureCategories(s.ctx))

	categories, err := s.storage.GetActiveCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(categories, 2)
}
