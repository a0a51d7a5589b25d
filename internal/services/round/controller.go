package round

import (
	"context"
	"log/slog"
	"time"

	"github.com/oyunca/wordmatch-go/internal/dependencies/clock"
	"github.com/oyunca/wordmatch-go/internal/dependencies/random"
	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/storage"
)

// AnswerWindow is how long players have to answer once a round starts
const AnswerWindow = 10 * time.Second

const (
	idLength   = 12
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Controller manages the round lifecycle from start through scoring
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new round Controller
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

// StartRound opens a round for the room with a randomly drawn category. The
// answer deadline is fixed at start so every participant counts down against
// the same instant.
func (c *Controller) StartRound(ctx context.Context, roomID model.RoomID, roundNumber int) (*model.GameRound, error) {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status == model.RoomStatusFinished {
		return nil, model.ErrGameFinished
	}
	if roundNumber > room.MaxRounds {
		return nil, model.ErrGameFinished
	}

	categories, err := c.storage.GetActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, model.ErrNoCategories
	}
	category := categories[c.random.Intn(len(categories))]

	now := c.clock.Now()
	round := &model.GameRound{
		ID:           model.RoundID(c.random.String(idLength, idAlphabet)),
		RoomID:       roomID,
		RoundNumber:  roundNumber,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Status:       model.RoundStatusActive,
		StartedAt:    now,
		EndsAt:       now.Add(AnswerWindow),
		CreatedAt:    now,
	}

	if err := c.storage.SaveRound(ctx, round); err != nil {
		return nil, err
	}

	room.Status = model.RoomStatusPlaying
	room.CurrentRound = roundNumber
	room.UpdatedAt = now
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("round started",
		slog.String("room_id", string(roomID)),
		slog.Int("round_number", roundNumber),
		slog.String("category", category.Name),
	)

	return round, nil
}

// SubmitAnswer records a player's answer for the round. Answers are normalized
// before storage so matching is case and whitespace insensitive. A second
// submission for the same round fails with ErrAnswerAlreadySubmitted.
func (c *Controller) SubmitAnswer(ctx context.Context, roundID model.RoundID, roomID model.RoomID, playerID model.PlayerID, raw string) (*model.PlayerAnswer, error) {
	round, err := c.storage.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status != model.RoundStatusActive {
		return nil, model.ErrRoundAlreadyCompleted
	}

	answer := &model.PlayerAnswer{
		ID:           model.AnswerID(c.random.String(idLength, idAlphabet)),
		RoundID:      roundID,
		PlayerID:     playerID,
		RoomID:       roomID,
		Answer:       model.NormalizeAnswer(raw),
		PointsEarned: 0,
		SubmittedAt:  c.clock.Now(),
	}

	if err := c.storage.SaveAnswer(ctx, answer); err != nil {
		return nil, err
	}

	c.logger.Info("answer submitted",
		slog.String("round_id", string(roundID)),
		slog.String("player_id", string(playerID)),
	)

	return answer, nil
}

// CalculateResults scores a round once both answers are in. The caller that
// wins the active-to-completed transition applies the scoring; everyone else
// gets ErrRoundAlreadyCompleted and should read the stored results instead.
// Matching answers earn both players PointsMatched, differing answers earn
// PointsUnmatched each.
func (c *Controller) CalculateResults(ctx context.Context, roundID model.RoundID) (*model.RoundResult, error) {
	answers, err := c.storage.GetAnswersForRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if len(answers) < model.RoomCapacity {
		return nil, model.ErrRoundIncomplete
	}

	won, err := c.storage.CompleteRound(ctx, roundID, c.clock.Now())
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, model.ErrRoundAlreadyCompleted
	}

	same := answers[0].Answer == answers[1].Answer
	points := model.PointsUnmatched
	if same {
		points = model.PointsMatched
	}

	for i := range answers {
		if err := c.storage.SetAnswerPoints(ctx, roundID, answers[i].PlayerID, points); err != nil {
			return nil, err
		}
		if err := c.storage.IncrementRoomPlayerScore(ctx, answers[i].RoomID, answers[i].PlayerID, points); err != nil {
			return nil, err
		}
		answers[i].PointsEarned = points
	}

	c.logger.Info("round scored",
		slog.String("round_id", string(roundID)),
		slog.Bool("matched", same),
		slog.Int("points", points),
	)

	return &model.RoundResult{Answers: answers, SameAnswer: same}, nil
}

// Results returns the stored outcome of a completed round
func (c *Controller) Results(ctx context.Context, roundID model.RoundID) (*model.RoundResult, error) {
	round, err := c.storage.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status != model.RoundStatusCompleted {
		return nil, model.ErrRoundIncomplete
	}
	answers, err := c.storage.GetAnswersForRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	same := len(answers) == model.RoomCapacity && answers[0].Answer == answers[1].Answer
	return &model.RoundResult{Answers: answers, SameAnswer: same}, nil
}

// FinishGame ends the game and folds each player's room score into their
// lifetime stats. The store's conditional transition guarantees the accrual
// runs at most once even when both players request the finish.
func (c *Controller) FinishGame(ctx context.Context, roomID model.RoomID) error {
	won, err := c.storage.FinishRoom(ctx, roomID, c.clock.Now())
	if err != nil {
		return err
	}
	if !won {
		// Already finished; stats were accrued by the first caller
		return nil
	}

	players, err := c.storage.GetRoomPlayers(ctx, roomID)
	if err != nil {
		return err
	}
	for _, p := range players {
		if err := c.storage.AccrueGameStats(ctx, p.PlayerID, p.Score); err != nil {
			return err
		}
	}

	c.logger.Info("game finished",
		slog.String("room_id", string(roomID)),
		slog.Int("players", len(players)),
	)

	return nil
}

// Advance starts the next round, or finishes the game when the room has
// played its last one. It reports whether the game finished.
func (c *Controller) Advance(ctx context.Context, roomID model.RoomID) (*model.GameRound, bool, error) {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, false, err
	}
	if room.Status == model.RoomStatusFinished {
		return nil, true, nil
	}

	next := room.CurrentRound + 1
	if next > room.MaxRounds {
		if err := c.FinishGame(ctx, roomID); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	round, err := c.StartRound(ctx, roomID, next)
	if err != nil {
		return nil, false, err
	}
	return round, false, nil
}

// GetRound retrieves a round by id
func (c *Controller) GetRound(ctx context.Context, id model.RoundID) (*model.GameRound, error) {
	return c.storage.GetRound(ctx, id)
}

// GetActiveRound retrieves the room's currently active round
func (c *Controller) GetActiveRound(ctx context.Context, roomID model.RoomID) (*model.GameRound, error) {
	return c.storage.GetActiveRound(ctx, roomID)
}

// GetAnswers lists the answers submitted for a round
func (c *Controller) GetAnswers(ctx context.Context, roundID model.RoundID) ([]model.PlayerAnswer, error) {
	return c.storage.GetAnswersForRound(ctx, roundID)
}

// Interface for dependency injection
type ControllerInterface interface {
	StartRound(ctx context.Context, roomID model.RoomID, roundNumber int) (*model.GameRound, error)
	SubmitAnswer(ctx context.Context, roundID model.RoundID, roomID model.RoomID, playerID model.PlayerID, raw string) (*model.PlayerAnswer, error)
	CalculateResults(ctx context.Context, roundID model.RoundID) (*model.RoundResult, error)
	Results(ctx context.Context, roundID model.RoundID) (*model.RoundResult, error)
	FinishGame(ctx context.Context, roomID model.RoomID) error
	Advance(ctx context.Context, roomID model.RoomID) (*model.GameRound, bool, error)
	GetRound(ctx context.Context, id model.RoundID) (*model.GameRound, error)
	GetActiveRound(ctx context.Context, roomID model.RoomID) (*model.GameRound, error)
	GetAnswers(ctx context.Context, roundID model.RoundID) ([]model.PlayerAnswer, error)
}

var _ ControllerInterface = (*Controller)(nil)
