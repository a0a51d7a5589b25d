package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oyunca/wordmatch-go/internal/dependencies/clock"
	"github.com/oyunca/wordmatch-go/internal/model"
	"github.com/oyunca/wordmatch-go/internal/services/round"
	"github.com/oyunca/wordmatch-go/internal/storage"
)

// DefaultTickInterval is how often the countdown refreshes
const DefaultTickInterval = time.Second

// updateBufferSize is the capacity of the snapshot channel
const updateBufferSize = 16

// Snapshot is a point-in-time view of the game for one player
type Snapshot struct {
	Room      *model.Room
	Players   []model.RoomPlayer
	Round     *model.GameRound
	Answers   []model.PlayerAnswer
	Phase     Phase
	TimeLeft  int
	Countdown bool
}

// Session replicates one room's state for one player. It pulls the full state
// on attach, then keeps it fresh from the store's change feed. The session
// owns its countdown ticker and the one goroutine that touches local state,
// so no locking is needed around the replicated fields.
type Session struct {
	storage  storage.Storage
	rounds   round.ControllerInterface
	clock    clock.Clock
	logger   *slog.Logger
	roomID   model.RoomID
	playerID model.PlayerID

	tickInterval time.Duration

	room    *model.Room
	players []model.RoomPlayer
	round   *model.GameRound
	answers []model.PlayerAnswer

	autoSubmitted map[model.RoundID]bool

	events      <-chan model.ChangeEvent
	unsubscribe storage.UnsubscribeFunc
	ticker      clock.Ticker
	updates     chan Snapshot
	cancel      context.CancelFunc
	done        chan struct{}
	closeOnce   sync.Once
}

// NewSession creates a session for the given player in the given room
func NewSession(
	storage storage.Storage,
	rounds round.ControllerInterface,
	clock clock.Clock,
	logger *slog.Logger,
	roomID model.RoomID,
	playerID model.PlayerID,
) *Session {
	return &Session{
		storage:       storage,
		rounds:        rounds,
		clock:         clock,
		logger:        logger.With(slog.String("room_id", string(roomID)), slog.String("player_id", string(playerID))),
		roomID:        roomID,
		playerID:      playerID,
		tickInterval:  DefaultTickInterval,
		autoSubmitted: make(map[model.RoundID]bool),
		updates:       make(chan Snapshot, updateBufferSize),
		done:          make(chan struct{}),
	}
}

// Updates returns the snapshot stream. A new snapshot is emitted after every
// applied change and every countdown tick. Slow consumers miss intermediate
// snapshots rather than blocking the session.
func (s *Session) Updates() <-chan Snapshot {
	return s.updates
}

// Attach pulls the room's current state, subscribes to its change feed, and
// starts the session loop. The first snapshot is emitted before Attach
// returns.
func (s *Session) Attach(ctx context.Context) error {
	// Subscribe before the pull so changes landing during the pull are
	// buffered rather than missed
	events, unsubscribe, err := s.storage.Subscribe(ctx, s.roomID)
	if err != nil {
		return err
	}

	if err := s.pull(ctx); err != nil {
		unsubscribe()
		return err
	}

	s.events = events
	s.unsubscribe = unsubscribe
	s.ticker = s.clock.NewTicker(s.tickInterval)

	s.emit()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.run(runCtx)
	return nil
}

// Close stops the ticker, tears down the subscription, and waits for the
// session loop to exit. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.cancel == nil {
			// Attach never completed; nothing is running
			return
		}
		s.cancel()
		s.ticker.Stop()
		s.unsubscribe()
		<-s.done
	})
}

// SubmitAnswer submits this player's answer for the room's active round. It
// resolves the round from the store rather than local state, since callers
// run outside the session goroutine.
func (s *Session) SubmitAnswer(ctx context.Context, answer string) error {
	r, err := s.storage.GetActiveRound(ctx, s.roomID)
	if err != nil {
		return err
	}
	_, err = s.rounds.SubmitAnswer(ctx, r.ID, s.roomID, s.playerID, answer)
	return err
}

// pull fetches the full room state. The room itself must exist; everything
// downstream of it is optional and simply absent early in the game.
func (s *Session) pull(ctx context.Context) error {
	room, err := s.storage.GetRoom(ctx, s.roomID)
	if err != nil {
		return err
	}
	s.room = room

	players, err := s.storage.GetRoomPlayers(ctx, s.roomID)
	if err != nil {
		return err
	}
	s.players = players

	r, err := s.storage.GetActiveRound(ctx, s.roomID)
	if errors.Is(err, model.ErrNoActiveRound) {
		r, err = s.storage.GetLatestCompletedRound(ctx, s.roomID)
		if errors.Is(err, model.ErrRoundNotFound) {
			s.round = nil
			s.answers = nil
			return nil
		}
	}
	if err != nil {
		return err
	}
	s.round = r

	answers, err := s.storage.GetAnswersForRound(ctx, r.ID)
	if err != nil {
		return err
	}
	s.answers = answers
	return nil
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.events:
			if !ok {
				return
			}
			s.handleEvent(ctx, event)
			s.emit()
		case now := <-s.ticker.C():
			s.handleTick(ctx, now)
		}
	}
}

// handleEvent refreshes the slice of state the event names. Refresh failures
// leave the local copy stale until the next event; they are logged, never
// fatal to the session.
func (s *Session) handleEvent(ctx context.Context, event model.ChangeEvent) {
	switch event.Kind {
	case model.ChangeRoom:
		room, err := s.storage.GetRoom(ctx, s.roomID)
		if err != nil {
			s.logger.Warn("room refresh failed", slog.String("error", err.Error()))
			return
		}
		s.room = room

	case model.ChangeRoomPlayers:
		players, err := s.storage.GetRoomPlayers(ctx, s.roomID)
		if err != nil {
			s.logger.Warn("players refresh failed", slog.String("error", err.Error()))
			return
		}
		s.players = players

	case model.ChangeRound:
		r, err := s.storage.GetRound(ctx, event.RoundID)
		if err != nil {
			s.logger.Warn("round refresh failed", slog.String("error", err.Error()))
			return
		}
		if s.round == nil || s.round.ID != r.ID {
			// New round; answers from the previous one no longer apply
			s.answers = nil
		}
		s.round = r

	case model.ChangeAnswer:
		if s.round == nil || event.RoundID != s.round.ID {
			return
		}
		answers, err := s.storage.GetAnswersForRound(ctx, s.round.ID)
		if err != nil {
			s.logger.Warn("answers refresh failed", slog.String("error", err.Error()))
			return
		}
		s.answers = answers
		s.maybeScore(ctx)
	}
}

// maybeScore triggers scoring once both answers are in. Both sessions race to
// do this; the store lets exactly one win, so losing is expected and quiet.
func (s *Session) maybeScore(ctx context.Context) {
	if s.round == nil || s.round.Status != model.RoundStatusActive {
		return
	}
	if len(s.answers) < model.RoomCapacity {
		return
	}
	if _, err := s.rounds.CalculateResults(ctx, s.round.ID); err != nil {
		if errors.Is(err, model.ErrRoundAlreadyCompleted) || errors.Is(err, model.ErrRoundIncomplete) {
			return
		}
		s.logger.Warn("scoring failed", slog.String("error", err.Error()))
	}
}

// handleTick drives the countdown. When the deadline passes and this player
// has not answered, an empty answer is submitted on their behalf.
func (s *Session) handleTick(ctx context.Context, now time.Time) {
	r := s.round
	if r == nil || r.Status != model.RoundStatusActive {
		return
	}

	if r.Remaining(now) == 0 && !s.hasOwnAnswer() && !s.autoSubmitted[r.ID] {
		s.autoSubmitted[r.ID] = true
		if _, err := s.rounds.SubmitAnswer(ctx, r.ID, s.roomID, s.playerID, ""); err != nil {
			if !errors.Is(err, model.ErrAnswerAlreadySubmitted) && !errors.Is(err, model.ErrRoundAlreadyCompleted) {
				s.logger.Warn("auto-submit failed", slog.String("error", err.Error()))
			}
		}
	}

	s.emit()
}

func (s *Session) hasOwnAnswer() bool {
	for _, a := range s.answers {
		if a.PlayerID == s.playerID {
			return true
		}
	}
	return false
}

// emit publishes a snapshot of the current state, dropping it if the consumer
// is behind
func (s *Session) emit() {
	now := s.clock.Now()
	snapshot := Snapshot{
		Room:    s.room,
		Players: s.players,
		Round:   s.round,
		Answers: s.answers,
		Phase:   DerivePhase(s.room, s.round, s.answers, s.playerID),
	}
	if s.round != nil && s.round.Status == model.RoundStatusActive {
		snapshot.TimeLeft = s.round.Remaining(now)
		snapshot.Countdown = true
	}

	select {
	case s.updates <- snapshot:
	default:
	}
}
