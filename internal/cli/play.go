package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oyunca/wordmatch-go/internal/config"
	"github.com/oyunca/wordmatch-go/internal/factory"
	"github.com/oyunca/wordmatch-go/internal/model"
	gamesync "github.com/oyunca/wordmatch-go/internal/services/sync"
	redisstorage "github.com/oyunca/wordmatch-go/internal/storage/redis"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <code>",
		Short: "Play a game live from the terminal",
		Long: `Attach to a room and play interactively.

The command connects straight to the game store (configure it with the same
WORDMATCH_ environment variables as the server) and keeps the view in sync
with the other player in real time.

During a round, type your answer and press enter. Other commands:
  /next    advance to the next round (room creator only)
  /finish  end the game
  /quit    leave`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(args[0])
		},
	}

	return cmd
}

func runPlay(code string) error {
	playerID, err := requirePlayerID()
	if err != nil {
		return err
	}

	appCfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelError
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: appCfg.StorageType,
	}
	if appCfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = appCfg.RedisURL
		redisCfg.Password = appCfg.RedisPassword
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	room, err := app.RegistryController.GetRoomByCode(ctx, model.RoomCode(code))
	if err != nil {
		return err
	}

	session := gamesync.NewSession(app.Storage, app.RoundController, app.Clock, logger, room.ID, model.PlayerID(playerID))
	if err := session.Attach(ctx); err != nil {
		return err
	}
	defer session.Close()

	fmt.Printf("Joined room %s. Type an answer during a round; /next, /finish, /quit.\n", code)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	renderer := newPlayRenderer(model.PlayerID(playerID))

	for {
		select {
		case <-ctx.Done():
			return nil

		case snapshot := <-session.Updates():
			renderer.render(snapshot)
			if snapshot.Phase == gamesync.PhaseFinished {
				return nil
			}

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := handleInput(ctx, app, room.ID, session, line); err != nil {
				if err == errQuit {
					return nil
				}
				fmt.Printf("! %s\n", err)
			}
		}
	}
}

var errQuit = fmt.Errorf("quit")

func handleInput(ctx context.Context, app *factory.App, roomID model.RoomID, session *gamesync.Session, line string) error {
	line = strings.TrimSpace(line)
	switch line {
	case "/quit":
		return errQuit

	case "/next":
		_, finished, err := app.RoundController.Advance(ctx, roomID)
		if err != nil {
			return err
		}
		if finished {
			fmt.Println("No rounds left; game finished.")
		}
		return nil

	case "/finish":
		return app.RoundController.FinishGame(ctx, roomID)

	default:
		return session.SubmitAnswer(ctx, line)
	}
}

// playRenderer prints state transitions without repeating unchanged lines
type playRenderer struct {
	self      model.PlayerID
	lastPhase gamesync.Phase
	lastRound model.RoundID
	lastTick  int
}

func newPlayRenderer(self model.PlayerID) *playRenderer {
	return &playRenderer{self: self, lastTick: -1}
}

func (r *playRenderer) render(s gamesync.Snapshot) {
	roundChanged := s.Round != nil && s.Round.ID != r.lastRound
	phaseChanged := s.Phase != r.lastPhase

	if s.Round != nil {
		r.lastRound = s.Round.ID
	}
	if !roundChanged && !phaseChanged {
		if s.Countdown && s.TimeLeft != r.lastTick {
			r.lastTick = s.TimeLeft
			fmt.Printf("  %ds left...\n", s.TimeLeft)
		}
		return
	}
	r.lastPhase = s.Phase
	r.lastTick = -1

	switch s.Phase {
	case gamesync.PhaseLobby:
		fmt.Printf("Waiting in the lobby (%d/2 players).\n", len(s.Players))

	case gamesync.PhaseAnswering:
		fmt.Printf("\nRound %d: %s! You have %d seconds.\n", s.Round.RoundNumber, s.Round.CategoryName, s.TimeLeft)

	case gamesync.PhaseWaiting:
		fmt.Println("Answer in. Waiting for the other player...")

	case gamesync.PhaseResults:
		r.renderResults(s)

	case gamesync.PhaseFinished:
		r.renderFinal(s)
	}
}

func (r *playRenderer) renderResults(s gamesync.Snapshot) {
	matched := len(s.Answers) == 2 && s.Answers[0].Answer == s.Answers[1].Answer
	if matched {
		fmt.Println("\nMatch! Both of you said the same thing.")
	} else {
		fmt.Println("\nNo match this time.")
	}
	for _, a := range s.Answers {
		who := string(a.PlayerID)
		if a.PlayerID == r.self {
			who = "you"
		}
		fmt.Printf("  %s: %q (+%d)\n", who, a.Answer, a.PointsEarned)
	}
	fmt.Println("Scores:")
	for _, p := range s.Players {
		fmt.Printf("  %s: %d\n", p.Nickname, p.Score)
	}
}

func (r *playRenderer) renderFinal(s gamesync.Snapshot) {
	fmt.Println("\nGame over! Final scores:")
	for _, p := range s.Players {
		fmt.Printf("  %s: %d\n", p.Nickname, p.Score)
	}
}
