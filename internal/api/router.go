package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oyunca/wordmatch-go/internal/api/handler"
	"github.com/oyunca/wordmatch-go/internal/api/middleware"
	"github.com/oyunca/wordmatch-go/internal/dependencies/clock"
	innermw "github.com/oyunca/wordmatch-go/internal/middleware"
	"github.com/oyunca/wordmatch-go/internal/services/registry"
	"github.com/oyunca/wordmatch-go/internal/services/round"
	"github.com/oyunca/wordmatch-go/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	RegistryController registry.ControllerInterface
	RoundController    round.ControllerInterface
	Clock              clock.Clock
	HubManager         *sse.HubManager
	Broadcaster        *sse.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.RegistryController)
	roomHandler := handler.NewRoomHandler(cfg.RegistryController)
	roundHandler := handler.NewRoundHandler(cfg.RegistryController, cfg.RoundController, cfg.Clock)

	loggingMiddleware := innermw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)

	// Room routes
	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/players", roomHandler.Players).Methods(http.MethodGet)

	// Round routes
	api.HandleFunc("/rooms/{code}/rounds", roundHandler.Advance).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/rounds/current", roundHandler.Current).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/answers", roundHandler.SubmitAnswer).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/rounds/{round_id}/results", roundHandler.Score).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/rounds/{round_id}/results", roundHandler.Results).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/finish", roundHandler.Finish).Methods(http.MethodPost)

	// Event stream (only when SSE is wired up)
	if cfg.HubManager != nil && cfg.Broadcaster != nil {
		eventsHandler := handler.NewEventsHandler(cfg.RegistryController, cfg.HubManager, cfg.Broadcaster)
		api.HandleFunc("/rooms/{code}/events", eventsHandler.Stream).Methods(http.MethodGet)
	}

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
