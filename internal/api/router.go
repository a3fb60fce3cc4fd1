package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quizwire/quizwire/internal/api/handler"
	apimiddleware "github.com/quizwire/quizwire/internal/api/middleware"
	"github.com/quizwire/quizwire/internal/coordinator"
	"github.com/quizwire/quizwire/internal/middleware"
	"github.com/quizwire/quizwire/internal/transport/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *coordinator.Coordinator
}

// NewRouter creates the router for the REST API and the websocket
// endpoints
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.Coordinator)
	wsHandler := ws.NewHandler(cfg.Coordinator, cfg.Logger)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// REST API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}/leaderboard", sessionHandler.Leaderboard).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Websocket endpoints live outside the REST subrouter; the logging
	// middleware still applies and supports the connection upgrade.
	live := r.PathPrefix("/ws").Subrouter()
	live.Use(loggingMiddleware)
	live.HandleFunc("/play", wsHandler.ServePlay).Methods(http.MethodGet)
	live.HandleFunc("/host", wsHandler.ServeHost).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
