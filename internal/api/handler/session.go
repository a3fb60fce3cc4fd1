// Package handler implements the REST endpoints. The live protocol
// itself runs over websockets; these endpoints cover session creation
// and read-only inspection.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quizwire/quizwire/internal/api/apierr"
	"github.com/quizwire/quizwire/internal/api/request"
	"github.com/quizwire/quizwire/internal/api/response"
	"github.com/quizwire/quizwire/internal/coordinator"
	"github.com/quizwire/quizwire/internal/model"
)

// SessionHandler handles session-related endpoints
type SessionHandler struct {
	coordinator *coordinator.Coordinator
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(coord *coordinator.Coordinator) *SessionHandler {
	return &SessionHandler{coordinator: coord}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}
	if req.QuizID == "" || req.HostID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("quiz_id and host_id are required"))
		return
	}

	code, err := h.coordinator.CreateSession(r.Context(), model.QuizID(req.QuizID), req.HostID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreatedSession{
		Code:   string(code),
		QuizID: req.QuizID,
		HostID: req.HostID,
	})
}

// Get handles GET /api/v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	status, err := h.coordinator.Status(code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionStatusFromCoordinator(status))
}

// Leaderboard handles GET /api/v1/sessions/{code}/leaderboard
func (h *SessionHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	entries, err := h.coordinator.Leaderboard(code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{Entries: entries})
}
