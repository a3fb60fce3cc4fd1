package middleware

import (
	"log/slog"
	"net/http"

	"github.com/quizwire/quizwire/internal/api/apierr"
	"github.com/quizwire/quizwire/internal/middleware"
)

// Recovery is the REST API's panic recovery: panics become the API's
// standard JSON internal-error envelope.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
