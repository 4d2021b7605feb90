package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/guildhall/internal/auth/service"
	"github.com/aussiebroadwan/guildhall/internal/auth/store"
	"github.com/aussiebroadwan/guildhall/pkg/sessionsdk"
	"github.com/aussiebroadwan/guildhall/pkg/slogx"
)

// writeSessionError maps a session lifecycle error onto a response. Every
// reason a session is unusable collapses into one invalid_grant answer;
// anything else is a server error and is logged.
func writeSessionError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case service.IsSessionInvalid(err):
		sessionsdk.ErrSessionInvalid.WriteError(w)
	case errors.Is(err, service.ErrInvalidUser):
		sessionsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, store.ErrNotFound):
		sessionsdk.ErrUserNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error(op+" failed", slog.Any("err", err))
		sessionsdk.ErrServerError.WriteError(w)
	}
}
