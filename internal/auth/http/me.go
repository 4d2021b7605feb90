package http

import (
	"net/http"

	"github.com/aussiebroadwan/guildhall/internal/auth/service"
	"github.com/aussiebroadwan/guildhall/pkg/httpx"
	"github.com/aussiebroadwan/guildhall/pkg/sessionsdk"
	"github.com/aussiebroadwan/guildhall/pkg/slogx"
)

type MeHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Current user
//	@Description	Echoes the verified claims of the bearer access token, plus the number of active sessions of the user.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	sessionsdk.MeResponse		"claims"
//	@Failure		401	{object}	sessionsdk.ErrorResponse	"invalid_token"
//	@Failure		500	{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		sessionsdk.ErrInvalidToken.WriteError(w)
		return
	}
	userID, err := service.SubjectID(claims)
	if err != nil {
		sessionsdk.ErrInvalidToken.WriteError(w)
		return
	}

	active, err := h.Sessions.ActiveSessions(ctx, userID)
	if err != nil {
		log.Warn("failed to count sessions", "user_id", userID, "err", err)
		sessionsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionsdk.MeResponse{
		UserID:         userID,
		Username:       claims.Username,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
		Role:           claims.Role,
		AvatarURL:      claims.AvatarURL,
		Level:          claims.Level,
		XP:             claims.XP,
		ExpiresAt:      claims.ExpiresAt.Time.UTC(),
		ActiveSessions: active,
	})
}
