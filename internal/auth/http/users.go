package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
	"github.com/aussiebroadwan/guildhall/internal/auth/service"
	"github.com/aussiebroadwan/guildhall/pkg/httpx"
	"github.com/aussiebroadwan/guildhall/pkg/sessionsdk"
	"github.com/aussiebroadwan/guildhall/pkg/slogx"
)

type UsersHandler struct {
	Users *service.UserService
}

// HandleSync godoc
//
//	@Summary		Sync a user identity
//	@Description	Stores the platform's current view of a user. A role change or deactivation revokes all of the user's sessions.
//	@Tags			Users
//	@Security		ServiceToken
//	@Accept			json
//	@Produce		json
//	@Param			id			path		int								true	"Platform user id"
//	@Param			identity	body		sessionsdk.Identity				true	"Identity"
//	@Success		200			{object}	sessionsdk.SyncIdentityResponse	"user_id, revoked"
//	@Failure		400			{object}	sessionsdk.ErrorResponse		"error, error_description"
//	@Failure		401			{object}	sessionsdk.ErrorResponse		"error, error_description"
//	@Failure		415			{object}	sessionsdk.ErrorResponse		"error, error_description"
//	@Failure		500			{object}	sessionsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/users/{id} [put].
func (h *UsersHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	ctx := slogx.WithUserID(r.Context(), userID)

	var in sessionsdk.Identity
	if err := httpx.ReadJSON(w, r, &in); err != nil {
		if errors.Is(err, httpx.ErrContentType) {
			sessionsdk.ErrInvalidContentType.WriteError(w)
			return
		}
		sessionsdk.ErrInvalidFormBody.WriteError(w)
		return
	}
	if strings.TrimSpace(in.Username) == "" {
		sessionsdk.NewOAuth2Error(http.StatusBadRequest, sessionsdk.ErrorCodeInvalidRequest, "username is required").WriteError(w)
		return
	}

	revoked, err := h.Users.SyncIdentity(ctx, domain.UserIdentity{
		ID:              userID,
		Username:        strings.TrimSpace(in.Username),
		Email:           strings.TrimSpace(in.Email),
		Role:            strings.TrimSpace(in.Role),
		AvatarURL:       in.AvatarURL,
		Level:           in.Level,
		XP:              in.XP,
		IsActive:        in.IsActive,
		IsEmailVerified: in.IsEmailVerified,
	})
	if err != nil {
		writeSessionError(w, r, "sync identity", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionsdk.SyncIdentityResponse{UserID: userID, Revoked: revoked})
}
