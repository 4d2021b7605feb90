package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/guildhall/internal/auth/domain"
	"github.com/aussiebroadwan/guildhall/internal/auth/service"
	"github.com/aussiebroadwan/guildhall/pkg/httpx"
	"github.com/aussiebroadwan/guildhall/pkg/sessionsdk"
	"github.com/aussiebroadwan/guildhall/pkg/slogx"
)

// SessionsHandler serves the session lifecycle endpoints. Bodies are
// application/x-www-form-urlencoded.
type SessionsHandler struct {
	Sessions *service.SessionService
	Users    *service.UserService
	Clock    func() time.Time
}

func (h *SessionsHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock().UTC()
	}
	return time.Now().UTC()
}

// parseForm enforces the media type and parses the body.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if !httpx.HasContentType(r, "application/x-www-form-urlencoded") {
		sessionsdk.ErrInvalidContentType.WriteError(w)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		sessionsdk.ErrInvalidFormBody.WriteError(w)
		return false
	}
	return true
}

func sessionResponse(pair *domain.SessionPair, now time.Time) sessionsdk.SessionResponse {
	return sessionsdk.SessionResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int(pair.AccessExpiresAt.Sub(now).Seconds()),
		RefreshExpiresIn: int(pair.RefreshExpiresAt.Sub(now).Seconds()),
	}
}

// HandleIssue godoc
//
//	@Summary		Open a session
//	@Description	Issues an access token and a refresh token for a user the platform has already authenticated.
//	@Tags			Sessions
//	@Security		ServiceToken
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			user_id	formData	int							true	"Platform user id"
//	@Success		201		{object}	sessionsdk.SessionResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	sessionsdk.ErrorResponse	"user is inactive"
//	@Failure		404		{object}	sessionsdk.ErrorResponse	"user not found"
//	@Failure		500		{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/sessions [post].
func (h *SessionsHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !parseForm(w, r) {
		return
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("user_id")), 10, 64)
	if err != nil || userID <= 0 {
		sessionsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	ctx = slogx.WithUserID(ctx, userID)

	user, err := h.Users.Lookup(ctx, userID)
	if err != nil {
		writeSessionError(w, r, "user lookup", err)
		return
	}

	pair, err := h.Sessions.IssueSession(ctx, user)
	if err != nil {
		if errors.Is(err, service.ErrUserInactive) {
			sessionsdk.ErrUserInactive.WriteError(w)
			return
		}
		writeSessionError(w, r, "issue session", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(pair, h.now()))
}

// HandleRefresh godoc
//
//	@Summary		Refresh a session
//	@Description	Consumes the refresh token and returns a new pair. The access token must carry a valid signature but must have expired.
//	@Description	Every failure is reported as invalid_grant; the client should ask the user to log in again.
//	@Tags			Sessions
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			access_token	formData	string						true	"The access token issued with the refresh token"
//	@Param			refresh_token	formData	string						true	"The refresh token"
//	@Success		200				{object}	sessionsdk.SessionResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400				{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		401				{object}	sessionsdk.ErrorResponse	"invalid_grant"
//	@Failure		500				{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Header			200				{string}	Cache-Control				"no-store"
//	@Router			/v1/sessions/refresh [post].
func (h *SessionsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	access := strings.TrimSpace(r.Form.Get("access_token"))
	refresh := strings.TrimSpace(r.Form.Get("refresh_token"))
	if access == "" || refresh == "" {
		sessionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.Sessions.RefreshSession(r.Context(), access, refresh)
	if err != nil {
		writeSessionError(w, r, "refresh session", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse(pair, h.now()))
}

// HandleRevoke godoc
//
//	@Summary		Revoke a session
//	@Description	Revokes a refresh token (RFC 7009 style). Returns 200 for unknown, expired or already revoked tokens so the endpoint cannot be used to probe tokens.
//	@Tags			Sessions
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			refresh_token	formData	string	true	"The refresh token to revoke"
//	@Success		200				"Revoked, or was already unusable"
//	@Failure		400				{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		500				{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/sessions/revoke [post].
func (h *SessionsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	refresh := strings.TrimSpace(r.Form.Get("refresh_token"))
	if refresh == "" {
		sessionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if _, err := h.Sessions.RevokeSession(r.Context(), refresh); err != nil {
		writeSessionError(w, r, "revoke session", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

// HandleRevokeAll godoc
//
//	@Summary		Revoke all sessions of a user
//	@Description	Revokes every active refresh token of the user. Access tokens already issued stay valid until they expire.
//	@Tags			Sessions
//	@Security		ServiceToken
//	@Produce		json
//	@Param			id	path		int							true	"Platform user id"
//	@Success		200	{object}	sessionsdk.RevokeAllResponse	"user_id, revoked"
//	@Failure		400	{object}	sessionsdk.ErrorResponse		"error, error_description"
//	@Failure		401	{object}	sessionsdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	sessionsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/users/{id}/sessions/revoke [post].
func (h *SessionsHandler) HandleRevokeAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUserID(w, r)
	if !ok {
		return
	}
	ctx := slogx.WithUserID(r.Context(), userID)

	n, err := h.Sessions.RevokeAllSessions(ctx, userID)
	if err != nil {
		writeSessionError(w, r, "revoke all sessions", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionsdk.RevokeAllResponse{UserID: userID, Revoked: n})
}

// HandlePurge godoc
//
//	@Summary		Purge expired sessions
//	@Description	Deletes refresh records that expired before now. Consumed and revoked records are kept until they expire.
//	@Tags			Sessions
//	@Security		ServiceToken
//	@Produce		json
//	@Success		200	{object}	sessionsdk.PurgeResponse	"deleted, before"
//	@Failure		401	{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/sessions/purge [post].
func (h *SessionsHandler) HandlePurge(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	n, err := h.Sessions.PurgeExpired(r.Context(), now)
	if err != nil {
		writeSessionError(w, r, "purge sessions", err)
		return
	}

	slogx.FromContext(r.Context()).Info("expired sessions purged", slog.Int64("deleted", n))
	httpx.WriteJSON(w, http.StatusOK, sessionsdk.PurgeResponse{Deleted: n, Before: now})
}

func pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		sessionsdk.ErrInvalidRequest.WriteError(w)
		return 0, false
	}
	return id, true
}

