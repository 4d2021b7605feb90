package sessionsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// IssueSession opens a session for userID. Requires ServiceToken.
func (c *SDKClient) IssueSession(ctx context.Context, userID int64) (*SessionResponse, error) {
	headers, err := c.serviceHeaders("application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}

	form := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions", strings.NewReader(form.Encode()), headers)
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshSession rotates a session. The access token may be expired but
// must carry a valid signature. On success the old refresh token is dead.
func (c *SDKClient) RefreshSession(ctx context.Context, accessToken, refreshToken string) (*SessionResponse, error) {
	form := url.Values{
		"access_token":  {accessToken},
		"refresh_token": {refreshToken},
	}
	resp, err := c.postForm(ctx, "/v1/sessions/refresh", form, "")
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeSession revokes a refresh token. The service answers 200 whether
// or not the token was live, so a nil error says nothing about its state.
func (c *SDKClient) RevokeSession(ctx context.Context, refreshToken string) error {
	resp, err := c.postForm(ctx, "/v1/sessions/revoke", url.Values{"refresh_token": {refreshToken}}, "")
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// RevokeAllSessions revokes every active session of userID. Requires
// ServiceToken.
func (c *SDKClient) RevokeAllSessions(ctx context.Context, userID int64) (*RevokeAllResponse, error) {
	headers, err := c.serviceHeaders("")
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/v1/users/%d/sessions/revoke", userID)
	resp, err := c.doRequest(ctx, http.MethodPost, path, nil, headers)
	if err != nil {
		return nil, err
	}

	var out RevokeAllResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// PurgeExpired deletes refresh records that expired before the service's
// current time. Requires ServiceToken.
func (c *SDKClient) PurgeExpired(ctx context.Context) (*PurgeResponse, error) {
	headers, err := c.serviceHeaders("")
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions/purge", nil, headers)
	if err != nil {
		return nil, err
	}

	var out PurgeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
