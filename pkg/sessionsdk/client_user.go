package sessionsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SyncIdentity pushes the latest identity of userID. A role change or a
// deactivation revokes all of the user's sessions. Requires ServiceToken.
func (c *SDKClient) SyncIdentity(ctx context.Context, userID int64, identity Identity) (*SyncIdentityResponse, error) {
	headers, err := c.serviceHeaders("application/json")
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode identity: %w", err)
	}

	path := fmt.Sprintf("/v1/users/%d", userID)
	resp, err := c.doRequest(ctx, http.MethodPut, path, bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var out SyncIdentityResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the verified claims of accessToken.
func (c *SDKClient) Me(ctx context.Context, accessToken string) (*MeResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/me", nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}

	var out MeResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
