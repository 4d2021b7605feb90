package sessionsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the Guildhall session service.
//
// Operations that act on behalf of the platform (opening sessions, bulk
// revocation, purging, identity sync) need ServiceToken. Refresh and
// revoke only need the session's own tokens.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// ServiceToken is the shared secret of platform services.
	ServiceToken string
}

// NewSDKClient creates a client for baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithServiceToken returns a copy of the client that authenticates as a
// platform service.
func (c *SDKClient) WithServiceToken(token string) *SDKClient {
	cp := *c
	cp.ServiceToken = token
	return &cp
}
