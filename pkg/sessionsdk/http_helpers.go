package sessionsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request with the client's HTTP client.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// postForm sends an urlencoded body, optionally with a bearer token.
func (c *SDKClient) postForm(ctx context.Context, path string, form url.Values, bearer string) (*http.Response, error) {
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	if bearer != "" {
		headers["Authorization"] = "Bearer " + bearer
	}
	return c.doRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), headers)
}

// serviceHeaders authenticates a request with the service token.
func (c *SDKClient) serviceHeaders(contentType string) (map[string]string, error) {
	if c.ServiceToken == "" {
		return nil, fmt.Errorf("service token is required for this operation")
	}
	headers := map[string]string{"Authorization": "Bearer " + c.ServiceToken}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return headers, nil
}

// decodeJSON decodes a JSON response into target, or returns the typed
// error carried by the response.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
