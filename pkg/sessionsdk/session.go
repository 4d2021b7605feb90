package sessionsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const expirySkew = time.Second

// Session holds one user's token pair and rotates it when the access
// token lapses. The service rejects rotation while the access token is
// still valid, so a Session only refreshes after expiry.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time

	// now is swapped in tests.
	now func() time.Time
}

// NewSession wraps an issued or refreshed token pair.
func (c *SDKClient) NewSession(resp *SessionResponse) *Session {
	s := &Session{client: c, now: time.Now}
	s.store(resp)
	return s
}

// OpenSession issues a session for userID and wraps it. Requires
// ServiceToken.
func (c *SDKClient) OpenSession(ctx context.Context, userID int64) (*Session, error) {
	resp, err := c.IssueSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.NewSession(resp), nil
}

func (s *Session) store(resp *SessionResponse) {
	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	// ExpiresIn is rounded down; err late so a rotation never reaches the
	// service while the old access token is still valid there.
	s.expiresAt = s.now().Add(time.Duration(resp.ExpiresIn)*time.Second + expirySkew)
}

// Tokens returns the current pair without refreshing.
func (s *Session) Tokens() (accessToken, refreshToken string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

// ExpiresAt is when the current access token lapses, by the local clock.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// AccessToken returns a usable access token, rotating the pair first if
// the current one has expired.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have rotated while we waited.
	if s.now().Before(s.expiresAt) {
		return s.accessToken, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

// Refresh rotates the pair now.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return fmt.Errorf("session has no refresh token")
	}

	resp, err := s.client.RefreshSession(ctx, s.accessToken, s.refreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	s.store(resp)
	return nil
}

// Me returns the caller's claims. If the service says the token lapsed
// before the local clock noticed, the pair is rotated and the call retried
// once. A pair another caller already rotated is reused as is.
func (s *Session) Me(ctx context.Context) (*MeResponse, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	me, err := s.client.Me(ctx, token)
	if err == nil || !errors.Is(err, ErrInvalidToken) {
		return me, err
	}

	token, err = s.rotateFrom(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.client.Me(ctx, token)
}

// rotateFrom refreshes the pair only if stale is still the current access
// token, and returns the access token to use next.
func (s *Session) rotateFrom(ctx context.Context, stale string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken == stale {
		if err := s.refreshLocked(ctx); err != nil {
			return "", err
		}
	}
	return s.accessToken, nil
}

// Revoke ends the session. The refresh token is dropped locally whatever
// the outcome.
func (s *Session) Revoke(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	if refreshToken == "" {
		return fmt.Errorf("no refresh token to revoke")
	}
	return s.client.RevokeSession(ctx, refreshToken)
}
