package session_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/guildhall/pkg/sessionsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for session service end-to-end
 * tests. This includes container setup, identity sync and assertions.
 */

const (
	testImageName = "guildhall-auth-test:latest"

	serviceToken  = "test-service-token-12345"
	signingSecret = "test-signing-secret-0123456789abcdef"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Auth Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// baseEnv is the container environment shared by every test. Short TTLs
// let tests watch tokens expire without sleeping for long.
func baseEnv() map[string]string {
	return map[string]string{
		"AUTH_SERVICE_TOKEN":  serviceToken,
		"AUTH_SIGNING_SECRET": signingSecret,
		"AUTH_ALGORITHM":      "HS256",
		"AUTH_KEY_ID":         "guildhall-e2e-key",
		"AUTH_ISSUER":         "guildhall-auth",
		"AUTH_AUDIENCE":       "guildhall",
		"AUTH_ACCESS_TTL":     "3s",
		"AUTH_REFRESH_TTL":    "1h",
		"AUTH_DATABASE_FILE":  "/auth.db",
		"ENV":                 "test",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",
		// Tests make many rapid requests from one IP.
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
}

// setupAuthContainer starts the session service and returns its base URL.
// overrides replace entries of baseEnv; an empty value removes the entry.
func setupAuthContainer(t *testing.T, overrides map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := baseEnv()
	for k, v := range overrides {
		if v == "" {
			delete(env, k)
			continue
		}
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

func newIdentity(username, role string) sessionsdk.Identity {
	return sessionsdk.Identity{
		Username:        username,
		Email:           username + "@example.com",
		Role:            role,
		Level:           1,
		IsActive:        true,
		IsEmailVerified: true,
	}
}

// syncUser pushes an identity so sessions can be opened for it.
func syncUser(t *testing.T, client *sessionsdk.SDKClient, id int64, identity sessionsdk.Identity) *sessionsdk.SyncIdentityResponse {
	t.Helper()
	resp, err := client.SyncIdentity(t.Context(), id, identity)
	require.NoError(t, err, "identity sync should succeed")
	require.Equal(t, id, resp.UserID)
	return resp
}

// assertSessionResponse verifies a session response has all required fields.
func assertSessionResponse(t *testing.T, resp *sessionsdk.SessionResponse) {
	t.Helper()
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.AccessToken, "Access token should not be empty")
	require.NotEmpty(t, resp.RefreshToken, "Refresh token should not be empty")
	require.Equal(t, "Bearer", resp.TokenType, "Token type should be Bearer")
	require.Positive(t, resp.ExpiresIn)
	require.Positive(t, resp.RefreshExpiresIn)
}

// assertSessionInvalid checks that err is the uniform refresh failure.
func assertSessionInvalid(t *testing.T, err error, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.ErrorIs(t, err, sessionsdk.ErrSessionInvalid, "%s - got: %v", context, err)
}

// waitForAccessExpiry sleeps past the configured access token lifetime.
func waitForAccessExpiry() {
	time.Sleep(4 * time.Second)
}
