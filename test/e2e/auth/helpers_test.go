//go:build e2e

package auth_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/gatehouse/internal/auth/app"
	"github.com/aussiebroadwan/gatehouse/internal/auth/events"
	"github.com/aussiebroadwan/gatehouse/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const privateSecret = "e2e-private-secret"

type testEnv struct {
	Server   *httptest.Server
	Client   *authsdk.SDKClient
	Events   *events.Recorder
	Issuer   string
	Password string
}

// startRedis runs a throwaway Redis and returns its address.
func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

// setupTestEnvironment wires the full service in-process against a real
// Redis and serves it over a loopback listener.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg := app.Config{
		Env:                 "dev",
		LogLevel:            "warn",
		LogFormat:           "text",
		Port:                0,
		ShutdownGracePeriod: 5 * time.Second,

		Issuer:          "gatehouse-e2e",
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      time.Hour,
		VerificationTTL: time.Hour,

		PrivateSecret: privateSecret,
		CookieSecret:  "0123456789abcdef0123456789abcdef",

		DatabaseFile: filepath.Join(dir, "auth.db"),
		PepperFile:   filepath.Join(dir, "pepper"),

		CacheDriver:    "redis",
		RedisAddr:      startRedis(t),
		RedisKeyPrefix: "e2e:",
		EventsDriver:   "log",

		TwoFactorIssuer: "gatehouse",
		QRURLTemplate:   "https://qr.example.com/?data=%s",

		OAuth2FailureURL: "/login/failed",
	}

	rec := &events.Recorder{}
	application, err := app.New(cfg, app.WithEventPublisher(rec))
	require.NoError(t, err, "failed to build application")

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = application.Shutdown()
	})

	client := authsdk.NewSDKClient(srv.URL)
	client.PrivateSecret = privateSecret

	return &testEnv{
		Server:   srv,
		Client:   client,
		Events:   rec,
		Issuer:   cfg.Issuer,
		Password: "correct horse battery",
	}
}

// registerVerified creates an account and confirms it with the token carried
// on the account-creation event.
func (env *testEnv) registerVerified(t *testing.T, ctx context.Context, email, username string) *authsdk.TokenResponse {
	t.Helper()

	_, err := env.Client.Register(ctx, authsdk.RegisterRequest{
		Email:    email,
		Username: username,
		Password: env.Password,
	})
	require.NoError(t, err, "failed to register %s", email)

	ev, ok := env.Events.Last(events.TopicAccountCreation)
	require.True(t, ok, "account creation event not published")
	created, ok := ev.Payload.(events.AccountCreated)
	require.True(t, ok)
	require.Equal(t, email, created.Email)

	tokens, err := env.Client.ConfirmEmail(ctx, created.VerificationToken)
	require.NoError(t, err, "failed to confirm %s", email)
	return tokens
}
