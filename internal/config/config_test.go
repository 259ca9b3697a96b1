package config

import (
	"context"
	"sentinelle/internal/auth"
	"sentinelle/internal/constants"
	"sentinelle/internal/secrets"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, constants.EnvDevelopment, s.Env)
	assert.Equal(t, "3000", s.Port)
	assert.Equal(t, 5, s.MaxFailedAttempts)
	assert.Equal(t, 15*time.Minute, s.FailedAttemptWindow)
	assert.Equal(t, 30*time.Minute, s.FormIdleTTL)
	assert.Equal(t, 10000, s.MaxLoginForms)
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	t.Setenv("ENV", constants.EnvTest)
	t.Setenv("DATABASE_URL", "postgres://prod")
	t.Setenv("TEST_DATABASE_URL", "postgres://test")
	t.Setenv("FAILED_ATTEMPT_WINDOW", "1h")
	t.Setenv("MAX_FAILED_ATTEMPTS", "3")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "postgres://test", s.DatabaseURL())
	assert.Equal(t, time.Hour, s.FailedAttemptWindow)
	assert.Equal(t, 3, s.MaxFailedAttempts)

	s.Env = constants.EnvProduction
	assert.Equal(t, "postgres://prod", s.DatabaseURL())
}

func TestLoadSettingsRejectsBadDuration(t *testing.T) {
	t.Setenv("FORM_IDLE_TTL", "soon")
	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestFromSettingsDerivesFlags(t *testing.T) {
	prod := FromSettings(Settings{Env: constants.EnvProduction})
	assert.True(t, prod.CookieSecure)
	assert.True(t, prod.DisableLogColors)
	assert.False(t, prod.EnableStackTrace)

	dev := FromSettings(Settings{Env: constants.EnvDevelopment})
	assert.False(t, dev.CookieSecure)
	assert.True(t, dev.EnableStackTrace)
	assert.IsType(t, auth.LogOnly{}, dev.Submitter)
	assert.Empty(t, dev.Providers.Names())
}

func TestNewConfigFromEnvironmentWithoutCognito(t *testing.T) {
	ctx := context.Background()
	sec := secrets.Static("", "google-secret")

	cfg, err := NewConfigFromEnvironment(ctx, Settings{
		Env:               constants.EnvDevelopment,
		GoogleClientId:    "google-client",
		GoogleRedirectURL: "http://localhost:3000/api/auth/callback/google",
	}, nil, sec, nil)
	require.NoError(t, err)
	assert.IsType(t, auth.LogOnly{}, cfg.Submitter)
	assert.Equal(t, []string{"google"}, cfg.Providers.Names())

	_, err = NewConfigFromEnvironment(ctx, Settings{Env: constants.EnvProduction}, nil, sec, nil)
	assert.Error(t, err)
}
