package config

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"sentinelle/internal/auth"
	"sentinelle/internal/constants"
	"sentinelle/internal/login"
	"sentinelle/internal/repo"
	"sentinelle/internal/secrets"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/caarlos0/env/v11"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

// Settings are read from the environment (and an optional .env file).
type Settings struct {
	Env                 string        `env:"ENV" envDefault:"development"`
	Host                string        `env:"HOST"`
	Port                string        `env:"PORT" envDefault:"3000"`
	DatabaseUrl         string        `env:"DATABASE_URL"`
	TestDatabaseUrl     string        `env:"TEST_DATABASE_URL"`
	CognitoClientId     string        `env:"COGNITO_CLIENT_ID"`
	GoogleClientId      string        `env:"GOOGLE_CLIENT_ID"`
	GoogleRedirectURL   string        `env:"GOOGLE_REDIRECT_URL"`
	MaxFailedAttempts   int           `env:"MAX_FAILED_ATTEMPTS" envDefault:"5"`
	FailedAttemptWindow time.Duration `env:"FAILED_ATTEMPT_WINDOW" envDefault:"15m"`
	FormIdleTTL         time.Duration `env:"FORM_IDLE_TTL" envDefault:"30m"`
	MaxLoginForms       int           `env:"MAX_LOGIN_FORMS" envDefault:"10000"`
}

// Config is the global config for the app router. Host and Port are needed for absolute URL generation.
type Config struct {
	Settings
	CookieSecure     bool
	DisableLogColors bool
	EnableStackTrace bool

	Repo       repo.Repository
	Submitter  login.Submitter
	Registerer auth.Registerer
	Providers  *auth.Providers
	StaticFS   fs.FS
}

// LoadSettings loads .env when present and parses the environment.
func LoadSettings() (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, err
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// DatabaseURL picks TEST_DATABASE_URL when running tests.
func (s Settings) DatabaseURL() string {
	if s.Env == constants.EnvTest {
		return s.TestDatabaseUrl
	}
	return s.DatabaseUrl
}

func NewConfigFromEnvironment(ctx context.Context, settings Settings, dbConn *sql.DB, sec secrets.Secrets, staticFS fs.FS) (*Config, error) {
	cfg := FromSettings(settings)
	cfg.StaticFS = staticFS

	if dbConn != nil {
		cfg.Repo = repo.New(dbConn)
	}

	if settings.CognitoClientId != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		c := auth.NewCognito(cognito.NewFromConfig(awsCfg), settings.CognitoClientId, sec.CognitoClientSecret())
		cfg.Submitter = c
		cfg.Registerer = c
	} else if settings.Env == constants.EnvProduction {
		return nil, errors.New("config: COGNITO_CLIENT_ID is required in production")
	} else {
		fiberlog.Warn("COGNITO_CLIENT_ID is not set, logins are accepted without authentication")
	}

	if settings.GoogleClientId != "" {
		cfg.Providers.Register(auth.NewGoogle(settings.GoogleClientId, sec.GoogleClientSecret(), settings.GoogleRedirectURL))
	}

	return cfg, nil
}

// FromSettings derives the environment flags and fills every collaborator with a
// development default: in-memory repository, log-only submitter, no OAuth providers.
func FromSettings(settings Settings) *Config {
	return &Config{
		Settings:         settings,
		CookieSecure:     settings.Env == constants.EnvProduction,
		DisableLogColors: settings.Env == constants.EnvProduction,
		EnableStackTrace: settings.Env == constants.EnvDevelopment,
		Repo:             repo.NewMemory(),
		Submitter:        auth.LogOnly{},
		Registerer:       auth.LogOnly{},
		Providers:        auth.NewProviders(),
	}
}

func NewTestConfig(staticFS fs.FS) *Config {
	cfg := FromSettings(Settings{
		Env:                 constants.EnvTest,
		Host:                "127.0.0.1",
		Port:                "0",
		MaxFailedAttempts:   5,
		FailedAttemptWindow: 15 * time.Minute,
		FormIdleTTL:         30 * time.Minute,
		MaxLoginForms:       100,
	})
	cfg.StaticFS = staticFS
	return cfg
}
