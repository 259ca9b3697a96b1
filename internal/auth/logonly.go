package auth

import (
	"context"
	"sentinelle/internal/login"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// LogOnly accepts every validated login and registration and only logs it.
// It stands in for Cognito in development when no client id is configured.
type LogOnly struct{}

func (LogOnly) Submit(ctx context.Context, creds login.Credentials) error {
	fiberlog.Info("auth: accepting login without an identity provider for ", creds.Email)
	return nil
}

func (LogOnly) Register(ctx context.Context, creds login.Credentials) error {
	fiberlog.Info("auth: accepting registration without an identity provider for ", creds.Email)
	return nil
}
