package components

import (
	"context"
	"sentinelle/internal/constants"
	"sentinelle/internal/login"
	"sentinelle/internal/theme"
)

func GetCsrfToken(ctx context.Context) string {
	if csrfToken, ok := ctx.Value(constants.CsrfTokenContextKey).(string); ok {
		return csrfToken
	}
	return ""
}

func GetLoggedIn(ctx context.Context) bool {
	if loggedIn, ok := ctx.Value(constants.LoggedInSessionKey).(bool); ok {
		return loggedIn
	}
	return false
}

// GetStyles returns the style variant for the request's theme phase; the default
// variant when no phase was resolved.
func GetStyles(ctx context.Context) theme.Styles {
	phase, _ := ctx.Value(constants.ThemeContextKey).(theme.Phase)
	return theme.StylesFor(phase)
}

func GetToasts(ctx context.Context) []login.Toast {
	if toasts, ok := ctx.Value(constants.ToastsContextKey).([]login.Toast); ok {
		return toasts
	}
	return nil
}
