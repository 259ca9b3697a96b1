package constants

const (
	EnvDevelopment      = "development"
	EnvProduction       = "production"
	EnvTest             = "test"
	CsrfInputName       = "_csrf"
	CsrfTokenContextKey = "csrf.token"
	LoggedInSessionKey  = "auth.logged_in"
	EmailSessionKey     = "auth.email"
	OAuthStateKey       = "oauth.state"
	ThemeContextKey     = "theme.phase"
	ToastsContextKey    = "toasts"
	ThemeCookieName     = "theme"
	SessionIDContextKey = "session.id"
	SessionCookieName   = "sentinelle_session_id"
	CsrfCookieName      = "sentinelle_csrf"
)
