package app

import (
	"errors"
	"net/http"
	"sentinelle/internal/auth"
	"sentinelle/internal/config"
	"sentinelle/internal/constants"
	"sentinelle/internal/login"
	"sentinelle/internal/view"
	errorviews "sentinelle/views/errors"
	homeviews "sentinelle/views/home"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"
)

func New(config *config.Config) *fiber.App {
	fiberlog.Debug("Starting app in env: ", config.Env)

	app := fiber.New(fiber.Config{
		AppName:      "Sentinelle 0.1.0",
		ErrorHandler: errorHandler,
	})

	sessionConfig := session.Config{
		Expiration:     24 * time.Hour * 30,
		KeyLookup:      "cookie:" + constants.SessionCookieName,
		CookieSecure:   config.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if dbUrl := config.DatabaseURL(); dbUrl != "" {
		sessionConfig.Storage = postgres.New(postgres.Config{
			ConnectionURI: dbUrl,
			Table:         "fiber_sessions",
		})
	}
	sessionStore := session.New(sessionConfig)

	submitter := &auth.Throttle{
		Next:   auth.Audited(config.Submitter, config.Repo),
		Repo:   config.Repo,
		Max:    config.MaxFailedAttempts,
		Window: config.FailedAttemptWindow,
	}
	initiator := auth.AuditedInitiator(config.Providers, config.Repo)
	forms := login.NewForms(submitter, initiator, config.FormIdleTTL)
	forms.SetLimit(config.MaxLoginForms)

	renderer := &view.Renderer{Forms: forms}

	app.Use(logger.New(logger.Config{
		DisableColors: config.DisableLogColors,
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: config.EnableStackTrace,
	}))
	app.Use(compress.New())
	app.Use(helmet.New(helmet.Config{
		// the page pulls its scripts from public CDNs
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	app.Use(favicon.New())
	if config.StaticFS != nil {
		app.Use("/static", filesystem.New(filesystem.Config{
			Root:       http.FS(config.StaticFS),
			PathPrefix: "static",
		}))
	}

	app.Use(ResolveTheme)
	app.Use(LoadVisitor(sessionStore))

	// Combine two CSRF extractors: use form field as default
	// so forms work without JS, with header as fallback.
	csrfFromForm := csrf.CsrfFromForm(constants.CsrfInputName)
	csrfFromHeader := csrf.CsrfFromHeader("X-CSRF-Token")

	app.Use(csrf.New(csrf.Config{
		CookieSecure: config.CookieSecure,
		Session:      sessionStore,
		Extractor: func(c *fiber.Ctx) (string, error) {
			token, err := csrfFromForm(c)
			if err == nil {
				return token, nil
			}

			if errors.Is(err, csrf.ErrMissingForm) {
				return csrfFromHeader(c)
			}

			// unexpected programmer error
			panic(err)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			fiberlog.Error("CSRF error: ", err.Error())
			return renderer.RenderComponent(c, fiber.StatusForbidden,
				errorviews.GenericError(fiber.StatusForbidden, "Forbidden"))
		},
		ContextKey: constants.CsrfTokenContextKey,
		CookieName: constants.CsrfCookieName,
	}))

	handlers := LoginHandlers{
		renderer:     renderer,
		sessionStore: sessionStore,
		forms:        forms,
		registerer:   config.Registerer,
		providers:    config.Providers,
	}

	app.Get("/", RequireLoggedIn, func(c *fiber.Ctx) error {
		email, _ := c.Locals(constants.EmailSessionKey).(string)
		return renderer.RenderComponent(c, fiber.StatusOK, homeviews.Home(email))
	})

	app.Get("/login", RedirectInternalIfLoggedIn, handlers.LoginForm)
	app.Post("/login", handlers.SubmitLogin)
	app.Post("/login/oauth/:provider", handlers.StartOAuth)
	app.Post("/logout", handlers.Logout)

	app.Get("/register", RedirectInternalIfLoggedIn, handlers.Register)
	app.Post("/register", handlers.SubmitRegistration)

	return app
}
