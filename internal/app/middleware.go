package app

import (
	"sentinelle/internal/constants"
	"sentinelle/internal/theme"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// LoadVisitor makes sure every visitor has a persisted session, and exposes its id and
// login status to handlers and templates through Locals.
func LoadVisitor(sessionStore *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionStore.Get(c)
		if err != nil {
			return err
		}

		id := sess.ID()
		loggedIn := sess.Get(constants.LoggedInSessionKey) == "true"
		email, _ := sess.Get(constants.EmailSessionKey).(string)

		// the session must not be used after Save
		if sess.Fresh() {
			if err := sess.Save(); err != nil {
				return err
			}
		}

		c.Locals(constants.SessionIDContextKey, id)
		c.Locals(constants.LoggedInSessionKey, loggedIn)
		c.Locals(constants.EmailSessionKey, email)

		return c.Next()
	}
}

func RequireLoggedIn(c *fiber.Ctx) error {
	loggedIn, _ := c.Locals(constants.LoggedInSessionKey).(bool)
	if !loggedIn {
		fiberlog.Debug("not logged in, redirecting to login")
		return c.Redirect("/login", fiber.StatusFound)
	}

	return c.Next()
}

func RedirectInternalIfLoggedIn(c *fiber.Ctx) error {
	loggedIn, _ := c.Locals(constants.LoggedInSessionKey).(bool)
	if loggedIn {
		fiberlog.Debug("logged in, redirecting to home")
		return c.Redirect("/", fiber.StatusFound)
	}

	return c.Next()
}

// ResolveTheme decides the page's theme phase from the theme cookie and the
// color scheme client hint, and asks the browser to send the hint from now on.
func ResolveTheme(c *fiber.Ctx) error {
	c.Set("Accept-CH", theme.ClientHintHeader)
	c.Vary(theme.ClientHintHeader)

	phase := theme.Resolve(c.Cookies(constants.ThemeCookieName), c.Get(theme.ClientHintHeader))
	c.Locals(constants.ThemeContextKey, phase)

	return c.Next()
}
