package app

import (
	"errors"
	"sentinelle/internal/auth"
	"sentinelle/internal/constants"
	"sentinelle/internal/login"
	"sentinelle/internal/view"
	loginviews "sentinelle/views/login"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
)

type LoginHandlers struct {
	renderer     *view.Renderer
	sessionStore *session.Store
	forms        *login.Forms
	registerer   auth.Registerer
	providers    *auth.Providers
}

func visitorID(c *fiber.Ctx) string {
	id, _ := c.Locals(constants.SessionIDContextKey).(string)
	return id
}

func (l *LoginHandlers) page(form *login.Form) loginviews.LoginPage {
	page := loginviews.LoginPage{Providers: l.providers.Names()}
	if form != nil {
		page.Form = form.Password.Snapshot()
		page.OAuthState = form.OAuth.State()
	}
	return page
}

// LoginForm only reads the visitor's form; forms are created by the first submission.
func (l *LoginHandlers) LoginForm(c *fiber.Ctx) error {
	form, _ := l.forms.Peek(visitorID(c))
	return l.renderer.RenderComponent(c, fiber.StatusOK, loginviews.Login(l.page(form)))
}

func (l *LoginHandlers) SubmitLogin(c *fiber.Ctx) error {
	var in login.Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	id := visitorID(c)
	form := l.forms.Get(id)

	ctx := auth.WithClientIP(c.UserContext(), c.IP())
	err := form.Password.Submit(ctx, in)

	var validationErr *login.ValidationError
	status := fiber.StatusUnauthorized
	switch {
	case err == nil:
		return l.startSession(c, id, in.Email)
	case errors.As(err, &validationErr):
		fiberlog.Debug("login form rejected: ", validationErr.Fields.Fields())
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, login.ErrSubmissionInFlight):
		status = fiber.StatusConflict
	}

	return l.renderer.RenderComponent(c, status, loginviews.Login(l.page(form)))
}

// startSession rotates the session id, marks the session logged in and carries the
// visitor's form (and its pending toasts) over to the new id.
func (l *LoginHandlers) startSession(c *fiber.Ctx, previousID, email string) error {
	sess, err := l.sessionStore.Get(c)
	if err != nil {
		return err
	}

	if err = sess.Reset(); err != nil {
		return err
	}
	sess.Set(constants.LoggedInSessionKey, "true")
	sess.Set(constants.EmailSessionKey, email)
	newID := sess.ID()
	if err = sess.Save(); err != nil {
		return err
	}
	l.forms.Move(previousID, newID)

	c.Set("HX-Location", "/")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// StartOAuth redirects to the provider and keeps the request's state in the session
// for the callback to compare against.
func (l *LoginHandlers) StartOAuth(c *fiber.Ctx) error {
	form := l.forms.Get(visitorID(c))

	state := auth.NewOAuthState()
	ctx := auth.WithOAuthState(c.UserContext(), state)
	redirectURL, err := form.OAuth.Start(ctx, c.Params("provider"))
	if errors.Is(err, login.ErrOAuthPending) {
		return l.renderer.RenderComponent(c, fiber.StatusConflict, loginviews.Login(l.page(form)))
	}
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	sess, err := l.sessionStore.Get(c)
	if err != nil {
		return err
	}
	sess.Set(constants.OAuthStateKey, state)
	if err = sess.Save(); err != nil {
		return err
	}

	return c.Redirect(redirectURL, fiber.StatusSeeOther)
}

func (l *LoginHandlers) Logout(c *fiber.Ctx) error {
	sess, err := l.sessionStore.Get(c)
	if err != nil {
		return err
	}
	l.forms.Forget(sess.ID())
	if err = sess.Destroy(); err != nil {
		return err
	}

	c.Set("HX-Location", "/login")
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (l *LoginHandlers) Register(c *fiber.Ctx) error {
	return l.renderer.RenderComponent(c, fiber.StatusOK, loginviews.Register(loginviews.RegisterPage{}))
}

func (l *LoginHandlers) SubmitRegistration(c *fiber.Ctx) error {
	var form login.Registration
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if errs := login.DefaultSchema().ValidateRegistration(form); len(errs) > 0 {
		return l.renderer.RenderComponent(c, fiber.StatusUnprocessableEntity,
			loginviews.Register(loginviews.RegisterPage{Email: form.Email, Errors: errs}))
	}

	toasts := l.forms.Get(visitorID(c)).Toasts
	ctx := auth.WithClientIP(c.UserContext(), c.IP())
	if err := l.registerer.Register(ctx, login.Credentials{Email: form.Email, Password: form.Password}); err != nil {
		fiberlog.Error("registration failed: ", err)
		toasts.NotifyFailure(login.MessageRegisterFail)
		return l.renderer.RenderComponent(c, fiber.StatusUnprocessableEntity,
			loginviews.Register(loginviews.RegisterPage{Email: form.Email}))
	}

	toasts.NotifySuccess(login.MessageRegistered)
	c.Set("HX-Location", "/login")
	return c.Redirect("/login", fiber.StatusSeeOther)
}
