package view

import (
	"sentinelle/internal/constants"
	"sentinelle/internal/login"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
)

func RenderComponent(c *fiber.Ctx, status int, component templ.Component) error {
	c.Status(status).Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Context(), c)
}

// Renderer renders full pages and hands the visitor's pending toasts to the layout.
// The visitor is identified by the session id stored under constants.SessionIDContextKey.
type Renderer struct {
	Forms *login.Forms
}

func (r *Renderer) RenderComponent(c *fiber.Ctx, status int, component templ.Component) error {
	if id, ok := c.Locals(constants.SessionIDContextKey).(string); ok && r.Forms != nil {
		if form, ok := r.Forms.Peek(id); ok {
			c.Locals(constants.ToastsContextKey, form.Toasts.Drain())
		}
	}
	return RenderComponent(c, status, component)
}
