package app

import (
	"errors"
	"net/http"
	"sentinelle/internal/view"
	errorviews "sentinelle/views/errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

func errorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := http.StatusInternalServerError
	msg := err.Error()

	// Retrieve the custom status code if it's a *fiber.Error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	// Parameter decoding errors indicate user input did not match the route, i.e. not found (but may also be bugs)
	if strings.HasPrefix(msg, "failed to decode:") {
		code = http.StatusNotFound
	}

	// Render a template for 404 errors
	if code == http.StatusNotFound {
		return view.RenderComponent(c, code, errorviews.Error404())
	}

	// Other client errors only show the status text
	if code >= 400 && code < 500 {
		fiberlog.Info(code, " ", msg)
		return view.RenderComponent(c, code, errorviews.GenericError(code, http.StatusText(code)))
	}

	// Log 500 errors and also render a default template
	fiberlog.Error(msg)
	return view.RenderComponent(c, code, errorviews.Error500())
}
