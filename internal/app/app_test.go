package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sentinelle/internal/config"
	"sentinelle/internal/login"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csrfPattern = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

var testStatic = fstest.MapFS{
	"static/logo.svg":       {Data: []byte("<svg></svg>")},
	"static/logo_white.svg": {Data: []byte("<svg></svg>")},
}

// client keeps cookies and the last CSRF token between requests, like a browser would.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
	csrf    string
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) (*http.Response, string) {
	if req.Header.Get("Cookie") == "" {
		for _, cookie := range c.cookies {
			req.AddCookie(cookie)
		}
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	for _, cookie := range resp.Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}

	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if m := csrfPattern.FindSubmatch(body); m != nil {
		c.csrf = string(m[1])
	}
	return resp, string(body)
}

func (c *client) get(path string, headers ...string) (*http.Response, string) {
	req := httptest.NewRequest("GET", path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return c.do(req)
}

func (c *client) post(path string, values url.Values) (*http.Response, string) {
	return c.do(c.postRequest(path, values))
}

func (c *client) postRequest(path string, values url.Values) *http.Request {
	if values == nil {
		values = url.Values{}
	}
	values.Set("_csrf", c.csrf)

	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	return req
}

type fakeProvider struct{}

func (fakeProvider) Name() string { return "google" }

func (fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func newTestApp(t *testing.T, submit login.SubmitterFunc) *client {
	cfg := config.NewTestConfig(testStatic)
	cfg.Submitter = submit
	cfg.Providers.Register(fakeProvider{})
	return newClient(t, New(cfg))
}

func acceptAll(ctx context.Context, creds login.Credentials) error {
	return nil
}

func TestLogin(t *testing.T) {
	c := newTestApp(t, acceptAll)

	resp, body := c.get("/login")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome back Sentinelle!")
	assert.Contains(t, body, `action="/login/oauth/google"`)
	assert.Contains(t, body, "/static/logo.svg")
	assert.NotEmpty(t, c.csrf)
	assert.Contains(t, resp.Header.Get("Accept-CH"), "Sec-CH-Prefers-Color-Scheme")
}

func TestLoginDarkClientHint(t *testing.T) {
	c := newTestApp(t, acceptAll)

	_, body := c.get("/login", "Sec-CH-Prefers-Color-Scheme", "dark")
	assert.Contains(t, body, "/static/logo_white.svg")

	_, body = c.get("/login", "Sec-CH-Prefers-Color-Scheme", "dark", "Cookie", "theme=light")
	assert.NotContains(t, body, "/static/logo_white.svg")
}

func TestSubmitLoginInvalid(t *testing.T) {
	var calls atomic.Int32
	c := newTestApp(t, func(ctx context.Context, creds login.Credentials) error {
		calls.Add(1)
		return nil
	})

	c.get("/login")
	resp, body := c.post("/login", url.Values{"email": {"not-an-email"}, "password": {"abc"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Invalid email address")
	assert.Contains(t, body, "Password must be at least 6 characters long")
	assert.Contains(t, body, `value="not-an-email"`)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSubmitLoginFailure(t *testing.T) {
	c := newTestApp(t, func(ctx context.Context, creds login.Credentials) error {
		return errors.New("NotAuthorizedException")
	})

	c.get("/login")
	resp, body := c.post("/login", url.Values{"email": {"jane@example.com"}, "password": {"secret1"}})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, login.MessageLoginFailed)
	assert.Contains(t, body, `value="jane@example.com"`)
	assert.NotContains(t, body, "secret1")
}

func TestSubmitLoginThrottled(t *testing.T) {
	var calls atomic.Int32
	c := newTestApp(t, func(ctx context.Context, creds login.Credentials) error {
		calls.Add(1)
		return errors.New("NotAuthorizedException")
	})

	c.get("/login")
	for i := 0; i < 6; i++ {
		resp, _ := c.post("/login", url.Values{"email": {"jane@example.com"}, "password": {"secret1"}})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}
	assert.Equal(t, int32(5), calls.Load())
}

func TestSubmitLoginSuccessAndLogout(t *testing.T) {
	c := newTestApp(t, acceptAll)

	c.get("/login")
	resp, _ := c.post("/login", url.Values{"email": {"jane@example.com"}, "password": {"secret1"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, body := c.get("/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Signed in as jane@example.com")
	assert.Contains(t, body, login.MessageLoggedIn)

	// toasts are shown once
	_, body = c.get("/")
	assert.NotContains(t, body, login.MessageLoggedIn)

	resp, _ = c.get("/login")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp, _ = c.post("/logout", nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = c.get("/")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSubmitLoginTwiceWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := newTestApp(t, func(ctx context.Context, creds login.Credentials) error {
		close(started)
		<-release
		return nil
	})

	c.get("/login")
	values := url.Values{"email": {"jane@example.com"}, "password": {"secret1"}}

	first := make(chan *http.Response)
	req := c.postRequest("/login", values)
	go func() {
		resp, err := c.app.Test(req, -1)
		assert.NoError(t, err)
		first <- resp
	}()
	<-started

	resp, body := c.post("/login", url.Values{"email": {"jane@example.com"}, "password": {"secret1"}})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "disabled aria-busy")

	close(release)
	firstResp := <-first
	require.NotNil(t, firstResp)
	assert.Equal(t, fiber.StatusSeeOther, firstResp.StatusCode)
}

func TestSubmitLoginWithoutCsrfToken(t *testing.T) {
	c := newTestApp(t, acceptAll)

	c.get("/login")
	c.csrf = "forged"
	resp, _ := c.post("/login", url.Values{"email": {"jane@example.com"}, "password": {"secret1"}})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestStartOAuth(t *testing.T) {
	c := newTestApp(t, acceptAll)

	c.get("/login")
	resp, _ := c.post("/login/oauth/google", nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(location, "https://accounts.example.com/o/oauth2/auth?state="))

	u, err := url.Parse(location)
	require.NoError(t, err)
	_, err = uuid.Parse(u.Query().Get("state"))
	assert.NoError(t, err)
}

func TestStartOAuthUnknownProvider(t *testing.T) {
	c := newTestApp(t, acceptAll)

	c.get("/login")
	resp, _ := c.post("/login/oauth/myspace", nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, body := c.get("/login")
	assert.Contains(t, body, login.MessageOAuthFailed)
}

func TestRegister(t *testing.T) {
	c := newTestApp(t, acceptAll)

	resp, _ := c.get("/register")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := c.post("/register", url.Values{
		"email":                 {"jane@example.com"},
		"password":              {"secret1"},
		"password_confirmation": {"secret2"},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Passwords do not match")

	resp, _ = c.post("/register", url.Values{
		"email":                 {"jane@example.com"},
		"password":              {"secret1"},
		"password_confirmation": {"secret1"},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	_, body = c.get("/login")
	assert.Contains(t, body, login.MessageRegistered)
}

func TestStaticFiles(t *testing.T) {
	c := newTestApp(t, acceptAll)

	resp, _ := c.get("/static/logo.svg")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNotFound(t *testing.T) {
	c := newTestApp(t, acceptAll)

	resp, body := c.get("/nope")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Not Found")
}
