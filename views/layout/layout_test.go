package layout

import (
	"context"
	"io"
	"sentinelle/internal/constants"
	"sentinelle/internal/login"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRendersToastsBeforeBody(t *testing.T) {
	ctx := context.WithValue(context.Background(), constants.ToastsContextKey, []login.Toast{
		{Kind: login.ToastFailure, Message: "<b>nope</b>"},
	})
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<main>body</main>")
		return err
	})

	var b strings.Builder
	require.NoError(t, Page("").Render(templ.WithChildren(ctx, body), &b))
	html := b.String()

	assert.Contains(t, html, "<title>"+Title+"</title>")
	assert.Contains(t, html, `data-kind="error"`)
	assert.Contains(t, html, "bg-red-600")
	assert.Contains(t, html, "&lt;b&gt;nope&lt;/b&gt;")
	assert.Less(t, strings.Index(html, `id="toasts"`), strings.Index(html, "<main>body</main>"))
}

func TestPageWithoutToasts(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Page("Sign up").Render(context.Background(), &b))
	assert.NotContains(t, b.String(), `id="toasts"`)
	assert.Contains(t, b.String(), "<title>Sign up</title>")
	assert.Contains(t, b.String(), "htmx:beforeSwap")
}
