package printing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTemplateEngine_GetFuncMap(t *testing.T) {
	funcMap := NewTemplateEngine().GetFuncMap()

	for _, name := range []string{"formatMoney", "formatNumber", "formatPercent", "formatDate", "formatDateTime", "title", "truncate"} {
		assert.NotNil(t, funcMap[name], name)
	}

	delete(funcMap, "formatMoney")
	assert.NotNil(t, NewTemplateEngine().GetFuncMap()["formatMoney"])
}

func TestTemplateEngine_RenderString(t *testing.T) {
	engine := NewTemplateEngine()
	ctx := context.Background()

	t.Run("binds data", func(t *testing.T) {
		out, err := engine.RenderString(ctx, "greet", `<p>Hello, {{.Name}}!</p>`, map[string]any{"Name": "World"})
		require.NoError(t, err)
		assert.Equal(t, "<p>Hello, World!</p>", out)
	})

	t.Run("escapes html", func(t *testing.T) {
		out, err := engine.RenderString(ctx, "escape", `<p>{{.}}</p>`, "<script>alert(1)</script>")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script>")
	})

	t.Run("empty template", func(t *testing.T) {
		_, err := engine.RenderString(ctx, "empty", "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "template content is empty")
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := engine.RenderString(ctx, "broken", "{{.Name", nil)
		require.Error(t, err)
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
	})

	t.Run("execution error", func(t *testing.T) {
		_, err := engine.RenderString(ctx, "missing", "{{.Name.Field}}", map[string]any{"Name": 3})
		require.Error(t, err)
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeRenderFailed, renderErr.Code)
	})
}

func TestTemplateEngine_FormatMoney(t *testing.T) {
	engine := NewTemplateEngine()

	assert.Equal(t, "KSh 1,234.50", engine.formatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "KSh 0.00", engine.formatMoney(0))
	assert.Equal(t, "KSh 232.00", engine.formatMoney(232.0))
	assert.Equal(t, "-KSh 15.25", engine.formatMoney("-15.25"))
	assert.Equal(t, "KSh 1,000,000.01", engine.formatMoney(decimal.RequireFromString("1000000.005")))

	usd := NewTemplateEngine(WithCurrency("$"))
	assert.Equal(t, "$ 10.00", usd.formatMoney(10))
}

func TestTemplateEngine_FormatNumber_Locale(t *testing.T) {
	german := NewTemplateEngine(WithLanguage(language.German))
	assert.Equal(t, "1.234,50", german.formatNumber(decimal.RequireFromString("1234.5"), 2))
}

func TestTemplateEngine_FormatPercent(t *testing.T) {
	engine := NewTemplateEngine()
	assert.Equal(t, "10%", engine.formatPercent(decimal.NewFromInt(10)))
	assert.Equal(t, "12.5%", engine.formatPercent(decimal.RequireFromString("12.50")))
	assert.Equal(t, "0%", engine.formatPercent(decimal.Zero))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-15", formatDate(ts))
	assert.Equal(t, "2024-01-15 14:30", formatDateTime(ts))
	assert.Equal(t, "2024-01-15", formatDate("2024-01-15"))
	assert.Empty(t, formatDate(time.Time{}))
	assert.Empty(t, formatDateTime(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Mineral...", truncate("Mineral water 500ml", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "Ünïc...", truncate("Ünïcode names", 7))
}

func TestTitle(t *testing.T) {
	out, err := NewTemplateEngine().RenderString(context.Background(), "title", `{{title .}}`, "mpesa payment")
	require.NoError(t, err)
	assert.Equal(t, "Mpesa Payment", out)
}
