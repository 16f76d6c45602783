package printing

import (
	"bytes"
	"context"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const defaultCurrency = "KSh"

// TemplateEngine renders HTML templates with business data. Numbers are
// formatted with the grouping rules of the configured language.
type TemplateEngine struct {
	lang     language.Tag
	currency string
	printer  *message.Printer
	funcMap  template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLanguage sets the language used for number and title formatting
func WithLanguage(tag language.Tag) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.lang = tag
	}
}

// WithCurrency sets the currency symbol printed by formatMoney
func WithCurrency(symbol string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.currency = symbol
	}
}

// NewTemplateEngine creates a new template engine
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		lang:     language.English,
		currency: defaultCurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.printer = message.NewPrinter(e.lang)
	caser := cases.Title(e.lang)

	e.funcMap = template.FuncMap{
		"formatMoney":    e.formatMoney,
		"formatNumber":   e.formatNumber,
		"formatPercent":  e.formatPercent,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"title":          caser.String,
		"upper":          strings.ToUpper,
		"truncate":       truncate,
		"default":        defaultFunc,
	}
	return e
}

// Parse parses a template with the engine's functions
func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	return tmpl, nil
}

// Execute runs a parsed template against data
func (e *TemplateEngine) Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// RenderString parses and renders a template string with the provided data
func (e *TemplateEngine) RenderString(_ context.Context, name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	return e.Execute(tmpl, data)
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// formatMoney formats a value with the currency symbol and two decimals.
// Example (English): 1234.5 -> "KSh 1,234.50"
func (e *TemplateEngine) formatMoney(v any) string {
	d := toDecimal(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + e.currency + " " + e.formatNumber(d, 2)
}

// formatNumber formats a value with a fixed number of decimals
func (e *TemplateEngine) formatNumber(v any, places int) string {
	f := toDecimal(v).Round(int32(places)).InexactFloat64()
	return e.printer.Sprint(number.Decimal(f, number.Scale(places)))
}

// formatPercent formats a percentage value. Example: 12.5 -> "12.5%"
func (e *TemplateEngine) formatPercent(v any) string {
	f := toDecimal(v).Round(2).InexactFloat64()
	return e.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(2))) + "%"
}

// formatDate formats a time value as a calendar date
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatDateTime formats a time value to the minute
func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// truncate shortens s to max runes, ending with "..."
func truncate(s string, max int) string {
	const suffix = "..."
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= len(suffix) {
		return string(runes[:max])
	}
	return string(runes[:max-len(suffix)]) + suffix
}

func defaultFunc(def, val any) any {
	if val == nil {
		return def
	}
	if s, ok := val.(string); ok && s == "" {
		return def
	}
	return val
}

// toDecimal converts various types to decimal.Decimal
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// toTime converts various types to time.Time
func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		for _, f := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(f, val); err == nil {
				return t
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}
