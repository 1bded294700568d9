package printing

import (
	"bytes"
	"html/template"
	"io/fs"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders HTML templates with pt-BR formatting helpers
type TemplateEngine struct {
	funcMap template.FuncMap
	mu      sync.RWMutex
	cache   map[string]*template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{cache: make(map[string]*template.Template)}
	e.funcMap = template.FuncMap{
		"formatMoney":    formatMoney,
		"formatNumber":   formatNumber,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"statusLabel":    statusLabel,
		"kindLabel":      kindLabel,
		"title":          titleCase,
		"upper":          strings.ToUpper,
		"isNegative":     func(v any) bool { return toDecimal(v).IsNegative() },
		"add":            func(a, b int) int { return a + b },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// Load parses files from fsys into a template set cached under name.
// The first file is the entry point.
func (e *TemplateEngine) Load(name string, fsys fs.FS, files ...string) (*template.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}
	if len(files) == 0 {
		return nil, NewRenderError(ErrCodeUnknownTemplate, "no template files for "+name, nil)
	}

	entry := files[0][strings.LastIndex(files[0], "/")+1:]
	tmpl, err := template.New(entry).Funcs(e.funcMap).ParseFS(fsys, files...)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template "+name, err)
	}

	e.mu.Lock()
	e.cache[name] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}

// RenderString parses and executes a single template string
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	return execute(tmpl, data)
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// =============================================================================
// Template Functions
// =============================================================================

// formatMoney formats a value as Brazilian currency
// Example: 1234.56 -> "R$ 1.234,56", -10 -> "-R$ 10,00"
func formatMoney(v any) string {
	return valueobject.FormatBRL(toDecimal(v))
}

// formatNumber formats a value with two decimals and pt-BR separators
// Example: 1234.5 -> "1.234,50"
func formatNumber(v any) string {
	return valueobject.FormatDecimalBR(toDecimal(v))
}

// formatDate formats as dd/mm/yyyy
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// formatDateTime formats as dd/mm/yyyy hh:mm
func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(s))
}

var statusLabels = map[string]string{
	"PENDING":  "Em aberto",
	"OVERDUE":  "Vencida",
	"PAID":     "Paga",
	"CANCELED": "Cancelada",
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

var kindLabels = map[string]string{
	"RECEIVABLE": "A receber",
	"PAYABLE":    "A pagar",
	"MANUAL":     "Manual",
	"DUES":       "Mensalidade",
	"ACCOUNT":    "Conta",
}

func kindLabel(kind string) string {
	if label, ok := kindLabels[kind]; ok {
		return label
	}
	return kind
}

// =============================================================================
// Helper Functions
// =============================================================================

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

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	default:
		return time.Time{}
	}
}
