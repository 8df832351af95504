// Package web holds the embedded HTML templates for the public site and the
// admin pages.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-site/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return utils.FormatCurrency(d) },
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
