// Package web holds the embedded HTML templates and static assets of the portal.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var bulgarianMonths = [...]string{
	"януари", "февруари", "март", "април", "май", "юни",
	"юли", "август", "септември", "октомври", "ноември", "декември",
}

// Templates parses every page template with the portal helpers.
func Templates(locale string) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs(locale)).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Funcs returns the template helpers bound to locale.
func Funcs(locale string) template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string { return FormatDate(t, locale) },
		"inc":        func(i int) int { return i + 1 },
	}
}

// Static exposes the embedded assets for router.StaticFS.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// FormatDate renders a long-form date. Bulgarian gets month names and the "г." suffix.
func FormatDate(t time.Time, locale string) string {
	if t.IsZero() {
		return ""
	}
	switch strings.ToLower(locale) {
	case "bg", "bg-bg":
		return fmt.Sprintf("%d %s %d г.", t.Day(), bulgarianMonths[t.Month()-1], t.Year())
	default:
		return t.Format("January 2, 2006")
	}
}
