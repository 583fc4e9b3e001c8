// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"storefront/models"
)

// Card is one product tile. Hidden tiles are rendered so the live filter
// can reveal them again.
type Card struct {
	models.ProductView
	Hidden bool
}

// Cards wraps views as visible tiles
func Cards(views []models.ProductView) []Card {
	out := make([]Card, 0, len(views))
	for _, v := range views {
		out = append(out, Card{ProductView: v})
	}
	return out
}

//go:embed templates/*.html static/*
var files embed.FS

// Pages lists the page templates; each is rendered inside layout.html
var Pages = []string{
	"home.html",
	"product.html",
	"search.html",
	"not_found.html",
	"admin_login.html",
	"admin_dashboard.html",
	"admin_form.html",
}

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	},
	// isImage distinguishes image URLs from emoji placeholders in photo_path
	"isImage": func(s string) bool {
		return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "/")
	},
	"lower": strings.ToLower,
	"join":  strings.Join,
	"deref": func(v interface{}) interface{} {
		switch p := v.(type) {
		case *float64:
			if p != nil {
				return *p
			}
		case *int:
			if p != nil {
				return *p
			}
		}
		return ""
	},
}

// Templates parses every page with the shared layout
func Templates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, errors.Wrapf(err, "parse template %s", page)
		}
		out[page] = tmpl
	}
	return out, nil
}

// Static serves the embedded assets under the given prefix
func Static(prefix string) http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(prefix, http.FileServer(http.FS(sub)))
}
