package handlers

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"storefront/apperror"
	"storefront/auth"
	"storefront/models"
	"storefront/repository"
	"storefront/search"
	"storefront/web"
)

type basePage struct {
	Title string
	Admin bool
}

type listPage struct {
	basePage
	Query    string
	Error    string
	Products []models.ProductView
	Cards    []web.Card
	Visible  int
}

type productPage struct {
	basePage
	Product models.ProductView
}

func (h *Handler) base(r *http.Request, title string) basePage {
	return basePage{Title: title, Admin: auth.IsAdmin(auth.SessionFrom(r.Context()))}
}

// render executes a page into a buffer so template failures never leave a
// half-written response
func (h *Handler) render(w http.ResponseWriter, status int, page string, data interface{}) {
	tmpl, ok := h.Pages[page]
	if !ok {
		zap.S().Errorw("Unknown page template", "page", page)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		zap.S().Errorw("Failed to render page", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.As(err)
	if appErr.Kind == apperror.KindNotFound {
		h.render(w, http.StatusNotFound, "not_found.html", h.base(r, "Not found"))
		return
	}
	if appErr.Status() >= http.StatusInternalServerError {
		zap.S().Errorw("Page request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, appErr.Message, appErr.Status())
}

// HomePage renders the storefront grid
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "home.html", listPage{
		basePage: h.base(r, "Storefront"),
		Cards:    web.Cards(repository.ToViews(products)),
	})
}

// ProductPage renders a single product with the inquiry button
func (h *Handler) ProductPage(w http.ResponseWriter, r *http.Request) {
	product, err := h.Catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "product.html", productPage{
		basePage: h.base(r, product.Name),
		Product:  repository.ToView(*product),
	})
}

// SearchPage renders the whole catalogue with the cards that do not match
// ?q= hidden, so the page works without scripts and search.js can widen
// the result again
func (h *Handler) SearchPage(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	query := r.URL.Query().Get("q")
	match := search.Matcher(query)
	page := listPage{
		basePage: h.base(r, "Search"),
		Query:    query,
		Cards:    make([]web.Card, 0, len(products)),
	}
	for _, p := range products {
		visible := match(p)
		if visible {
			page.Visible++
		}
		page.Cards = append(page.Cards, web.Card{ProductView: repository.ToView(p), Hidden: !visible})
	}
	h.render(w, http.StatusOK, "search.html", page)
}

// NotFoundPage is the router's fallback for unknown page paths
func (h *Handler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, "not_found.html", h.base(r, "Not found"))
}
