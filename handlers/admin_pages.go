package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"storefront/apperror"
	"storefront/catalog"
	"storefront/models"
	"storefront/repository"
)

const (
	AdminHome  = "/admin"
	AdminLogin = "/admin/login"
)

type loginPage struct {
	basePage
	Email string
	Error string
}

type formPage struct {
	basePage
	ID     string
	Action string
	Error  string
	Form   map[string]string
}

var formKeys = []string{
	"name", "description", "price", "originalPrice", "discount",
	"rating", "reviews", "stock", "category", "photo_path", "gallery",
}

func formValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(formKeys))
	for _, k := range formKeys {
		if v, ok := values[k]; ok && len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func productForm(p models.ProductView) map[string]string {
	form := map[string]string{
		"name":        p.Name,
		"description": p.Description,
		"price":       formatFloat(p.Price),
		"rating":      formatFloat(p.Rating),
		"reviews":     strconv.Itoa(p.Reviews),
		"stock":       strconv.Itoa(p.Stock),
		"category":    p.Category,
		"photo_path":  p.PhotoPath,
		"gallery":     strings.Join(p.Gallery, "\n"),
	}
	if p.OriginalPrice != nil {
		form["originalPrice"] = formatFloat(*p.OriginalPrice)
	}
	if p.Discount != nil {
		form["discount"] = strconv.Itoa(*p.Discount)
	}
	return form
}

// LoginPage shows the admin sign-in form
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "admin_login.html", loginPage{basePage: h.base(r, "Admin sign in")})
}

// LoginSubmit signs the admin in and redirects to the dashboard
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "admin_login.html", loginPage{
			basePage: h.base(r, "Admin sign in"),
			Error:    "Invalid form submission.",
		})
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))

	token, session, err := h.Auth.SignIn(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		appErr := apperror.As(err)
		h.render(w, appErr.Status(), "admin_login.html", loginPage{
			basePage: h.base(r, "Admin sign in"),
			Email:    email,
			Error:    appErr.Message,
		})
		return
	}

	h.setSessionCookie(w, token, session)
	http.Redirect(w, r, AdminHome, http.StatusSeeOther)
}

// LogoutSubmit ends the admin session
func (h *Handler) LogoutSubmit(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	http.Redirect(w, r, AdminLogin, http.StatusSeeOther)
}

func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, message string) {
	products, err := h.Catalog.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, status, "admin_dashboard.html", listPage{
		basePage: basePage{Title: "Dashboard", Admin: true},
		Error:    message,
		Products: repository.ToViews(products),
	})
}

// Dashboard lists every product with edit and delete actions
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, "")
}

// NewProductPage shows an empty product form
func (h *Handler) NewProductPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "admin_form.html", formPage{
		basePage: basePage{Title: "New product", Admin: true},
		Action:   "/admin/products/new",
		Form:     map[string]string{},
	})
}

// EditProductPage shows the form pre-filled with the stored product
func (h *Handler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "admin_form.html", formPage{
		basePage: basePage{Title: "Edit " + product.Name, Admin: true},
		ID:       id,
		Action:   "/admin/products/" + id + "/edit",
		Form:     productForm(repository.ToView(*product)),
	})
}

// readProductForm uploads the optional image and coerces the posted fields
func (h *Handler) readProductForm(w http.ResponseWriter, r *http.Request) (models.ProductFields, map[string]string, error) {
	data, header, err := readImage(w, r)
	form := formValues(r.PostForm)
	if err != nil {
		return models.ProductFields{}, form, err
	}

	if header != nil {
		url, err := h.Uploader.Upload(r.Context(), data, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			return models.ProductFields{}, form, err
		}
		r.PostForm.Set("photo_path", url)
		form["photo_path"] = url
	}

	fields, err := catalog.ParseFormFields(r.PostForm)
	return fields, form, err
}

func (h *Handler) renderFormError(w http.ResponseWriter, page formPage, err error) {
	appErr := apperror.As(err)
	page.Error = appErr.Message
	h.render(w, appErr.Status(), "admin_form.html", page)
}

// CreateProductSubmit saves a new product from the admin form
func (h *Handler) CreateProductSubmit(w http.ResponseWriter, r *http.Request) {
	page := formPage{
		basePage: basePage{Title: "New product", Admin: true},
		Action:   "/admin/products/new",
	}

	fields, form, err := h.readProductForm(w, r)
	page.Form = form
	if err == nil {
		_, err = h.Catalog.Create(r.Context(), fields)
	}
	if err != nil {
		h.renderFormError(w, page, err)
		return
	}
	http.Redirect(w, r, AdminHome, http.StatusSeeOther)
}

// UpdateProductSubmit saves the edit form
func (h *Handler) UpdateProductSubmit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	page := formPage{
		basePage: basePage{Title: "Edit product", Admin: true},
		ID:       id,
		Action:   "/admin/products/" + id + "/edit",
	}

	fields, form, err := h.readProductForm(w, r)
	page.Form = form
	if err == nil {
		_, err = h.Catalog.Update(r.Context(), id, fields)
	}
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			h.renderError(w, r, err)
			return
		}
		h.renderFormError(w, page, err)
		return
	}
	http.Redirect(w, r, AdminHome, http.StatusSeeOther)
}

// DeleteProductSubmit removes a product and returns to the dashboard
func (h *Handler) DeleteProductSubmit(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		appErr := apperror.As(err)
		h.renderDashboard(w, r, appErr.Status(), appErr.Message)
		return
	}
	http.Redirect(w, r, AdminHome, http.StatusSeeOther)
}
