package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/catalog"
	"storefront/repository"
)

const maxJSONBody = 1 << 20

// decodeFields reads a loosely typed JSON object and coerces product fields
func (h *Handler) decodeFields(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	var raw map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&raw); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return nil, false
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return raw, true
}

// ListProducts returns the full catalog, newest first
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.List(r.Context())
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}
	h.ResponseHdlr.Success(w, repository.ToViews(products))
}

// GetProduct handles retrieving a single product by ID
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.Catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}
	h.ResponseHdlr.Success(w, repository.ToView(*product))
}

// CreateProduct handles creating a new product
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decodeFields(w, r)
	if !ok {
		return
	}
	fields, err := catalog.ParseFields(raw)
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}

	product, err := h.Catalog.Create(r.Context(), fields)
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}
	h.ResponseHdlr.Created(w, repository.ToView(*product))
}

// UpdateProduct applies a partial update
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.decodeFields(w, r)
	if !ok {
		return
	}
	fields, err := catalog.ParseFields(raw)
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}

	product, err := h.Catalog.Update(r.Context(), mux.Vars(r)["id"], fields)
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}
	h.ResponseHdlr.Success(w, repository.ToView(*product))
}

// DeleteProduct handles deleting a product
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}
	h.ResponseHdlr.Success(w, map[string]bool{"success": true})
}
