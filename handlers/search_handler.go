package handlers

import (
	"net/http"

	"storefront/models"
	"storefront/repository"
)

// SearchProducts runs the store-level substring search
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}

	results := make([]models.ProductSummary, 0, len(products))
	for _, p := range products {
		results = append(results, repository.ToSummary(p))
	}
	h.ResponseHdlr.Success(w, results)
}
