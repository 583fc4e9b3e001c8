package handlers

import (
	"encoding/json"
	"net/http"

	"storefront/models"
)

// Notify relays a storefront inquiry to the operator by SMS
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var req models.NotifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	id, err := h.Notifier.Notify(r.Context(), req.ProductID, req.ProductName, req.ProductURL)
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}
	h.ResponseHdlr.Success(w, models.NotifyResponse{
		Success:   true,
		Message:   "SMS sent successfully",
		MessageID: id,
	})
}
