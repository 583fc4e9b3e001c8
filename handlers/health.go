package handlers

import "net/http"

// Healthz reports that the process is serving
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.ResponseHdlr.Success(w, map[string]string{"status": "ok"})
}
