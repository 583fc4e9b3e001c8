package handlers

import (
	"encoding/json"
	"net/http"
)

// ResponseHandler handles all successful responses
type ResponseHandler struct{}

// NewResponseHandler creates a new response handler
func NewResponseHandler() *ResponseHandler {
	return &ResponseHandler{}
}

// JSON sends a JSON response
func (h *ResponseHandler) JSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":500,"error":"Error processing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Success sends a response with status 200
func (h *ResponseHandler) Success(w http.ResponseWriter, data interface{}) {
	h.JSON(w, http.StatusOK, data)
}

// Created sends a response with status 201
func (h *ResponseHandler) Created(w http.ResponseWriter, data interface{}) {
	h.JSON(w, http.StatusCreated, data)
}
