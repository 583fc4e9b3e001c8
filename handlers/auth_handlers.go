package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"storefront/auth"
	"storefront/middleware"
	"storefront/models"
	"storefront/utils"
)

var validate = validator.New()

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login checks admin credentials and issues the session token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	// Parse and validate the request body
	var req models.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		var details []utils.ErrorDetail
		for _, fe := range err.(validator.ValidationErrors) {
			details = append(details, utils.ErrorDetail{
				Field:   fe.Field(),
				Message: utils.FormatValidationError(fe),
			})
		}
		h.ErrorHdlr.HandleValidationError(w, details)
		return
	}

	token, session, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.ErrorHdlr.HandleAppError(w, err)
		return
	}

	h.setSessionCookie(w, token, session)
	h.ResponseHdlr.Success(w, models.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		User: models.UserResponse{
			ID:    session.UserID,
			Email: session.Email,
			Role:  session.Role,
		},
	})
}

// Logout clears the session cookie. Bearer tokens simply expire.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	h.ResponseHdlr.Success(w, map[string]bool{"success": true})
}
