package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"learnhub/internal/middleware"
	"learnhub/internal/model"
	"learnhub/internal/service"
	"learnhub/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
	cookies *CookieManager
}

func NewAuthHandler(service *service.AuthService, cookies *CookieManager) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

// Register mails the activation code and returns the activation token.
// No account exists until Activate succeeds.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	token, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "please check your email to activate your account", map[string]string{
		"activation_token": token,
	})
}

func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	user, err := h.service.Activate(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "account activated", user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	user, pair, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Set(w, pair)
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"user":         user,
		"access_token": pair.AccessToken,
	})
}

func (h *AuthHandler) SocialAuth(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SocialAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	user, pair, err := h.service.SocialAuth(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Set(w, pair)
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"user":         user,
		"access_token": pair.AccessToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	if err := h.service.Logout(r.Context(), user.ID.Hex()); err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Clear(w)
	writeSuccess(w, http.StatusOK, "logged out successfully", nil)
}

// Refresh rotates the token pair off the refresh cookie. The gate is
// not involved: an expired access token is the normal case here.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, apierror.Auth("couldn't update token"))
		return
	}

	_, pair, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		// A bad refresh token and a vanished session read the same from
		// the client's side: the pair could not be rotated.
		if errors.Is(err, model.ErrInvalidToken) || errors.Is(err, model.ErrSessionNotFound) {
			writeError(w, apierror.Auth("couldn't update token"))
			return
		}
		writeError(w, err)
		return
	}

	h.cookies.Set(w, pair)
	writeSuccess(w, http.StatusOK, "", map[string]string{
		"access_token": pair.AccessToken,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	writeSuccess(w, http.StatusOK, "", user)
}
