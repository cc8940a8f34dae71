package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"learnhub/internal/middleware"
	"learnhub/internal/model"
	"learnhub/internal/service"
	"learnhub/pkg/apierror"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	var payload model.UpdateInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	updated, err := h.service.UpdateInfo(r.Context(), user.ID.Hex(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", updated)
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	var payload model.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	updated, err := h.service.UpdatePassword(r.Context(), user.ID.Hex(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "password updated", updated)
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	var payload model.UpdateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	updated, err := h.service.UpdateAvatar(r.Context(), user.ID.Hex(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", updated)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", users)
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	updated, err := h.service.UpdateRole(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", updated)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "user deleted successfully", nil)
}
