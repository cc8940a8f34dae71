package handler

import (
	"net/http"

	"learnhub/internal/service"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) Users(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", data)
}

func (h *AnalyticsHandler) Courses(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Courses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", data)
}

func (h *AnalyticsHandler) Orders(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Orders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", data)
}
