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

type CourseHandler struct {
	service *service.CourseService
}

func NewCourseHandler(service *service.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CourseInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	course, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "", course)
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CourseInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	course, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", course)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "course deleted successfully", nil)
}

// Get serves the public, projected view through the catalog cache.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", course)
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.GetCourses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", courses)
}

// GetContent serves the full lecture data to purchasers.
func (h *CourseHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	content, err := h.service.GetContent(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", content)
}

func (h *CourseHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	var payload model.AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	course, err := h.service.AddQuestion(r.Context(), user, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", course)
}

func (h *CourseHandler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	var payload model.AddAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	course, err := h.service.AddAnswer(r.Context(), user, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", course)
}

func (h *CourseHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	var payload model.AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	course, err := h.service.AddReview(r.Context(), user, chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", course)
}

func (h *CourseHandler) AddReviewReply(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Auth("please login to access this resource"))
		return
	}

	var payload model.AddReviewReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.Validation("invalid JSON body"))
		return
	}

	course, err := h.service.AddReviewReply(r.Context(), user, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", course)
}
