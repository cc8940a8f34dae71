package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"learnhub/internal/model"
	"learnhub/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NotFound answers unmatched routes with the standard envelope instead
// of chi's plain-text default.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, apierror.NotFound("resource not found"))
}

// writeError maps every failure onto the single error envelope. The
// sentinel table mirrors the status taxonomy: 400 validation, 401
// credentials, 403 role, 404 missing, 500 everything else.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "unexpected server error"

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, model.ErrEmailTaken):
		status = http.StatusBadRequest
		message = model.ErrEmailTaken.Error()
	case errors.Is(err, model.ErrOrderExists):
		status = http.StatusBadRequest
		message = model.ErrOrderExists.Error()
	case errors.Is(err, model.ErrNotEligible):
		status = http.StatusBadRequest
		message = model.ErrNotEligible.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = model.ErrInvalidCredentials.Error()
	case errors.Is(err, model.ErrInvalidToken):
		status = http.StatusUnauthorized
		message = model.ErrInvalidToken.Error()
	case errors.Is(err, model.ErrSessionNotFound):
		status = http.StatusUnauthorized
		message = "please login to access this resource"
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		message = model.ErrUserNotFound.Error()
	case errors.Is(err, model.ErrCourseNotFound):
		status = http.StatusNotFound
		message = model.ErrCourseNotFound.Error()
	case errors.Is(err, model.ErrContentNotFound):
		status = http.StatusNotFound
		message = model.ErrContentNotFound.Error()
	case errors.Is(err, model.ErrQuestionNotFound):
		status = http.StatusNotFound
		message = model.ErrQuestionNotFound.Error()
	case errors.Is(err, model.ErrReviewNotFound):
		status = http.StatusNotFound
		message = model.ErrReviewNotFound.Error()
	case errors.Is(err, model.ErrNotificationNotFound):
		status = http.StatusNotFound
		message = model.ErrNotificationNotFound.Error()
	default:
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Message: message,
	})
}
