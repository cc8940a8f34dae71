package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"learnhub/internal/middleware"
	"learnhub/internal/model"
	"learnhub/pkg/apierror"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()

	var body model.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", model.ErrInvalidInput, http.StatusBadRequest, "invalid input"},
		{"duplicate email", model.ErrEmailTaken, http.StatusBadRequest, "email already exists"},
		{"double purchase", model.ErrOrderExists, http.StatusBadRequest, "course already purchased"},
		{"bad credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{"dead session", model.ErrSessionNotFound, http.StatusUnauthorized, "please login to access this resource"},
		{"missing course", model.ErrCourseNotFound, http.StatusNotFound, "course not found"},
		{"coded error", apierror.Forbidden("no access"), http.StatusForbidden, "no access"},
		{"unclassified", errors.New("disk on fire"), http.StatusInternalServerError, "unexpected server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			require.Equal(t, tc.status, rec.Code)

			body := decode(t, rec)
			require.False(t, body.Success)
			require.Equal(t, tc.message, body.Message)
		})
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	NotFound(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode(t, rec)
	require.False(t, body.Success)
	require.Equal(t, "resource not found", body.Message)
}

func TestCookieManager(t *testing.T) {
	t.Parallel()

	t.Run("set arms both cookies with their own lifetimes", func(t *testing.T) {
		cookies := NewCookieManager(30*time.Minute, 7*24*time.Hour, false)

		rec := httptest.NewRecorder()
		cookies.Set(rec, &model.TokenPair{AccessToken: "access", RefreshToken: "refresh"})

		set := rec.Result().Cookies()
		require.Len(t, set, 2)

		byName := map[string]*http.Cookie{}
		for _, cookie := range set {
			byName[cookie.Name] = cookie
		}

		access := byName[middleware.AccessTokenCookie]
		require.NotNil(t, access)
		require.Equal(t, "access", access.Value)
		require.Equal(t, 1800, access.MaxAge)
		require.True(t, access.HttpOnly)

		refresh := byName[refreshTokenCookie]
		require.NotNil(t, refresh)
		require.Equal(t, "refresh", refresh.Value)
		require.Equal(t, 604800, refresh.MaxAge)
		require.True(t, refresh.HttpOnly)
	})

	t.Run("clear expires both cookies", func(t *testing.T) {
		cookies := NewCookieManager(30*time.Minute, 7*24*time.Hour, false)

		rec := httptest.NewRecorder()
		cookies.Clear(rec)

		for _, cookie := range rec.Result().Cookies() {
			require.Empty(t, cookie.Value)
			require.Negative(t, cookie.MaxAge)
		}
	})
}
