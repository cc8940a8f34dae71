package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"learnhub/internal/model"
	"learnhub/internal/service"
)

// Minimal in-memory stand-ins for the auth service's collaborators.

type stubUserStore struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byID: map[string]*model.User{}, byEmail: map[string]*model.User{}}
}

func (s *stubUserStore) Create(_ context.Context, user *model.User) (*model.User, error) {
	clone := *user
	if clone.ID.IsZero() {
		clone.ID = bson.NewObjectID()
	}
	s.byID[clone.ID.Hex()] = &clone
	s.byEmail[clone.Email] = &clone
	return &clone, nil
}

func (s *stubUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserStore) FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	return s.FindByEmail(ctx, email)
}

type stubSessions struct {
	sessions map[string]*model.User
}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: map[string]*model.User{}}
}

func (s *stubSessions) Put(_ context.Context, user *model.User) error {
	clone := *user
	s.sessions[user.ID.Hex()] = &clone
	return nil
}

func (s *stubSessions) Get(_ context.Context, userID string) (*model.User, error) {
	return s.sessions[userID], nil
}

func (s *stubSessions) Delete(_ context.Context, userID string) error {
	delete(s.sessions, userID)
	return nil
}

type stubMailer struct{}

func (stubMailer) SendActivation(_, _, _ string) error { return nil }
func (stubMailer) SendOrderConfirmation(_, _ string, _ *model.Course, _ *model.Order) error {
	return nil
}
func (stubMailer) SendQuestionAnswered(_, _, _, _ string) error { return nil }

type refreshFixture struct {
	sessions *stubSessions
	handler  *AuthHandler
	svc      *service.AuthService
}

func newRefreshFixture(t *testing.T) *refreshFixture {
	t.Helper()

	tokens, err := service.NewTokenService(
		"access-secret", "refresh-secret", "activation-secret",
		30*time.Minute, 7*24*time.Hour, 5*time.Minute,
	)
	require.NoError(t, err)

	sessions := newStubSessions()
	svc := service.NewAuthService(newStubUserStore(), sessions, tokens, stubMailer{})
	cookies := NewCookieManager(30*time.Minute, 7*24*time.Hour, false)

	return &refreshFixture{
		sessions: sessions,
		handler:  NewAuthHandler(svc, cookies),
		svc:      svc,
	}
}

func (f *refreshFixture) login(t *testing.T) (*model.User, *model.TokenPair) {
	t.Helper()

	user, pair, err := f.svc.SocialAuth(context.Background(), model.SocialAuthRequest{
		Name: "Ada", Email: "ada@example.com",
	})
	require.NoError(t, err)
	return user, pair
}

func refreshRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: token})
	}
	return req
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("live session rotates the pair", func(t *testing.T) {
		f := newRefreshFixture(t)
		_, pair := f.login(t)

		rec := httptest.NewRecorder()
		f.handler.Refresh(rec, refreshRequest(pair.RefreshToken))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, rec.Result().Cookies(), 2)
	})

	t.Run("evicted session answers the refresh message", func(t *testing.T) {
		f := newRefreshFixture(t)
		user, pair := f.login(t)
		require.NoError(t, f.sessions.Delete(context.Background(), user.ID.Hex()))

		rec := httptest.NewRecorder()
		f.handler.Refresh(rec, refreshRequest(pair.RefreshToken))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "couldn't update token", decode(t, rec).Message)
	})

	t.Run("garbage refresh token answers the refresh message", func(t *testing.T) {
		f := newRefreshFixture(t)

		rec := httptest.NewRecorder()
		f.handler.Refresh(rec, refreshRequest("not-a-token"))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "couldn't update token", decode(t, rec).Message)
	})

	t.Run("missing cookie answers the refresh message", func(t *testing.T) {
		f := newRefreshFixture(t)

		rec := httptest.NewRecorder()
		f.handler.Refresh(rec, refreshRequest(""))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "couldn't update token", decode(t, rec).Message)
	})
}
