package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"learnhub/internal/model"
)

// SessionCache is the session snapshot store the services depend on.
type SessionCache interface {
	Put(ctx context.Context, user *model.User) error
	Get(ctx context.Context, userID string) (*model.User, error)
	Delete(ctx context.Context, userID string) error
}

// Mailer delivers transactional mail.
type Mailer interface {
	SendActivation(to, name, code string) error
	SendOrderConfirmation(to, name string, course *model.Course, order *model.Order) error
	SendQuestionAnswered(to, name, courseName, sectionTitle string) error
}

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error)
}

// AuthService implements registration, activation and the session
// lifecycle. Registration persists nothing: the pending account rides
// inside the activation token until the mailed code is presented back.
type AuthService struct {
	users    UserStore
	sessions SessionCache
	tokens   *TokenService
	mailer   Mailer
}

func NewAuthService(users UserStore, sessions SessionCache, tokens *TokenService, mailer Mailer) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens, mailer: mailer}
}

// Register validates the request, mails a 4-digit activation code and
// returns the activation token the client must echo back.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	if req.Name == "" || req.Password == "" {
		return "", model.ErrInvalidInput
	}
	if !model.EmailPattern.MatchString(req.Email) {
		return "", model.ErrInvalidInput
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return "", model.ErrEmailTaken
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	pending := model.PendingUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	}

	token, code, err := s.tokens.MintActivationToken(pending)
	if err != nil {
		return "", err
	}

	if err := s.mailer.SendActivation(req.Email, req.Name, code); err != nil {
		return "", fmt.Errorf("send activation mail: %w", err)
	}

	return token, nil
}

// Activate turns a pending registration into a durable account once
// the token verifies and the code matches.
func (s *AuthService) Activate(ctx context.Context, req model.ActivateRequest) (*model.User, error) {
	pending, err := s.tokens.VerifyActivation(req.ActivationToken, req.ActivationCode)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:       pending.Name,
		Email:      pending.Email,
		Password:   pending.Password,
		Role:       model.RoleUser,
		IsVerified: true,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	created.Password = ""

	return created, nil
}

// Login checks credentials, issues a token pair and installs the
// session snapshot.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, *model.TokenPair, error) {
	if req.Email == "" || req.Password == "" {
		return nil, nil, model.ErrInvalidInput
	}

	user, err := s.users.FindByEmailWithPassword(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, model.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	// Social-auth accounts have no password to check against.
	if user.Password == "" {
		return nil, nil, model.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, nil, model.ErrInvalidCredentials
	}
	user.Password = ""

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// SocialAuth trusts the upstream identity provider: get-or-create by
// email, no password, same session and cookie issuance as Login.
func (s *AuthService) SocialAuth(ctx context.Context, req model.SocialAuthRequest) (*model.User, *model.TokenPair, error) {
	if !model.EmailPattern.MatchString(req.Email) {
		return nil, nil, model.ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		user, err = s.users.Create(ctx, &model.User{
			Name:       req.Name,
			Email:      req.Email,
			Avatar:     model.Media{URL: req.Avatar},
			Role:       model.RoleUser,
			IsVerified: true,
		})
	}
	if err != nil {
		return nil, nil, err
	}
	user.Password = ""

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Logout drops the session. The access token stays cryptographically
// valid until expiry but the gate rejects it once the session is gone.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}

// Refresh rotates the token pair. The snapshot is served from the
// session cache, Mongo is not consulted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.User, *model.TokenPair, error) {
	userID, err := s.tokens.Verify(refreshToken, RefreshToken)
	if err != nil {
		return nil, nil, model.ErrInvalidToken
	}

	user, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, model.ErrSessionNotFound
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Me returns the cached snapshot for an authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrSessionNotFound
	}
	return user, nil
}

func (s *AuthService) openSession(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	access, err := s.tokens.MintAccessToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.MintRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, user); err != nil {
		return nil, err
	}

	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}
