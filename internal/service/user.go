package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"learnhub/internal/model"
	"learnhub/internal/repository"
)

// ImageHost uploads and removes hosted images. Payloads arrive as
// base64 data URLs straight from the client.
type ImageHost interface {
	Upload(ctx context.Context, image string, folder string) (*model.Media, error)
	Destroy(ctx context.Context, publicID string) error
}

// UserService covers profile mutations and the admin user surface.
// Every profile mutation writes Mongo first and re-Puts the session
// snapshot only after the durable write is acknowledged.
type UserService struct {
	users    repository.UserRepository
	sessions SessionCache
	images   ImageHost
}

func NewUserService(users repository.UserRepository, sessions SessionCache, images ImageHost) *UserService {
	return &UserService{users: users, sessions: sessions, images: images}
}

func (s *UserService) UpdateInfo(ctx context.Context, userID string, req model.UpdateInfoRequest) (*model.User, error) {
	if req.Name == "" && req.Email == "" {
		return nil, model.ErrInvalidInput
	}
	if req.Email != "" && !model.EmailPattern.MatchString(req.Email) {
		return nil, model.ErrInvalidInput
	}

	user, err := s.users.UpdateInfo(ctx, userID, req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, userID string, req model.UpdatePasswordRequest) (*model.User, error) {
	if req.OldPassword == "" || req.NewPassword == "" {
		return nil, model.ErrInvalidInput
	}

	user, err := s.users.FindByIDWithPassword(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Social-auth accounts carry no password and cannot set one here.
	if user.Password == "" {
		return nil, model.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		return nil, model.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	updated, err := s.users.UpdatePassword(ctx, userID, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateAvatar replaces the hosted avatar: the previous upload is
// destroyed before the new one is stored.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, req model.UpdateAvatarRequest) (*model.User, error) {
	if req.Avatar == "" {
		return nil, model.ErrInvalidInput
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Avatar.PublicID != "" {
		if err := s.images.Destroy(ctx, user.Avatar.PublicID); err != nil {
			return nil, err
		}
	}

	media, err := s.images.Upload(ctx, req.Avatar, "avatars")
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateAvatar(ctx, userID, *media)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, req model.UpdateRoleRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, model.ErrInvalidInput
	}

	user, err := s.users.UpdateRole(ctx, req.UserID, req.Role)
	if err != nil {
		return nil, err
	}

	// Refresh the snapshot only when a session is live; Put on a
	// logged-out user would fabricate a session.
	live, err := s.sessions.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if live != nil {
		if err := s.sessions.Put(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Delete removes the account and its session entry, ending any live
// login immediately.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, userID)
}
