package service

import (
	"context"

	"learnhub/internal/model"
	"learnhub/internal/repository"
)

type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns all notifications, newest first.
func (s *NotificationService) List(ctx context.Context) ([]model.Notification, error) {
	return s.notifications.List(ctx)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	return s.notifications.MarkRead(ctx, id)
}
