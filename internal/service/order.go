package service

import (
	"context"

	"learnhub/internal/cache"
	"learnhub/internal/model"
	"learnhub/internal/repository"
	"learnhub/pkg/apierror"
)

// OrderService records purchases. A successful order touches five
// places in a fixed sequence: order document, user's course list (and
// its session snapshot), purchase count, admin notification, mail.
type OrderService struct {
	orders        repository.OrderRepository
	courses       repository.CourseRepository
	users         repository.UserRepository
	sessions      SessionCache
	catalog       CatalogCache
	notifications NotificationStore
	mailer        Mailer
}

func NewOrderService(
	orders repository.OrderRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	sessions SessionCache,
	catalog CatalogCache,
	notifications NotificationStore,
	mailer Mailer,
) *OrderService {
	return &OrderService{
		orders:        orders,
		courses:       courses,
		users:         users,
		sessions:      sessions,
		catalog:       catalog,
		notifications: notifications,
		mailer:        mailer,
	}
}

// Create records the purchase. A mail delivery failure is reported to
// the caller but rolls back none of the durable writes.
func (s *OrderService) Create(ctx context.Context, user *model.User, req model.CreateOrderRequest) (*model.Order, error) {
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	if user.HasCourse(req.CourseID) {
		return nil, model.ErrOrderExists
	}
	exists, err := s.orders.Exists(ctx, user.ID.Hex(), req.CourseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrOrderExists
	}

	order, err := s.orders.Create(ctx, &model.Order{
		CourseID:    req.CourseID,
		UserID:      user.ID.Hex(),
		PaymentInfo: req.PaymentInfo,
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.users.AddCourse(ctx, user.ID.Hex(), req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, updated); err != nil {
		return nil, err
	}

	if err := s.courses.IncrementPurchaseCount(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if err := s.catalog.Invalidate(ctx, cache.WriteEdit, req.CourseID); err != nil {
		return nil, err
	}

	_, err = s.notifications.Create(ctx, &model.Notification{
		UserID:  user.ID.Hex(),
		Title:   "New Order",
		Message: user.Name + " purchased " + course.Name,
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendOrderConfirmation(user.Email, user.Name, course, order); err != nil {
		// The order already stands; the caller only learns the mail
		// did not go out.
		return nil, apierror.Validation("could not send order confirmation email")
	}

	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	return s.orders.List(ctx)
}
