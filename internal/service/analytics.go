package service

import (
	"context"
	"time"

	"learnhub/internal/model"
)

// CreationCounter counts documents created inside a window. All three
// analytics sources satisfy it.
type CreationCounter interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// AnalyticsService produces the last-12-months creation series used by
// the admin dashboard. Months are 28-day windows counted back from
// now, so the series is uniform rather than calendar-aligned.
type AnalyticsService struct {
	users   CreationCounter
	courses CreationCounter
	orders  CreationCounter
}

func NewAnalyticsService(users, courses, orders CreationCounter) *AnalyticsService {
	return &AnalyticsService{users: users, courses: courses, orders: orders}
}

func (s *AnalyticsService) Users(ctx context.Context) (*model.AnalyticsData, error) {
	return last12Months(ctx, s.users)
}

func (s *AnalyticsService) Courses(ctx context.Context) (*model.AnalyticsData, error) {
	return last12Months(ctx, s.courses)
}

func (s *AnalyticsService) Orders(ctx context.Context) (*model.AnalyticsData, error) {
	return last12Months(ctx, s.orders)
}

func last12Months(ctx context.Context, counter CreationCounter) (*model.AnalyticsData, error) {
	now := time.Now()
	months := make([]model.MonthData, 0, 12)

	for i := 11; i >= 0; i-- {
		end := now.AddDate(0, 0, -28*i)
		start := end.AddDate(0, 0, -28)

		count, err := counter.CountCreatedBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}

		months = append(months, model.MonthData{
			Month: end.Format("Jan 2 2006"),
			Count: count,
		})
	}

	return &model.AnalyticsData{Last12Months: months}, nil
}
