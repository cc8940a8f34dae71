package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"learnhub/internal/model"
)

func TestAnalytics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("series has twelve windows, newest last", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewAnalyticsService(users, newFakeCourseRepo(), &fakeOrderRepo{})

		_, err := users.Create(ctx, &model.User{Name: "Ada", Email: "ada@example.com"})
		require.NoError(t, err)

		data, err := svc.Users(ctx)
		require.NoError(t, err)
		require.Len(t, data.Last12Months, 12)

		// The user was just created, so only the newest window counts it.
		require.Equal(t, int64(1), data.Last12Months[11].Count)
		for _, window := range data.Last12Months[:11] {
			require.Zero(t, window.Count)
		}

		require.Equal(t, time.Now().Format("Jan 2 2006"), data.Last12Months[11].Month)
	})
}
