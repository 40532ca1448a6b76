package service_test

import (
	"context"
	"testing"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityService_CheckCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := testutil.Date(t, "2024-03-20")

	capacity, err := f.capacity.CheckCapacity(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 0, capacity.Scheduled)
	assert.Equal(t, 30, capacity.Remaining)
	assert.False(t, capacity.FullyBooked)

	testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, date, 20, "100", domain.OrderStatusPending)
	testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.ScheduleDelivery, date, 5, "100", domain.OrderStatusPending)
	testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, testutil.Date(t, "2024-03-21"), 9, "100", domain.OrderStatusPending)

	capacity, err = f.capacity.CheckCapacity(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-20", capacity.Date)
	assert.Equal(t, 25, capacity.Scheduled)
	assert.Equal(t, 30, capacity.Limit)
	assert.Equal(t, 5, capacity.Remaining)
	assert.False(t, capacity.FullyBooked)

	testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, date, 10, "100", domain.OrderStatusPending)

	capacity, err = f.capacity.CheckCapacity(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, -5, capacity.Remaining)
	assert.True(t, capacity.FullyBooked)
}

func TestCapacityService_UsesStoredLoadLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.settings.Update(ctx, f.admin, &domain.UpdateSettingsRequest{
		Password:  testPassword,
		LoadLimit: ptr(12),
	})
	require.NoError(t, err)

	capacity, err := f.capacity.CheckToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", capacity.Date)
	assert.Equal(t, 12, capacity.Limit)
	assert.Equal(t, 12, capacity.Remaining)
}

func TestCapacityService_SuggestAvailableDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := testutil.Date(t, "2024-03-15")

	testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, testutil.Date(t, "2024-03-16"), 30, "100", domain.OrderStatusPending)
	testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, testutil.Date(t, "2024-03-19"), 26, "100", domain.OrderStatusPending)

	t.Run("skips full days and Sundays", func(t *testing.T) {
		dates, err := f.capacity.SuggestAvailableDates(ctx, from, 0, 0)
		require.NoError(t, err)
		require.Len(t, dates, 3)
		assert.Equal(t, "2024-03-18", dates[0].Date)
		assert.Equal(t, 30, dates[0].Remaining)
		assert.Equal(t, "2024-03-19", dates[1].Date)
		assert.Equal(t, 4, dates[1].Remaining)
		assert.Equal(t, "2024-03-20", dates[2].Date)
	})

	t.Run("short lookahead returns fewer dates without error", func(t *testing.T) {
		dates, err := f.capacity.SuggestAvailableDates(ctx, from, 2, 3)
		require.NoError(t, err)
		assert.Empty(t, dates)
	})

	t.Run("stops once enough dates are found", func(t *testing.T) {
		dates, err := f.capacity.SuggestAvailableDates(ctx, from, 30, 1)
		require.NoError(t, err)
		require.Len(t, dates, 1)
		assert.Equal(t, "2024-03-18", dates[0].Date)
	})
}
