package repository_test

import (
	"context"
	"testing"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/freshfold/laundry-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOrderRepository_ListFiltersAndSorts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()
	clerk := testutil.CreateTestUser(t, db, "clerk", domain.RoleEmployee)

	early := testutil.CreateTestOrder(t, db, clerk.ID, domain.SchedulePickup, testutil.Date(t, "2024-03-10"), 2, "240", domain.OrderStatusPending)
	late := testutil.CreateTestOrder(t, db, clerk.ID, domain.ScheduleDelivery, testutil.Date(t, "2024-03-20"), 1, "170", domain.OrderStatusPending)
	testutil.CreateTestOrder(t, db, clerk.ID, domain.SchedulePickup, testutil.Date(t, "2024-03-15"), 3, "360", domain.OrderStatusCompleted)

	t.Run("default sort is newest schedule first", func(t *testing.T) {
		orders, total, err := repo.List(ctx, 1, 20, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, orders, 3)
		assert.Equal(t, late.ID, orders[0].ID)
		assert.Equal(t, early.ID, orders[2].ID)
	})

	t.Run("ascending by amount", func(t *testing.T) {
		orders, _, err := repo.List(ctx, 1, 20, &repository.OrderFilters{
			Sort: repository.SortConfig{Field: "totalAmount", Order: repository.SortOrderAsc},
		})
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, late.ID, orders[0].ID)
	})

	t.Run("status and date range", func(t *testing.T) {
		status := domain.OrderStatusPending
		from := testutil.Date(t, "2024-03-01")
		to := testutil.Date(t, "2024-03-15")
		orders, total, err := repo.List(ctx, 1, 20, &repository.OrderFilters{
			Status:       &status,
			ScheduleFrom: &from,
			ScheduleTo:   &to,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, early.ID, orders[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		orders, total, err := repo.List(ctx, 2, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, orders, 1)
	})
}

func TestOrderRepository_StatusUpdates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()
	clerk := testutil.CreateTestUser(t, db, "clerk", domain.RoleEmployee)
	today := testutil.Date(t, "2024-03-15")

	testutil.CreateTestOrder(t, db, clerk.ID, domain.ScheduleDelivery, testutil.Date(t, "2024-03-14"), 1, "170", domain.OrderStatusPending)
	testutil.CreateTestOrder(t, db, clerk.ID, domain.ScheduleDelivery, today, 1, "170", domain.OrderStatusPending)
	pickup := testutil.CreateTestOrder(t, db, clerk.ID, domain.SchedulePickup, testutil.Date(t, "2024-03-01"), 1, "120", domain.OrderStatusCompleted)

	n, err := repo.MarkOverdue(ctx, domain.ScheduleDelivery, today, domain.OrderStatusLate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.MarkOverdue(ctx, domain.SchedulePickup, today, domain.OrderStatusUnclaimed)
	require.NoError(t, err)
	assert.Zero(t, n, "completed orders are never touched")

	n, err = repo.UpdateStatusIfPending(ctx, pickup.ID, domain.OrderStatusLate)
	require.NoError(t, err)
	assert.Zero(t, n)

	loads, err := repo.SumLoadsOn(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)

	assert.ErrorIs(t, repo.SetStatus(ctx, 999, domain.OrderStatusCompleted), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999), gorm.ErrRecordNotFound)
}
