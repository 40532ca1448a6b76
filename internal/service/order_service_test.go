package service_test

import (
	"context"
	"testing"

	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/freshfold/laundry-api/internal/service"
	"github.com/freshfold/laundry-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_CreateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wash := testutil.CreateTestItem(t, f.db, "Wash & Fold", domain.ItemTypeService, "120.00")
	softener := testutil.CreateTestItem(t, f.db, "Softener", domain.ItemTypeAddon, "15.50")

	t.Run("pickup order snapshots weight per load", func(t *testing.T) {
		order := f.createOrder(t, orderRequest(domain.SchedulePickup, "2024-03-18", 16,
			domain.OrderLineRequest{ItemID: wash.ID, Quantity: 3},
			domain.OrderLineRequest{ItemID: softener.ID, Quantity: 2},
		))

		assert.Equal(t, 3, order.TotalLoad)
		assert.True(t, order.WeightPerLoadSnapshot.Equal(testutil.Money("7")))
		assert.True(t, order.TotalAmount.Equal(testutil.Money("391")))
		assert.True(t, order.DeliveryFee.IsZero())
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, f.employee.UserID, order.EmployeeID)
		require.Len(t, order.Items, 2)

		stored, err := f.orders.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 2)
		assert.Equal(t, "Wash & Fold", stored.Items[0].ServiceName)
		assert.True(t, stored.Items[0].CalculatedAmount.Equal(testutil.Money("360")))
		assert.True(t, stored.Items[1].CalculatedAmount.Equal(testutil.Money("31")))
	})

	t.Run("delivery order carries a fee line", func(t *testing.T) {
		order := f.createOrder(t, orderRequest(domain.ScheduleDelivery, "2024-03-18", 7,
			domain.OrderLineRequest{ItemID: wash.ID, Quantity: 2},
		))

		assert.True(t, order.DeliveryFee.Equal(testutil.Money("50")))
		assert.True(t, order.TotalAmount.Equal(testutil.Money("290")))
		require.Len(t, order.Items, 2)
		assert.Equal(t, service.DeliveryFeeLineName, order.Items[1].ServiceName)
	})

	t.Run("price edits do not touch existing lines", func(t *testing.T) {
		order := f.createOrder(t, orderRequest(domain.SchedulePickup, "2024-03-18", 5,
			domain.OrderLineRequest{ItemID: softener.ID, Quantity: 1},
		))
		_, err := f.catalog.Update(ctx, f.admin, softener.ID, &domain.UpdateItemRequest{
			Name:  "Softener",
			Type:  domain.ItemTypeAddon,
			Price: 20,
		})
		require.NoError(t, err)

		stored, err := f.orders.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, stored.Items[0].Price.Equal(testutil.Money("15.5")))
	})

	t.Run("validation failures", func(t *testing.T) {
		disabled := testutil.CreateTestItem(t, f.db, "Old Service", domain.ItemTypeDisabled, "10")

		cases := []struct {
			name string
			req  *domain.CreateOrderRequest
		}{
			{"missing customer", func() *domain.CreateOrderRequest {
				r := orderRequest(domain.SchedulePickup, "2024-03-18", 5, domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1})
				r.CustomerName = "   "
				return r
			}()},
			{"zero weight", orderRequest(domain.SchedulePickup, "2024-03-18", 0, domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1})},
			{"weight rounding to zero", orderRequest(domain.SchedulePickup, "2024-03-18", 0.004, domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1})},
			{"bad schedule type", orderRequest("courier", "2024-03-18", 5, domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1})},
			{"bad date", orderRequest(domain.SchedulePickup, "18/03/2024", 5, domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1})},
			{"no items", orderRequest(domain.SchedulePickup, "2024-03-18", 5)},
			{"zero quantity", orderRequest(domain.SchedulePickup, "2024-03-18", 5, domain.OrderLineRequest{ItemID: wash.ID, Quantity: 0})},
			{"unknown item", orderRequest(domain.SchedulePickup, "2024-03-18", 5, domain.OrderLineRequest{ItemID: 9999, Quantity: 1})},
			{"disabled item", orderRequest(domain.SchedulePickup, "2024-03-18", 5, domain.OrderLineRequest{ItemID: disabled.ID, Quantity: 1})},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.orders.CreateOrder(ctx, f.employee, tc.req)
				var vErr *domain.ValidationError
				assert.ErrorAs(t, err, &vErr)
			})
		}
	})

	t.Run("requires a caller", func(t *testing.T) {
		_, err := f.orders.CreateOrder(ctx, nil, orderRequest(domain.SchedulePickup, "2024-03-18", 5,
			domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1}))
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestOrderService_CreateOrderIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wash := testutil.CreateTestItem(t, f.db, "Wash", domain.ItemTypeService, "100")
	require.NoError(t, f.db.Exec(`CREATE TRIGGER fail_items BEFORE INSERT ON order_items
		WHEN NEW.quantity = 13 BEGIN SELECT RAISE(ABORT, 'item insert failed'); END;`).Error)

	_, err := f.orders.CreateOrder(ctx, f.employee, orderRequest(domain.SchedulePickup, "2024-03-18", 5,
		domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1},
		domain.OrderLineRequest{ItemID: wash.ID, Quantity: 13},
	))
	var pErr *service.PersistenceError
	require.ErrorAs(t, err, &pErr)

	var orders, items int64
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, f.db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderService_UpdateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wash := testutil.CreateTestItem(t, f.db, "Wash", domain.ItemTypeService, "100")
	iron := testutil.CreateTestItem(t, f.db, "Ironing", domain.ItemTypeAddon, "30")

	t.Run("wrong password is rejected", func(t *testing.T) {
		order := f.createOrder(t, orderRequest(domain.SchedulePickup, "2024-03-18", 7,
			domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1}))

		_, err := f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
			Password:     "nope",
			CustomerName: ptr("Someone Else"),
		})
		assert.ErrorIs(t, err, service.ErrPasswordConfirmation)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		order := f.createOrder(t, orderRequest(domain.SchedulePickup, "2024-03-18", 7,
			domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1}))

		updated, err := f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
			Password: testPassword,
			Contact:  ptr("0918 222 3333"),
		})
		require.NoError(t, err)
		assert.Equal(t, "0918 222 3333", updated.Contact)
		assert.Equal(t, order.CustomerName, updated.CustomerName)
		assert.Equal(t, order.Address, updated.Address)
		assert.True(t, updated.TotalAmount.Equal(order.TotalAmount))
		assert.Len(t, updated.Items, 1)
	})

	t.Run("weight per load snapshot survives a settings change", func(t *testing.T) {
		order := f.createOrder(t, orderRequest(domain.SchedulePickup, "2024-03-18", 16,
			domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1}))
		require.Equal(t, 3, order.TotalLoad)

		_, err := f.settings.Update(ctx, f.admin, &domain.UpdateSettingsRequest{
			Password:      testPassword,
			WeightPerLoad: ptr(5.0),
		})
		require.NoError(t, err)

		updated, err := f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
			Password:     testPassword,
			CustomerName: ptr("Renamed"),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.TotalLoad)
		assert.True(t, updated.WeightPerLoadSnapshot.Equal(testutil.Money("7")))

		updated, err = f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
			Password:    testPassword,
			TotalWeight: ptr(21.0),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.TotalLoad)

		updated, err = f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
			Password:                testPassword,
			UseCurrentWeightPerLoad: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.TotalLoad)
		assert.True(t, updated.WeightPerLoadSnapshot.Equal(testutil.Money("5")))

		updated, err = f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
			Password:      testPassword,
			WeightPerLoad: ptr(10.0),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.TotalLoad)
	})

	t.Run("replacing items recomputes the total", func(t *testing.T) {
		order := f.createOrder(t, orderRequest(domain.ScheduleDelivery, "2024-03-18", 7,
			domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1}))
		require.True(t, order.TotalAmount.Equal(testutil.Money("150")))

		updated, err := f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
			Password: testPassword,
			Items: []domain.OrderLineRequest{
				{ItemID: wash.ID, Quantity: 2},
				{ItemID: iron.ID, Quantity: 3},
			},
		})
		require.NoError(t, err)
		assert.True(t, updated.TotalAmount.Equal(testutil.Money("340")))
		require.Len(t, updated.Items, 3)
		assert.Equal(t, service.DeliveryFeeLineName, updated.Items[2].ServiceName)

		var count int64
		require.NoError(t, f.db.Model(&domain.OrderItem{}).Where("order_id = ?", order.ID).Count(&count).Error)
		assert.Equal(t, int64(3), count)
	})

	t.Run("switching to pickup drops the delivery fee", func(t *testing.T) {
		order := f.createOrder(t, orderRequest(domain.ScheduleDelivery, "2024-03-18", 7,
			domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1}))

		updated, err := f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
			Password:     testPassword,
			ScheduleType: ptr(domain.SchedulePickup),
		})
		require.NoError(t, err)
		assert.True(t, updated.DeliveryFee.IsZero())
		assert.True(t, updated.TotalAmount.Equal(testutil.Money("100")))
		require.Len(t, updated.Items, 1)
		assert.Equal(t, "Wash", updated.Items[0].ServiceName)
	})

	t.Run("rescheduling an overdue order makes it pending again", func(t *testing.T) {
		order := testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup,
			testutil.Date(t, "2024-03-01"), 1, "100", domain.OrderStatusUnclaimed)

		updated, err := f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
			Password:     testPassword,
			ScheduleDate: ptr("2024-03-20"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPending, updated.Status)
		assert.Equal(t, "2024-03-20", updated.ScheduleDate)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := f.orders.UpdateOrder(ctx, f.employee, 424242, &domain.UpdateOrderRequest{Password: testPassword})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestOrderService_UpdateOrderIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wash := testutil.CreateTestItem(t, f.db, "Wash", domain.ItemTypeService, "100")
	order := f.createOrder(t, orderRequest(domain.SchedulePickup, "2024-03-18", 7,
		domain.OrderLineRequest{ItemID: wash.ID, Quantity: 2}))

	require.NoError(t, f.db.Exec(`CREATE TRIGGER fail_items BEFORE INSERT ON order_items
		WHEN NEW.quantity = 13 BEGIN SELECT RAISE(ABORT, 'item insert failed'); END;`).Error)

	_, err := f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
		Password:     testPassword,
		CustomerName: ptr("Changed Name"),
		Items:        []domain.OrderLineRequest{{ItemID: wash.ID, Quantity: 13}},
	})
	var pErr *service.PersistenceError
	require.ErrorAs(t, err, &pErr)

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.CustomerName, stored.CustomerName)
	assert.True(t, stored.TotalAmount.Equal(testutil.Money("200")))
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestOrderService_ReplaceOrderItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wash := testutil.CreateTestItem(t, f.db, "Wash", domain.ItemTypeService, "100")
	dry := testutil.CreateTestItem(t, f.db, "Dry", domain.ItemTypeService, "60")
	order := f.createOrder(t, orderRequest(domain.ScheduleDelivery, "2024-03-18", 7,
		domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1}))

	updated, err := f.orders.ReplaceOrderItems(ctx, f.employee, order.ID, []domain.OrderLineRequest{
		{ItemID: dry.ID, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, "Dry", updated.Items[0].ServiceName)
	assert.True(t, updated.TotalAmount.Equal(testutil.Money("170")))

	_, err = f.orders.ReplaceOrderItems(ctx, f.employee, order.ID, nil)
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := testutil.Date(t, "2024-03-20")

	t.Run("pending order changes", func(t *testing.T) {
		order := testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, date, 1, "100", domain.OrderStatusPending)
		changed, err := f.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, int64(1), changed)
	})

	t.Run("completed order is never resurrected", func(t *testing.T) {
		order := testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, date, 1, "100", domain.OrderStatusCompleted)
		changed, err := f.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusPending)
		require.NoError(t, err)
		assert.Zero(t, changed)

		stored, err := f.orders.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCompleted, stored.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.orders.UpdateStatus(ctx, 1, "lost")
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := f.orders.UpdateStatus(ctx, 999999, domain.OrderStatusCompleted)
		assert.ErrorIs(t, err, service.ErrOrderNotFound)
	})
}

func TestOrderService_MarkCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.ScheduleDelivery,
		testutil.Date(t, "2024-03-01"), 1, "100", domain.OrderStatusLate)

	completed, err := f.orders.MarkCompleted(ctx, f.employee, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, completed.Status)

	_, err = f.orders.MarkCompleted(ctx, f.employee, 999999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wash := testutil.CreateTestItem(t, f.db, "Wash", domain.ItemTypeService, "100")
	order := f.createOrder(t, orderRequest(domain.SchedulePickup, "2024-03-18", 7,
		domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1}))

	err := f.orders.DeleteOrder(ctx, f.employee, order.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	require.NoError(t, f.orders.DeleteOrder(ctx, f.admin, order.ID))

	_, err = f.orders.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)

	var items int64
	require.NoError(t, f.db.Model(&domain.OrderItem{}).Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Zero(t, items)

	assert.ErrorIs(t, f.orders.DeleteOrder(ctx, f.admin, order.ID), service.ErrOrderNotFound)
}

func TestOrderService_ReconcileStatuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	past := testutil.Date(t, "2024-03-10")
	today := testutil.Date(t, "2024-03-15")

	lateDelivery := testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.ScheduleDelivery, past, 1, "100", domain.OrderStatusPending)
	unclaimedPickup := testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, past, 1, "100", domain.OrderStatusPending)
	done := testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, past, 1, "100", domain.OrderStatusCompleted)
	dueToday := testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.ScheduleDelivery, today, 1, "100", domain.OrderStatusPending)

	changed, err := f.orders.ReconcileStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	expect := map[uint]domain.OrderStatus{
		lateDelivery.ID:    domain.OrderStatusLate,
		unclaimedPickup.ID: domain.OrderStatusUnclaimed,
		done.ID:            domain.OrderStatusCompleted,
		dueToday.ID:        domain.OrderStatusPending,
	}
	for id, status := range expect {
		var stored domain.Order
		require.NoError(t, f.db.First(&stored, id).Error)
		assert.Equal(t, status, stored.Status, "order %d", id)
	}

	changed, err = f.orders.ReconcileStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestOrderService_ListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := testutil.Date(t, "2024-03-20")
	for i := 0; i < 5; i++ {
		testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.SchedulePickup, date, 1, "100", domain.OrderStatusPending)
	}
	testutil.CreateTestOrder(t, f.db, f.employee.UserID, domain.ScheduleDelivery, testutil.Date(t, "2024-03-01"), 1, "100", domain.OrderStatusPending)

	page, err := f.orders.ListOrders(ctx, 1, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Data, 4)

	late := domain.OrderStatusLate
	page, err = f.orders.ListOrders(ctx, 1, 20, &repository.OrderFilters{Status: &late})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestOrderService_LoadsUseStoredWeightPerLoad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wash := testutil.CreateTestItem(t, f.db, "Wash", domain.ItemTypeService, "100")

	settings, err := f.settings.Update(ctx, f.admin, &domain.UpdateSettingsRequest{
		Password:      testPassword,
		WeightPerLoad: ptr(7.009),
	})
	require.NoError(t, err)
	require.True(t, settings.WeightPerLoad.Equal(testutil.Money("7.01")))

	order := f.createOrder(t, orderRequest(domain.SchedulePickup, "2024-03-18", 14.02,
		domain.OrderLineRequest{ItemID: wash.ID, Quantity: 1}))
	assert.True(t, order.WeightPerLoadSnapshot.Equal(testutil.Money("7.01")))
	assert.Equal(t, 2, order.TotalLoad)

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoadsFor(stored.TotalWeight, stored.WeightPerLoadSnapshot), stored.TotalLoad)

	updated, err := f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
		Password:      testPassword,
		WeightPerLoad: ptr(4.999),
	})
	require.NoError(t, err)
	assert.True(t, updated.WeightPerLoadSnapshot.Equal(testutil.Money("5")))
	assert.Equal(t, 3, updated.TotalLoad)

	_, err = f.orders.UpdateOrder(ctx, f.employee, order.ID, &domain.UpdateOrderRequest{
		Password:      testPassword,
		WeightPerLoad: ptr(0.004),
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "weightPerLoad", vErr.Field)
}
