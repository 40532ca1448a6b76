package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/config"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/metrics"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/freshfold/laundry-api/internal/service"
	"github.com/freshfold/laundry-api/internal/storage"
	"github.com/freshfold/laundry-api/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testPassword = "correct-horse-battery"

// testNow is a Friday; the following Sunday is 2024-03-17
var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	clock    service.FixedClock
	admin    *auth.UserContext
	employee *auth.UserContext

	orderRepo *repository.OrderRepository

	settings  *service.SettingsService
	orders    *service.OrderService
	capacity  *service.CapacityService
	budget    *service.BudgetService
	reports   *service.ReportService
	dashboard *service.DashboardService
	users     *service.UserService
	catalog   *service.CatalogService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithStorage(t, nil)
}

func newFixtureWithStorage(t *testing.T, store storage.Storage) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	clock := service.FixedClock{Time: testNow}
	m := metrics.New(prometheus.NewRegistry())

	cfg := &config.LaundryConfig{
		WeightPerLoad:       7,
		LoadLimit:           30,
		DeliveryFee:         50,
		SuggestionLookahead: 30,
		SuggestionCount:     3,
	}

	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	budgetRepo := repository.NewBudgetEntryRepository(db)
	snapshotRepo := repository.NewReportSnapshotRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settings := service.NewSettingsService(settingRepo, userRepo, cfg, db, logger)
	capacity := service.NewCapacityService(orderRepo, settings, clock, cfg, logger)

	f := &fixture{
		db:        db,
		clock:     clock,
		orderRepo: orderRepo,
		settings:  settings,
		orders:    service.NewOrderService(orderRepo, itemRepo, userRepo, settings, clock, m, logger, db),
		capacity:  capacity,
		budget:    service.NewBudgetService(budgetRepo, clock, logger),
		reports:   service.NewReportService(budgetRepo, orderRepo, snapshotRepo, store, time.UTC, clock, m, logger, db),
		dashboard: service.NewDashboardService(orderRepo, capacity, clock, time.UTC, logger),
		users:     service.NewUserService(userRepo, logger),
		catalog:   service.NewCatalogService(itemRepo, logger),
	}
	f.admin = createUserWithPassword(t, db, "admin", domain.RoleAdmin)
	f.employee = createUserWithPassword(t, db, "clerk", domain.RoleEmployee)
	return f
}

func createUserWithPassword(t *testing.T, db *gorm.DB, username string, role domain.UserRole) *auth.UserContext {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	user := &domain.User{
		Username:     username,
		FullName:     "Test " + username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return auth.NewUserContext(user)
}

func (f *fixture) createOrder(t *testing.T, req *domain.CreateOrderRequest) *domain.OrderDTO {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), f.employee, req)
	require.NoError(t, err)
	return order
}

func orderRequest(scheduleType domain.ScheduleType, date string, weight float64, lines ...domain.OrderLineRequest) *domain.CreateOrderRequest {
	return &domain.CreateOrderRequest{
		CustomerName: "Maria Santos",
		Contact:      "0917 555 0101",
		Address:      "12 Mabini St",
		TotalWeight:  weight,
		ScheduleType: scheduleType,
		ScheduleDate: date,
		Items:        lines,
	}
}

func ptr[T any](v T) *T {
	return &v
}
