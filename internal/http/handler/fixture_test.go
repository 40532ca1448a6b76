package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/freshfold/laundry-api/internal/auth"
	"github.com/freshfold/laundry-api/internal/config"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/freshfold/laundry-api/internal/http/handler"
	"github.com/freshfold/laundry-api/internal/repository"
	"github.com/freshfold/laundry-api/internal/service"
	"github.com/freshfold/laundry-api/internal/storage"
	"github.com/freshfold/laundry-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testPassword = "correct-horse-battery"

// testNow is Friday 2024-03-15
var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type handlers struct {
	db       *gorm.DB
	admin    *auth.UserContext
	employee *auth.UserContext

	auth      *handler.AuthHandler
	users     *handler.UserHandler
	items     *handler.ItemHandler
	orders    *handler.OrderHandler
	schedule  *handler.ScheduleHandler
	budget    *handler.BudgetHandler
	reports   *handler.ReportHandler
	settings  *handler.SettingsHandler
	dashboard *handler.DashboardHandler
}

func setupHandlers(t *testing.T) *handlers {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	clock := service.FixedClock{Time: testNow}

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	laundryCfg := &config.LaundryConfig{WeightPerLoad: 7, LoadLimit: 30, DeliveryFee: 50}
	tokens := auth.NewTokenService(&config.AuthConfig{JWTSecret: "test-secret", Issuer: "laundry-test", TokenTTL: 60})

	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	budgetRepo := repository.NewBudgetEntryRepository(db)
	snapshotRepo := repository.NewReportSnapshotRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settingsService := service.NewSettingsService(settingRepo, userRepo, laundryCfg, db, logger)
	capacityService := service.NewCapacityService(orderRepo, settingsService, clock, laundryCfg, logger)
	orderService := service.NewOrderService(orderRepo, itemRepo, userRepo, settingsService, clock, nil, logger, db)
	reportService := service.NewReportService(budgetRepo, orderRepo, snapshotRepo, store, time.UTC, clock, nil, logger, db)

	h := &handlers{
		db:        db,
		auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, tokens, logger), logger),
		users:     handler.NewUserHandler(service.NewUserService(userRepo, logger), logger),
		items:     handler.NewItemHandler(service.NewCatalogService(itemRepo, logger), logger),
		orders:    handler.NewOrderHandler(orderService, logger),
		schedule:  handler.NewScheduleHandler(capacityService, clock, logger),
		budget:    handler.NewBudgetHandler(service.NewBudgetService(budgetRepo, clock, logger), logger),
		reports:   handler.NewReportHandler(reportService, logger),
		settings:  handler.NewSettingsHandler(settingsService, logger),
		dashboard: handler.NewDashboardHandler(service.NewDashboardService(orderRepo, capacityService, clock, time.UTC, logger), logger),
	}
	h.admin = createUser(t, db, "admin", domain.RoleAdmin)
	h.employee = createUser(t, db, "clerk", domain.RoleEmployee)
	return h
}

func createUser(t *testing.T, db *gorm.DB, username string, role domain.UserRole) *auth.UserContext {
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

// newRequest builds a request carrying actor (if any), chi URL params and a JSON body
func newRequest(t *testing.T, method, target string, actor *auth.UserContext, body interface{}, params map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	ctx := context.Background()
	if actor != nil {
		ctx = auth.WithUserContext(ctx, actor)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func idParam(id uint) map[string]string {
	return map[string]string{"id": strconv.FormatUint(uint64(id), 10)}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) domain.APIError {
	t.Helper()
	var apiErr domain.APIError
	decodeBody(t, rr, &apiErr)
	return apiErr
}
