package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/freshfold/laundry-api/internal/database"
	"github.com/freshfold/laundry-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// A single connection is used so that the shared-cache database lives as long
// as the test and transactions serialize the way they do on PostgreSQL.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:laundry_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Date parses a YYYY-MM-DD literal or fails the test
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

// Money parses a decimal literal
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestUser inserts a user with the given role. The password hash is a
// placeholder; use auth.HashPassword when a test needs to log in.
func CreateTestUser(t *testing.T, db *gorm.DB, username string, role domain.UserRole) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		FullName:     "Test " + username,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestItem inserts a catalog item
func CreateTestItem(t *testing.T, db *gorm.DB, name string, itemType domain.ItemType, price string) *domain.Item {
	t.Helper()
	item := &domain.Item{Name: name, Type: itemType, Price: Money(price)}
	require.NoError(t, db.Create(item).Error)
	return item
}

// CreateTestOrder inserts an order directly, bypassing the service rules
func CreateTestOrder(t *testing.T, db *gorm.DB, employeeID uint, scheduleType domain.ScheduleType, scheduleDate time.Time, loads int, amount string, status domain.OrderStatus) *domain.Order {
	t.Helper()
	order := &domain.Order{
		EmployeeID:            employeeID,
		CustomerName:          "Test Customer",
		Contact:               "0917 000 0000",
		Address:               "1 Test Street",
		TotalWeight:           decimal.NewFromInt(int64(loads * 7)),
		TotalLoad:             loads,
		WeightPerLoadSnapshot: decimal.NewFromInt(7),
		DeliveryFee:           decimal.Zero,
		TotalAmount:           Money(amount),
		ScheduleType:          scheduleType,
		ScheduleDate:          scheduleDate,
		Status:                status,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}
