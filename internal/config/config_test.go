package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/freshfold/laundry-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 7.0, cfg.Laundry.WeightPerLoad)
	assert.Equal(t, 30, cfg.Laundry.LoadLimit)
	assert.Equal(t, 50.0, cfg.Laundry.DeliveryFee)
	assert.Equal(t, "0 5 0 * * *", cfg.Scheduler.StatusReconcileCron)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTLDuration())
	assert.Contains(t, cfg.RateLimit.WhitelistPaths, "/health")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LAUNDRY_LOADLIMIT", "45")
	t.Setenv("APP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Laundry.LoadLimit)
	assert.Equal(t, 9090, cfg.App.Port)
}

func TestLoadWithSecrets_Environment(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_PASSWORD", "db-from-env")

	cfg, err := config.LoadWithSecrets(context.Background(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "db-from-env", cfg.Database.Password)
}

func TestAppConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, (&config.AppConfig{}).Location())
	assert.Equal(t, time.UTC, (&config.AppConfig{Timezone: "Not/AZone"}).Location())
	assert.Equal(t, "UTC", (&config.AppConfig{Timezone: "UTC"}).Location().String())
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	db := &config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "laundry", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=laundry sslmode=disable", db.ConnectionString())
}
