package secrets_test

import (
	"context"
	"testing"

	"github.com/freshfold/laundry-api/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name        string
		source      secrets.SecretSource
		environment string
		expected    secrets.SecretSource
	}{
		{"auto in development", secrets.SourceAuto, "development", secrets.SourceEnvironment},
		{"auto in production", secrets.SourceAuto, "production", secrets.SourceVault},
		{"empty in staging", "", "staging", secrets.SourceVault},
		{"explicit environment in production", secrets.SourceEnvironment, "production", secrets.SourceEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, secrets.ResolveSource(tt.source, tt.environment))
		})
	}
}

func TestProvider_EnvironmentSource(t *testing.T) {
	p, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceEnvironment,
		Environment: "development",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsVaultEnabled())

	t.Setenv("LAUNDRY_TEST_SECRET", "s3cret")

	value, err := p.GetSecretOrEnv(context.Background(), "laundry-test-secret", "LAUNDRY_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)

	_, err = p.GetSecretOrEnv(context.Background(), "missing", "LAUNDRY_TEST_MISSING")
	assert.Error(t, err)
}

func TestProvider_VaultRequiresName(t *testing.T) {
	_, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceVault,
		Environment: "production",
	}, zap.NewNop())
	assert.Error(t, err)
}
