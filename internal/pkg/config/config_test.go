package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(vars map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "minishop", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.SeedOnStart, "the memory store starts with the sample catalog")
}

func TestOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL":         "postgres://u:p@localhost/shop",
		"SECRET_KEY":           "legacy-secret",
		"AUTH_REQUIRED":        "false",
		"DB_MAX_CONNS":         "4",
		"JWT_ACCESS_TTL":       "1h",
		"CORS_ALLOWED_ORIGINS": "http://a.test, http://b.test,",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, "legacy-secret", cfg.JWTSecret)
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, int32(4), cfg.DBMaxConns)
	assert.Equal(t, time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestSeedOnStartOverride(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"SEED_ON_START": "false"}))
	require.NoError(t, err)
	assert.False(t, cfg.SeedOnStart)
}

func TestJWTSecretWinsOverAlias(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"JWT_SECRET": "primary",
		"SECRET_KEY": "legacy",
	}))
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.JWTSecret)
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad int", map[string]string{"DB_MAX_CONNS": "many"}},
		{"bad bool", map[string]string{"AUTH_REQUIRED": "sometimes"}},
		{"bad duration", map[string]string{"JWT_ACCESS_TTL": "soon"}},
		{"unknown store", map[string]string{"STORE": "redis"}},
		{"postgres without url", map[string]string{"STORE": "postgres", "JWT_SECRET": "x"}},
		{"bcrypt cost", map[string]string{"BCRYPT_COST": "2"}},
		{"zero conns", map[string]string{"DB_MAX_CONNS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.vars))
			assert.Error(t, err)
		})
	}
}

func TestValidateServe(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"DATABASE_URL": "postgres://localhost/db"}))
	require.NoError(t, err, "migrations run without a signing key")
	assert.Error(t, cfg.ValidateServe())

	cfg, err = FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateServe())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MINISHOP_TEST_DOTENV=from-file\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { _ = os.Unsetenv("MINISHOP_TEST_DOTENV") })
	assert.Equal(t, "from-file", os.Getenv("MINISHOP_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
