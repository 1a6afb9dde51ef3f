package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcatalog "github.com/Zhima-Mochi/minishop-cart/internal/application/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/pkg/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedRequiresPostgres(t *testing.T) {
	_, err := run(t, "seed", "--store", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed requires the postgres store")
}

func TestMemoryStoreStartsSeeded(t *testing.T) {
	cfg, err := config.FromLookup(func(key string) (string, bool) {
		if key == "LOG_LEVEL" {
			return "error", true
		}
		return "", false
	})
	require.NoError(t, err)
	require.True(t, cfg.SeedOnStart)

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)

	require.NoError(t, a.seed(ctx))

	res, err := appcatalog.NewListProductsUseCase(a.uow, a.tel).Execute(ctx, appcatalog.ListProductsQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Products, len(appcatalog.SampleCatalog))
}

func TestMigrateRequiresPostgres(t *testing.T) {
	_, err := run(t, "migrate", "status", "--store", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires the postgres store")
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STORE", "postgres")

	require.NoError(t, rootCmd.PersistentFlags().Set("addr", ":7000"))
	require.NoError(t, rootCmd.PersistentFlags().Set("store", "memory"))
	t.Cleanup(func() {
		for _, name := range []string{"addr", "store"} {
			f := rootCmd.PersistentFlags().Lookup(name)
			_ = f.Value.Set("")
			f.Changed = false
		}
	})

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, "memory", cfg.Store)
}

func TestUnknownStoreIsRejected(t *testing.T) {
	_, err := run(t, "seed", "--store", "redis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown STORE")
}
