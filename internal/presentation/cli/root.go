// Package cli is the minishop command line: serve, migrate and seed.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zhima-Mochi/minishop-cart/internal/pkg/config"
)

var (
	// Global flags
	envFile     string
	databaseURL string
	storeDriver string
	httpAddr    string
	logLevel    string
)

// flagEnv maps global flags onto the environment variables they override.
var flagEnv = map[string]string{
	"database-url": "DATABASE_URL",
	"store":        "STORE",
	"addr":         "HTTP_ADDR",
	"log-level":    "LOG_LEVEL",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "minishop",
	Short: "Minishop - catalog, cart and checkout over HTTP",
	Long: `Minishop serves a product catalog, a stock-reserving shopping cart and
checkout over HTTP/JSON, backed by PostgreSQL or an in-memory store.

Settings come from the environment (optionally a .env file); the global
flags below override them.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File to load environment variables from")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Store driver: memory or postgres (STORE)")
	rootCmd.PersistentFlags().StringVar(&httpAddr, "addr", "", "HTTP listen address (HTTP_ADDR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (LOG_LEVEL)")
}

// loadConfig reads the environment with changed flags taking precedence.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	overrides := make(map[string]string, len(flagEnv))
	for name, key := range flagEnv {
		if f := cmd.Flag(name); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
	return config.FromLookup(func(key string) (string, bool) {
		if v, ok := overrides[key]; ok {
			return v, true
		}
		return os.LookupEnv(key)
	})
}
