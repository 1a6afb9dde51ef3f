// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	ServiceName string
	Env         string

	HTTPAddr        string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	Store       string
	DatabaseURL string
	DBMaxConns  int32
	// SeedOnStart loads the sample catalog when the server starts.
	SeedOnStart bool

	AuthRequired bool
	JWTSecret    string
	JWTAccessTTL time.Duration
	BcryptCost   int

	LogLevel string
	LogFile  string
}

// Lookup reads a single variable; os.LookupEnv in production.
type Lookup func(key string) (string, bool)

// LoadDotEnv populates the process environment from the given files.
// Variables that are already set win; missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds a Config from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup Lookup) (Config, error) {
	e := env{lookup: lookup}

	cfg := Config{
		ServiceName:     e.str("SERVICE_NAME", "minishop"),
		Env:             e.str("ENV", "dev"),
		HTTPAddr:        e.str("HTTP_ADDR", ":8080"),
		ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:     e.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
		DatabaseURL:     e.str("DATABASE_URL", ""),
		DBMaxConns:      int32(e.integer("DB_MAX_CONNS", 10)),
		AuthRequired:    e.boolean("AUTH_REQUIRED", true),
		JWTSecret:       e.str("JWT_SECRET", e.str("SECRET_KEY", "")),
		JWTAccessTTL:    e.duration("JWT_ACCESS_TTL", 15*time.Minute),
		BcryptCost:      e.integer("BCRYPT_COST", 12),
		LogLevel:        e.str("LOG_LEVEL", "info"),
		LogFile:         e.str("LOG_FILE", ""),
	}
	defaultStore := StoreMemory
	if cfg.DatabaseURL != "" {
		defaultStore = StorePostgres
	}
	cfg.Store = strings.ToLower(e.str("STORE", defaultStore))
	cfg.SeedOnStart = e.boolean("SEED_ON_START", cfg.Store == StoreMemory)

	if len(e.errs) > 0 {
		return Config{}, errors.Join(e.errs...)
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("config: DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown STORE %q", c.Store))
	}
	if c.DBMaxConns < 1 {
		errs = append(errs, errors.New("config: DB_MAX_CONNS must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("config: BCRYPT_COST %d out of range 4..31", c.BcryptCost))
	}
	if c.JWTAccessTTL <= 0 {
		errs = append(errs, errors.New("config: JWT_ACCESS_TTL must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("config: SHUTDOWN_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateServe checks what only the HTTP server needs. Tokens signed with a
// throwaway key are acceptable for the memory store, never for postgres.
func (c Config) ValidateServe() error {
	if c.Store == StorePostgres && c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required for the postgres store")
	}
	return nil
}

type env struct {
	lookup Lookup
	errs   []error
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return def
}

func (e *env) integer(key string, def int) int {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return n
}

func (e *env) boolean(key string, def bool) bool {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return d
}

func (e *env) list(key string, def []string) []string {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
