package postgres

import (
	"cmp"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the schema migrations shipped with the binary.
func Migrations() ([]Migration, error) {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	return LoadMigrations(sub)
}

type Migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

type MigrationStatus struct {
	Migration
	AppliedAt *time.Time
}

func (s MigrationStatus) Applied() bool { return s.AppliedAt != nil }

// LoadMigrations reads NNNN_name.up.sql / NNNN_name.down.sql pairs from the
// root of fsys. Every migration must have both halves.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int64]*Migration)
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".sql")
		var direction string
		switch {
		case strings.HasSuffix(base, ".up"):
			direction = "up"
		case strings.HasSuffix(base, ".down"):
			direction = "down"
		default:
			return nil, fmt.Errorf("migration %s: missing .up or .down suffix", e.Name())
		}
		base = strings.TrimSuffix(base, "."+direction)

		rawVersion, name, ok := strings.Cut(base, "_")
		if !ok || name == "" {
			return nil, fmt.Errorf("migration %s: expected <version>_<name>", e.Name())
		}
		version, err := strconv.ParseInt(rawVersion, 10, 64)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version %q", e.Name(), rawVersion)
		}

		body, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", e.Name(), err)
		}

		m, exists := byVersion[version]
		if !exists {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		} else if m.Name != name {
			return nil, fmt.Errorf("migration %d: conflicting names %q and %q", version, m.Name, name)
		}
		if direction == "up" {
			m.UpSQL = string(body)
		} else {
			m.DownSQL = string(body)
		}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if strings.TrimSpace(m.UpSQL) == "" || strings.TrimSpace(m.DownSQL) == "" {
			return nil, fmt.Errorf("migration %d_%s: both up and down SQL are required", m.Version, m.Name)
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	return out, nil
}

// Migrator applies and reverts migrations. Runs are serialised across
// processes with a PostgreSQL advisory lock.
type Migrator struct {
	pool       *pgxpool.Pool
	migrations []Migration
	lockID     int64
	log        observability.Logger
}

const defaultMigrationLockID = 7_242_611_001

func NewMigrator(pool *pgxpool.Pool, migrations []Migration, log observability.Logger) *Migrator {
	if log == nil {
		log = observability.NopLogger()
	}
	return &Migrator{
		pool:       pool,
		migrations: migrations,
		lockID:     defaultMigrationLockID,
		log:        log.With(observability.F("component", "migrator")),
	}
}

const createSchemaMigrations = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    BIGINT PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ  NOT NULL DEFAULT now()
)`

// withLock runs fn on a single connection holding the advisory lock. The
// lock is session scoped, so lock, work and unlock must share the connection.
func (m *Migrator) withLock(ctx context.Context, fn func(conn *pgxpool.Conn) error) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", m.lockID); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		// Fresh context: the caller's may already be canceled.
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, "SELECT pg_advisory_unlock($1)", m.lockID); err != nil {
			m.log.Warn("migration_unlock_failed", observability.Err(err))
		}
	}()

	if _, err := conn.Exec(ctx, createSchemaMigrations); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return fn(conn)
}

func appliedVersions(ctx context.Context, q interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
}) (map[int64]time.Time, error) {
	rows, err := q.Query(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]time.Time)
	for rows.Next() {
		var v int64
		var at time.Time
		if err := rows.Scan(&v, &at); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = at
	}
	return applied, rows.Err()
}

// Up applies pending migrations in version order. steps <= 0 applies all of them.
func (m *Migrator) Up(ctx context.Context, steps int) ([]Migration, error) {
	var done []Migration
	err := m.withLock(ctx, func(conn *pgxpool.Conn) error {
		applied, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		for _, mig := range m.migrations {
			if steps > 0 && len(done) == steps {
				break
			}
			if _, ok := applied[mig.Version]; ok {
				continue
			}
			if err := m.apply(ctx, conn, mig, mig.UpSQL,
				"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", mig.Version, mig.Name); err != nil {
				return err
			}
			m.log.Info("migration_applied",
				observability.F("version", mig.Version),
				observability.F("name", mig.Name),
			)
			done = append(done, mig)
		}
		return nil
	})
	return done, err
}

// Down reverts the latest applied migrations, newest first. steps <= 0 reverts one.
func (m *Migrator) Down(ctx context.Context, steps int) ([]Migration, error) {
	if steps <= 0 {
		steps = 1
	}
	var done []Migration
	err := m.withLock(ctx, func(conn *pgxpool.Conn) error {
		applied, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		for _, mig := range slices.Backward(m.migrations) {
			if len(done) == steps {
				break
			}
			if _, ok := applied[mig.Version]; !ok {
				continue
			}
			if err := m.apply(ctx, conn, mig, mig.DownSQL,
				"DELETE FROM schema_migrations WHERE version = $1", mig.Version); err != nil {
				return err
			}
			m.log.Info("migration_reverted",
				observability.F("version", mig.Version),
				observability.F("name", mig.Name),
			)
			done = append(done, mig)
		}
		return nil
	})
	return done, err
}

// apply runs one migration and its bookkeeping statement in a transaction.
func (m *Migrator) apply(ctx context.Context, conn *pgxpool.Conn, mig Migration, body, record string, args ...any) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("migration %d: begin: %w", mig.Version, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// No arguments, so pgx uses the simple protocol and the file may hold many statements.
	if _, err := tx.Exec(ctx, body); err != nil {
		return fmt.Errorf("migration %d_%s: %w", mig.Version, mig.Name, err)
	}
	if _, err := tx.Exec(ctx, record, args...); err != nil {
		return fmt.Errorf("migration %d: record: %w", mig.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("migration %d: commit: %w", mig.Version, err)
	}
	return nil
}

func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	var out []MigrationStatus
	err := m.withLock(ctx, func(conn *pgxpool.Conn) error {
		applied, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		for _, mig := range m.migrations {
			st := MigrationStatus{Migration: mig}
			if at, ok := applied[mig.Version]; ok {
				st.AppliedAt = &at
			}
			out = append(out, st)
		}
		return nil
	})
	return out, err
}
