// AngelaMos | 2026
// migrate.go

package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var migrations embed.FS

const (
	migrationsDir  = "sql"
	migrateTimeout = time.Minute
)

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

// Runner applies the embedded schema migrations.
type Runner struct {
	db  *sql.DB
	log *slog.Logger
}

func New(db *sql.DB, log *slog.Logger) (Runner, error) {
	if db == nil {
		return Runner{}, errors.New("nil database handle")
	}
	if log == nil {
		log = slog.Default()
	}
	return Runner{db: db, log: log}, nil
}

// Up applies every pending migration.
func (r Runner) Up(ctx context.Context) error {
	return r.run(ctx, func(ctx context.Context) error {
		r.log.Info("applying migrations")
		if err := goose.UpContext(ctx, r.db, migrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		r.log.Info("migrations applied")
		return nil
	})
}

// Down rolls back the most recent migration.
func (r Runner) Down(ctx context.Context) error {
	return r.run(ctx, func(ctx context.Context) error {
		r.log.Info("rolling back latest migration")
		if err := goose.DownContext(ctx, r.db, migrationsDir); err != nil {
			return fmt.Errorf("rollback latest migration: %w", err)
		}
		r.log.Info("rollback complete")
		return nil
	})
}

func (r Runner) run(ctx context.Context, fn func(context.Context) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	return fn(runCtx)
}
