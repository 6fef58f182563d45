package migrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"real-estate-system/internal/core/port"
	"real-estate-system/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const versionTableDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL
)`

// Migrator применяет миграции и ведет таблицу schema_migrations.
type Migrator struct {
	pool       *pgxpool.Pool
	migrations []Migration
	logger     port.LoggerPort
}

func NewMigrator(pool *pgxpool.Pool, migrations []Migration, logger port.LoggerPort) *Migrator {
	return &Migrator{
		pool:       pool,
		migrations: migrations,
		logger:     logger.WithFields(port.Fields{"component": "Migrator"}),
	}
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[string]bool, error) {
	if _, err := m.pool.Exec(ctx, versionTableDDL); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	rows, err := m.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// Up применяет все неприменённые миграции, каждую в своей транзакции.
// Возвращает количество примененных.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range m.migrations {
		if applied[migration.Version] {
			continue
		}

		m.logger.Info("Applying migration", port.Fields{"version": migration.Version, "name": migration.Name})
		err := postgres.WithTx(ctx, m.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, migration.Up); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, $3)`,
				migration.Version, migration.Name, time.Now().UTC(),
			)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("migration %s_%s failed: %w", migration.Version, migration.Name, err)
		}
		count++
	}

	m.logger.Info("Migrations are up to date", port.Fields{"applied_now": count})
	return count, nil
}

// Down откатывает последнюю примененную миграцию.
func (m *Migrator) Down(ctx context.Context) error {
	if _, err := m.appliedVersions(ctx); err != nil {
		return err
	}

	var version string
	err := m.pool.QueryRow(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.logger.Info("Nothing to roll back", nil)
			return nil
		}
		return fmt.Errorf("failed to find last migration: %w", err)
	}

	var target *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == version {
			target = &m.migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("applied migration %s is unknown to this binary", version)
	}
	if target.Down == "" {
		return fmt.Errorf("migration %s_%s has no down script", target.Version, target.Name)
	}

	m.logger.Info("Rolling back migration", port.Fields{"version": target.Version, "name": target.Name})
	return postgres.WithTx(ctx, m.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, target.Down); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, target.Version)
		return err
	})
}
