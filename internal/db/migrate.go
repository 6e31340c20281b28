// Package db handles schema migrations and the LISTEN/NOTIFY bridge.
//
// Migrations are goose-annotated SQL files (-- +goose Up / -- +goose Down)
// embedded from internal/db/migrations/ and applied automatically on
// startup. Goose keeps both directions in one file and reads embed.FS
// directly, which is why it is used here instead of golang-migrate.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/dbpool"
)

// RunMigrations applies every pending migration in fsys, logging each one
// as it lands. It is safe to call on every boot.
func RunMigrations(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger, fsys fs.FS) error {
	// goose speaks database/sql, not pgx, so open a throwaway sql.DB
	// through the pgx stdlib driver for the duration of the run.
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return fmt.Errorf("opening sql.DB for migrations: %w", err)
	}
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	applied, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	if len(applied) == 0 {
		log.Debug("schema up to date")

		return nil
	}

	for _, r := range applied {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	return nil
}
