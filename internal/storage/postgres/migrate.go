package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"scheduler_service/internal/config"
	"scheduler_service/internal/storage/postgres/migrations"
)

// RunMigrations applies the embedded goose migrations. It uses a short-lived
// database/sql connection; the pgx pool stays untouched.
func RunMigrations(ctx context.Context, cfg *config.Config) error {
	const op = "storage.postgres.RunMigrations"

	db, err := sql.Open("pgx", dsn(cfg))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
