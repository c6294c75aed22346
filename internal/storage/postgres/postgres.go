package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"scheduler_service/internal/config"
	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

func dsn(cfg *config.Config) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}

func (r *PostgresRepo) SaveAccount(ctx context.Context, email, passHash string) (int64, error) {
	const op = "storage.postgres.SaveAccount"

	query := `
		INSERT INTO accounts (email, password_hash)
		VALUES ($1, $2)
		RETURNING id;
	`

	var id int64

	err := r.pool.QueryRow(ctx, query, email, passHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, storage.ErrAccountExists
		}

		return 0, fmt.Errorf("%s: failed to save account: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) Account(ctx context.Context, email string) (models.Account, error) {
	const op = "storage.postgres.Account"

	query := `
		SELECT id, email, password_hash
		FROM accounts
		WHERE email = $1;
	`

	var a models.Account
	err := r.pool.QueryRow(ctx, query, email).Scan(&a.ID, &a.Email, &a.PassHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrAccountNotFound
		}

		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (r *PostgresRepo) SaveActivity(
	ctx context.Context,
	accountID int64,
	title, content string,
	timeBudgetSeconds int64,
) (models.Activity, error) {
	const op = "storage.postgres.SaveActivity"

	query := `
		INSERT INTO activities (account_id, title, content, time_budget_seconds)
		VALUES ($1, $2, $3, $4)
		RETURNING id, account_id, title, content, time_budget_seconds;
	`

	var a models.Activity
	err := r.pool.QueryRow(ctx, query, accountID, title, content, timeBudgetSeconds).
		Scan(&a.ID, &a.AccountID, &a.Title, &a.Content, &a.TimeBudgetSeconds)
	if err != nil {
		return models.Activity{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// Activity is owner-scoped: a row belonging to another account reads as not
// found, so callers cannot probe for foreign resources.
func (r *PostgresRepo) Activity(ctx context.Context, id, accountID int64) (models.Activity, error) {
	const op = "storage.postgres.Activity"

	query := `
		SELECT id, account_id, title, content, time_budget_seconds
		FROM activities
		WHERE id = $1 AND account_id = $2;
	`

	var a models.Activity
	err := r.pool.QueryRow(ctx, query, id, accountID).
		Scan(&a.ID, &a.AccountID, &a.Title, &a.Content, &a.TimeBudgetSeconds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Activity{}, storage.ErrActivityNotFound
		}

		return models.Activity{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (r *PostgresRepo) ActivityOwned(ctx context.Context, id, accountID int64) (bool, error) {
	const op = "storage.postgres.ActivityOwned"

	query := `
		SELECT EXISTS (
			SELECT 1 FROM activities WHERE id = $1 AND account_id = $2
		);
	`

	var owned bool
	if err := r.pool.QueryRow(ctx, query, id, accountID).Scan(&owned); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return owned, nil
}

func (r *PostgresRepo) Activities(ctx context.Context, accountID int64, limit, offset int) ([]models.Activity, error) {
	const op = "storage.postgres.Activities"

	query := `
		SELECT id, account_id, title, content, time_budget_seconds
		FROM activities
		WHERE account_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	activities := []models.Activity{}

	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.AccountID, &a.Title, &a.Content, &a.TimeBudgetSeconds); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return activities, nil
}

// UpdateActivity filters by id and account id in a single statement, so the
// ownership check and the write cannot race.
func (r *PostgresRepo) UpdateActivity(ctx context.Context, id, accountID int64, a models.Activity) (models.Activity, error) {
	const op = "storage.postgres.UpdateActivity"

	query := `
		UPDATE activities
		SET title = $1, content = $2, time_budget_seconds = $3
		WHERE id = $4 AND account_id = $5
		RETURNING id, account_id, title, content, time_budget_seconds;
	`

	var updated models.Activity
	err := r.pool.QueryRow(ctx, query, a.Title, a.Content, a.TimeBudgetSeconds, id, accountID).
		Scan(&updated.ID, &updated.AccountID, &updated.Title, &updated.Content, &updated.TimeBudgetSeconds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Activity{}, storage.ErrActivityNotFound
		}

		return models.Activity{}, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (r *PostgresRepo) DeleteActivity(ctx context.Context, id, accountID int64) error {
	const op = "storage.postgres.DeleteActivity"

	query := `DELETE FROM activities WHERE id = $1 AND account_id = $2;`

	tag, err := r.pool.Exec(ctx, query, id, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrActivityNotFound
	}

	return nil
}

// ApplyElapsed decrements the time budget in one owner-scoped statement. The
// budget may go negative.
func (r *PostgresRepo) ApplyElapsed(ctx context.Context, id, accountID, elapsedSeconds int64) (models.Activity, error) {
	const op = "storage.postgres.ApplyElapsed"

	query := `
		UPDATE activities
		SET time_budget_seconds = time_budget_seconds - $1
		WHERE id = $2 AND account_id = $3
		RETURNING id, account_id, title, content, time_budget_seconds;
	`

	var a models.Activity
	err := r.pool.QueryRow(ctx, query, elapsedSeconds, id, accountID).
		Scan(&a.ID, &a.AccountID, &a.Title, &a.Content, &a.TimeBudgetSeconds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Activity{}, storage.ErrActivityNotFound
		}

		return models.Activity{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// SaveTimeSpent inserts an entry only if the activity belongs to the account,
// in one statement.
func (r *PostgresRepo) SaveTimeSpent(ctx context.Context, activityID, accountID, seconds int64) (models.TimeSpent, error) {
	const op = "storage.postgres.SaveTimeSpent"

	query := `
		INSERT INTO time_spent (activity_id, seconds)
		SELECT $1, $2
		WHERE EXISTS (
			SELECT 1 FROM activities WHERE id = $1 AND account_id = $3
		)
		RETURNING id, activity_id, seconds;
	`

	var ts models.TimeSpent
	err := r.pool.QueryRow(ctx, query, activityID, seconds, accountID).
		Scan(&ts.ID, &ts.ActivityID, &ts.Seconds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TimeSpent{}, storage.ErrActivityNotFound
		}

		return models.TimeSpent{}, fmt.Errorf("%s: %w", op, err)
	}

	return ts, nil
}

func (r *PostgresRepo) TimeSpent(ctx context.Context, activityID, accountID int64) ([]models.TimeSpent, error) {
	const op = "storage.postgres.TimeSpent"

	query := `
		SELECT ts.id, ts.activity_id, ts.seconds
		FROM time_spent ts
		JOIN activities a ON a.id = ts.activity_id
		WHERE ts.activity_id = $1 AND a.account_id = $2
		ORDER BY ts.id;
	`

	rows, err := r.pool.Query(ctx, query, activityID, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	entries := []models.TimeSpent{}

	for rows.Next() {
		var ts models.TimeSpent
		if err := rows.Scan(&ts.ID, &ts.ActivityID, &ts.Seconds); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}
