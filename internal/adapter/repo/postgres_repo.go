package repo

import (
	"context"

	"github.com/example/shop-fulfiller/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSessionRepo struct {
	Pool *pgxpool.Pool
}

func NewPostgresSessionRepo(pool *pgxpool.Pool) *PostgresSessionRepo {
	return &PostgresSessionRepo{Pool: pool}
}

func (r *PostgresSessionRepo) Upsert(ctx context.Context, shop string, raw []byte) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO shop_sessions(shop, payload, updated_at) VALUES($1, $2, now())
        ON CONFLICT (shop) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`, shop, raw)
	return err
}

func (r *PostgresSessionRepo) LoadAll(ctx context.Context, fn func(shop string, raw []byte) error) error {
	rows, err := r.Pool.Query(ctx, `SELECT shop, payload FROM shop_sessions`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var shop string
		var raw []byte
		if err := rows.Scan(&shop, &raw); err != nil {
			return err
		}
		if err := fn(shop, raw); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Delete — удалить сессию; отсутствие записи не считается ошибкой.
func (r *PostgresSessionRepo) Delete(ctx context.Context, shop string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM shop_sessions WHERE shop = $1`, shop)
	return err
}

var _ domain.SessionRepository = (*PostgresSessionRepo)(nil)

// EnsureSchema — создать необходимые таблицы, если отсутствуют.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS shop_sessions (
  shop text PRIMARY KEY,
  payload jsonb NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now()
);`)
	return err
}
