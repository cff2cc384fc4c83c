package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CartRepository interface {
	EnsureSchema(ctx context.Context) error
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

type cartRepository struct {
	db  DB
	key string
}

func NewCartRepository(db DB, key string) CartRepository {
	return &cartRepository{
		db:  db,
		key: key,
	}
}

func (r *cartRepository) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS cart_state (
		key        TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create cart_state table: %w", err)
	}
	return nil
}

func (r *cartRepository) Load(ctx context.Context) ([]byte, error) {
	query := `SELECT data FROM cart_state WHERE key = $1`

	var data []byte
	if err := r.db.QueryRow(ctx, query, r.key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cart %s: %w", r.key, err)
	}

	return data, nil
}

func (r *cartRepository) Save(ctx context.Context, data []byte) error {
	query := `
	INSERT INTO cart_state (key, data, updated_at) 
	VALUES ($1, $2, now()) 
	ON CONFLICT (key) 
	DO UPDATE SET data = $2, updated_at = now()`
	_, err := r.db.Exec(ctx, query, r.key, data)
	if err != nil {
		return fmt.Errorf("failed to save cart %s: %w", r.key, err)
	}

	return nil
}
