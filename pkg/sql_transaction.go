package pkg

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// WithTransaction runs fn and commits tx, rolling back when fn fails.
func WithTransaction(ctx context.Context, tx pgx.Tx, fn func() error) error {
	if err := fn(); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
