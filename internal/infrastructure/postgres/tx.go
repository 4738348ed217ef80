package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamlist/places-backend/internal/domain/repository"
)

// TxManager implements repository.TxManager on top of pgx
// transactions. Both sides of the place/user dual write run on the
// same pgx.Tx, so either both commit or neither is visible.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

var _ repository.TxManager = (*TxManager)(nil)

// asTx unwraps the opaque handle back to a pgx.Tx. A nil handle is a
// programming error in the lifecycle service, not a runtime condition.
func asTx(tx repository.Tx) (pgx.Tx, error) {
	if tx == nil {
		return nil, errors.New("postgres: nil transaction handle")
	}
	pgtx, ok := tx.(pgx.Tx)
	if !ok {
		return nil, errors.New("postgres: foreign transaction handle")
	}
	return pgtx, nil
}
