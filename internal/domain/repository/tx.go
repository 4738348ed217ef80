package repository

import "context"

// Tx is an opaque transaction handle passed back into repository
// methods that take part in a multi-store write. The postgres
// implementation backs it with pgx.Tx; test fakes stage writes in
// memory.
type Tx interface{}

// TxManager runs fn inside a single transaction. If fn returns an
// error the transaction is rolled back and no partial state is visible
// to any reader; otherwise it commits.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
