package store

import (
	"context"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/audit"
	"github.com/clinicore/clinicore/internal/platform/db"
)

// MutateFunc runs the read-before / mutate steps of a write inside a
// transaction. It returns the audit entry to pair with the mutation, or nil
// together with an error when the mutation must not happen (not found,
// conflict). The ctx it receives carries the open transaction.
type MutateFunc func(ctx context.Context) (*audit.Entry, error)

// Transactor is the write-side contract services depend on. Mutator is the
// production implementation; tests substitute a pass-through.
type Transactor interface {
	Mutate(ctx context.Context, fn MutateFunc) error
}

// Mutator executes multi-step writes as one atomic unit: the mutation and
// its audit entry commit together or not at all. It is safe for concurrent
// use; all state lives in the store.
type Mutator struct {
	pool db.Beginner
	sink audit.Sink
}

func NewMutator(pool db.Beginner, sink audit.Sink) *Mutator {
	return &Mutator{pool: pool, sink: sink}
}

// Mutate opens a transaction, runs fn with the transaction threaded through
// the context, records the returned audit entry inside the same transaction,
// and commits. Any error — from fn, the sink, or commit — rolls the whole
// unit back; a failed attempt leaves neither a row mutation nor an orphaned
// audit entry behind.
func (m *Mutator) Mutate(ctx context.Context, fn MutateFunc) error {
	txCtx, tx, err := db.WithTx(ctx, m.pool)
	if err != nil {
		return apperr.Database(err)
	}

	entry, err := fn(txCtx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if entry != nil {
		if err := m.sink.Record(txCtx, *entry); err != nil {
			_ = tx.Rollback(ctx)
			return apperr.Database(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Database(err)
	}
	return nil
}
