package db

import (
	"context"
	"testing"
)

func TestTxFromContext_Empty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected nil tx from empty context, got %v", tx)
	}
}

func TestTxFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), txKey, "not a tx")
	if tx := TxFromContext(ctx); tx != nil {
		t.Errorf("expected nil tx for wrong value type, got %v", tx)
	}
}

func TestFromContext_FallsBackToPool(t *testing.T) {
	// No transaction in context and a nil pool: FromContext must still return
	// the pool value it was given rather than panic.
	q := FromContext(context.Background(), nil)
	if q == nil {
		// a typed nil pool is a valid non-nil interface value
		t.Error("expected pool fallback")
	}
}
