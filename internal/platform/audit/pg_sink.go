package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/db"
)

// PGSink appends audit entries to the audit_log table. It resolves its
// querier from the context, so when Record runs inside a mutation
// transaction the entry commits or rolls back with the mutation.
type PGSink struct {
	pool *pgxpool.Pool
}

func NewPGSink(pool *pgxpool.Pool) *PGSink {
	return &PGSink{pool: pool}
}

func (s *PGSink) Record(ctx context.Context, entry Entry) error {
	before, err := marshalSnapshot(entry.Before)
	if err != nil {
		return fmt.Errorf("marshal before snapshot: %w", err)
	}
	after, err := marshalSnapshot(entry.After)
	if err != nil {
		return fmt.Errorf("marshal after snapshot: %w", err)
	}

	_, err = db.FromContext(ctx, s.pool).Exec(ctx, `
		INSERT INTO audit_log (id, action, entity_type, entity_id, org_id, actor_id, before, after, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.Action, entry.EntityType, entry.EntityID, entry.OrgID,
		entry.ActorID, before, after, entry.Recorded,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// marshalSnapshot encodes a snapshot as JSONB, keeping SQL NULL for absent
// sides (before of a create, after of a delete).
func marshalSnapshot(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
