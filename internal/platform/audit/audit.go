package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action identifies the mutation kind an entry records.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Entry is the before/after record appended for every committed mutation.
// Entries are immutable and append-only; nothing in this core updates or
// deletes them.
type Entry struct {
	ID         uuid.UUID   `json:"id"`
	Action     string      `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   uuid.UUID   `json:"entity_id"`
	OrgID      uuid.UUID   `json:"org_id"`
	ActorID    string      `json:"actor_id"`
	Before     interface{} `json:"before"`
	After      interface{} `json:"after"`
	Recorded   time.Time   `json:"recorded"`
}

// Sink appends audit entries. Record is always invoked inside the same
// transaction as the entity mutation, so a mutation commits if and only if
// its audit entry does. Implementations choose durability: structured log,
// database table, or an external append store.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(ctx context.Context, entry Entry) error

func (f SinkFunc) Record(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}

// NewEntry stamps a fresh entry with an id and the current time.
func NewEntry(action, entityType string, entityID, orgID uuid.UUID, actorID string, before, after interface{}) Entry {
	return Entry{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OrgID:      orgID,
		ActorID:    actorID,
		Before:     before,
		After:      after,
		Recorded:   time.Now().UTC(),
	}
}
