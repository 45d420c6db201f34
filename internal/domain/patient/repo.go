package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the tenant-scoped persistence contract for patients. Every
// read and write filters by organization and excludes soft-deleted rows;
// absence surfaces as a typed not-found error, never a nil row.
type Repository interface {
	Insert(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Patient, error)
	// GetForUpdate locks the row for the remainder of the transaction so a
	// concurrent update on the same patient serializes instead of losing one
	// of the writes.
	GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	SoftDelete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Patient, int, error)
	EmailInUse(ctx context.Context, orgID uuid.UUID, email string, excludeID uuid.UUID) (bool, error)
}
