package staff

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the tenant-scoped persistence contract for staff members.
type Repository interface {
	Insert(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Member, error)
	// GetForUpdate locks the row for the remainder of the transaction.
	GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Member, error)
	Update(ctx context.Context, m *Member) error
	SoftDelete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Member, int, error)
	EmailInUse(ctx context.Context, orgID uuid.UUID, email string, excludeID uuid.UUID) (bool, error)
}
