package prescription

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the tenant-scoped persistence contract for prescriptions.
type Repository interface {
	Insert(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Prescription, error)
	// GetForUpdate locks the row for the remainder of the transaction.
	GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	SoftDelete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Prescription, int, error)
}
