package scheduling

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the tenant-scoped persistence contract for appointments.
type Repository interface {
	Insert(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error)
	// GetForUpdate locks the row for the remainder of the transaction.
	GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	SoftDelete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Appointment, int, error)
}
