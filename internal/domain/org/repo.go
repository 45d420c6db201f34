package org

import (
	"context"

	"github.com/google/uuid"
)

// OrganizationRepository is the tenant-scoped persistence contract for
// organization records.
type OrganizationRepository interface {
	Insert(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Organization, error)
	GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Organization, error)
	Update(ctx context.Context, o *Organization) error
	SoftDelete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Organization, int, error)
	CodeInUse(ctx context.Context, orgID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
}

// BranchRepository is the tenant-scoped persistence contract for branches.
type BranchRepository interface {
	Insert(ctx context.Context, b *Branch) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Branch, error)
	GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Branch, error)
	Update(ctx context.Context, b *Branch) error
	SoftDelete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Branch, int, error)
	NameInUse(ctx context.Context, orgID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}
