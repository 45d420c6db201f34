package staff

import (
	"time"

	"github.com/google/uuid"
)

// Member maps to the staff table. Email is required and unique per
// organization.
type Member struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	OrgID         uuid.UUID  `db:"org_id" json:"org_id"`
	BranchID      *uuid.UUID `db:"branch_id" json:"branch_id,omitempty"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Email         string     `db:"email" json:"email"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	Role          string     `db:"role" json:"role"`
	LicenseNumber *string    `db:"license_number" json:"license_number,omitempty"`
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"-"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	BranchID      *uuid.UUID `json:"branch_id"`
	FirstName     *string    `json:"first_name"`
	LastName      *string    `json:"last_name"`
	Email         *string    `json:"email"`
	Phone         *string    `json:"phone"`
	Role          *string    `json:"role"`
	LicenseNumber *string    `json:"license_number"`
	Status        *string    `json:"status"`
}

// ListFilter narrows a tenant-scoped listing.
type ListFilter struct {
	BranchID uuid.UUID
	Role     string
}
