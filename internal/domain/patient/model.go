package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. Email is unique per organization;
// NULL emails never conflict.
type Patient struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OrgID        uuid.UUID  `db:"org_id" json:"org_id"`
	MRN          string     `db:"mrn" json:"mrn"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	BirthDate    *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Gender       *string    `db:"gender" json:"gender,omitempty"`
	AddressLine1 *string    `db:"address_line1" json:"address_line1,omitempty"`
	City         *string    `db:"city" json:"city,omitempty"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	MRN          *string    `json:"mrn"`
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	Email        *string    `json:"email"`
	Phone        *string    `json:"phone"`
	BirthDate    *time.Time `json:"birth_date"`
	Gender       *string    `json:"gender"`
	AddressLine1 *string    `json:"address_line1"`
	City         *string    `json:"city"`
	Status       *string    `json:"status"`
}

// ListFilter narrows a tenant-scoped listing.
type ListFilter struct {
	Status string
}
