package org

import (
	"time"

	"github.com/google/uuid"
)

// Organization maps to the organizations table. Code is unique per tenant.
type Organization struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OrgID        uuid.UUID  `db:"org_id" json:"org_id"`
	Name         string     `db:"name" json:"name"`
	Code         string     `db:"code" json:"code"`
	ContactEmail *string    `db:"contact_email" json:"contact_email,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Timezone     string     `db:"timezone" json:"timezone"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// OrganizationPatch carries a partial update; nil fields are left untouched.
type OrganizationPatch struct {
	Name         *string `json:"name"`
	Code         *string `json:"code"`
	ContactEmail *string `json:"contact_email"`
	Phone        *string `json:"phone"`
	Timezone     *string `json:"timezone"`
	Status       *string `json:"status"`
}

// Branch maps to the branches table. Name is unique per tenant.
type Branch struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OrgID        uuid.UUID  `db:"org_id" json:"org_id"`
	Name         string     `db:"name" json:"name"`
	AddressLine1 *string    `db:"address_line1" json:"address_line1,omitempty"`
	AddressLine2 *string    `db:"address_line2" json:"address_line2,omitempty"`
	City         *string    `db:"city" json:"city,omitempty"`
	PostalCode   *string    `db:"postal_code" json:"postal_code,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// BranchPatch carries a partial update; nil fields are left untouched.
type BranchPatch struct {
	Name         *string `json:"name"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	PostalCode   *string `json:"postal_code"`
	Phone        *string `json:"phone"`
	Status       *string `json:"status"`
}
