package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment maps to the appointments table. Appointments carry no
// per-tenant uniqueness constraint; overlapping bookings are a front-desk
// decision, not a storage one.
type Appointment struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	OrgID          uuid.UUID  `db:"org_id" json:"org_id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	StaffID        uuid.UUID  `db:"staff_id" json:"staff_id"`
	BranchID       *uuid.UUID `db:"branch_id" json:"branch_id,omitempty"`
	ScheduledStart time.Time  `db:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd   time.Time  `db:"scheduled_end" json:"scheduled_end"`
	Status         string     `db:"status" json:"status"`
	Reason         *string    `db:"reason" json:"reason,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at" json:"-"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	PatientID      *uuid.UUID `json:"patient_id"`
	StaffID        *uuid.UUID `json:"staff_id"`
	BranchID       *uuid.UUID `json:"branch_id"`
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
	Status         *string    `json:"status"`
	Reason         *string    `json:"reason"`
	Notes          *string    `json:"notes"`
}

// ListFilter narrows a tenant-scoped listing.
type ListFilter struct {
	PatientID uuid.UUID
	Status    string
}
