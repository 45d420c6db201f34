package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Prescription maps to the prescriptions table.
type Prescription struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OrgID        uuid.UUID  `db:"org_id" json:"org_id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	PrescriberID uuid.UUID  `db:"prescriber_id" json:"prescriber_id"`
	Medication   string     `db:"medication" json:"medication"`
	Dosage       string     `db:"dosage" json:"dosage"`
	Frequency    *string    `db:"frequency" json:"frequency,omitempty"`
	DurationDays *int       `db:"duration_days" json:"duration_days,omitempty"`
	Refills      int        `db:"refills" json:"refills"`
	Status       string     `db:"status" json:"status"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	PrescribedAt time.Time  `db:"prescribed_at" json:"prescribed_at"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Medication   *string    `json:"medication"`
	Dosage       *string    `json:"dosage"`
	Frequency    *string    `json:"frequency"`
	DurationDays *int       `json:"duration_days"`
	Refills      *int       `json:"refills"`
	Status       *string    `json:"status"`
	Notes        *string    `json:"notes"`
	PrescribedAt *time.Time `json:"prescribed_at"`
}

// ListFilter narrows a tenant-scoped listing.
type ListFilter struct {
	PatientID uuid.UUID
	Status    string
}
