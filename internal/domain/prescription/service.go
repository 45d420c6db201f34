package prescription

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/audit"
	"github.com/clinicore/clinicore/internal/platform/store"
)

const entityType = "prescription"

var validStatuses = map[string]bool{
	"active": true, "completed": true, "cancelled": true,
}

type Service struct {
	repo Repository
	mut  store.Transactor
}

func NewService(repo Repository, mut store.Transactor) *Service {
	return &Service{repo: repo, mut: mut}
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, actorID string, p *Prescription) error {
	if err := validate(p); err != nil {
		return err
	}
	p.OrgID = orgID
	if p.Status == "" {
		p.Status = "active"
	}
	if p.PrescribedAt.IsZero() {
		p.PrescribedAt = time.Now().UTC()
	}

	return s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		if err := s.repo.Insert(txCtx, p); err != nil {
			return nil, err
		}
		entry := audit.NewEntry(audit.ActionCreate, entityType, p.ID, orgID, actorID, nil, p)
		return &entry, nil
	})
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.List(ctx, orgID, filter, limit, offset)
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, actorID string, patch Patch) (*Prescription, error) {
	var updated *Prescription
	err := s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		current, err := s.repo.GetForUpdate(txCtx, orgID, id)
		if err != nil {
			return nil, err
		}
		before := *current

		apply(current, patch)
		if err := validate(current); err != nil {
			return nil, err
		}
		if err := s.repo.Update(txCtx, current); err != nil {
			return nil, err
		}
		updated = current
		entry := audit.NewEntry(audit.ActionUpdate, entityType, id, orgID, actorID, before, current)
		return &entry, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID, actorID string) error {
	return s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		current, err := s.repo.GetForUpdate(txCtx, orgID, id)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SoftDelete(txCtx, orgID, id); err != nil {
			return nil, err
		}
		entry := audit.NewEntry(audit.ActionDelete, entityType, id, orgID, actorID, current, nil)
		return &entry, nil
	})
}

func validate(p *Prescription) error {
	if p.PatientID == uuid.Nil {
		return apperr.Validation("patient_id is required")
	}
	if p.PrescriberID == uuid.Nil {
		return apperr.Validation("prescriber_id is required")
	}
	if strings.TrimSpace(p.Medication) == "" {
		return apperr.Validation("medication is required")
	}
	if strings.TrimSpace(p.Dosage) == "" {
		return apperr.Validation("dosage is required")
	}
	if p.Refills < 0 {
		return apperr.Validation("refills must not be negative")
	}
	if p.DurationDays != nil && *p.DurationDays <= 0 {
		return apperr.Validation("duration_days must be positive")
	}
	if p.Status != "" && !validStatuses[p.Status] {
		return apperr.Validation("invalid status: %s", p.Status)
	}
	return nil
}

func apply(p *Prescription, patch Patch) {
	if patch.Medication != nil {
		p.Medication = *patch.Medication
	}
	if patch.Dosage != nil {
		p.Dosage = *patch.Dosage
	}
	if patch.Frequency != nil {
		p.Frequency = patch.Frequency
	}
	if patch.DurationDays != nil {
		p.DurationDays = patch.DurationDays
	}
	if patch.Refills != nil {
		p.Refills = *patch.Refills
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Notes != nil {
		p.Notes = patch.Notes
	}
	if patch.PrescribedAt != nil {
		p.PrescribedAt = *patch.PrescribedAt
	}
}
