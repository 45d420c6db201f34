package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/audit"
	"github.com/clinicore/clinicore/internal/platform/store"
)

const entityType = "appointment"

var validStatuses = map[string]bool{
	"scheduled": true, "confirmed": true, "completed": true,
	"cancelled": true, "no_show": true,
}

type Service struct {
	repo Repository
	mut  store.Transactor
}

func NewService(repo Repository, mut store.Transactor) *Service {
	return &Service{repo: repo, mut: mut}
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, actorID string, a *Appointment) error {
	if err := validate(a); err != nil {
		return err
	}
	a.OrgID = orgID
	if a.Status == "" {
		a.Status = "scheduled"
	}

	return s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		if err := s.repo.Insert(txCtx, a); err != nil {
			return nil, err
		}
		entry := audit.NewEntry(audit.ActionCreate, entityType, a.ID, orgID, actorID, nil, a)
		return &entry, nil
	})
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, orgID, filter, limit, offset)
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, actorID string, patch Patch) (*Appointment, error) {
	var updated *Appointment
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

func validate(a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return apperr.Validation("patient_id is required")
	}
	if a.StaffID == uuid.Nil {
		return apperr.Validation("staff_id is required")
	}
	if a.ScheduledStart.IsZero() || a.ScheduledEnd.IsZero() {
		return apperr.Validation("scheduled_start and scheduled_end are required")
	}
	if !a.ScheduledEnd.After(a.ScheduledStart) {
		return apperr.Validation("scheduled_end must be after scheduled_start")
	}
	if a.Status != "" && !validStatuses[a.Status] {
		return apperr.Validation("invalid status: %s", a.Status)
	}
	return nil
}

func apply(a *Appointment, patch Patch) {
	if patch.PatientID != nil {
		a.PatientID = *patch.PatientID
	}
	if patch.StaffID != nil {
		a.StaffID = *patch.StaffID
	}
	if patch.BranchID != nil {
		a.BranchID = patch.BranchID
	}
	if patch.ScheduledStart != nil {
		a.ScheduledStart = *patch.ScheduledStart
	}
	if patch.ScheduledEnd != nil {
		a.ScheduledEnd = *patch.ScheduledEnd
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Reason != nil {
		a.Reason = patch.Reason
	}
	if patch.Notes != nil {
		a.Notes = patch.Notes
	}
}
