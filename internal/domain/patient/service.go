package patient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/audit"
	"github.com/clinicore/clinicore/internal/platform/store"
)

const entityType = "patient"

var validStatuses = map[string]bool{
	"active": true, "inactive": true,
}

// Service carries the patient business rules. Reads go straight to the
// repository; every write runs through the transactor so the row mutation
// and its audit entry commit as one unit.
type Service struct {
	repo Repository
	mut  store.Transactor
}

func NewService(repo Repository, mut store.Transactor) *Service {
	return &Service{repo: repo, mut: mut}
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, actorID string, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	p.OrgID = orgID
	if p.Status == "" {
		p.Status = "active"
	}

	return s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		if p.Email != nil {
			inUse, err := s.repo.EmailInUse(txCtx, orgID, *p.Email, uuid.Nil)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, apperr.Conflict("patient email already in use: %s", *p.Email)
			}
		}
		if err := s.repo.Insert(txCtx, p); err != nil {
			return nil, err
		}
		entry := audit.NewEntry(audit.ActionCreate, entityType, p.ID, orgID, actorID, nil, p)
		return &entry, nil
	})
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, orgID, filter, limit, offset)
}

// Update locks the current row, applies the patch, and re-checks email
// uniqueness only when the patch actually changes the email.
func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, actorID string, patch Patch) (*Patient, error) {
	var updated *Patient
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
		if current.Email != nil && (before.Email == nil || !strings.EqualFold(*before.Email, *current.Email)) {
			inUse, err := s.repo.EmailInUse(txCtx, orgID, *current.Email, id)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, apperr.Conflict("patient email already in use: %s", *current.Email)
			}
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

func validate(p *Patient) error {
	if strings.TrimSpace(p.FirstName) == "" {
		return apperr.Validation("first_name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return apperr.Validation("last_name is required")
	}
	if p.Status != "" && !validStatuses[p.Status] {
		return apperr.Validation("invalid status: %s", p.Status)
	}
	if p.Email != nil && !strings.Contains(*p.Email, "@") {
		return apperr.Validation("invalid email: %s", *p.Email)
	}
	return nil
}

func apply(p *Patient, patch Patch) {
	if patch.MRN != nil {
		p.MRN = *patch.MRN
	}
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.Email != nil {
		if *patch.Email == "" {
			p.Email = nil
		} else {
			p.Email = patch.Email
		}
	}
	if patch.Phone != nil {
		p.Phone = patch.Phone
	}
	if patch.BirthDate != nil {
		p.BirthDate = patch.BirthDate
	}
	if patch.Gender != nil {
		p.Gender = patch.Gender
	}
	if patch.AddressLine1 != nil {
		p.AddressLine1 = patch.AddressLine1
	}
	if patch.City != nil {
		p.City = patch.City
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
}
