package staff

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/audit"
	"github.com/clinicore/clinicore/internal/platform/store"
)

const entityType = "staff"

var validRoles = map[string]bool{
	"physician": true, "nurse": true, "receptionist": true, "manager": true,
}

var validStatuses = map[string]bool{
	"active": true, "inactive": true,
}

type Service struct {
	repo Repository
	mut  store.Transactor
}

func NewService(repo Repository, mut store.Transactor) *Service {
	return &Service{repo: repo, mut: mut}
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, actorID string, m *Member) error {
	if err := validate(m); err != nil {
		return err
	}
	m.OrgID = orgID
	if m.Status == "" {
		m.Status = "active"
	}

	return s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		inUse, err := s.repo.EmailInUse(txCtx, orgID, m.Email, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperr.Conflict("staff email already in use: %s", m.Email)
		}
		if err := s.repo.Insert(txCtx, m); err != nil {
			return nil, err
		}
		entry := audit.NewEntry(audit.ActionCreate, entityType, m.ID, orgID, actorID, nil, m)
		return &entry, nil
	})
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Member, int, error) {
	return s.repo.List(ctx, orgID, filter, limit, offset)
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, actorID string, patch Patch) (*Member, error) {
	var updated *Member
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
		if !strings.EqualFold(before.Email, current.Email) {
			inUse, err := s.repo.EmailInUse(txCtx, orgID, current.Email, id)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, apperr.Conflict("staff email already in use: %s", current.Email)
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

func validate(m *Member) error {
	if strings.TrimSpace(m.FirstName) == "" {
		return apperr.Validation("first_name is required")
	}
	if strings.TrimSpace(m.LastName) == "" {
		return apperr.Validation("last_name is required")
	}
	if !strings.Contains(m.Email, "@") {
		return apperr.Validation("valid email is required")
	}
	if !validRoles[m.Role] {
		return apperr.Validation("invalid role: %s", m.Role)
	}
	if m.Status != "" && !validStatuses[m.Status] {
		return apperr.Validation("invalid status: %s", m.Status)
	}
	return nil
}

func apply(m *Member, patch Patch) {
	if patch.BranchID != nil {
		m.BranchID = patch.BranchID
	}
	if patch.FirstName != nil {
		m.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		m.LastName = *patch.LastName
	}
	if patch.Email != nil {
		m.Email = *patch.Email
	}
	if patch.Phone != nil {
		m.Phone = patch.Phone
	}
	if patch.Role != nil {
		m.Role = *patch.Role
	}
	if patch.LicenseNumber != nil {
		m.LicenseNumber = patch.LicenseNumber
	}
	if patch.Status != nil {
		m.Status = *patch.Status
	}
}
