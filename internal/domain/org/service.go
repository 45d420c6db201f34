package org

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/audit"
	"github.com/clinicore/clinicore/internal/platform/store"
)

var validOrgStatuses = map[string]bool{
	"active": true, "suspended": true,
}

var validBranchStatuses = map[string]bool{
	"active": true, "closed": true,
}

// OrganizationService carries organization business rules.
type OrganizationService struct {
	repo OrganizationRepository
	mut  store.Transactor
}

func NewOrganizationService(repo OrganizationRepository, mut store.Transactor) *OrganizationService {
	return &OrganizationService{repo: repo, mut: mut}
}

func (s *OrganizationService) Create(ctx context.Context, orgID uuid.UUID, actorID string, o *Organization) error {
	if err := validateOrganization(o); err != nil {
		return err
	}
	o.OrgID = orgID
	if o.Status == "" {
		o.Status = "active"
	}
	if o.Timezone == "" {
		o.Timezone = "UTC"
	}

	return s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		inUse, err := s.repo.CodeInUse(txCtx, orgID, o.Code, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperr.Conflict("organization code already in use: %s", o.Code)
		}
		if err := s.repo.Insert(txCtx, o); err != nil {
			return nil, err
		}
		entry := audit.NewEntry(audit.ActionCreate, "organization", o.ID, orgID, actorID, nil, o)
		return &entry, nil
	})
}

func (s *OrganizationService) Get(ctx context.Context, orgID, id uuid.UUID) (*Organization, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *OrganizationService) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Organization, int, error) {
	return s.repo.List(ctx, orgID, limit, offset)
}

func (s *OrganizationService) Update(ctx context.Context, orgID, id uuid.UUID, actorID string, patch OrganizationPatch) (*Organization, error) {
	var updated *Organization
	err := s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		current, err := s.repo.GetForUpdate(txCtx, orgID, id)
		if err != nil {
			return nil, err
		}
		before := *current

		applyOrganization(current, patch)
		if err := validateOrganization(current); err != nil {
			return nil, err
		}
		if !strings.EqualFold(before.Code, current.Code) {
			inUse, err := s.repo.CodeInUse(txCtx, orgID, current.Code, id)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, apperr.Conflict("organization code already in use: %s", current.Code)
			}
		}
		if err := s.repo.Update(txCtx, current); err != nil {
			return nil, err
		}
		updated = current
		entry := audit.NewEntry(audit.ActionUpdate, "organization", id, orgID, actorID, before, current)
		return &entry, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *OrganizationService) Delete(ctx context.Context, orgID, id uuid.UUID, actorID string) error {
	return s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		current, err := s.repo.GetForUpdate(txCtx, orgID, id)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SoftDelete(txCtx, orgID, id); err != nil {
			return nil, err
		}
		entry := audit.NewEntry(audit.ActionDelete, "organization", id, orgID, actorID, current, nil)
		return &entry, nil
	})
}

func validateOrganization(o *Organization) error {
	if strings.TrimSpace(o.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(o.Code) == "" {
		return apperr.Validation("code is required")
	}
	if o.Status != "" && !validOrgStatuses[o.Status] {
		return apperr.Validation("invalid status: %s", o.Status)
	}
	return nil
}

func applyOrganization(o *Organization, patch OrganizationPatch) {
	if patch.Name != nil {
		o.Name = *patch.Name
	}
	if patch.Code != nil {
		o.Code = *patch.Code
	}
	if patch.ContactEmail != nil {
		o.ContactEmail = patch.ContactEmail
	}
	if patch.Phone != nil {
		o.Phone = patch.Phone
	}
	if patch.Timezone != nil {
		o.Timezone = *patch.Timezone
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
}

// BranchService carries branch business rules.
type BranchService struct {
	repo BranchRepository
	mut  store.Transactor
}

func NewBranchService(repo BranchRepository, mut store.Transactor) *BranchService {
	return &BranchService{repo: repo, mut: mut}
}

func (s *BranchService) Create(ctx context.Context, orgID uuid.UUID, actorID string, b *Branch) error {
	if err := validateBranch(b); err != nil {
		return err
	}
	b.OrgID = orgID
	if b.Status == "" {
		b.Status = "active"
	}

	return s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		inUse, err := s.repo.NameInUse(txCtx, orgID, b.Name, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperr.Conflict("branch name already in use: %s", b.Name)
		}
		if err := s.repo.Insert(txCtx, b); err != nil {
			return nil, err
		}
		entry := audit.NewEntry(audit.ActionCreate, "branch", b.ID, orgID, actorID, nil, b)
		return &entry, nil
	})
}

func (s *BranchService) Get(ctx context.Context, orgID, id uuid.UUID) (*Branch, error) {
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *BranchService) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Branch, int, error) {
	return s.repo.List(ctx, orgID, limit, offset)
}

func (s *BranchService) Update(ctx context.Context, orgID, id uuid.UUID, actorID string, patch BranchPatch) (*Branch, error) {
	var updated *Branch
	err := s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		current, err := s.repo.GetForUpdate(txCtx, orgID, id)
		if err != nil {
			return nil, err
		}
		before := *current

		applyBranch(current, patch)
		if err := validateBranch(current); err != nil {
			return nil, err
		}
		if !strings.EqualFold(before.Name, current.Name) {
			inUse, err := s.repo.NameInUse(txCtx, orgID, current.Name, id)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, apperr.Conflict("branch name already in use: %s", current.Name)
			}
		}
		if err := s.repo.Update(txCtx, current); err != nil {
			return nil, err
		}
		updated = current
		entry := audit.NewEntry(audit.ActionUpdate, "branch", id, orgID, actorID, before, current)
		return &entry, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BranchService) Delete(ctx context.Context, orgID, id uuid.UUID, actorID string) error {
	return s.mut.Mutate(ctx, func(txCtx context.Context) (*audit.Entry, error) {
		current, err := s.repo.GetForUpdate(txCtx, orgID, id)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SoftDelete(txCtx, orgID, id); err != nil {
			return nil, err
		}
		entry := audit.NewEntry(audit.ActionDelete, "branch", id, orgID, actorID, current, nil)
		return &entry, nil
	})
}

func validateBranch(b *Branch) error {
	if strings.TrimSpace(b.Name) == "" {
		return apperr.Validation("name is required")
	}
	if b.Status != "" && !validBranchStatuses[b.Status] {
		return apperr.Validation("invalid status: %s", b.Status)
	}
	return nil
}

func applyBranch(b *Branch, patch BranchPatch) {
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.AddressLine1 != nil {
		b.AddressLine1 = patch.AddressLine1
	}
	if patch.AddressLine2 != nil {
		b.AddressLine2 = patch.AddressLine2
	}
	if patch.City != nil {
		b.City = patch.City
	}
	if patch.PostalCode != nil {
		b.PostalCode = patch.PostalCode
	}
	if patch.Phone != nil {
		b.Phone = patch.Phone
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
}
