package org

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/db"
)

type orgRepoPG struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepo(pool *pgxpool.Pool) OrganizationRepository {
	return &orgRepoPG{pool: pool}
}

func (r *orgRepoPG) conn(ctx context.Context) db.Querier {
	return db.FromContext(ctx, r.pool)
}

const orgCols = `id, org_id, name, code, contact_email, phone, timezone, status,
	created_at, updated_at, deleted_at`

func (r *orgRepoPG) Insert(ctx context.Context, o *Organization) error {
	o.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO organizations (id, org_id, name, code, contact_email, phone, timezone, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		o.ID, o.OrgID, o.Name, o.Code, o.ContactEmail, o.Phone, o.Timezone, o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *orgRepoPG) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Organization, error) {
	return scanOrganization(r.conn(ctx).QueryRow(ctx,
		`SELECT `+orgCols+` FROM organizations WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id))
}

func (r *orgRepoPG) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Organization, error) {
	return scanOrganization(r.conn(ctx).QueryRow(ctx,
		`SELECT `+orgCols+` FROM organizations WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL FOR UPDATE`,
		orgID, id))
}

func (r *orgRepoPG) Update(ctx context.Context, o *Organization) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE organizations SET
			name=$3, code=$4, contact_email=$5, phone=$6, timezone=$7, status=$8,
			updated_at=NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		o.OrgID, o.ID, o.Name, o.Code, o.ContactEmail, o.Phone, o.Timezone, o.Status,
	).Scan(&o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("organization %s not found", o.ID)
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *orgRepoPG) SoftDelete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE organizations SET deleted_at = NOW(), updated_at = NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id,
	)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("organization %s not found", id)
	}
	return nil
}

func (r *orgRepoPG) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Organization, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM organizations WHERE org_id = $1 AND deleted_at IS NULL`,
		orgID).Scan(&total); err != nil {
		return nil, 0, apperr.Database(err)
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+orgCols+` FROM organizations
		 WHERE org_id = $1 AND deleted_at IS NULL
		 ORDER BY name LIMIT $2 OFFSET $3`,
		orgID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	defer rows.Close()

	var orgs []*Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(
			&o.ID, &o.OrgID, &o.Name, &o.Code, &o.ContactEmail, &o.Phone,
			&o.Timezone, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
		); err != nil {
			return nil, 0, apperr.Database(err)
		}
		orgs = append(orgs, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Database(err)
	}
	return orgs, total, nil
}

func (r *orgRepoPG) CodeInUse(ctx context.Context, orgID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM organizations
			WHERE org_id = $1 AND lower(code) = lower($2)
			  AND deleted_at IS NULL AND id <> $3
		)`,
		orgID, code, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, apperr.Database(err)
	}
	return exists, nil
}

func scanOrganization(row pgx.Row) (*Organization, error) {
	var o Organization
	err := row.Scan(
		&o.ID, &o.OrgID, &o.Name, &o.Code, &o.ContactEmail, &o.Phone,
		&o.Timezone, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("organization not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return &o, nil
}

type branchRepoPG struct {
	pool *pgxpool.Pool
}

func NewBranchRepo(pool *pgxpool.Pool) BranchRepository {
	return &branchRepoPG{pool: pool}
}

func (r *branchRepoPG) conn(ctx context.Context) db.Querier {
	return db.FromContext(ctx, r.pool)
}

const branchCols = `id, org_id, name, address_line1, address_line2, city,
	postal_code, phone, status, created_at, updated_at, deleted_at`

func (r *branchRepoPG) Insert(ctx context.Context, b *Branch) error {
	b.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO branches (id, org_id, name, address_line1, address_line2,
			city, postal_code, phone, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		b.ID, b.OrgID, b.Name, b.AddressLine1, b.AddressLine2,
		b.City, b.PostalCode, b.Phone, b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *branchRepoPG) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Branch, error) {
	return scanBranch(r.conn(ctx).QueryRow(ctx,
		`SELECT `+branchCols+` FROM branches WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id))
}

func (r *branchRepoPG) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Branch, error) {
	return scanBranch(r.conn(ctx).QueryRow(ctx,
		`SELECT `+branchCols+` FROM branches WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL FOR UPDATE`,
		orgID, id))
}

func (r *branchRepoPG) Update(ctx context.Context, b *Branch) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE branches SET
			name=$3, address_line1=$4, address_line2=$5, city=$6, postal_code=$7,
			phone=$8, status=$9, updated_at=NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		b.OrgID, b.ID, b.Name, b.AddressLine1, b.AddressLine2, b.City,
		b.PostalCode, b.Phone, b.Status,
	).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("branch %s not found", b.ID)
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *branchRepoPG) SoftDelete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE branches SET deleted_at = NOW(), updated_at = NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id,
	)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("branch %s not found", id)
	}
	return nil
}

func (r *branchRepoPG) List(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*Branch, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM branches WHERE org_id = $1 AND deleted_at IS NULL`,
		orgID).Scan(&total); err != nil {
		return nil, 0, apperr.Database(err)
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+branchCols+` FROM branches
		 WHERE org_id = $1 AND deleted_at IS NULL
		 ORDER BY name LIMIT $2 OFFSET $3`,
		orgID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	defer rows.Close()

	var branches []*Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(
			&b.ID, &b.OrgID, &b.Name, &b.AddressLine1, &b.AddressLine2, &b.City,
			&b.PostalCode, &b.Phone, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
		); err != nil {
			return nil, 0, apperr.Database(err)
		}
		branches = append(branches, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Database(err)
	}
	return branches, total, nil
}

func (r *branchRepoPG) NameInUse(ctx context.Context, orgID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM branches
			WHERE org_id = $1 AND lower(name) = lower($2)
			  AND deleted_at IS NULL AND id <> $3
		)`,
		orgID, name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, apperr.Database(err)
	}
	return exists, nil
}

func scanBranch(row pgx.Row) (*Branch, error) {
	var b Branch
	err := row.Scan(
		&b.ID, &b.OrgID, &b.Name, &b.AddressLine1, &b.AddressLine2, &b.City,
		&b.PostalCode, &b.Phone, &b.Status, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("branch not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return &b, nil
}
