package staff

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.FromContext(ctx, r.pool)
}

const cols = `id, org_id, branch_id, first_name, last_name, email, phone, role,
	license_number, status, created_at, updated_at, deleted_at`

func (r *repoPG) Insert(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO staff (id, org_id, branch_id, first_name, last_name, email,
			phone, role, license_number, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		m.ID, m.OrgID, m.BranchID, m.FirstName, m.LastName, m.Email,
		m.Phone, m.Role, m.LicenseNumber, m.Status,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Member, error) {
	return scanMember(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM staff WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id))
}

func (r *repoPG) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Member, error) {
	return scanMember(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM staff WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL FOR UPDATE`,
		orgID, id))
}

func (r *repoPG) Update(ctx context.Context, m *Member) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE staff SET
			branch_id=$3, first_name=$4, last_name=$5, email=$6, phone=$7,
			role=$8, license_number=$9, status=$10, updated_at=NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		m.OrgID, m.ID, m.BranchID, m.FirstName, m.LastName, m.Email,
		m.Phone, m.Role, m.LicenseNumber, m.Status,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("staff member %s not found", m.ID)
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *repoPG) SoftDelete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff SET deleted_at = NOW(), updated_at = NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id,
	)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("staff member %s not found", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Member, int, error) {
	where := `WHERE org_id = $1 AND deleted_at IS NULL`
	args := []interface{}{orgID}
	if filter.BranchID != uuid.Nil {
		args = append(args, filter.BranchID)
		where += ` AND branch_id = $` + strconv.Itoa(len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where += ` AND role = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM staff `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Database(err)
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM staff `+where+
			` ORDER BY last_name, first_name LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n),
		args...)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMemberRow(rows)
		if err != nil {
			return nil, 0, apperr.Database(err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Database(err)
	}
	return members, total, nil
}

func (r *repoPG) EmailInUse(ctx context.Context, orgID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM staff
			WHERE org_id = $1 AND lower(email) = lower($2)
			  AND deleted_at IS NULL AND id <> $3
		)`,
		orgID, email, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, apperr.Database(err)
	}
	return exists, nil
}

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(
		&m.ID, &m.OrgID, &m.BranchID, &m.FirstName, &m.LastName, &m.Email,
		&m.Phone, &m.Role, &m.LicenseNumber, &m.Status,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("staff member not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return &m, nil
}

func scanMemberRow(rows pgx.Rows) (*Member, error) {
	var m Member
	err := rows.Scan(
		&m.ID, &m.OrgID, &m.BranchID, &m.FirstName, &m.LastName, &m.Email,
		&m.Phone, &m.Role, &m.LicenseNumber, &m.Status,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
