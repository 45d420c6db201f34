package patient

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

const cols = `id, org_id, mrn, first_name, last_name, email, phone, birth_date,
	gender, address_line1, city, status, created_at, updated_at, deleted_at`

func (r *repoPG) Insert(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, org_id, mrn, first_name, last_name, email, phone,
			birth_date, gender, address_line1, city, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		p.ID, p.OrgID, p.MRN, p.FirstName, p.LastName, p.Email, p.Phone,
		p.BirthDate, p.Gender, p.AddressLine1, p.City, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM patients WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id))
}

func (r *repoPG) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM patients WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL FOR UPDATE`,
		orgID, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE patients SET
			mrn=$3, first_name=$4, last_name=$5, email=$6, phone=$7,
			birth_date=$8, gender=$9, address_line1=$10, city=$11, status=$12,
			updated_at=NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		p.OrgID, p.ID, p.MRN, p.FirstName, p.LastName, p.Email, p.Phone,
		p.BirthDate, p.Gender, p.AddressLine1, p.City, p.Status,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("patient %s not found", p.ID)
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *repoPG) SoftDelete(ctx context.Context, orgID, id uuid.UUID) error {
	// Timestamps come from the transaction clock, not the application server,
	// so replicas with skewed clocks agree on deletion time.
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET deleted_at = NOW(), updated_at = NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id,
	)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient %s not found", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	where := `WHERE org_id = $1 AND deleted_at IS NULL`
	args := []interface{}{orgID}
	if filter.Status != "" {
		where += ` AND status = $2`
		args = append(args, filter.Status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Database(err)
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM patients `+where+
			` ORDER BY last_name, first_name LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n),
		args...)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatientRow(rows)
		if err != nil {
			return nil, 0, apperr.Database(err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Database(err)
	}
	return patients, total, nil
}

func (r *repoPG) EmailInUse(ctx context.Context, orgID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM patients
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

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.OrgID, &p.MRN, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.BirthDate, &p.Gender, &p.AddressLine1, &p.City, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("patient not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return &p, nil
}

func scanPatientRow(rows pgx.Rows) (*Patient, error) {
	var p Patient
	err := rows.Scan(
		&p.ID, &p.OrgID, &p.MRN, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.BirthDate, &p.Gender, &p.AddressLine1, &p.City, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
