package prescription

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

const cols = `id, org_id, patient_id, prescriber_id, medication, dosage,
	frequency, duration_days, refills, status, notes, prescribed_at,
	created_at, updated_at, deleted_at`

func (r *repoPG) Insert(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescriptions (id, org_id, patient_id, prescriber_id,
			medication, dosage, frequency, duration_days, refills, status,
			notes, prescribed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		p.ID, p.OrgID, p.PatientID, p.PrescriberID, p.Medication, p.Dosage,
		p.Frequency, p.DurationDays, p.Refills, p.Status, p.Notes, p.PrescribedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Prescription, error) {
	return scanPrescription(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM prescriptions WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id))
}

func (r *repoPG) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Prescription, error) {
	return scanPrescription(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM prescriptions WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL FOR UPDATE`,
		orgID, id))
}

func (r *repoPG) Update(ctx context.Context, p *Prescription) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE prescriptions SET
			medication=$3, dosage=$4, frequency=$5, duration_days=$6, refills=$7,
			status=$8, notes=$9, prescribed_at=$10, updated_at=NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		p.OrgID, p.ID, p.Medication, p.Dosage, p.Frequency, p.DurationDays,
		p.Refills, p.Status, p.Notes, p.PrescribedAt,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("prescription %s not found", p.ID)
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *repoPG) SoftDelete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescriptions SET deleted_at = NOW(), updated_at = NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id,
	)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("prescription %s not found", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Prescription, int, error) {
	where := `WHERE org_id = $1 AND deleted_at IS NULL`
	args := []interface{}{orgID}
	if filter.PatientID != uuid.Nil {
		args = append(args, filter.PatientID)
		where += ` AND patient_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prescriptions `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Database(err)
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM prescriptions `+where+
			` ORDER BY prescribed_at DESC LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n),
		args...)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	defer rows.Close()

	var prescriptions []*Prescription
	for rows.Next() {
		p, err := scanPrescriptionRow(rows)
		if err != nil {
			return nil, 0, apperr.Database(err)
		}
		prescriptions = append(prescriptions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Database(err)
	}
	return prescriptions, total, nil
}

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(
		&p.ID, &p.OrgID, &p.PatientID, &p.PrescriberID, &p.Medication, &p.Dosage,
		&p.Frequency, &p.DurationDays, &p.Refills, &p.Status, &p.Notes,
		&p.PrescribedAt, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("prescription not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return &p, nil
}

func scanPrescriptionRow(rows pgx.Rows) (*Prescription, error) {
	var p Prescription
	err := rows.Scan(
		&p.ID, &p.OrgID, &p.PatientID, &p.PrescriberID, &p.Medication, &p.Dosage,
		&p.Frequency, &p.DurationDays, &p.Refills, &p.Status, &p.Notes,
		&p.PrescribedAt, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
