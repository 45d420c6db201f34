package scheduling

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

const cols = `id, org_id, patient_id, staff_id, branch_id, scheduled_start,
	scheduled_end, status, reason, notes, created_at, updated_at, deleted_at`

func (r *repoPG) Insert(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, org_id, patient_id, staff_id, branch_id,
			scheduled_start, scheduled_end, status, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		a.ID, a.OrgID, a.PatientID, a.StaffID, a.BranchID,
		a.ScheduledStart, a.ScheduledEnd, a.Status, a.Reason, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM appointments WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id))
}

func (r *repoPG) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM appointments WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL FOR UPDATE`,
		orgID, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE appointments SET
			patient_id=$3, staff_id=$4, branch_id=$5, scheduled_start=$6,
			scheduled_end=$7, status=$8, reason=$9, notes=$10, updated_at=NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING updated_at`,
		a.OrgID, a.ID, a.PatientID, a.StaffID, a.BranchID,
		a.ScheduledStart, a.ScheduledEnd, a.Status, a.Reason, a.Notes,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("appointment %s not found", a.ID)
	}
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func (r *repoPG) SoftDelete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET deleted_at = NOW(), updated_at = NOW()
		WHERE org_id = $1 AND id = $2 AND deleted_at IS NULL`,
		orgID, id,
	)
	if err != nil {
		return apperr.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment %s not found", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Appointment, int, error) {
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
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Database(err)
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cols+` FROM appointments `+where+
			` ORDER BY scheduled_start LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n),
		args...)
	if err != nil {
		return nil, 0, apperr.Database(err)
	}
	defer rows.Close()

	var appointments []*Appointment
	for rows.Next() {
		a, err := scanAppointmentRow(rows)
		if err != nil {
			return nil, 0, apperr.Database(err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Database(err)
	}
	return appointments, total, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.OrgID, &a.PatientID, &a.StaffID, &a.BranchID,
		&a.ScheduledStart, &a.ScheduledEnd, &a.Status, &a.Reason, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Database(err)
	}
	return &a, nil
}

func scanAppointmentRow(rows pgx.Rows) (*Appointment, error) {
	var a Appointment
	err := rows.Scan(
		&a.ID, &a.OrgID, &a.PatientID, &a.StaffID, &a.BranchID,
		&a.ScheduledStart, &a.ScheduledEnd, &a.Status, &a.Reason, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
