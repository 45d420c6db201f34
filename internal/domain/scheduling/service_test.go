package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/apperr"
	"github.com/clinicore/clinicore/internal/platform/audit"
	"github.com/clinicore/clinicore/internal/platform/store"
)

type mockRepo struct {
	insertFn     func(ctx context.Context, a *Appointment) error
	getByIDFn    func(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error)
	getForUpdFn  func(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error)
	updateFn     func(ctx context.Context, a *Appointment) error
	softDeleteFn func(ctx context.Context, orgID, id uuid.UUID) error
	listFn       func(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Appointment, int, error)
}

func (m *mockRepo) Insert(ctx context.Context, a *Appointment) error { return m.insertFn(ctx, a) }
func (m *mockRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error) {
	return m.getByIDFn(ctx, orgID, id)
}
func (m *mockRepo) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Appointment, error) {
	return m.getForUpdFn(ctx, orgID, id)
}
func (m *mockRepo) Update(ctx context.Context, a *Appointment) error { return m.updateFn(ctx, a) }
func (m *mockRepo) SoftDelete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.softDeleteFn(ctx, orgID, id)
}
func (m *mockRepo) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Appointment, int, error) {
	return m.listFn(ctx, orgID, filter, limit, offset)
}

type passTransactor struct {
	entries []audit.Entry
}

func (t *passTransactor) Mutate(ctx context.Context, fn store.MutateFunc) error {
	entry, err := fn(ctx)
	if err != nil {
		return err
	}
	if entry != nil {
		t.entries = append(t.entries, *entry)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func validAppointment() *Appointment {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	return &Appointment{
		PatientID:      uuid.New(),
		StaffID:        uuid.New(),
		ScheduledStart: start,
		ScheduledEnd:   start.Add(30 * time.Minute),
	}
}

func TestCreateAppointment(t *testing.T) {
	orgID := uuid.New()
	tr := &passTransactor{}
	repo := &mockRepo{
		insertFn: func(ctx context.Context, a *Appointment) error {
			a.ID = uuid.New()
			return nil
		},
	}
	svc := NewService(repo, tr)

	a := validAppointment()
	if err := svc.Create(context.Background(), orgID, "user-1", a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Status != "scheduled" {
		t.Errorf("status not defaulted: %q", a.Status)
	}
	if len(tr.entries) != 1 || tr.entries[0].EntityType != "appointment" {
		t.Fatalf("audit entries = %+v", tr.entries)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc := NewService(&mockRepo{}, &passTransactor{})

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		mod  func(a *Appointment)
	}{
		{"missing patient", func(a *Appointment) { a.PatientID = uuid.Nil }},
		{"missing staff", func(a *Appointment) { a.StaffID = uuid.Nil }},
		{"missing times", func(a *Appointment) { a.ScheduledStart, a.ScheduledEnd = time.Time{}, time.Time{} }},
		{"end before start", func(a *Appointment) { a.ScheduledEnd = start.Add(-time.Hour) }},
		{"bad status", func(a *Appointment) { a.Status = "pending" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := validAppointment()
			tc.mod(a)
			err := svc.Create(context.Background(), uuid.New(), "user-1", a)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateAppointmentStatusTransition(t *testing.T) {
	orgID := uuid.New()
	id := uuid.New()
	tr := &passTransactor{}
	repo := &mockRepo{
		getForUpdFn: func(ctx context.Context, _, _ uuid.UUID) (*Appointment, error) {
			a := validAppointment()
			a.ID, a.OrgID, a.Status = id, orgID, "scheduled"
			return a, nil
		},
		updateFn: func(ctx context.Context, a *Appointment) error { return nil },
	}
	svc := NewService(repo, tr)

	got, err := svc.Update(context.Background(), orgID, id, "user-2", Patch{Status: strPtr("confirmed")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != "confirmed" {
		t.Errorf("status = %q", got.Status)
	}
	before, ok := tr.entries[0].Before.(Appointment)
	if !ok || before.Status != "scheduled" {
		t.Errorf("before snapshot wrong: %+v", tr.entries[0].Before)
	}
}

func TestUpdateAppointmentRescheduleInvalidWindow(t *testing.T) {
	orgID := uuid.New()
	id := uuid.New()
	tr := &passTransactor{}
	repo := &mockRepo{
		getForUpdFn: func(ctx context.Context, _, _ uuid.UUID) (*Appointment, error) {
			a := validAppointment()
			a.ID, a.OrgID, a.Status = id, orgID, "scheduled"
			return a, nil
		},
	}
	svc := NewService(repo, tr)

	badEnd := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	_, err := svc.Update(context.Background(), orgID, id, "user-2", Patch{ScheduledEnd: &badEnd})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(tr.entries) != 0 {
		t.Error("failed update must not record an audit entry")
	}
}

func TestDeleteAppointment(t *testing.T) {
	orgID := uuid.New()
	id := uuid.New()
	tr := &passTransactor{}
	repo := &mockRepo{
		getForUpdFn: func(ctx context.Context, _, _ uuid.UUID) (*Appointment, error) {
			a := validAppointment()
			a.ID, a.OrgID, a.Status = id, orgID, "cancelled"
			return a, nil
		},
		softDeleteFn: func(ctx context.Context, _, _ uuid.UUID) error { return nil },
	}
	svc := NewService(repo, tr)

	if err := svc.Delete(context.Background(), orgID, id, "user-3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(tr.entries) != 1 || tr.entries[0].Action != audit.ActionDelete {
		t.Fatalf("audit entries = %+v", tr.entries)
	}
}

func TestListAppointmentsFilter(t *testing.T) {
	orgID := uuid.New()
	patientID := uuid.New()
	repo := &mockRepo{
		listFn: func(ctx context.Context, gotOrg uuid.UUID, filter ListFilter, limit, offset int) ([]*Appointment, int, error) {
			if gotOrg != orgID {
				t.Errorf("org = %s", gotOrg)
			}
			if filter.PatientID != patientID || filter.Status != "scheduled" {
				t.Errorf("filter = %+v", filter)
			}
			return nil, 0, nil
		},
	}
	svc := NewService(repo, &passTransactor{})

	_, _, err := svc.List(context.Background(), orgID, ListFilter{PatientID: patientID, Status: "scheduled"}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
}
