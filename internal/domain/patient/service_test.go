package patient

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
	insertFn     func(ctx context.Context, p *Patient) error
	getByIDFn    func(ctx context.Context, orgID, id uuid.UUID) (*Patient, error)
	getForUpdFn  func(ctx context.Context, orgID, id uuid.UUID) (*Patient, error)
	updateFn     func(ctx context.Context, p *Patient) error
	softDeleteFn func(ctx context.Context, orgID, id uuid.UUID) error
	listFn       func(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Patient, int, error)
	emailInUseFn func(ctx context.Context, orgID uuid.UUID, email string, excludeID uuid.UUID) (bool, error)
}

func (m *mockRepo) Insert(ctx context.Context, p *Patient) error { return m.insertFn(ctx, p) }
func (m *mockRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*Patient, error) {
	return m.getByIDFn(ctx, orgID, id)
}
func (m *mockRepo) GetForUpdate(ctx context.Context, orgID, id uuid.UUID) (*Patient, error) {
	return m.getForUpdFn(ctx, orgID, id)
}
func (m *mockRepo) Update(ctx context.Context, p *Patient) error { return m.updateFn(ctx, p) }
func (m *mockRepo) SoftDelete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.softDeleteFn(ctx, orgID, id)
}
func (m *mockRepo) List(ctx context.Context, orgID uuid.UUID, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	return m.listFn(ctx, orgID, filter, limit, offset)
}
func (m *mockRepo) EmailInUse(ctx context.Context, orgID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	return m.emailInUseFn(ctx, orgID, email, excludeID)
}

// passTransactor runs the mutation inline and captures recorded audit
// entries so tests can assert audit pairing without a database.
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

func TestCreatePatient(t *testing.T) {
	orgID := uuid.New()
	tr := &passTransactor{}
	repo := &mockRepo{
		emailInUseFn: func(ctx context.Context, _ uuid.UUID, _ string, _ uuid.UUID) (bool, error) {
			return false, nil
		},
		insertFn: func(ctx context.Context, p *Patient) error {
			p.ID = uuid.New()
			p.CreatedAt = time.Now()
			return nil
		},
	}
	svc := NewService(repo, tr)

	p := &Patient{FirstName: "Ada", LastName: "Lovelace", Email: strPtr("ada@example.com")}
	if err := svc.Create(context.Background(), orgID, "user-1", p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.OrgID != orgID {
		t.Errorf("org id not stamped: got %s", p.OrgID)
	}
	if p.Status != "active" {
		t.Errorf("status not defaulted: got %q", p.Status)
	}
	if len(tr.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(tr.entries))
	}
	e := tr.entries[0]
	if e.Action != audit.ActionCreate || e.EntityType != "patient" || e.EntityID != p.ID {
		t.Errorf("unexpected audit entry: %+v", e)
	}
	if e.Before != nil {
		t.Error("create entry should have nil before snapshot")
	}
	if e.ActorID != "user-1" {
		t.Errorf("actor id = %q", e.ActorID)
	}
}

func TestCreatePatientValidation(t *testing.T) {
	svc := NewService(&mockRepo{}, &passTransactor{})

	cases := []struct {
		name string
		p    *Patient
	}{
		{"missing first name", &Patient{LastName: "Lovelace"}},
		{"missing last name", &Patient{FirstName: "Ada"}},
		{"bad status", &Patient{FirstName: "Ada", LastName: "Lovelace", Status: "archived"}},
		{"bad email", &Patient{FirstName: "Ada", LastName: "Lovelace", Email: strPtr("not-an-email")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(context.Background(), uuid.New(), "user-1", tc.p)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreatePatientEmailConflict(t *testing.T) {
	tr := &passTransactor{}
	repo := &mockRepo{
		emailInUseFn: func(ctx context.Context, _ uuid.UUID, _ string, _ uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc := NewService(repo, tr)

	p := &Patient{FirstName: "Ada", LastName: "Lovelace", Email: strPtr("ada@example.com")}
	err := svc.Create(context.Background(), uuid.New(), "user-1", p)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(tr.entries) != 0 {
		t.Error("failed create must not record an audit entry")
	}
}

func TestUpdatePatient(t *testing.T) {
	orgID := uuid.New()
	id := uuid.New()
	existing := &Patient{
		ID: id, OrgID: orgID,
		FirstName: "Ada", LastName: "Lovelace",
		Email: strPtr("ada@example.com"), Status: "active",
	}

	tr := &passTransactor{}
	var emailChecked bool
	repo := &mockRepo{
		getForUpdFn: func(ctx context.Context, gotOrg, gotID uuid.UUID) (*Patient, error) {
			if gotOrg != orgID || gotID != id {
				t.Errorf("lookup scoped wrong: org=%s id=%s", gotOrg, gotID)
			}
			cp := *existing
			return &cp, nil
		},
		emailInUseFn: func(ctx context.Context, _ uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
			emailChecked = true
			if excludeID != id {
				t.Errorf("uniqueness check must exclude the row itself, got %s", excludeID)
			}
			return false, nil
		},
		updateFn: func(ctx context.Context, p *Patient) error { return nil },
	}
	svc := NewService(repo, tr)

	got, err := svc.Update(context.Background(), orgID, id, "user-2", Patch{
		LastName: strPtr("King"),
		Email:    strPtr("ada.king@example.com"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.LastName != "King" || got.FirstName != "Ada" {
		t.Errorf("patch applied wrong: %+v", got)
	}
	if !emailChecked {
		t.Error("changed email must be checked for uniqueness")
	}
	if len(tr.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(tr.entries))
	}
	e := tr.entries[0]
	if e.Action != audit.ActionUpdate {
		t.Errorf("action = %q", e.Action)
	}
	before, ok := e.Before.(Patient)
	if !ok {
		t.Fatalf("before snapshot has type %T", e.Before)
	}
	if before.LastName != "Lovelace" {
		t.Errorf("before snapshot mutated: %+v", before)
	}
}

func TestUpdatePatientUnchangedEmailSkipsCheck(t *testing.T) {
	orgID := uuid.New()
	id := uuid.New()
	repo := &mockRepo{
		getForUpdFn: func(ctx context.Context, _, _ uuid.UUID) (*Patient, error) {
			return &Patient{ID: id, OrgID: orgID, FirstName: "Ada", LastName: "Lovelace",
				Email: strPtr("ada@example.com"), Status: "active"}, nil
		},
		emailInUseFn: func(ctx context.Context, _ uuid.UUID, _ string, _ uuid.UUID) (bool, error) {
			t.Error("unchanged email must not be re-checked")
			return false, nil
		},
		updateFn: func(ctx context.Context, p *Patient) error { return nil },
	}
	svc := NewService(repo, &passTransactor{})

	_, err := svc.Update(context.Background(), orgID, id, "user-2", Patch{Phone: strPtr("555-0100")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestUpdatePatientNotFound(t *testing.T) {
	tr := &passTransactor{}
	repo := &mockRepo{
		getForUpdFn: func(ctx context.Context, _, _ uuid.UUID) (*Patient, error) {
			return nil, apperr.NotFound("patient not found")
		},
	}
	svc := NewService(repo, tr)

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), "user-2", Patch{})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(tr.entries) != 0 {
		t.Error("failed update must not record an audit entry")
	}
}

func TestDeletePatient(t *testing.T) {
	orgID := uuid.New()
	id := uuid.New()
	tr := &passTransactor{}
	repo := &mockRepo{
		getForUpdFn: func(ctx context.Context, _, _ uuid.UUID) (*Patient, error) {
			return &Patient{ID: id, OrgID: orgID, FirstName: "Ada", LastName: "Lovelace", Status: "active"}, nil
		},
		softDeleteFn: func(ctx context.Context, gotOrg, gotID uuid.UUID) error {
			if gotOrg != orgID || gotID != id {
				t.Errorf("delete scoped wrong: org=%s id=%s", gotOrg, gotID)
			}
			return nil
		},
	}
	svc := NewService(repo, tr)

	if err := svc.Delete(context.Background(), orgID, id, "user-3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(tr.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(tr.entries))
	}
	e := tr.entries[0]
	if e.Action != audit.ActionDelete {
		t.Errorf("action = %q", e.Action)
	}
	if e.After != nil {
		t.Error("delete entry should have nil after snapshot")
	}
	if e.Before == nil {
		t.Error("delete entry should carry the prior state")
	}
}
