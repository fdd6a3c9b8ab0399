package interviews_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/interviewhub/internal/app/features/interviews"
	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/app/system/authz"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"github.com/dalemusser/interviewhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newService(m *testutil.Mem) *interviews.Service {
	return interviews.NewService(m.Interviews(), m.Submissions(), m.Users(),
		authz.New(m.Users()), m.UnitOfWork(), zap.NewNop())
}

func wantKind(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	if !apperr.Is(err, kind) {
		t.Fatalf("err = %v, want kind %s", err, kind)
	}
	if msg != "" && apperr.Message(err) != msg {
		t.Errorf("message = %q, want %q", apperr.Message(err), msg)
	}
}

func TestCreate(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	svc := newService(m)

	iv, err := svc.Create(context.Background(), interviews.CreateInput{
		Title:     "  Backend  ",
		CreatedBy: admin.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if iv.Title != "Backend" {
		t.Errorf("Title = %q, want trimmed", iv.Title)
	}
	if iv.Questions == nil || len(iv.Questions) != 0 {
		t.Errorf("Questions = %#v, want empty slice", iv.Questions)
	}
	if iv.AttemptedBy == nil || len(iv.AttemptedBy) != 0 {
		t.Errorf("AttemptedBy = %#v, want empty slice", iv.AttemptedBy)
	}
	if iv.CreatedBy != admin.ID {
		t.Errorf("CreatedBy = %s, want %s", iv.CreatedBy.Hex(), admin.ID.Hex())
	}
}

func TestCreate_SanitizesDescription(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	svc := newService(m)

	iv, err := svc.Create(context.Background(), interviews.CreateInput{
		Title:       "Backend",
		Description: `Round one<script>alert(1)</script>`,
		CreatedBy:   admin.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if iv.Description != "Round one" {
		t.Errorf("Description = %q", iv.Description)
	}
}

func TestDescription_PlainTextStoredVerbatim(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	svc := newService(m)
	ctx := context.Background()
	const plain = `Q&A: is a < b? use "quotes"`

	iv, err := svc.Create(ctx, interviews.CreateInput{
		Title:       "Backend",
		Description: plain,
		CreatedBy:   admin.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if iv.Description != plain {
		t.Errorf("created Description = %q, want %q", iv.Description, plain)
	}

	const edited = "Tom & Jerry > Mickey"
	updated, _, err := svc.Update(ctx, iv.ID.Hex(), interviews.UpdateInput{
		UserID:      admin.ID.Hex(),
		Description: &edited,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Description != edited {
		t.Errorf("updated Description = %q, want %q", updated.Description, edited)
	}

	stored, err := m.Interviews().GetByID(ctx, iv.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Description != edited {
		t.Errorf("stored Description = %q", stored.Description)
	}
}

func TestCreate_Rejected(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	user := m.AddUser("Uma", "USER")

	tests := []struct {
		name string
		in   interviews.CreateInput
		kind apperr.Kind
		msg  string
	}{
		{"missing title", interviews.CreateInput{CreatedBy: admin.ID.Hex()}, apperr.KindValidation, interviews.MsgCreateRequired},
		{"blank title", interviews.CreateInput{Title: "   ", CreatedBy: admin.ID.Hex()}, apperr.KindValidation, interviews.MsgCreateRequired},
		{"missing creator", interviews.CreateInput{Title: "Backend"}, apperr.KindValidation, interviews.MsgCreateRequired},
		{"malformed creator", interviews.CreateInput{Title: "Backend", CreatedBy: "nope"}, apperr.KindMalformedID, apperr.MsgMalformedID},
		{"non-admin", interviews.CreateInput{Title: "Backend", CreatedBy: user.ID.Hex()}, apperr.KindAuthorization, interviews.MsgCreateForbidden},
		{"unknown user", interviews.CreateInput{Title: "Backend", CreatedBy: primitive.NewObjectID().Hex()}, apperr.KindAuthorization, interviews.MsgCreateForbidden},
	}

	svc := newService(m)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			wantKind(t, err, tt.kind, tt.msg)
		})
	}

	if n := m.InterviewCount(); n != 0 {
		t.Errorf("InterviewCount = %d, want 0", n)
	}
}

func TestList_NewestFirst(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	svc := newService(m)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, interviews.CreateInput{Title: title, CreatedBy: admin.ID.Hex()}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 || list[0].Title != "third" || list[2].Title != "first" {
		t.Errorf("unexpected order: %+v", list)
	}
}

func TestGet(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	svc := newService(m)
	ctx := context.Background()

	iv, _ := svc.Create(ctx, interviews.CreateInput{Title: "Backend", CreatedBy: admin.ID.Hex()})

	detail, err := svc.Get(ctx, iv.ID.Hex())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.CreatedBy == nil {
		t.Fatal("expected creator to be joined")
	}
	if detail.CreatedBy.Name != "Ada" || detail.CreatedBy.Role != models.RoleAdmin {
		t.Errorf("creator = %+v", detail.CreatedBy)
	}

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex())
	wantKind(t, err, apperr.KindNotFound, "Interview not found")

	_, err = svc.Get(ctx, "123")
	wantKind(t, err, apperr.KindMalformedID, apperr.MsgMalformedID)
}

func TestGet_MissingCreatorIsNull(t *testing.T) {
	m := testutil.NewMem()
	svc := newService(m)
	ctx := context.Background()

	iv, err := m.Interviews().Create(ctx, models.Interview{Title: "Orphan", CreatedBy: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	detail, err := svc.Get(ctx, iv.ID.Hex())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.CreatedBy != nil {
		t.Errorf("CreatedBy = %+v, want nil", detail.CreatedBy)
	}
}

func strPtr(s string) *string { return &s }

func TestUpdate(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	svc := newService(m)
	ctx := context.Background()

	iv, _ := svc.Create(ctx, interviews.CreateInput{
		Title:       "Backend",
		Description: "Round one",
		Questions:   []string{"q1"},
		CreatedBy:   admin.ID.Hex(),
	})

	updated, fields, err := svc.Update(ctx, iv.ID.Hex(), interviews.UpdateInput{
		UserID:    admin.ID.Hex(),
		Title:     strPtr("Backend v2"),
		Questions: []string{"q1", "q2"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Backend v2" {
		t.Errorf("Title = %q", updated.Title)
	}
	if updated.Description != "Round one" {
		t.Errorf("Description changed to %q", updated.Description)
	}
	if len(updated.Questions) != 2 {
		t.Errorf("Questions = %v", updated.Questions)
	}
	if len(fields) != 2 || fields[0] != "title" || fields[1] != "questions" {
		t.Errorf("fields = %v", fields)
	}
}

func TestUpdate_Rejected(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	user := m.AddUser("Uma", "USER")
	svc := newService(m)
	ctx := context.Background()

	iv, _ := svc.Create(ctx, interviews.CreateInput{Title: "Backend", CreatedBy: admin.ID.Hex()})

	tests := []struct {
		name string
		id   string
		in   interviews.UpdateInput
		kind apperr.Kind
		msg  string
	}{
		{"missing user", iv.ID.Hex(), interviews.UpdateInput{Title: strPtr("x")}, apperr.KindValidation, interviews.MsgUserIDRequired},
		{"non-admin", iv.ID.Hex(), interviews.UpdateInput{UserID: user.ID.Hex()}, apperr.KindAuthorization, interviews.MsgUpdateForbidden},
		{"not found", primitive.NewObjectID().Hex(), interviews.UpdateInput{UserID: admin.ID.Hex()}, apperr.KindNotFound, "Interview not found"},
		{"blank title", iv.ID.Hex(), interviews.UpdateInput{UserID: admin.ID.Hex(), Title: strPtr("  ")}, apperr.KindValidation, interviews.MsgTitleBlank},
		{"malformed id", "xyz", interviews.UpdateInput{UserID: admin.ID.Hex()}, apperr.KindMalformedID, apperr.MsgMalformedID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Update(ctx, tt.id, tt.in)
			wantKind(t, err, tt.kind, tt.msg)
		})
	}

	got, _ := m.Interviews().GetByID(ctx, iv.ID)
	if got.Title != "Backend" {
		t.Errorf("Title changed to %q after rejected updates", got.Title)
	}
}

func TestDelete_Cascades(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	cand := m.AddUser("Cy", "USER")
	svc := newService(m)
	ctx := context.Background()

	iv, _ := svc.Create(ctx, interviews.CreateInput{Title: "Backend", CreatedBy: admin.ID.Hex()})
	other, _ := svc.Create(ctx, interviews.CreateInput{Title: "Frontend", CreatedBy: admin.ID.Hex()})
	for i := 0; i < 3; i++ {
		_, _ = m.Submissions().Create(ctx, models.Submission{Title: "s", CandidateID: cand.ID, InterviewID: iv.ID})
	}
	_, _ = m.Submissions().Create(ctx, models.Submission{Title: "keep", CandidateID: cand.ID, InterviewID: other.ID})

	res, err := svc.Delete(ctx, iv.ID.Hex(), admin.ID.Hex())
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if res.DeletedSubmissions != 3 {
		t.Errorf("DeletedSubmissions = %d, want 3", res.DeletedSubmissions)
	}
	if res.Interview.ID != iv.ID {
		t.Errorf("deleted interview = %s", res.Interview.ID.Hex())
	}
	if n := m.InterviewCount(); n != 1 {
		t.Errorf("InterviewCount = %d, want 1", n)
	}
	if n := m.SubmissionCount(); n != 1 {
		t.Errorf("SubmissionCount = %d, want 1", n)
	}
}

func TestDelete_RollsBack(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	cand := m.AddUser("Cy", "USER")
	svc := newService(m)
	ctx := context.Background()

	iv, _ := svc.Create(ctx, interviews.CreateInput{Title: "Backend", CreatedBy: admin.ID.Hex()})
	for i := 0; i < 2; i++ {
		_, _ = m.Submissions().Create(ctx, models.Submission{Title: "s", CandidateID: cand.ID, InterviewID: iv.ID})
	}

	boom := errors.New("write conflict")
	m.Fail["interviews.Delete"] = boom

	_, err := svc.Delete(ctx, iv.ID.Hex(), admin.ID.Hex())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if n := m.SubmissionCount(); n != 2 {
		t.Errorf("SubmissionCount = %d, want 2 after rollback", n)
	}
	if n := m.InterviewCount(); n != 1 {
		t.Errorf("InterviewCount = %d, want 1 after rollback", n)
	}
}

func TestDelete_Rejected(t *testing.T) {
	m := testutil.NewMem()
	admin := m.AddAdmin("Ada")
	user := m.AddUser("Uma", "USER")
	svc := newService(m)
	uow := svc.UoW.(*testutil.MemUnitOfWork)
	ctx := context.Background()

	iv, _ := svc.Create(ctx, interviews.CreateInput{Title: "Backend", CreatedBy: admin.ID.Hex()})

	tests := []struct {
		name   string
		id     string
		userID string
		kind   apperr.Kind
		msg    string
	}{
		{"missing user", iv.ID.Hex(), "", apperr.KindValidation, interviews.MsgUserIDRequired},
		{"non-admin", iv.ID.Hex(), user.ID.Hex(), apperr.KindAuthorization, interviews.MsgDeleteForbidden},
		{"not found", primitive.NewObjectID().Hex(), admin.ID.Hex(), apperr.KindNotFound, "Interview not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Delete(ctx, tt.id, tt.userID)
			wantKind(t, err, tt.kind, tt.msg)
		})
	}

	if uow.Calls != 0 {
		t.Errorf("unit of work started %d times for rejected deletes", uow.Calls)
	}
	if n := m.InterviewCount(); n != 1 {
		t.Errorf("InterviewCount = %d, want 1", n)
	}
}
