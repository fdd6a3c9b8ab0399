package submissions_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/interviewhub/internal/app/features/submissions"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"github.com/dalemusser/interviewhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (f fixture) router() http.Handler {
	h := submissions.NewHandler(f.svc, nil, nil, 0, zap.NewNop())
	r := chi.NewRouter()
	submissions.Routes(r, h)
	return r
}

func serve(r http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func (f fixture) createViaHTTP(t *testing.T, r http.Handler, extra map[string]any) models.Submission {
	t.Helper()
	body := map[string]any{
		"title":       "Backend attempt",
		"candidateId": f.candidate.ID.Hex(),
		"interviewId": f.interview.ID.Hex(),
	}
	for k, v := range extra {
		body[k] = v
	}
	rec := serve(r, testutil.NewJSONRequest(t, "POST", "/create-submission", body))
	rec.AssertStatus(t, http.StatusCreated)

	var resp struct {
		Message string            `json:"message"`
		Data    models.Submission `json:"data"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Message != "Submission created successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	return resp.Data
}

func TestHandleCreate(t *testing.T) {
	f := newFixture(t)
	r := f.router()

	sub := f.createViaHTTP(t, r, map[string]any{
		"questions":    "Explain interfaces",
		"videoAnswers": []map[string]string{{"question": "Explain interfaces", "videoUrl": "https://cdn.example.com/1.mp4"}},
		"score":        nil,
	})
	if len(sub.Questions) != 1 || len(sub.VideoAnswers) != 1 {
		t.Errorf("sub = %+v", sub)
	}
	if sub.Score != 0 || sub.Review != models.ReviewPending {
		t.Errorf("score/review = %v/%q", sub.Score, sub.Review)
	}
}

func TestHandleCreate_VideoAnswersNotAList(t *testing.T) {
	f := newFixture(t)
	sub := f.createViaHTTP(t, f.router(), map[string]any{
		"videoAnswers": map[string]string{"question": "q", "videoUrl": "u"},
	})
	if len(sub.VideoAnswers) != 0 {
		t.Errorf("VideoAnswers = %+v, want empty", sub.VideoAnswers)
	}
}

func TestHandleCreate_Errors(t *testing.T) {
	f := newFixture(t)
	r := f.router()

	tests := []struct {
		name   string
		body   any
		status int
		msg    string
	}{
		{"missing fields", map[string]any{"title": "x"}, http.StatusBadRequest, submissions.MsgCreateRequired},
		{"string score", map[string]any{
			"title": "x", "candidateId": f.candidate.ID.Hex(), "interviewId": f.interview.ID.Hex(), "score": "10",
		}, http.StatusBadRequest, submissions.MsgScoreInvalid},
		{"bad video answers", map[string]any{
			"title": "x", "candidateId": f.candidate.ID.Hex(), "interviewId": f.interview.ID.Hex(), "videoAnswers": []int{1},
		}, http.StatusBadRequest, submissions.MsgInvalidVideoAnswers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, testutil.NewJSONRequest(t, "POST", "/create-submission", tt.body))
			rec.AssertStatus(t, tt.status)
			rec.AssertError(t, tt.msg)
		})
	}
}

func TestServeList(t *testing.T) {
	f := newFixture(t)
	r := f.router()
	first := f.createViaHTTP(t, r, nil)
	second := f.createViaHTTP(t, r, nil)

	rec := serve(r, testutil.NewJSONRequest(t, "GET", "/get-all-submission", nil))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Data []models.Submission `json:"data"`
	}
	rec.DecodeJSON(t, &resp)
	if len(resp.Data) != 2 || resp.Data[0].ID != second.ID || resp.Data[1].ID != first.ID {
		t.Errorf("unexpected list order: %+v", resp.Data)
	}
}

func TestHandleUpdate(t *testing.T) {
	f := newFixture(t)
	r := f.router()
	sub := f.createViaHTTP(t, r, map[string]any{"reviewedBy": f.admin.ID.Hex()})

	rec := serve(r, testutil.NewJSONRequest(t, "PUT", "/update-submission/"+sub.ID.Hex(), map[string]any{
		"score":      8,
		"reviewedBy": nil,
	}))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Message string            `json:"message"`
		Data    models.Submission `json:"data"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Message != "Submission updated successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Data.Score != 8 || resp.Data.ReviewedBy != nil {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestHandleUpdate_Errors(t *testing.T) {
	f := newFixture(t)
	r := f.router()
	sub := f.createViaHTTP(t, r, map[string]any{"score": 3})
	target := "/update-submission/" + sub.ID.Hex()

	tests := []struct {
		name   string
		target string
		body   any
		status int
		msg    string
	}{
		{"empty object", target, map[string]any{}, http.StatusBadRequest, submissions.MsgUpdateEmpty},
		{"string score", target, map[string]any{"score": "9"}, http.StatusBadRequest, submissions.MsgScoreInvalid},
		{"null score", target, `{"score":null}`, http.StatusBadRequest, submissions.MsgScoreInvalid},
		{"negative score", target, map[string]any{"score": -1}, http.StatusBadRequest, submissions.MsgScoreInvalid},
		{"bad review", target, map[string]any{"review": "LATER"}, http.StatusBadRequest, submissions.MsgReviewInvalid},
		{"malformed id", "/update-submission/123", map[string]any{"score": 1}, http.StatusBadRequest, "Invalid ID format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, testutil.NewJSONRequest(t, "PUT", tt.target, tt.body))
			rec.AssertStatus(t, tt.status)
			rec.AssertError(t, tt.msg)
		})
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, _ := f.m.Submissions().GetByID(ctx, sub.ID)
	if got.Score != 3 {
		t.Errorf("Score = %v, want unchanged 3", got.Score)
	}
}
