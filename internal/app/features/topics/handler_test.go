package topics_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/interviewhub/internal/app/features/topics"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"github.com/dalemusser/interviewhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter(m *testutil.Mem, emptyNotFound bool) http.Handler {
	h := topics.NewHandler(newService(m, emptyNotFound), nil, nil, 0, zap.NewNop())
	r := chi.NewRouter()
	topics.Routes(r, h)
	return r
}

func serve(r http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type topicResponse struct {
	Message string       `json:"message"`
	Data    models.Topic `json:"data"`
}

func TestHandleCreate_InsertThenMerge(t *testing.T) {
	r := newRouter(testutil.NewMem(), true)

	rec := serve(r, testutil.NewJSONRequest(t, "POST", "/create-topic", map[string]any{
		"topic":     "Graphs",
		"userId":    "u1",
		"subTopics": map[string]string{"name": "BFS", "level": "EASY"},
	}))
	rec.AssertStatus(t, http.StatusCreated)
	var created topicResponse
	rec.DecodeJSON(t, &created)
	if created.Message != "New topic created successfully" || len(created.Data.SubTopics) != 1 {
		t.Errorf("created = %+v", created)
	}

	rec = serve(r, testutil.NewJSONRequest(t, "POST", "/create-topic", map[string]any{
		"topic":     "Graphs",
		"userId":    "u1",
		"subTopics": []map[string]string{{"name": "DFS"}, {"name": "Topological sort"}},
	}))
	rec.AssertStatus(t, http.StatusOK)
	var merged topicResponse
	rec.DecodeJSON(t, &merged)
	if merged.Message != "SubTopics added to existing topic" || len(merged.Data.SubTopics) != 3 {
		t.Errorf("merged = %+v", merged)
	}
}

func TestHandleCreate_Errors(t *testing.T) {
	r := newRouter(testutil.NewMem(), true)

	rec := serve(r, testutil.NewJSONRequest(t, "POST", "/create-topic", map[string]any{"topic": "Graphs"}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertError(t, topics.MsgCreateRequired)

	rec = serve(r, testutil.NewJSONRequest(t, "POST", "/create-topic", map[string]any{
		"topic": "Graphs", "userId": "u1", "subTopics": []int{1},
	}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertError(t, topics.MsgInvalidSubTopics)
}

func TestServeList(t *testing.T) {
	rec := serve(newRouter(testutil.NewMem(), true), testutil.NewJSONRequest(t, "GET", "/get-all-topic", nil))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertError(t, topics.MsgNoTopics)

	rec = serve(newRouter(testutil.NewMem(), false), testutil.NewJSONRequest(t, "GET", "/get-all-topic", nil))
	rec.AssertStatus(t, http.StatusOK)
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want bare empty array", body)
	}
}

func TestHandleUpdateStatus(t *testing.T) {
	r := newRouter(testutil.NewMem(), true)

	rec := serve(r, testutil.NewJSONRequest(t, "POST", "/create-topic", map[string]any{
		"topic": "Graphs", "userId": "u1", "subTopics": []map[string]string{{"name": "BFS"}},
	}))
	var created topicResponse
	rec.DecodeJSON(t, &created)

	rec = serve(r, testutil.NewJSONRequest(t, "PUT", "/update-topic", map[string]any{
		"topicId":      created.Data.ID.Hex(),
		"subTopicName": "bfs",
		"status":       "DONE",
	}))
	rec.AssertStatus(t, http.StatusOK)
	var updated topicResponse
	rec.DecodeJSON(t, &updated)
	if updated.Message != "SubTopic status updated successfully" {
		t.Errorf("message = %q", updated.Message)
	}
	if updated.Data.OverAllStatus != models.StatusDone {
		t.Errorf("OverAllStatus = %q, want DONE", updated.Data.OverAllStatus)
	}

	rec = serve(r, testutil.NewJSONRequest(t, "PUT", "/update-topic", map[string]any{"topicId": created.Data.ID.Hex()}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertError(t, topics.MsgUpdateRequired)
}
