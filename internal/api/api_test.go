package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizwire/quizwire/internal/api"
	"github.com/quizwire/quizwire/internal/api/response"
	"github.com/quizwire/quizwire/internal/factory"
	"github.com/quizwire/quizwire/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	app.LoadTestQuizzes()
	app.MockRandom.QueueString("AB12C3", "XY98Z7")

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		Coordinator: app.Coordinator,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{
		"quiz_id": "capitals",
		"host_id": "host-1",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	created := decode[response.CreatedSession](t, rr)
	assert.Equal(t, "AB12C3", created.Code)
	assert.Equal(t, "capitals", created.QuizID)
	assert.Equal(t, "host-1", created.HostID)
}

func TestCreateSessionValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"quiz_id": "capitals"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{
		"quiz_id": "missing",
		"host_id": "host-1",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetSessionStatus(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{
		"quiz_id": "capitals",
		"host_id": "host-1",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	_, err := ts.app.Coordinator.Join("AB12C3", "Ada")
	require.NoError(t, err)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/AB12C3", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	status := decode[response.SessionStatus](t, rr)
	assert.Equal(t, "AB12C3", status.Code)
	assert.Equal(t, "waiting", status.State)
	assert.Equal(t, "World Capitals", status.QuizTitle)
	assert.Equal(t, 3, status.QuestionCount)
	assert.Equal(t, -1, status.CurrentIndex)
	assert.Equal(t, 1, status.Participants)
}

func TestGetSessionNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/NOPE42", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetLeaderboard(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{
		"quiz_id": "capitals",
		"host_id": "host-1",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	_, err := ts.app.Coordinator.Join("AB12C3", "Ada")
	require.NoError(t, err)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/AB12C3/leaderboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	lb := decode[response.Leaderboard](t, rr)
	require.Len(t, lb.Entries, 1)
	assert.Equal(t, "Ada", lb.Entries[0].Nickname)
	assert.Equal(t, 0, lb.Entries[0].Score)
}
