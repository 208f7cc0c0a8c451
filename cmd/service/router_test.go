package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/peer-api/cmd/service/handler"
	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/internal/plugins"
	"github.com/breeew/peer-api/internal/response"
	"github.com/breeew/peer-api/internal/store/memstore"
	"github.com/breeew/peer-api/pkg/types"
)

type apiBody struct {
	Meta response.Meta   `json:"meta"`
	Data json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := memstore.New()
	c := core.NewCore(core.CoreConfig{}, db)
	c.SetClock(func() time.Time { return time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC) })
	c.InstallPlugins(plugins.NewSelfHostPlugin())

	ctx := context.Background()
	group := int64(10)
	require.NoError(t, db.WorkspaceStore().Create(ctx, types.Workspace{ID: 100, Name: "course"}))
	require.NoError(t, db.GroupStore().Create(ctx, types.Group{ID: group, WorkspaceID: 100, Name: "g1"}))
	for _, u := range []types.User{
		{ID: 1, FirstName: "Ivy", LastName: "Instructor", Email: "ivy@example.com"},
		{ID: 2, FirstName: "Ann", LastName: "Adams", Email: "ann@example.com"},
		{ID: 3, FirstName: "Ben", LastName: "Brown", Email: "ben@example.com"},
	} {
		require.NoError(t, db.UserStore().Create(ctx, u))
	}
	for _, m := range []types.Membership{
		{UserID: 1, WorkspaceID: 100, Role: types.ROLE_INSTRUCTOR},
		{UserID: 2, GroupID: &group, WorkspaceID: 100, Role: types.ROLE_STUDENT},
		{UserID: 3, GroupID: &group, WorkspaceID: 100, Role: types.ROLE_STUDENT},
	} {
		require.NoError(t, db.MembershipStore().Create(ctx, m))
	}

	s := &handler.HttpSrv{Core: c, Engine: gin.New()}
	setupHttpRouter(s)
	return &testServer{t: t, engine: s.Engine}
}

func (s *testServer) do(method, path string, user int64, body any, out any) (int, apiBody) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en")
	if user != 0 {
		req.Header.Set("X-User-Id", strconv.FormatInt(user, 10))
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var res apiBody
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	if out != nil && w.Code == http.StatusOK {
		require.NoError(s.t, json.Unmarshal(res.Data, out))
	}
	return w.Code, res
}

func TestReviewFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	var created handler.CreateAssignmentResponse
	code, _ := s.do(http.MethodPost, "/api/v1/assignment", 1, handler.CreateAssignmentRequest{
		WorkspaceID: 100,
		Name:        "Sprint 1",
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Questions:   []string{"Communication", "Delivery"},
	}, &created)
	require.Equal(t, http.StatusOK, code)
	require.NotZero(t, created.ID)
	base := "/api/v1/assignment/" + strconv.FormatInt(created.ID, 10)

	code, res := s.do(http.MethodPost, base+"/activate", 2, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Permission denied", res.Meta.Message)

	var activated struct {
		Activated bool `json:"activated"`
		Reviews   int  `json:"reviews"`
	}
	code, _ = s.do(http.MethodPost, base+"/activate", 1, nil, &activated)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, activated.Activated)
	assert.Equal(t, 2, activated.Reviews)

	var mine []types.Review
	code, _ = s.do(http.MethodGet, base+"/reviews", 2, nil, &mine)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(3), mine[0].TargetID)
	reviewPath := "/api/v1/review/" + strconv.FormatInt(mine[0].ID, 10)

	code, res = s.do(http.MethodPut, reviewPath, 2, handler.SubmitReviewRequest{Ratings: []int{4, 5, 3}}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Number of ratings does not match the number of questions", res.Meta.Message)

	code, _ = s.do(http.MethodPut, reviewPath, 3, handler.SubmitReviewRequest{Ratings: []int{4, 5}}, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPut, reviewPath, 2, handler.SubmitReviewRequest{Ratings: []int{4, 5}}, nil)
	require.Equal(t, http.StatusOK, code)

	var averages handler.RankedAveragesResponse
	code, _ = s.do(http.MethodGet, base+"/analytics/averages?page=1&pagesize=10", 1, nil, &averages)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, averages.List, 1)
	assert.Equal(t, int64(3), averages.List[0].UserID)
	assert.Equal(t, 4.5, averages.List[0].AverageRating)

	var completion types.CompletionPage
	code, _ = s.do(http.MethodGet, base+"/analytics/completion", 1, nil, &completion)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), completion.TotalResults)
	require.Len(t, completion.Results, 1)
	assert.Equal(t, int64(3), completion.Results[0].UserID)
}

func TestJournalOverHTTP(t *testing.T) {
	s := newTestServer(t)

	var weeks []types.JournalAssignment
	code, _ := s.do(http.MethodPost, "/api/v1/workspace/100/journal", 1, handler.JournalWindowsRequest{
		StartDate: "2026-02-22",
		EndDate:   "2026-03-14",
		Weekday:   "sunday",
	}, &weeks)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, weeks, 3)
	assert.Equal(t, "Week 1", weeks[0].Name)

	code, _ = s.do(http.MethodPost, "/api/v1/workspace/100/journal", 1, handler.JournalWindowsRequest{
		StartDate: "2026-02-22",
		EndDate:   "2026-03-14",
		Weekday:   "sunday",
	}, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, res := s.do(http.MethodGet, "/api/v1/journal/windows?start_date=2026-13-01&end_date=2026-03-15&weekday=1", 1, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid date", res.Meta.Message)

	code, _ = s.do(http.MethodGet, "/api/v1/journal/windows?start_date=2026-02-22&end_date=2026-03-14&weekday=someday", 1, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var preview []struct {
		Number int `json:"week_number"`
	}
	code, _ = s.do(http.MethodGet, "/api/v1/journal/windows?start_date=2026-02-22&end_date=2026-03-14&weekday=0&skip_weeks=2", 1, nil, &preview)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, preview, 2)
	assert.Equal(t, 1, preview[0].Number)
	assert.Equal(t, 3, preview[1].Number)

	var classified types.WeekClassification
	code, _ = s.do(http.MethodGet, "/api/v1/workspace/100/journal/weeks", 2, nil, &classified)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []int{1}, classified.Past)
	assert.Equal(t, []int{2}, classified.Current)
	assert.Equal(t, []int{3}, classified.Future)

	entryPath := "/api/v1/journal/" + strconv.FormatInt(weeks[1].ID, 10) + "/entry"
	code, _ = s.do(http.MethodPut, entryPath, 2, map[string]any{
		"content": map[string]any{"blocks": []any{}},
	}, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPut, "/api/v1/journal/"+strconv.FormatInt(weeks[2].ID, 10)+"/entry", 2, map[string]any{
		"content": map[string]any{"blocks": []any{}},
	}, nil)
	assert.Equal(t, http.StatusForbidden, code)

	var entry types.JournalEntryDetail
	code, _ = s.do(http.MethodGet, entryPath, 2, nil, &entry)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), entry.UserID)

	code, _ = s.do(http.MethodGet, entryPath+"?user_id=2", 3, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAuthorizationRequired(t *testing.T) {
	s := newTestServer(t)

	code, res := s.do(http.MethodGet, "/api/v1/workspace/100/assignments", 0, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized", res.Meta.Message)
	assert.NotEmpty(t, res.Meta.RequestID)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/mode", 0, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "peer_api_core_http_request_duration_seconds")
}
