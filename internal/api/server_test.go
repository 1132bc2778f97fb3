package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echohealth-screening-server/internal/domain"
	"github.com/echohealth-screening-server/pkg/classifier"
)

type stubSubmitter struct {
	assessment *domain.Assessment
	err        error
	lastToken  string
	events     []string
}

func (s *stubSubmitter) Submit(_ context.Context, _ *domain.SymptomProfile, token string) (*domain.Assessment, error) {
	s.lastToken = token
	return s.assessment, s.err
}

func (s *stubSubmitter) RecordUpload(_ context.Context, _ *classifier.Response) (*domain.Assessment, error) {
	return s.assessment, s.err
}

func (s *stubSubmitter) RecordEvent(_ context.Context, title, _ string) error {
	s.events = append(s.events, title)
	return s.err
}

type stubHistoryReader struct {
	records  []domain.ActivityRecord
	listErr  error
	likeID   int64
	liked    bool
	cleared  bool
	countErr error
}

func (s *stubHistoryReader) List(_ context.Context, _ int) ([]domain.ActivityRecord, error) {
	return s.records, s.listErr
}

func (s *stubHistoryReader) SetLiked(_ context.Context, id int64, liked bool) error {
	s.likeID = id
	s.liked = liked
	return nil
}

func (s *stubHistoryReader) Clear(_ context.Context) error {
	s.cleared = true
	return nil
}

func (s *stubHistoryReader) Count(_ context.Context) (int64, error) {
	return int64(len(s.records)), s.countErr
}

type stubRecentReader struct {
	entries []domain.RecentActivity
	cleared bool
}

func (s *stubRecentReader) List(_ context.Context, _ int) ([]domain.RecentActivity, error) {
	return s.entries, nil
}

func (s *stubRecentReader) Clear(_ context.Context) error {
	s.cleared = true
	return nil
}

func testServer(orch Submitter, history HistoryReader, recent RecentReader) *Server {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &domain.Config{}
	cfg.Logging.Level = "error"

	return NewServer(cfg, orch, history, recent, logger)
}

func testAssessment() *domain.Assessment {
	return &domain.Assessment{
		Score:           92,
		Tier:            domain.TierHigh,
		Source:          domain.SourceRemote,
		Recommendations: []string{"See a specialist"},
		WarningSigns:    []string{"Persistent sores"},
		NextSteps:       []string{"Book an appointment"},
		CreatedAt:       time.Now(),
	}
}

func validProfileBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(domain.SymptomProfile{
		Age:        55,
		Gender:     domain.GenderMale,
		TobaccoUse: true,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHandleAssessSuccess(t *testing.T) {
	orch := &stubSubmitter{assessment: testAssessment()}
	srv := testServer(orch, &stubHistoryReader{}, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", validProfileBody(t))
	req.Header.Set("Authorization", "Bearer secret-token")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret-token", orch.lastToken)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(92), resp["risk_score"])
	assert.Equal(t, "HIGH", resp["risk_level"])
	assert.Equal(t, true, resp["recorded"])
}

func TestHandleAssessErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", domain.NewValidationError("age", "age must be between 1 and 120", 0), http.StatusBadRequest},
		{"submission in flight", domain.ErrSubmissionInFlight, http.StatusConflict},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"cancelled", context.Canceled, http.StatusRequestTimeout},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(&stubSubmitter{err: tt.err}, &stubHistoryReader{}, &stubRecentReader{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", validProfileBody(t))
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandleAssessStorageFaultStillReturnsAssessment(t *testing.T) {
	orch := &stubSubmitter{
		assessment: testAssessment(),
		err:        domain.ErrStorageFault,
	}
	srv := testServer(orch, &stubHistoryReader{}, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", validProfileBody(t))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(92), resp["risk_score"])
	assert.Equal(t, false, resp["recorded"])
}

func TestHandleUploadResultMalformed(t *testing.T) {
	srv := testServer(&stubSubmitter{err: domain.ErrMalformedResponse}, &stubHistoryReader{}, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/result", bytes.NewBufferString(`{"message":"ok"}`))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEvent(t *testing.T) {
	orch := &stubSubmitter{}
	srv := testServer(orch, &stubHistoryReader{}, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewBufferString(`{"title":"Profile Updated"}`))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"Profile Updated"}, orch.events)
}

func TestHandleEventMissingTitle(t *testing.T) {
	srv := testServer(&stubSubmitter{}, &stubHistoryReader{}, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewBufferString(`{"description":"no title"}`))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListActivities(t *testing.T) {
	history := &stubHistoryReader{
		records: []domain.ActivityRecord{
			{ID: 2, Title: "Symptom Check", Type: domain.ActivitySymptoms},
			{ID: 1, Title: "Report Upload", Type: domain.ActivityUpload},
		},
	}
	srv := testServer(&stubSubmitter{}, history, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Activities []domain.ActivityRecord `json:"activities"`
		Count      int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, int64(2), resp.Activities[0].ID)
}

func TestHandleLikeActivity(t *testing.T) {
	history := &stubHistoryReader{}
	srv := testServer(&stubSubmitter{}, history, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities/7/like", bytes.NewBufferString(`{"liked":true}`))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(7), history.likeID)
	assert.True(t, history.liked)
}

func TestHandleLikeActivityBadID(t *testing.T) {
	srv := testServer(&stubSubmitter{}, &stubHistoryReader{}, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities/not-a-number/like", bytes.NewBufferString(`{"liked":true}`))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleClearActivitiesClearsBothTiers(t *testing.T) {
	history := &stubHistoryReader{}
	recent := &stubRecentReader{}
	srv := testServer(&stubSubmitter{}, history, recent)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/activities", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, history.cleared)
	assert.True(t, recent.cleared)
}

func TestHandleListRecent(t *testing.T) {
	recent := &stubRecentReader{
		entries: []domain.RecentActivity{
			{Title: "Symptom Check", RiskLevel: strPtr("High Risk")},
		},
	}
	srv := testServer(&stubSubmitter{}, &stubHistoryReader{}, recent)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recent", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recent []domain.RecentActivity `json:"recent"`
		Count  int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Symptom Check", resp.Recent[0].Title)
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(&stubSubmitter{}, &stubHistoryReader{}, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHandleHealthUnhealthy(t *testing.T) {
	history := &stubHistoryReader{countErr: errors.New("db gone")}
	srv := testServer(&stubSubmitter{}, history, &stubRecentReader{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func strPtr(s string) *string { return &s }
