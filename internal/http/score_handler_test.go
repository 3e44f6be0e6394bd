package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/score"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReadingsSource struct {
	readings []*domain.Reading
	userIDs  []string
}

func (f *fakeReadingsSource) GetByTimeRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.Reading, error) {
	return f.readings, nil
}

func (f *fakeReadingsSource) DistinctUserIDs(ctx context.Context) ([]string, error) {
	return f.userIDs, nil
}

type fakeScoresRepo struct {
	scores []*domain.HealthScore
}

func (f *fakeScoresRepo) InsertScore(ctx context.Context, s *domain.HealthScore) (int64, error) {
	f.scores = append(f.scores, s)
	return int64(len(f.scores)), nil
}

func (f *fakeScoresRepo) ListScores(ctx context.Context, userID string, limit int) ([]*domain.HealthScore, error) {
	return f.scores, nil
}

func (f *fakeScoresRepo) GetLatestScore(ctx context.Context, userID string) (*domain.HealthScore, error) {
	if len(f.scores) == 0 {
		return nil, nil
	}
	return f.scores[0], nil
}

func newTestScoreHandler(src *fakeReadingsSource, scoresRepo *fakeScoresRepo) *ScoreHandler {
	engine := score.NewEngine(src, scoresRepo, zap.NewNop())
	return NewScoreHandler(engine, scoresRepo, testLocation(), zap.NewNop())
}

func sampleReading(spo2, pulse int, activity string) *domain.Reading {
	return &domain.Reading{SpO2: &spo2, Pulse: &pulse, Activity: &activity}
}

func TestScoreList(t *testing.T) {
	repo := &fakeScoresRepo{scores: []*domain.HealthScore{
		{ID: 1, UserID: "p-1", OverallScore: 98},
	}}
	h := newTestScoreHandler(&fakeReadingsSource{}, repo)

	req := httptest.NewRequest(http.MethodGet, "/data/api/v1/scores?user_id=p-1", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Result[[]*domain.HealthScore]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Result, 1)
	assert.Equal(t, 98, resp.Result[0].OverallScore)
}

func TestScoreCompute_WithDate(t *testing.T) {
	src := &fakeReadingsSource{readings: []*domain.Reading{
		sampleReading(97, 70, "sleeping"),
	}}
	repo := &fakeScoresRepo{}
	h := newTestScoreHandler(src, repo)

	body := `{"user_id":"p-1","date":"2024-03-15"}`
	req := httptest.NewRequest(http.MethodPost, "/data/api/v1/scores/compute", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Result[*domain.HealthScore]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, "p-1", resp.Result.UserID)
	assert.Equal(t, 94, resp.Result.SpO2Score)
	require.Len(t, repo.scores, 1)
}

func TestScoreCompute_NoReadings(t *testing.T) {
	h := newTestScoreHandler(&fakeReadingsSource{}, &fakeScoresRepo{})

	body := `{"user_id":"nobody"}`
	req := httptest.NewRequest(http.MethodPost, "/data/api/v1/scores/compute", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	// 无读数不是错误，result 为 null
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"result":null`)
}

func TestScoreCompute_Validation(t *testing.T) {
	h := newTestScoreHandler(&fakeReadingsSource{}, &fakeScoresRepo{})

	req := httptest.NewRequest(http.MethodPost, "/data/api/v1/scores/compute", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Compute(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/data/api/v1/scores/compute",
		strings.NewReader(`{"user_id":"p-1","date":"15/03/2024"}`))
	rec = httptest.NewRecorder()
	h.Compute(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestScoreRecomputeAll(t *testing.T) {
	src := &fakeReadingsSource{
		userIDs:  []string{"p-1", "p-2"},
		readings: []*domain.Reading{sampleReading(97, 70, "resting")},
	}
	repo := &fakeScoresRepo{}
	h := newTestScoreHandler(src, repo)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/v1/recompute-scores", nil)
	rec := httptest.NewRecorder()
	h.RecomputeAll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"computed":2`)
}
