package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/repository"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/score"

	"go.uber.org/zap"
)

// ScoreHandler 每日评分端点
type ScoreHandler struct {
	engine *score.Engine
	scores repository.HealthScoresRepository
	loc    *time.Location
	logger *zap.Logger
}

func NewScoreHandler(engine *score.Engine, scores repository.HealthScoresRepository, loc *time.Location, logger *zap.Logger) *ScoreHandler {
	return &ScoreHandler{engine: engine, scores: scores, loc: loc, logger: logger}
}

// List GET /data/api/v1/scores?user_id=xxx&limit=N
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := parseInt(r.URL.Query().Get("limit"), 0)
	scores, err := h.scores.ListScores(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to list scores", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to list scores"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(scores))
}

type computeScoreRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"` // YYYY-MM-DD，可选；缺省为滚动 24h 窗口
}

// Compute POST /data/api/v1/scores/compute
func (h *ScoreHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req computeScoreRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid json body"))
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("user_id is required"))
		return
	}

	var day *time.Time
	if req.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", req.Date, h.loc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("date must be YYYY-MM-DD"))
			return
		}
		day = &t
	}

	result, err := h.engine.ComputeDailyScore(r.Context(), req.UserID, day)
	if err != nil {
		h.logger.Error("Failed to compute score", zap.String("user_id", req.UserID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to compute score"))
		return
	}
	if result == nil {
		// 窗口内无读数，不算错误
		writeJSON(w, http.StatusOK, Result[any]{
			Code: ResultSuccess, Type: "success", Message: "no score available", Result: nil,
		})
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

// RecomputeAll POST /admin/api/v1/recompute-scores
// 全量重算：逐主体滚动 24h 评分，单个失败跳过
func (h *ScoreHandler) RecomputeAll(w http.ResponseWriter, r *http.Request) {
	computed, err := h.engine.RecomputeAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to recompute scores", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to recompute scores"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"computed": computed}))
}
