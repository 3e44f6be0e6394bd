package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/repository"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/service"

	"go.uber.org/zap"
)

// DataHandler 看板数据查询端点
type DataHandler struct {
	reports service.ReportService
	loc     *time.Location
	logger  *zap.Logger
}

func NewDataHandler(reports service.ReportService, loc *time.Location, logger *zap.Logger) *DataHandler {
	return &DataHandler{reports: reports, loc: loc, logger: logger}
}

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("user_id is required"))
		return "", false
	}
	return userID, true
}

// RecentData GET /data/api/v1/recent-data?user_id=xxx
// 最近一个自然日的全部读数
func (h *DataHandler) RecentData(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	rows, err := h.reports.RecentData(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load recent data", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load recent data"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(rows))
}

// RangeData GET /data/api/v1/data?user_id=xxx&from=...&to=...&activity=...&limit=N
func (h *DataHandler) RangeData(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filters := repository.ReadingFilters{
		From:     parseTimeParam(q.Get("from"), h.loc),
		To:       parseTimeParam(q.Get("to"), h.loc),
		Activity: strings.TrimSpace(q.Get("activity")),
	}
	limit := parseInt(q.Get("limit"), 0)

	rows, err := h.reports.RangeData(r.Context(), userID, filters, limit)
	if err != nil {
		h.logger.Error("Failed to query readings", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to query readings"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(rows))
}

// Summary GET /data/api/v1/summary?user_id=xxx&from=...&to=...
func (h *DataHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filters := repository.ReadingFilters{
		From: parseTimeParam(q.Get("from"), h.loc),
		To:   parseTimeParam(q.Get("to"), h.loc),
	}

	summary, err := h.reports.Summary(r.Context(), userID, filters)
	if err != nil {
		h.logger.Error("Failed to summarize readings", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to summarize readings"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}

// Reports GET /data/api/v1/reports?user_id=xxx
func (h *DataHandler) Reports(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	report, err := h.reports.Reports(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build report", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to build report"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(report))
}
