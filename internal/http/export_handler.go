package httpapi

import (
	"net/http"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/repository"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/service"

	"go.uber.org/zap"
)

// ExportHandler 读数 Excel 导出端点
type ExportHandler struct {
	reports service.ReportService
	logger  *zap.Logger
}

func NewExportHandler(reports service.ReportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{reports: reports, logger: logger}
}

// ExportReadings GET /admin/api/v1/export/readings?user_id=xxx&limit=N
func (h *ExportHandler) ExportReadings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 0)

	rows, err := h.reports.RangeData(r.Context(), userID, repository.ReadingFilters{}, limit)
	if err != nil {
		h.logger.Error("Failed to load readings for export", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load readings"))
		return
	}

	data, err := GenerateReadingsExport(rows)
	if err != nil {
		h.logger.Error("Failed to generate export", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename(userID)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
