package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/ingest"

	"go.uber.org/zap"
)

// Ingestor 实时上报入库接口（由 ingest.Pipeline 实现）
type Ingestor interface {
	IngestPayload(ctx context.Context, payload map[string]any) (int64, error)
}

// SensorHandler 设备直报端点
type SensorHandler struct {
	ingestor Ingestor
	apiKey   string // 为空则不校验
	logger   *zap.Logger
}

func NewSensorHandler(ingestor Ingestor, apiKey string, logger *zap.Logger) *SensorHandler {
	return &SensorHandler{ingestor: ingestor, apiKey: apiKey, logger: logger}
}

// Ingest POST /api/v1/sensor-data
// 单条 JSON 对象；成功返回 201 + 库内 ID
func (h *SensorHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if h.apiKey != "" && r.Header.Get("X-API-KEY") != h.apiKey {
		writeJSON(w, http.StatusUnauthorized, Fail("invalid api key"))
		return
	}

	var payload map[string]any
	if err := readBodyJSON(r, 1<<20, &payload); err != nil || payload == nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid json body"))
		return
	}

	id, err := h.ingestor.IngestPayload(r.Context(), payload)
	if err != nil {
		if errors.Is(err, ingest.ErrMissingIdentity) {
			writeJSON(w, http.StatusBadRequest, Fail("missing_identity"))
			return
		}
		h.logger.Error("Failed to ingest sensor payload", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("store_error"))
		return
	}

	writeJSON(w, http.StatusCreated, Ok(map[string]any{"id": id}))
}
