package httpapi

import (
	"net/http"
	"sort"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/store"

	"go.uber.org/zap"
)

// CacheHandler 缓存运维端点
type CacheHandler struct {
	cache  store.KV
	logger *zap.Logger
}

func NewCacheHandler(cache store.KV, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{cache: cache, logger: logger}
}

// ActiveUsers GET /admin/api/v1/cache/active-users
// 列出仍持有最新读数缓存的主体，即缓存有效期内有过上报的设备/用户。
func (h *CacheHandler) ActiveUsers(w http.ResponseWriter, r *http.Request) {
	keys, err := h.cache.ScanKeys(r.Context(), store.LatestReadingKeyPattern())
	if err != nil {
		h.logger.Error("Failed to scan latest reading cache", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to scan cache"))
		return
	}

	users := make([]string, 0, len(keys))
	for _, k := range keys {
		users = append(users, store.UserIDFromLatestKey(k))
	}
	sort.Strings(users)
	writeJSON(w, http.StatusOK, Ok(users))
}
