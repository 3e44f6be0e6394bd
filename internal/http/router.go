package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterSensorRoutes 设备直报
func (r *Router) RegisterSensorRoutes(h *SensorHandler) {
	r.Handle("/api/v1/sensor-data", methodOnly(http.MethodPost, h.Ingest))
}

// RegisterDataRoutes 看板查询
func (r *Router) RegisterDataRoutes(h *DataHandler) {
	r.Handle("/data/api/v1/recent-data", methodOnly(http.MethodGet, h.RecentData))
	r.Handle("/data/api/v1/data", methodOnly(http.MethodGet, h.RangeData))
	r.Handle("/data/api/v1/summary", methodOnly(http.MethodGet, h.Summary))
	r.Handle("/data/api/v1/reports", methodOnly(http.MethodGet, h.Reports))
}

// RegisterScoreRoutes 每日评分
func (r *Router) RegisterScoreRoutes(h *ScoreHandler) {
	r.Handle("/data/api/v1/scores", methodOnly(http.MethodGet, h.List))
	r.Handle("/data/api/v1/scores/compute", methodOnly(http.MethodPost, h.Compute))
	r.Handle("/admin/api/v1/recompute-scores", methodOnly(http.MethodPost, h.RecomputeAll))
}

// RegisterAuthRoutes 登录
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/auth/api/v1/login", methodOnly(http.MethodPost, h.Login))
}

// RegisterExportRoutes Excel 导出
func (r *Router) RegisterExportRoutes(h *ExportHandler) {
	r.Handle("/admin/api/v1/export/readings", methodOnly(http.MethodGet, h.ExportReadings))
}

// RegisterCacheRoutes 缓存运维
func (r *Router) RegisterCacheRoutes(h *CacheHandler) {
	r.Handle("/admin/api/v1/cache/active-users", methodOnly(http.MethodGet, h.ActiveUsers))
}

// RegisterHealthRoute 探活
func (r *Router) RegisterHealthRoute() {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
}
