package httpapi

import (
	"net/http"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/service"

	"go.uber.org/zap"
)

// AuthHandler 登录端点
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// 入站请求统一 snake_case，与传感器 payload 保持一致
type loginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// Login POST /auth/api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid json body"))
		return
	}

	resp, err := h.auth.Login(r.Context(), service.LoginRequest{
		UserID:   req.UserID,
		Password: req.Password,
	})
	if err != nil {
		// 不区分"用户不存在/密码错误"，统一 401
		h.logger.Warn("Login rejected", zap.Error(err))
		writeJSON(w, http.StatusUnauthorized, Fail("invalid credentials"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}
